package auth

import (
	"bufio"
	"fmt"
	"net/http"
	"os"

	"github.com/crucial707/chatboard/cmd/cli/client"
	"github.com/crucial707/chatboard/cmd/cli/config"
	"github.com/crucial707/chatboard/cmd/cli/prompt"
	"github.com/spf13/cobra"
)

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// InitAuth registers register, login, logout and me on the root command.
func InitAuth(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		registerCmd(),
		loginCmd(),
		logoutCmd(),
		meCmd(),
	)
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	var username, password string
	var admin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := prompt.Credentials(bufio.NewReader(os.Stdin), os.Stdout, username, password)
			if err != nil {
				return err
			}

			var u user
			payload := map[string]any{"username": username, "password": password, "isAdmin": admin}
			if err := client.New().Call(http.MethodPost, "/api/register", payload, &u); err != nil {
				return fmt.Errorf("failed to register user: %w", err)
			}

			fmt.Printf("User %q registered (id %d). You can now login.\n", u.Username, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Request admin rights at registration")
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := prompt.Credentials(bufio.NewReader(os.Stdin), os.Stdout, username, password)
			if err != nil {
				return err
			}

			var u user
			payload := map[string]string{"username": username, "password": password}
			if err := client.New().Call(http.MethodPost, "/api/login", payload, &u); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}

			sid, err := config.LoadSession()
			if err != nil {
				return err
			}
			if sid == "" {
				return fmt.Errorf("login succeeded but no session cookie returned")
			}

			fmt.Printf("Logged in as %s.\n", u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the server and forget it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := config.LoadSession()
			if err != nil {
				return err
			}
			if sid == "" {
				fmt.Println("No user logged in.")
				return nil
			}

			callErr := client.New().Call(http.MethodPost, "/api/logout", nil, nil)
			// The local copy goes either way.
			if _, err := config.ClearSession(); err != nil {
				return err
			}
			if callErr != nil {
				return fmt.Errorf("server logout failed: %w", callErr)
			}

			fmt.Println("Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Me
// ==========================
func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var u user
			if err := client.New().CallAuthed(http.MethodGet, "/api/me", nil, &u); err != nil {
				return err
			}

			role := "user"
			if u.IsAdmin {
				role = "admin"
			}
			fmt.Printf("%s (id %d, %s)\n", u.Username, u.ID, role)
			return nil
		},
	}
}
