package users

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/crucial707/chatboard/cmd/cli/client"
	"github.com/crucial707/chatboard/cmd/cli/output"
	"github.com/spf13/cobra"
)

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NewUsersCmd returns the admin "users" command group.
func NewUsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users (admin only)",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		deleteUserCmd(),
		promoteUserCmd(),
	)
	return usersCmd
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []user
			if err := client.New().CallAuthed(http.MethodGet, "/api/admin/users", nil, &users); err != nil {
				return err
			}

			if asJSON {
				return output.PrintJSON(users)
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.IsAdmin})
			}
			output.RenderTable([]string{"ID", "Username", "Admin"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user and all their messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var out struct {
				Message string `json:"message"`
			}
			if err := client.New().CallAuthed(http.MethodDelete, "/api/admin/users/"+strconv.Itoa(id), nil, &out); err != nil {
				return err
			}

			fmt.Println(out.Message)
			return nil
		},
	}
}

// ==========================
// PROMOTE
// ==========================
func promoteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <id>",
		Short: "Grant admin rights to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var u user
			path := "/api/admin/users/" + strconv.Itoa(id) + "/make-admin"
			if err := client.New().CallAuthed(http.MethodPatch, path, nil, &u); err != nil {
				return err
			}

			fmt.Printf("%s is now an admin.\n", u.Username)
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}
