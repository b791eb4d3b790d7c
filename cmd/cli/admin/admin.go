package admin

import (
	"fmt"
	"net/http"

	"github.com/crucial707/chatboard/cmd/cli/client"
	"github.com/crucial707/chatboard/cmd/cli/users"
	"github.com/spf13/cobra"
)

// InitAdmin registers the admin command group.
func InitAdmin(rootCmd *cobra.Command) {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands",
	}

	adminCmd.AddCommand(
		makeFirstAdminCmd(),
		users.NewUsersCmd(),
	)

	rootCmd.AddCommand(adminCmd)
}

func makeFirstAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-first-admin",
		Short: "Grant admin rights to the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Username string `json:"username"`
				Message  string `json:"message"`
			}
			if err := client.New().CallAuthed(http.MethodPost, "/api/make-first-admin", nil, &out); err != nil {
				return err
			}

			fmt.Printf("%s: %s\n", out.Username, out.Message)
			return nil
		},
	}
}
