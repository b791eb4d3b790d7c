package messages

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/crucial707/chatboard/cmd/cli/client"
	"github.com/crucial707/chatboard/cmd/cli/output"
	"github.com/spf13/cobra"
)

type message struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
}

// ==========================
// Init Messages
// ==========================
func InitMessages(rootCmd *cobra.Command) {
	messagesCmd := &cobra.Command{
		Use:   "messages",
		Short: "Read and post messages",
	}

	messagesCmd.AddCommand(
		listMessagesCmd(),
		postMessageCmd(),
	)

	rootCmd.AddCommand(messagesCmd)
}

// ==========================
// LIST
// ==========================
func listMessagesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the board, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var msgs []message
			if err := client.New().CallAuthed(http.MethodGet, "/api/messages", nil, &msgs); err != nil {
				return err
			}

			if asJSON {
				return output.PrintJSON(msgs)
			}

			if len(msgs) == 0 {
				fmt.Println("No messages yet.")
				return nil
			}

			rows := make([][]interface{}, 0, len(msgs))
			for _, m := range msgs {
				rows = append(rows, []interface{}{
					m.ID,
					m.Timestamp.Local().Format("2006-01-02 15:04:05"),
					m.Username,
					m.Content,
				})
			}
			output.RenderTable([]string{"ID", "Time", "User", "Message"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

// ==========================
// POST
// ==========================
func postMessageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post <content>",
		Short: "Post a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m message
			payload := map[string]string{"content": strings.Join(args, " ")}
			if err := client.New().CallAuthed(http.MethodPost, "/api/messages", payload, &m); err != nil {
				return err
			}

			fmt.Printf("Posted message %d as %s.\n", m.ID, m.Username)
			return nil
		},
	}
}
