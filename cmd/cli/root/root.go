package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "chatboard",
	Short:         "Chat board CLI",
	Long:          "Command line interface for the chat board API. Set CHATBOARD_API_URL to target a non-local server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
