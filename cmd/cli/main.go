package main

import (
	"fmt"
	"os"

	"github.com/crucial707/chatboard/cmd/cli/admin"
	"github.com/crucial707/chatboard/cmd/cli/auth"
	"github.com/crucial707/chatboard/cmd/cli/messages"
	"github.com/crucial707/chatboard/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	messages.InitMessages(rootCmd)
	admin.InitAdmin(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
