package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/session"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored token",
		Long:  `Revoke the session on the server when reachable and remove the token from the OS keyring either way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runLogout(store, os.Stdout)
		},
	}
}

func runLogout(store *session.Store, out io.Writer) error {
	if err := store.Logout(context.Background()); err != nil {
		return fmt.Errorf("failed to clear stored token: %w", err)
	}

	fmt.Fprintln(out, "✓ Logged out")
	return nil
}
