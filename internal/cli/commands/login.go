package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/session"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the PovertyLine server",
		Long:  `Log in to the configured PovertyLine server and store the access token in the OS keyring.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runLogin(store, os.Stdout, username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username or email (or set POVERTYLINE_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set POVERTYLINE_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(store *session.Store, out io.Writer, username, password string) error {
	if username == "" {
		username = os.Getenv("POVERTYLINE_USERNAME")
	}
	if password == "" {
		password = os.Getenv("POVERTYLINE_PASSWORD")
	}

	if username == "" {
		return fmt.Errorf("username is required (use --username flag or POVERTYLINE_USERNAME env var)")
	}

	if password == "" {
		entered, err := promptPassword()
		if err != nil {
			return err
		}
		password = entered
	}

	fmt.Fprintf(out, "Logging in to %s...\n", store.Client().Server())

	user, err := store.Login(context.Background(), username, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Login successful!")
	fmt.Fprintf(out, "  User: %s (%s)\n", user.Username, user.Email)
	fmt.Fprintf(out, "  Role: %s\n", user.Role)

	return nil
}
