package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/session"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var username, email, password, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a PovertyLine account",
		Long:  `Register a new account with the PovertyLine server and log in with it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSession()
			if err != nil {
				return err
			}
			return runRegister(store, os.Stdout, username, email, password, role)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set POVERTYLINE_USERNAME)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set POVERTYLINE_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set POVERTYLINE_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&role, "role", "", "Account role: user or provider (interactive prompt if omitted)")

	return cmd
}

func runRegister(store *session.Store, out io.Writer, username, email, password, role string) error {
	if username == "" {
		username = os.Getenv("POVERTYLINE_USERNAME")
	}
	if email == "" {
		email = os.Getenv("POVERTYLINE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("POVERTYLINE_PASSWORD")
	}

	if username == "" {
		return fmt.Errorf("username is required (use --username flag or POVERTYLINE_USERNAME env var)")
	}
	if email == "" {
		return fmt.Errorf("email is required (use --email flag or POVERTYLINE_EMAIL env var)")
	}

	if role == "" {
		// Admin accounts are provisioned on the server, so the prompt does
		// not offer them.
		selected, err := promptChoice("Select account role", []string{"user", "provider"})
		if err != nil {
			return err
		}
		role = selected
	}

	if password == "" {
		entered, err := promptPassword()
		if err != nil {
			return err
		}
		password = entered
	}

	fmt.Fprintf(out, "Registering with %s...\n", store.Client().Server())

	user, err := store.Register(context.Background(), session.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Registration successful!")
	fmt.Fprintf(out, "  User: %s (%s)\n", user.Username, user.Email)
	fmt.Fprintf(out, "  Role: %s\n", user.Role)

	return nil
}
