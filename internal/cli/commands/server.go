package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/userconfig"
)

// NewServerCmd creates the server command group
func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Manage the API server the CLI talks to",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the configured server URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServerShow(os.Stdout)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <url>",
		Short: "Point the CLI at a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServerSet(os.Stdout, args[0])
		},
	})

	return cmd
}

func runServerShow(out io.Writer) error {
	serverURL, err := userconfig.GetServerURL()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, serverURL)
	return nil
}

func runServerSet(out io.Writer, serverURL string) error {
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		return fmt.Errorf("server URL must start with http:// or https://")
	}

	if err := userconfig.SetServerURL(serverURL); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	fmt.Fprintf(out, "✓ Server set to %s\n", serverURL)
	fmt.Fprintln(out, "Tokens are stored per server, so log in again if you have not used this one before.")
	return nil
}
