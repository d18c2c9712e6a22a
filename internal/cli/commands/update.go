package commands

import (
	"github.com/spf13/cobra"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/update"
)

// NewUpdateCmd creates the update command
func NewUpdateCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update the CLI to the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			return update.SelfUpdate(version)
		},
	}
}
