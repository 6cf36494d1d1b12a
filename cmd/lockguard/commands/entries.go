package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.trai.ch/lockguard/internal/ui/report"
)

func (c *CLI) newEntriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries <lockfile>",
		Short: "Print the packages recorded in a lockfile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.app.Entries(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			r := report.NewRenderer(cmd.OutOrStdout())
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return r.EntriesJSON(entries)
			}
			return r.Entries(filepath.Base(args[0]), entries)
		},
	}
	cmd.Flags().Bool("json", false, "Print entries as JSON")
	return cmd
}
