package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lockguard/internal/ui/report"
)

func (c *CLI) newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry <url>...",
		Short: "Print the canonical form of registry or tarball URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regs := c.app.Registries(args)

			r := report.NewRenderer(cmd.OutOrStdout())
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return r.RegistriesJSON(regs)
			}
			return r.Registries(regs)
		},
	}
	cmd.Flags().Bool("json", false, "Print registries as JSON")
	return cmd
}
