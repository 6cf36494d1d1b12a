package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/lockguard/internal/adapters/config"
	"go.trai.ch/lockguard/internal/app"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/ui/report"
	"go.trai.ch/zerr"
)

func (c *CLI) newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [dir]",
		Short: "Audit the lockfiles of a project",
		Long: "Audit runs the enabled checks over every lockfile in dir (default: the current\n" +
			"directory). Without a lockfile, dependencies are resolved from package.json.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			opts, err := auditOptions(cmd)
			if err != nil {
				return err
			}

			rep, err := c.app.Audit(cmd.Context(), dir, opts)
			if err != nil {
				return err
			}

			r := report.NewRenderer(cmd.OutOrStdout())
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				err = r.JSON(rep)
			} else {
				err = r.Text(rep)
			}
			if err != nil {
				return zerr.Wrap(err, "failed to write report")
			}

			if rep.Failed() {
				return domain.ErrAuditFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("checks", nil, "Checks to run (default from configuration): "+checkNames())
	cmd.Flags().StringSlice("algorithms", nil, "Allowed integrity algorithms, e.g. sha512,sha384")
	cmd.Flags().Bool("no-cache", false, "Do not read artifacts from the local npm cache")
	cmd.Flags().Bool("no-network", false, "Never download artifacts or manifests")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	cmd.Flags().IntP("concurrency", "j", 0, "Maximum concurrent verifications (default from configuration)")
	cmd.Flags().BoolP("recursive", "r", false, "Audit every package.json directory below dir")
	cmd.Flags().Bool("progress", false, "Show verification progress on stderr")
	return cmd
}

func auditOptions(cmd *cobra.Command) (app.AuditOptions, error) {
	var opts app.AuditOptions

	names, _ := cmd.Flags().GetStringSlice("checks")
	for _, name := range names {
		check, ok := domain.ParseCheckName(strings.TrimSpace(name))
		if !ok {
			return opts, zerr.With(domain.ErrUnknownCheck, "check", name)
		}
		opts.Checks = append(opts.Checks, check)
	}

	algorithms, _ := cmd.Flags().GetStringSlice("algorithms")
	if len(algorithms) > 0 {
		parsed, err := config.ParseAlgorithms(algorithms)
		if err != nil {
			return opts, err
		}
		opts.Algorithms = parsed
	}

	opts.NoCache, _ = cmd.Flags().GetBool("no-cache")
	opts.NoNetwork, _ = cmd.Flags().GetBool("no-network")
	opts.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	opts.Recursive, _ = cmd.Flags().GetBool("recursive")
	opts.Progress, _ = cmd.Flags().GetBool("progress")
	return opts, nil
}

func checkNames() string {
	checks := domain.AllChecks()
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
