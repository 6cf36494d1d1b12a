// Package commands implements the CLI commands for lockguard.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/lockguard/internal/app"
	"go.trai.ch/lockguard/internal/build"
	"go.trai.ch/lockguard/internal/core/domain"
	"go.trai.ch/lockguard/internal/ui/report"
)

// CLI represents the command line interface for lockguard.
type CLI struct {
	app     Application
	logs    app.LogControl
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Audit(ctx context.Context, dir string, opts app.AuditOptions) (*domain.Report, error)
	Entries(ctx context.Context, path string) ([]domain.LockEntry, error)
	Registries(inputs []string) []report.Registry
}

// New creates a new CLI instance with the given app. logs may be nil.
func New(a Application, logs app.LogControl) *CLI {
	rootCmd := &cobra.Command{
		Use:           "lockguard",
		Short:         "Audit JavaScript lockfiles for integrity and policy violations",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	c := &CLI{
		app:     a,
		logs:    logs,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.logs == nil {
			return
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		c.logs.SetVerbose(verbose)
		c.logs.SetJSON(logJSON)
	}

	rootCmd.AddCommand(c.newAuditCmd())
	rootCmd.AddCommand(c.newEntriesCmd())
	rootCmd.AddCommand(c.newRegistryCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
