// Command icegraph generates typed graph packages from schema files and inspects the
// stores they are persisted in.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/icegraph/internal/cli/config"
)

// Version is set at build time.
var Version = "dev"

var (
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		errorColor.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "icegraph",
		Short: "Typed graph code generator and store inspector",
		Long: `icegraph compiles a graph schema (node kinds, edge kinds and their connection
rules) into a Go package of typed records, and inspects the embedded stores those
records are persisted in.

Configuration is read from icegraph.yaml in the working directory, ICEGRAPH_*
environment variables and flags, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./icegraph.yaml)")
	cmd.PersistentFlags().Bool("verbose", false, "log debug output")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newFamiliesCmd(opts),
		newCountCmd(opts),
		newHeadCmd(opts),
		newDestroyCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configFile, cmd)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the icegraph version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "icegraph version %s\n", Version)
		},
	}
}
