package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syssam/icegraph/compiler/gen"
	"github.com/syssam/icegraph/compiler/load"
	"github.com/syssam/icegraph/internal/cli/config"
	"github.com/syssam/icegraph/internal/watch"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var watchMode bool
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a typed graph package from a schema",
		Long: `Generate compiles a schema file (YAML or JSON) into a Go package with one file
per kind plus kinds.go holding the kind lists and the runtime registry.

Examples:
  icegraph generate --schema schema.yml --target ./graph
  icegraph generate --schema schema.yml --target ./graph --package graph --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			run := func(ctx context.Context) error {
				graph, err := generate(ctx, cfg.Generate)
				if err != nil {
					return err
				}
				successColor.Fprintf(out, "✓ Generated %d node kinds and %d edge kinds into %s\n",
					len(graph.Nodes), len(graph.Edges), cfg.Generate.Target)
				return nil
			}
			if err := run(cmd.Context()); err != nil {
				if !watchMode {
					return err
				}
				errorColor.Fprintln(out, "✗", err)
			}
			if !watchMode {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			w, err := watch.New([]string{cfg.Generate.Schema}, func(ctx context.Context, _ []string) error {
				infoColor.Fprintf(out, "%s changed, regenerating\n", cfg.Generate.Schema)
				if err := run(ctx); err != nil {
					errorColor.Fprintln(out, "✗", err)
				}
				return nil
			}, watch.WithLogger(logger))
			if err != nil {
				return err
			}
			infoColor.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", cfg.Generate.Schema)
			return w.Run(ctx)
		},
	}
	cmd.Flags().String("schema", "", "schema file (default schema.yml)")
	cmd.Flags().String("target", "", "output directory of the generated package")
	cmd.Flags().String("package", "", "package name (default: base name of --target)")
	cmd.Flags().String("header", "", "header comment of generated files")
	cmd.Flags().Int("workers", 0, "files rendered in parallel (default GOMAXPROCS)")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "regenerate whenever the schema changes")
	return cmd
}

func generate(ctx context.Context, cfg config.GenerateConfig) (*gen.Graph, error) {
	schema, err := load.Load(cfg.Schema)
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{gen.WithTarget(cfg.Target)}
	if cfg.Package != "" {
		opts = append(opts, gen.WithPackage(cfg.Package))
	}
	if cfg.Header != "" {
		opts = append(opts, gen.WithHeader(cfg.Header))
	}
	if cfg.Workers > 0 {
		opts = append(opts, gen.WithWorkers(cfg.Workers))
	}
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	graph, err := gen.NewGraph(c, schema)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", cfg.Schema, err)
	}
	if err := gen.Generate(ctx, graph); err != nil {
		return nil, err
	}
	return graph, nil
}
