package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/icegraph/dialect"
	"github.com/syssam/icegraph/engine"
)

// storeFlags adds the flags selecting the store to cmd.
func storeFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "store location: a directory for badger, a file for bolt and sqlite")
	cmd.Flags().String("dialect", "", "store dialect: badger, bolt or sqlite (default badger)")
	cmd.Flags().String("codec", "", "record codec: msgpack or json (default msgpack)")
}

// openStore opens the configured store. It refuses to create a store that does not exist.
func (o *rootOptions) openStore(cmd *cobra.Command, extra ...engine.Option) (*engine.Engine, error) {
	cfg, logger, err := o.load(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireStore(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.Store.Path); err != nil {
		return nil, fmt.Errorf("store %s: %w", cfg.Store.Path, err)
	}
	opts := []engine.Option{
		engine.WithDialect(cfg.Store.Dialect),
		engine.WithCodec(cfg.Codec()),
		engine.WithHeadSize(cfg.Store.HeadSize),
		engine.WithLogger(logger),
	}
	if cfg.Verbose {
		opts = append(opts, engine.WithDebug())
	}
	return engine.Open(cfg.Store.Path, append(opts, extra...)...)
}

func newFamiliesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "families",
		Short: "List the families of a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()
			families, err := eng.Families(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range families {
				if f == dialect.DefaultFamily {
					fmt.Fprintf(out, "%s %s\n", f, infoColor.Sprint("(reserved)"))
					continue
				}
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}
	storeFlags(cmd)
	return cmd
}

func newCountCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count [family...]",
		Short: "Count the records of a store",
		Long: `Count scans the given families, or every family but the reserved default one,
and prints the number of records in each along with the total.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()
			ctx := cmd.Context()
			families := args
			if len(families) == 0 {
				all, err := eng.Families(ctx)
				if err != nil {
					return err
				}
				for _, f := range all {
					if f != dialect.DefaultFamily {
						families = append(families, f)
					}
				}
			}
			out := cmd.OutOrStdout()
			total := 0
			for _, f := range families {
				n, err := eng.Count(ctx, f)
				if err != nil {
					return err
				}
				total += n
				fmt.Fprintf(out, "%-24s %d\n", f, n)
			}
			successColor.Fprintf(out, "%-24s %d\n", "total", total)
			return nil
		},
	}
	storeFlags(cmd)
	return cmd
}

func newHeadCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "head",
		Short: "Print the first records of every family",
		Long: `Head prints the first entries of every family. Values are shown as JSON when
the store uses the JSON codec, and as a hex prefix with their size otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()
			return eng.DisplayFamilyHead(cmd.Context(), cmd.OutOrStdout(), nil)
		},
	}
	storeFlags(cmd)
	cmd.Flags().IntP("head", "n", 0, "entries per family (default 5)")
	return cmd
}

func newDestroyCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Drop every family of a store",
		Long: `Destroy drops every family except the reserved default one, with all their
records. This cannot be undone, so --yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to destroy the store without --yes")
			}
			eng, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()
			ctx := cmd.Context()
			n, err := eng.CountRecords(ctx)
			if err != nil {
				return err
			}
			if err := eng.DestroyEverything(ctx); err != nil {
				return err
			}
			warningColor.Fprintf(cmd.OutOrStdout(), "Destroyed %d records\n", n)
			return nil
		},
	}
	storeFlags(cmd)
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm destruction")
	return cmd
}
