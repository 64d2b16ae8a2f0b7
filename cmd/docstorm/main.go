// Package main is the entry point for the docstorm command.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/docstorm/internal/engine"
	"github.com/dshills/docstorm/internal/engine/schema"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	schemaPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "docstorm",
		Short: "Structural editing tools for HTML fragments",
		Long: `Docstorm applies the structural editing core to an HTML fragment.

Each command reads markup from a file argument or stdin, runs one
operation over the fragment and writes the result to stdout:

  split      divide ancestors at a position
  merge      merge adjacent mergeable siblings
  collapse   remove redundant same-tag wrappers
  prune      drop empty nodes
  normalize  merge, collapse and prune in sequence
  strip      remove formatting whitespace
  tree       print the node structure`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.schemaPath, "schema", "", "Tag-classification table (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log operations to stderr")

	rootCmd.AddCommand(
		splitCmd(opts),
		mergeCmd(opts),
		collapseCmd(opts),
		pruneCmd(opts),
		normalizeCmd(opts),
		stripCmd(opts),
		treeCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// table loads the schema named by --schema, or the default one.
func (o *globalOptions) table() (*schema.Table, error) {
	if o.schemaPath == "" {
		return schema.Default(), nil
	}
	return schema.Load(o.schemaPath)
}

func (o *globalOptions) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// readInput returns the contents of args[0], or stdin without arguments.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", args[0])
	}
	return string(data), nil
}

// openEditor builds an editor over the command input. Surrounding
// whitespace of the input is ignored.
func (o *globalOptions) openEditor(cmd *cobra.Command, args []string) (*engine.Editor, error) {
	src, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	tbl, err := o.table()
	if err != nil {
		return nil, err
	}
	log, err := o.logger()
	if err != nil {
		return nil, errors.Wrap(err, "creating logger")
	}
	return engine.New(
		engine.WithContent(strings.TrimSpace(src)),
		engine.WithSchema(tbl),
		engine.WithLogger(log),
	)
}

// printContent writes the rendered document followed by a newline.
func printContent(cmd *cobra.Command, e *engine.Editor) error {
	out, err := e.Content()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
