package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/docstorm/internal/engine"
	"github.com/dshills/docstorm/internal/engine/address"
	"github.com/dshills/docstorm/internal/engine/dom"
	"github.com/dshills/docstorm/internal/engine/markup"
	"github.com/dshills/docstorm/internal/engine/normalize"
)

// run wraps an operation on a freshly opened editor and prints the result.
func run(opts *globalOptions, op func(cmd *cobra.Command, e *engine.Editor) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := opts.openEditor(cmd, args)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := op(cmd, e); err != nil {
			return err
		}
		return printContent(cmd, e)
	}
}

func splitCmd(opts *globalOptions) *cobra.Command {
	var (
		path   string
		offset int
		depth  int
	)

	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Split the ancestors of a position",
		Long: `Split divides the ancestors of --path:--offset into left and right
halves, up to --depth levels (0 means up to the first boundary).`,
		Example: `  echo '<p>AB</p>' | docstorm split --path 0/0 --offset 1`,
		Args:    cobra.MaximumNArgs(1),
		RunE: run(opts, func(cmd *cobra.Command, e *engine.Editor) error {
			p, err := address.ParsePath(path)
			if err != nil {
				return err
			}
			res, err := e.Split(address.Position{Path: p, Offset: offset}, depth)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "seam %s, %d levels\n", res.Seam, res.Levels)
			return nil
		}),
	}

	cmd.Flags().StringVar(&path, "path", "", "Path of the split node, e.g. 0/0")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset inside the node")
	cmd.Flags().IntVar(&depth, "depth", 1, "Maximum number of levels to split")
	return cmd
}

func mergeCmd(opts *globalOptions) *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "merge [file]",
		Short: "Merge adjacent mergeable siblings in a single pass",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(opts, func(_ *cobra.Command, e *engine.Editor) error {
			merge := e.MergeSiblings
			if text {
				merge = e.MergeText
			}
			_, err := merge(e.Root(), nil)
			return err
		}),
	}
	cmd.Flags().BoolVar(&text, "text", false, "Join adjacent text nodes only")
	return cmd
}

func collapseCmd(opts *globalOptions) *cobra.Command {
	var allow []string

	cmd := &cobra.Command{
		Use:   "collapse [file]",
		Short: "Remove redundant same-tag wrappers",
		Long: `Collapse removes an element whose only child is an element with the
same tag. Without --allow the schema's collapse script or allow list
decides which tags may collapse.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run(opts, func(_ *cobra.Command, e *engine.Editor) error {
			var validate engine.Validator
			if len(allow) > 0 {
				validate = normalize.AllowTags(allow...)
			}
			return e.CollapseNested(e.Root(), validate)
		}),
	}

	cmd.Flags().StringSliceVar(&allow, "allow", nil, "Tags allowed to collapse, e.g. b,i")
	return cmd
}

func pruneCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune [file]",
		Short: "Remove empty text nodes and empty elements",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(opts, func(_ *cobra.Command, e *engine.Editor) error {
			return e.PruneEmpty(e.Root(), nil)
		}),
	}
}

func normalizeCmd(opts *globalOptions) *cobra.Command {
	var keep string

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Merge, collapse and prune",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(opts, func(_ *cobra.Command, e *engine.Editor) error {
			var keepNode *dom.Node
			if keep != "" {
				p, err := address.ParsePath(keep)
				if err != nil {
					return err
				}
				if keepNode, _, err = e.Resolve(address.Position{Path: p}); err != nil {
					return err
				}
			}
			return e.Normalize(e.Root(), keepNode)
		}),
	}

	cmd.Flags().StringVar(&keep, "keep", "", "Path of a node that must survive pruning")
	return cmd
}

func stripCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "strip [file]",
		Short: "Remove formatting whitespace between block elements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			tbl, err := opts.table()
			if err != nil {
				return err
			}
			out, err := markup.StripWhitespace(src, tbl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func treeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the node structure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.openEditor(cmd, args)
			if err != nil {
				return err
			}
			defer e.Close()
			_, err = fmt.Fprint(cmd.OutOrStdout(), e.Tree())
			return err
		},
	}
}
