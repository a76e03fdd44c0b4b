package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag/internal/mp4"
)

// atomView is the rendered form of an MP4 atom.
type atomView struct {
	Type     string     `yaml:"type"`
	Offset   int64      `yaml:"offset"`
	Size     uint64     `yaml:"size"`
	Children []atomView `yaml:"children,omitempty"`
}

func newAtomViews(nodes []*mp4.Node) []atomView {
	views := make([]atomView, len(nodes))
	for i, n := range nodes {
		views[i] = atomView{
			Type:     n.Type,
			Offset:   n.Offset,
			Size:     n.Size,
			Children: newAtomViews(n.Children),
		}
	}
	return views
}

func printAtoms(w io.Writer, views []atomView, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, v := range views {
		if _, err := fmt.Fprintf(w, "%s%s (size: %d, offset: %d)\n", indent, v.Type, v.Size, v.Offset); err != nil {
			return err
		}
		if err := printAtoms(w, v.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func newAtomsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "atoms FILE",
		Short: "Print the atom tree of an MP4 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck // Read-only handle

			info, err := f.Stat()
			if err != nil {
				return err
			}
			nodes, err := mp4.Tree(f, info.Size(), args[0])
			if err != nil {
				return err
			}

			views := newAtomViews(nodes)
			return g.render(cmd.OutOrStdout(), views, func(w io.Writer) error {
				return printAtoms(w, views, 0)
			})
		},
	}
}
