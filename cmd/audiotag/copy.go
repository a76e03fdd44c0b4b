package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newCopyCmd(g *globals) *cobra.Command {
	var wf writeFlags

	cmd := &cobra.Command{
		Use:   "copy SRC DST...",
		Short: "Copy the tag of one file into others",
		Long:  "Copy the common fields of SRC's tag into each DST, converting between ID3v2, Vorbis Comment and MP4 as needed. Fields of DST's existing tag that SRC lacks are dropped.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := audiotag.ReadFromPath(args[0], g.readOptions()...)
			if err != nil {
				return err
			}
			logger := g.logger()

			for _, path := range args[1:] {
				dst, err := audiotag.ReadFromPath(path, g.readOptions()...)
				if err != nil {
					return err
				}
				out := audiotag.Convert(src, dst.TagType())
				if err := out.WriteToPath(path, wf.options(g)...); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				logger.Info("copied tag", "from", args[0], "to", path, "tag_type", dst.TagType().String())
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], path)
			}
			return nil
		},
	}
	wf.register(cmd)
	return cmd
}
