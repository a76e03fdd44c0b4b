package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

// propsView is the rendered form of a file's audio properties.
type propsView struct {
	Path           string        `yaml:"path"`
	Format         string        `yaml:"format"`
	Duration       time.Duration `yaml:"duration"`
	OverallBitrate *uint32       `yaml:"overall_bitrate_kbps,omitempty"`
	AudioBitrate   *uint32       `yaml:"audio_bitrate_kbps,omitempty"`
	SampleRate     *uint32       `yaml:"sample_rate,omitempty"`
	BitDepth       *uint8        `yaml:"bit_depth,omitempty"`
	Channels       *uint8        `yaml:"channels,omitempty"`
	ChannelMask    string        `yaml:"channel_mask,omitempty"`
	Details        any           `yaml:"details,omitempty"`

	fp audiotag.FileProperties
}

func ptr[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func newPropsView(path string, props audiotag.Properties) propsView {
	fp := props.FileProperties()
	v := propsView{
		Path:           path,
		Format:         props.Format().String(),
		Duration:       fp.Duration(),
		OverallBitrate: ptr(fp.OverallBitrate()),
		AudioBitrate:   ptr(fp.AudioBitrate()),
		SampleRate:     ptr(fp.SampleRate()),
		BitDepth:       ptr(fp.BitDepth()),
		Channels:       ptr(fp.Channels()),
		Details:        props,
		fp:             fp,
	}
	if mask, ok := fp.ChannelMask(); ok {
		v.ChannelMask = mask.String()
	}
	return v
}

func newPropsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "props FILE...",
		Short: "Print audio properties",
		Long:  "Print the duration, bitrates, sample rate, bit depth and channel layout of each file. Works for untagged containers such as WAV and APE.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]propsView, 0, len(args))
			for _, path := range args {
				props, err := audiotag.ReadProperties(path, g.readOptions()...)
				if err != nil {
					return err
				}
				views = append(views, newPropsView(path, props))
			}
			return g.render(cmd.OutOrStdout(), views, func(w io.Writer) error {
				for _, v := range views {
					if _, err := fmt.Fprintf(w, "%s: %s %s\n", v.Path, v.Format, v.fp); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
