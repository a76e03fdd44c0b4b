package main

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/audiotag"
)

const (
	outputText = "text"
	outputYAML = "yaml"
)

// globals holds the persistent flags shared by every command.
type globals struct {
	logLevel string
	output   string
	format   string
	tagType  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:           "audiotag",
		Short:         "Read, convert and edit audio file tags",
		Long:          "audiotag reads the tags and audio properties of MP3, AAC, MP4, FLAC, Ogg, Opus, Speex, WAV, AIFF, APE, WavPack and Musepack files, and writes ID3v2, Vorbis Comment and MP4 tags.",
		Version:       audiotag.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return g.validate()
		},
	}
	cmd.SetVersionTemplate("audiotag version {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&g.logLevel, "log-level", "off", "log level (trace, debug, info, warn, error, off)")
	flags.StringVarP(&g.output, "output", "o", outputText, "output format (text, yaml)")
	flags.StringVar(&g.format, "format", "", "parse files as this container instead of detecting it (mp3, flac, mpc, ...)")
	flags.StringVar(&g.tagType, "tag-type", "", "tag type hint (id3v2, ogg, opus, flac, mp4)")

	cmd.AddCommand(
		newPropsCmd(g),
		newTagsCmd(g),
		newCopyCmd(g),
		newSetCmd(g),
		newAtomsCmd(g),
		newVersionCmd(g),
	)
	return cmd
}

func (g *globals) validate() error {
	if g.output != outputText && g.output != outputYAML {
		return fmt.Errorf("unknown output format %q", g.output)
	}
	if hclog.LevelFromString(g.logLevel) == hclog.NoLevel {
		return fmt.Errorf("unknown log level %q", g.logLevel)
	}
	if g.format != "" && audiotag.FormatFromExtension("."+g.format) == audiotag.FormatUnknown {
		return fmt.Errorf("unknown format %q", g.format)
	}
	if g.tagType != "" {
		if _, ok := audiotag.ParseTagType(g.tagType); !ok {
			return fmt.Errorf("unknown tag type %q", g.tagType)
		}
	}
	return nil
}

func (g *globals) logger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "audiotag",
		Level: hclog.LevelFromString(g.logLevel),
	})
}

// readOptions turns the persistent flags into read options.
func (g *globals) readOptions() []audiotag.Option {
	opts := []audiotag.Option{audiotag.WithLogger(g.logger())}
	if g.format != "" {
		opts = append(opts, audiotag.WithFormat(audiotag.FormatFromExtension("."+g.format)))
	}
	if tt, ok := audiotag.ParseTagType(g.tagType); ok {
		opts = append(opts, audiotag.WithTagType(tt))
	}
	return opts
}

// render writes v as YAML, or calls text for the text output.
func (g *globals) render(w io.Writer, v any, text func(io.Writer) error) error {
	if g.output == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	}
	return text(w)
}

func newVersionCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := audiotag.GetVersionInfo()
			return g.render(cmd.OutOrStdout(), info, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "audiotag %s (commit %s, built %s, %s)\n",
					info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
				return err
			})
		},
	}
}
