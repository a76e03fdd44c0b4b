package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

type coverView struct {
	MimeType string `yaml:"mime_type"`
	Size     int    `yaml:"size"`
}

// tagView is the rendered form of a tag.
type tagView struct {
	Path         string     `yaml:"path"`
	TagType      string     `yaml:"tag_type"`
	Title        string     `yaml:"title,omitempty"`
	Artists      []string   `yaml:"artists,omitempty"`
	Year         *int       `yaml:"year,omitempty"`
	Album        string     `yaml:"album,omitempty"`
	AlbumArtists []string   `yaml:"album_artists,omitempty"`
	Cover        *coverView `yaml:"cover,omitempty"`
	Track        string     `yaml:"track,omitempty"`
	Disc         string     `yaml:"disc,omitempty"`

	anyTag audiotag.AnyTag
}

func newTagView(path string, t audiotag.AudioTag) tagView {
	at := t.ToAnyTag()
	v := tagView{
		Path:         path,
		TagType:      t.TagType().String(),
		Title:        at.Title,
		Artists:      at.Artists,
		Year:         at.Year,
		Album:        at.Album.Title,
		AlbumArtists: at.Album.Artists,
		Track:        at.Track().String(),
		Disc:         at.Disc().String(),
		anyTag:       at,
	}
	if c := at.Album.Cover; c != nil {
		v.Cover = &coverView{MimeType: c.MimeType.String(), Size: len(c.Data)}
	}
	return v
}

func newTagsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tags FILE...",
		Short: "Print tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := audiotag.ReadMany(cmd.Context(), args, g.readOptions()...)
			if err != nil {
				return err
			}
			views := make([]tagView, len(tags))
			for i, t := range tags {
				views[i] = newTagView(args[i], t)
			}
			return g.render(cmd.OutOrStdout(), views, func(w io.Writer) error {
				for _, v := range views {
					if _, err := fmt.Fprintf(w, "%s [%s] %s\n", v.Path, v.TagType, v.anyTag); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
