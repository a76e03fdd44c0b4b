package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

// removers maps the --remove field names to their Remove methods.
var removers = map[string]func(audiotag.AudioTagEdit){
	"title":         audiotag.AudioTagEdit.RemoveTitle,
	"artist":        audiotag.AudioTagEdit.RemoveArtist,
	"year":          audiotag.AudioTagEdit.RemoveYear,
	"album":         audiotag.AudioTagEdit.RemoveAlbum,
	"album-title":   audiotag.AudioTagEdit.RemoveAlbumTitle,
	"album-artist":  audiotag.AudioTagEdit.RemoveAlbumArtists,
	"cover":         audiotag.AudioTagEdit.RemoveAlbumCover,
	"track":         audiotag.AudioTagEdit.RemoveTrack,
	"track-number":  audiotag.AudioTagEdit.RemoveTrackNumber,
	"total-tracks":  audiotag.AudioTagEdit.RemoveTotalTracks,
	"disc":          audiotag.AudioTagEdit.RemoveDisc,
	"disc-number":   audiotag.AudioTagEdit.RemoveDiscNumber,
	"total-discs":   audiotag.AudioTagEdit.RemoveTotalDiscs,
}

func removableFields() string {
	names := make([]string, 0, len(removers))
	for name := range removers {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// edits holds the values given on the set command line.
type edits struct {
	title        string
	artists      []string
	year         int
	album        string
	albumArtists []string
	cover        string
	track        uint16
	totalTracks  uint16
	disc         uint16
	totalDiscs   uint16
	remove       []string
}

// apply runs the removals first, then sets every flag that was given.
func (e *edits) apply(cmd *cobra.Command, t audiotag.AudioTagEdit) error {
	for _, name := range e.remove {
		remove, ok := removers[name]
		if !ok {
			return fmt.Errorf("unknown field %q (want one of %s)", name, removableFields())
		}
		remove(t)
	}

	changed := cmd.Flags().Changed
	if changed("title") {
		t.SetTitle(e.title)
	}
	if changed("artist") {
		t.RemoveArtist()
		for _, a := range e.artists {
			t.AddArtist(a)
		}
	}
	if changed("year") {
		t.SetYear(e.year)
	}
	if changed("album") {
		t.SetAlbumTitle(e.album)
	}
	if changed("album-artist") {
		t.SetAlbumArtists(e.albumArtists...)
	}
	if changed("cover") {
		data, err := os.ReadFile(e.cover)
		if err != nil {
			return fmt.Errorf("read cover: %w", err)
		}
		pic := audiotag.NewPicture(data)
		if pic.MimeType == audiotag.MimeUnknown {
			return fmt.Errorf("%s: unrecognized image format", e.cover)
		}
		t.SetAlbumCover(pic)
	}
	if changed("track") {
		t.SetTrack(e.track)
	}
	if changed("total-tracks") {
		t.SetTotalTracks(e.totalTracks)
	}
	if changed("disc") {
		t.SetDisc(e.disc)
	}
	if changed("total-discs") {
		t.SetTotalDiscs(e.totalDiscs)
	}
	return nil
}

func newSetCmd(g *globals) *cobra.Command {
	var (
		e  edits
		wf writeFlags
	)

	cmd := &cobra.Command{
		Use:   "set FILE...",
		Short: "Change tag fields",
		Example: `  audiotag set --title "Song" --artist A --artist B song.flac
  audiotag set --track 3 --total-tracks 12 --cover front.jpg *.mp3
  audiotag set --remove cover --remove disc song.m4a`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				t, err := audiotag.ReadFromPath(path, g.readOptions()...)
				if err != nil {
					return err
				}
				if err := e.apply(cmd, t); err != nil {
					return err
				}
				if err := t.WriteToPath(path, wf.options(g)...); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&e.title, "title", "", "track title")
	flags.StringArrayVar(&e.artists, "artist", nil, "artist, repeat for several")
	flags.IntVar(&e.year, "year", 0, "release year")
	flags.StringVar(&e.album, "album", "", "album title")
	flags.StringArrayVar(&e.albumArtists, "album-artist", nil, "album artist, repeat for several")
	flags.StringVar(&e.cover, "cover", "", "front cover image file")
	flags.Uint16Var(&e.track, "track", 0, "track number")
	flags.Uint16Var(&e.totalTracks, "total-tracks", 0, "number of tracks")
	flags.Uint16Var(&e.disc, "disc", 0, "disc number")
	flags.Uint16Var(&e.totalDiscs, "total-discs", 0, "number of discs")
	flags.StringArrayVar(&e.remove, "remove", nil, "field to remove, repeat for several: "+removableFields())
	wf.register(cmd)
	return cmd
}
