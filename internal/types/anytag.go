package types

import (
	"strconv"
	"strings"
)

// Position is a track or disc number with its optional total.
type Position struct {
	Number *uint16
	Total  *uint16
}

// Get returns the number and total, each with a presence flag.
func (p Position) Get() (number uint16, hasNumber bool, total uint16, hasTotal bool) {
	number, hasNumber = deref(p.Number)
	total, hasTotal = deref(p.Total)
	return
}

// IsZero reports whether neither number nor total is set.
func (p Position) IsZero() bool {
	return p.Number == nil && p.Total == nil
}

// Album groups the album fields of a tag. It is composed on demand and never
// stored on its own.
type Album struct {
	Cover   *Picture
	Title   string
	Artists []string
}

// Artist returns the first album artist.
func (a Album) Artist() (string, bool) {
	if len(a.Artists) == 0 {
		return "", false
	}
	return a.Artists[0], true
}

// AnyTag is the scheme-independent view of a tag's common fields.
//
// Empty strings and nil pointers mean the field is absent. An AnyTag is a
// copy, so it stays valid after the tag it came from is changed.
type AnyTag struct {
	Year        *int
	TrackNumber *uint16
	TotalTracks *uint16
	DiscNumber  *uint16
	TotalDiscs  *uint16
	Title       string
	Album       Album
	Artists     []string
}

// Artist returns the primary (first) artist.
func (t AnyTag) Artist() (string, bool) {
	if len(t.Artists) == 0 {
		return "", false
	}
	return t.Artists[0], true
}

// Track returns the track number and total.
func (t AnyTag) Track() Position {
	return Position{Number: t.TrackNumber, Total: t.TotalTracks}
}

// Disc returns the disc number and total.
func (t AnyTag) Disc() Position {
	return Position{Number: t.DiscNumber, Total: t.TotalDiscs}
}

// IsEmpty reports whether no field is set.
func (t AnyTag) IsEmpty() bool {
	return t.Title == "" && len(t.Artists) == 0 && t.Year == nil &&
		t.Album.Title == "" && len(t.Album.Artists) == 0 && t.Album.Cover == nil &&
		t.Track().IsZero() && t.Disc().IsZero()
}

// String renders the set fields on one line, e.g. `title="Song" artists=[A B]`.
func (t AnyTag) String() string {
	var b strings.Builder
	field := func(name, value string) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
	}

	if t.Title != "" {
		field("title", strconv.Quote(t.Title))
	}
	if len(t.Artists) > 0 {
		field("artists", "["+strings.Join(t.Artists, ", ")+"]")
	}
	if t.Year != nil {
		field("year", strconv.Itoa(*t.Year))
	}
	if t.Album.Title != "" {
		field("album", strconv.Quote(t.Album.Title))
	}
	if len(t.Album.Artists) > 0 {
		field("album_artists", "["+strings.Join(t.Album.Artists, ", ")+"]")
	}
	if t.Album.Cover != nil {
		field("cover", strconv.Quote(t.Album.Cover.String()))
	}
	if s := t.Track().String(); s != "" {
		field("track", s)
	}
	if s := t.Disc().String(); s != "" {
		field("disc", s)
	}
	return b.String()
}

// String renders "3/12", "3", "?/12", or "" when p is zero.
func (p Position) String() string {
	if p.IsZero() {
		return ""
	}
	s := "?"
	if p.Number != nil {
		s = strconv.Itoa(int(*p.Number))
	}
	if p.Total != nil {
		s += "/" + strconv.Itoa(int(*p.Total))
	}
	return s
}
