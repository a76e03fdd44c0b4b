// Package tag implements the scheme-independent tag wrapper shared by every
// tag encoding.
package tag

import (
	"io"

	"github.com/simonhull/audiotag/internal/types"
)

// Field names a common tag field.
type Field int

const (
	FieldTitle Field = iota
	FieldArtist
	FieldYear
	FieldAlbumTitle
	FieldAlbumArtist
	FieldTrackNumber
	FieldTotalTracks
	FieldDiscNumber
	FieldTotalDiscs
)

var fieldNames = [...]string{
	FieldTitle:       "title",
	FieldArtist:      "artist",
	FieldYear:        "year",
	FieldAlbumTitle:  "album title",
	FieldAlbumArtist: "album artist",
	FieldTrackNumber: "track number",
	FieldTotalTracks: "total tracks",
	FieldDiscNumber:  "disc number",
	FieldTotalDiscs:  "total discs",
}

func (f Field) String() string {
	if f >= 0 && int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return "unknown"
}

// IsNumeric reports whether f is one of the track or disc fields.
func (f Field) IsNumeric() bool {
	return f >= FieldTrackNumber && f <= FieldTotalDiscs
}

// Backend is a scheme-native tag representation: an ID3v2 frame set, a
// Vorbis Comment list or an MP4 item list.
//
// Text fields hold ordered values; a nil or empty slice means absent.
// Backends never see empty strings. Numeric fields are only passed
// FieldTrackNumber through FieldTotalDiscs.
type Backend interface {
	// TagType returns the target the backend was created for.
	TagType() types.TagType

	Text(f Field) []string
	SetText(f Field, values []string)

	Number(f Field) (uint16, bool)
	SetNumber(f Field, n uint16)
	RemoveNumber(f Field)

	Cover() (types.Picture, bool)
	SetCover(p types.Picture)
	RemoveCover()

	// Encode copies the audio file in src to dst with this tag in place of
	// any existing one.
	Encode(src io.ReadSeeker, dst io.WriteSeeker) error
}

// Decoder reads a backend from an audio file. It is used to re-read a file
// after writing when validation is requested.
type Decoder[B Backend] func(r io.ReaderAt, size int64, path string) (B, error)
