package tag

import (
	"os"

	"github.com/simonhull/audiotag/internal/types"
)

// AudioTagEdit reads and changes the common tag fields.
//
// Getters report presence with a bool. Every Remove method is idempotent.
type AudioTagEdit interface {
	Title() (string, bool)
	SetTitle(title string)
	RemoveTitle()

	Artist() (string, bool)
	SetArtist(artist string)
	AddArtist(artist string)
	Artists() ([]string, bool)
	RemoveArtist()

	Year() (int, bool)
	SetYear(year int)
	RemoveYear()

	Album() types.Album
	SetAlbum(album types.Album)
	RemoveAlbum()

	AlbumTitle() (string, bool)
	SetAlbumTitle(title string)
	RemoveAlbumTitle()

	AlbumArtist() (string, bool)
	AlbumArtists() ([]string, bool)
	SetAlbumArtists(artists ...string)
	AddAlbumArtist(artist string)
	RemoveAlbumArtists()

	AlbumCover() (types.Picture, bool)
	SetAlbumCover(cover types.Picture)
	RemoveAlbumCover()

	Track() types.Position
	SetTrack(number uint16)
	RemoveTrack()
	TrackNumber() (uint16, bool)
	SetTrackNumber(number uint16)
	RemoveTrackNumber()
	TotalTracks() (uint16, bool)
	SetTotalTracks(total uint16)
	RemoveTotalTracks()

	Disc() types.Position
	SetDisc(number uint16)
	RemoveDisc()
	DiscNumber() (uint16, bool)
	SetDiscNumber(number uint16)
	RemoveDiscNumber()
	TotalDiscs() (uint16, bool)
	SetTotalDiscs(total uint16)
	RemoveTotalDiscs()
}

// AudioTagWrite persists a tag.
type AudioTagWrite interface {
	// WriteToFile rewrites f in place. The handle is only used during the call.
	WriteToFile(f *os.File, opts ...WriteOption) error
	// WriteToPath rewrites the file at path atomically.
	WriteToPath(path string, opts ...WriteOption) error
}

// ToAnyTag projects a tag onto the scheme-independent field set.
type ToAnyTag interface {
	ToAny
	ToAnyTag() types.AnyTag
	// Scheme identifies the on-disk encoding. Tags with equal schemes share
	// a concrete type.
	Scheme() types.Scheme
	TagType() types.TagType
}

// ToAny exposes the concrete tag for callers that want to recover it.
type ToAny interface {
	Any() any
}

// AudioTag is a complete tag implementation.
type AudioTag interface {
	AudioTagEdit
	AudioTagWrite
	ToAnyTag
	// Properties returns the audio properties read with the tag. Tags built
	// in memory report zero properties.
	Properties() types.FileProperties
}
