package tag

import (
	"slices"
	"strconv"

	"github.com/simonhull/audiotag/internal/types"
)

// Tag wraps a scheme backend and implements AudioTag over it.
//
// A Tag has a single owner. It is not safe for concurrent use.
type Tag[B Backend] struct {
	backend B
	decode  Decoder[B]
	props   types.FileProperties
}

// New wraps backend. decode may be nil, in which case write validation
// is unavailable.
func New[B Backend](backend B, props types.FileProperties, decode Decoder[B]) *Tag[B] {
	return &Tag[B]{backend: backend, props: props, decode: decode}
}

// Backend returns the scheme-native representation.
func (t *Tag[B]) Backend() B {
	return t.backend
}

// Any implements ToAny.
func (t *Tag[B]) Any() any {
	return t
}

// TagType implements ToAnyTag.
func (t *Tag[B]) TagType() types.TagType {
	return t.backend.TagType()
}

// Scheme implements ToAnyTag.
func (t *Tag[B]) Scheme() types.Scheme {
	return t.backend.TagType().Scheme()
}

// Properties implements AudioTag.
func (t *Tag[B]) Properties() types.FileProperties {
	return t.props
}

// SetProperties replaces the cached properties snapshot.
func (t *Tag[B]) SetProperties(props types.FileProperties) {
	t.props = props
}

func (t *Tag[B]) first(f Field) (string, bool) {
	values := t.backend.Text(f)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// set stores a single value; an empty value removes the field.
func (t *Tag[B]) set(f Field, value string) {
	if value == "" {
		t.backend.SetText(f, nil)
		return
	}
	t.backend.SetText(f, []string{value})
}

func (t *Tag[B]) add(f Field, value string) {
	if value == "" {
		return
	}
	t.backend.SetText(f, append(slices.Clone(t.backend.Text(f)), value))
}

func (t *Tag[B]) all(f Field) ([]string, bool) {
	values := t.backend.Text(f)
	if len(values) == 0 {
		return nil, false
	}
	return slices.Clone(values), true
}

// Title returns the track title.
func (t *Tag[B]) Title() (string, bool) { return t.first(FieldTitle) }

// SetTitle sets the track title. An empty title removes it.
func (t *Tag[B]) SetTitle(title string) { t.set(FieldTitle, title) }

// RemoveTitle removes the track title.
func (t *Tag[B]) RemoveTitle() { t.backend.SetText(FieldTitle, nil) }

// Artist returns the primary (first) artist.
func (t *Tag[B]) Artist() (string, bool) { return t.first(FieldArtist) }

// SetArtist replaces every artist with artist.
func (t *Tag[B]) SetArtist(artist string) { t.set(FieldArtist, artist) }

// AddArtist appends an artist, keeping the existing ones.
func (t *Tag[B]) AddArtist(artist string) { t.add(FieldArtist, artist) }

// Artists returns every artist in stored order.
func (t *Tag[B]) Artists() ([]string, bool) { return t.all(FieldArtist) }

// RemoveArtist removes every artist.
func (t *Tag[B]) RemoveArtist() { t.backend.SetText(FieldArtist, nil) }

// Year returns the release year, read from the leading digits of the
// stored date ("2004-05-12" reads as 2004).
func (t *Tag[B]) Year() (int, bool) {
	date, ok := t.first(FieldYear)
	if !ok {
		return 0, false
	}
	return ParseYear(date)
}

// SetYear sets the release year.
func (t *Tag[B]) SetYear(year int) { t.set(FieldYear, strconv.Itoa(year)) }

// RemoveYear removes the release year.
func (t *Tag[B]) RemoveYear() { t.backend.SetText(FieldYear, nil) }

// Album composes the album title, artists and cover.
func (t *Tag[B]) Album() types.Album {
	var album types.Album
	album.Title, _ = t.AlbumTitle()
	album.Artists, _ = t.AlbumArtists()
	if cover, ok := t.AlbumCover(); ok {
		album.Cover = &cover
	}
	return album
}

// SetAlbum replaces all three album fields. Absent fields in album are
// removed from the tag.
func (t *Tag[B]) SetAlbum(album types.Album) {
	t.SetAlbumTitle(album.Title)
	t.SetAlbumArtists(album.Artists...)
	if album.Cover != nil {
		t.SetAlbumCover(*album.Cover)
	} else {
		t.RemoveAlbumCover()
	}
}

// RemoveAlbum removes the album title, artists and cover.
func (t *Tag[B]) RemoveAlbum() {
	t.RemoveAlbumTitle()
	t.RemoveAlbumArtists()
	t.RemoveAlbumCover()
}

// AlbumTitle returns the album title.
func (t *Tag[B]) AlbumTitle() (string, bool) { return t.first(FieldAlbumTitle) }

// SetAlbumTitle sets the album title. An empty title removes it.
func (t *Tag[B]) SetAlbumTitle(title string) { t.set(FieldAlbumTitle, title) }

// RemoveAlbumTitle removes the album title.
func (t *Tag[B]) RemoveAlbumTitle() { t.backend.SetText(FieldAlbumTitle, nil) }

// AlbumArtist returns the first album artist.
func (t *Tag[B]) AlbumArtist() (string, bool) { return t.first(FieldAlbumArtist) }

// AlbumArtists returns every album artist in stored order.
func (t *Tag[B]) AlbumArtists() ([]string, bool) { return t.all(FieldAlbumArtist) }

// SetAlbumArtists replaces the album artists. Empty names are skipped.
func (t *Tag[B]) SetAlbumArtists(artists ...string) {
	t.backend.SetText(FieldAlbumArtist, slices.DeleteFunc(slices.Clone(artists), func(s string) bool {
		return s == ""
	}))
}

// AddAlbumArtist appends an album artist.
func (t *Tag[B]) AddAlbumArtist(artist string) { t.add(FieldAlbumArtist, artist) }

// RemoveAlbumArtists removes every album artist.
func (t *Tag[B]) RemoveAlbumArtists() { t.backend.SetText(FieldAlbumArtist, nil) }

// AlbumCover returns the front cover.
func (t *Tag[B]) AlbumCover() (types.Picture, bool) { return t.backend.Cover() }

// SetAlbumCover sets the front cover. An empty picture removes it.
func (t *Tag[B]) SetAlbumCover(cover types.Picture) {
	if cover.IsEmpty() {
		t.backend.RemoveCover()
		return
	}
	t.backend.SetCover(cover)
}

// RemoveAlbumCover removes the front cover.
func (t *Tag[B]) RemoveAlbumCover() { t.backend.RemoveCover() }

func (t *Tag[B]) position(number, total Field) types.Position {
	var p types.Position
	if n, ok := t.backend.Number(number); ok {
		p.Number = &n
	}
	if n, ok := t.backend.Number(total); ok {
		p.Total = &n
	}
	return p
}

// Track returns the track number and total tracks.
func (t *Tag[B]) Track() types.Position {
	return t.position(FieldTrackNumber, FieldTotalTracks)
}

// SetTrack sets the track number. The total is left untouched.
func (t *Tag[B]) SetTrack(number uint16) { t.SetTrackNumber(number) }

// RemoveTrack removes both the track number and the total.
func (t *Tag[B]) RemoveTrack() {
	t.RemoveTrackNumber()
	t.RemoveTotalTracks()
}

// TrackNumber returns the track number.
func (t *Tag[B]) TrackNumber() (uint16, bool) { return t.backend.Number(FieldTrackNumber) }

// SetTrackNumber sets the track number.
func (t *Tag[B]) SetTrackNumber(number uint16) { t.backend.SetNumber(FieldTrackNumber, number) }

// RemoveTrackNumber removes the track number.
func (t *Tag[B]) RemoveTrackNumber() { t.backend.RemoveNumber(FieldTrackNumber) }

// TotalTracks returns the number of tracks on the release.
func (t *Tag[B]) TotalTracks() (uint16, bool) { return t.backend.Number(FieldTotalTracks) }

// SetTotalTracks sets the number of tracks on the release.
func (t *Tag[B]) SetTotalTracks(total uint16) { t.backend.SetNumber(FieldTotalTracks, total) }

// RemoveTotalTracks removes the number of tracks.
func (t *Tag[B]) RemoveTotalTracks() { t.backend.RemoveNumber(FieldTotalTracks) }

// Disc returns the disc number and total discs.
func (t *Tag[B]) Disc() types.Position {
	return t.position(FieldDiscNumber, FieldTotalDiscs)
}

// SetDisc sets the disc number. The total is left untouched.
func (t *Tag[B]) SetDisc(number uint16) { t.SetDiscNumber(number) }

// RemoveDisc removes both the disc number and the total.
func (t *Tag[B]) RemoveDisc() {
	t.RemoveDiscNumber()
	t.RemoveTotalDiscs()
}

// DiscNumber returns the disc number.
func (t *Tag[B]) DiscNumber() (uint16, bool) { return t.backend.Number(FieldDiscNumber) }

// SetDiscNumber sets the disc number.
func (t *Tag[B]) SetDiscNumber(number uint16) { t.backend.SetNumber(FieldDiscNumber, number) }

// RemoveDiscNumber removes the disc number.
func (t *Tag[B]) RemoveDiscNumber() { t.backend.RemoveNumber(FieldDiscNumber) }

// TotalDiscs returns the number of discs in the release.
func (t *Tag[B]) TotalDiscs() (uint16, bool) { return t.backend.Number(FieldTotalDiscs) }

// SetTotalDiscs sets the number of discs in the release.
func (t *Tag[B]) SetTotalDiscs(total uint16) { t.backend.SetNumber(FieldTotalDiscs, total) }

// RemoveTotalDiscs removes the number of discs.
func (t *Tag[B]) RemoveTotalDiscs() { t.backend.RemoveNumber(FieldTotalDiscs) }

// ToAnyTag implements ToAnyTag. The result is a copy.
func (t *Tag[B]) ToAnyTag() types.AnyTag {
	var out types.AnyTag
	out.Title, _ = t.Title()
	out.Artists, _ = t.Artists()
	if year, ok := t.Year(); ok {
		out.Year = &year
	}
	out.Album = t.Album()
	track := t.Track()
	out.TrackNumber, out.TotalTracks = track.Number, track.Total
	disc := t.Disc()
	out.DiscNumber, out.TotalDiscs = disc.Number, disc.Total
	return out
}

// ParseYear reads the year from the leading digits of a date string.
func ParseYear(date string) (int, bool) {
	end := 0
	for end < len(date) && end < 4 && date[end] >= '0' && date[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:end])
	if err != nil {
		return 0, false
	}
	return year, true
}

// Copy sets every field present in src on dst, in field order. Artists
// are added one at a time so their order is kept.
func Copy(dst AudioTagEdit, src types.AnyTag) {
	if src.Title != "" {
		dst.SetTitle(src.Title)
	}
	for _, artist := range src.Artists {
		dst.AddArtist(artist)
	}
	if src.Year != nil {
		dst.SetYear(*src.Year)
	}
	if src.Album.Title != "" {
		dst.SetAlbumTitle(src.Album.Title)
	}
	if len(src.Album.Artists) > 0 {
		dst.SetAlbumArtists(src.Album.Artists...)
	}
	if src.Album.Cover != nil {
		dst.SetAlbumCover(*src.Album.Cover)
	}
	if src.TrackNumber != nil {
		dst.SetTrackNumber(*src.TrackNumber)
	}
	if src.TotalTracks != nil {
		dst.SetTotalTracks(*src.TotalTracks)
	}
	if src.DiscNumber != nil {
		dst.SetDiscNumber(*src.DiscNumber)
	}
	if src.TotalDiscs != nil {
		dst.SetTotalDiscs(*src.TotalDiscs)
	}
}
