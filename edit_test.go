package audiotag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag"
)

// forEachTagType runs fn against an empty tag of every type.
func forEachTagType(t *testing.T, fn func(t *testing.T, tag audiotag.AudioTag)) {
	for _, tt := range audiotag.TagTypes() {
		t.Run(tt.String(), func(t *testing.T) {
			fn(t, audiotag.New(tt))
		})
	}
}

func TestEdit_SetTrackKeepsTotal(t *testing.T) {
	forEachTagType(t, func(t *testing.T, tag audiotag.AudioTag) {
		tag.SetTotalTracks(12)
		tag.SetTrack(3)

		track := tag.Track()
		require.NotNil(t, track.Number)
		require.NotNil(t, track.Total)
		assert.Equal(t, uint16(3), *track.Number)
		assert.Equal(t, uint16(12), *track.Total)

		tag.SetTrack(4)
		total, ok := tag.TotalTracks()
		assert.True(t, ok)
		assert.Equal(t, uint16(12), total)
	})
}

func TestEdit_ZeroPositions(t *testing.T) {
	forEachTagType(t, func(t *testing.T, tag audiotag.AudioTag) {
		tag.SetTotalTracks(7)
		tag.SetTrack(0)
		tag.SetDisc(0)

		track := tag.Track()
		require.NotNil(t, track.Number)
		assert.Equal(t, uint16(0), *track.Number)
		require.NotNil(t, track.Total)
		assert.Equal(t, uint16(7), *track.Total)

		disc, ok := tag.DiscNumber()
		assert.True(t, ok)
		assert.Equal(t, uint16(0), disc)
	})
}

func TestEdit_RemoveTrackClearsBoth(t *testing.T) {
	forEachTagType(t, func(t *testing.T, tag audiotag.AudioTag) {
		tag.SetTrack(3)
		tag.SetTotalTracks(12)
		tag.RemoveTrack()

		assert.Equal(t, audiotag.Position{}, tag.Track())
		_, ok := tag.TrackNumber()
		assert.False(t, ok)
		_, ok = tag.TotalTracks()
		assert.False(t, ok)
	})
}

func TestEdit_TotalWithoutNumber(t *testing.T) {
	forEachTagType(t, func(t *testing.T, tag audiotag.AudioTag) {
		tag.SetDisc(1)
		tag.SetTotalDiscs(2)
		tag.RemoveDiscNumber()

		disc := tag.Disc()
		assert.Nil(t, disc.Number)
		require.NotNil(t, disc.Total)
		assert.Equal(t, uint16(2), *disc.Total)

		tag.RemoveDisc()
		assert.Equal(t, audiotag.Position{}, tag.Disc())
	})
}

func TestEdit_RemoveIsIdempotent(t *testing.T) {
	removes := map[string]func(audiotag.AudioTag){
		"title":         audiotag.AudioTag.RemoveTitle,
		"artist":        audiotag.AudioTag.RemoveArtist,
		"year":          audiotag.AudioTag.RemoveYear,
		"album":         audiotag.AudioTag.RemoveAlbum,
		"album title":   audiotag.AudioTag.RemoveAlbumTitle,
		"album artists": audiotag.AudioTag.RemoveAlbumArtists,
		"album cover":   audiotag.AudioTag.RemoveAlbumCover,
		"track":         audiotag.AudioTag.RemoveTrack,
		"track number":  audiotag.AudioTag.RemoveTrackNumber,
		"total tracks":  audiotag.AudioTag.RemoveTotalTracks,
		"disc":          audiotag.AudioTag.RemoveDisc,
		"disc number":   audiotag.AudioTag.RemoveDiscNumber,
		"total discs":   audiotag.AudioTag.RemoveTotalDiscs,
	}

	forEachTagType(t, func(t *testing.T, tag audiotag.AudioTag) {
		for name, remove := range removes {
			// Absent fields first.
			remove(tag)
			assert.Equal(t, audiotag.AnyTag{}, tag.ToAnyTag(), name)

			populate(tag)
			remove(tag)
			once := tag.ToAnyTag()
			remove(tag)
			assert.Equal(t, once, tag.ToAnyTag(), name)

			tag.RemoveAlbum()
			tag.RemoveTitle()
			tag.RemoveArtist()
			tag.RemoveYear()
			tag.RemoveTrack()
			tag.RemoveDisc()
		}
	})
}

func TestEdit_Fields(t *testing.T) {
	forEachTagType(t, func(t *testing.T, tag audiotag.AudioTag) {
		populate(tag)
		assert.Equal(t, sample(), tag.ToAnyTag())

		tag.SetArtist("Only")
		artists, ok := tag.Artists()
		assert.True(t, ok)
		assert.Equal(t, []string{"Only"}, artists)

		tag.SetTitle("")
		_, ok = tag.Title()
		assert.False(t, ok)

		tag.AddAlbumArtist("Guest")
		albumArtists, _ := tag.AlbumArtists()
		assert.Equal(t, []string{"Band", "Guest"}, albumArtists)
		first, _ := tag.AlbumArtist()
		assert.Equal(t, "Band", first)

		got, ok := tag.AlbumCover()
		require.True(t, ok)
		assert.Equal(t, cover, got)

		tag.SetAlbum(audiotag.Album{Title: "Other"})
		album := tag.Album()
		assert.Equal(t, "Other", album.Title)
		assert.Nil(t, album.Artists)
		assert.Nil(t, album.Cover)
	})
}

func TestEdit_YearFromDate(t *testing.T) {
	tag := audiotag.NewVorbis(audiotag.TagTypeFLAC)
	tag.Backend().Set("DATE", "2004-05-12")

	y, ok := tag.Year()
	assert.True(t, ok)
	assert.Equal(t, 2004, y)
}
