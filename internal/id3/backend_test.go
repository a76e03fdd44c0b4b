package id3

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	dtag "github.com/dhowden/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
)

// mpegFrame is a single MPEG-1 Layer III frame header followed by padding.
var mpegFrame = append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)

func encode(t *testing.T, b *Backend, src []byte) []byte {
	t.Helper()
	out, err := os.Create(filepath.Join(t.TempDir(), "out.mp3"))
	require.NoError(t, err)
	defer out.Close()

	require.NoError(t, b.Encode(bytes.NewReader(src), out))
	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, data []byte) *Backend {
	t.Helper()
	b, err := Decode(bytes.NewReader(data), int64(len(data)), "test.mp3")
	require.NoError(t, err)
	return b
}

func TestBackend_RoundTrip(t *testing.T) {
	b := NewBackend()
	b.SetText(tag.FieldTitle, []string{"Song"})
	b.SetText(tag.FieldArtist, []string{"A", "B"})
	b.SetText(tag.FieldAlbumTitle, []string{"Record"})
	b.SetText(tag.FieldYear, []string{"1999"})
	b.SetNumber(tag.FieldTrackNumber, 3)
	b.SetNumber(tag.FieldTotalTracks, 12)
	b.SetNumber(tag.FieldTotalDiscs, 2)
	b.SetCover(types.Picture{MimeType: types.MimePNG, Data: []byte{0x89, 'P', 'N', 'G'}})

	data := encode(t, b, mpegFrame)
	assert.True(t, bytes.HasSuffix(data, mpegFrame), "audio must follow the tag")

	got := decode(t, data)
	assert.Equal(t, []string{"Song"}, got.Text(tag.FieldTitle))
	assert.Equal(t, []string{"A", "B"}, got.Text(tag.FieldArtist))
	assert.Equal(t, []string{"1999"}, got.Text(tag.FieldYear))

	n, ok := got.Number(tag.FieldTrackNumber)
	assert.True(t, ok)
	assert.Equal(t, uint16(3), n)
	_, ok = got.Number(tag.FieldDiscNumber)
	assert.False(t, ok)
	n, ok = got.Number(tag.FieldTotalDiscs)
	assert.True(t, ok)
	assert.Equal(t, uint16(2), n)
	assert.Equal(t, "/2", got.Tag().GetTextFrame("TPOS").Text)

	cover, ok := got.Cover()
	require.True(t, ok)
	assert.Equal(t, types.MimePNG, cover.MimeType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, cover.Data)
}

func TestBackend_ReplacesExistingTag(t *testing.T) {
	first := NewBackend()
	first.SetText(tag.FieldTitle, []string{"Old title that is rather long"})
	tagged := encode(t, first, mpegFrame)

	second := NewBackend()
	second.SetText(tag.FieldTitle, []string{"New"})
	retagged := encode(t, second, tagged)

	got := decode(t, retagged)
	assert.Equal(t, []string{"New"}, got.Text(tag.FieldTitle))
	assert.True(t, bytes.HasSuffix(retagged, mpegFrame))
	assert.Less(t, len(retagged), len(tagged))

	// An empty tag strips the header entirely.
	stripped := encode(t, NewBackend(), retagged)
	assert.Equal(t, mpegFrame, stripped)
}

func TestSkipTags_Stacked(t *testing.T) {
	one := NewBackend()
	one.SetText(tag.FieldTitle, []string{"one"})
	two := NewBackend()
	two.SetText(tag.FieldTitle, []string{"two"})

	var stacked bytes.Buffer
	_, err := one.Tag().WriteTo(&stacked)
	require.NoError(t, err)
	_, err = two.Tag().WriteTo(&stacked)
	require.NoError(t, err)
	tagLen := int64(stacked.Len())
	stacked.Write(mpegFrame)

	off, err := binutil.SkipID3v2(bytes.NewReader(stacked.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, tagLen, off)
}

func TestDecode_NoTag(t *testing.T) {
	got := decode(t, mpegFrame)
	assert.Nil(t, got.Text(tag.FieldTitle))
	_, ok := got.Cover()
	assert.False(t, ok)
	assert.Equal(t, types.TagTypeID3v2, got.TagType())
}

func TestDecode_UpgradesV23(t *testing.T) {
	v23 := id3v2.NewEmptyTag()
	v23.SetVersion(3)
	v23.SetDefaultEncoding(id3v2.EncodingISO)
	v23.AddTextFrame("TYER", id3v2.EncodingISO, "1987")
	v23.AddTextFrame("TIT2", id3v2.EncodingISO, "Old")

	var buf bytes.Buffer
	_, err := v23.WriteTo(&buf)
	require.NoError(t, err)
	buf.Write(mpegFrame)

	got := decode(t, buf.Bytes())
	assert.Equal(t, byte(4), got.Tag().Version())
	assert.Equal(t, []string{"1987"}, got.Text(tag.FieldYear))
	assert.Equal(t, []string{"Old"}, got.Text(tag.FieldTitle))
}

func TestBackend_PositionUpdates(t *testing.T) {
	b := NewBackend()
	b.SetNumber(tag.FieldTrackNumber, 5)
	assert.Equal(t, "5", b.Tag().GetTextFrame("TRCK").Text)

	b.SetNumber(tag.FieldTotalTracks, 10)
	assert.Equal(t, "5/10", b.Tag().GetTextFrame("TRCK").Text)

	b.RemoveNumber(tag.FieldTrackNumber)
	assert.Equal(t, "/10", b.Tag().GetTextFrame("TRCK").Text)

	b.RemoveNumber(tag.FieldTotalTracks)
	assert.Empty(t, b.Tag().GetFrames("TRCK"))
	b.RemoveNumber(tag.FieldTotalTracks)
	assert.Empty(t, b.Tag().GetFrames("TRCK"))
}

// TestBackend_ReadableByDhowdenTag checks the output against an independent
// ID3v2 reader.
func TestBackend_ReadableByDhowdenTag(t *testing.T) {
	b := NewBackend()
	b.SetText(tag.FieldTitle, []string{"Song"})
	b.SetText(tag.FieldArtist, []string{"Artist"})
	b.SetText(tag.FieldAlbumTitle, []string{"Record"})
	b.SetText(tag.FieldAlbumArtist, []string{"Band"})
	b.SetText(tag.FieldYear, []string{"2004"})
	b.SetNumber(tag.FieldTrackNumber, 3)
	b.SetNumber(tag.FieldTotalTracks, 12)
	b.SetNumber(tag.FieldDiscNumber, 1)
	b.SetNumber(tag.FieldTotalDiscs, 2)

	data := encode(t, b, mpegFrame)
	m, err := dtag.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, dtag.ID3v2_4, m.Format())
	assert.Equal(t, "Song", m.Title())
	assert.Equal(t, "Artist", m.Artist())
	assert.Equal(t, "Record", m.Album())
	assert.Equal(t, "Band", m.AlbumArtist())
	assert.Equal(t, 2004, m.Year())
	track, total := m.Track()
	assert.Equal(t, []int{3, 12}, []int{track, total})
	disc, discs := m.Disc()
	assert.Equal(t, []int{1, 2}, []int{disc, discs})
}
