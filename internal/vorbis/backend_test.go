package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	dtag "github.com/dhowden/tag"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/flac/flactest"
	"github.com/simonhull/audiotag/internal/id3"
	"github.com/simonhull/audiotag/internal/ogg/oggtest"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
)

var cover = types.Picture{
	MimeType: types.MimeJPEG,
	Data:     append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...),
}

func minimalFLAC() []byte {
	return flactest.File(flactest.Frames, flactest.StreamInfo(44100, 2, 16, 441000))
}

func minimalOgg(comments ...string) []byte {
	return oggtest.NewStream(1).
		Packets(0x02, 0, oggtest.VorbisIdent(2, 44100, 128000)).
		Packets(0x00, 0, oggtest.VorbisComment("test", comments...), oggtest.VorbisSetup()).
		Packets(0x04, 441000, make([]byte, 512)).
		Bytes()
}

func decode(t *testing.T, data []byte) *Backend {
	t.Helper()
	b, err := Decode(bytes.NewReader(data), int64(len(data)), "test")
	require.NoError(t, err)
	return b
}

func encode(t *testing.T, b *Backend, src []byte) []byte {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(in, src, 0o644))

	srcFile, err := os.Open(in)
	require.NoError(t, err)
	defer srcFile.Close()

	out, err := os.Create(filepath.Join(dir, "out"))
	require.NoError(t, err)
	defer out.Close()

	require.NoError(t, b.Encode(srcFile, out))
	data, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	return data
}

func populated(tt types.TagType) *Backend {
	b := NewBackend(tt)
	b.SetText(tag.FieldTitle, []string{"Song"})
	b.SetText(tag.FieldArtist, []string{"A", "B"})
	b.SetText(tag.FieldYear, []string{"1999"})
	b.SetText(tag.FieldAlbumTitle, []string{"Record"})
	b.SetText(tag.FieldAlbumArtist, []string{"Band"})
	b.SetNumber(tag.FieldTrackNumber, 3)
	b.SetNumber(tag.FieldTotalTracks, 12)
	b.SetNumber(tag.FieldDiscNumber, 1)
	b.SetCover(cover)
	return b
}

func assertPopulated(t *testing.T, b *Backend) {
	t.Helper()
	assert.Equal(t, []string{"Song"}, b.Text(tag.FieldTitle))
	assert.Equal(t, []string{"A", "B"}, b.Text(tag.FieldArtist))
	assert.Equal(t, []string{"1999"}, b.Text(tag.FieldYear))
	assert.Equal(t, []string{"Record"}, b.Text(tag.FieldAlbumTitle))
	assert.Equal(t, []string{"Band"}, b.Text(tag.FieldAlbumArtist))

	n, ok := b.Number(tag.FieldTrackNumber)
	assert.True(t, ok)
	assert.Equal(t, uint16(3), n)
	n, ok = b.Number(tag.FieldTotalTracks)
	assert.True(t, ok)
	assert.Equal(t, uint16(12), n)
	n, ok = b.Number(tag.FieldDiscNumber)
	assert.True(t, ok)
	assert.Equal(t, uint16(1), n)
	_, ok = b.Number(tag.FieldTotalDiscs)
	assert.False(t, ok)

	got, ok := b.Cover()
	require.True(t, ok)
	assert.Equal(t, cover, got)
}

func TestBackend_FLACRoundTrip(t *testing.T) {
	out := encode(t, populated(types.TagTypeFLAC), minimalFLAC())
	require.Equal(t, "fLaC", string(out[:4]))
	assert.True(t, bytes.HasSuffix(out, flactest.Frames), "audio frames preserved")

	got := decode(t, out)
	assert.Equal(t, types.TagTypeFLAC, got.TagType())
	assertPopulated(t, got)
	assert.Equal(t, Vendor, got.Comments().Vendor)
}

func TestBackend_FLACReplacesExisting(t *testing.T) {
	first := encode(t, populated(types.TagTypeFLAC), minimalFLAC())

	b := decode(t, first)
	b.SetText(tag.FieldTitle, []string{"Other"})
	b.RemoveCover()
	second := encode(t, b, first)

	got := decode(t, second)
	assert.Equal(t, []string{"Other"}, got.Text(tag.FieldTitle))
	_, ok := got.Cover()
	assert.False(t, ok)
	assert.Less(t, len(second), len(first))
}

func TestBackend_FLACEmptyWritesNoCommentBlock(t *testing.T) {
	src := minimalFLAC()
	out := encode(t, NewBackend(types.TagTypeFLAC), src)
	assert.Equal(t, src, out)
}

func TestBackend_FLACKeepsLeadingID3(t *testing.T) {
	var buf bytes.Buffer
	id := id3.NewBackend()
	id.SetText(tag.FieldTitle, []string{"id3 title"})
	_, err := id.Tag().WriteTo(&buf)
	require.NoError(t, err)
	prefix := bytes.Clone(buf.Bytes())
	buf.Write(minimalFLAC())

	out := encode(t, populated(types.TagTypeFLAC), buf.Bytes())
	assert.True(t, bytes.HasPrefix(out, prefix))
	assertPopulated(t, decode(t, out))
}

func TestDecode_FLACWithoutComments(t *testing.T) {
	b := decode(t, minimalFLAC())
	assert.True(t, b.IsEmpty())
	assert.Nil(t, b.Text(tag.FieldTitle))
}

func TestDecode_Ogg(t *testing.T) {
	data := minimalOgg("title=Lower Case", "ARTIST=One", "ARTIST=Two", "TRACKNUMBER=4/9", "malformed")
	b := decode(t, data)

	assert.Equal(t, types.TagTypeOgg, b.TagType())
	assert.Equal(t, []string{"Lower Case"}, b.Text(tag.FieldTitle))
	assert.Equal(t, []string{"One", "Two"}, b.Text(tag.FieldArtist))
	n, _ := b.Number(tag.FieldTrackNumber)
	assert.Equal(t, uint16(4), n)
	total, ok := b.Number(tag.FieldTotalTracks)
	assert.True(t, ok)
	assert.Equal(t, uint16(9), total)
}

func TestDecode_OpusTagType(t *testing.T) {
	data := oggtest.NewStream(1).
		Packets(0x02, 0, oggtest.OpusHead(2, 312, 48000, 0)).
		Packets(0x00, 0, oggtest.OpusTags("libopus", "TITLE=Opus")).
		Packets(0x04, 48312, make([]byte, 256)).
		Bytes()

	b := decode(t, data)
	assert.Equal(t, types.TagTypeOpus, b.TagType())
	assert.Equal(t, []string{"Opus"}, b.Text(tag.FieldTitle))
}

// oversized returns comment blocks with one length field set far past the
// end of the block.
func oversized() map[string][]byte {
	const vendor = "vendor"
	valid := oggtest.Comments(vendor, "TITLE=Song")
	patch := func(off int) []byte {
		b := bytes.Clone(valid)
		binary.LittleEndian.PutUint32(b[off:], 0x7FFFFFFF)
		return b
	}
	return map[string][]byte{
		"vendor length":  patch(0),
		"comment count":  patch(4 + len(vendor)),
		"comment length": patch(8 + len(vendor)),
	}
}

func TestDecode_OversizedCommentLengths(t *testing.T) {
	for name, block := range oversized() {
		t.Run(name, func(t *testing.T) {
			files := map[string][]byte{
				"flac": flactest.File(flactest.Frames,
					flactest.StreamInfo(44100, 2, 16, 441000),
					&flac.MetaDataBlock{Type: flac.VorbisComment, Data: block}),
				"opus": oggtest.NewStream(1).
					Packets(0x02, 0, oggtest.OpusHead(2, 312, 48000, 0)).
					Packets(0x00, 0, append([]byte("OpusTags"), block...)).
					Packets(0x04, 48312, make([]byte, 256)).
					Bytes(),
			}
			for container, data := range files {
				_, err := Decode(bytes.NewReader(data), int64(len(data)), "test")
				var corrupted *types.CorruptedFileError
				assert.ErrorAs(t, err, &corrupted, container)
			}
		})
	}
}

func TestDecode_OversizedPictureIsSkipped(t *testing.T) {
	pic := newPicture(cover).Marshal()
	// The image data length sits just before the image data.
	binary.BigEndian.PutUint32(pic.Data[len(pic.Data)-len(cover.Data)-4:], 0x7FFFFFFF)

	comments := flacvorbis.New()
	require.NoError(t, comments.Add(flacvorbis.FIELD_TITLE, "Song"))
	commentBlock := comments.Marshal()

	b := decode(t, flactest.File(flactest.Frames, flactest.StreamInfo(44100, 2, 16, 441000), &commentBlock, &pic))
	assert.Equal(t, []string{"Song"}, b.Text(tag.FieldTitle))
	_, ok := b.Cover()
	assert.False(t, ok)
}

func TestBackend_OggRoundTrip(t *testing.T) {
	out := encode(t, populated(types.TagTypeOgg), minimalOgg("TITLE=Old"))

	got := decode(t, out)
	assertPopulated(t, got)
	// The picture travels as a comment but is not exposed as one.
	assert.Empty(t, got.Get(keyPicture))
}

func TestBackend_CommentsMoveBetweenContainers(t *testing.T) {
	fromFLAC := decode(t, encode(t, populated(types.TagTypeFLAC), minimalFLAC()))
	assertPopulated(t, decode(t, encode(t, fromFLAC, minimalOgg())))
}

func TestBackend_EncodeUnsupportedContainer(t *testing.T) {
	mp3 := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp3")
	require.NoError(t, os.WriteFile(in, mp3, 0o644))
	src, err := os.Open(in)
	require.NoError(t, err)
	defer src.Close()
	dst, err := os.Create(filepath.Join(dir, "out"))
	require.NoError(t, err)
	defer dst.Close()

	err = NewBackend(types.TagTypeFLAC).Encode(src, dst)
	var unsupported *types.UnsupportedWriteError
	assert.True(t, errors.As(err, &unsupported), "got %v", err)
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	mp3 := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 413)...)
	_, err := Decode(bytes.NewReader(mp3), int64(len(mp3)), "x.mp3")
	var unsupported *types.UnsupportedFormatError
	assert.True(t, errors.As(err, &unsupported), "got %v", err)
}

func TestBackend_Positions(t *testing.T) {
	tests := []struct {
		name     string
		comments []string
		apply    func(b *Backend)
		want     []string
	}{
		{
			name:     "combined form is split",
			comments: []string{"TRACKNUMBER=3/12"},
			apply:    func(b *Backend) { b.SetNumber(tag.FieldTrackNumber, 5) },
			want:     []string{"TRACKNUMBER=5", "TRACKTOTAL=12"},
		},
		{
			name:     "alias total is normalized",
			comments: []string{"TRACKNUMBER=1", "TOTALTRACKS=8"},
			apply:    func(b *Backend) { b.SetNumber(tag.FieldTotalTracks, 10) },
			want:     []string{"TRACKNUMBER=1", "TRACKTOTAL=10"},
		},
		{
			name:     "removing the number keeps the total",
			comments: []string{"DISCNUMBER=2", "DISCTOTAL=3"},
			apply:    func(b *Backend) { b.RemoveNumber(tag.FieldDiscNumber) },
			want:     []string{"DISCTOTAL=3"},
		},
		{
			name:     "remove absent number is a no-op",
			comments: []string{"TITLE=x"},
			apply:    func(b *Backend) { b.RemoveNumber(tag.FieldTrackNumber) },
			want:     []string{"TITLE=x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend(types.TagTypeFLAC)
			b.comments = &flacvorbis.MetaDataBlockVorbisComment{Vendor: "v", Comments: tt.comments}
			tt.apply(b)
			assert.Equal(t, tt.want, b.comments.Comments)
		})
	}
}

func TestBackend_SetTextReplacesAliases(t *testing.T) {
	b := NewBackend(types.TagTypeOgg)
	b.Set("ALBUM ARTIST", "Old")
	b.Set("COMMENT", "kept")
	b.SetText(tag.FieldAlbumArtist, []string{"New"})

	assert.Equal(t, []string{"COMMENT=kept", "ALBUMARTIST=New"}, b.Comments().Comments)

	b.SetText(tag.FieldAlbumArtist, nil)
	assert.Nil(t, b.Text(tag.FieldAlbumArtist))
	assert.Equal(t, []string{"kept"}, b.Get("comment"))
}

func TestBackend_ReadableByDhowdenTag(t *testing.T) {
	out := encode(t, populated(types.TagTypeFLAC), minimalFLAC())

	m, err := dtag.ReadFrom(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, dtag.VORBIS, m.Format())
	assert.Equal(t, dtag.FLAC, m.FileType())
	assert.Equal(t, "Song", m.Title())
	assert.Equal(t, "Record", m.Album())
	assert.Equal(t, "Band", m.AlbumArtist())
	assert.Equal(t, 1999, m.Year())

	track, total := m.Track()
	assert.Equal(t, 3, track)
	assert.Equal(t, 12, total)

	pic := m.Picture()
	require.NotNil(t, pic)
	assert.Equal(t, cover.Data, pic.Data)
	assert.Equal(t, "image/jpeg", pic.MIMEType)
}
