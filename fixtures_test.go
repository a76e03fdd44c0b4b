package audiotag_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag"
	"github.com/simonhull/audiotag/internal/flac/flactest"
	"github.com/simonhull/audiotag/internal/mp4/mp4test"
	"github.com/simonhull/audiotag/internal/mpeg/mpegtest"
	"github.com/simonhull/audiotag/internal/ogg/oggtest"
)

// mp3Frames is 100 frames of 128 kbps 44.1 kHz Layer III, 2.606 seconds.
var mp3Frames = mpegtest.Stream(mpegtest.MP3, 417, 100)

var cover = audiotag.Picture{
	MimeType: audiotag.MimeJPEG,
	Data:     append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...),
}

func flacFile() []byte {
	return flactest.File(flactest.Frames, flactest.StreamInfo(44100, 2, 16, 441000))
}

func oggFile(comments ...string) []byte {
	return oggtest.NewStream(1).
		Packets(0x02, 0, oggtest.VorbisIdent(2, 44100, 128000)).
		Packets(0x00, 0, oggtest.VorbisComment("test", comments...), oggtest.VorbisSetup()).
		Packets(0x04, 441000, make([]byte, 512)).
		Bytes()
}

func opusFile(comments ...string) []byte {
	return oggtest.NewStream(1).
		Packets(0x02, 0, oggtest.OpusHead(2, 312, 48000, 0)).
		Packets(0x00, 0, oggtest.OpusTags("libopus", comments...)).
		Packets(0x04, 48312, make([]byte, 256)).
		Bytes()
}

func mp4File(ilst []byte) []byte {
	return mp4test.File{Duration: 441000, Ilst: ilst, Audio: make([]byte, 4096)}.Bytes()
}

// wavFile writes 1.428 seconds of 48 kHz 16-bit stereo silence.
func wavFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "silence.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	const frames = 68546
	enc := wav.NewEncoder(f, 48000, 16, 2, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:           make([]int, frames*2),
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	return path
}

func writeFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// fixtures returns one file per tag type.
func fixtures(t testing.TB) map[audiotag.TagType]string {
	t.Helper()
	return map[audiotag.TagType]string{
		audiotag.TagTypeID3v2: writeFile(t, "song.mp3", mp3Frames),
		audiotag.TagTypeFLAC:  writeFile(t, "song.flac", flacFile()),
		audiotag.TagTypeOgg:   writeFile(t, "song.ogg", oggFile()),
		audiotag.TagTypeOpus:  writeFile(t, "song.opus", opusFile()),
		audiotag.TagTypeMP4:   writeFile(t, "song.m4a", mp4File(nil)),
	}
}

func u16(v uint16) *uint16 { return &v }
func year(v int) *int      { return &v }

// sample is an AnyTag with every field set.
func sample() audiotag.AnyTag {
	c := cover
	return audiotag.AnyTag{
		Title:   "Song",
		Artists: []string{"First", "Second"},
		Year:    year(1999),
		Album: audiotag.Album{
			Title:   "Record",
			Artists: []string{"Band"},
			Cover:   &c,
		},
		TrackNumber: u16(3),
		TotalTracks: u16(12),
		DiscNumber:  u16(1),
		TotalDiscs:  u16(2),
	}
}

// populate fills t with sample().
func populate(t audiotag.AudioTagEdit) {
	s := sample()
	t.SetTitle(s.Title)
	for _, a := range s.Artists {
		t.AddArtist(a)
	}
	t.SetYear(*s.Year)
	t.SetAlbum(s.Album)
	t.SetTrackNumber(*s.TrackNumber)
	t.SetTotalTracks(*s.TotalTracks)
	t.SetDiscNumber(*s.DiscNumber)
	t.SetTotalDiscs(*s.TotalDiscs)
}
