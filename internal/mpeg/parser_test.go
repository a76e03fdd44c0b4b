package mpeg

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/mpeg/mpegtest"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// frameLen is the length of an unpadded 128 kbps 44.1 kHz Layer III frame.
const frameLen = 417

func parse(t *testing.T, data []byte) types.MPEGProperties {
	t.Helper()
	props, err := Parse(bytes.NewReader(data), int64(len(data)), "test.mp3", hclog.NewNullLogger())
	require.NoError(t, err)
	return props.(types.MPEGProperties)
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name       string
		header     mpegtest.Header
		version    types.MPEGVersion
		layer      types.MPEGLayer
		bitrate    uint32
		sampleRate uint32
		spf        uint32
		length     int64
	}{
		{"MPEG-1 Layer III", mpegtest.MP3, types.MPEGVersion1, 3, 128, 44100, 1152, 417},
		{"MPEG-1 Layer III padded", mpegtest.Header{VersionBits: 3, LayerBits: 1, BitrateIndex: 9, Padding: true}, types.MPEGVersion1, 3, 128, 44100, 1152, 418},
		{"MPEG-1 Layer II", mpegtest.Header{VersionBits: 3, LayerBits: 2, BitrateIndex: 14, RateIndex: 1}, types.MPEGVersion1, 2, 384, 48000, 1152, 1152},
		{"MPEG-1 Layer I", mpegtest.Header{VersionBits: 3, LayerBits: 3, BitrateIndex: 12, RateIndex: 2}, types.MPEGVersion1, 1, 384, 32000, 384, 576},
		{"MPEG-2 Layer III", mpegtest.Header{VersionBits: 2, LayerBits: 1, BitrateIndex: 8, RateIndex: 0}, types.MPEGVersion2, 3, 64, 22050, 576, 208},
		{"MPEG-2.5 Layer III", mpegtest.Header{VersionBits: 0, LayerBits: 1, BitrateIndex: 4, RateIndex: 2}, types.MPEGVersion25, 3, 32, 8000, 576, 288},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.header.Bytes()
			hdr, err := parseHeader(uint32(raw[0])<<24 | uint32(raw[1])<<16 | uint32(raw[2])<<8 | uint32(raw[3]))
			require.NoError(t, err)
			assert.Equal(t, tt.version, hdr.version)
			assert.Equal(t, tt.layer, hdr.layer)
			assert.Equal(t, tt.bitrate, hdr.bitrate)
			assert.Equal(t, tt.sampleRate, hdr.sampleRate)
			assert.Equal(t, tt.spf, hdr.samplesPerFrame())
			assert.Equal(t, tt.length, hdr.frameLength())
		})
	}
}

func TestParseHeader_Invalid(t *testing.T) {
	for name, h := range map[string]uint32{
		"no sync":          0x12345678,
		"reserved version": 0xFFEB9000,
		"reserved layer":   0xFFF99000,
		"free format":      0xFFFB0000,
		"bad bitrate":      0xFFFBF000,
		"reserved rate":    0xFFFB9C00,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseHeader(h)
			assert.ErrorIs(t, err, errInvalidHeader)
		})
	}
}

func TestParse_CBR(t *testing.T) {
	data := mpegtest.Stream(mpegtest.MP3, frameLen, 100)

	props := parse(t, data)
	assert.Equal(t, types.MPEGVersion1, props.Version)
	assert.Equal(t, types.MPEGLayer(3), props.Layer)
	assert.Equal(t, types.ChannelModeJointStereo, props.ChannelMode)
	require.NotNil(t, props.ModeExtension)
	assert.Nil(t, props.Emphasis)
	assert.Equal(t, uint32(44100), props.SampleRate)
	assert.Equal(t, uint8(2), props.Channels)
	assert.Equal(t, uint32(128), props.AudioBitrate)
	// 41700 bytes at 128 kbps.
	assert.Equal(t, 2606*time.Millisecond, props.Duration)
	assert.Equal(t, uint32(41700*8/2606), props.OverallBitrate)
}

func TestParse_Xing(t *testing.T) {
	for _, marker := range []string{"Xing", "Info"} {
		t.Run(marker, func(t *testing.T) {
			var buf bytes.Buffer
			// Xing follows the 32 bytes of MPEG-1 stereo side information.
			buf.Write(mpegtest.XingFrame(mpegtest.MP3, frameLen, 36, marker, 1000, 417000))
			buf.Write(mpegtest.Stream(mpegtest.MP3, frameLen, 10))

			props := parse(t, buf.Bytes())
			// 1000 frames of 1152 samples at 44.1 kHz.
			assert.Equal(t, 26122*time.Millisecond, props.Duration)
			assert.Equal(t, uint32(417000*8/26122), props.AudioBitrate)
		})
	}
}

func TestParse_VBRI(t *testing.T) {
	first := mpegtest.Frame(mpegtest.MP3, frameLen)
	copy(first[36:], "VBRI")
	copy(first[46:], []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0xF4}) // 65536 bytes, 500 frames

	data := append(first, mpegtest.Stream(mpegtest.MP3, frameLen, 4)...)
	props := parse(t, data)
	assert.Equal(t, 13061*time.Millisecond, props.Duration)
	assert.Equal(t, uint32(65536*8/13061), props.AudioBitrate)
}

func TestParse_MonoMPEG2(t *testing.T) {
	h := mpegtest.Header{VersionBits: 2, LayerBits: 1, BitrateIndex: 8, RateIndex: 0, ChannelMode: 3, Original: true, Copyright: true, Emphasis: 1}
	props := parse(t, mpegtest.Stream(h, 208, 50))

	assert.Equal(t, types.MPEGVersion2, props.Version)
	assert.Equal(t, uint8(1), props.Channels)
	assert.Equal(t, types.ChannelModeSingleChannel, props.ChannelMode)
	assert.Nil(t, props.ModeExtension)
	assert.True(t, props.Original)
	assert.True(t, props.Copyright)
	require.NotNil(t, props.Emphasis)
	assert.Equal(t, types.EmphasisMS5015, *props.Emphasis)
	// 10400 bytes at 64 kbps.
	assert.Equal(t, 1300*time.Millisecond, props.Duration)
}

func TestParse_SkipsTagsAndJunk(t *testing.T) {
	tag := id3v2.NewEmptyTag()
	tag.SetTitle("Title")
	var buf bytes.Buffer
	_, err := tag.WriteTo(&buf)
	require.NoError(t, err)

	// A stray sync byte whose following frame does not check out.
	buf.Write([]byte{0xFF, 0xFB, 0x00, 0x00, 0x00})
	buf.Write(mpegtest.Stream(mpegtest.MP3, frameLen, 100))

	id3v1 := make([]byte, 128)
	copy(id3v1, "TAG")
	buf.Write(id3v1)

	props := parse(t, buf.Bytes())
	assert.Equal(t, 2606*time.Millisecond, props.Duration)
}

func TestParse_NoFrame(t *testing.T) {
	data := make([]byte, 4096)
	_, err := Parse(bytes.NewReader(data), int64(len(data)), "test.mp3", hclog.NewNullLogger())

	var corrupted *types.CorruptedFileError
	assert.True(t, errors.As(err, &corrupted))
}

func TestParse_Registered(t *testing.T) {
	assert.NotNil(t, registry.Get(types.FormatMPEG))
}

func BenchmarkParse(b *testing.B) {
	data := mpegtest.Stream(mpegtest.MP3, frameLen, 1000)
	r := bytes.NewReader(data)
	logger := hclog.NewNullLogger()

	for b.Loop() {
		if _, err := Parse(r, int64(len(data)), "bench.mp3", logger); err != nil {
			b.Fatal(err)
		}
	}
}
