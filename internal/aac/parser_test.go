package aac

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

type frameSpec struct {
	mpeg2     bool
	profile   uint64 // object type - 1
	rateIdx   uint64
	channels  uint64
	original  bool
	copyright bool
	length    int
	blocks    uint64 // raw data blocks - 1
}

func bit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// adtsFrame returns a frame with a 7-byte header and zero payload.
func adtsFrame(f frameSpec) []byte {
	v := uint64(syncWord)
	push := func(n uint, x uint64) { v = v<<n | x }
	push(1, bit(f.mpeg2))
	push(2, 0)
	push(1, 1)
	push(2, f.profile)
	push(4, f.rateIdx)
	push(1, 0)
	push(3, f.channels)
	push(1, bit(f.original))
	push(1, 0)
	push(1, bit(f.copyright))
	push(1, 0)
	push(13, uint64(f.length))
	push(11, 0x7FF)
	push(2, f.blocks)

	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v<<8)
	return append(b[:headerSize], make([]byte, f.length-headerSize)...)
}

var lcStereo = frameSpec{profile: 1, rateIdx: 3, channels: 2, length: 384}

func parse(t *testing.T, data []byte) types.AACProperties {
	t.Helper()
	props, err := Parse(bytes.NewReader(data), int64(len(data)), "test.aac", hclog.NewNullLogger())
	require.NoError(t, err)
	return props.(types.AACProperties)
}

func TestParse_LC(t *testing.T) {
	data := bytes.Repeat(adtsFrame(lcStereo), 47)

	props := parse(t, data)
	assert.Equal(t, types.MPEGVersion4, props.Version)
	assert.Equal(t, types.AudioObjectTypeAACLowComplexity, props.AudioObjectType)
	assert.Equal(t, uint32(48000), props.SampleRate)
	assert.Equal(t, uint8(2), props.Channels)
	// 47 frames of 1024 samples at 48 kHz.
	assert.Equal(t, 1002*time.Millisecond, props.Duration)
	assert.Equal(t, uint32(47*384*8/1002), props.AudioBitrate)
	assert.Equal(t, props.AudioBitrate, props.OverallBitrate)
}

func TestParse_HeaderFlags(t *testing.T) {
	hdr := frameSpec{mpeg2: true, profile: 0, rateIdx: 4, channels: 7, original: true, copyright: true, length: 200, blocks: 1}
	props := parse(t, bytes.Repeat(adtsFrame(hdr), 10))

	assert.Equal(t, types.MPEGVersion2, props.Version)
	assert.Equal(t, types.AudioObjectTypeAACMain, props.AudioObjectType)
	assert.Equal(t, uint32(44100), props.SampleRate)
	assert.Equal(t, uint8(8), props.Channels)
	assert.True(t, props.Original)
	assert.True(t, props.Copyright)
	// Two raw data blocks per frame.
	assert.Equal(t, types.DurationOf(10*2*1024, 44100), props.Duration)
}

func TestParse_TrailingGarbage(t *testing.T) {
	data := append(bytes.Repeat(adtsFrame(lcStereo), 47), []byte("TAG and some trailing bytes")...)

	props := parse(t, data)
	assert.Equal(t, 1002*time.Millisecond, props.Duration)
	assert.Equal(t, uint32(47*384*8/1002), props.AudioBitrate)
	assert.Greater(t, props.OverallBitrate, props.AudioBitrate)
}

func TestParse_ChannelConfigZero(t *testing.T) {
	hdr := lcStereo
	hdr.channels = 0
	props := parse(t, adtsFrame(hdr))

	_, ok := props.FileProperties().Channels()
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	badRate := lcStereo
	badRate.rateIdx = 13

	tests := map[string][]byte{
		"no sync":   make([]byte, 64),
		"bad rate":  adtsFrame(badRate),
		"too short": {0xFF, 0xF1},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(data), int64(len(data)), "test.aac", hclog.NewNullLogger())
			require.Error(t, err)
			var corrupted *types.CorruptedFileError
			if name != "too short" {
				assert.True(t, errors.As(err, &corrupted))
			}
		})
	}
}

func TestParseADTSHeader_Truncated(t *testing.T) {
	frame := adtsFrame(lcStereo)

	_, err := parseADTSHeader(frame[:headerSize])
	require.NoError(t, err)

	for n := range headerSize {
		_, err := parseADTSHeader(frame[:n])
		assert.Error(t, err, "%d bytes", n)
	}
}

func TestParse_Registered(t *testing.T) {
	assert.NotNil(t, registry.Get(types.FormatAAC))
}
