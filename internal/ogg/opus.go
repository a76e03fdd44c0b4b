package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/audiotag/internal/types"
)

// opusOutputRate is the decoder rate all Opus granule positions count in.
const opusOutputRate = 48000

// opusHead is the decoded OpusHead identification header.
type opusHead struct {
	version         uint8
	channels        uint8
	preSkip         uint16
	inputSampleRate uint32
	outputGain      int16
	mappingFamily   uint8
}

// parseOpusHead parses the OpusHead identification header.
//
// Layout (little-endian):
//   - 8 bytes: "OpusHead"
//   - 1 byte: version (upper nibble is the major version, must be 0)
//   - 1 byte: output channel count
//   - 2 bytes: pre-skip
//   - 4 bytes: input sample rate (informational)
//   - 2 bytes: output gain (Q7.8 dB)
//   - 1 byte: channel mapping family
func parseOpusHead(data []byte) (opusHead, error) {
	var head opusHead
	if len(data) < 19 {
		return head, fmt.Errorf("OpusHead packet too short: %d bytes (need at least 19)", len(data))
	}
	if string(data[0:8]) != "OpusHead" {
		return head, fmt.Errorf("invalid OpusHead magic: %q", string(data[0:8]))
	}

	head.version = data[8]
	// Minor versions are backwards compatible.
	if head.version>>4 != 0 {
		return head, fmt.Errorf("unsupported Opus version: %d", head.version)
	}

	head.channels = data[9]
	head.preSkip = binary.LittleEndian.Uint16(data[10:12])
	head.inputSampleRate = binary.LittleEndian.Uint32(data[12:16])
	head.outputGain = int16(binary.LittleEndian.Uint16(data[16:18]))
	head.mappingFamily = data[18]

	if head.channels == 0 {
		return head, fmt.Errorf("OpusHead has zero channels")
	}
	if head.mappingFamily == 0 && head.channels > 2 {
		return head, fmt.Errorf("mapping family 0 allows at most 2 channels, got %d", head.channels)
	}
	return head, nil
}

// channelMask returns the speaker layout for the mapping families that
// define one. Family 255 and unknown families have none.
func (h opusHead) channelMask() types.ChannelMask {
	if h.mappingFamily > 1 {
		return 0
	}
	mask, _ := types.VorbisChannelMask(h.channels)
	return mask
}
