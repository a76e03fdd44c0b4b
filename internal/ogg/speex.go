package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/audiotag/internal/types"
)

const speexHeaderSize = 80

// parseSpeexHeader parses the Speex header packet.
//
// Layout (little-endian):
//   - 8 bytes: "Speex   "
//   - 20 bytes: speex_version string
//   - 4 bytes: speex_version_id
//   - 4 bytes: header_size
//   - 4 bytes: rate
//   - 4 bytes: mode (0 narrowband, 1 wideband, 2 ultra-wideband)
//   - 4 bytes: mode_bitstream_version
//   - 4 bytes: nb_channels
//   - 4 bytes: bitrate (-1 when unknown)
//   - 4 bytes: frame_size
//   - 4 bytes: vbr
//   - 4 bytes: frames_per_packet
//   - 4 bytes: extra_headers
//   - 8 bytes: reserved
func parseSpeexHeader(data []byte) (types.SpeexProperties, error) {
	var props types.SpeexProperties
	if len(data) < speexHeaderSize {
		return props, fmt.Errorf("speex header too short: %d bytes (need %d)", len(data), speexHeaderSize)
	}
	if string(data[0:8]) != "Speex   " {
		return props, fmt.Errorf("invalid speex header magic: %q", string(data[0:8]))
	}

	props.Version = binary.LittleEndian.Uint32(data[28:32])
	props.SampleRate = binary.LittleEndian.Uint32(data[36:40])
	props.Mode = binary.LittleEndian.Uint32(data[40:44])
	channels := binary.LittleEndian.Uint32(data[48:52])
	props.NominalBitrate = int32(binary.LittleEndian.Uint32(data[52:56]))
	props.VBR = binary.LittleEndian.Uint32(data[60:64]) == 1

	if props.Mode > 2 {
		return props, fmt.Errorf("unknown speex mode: %d", props.Mode)
	}
	if channels != 1 && channels != 2 {
		return props, fmt.Errorf("invalid speex channel count: %d", channels)
	}
	props.Channels = uint8(channels)
	if props.SampleRate == 0 {
		return props, fmt.Errorf("speex header has zero sample rate")
	}
	return props, nil
}
