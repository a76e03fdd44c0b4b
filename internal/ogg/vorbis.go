package ogg

import (
	"encoding/binary"
	"fmt"

	"github.com/simonhull/audiotag/internal/types"
)

const vorbisIdentSize = 30

// parseVorbisIdentification parses the Vorbis identification header.
//
// Layout (little-endian):
//   - 1 byte: packet type (0x01)
//   - 6 bytes: "vorbis"
//   - 4 bytes: vorbis_version
//   - 1 byte: audio_channels
//   - 4 bytes: audio_sample_rate
//   - 4 bytes: bitrate_maximum
//   - 4 bytes: bitrate_nominal
//   - 4 bytes: bitrate_minimum
//   - 1 byte: blocksize_0 / blocksize_1
//   - 1 byte: framing_flag
func parseVorbisIdentification(data []byte) (types.VorbisProperties, error) {
	var props types.VorbisProperties
	if len(data) < vorbisIdentSize {
		return props, fmt.Errorf("vorbis identification header too short: %d bytes", len(data))
	}
	if data[0] != 0x01 || string(data[1:7]) != "vorbis" {
		return props, fmt.Errorf("invalid vorbis identification header")
	}

	props.Version = binary.LittleEndian.Uint32(data[7:11])
	if props.Version != 0 {
		return props, fmt.Errorf("unsupported vorbis version: %d", props.Version)
	}
	props.Channels = data[11]
	props.SampleRate = binary.LittleEndian.Uint32(data[12:16])
	props.BitrateMaximum = int32(binary.LittleEndian.Uint32(data[16:20]))
	props.BitrateNominal = int32(binary.LittleEndian.Uint32(data[20:24]))
	props.BitrateMinimum = int32(binary.LittleEndian.Uint32(data[24:28]))

	if props.Channels == 0 || props.SampleRate == 0 {
		return props, fmt.Errorf("vorbis header has zero channels or sample rate")
	}
	return props, nil
}
