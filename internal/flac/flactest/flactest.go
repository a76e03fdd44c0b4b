// Package flactest builds small FLAC files for tests.
package flactest

import (
	"encoding/binary"

	"github.com/go-flac/go-flac"
)

// StreamInfo returns a STREAMINFO block.
func StreamInfo(sampleRate uint32, channels, bitsPerSample uint8, totalSamples uint64) *flac.MetaDataBlock {
	data := make([]byte, 34)
	binary.BigEndian.PutUint16(data[0:2], 4096)
	binary.BigEndian.PutUint16(data[2:4], 4096)
	packed := uint64(sampleRate)<<44 | uint64(channels-1)<<41 | uint64(bitsPerSample-1)<<36 | totalSamples&(1<<36-1)
	binary.BigEndian.PutUint64(data[10:18], packed)
	for i := range 16 {
		data[18+i] = byte(i + 1)
	}
	return &flac.MetaDataBlock{Type: flac.StreamInfo, Data: data}
}

// Frames is placeholder audio data.
var Frames = append([]byte{0xFF, 0xF8, 0x69, 0x08}, make([]byte, 1020)...)

// File renders a FLAC file from its metadata blocks, STREAMINFO first.
func File(frames []byte, blocks ...*flac.MetaDataBlock) []byte {
	f := &flac.File{Meta: blocks, Frames: flac.FrameData(frames)}
	return f.Marshal()
}
