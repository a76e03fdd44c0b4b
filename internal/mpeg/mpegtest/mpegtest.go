// Package mpegtest builds MPEG audio streams for tests.
package mpegtest

import (
	"bytes"
	"encoding/binary"
)

// Header describes a frame header. Indices are the raw header fields.
type Header struct {
	VersionBits  uint8 // 3 = MPEG-1, 2 = MPEG-2, 0 = MPEG-2.5
	LayerBits    uint8 // 3 = Layer I, 2 = Layer II, 1 = Layer III
	BitrateIndex uint8
	RateIndex    uint8
	Padding      bool
	ChannelMode  uint8
	ModeExt      uint8
	Copyright    bool
	Original     bool
	Emphasis     uint8
}

// MP3 is MPEG-1 Layer III, 128 kbps, 44.1 kHz, joint stereo.
var MP3 = Header{VersionBits: 3, LayerBits: 1, BitrateIndex: 9, RateIndex: 0, ChannelMode: 1}

// Bytes encodes the header without CRC protection.
func (h Header) Bytes() []byte {
	v := uint32(0xFFE00000) |
		uint32(h.VersionBits)<<19 |
		uint32(h.LayerBits)<<17 |
		1<<16 |
		uint32(h.BitrateIndex)<<12 |
		uint32(h.RateIndex)<<10 |
		uint32(h.ChannelMode)<<6 |
		uint32(h.ModeExt)<<4 |
		uint32(h.Emphasis)
	if h.Padding {
		v |= 1 << 9
	}
	if h.Copyright {
		v |= 1 << 3
	}
	if h.Original {
		v |= 1 << 2
	}
	return binary.BigEndian.AppendUint32(nil, v)
}

// Frame returns a frame of length bytes: the header and zero padding.
func Frame(h Header, length int) []byte {
	return append(h.Bytes(), make([]byte, length-4)...)
}

// Stream returns n identical frames.
func Stream(h Header, length, n int) []byte {
	return bytes.Repeat(Frame(h, length), n)
}

// XingFrame returns a frame carrying a Xing header at offset with the
// frame and byte counts set.
func XingFrame(h Header, length int, offset int, marker string, frames, size uint32) []byte {
	f := Frame(h, length)
	copy(f[offset:], marker)
	binary.BigEndian.PutUint32(f[offset+4:], 0x3)
	binary.BigEndian.PutUint32(f[offset+8:], frames)
	binary.BigEndian.PutUint32(f[offset+12:], size)
	return f
}
