// Package mpeg reads the audio properties of MPEG-1, MPEG-2 and MPEG-2.5
// Layer I, II and III streams.
package mpeg

import (
	"errors"

	"github.com/simonhull/audiotag/internal/types"
)

var errInvalidHeader = errors.New("invalid MPEG frame header")

// Bitrate tables in kbps, indexed by the 4-bit bitrate index.
var (
	bitratesV1L1 = [16]uint32{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0}
	bitratesV1L2 = [16]uint32{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0}
	bitratesV1L3 = [16]uint32{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	bitratesV2L1 = [16]uint32{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0}
	bitratesV2L2 = [16]uint32{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// Sample rates in Hz for MPEG-1, indexed by the 2-bit sample rate index.
// MPEG-2 halves them and MPEG-2.5 quarters them.
var sampleRatesV1 = [3]uint32{44100, 48000, 32000}

// header is a decoded 4-byte frame header.
type header struct {
	version       types.MPEGVersion
	layer         types.MPEGLayer
	protected     bool
	bitrate       uint32 // kbps
	sampleRate    uint32
	padding       bool
	channelMode   types.ChannelMode
	modeExtension uint8
	copyright     bool
	original      bool
	emphasis      uint8
}

// parseHeader decodes a frame header. Free-format bitrates are rejected.
func parseHeader(h uint32) (header, error) {
	if h&0xFFE00000 != 0xFFE00000 {
		return header{}, errInvalidHeader
	}

	var hdr header
	switch (h >> 19) & 0x3 {
	case 0:
		hdr.version = types.MPEGVersion25
	case 2:
		hdr.version = types.MPEGVersion2
	case 3:
		hdr.version = types.MPEGVersion1
	default:
		return header{}, errInvalidHeader
	}

	layerBits := (h >> 17) & 0x3
	if layerBits == 0 {
		return header{}, errInvalidHeader
	}
	hdr.layer = types.MPEGLayer(4 - layerBits)

	bitrateIdx := (h >> 12) & 0xF
	rateIdx := (h >> 10) & 0x3
	if bitrateIdx == 0 || bitrateIdx == 0xF || rateIdx == 3 {
		return header{}, errInvalidHeader
	}
	hdr.bitrate = bitrateTable(hdr.version, hdr.layer)[bitrateIdx]

	hdr.sampleRate = sampleRatesV1[rateIdx]
	switch hdr.version {
	case types.MPEGVersion2:
		hdr.sampleRate /= 2
	case types.MPEGVersion25:
		hdr.sampleRate /= 4
	}

	hdr.protected = h&(1<<16) == 0
	hdr.padding = h&(1<<9) != 0
	hdr.channelMode = types.ChannelMode((h >> 6) & 0x3)
	hdr.modeExtension = uint8((h >> 4) & 0x3)
	hdr.copyright = h&(1<<3) != 0
	hdr.original = h&(1<<2) != 0
	hdr.emphasis = uint8(h & 0x3)

	return hdr, nil
}

func bitrateTable(v types.MPEGVersion, l types.MPEGLayer) *[16]uint32 {
	if v == types.MPEGVersion1 {
		switch l {
		case 1:
			return &bitratesV1L1
		case 2:
			return &bitratesV1L2
		default:
			return &bitratesV1L3
		}
	}
	if l == 1 {
		return &bitratesV2L1
	}
	return &bitratesV2L2
}

// samplesPerFrame returns the number of PCM samples a frame decodes to.
func (h header) samplesPerFrame() uint32 {
	switch {
	case h.layer == 1:
		return 384
	case h.layer == 3 && h.version != types.MPEGVersion1:
		return 576
	default:
		return 1152
	}
}

// frameLength returns the size of the frame in bytes, header included.
func (h header) frameLength() int64 {
	var pad int64
	if h.padding {
		pad = 1
	}
	if h.layer == 1 {
		return (12*int64(h.bitrate)*1000/int64(h.sampleRate) + pad) * 4
	}
	return int64(h.samplesPerFrame())/8*int64(h.bitrate)*1000/int64(h.sampleRate) + pad
}

// channels returns 1 for single channel streams and 2 otherwise.
func (h header) channels() uint8 {
	if h.channelMode == types.ChannelModeSingleChannel {
		return 1
	}
	return 2
}

// sideInfoSize returns the size of the Layer III side information, which
// precedes a Xing or Info header.
func (h header) sideInfoSize() int64 {
	mono := h.channelMode == types.ChannelModeSingleChannel
	switch {
	case h.version == types.MPEGVersion1 && mono:
		return 17
	case h.version == types.MPEGVersion1:
		return 32
	case mono:
		return 9
	default:
		return 17
	}
}
