package types

import (
	"math/bits"
	"strings"
)

// ChannelMask is a set of speaker positions carried by an audio stream.
//
// Bit positions match the WAVE_FORMAT_EXTENSIBLE dwChannelMask layout, so a
// WAV channel mask converts with a plain cast. Other containers map their
// native channel order onto these bits in their own parser.
type ChannelMask uint32

// Speaker positions. The bit position of each constant is stable.
const (
	ChannelFrontLeft          ChannelMask = 1 << iota // FL
	ChannelFrontRight                                 // FR
	ChannelFrontCenter                                // FC
	ChannelLowFrequency                               // LFE
	ChannelBackLeft                                   // BL
	ChannelBackRight                                  // BR
	ChannelFrontLeftOfCenter                          // FLC
	ChannelFrontRightOfCenter                         // FRC
	ChannelBackCenter                                 // BC
	ChannelSideLeft                                   // SL
	ChannelSideRight                                  // SR
	ChannelTopCenter                                  // TC
	ChannelTopFrontLeft                               // TFL
	ChannelTopFrontCenter                             // TFC
	ChannelTopFrontRight                              // TFR
	ChannelTopBackLeft                                // TBL
	ChannelTopBackCenter                              // TBC
	ChannelTopBackRight                               // TBR
)

// channelMaskAll covers every known position.
const channelMaskAll = ChannelTopBackRight<<1 - 1

var channelNames = [...]string{
	"FL", "FR", "FC", "LFE", "BL", "BR", "FLC", "FRC", "BC",
	"SL", "SR", "TC", "TFL", "TFC", "TFR", "TBL", "TBC", "TBR",
}

// MonoMask returns a mask containing only the front center channel.
func MonoMask() ChannelMask {
	return ChannelFrontCenter
}

// StereoMask returns a mask containing the front left and front right channels.
func StereoMask() ChannelMask {
	return ChannelFrontLeft | ChannelFrontRight
}

// ChannelMaskFromBits builds a mask from a raw integer, dropping bits that
// do not name a known position.
func ChannelMaskFromBits(b uint32) ChannelMask {
	return ChannelMask(b) & channelMaskAll
}

// Bits returns the raw integer representation.
func (m ChannelMask) Bits() uint32 {
	return uint32(m)
}

// Contains reports whether every position in other is also in m.
func (m ChannelMask) Contains(other ChannelMask) bool {
	return m&other == other
}

// Count returns the number of positions in the mask.
func (m ChannelMask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// String returns the positions joined by "|", e.g. "FL|FR".
func (m ChannelMask) String() string {
	if m == 0 {
		return "none"
	}
	var names []string
	for i, name := range channelNames {
		if m&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// VorbisChannelMask returns the speaker layout implied by the Vorbis channel
// order (Opus mapping family 0 and 1) for the given channel count.
//
// Returns false for counts without a defined layout.
func VorbisChannelMask(channels uint8) (ChannelMask, bool) {
	switch channels {
	case 1:
		return MonoMask(), true
	case 2:
		return StereoMask(), true
	case 3:
		return ChannelFrontLeft | ChannelFrontCenter | ChannelFrontRight, true
	case 4:
		return ChannelFrontLeft | ChannelFrontRight | ChannelBackLeft | ChannelBackRight, true
	case 5:
		return ChannelFrontLeft | ChannelFrontCenter | ChannelFrontRight |
			ChannelBackLeft | ChannelBackRight, true
	case 6:
		return ChannelFrontLeft | ChannelFrontCenter | ChannelFrontRight |
			ChannelBackLeft | ChannelBackRight | ChannelLowFrequency, true
	case 7:
		return ChannelFrontLeft | ChannelFrontCenter | ChannelFrontRight |
			ChannelSideLeft | ChannelSideRight | ChannelBackCenter | ChannelLowFrequency, true
	case 8:
		return ChannelFrontLeft | ChannelFrontCenter | ChannelFrontRight |
			ChannelSideLeft | ChannelSideRight | ChannelBackLeft | ChannelBackRight |
			ChannelLowFrequency, true
	default:
		return 0, false
	}
}
