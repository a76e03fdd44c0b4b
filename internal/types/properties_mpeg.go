package types

import (
	"fmt"
	"time"
)

// MPEGVersion identifies the MPEG audio version.
type MPEGVersion uint8

const (
	MPEGVersion1  MPEGVersion = iota + 1 // MPEG-1
	MPEGVersion2                         // MPEG-2
	MPEGVersion25                        // MPEG-2.5
	MPEGVersion4                         // MPEG-4 (ADTS only)
)

func (v MPEGVersion) String() string {
	switch v {
	case MPEGVersion1:
		return "MPEG-1"
	case MPEGVersion2:
		return "MPEG-2"
	case MPEGVersion25:
		return "MPEG-2.5"
	case MPEGVersion4:
		return "MPEG-4"
	default:
		return fmt.Sprintf("MPEGVersion(%d)", uint8(v))
	}
}

// MPEGLayer is the MPEG audio layer (1, 2 or 3).
type MPEGLayer uint8

// ChannelMode is the channel mode field of an MPEG frame header.
type ChannelMode uint8

const (
	ChannelModeStereo ChannelMode = iota
	ChannelModeJointStereo
	ChannelModeDualChannel
	ChannelModeSingleChannel
)

func (m ChannelMode) String() string {
	switch m {
	case ChannelModeStereo:
		return "stereo"
	case ChannelModeJointStereo:
		return "joint stereo"
	case ChannelModeDualChannel:
		return "dual channel"
	case ChannelModeSingleChannel:
		return "single channel"
	default:
		return fmt.Sprintf("ChannelMode(%d)", uint8(m))
	}
}

// Emphasis is the de-emphasis the decoder should apply.
type Emphasis uint8

const (
	EmphasisMS5015   Emphasis = 1 // 50/15 ms
	EmphasisReserved Emphasis = 2
	EmphasisCCITJ17  Emphasis = 3 // CCIT J.17
)

// MPEGProperties holds the properties of an MPEG audio (MP1/MP2/MP3) stream.
type MPEGProperties struct {
	Version     MPEGVersion
	Layer       MPEGLayer
	ChannelMode ChannelMode
	// ModeExtension is only meaningful in joint stereo.
	ModeExtension *uint8
	Copyright     bool
	Original      bool
	// Emphasis is nil when the header says "none".
	Emphasis *Emphasis

	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	SampleRate     uint32
	Channels       uint8
}

// FileProperties implements Properties.
func (p MPEGProperties) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithChannels(p.Channels),
	)
}

// Format implements Properties.
func (MPEGProperties) Format() Format { return FormatMPEG }

// AACProperties holds the properties of a raw ADTS AAC stream.
type AACProperties struct {
	Version         MPEGVersion
	AudioObjectType AudioObjectType
	Duration        time.Duration
	OverallBitrate  uint32
	AudioBitrate    uint32
	SampleRate      uint32
	Channels        uint8
	Copyright       bool
	Original        bool
}

// FileProperties implements Properties.
func (p AACProperties) FileProperties() FileProperties {
	opts := []PropertyOption{
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
	}
	// Channel configuration 0 means the layout lives in the bitstream.
	if p.Channels > 0 {
		opts = append(opts, WithChannels(p.Channels))
	}
	return NewFileProperties(p.Duration, opts...)
}

// Format implements Properties.
func (AACProperties) Format() Format { return FormatAAC }
