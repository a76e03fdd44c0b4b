package types

import (
	"fmt"
	"time"
)

// WAVFormat is the format tag of a WAV fmt chunk.
type WAVFormat uint16

const (
	WAVFormatPCM        WAVFormat = 0x0001
	WAVFormatIEEEFloat  WAVFormat = 0x0003
	WAVFormatALaw       WAVFormat = 0x0006
	WAVFormatMuLaw      WAVFormat = 0x0007
	WAVFormatExtensible WAVFormat = 0xFFFE
)

func (f WAVFormat) String() string {
	switch f {
	case WAVFormatPCM:
		return "PCM"
	case WAVFormatIEEEFloat:
		return "IEEE float"
	case WAVFormatALaw:
		return "A-law"
	case WAVFormatMuLaw:
		return "mu-law"
	case WAVFormatExtensible:
		return "extensible"
	default:
		return fmt.Sprintf("0x%04X", uint16(f))
	}
}

// WAVProperties holds the properties of a RIFF WAVE file.
type WAVProperties struct {
	AudioFormat    WAVFormat
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	SampleRate     uint32
	BitDepth       uint8
	Channels       uint8
	// ChannelMask is only present for WAVE_FORMAT_EXTENSIBLE streams.
	ChannelMask *ChannelMask
}

// FileProperties implements Properties.
func (p WAVProperties) FileProperties() FileProperties {
	opts := []PropertyOption{
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithBitDepth(p.BitDepth),
		WithChannels(p.Channels),
	}
	if p.ChannelMask != nil {
		opts = append(opts, WithChannelMask(*p.ChannelMask))
	}
	return NewFileProperties(p.Duration, opts...)
}

// Format implements Properties.
func (WAVProperties) Format() Format { return FormatWAV }

// AIFFCompression describes the compression of an AIFF-C file.
type AIFFCompression struct {
	ID   string // four character code, e.g. "sowt"
	Name string
}

// AIFFProperties holds the properties of an AIFF or AIFF-C file.
type AIFFProperties struct {
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	SampleRate     uint32
	SampleSize     uint16
	Channels       uint16
	// Compression is nil for uncompressed AIFF.
	Compression *AIFFCompression
}

// FileProperties implements Properties.
func (p AIFFProperties) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithBitDepth(uint8(p.SampleSize)),
		WithChannels(uint8(p.Channels)),
	)
}

// Format implements Properties.
func (AIFFProperties) Format() Format { return FormatAIFF }
