package types

import "time"

// FLACProperties holds the properties of a native FLAC stream.
type FLACProperties struct {
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	SampleRate     uint32
	BitDepth       uint8
	Channels       uint8
	// Signature is the MD5 of the unencoded audio, all zero when unset.
	Signature [16]byte
}

// FileProperties implements Properties.
func (p FLACProperties) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithBitDepth(p.BitDepth),
		WithChannels(p.Channels),
	)
}

// Format implements Properties.
func (FLACProperties) Format() Format { return FormatFLAC }

// APEProperties holds the properties of a Monkey's Audio stream.
type APEProperties struct {
	// Version is the encoder version times 1000, e.g. 3990.
	Version        uint16
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	SampleRate     uint32
	BitDepth       uint8
	Channels       uint8
}

// FileProperties implements Properties.
func (p APEProperties) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithBitDepth(p.BitDepth),
		WithChannels(p.Channels),
	)
}

// Format implements Properties.
func (APEProperties) Format() Format { return FormatAPE }

// WavPackProperties holds the properties of a WavPack stream.
type WavPackProperties struct {
	Version        uint16
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	SampleRate     uint32
	Channels       uint8
	ChannelMask    ChannelMask
	BitDepth       uint8
	Lossless       bool
}

// FileProperties implements Properties.
func (p WavPackProperties) FileProperties() FileProperties {
	opts := []PropertyOption{
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithBitDepth(p.BitDepth),
		WithChannels(p.Channels),
	}
	if p.ChannelMask != 0 {
		opts = append(opts, WithChannelMask(p.ChannelMask))
	}
	return NewFileProperties(p.Duration, opts...)
}

// Format implements Properties.
func (WavPackProperties) Format() Format { return FormatWavPack }
