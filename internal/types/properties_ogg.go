package types

import "time"

// VorbisProperties holds the properties of an Ogg Vorbis stream.
type VorbisProperties struct {
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	SampleRate     uint32
	Channels       uint8
	Version        uint32
	BitrateMaximum int32
	BitrateNominal int32
	BitrateMinimum int32
}

// FileProperties implements Properties.
func (p VorbisProperties) FileProperties() FileProperties {
	opts := []PropertyOption{
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithChannels(p.Channels),
	}
	if mask, ok := VorbisChannelMask(p.Channels); ok {
		opts = append(opts, WithChannelMask(mask))
	}
	return NewFileProperties(p.Duration, opts...)
}

// Format implements Properties.
func (VorbisProperties) Format() Format { return FormatOgg }

// OpusProperties holds the properties of an Ogg Opus stream.
type OpusProperties struct {
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	Channels       uint8
	// ChannelMask is zero for mapping families without a defined layout.
	ChannelMask     ChannelMask
	Version         uint8
	InputSampleRate uint32
}

// FileProperties implements Properties.
func (p OpusProperties) FileProperties() FileProperties {
	opts := []PropertyOption{
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.InputSampleRate),
		WithChannels(p.Channels),
	}
	if p.ChannelMask != 0 {
		opts = append(opts, WithChannelMask(p.ChannelMask))
	}
	return NewFileProperties(p.Duration, opts...)
}

// Format implements Properties.
func (OpusProperties) Format() Format { return FormatOpus }

// SpeexProperties holds the properties of an Ogg Speex stream.
type SpeexProperties struct {
	Duration       time.Duration
	Version        uint32
	SampleRate     uint32
	Mode           uint32
	Channels       uint8
	VBR            bool
	OverallBitrate uint32
	AudioBitrate   uint32
	NominalBitrate int32
}

// FileProperties implements Properties.
func (p SpeexProperties) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithChannels(p.Channels),
	)
}

// Format implements Properties.
func (SpeexProperties) Format() Format { return FormatSpeex }
