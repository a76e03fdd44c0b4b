package types

import (
	"fmt"
	"time"
)

// MusepackProperties is the properties of a Musepack stream.
//
// The stream header changed incompatibly across versions, so the value is
// exactly one of MusepackSV4to6, MusepackSV7 or MusepackSV8. The set is
// closed; switch on the concrete type:
//
//	switch p := props.(type) {
//	case types.MusepackSV4to6:
//	case types.MusepackSV7:
//	case types.MusepackSV8:
//	}
type MusepackProperties interface {
	Properties
	// StreamVersion returns the Musepack stream version (4 to 8).
	StreamVersion() uint8
	musepack()
}

// MusepackSV4to6 is a stream version 4, 5 or 6 header.
type MusepackSV4to6 struct {
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	Channels       uint8
	SampleRate     uint32
	FrameCount     uint32
	MidSideStereo  bool
	Version        uint16
	MaxBand        uint8
}

func (MusepackSV4to6) musepack() {}

// StreamVersion implements MusepackProperties.
func (p MusepackSV4to6) StreamVersion() uint8 { return uint8(p.Version) }

// Format implements Properties.
func (MusepackSV4to6) Format() Format { return FormatMusepack }

// FileProperties implements Properties.
func (p MusepackSV4to6) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithChannels(p.Channels),
	)
}

// MusepackProfile is the encoder quality profile of an SV7 stream.
type MusepackProfile uint8

const (
	MusepackProfileNone MusepackProfile = iota
	MusepackProfileUnstable
	MusepackProfileUnused2
	MusepackProfileUnused3
	MusepackProfileUnused4
	MusepackProfileBelowTelephone0
	MusepackProfileBelowTelephone1
	MusepackProfileTelephone
	MusepackProfileThumb
	MusepackProfileRadio
	MusepackProfileStandard
	MusepackProfileXtreme
	MusepackProfileInsane
	MusepackProfileBrainDead
	MusepackProfileAboveBrainDead0
	MusepackProfileAboveBrainDead1
)

var musepackProfileNames = [...]string{
	"no profile", "unstable/experimental", "unused", "unused", "unused",
	"below telephone (q=0)", "below telephone (q=1)", "telephone", "thumb",
	"radio", "standard", "xtreme", "insane", "braindead",
	"above braindead (q=9)", "above braindead (q=10)",
}

func (p MusepackProfile) String() string {
	if int(p) < len(musepackProfileNames) {
		return musepackProfileNames[p]
	}
	return fmt.Sprintf("MusepackProfile(%d)", uint8(p))
}

// MusepackLink describes how an SV7 stream's edges relate to its neighbours.
type MusepackLink uint8

const (
	MusepackLinkVeryLowStartOrEnd MusepackLink = iota
	MusepackLinkLoudEnd
	MusepackLinkLoudStart
	MusepackLinkLoudStartAndEnd
)

// MusepackSV7 is a stream version 7 header.
type MusepackSV7 struct {
	Duration        time.Duration
	OverallBitrate  uint32
	AudioBitrate    uint32
	Channels        uint8
	FrameCount      uint32
	IntensityStereo bool
	MidSideStereo   bool
	MaxBand         uint8
	Profile         MusepackProfile
	Link            MusepackLink
	SampleFreq      uint32
	MaxLevel        uint16
	TitleGain       int16
	TitlePeak       uint16
	AlbumGain       int16
	AlbumPeak       uint16
	TrueGapless     bool
	LastFrameLength uint16
	FastSeekingSafe bool
	EncoderVersion  uint8
}

func (MusepackSV7) musepack() {}

// StreamVersion implements MusepackProperties.
func (MusepackSV7) StreamVersion() uint8 { return 7 }

// Format implements Properties.
func (MusepackSV7) Format() Format { return FormatMusepack }

// FileProperties implements Properties.
func (p MusepackSV7) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleFreq),
		WithChannels(p.Channels),
	)
}

// MusepackStreamHeader is the SV8 "SH" packet.
type MusepackStreamHeader struct {
	CRC              uint32
	StreamVersion    uint8
	SampleCount      uint64
	BeginningSilence uint64
	SampleRate       uint32
	MaxUsedBands     uint8
	Channels         uint8
	MSUsed           bool
	AudioBlockFrames uint16
}

// MusepackReplayGain is the SV8 "RG" packet. Gains and peaks are stored as
// 256*20*log10 values.
type MusepackReplayGain struct {
	Version   uint8
	TitleGain int16
	TitlePeak uint16
	AlbumGain int16
	AlbumPeak uint16
}

// MusepackEncoderInfo is the SV8 "EI" packet.
type MusepackEncoderInfo struct {
	Profile float32
	PNS     bool
	Major   uint8
	Minor   uint8
	Build   uint8
}

// Version returns the encoder version as "major.minor.build".
func (e MusepackEncoderInfo) Version() string {
	return fmt.Sprintf("%d.%d.%d", e.Major, e.Minor, e.Build)
}

// MusepackSV8 is a stream version 8 stream.
type MusepackSV8 struct {
	Duration       time.Duration
	OverallBitrate uint32
	AudioBitrate   uint32
	StreamHeader   MusepackStreamHeader
	ReplayGain     *MusepackReplayGain
	EncoderInfo    *MusepackEncoderInfo
}

func (MusepackSV8) musepack() {}

// StreamVersion implements MusepackProperties.
func (p MusepackSV8) StreamVersion() uint8 { return p.StreamHeader.StreamVersion }

// Format implements Properties.
func (MusepackSV8) Format() Format { return FormatMusepack }

// FileProperties implements Properties.
func (p MusepackSV8) FileProperties() FileProperties {
	return NewFileProperties(p.Duration,
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.StreamHeader.SampleRate),
		WithChannels(p.StreamHeader.Channels),
	)
}
