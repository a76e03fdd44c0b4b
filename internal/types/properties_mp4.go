package types

import (
	"fmt"
	"time"
)

// AudioObjectType is an MPEG-4 Audio Object Type (ISO/IEC 14496-3).
type AudioObjectType uint8

const (
	AudioObjectTypeNull                     AudioObjectType = 0
	AudioObjectTypeAACMain                  AudioObjectType = 1
	AudioObjectTypeAACLowComplexity         AudioObjectType = 2
	AudioObjectTypeAACScalableSampleRate    AudioObjectType = 3
	AudioObjectTypeAACLongTermPrediction    AudioObjectType = 4
	AudioObjectTypeSpectralBandReplication  AudioObjectType = 5
	AudioObjectTypeAACScalable              AudioObjectType = 6
	AudioObjectTypeTwinVQ                   AudioObjectType = 7
	AudioObjectTypeCELP                     AudioObjectType = 8
	AudioObjectTypeHVXC                     AudioObjectType = 9
	AudioObjectTypeTTSI                     AudioObjectType = 12
	AudioObjectTypeMainSynthetic            AudioObjectType = 13
	AudioObjectTypeErrorResilientAACLC      AudioObjectType = 17
	AudioObjectTypeErrorResilientAACLD      AudioObjectType = 23
	AudioObjectTypeParametricStereo         AudioObjectType = 29
	AudioObjectTypeMPEGLayer1               AudioObjectType = 32
	AudioObjectTypeMPEGLayer2               AudioObjectType = 33
	AudioObjectTypeMPEGLayer3               AudioObjectType = 34
	AudioObjectTypeAudioLosslessCoding      AudioObjectType = 36
	AudioObjectTypeLowDelayMPEGSurround     AudioObjectType = 44
	AudioObjectTypeUnifiedSpeechAudioCoding AudioObjectType = 42
)

var audioObjectTypeNames = map[AudioObjectType]string{
	AudioObjectTypeNull:                     "Null",
	AudioObjectTypeAACMain:                  "AAC Main",
	AudioObjectTypeAACLowComplexity:         "AAC-LC",
	AudioObjectTypeAACScalableSampleRate:    "AAC SSR",
	AudioObjectTypeAACLongTermPrediction:    "AAC LTP",
	AudioObjectTypeSpectralBandReplication:  "HE-AAC (SBR)",
	AudioObjectTypeAACScalable:              "AAC Scalable",
	AudioObjectTypeTwinVQ:                   "TwinVQ",
	AudioObjectTypeCELP:                     "CELP",
	AudioObjectTypeHVXC:                     "HVXC",
	AudioObjectTypeTTSI:                     "TTSI",
	AudioObjectTypeMainSynthetic:            "Main Synthetic",
	AudioObjectTypeErrorResilientAACLC:      "ER AAC-LC",
	AudioObjectTypeErrorResilientAACLD:      "ER AAC-LD",
	AudioObjectTypeParametricStereo:         "HE-AACv2 (PS)",
	AudioObjectTypeMPEGLayer1:               "MPEG Layer 1",
	AudioObjectTypeMPEGLayer2:               "MPEG Layer 2",
	AudioObjectTypeMPEGLayer3:               "MPEG Layer 3",
	AudioObjectTypeAudioLosslessCoding:      "ALS",
	AudioObjectTypeLowDelayMPEGSurround:     "LD MPEG Surround",
	AudioObjectTypeUnifiedSpeechAudioCoding: "USAC",
}

func (t AudioObjectType) String() string {
	if name, ok := audioObjectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AOT(%d)", uint8(t))
}

// MP4Codec identifies the audio codec of an MP4 sample entry.
type MP4Codec uint8

const (
	MP4CodecUnknown MP4Codec = iota
	MP4CodecAAC
	MP4CodecALAC
	MP4CodecMP3
	MP4CodecFLAC
	MP4CodecOpus
)

func (c MP4Codec) String() string {
	switch c {
	case MP4CodecAAC:
		return "AAC"
	case MP4CodecALAC:
		return "ALAC"
	case MP4CodecMP3:
		return "MP3"
	case MP4CodecFLAC:
		return "FLAC"
	case MP4CodecOpus:
		return "Opus"
	default:
		return "Unknown"
	}
}

// MP4Properties holds the properties of the first audio track of an MP4 file.
type MP4Properties struct {
	Codec MP4Codec
	// ExtendedAudioObjectType comes from the decoder specific info, when present.
	ExtendedAudioObjectType *AudioObjectType
	Duration                time.Duration
	OverallBitrate          uint32
	AudioBitrate            uint32
	SampleRate              uint32
	BitDepth                *uint8
	Channels                uint8
	DRMProtected            bool
}

// FileProperties implements Properties.
func (p MP4Properties) FileProperties() FileProperties {
	opts := []PropertyOption{
		WithOverallBitrate(p.OverallBitrate),
		WithAudioBitrate(p.AudioBitrate),
		WithSampleRate(p.SampleRate),
		WithChannels(p.Channels),
	}
	if p.BitDepth != nil {
		opts = append(opts, WithBitDepth(*p.BitDepth))
	}
	return NewFileProperties(p.Duration, opts...)
}

// Format implements Properties.
func (MP4Properties) Format() Format { return FormatMP4 }
