package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Properties is the format-specific audio properties of a file. Switch on
// the concrete type for fields beyond FileProperties:
//
//	switch p := props.(type) {
//	case audiotag.MPEGProperties:
//	case audiotag.MusepackProperties:
//	}
type Properties = types.Properties

// FileProperties is the format-independent subset of the audio properties.
type FileProperties = types.FileProperties

// Format-specific properties.
type (
	MPEGProperties    = types.MPEGProperties
	AACProperties     = types.AACProperties
	MP4Properties     = types.MP4Properties
	FLACProperties    = types.FLACProperties
	VorbisProperties  = types.VorbisProperties
	OpusProperties    = types.OpusProperties
	SpeexProperties   = types.SpeexProperties
	WAVProperties     = types.WAVProperties
	AIFFProperties    = types.AIFFProperties
	APEProperties     = types.APEProperties
	WavPackProperties = types.WavPackProperties
)

// MusepackProperties is exactly one of MusepackSV4to6, MusepackSV7 or
// MusepackSV8.
type MusepackProperties = types.MusepackProperties

type (
	MusepackSV4to6       = types.MusepackSV4to6
	MusepackSV7          = types.MusepackSV7
	MusepackSV8          = types.MusepackSV8
	MusepackProfile      = types.MusepackProfile
	MusepackLink         = types.MusepackLink
	MusepackStreamHeader = types.MusepackStreamHeader
	MusepackReplayGain   = types.MusepackReplayGain
	MusepackEncoderInfo  = types.MusepackEncoderInfo
)

// ChannelMask is a set of speaker positions, laid out like the
// WAVE_FORMAT_EXTENSIBLE channel mask.
type ChannelMask = types.ChannelMask

const (
	ChannelFrontLeft          = types.ChannelFrontLeft
	ChannelFrontRight         = types.ChannelFrontRight
	ChannelFrontCenter        = types.ChannelFrontCenter
	ChannelLowFrequency       = types.ChannelLowFrequency
	ChannelBackLeft           = types.ChannelBackLeft
	ChannelBackRight          = types.ChannelBackRight
	ChannelFrontLeftOfCenter  = types.ChannelFrontLeftOfCenter
	ChannelFrontRightOfCenter = types.ChannelFrontRightOfCenter
	ChannelBackCenter         = types.ChannelBackCenter
	ChannelSideLeft           = types.ChannelSideLeft
	ChannelSideRight          = types.ChannelSideRight
	ChannelTopCenter          = types.ChannelTopCenter
	ChannelTopFrontLeft       = types.ChannelTopFrontLeft
	ChannelTopFrontCenter     = types.ChannelTopFrontCenter
	ChannelTopFrontRight      = types.ChannelTopFrontRight
	ChannelTopBackLeft        = types.ChannelTopBackLeft
	ChannelTopBackCenter      = types.ChannelTopBackCenter
	ChannelTopBackRight       = types.ChannelTopBackRight
)

// MonoMask returns the front center channel.
func MonoMask() ChannelMask { return types.MonoMask() }

// StereoMask returns the front left and front right channels.
func StereoMask() ChannelMask { return types.StereoMask() }

// ChannelMaskFromBits converts a raw mask, dropping unknown positions.
func ChannelMaskFromBits(b uint32) ChannelMask { return types.ChannelMaskFromBits(b) }
