package types

import (
	"fmt"
	"strings"
	"time"
)

// Properties is implemented by every format-specific properties type.
type Properties interface {
	// FileProperties returns the format-agnostic view of the properties.
	FileProperties() FileProperties

	// Format returns the container format the properties were read from.
	Format() Format
}

// FileProperties is an immutable snapshot of audio properties.
//
// Optional values are nil when the container cannot express them or the
// parser could not determine them. Use the getters, which report presence.
type FileProperties struct {
	duration       time.Duration
	overallBitrate *uint32
	audioBitrate   *uint32
	sampleRate     *uint32
	bitDepth       *uint8
	channels       *uint8
	channelMask    *ChannelMask
}

// PropertyOption sets an optional value while constructing FileProperties.
type PropertyOption func(*FileProperties)

// NewFileProperties builds a FileProperties value. Once built it cannot be
// changed.
//
// Example:
//
//	props := types.NewFileProperties(1428*time.Millisecond,
//	    types.WithSampleRate(48000),
//	    types.WithChannels(2),
//	)
func NewFileProperties(duration time.Duration, opts ...PropertyOption) FileProperties {
	p := FileProperties{duration: max(duration, 0)}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithOverallBitrate sets the overall bitrate in kbps.
func WithOverallBitrate(kbps uint32) PropertyOption {
	return func(p *FileProperties) { p.overallBitrate = &kbps }
}

// WithAudioBitrate sets the audio bitrate in kbps.
func WithAudioBitrate(kbps uint32) PropertyOption {
	return func(p *FileProperties) { p.audioBitrate = &kbps }
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(hz uint32) PropertyOption {
	return func(p *FileProperties) { p.sampleRate = &hz }
}

// WithBitDepth sets the bits per sample.
func WithBitDepth(depth uint8) PropertyOption {
	return func(p *FileProperties) { p.bitDepth = &depth }
}

// WithChannels sets the channel count.
func WithChannels(n uint8) PropertyOption {
	return func(p *FileProperties) { p.channels = &n }
}

// WithChannelMask sets the speaker layout.
func WithChannelMask(mask ChannelMask) PropertyOption {
	return func(p *FileProperties) { p.channelMask = &mask }
}

// Duration returns the playback duration. Zero when unknown.
func (p FileProperties) Duration() time.Duration {
	return p.duration
}

// OverallBitrate returns the bitrate of the whole file in kbps.
func (p FileProperties) OverallBitrate() (uint32, bool) {
	return deref(p.overallBitrate)
}

// AudioBitrate returns the bitrate of the audio stream alone in kbps.
func (p FileProperties) AudioBitrate() (uint32, bool) {
	return deref(p.audioBitrate)
}

// SampleRate returns the sample rate in Hz.
func (p FileProperties) SampleRate() (uint32, bool) {
	return deref(p.sampleRate)
}

// BitDepth returns the bits per sample.
func (p FileProperties) BitDepth() (uint8, bool) {
	return deref(p.bitDepth)
}

// Channels returns the channel count.
func (p FileProperties) Channels() (uint8, bool) {
	return deref(p.channels)
}

// ChannelMask returns the speaker layout.
func (p FileProperties) ChannelMask() (ChannelMask, bool) {
	return deref(p.channelMask)
}

// String returns a human-readable summary.
// Example output: "1.428s 48.0kHz 16-bit stereo 1536kbps".
func (p FileProperties) String() string {
	parts := []string{p.duration.String()}
	if rate, ok := p.SampleRate(); ok {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(rate)/1000))
	}
	if depth, ok := p.BitDepth(); ok {
		parts = append(parts, fmt.Sprintf("%d-bit", depth))
	}
	if ch, ok := p.Channels(); ok {
		parts = append(parts, channelDescription(ch))
	}
	if br, ok := p.AudioBitrate(); ok {
		parts = append(parts, fmt.Sprintf("%dkbps", br))
	}
	return strings.Join(parts, " ")
}

// FileProperties returns p itself, so FileProperties satisfies the same
// accessor as the format-specific types.
func (p FileProperties) FileProperties() FileProperties {
	return p
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels uint8) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Bitrate returns size*8 bits over d, in kbps. Zero when d is shorter than
// a millisecond.
func Bitrate(size int64, d time.Duration) uint32 {
	ms := d.Milliseconds()
	if ms <= 0 || size <= 0 {
		return 0
	}
	return uint32(size * 8 / ms)
}

// DurationOf returns samples/sampleRate as a duration, truncated to the
// millisecond.
func DurationOf(samples uint64, sampleRate uint32) time.Duration {
	if sampleRate == 0 {
		return 0
	}
	return time.Duration(samples*1000/uint64(sampleRate)) * time.Millisecond
}
