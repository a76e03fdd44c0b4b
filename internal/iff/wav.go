package iff

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	// extensibleFmtSize is the size of a WAVE_FORMAT_EXTENSIBLE fmt chunk.
	extensibleFmtSize = 40
	// basicFmtSize covers the fields go-audio decodes.
	basicFmtSize = 16
)

// ParseWAV reads the fmt chunk and measures the data chunk. Compressed
// streams with a fact chunk take their duration from its sample count.
func ParseWAV(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	sr := binary.NewSafeReader(r, size, path)
	chunks, err := readChunks(sr, binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	fmtChunk, ok := findChunk(chunks, "fmt ")
	if !ok {
		return nil, &types.CorruptedFileError{Path: path, Reason: "WAV file has no fmt chunk"}
	}
	header, err := headerOnly(sr, binary.LittleEndian, fmtChunk, basicFmtSize)
	if err != nil {
		return nil, err
	}
	d := wav.NewDecoder(header)
	if !d.IsValidFile() {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("invalid WAV header: %v", d.Err())}
	}

	props := types.WAVProperties{
		AudioFormat: types.WAVFormat(d.WavAudioFormat),
		SampleRate:  d.SampleRate,
		BitDepth:    uint8(d.BitDepth),
		Channels:    uint8(d.NumChans),
	}

	if props.AudioFormat == types.WAVFormatExtensible {
		if fmtChunk.Size >= extensibleFmtSize {
			bits, err := binary.ReadLE[uint32](sr, fmtChunk.Offset+20, "channel mask")
			if err != nil {
				return nil, err
			}
			mask := types.ChannelMaskFromBits(bits)
			props.ChannelMask = &mask
		}
	}

	data, ok := findChunk(chunks, "data")
	if !ok {
		return nil, &types.CorruptedFileError{Path: path, Reason: "WAV file has no data chunk"}
	}

	byteRate := d.AvgBytesPerSec
	if byteRate == 0 {
		byteRate = d.SampleRate * uint32(d.NumChans) * uint32(d.BitDepth) / 8
	}

	switch fact, hasFact := findChunk(chunks, "fact"); {
	case hasFact && !isPCM(props.AudioFormat) && fact.Size >= 4:
		samples, err := binary.ReadLE[uint32](sr, fact.Offset, "fact sample count")
		if err != nil {
			return nil, err
		}
		props.Duration = types.DurationOf(uint64(samples), d.SampleRate)
		props.AudioBitrate = types.Bitrate(data.Size, props.Duration)
	case byteRate > 0:
		props.Duration = types.DurationOf(uint64(data.Size), byteRate)
		props.AudioBitrate = byteRate * 8 / 1000
	default:
		logger.Warn("WAV byte rate unknown, duration unknown", "path", path)
	}
	props.OverallBitrate = types.Bitrate(size, props.Duration)

	return props, nil
}

func isPCM(f types.WAVFormat) bool {
	return f == types.WAVFormatPCM || f == types.WAVFormatIEEEFloat || f == types.WAVFormatExtensible
}

func init() {
	registry.Register(types.FormatWAV, registry.ParserFunc(ParseWAV))
}
