package iff

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-audio/aiff"
	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	// ssndHeaderSize is the offset and block size that precede the samples.
	ssndHeaderSize = 8
	// maxCommSize is an AIFF-C COMM chunk with the longest compression name.
	maxCommSize = 18 + 4 + 1 + 255
)

// ParseAIFF reads the COMM chunk and measures the SSND chunk.
func ParseAIFF(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	sr := binary.NewSafeReader(r, size, path)
	chunks, err := readChunks(sr, binary.BigEndian)
	if err != nil {
		return nil, err
	}

	comm, ok := findChunk(chunks, "COMM")
	if !ok {
		return nil, &types.CorruptedFileError{Path: path, Reason: "AIFF file has no COMM chunk"}
	}
	header, err := headerOnly(sr, binary.BigEndian, comm, maxCommSize)
	if err != nil {
		return nil, err
	}
	d := aiff.NewDecoder(header)
	if !d.IsValidFile() {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("invalid AIFF header: %v", d.Err())}
	}

	props := types.AIFFProperties{
		SampleRate: uint32(d.SampleRate),
		SampleSize: d.BitDepth,
		Channels:   d.NumChans,
	}

	if id := string(d.Encoding[:]); id != "" && id != "\x00\x00\x00\x00" && id != "NONE" {
		props.Compression = &types.AIFFCompression{
			ID:   id,
			Name: strings.TrimRight(d.EncodingName, "\x00"),
		}
	}

	props.Duration = types.DurationOf(uint64(d.NumSampleFrames), props.SampleRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)

	switch ssnd, ok := findChunk(chunks, "SSND"); {
	case props.Compression == nil:
		props.AudioBitrate = props.SampleRate * uint32(props.SampleSize) * uint32(props.Channels) / 1000
	case ok:
		props.AudioBitrate = types.Bitrate(ssnd.Size-ssndHeaderSize, props.Duration)
	default:
		logger.Debug("AIFF-C file without SSND chunk", "path", path)
	}

	return props, nil
}

func init() {
	registry.Register(types.FormatAIFF, registry.ParserFunc(ParseAIFF))
}
