// Package flac reads the audio properties of native FLAC streams.
package flac

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/mewkiz/flac"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// blockHeaderSize is the size of a metadata block header.
const blockHeaderSize = 4

// Parse reads the STREAMINFO block and measures the audio stream that
// follows the metadata blocks.
func Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	start, err := binary.SkipID3v2(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%s: skip ID3v2: %w", path, err)
	}
	if start > 0 {
		logger.Debug("ID3v2 tag before FLAC stream", "path", path, "size", start)
	}

	stream, err := flac.Parse(io.NewSectionReader(r, start, size-start))
	if err != nil {
		return nil, &types.CorruptedFileError{
			Path:   path,
			Offset: start,
			Reason: fmt.Sprintf("invalid FLAC metadata: %v", err),
		}
	}
	defer stream.Close() //nolint:errcheck // Section readers need no closing

	info := stream.Info
	props := types.FLACProperties{
		SampleRate: info.SampleRate,
		BitDepth:   info.BitsPerSample,
		Channels:   info.NChannels,
		Signature:  info.MD5sum,
	}

	// "fLaC", STREAMINFO, then the remaining metadata blocks.
	metaEnd := start + 4 + blockHeaderSize + 34
	for _, block := range stream.Blocks {
		metaEnd += blockHeaderSize + block.Length
	}
	if metaEnd > size {
		return nil, &types.CorruptedFileError{Path: path, Offset: metaEnd, Reason: "metadata blocks extend past end of file"}
	}

	if info.NSamples == 0 {
		logger.Warn("STREAMINFO has no sample count, duration unknown", "path", path)
		return props, nil
	}

	props.Duration = types.DurationOf(info.NSamples, info.SampleRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)
	props.AudioBitrate = types.Bitrate(size-metaEnd, props.Duration)
	return props, nil
}

func init() {
	registry.Register(types.FormatFLAC, registry.ParserFunc(Parse))
}
