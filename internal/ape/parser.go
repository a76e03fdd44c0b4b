// Package ape reads the audio properties of Monkey's Audio streams.
package ape

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	magic = "MAC "

	// descriptorVersion is the first version with a separate descriptor
	// ahead of the header.
	descriptorVersion = 3980

	formatFlag8Bit  = 0x0001
	formatFlag24Bit = 0x0008
)

// header holds the fields shared by both header layouts.
type header struct {
	version          uint16
	compressionLevel uint16
	blocksPerFrame   uint32
	finalFrameBlocks uint32
	totalFrames      uint32
	bitsPerSample    uint16
	channels         uint16
	sampleRate       uint32
}

// Parse reads the APE descriptor and header. A leading ID3v2 tag and
// trailing APEv2 or ID3v1 tags are excluded from the audio bitrate.
func Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	start, err := binary.SkipID3v2(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%s: skip ID3v2: %w", path, err)
	}
	sr := binary.NewSafeReader(r, size, path)

	sig, err := sr.ReadBytes(start, 6, "APE signature")
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Offset: start, Reason: "file too short for APE header"}
	}
	if string(sig[:4]) != magic {
		return nil, &types.CorruptedFileError{Path: path, Offset: start, Reason: "missing \"MAC \" signature"}
	}
	version := binary.LittleEndian.ByteOrder().Uint16(sig[4:])

	var h header
	if version >= descriptorVersion {
		h, err = readCurrent(sr, start, version)
	} else {
		h, err = readLegacy(sr, start, version)
	}
	if err != nil {
		return nil, err
	}
	if h.sampleRate == 0 || h.channels == 0 {
		return nil, &types.CorruptedFileError{Path: path, Offset: start, Reason: "APE header has no sample rate or channels"}
	}

	props := types.APEProperties{
		Version:    version,
		SampleRate: h.sampleRate,
		BitDepth:   uint8(h.bitsPerSample),
		Channels:   uint8(h.channels),
	}
	if h.totalFrames == 0 {
		logger.Warn("APE stream has no frames", "path", path)
		return props, nil
	}

	samples := uint64(h.totalFrames-1)*uint64(h.blocksPerFrame) + uint64(h.finalFrameBlocks)
	props.Duration = types.DurationOf(samples, h.sampleRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)
	props.AudioBitrate = types.Bitrate(binary.StreamEnd(sr)-start, props.Duration)
	return props, nil
}

// readCurrent reads a version 3980+ file: a descriptor whose first field
// after the version gives the offset of the header.
func readCurrent(sr *binary.SafeReader, start int64, version uint16) (header, error) {
	descriptorBytes, err := binary.ReadLE[uint32](sr, start+8, "APE descriptor size")
	if err != nil {
		return header{}, err
	}

	cr := binary.NewChainReader(binary.NewLEReader(sr, start+int64(descriptorBytes)))
	h := header{version: version}
	h.compressionLevel = binary.ReadChained[uint16](cr, "compression level")
	cr.Skip(2) // format flags
	h.blocksPerFrame = binary.ReadChained[uint32](cr, "blocks per frame")
	h.finalFrameBlocks = binary.ReadChained[uint32](cr, "final frame blocks")
	h.totalFrames = binary.ReadChained[uint32](cr, "total frames")
	h.bitsPerSample = binary.ReadChained[uint16](cr, "bits per sample")
	h.channels = binary.ReadChained[uint16](cr, "channels")
	h.sampleRate = binary.ReadChained[uint32](cr, "sample rate")
	return h, cr.Error()
}

// readLegacy reads a pre-3980 header, which follows the version directly
// and implies the bit depth and frame size.
func readLegacy(sr *binary.SafeReader, start int64, version uint16) (header, error) {
	cr := binary.NewChainReader(binary.NewLEReader(sr, start+6))
	h := header{version: version}
	h.compressionLevel = binary.ReadChained[uint16](cr, "compression level")
	flags := binary.ReadChained[uint16](cr, "format flags")
	h.channels = binary.ReadChained[uint16](cr, "channels")
	h.sampleRate = binary.ReadChained[uint32](cr, "sample rate")
	cr.Skip(8) // header and terminating data sizes
	h.totalFrames = binary.ReadChained[uint32](cr, "total frames")
	h.finalFrameBlocks = binary.ReadChained[uint32](cr, "final frame blocks")
	if err := cr.Error(); err != nil {
		return header{}, err
	}

	switch {
	case flags&formatFlag8Bit != 0:
		h.bitsPerSample = 8
	case flags&formatFlag24Bit != 0:
		h.bitsPerSample = 24
	default:
		h.bitsPerSample = 16
	}

	switch {
	case version >= 3950:
		h.blocksPerFrame = 73728 * 4
	case version >= 3900 || version >= 3800 && h.compressionLevel == 4000:
		h.blocksPerFrame = 73728
	default:
		h.blocksPerFrame = 9216
	}
	return h, nil
}

func init() {
	registry.Register(types.FormatAPE, registry.ParserFunc(Parse))
}
