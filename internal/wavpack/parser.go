// Package wavpack reads the audio properties of WavPack streams.
package wavpack

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	magic      = "wvpk"
	headerSize = 32

	// unknownSamples marks a stream whose length was not known when the
	// first block was written.
	unknownSamples = 0xFFFFFFFF
)

// Block header flags.
const (
	flagBytesStored = 0x3
	flagMono        = 0x4
	flagHybrid      = 0x8
	flagInitial     = 0x800
	flagShiftMask   = 0x1F << 13
	flagShiftLSB    = 13
	flagRateMask    = 0xF << 23
	flagRateLSB     = 23
	flagDSD         = 0x80000000
)

// Metadata sub-block IDs and flags.
const (
	idUniqueMask  = 0x3F
	idOddSize     = 0x40
	idLarge       = 0x80
	idChannelInfo = 0x0D
	idSampleRate  = 0x27
)

// sampleRates indexes the rate field of the block flags. Index 15 means the
// rate is carried in a metadata sub-block.
var sampleRates = [15]uint32{
	6000, 8000, 9600, 11025, 12000, 16000, 22050, 24000,
	32000, 44100, 48000, 64000, 88200, 96000, 192000,
}

// blockHeader is the fixed 32 byte header of every WavPack block.
type blockHeader struct {
	size         uint32 // block size minus 8
	version      uint16
	totalSamples uint64
	blockSamples uint32
	flags        uint32
}

func readBlockHeader(sr *binary.SafeReader, off int64) (blockHeader, error) {
	b, err := sr.ReadBytes(off, headerSize, "WavPack block header")
	if err != nil {
		return blockHeader{}, err
	}
	if string(b[:4]) != magic {
		return blockHeader{}, &types.CorruptedFileError{Path: sr.Path(), Offset: off, Reason: "missing \"wvpk\" block signature"}
	}
	le := binary.LittleEndian.ByteOrder()
	h := blockHeader{
		size:         le.Uint32(b[4:]),
		version:      le.Uint16(b[8:]),
		blockSamples: le.Uint32(b[20:]),
		flags:        le.Uint32(b[24:]),
	}
	if total := le.Uint32(b[12:]); total == unknownSamples {
		h.totalSamples = unknownSamples
	} else {
		h.totalSamples = uint64(b[11])<<32 | uint64(total)
	}
	if h.size < headerSize-8 {
		return blockHeader{}, &types.CorruptedFileError{Path: sr.Path(), Offset: off, Reason: fmt.Sprintf("block size %d too small", h.size)}
	}
	return h, nil
}

// end returns the offset just past the block at off.
func (h blockHeader) end(off int64) int64 {
	return off + 8 + int64(h.size)
}

// Parse reads the first block of the stream. The sample rate and channel
// layout may be refined by its metadata sub-blocks.
func Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	sr := binary.NewSafeReader(r, size, path)

	h, err := readBlockHeader(sr, 0)
	if err != nil {
		return nil, err
	}

	props := types.WavPackProperties{
		Version:  h.version,
		Lossless: h.flags&flagHybrid == 0,
		BitDepth: uint8((h.flags&flagBytesStored+1)*8 - (h.flags&flagShiftMask)>>flagShiftLSB),
		Channels: 2,
	}
	if h.flags&flagMono != 0 {
		props.Channels = 1
	}
	if idx := (h.flags & flagRateMask) >> flagRateLSB; int(idx) < len(sampleRates) {
		props.SampleRate = sampleRates[idx]
	}

	if err := readMetadata(sr, h, &props); err != nil {
		return nil, err
	}
	if h.flags&flagDSD != 0 {
		logger.Debug("DSD WavPack stream", "path", path)
	}
	switch {
	case props.ChannelMask != 0:
	case props.Channels == 1:
		props.ChannelMask = types.MonoMask()
	case props.Channels == 2:
		props.ChannelMask = types.StereoMask()
	}

	if props.SampleRate == 0 {
		return nil, &types.CorruptedFileError{Path: path, Reason: "WavPack stream has no sample rate"}
	}

	samples := h.totalSamples
	if samples == unknownSamples {
		logger.Debug("WavPack sample count unknown, summing blocks", "path", path)
		samples = countSamples(sr)
	}

	props.Duration = types.DurationOf(samples, props.SampleRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)
	props.AudioBitrate = types.Bitrate(binary.StreamEnd(sr), props.Duration)
	return props, nil
}

// readMetadata walks the sub-blocks of the block at offset 0 and applies
// the channel info and custom sample rate.
func readMetadata(sr *binary.SafeReader, h blockHeader, props *types.WavPackProperties) error {
	end := min(h.end(0), sr.Size())
	for off := int64(headerSize); off+2 <= end; {
		id, err := binary.Read[uint8](sr, off, "sub-block ID")
		if err != nil {
			return err
		}
		var length int64
		if id&idLarge != 0 {
			b, err := sr.ReadBytes(off+1, 3, "sub-block size")
			if err != nil {
				return err
			}
			length = int64(b[0]) | int64(b[1])<<8 | int64(b[2])<<16
			off += 4
		} else {
			n, err := binary.Read[uint8](sr, off+1, "sub-block size")
			if err != nil {
				return err
			}
			length = int64(n)
			off += 2
		}
		length *= 2
		dataLen := length
		if id&idOddSize != 0 && dataLen > 0 {
			dataLen--
		}
		if off+length > end {
			return &types.CorruptedFileError{Path: sr.Path(), Offset: off, Reason: "metadata sub-block exceeds block"}
		}

		switch id & idUniqueMask {
		case idChannelInfo:
			data, err := sr.ReadBytes(off, int(dataLen), "channel info")
			if err != nil {
				return err
			}
			applyChannelInfo(data, props)
		case idSampleRate:
			if dataLen >= 3 {
				b, err := sr.ReadBytes(off, 3, "sample rate")
				if err != nil {
					return err
				}
				props.SampleRate = uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
			}
		}
		off += length
	}
	return nil
}

// applyChannelInfo decodes a channel count followed by a little-endian
// speaker mask of up to four bytes.
func applyChannelInfo(data []byte, props *types.WavPackProperties) {
	if len(data) == 0 {
		return
	}
	props.Channels = data[0]
	var mask uint32
	for i, b := range data[1:min(len(data), 5)] {
		mask |= uint32(b) << (8 * i)
	}
	props.ChannelMask = types.ChannelMaskFromBits(mask)
}

// countSamples sums the samples of every initial block.
func countSamples(sr *binary.SafeReader) uint64 {
	var total uint64
	for off := int64(0); off+headerSize <= sr.Size(); {
		h, err := readBlockHeader(sr, off)
		if err != nil {
			break
		}
		if h.flags&flagInitial != 0 {
			total += uint64(h.blockSamples)
		}
		off = h.end(off)
	}
	return total
}

func init() {
	registry.Register(types.FormatWavPack, registry.ParserFunc(Parse))
}
