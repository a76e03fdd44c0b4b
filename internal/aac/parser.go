// Package aac reads the audio properties of raw ADTS AAC streams.
package aac

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/icza/bitio"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

const (
	headerSize      = 7
	samplesPerBlock = 1024
	syncWord        = 0xFFF
)

var sampleRates = [...]uint32{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

// adtsHeader is the fixed and variable part of an ADTS frame header.
type adtsHeader struct {
	mpeg2       bool
	objectType  types.AudioObjectType
	sampleRate  uint32
	channels    uint8
	original    bool
	copyright   bool
	frameLength int64
	blocks      uint32
}

// parseADTSHeader decodes the 7 header bytes of an ADTS frame.
func parseADTSHeader(b []byte) (adtsHeader, error) {
	if len(b) < headerSize {
		return adtsHeader{}, fmt.Errorf("ADTS header needs %d bytes, got %d", headerSize, len(b))
	}
	br := bitio.NewReader(bytes.NewReader(b))
	read := br.TryReadBits

	if read(12) != syncWord {
		return adtsHeader{}, fmt.Errorf("no ADTS sync word")
	}

	var h adtsHeader
	h.mpeg2 = read(1) == 1
	if layer := read(2); layer != 0 {
		return adtsHeader{}, fmt.Errorf("invalid ADTS layer %d", layer)
	}
	read(1) // protection absent
	h.objectType = types.AudioObjectType(read(2) + 1)
	rateIdx := read(4)
	if rateIdx >= uint64(len(sampleRates)) {
		return adtsHeader{}, fmt.Errorf("invalid ADTS sampling frequency index %d", rateIdx)
	}
	h.sampleRate = sampleRates[rateIdx]
	read(1) // private
	h.channels = uint8(read(3))
	if h.channels == 7 {
		h.channels = 8
	}
	h.original = read(1) == 1
	read(1) // home
	h.copyright = read(1) == 1
	read(1) // copyright start
	h.frameLength = int64(read(13))
	read(11) // buffer fullness
	h.blocks = uint32(read(2)) + 1
	if br.TryError != nil {
		return adtsHeader{}, fmt.Errorf("read ADTS header: %w", br.TryError)
	}

	if h.frameLength < headerSize {
		return adtsHeader{}, fmt.Errorf("invalid ADTS frame length %d", h.frameLength)
	}
	return h, nil
}

// Parse walks every ADTS frame to count the samples. The properties come
// from the first frame.
func Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	sr := binary.NewSafeReader(r, size, path)

	start, err := binary.SkipID3v2(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%s: skip ID3v2: %w", path, err)
	}

	buf := make([]byte, headerSize)
	if err := sr.ReadAt(buf, start, "ADTS header"); err != nil {
		return nil, err
	}
	first, err := parseADTSHeader(buf)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Offset: start, Reason: err.Error()}
	}

	var samples uint64
	offset := start
	for offset+headerSize <= size {
		if err := sr.ReadAt(buf, offset, "ADTS header"); err != nil {
			return nil, err
		}
		h, err := parseADTSHeader(buf)
		if err != nil {
			logger.Debug("ADTS stream ends before EOF", "path", path, "offset", offset)
			break
		}
		if offset+h.frameLength > size {
			logger.Warn("truncated ADTS frame", "path", path, "offset", offset)
			break
		}
		samples += uint64(h.blocks) * samplesPerBlock
		offset += h.frameLength
	}

	props := types.AACProperties{
		Version:         types.MPEGVersion4,
		AudioObjectType: first.objectType,
		SampleRate:      first.sampleRate,
		Channels:        first.channels,
		Copyright:       first.copyright,
		Original:        first.original,
	}
	if first.mpeg2 {
		props.Version = types.MPEGVersion2
	}
	props.Duration = types.DurationOf(samples, first.sampleRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)
	props.AudioBitrate = types.Bitrate(offset-start, props.Duration)

	return props, nil
}

func init() {
	registry.Register(types.FormatAAC, registry.ParserFunc(Parse))
}
