package mpeg

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// maxSyncSearch bounds the scan for the first frame after any ID3v2 tag.
const maxSyncSearch = 1 << 20

// vbrInfo is the content of a Xing, Info or VBRI header.
type vbrInfo struct {
	frames uint32
	bytes  uint32
}

// Parse locates the first frame and computes the duration from a Xing,
// Info or VBRI header when one exists, or from the stream length and the
// first frame's bitrate otherwise.
func Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	sr := binary.NewSafeReader(r, size, path)

	start, err := binary.SkipID3v2(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%s: skip ID3v2: %w", path, err)
	}
	end := binary.StreamEnd(sr)

	offset, hdr, err := findFirstFrame(sr, start, end)
	if err != nil {
		return nil, err
	}
	if offset > start {
		logger.Debug("skipped junk before first MPEG frame", "path", path, "bytes", offset-start)
	}

	props := types.MPEGProperties{
		Version:     hdr.version,
		Layer:       hdr.layer,
		ChannelMode: hdr.channelMode,
		Copyright:   hdr.copyright,
		Original:    hdr.original,
		SampleRate:  hdr.sampleRate,
		Channels:    hdr.channels(),
	}
	if hdr.channelMode == types.ChannelModeJointStereo {
		ext := hdr.modeExtension
		props.ModeExtension = &ext
	}
	if hdr.emphasis != 0 {
		e := types.Emphasis(hdr.emphasis)
		props.Emphasis = &e
	}

	streamLen := end - offset
	vbr, found := readVBRHeader(sr, offset, hdr)

	switch {
	case found && vbr.frames > 0:
		samples := uint64(vbr.frames) * uint64(hdr.samplesPerFrame())
		props.Duration = types.DurationOf(samples, hdr.sampleRate)
		audioLen := streamLen
		if vbr.bytes > 0 {
			audioLen = int64(vbr.bytes)
		}
		props.AudioBitrate = types.Bitrate(audioLen, props.Duration)
	default:
		if found {
			logger.Debug("VBR header without frame count, assuming CBR", "path", path)
		}
		props.AudioBitrate = hdr.bitrate
		props.Duration = time.Duration(streamLen*8/int64(hdr.bitrate)) * time.Millisecond
	}
	props.OverallBitrate = types.Bitrate(size, props.Duration)

	return props, nil
}

// findFirstFrame scans for a valid frame header. When the stream is long
// enough, the next frame must also start with a valid header.
func findFirstFrame(sr *binary.SafeReader, start, end int64) (int64, header, error) {
	limit := min(end-4, start+maxSyncSearch)

	for offset := start; offset <= limit; offset++ {
		b, err := binary.Read[uint8](sr, offset, "frame sync")
		if err != nil {
			break
		}
		if b != 0xFF {
			continue
		}

		raw, err := binary.Read[uint32](sr, offset, "frame header")
		if err != nil {
			break
		}
		hdr, err := parseHeader(raw)
		if err != nil {
			continue
		}

		next := offset + hdr.frameLength()
		if next+4 <= end {
			nextRaw, err := binary.Read[uint32](sr, next, "next frame header")
			if err != nil {
				continue
			}
			if _, err := parseHeader(nextRaw); err != nil {
				continue
			}
		}
		return offset, hdr, nil
	}

	return 0, header{}, &types.CorruptedFileError{
		Path:   sr.Path(),
		Offset: start,
		Reason: "no MPEG frame found",
	}
}

// readVBRHeader looks for a Xing or Info header after the Layer III side
// information, then for a VBRI header 32 bytes after the frame header.
func readVBRHeader(sr *binary.SafeReader, offset int64, hdr header) (vbrInfo, bool) {
	if hdr.layer != 3 {
		return vbrInfo{}, false
	}

	xing := offset + 4 + hdr.sideInfoSize()
	if magic, err := sr.ReadBytes(xing, 4, "Xing marker"); err == nil && (string(magic) == "Xing" || string(magic) == "Info") {
		cr := binary.NewChainReader(binary.NewReader(sr, xing+4))
		flags := binary.ReadChained[uint32](cr, "Xing flags")
		var info vbrInfo
		if flags&0x1 != 0 {
			info.frames = binary.ReadChained[uint32](cr, "Xing frames")
		}
		if flags&0x2 != 0 {
			info.bytes = binary.ReadChained[uint32](cr, "Xing bytes")
		}
		if cr.Error() != nil {
			return vbrInfo{}, false
		}
		return info, true
	}

	vbri := offset + 4 + 32
	if magic, err := sr.ReadBytes(vbri, 4, "VBRI marker"); err == nil && string(magic) == "VBRI" {
		cr := binary.NewChainReader(binary.NewReader(sr, vbri+10))
		info := vbrInfo{
			bytes:  binary.ReadChained[uint32](cr, "VBRI bytes"),
			frames: binary.ReadChained[uint32](cr, "VBRI frames"),
		}
		if cr.Error() != nil {
			return vbrInfo{}, false
		}
		return info, true
	}

	return vbrInfo{}, false
}

func init() {
	registry.Register(types.FormatMPEG, registry.ParserFunc(Parse))
}
