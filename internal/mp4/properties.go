package mp4

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/icza/bitio"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// MPEG-4 object type indications of the decoder config descriptor.
const (
	objectTypeMP3       = 0x6B
	objectTypeMPEG2MP3  = 0x69
	esDescriptorTag     = 0x03
	decoderConfigTag    = 0x04
	decoderSpecificTag  = 0x05
	escapeObjectType    = 31
	escapeFrequencyIdx  = 15
	fullBoxVersionFlags = 4
)

// sampleRates indexed by the sampling frequency index of an
// AudioSpecificConfig.
var sampleRates = [...]uint32{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

// Parse reads the properties of the first audio track.
func Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	sr := binary.NewSafeReader(r, size, path)

	moov, err := findAtom(sr, 0, size, "moov")
	if err != nil {
		if errors.Is(err, errAtomNotFound) {
			return nil, &types.CorruptedFileError{Path: path, Reason: "no moov atom"}
		}
		return nil, err
	}

	var props types.MP4Properties

	if mvhd, err := findAtom(sr, moov.DataOffset(), moov.End(), "mvhd"); err == nil {
		if d, err := mediaDuration(sr, mvhd); err == nil {
			props.Duration = d
		}
	}

	trak, err := audioTrack(sr, moov)
	if err != nil {
		return nil, err
	}
	if trak == nil {
		return nil, &types.CorruptedFileError{Path: path, Offset: moov.Offset, Reason: "no audio track"}
	}

	if mdhd, err := findPath(sr, trak.DataOffset(), trak.End(), "mdia", "mdhd"); err == nil {
		if d, err := mediaDuration(sr, mdhd); err == nil && d > 0 {
			props.Duration = d
		}
	}

	stsd, err := findPath(sr, trak.DataOffset(), trak.End(), "mdia", "minf", "stbl", "stsd")
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Offset: trak.Offset, Reason: "audio track has no sample description"}
	}
	var avgBitrate uint32
	if err := parseSampleEntry(sr, stsd, &props, &avgBitrate); err != nil {
		return nil, err
	}

	props.OverallBitrate = types.Bitrate(size, props.Duration)
	switch {
	case avgBitrate > 0:
		props.AudioBitrate = avgBitrate / 1000
	default:
		if mdat, err := findAtom(sr, 0, size, "mdat"); err == nil {
			props.AudioBitrate = types.Bitrate(mdat.DataSize(), props.Duration)
		} else {
			logger.Debug("no mdat atom, audio bitrate unknown", "path", path)
		}
	}

	if props.Duration == 0 {
		logger.Warn("MP4 duration unknown", "path", path)
	}
	return props, nil
}

// mediaDuration reads the timescale and duration of an mvhd or mdhd atom.
func mediaDuration(sr *binary.SafeReader, a *Atom) (time.Duration, error) {
	cr := binary.NewChainReader(binary.NewReader(sr, a.DataOffset()))
	version := binary.ReadChained[uint8](cr, a.Type+" version")
	cr.Skip(3)

	var timescale uint32
	var duration uint64
	if version == 1 {
		cr.Skip(16)
		timescale = binary.ReadChained[uint32](cr, a.Type+" timescale")
		duration = binary.ReadChained[uint64](cr, a.Type+" duration")
	} else {
		cr.Skip(8)
		timescale = binary.ReadChained[uint32](cr, a.Type+" timescale")
		duration = uint64(binary.ReadChained[uint32](cr, a.Type+" duration"))
	}
	if err := cr.Error(); err != nil {
		return 0, err
	}
	if duration == math.MaxUint32 || duration == math.MaxUint64 {
		return 0, nil
	}
	return types.DurationOf(duration, timescale), nil
}

// audioTrack returns the first trak whose handler is "soun".
func audioTrack(sr *binary.SafeReader, moov *Atom) (*Atom, error) {
	atoms, err := children(sr, moov.DataOffset(), moov.End())
	if err != nil {
		return nil, err
	}
	for _, trak := range atoms {
		if trak.Type != "trak" {
			continue
		}
		hdlr, err := findPath(sr, trak.DataOffset(), trak.End(), "mdia", "hdlr")
		if err != nil {
			continue
		}
		handler, err := sr.ReadBytes(hdlr.DataOffset()+8, 4, "handler type")
		if err != nil {
			return nil, err
		}
		if string(handler) == "soun" {
			return trak, nil
		}
	}
	return nil, nil
}

// parseSampleEntry reads the first audio sample entry of an stsd atom.
func parseSampleEntry(sr *binary.SafeReader, stsd *Atom, props *types.MP4Properties, avgBitrate *uint32) error {
	entry, err := readAtomHeader(sr, stsd.DataOffset()+8)
	if err != nil {
		return err
	}

	cr := binary.NewChainReader(binary.NewReader(sr, entry.DataOffset()+8))
	version := binary.ReadChained[uint16](cr, "sample entry version")
	cr.Skip(6)
	channels := binary.ReadChained[uint16](cr, "channel count")
	sampleSize := binary.ReadChained[uint16](cr, "sample size")
	cr.Skip(4)
	rate := binary.ReadChained[uint32](cr, "sample rate")
	if err := cr.Error(); err != nil {
		return err
	}
	props.Channels = uint8(channels)
	props.SampleRate = rate >> 16

	childStart := entry.DataOffset() + 28
	switch version {
	case 1:
		childStart += 16
	case 2:
		cr.Skip(4)
		rate64 := binary.ReadChained[uint64](cr, "sample rate")
		ch := binary.ReadChained[uint32](cr, "channel count")
		if err := cr.Error(); err != nil {
			return err
		}
		props.SampleRate = uint32(math.Float64frombits(rate64))
		props.Channels = uint8(ch)
		childStart += 36
	}

	fourcc := entry.Type
	switch fourcc {
	case "enca":
		props.DRMProtected = true
		if frma, err := findPath(sr, childStart, entry.End(), "sinf", "frma"); err == nil {
			if b, err := sr.ReadBytes(frma.DataOffset(), 4, "original format"); err == nil {
				fourcc = string(b)
			}
		}
	case "drms":
		props.DRMProtected = true
		fourcc = "mp4a"
	}

	switch fourcc {
	case "mp4a":
		props.Codec = types.MP4CodecAAC
		if esds, err := findAtom(sr, childStart, entry.End(), "esds"); err == nil {
			data, err := sr.ReadBytes(esds.DataOffset()+fullBoxVersionFlags, int(esds.DataSize()-fullBoxVersionFlags), "esds")
			if err != nil {
				return err
			}
			applyESDescriptor(parseESDescriptor(data), props, avgBitrate)
		}
	case ".mp3", "mp3 ":
		props.Codec = types.MP4CodecMP3
	case "alac":
		props.Codec = types.MP4CodecALAC
		if cookie, err := findAtom(sr, childStart, entry.End(), "alac"); err == nil {
			if err := parseALACCookie(sr, cookie, props, avgBitrate); err != nil {
				return err
			}
		}
	case "fLaC":
		props.Codec = types.MP4CodecFLAC
		depth := uint8(sampleSize)
		if dfla, err := findAtom(sr, childStart, entry.End(), "dfLa"); err == nil {
			// STREAMINFO follows the full box and a block header.
			if b, err := sr.ReadBytes(dfla.DataOffset()+fullBoxVersionFlags+4+10, 8, "STREAMINFO"); err == nil {
				props.SampleRate = uint32(b[0])<<12 | uint32(b[1])<<4 | uint32(b[2])>>4
				props.Channels = (b[2]>>1)&0x07 + 1
				depth = (b[2]&0x01)<<4 | b[3]>>4 + 1
			}
		}
		props.BitDepth = &depth
	case "Opus":
		props.Codec = types.MP4CodecOpus
		if dops, err := findAtom(sr, childStart, entry.End(), "dOps"); err == nil {
			if ch, err := binary.Read[uint8](sr, dops.DataOffset()+1, "Opus channel count"); err == nil {
				props.Channels = ch
			}
		}
		props.SampleRate = 48000
	}
	return nil
}

// parseALACCookie reads the ALACSpecificConfig that follows the full box
// header of the "alac" child atom.
func parseALACCookie(sr *binary.SafeReader, a *Atom, props *types.MP4Properties, avgBitrate *uint32) error {
	cr := binary.NewChainReader(binary.NewReader(sr, a.DataOffset()+fullBoxVersionFlags))
	cr.Skip(4 + 1) // frameLength, compatibleVersion
	depth := binary.ReadChained[uint8](cr, "ALAC bit depth")
	cr.Skip(3) // pb, mb, kb
	channels := binary.ReadChained[uint8](cr, "ALAC channels")
	cr.Skip(2 + 4) // maxRun, maxFrameBytes
	bitrate := binary.ReadChained[uint32](cr, "ALAC average bitrate")
	rate := binary.ReadChained[uint32](cr, "ALAC sample rate")
	if err := cr.Error(); err != nil {
		return err
	}
	props.BitDepth = &depth
	props.Channels = channels
	props.SampleRate = rate
	*avgBitrate = bitrate
	return nil
}

// esDescriptor holds the fields of an ES_Descriptor this package reads.
type esDescriptor struct {
	objectType uint8
	avgBitrate uint32
	config     []byte
}

// parseESDescriptor walks the descriptors of an esds atom. Sizes use the
// expandable encoding: 7 bits per byte, high bit set on all but the last.
func parseESDescriptor(data []byte) esDescriptor {
	var es esDescriptor
	pos := 0

	readSize := func() int {
		size := 0
		for range 4 {
			if pos >= len(data) {
				return -1
			}
			b := data[pos]
			pos++
			size = size<<7 | int(b&0x7F)
			if b&0x80 == 0 {
				break
			}
		}
		return size
	}

	for pos < len(data) {
		tag := data[pos]
		pos++
		size := readSize()
		if size < 0 {
			return es
		}
		switch tag {
		case esDescriptorTag:
			if pos+3 > len(data) {
				return es
			}
			flags := data[pos+2]
			pos += 3
			if flags&0x80 != 0 {
				pos += 2
			}
			if flags&0x40 != 0 && pos < len(data) {
				pos += 1 + int(data[pos])
			}
			if flags&0x20 != 0 {
				pos += 2
			}
		case decoderConfigTag:
			if pos+13 > len(data) {
				return es
			}
			es.objectType = data[pos]
			es.avgBitrate = uint32(data[pos+9])<<24 | uint32(data[pos+10])<<16 | uint32(data[pos+11])<<8 | uint32(data[pos+12])
			pos += 13
		case decoderSpecificTag:
			end := min(pos+size, len(data))
			es.config = data[pos:end]
			return es
		default:
			pos += size
		}
	}
	return es
}

func applyESDescriptor(es esDescriptor, props *types.MP4Properties, avgBitrate *uint32) {
	if es.objectType == objectTypeMP3 || es.objectType == objectTypeMPEG2MP3 {
		props.Codec = types.MP4CodecMP3
	}
	*avgBitrate = es.avgBitrate
	if len(es.config) == 0 {
		return
	}

	asc, err := parseAudioSpecificConfig(es.config)
	if err != nil {
		return
	}
	props.ExtendedAudioObjectType = &asc.objectType
	if asc.sampleRate > 0 {
		props.SampleRate = asc.sampleRate
	}
	if asc.channels > 0 {
		props.Channels = asc.channels
	}
}

type audioSpecificConfig struct {
	objectType types.AudioObjectType
	sampleRate uint32
	channels   uint8
}

// parseAudioSpecificConfig reads the leading fields of an MPEG-4
// AudioSpecificConfig. For SBR and PS the extension sample rate is the
// output rate.
func parseAudioSpecificConfig(data []byte) (audioSpecificConfig, error) {
	br := bitio.NewReader(bytes.NewReader(data))
	var asc audioSpecificConfig

	readObjectType := func() (types.AudioObjectType, error) {
		aot, err := br.ReadBits(5)
		if err != nil {
			return 0, err
		}
		if aot == escapeObjectType {
			ext, err := br.ReadBits(6)
			if err != nil {
				return 0, err
			}
			aot = 32 + ext
		}
		return types.AudioObjectType(aot), nil
	}
	readRate := func() (uint32, error) {
		idx, err := br.ReadBits(4)
		if err != nil {
			return 0, err
		}
		if idx == escapeFrequencyIdx {
			rate, err := br.ReadBits(24)
			return uint32(rate), err
		}
		if int(idx) < len(sampleRates) {
			return sampleRates[idx], nil
		}
		return 0, nil
	}

	aot, err := readObjectType()
	if err != nil {
		return asc, fmt.Errorf("audio object type: %w", err)
	}
	asc.objectType = aot
	if asc.sampleRate, err = readRate(); err != nil {
		return asc, fmt.Errorf("sampling frequency: %w", err)
	}
	channels, err := br.ReadBits(4)
	if err != nil {
		return asc, fmt.Errorf("channel configuration: %w", err)
	}
	asc.channels = channelsForConfig(uint8(channels))

	if aot == types.AudioObjectTypeSpectralBandReplication || aot == types.AudioObjectTypeParametricStereo {
		if rate, err := readRate(); err == nil && rate > 0 {
			asc.sampleRate = rate
		}
		if aot == types.AudioObjectTypeParametricStereo && asc.channels == 1 {
			asc.channels = 2
		}
	}
	return asc, nil
}

// channelsForConfig maps a channel configuration to a channel count.
// Zero means the count is defined elsewhere.
func channelsForConfig(config uint8) uint8 {
	switch {
	case config <= 6:
		return config
	case config == 7:
		return 8
	default:
		return 0
	}
}

func init() {
	registry.Register(types.FormatMP4, registry.ParserFunc(Parse))
}
