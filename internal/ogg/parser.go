package ogg

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Codec identifies the codec carried by an Ogg stream.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecVorbis
	CodecOpus
	CodecSpeex
)

// Format returns the container format for streams of this codec.
func (c Codec) Format() types.Format {
	switch c {
	case CodecVorbis:
		return types.FormatOgg
	case CodecOpus:
		return types.FormatOpus
	case CodecSpeex:
		return types.FormatSpeex
	default:
		return types.FormatUnknown
	}
}

// detectCodec determines the codec by examining the magic marker in the
// first packet.
func detectCodec(firstPacket []byte) Codec {
	switch {
	case len(firstPacket) >= 8 && string(firstPacket[:8]) == "OpusHead":
		return CodecOpus
	case len(firstPacket) >= 8 && string(firstPacket[:8]) == "Speex   ":
		return CodecSpeex
	case len(firstPacket) >= 7 && firstPacket[0] == 0x01 && string(firstPacket[1:7]) == "vorbis":
		return CodecVorbis
	default:
		return CodecUnknown
	}
}

// Parse reads the properties of an Ogg Vorbis, Opus or Speex stream.
//
// The header packets must be readable. A missing end-of-stream granule
// position only loses the duration and bitrates, which is logged.
func Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "Ogg magic bytes"); err != nil {
		return nil, fmt.Errorf("read Ogg magic: %w", err)
	}
	if string(magic) != "OggS" {
		return nil, &types.CorruptedFileError{
			Path:   path,
			Offset: 0,
			Reason: "invalid Ogg magic bytes",
		}
	}

	// Identification and comment headers. Audio starts after the comment
	// packet for every codec except Vorbis, which adds a setup header.
	packets, serial, audioOffset, err := readHeaderPackets(sr, 2)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("read header packets: %v", err)}
	}

	codec := detectCodec(packets[0])
	logger = logger.With("path", path, "codec", codec.Format())

	switch codec {
	case CodecVorbis:
		return parseVorbis(sr, packets[0], serial, size, logger)
	case CodecOpus:
		return parseOpus(sr, packets[0], serial, audioOffset, size, logger)
	case CodecSpeex:
		return parseSpeex(sr, packets[0], serial, audioOffset, size, logger)
	default:
		return nil, &types.UnsupportedFormatError{Path: path, Reason: "unknown Ogg codec"}
	}
}

func parseVorbis(sr *binary.SafeReader, ident []byte, serial uint32, size int64, logger hclog.Logger) (types.Properties, error) {
	props, err := parseVorbisIdentification(ident)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
	}

	granule, err := lastGranulePosition(sr, size, serial)
	if err != nil {
		logger.Warn("failed to calculate duration", "error", err)
		return props, nil
	}

	props.Duration = types.DurationOf(granule, props.SampleRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)
	if props.BitrateNominal > 0 {
		props.AudioBitrate = uint32(props.BitrateNominal) / 1000
	} else {
		props.AudioBitrate = props.OverallBitrate
	}
	return props, nil
}

func parseOpus(sr *binary.SafeReader, ident []byte, serial uint32, audioOffset, size int64, logger hclog.Logger) (types.Properties, error) {
	head, err := parseOpusHead(ident)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
	}

	props := types.OpusProperties{
		Channels:        head.channels,
		ChannelMask:     head.channelMask(),
		Version:         head.version,
		InputSampleRate: head.inputSampleRate,
	}
	if head.outputGain != 0 {
		logger.Debug("stream has output gain", "db", float64(head.outputGain)/256)
	}

	granule, err := lastGranulePosition(sr, size, serial)
	if err != nil {
		logger.Warn("failed to calculate duration", "error", err)
		return props, nil
	}

	samples := granule - min(granule, uint64(head.preSkip))
	props.Duration = types.DurationOf(samples, opusOutputRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)
	props.AudioBitrate = types.Bitrate(size-audioOffset, props.Duration)
	return props, nil
}

func parseSpeex(sr *binary.SafeReader, ident []byte, serial uint32, audioOffset, size int64, logger hclog.Logger) (types.Properties, error) {
	props, err := parseSpeexHeader(ident)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
	}

	granule, err := lastGranulePosition(sr, size, serial)
	if err != nil {
		logger.Warn("failed to calculate duration", "error", err)
		return props, nil
	}

	props.Duration = types.DurationOf(granule, props.SampleRate)
	props.OverallBitrate = types.Bitrate(size, props.Duration)
	if props.NominalBitrate > 0 {
		props.AudioBitrate = uint32(props.NominalBitrate) / 1000
	} else {
		props.AudioBitrate = types.Bitrate(size-audioOffset, props.Duration)
	}
	return props, nil
}

// CommentPacket is the comment header of an Ogg stream with its codec
// prefix removed. Data starts at the vendor string length.
type CommentPacket struct {
	Codec Codec
	Data  []byte
}

// ReadCommentPacket returns the comment header of the first logical stream.
func ReadCommentPacket(r io.ReaderAt, size int64, path string) (CommentPacket, error) {
	sr := binary.NewSafeReader(r, size, path)
	packets, _, _, err := readHeaderPackets(sr, 2)
	if err != nil {
		return CommentPacket{}, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("read header packets: %v", err)}
	}

	codec := detectCodec(packets[0])
	comment := packets[1]

	var prefix string
	switch codec {
	case CodecVorbis:
		prefix = "\x03vorbis"
	case CodecOpus:
		prefix = "OpusTags"
	case CodecSpeex:
		// Speex comment packets carry no prefix.
	default:
		return CommentPacket{}, &types.UnsupportedFormatError{Path: path, Reason: "unknown Ogg codec"}
	}

	if len(comment) < len(prefix) || string(comment[:len(prefix)]) != prefix {
		return CommentPacket{}, &types.CorruptedFileError{Path: path, Reason: "missing comment header"}
	}
	return CommentPacket{Codec: codec, Data: comment[len(prefix):]}, nil
}

func init() {
	p := registry.ParserFunc(Parse)
	registry.Register(types.FormatOgg, p)
	registry.Register(types.FormatOpus, p)
	registry.Register(types.FormatSpeex, p)
}
