package musepack

import (
	"bytes"
	"errors"

	"github.com/icza/bitio"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// SV8 packet keys.
const (
	keyStreamHeader = "SH"
	keyReplayGain   = "RG"
	keyEncoderInfo  = "EI"
	keyAudio        = "AP"
	keyStreamEnd    = "SE"
)

// maxVarintBytes bounds a packet size or sample count.
const maxVarintBytes = 9

var errVarint = errors.New("malformed variable-length integer")

// uvarint decodes a big-endian base-128 integer, high bit set on every byte
// but the last.
func uvarint(b []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < len(b) && i < maxVarintBytes; i++ {
		v = v<<7 | uint64(b[i]&0x7F)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, errVarint
}

// parseSV8 walks the packets after "MPCK" until the first audio packet.
// The stream header is required; replay gain and encoder info are kept
// when present.
func (s stream) parseSV8() (types.MusepackSV8, error) {
	var p types.MusepackSV8
	var haveHeader bool

	off := s.start + 4
walk:
	for off < s.end {
		// key plus at most maxVarintBytes of size
		n := min(int64(2+maxVarintBytes), s.end-off)
		head, err := s.sr.ReadBytes(off, int(n), "SV8 packet header")
		if err != nil || n < 3 {
			return p, s.corrupted(off, "truncated SV8 packet header")
		}
		key := string(head[:2])
		size, sizeLen, err := uvarint(head[2:])
		if err != nil {
			return p, s.corrupted(off, "SV8 packet %q: %v", key, err)
		}
		headerLen := int64(2 + sizeLen)
		if size < uint64(headerLen) || off+int64(size) > s.end {
			return p, s.corrupted(off, "SV8 packet %q has invalid size %d", key, size)
		}

		switch key {
		case keyAudio, keyStreamEnd:
			break walk
		case keyStreamHeader, keyReplayGain, keyEncoderInfo:
		default:
			s.logger.Trace("skipping SV8 packet", "path", s.sr.Path(), "key", key, "size", size)
			off += int64(size)
			continue
		}

		payload, err := s.sr.ReadBytes(off+headerLen, int(int64(size)-headerLen), "SV8 packet payload")
		if err != nil {
			return p, err
		}
		switch key {
		case keyStreamHeader:
			if p.StreamHeader, err = parseStreamHeader(payload); err != nil {
				return p, s.corrupted(off, "SV8 stream header: %v", err)
			}
			haveHeader = true
		case keyReplayGain:
			rg, err := parseReplayGain(payload)
			if err != nil {
				return p, s.corrupted(off, "SV8 replay gain: %v", err)
			}
			p.ReplayGain = &rg
		case keyEncoderInfo:
			ei, err := parseEncoderInfo(payload)
			if err != nil {
				return p, s.corrupted(off, "SV8 encoder info: %v", err)
			}
			p.EncoderInfo = &ei
		}
		off += int64(size)
	}

	if !haveHeader {
		return p, s.corrupted(s.start, "SV8 stream has no stream header packet")
	}

	sh := p.StreamHeader
	samples := sh.SampleCount
	if sh.BeginningSilence <= samples {
		samples -= sh.BeginningSilence
	}
	p.Duration = types.DurationOf(samples, sh.SampleRate)
	p.OverallBitrate = types.Bitrate(s.sr.Size(), p.Duration)
	p.AudioBitrate = types.Bitrate(s.length(), p.Duration)
	return p, nil
}

func parseStreamHeader(b []byte) (types.MusepackStreamHeader, error) {
	var sh types.MusepackStreamHeader
	if len(b) < 5 {
		return sh, errors.New("too short")
	}
	sh.CRC = binary.BigEndian.ByteOrder().Uint32(b)
	sh.StreamVersion = b[4]
	rest := b[5:]

	var n int
	var err error
	if sh.SampleCount, n, err = uvarint(rest); err != nil {
		return sh, err
	}
	rest = rest[n:]
	if sh.BeginningSilence, n, err = uvarint(rest); err != nil {
		return sh, err
	}
	rest = rest[n:]

	br := bitio.NewReader(bytes.NewReader(rest))
	var bitErr error
	read := func(n uint8) uint64 {
		v, err := br.ReadBits(n)
		if bitErr == nil {
			bitErr = err
		}
		return v
	}
	freq := read(3)
	bands := read(5)
	channels := read(4)
	ms := read(1)
	blockFrames := read(3)
	if bitErr != nil {
		return sh, bitErr
	}
	if int(freq) >= len(sampleFrequencies) {
		return sh, errors.New("reserved sample frequency")
	}

	sh.SampleRate = sampleFrequencies[freq]
	sh.MaxUsedBands = uint8(bands) + 1
	sh.Channels = uint8(channels) + 1
	sh.MSUsed = ms == 1
	sh.AudioBlockFrames = 1 << (2 * blockFrames)
	return sh, nil
}

func parseReplayGain(b []byte) (types.MusepackReplayGain, error) {
	if len(b) < 9 {
		return types.MusepackReplayGain{}, errors.New("too short")
	}
	be := binary.BigEndian.ByteOrder()
	return types.MusepackReplayGain{
		Version:   b[0],
		TitleGain: int16(be.Uint16(b[1:])),
		TitlePeak: be.Uint16(b[3:]),
		AlbumGain: int16(be.Uint16(b[5:])),
		AlbumPeak: be.Uint16(b[7:]),
	}, nil
}

func parseEncoderInfo(b []byte) (types.MusepackEncoderInfo, error) {
	if len(b) < 4 {
		return types.MusepackEncoderInfo{}, errors.New("too short")
	}
	return types.MusepackEncoderInfo{
		Profile: float32(b[0]>>1) / 8,
		PNS:     b[0]&1 == 1,
		Major:   b[1],
		Minor:   b[2],
		Build:   b[3],
	}, nil
}
