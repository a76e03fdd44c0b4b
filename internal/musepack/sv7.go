package musepack

import (
	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// sv7HeaderSize covers the signature through the encoder version.
const sv7HeaderSize = 25

// parseSV7 reads the fixed SV7 header. Bit fields are packed most
// significant bit first into little-endian words.
func (s stream) parseSV7() (types.MusepackSV7, error) {
	b, err := s.sr.ReadBytes(s.start, sv7HeaderSize, "SV7 header")
	if err != nil {
		return types.MusepackSV7{}, s.corrupted(s.start, "file too short for Musepack SV7 header")
	}
	le := binary.LittleEndian.ByteOrder()

	flags := le.Uint32(b[8:])
	p := types.MusepackSV7{
		Channels:        2,
		FrameCount:      le.Uint32(b[4:]),
		IntensityStereo: flags>>31&1 == 1,
		MidSideStereo:   flags>>30&1 == 1,
		MaxBand:         uint8(flags >> 24 & 0x3F),
		Profile:         types.MusepackProfile(flags >> 20 & 0x0F),
		Link:            types.MusepackLink(flags >> 18 & 0x03),
		SampleFreq:      sampleFrequencies[flags>>16&0x03],
		MaxLevel:        uint16(flags),
		TitlePeak:       le.Uint16(b[12:]),
		TitleGain:       int16(le.Uint16(b[14:])),
		AlbumPeak:       le.Uint16(b[16:]),
		AlbumGain:       int16(le.Uint16(b[18:])),
		EncoderVersion:  b[24],
	}

	gapless := le.Uint32(b[20:])
	p.TrueGapless = gapless>>31&1 == 1
	p.FastSeekingSafe = gapless>>19&1 == 1
	if p.TrueGapless {
		p.LastFrameLength = uint16(gapless >> 20 & 0x7FF)
	}

	samples := uint64(p.FrameCount) * samplesPerFrame
	if p.TrueGapless && p.FrameCount > 0 {
		samples -= samplesPerFrame - uint64(p.LastFrameLength)
	}

	p.Duration = types.DurationOf(samples, p.SampleFreq)
	p.OverallBitrate = types.Bitrate(s.sr.Size(), p.Duration)
	p.AudioBitrate = types.Bitrate(s.length(), p.Duration)
	return p, nil
}
