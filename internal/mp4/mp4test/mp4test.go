// Package mp4test builds small MP4 files for tests.
package mp4test

import (
	"bytes"
	"encoding/binary"
)

// Box returns an atom with the concatenated payloads.
func Box(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := binary.BigEndian.AppendUint32(nil, uint32(8+len(body)))
	out = append(out, typ...)
	return append(out, body...)
}

// FullBox returns an atom with version 0 and no flags.
func FullBox(typ string, payload ...[]byte) []byte {
	return Box(typ, append([][]byte{make([]byte, 4)}, payload...)...)
}

func u16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

// Item returns an ilst item holding one data atom.
func Item(name string, dataType uint32, value []byte) []byte {
	return Box(name, Box("data", u32(dataType), u32(0), value))
}

// Text returns a UTF-8 ilst item.
func Text(name, value string) []byte {
	return Item(name, 1, []byte(value))
}

// ASC returns a two-byte AudioSpecificConfig.
func ASC(objectType, frequencyIndex, channelConfig uint8) []byte {
	v := uint16(objectType)<<11 | uint16(frequencyIndex)<<7 | uint16(channelConfig)<<3
	return u16(v)
}

// ESDS returns an esds atom for the given object type indication.
func ESDS(objectType uint8, avgBitrate uint32, asc []byte) []byte {
	var config []byte
	config = append(config, objectType, 0x15, 0, 0, 0)
	config = append(config, u32(avgBitrate)...) // max bitrate
	config = append(config, u32(avgBitrate)...)
	if len(asc) > 0 {
		config = append(config, 0x05, byte(len(asc)))
		config = append(config, asc...)
	}

	var es []byte
	es = append(es, 0, 1, 0) // ES_ID, flags
	es = append(es, 0x04, byte(len(config)))
	es = append(es, config...)
	es = append(es, 0x06, 0x01, 0x02)

	return FullBox("esds", []byte{0x03, byte(len(es))}, es)
}

// AudioEntry returns a version 0 audio sample entry.
func AudioEntry(fourcc string, channels, sampleSize uint16, rate uint32, children ...[]byte) []byte {
	fields := [][]byte{
		make([]byte, 6), u16(1), // reserved, data reference index
		u16(0), u16(0), u32(0), // version, revision, vendor
		u16(channels), u16(sampleSize),
		u16(0), u16(0), // compression ID, packet size
		u32(rate << 16),
	}
	return Box(fourcc, append(fields, children...)...)
}

// AACEntry returns an mp4a sample entry for AAC.
func AACEntry(channels uint16, rate, avgBitrate uint32, asc []byte) []byte {
	return AudioEntry("mp4a", channels, 16, rate, ESDS(0x40, avgBitrate, asc))
}

// ALACEntry returns an alac sample entry with its magic cookie.
func ALACEntry(depth, channels uint8, rate, avgBitrate uint32) []byte {
	cookie := [][]byte{
		u32(4096), {0, depth, 40, 10, 14, channels}, u16(255), u32(0),
		u32(avgBitrate), u32(rate),
	}
	return AudioEntry("alac", uint16(channels), uint16(depth), rate, FullBox("alac", cookie...))
}

// File describes an MP4 file with a single audio track.
type File struct {
	Timescale uint32
	Duration  uint32
	// Entry is the sample entry; AACEntry(2, 44100, 128000, ...) when nil.
	Entry []byte
	// Ilst is the payload of moov.udta.meta.ilst; nil omits udta.
	Ilst []byte
	// QuickTimeMeta writes meta without version and flags.
	QuickTimeMeta bool
	// MdatFirst places mdat before moov.
	MdatFirst bool
	Audio     []byte
}

// Ftyp is the file type atom written by Bytes.
var Ftyp = Box("ftyp", []byte("M4A "), u32(0), []byte("M4A mp42isom"))

// Bytes assembles the file. The track's single chunk offset points at the
// first byte of Audio.
func (f File) Bytes() []byte {
	mdat := Box("mdat", f.Audio)

	var out []byte
	if f.MdatFirst {
		moov := f.moov(uint32(len(Ftyp) + 8))
		out = bytes.Join([][]byte{Ftyp, mdat, moov}, nil)
	} else {
		probe := f.moov(0)
		moov := f.moov(uint32(len(Ftyp) + len(probe) + 8))
		out = bytes.Join([][]byte{Ftyp, moov, mdat}, nil)
	}
	return out
}

func (f File) moov(chunkOffset uint32) []byte {
	timescale := f.Timescale
	if timescale == 0 {
		timescale = 44100
	}
	entry := f.Entry
	if entry == nil {
		entry = AACEntry(2, 44100, 128000, ASC(2, 4, 2))
	}

	mvhd := FullBox("mvhd", u32(0), u32(0), u32(1000), u32(uint32(uint64(f.Duration)*1000/uint64(timescale))),
		u32(0x00010000), u16(0x0100), make([]byte, 10), make([]byte, 36), make([]byte, 24), u32(2))
	mdhd := FullBox("mdhd", u32(0), u32(0), u32(timescale), u32(f.Duration), u16(0x55C4), u16(0))
	hdlr := FullBox("hdlr", u32(0), []byte("soun"), make([]byte, 12), []byte{0})
	stsd := FullBox("stsd", u32(1), entry)
	stco := FullBox("stco", u32(1), u32(chunkOffset))
	trak := Box("trak", Box("mdia", mdhd, hdlr, Box("minf", Box("stbl", stsd, stco))))

	atoms := [][]byte{mvhd, trak}
	if f.Ilst != nil {
		handler := FullBox("hdlr", u32(0), []byte("mdir"), []byte("appl"), make([]byte, 8), []byte{0})
		ilst := Box("ilst", f.Ilst)
		var meta []byte
		if f.QuickTimeMeta {
			meta = Box("meta", handler, ilst)
		} else {
			meta = FullBox("meta", handler, ilst)
		}
		atoms = append(atoms, Box("udta", meta))
	}
	return Box("moov", atoms...)
}
