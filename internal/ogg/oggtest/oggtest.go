// Package oggtest builds small Ogg streams for tests.
package oggtest

import (
	"bytes"
	"encoding/binary"
)

// Stream accumulates the pages of one logical Ogg stream.
type Stream struct {
	Serial uint32

	buf bytes.Buffer
	seq uint32
}

// NewStream returns an empty stream with the given serial number.
func NewStream(serial uint32) *Stream {
	return &Stream{Serial: serial}
}

// Page appends a raw page. The checksum is left zero.
func (s *Stream) Page(headerType byte, granule uint64, segments, data []byte) *Stream {
	s.buf.WriteString("OggS")
	s.buf.WriteByte(0)
	s.buf.WriteByte(headerType)
	binary.Write(&s.buf, binary.LittleEndian, granule)
	binary.Write(&s.buf, binary.LittleEndian, s.Serial)
	binary.Write(&s.buf, binary.LittleEndian, s.seq)
	binary.Write(&s.buf, binary.LittleEndian, uint32(0))
	s.buf.WriteByte(byte(len(segments)))
	s.buf.Write(segments)
	s.buf.Write(data)
	s.seq++
	return s
}

// Packets appends one page holding the given complete packets.
func (s *Stream) Packets(headerType byte, granule uint64, packets ...[]byte) *Stream {
	var segments, data []byte
	for _, p := range packets {
		segments = append(segments, Lacing(len(p))...)
		data = append(data, p...)
	}
	return s.Page(headerType, granule, segments, data)
}

// Split appends packet across two pages, breaking it after the first n
// bytes. n must be a multiple of 255.
func (s *Stream) Split(packet []byte, n int) *Stream {
	first := bytes.Repeat([]byte{255}, n/255)
	s.Page(0, ^uint64(0), first, packet[:n])
	return s.Page(0x01, 0, Lacing(len(packet)-n), packet[n:])
}

// Bytes returns the encoded stream.
func (s *Stream) Bytes() []byte {
	return s.buf.Bytes()
}

// Lacing returns the segment table entries for a packet of length n.
func Lacing(n int) []byte {
	segments := bytes.Repeat([]byte{255}, n/255)
	return append(segments, byte(n%255))
}

// VorbisIdent builds a Vorbis identification header.
func VorbisIdent(channels uint8, sampleRate uint32, nominal int32) []byte {
	b := &bytes.Buffer{}
	b.WriteByte(0x01)
	b.WriteString("vorbis")
	binary.Write(b, binary.LittleEndian, uint32(0))
	b.WriteByte(channels)
	binary.Write(b, binary.LittleEndian, sampleRate)
	binary.Write(b, binary.LittleEndian, int32(0))
	binary.Write(b, binary.LittleEndian, nominal)
	binary.Write(b, binary.LittleEndian, int32(0))
	b.WriteByte(0xB8)
	b.WriteByte(0x01)
	return b.Bytes()
}

// VorbisSetup builds a placeholder Vorbis setup header.
func VorbisSetup() []byte {
	return []byte("\x05vorbis\x01")
}

// Comments builds a comment header body: vendor string and comment list.
func Comments(vendor string, comments ...string) []byte {
	b := &bytes.Buffer{}
	binary.Write(b, binary.LittleEndian, uint32(len(vendor)))
	b.WriteString(vendor)
	binary.Write(b, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		binary.Write(b, binary.LittleEndian, uint32(len(c)))
		b.WriteString(c)
	}
	return b.Bytes()
}

// VorbisComment builds a Vorbis comment header packet.
func VorbisComment(vendor string, comments ...string) []byte {
	packet := append([]byte("\x03vorbis"), Comments(vendor, comments...)...)
	return append(packet, 0x01)
}

// OpusHead builds an OpusHead identification header.
func OpusHead(channels uint8, preSkip uint16, inputRate uint32, family uint8) []byte {
	b := &bytes.Buffer{}
	b.WriteString("OpusHead")
	b.WriteByte(1)
	b.WriteByte(channels)
	binary.Write(b, binary.LittleEndian, preSkip)
	binary.Write(b, binary.LittleEndian, inputRate)
	binary.Write(b, binary.LittleEndian, int16(0))
	b.WriteByte(family)
	if family != 0 {
		b.WriteByte(channels) // stream count
		b.WriteByte(0)        // coupled count
		for i := range channels {
			b.WriteByte(i)
		}
	}
	return b.Bytes()
}

// OpusTags builds an OpusTags comment header packet.
func OpusTags(vendor string, comments ...string) []byte {
	return append([]byte("OpusTags"), Comments(vendor, comments...)...)
}

// SpeexHeader builds a Speex header packet.
func SpeexHeader(sampleRate, mode, channels uint32, bitrate int32) []byte {
	b := &bytes.Buffer{}
	b.WriteString("Speex   ")
	version := make([]byte, 20)
	copy(version, "1.2.0")
	b.Write(version)
	binary.Write(b, binary.LittleEndian, uint32(1))  // version id
	binary.Write(b, binary.LittleEndian, uint32(80)) // header size
	binary.Write(b, binary.LittleEndian, sampleRate)
	binary.Write(b, binary.LittleEndian, mode)
	binary.Write(b, binary.LittleEndian, uint32(4)) // mode bitstream version
	binary.Write(b, binary.LittleEndian, channels)
	binary.Write(b, binary.LittleEndian, bitrate)
	binary.Write(b, binary.LittleEndian, uint32(320)) // frame size
	binary.Write(b, binary.LittleEndian, uint32(0))   // vbr
	binary.Write(b, binary.LittleEndian, uint32(1))   // frames per packet
	binary.Write(b, binary.LittleEndian, uint32(0))   // extra headers
	b.Write(make([]byte, 8))
	return b.Bytes()
}
