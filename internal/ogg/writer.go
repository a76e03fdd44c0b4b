package ogg

import (
	"fmt"
	"io"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// maxSegments is the size limit of a page's segment table.
const maxSegments = 255

// crcTable is the lookup table for the Ogg checksum: CRC-32 with polynomial
// 0x04c11db7, zero initial value, no bit reflection.
var crcTable = func() (t [256]uint32) {
	for i := range t {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}()

func checksum(b []byte) uint32 {
	var c uint32
	for _, x := range b {
		c = c<<8 ^ crcTable[byte(c>>24)^x]
	}
	return c
}

// encode serializes the page and fills in its checksum.
func (p *Page) encode() []byte {
	buf := make([]byte, 0, pageHeaderSize+len(p.Segments)+len(p.Data))
	sw := &sliceWriter{buf: buf}
	w := binary.NewSafeWriter(sw)
	// Writes into a slice cannot fail.
	_ = w.WriteString("OggS")
	_ = binary.WriteLE(w, uint8(0))
	_ = binary.WriteLE(w, p.HeaderType)
	_ = binary.WriteLE(w, p.GranulePosition)
	_ = binary.WriteLE(w, p.SerialNumber)
	_ = binary.WriteLE(w, p.SequenceNumber)
	_ = binary.WriteLE(w, uint32(0))
	_ = binary.WriteLE(w, uint8(len(p.Segments)))
	_ = w.WriteBytes(p.Segments)
	_ = w.WriteBytes(p.Data)

	out := sw.buf
	crc := checksum(out)
	out[22], out[23], out[24], out[25] = byte(crc), byte(crc>>8), byte(crc>>16), byte(crc>>24)
	return out
}

type sliceWriter struct {
	buf []byte
}

func (w *sliceWriter) Write(b []byte) (int, error) {
	w.buf = append(w.buf, b...)
	return len(b), nil
}

// paginate lays packets out on pages of the given stream. The first packet
// gets a page of its own, as the identification header must.
func paginate(packets [][]byte, serial, firstSeq uint32) []*Page {
	var pages []*Page
	seq := firstSeq
	newPage := func(continued bool) *Page {
		p := &Page{SerialNumber: serial, SequenceNumber: seq, GranulePosition: noGranule}
		if continued {
			p.HeaderType = flagContinued
		}
		seq++
		pages = append(pages, p)
		return p
	}

	for i, packet := range packets {
		var page *Page
		if i <= 1 {
			page = newPage(false)
		} else {
			page = pages[len(pages)-1]
		}
		lacing := make([]byte, 0, len(packet)/255+1)
		for n := len(packet); ; n -= 255 {
			if n < 255 {
				lacing = append(lacing, byte(n))
				break
			}
			lacing = append(lacing, 255)
		}

		pos := 0
		for j, seg := range lacing {
			if len(page.Segments) == maxSegments {
				page = newPage(true)
			}
			page.Segments = append(page.Segments, seg)
			page.Data = append(page.Data, packet[pos:pos+int(seg)]...)
			pos += int(seg)
			if j == len(lacing)-1 {
				// Header packets sit before the first audio sample.
				page.GranulePosition = 0
			}
		}
	}

	pages[0].HeaderType |= flagBOS
	return pages
}

// headerPacketCount returns how many header packets precede audio data.
func headerPacketCount(codec Codec, ident []byte) int {
	switch codec {
	case CodecVorbis:
		return 3
	case CodecSpeex:
		// Comment header plus any extra headers announced by the encoder.
		extra := 0
		if len(ident) >= 72 {
			extra = int(ident[68]) | int(ident[69])<<8 | int(ident[70])<<16 | int(ident[71])<<24
		}
		return 2 + min(max(extra, 0), 16)
	default:
		return 2
	}
}

// WriteCommentPacket copies the Ogg stream in r to w with the comment
// header of the first logical stream replaced by data, which excludes the
// codec prefix.
//
// The header packets are laid out on fresh pages. Later pages of the
// stream are renumbered and re-checksummed; their payload is untouched.
func WriteCommentPacket(r io.ReaderAt, size int64, path string, w io.Writer, data []byte) error {
	sr := binary.NewSafeReader(r, size, path)

	first, _, err := readPage(sr, 0)
	if err != nil {
		return &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("read first page: %v", err)}
	}

	pr := newPacketReader(sr, 0)
	ident, err := pr.next()
	if err != nil {
		return &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("read identification header: %v", err)}
	}
	codec := detectCodec(ident)

	var comment []byte
	switch codec {
	case CodecVorbis:
		comment = append(append([]byte("\x03vorbis"), data...), 0x01)
	case CodecOpus:
		comment = append([]byte("OpusTags"), data...)
	case CodecSpeex:
		comment = data
	default:
		return &types.UnsupportedWriteError{Format: types.FormatOgg, Reason: "unknown Ogg codec"}
	}

	packets := [][]byte{ident}
	count := headerPacketCount(codec, ident)
	for len(packets) < count {
		packet, err := pr.next()
		if err != nil {
			return &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("read header packets: %v", err)}
		}
		packets = append(packets, packet)
	}
	if len(pr.pending) > 0 || pr.partial != nil {
		return &types.UnsupportedWriteError{Format: codec.Format(), Reason: "audio data shares a page with the header packets"}
	}
	packets[1] = comment

	// Sequence number of the last header page in the source.
	last, err := lastHeaderSequence(sr, pr.offset, first.SerialNumber)
	if err != nil {
		return err
	}

	pages := paginate(packets, first.SerialNumber, first.SequenceNumber)
	for _, p := range pages {
		if _, err := w.Write(p.encode()); err != nil {
			return fmt.Errorf("write header page: %w", err)
		}
	}

	nextSeq := first.SequenceNumber + uint32(len(pages))
	shift := nextSeq - (last + 1)

	for offset := pr.offset; offset < size; {
		page, next, err := readPage(sr, offset)
		if err != nil {
			return &types.CorruptedFileError{Path: path, Offset: offset, Reason: err.Error()}
		}
		if page.SerialNumber == first.SerialNumber {
			page.SequenceNumber += shift
		}
		if _, err := w.Write(page.encode()); err != nil {
			return fmt.Errorf("write page: %w", err)
		}
		offset = next
	}
	return nil
}

// lastHeaderSequence returns the sequence number of the last page of the
// stream that ends before end.
func lastHeaderSequence(sr *binary.SafeReader, end int64, serial uint32) (uint32, error) {
	var last uint32
	for offset := int64(0); offset < end; {
		page, next, err := readPage(sr, offset)
		if err != nil {
			return 0, &types.CorruptedFileError{Path: sr.Path(), Offset: offset, Reason: err.Error()}
		}
		if page.SerialNumber != serial {
			return 0, &types.UnsupportedWriteError{Format: types.FormatOgg, Reason: "multiplexed Ogg streams"}
		}
		last = page.SequenceNumber
		offset = next
	}
	return last, nil
}
