// Package ogg reads Ogg Vorbis, Opus and Speex streams: their header
// packets, comment packets and audio properties.
package ogg

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
)

// Header type flags.
const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04
)

// pageHeaderSize is the fixed part of a page header, before the segment table.
const pageHeaderSize = 27

// noGranule marks a page on which no packet ends.
const noGranule = ^uint64(0)

// Page represents an Ogg page.
//
// An Ogg page is the fundamental unit of the Ogg container format.
// Each page contains a header and payload data.
type Page struct {
	HeaderType      byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
	GranulePosition uint64 // Position in samples
	SerialNumber    uint32 // Logical bitstream identifier
	SequenceNumber  uint32 // Page sequence number
	Segments        []byte // Lacing values
	Data            []byte // Page payload (one or more packets)
}

// readPage reads an Ogg page at the given offset.
//
// Returns the page, next offset, and any error encountered.
func readPage(sr *binary.SafeReader, offset int64) (*Page, int64, error) {
	header := make([]byte, pageHeaderSize)
	if err := sr.ReadAt(header, offset, "Ogg page header"); err != nil {
		return nil, 0, err
	}
	if string(header[:4]) != "OggS" {
		return nil, 0, fmt.Errorf("invalid Ogg page at offset %d", offset)
	}
	if header[4] != 0 {
		return nil, 0, fmt.Errorf("unsupported Ogg version: %d", header[4])
	}

	cr := binary.NewChainReader(binary.NewLEReader(sr, offset+5))
	page := &Page{
		HeaderType:      binary.ReadChained[uint8](cr, "header type"),
		GranulePosition: binary.ReadChained[uint64](cr, "granule position"),
		SerialNumber:    binary.ReadChained[uint32](cr, "serial number"),
		SequenceNumber:  binary.ReadChained[uint32](cr, "sequence number"),
	}
	cr.Skip(4) // CRC
	segmentCount := binary.ReadChained[uint8](cr, "segment count")
	page.Segments = cr.Bytes(int(segmentCount), "segment table")

	dataSize := 0
	for _, seg := range page.Segments {
		dataSize += int(seg)
	}
	page.Data = cr.Bytes(dataSize, "page data")
	if err := cr.Error(); err != nil {
		return nil, 0, err
	}
	return page, cr.Offset(), nil
}

// packetReader reassembles packets from consecutive pages of one logical
// stream using the segment lacing values.
type packetReader struct {
	sr      *binary.SafeReader
	offset  int64
	serial  uint32
	started bool
	pending [][]byte // complete packets not yet returned
	partial []byte   // packet continuing onto the next page
}

func newPacketReader(sr *binary.SafeReader, offset int64) *packetReader {
	return &packetReader{sr: sr, offset: offset}
}

// errTooManyPages bounds header reading on corrupt streams.
var errTooManyPages = errors.New("header packets span too many pages")

// next returns the next complete packet.
func (pr *packetReader) next() ([]byte, error) {
	for pages := 0; len(pr.pending) == 0; pages++ {
		if pages > 512 {
			return nil, errTooManyPages
		}
		page, next, err := readPage(pr.sr, pr.offset)
		if err != nil {
			return nil, err
		}
		pr.offset = next

		if !pr.started {
			pr.serial = page.SerialNumber
			pr.started = true
		} else if page.SerialNumber != pr.serial {
			// Multiplexed streams: skip pages of other streams.
			continue
		}
		if page.HeaderType&flagContinued == 0 {
			pr.partial = nil
		}

		pos := 0
		for _, seg := range page.Segments {
			pr.partial = append(pr.partial, page.Data[pos:pos+int(seg)]...)
			pos += int(seg)
			if seg < 255 {
				pr.pending = append(pr.pending, pr.partial)
				pr.partial = nil
			}
		}
	}

	packet := pr.pending[0]
	pr.pending = pr.pending[1:]
	return packet, nil
}

// readHeaderPackets reads the first n packets of the first logical stream.
// It also returns the offset of the first page after the last header
// packet, where audio data starts.
func readHeaderPackets(sr *binary.SafeReader, n int) (packets [][]byte, serial uint32, audioOffset int64, err error) {
	pr := newPacketReader(sr, 0)
	for range n {
		packet, err := pr.next()
		if err != nil {
			return nil, 0, 0, err
		}
		packets = append(packets, packet)
	}
	return packets, pr.serial, pr.offset, nil
}

// lastGranulePosition searches backwards from the end of the file for the
// last page of the stream with a granule position set.
func lastGranulePosition(sr *binary.SafeReader, fileSize int64, serial uint32) (uint64, error) {
	const window = 65536 // typical max page size

	end := fileSize
	for end > 0 {
		start := max(end-window, 0)
		buf := make([]byte, end-start)
		if err := sr.ReadAt(buf, start, "search region"); err != nil {
			return 0, err
		}

		for i := bytes.LastIndex(buf, []byte("OggS")); i >= 0; i = bytes.LastIndex(buf[:i], []byte("OggS")) {
			pos := start + int64(i)
			if pos+pageHeaderSize > fileSize {
				continue
			}
			s, err := binary.ReadLE[uint32](sr, pos+14, "serial number")
			if err != nil || s != serial {
				continue
			}
			granule, err := binary.ReadLE[uint64](sr, pos+6, "granule position")
			if err != nil || granule == noGranule {
				continue
			}
			return granule, nil
		}

		// Overlap by three bytes so a marker split across windows is found.
		if start == 0 {
			break
		}
		end = start + 3
	}
	return 0, errors.New("could not find last Ogg page")
}
