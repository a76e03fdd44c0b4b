// Package iff reads the audio properties of the chunked IFF containers:
// RIFF WAVE and AIFF/AIFF-C. Header fields are decoded by go-audio; this
// package locates the chunks and measures them.
package iff

import (
	"bytes"
	"io"
	"slices"

	"github.com/simonhull/audiotag/internal/binary"
)

// chunk is a located IFF chunk.
type chunk struct {
	ID     string
	Offset int64 // start of the chunk data
	Size   int64
}

// readChunks lists the chunks after a 12-byte RIFF or FORM header. Sizes
// are little-endian for RIFF and big-endian for FORM, and chunks are padded
// to even sizes. A chunk that runs past the end is clipped.
func readChunks(sr *binary.SafeReader, order binary.Endianness) ([]chunk, error) {
	var chunks []chunk
	offset := int64(12)

	for offset+8 <= sr.Size() {
		id, err := sr.ReadBytes(offset, 4, "chunk ID")
		if err != nil {
			return nil, err
		}
		size, err := binary.ReadEndian[uint32](sr, offset+4, "chunk size", order)
		if err != nil {
			return nil, err
		}

		c := chunk{ID: string(id), Offset: offset + 8, Size: int64(size)}
		if c.Offset+c.Size > sr.Size() {
			c.Size = sr.Size() - c.Offset
		}
		chunks = append(chunks, c)

		offset = c.Offset + c.Size + c.Size&1
	}
	return chunks, nil
}

func findChunk(chunks []chunk, id string) (chunk, bool) {
	for _, c := range chunks {
		if c.ID == id {
			return c, true
		}
	}
	return chunk{}, false
}

// headerOnly returns the 12-byte container header followed by chunk c cut
// to at most limit bytes. The go-audio decoders size their buffers from
// chunk headers, so they are handed this instead of the file.
func headerOnly(sr *binary.SafeReader, order binary.Endianness, c chunk, limit int64) (io.ReadSeeker, error) {
	head, err := sr.ReadBytes(0, 12, "container header")
	if err != nil {
		return nil, err
	}
	n := min(c.Size, limit)
	body, err := sr.ReadBytes(c.Offset, int(n), c.ID+" chunk")
	if err != nil {
		return nil, err
	}

	size := make([]byte, 4)
	order.ByteOrder().PutUint32(size, uint32(n))
	return bytes.NewReader(slices.Concat(head, []byte(c.ID), size, body)), nil
}
