package binary

import (
	"errors"
	"fmt"
	"io"
)

// DecodeSynchsafe decodes a 28-bit synchsafe integer (ID3v2, APE).
// Each byte carries 7 bits; the top bit is always zero.
func DecodeSynchsafe(b []byte) uint32 {
	var n uint32
	for _, c := range b {
		n = n<<7 | uint32(c&0x7F)
	}
	return n
}

// ID3v2Size returns the total size of the ID3v2 tag at off, including its
// 10-byte header and the footer when one is flagged.
func ID3v2Size(sr *SafeReader, off int64) (int64, error) {
	header := make([]byte, 10)
	if err := sr.ReadAt(header, off, "ID3v2 header"); err != nil {
		return 0, err
	}
	if string(header[:3]) != "ID3" {
		return 0, fmt.Errorf("%s: no ID3v2 tag at offset %d", sr.Path(), off)
	}
	for _, b := range header[6:10] {
		if b&0x80 != 0 {
			return 0, fmt.Errorf("%s: invalid ID3v2 size at offset %d", sr.Path(), off)
		}
	}

	size := int64(DecodeSynchsafe(header[6:10])) + 10
	if header[5]&0x10 != 0 {
		size += 10
	}
	return size, nil
}

// SkipID3v2 returns the offset after any ID3v2 tags at the start of src.
// Some taggers stack several.
func SkipID3v2(src io.ReadSeeker) (int64, error) {
	var offset int64
	header := make([]byte, 10)
	for {
		if _, err := src.Seek(offset, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := io.ReadFull(src, header); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return offset, nil
			}
			return 0, err
		}
		if string(header[:3]) != "ID3" {
			return offset, nil
		}
		size := int64(DecodeSynchsafe(header[6:10])) + 10
		if header[5]&0x10 != 0 {
			size += 10
		}
		offset += size
	}
}
