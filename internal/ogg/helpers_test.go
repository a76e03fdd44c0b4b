package ogg

import (
	"bytes"

	"github.com/simonhull/audiotag/internal/binary"
)

func newSafeReader(data []byte) *binary.SafeReader {
	return binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.ogg")
}
