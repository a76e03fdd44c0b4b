package mp4

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/mp4/mp4test"
	"github.com/simonhull/audiotag/internal/types"
)

func newSafeReader(data []byte) *binutil.SafeReader {
	return binutil.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.m4a")
}

func TestReadAtomHeader_Success(t *testing.T) {
	data := mp4test.Box("moov", []byte{0x01, 0x02, 0x03, 0x04})

	atom, err := readAtomHeader(newSafeReader(data), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atom.Size != 12 {
		t.Errorf("expected size 12, got %d", atom.Size)
	}
	if atom.Type != "moov" {
		t.Errorf("expected type 'moov', got %s", atom.Type)
	}
	if atom.DataSize() != 4 {
		t.Errorf("expected data size 4, got %d", atom.DataSize())
	}
	if atom.DataOffset() != 8 {
		t.Errorf("expected data offset 8, got %d", atom.DataOffset())
	}
}

func TestReadAtomHeader_Extended(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(1))
	buf.WriteString("mdat")
	binary.Write(buf, binary.BigEndian, uint64(24))
	buf.Write(make([]byte, 8))

	atom, err := readAtomHeader(newSafeReader(buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !atom.Extended {
		t.Error("expected extended atom")
	}
	if atom.DataOffset() != 16 {
		t.Errorf("expected data offset 16, got %d", atom.DataOffset())
	}
	if atom.DataSize() != 8 {
		t.Errorf("expected data size 8, got %d", atom.DataSize())
	}
}

func TestReadAtomHeader_ExtendsToEOF(t *testing.T) {
	data := append([]byte{0, 0, 0, 0, 'm', 'd', 'a', 't'}, make([]byte, 100)...)

	atom, err := readAtomHeader(newSafeReader(data), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atom.Size != 108 {
		t.Errorf("expected size 108, got %d", atom.Size)
	}
}

func TestReadAtomHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"size below header", []byte{0, 0, 0, 4, 'f', 'r', 'e', 'e'}},
		{"size past end", []byte{0, 0, 0, 64, 'f', 'r', 'e', 'e'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAtomHeader(newSafeReader(tt.data), 0)
			var corrupted *types.CorruptedFileError
			if !errors.As(err, &corrupted) {
				t.Fatalf("expected CorruptedFileError, got %v", err)
			}
		})
	}
}

func TestFindPath(t *testing.T) {
	ilst := mp4test.Box("ilst", mp4test.Text("\xa9nam", "x"))
	handler := mp4test.FullBox("hdlr", make([]byte, 4), []byte("mdir"), make([]byte, 13))

	tests := []struct {
		name string
		meta []byte
	}{
		{"full box meta", mp4test.FullBox("meta", handler, ilst)},
		{"QuickTime meta", mp4test.Box("meta", handler, ilst)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := mp4test.Box("moov", mp4test.Box("free"), mp4test.Box("udta", tt.meta))
			sr := newSafeReader(data)

			atom, err := findPath(sr, 0, sr.Size(), "moov", "udta", "meta", "ilst")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if atom.Type != "ilst" || atom.Size != uint64(len(ilst)) {
				t.Errorf("found %q of size %d", atom.Type, atom.Size)
			}
		})
	}
}

func TestFindAtom_NotFound(t *testing.T) {
	data := mp4test.Box("moov")
	_, err := findAtom(newSafeReader(data), 0, int64(len(data)), "udta")
	if !errors.Is(err, errAtomNotFound) {
		t.Errorf("expected errAtomNotFound, got %v", err)
	}
}
