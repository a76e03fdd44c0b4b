package mp4

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gomp4 "github.com/abema/go-mp4"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// metadataHandler is the hdlr atom iTunes places first in moov.udta.meta.
var metadataHandler = fullBox("hdlr", []byte{
	0, 0, 0, 0, // pre_defined
	'm', 'd', 'i', 'r',
	'a', 'p', 'p', 'l', 0, 0, 0, 0, 0, 0, 0, 0, // reserved
	0, // name
})

// layout locates the atoms a rewrite touches.
type layout struct {
	moov, udta, meta, ilst *Atom
	quickTimeMeta          bool
	fragmented             bool
}

func inspect(sr *binutil.SafeReader) (*layout, error) {
	l := &layout{}
	var err error

	l.moov, err = findAtom(sr, 0, sr.Size(), "moov")
	if err != nil {
		if errors.Is(err, errAtomNotFound) {
			return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: "no moov atom"}
		}
		return nil, err
	}
	if _, err := findAtom(sr, 0, sr.Size(), "moof"); err == nil {
		l.fragmented = true
	}

	find := func(parent *Atom, typ string) (*Atom, error) {
		a, err := findAtom(sr, childrenOffset(sr, parent), parent.End(), typ)
		if errors.Is(err, errAtomNotFound) {
			return nil, nil
		}
		return a, err
	}
	if l.udta, err = find(l.moov, "udta"); err != nil || l.udta == nil {
		return l, err
	}
	if l.meta, err = find(l.udta, "meta"); err != nil || l.meta == nil {
		return l, err
	}
	l.quickTimeMeta = childrenOffset(sr, l.meta) == l.meta.DataOffset()
	l.ilst, err = find(l.meta, "ilst")
	return l, err
}

// delta returns how much moov grows when its ilst becomes ilstSize bytes.
func (l *layout) delta(ilstSize int64) int64 {
	d := ilstSize
	if l.ilst != nil {
		d -= int64(l.ilst.Size)
	}
	if ilstSize == 0 {
		return d
	}
	if l.meta == nil {
		d += 12 + int64(len(metadataHandler))
	}
	if l.udta == nil {
		d += 8
	}
	return d
}

// rewrite copies the MP4 file in r to dst with moov.udta.meta.ilst holding
// payload. Missing udta, meta and ilst atoms are created and an empty
// payload drops the ilst atom. Chunk offsets in stco and co64 that point
// past moov are shifted by the change in size.
func rewrite(r interface {
	io.ReadSeeker
	io.ReaderAt
}, size int64, dst io.WriteSeeker, payload []byte) error {
	sr := binutil.NewSafeReader(r, size, "")
	l, err := inspect(sr)
	if err != nil {
		return err
	}

	var ilstSize int64
	if len(payload) > 0 {
		ilstSize = 8 + int64(len(payload))
	}
	delta := l.delta(ilstSize)
	if delta != 0 && l.fragmented {
		return &types.UnsupportedWriteError{Format: types.FormatMP4, Reason: "fragmented MP4 files cannot grow"}
	}
	moovOffset := uint64(l.moov.Offset)

	w := gomp4.NewWriter(dst)

	writeIlst := func() error {
		if len(payload) == 0 {
			return nil
		}
		_, err := w.Write(box("ilst", payload))
		return err
	}
	newMeta := func() []byte {
		var body []byte
		body = append(body, metadataHandler...)
		body = append(body, box("ilst", payload)...)
		return fullBox("meta", body)
	}
	writeMeta := func() error {
		if len(payload) == 0 {
			return nil
		}
		_, err := w.Write(newMeta())
		return err
	}

	// container opens a box, runs extra after its children and closes it.
	container := func(h *gomp4.ReadHandle, prefix []byte, extra func() error) error {
		if _, err := w.StartBox(&h.BoxInfo); err != nil {
			return err
		}
		if _, _, err := h.ReadPayload(); err != nil {
			return err
		}
		if _, err := w.Write(prefix); err != nil {
			return err
		}
		if _, err := h.Expand(); err != nil {
			return err
		}
		if extra != nil {
			if err := extra(); err != nil {
				return err
			}
		}
		_, err := w.EndBox()
		return err
	}

	_, err = gomp4.ReadBoxStructure(r, func(h *gomp4.ReadHandle) (interface{}, error) {
		switch boxPath(h.Path) {
		case "moov":
			if l.udta != nil {
				return nil, container(h, nil, nil)
			}
			return nil, container(h, nil, func() error {
				if len(payload) == 0 {
					return nil
				}
				_, err := w.Write(box("udta", newMeta()))
				return err
			})
		case "moov/udta":
			if l.meta != nil {
				return nil, container(h, nil, nil)
			}
			return nil, container(h, nil, writeMeta)
		case "moov/udta/meta":
			var prefix []byte
			if !l.quickTimeMeta {
				var err error
				prefix, err = sr.ReadBytes(int64(h.BoxInfo.Offset+h.BoxInfo.HeaderSize), 4, "meta version")
				if err != nil {
					return nil, err
				}
			}
			if l.ilst != nil {
				return nil, container(h, prefix, nil)
			}
			return nil, container(h, prefix, writeIlst)
		case "moov/udta/meta/ilst":
			return nil, writeIlst()
		case "moov/trak", "moov/trak/mdia", "moov/trak/mdia/minf", "moov/trak/mdia/minf/stbl":
			return nil, container(h, nil, nil)
		case "moov/trak/mdia/minf/stbl/stco", "moov/trak/mdia/minf/stbl/co64":
			if delta == 0 {
				return nil, w.CopyBox(r, &h.BoxInfo)
			}
			return nil, shiftChunkOffsets(w, h, moovOffset, delta)
		default:
			return nil, w.CopyBox(r, &h.BoxInfo)
		}
	})
	if err != nil {
		var unsupported *types.UnsupportedWriteError
		if errors.As(err, &unsupported) {
			return err
		}
		return fmt.Errorf("rewrite MP4: %w", err)
	}
	return nil
}

// shiftChunkOffsets rewrites an stco or co64 atom with every offset past
// moov moved by delta.
func shiftChunkOffsets(w *gomp4.Writer, h *gomp4.ReadHandle, moovOffset uint64, delta int64) error {
	payload, _, err := h.ReadPayload()
	if err != nil {
		return err
	}

	switch b := payload.(type) {
	case *gomp4.Stco:
		for i, off := range b.ChunkOffset {
			if uint64(off) <= moovOffset {
				continue
			}
			shifted := int64(off) + delta
			if shifted < 0 || shifted > math.MaxUint32 {
				return &types.UnsupportedWriteError{Format: types.FormatMP4, Reason: "chunk offsets exceed 32 bits"}
			}
			b.ChunkOffset[i] = uint32(shifted)
		}
	case *gomp4.Co64:
		for i, off := range b.ChunkOffset {
			if off > moovOffset {
				b.ChunkOffset[i] = uint64(int64(off) + delta)
			}
		}
	default:
		return fmt.Errorf("unexpected %T in chunk offset box", payload)
	}

	if _, err := w.StartBox(&h.BoxInfo); err != nil {
		return err
	}
	if _, err := gomp4.Marshal(w, payload, h.BoxInfo.Context); err != nil {
		return err
	}
	_, err = w.EndBox()
	return err
}

func boxPath(p gomp4.BoxPath) string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = t.String()
	}
	return strings.Join(parts, "/")
}
