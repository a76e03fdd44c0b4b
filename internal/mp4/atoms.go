// Package mp4 reads and writes the iTunes-style metadata of MP4 files and
// reads the properties of their first audio track.
package mp4

import (
	"errors"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// errAtomNotFound is returned by findAtom when no atom of the type exists.
var errAtomNotFound = errors.New("atom not found")

// Atom represents an MP4 atom (box).
type Atom struct {
	Size     uint64 // Total size including header
	Type     string // 4-character type code
	Offset   int64  // Position in file
	Extended bool   // Whether this uses 64-bit extended size
}

// headerSize returns 8, or 16 for 64-bit sizes.
func (a *Atom) headerSize() int64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataSize returns the size of the atom's data (excluding header).
func (a *Atom) DataSize() int64 {
	if int64(a.Size) < a.headerSize() {
		return 0
	}
	return int64(a.Size) - a.headerSize()
}

// DataOffset returns the file offset where the atom's data starts.
func (a *Atom) DataOffset() int64 {
	return a.Offset + a.headerSize()
}

// End returns the offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// readAtomHeader reads an atom header at the given offset. A size of zero
// means the atom extends to the end of the file.
func readAtomHeader(sr *binary.SafeReader, offset int64) (*Atom, error) {
	size32, err := binary.Read[uint32](sr, offset, "atom size")
	if err != nil {
		return nil, err
	}

	typeBytes := make([]byte, 4)
	if err := sr.ReadAt(typeBytes, offset+4, "atom type"); err != nil {
		return nil, err
	}

	atom := &Atom{
		Type:   string(typeBytes),
		Offset: offset,
	}

	switch size32 {
	case 0:
		atom.Size = uint64(sr.Size() - offset)
	case 1:
		size64, err := binary.Read[uint64](sr, offset+8, "extended atom size")
		if err != nil {
			return nil, err
		}
		atom.Size = size64
		atom.Extended = true
	default:
		atom.Size = uint64(size32)
	}

	if int64(atom.Size) < atom.headerSize() || atom.End() > sr.Size() {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("invalid size %d for atom %q", atom.Size, atom.Type),
		}
	}

	return atom, nil
}

// children returns the atoms between start and end.
func children(sr *binary.SafeReader, start, end int64) ([]*Atom, error) {
	var atoms []*Atom
	for offset := start; offset+8 <= end; {
		atom, err := readAtomHeader(sr, offset)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
		offset = atom.End()
	}
	return atoms, nil
}

// findAtom searches for an atom of the given type within a range.
func findAtom(sr *binary.SafeReader, start, end int64, atomType string) (*Atom, error) {
	offset := start

	for offset+8 <= end {
		atom, err := readAtomHeader(sr, offset)
		if err != nil {
			return nil, err
		}

		if atom.Type == atomType {
			return atom, nil
		}

		offset = atom.End()
	}

	return nil, fmt.Errorf("%w: %q", errAtomNotFound, atomType)
}

// childrenOffset returns where the child atoms of a start. The meta atom
// is a full box with 4 bytes of version and flags, except in QuickTime
// files where its first child follows the header directly.
func childrenOffset(sr *binary.SafeReader, a *Atom) int64 {
	if a.Type != "meta" {
		return a.DataOffset()
	}
	probe := make([]byte, 4)
	if err := sr.ReadAt(probe, a.DataOffset()+4, "meta child type"); err == nil && string(probe) == "hdlr" {
		return a.DataOffset()
	}
	return a.DataOffset() + 4
}

// findPath descends through nested atoms, e.g. "moov", "udta", "meta".
func findPath(sr *binary.SafeReader, start, end int64, path ...string) (*Atom, error) {
	var atom *Atom
	for _, typ := range path {
		found, err := findAtom(sr, start, end, typ)
		if err != nil {
			return nil, err
		}
		atom = found
		start, end = childrenOffset(sr, atom), atom.End()
	}
	return atom, nil
}
