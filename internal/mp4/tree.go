package mp4

import (
	"io"

	"github.com/simonhull/audiotag/internal/binary"
)

// containers are the atoms whose payload is a list of child atoms.
var containers = map[string]bool{
	"moov": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"dinf": true,
	"stbl": true,
	"edts": true,
	"udta": true,
	"meta": true,
	"ilst": true,
	"moof": true,
	"traf": true,
	"mvex": true,
}

// Node is an atom with its children.
type Node struct {
	Atom
	Children []*Node
}

// Tree reads the atom hierarchy of an MP4 file. Items inside ilst are
// expanded one level so their data atoms are listed.
func Tree(r io.ReaderAt, size int64, path string) ([]*Node, error) {
	sr := binary.NewSafeReader(r, size, path)
	return tree(sr, 0, size, "")
}

func tree(sr *binary.SafeReader, start, end int64, parent string) ([]*Node, error) {
	atoms, err := children(sr, start, end)
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(atoms))
	for _, a := range atoms {
		n := &Node{Atom: *a}
		if containers[a.Type] || parent == "ilst" {
			n.Children, err = tree(sr, childrenOffset(sr, a), a.End(), a.Type)
			if err != nil {
				return nil, err
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
