package mp4

import (
	"bytes"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
)

// Item names of the well-known iTunes atoms.
const (
	atomTitle       = "\xa9nam"
	atomArtist      = "\xa9ART"
	atomAlbum       = "\xa9alb"
	atomAlbumArtist = "aART"
	atomYear        = "\xa9day"
	atomTrack       = "trkn"
	atomDisc        = "disk"
	atomCover       = "covr"
	atomFreeform    = "----"
)

// Well-known data types of the "data" atom.
const (
	DataTypeImplicit  uint32 = 0
	DataTypeUTF8      uint32 = 1
	DataTypeGIF       uint32 = 12
	DataTypeJPEG      uint32 = 13
	DataTypePNG       uint32 = 14
	DataTypeBEInteger uint32 = 21
	DataTypeBMP       uint32 = 27
)

// Data is one value of an item.
type Data struct {
	Type   uint32
	Locale uint32
	Value  []byte
}

// Item is an atom of the ilst list. Freeform items ("----") are keyed by
// Mean and FreeName.
type Item struct {
	Name     string
	Mean     string
	FreeName string
	Data     []Data
}

// Strings returns the UTF-8 values of the item.
func (it *Item) Strings() []string {
	var values []string
	for _, d := range it.Data {
		if d.Type == DataTypeUTF8 && len(d.Value) > 0 {
			values = append(values, string(d.Value))
		}
	}
	return values
}

// parseItems decodes the payload of an ilst atom. Children other than
// "data", "mean" and "name" are dropped.
func parseItems(payload []byte, path string) ([]*Item, error) {
	sr := binary.NewSafeReader(bytes.NewReader(payload), int64(len(payload)), path)

	atoms, err := children(sr, 0, sr.Size())
	if err != nil {
		return nil, fmt.Errorf("read ilst: %w", err)
	}

	items := make([]*Item, 0, len(atoms))
	for _, a := range atoms {
		item, err := parseItem(sr, a)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(sr *binary.SafeReader, a *Atom) (*Item, error) {
	item := &Item{Name: a.Type}

	atoms, err := children(sr, a.DataOffset(), a.End())
	if err != nil {
		return nil, fmt.Errorf("read item %q: %w", a.Type, err)
	}

	for _, child := range atoms {
		// Every child is a full box: 4 bytes of version and flags.
		if child.DataSize() < 4 {
			continue
		}
		switch child.Type {
		case "data":
			d, err := parseData(sr, child)
			if err != nil {
				return nil, err
			}
			item.Data = append(item.Data, d)
		case "mean":
			b, err := sr.ReadBytes(child.DataOffset()+4, int(child.DataSize()-4), "mean")
			if err != nil {
				return nil, err
			}
			item.Mean = string(b)
		case "name":
			b, err := sr.ReadBytes(child.DataOffset()+4, int(child.DataSize()-4), "name")
			if err != nil {
				return nil, err
			}
			item.FreeName = string(b)
		}
	}
	return item, nil
}

// parseData reads a data atom: a 1-byte version, a 3-byte type, a 4-byte
// locale and the value.
func parseData(sr *binary.SafeReader, a *Atom) (Data, error) {
	if a.DataSize() < 8 {
		return Data{}, nil
	}
	cr := binary.NewChainReader(binary.NewReader(sr, a.DataOffset()))
	typeAndVersion := binary.ReadChained[uint32](cr, "data type")
	locale := binary.ReadChained[uint32](cr, "data locale")
	value := cr.Bytes(int(a.DataSize()-8), "data value")
	if err := cr.Error(); err != nil {
		return Data{}, err
	}
	return Data{Type: typeAndVersion & 0x00FFFFFF, Locale: locale, Value: value}, nil
}

// encodeItems returns the payload of an ilst atom holding items.
func encodeItems(items []*Item) []byte {
	var buf bytes.Buffer
	for _, item := range items {
		if len(item.Data) == 0 {
			continue
		}
		var body bytes.Buffer
		if item.Name == atomFreeform {
			body.Write(fullBox("mean", []byte(item.Mean)))
			body.Write(fullBox("name", []byte(item.FreeName)))
		}
		for _, d := range item.Data {
			sw := binary.NewSafeWriter(&body)
			_ = binary.Write(sw, uint32(16+len(d.Value)))
			_ = sw.WriteString("data")
			_ = binary.Write(sw, d.Type&0x00FFFFFF)
			_ = binary.Write(sw, d.Locale)
			_ = sw.WriteBytes(d.Value)
		}
		buf.Write(box(item.Name, body.Bytes()))
	}
	return buf.Bytes()
}

// box returns an atom with a 32-bit size.
func box(typ string, payload []byte) []byte {
	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)
	_ = binary.Write(sw, uint32(8+len(payload)))
	_ = sw.WriteString(typ)
	_ = sw.WriteBytes(payload)
	return buf.Bytes()
}

// fullBox returns an atom with version 0 and no flags.
func fullBox(typ string, payload []byte) []byte {
	return box(typ, append(make([]byte, 4), payload...))
}
