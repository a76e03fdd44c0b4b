package mp4

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"slices"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
)

// Backend is an iTunes-style item list. Items the common fields do not
// cover are kept and written back unchanged.
type Backend struct {
	items []*Item
	// zeros holds numbers explicitly set to 0. trkn and disk store 0 as
	// "absent", so these only live in memory and are not written.
	zeros map[tag.Field]bool
}

// NewBackend returns an empty item list.
func NewBackend() *Backend {
	return &Backend{}
}

// Decode reads the moov.udta.meta.ilst list of an MP4 file. A file without
// one yields an empty backend.
func Decode(r io.ReaderAt, size int64, path string) (*Backend, error) {
	sr := binutil.NewSafeReader(r, size, path)

	moov, err := findAtom(sr, 0, size, "moov")
	if err != nil {
		if errors.Is(err, errAtomNotFound) {
			return nil, &types.CorruptedFileError{Path: path, Reason: "no moov atom"}
		}
		return nil, err
	}

	ilst, err := findPath(sr, moov.DataOffset(), moov.End(), "udta", "meta", "ilst")
	if errors.Is(err, errAtomNotFound) {
		return NewBackend(), nil
	}
	if err != nil {
		return nil, err
	}

	payload, err := sr.ReadBytes(ilst.DataOffset(), int(ilst.DataSize()), "ilst")
	if err != nil {
		return nil, err
	}
	items, err := parseItems(payload, path)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Offset: ilst.Offset, Reason: err.Error()}
	}
	return &Backend{items: items}, nil
}

// TagType implements tag.Backend.
func (b *Backend) TagType() types.TagType {
	return types.TagTypeMP4
}

// Items returns the item list in file order.
func (b *Backend) Items() []*Item {
	return b.items
}

// Item returns the first item with the given atom name.
func (b *Backend) Item(name string) (*Item, bool) {
	i := b.index(name)
	if i < 0 {
		return nil, false
	}
	return b.items[i], true
}

// SetItem replaces the item of the same name, keeping its position, or
// appends it.
func (b *Backend) SetItem(item *Item) {
	b.forgetZeros(item.Name)
	b.putItem(item)
}

// RemoveItem drops every item with the given atom name.
func (b *Backend) RemoveItem(name string) {
	b.forgetZeros(name)
	b.dropItem(name)
}

func (b *Backend) putItem(item *Item) {
	if i := b.index(item.Name); i >= 0 && item.Name != atomFreeform {
		b.items[i] = item
		b.items = slices.DeleteFunc(b.items, func(it *Item) bool {
			return it != item && it.Name == item.Name
		})
		return
	}
	b.items = append(b.items, item)
}

func (b *Backend) dropItem(name string) {
	b.items = slices.DeleteFunc(b.items, func(it *Item) bool { return it.Name == name })
}

func (b *Backend) index(name string) int {
	return slices.IndexFunc(b.items, func(it *Item) bool { return it.Name == name })
}

func textAtom(f tag.Field) string {
	switch f {
	case tag.FieldTitle:
		return atomTitle
	case tag.FieldArtist:
		return atomArtist
	case tag.FieldYear:
		return atomYear
	case tag.FieldAlbumTitle:
		return atomAlbum
	case tag.FieldAlbumArtist:
		return atomAlbumArtist
	default:
		return ""
	}
}

// Text implements tag.Backend. Each UTF-8 data atom is one value.
func (b *Backend) Text(f tag.Field) []string {
	item, ok := b.Item(textAtom(f))
	if !ok {
		return nil
	}
	return item.Strings()
}

// SetText implements tag.Backend.
func (b *Backend) SetText(f tag.Field, values []string) {
	name := textAtom(f)
	if name == "" {
		return
	}
	if len(values) == 0 {
		b.RemoveItem(name)
		return
	}
	item := &Item{Name: name}
	for _, v := range values {
		item.Data = append(item.Data, Data{Type: DataTypeUTF8, Value: []byte(v)})
	}
	b.SetItem(item)
}

// positionAtom returns the item holding f and whether f is the total.
func positionAtom(f tag.Field) (string, bool) {
	switch f {
	case tag.FieldTrackNumber:
		return atomTrack, false
	case tag.FieldTotalTracks:
		return atomTrack, true
	case tag.FieldDiscNumber:
		return atomDisc, false
	default:
		return atomDisc, true
	}
}

// position reads a trkn or disk pair. Zero means absent.
func (b *Backend) position(name string) (number, total uint16) {
	item, ok := b.Item(name)
	if !ok || len(item.Data) == 0 {
		return 0, 0
	}
	v := item.Data[0].Value
	if len(v) >= 4 {
		number = binary.BigEndian.Uint16(v[2:4])
	}
	if len(v) >= 6 {
		total = binary.BigEndian.Uint16(v[4:6])
	}
	return number, total
}

// Number implements tag.Backend.
func (b *Backend) Number(f tag.Field) (uint16, bool) {
	name, isTotal := positionAtom(f)
	number, total := b.position(name)
	n := number
	if isTotal {
		n = total
	}
	return n, n != 0 || b.zeros[f]
}

// SetNumber implements tag.Backend. Zero is kept in memory but written as
// absent.
func (b *Backend) SetNumber(f tag.Field, n uint16) {
	b.storeNumber(f, n)
	if n == 0 {
		if b.zeros == nil {
			b.zeros = make(map[tag.Field]bool)
		}
		b.zeros[f] = true
	}
}

// RemoveNumber implements tag.Backend.
func (b *Backend) RemoveNumber(f tag.Field) {
	b.storeNumber(f, 0)
}

func (b *Backend) storeNumber(f tag.Field, n uint16) {
	name, isTotal := positionAtom(f)
	delete(b.zeros, f)
	number, total := b.position(name)
	if isTotal {
		total = n
	} else {
		number = n
	}
	b.setPosition(name, number, total)
}

// forgetZeros drops the zeros held for the numbers of a trkn or disk item.
func (b *Backend) forgetZeros(name string) {
	for f := range b.zeros {
		if atom, _ := positionAtom(f); atom == name {
			delete(b.zeros, f)
		}
	}
}

// setPosition writes trkn as 8 bytes and disk as 6, as iTunes does.
func (b *Backend) setPosition(name string, number, total uint16) {
	if number == 0 && total == 0 {
		b.dropItem(name)
		return
	}
	value := make([]byte, 6, 8)
	binary.BigEndian.PutUint16(value[2:4], number)
	binary.BigEndian.PutUint16(value[4:6], total)
	if name == atomTrack {
		value = append(value, 0, 0)
	}
	b.putItem(&Item{Name: name, Data: []Data{{Type: DataTypeImplicit, Value: value}}})
}

// Cover implements tag.Backend. The first non-empty covr value wins.
func (b *Backend) Cover() (types.Picture, bool) {
	item, ok := b.Item(atomCover)
	if !ok {
		return types.Picture{}, false
	}
	for _, d := range item.Data {
		if len(d.Value) == 0 {
			continue
		}
		mime := mimeForDataType(d.Type)
		if mime == types.MimeUnknown {
			mime = types.SniffMimeType(d.Value)
		}
		return types.Picture{MimeType: mime, Data: d.Value}, true
	}
	return types.Picture{}, false
}

// SetCover implements tag.Backend. Other covers are dropped.
func (b *Backend) SetCover(p types.Picture) {
	b.SetItem(&Item{Name: atomCover, Data: []Data{{Type: dataTypeForMime(p.MimeType), Value: p.Data}}})
}

// RemoveCover implements tag.Backend.
func (b *Backend) RemoveCover() {
	b.RemoveItem(atomCover)
}

// IsEmpty reports whether the list has no items.
func (b *Backend) IsEmpty() bool {
	return len(b.items) == 0
}

func mimeForDataType(t uint32) types.MimeType {
	switch t {
	case DataTypeJPEG:
		return types.MimeJPEG
	case DataTypePNG:
		return types.MimePNG
	case DataTypeBMP:
		return types.MimeBMP
	case DataTypeGIF:
		return types.MimeGIF
	default:
		return types.MimeUnknown
	}
}

func dataTypeForMime(m types.MimeType) uint32 {
	switch m {
	case types.MimeJPEG:
		return DataTypeJPEG
	case types.MimePNG:
		return DataTypePNG
	case types.MimeBMP:
		return DataTypeBMP
	case types.MimeGIF:
		return DataTypeGIF
	default:
		return DataTypeImplicit
	}
}

// Encode implements tag.Backend. See rewrite for the atom layout.
func (b *Backend) Encode(src io.ReadSeeker, dst io.WriteSeeker) error {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return err
	}

	rs, ok := src.(interface {
		io.ReadSeeker
		io.ReaderAt
	})
	if !ok {
		data, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		rs = bytes.NewReader(data)
	}

	return rewrite(rs, size, dst, encodeItems(b.items))
}

var _ tag.Backend = (*Backend)(nil)
