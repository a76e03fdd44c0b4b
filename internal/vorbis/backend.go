package vorbis

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/ogg"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
)

// Vendor is written into comment blocks created by this package.
const Vendor = "audiotag"

// Backend is a Vorbis Comment list and the pictures that travel with it:
// PICTURE blocks in FLAC, METADATA_BLOCK_PICTURE comments in Ogg.
type Backend struct {
	tagType  types.TagType
	comments *flacvorbis.MetaDataBlockVorbisComment
	pictures []*flacpicture.MetadataBlockPicture
}

// NewBackend returns an empty comment list for the given tag type, which
// must be TagTypeFLAC, TagTypeOgg or TagTypeOpus.
func NewBackend(tt types.TagType) *Backend {
	c := flacvorbis.New()
	c.Vendor = Vendor
	return &Backend{tagType: tt, comments: c}
}

// Decode reads the Vorbis Comments of a FLAC, Ogg Vorbis, Opus or Speex
// file. A FLAC file without a comment block yields an empty backend.
func Decode(r io.ReaderAt, size int64, path string) (*Backend, error) {
	format, err := types.DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	switch format {
	case types.FormatFLAC:
		return decodeFLAC(r, size, path)
	case types.FormatOgg, types.FormatOpus, types.FormatSpeex:
		return decodeOgg(r, size, path)
	default:
		return nil, &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("%s files do not carry Vorbis Comments", format),
		}
	}
}

func decodeFLAC(r io.ReaderAt, size int64, path string) (*Backend, error) {
	sec := io.NewSectionReader(r, 0, size)
	start, err := binutil.SkipID3v2(sec)
	if err != nil {
		return nil, fmt.Errorf("%s: skip ID3v2: %w", path, err)
	}

	f, err := flac.ParseMetadata(io.NewSectionReader(r, start, size-start))
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Offset: start, Reason: fmt.Sprintf("invalid FLAC metadata: %v", err)}
	}

	b := NewBackend(types.TagTypeFLAC)
	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment:
			c, err := parseComments(block.Data)
			if err != nil {
				return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("invalid VORBIS_COMMENT block: %v", err)}
			}
			b.comments = c
		case flac.Picture:
			pic, err := parsePicture(block.Data)
			if err != nil {
				// An unreadable picture does not make the comments unreadable.
				continue
			}
			b.pictures = append(b.pictures, pic)
		}
	}
	return b, nil
}

func decodeOgg(r io.ReaderAt, size int64, path string) (*Backend, error) {
	packet, err := ogg.ReadCommentPacket(r, size, path)
	if err != nil {
		return nil, err
	}

	c, err := parseComments(packet.Data)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: path, Reason: fmt.Sprintf("invalid comment header: %v", err)}
	}

	tt := types.TagTypeOgg
	if packet.Codec == ogg.CodecOpus {
		tt = types.TagTypeOpus
	}
	b := &Backend{tagType: tt, comments: c}

	// Pictures move out of the comment list so they are handled like FLAC
	// PICTURE blocks.
	for _, value := range get(c, keyPicture) {
		if pic, err := decodePictureComment(value); err == nil {
			b.pictures = append(b.pictures, pic)
		}
	}
	remove(c, keyPicture)
	return b, nil
}

// Comments returns the underlying comment block for fields outside the
// common set. Pictures are not part of it.
func (b *Backend) Comments() *flacvorbis.MetaDataBlockVorbisComment {
	return b.comments
}

// Get returns the values stored under key, compared case-insensitively.
func (b *Backend) Get(key string) []string {
	return get(b.comments, key)
}

// Set replaces the values stored under key. No values removes the key.
func (b *Backend) Set(key string, values ...string) {
	set(b.comments, values, key)
}

// TagType implements tag.Backend.
func (b *Backend) TagType() types.TagType {
	return b.tagType
}

// Text implements tag.Backend.
func (b *Backend) Text(f tag.Field) []string {
	keys, ok := fieldKeys[f]
	if !ok {
		return nil
	}
	return get(b.comments, keys...)
}

// SetText implements tag.Backend.
func (b *Backend) SetText(f tag.Field, values []string) {
	if keys, ok := fieldKeys[f]; ok {
		set(b.comments, values, keys...)
	}
}

// positionKeys returns the number and total keys for a track or disc field.
func positionKeys(f tag.Field) (number, total tag.Field) {
	if f == tag.FieldTrackNumber || f == tag.FieldTotalTracks {
		return tag.FieldTrackNumber, tag.FieldTotalTracks
	}
	return tag.FieldDiscNumber, tag.FieldTotalDiscs
}

// position reads a track or disc pair. The number field may hold "n/t"
// when the total has no field of its own.
func (b *Backend) position(f tag.Field) (number uint16, hasNumber bool, total uint16, hasTotal bool) {
	numberField, totalField := positionKeys(f)
	if values := b.Text(numberField); len(values) > 0 {
		number, hasNumber, total, hasTotal = tag.ParsePosition(values[0])
	}
	if values := b.Text(totalField); len(values) > 0 {
		if t, ok, _, _ := tag.ParsePosition(values[0]); ok {
			total, hasTotal = t, true
		}
	}
	return number, hasNumber, total, hasTotal
}

// Number implements tag.Backend.
func (b *Backend) Number(f tag.Field) (uint16, bool) {
	number, hasNumber, total, hasTotal := b.position(f)
	if f == tag.FieldTotalTracks || f == tag.FieldTotalDiscs {
		return total, hasTotal
	}
	return number, hasNumber
}

// SetNumber implements tag.Backend.
func (b *Backend) SetNumber(f tag.Field, n uint16) {
	b.updatePosition(f, n, true)
}

// RemoveNumber implements tag.Backend.
func (b *Backend) RemoveNumber(f tag.Field) {
	b.updatePosition(f, 0, false)
}

// updatePosition rewrites a track or disc pair as separate number and
// total fields.
func (b *Backend) updatePosition(f tag.Field, n uint16, present bool) {
	number, hasNumber, total, hasTotal := b.position(f)
	if f == tag.FieldTotalTracks || f == tag.FieldTotalDiscs {
		total, hasTotal = n, present
	} else {
		number, hasNumber = n, present
	}

	numberField, totalField := positionKeys(f)
	b.SetText(numberField, nil)
	b.SetText(totalField, nil)
	if hasNumber {
		b.SetText(numberField, []string{tag.FormatPosition(number, true, 0, false)})
	}
	if hasTotal {
		b.SetText(totalField, []string{tag.FormatPosition(total, true, 0, false)})
	}
}

// Cover implements tag.Backend. The front cover wins over other pictures.
func (b *Backend) Cover() (types.Picture, bool) {
	var found *flacpicture.MetadataBlockPicture
	for _, pic := range b.pictures {
		if found == nil || pic.PictureType == flacpicture.PictureTypeFrontCover && found.PictureType != flacpicture.PictureTypeFrontCover {
			found = pic
		}
	}
	if found == nil || len(found.ImageData) == 0 {
		return types.Picture{}, false
	}
	return toPicture(found), true
}

// SetCover implements tag.Backend. Other pictures are dropped.
func (b *Backend) SetCover(p types.Picture) {
	b.pictures = []*flacpicture.MetadataBlockPicture{newPicture(p)}
}

// RemoveCover implements tag.Backend.
func (b *Backend) RemoveCover() {
	b.pictures = nil
}

// IsEmpty reports whether there are no comments and no pictures.
func (b *Backend) IsEmpty() bool {
	return len(b.comments.Comments) == 0 && len(b.pictures) == 0
}

// Encode implements tag.Backend. The container is taken from src, so a
// comment list read from FLAC can be written into an Ogg file and back.
func (b *Backend) Encode(src io.ReadSeeker, dst io.WriteSeeker) error {
	start, err := binutil.SkipID3v2(src)
	if err != nil {
		return fmt.Errorf("skip ID3v2: %w", err)
	}
	magic := make([]byte, 4)
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.ReadFull(src, magic); err != nil {
		return &types.UnsupportedWriteError{Reason: "file too small"}
	}

	switch string(magic) {
	case "fLaC":
		return b.encodeFLAC(src, dst, start)
	case "OggS":
		if start != 0 {
			return &types.UnsupportedWriteError{Format: types.FormatOgg, Reason: "ID3v2 tag before Ogg stream"}
		}
		return b.encodeOgg(src, dst)
	default:
		return &types.UnsupportedWriteError{Reason: "Vorbis Comments need a FLAC or Ogg file"}
	}
}

// encodeFLAC replaces the VORBIS_COMMENT and PICTURE blocks. Bytes before
// the FLAC stream are kept.
func (b *Backend) encodeFLAC(src io.ReadSeeker, dst io.Writer, start int64) error {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(dst, src, start); err != nil {
		return fmt.Errorf("copy leading bytes: %w", err)
	}

	f, err := flac.ParseBytes(src)
	if err != nil {
		return &types.CorruptedFileError{Offset: start, Reason: fmt.Sprintf("invalid FLAC stream: %v", err)}
	}
	if len(f.Meta) == 0 || f.Meta[0].Type != flac.StreamInfo {
		return &types.CorruptedFileError{Offset: start, Reason: "FLAC stream does not start with STREAMINFO"}
	}

	meta := []*flac.MetaDataBlock{f.Meta[0]}
	if len(b.comments.Comments) > 0 {
		block := b.comments.Marshal()
		meta = append(meta, &block)
	}
	for _, pic := range b.pictures {
		block := pic.Marshal()
		meta = append(meta, &block)
	}
	for _, block := range f.Meta[1:] {
		if block.Type != flac.VorbisComment && block.Type != flac.Picture {
			meta = append(meta, block)
		}
	}
	f.Meta = meta

	if _, err := dst.Write(f.Marshal()); err != nil {
		return fmt.Errorf("write FLAC stream: %w", err)
	}
	return nil
}

// encodeOgg replaces the comment header of the first logical stream.
// Pictures are stored as METADATA_BLOCK_PICTURE comments.
func (b *Backend) encodeOgg(src io.ReadSeeker, dst io.Writer) error {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	r, ok := src.(io.ReaderAt)
	if !ok {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return err
		}
		data, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	c := &flacvorbis.MetaDataBlockVorbisComment{
		Vendor:   b.comments.Vendor,
		Comments: slices.Clone(b.comments.Comments),
	}
	for _, pic := range b.pictures {
		c.Comments = append(c.Comments, keyPicture+"="+encodePictureComment(pic))
	}
	block := c.Marshal()

	return ogg.WriteCommentPacket(r, size, "", dst, block.Data)
}
