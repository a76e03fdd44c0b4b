// Package id3 implements the ID3v2 tag backend on top of bogem/id3v2.
//
// Tags are always written as ID3v2.4. Version 2.3 tags are upgraded on read:
// the TYER frame moves to TDRC.
package id3

import (
	"fmt"
	"io"
	"strings"

	"github.com/bogem/id3v2/v2"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
)

// Frame IDs shared by ID3v2.3 and ID3v2.4.
const (
	frameTitle       = "TIT2"
	frameArtist      = "TPE1"
	frameAlbum       = "TALB"
	frameAlbumArtist = "TPE2"
	frameTrack       = "TRCK"
	frameDisc        = "TPOS"
	frameRecordTime  = "TDRC" // v2.4
	frameYear        = "TYER" // v2.3
	framePicture     = "APIC"
)

// multiValueSeparator separates values in v2.4 text frames.
const multiValueSeparator = "\x00"

// Backend is an ID3v2 frame set.
type Backend struct {
	tag *id3v2.Tag
}

// NewBackend returns an empty ID3v2.4 tag.
func NewBackend() *Backend {
	t := id3v2.NewEmptyTag()
	t.SetVersion(4)
	t.SetDefaultEncoding(id3v2.EncodingUTF8)
	return &Backend{tag: t}
}

// Decode reads the ID3v2 tag at the start of r. A file without a tag yields
// an empty backend.
func Decode(r io.ReaderAt, size int64, path string) (*Backend, error) {
	t, err := id3v2.ParseReader(io.NewSectionReader(r, 0, size), id3v2.Options{Parse: true})
	if err != nil {
		return nil, &types.CorruptedFileError{
			Path:   path,
			Reason: fmt.Sprintf("invalid ID3v2 tag: %v", err),
		}
	}
	b := &Backend{tag: t}
	b.upgrade()
	return b, nil
}

// upgrade migrates a v2.3 tag to v2.4.
func (b *Backend) upgrade() {
	b.tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if b.tag.Version() == 4 {
		return
	}
	year := b.tag.GetTextFrame(frameYear).Text
	b.tag.DeleteFrames(frameYear)
	b.tag.SetVersion(4)
	if year != "" && b.tag.GetTextFrame(frameRecordTime).Text == "" {
		b.tag.AddTextFrame(frameRecordTime, id3v2.EncodingUTF8, year)
	}
}

// Tag returns the underlying bogem/id3v2 tag for scheme-specific frames.
func (b *Backend) Tag() *id3v2.Tag {
	return b.tag
}

// TagType implements tag.Backend.
func (b *Backend) TagType() types.TagType {
	return types.TagTypeID3v2
}

func textFrameID(f tag.Field) string {
	switch f {
	case tag.FieldTitle:
		return frameTitle
	case tag.FieldArtist:
		return frameArtist
	case tag.FieldYear:
		return frameRecordTime
	case tag.FieldAlbumTitle:
		return frameAlbum
	case tag.FieldAlbumArtist:
		return frameAlbumArtist
	case tag.FieldTrackNumber, tag.FieldTotalTracks:
		return frameTrack
	case tag.FieldDiscNumber, tag.FieldTotalDiscs:
		return frameDisc
	default:
		return ""
	}
}

// Text implements tag.Backend. Multi-valued frames are split on NUL.
func (b *Backend) Text(f tag.Field) []string {
	id := textFrameID(f)
	if id == "" {
		return nil
	}
	text := b.tag.GetTextFrame(id).Text
	var values []string
	for v := range strings.SplitSeq(text, multiValueSeparator) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// SetText implements tag.Backend.
func (b *Backend) SetText(f tag.Field, values []string) {
	b.setFrame(textFrameID(f), strings.Join(values, multiValueSeparator))
}

func (b *Backend) setFrame(id, text string) {
	if id == "" {
		return
	}
	b.tag.DeleteFrames(id)
	if text != "" {
		b.tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
	}
}

// Number implements tag.Backend. TRCK and TPOS hold "number/total".
func (b *Backend) Number(f tag.Field) (uint16, bool) {
	number, hasNumber, total, hasTotal := tag.ParsePosition(b.tag.GetTextFrame(textFrameID(f)).Text)
	if isTotal(f) {
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

func (b *Backend) updatePosition(f tag.Field, n uint16, present bool) {
	id := textFrameID(f)
	number, hasNumber, total, hasTotal := tag.ParsePosition(b.tag.GetTextFrame(id).Text)
	if isTotal(f) {
		total, hasTotal = n, present
	} else {
		number, hasNumber = n, present
	}
	b.setFrame(id, tag.FormatPosition(number, hasNumber, total, hasTotal))
}

func isTotal(f tag.Field) bool {
	return f == tag.FieldTotalTracks || f == tag.FieldTotalDiscs
}

// Cover implements tag.Backend. The front cover wins over other pictures.
func (b *Backend) Cover() (types.Picture, bool) {
	var found *id3v2.PictureFrame
	for _, f := range b.tag.GetFrames(framePicture) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if found == nil || pic.PictureType == id3v2.PTFrontCover && found.PictureType != id3v2.PTFrontCover {
			found = &pic
		}
	}
	if found == nil || len(found.Picture) == 0 {
		return types.Picture{}, false
	}

	mime := types.ParseMimeType(found.MimeType)
	if mime == types.MimeUnknown {
		mime = types.SniffMimeType(found.Picture)
	}
	return types.Picture{MimeType: mime, Data: found.Picture}, true
}

// SetCover implements tag.Backend. Other pictures are dropped.
func (b *Backend) SetCover(p types.Picture) {
	b.tag.DeleteFrames(framePicture)
	b.tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    p.MimeType.String(),
		PictureType: id3v2.PTFrontCover,
		Description: "Front cover",
		Picture:     p.Data,
	})
}

// RemoveCover implements tag.Backend.
func (b *Backend) RemoveCover() {
	b.tag.DeleteFrames(framePicture)
}

// Encode implements tag.Backend. Existing ID3v2 tags at the start of src are
// dropped and the new tag is written before the remaining bytes. An empty
// tag writes no header at all.
func (b *Backend) Encode(src io.ReadSeeker, dst io.WriteSeeker) error {
	start, err := binutil.SkipID3v2(src)
	if err != nil {
		return err
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return fmt.Errorf("seek past ID3v2 tag: %w", err)
	}

	if b.tag.HasFrames() {
		if _, err := b.tag.WriteTo(dst); err != nil {
			return fmt.Errorf("write ID3v2 tag: %w", err)
		}
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy audio: %w", err)
	}
	return nil
}
