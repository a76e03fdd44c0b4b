package vorbis

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/go-flac"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// newPicture builds a front cover block. Dimensions are filled in for the
// formats flacpicture can decode.
func newPicture(p types.Picture) *flacpicture.MetadataBlockPicture {
	mime := p.MimeType.String()
	if p.MimeType == types.MimeJPEG || p.MimeType == types.MimePNG {
		if pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "", p.Data, mime); err == nil {
			return pic
		}
	}
	return &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureTypeFrontCover,
		MIME:        mime,
		ImageData:   p.Data,
	}
}

// toPicture converts a picture block, sniffing the MIME type when the
// block does not name a known one.
func toPicture(pic *flacpicture.MetadataBlockPicture) types.Picture {
	mime := types.ParseMimeType(pic.MIME)
	if mime == types.MimeUnknown {
		mime = types.SniffMimeType(pic.ImageData)
	}
	return types.Picture{MimeType: mime, Data: pic.ImageData}
}

// decodePictureComment decodes a METADATA_BLOCK_PICTURE value.
func decodePictureComment(value string) (*flacpicture.MetadataBlockPicture, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return parsePicture(data)
}

// parsePicture decodes a PICTURE block body after checking its length
// fields against the data, which flacpicture does not do.
func parsePicture(data []byte) (*flacpicture.MetadataBlockPicture, error) {
	size := int64(len(data))
	cr := binutil.NewChainReader(binutil.NewReader(binutil.NewSafeReader(bytes.NewReader(data), size, "picture block"), 0))
	cr.Skip(4) // picture type
	skipSized(cr, "MIME length")
	skipSized(cr, "description length")
	cr.Skip(16) // width, height, depth, palette size
	n := binutil.ReadChained[uint32](cr, "picture data length")
	if err := cr.Error(); err != nil {
		return nil, err
	}
	if int64(n) > size-cr.Offset() {
		return nil, fmt.Errorf("picture data of %d bytes declared in %d bytes", n, size-cr.Offset())
	}
	return flacpicture.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.Picture, Data: data})
}

// encodePictureComment renders a picture as a METADATA_BLOCK_PICTURE value.
func encodePictureComment(pic *flacpicture.MetadataBlockPicture) string {
	block := pic.Marshal()
	return base64.StdEncoding.EncodeToString(block.Data)
}
