package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// Picture is an embedded image, used for the album cover.
type Picture = types.Picture

// MimeType is the image format of a Picture.
type MimeType = types.MimeType

const (
	MimeUnknown = types.MimeUnknown
	MimePNG     = types.MimePNG
	MimeJPEG    = types.MimeJPEG
	MimeTIFF    = types.MimeTIFF
	MimeBMP     = types.MimeBMP
	MimeGIF     = types.MimeGIF
)

// NewPicture wraps image data, detecting its MIME type from the content.
func NewPicture(data []byte) Picture {
	return types.NewPicture(data)
}
