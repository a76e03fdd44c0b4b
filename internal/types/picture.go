package types

import (
	"fmt"
	"strings"

	"github.com/h2non/filetype"
)

// MimeType identifies the image encoding of an embedded picture.
type MimeType int

const (
	MimeUnknown MimeType = iota
	MimePNG
	MimeJPEG
	MimeTIFF
	MimeBMP
	MimeGIF
)

var mimeStrings = [...]string{
	MimeUnknown: "application/octet-stream",
	MimePNG:     "image/png",
	MimeJPEG:    "image/jpeg",
	MimeTIFF:    "image/tiff",
	MimeBMP:     "image/bmp",
	MimeGIF:     "image/gif",
}

// String returns the MIME string, e.g. "image/jpeg".
func (m MimeType) String() string {
	if m >= 0 && int(m) < len(mimeStrings) {
		return mimeStrings[m]
	}
	return mimeStrings[MimeUnknown]
}

// Short returns a short display name such as "JPEG".
func (m MimeType) Short() string {
	switch m {
	case MimePNG:
		return "PNG"
	case MimeJPEG:
		return "JPEG"
	case MimeTIFF:
		return "TIFF"
	case MimeBMP:
		return "BMP"
	case MimeGIF:
		return "GIF"
	default:
		return "Image"
	}
}

// ParseMimeType maps a MIME string to a MimeType. Matching is case-insensitive
// and accepts the legacy ID3v2.2 "JPG"/"PNG" forms.
func ParseMimeType(s string) MimeType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image/png", "png":
		return MimePNG
	case "image/jpeg", "image/jpg", "jpg", "jpeg":
		return MimeJPEG
	case "image/tiff", "tiff":
		return MimeTIFF
	case "image/bmp", "image/x-ms-bmp", "bmp":
		return MimeBMP
	case "image/gif", "gif":
		return MimeGIF
	default:
		return MimeUnknown
	}
}

// PictureType categorizes the purpose of an embedded picture.
//
// Codes are shared by ID3v2 APIC frames and FLAC PICTURE blocks.
// See: https://id3.org/id3v2.4.0-frames (APIC frame)
type PictureType uint8

const (
	PictureOther PictureType = iota
	PictureIcon
	PictureOtherIcon
	PictureFrontCover
	PictureBackCover
	PictureLeaflet
	PictureMedia
	PictureLeadArtist
	PictureArtist
	PictureConductor
	PictureBand
	PictureComposer
	PictureLyricist
	PictureRecordingLocation
	PictureDuringRecording
	PictureDuringPerformance
	PictureVideoCapture
	PictureBrightFish
	PictureIllustration
	PictureBandLogotype
	PicturePublisherLogotype
)

// Picture is an embedded image: its encoding and raw bytes.
type Picture struct {
	Data     []byte
	MimeType MimeType
}

// NewPicture builds a Picture, sniffing the MIME type from the image bytes.
func NewPicture(data []byte) Picture {
	return Picture{MimeType: SniffMimeType(data), Data: data}
}

// SniffMimeType detects the image encoding from its leading bytes.
func SniffMimeType(data []byte) MimeType {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return MimeUnknown
	}
	return ParseMimeType(kind.MIME.Value)
}

// IsEmpty reports whether the picture carries no image data.
func (p Picture) IsEmpty() bool {
	return len(p.Data) == 0
}

// String returns a short description, e.g. "JPEG, 245KB".
func (p Picture) String() string {
	return fmt.Sprintf("%s, %s", p.MimeType.Short(), formatSize(len(p.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
