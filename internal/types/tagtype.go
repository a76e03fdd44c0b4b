package types

import "strings"

// Scheme identifies an on-disk tag encoding. Two tags with the same Scheme
// share a concrete representation, so conversion between them is identity.
type Scheme int

const (
	SchemeID3v2 Scheme = iota + 1
	SchemeVorbisComment
	SchemeMP4
)

func (s Scheme) String() string {
	switch s {
	case SchemeID3v2:
		return "ID3v2"
	case SchemeVorbisComment:
		return "Vorbis Comment"
	case SchemeMP4:
		return "MP4"
	default:
		return "unknown"
	}
}

// TagType names a conversion target. Ogg, Opus and FLAC all carry Vorbis
// Comments; they differ only in the container they are written to.
type TagType int

const (
	TagTypeID3v2 TagType = iota + 1
	TagTypeOgg
	TagTypeOpus
	TagTypeFLAC
	TagTypeMP4
)

// TagTypes lists every supported target.
var TagTypes = []TagType{TagTypeID3v2, TagTypeOgg, TagTypeOpus, TagTypeFLAC, TagTypeMP4}

func (t TagType) String() string {
	switch t {
	case TagTypeID3v2:
		return "ID3v2"
	case TagTypeOgg:
		return "Ogg"
	case TagTypeOpus:
		return "Opus"
	case TagTypeFLAC:
		return "FLAC"
	case TagTypeMP4:
		return "MP4"
	default:
		return "unknown"
	}
}

// Scheme returns the tag encoding used by t.
func (t TagType) Scheme() Scheme {
	switch t {
	case TagTypeID3v2:
		return SchemeID3v2
	case TagTypeOgg, TagTypeOpus, TagTypeFLAC:
		return SchemeVorbisComment
	case TagTypeMP4:
		return SchemeMP4
	default:
		return 0
	}
}

// Format returns the container format a tag of type t is read from when
// content sniffing cannot tell.
func (t TagType) Format() Format {
	switch t {
	case TagTypeID3v2:
		return FormatMPEG
	case TagTypeOgg:
		return FormatOgg
	case TagTypeOpus:
		return FormatOpus
	case TagTypeFLAC:
		return FormatFLAC
	case TagTypeMP4:
		return FormatMP4
	default:
		return FormatUnknown
	}
}

// ParseTagType maps a case-insensitive name ("id3v2", "flac", ...) to a TagType.
func ParseTagType(s string) (TagType, bool) {
	for _, t := range TagTypes {
		if strings.EqualFold(t.String(), s) {
			return t, true
		}
	}
	if strings.EqualFold(s, "id3") || strings.EqualFold(s, "mp3") {
		return TagTypeID3v2, true
	}
	if strings.EqualFold(s, "vorbis") {
		return TagTypeOgg, true
	}
	if strings.EqualFold(s, "m4a") {
		return TagTypeMP4, true
	}
	return 0, false
}

// TagTypeForFormat returns the tag type natively carried by format f.
func TagTypeForFormat(f Format) (TagType, bool) {
	switch f {
	case FormatMPEG, FormatAAC:
		return TagTypeID3v2, true
	case FormatFLAC:
		return TagTypeFLAC, true
	case FormatOgg, FormatSpeex:
		return TagTypeOgg, true
	case FormatOpus:
		return TagTypeOpus, true
	case FormatMP4:
		return TagTypeMP4, true
	default:
		return 0, false
	}
}
