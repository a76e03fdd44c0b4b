package audiotag

import (
	"slices"

	"github.com/simonhull/audiotag/internal/id3"
	"github.com/simonhull/audiotag/internal/mp4"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// AudioTagEdit reads and changes the common tag fields. Getters report
// presence with a bool and every Remove method is idempotent.
type AudioTagEdit = tag.AudioTagEdit

// AudioTagWrite persists a tag into an audio file.
type AudioTagWrite = tag.AudioTagWrite

// ToAnyTag projects a tag onto AnyTag and names its scheme.
type ToAnyTag = tag.ToAnyTag

// ToAny recovers the concrete tag type.
type ToAny = tag.ToAny

// AudioTag is implemented by every concrete tag type.
type AudioTag = tag.AudioTag

// ID3v2Tag is an ID3v2.4 tag, as found at the start of MPEG and AAC files.
type ID3v2Tag = tag.Tag[*id3.Backend]

// VorbisTag is a Vorbis Comment list, used by FLAC, Ogg Vorbis, Opus and
// Speex files.
type VorbisTag = tag.Tag[*vorbis.Backend]

// MP4Tag is an iTunes-style MP4 item list.
type MP4Tag = tag.Tag[*mp4.Backend]

// AnyTag is the scheme-independent field set used for conversion.
type AnyTag = types.AnyTag

// Album groups the album title, artists and cover.
type Album = types.Album

// Position is a track or disc number with its total.
type Position = types.Position

// Scheme identifies an on-disk tag encoding.
type Scheme = types.Scheme

const (
	SchemeID3v2         = types.SchemeID3v2
	SchemeVorbisComment = types.SchemeVorbisComment
	SchemeMP4           = types.SchemeMP4
)

// TagType names a conversion target. TagTypeOgg, TagTypeOpus and
// TagTypeFLAC share the Vorbis Comment scheme.
type TagType = types.TagType

const (
	TagTypeID3v2 = types.TagTypeID3v2
	TagTypeOgg   = types.TagTypeOgg
	TagTypeOpus  = types.TagTypeOpus
	TagTypeFLAC  = types.TagTypeFLAC
	TagTypeMP4   = types.TagTypeMP4
)

// TagTypes returns every tag type, in declaration order.
func TagTypes() []TagType {
	return slices.Clone(types.TagTypes)
}

// ParseTagType maps a case-insensitive name such as "id3v2" or "flac" to a
// TagType.
func ParseTagType(s string) (TagType, bool) {
	return types.ParseTagType(s)
}
