package audiotag

import (
	"fmt"

	"github.com/simonhull/audiotag/internal/id3"
	"github.com/simonhull/audiotag/internal/mp4"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// NewID3v2 returns an empty ID3v2.4 tag.
func NewID3v2() *ID3v2Tag {
	return tag.New(id3.NewBackend(), FileProperties{}, id3.Decode)
}

// NewVorbis returns an empty Vorbis Comment tag. tt must be TagTypeFLAC,
// TagTypeOgg or TagTypeOpus; other values panic.
func NewVorbis(tt TagType) *VorbisTag {
	if tt.Scheme() != SchemeVorbisComment {
		panic(fmt.Sprintf("audiotag: %s is not a Vorbis Comment tag type", tt))
	}
	return tag.New(vorbis.NewBackend(tt), FileProperties{}, vorbis.Decode)
}

// NewMP4 returns an empty MP4 tag.
func NewMP4() *MP4Tag {
	return tag.New(mp4.NewBackend(), FileProperties{}, mp4.Decode)
}

// New returns an empty tag of type tt. It panics on a value that is not
// one of the TagType constants.
func New(tt TagType) AudioTag {
	switch tt.Scheme() {
	case SchemeID3v2:
		return NewID3v2()
	case SchemeVorbisComment:
		return NewVorbis(tt)
	case SchemeMP4:
		return NewMP4()
	default:
		panic(fmt.Sprintf("audiotag: unknown tag type %d", tt))
	}
}

// propertiesSetter is implemented by every concrete tag.
type propertiesSetter interface {
	SetProperties(types.FileProperties)
}

// Convert returns src as a tag of type target.
//
// When src already uses target's scheme, src itself is returned: nothing is
// copied and the caller keeps working with the same value. Otherwise a new
// tag is filled from src.ToAnyTag(). Artists keep their order, and fields
// AnyTag has no room for, such as ID3v2 private frames, are dropped. The
// new tag reports the properties of src. Convert never fails.
func Convert(src AudioTag, target TagType) AudioTag {
	if src.Scheme() == target.Scheme() {
		return src
	}
	dst := New(target)
	tag.Copy(dst, src.ToAnyTag())
	if s, ok := dst.(propertiesSetter); ok {
		s.SetProperties(src.Properties())
	}
	return dst
}

// ToID3v2 converts src to an ID3v2 tag. An ID3v2 source is returned as is.
func ToID3v2(src AudioTag) *ID3v2Tag {
	if t, ok := src.Any().(*ID3v2Tag); ok {
		return t
	}
	return Convert(src, TagTypeID3v2).(*ID3v2Tag)
}

// ToVorbis converts src to a Vorbis Comment tag of type tt. A Vorbis
// Comment source is returned as is, keeping its own tag type.
func ToVorbis(src AudioTag, tt TagType) *VorbisTag {
	if t, ok := src.Any().(*VorbisTag); ok {
		return t
	}
	if tt.Scheme() != SchemeVorbisComment {
		panic(fmt.Sprintf("audiotag: %s is not a Vorbis Comment tag type", tt))
	}
	return Convert(src, tt).(*VorbisTag)
}

// ToMP4 converts src to an MP4 tag. An MP4 source is returned as is.
func ToMP4(src AudioTag) *MP4Tag {
	if t, ok := src.Any().(*MP4Tag); ok {
		return t
	}
	return Convert(src, TagTypeMP4).(*MP4Tag)
}
