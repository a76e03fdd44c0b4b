package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagType_Scheme(t *testing.T) {
	assert.Equal(t, SchemeID3v2, TagTypeID3v2.Scheme())
	assert.Equal(t, SchemeVorbisComment, TagTypeOgg.Scheme())
	assert.Equal(t, SchemeVorbisComment, TagTypeOpus.Scheme())
	assert.Equal(t, SchemeVorbisComment, TagTypeFLAC.Scheme())
	assert.Equal(t, SchemeMP4, TagTypeMP4.Scheme())
	assert.Zero(t, TagType(0).Scheme())
}

func TestTagType_FormatRoundTrip(t *testing.T) {
	for _, tt := range TagTypes {
		got, ok := TagTypeForFormat(tt.Format())
		assert.True(t, ok, tt.String())
		assert.Equal(t, tt, got)
	}
}

func TestTagTypeForFormat(t *testing.T) {
	tests := []struct {
		format Format
		want   TagType
		ok     bool
	}{
		{FormatAAC, TagTypeID3v2, true},
		{FormatSpeex, TagTypeOgg, true},
		{FormatWAV, 0, false},
		{FormatMusepack, 0, false},
		{FormatUnknown, 0, false},
	}

	for _, tt := range tests {
		got, ok := TagTypeForFormat(tt.format)
		assert.Equal(t, tt.ok, ok, tt.format.String())
		assert.Equal(t, tt.want, got, tt.format.String())
	}
}

func TestParseTagType(t *testing.T) {
	for _, tt := range TagTypes {
		got, ok := ParseTagType(tt.String())
		assert.True(t, ok)
		assert.Equal(t, tt, got)
	}

	got, ok := ParseTagType("id3")
	assert.True(t, ok)
	assert.Equal(t, TagTypeID3v2, got)

	_, ok = ParseTagType("ape")
	assert.False(t, ok)
}
