// Package vorbis implements the Vorbis Comment tag backend shared by FLAC,
// Ogg Vorbis, Opus and Speex.
//
// Comments are "KEY=VALUE" strings held in a flacvorbis comment block.
// Field names are case-insensitive; they are written in upper case.
package vorbis

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-flac/go-flac"
	"github.com/go-flac/flacvorbis"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/tag"
)

// Field names. Reading also accepts the aliases in fieldAliases.
const (
	keyTitle       = flacvorbis.FIELD_TITLE
	keyArtist      = flacvorbis.FIELD_ARTIST
	keyDate        = flacvorbis.FIELD_DATE
	keyAlbum       = flacvorbis.FIELD_ALBUM
	keyAlbumArtist = "ALBUMARTIST"
	keyTrackNumber = flacvorbis.FIELD_TRACKNUMBER
	keyTrackTotal  = "TRACKTOTAL"
	keyDiscNumber  = "DISCNUMBER"
	keyDiscTotal   = "DISCTOTAL"

	// keyPicture holds a base64 FLAC picture block in Ogg streams.
	keyPicture = "METADATA_BLOCK_PICTURE"
)

// fieldKeys maps a field to the key it is written under, followed by keys
// other taggers use for the same field.
var fieldKeys = map[tag.Field][]string{
	tag.FieldTitle:       {keyTitle},
	tag.FieldArtist:      {keyArtist},
	tag.FieldYear:        {keyDate, "YEAR"},
	tag.FieldAlbumTitle:  {keyAlbum},
	tag.FieldAlbumArtist: {keyAlbumArtist, "ALBUM ARTIST", "ALBUM_ARTIST"},
	tag.FieldTrackNumber: {keyTrackNumber},
	tag.FieldTotalTracks: {keyTrackTotal, "TOTALTRACKS"},
	tag.FieldDiscNumber:  {keyDiscNumber},
	tag.FieldTotalDiscs:  {keyDiscTotal, "TOTALDISCS"},
}

// splitComment splits "KEY=VALUE". Comments without '=' are malformed and
// reported as not ok.
func splitComment(comment string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(comment, "=")
	if !ok || key == "" {
		return "", "", false
	}
	return key, value, true
}

func matchesAny(key string, keys []string) bool {
	for _, k := range keys {
		if strings.EqualFold(key, k) {
			return true
		}
	}
	return false
}

// get returns the non-empty values stored under any of keys, in order.
func get(c *flacvorbis.MetaDataBlockVorbisComment, keys ...string) []string {
	var values []string
	for _, comment := range c.Comments {
		key, value, ok := splitComment(comment)
		if !ok || !matchesAny(key, keys) {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

// remove deletes every comment stored under any of keys.
func remove(c *flacvorbis.MetaDataBlockVorbisComment, keys ...string) {
	kept := c.Comments[:0]
	for _, comment := range c.Comments {
		if key, _, ok := splitComment(comment); ok && matchesAny(key, keys) {
			continue
		}
		kept = append(kept, comment)
	}
	c.Comments = kept
}

// set replaces the comments stored under keys with values under keys[0].
func set(c *flacvorbis.MetaDataBlockVorbisComment, values []string, keys ...string) {
	remove(c, keys...)
	for _, v := range values {
		if v != "" {
			c.Comments = append(c.Comments, keys[0]+"="+v)
		}
	}
}

// parseComments decodes a comment block: vendor string, comment count,
// then length-prefixed comments, all little-endian.
func parseComments(data []byte) (*flacvorbis.MetaDataBlockVorbisComment, error) {
	if err := checkLengths(data); err != nil {
		return nil, err
	}
	return flacvorbis.ParseFromMetaDataBlock(flac.MetaDataBlock{Type: flac.VorbisComment, Data: data})
}

// checkLengths walks the length fields of a comment block. flacvorbis
// allocates whatever the header declares, so counts and lengths that
// cannot fit in data are rejected first.
func checkLengths(data []byte) error {
	size := int64(len(data))
	cr := binutil.NewChainReader(binutil.NewLEReader(binutil.NewSafeReader(bytes.NewReader(data), size, "comment block"), 0))

	skipSized(cr, "vendor length")
	count := binutil.ReadChained[uint32](cr, "comment count")
	if err := cr.Error(); err != nil {
		return err
	}
	// Every comment has at least its 4-byte length.
	if int64(count) > (size-cr.Offset())/4 {
		return fmt.Errorf("%d comments declared in %d bytes", count, size)
	}

	for range count {
		skipSized(cr, "comment length")
	}
	if err := cr.Error(); err != nil {
		return err
	}
	if cr.Offset() > size {
		return fmt.Errorf("comment runs %d bytes past the block", cr.Offset()-size)
	}
	return nil
}

// skipSized reads a 32-bit length and skips that many bytes.
func skipSized(cr *binutil.ChainReader, what string) {
	cr.Skip(int64(binutil.ReadChained[uint32](cr, what)))
}
