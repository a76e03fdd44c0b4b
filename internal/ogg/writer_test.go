package ogg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/audiotag/internal/ogg/oggtest"
	"github.com/simonhull/audiotag/internal/types"
)

func rewrite(t *testing.T, src, comment []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, WriteCommentPacket(bytes.NewReader(src), int64(len(src)), "in.ogg", &out, comment))
	return out.Bytes()
}

// checkPages verifies every page checksum and that sequence numbers of the
// stream are contiguous.
func checkPages(t *testing.T, data []byte) []*Page {
	t.Helper()
	sr := newSafeReader(data)
	var pages []*Page
	for offset := int64(0); offset < int64(len(data)); {
		page, next, err := readPage(sr, offset)
		require.NoError(t, err)

		raw := bytes.Clone(data[offset:next])
		stored := binary.LittleEndian.Uint32(raw[22:26])
		clear(raw[22:26])
		assert.Equal(t, checksum(raw), stored, "page %d checksum", page.SequenceNumber)

		if len(pages) > 0 {
			assert.Equal(t, pages[len(pages)-1].SequenceNumber+1, page.SequenceNumber)
		}
		pages = append(pages, page)
		offset = next
	}
	return pages
}

func TestWriteCommentPacket_Vorbis(t *testing.T) {
	src := createMinimalOgg("TITLE=Old")
	comment := oggtest.Comments("audiotag", "TITLE=New", "ARTIST=Someone")

	out := rewrite(t, src, comment)
	pages := checkPages(t, out)
	assert.NotZero(t, pages[0].HeaderType&flagBOS)
	assert.Equal(t, uint64(441000), pages[len(pages)-1].GranulePosition)

	packet, err := ReadCommentPacket(bytes.NewReader(out), int64(len(out)), "out.ogg")
	require.NoError(t, err)
	assert.Equal(t, CodecVorbis, packet.Codec)
	assert.Equal(t, append(bytes.Clone(comment), 0x01), packet.Data)

	vorbis := parse(t, out).(types.VorbisProperties)
	assert.Equal(t, 10*time.Second, vorbis.Duration)
}

func TestWriteCommentPacket_KeepsSetupHeader(t *testing.T) {
	src := createMinimalOgg()
	out := rewrite(t, src, oggtest.Comments("v", "TITLE=x"))

	packets, _, _, err := readHeaderPackets(newSafeReader(out), 3)
	require.NoError(t, err)
	assert.Equal(t, oggtest.VorbisIdent(2, 44100, 128000), packets[0])
	assert.Equal(t, oggtest.VorbisSetup(), packets[2])
}

func TestWriteCommentPacket_LargeCommentRenumbers(t *testing.T) {
	src := createMinimalOgg()
	big := "METADATA_BLOCK_PICTURE=" + string(bytes.Repeat([]byte("A"), 100000))
	comment := oggtest.Comments("audiotag", big)

	out := rewrite(t, src, comment)
	pages := checkPages(t, out)
	// Identification page, two comment pages, then audio shifted by one.
	require.Len(t, pages, 4)
	assert.NotZero(t, pages[2].HeaderType&flagContinued)
	assert.Equal(t, uint64(441000), pages[3].GranulePosition)

	packet, err := ReadCommentPacket(bytes.NewReader(out), int64(len(out)), "out.ogg")
	require.NoError(t, err)
	assert.Len(t, packet.Data, len(comment)+1)

	vorbis := parse(t, out).(types.VorbisProperties)
	assert.Equal(t, 10*time.Second, vorbis.Duration)
}

func TestWriteCommentPacket_Opus(t *testing.T) {
	src, _ := createMinimalOpus(312, 2, 0, 5)
	comment := oggtest.Comments("libopus", "TITLE=Replaced")

	out := rewrite(t, src, comment)
	checkPages(t, out)

	packet, err := ReadCommentPacket(bytes.NewReader(out), int64(len(out)), "out.opus")
	require.NoError(t, err)
	assert.Equal(t, comment, packet.Data)

	opus := parse(t, out).(types.OpusProperties)
	assert.Equal(t, 5*time.Second, opus.Duration)
}

func TestWriteCommentPacket_AudioSharingHeaderPage(t *testing.T) {
	src := oggtest.NewStream(serial).
		Packets(flagBOS, 0, oggtest.OpusHead(2, 0, 48000, 0)).
		Packets(flagsNone, 960, oggtest.OpusTags("v"), []byte{0xFC, 0xFF, 0xFE}).
		Bytes()

	var out bytes.Buffer
	err := WriteCommentPacket(bytes.NewReader(src), int64(len(src)), "in.opus", &out, oggtest.Comments("v"))
	var unsupported *types.UnsupportedWriteError
	require.True(t, errors.As(err, &unsupported), "got %v", err)
}

func TestPaginate(t *testing.T) {
	packets := [][]byte{
		[]byte("ident"),
		bytes.Repeat([]byte{1}, 255*255+10),
		[]byte("setup"),
	}
	pages := paginate(packets, 7, 0)
	require.Len(t, pages, 3)

	assert.Equal(t, byte(flagBOS), pages[0].HeaderType)
	assert.Equal(t, uint64(0), pages[0].GranulePosition)

	// The comment fills the second page without ending on it.
	assert.Len(t, pages[1].Segments, maxSegments)
	assert.Equal(t, noGranule, pages[1].GranulePosition)

	assert.Equal(t, byte(flagContinued), pages[2].HeaderType)
	assert.Equal(t, []byte{10, 5}, pages[2].Segments)
	assert.Equal(t, uint64(0), pages[2].GranulePosition)

	for i, p := range pages {
		assert.Equal(t, uint32(i), p.SequenceNumber)
		assert.Equal(t, uint32(7), p.SerialNumber)
	}
}
