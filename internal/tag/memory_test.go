package tag

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// memBackend is an in-memory backend used to exercise Tag.
//
// Its on-disk form is one "KEY=value" line per field followed by a blank
// line, then the audio bytes.
type memBackend struct {
	text    map[Field][]string
	numbers map[Field]uint16
	cover   *types.Picture
	tagType types.TagType
}

func newMemBackend() *memBackend {
	return &memBackend{
		text:    make(map[Field][]string),
		numbers: make(map[Field]uint16),
		tagType: types.TagTypeFLAC,
	}
}

func (m *memBackend) TagType() types.TagType { return m.tagType }

func (m *memBackend) Text(f Field) []string { return m.text[f] }

func (m *memBackend) SetText(f Field, values []string) {
	if len(values) == 0 {
		delete(m.text, f)
		return
	}
	m.text[f] = values
}

func (m *memBackend) Number(f Field) (uint16, bool) {
	n, ok := m.numbers[f]
	return n, ok
}

func (m *memBackend) SetNumber(f Field, n uint16) { m.numbers[f] = n }

func (m *memBackend) RemoveNumber(f Field) { delete(m.numbers, f) }

func (m *memBackend) Cover() (types.Picture, bool) {
	if m.cover == nil {
		return types.Picture{}, false
	}
	return *m.cover, true
}

func (m *memBackend) SetCover(p types.Picture) { m.cover = &p }

func (m *memBackend) RemoveCover() { m.cover = nil }

func (m *memBackend) Encode(src io.ReadSeeker, dst io.WriteSeeker) error {
	audio, err := stripMemTag(src)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	buf.WriteString(memMagic)
	for f := FieldTitle; f <= FieldAlbumArtist; f++ {
		for _, v := range m.text[f] {
			buf.WriteString(strconv.Itoa(int(f)) + "=" + v + "\n")
		}
	}
	buf.WriteString("\n")
	buf.Write(audio)
	_, err = dst.Write(buf.Bytes())
	return err
}

const memMagic = "MEMTAG\n"

// stripMemTag returns the audio bytes following the tag header.
func stripMemTag(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte(memMagic)) {
		return data, nil
	}
	end := bytes.Index(data[len(memMagic)-1:], []byte("\n\n"))
	if end < 0 {
		return nil, errors.New("unterminated tag")
	}
	return data[len(memMagic)-1+end+2:], nil
}

func decodeMem(r io.ReaderAt, size int64, _ string) (*memBackend, error) {
	m := newMemBackend()
	sc := bufio.NewScanner(io.NewSectionReader(r, 0, size))
	if !sc.Scan() || sc.Text()+"\n" != memMagic {
		return m, nil
	}
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			return m, nil
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("malformed line %q", line)
		}
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, err
		}
		m.text[Field(n)] = append(m.text[Field(n)], value)
	}
	return m, sc.Err()
}
