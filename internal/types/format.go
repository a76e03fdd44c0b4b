package types

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatMPEG represents MPEG audio (MP1, MP2, MP3).
	FormatMPEG
	// FormatAAC represents raw ADTS AAC streams.
	FormatAAC
	// FormatMP4 represents MP4/M4A/M4B files.
	FormatMP4
	// FormatFLAC represents native FLAC files.
	FormatFLAC
	// FormatOgg represents Ogg Vorbis files.
	FormatOgg
	// FormatOpus represents Ogg Opus files.
	FormatOpus
	// FormatSpeex represents Ogg Speex files.
	FormatSpeex
	// FormatWAV represents RIFF WAVE files.
	FormatWAV
	// FormatAIFF represents AIFF and AIFF-C files.
	FormatAIFF
	// FormatAPE represents Monkey's Audio files.
	FormatAPE
	// FormatWavPack represents WavPack files.
	FormatWavPack
	// FormatMusepack represents Musepack files (SV4 to SV8).
	FormatMusepack
)

var formatNames = [...]string{
	FormatUnknown:  "Unknown",
	FormatMPEG:     "MPEG",
	FormatAAC:      "AAC",
	FormatMP4:      "MP4",
	FormatFLAC:     "FLAC",
	FormatOgg:      "Ogg Vorbis",
	FormatOpus:     "Opus",
	FormatSpeex:    "Speex",
	FormatWAV:      "WAV",
	FormatAIFF:     "AIFF",
	FormatAPE:      "APE",
	FormatWavPack:  "WavPack",
	FormatMusepack: "Musepack",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "Unknown"
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMPEG:
		return []string{".mp3", ".mp2", ".mp1"}
	case FormatAAC:
		return []string{".aac"}
	case FormatMP4:
		return []string{".m4a", ".m4b", ".mp4", ".m4p", ".m4r"}
	case FormatFLAC:
		return []string{".flac"}
	case FormatOgg:
		return []string{".ogg", ".oga"}
	case FormatOpus:
		return []string{".opus"}
	case FormatSpeex:
		return []string{".spx"}
	case FormatWAV:
		return []string{".wav", ".wave"}
	case FormatAIFF:
		return []string{".aiff", ".aif", ".aifc", ".afc"}
	case FormatAPE:
		return []string{".ape"}
	case FormatWavPack:
		return []string{".wv"}
	case FormatMusepack:
		return []string{".mpc", ".mp+", ".mpp"}
	default:
		return nil
	}
}

// FormatFromExtension guesses the format from a path's extension.
func FormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return FormatUnknown
	}
	for f := FormatMPEG; f <= FormatMusepack; f++ {
		for _, e := range f.Extensions() {
			if e == ext {
				return f
			}
		}
	}
	return FormatUnknown
}

// DetectFormat determines the container format by examining magic bytes.
//
// A leading ID3v2 tag is skipped, since it may prefix MPEG, AAC, FLAC and
// APE streams alike. Musepack SV4 to SV6 streams carry no magic and are
// recognised by extension only.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	// File must be at least 4 bytes for any meaningful detection
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	if string(magic[:3]) == "ID3" {
		tagSize, err := binary.ID3v2Size(sr, 0)
		if err != nil {
			return FormatMPEG, nil
		}
		if f := detectAt(sr, tagSize, size); f != FormatUnknown {
			return f, nil
		}
		return FormatMPEG, nil
	}

	if f := detectAt(sr, 0, size); f != FormatUnknown {
		return f, nil
	}

	if f := FormatFromExtension(path); f == FormatMusepack {
		return f, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unsupported file format",
	}
}

// detectAt checks for a known signature at offset.
func detectAt(sr *binary.SafeReader, offset, size int64) Format { //nolint:gocyclo // Format detection requires checking multiple magic byte patterns
	if offset+4 > size {
		return FormatUnknown
	}
	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, offset, "magic bytes"); err != nil {
		return FormatUnknown
	}

	switch string(magic) {
	case "fLaC":
		return FormatFLAC
	case "OggS":
		return detectOggCodec(sr, offset, size)
	case "MAC ":
		return FormatAPE
	case "wvpk":
		return FormatWavPack
	case "MPCK":
		return FormatMusepack
	case "RIFF":
		if form := readForm(sr, offset, size); form == "WAVE" {
			return FormatWAV
		}
	case "FORM":
		if form := readForm(sr, offset, size); form == "AIFF" || form == "AIFC" {
			return FormatAIFF
		}
	}

	if string(magic[:3]) == "MP+" {
		return FormatMusepack
	}

	// Frame sync: 11 set bits. ADTS uses layer 0, MPEG audio layers 1-3.
	if magic[0] == 0xFF && magic[1]&0xE0 == 0xE0 {
		if magic[1]&0xF6 == 0xF0 {
			return FormatAAC
		}
		if magic[1]&0x06 != 0 {
			return FormatMPEG
		}
	}

	// MP4: ftyp box at offset 4
	if offset+12 <= size {
		boxType := make([]byte, 4)
		if err := sr.ReadAt(boxType, offset+4, "ftyp box type"); err == nil && string(boxType) == "ftyp" {
			return FormatMP4
		}
	}

	return FormatUnknown
}

// readForm returns the form type of a RIFF or IFF header.
func readForm(sr *binary.SafeReader, offset, size int64) string {
	if offset+12 > size {
		return ""
	}
	form := make([]byte, 4)
	if err := sr.ReadAt(form, offset+8, "form type"); err != nil {
		return ""
	}
	return string(form)
}

// detectOggCodec inspects the first packet of the first Ogg page.
func detectOggCodec(sr *binary.SafeReader, offset, size int64) Format {
	// Ogg page header: 27 bytes fixed + segment table (variable).
	segCount, err := binary.Read[uint8](sr, offset+26, "segment count")
	if err != nil {
		return FormatUnknown
	}
	packetOffset := offset + 27 + int64(segCount)
	n := min(size-packetOffset, 8)
	if n < 7 {
		return FormatUnknown
	}
	codecMagic := make([]byte, n)
	if err := sr.ReadAt(codecMagic, packetOffset, "codec magic"); err != nil {
		return FormatUnknown
	}

	switch {
	case string(codecMagic) == "OpusHead":
		return FormatOpus
	case string(codecMagic) == "Speex   ":
		return FormatSpeex
	case string(codecMagic[:7]) == "\x01vorbis":
		return FormatOgg
	default:
		return FormatUnknown
	}
}
