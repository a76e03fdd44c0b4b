package audiotag

import (
	"strings"
	"testing"
)

func TestOutOfBoundsError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OutOfBoundsError
		contains []string
	}{
		{
			name: "offset beyond file size",
			err: &OutOfBoundsError{
				Path:   "test.ape",
				Offset: 1000,
				Length: 4,
				Size:   500,
				What:   "APE descriptor",
			},
			contains: []string{"test.ape", "offset 1000 out of bounds", "file size: 500", "APE descriptor"},
		},
		{
			name: "read would exceed file size",
			err: &OutOfBoundsError{
				Path:   "audio.wv",
				Offset: 100,
				Length: 50,
				Size:   120,
				What:   "block header",
			},
			contains: []string{"audio.wv", "read of 50 bytes", "offset 100", "exceed file size 120", "block header"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(msg, substr) {
					t.Errorf("error message %q should contain %q", msg, substr)
				}
			}
		})
	}
}

func TestUnsupportedFormatError_Error(t *testing.T) {
	err := &UnsupportedFormatError{
		Path:   "test.wav",
		Reason: "WAV files carry no supported tag scheme",
	}

	msg := err.Error()
	for _, want := range []string{"test.wav", "unsupported format", "no supported tag scheme"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should contain %q", msg, want)
		}
	}
}

func TestCorruptedFileError_Error(t *testing.T) {
	err := &CorruptedFileError{
		Path:   "broken.mpc",
		Offset: 256,
		Reason: "invalid packet size",
	}

	msg := err.Error()
	for _, want := range []string{"broken.mpc", "offset 256", "invalid packet size", "corrupted file"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should contain %q", msg, want)
		}
	}
}

func TestUnsupportedWriteError_Error(t *testing.T) {
	err := &UnsupportedWriteError{Format: FormatMP4, Reason: "fragmented MP4 files cannot grow"}
	if msg := err.Error(); !strings.Contains(msg, "fragmented") {
		t.Errorf("error %q should contain the reason", msg)
	}

	bare := &UnsupportedWriteError{Format: FormatOgg}
	if msg := bare.Error(); !strings.HasPrefix(msg, "write not supported for ") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestSchemeMismatchError_Error(t *testing.T) {
	err := &SchemeMismatchError{Path: "song.flac", Want: SchemeID3v2, Got: SchemeVorbisComment}

	msg := err.Error()
	for _, want := range []string{"song.flac", "ID3v2", "Vorbis Comment"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should contain %q", msg, want)
		}
	}
}
