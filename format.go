package audiotag

import (
	"io"

	"github.com/simonhull/audiotag/internal/types"
)

// Format is a container format.
type Format = types.Format

const (
	FormatUnknown  = types.FormatUnknown
	FormatMPEG     = types.FormatMPEG
	FormatAAC      = types.FormatAAC
	FormatMP4      = types.FormatMP4
	FormatFLAC     = types.FormatFLAC
	FormatOgg      = types.FormatOgg
	FormatOpus     = types.FormatOpus
	FormatSpeex    = types.FormatSpeex
	FormatWAV      = types.FormatWAV
	FormatAIFF     = types.FormatAIFF
	FormatAPE      = types.FormatAPE
	FormatWavPack  = types.FormatWavPack
	FormatMusepack = types.FormatMusepack
)

// DetectFormat identifies the container from its magic bytes, skipping a
// leading ID3v2 tag. The path's extension is only consulted for Musepack
// SV4 to SV6 streams, which have no signature.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// FormatFromExtension guesses the format from a path's extension.
func FormatFromExtension(path string) Format {
	return types.FormatFromExtension(path)
}
