package audiotag

import (
	"github.com/simonhull/audiotag/internal/types"
)

// OutOfBoundsError is returned when a parser reads past the end of a file.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is returned for files that are not a supported
// container, or that carry no tag scheme.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is returned when a container's structure is invalid.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedWriteError is returned when a tag cannot be written into a
// file, such as an MP4 tag that would grow a fragmented file.
type UnsupportedWriteError = types.UnsupportedWriteError

// SchemeMismatchError is returned by ReadID3v2, ReadVorbis and ReadMP4 when
// the file carries another tag scheme.
type SchemeMismatchError = types.SchemeMismatchError
