package types

import (
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
)

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError = binary.OutOfBoundsError

// UnsupportedFormatError is returned when the container format is not recognised
// or has no tag scheme.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}

// SchemeMismatchError is returned when a tag of one scheme is requested from
// a file that carries another.
type SchemeMismatchError struct {
	Path string
	Want Scheme
	Got  Scheme
}

func (e *SchemeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s tag, file uses %s", e.Path, e.Want, e.Got)
}
