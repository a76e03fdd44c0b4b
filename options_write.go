package audiotag

import (
	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/tag"
)

// WriteOption configures WriteToPath and WriteToFile.
//
// Example:
//
//	err := t.WriteToPath("song.mp3",
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
type WriteOption = tag.WriteOption

// WithBackup keeps the original file as path+suffix. An existing backup is
// overwritten. Only WriteToPath honours this option.
func WithBackup(suffix string) WriteOption {
	return tag.WithBackup(suffix)
}

// WithValidation re-reads the file after writing and checks the title,
// artists and album title.
func WithValidation() WriteOption {
	return tag.WithValidation()
}

// WithPreserveModTime keeps the original file modification time.
func WithPreserveModTime() WriteOption {
	return tag.WithPreserveModTime()
}

// WithWriteLogger sets the logger used while writing.
func WithWriteLogger(logger hclog.Logger) WriteOption {
	return tag.WithWriteLogger(logger)
}
