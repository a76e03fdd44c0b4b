package tag

import "github.com/hashicorp/go-hclog"

// WriteOption configures behavior when writing tags to disk.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	err := t.WriteToPath("song.flac",
//	    audiotag.WithBackup(".bak"),
//	    audiotag.WithValidation(),
//	)
type WriteOption func(*writeOptions)

// writeOptions holds configuration for writing files.
type writeOptions struct {
	logger          hclog.Logger
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
}

// defaultWriteOptions returns the default configuration for writing.
func defaultWriteOptions() *writeOptions {
	return &writeOptions{
		logger: hclog.NewNullLogger(),
	}
}

func applyWriteOptions(opts []WriteOption) *writeOptions {
	o := defaultWriteOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBackup keeps the original file next to the new one.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "song.mp3.bak"
// before modifying "song.mp3". An existing backup is overwritten.
// Only WriteToPath honours this option.
func WithBackup(suffix string) WriteOption {
	return func(o *writeOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing and checks that the
// title, artists and album title read back unchanged.
func WithValidation() WriteOption {
	return func(o *writeOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// Use this when updating metadata should not change the "modified" date.
func WithPreserveModTime() WriteOption {
	return func(o *writeOptions) {
		o.preserveModTime = true
	}
}

// WithWriteLogger sets the logger used while writing. Nil is ignored.
func WithWriteLogger(logger hclog.Logger) WriteOption {
	return func(o *writeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
