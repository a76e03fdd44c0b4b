package audiotag

import (
	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/types"
)

// Option configures how files are read.
//
// Example:
//
//	t, err := audiotag.ReadFromPath("track",
//	    audiotag.WithFormat(audiotag.FormatMusepack),
//	    audiotag.WithLogger(logger),
//	)
type Option func(*readOptions)

// readOptions holds configuration for reading files.
type readOptions struct {
	tagType types.TagType // Zero: pick from the format
	format  types.Format  // FormatUnknown: detect from content
	logger  hclog.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() *readOptions {
	return &readOptions{
		logger: hclog.NewNullLogger(),
	}
}

func applyOptions(opts []Option) *readOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTagType selects the tag scheme to read. When the content cannot be
// identified, the tag type's usual container format is assumed.
func WithTagType(tt TagType) Option {
	return func(o *readOptions) {
		o.tagType = tt
	}
}

// WithFormat skips content detection and parses the file as format f.
func WithFormat(f Format) Option {
	return func(o *readOptions) {
		o.format = f
	}
}

// WithLogger sets the logger parsers report non-fatal anomalies to.
// Nil is ignored.
func WithLogger(logger hclog.Logger) Option {
	return func(o *readOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
