// Package registry maps container formats to their properties parsers.
package registry

import (
	"io"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/simonhull/audiotag/internal/types"
)

// PropertiesParser is the interface all format parsers implement.
type PropertiesParser interface {
	// Parse reads the audio properties of a file whose format has already
	// been detected. The logger is never nil.
	Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error)
}

// ParserFunc adapts a plain function to PropertiesParser.
type ParserFunc func(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error)

// Parse implements PropertiesParser.
func (f ParserFunc) Parse(r io.ReaderAt, size int64, path string, logger hclog.Logger) (types.Properties, error) {
	return f(r, size, path, logger)
}

// parsers maps formats to their parsers.
var parsers = make(map[types.Format]PropertiesParser)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser PropertiesParser) {
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) PropertiesParser {
	return parsers[format]
}

// Formats returns the registered formats in ascending order.
func Formats() []types.Format {
	formats := make([]types.Format, 0, len(parsers))
	for f := range parsers {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
