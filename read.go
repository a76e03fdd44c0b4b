package audiotag

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiotag/internal/id3"
	"github.com/simonhull/audiotag/internal/mp4"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/tag"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// source is an audio file open for reading.
type source struct {
	f    *os.File
	size int64
	path string
}

func openSource(path string) (*source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return &source{f: f, size: stat.Size(), path: path}, nil
}

func (s *source) Close() error {
	return s.f.Close()
}

// format returns the forced format, the detected one, or the tag type
// hint's usual container when detection fails.
func (s *source) format(o *readOptions) (Format, error) {
	if o.format != FormatUnknown {
		return o.format, nil
	}
	f, err := types.DetectFormat(s.f, s.size, s.path)
	if err == nil {
		return f, nil
	}
	if o.tagType != 0 {
		o.logger.Debug("format not detected, using tag type hint", "path", s.path, "tag_type", o.tagType.String())
		return o.tagType.Format(), nil
	}
	return FormatUnknown, err
}

// properties runs the parser registered for format.
func (s *source) properties(format Format, logger hclog.Logger) (Properties, error) {
	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   s.path,
			Reason: fmt.Sprintf("no parser available for format %s", format),
		}
	}
	props, err := parser.Parse(s.f, s.size, s.path, logger)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	return props, nil
}

// tagTypeFor picks the tag type for a file of the given format. A hint may
// only name the scheme the format carries; within a scheme the container
// decides, so a Vorbis Comment hint on a FLAC file yields TagTypeFLAC.
func tagTypeFor(path string, format Format, hint TagType) (TagType, error) {
	native, ok := types.TagTypeForFormat(format)
	switch {
	case !ok && hint == 0:
		return 0, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("%s files carry no supported tag scheme", format),
		}
	case !ok:
		return 0, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("%s tags cannot be stored in %s files", hint, format),
		}
	case hint != 0 && hint.Scheme() != native.Scheme():
		return 0, &SchemeMismatchError{Path: path, Want: hint.Scheme(), Got: native.Scheme()}
	default:
		return native, nil
	}
}

// decode reads the backend with dec and wraps it with the properties.
func decode[B tag.Backend](s *source, props FileProperties, dec tag.Decoder[B]) (*tag.Tag[B], error) {
	b, err := dec(s.f, s.size, s.path)
	if err != nil {
		return nil, fmt.Errorf("read tag: %w", err)
	}
	return tag.New(b, props, dec), nil
}

// read opens path and reads its properties and the tag of the resolved
// type, decoded by readTag.
func read[T any](path string, o *readOptions, readTag func(*source, TagType, FileProperties) (T, error)) (T, error) {
	var zero T
	s, err := openSource(path)
	if err != nil {
		return zero, err
	}
	defer s.Close() //nolint:errcheck // Read-only handle

	format, err := s.format(o)
	if err != nil {
		return zero, err
	}
	tt, err := tagTypeFor(path, format, o.tagType)
	if err != nil {
		return zero, err
	}
	props, err := s.properties(format, o.logger)
	if err != nil {
		return zero, err
	}
	return readTag(s, tt, props.FileProperties())
}

// ReadFromPath reads the tag and audio properties of the file at path.
//
// The tag scheme follows the detected container. WithTagType and
// WithFormat resolve files that cannot be identified from their content.
// A file whose container carries no tag scheme, such as WAV, returns
// UnsupportedFormatError; use ReadProperties for those.
//
// Example:
//
//	t, err := audiotag.ReadFromPath("song.m4a")
//	if err != nil {
//		return err
//	}
//	artists, _ := t.Artists()
func ReadFromPath(path string, opts ...Option) (AudioTag, error) {
	return read(path, applyOptions(opts), func(s *source, tt TagType, props FileProperties) (AudioTag, error) {
		var (
			t   AudioTag
			err error
		)
		switch tt.Scheme() {
		case SchemeID3v2:
			t, err = asAudioTag(decode[*id3.Backend](s, props, id3.Decode))
		case SchemeVorbisComment:
			t, err = asAudioTag(decode[*vorbis.Backend](s, props, vorbis.Decode))
		case SchemeMP4:
			t, err = asAudioTag(decode[*mp4.Backend](s, props, mp4.Decode))
		default:
			err = &UnsupportedFormatError{Path: s.path, Reason: fmt.Sprintf("unknown tag type %d", tt)}
		}
		return t, err
	})
}

// asAudioTag keeps a nil *Tag from becoming a non-nil interface.
func asAudioTag[B tag.Backend](t *tag.Tag[B], err error) (AudioTag, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}

// readScheme reads a tag of one scheme, failing with SchemeMismatchError
// when the file carries another.
func readScheme[B tag.Backend](path string, want TagType, dec tag.Decoder[B], opts []Option) (*tag.Tag[B], error) {
	o := applyOptions(opts)
	if o.tagType == 0 || o.tagType.Scheme() != want.Scheme() {
		o.tagType = want
	}
	return read(path, o, func(s *source, _ TagType, props FileProperties) (*tag.Tag[B], error) {
		return decode[B](s, props, dec)
	})
}

// ReadID3v2 reads the ID3v2 tag of an MPEG or AAC file.
func ReadID3v2(path string, opts ...Option) (*ID3v2Tag, error) {
	return readScheme[*id3.Backend](path, TagTypeID3v2, id3.Decode, opts)
}

// ReadVorbis reads the Vorbis Comments of a FLAC, Ogg Vorbis, Opus or
// Speex file.
func ReadVorbis(path string, opts ...Option) (*VorbisTag, error) {
	return readScheme[*vorbis.Backend](path, TagTypeFLAC, vorbis.Decode, opts)
}

// ReadMP4 reads the item list of an MP4 file.
func ReadMP4(path string, opts ...Option) (*MP4Tag, error) {
	return readScheme[*mp4.Backend](path, TagTypeMP4, mp4.Decode, opts)
}

// ReadProperties reads the audio properties of the file at path. Unlike
// ReadFromPath it works for every supported container, tagged or not.
func ReadProperties(path string, opts ...Option) (Properties, error) {
	o := applyOptions(opts)
	s, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer s.Close() //nolint:errcheck // Read-only handle

	format, err := s.format(o)
	if err != nil {
		return nil, err
	}
	return s.properties(format, o.logger)
}

// ReadMany reads several files concurrently with ReadFromPath.
//
// At most runtime.NumCPU() files are read at once. Results are in the
// order of paths. The first failure, or cancellation of ctx, stops the
// remaining reads and is returned with a nil slice.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	tags, err := audiotag.ReadMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
func ReadMany(ctx context.Context, paths []string, opts ...Option) ([]AudioTag, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]AudioTag, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := ReadFromPath(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
