package tag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// WriteToPath writes the tag into the audio file at path.
//
// This is an atomic operation: the new file is written to a temporary file
// in the same directory first, then renamed over path. If any step fails,
// the original file remains unchanged.
func (t *Tag[B]) WriteToPath(path string, opts ...WriteOption) error { //nolint:gocyclo // Atomic file operations require sequential steps
	options := applyWriteOptions(opts)
	logger := options.logger.With("path", path, "scheme", t.Scheme().String())

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close() //nolint:errcheck // Read-only handle

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	var modTime time.Time
	if options.preserveModTime {
		modTime = info.ModTime()
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".audiotag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure cleanup on any error
	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := t.backend.Encode(src, tempFile); err != nil {
		return fmt.Errorf("encode %s tag: %w", t.TagType(), err)
	}

	// CreateTemp uses 0600; the rewritten file keeps the original's mode.
	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	_ = src.Close() //nolint:errcheck // Released before rename for platforms that lock open files

	if options.backupSuffix != "" {
		backupPath := path + options.backupSuffix
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
		logger.Debug("created backup", "backup", backupPath)
	}

	// Atomic rename temp -> output
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp to output: %w", err)
	}
	success = true

	if !modTime.IsZero() {
		_ = os.Chtimes(path, modTime, modTime) //nolint:errcheck // Non-fatal: file was written successfully
	}
	logger.Debug("wrote tag")

	if options.validate {
		if err := t.validate(path); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// WriteToFile writes the tag into the audio file open as f.
//
// The new content is rendered into a temporary file, then copied back over
// f, which must be open for reading and writing. f is not closed.
func (t *Tag[B]) WriteToFile(f *os.File, opts ...WriteOption) error {
	options := applyWriteOptions(opts)

	tempFile, err := os.CreateTemp("", ".audiotag-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tempFile.Close()           //nolint:errcheck // Best effort cleanup
		_ = os.Remove(tempFile.Name()) //nolint:errcheck // Best effort cleanup
	}()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek source: %w", err)
	}
	if err := t.backend.Encode(f, tempFile); err != nil {
		return fmt.Errorf("encode %s tag: %w", t.TagType(), err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind temp file: %w", err)
	}
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if _, err := io.Copy(f, tempFile); err != nil {
		return fmt.Errorf("copy back: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	options.logger.Debug("wrote tag", "path", f.Name(), "scheme", t.Scheme().String())

	if options.validate {
		if err := t.validate(f.Name()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// errNoDecoder is returned by validation for tags built without a decoder.
var errNoDecoder = errors.New("tag has no decoder")

// validate re-reads path and compares key fields.
func (t *Tag[B]) validate(path string) error {
	if t.decode == nil {
		return errNoDecoder
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	backend, err := t.decode(f, info.Size(), path)
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}

	written := New(backend, t.props, t.decode).ToAnyTag()
	want := t.ToAnyTag()
	if written.Title != want.Title {
		return fmt.Errorf("title mismatch: got %q, want %q", written.Title, want.Title)
	}
	if !slices.Equal(written.Artists, want.Artists) {
		return fmt.Errorf("artist mismatch: got %q, want %q", written.Artists, want.Artists)
	}
	if written.Album.Title != want.Album.Title {
		return fmt.Errorf("album mismatch: got %q, want %q", written.Album.Title, want.Album.Title)
	}
	return nil
}
