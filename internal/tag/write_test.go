package tag

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAudio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.flac")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTag_WriteToPath(t *testing.T) {
	path := writeAudio(t, "AUDIO")

	tag := newMemTag()
	tag.SetTitle("Song")
	tag.AddArtist("A")
	require.NoError(t, tag.WriteToPath(path, WithValidation()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MEMTAG\n0=Song\n1=A\n\nAUDIO", string(data))

	// Writing again replaces the tag instead of stacking a second one.
	tag.SetTitle("Other")
	require.NoError(t, tag.WriteToPath(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MEMTAG\n0=Other\n1=A\n\nAUDIO", string(data))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".audiotag-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must be cleaned up")
}

func TestTag_WriteToPath_Idempotent(t *testing.T) {
	path := writeAudio(t, "AUDIO")
	tag := newMemTag()
	tag.SetTitle("Song")

	require.NoError(t, tag.WriteToPath(path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, tag.WriteToPath(path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTag_WriteToPath_Backup(t *testing.T) {
	path := writeAudio(t, "AUDIO")
	tag := newMemTag()
	tag.SetTitle("Song")

	require.NoError(t, tag.WriteToPath(path, WithBackup(".bak")))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "AUDIO", string(backup))
}

func TestTag_WriteToPath_PreserveModTime(t *testing.T) {
	path := writeAudio(t, "AUDIO")
	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, old, old))

	tag := newMemTag()
	tag.SetTitle("Song")
	require.NoError(t, tag.WriteToPath(path, WithPreserveModTime(), WithWriteLogger(hclog.NewNullLogger())))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "got %v", info.ModTime())
}

func TestTag_WriteToPath_KeepsMode(t *testing.T) {
	for _, mode := range []os.FileMode{0o644, 0o640, 0o755} {
		t.Run(mode.String(), func(t *testing.T) {
			path := writeAudio(t, "AUDIO")
			require.NoError(t, os.Chmod(path, mode))

			tag := newMemTag()
			tag.SetTitle("Song")
			require.NoError(t, tag.WriteToPath(path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, mode, info.Mode().Perm())
		})
	}
}

func TestTag_WriteToPath_MissingFile(t *testing.T) {
	tag := newMemTag()
	err := tag.WriteToPath(filepath.Join(t.TempDir(), "missing.flac"))
	assert.Error(t, err)
}

func TestTag_WriteToPath_ValidationWithoutDecoder(t *testing.T) {
	path := writeAudio(t, "AUDIO")
	tag := New(newMemBackend(), newMemTag().Properties(), nil)
	err := tag.WriteToPath(path, WithValidation())
	assert.ErrorIs(t, err, errNoDecoder)
}

func TestTag_WriteToFile(t *testing.T) {
	path := writeAudio(t, "MEMTAG\n0=A much longer old title\n\nAUDIO")

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()

	tag := newMemTag()
	tag.SetTitle("New")
	require.NoError(t, tag.WriteToFile(f, WithValidation()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MEMTAG\n0=New\n\nAUDIO", string(data), "shorter output truncates the file")

	// The handle stays usable.
	_, err = f.Stat()
	assert.NoError(t, err)
}

func TestWriteOptions(t *testing.T) {
	o := applyWriteOptions([]WriteOption{
		WithBackup(".orig"),
		WithValidation(),
		WithPreserveModTime(),
		WithWriteLogger(nil),
	})
	assert.Equal(t, ".orig", o.backupSuffix)
	assert.True(t, o.validate)
	assert.True(t, o.preserveModTime)
	assert.NotNil(t, o.logger, "nil logger is ignored")

	d := defaultWriteOptions()
	assert.Empty(t, d.backupSuffix)
	assert.False(t, d.validate)
	assert.False(t, d.preserveModTime)
}
