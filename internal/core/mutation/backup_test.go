package mutation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"beersmith-bridge/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirBackuperLayout(t *testing.T) {
	src := testutil.WriteFile(t, t.TempDir(), "Misc.bsmx", testutil.MiscBSMX)
	dir := filepath.Join(t.TempDir(), "backups")

	fixed := time.Date(2024, 5, 1, 13, 4, 5, 123456789, time.UTC)
	b := NewDirBackuper(dir)
	b.now = func() time.Time { return fixed }

	first, err := b.Backup([]string{src}, "test")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-05-01T13-04-05.123456789"), first.Dir)
	assert.FileExists(t, filepath.Join(first.Dir, "Misc.bsmx"))
	assert.FileExists(t, filepath.Join(first.Dir, ManifestFile))

	// 同一時間點的第二次備份不覆蓋第一次
	second, err := b.Backup([]string{src}, "again")
	require.NoError(t, err)
	assert.NotEqual(t, first.Dir, second.Dir)
}

func TestDirBackuperMissingSource(t *testing.T) {
	b := NewDirBackuper(t.TempDir())
	_, err := b.Backup([]string{filepath.Join(t.TempDir(), "nope.bsmx")}, "")
	assert.Error(t, err)
}

func TestWriteAtomicKeepsMode(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "Water.bsmx", "old")
	require.NoError(t, os.Chmod(path, 0o600))

	require.NoError(t, writeAtomic(path, []byte("new")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not linger")
}
