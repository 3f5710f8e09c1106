package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/captlog/internal/common"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, ".captlog", "nested")

	require.NoError(t, EnsureDir(dir))

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_ExistingDirectory(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, EnsureDir(tmp))
}

func TestEnsureDir_PathIsFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "occupied")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	err := EnsureDir(path)
	require.ErrorIs(t, err, common.ErrConfig)
}

func TestEnsureDir_NotWritable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced here")
	}

	tmp := t.TempDir()
	dir := filepath.Join(tmp, "readonly")
	require.NoError(t, os.Mkdir(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := EnsureDir(dir)
	require.ErrorIs(t, err, common.ErrConfig)
}

func TestCheckStoreFile(t *testing.T) {
	tmp := t.TempDir()

	// missing
	require.ErrorIs(t, CheckStoreFile(filepath.Join(tmp, "missing.db")), common.ErrConfig)

	// directory instead of file
	require.ErrorIs(t, CheckStoreFile(tmp), common.ErrConfig)

	// regular writable file
	path := filepath.Join(tmp, "store.db")
	require.NoError(t, os.WriteFile(path, []byte("db"), 0o600))
	require.NoError(t, CheckStoreFile(path))
}
