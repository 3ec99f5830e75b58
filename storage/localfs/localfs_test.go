package localfs_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostfs/hostfs/internal/testlogging"
	"github.com/hostfs/hostfs/storage"
	"github.com/hostfs/hostfs/storage/localfs"
)

func newTestFS(t *testing.T) (*localfs.Filesystem, string) {
	t.Helper()

	root := t.TempDir()

	fs, err := localfs.New(localfs.Options{
		AppRoot:  filepath.Join(root, "app"),
		UserRoot: filepath.Join(root, "home"),
	})
	require.NoError(t, err)

	return fs, root
}

func dataRoot(t *testing.T, fs *localfs.Filesystem) string {
	t.Helper()

	p, err := fs.DomainRoot(storage.AppLocalData)
	require.NoError(t, err)

	return p
}

func TestNewCreatesAppDomains(t *testing.T) {
	fs, _ := newTestFS(t)

	for _, d := range []storage.Domain{
		storage.AppLocalData,
		storage.AppLocalLibrary,
		storage.AppLocalCache,
		storage.AppLocalShared,
		storage.AppLocalTemporary,
		storage.AppRoamingData,
		storage.AppRoamingLibrary,
	} {
		p, err := fs.DomainRoot(d)
		require.NoError(t, err)

		fi, err := os.Stat(p)
		require.NoError(t, err, "domain %v", d)
		require.True(t, fi.IsDir())
	}
}

func TestFileRoundTrip(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	p := fs.Join(dataRoot(t, fs), "a.txt")

	require.NoError(t, fs.CreateFile(ctx, p, false))
	require.ErrorIs(t, fs.CreateFile(ctx, p, false), storage.ErrEntryExists)

	require.NoError(t, fs.WriteFile(ctx, p, []byte("hello"), false))
	require.NoError(t, fs.WriteFile(ctx, p, []byte(" world"), true))

	data, err := fs.ReadFile(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	md, err := fs.Stat(ctx, p)
	require.NoError(t, err)
	require.True(t, md.IsFile())
	require.Equal(t, "a.txt", md.Name)
	require.EqualValues(t, 11, md.Size)
	require.Equal(t, storage.ReadWrite, md.Mode)
}

func TestStatMissing(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	_, err := fs.Stat(ctx, fs.Join(dataRoot(t, fs), "missing"))
	require.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestReadDir(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	root := dataRoot(t, fs)

	require.NoError(t, fs.CreateFile(ctx, fs.Join(root, "b.txt"), false))
	require.NoError(t, fs.CreateFile(ctx, fs.Join(root, "a.txt"), false))
	require.NoError(t, fs.CreateFolder(ctx, fs.Join(root, "sub"), false))

	entries, err := fs.ReadDir(ctx, root)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// sorted by name
	require.Equal(t, "a.txt", entries[0].Name)
	require.Equal(t, "b.txt", entries[1].Name)
	require.Equal(t, "sub", entries[2].Name)
	require.True(t, entries[2].IsFolder())
}

func TestRemove(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	root := dataRoot(t, fs)
	sub := fs.Join(root, "sub")

	require.NoError(t, fs.CreateFolder(ctx, sub, false))
	require.NoError(t, fs.CreateFile(ctx, fs.Join(sub, "a.txt"), false))

	require.NoError(t, fs.Remove(ctx, sub))
	require.ErrorIs(t, fs.Remove(ctx, sub), storage.ErrEntryNotFound)

	_, err := fs.Stat(ctx, fs.Join(sub, "a.txt"))
	require.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestRenameOverwrite(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	root := dataRoot(t, fs)
	a := fs.Join(root, "a.txt")
	b := fs.Join(root, "b.txt")

	require.NoError(t, fs.CreateFile(ctx, a, false))
	require.NoError(t, fs.WriteFile(ctx, a, []byte("new"), false))
	require.NoError(t, fs.CreateFile(ctx, b, false))

	require.ErrorIs(t, fs.Rename(ctx, a, b, false), storage.ErrEntryExists)
	require.NoError(t, fs.Rename(ctx, a, b, true))

	data, err := fs.ReadFile(ctx, b)
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
}

func TestCopyRecursive(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	root := dataRoot(t, fs)
	src := fs.Join(root, "src")

	require.NoError(t, fs.CreateFolder(ctx, src, false))
	nested := fs.Join(src, "nested")

	require.NoError(t, fs.CreateFolder(ctx, nested, false))
	require.NoError(t, fs.WriteFile(ctx, fs.Join(nested, "deep.txt"), []byte("deep"), false))

	dst := fs.Join(root, "dst")

	require.NoError(t, fs.Copy(ctx, src, dst, false))
	require.ErrorIs(t, fs.Copy(ctx, src, dst, false), storage.ErrEntryExists)

	data, err := fs.ReadFile(ctx, fs.Join(fs.Join(dst, "nested"), "deep.txt"))
	require.NoError(t, err)
	require.Equal(t, "deep", string(data))
}

func TestCopyIntoOwnSubtree(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	root := dataRoot(t, fs)
	src := fs.Join(root, "src")

	require.NoError(t, fs.CreateFolder(ctx, src, false))
	require.NoError(t, fs.WriteFile(ctx, fs.Join(src, "a.txt"), []byte("x"), false))

	err := fs.Copy(ctx, src, fs.Join(src, "nested"), false)
	require.ErrorIs(t, err, storage.ErrInvalidFileName)

	// nothing was created under the source
	entries, err := fs.ReadDir(ctx, src)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "a.txt", entries[0].Name)
}

func TestRenameIntoOwnSubtree(t *testing.T) {
	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	root := dataRoot(t, fs)
	src := fs.Join(root, "src")
	sub := fs.Join(src, "sub")

	require.NoError(t, fs.CreateFolder(ctx, src, false))
	require.NoError(t, fs.CreateFolder(ctx, sub, false))

	err := fs.Rename(ctx, src, fs.Join(sub, "src"), false)
	require.ErrorIs(t, err, storage.ErrInvalidFileName)

	// the folder is still where it was
	md, err := fs.Stat(ctx, src)
	require.NoError(t, err)
	require.True(t, md.IsFolder())
}

func TestPluginDirReadOnly(t *testing.T) {
	ctx := testlogging.Context(t)
	root := t.TempDir()

	pluginDir := filepath.Join(root, "plugin")
	require.NoError(t, os.MkdirAll(pluginDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(pluginDir, "manifest.json"), []byte("{}"), 0o600))

	fs, err := localfs.New(localfs.Options{
		AppRoot:   filepath.Join(root, "app"),
		UserRoot:  filepath.Join(root, "home"),
		PluginDir: pluginDir,
	})
	require.NoError(t, err)

	pr, err := fs.PluginRoot()
	require.NoError(t, err)
	require.Equal(t, pluginDir, pr)

	md, err := fs.Stat(ctx, filepath.Join(pluginDir, "manifest.json"))
	require.NoError(t, err)
	require.Equal(t, storage.ReadOnly, md.Mode)

	err = fs.WriteFile(ctx, filepath.Join(pluginDir, "manifest.json"), []byte("x"), false)
	require.ErrorIs(t, err, storage.ErrPermissionDenied)

	err = fs.Remove(ctx, filepath.Join(pluginDir, "manifest.json"))
	require.ErrorIs(t, err, storage.ErrPermissionDenied)
}

func TestNoPluginDir(t *testing.T) {
	fs, _ := newTestFS(t)

	_, err := fs.PluginRoot()
	require.ErrorIs(t, err, storage.ErrDomainNotSupported)
}

func TestReadOnlyFilePermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file mode bits are not meaningful on Windows")
	}

	ctx := testlogging.Context(t)
	fs, _ := newTestFS(t)

	p := fs.Join(dataRoot(t, fs), "locked.txt")

	require.NoError(t, fs.WriteFile(ctx, p, []byte("x"), false))
	require.NoError(t, os.Chmod(p, 0o400))

	md, err := fs.Stat(ctx, p)
	require.NoError(t, err)
	require.Equal(t, storage.ReadOnly, md.Mode)

	err = fs.WriteFile(ctx, p, []byte("y"), false)
	require.ErrorIs(t, err, storage.ErrPermissionDenied)
}

func TestURLAndNativePath(t *testing.T) {
	fs, _ := newTestFS(t)

	p := fs.Join(dataRoot(t, fs), "a.txt")

	np, err := fs.NativePath(p)
	require.NoError(t, err)
	require.Equal(t, p, np)

	u := fs.URL(p)
	require.True(t, strings.HasPrefix(u, "file:///"), "unexpected URL %v", u)
}

func TestUserDomainsSupported(t *testing.T) {
	fs, _ := newTestFS(t)

	supported := map[storage.Domain]bool{}
	for _, d := range fs.SupportedDomains() {
		supported[d] = true
	}

	require.True(t, supported[storage.UserDesktop])
	require.True(t, supported[storage.UserDocuments])
	require.True(t, supported[storage.AppLocalData])
}
