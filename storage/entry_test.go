package storage_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfs/hostfs/storage"
	"github.com/hostfs/hostfs/storage/memfs"
)

func TestEntryPartition(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "hello")

	sub, err := root.CreateFolder(ctx, "sub", false)
	require.NoError(t, err)

	// every valid entry is exactly one of file, folder
	for _, e := range []storage.Entry{f, sub, root} {
		require.NotEqual(t, storage.IsFile(e), storage.IsFolder(e), "partition violated for %v", e.Name())
	}
}

func TestIsFileIsFolderSafePredicates(t *testing.T) {
	require.False(t, storage.IsFile(nil))
	require.False(t, storage.IsFolder(nil))
	require.False(t, storage.IsFile("not an entry"))
	require.False(t, storage.IsFolder(42))
	require.False(t, storage.IsFile((*storage.File)(nil)))
	require.False(t, storage.IsFolder((*storage.Folder)(nil)))
}

func TestEntryID(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "hello")

	require.NotEmpty(t, f.ID())
	require.NotEqual(t, f.ID(), root.ID())

	// stable across lookups of the same location
	again, err := root.Entry(ctx, "a.txt")
	require.NoError(t, err)
	require.Equal(t, f.ID(), again.ID())
}

func TestCopyTo(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "hello")

	dst, err := root.CreateFolder(ctx, "dst", false)
	require.NoError(t, err)

	copied, err := f.CopyTo(ctx, dst, storage.CopyOptions{})
	require.NoError(t, err)
	require.Equal(t, "a.txt", copied.Name())
	require.True(t, storage.IsFile(copied))

	// original unchanged
	text, err := f.ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", text)

	text, err = copied.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", text)
}

func TestCopyToExistingNoOverwrite(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "new content")

	dst, err := root.CreateFolder(ctx, "dst", false)
	require.NoError(t, err)
	mustWriteFile(ctx, t, dst, "a.txt", "old content")

	before := childNames(ctx, t, dst)

	_, err = f.CopyTo(ctx, dst, storage.CopyOptions{})
	require.ErrorIs(t, err, storage.ErrEntryExists)

	// destination child set unchanged, content intact
	require.Equal(t, before, childNames(ctx, t, dst))

	e, err := dst.Entry(ctx, "a.txt")
	require.NoError(t, err)

	text, err := e.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "old content", text)

	// overwrite replaces
	_, err = f.CopyTo(ctx, dst, storage.CopyOptions{Overwrite: true})
	require.NoError(t, err)

	e, err = dst.Entry(ctx, "a.txt")
	require.NoError(t, err)

	text, err = e.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "new content", text)
}

func TestCopyFolderRecursive(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)

	src, err := root.CreateFolder(ctx, "src", false)
	require.NoError(t, err)
	mustWriteFile(ctx, t, src, "top.txt", "top")

	nested, err := src.CreateFolder(ctx, "nested", false)
	require.NoError(t, err)
	mustWriteFile(ctx, t, nested, "deep.txt", "deep")

	dst, err := root.CreateFolder(ctx, "dst", false)
	require.NoError(t, err)

	copied, err := src.CopyTo(ctx, dst, storage.CopyOptions{})
	require.NoError(t, err)
	require.True(t, storage.IsFolder(copied))

	deep, err := copied.(*storage.Folder).Entry(ctx, "nested/deep.txt")
	require.NoError(t, err)

	text, err := deep.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "deep", text)
}

func TestMoveTo(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "hello")

	dst, err := root.CreateFolder(ctx, "dst", false)
	require.NoError(t, err)

	moved, err := f.MoveTo(ctx, dst, storage.MoveOptions{})
	require.NoError(t, err)
	require.Equal(t, "a.txt", moved.Name())

	// source location invalidated
	_, err = root.Entry(ctx, "a.txt")
	require.ErrorIs(t, err, storage.ErrEntryNotFound)

	text, err := moved.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "hello", text)
}

func TestMoveToWithNewName(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	mustWriteFile(ctx, t, root, "a.txt", "hello")

	f, err := root.Entry(ctx, "a.txt")
	require.NoError(t, err)

	dst, err := root.CreateFolder(ctx, "dst", false)
	require.NoError(t, err)

	moved, err := f.MoveTo(ctx, dst, storage.MoveOptions{NewName: "b.txt"})
	require.NoError(t, err)
	require.Equal(t, "b.txt", moved.Name())

	names := childNames(ctx, t, dst)
	assert.Contains(t, names, "b.txt")
	assert.NotContains(t, names, "a.txt")

	_, err = root.Entry(ctx, "a.txt")
	require.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestMoveToInvalidNewName(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "hello")

	for _, bad := range []string{"..", "a/b", "a\x00b"} {
		_, err := f.MoveTo(ctx, root, storage.MoveOptions{NewName: bad})
		require.ErrorIs(t, err, storage.ErrInvalidFileName, "name %q", bad)
	}
}

func TestDelete(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "hello")

	require.NoError(t, f.Delete(ctx))

	// not idempotent
	require.ErrorIs(t, f.Delete(ctx), storage.ErrEntryNotFound)

	_, err := f.Metadata(ctx)
	require.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestDeleteFolderCascades(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)

	sub, err := root.CreateFolder(ctx, "sub", false)
	require.NoError(t, err)

	nested, err := sub.CreateFolder(ctx, "nested", false)
	require.NoError(t, err)
	mustWriteFile(ctx, t, nested, "deep.txt", "deep")
	mustWriteFile(ctx, t, sub, "top.txt", "top")

	require.NoError(t, sub.Delete(ctx))

	for _, former := range []string{"sub", "sub/top.txt", "sub/nested", "sub/nested/deep.txt"} {
		_, err := root.Entry(ctx, former)
		require.ErrorIs(t, err, storage.ErrEntryNotFound, "path %v", former)
	}
}

func TestCrossProviderCopy(t *testing.T) {
	ctx, p1, _ := newTestProvider(t, memfs.Options{Name: "one"})
	_, p2, _ := newTestProvider(t, memfs.Options{Name: "two"})

	src := dataFolder(ctx, t, p1)
	dir, err := src.CreateFolder(ctx, "payload", false)
	require.NoError(t, err)
	mustWriteFile(ctx, t, dir, "a.txt", "across")

	dst := dataFolder(ctx, t, p2)

	copied, err := dir.CopyTo(ctx, dst, storage.CopyOptions{})
	require.NoError(t, err)
	require.Same(t, p2, copied.Provider())

	e, err := copied.(*storage.Folder).Entry(ctx, "a.txt")
	require.NoError(t, err)

	text, err := e.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "across", text)

	// original still present
	_, err = src.Entry(ctx, "payload/a.txt")
	require.NoError(t, err)
}

func TestCrossProviderMove(t *testing.T) {
	ctx, p1, _ := newTestProvider(t, memfs.Options{Name: "one"})
	_, p2, _ := newTestProvider(t, memfs.Options{Name: "two"})

	src := dataFolder(ctx, t, p1)
	f := mustWriteFile(ctx, t, src, "a.txt", "across")

	dst := dataFolder(ctx, t, p2)

	moved, err := f.MoveTo(ctx, dst, storage.MoveOptions{NewName: "b.txt"})
	require.NoError(t, err)
	require.Same(t, p2, moved.Provider())
	require.Equal(t, "b.txt", moved.Name())

	_, err = src.Entry(ctx, "a.txt")
	require.ErrorIs(t, err, storage.ErrEntryNotFound)
}

func TestMoveFolderIntoOwnDescendant(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)

	src, err := root.CreateFolder(ctx, "src", false)
	require.NoError(t, err)

	sub, err := src.CreateFolder(ctx, "sub", false)
	require.NoError(t, err)
	mustWriteFile(ctx, t, src, "a.txt", "keep")

	_, err = src.MoveTo(ctx, sub, storage.MoveOptions{})
	require.ErrorIs(t, err, storage.ErrInvalidFileName)

	_, err = src.CopyTo(ctx, sub, storage.CopyOptions{})
	require.ErrorIs(t, err, storage.ErrInvalidFileName)

	// the subtree is fully intact
	e, err := root.Entry(ctx, "src/a.txt")
	require.NoError(t, err)

	text, err := e.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "keep", text)
}

// unreadableBackend hides file content behind permission errors while
// leaving metadata visible.
type unreadableBackend struct {
	storage.Backend
}

func (b unreadableBackend) ReadFile(ctx context.Context, p string) ([]byte, error) {
	return nil, errors.Wrapf(storage.ErrPermissionDenied, "%v", p)
}

func TestCrossProviderCopyKeepsDestinationOnSourceError(t *testing.T) {
	ctx, _, fs1 := newTestProvider(t, memfs.Options{Name: "one"})
	_, p2, _ := newTestProvider(t, memfs.Options{Name: "two"})

	require.NoError(t, fs1.WriteFile(ctx, "/appLocalData/a.txt", []byte("unreadable"), false))

	p1, err := storage.NewFileSystemProvider(unreadableBackend{fs1})
	require.NoError(t, err)

	src := dataFolder(ctx, t, p1)

	f, err := src.Entry(ctx, "a.txt")
	require.NoError(t, err)

	dst := dataFolder(ctx, t, p2)
	mustWriteFile(ctx, t, dst, "a.txt", "old content")

	_, err = f.(*storage.File).CopyTo(ctx, dst, storage.CopyOptions{Overwrite: true})
	require.ErrorIs(t, err, storage.ErrPermissionDenied)

	// the destination survives the failed overwrite
	e, err := dst.Entry(ctx, "a.txt")
	require.NoError(t, err)

	text, err := e.(*storage.File).ReadText(ctx)
	require.NoError(t, err)
	require.Equal(t, "old content", text)
}

func TestCopyToNilTarget(t *testing.T) {
	ctx, p, _ := newTestProvider(t, memfs.Options{})

	root := dataFolder(ctx, t, p)
	f := mustWriteFile(ctx, t, root, "a.txt", "hello")

	_, err := f.CopyTo(ctx, nil, storage.CopyOptions{})
	require.ErrorIs(t, err, storage.ErrNotAFolder)

	_, err = f.MoveTo(ctx, nil, storage.MoveOptions{})
	require.ErrorIs(t, err, storage.ErrNotAFolder)
}
