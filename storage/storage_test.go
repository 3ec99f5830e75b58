package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostfs/hostfs/internal/testlogging"
	"github.com/hostfs/hostfs/storage"
	"github.com/hostfs/hostfs/storage/memfs"
)

// newTestProvider returns a provider over a fresh in-memory backend.
func newTestProvider(t *testing.T, opt memfs.Options) (context.Context, *storage.FileSystemProvider, *memfs.Filesystem) {
	t.Helper()

	fs := memfs.New(opt)

	p, err := storage.NewFileSystemProvider(fs)
	require.NoError(t, err)

	return testlogging.Context(t), p, fs
}

// dataFolder returns the provider's data folder root.
func dataFolder(ctx context.Context, t *testing.T, p *storage.FileSystemProvider) *storage.Folder {
	t.Helper()

	d, err := p.GetDataFolder(ctx)
	require.NoError(t, err)

	return d
}

// mustWriteFile creates a file with the given content under folder.
func mustWriteFile(ctx context.Context, t *testing.T, folder *storage.Folder, name, content string) *storage.File {
	t.Helper()

	f, err := folder.CreateFile(ctx, name, false)
	require.NoError(t, err)
	require.NoError(t, f.Write(ctx, []byte(content), storage.WriteOptions{}))

	return f
}

// childNames lists the names of a folder's children.
func childNames(ctx context.Context, t *testing.T, folder *storage.Folder) []string {
	t.Helper()

	entries, err := folder.Entries(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names
}
