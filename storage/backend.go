package storage

import "context"

// Backend is the SPI implemented by storage backends. Paths are opaque,
// backend-defined strings; callers obtain them from DomainRoot, PluginRoot
// and Join and never construct them by hand.
//
// Backends are long-lived, shared resources and must be safe for concurrent
// use. No ordering is promised between racing operations on the same path;
// the outcome is whatever the backing store produces.
type Backend interface {
	// Name identifies the backend. It also namespaces entry IDs, so two
	// backends with the same name issue the same ID for the same path.
	Name() string

	// SupportedDomains lists the domains this backend can resolve.
	SupportedDomains() []Domain

	// DomainRoot resolves a domain to its root path. It fails with
	// ErrDomainNotSupported for domains outside SupportedDomains.
	DomainRoot(domain Domain) (string, error)

	// PluginRoot returns the path of the plugin's own install folder, or
	// ErrDomainNotSupported when the backend has none.
	PluginRoot() (string, error)

	// Join appends a single child name to a path.
	Join(parent, name string) string

	// Dir returns the parent path of p.
	Dir(p string) string

	Stat(ctx context.Context, path string) (*EntryMetadata, error)
	ReadDir(ctx context.Context, path string) ([]*EntryMetadata, error)

	CreateFile(ctx context.Context, path string, overwrite bool) error
	CreateFolder(ctx context.Context, path string, overwrite bool) error

	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, appendTo bool) error

	// Remove deletes the entry at path; folders are removed recursively.
	// Removing a missing path fails with ErrEntryNotFound.
	Remove(ctx context.Context, path string) error

	Rename(ctx context.Context, oldPath, newPath string, overwrite bool) error

	// Copy duplicates the entry at srcPath to dstPath within this backend,
	// recursively for folders.
	Copy(ctx context.Context, srcPath, dstPath string, overwrite bool) error

	// URL derives the filesystem URL of a path.
	URL(path string) string

	// NativePath derives the host-native path of a path, or
	// ErrNotImplemented when the backend has no native representation.
	NativePath(path string) (string, error)
}

// UnimplementedBackend returns ErrNotImplemented from every operation.
// Embed it in partial backends so they satisfy Backend.
type UnimplementedBackend struct{}

// Name implements Backend.
func (UnimplementedBackend) Name() string { return "unimplemented" }

// SupportedDomains implements Backend.
func (UnimplementedBackend) SupportedDomains() []Domain { return nil }

// DomainRoot implements Backend.
func (UnimplementedBackend) DomainRoot(domain Domain) (string, error) {
	return "", ErrNotImplemented
}

// PluginRoot implements Backend.
func (UnimplementedBackend) PluginRoot() (string, error) { return "", ErrNotImplemented }

// Join implements Backend.
func (UnimplementedBackend) Join(parent, name string) string { return parent + "/" + name }

// Dir implements Backend.
func (UnimplementedBackend) Dir(p string) string { return p }

// Stat implements Backend.
func (UnimplementedBackend) Stat(ctx context.Context, path string) (*EntryMetadata, error) {
	return nil, ErrNotImplemented
}

// ReadDir implements Backend.
func (UnimplementedBackend) ReadDir(ctx context.Context, path string) ([]*EntryMetadata, error) {
	return nil, ErrNotImplemented
}

// CreateFile implements Backend.
func (UnimplementedBackend) CreateFile(ctx context.Context, path string, overwrite bool) error {
	return ErrNotImplemented
}

// CreateFolder implements Backend.
func (UnimplementedBackend) CreateFolder(ctx context.Context, path string, overwrite bool) error {
	return ErrNotImplemented
}

// ReadFile implements Backend.
func (UnimplementedBackend) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return nil, ErrNotImplemented
}

// WriteFile implements Backend.
func (UnimplementedBackend) WriteFile(ctx context.Context, path string, data []byte, appendTo bool) error {
	return ErrNotImplemented
}

// Remove implements Backend.
func (UnimplementedBackend) Remove(ctx context.Context, path string) error {
	return ErrNotImplemented
}

// Rename implements Backend.
func (UnimplementedBackend) Rename(ctx context.Context, oldPath, newPath string, overwrite bool) error {
	return ErrNotImplemented
}

// Copy implements Backend.
func (UnimplementedBackend) Copy(ctx context.Context, srcPath, dstPath string, overwrite bool) error {
	return ErrNotImplemented
}

// URL implements Backend.
func (UnimplementedBackend) URL(path string) string { return "" }

// NativePath implements Backend.
func (UnimplementedBackend) NativePath(path string) (string, error) {
	return "", ErrNotImplemented
}

var _ Backend = UnimplementedBackend{}
