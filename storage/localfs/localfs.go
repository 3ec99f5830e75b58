// Package localfs implements a storage backend over the host filesystem.
// Domains resolve to real user directories and to plugin-scoped application
// directories under a configured root.
package localfs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"

	"github.com/hostfs/hostfs/logging"
	"github.com/hostfs/hostfs/storage"
)

var log = logging.GetContextLoggerFunc("hostfs/localfs")

// Options configure a local filesystem backend.
type Options struct {
	// Name identifies the backend; "local" when unset.
	Name string

	// AppRoot is the directory holding the app-local and app-roaming
	// domains. Defaults to a "hostfs" directory under the user config dir.
	AppRoot string

	// UserRoot overrides the base of the user domains (desktop, documents,
	// ...). Defaults to the user home directory.
	UserRoot string

	// TempDir overrides the appLocalTemporary root. Defaults to "temp"
	// under AppRoot.
	TempDir string

	// PluginDir, when set, becomes the read-only plugin folder.
	PluginDir string
}

// Filesystem is a storage.Backend over the host filesystem. Paths are
// host-native absolute paths.
type Filesystem struct {
	name      string
	roots     map[storage.Domain]string
	domains   []storage.Domain
	pluginDir string
}

// New returns a local backend, creating the application domain directories
// as needed.
func New(opt Options) (*Filesystem, error) {
	name := opt.Name
	if name == "" {
		name = "local"
	}

	appRoot := opt.AppRoot
	if appRoot == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "determining app root")
		}

		appRoot = filepath.Join(cfgDir, "hostfs")
	}

	tempDir := opt.TempDir
	if tempDir == "" {
		tempDir = filepath.Join(appRoot, "temp")
	}

	roots := map[storage.Domain]string{
		storage.AppLocalData:      filepath.Join(appRoot, "data"),
		storage.AppLocalLibrary:   filepath.Join(appRoot, "library"),
		storage.AppLocalCache:     filepath.Join(appRoot, "cache"),
		storage.AppLocalShared:    filepath.Join(appRoot, "shared"),
		storage.AppLocalTemporary: tempDir,
		storage.AppRoamingData:    filepath.Join(appRoot, "roaming", "data"),
		storage.AppRoamingLibrary: filepath.Join(appRoot, "roaming", "library"),
	}

	for _, p := range roots {
		if err := os.MkdirAll(p, 0o700); err != nil {
			return nil, errors.Wrap(mapError(err), "creating app directory")
		}
	}

	userRoot := opt.UserRoot
	if userRoot == "" {
		if home, err := os.UserHomeDir(); err == nil {
			userRoot = home
		}
	}

	if userRoot != "" {
		for d, sub := range userDirNames() {
			roots[d] = filepath.Join(userRoot, sub)
		}
	}

	domains := make([]storage.Domain, 0, len(roots))

	for _, d := range storage.AllDomains() {
		if _, ok := roots[d]; ok {
			domains = append(domains, d)
		}
	}

	return &Filesystem{
		name:      name,
		roots:     roots,
		domains:   domains,
		pluginDir: opt.PluginDir,
	}, nil
}

// NewProvider returns a FileSystemProvider over a local backend, the usual
// way plugin hosts hand local storage to plugin code.
func NewProvider(opt Options, popts ...storage.Option) (*storage.FileSystemProvider, error) {
	fs, err := New(opt)
	if err != nil {
		return nil, err
	}

	return storage.NewFileSystemProvider(fs, popts...)
}

// Name implements storage.Backend.
func (fs *Filesystem) Name() string { return fs.name }

// SupportedDomains implements storage.Backend.
func (fs *Filesystem) SupportedDomains() []storage.Domain {
	return append([]storage.Domain(nil), fs.domains...)
}

// DomainRoot implements storage.Backend.
func (fs *Filesystem) DomainRoot(domain storage.Domain) (string, error) {
	if p, ok := fs.roots[domain]; ok {
		return p, nil
	}

	return "", errors.Wrapf(storage.ErrDomainNotSupported, "%v", domain)
}

// PluginRoot implements storage.Backend.
func (fs *Filesystem) PluginRoot() (string, error) {
	if fs.pluginDir == "" {
		return "", errors.Wrap(storage.ErrDomainNotSupported, "no plugin folder configured")
	}

	return fs.pluginDir, nil
}

// Join implements storage.Backend.
func (fs *Filesystem) Join(parent, name string) string {
	return filepath.Join(parent, name)
}

// Dir implements storage.Backend.
func (fs *Filesystem) Dir(p string) string {
	return filepath.Dir(p)
}

func (fs *Filesystem) underPlugin(p string) bool {
	if fs.pluginDir == "" {
		return false
	}

	return p == fs.pluginDir || strings.HasPrefix(p, fs.pluginDir+string(filepath.Separator))
}

// pathWithin determines whether p equals root or lies underneath it.
func pathWithin(root, p string) bool {
	rc := filepath.Clean(root)
	pc := filepath.Clean(p)

	return pc == rc || strings.HasPrefix(pc, rc+string(filepath.Separator))
}

func (fs *Filesystem) metadata(p string, fi os.FileInfo) *storage.EntryMetadata {
	md := &storage.EntryMetadata{
		Name: fi.Name(),
		Size: fi.Size(),
		// birth time is not portably available, modification time is the
		// best common approximation
		DateCreated:  fi.ModTime(),
		DateModified: fi.ModTime(),
		Type:         storage.EntryTypeFile,
		Mode:         storage.ReadWrite,
	}

	if fi.IsDir() {
		md.Type = storage.EntryTypeFolder
		md.Size = 0
	}

	if fi.Mode().Perm()&0o200 == 0 || fs.underPlugin(p) {
		md.Mode = storage.ReadOnly
	}

	return md
}

// Stat implements storage.Backend.
func (fs *Filesystem) Stat(ctx context.Context, p string) (*storage.EntryMetadata, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return nil, mapError(err)
	}

	return fs.metadata(p, fi), nil
}

// ReadDir implements storage.Backend.
func (fs *Filesystem) ReadDir(ctx context.Context, p string) ([]*storage.EntryMetadata, error) {
	dirents, err := os.ReadDir(p)
	if err != nil {
		return nil, mapError(err)
	}

	result := make([]*storage.EntryMetadata, 0, len(dirents))

	for _, de := range dirents {
		fi, err := de.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// entry disappeared between listing and stat
				continue
			}

			return nil, mapError(err)
		}

		result = append(result, fs.metadata(filepath.Join(p, de.Name()), fi))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// CreateFile implements storage.Backend.
func (fs *Filesystem) CreateFile(ctx context.Context, p string, overwrite bool) error {
	if err := fs.checkWritable(p); err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_EXCL
	if overwrite {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}

	f, err := os.OpenFile(p, flags, 0o600)
	if err != nil {
		return mapError(err)
	}

	return mapError(f.Close())
}

// CreateFolder implements storage.Backend.
func (fs *Filesystem) CreateFolder(ctx context.Context, p string, overwrite bool) error {
	if err := fs.checkWritable(p); err != nil {
		return err
	}

	if _, err := os.Stat(p); err == nil {
		if !overwrite {
			return errors.Wrapf(storage.ErrEntryExists, "%v", p)
		}

		if err := os.RemoveAll(p); err != nil {
			return mapError(err)
		}
	}

	return mapError(os.Mkdir(p, 0o700))
}

// ReadFile implements storage.Backend.
func (fs *Filesystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return nil, mapError(err)
	}

	if fi.IsDir() {
		return nil, errors.Wrapf(storage.ErrNotAFile, "%v", p)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, mapError(err)
	}

	return data, nil
}

// WriteFile implements storage.Backend.
func (fs *Filesystem) WriteFile(ctx context.Context, p string, data []byte, appendTo bool) error {
	if err := fs.checkWritable(p); err != nil {
		return err
	}

	if fi, err := os.Stat(p); err == nil {
		if fi.IsDir() {
			return errors.Wrapf(storage.ErrNotAFile, "%v", p)
		}

		if fi.Mode().Perm()&0o200 == 0 {
			return errors.Wrapf(storage.ErrPermissionDenied, "%v", p)
		}
	}

	if appendTo {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return mapError(err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close() //nolint:errcheck

			return mapError(err)
		}

		return mapError(f.Close())
	}

	// whole-file replacement goes through a temp file and rename so racing
	// readers never observe partial content
	return mapError(atomic.WriteFile(p, bytes.NewReader(data)))
}

// Remove implements storage.Backend.
func (fs *Filesystem) Remove(ctx context.Context, p string) error {
	if err := fs.checkWritable(p); err != nil {
		return err
	}

	if _, err := os.Lstat(p); err != nil {
		return mapError(err)
	}

	log(ctx).Debugf("removing %v", p)

	return mapError(os.RemoveAll(p))
}

// Rename implements storage.Backend.
func (fs *Filesystem) Rename(ctx context.Context, oldPath, newPath string, overwrite bool) error {
	if err := fs.checkWritable(oldPath); err != nil {
		return err
	}

	if err := fs.checkWritable(newPath); err != nil {
		return err
	}

	if _, err := os.Lstat(oldPath); err != nil {
		return mapError(err)
	}

	if pathWithin(oldPath, newPath) {
		return errors.Wrapf(storage.ErrInvalidFileName, "rename %v to %v: destination is inside the source", oldPath, newPath)
	}

	if _, err := os.Lstat(newPath); err == nil {
		if !overwrite {
			return errors.Wrapf(storage.ErrEntryExists, "%v", newPath)
		}

		if err := os.RemoveAll(newPath); err != nil {
			return mapError(err)
		}
	}

	return mapError(os.Rename(oldPath, newPath))
}

// Copy implements storage.Backend.
func (fs *Filesystem) Copy(ctx context.Context, srcPath, dstPath string, overwrite bool) error {
	if err := fs.checkWritable(dstPath); err != nil {
		return err
	}

	fi, err := os.Stat(srcPath)
	if err != nil {
		return mapError(err)
	}

	if pathWithin(srcPath, dstPath) {
		return errors.Wrapf(storage.ErrInvalidFileName, "copy %v to %v: destination is inside the source", srcPath, dstPath)
	}

	if _, err := os.Lstat(dstPath); err == nil {
		if !overwrite {
			return errors.Wrapf(storage.ErrEntryExists, "%v", dstPath)
		}

		if err := os.RemoveAll(dstPath); err != nil {
			return mapError(err)
		}
	}

	return fs.copyEntry(ctx, srcPath, dstPath, fi)
}

func (fs *Filesystem) copyEntry(ctx context.Context, srcPath, dstPath string, fi os.FileInfo) error {
	if fi.IsDir() {
		// list the source before creating the destination so a destination
		// nested under the source never shows up in its own listing
		dirents, err := os.ReadDir(srcPath)
		if err != nil {
			return mapError(err)
		}

		if err := os.Mkdir(dstPath, fi.Mode().Perm()|0o700); err != nil {
			return mapError(err)
		}

		for _, de := range dirents {
			cfi, err := de.Info()
			if err != nil {
				return mapError(err)
			}

			if err := fs.copyEntry(ctx, filepath.Join(srcPath, de.Name()), filepath.Join(dstPath, de.Name()), cfi); err != nil {
				return err
			}
		}

		return nil
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return mapError(err)
	}
	defer src.Close() //nolint:errcheck

	return mapError(atomic.WriteFile(dstPath, src))
}

func (fs *Filesystem) checkWritable(p string) error {
	if fs.underPlugin(p) {
		return errors.Wrapf(storage.ErrPermissionDenied, "%v", p)
	}

	return nil
}

// URL implements storage.Backend.
func (fs *Filesystem) URL(p string) string {
	u := filepath.ToSlash(p)
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}

	return "file://" + u
}

// NativePath implements storage.Backend.
func (fs *Filesystem) NativePath(p string) (string, error) {
	return p, nil
}

var _ storage.Backend = (*Filesystem)(nil)
