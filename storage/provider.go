package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hostfs/hostfs/logging"
)

var log = logging.GetContextLoggerFunc("hostfs/storage")

// FileSystemProvider is the front-end through which plugin code obtains
// entries. It resolves domains to root folders via its backend and brokers
// user-facing selection through a Picker.
//
// A provider is a long-lived, shared resource, safe for concurrent use by
// many callers.
type FileSystemProvider struct {
	backend Backend
	picker  Picker
}

// Option configures a FileSystemProvider.
type Option func(*FileSystemProvider)

// WithPicker installs a user-facing selection surface. Without it the
// provider uses HeadlessPicker.
func WithPicker(p Picker) Option {
	return func(fsp *FileSystemProvider) {
		fsp.picker = p
	}
}

// NewFileSystemProvider returns a provider over the given backend. It fails
// with ErrNotAFileSystem when backend is nil.
func NewFileSystemProvider(backend Backend, opts ...Option) (*FileSystemProvider, error) {
	if backend == nil {
		return nil, errors.Wrap(ErrNotAFileSystem, "nil backend")
	}

	fsp := &FileSystemProvider{
		backend: backend,
		picker:  HeadlessPicker{},
	}

	for _, o := range opts {
		o(fsp)
	}

	return fsp, nil
}

// Backend returns the provider's backend.
func (p *FileSystemProvider) Backend() Backend { return p.backend }

// SupportedDomains lists the domains this provider can resolve.
func (p *FileSystemProvider) SupportedDomains() []Domain {
	return p.backend.SupportedDomains()
}

func (p *FileSystemProvider) supportsDomain(d Domain) bool {
	for _, s := range p.backend.SupportedDomains() {
		if s == d {
			return true
		}
	}

	return false
}

// GetFolderForDomain resolves a domain to its root folder. It fails with
// ErrDomainNotSupported for domains outside SupportedDomains.
func (p *FileSystemProvider) GetFolderForDomain(ctx context.Context, d Domain) (*Folder, error) {
	if !p.supportsDomain(d) {
		return nil, errors.Wrapf(ErrDomainNotSupported, "%v", d)
	}

	root, err := p.backend.DomainRoot(d)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %v", d)
	}

	log(ctx).Debugf("resolved domain %v to %v", d, root)

	return p.folderAt(root), nil
}

// GetTemporaryFolder returns the folder for temporary scratch files. The
// result is stable for the lifetime of the provider.
func (p *FileSystemProvider) GetTemporaryFolder(ctx context.Context) (*Folder, error) {
	return p.GetFolderForDomain(ctx, AppLocalTemporary)
}

// GetDataFolder returns the plugin's persistent local data folder. The
// result is stable for the lifetime of the provider.
func (p *FileSystemProvider) GetDataFolder(ctx context.Context) (*Folder, error) {
	return p.GetFolderForDomain(ctx, AppLocalData)
}

// GetPluginFolder returns the plugin's own install folder. Entries under it
// are read-only.
func (p *FileSystemProvider) GetPluginFolder(ctx context.Context) (*Folder, error) {
	root, err := p.backend.PluginRoot()
	if err != nil {
		return nil, errors.Wrap(err, "resolving plugin folder")
	}

	return p.folderAt(root), nil
}

// OpenOptions control GetFileForOpening.
type OpenOptions struct {
	// InitialDomain is where selection starts; the backend's first
	// supported domain when unset.
	InitialDomain Domain

	// Types filters selectable files; AllFiles when unset.
	Types FileType

	// AllowMultiple permits selecting more than one file.
	AllowMultiple bool
}

// SaveOptions control GetFileForSaving.
type SaveOptions struct {
	// InitialDomain is where selection starts; the backend's first
	// supported domain when unset.
	InitialDomain Domain

	// SuggestedName pre-fills the destination file name.
	SuggestedName string
}

// FolderOptions control GetFolder.
type FolderOptions struct {
	// InitialDomain is where selection starts; the backend's first
	// supported domain when unset.
	InitialDomain Domain
}

// GetFileForOpening asks the picker for existing files to open. A nil
// result with a nil error means the selection was dismissed. At most one
// file is returned unless AllowMultiple is set.
func (p *FileSystemProvider) GetFileForOpening(ctx context.Context, opt OpenOptions) ([]*File, error) {
	if err := p.checkInitialDomain(opt.InitialDomain); err != nil {
		return nil, err
	}

	if opt.Types == FileTypeInvalid {
		opt.Types = AllFiles
	}

	paths, err := p.picker.PickFilesForOpening(ctx, p.backend, opt)
	if err != nil {
		return nil, errors.Wrap(err, "picking files")
	}

	if len(paths) == 0 {
		return nil, nil
	}

	if !opt.AllowMultiple {
		paths = paths[:1]
	}

	files := make([]*File, 0, len(paths))

	for _, pickedPath := range paths {
		f, err := p.fileAt(ctx, pickedPath)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	return files, nil
}

// GetFileForSaving asks the picker for a destination file, creating it when
// it does not exist yet. A nil result with a nil error means the selection
// was dismissed.
func (p *FileSystemProvider) GetFileForSaving(ctx context.Context, opt SaveOptions) (*File, error) {
	if err := p.checkInitialDomain(opt.InitialDomain); err != nil {
		return nil, err
	}

	pickedPath, err := p.picker.PickFileForSaving(ctx, p.backend, opt)
	if err != nil {
		return nil, errors.Wrap(err, "picking save destination")
	}

	if pickedPath == "" {
		return nil, nil
	}

	if err := p.backend.CreateFile(ctx, pickedPath, false); err != nil && !errors.Is(err, ErrEntryExists) {
		return nil, errors.Wrap(err, "creating save destination")
	}

	return p.fileAt(ctx, pickedPath)
}

// GetFolder asks the picker for a folder. A nil result with a nil error
// means the selection was dismissed.
func (p *FileSystemProvider) GetFolder(ctx context.Context, opt FolderOptions) (*Folder, error) {
	if err := p.checkInitialDomain(opt.InitialDomain); err != nil {
		return nil, err
	}

	pickedPath, err := p.picker.PickFolder(ctx, p.backend, opt)
	if err != nil {
		return nil, errors.Wrap(err, "picking folder")
	}

	if pickedPath == "" {
		return nil, nil
	}

	e, err := p.entryAt(ctx, pickedPath)
	if err != nil {
		return nil, err
	}

	d, ok := e.(*Folder)
	if !ok {
		return nil, errors.Wrapf(ErrNotAFolder, "%v", e.Name())
	}

	return d, nil
}

// FsURL derives the filesystem URL of an entry. It fails with ErrNotAnEntry
// for values that are not entries and with ErrProviderMismatch for entries
// issued by another provider.
func (p *FileSystemProvider) FsURL(v interface{}) (string, error) {
	e, err := p.ownEntry(v)
	if err != nil {
		return "", err
	}

	return e.URL(), nil
}

// NativePath derives the host-native path of an entry. The same failure
// rules as FsURL apply.
func (p *FileSystemProvider) NativePath(v interface{}) (string, error) {
	e, err := p.ownEntry(v)
	if err != nil {
		return "", err
	}

	return e.NativePath()
}

func (p *FileSystemProvider) ownEntry(v interface{}) (Entry, error) {
	if !IsFile(v) && !IsFolder(v) {
		return nil, ErrNotAnEntry
	}

	e := v.(Entry)
	if e.Provider() != p {
		return nil, errors.Wrapf(ErrProviderMismatch, "%v", e.Name())
	}

	return e, nil
}

func (p *FileSystemProvider) checkInitialDomain(d Domain) error {
	if d == DomainInvalid {
		return nil
	}

	if !p.supportsDomain(d) {
		return errors.Wrapf(ErrDomainNotSupported, "%v", d)
	}

	return nil
}

// entryAt stats a backend path and issues the matching typed entry.
func (p *FileSystemProvider) entryAt(ctx context.Context, entryPath string) (Entry, error) {
	md, err := p.backend.Stat(ctx, entryPath)
	if err != nil {
		return nil, errors.Wrapf(err, "entry at %v", entryPath)
	}

	return p.entryFromMetadata(md, entryPath), nil
}

// fileAt is entryAt restricted to files.
func (p *FileSystemProvider) fileAt(ctx context.Context, entryPath string) (*File, error) {
	e, err := p.entryAt(ctx, entryPath)
	if err != nil {
		return nil, err
	}

	f, ok := e.(*File)
	if !ok {
		return nil, errors.Wrapf(ErrNotAFile, "%v", e.Name())
	}

	return f, nil
}

func (p *FileSystemProvider) entryFromMetadata(md *EntryMetadata, entryPath string) Entry {
	base := entry{provider: p, path: entryPath, name: md.Name}

	if md.IsFolder() {
		return &Folder{entry: base}
	}

	mode := md.Mode
	if mode == ModeInvalid {
		mode = ReadWrite
	}

	return &File{entry: base, mode: mode}
}

// folderAt issues a folder handle without checking backend state; used for
// domain roots which may be created lazily.
func (p *FileSystemProvider) folderAt(root string) *Folder {
	return &Folder{entry: entry{provider: p, path: root, name: baseName(root)}}
}

func baseName(p string) string {
	sep := guessSeparator(p)

	for len(p) > 1 && p[len(p)-1] == sep {
		p = p[:len(p)-1]
	}

	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == sep {
			return p[i+1:]
		}
	}

	return p
}
