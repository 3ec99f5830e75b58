package storage

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Folder is an entry containing other entries.
type Folder struct {
	entry
}

// CreateOptions control Folder.CreateEntry.
type CreateOptions struct {
	// Type selects the kind of entry to create; EntryTypeFile when unset.
	Type EntryType

	// Overwrite allows replacing an existing entry with the same name.
	Overwrite bool
}

// RenameOptions control Folder.RenameEntry.
type RenameOptions struct {
	// Overwrite allows replacing an existing entry with the target name.
	Overwrite bool
}

// Entries enumerates the folder's current children. The result reflects
// live backend state at call time and is not cached; ordering is
// backend-defined.
func (d *Folder) Entries(ctx context.Context) ([]Entry, error) {
	if err := d.requireFolder(ctx); err != nil {
		return nil, err
	}

	children, err := d.provider.backend.ReadDir(ctx, d.path)
	if err != nil {
		return nil, errors.Wrapf(err, "entries of %v", d.name)
	}

	result := make([]Entry, 0, len(children))

	for _, md := range children {
		result = append(result, d.provider.entryFromMetadata(md, d.provider.backend.Join(d.path, md.Name)))
	}

	return result, nil
}

// CreateEntry creates a new child with the given name. It fails with
// ErrEntryExists when the name is taken and Overwrite is not set, and with
// ErrInvalidFileName for names violating naming rules.
func (d *Folder) CreateEntry(ctx context.Context, name string, opt CreateOptions) (Entry, error) {
	if err := ValidateName(name); err != nil {
		return nil, errors.Wrapf(err, "create %q", name)
	}

	typ := opt.Type
	if typ == EntryTypeInvalid {
		typ = EntryTypeFile
	}

	childPath := d.provider.backend.Join(d.path, name)

	log(ctx).Debugf("creating %v %v", typ, childPath)

	var err error

	switch typ {
	case EntryTypeFile:
		err = d.provider.backend.CreateFile(ctx, childPath, opt.Overwrite)
	case EntryTypeFolder:
		err = d.provider.backend.CreateFolder(ctx, childPath, opt.Overwrite)
	default:
		return nil, errors.Wrapf(ErrNotAnEntry, "create %q: unknown type", name)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "create %q", name)
	}

	return d.provider.entryAt(ctx, childPath)
}

// CreateFile creates a new file child.
func (d *Folder) CreateFile(ctx context.Context, name string, overwrite bool) (*File, error) {
	e, err := d.CreateEntry(ctx, name, CreateOptions{Type: EntryTypeFile, Overwrite: overwrite})
	if err != nil {
		return nil, err
	}

	return e.(*File), nil
}

// CreateFolder creates a new folder child.
func (d *Folder) CreateFolder(ctx context.Context, name string, overwrite bool) (*Folder, error) {
	e, err := d.CreateEntry(ctx, name, CreateOptions{Type: EntryTypeFolder, Overwrite: overwrite})
	if err != nil {
		return nil, err
	}

	return e.(*Folder), nil
}

// Entry looks up a descendant by a relative, slash-separated path. It fails
// with ErrEntryNotFound when no such entry exists.
func (d *Folder) Entry(ctx context.Context, relPath string) (Entry, error) {
	if err := d.requireFolder(ctx); err != nil {
		return nil, err
	}

	p := d.path

	for _, elem := range strings.Split(relPath, "/") {
		switch elem {
		case "", ".":
			continue
		case "..":
			p = d.provider.backend.Dir(p)
		default:
			p = d.provider.backend.Join(p, elem)
		}
	}

	return d.provider.entryAt(ctx, p)
}

// RenameEntry renames e, which must have been issued by this folder's
// provider and live under this folder, to newName. It fails with
// ErrProviderMismatch when e belongs to a different provider or root.
func (d *Folder) RenameEntry(ctx context.Context, e Entry, newName string, opt RenameOptions) (Entry, error) {
	if e == nil {
		return nil, errors.Wrap(ErrNotAnEntry, "rename")
	}

	if err := ValidateName(newName); err != nil {
		return nil, errors.Wrapf(err, "rename to %q", newName)
	}

	se := e.storageEntry()

	if se.provider != d.provider || !d.contains(se.path) {
		return nil, errors.Wrapf(ErrProviderMismatch, "rename %v", e.Name())
	}

	newPath := d.provider.backend.Join(d.provider.backend.Dir(se.path), newName)

	log(ctx).Debugf("renaming %v to %v", se.path, newPath)

	if err := d.provider.backend.Rename(ctx, se.path, newPath, opt.Overwrite); err != nil {
		return nil, errors.Wrapf(err, "rename %v", e.Name())
	}

	return d.provider.entryAt(ctx, newPath)
}

// contains determines whether p is d's own path or lies underneath it.
func (d *Folder) contains(p string) bool {
	return pathWithin(d.path, p)
}

// pathWithin determines whether p equals root or lies underneath it.
func pathWithin(root, p string) bool {
	if p == root {
		return true
	}

	prefix := root
	if !strings.HasSuffix(prefix, "/") && !strings.HasSuffix(prefix, "\\") {
		prefix += string(guessSeparator(root))
	}

	return strings.HasPrefix(p, prefix)
}

// guessSeparator picks the separator used by the backend path. Backends use
// either forward slashes or the host separator.
func guessSeparator(p string) byte {
	if strings.ContainsRune(p, '\\') && !strings.ContainsRune(p, '/') {
		return '\\'
	}

	return '/'
}

func (d *Folder) requireFolder(ctx context.Context) error {
	md, err := d.provider.backend.Stat(ctx, d.path)
	if err != nil {
		return errors.Wrapf(err, "folder %v", d.name)
	}

	if !md.IsFolder() {
		return errors.Wrapf(ErrNotAFolder, "%v", d.name)
	}

	return nil
}

var _ Entry = (*Folder)(nil)
