package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Entry is a handle to a named node in a provider's hierarchy, either a
// *File or a *Folder. Entries are only issued by provider and folder
// operations, never constructed by callers, and stay associated with the
// provider that issued them for their whole lifetime.
type Entry interface {
	// Name returns the entry's name within its parent folder.
	Name() string

	// ID returns a stable, opaque identifier derived from the entry's
	// location. Moving or renaming an entry produces a handle with a new ID.
	ID() string

	// Provider returns the provider that issued this entry.
	Provider() *FileSystemProvider

	// Path returns the backend path of the entry.
	Path() string

	// URL returns the filesystem URL of the entry.
	URL() string

	// NativePath returns the host-native path of the entry, when the backend
	// has one.
	NativePath() (string, error)

	// Metadata takes a point-in-time snapshot of the entry's attributes. It
	// fails with ErrEntryNotFound when the entry no longer exists.
	Metadata(ctx context.Context) (*EntryMetadata, error)

	// Delete removes the entry. Folders are removed together with all of
	// their descendants. Deleting an entry that no longer exists fails with
	// ErrEntryNotFound.
	Delete(ctx context.Context) error

	// CopyTo duplicates the entry into target, leaving the original in
	// place, and returns a handle to the copy.
	CopyTo(ctx context.Context, target *Folder, opt CopyOptions) (Entry, error)

	// MoveTo relocates the entry into target and returns a handle to the
	// entry at its new location. The receiver handle refers to the old
	// location and is no longer usable after a successful move.
	MoveTo(ctx context.Context, target *Folder, opt MoveOptions) (Entry, error)

	storageEntry() *entry
}

// CopyOptions control Entry.CopyTo.
type CopyOptions struct {
	// Overwrite allows replacing an existing entry at the destination.
	Overwrite bool
}

// MoveOptions control Entry.MoveTo.
type MoveOptions struct {
	// Overwrite allows replacing an existing entry at the destination.
	Overwrite bool

	// NewName, if set, renames the entry as part of the move.
	NewName string
}

type entry struct {
	provider *FileSystemProvider
	path     string
	name     string
}

func (e *entry) Name() string { return e.name }

func (e *entry) ID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.URL())).String()
}

func (e *entry) Provider() *FileSystemProvider { return e.provider }

func (e *entry) Path() string { return e.path }

func (e *entry) URL() string { return e.provider.backend.URL(e.path) }

func (e *entry) NativePath() (string, error) {
	return e.provider.backend.NativePath(e.path)
}

func (e *entry) storageEntry() *entry { return e }

func (e *entry) Metadata(ctx context.Context) (*EntryMetadata, error) {
	md, err := e.provider.backend.Stat(ctx, e.path)
	if err != nil {
		return nil, errors.Wrapf(err, "metadata of %v", e.name)
	}

	return md, nil
}

func (e *entry) Delete(ctx context.Context) error {
	log(ctx).Debugf("deleting %v", e.path)

	if err := e.provider.backend.Remove(ctx, e.path); err != nil {
		return errors.Wrapf(err, "delete %v", e.name)
	}

	return nil
}

func (e *entry) CopyTo(ctx context.Context, target *Folder, opt CopyOptions) (Entry, error) {
	if target == nil {
		return nil, errors.Wrap(ErrNotAFolder, "copy target")
	}

	// source must still exist
	md, err := e.provider.backend.Stat(ctx, e.path)
	if err != nil {
		return nil, errors.Wrapf(err, "copy source %v", e.name)
	}

	dst := target.provider.backend.Join(target.path, e.name)

	if target.provider == e.provider && pathWithin(e.path, dst) {
		return nil, errors.Wrapf(ErrInvalidFileName, "copy %v: destination is inside the source", e.name)
	}

	log(ctx).Debugf("copying %v to %v", e.path, dst)

	if target.provider == e.provider {
		if err := e.provider.backend.Copy(ctx, e.path, dst, opt.Overwrite); err != nil {
			return nil, errors.Wrapf(err, "copy %v", e.name)
		}
	} else if err := copyAcross(ctx, e.provider.backend, md, e.path, target.provider.backend, dst, opt.Overwrite); err != nil {
		return nil, errors.Wrapf(err, "copy %v", e.name)
	}

	return target.provider.entryAt(ctx, dst)
}

func (e *entry) MoveTo(ctx context.Context, target *Folder, opt MoveOptions) (Entry, error) {
	if target == nil {
		return nil, errors.Wrap(ErrNotAFolder, "move target")
	}

	name := e.name
	if opt.NewName != "" {
		if err := ValidateName(opt.NewName); err != nil {
			return nil, errors.Wrapf(err, "move %v", e.name)
		}

		name = opt.NewName
	}

	md, err := e.provider.backend.Stat(ctx, e.path)
	if err != nil {
		return nil, errors.Wrapf(err, "move source %v", e.name)
	}

	dst := target.provider.backend.Join(target.path, name)

	if target.provider == e.provider && pathWithin(e.path, dst) {
		return nil, errors.Wrapf(ErrInvalidFileName, "move %v: destination is inside the source", e.name)
	}

	log(ctx).Debugf("moving %v to %v", e.path, dst)

	if target.provider == e.provider {
		if err := e.provider.backend.Rename(ctx, e.path, dst, opt.Overwrite); err != nil {
			return nil, errors.Wrapf(err, "move %v", e.name)
		}
	} else {
		// no native cross-backend move, copy then delete the source
		if err := copyAcross(ctx, e.provider.backend, md, e.path, target.provider.backend, dst, opt.Overwrite); err != nil {
			return nil, errors.Wrapf(err, "move %v", e.name)
		}

		if err := e.provider.backend.Remove(ctx, e.path); err != nil {
			return nil, errors.Wrapf(err, "move %v: removing source", e.name)
		}
	}

	return target.provider.entryAt(ctx, dst)
}

// copyAcross copies an entry between two backends by reading from one and
// writing to the other, recursively for folders. The source content is read
// before the destination is touched, so an unreadable source leaves an
// existing destination intact.
func copyAcross(ctx context.Context, src Backend, md *EntryMetadata, srcPath string, dst Backend, dstPath string, overwrite bool) error {
	var (
		data     []byte
		children []*EntryMetadata
		err      error
	)

	if md.IsFile() {
		data, err = src.ReadFile(ctx, srcPath)
	} else {
		children, err = src.ReadDir(ctx, srcPath)
	}

	if err != nil {
		return err
	}

	if _, err := dst.Stat(ctx, dstPath); err == nil {
		if !overwrite {
			return errors.Wrapf(ErrEntryExists, "%v", dstPath)
		}

		if err := dst.Remove(ctx, dstPath); err != nil {
			return err
		}
	} else if !errors.Is(err, ErrEntryNotFound) {
		return err
	}

	if md.IsFile() {
		return dst.WriteFile(ctx, dstPath, data, false)
	}

	if err := dst.CreateFolder(ctx, dstPath, false); err != nil {
		return err
	}

	for _, c := range children {
		childSrc := src.Join(srcPath, c.Name)
		childDst := dst.Join(dstPath, c.Name)

		if err := copyAcross(ctx, src, c, childSrc, dst, childDst, false); err != nil {
			return err
		}
	}

	return nil
}

// IsFile determines whether v is a File entry. It is safe to call with nil
// or any non-entry value and never panics.
func IsFile(v interface{}) bool {
	f, ok := v.(*File)
	return ok && f != nil
}

// IsFolder determines whether v is a Folder entry. It is safe to call with
// nil or any non-entry value and never panics.
func IsFolder(v interface{}) bool {
	d, ok := v.(*Folder)
	return ok && d != nil
}
