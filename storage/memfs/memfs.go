// Package memfs implements an in-memory storage backend, used as the test
// double for provider code and as a sandbox store with a capacity limit.
package memfs

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/hostfs/hostfs/internal/clock"
	"github.com/hostfs/hostfs/storage"
)

type node struct {
	name     string
	typ      storage.EntryType
	mode     storage.Mode
	data     []byte
	children map[string]*node
	created  time.Time
	modified time.Time
}

func (n *node) isFolder() bool {
	return n.typ == storage.EntryTypeFolder
}

// Options configure an in-memory filesystem.
type Options struct {
	// Name identifies the backend; "memfs" when unset.
	Name string

	// Capacity limits total content bytes; unlimited when zero.
	Capacity int64

	// Domains restricts the supported domain set; all domains when empty.
	Domains []storage.Domain

	// PluginFiles seeds the read-only plugin folder with file contents
	// keyed by name.
	PluginFiles map[string][]byte

	// Now supplies timestamps; clock.Now when unset.
	Now func() time.Time
}

// Filesystem is an in-memory storage.Backend. It is safe for concurrent
// use; a single mutex guards the whole tree.
type Filesystem struct {
	name     string
	capacity int64
	domains  []storage.Domain
	now      func() time.Time

	mu sync.Mutex
	// +checklocks:mu
	root *node
	// +checklocks:mu
	used int64
	// +checklocks:mu
	readOnly bool
}

const pluginRoot = "/plugin"

// New returns an empty in-memory filesystem.
func New(opt Options) *Filesystem {
	name := opt.Name
	if name == "" {
		name = "memfs"
	}

	domains := opt.Domains
	if len(domains) == 0 {
		domains = storage.AllDomains()
	}

	now := opt.Now
	if now == nil {
		now = clock.Now
	}

	fs := &Filesystem{
		name:     name,
		capacity: opt.Capacity,
		domains:  domains,
		now:      now,
	}

	t := now()
	fs.root = newFolderNode("", t)

	for _, d := range domains {
		fs.root.children[d.String()] = newFolderNode(d.String(), t)
	}

	plugin := newFolderNode(strings.TrimPrefix(pluginRoot, "/"), t)
	plugin.mode = storage.ReadOnly

	for fname, data := range opt.PluginFiles {
		plugin.children[fname] = &node{
			name:     fname,
			typ:      storage.EntryTypeFile,
			mode:     storage.ReadOnly,
			data:     append([]byte(nil), data...),
			created:  t,
			modified: t,
		}
		fs.used += int64(len(data))
	}

	fs.root.children[plugin.name] = plugin

	return fs
}

func newFolderNode(name string, t time.Time) *node {
	return &node{
		name:     name,
		typ:      storage.EntryTypeFolder,
		mode:     storage.ReadWrite,
		children: map[string]*node{},
		created:  t,
		modified: t,
	}
}

// SetReadOnly toggles rejection of all mutating operations with
// ErrPermissionDenied.
func (fs *Filesystem) SetReadOnly(v bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.readOnly = v
}

// Used returns the number of content bytes currently stored.
func (fs *Filesystem) Used() int64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.used
}

// Name implements storage.Backend.
func (fs *Filesystem) Name() string { return fs.name }

// SupportedDomains implements storage.Backend.
func (fs *Filesystem) SupportedDomains() []storage.Domain {
	return append([]storage.Domain(nil), fs.domains...)
}

// DomainRoot implements storage.Backend.
func (fs *Filesystem) DomainRoot(domain storage.Domain) (string, error) {
	for _, d := range fs.domains {
		if d == domain {
			return "/" + d.String(), nil
		}
	}

	return "", errors.Wrapf(storage.ErrDomainNotSupported, "%v", domain)
}

// PluginRoot implements storage.Backend.
func (fs *Filesystem) PluginRoot() (string, error) {
	return pluginRoot, nil
}

// Join implements storage.Backend.
func (fs *Filesystem) Join(parent, name string) string {
	return path.Join(parent, name)
}

// Dir implements storage.Backend.
func (fs *Filesystem) Dir(p string) string {
	return path.Dir(path.Clean("/" + p))
}

// +checklocks:fs.mu
func (fs *Filesystem) resolve(p string) (*node, error) {
	cur := fs.root

	for _, elem := range strings.Split(path.Clean("/"+p), "/") {
		if elem == "" {
			continue
		}

		if !cur.isFolder() {
			return nil, errors.Wrapf(storage.ErrNotAFolder, "%v", cur.name)
		}

		next, ok := cur.children[elem]
		if !ok {
			return nil, errors.Wrapf(storage.ErrEntryNotFound, "%v", p)
		}

		cur = next
	}

	return cur, nil
}

// +checklocks:fs.mu
func (fs *Filesystem) resolveFolder(p string) (*node, error) {
	n, err := fs.resolve(p)
	if err != nil {
		return nil, err
	}

	if !n.isFolder() {
		return nil, errors.Wrapf(storage.ErrNotAFolder, "%v", p)
	}

	return n, nil
}

func (fs *Filesystem) metadata(n *node) *storage.EntryMetadata {
	return &storage.EntryMetadata{
		Name:         n.name,
		Size:         int64(len(n.data)),
		DateCreated:  n.created,
		DateModified: n.modified,
		Type:         n.typ,
		Mode:         n.mode,
	}
}

// Stat implements storage.Backend.
func (fs *Filesystem) Stat(ctx context.Context, p string) (*storage.EntryMetadata, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := fs.resolve(p)
	if err != nil {
		return nil, err
	}

	return fs.metadata(n), nil
}

// ReadDir implements storage.Backend.
func (fs *Filesystem) ReadDir(ctx context.Context, p string) ([]*storage.EntryMetadata, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := fs.resolveFolder(p)
	if err != nil {
		return nil, err
	}

	result := make([]*storage.EntryMetadata, 0, len(n.children))

	for _, c := range n.children {
		result = append(result, fs.metadata(c))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// +checklocks:fs.mu
func (fs *Filesystem) writableParent(p string) (*node, string, error) {
	if fs.readOnly {
		return nil, "", errors.Wrapf(storage.ErrPermissionDenied, "%v", p)
	}

	parent, err := fs.resolveFolder(fs.Dir(p))
	if err != nil {
		return nil, "", err
	}

	if parent.mode == storage.ReadOnly {
		return nil, "", errors.Wrapf(storage.ErrPermissionDenied, "%v", p)
	}

	return parent, path.Base(path.Clean("/" + p)), nil
}

// CreateFile implements storage.Backend.
func (fs *Filesystem) CreateFile(ctx context.Context, p string, overwrite bool) error {
	return fs.create(p, storage.EntryTypeFile, overwrite)
}

// CreateFolder implements storage.Backend.
func (fs *Filesystem) CreateFolder(ctx context.Context, p string, overwrite bool) error {
	return fs.create(p, storage.EntryTypeFolder, overwrite)
}

func (fs *Filesystem) create(p string, typ storage.EntryType, overwrite bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, err := fs.writableParent(p)
	if err != nil {
		return err
	}

	if old, ok := parent.children[name]; ok {
		if !overwrite {
			return errors.Wrapf(storage.ErrEntryExists, "%v", p)
		}

		fs.used -= contentSize(old)
	}

	t := fs.now()

	if typ == storage.EntryTypeFolder {
		parent.children[name] = newFolderNode(name, t)
	} else {
		parent.children[name] = &node{
			name:     name,
			typ:      storage.EntryTypeFile,
			mode:     storage.ReadWrite,
			created:  t,
			modified: t,
		}
	}

	parent.modified = t

	return nil
}

// ReadFile implements storage.Backend.
func (fs *Filesystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, err := fs.resolve(p)
	if err != nil {
		return nil, err
	}

	if n.isFolder() {
		return nil, errors.Wrapf(storage.ErrNotAFile, "%v", p)
	}

	return append([]byte(nil), n.data...), nil
}

// WriteFile implements storage.Backend.
func (fs *Filesystem) WriteFile(ctx context.Context, p string, data []byte, appendTo bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, err := fs.writableParent(p)
	if err != nil {
		return err
	}

	n, ok := parent.children[name]

	switch {
	case ok && n.isFolder():
		return errors.Wrapf(storage.ErrNotAFile, "%v", p)

	case ok && n.mode == storage.ReadOnly:
		return errors.Wrapf(storage.ErrPermissionDenied, "%v", p)

	case !ok:
		t := fs.now()
		n = &node{
			name:     name,
			typ:      storage.EntryTypeFile,
			mode:     storage.ReadWrite,
			created:  t,
			modified: t,
		}
	}

	newContent := data
	if appendTo {
		newContent = append(append([]byte(nil), n.data...), data...)
	}

	delta := int64(len(newContent)) - int64(len(n.data))
	if fs.capacity > 0 && fs.used+delta > fs.capacity {
		return errors.Wrapf(storage.ErrOutOfSpace, "%v", p)
	}

	n.data = newContent
	n.modified = fs.now()
	fs.used += delta
	parent.children[name] = n

	return nil
}

// Remove implements storage.Backend.
func (fs *Filesystem) Remove(ctx context.Context, p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, err := fs.writableParent(p)
	if err != nil {
		return err
	}

	n, ok := parent.children[name]
	if !ok {
		return errors.Wrapf(storage.ErrEntryNotFound, "%v", p)
	}

	if n.mode == storage.ReadOnly {
		return errors.Wrapf(storage.ErrPermissionDenied, "%v", p)
	}

	fs.used -= contentSize(n)
	delete(parent.children, name)
	parent.modified = fs.now()

	return nil
}

// Rename implements storage.Backend.
func (fs *Filesystem) Rename(ctx context.Context, oldPath, newPath string, overwrite bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	oldParent, oldName, err := fs.writableParent(oldPath)
	if err != nil {
		return err
	}

	n, ok := oldParent.children[oldName]
	if !ok {
		return errors.Wrapf(storage.ErrEntryNotFound, "%v", oldPath)
	}

	if n.mode == storage.ReadOnly {
		return errors.Wrapf(storage.ErrPermissionDenied, "%v", oldPath)
	}

	if pathWithin(oldPath, newPath) {
		return errors.Wrapf(storage.ErrInvalidFileName, "rename %v to %v: destination is inside the source", oldPath, newPath)
	}

	newParent, newName, err := fs.writableParent(newPath)
	if err != nil {
		return err
	}

	if old, exists := newParent.children[newName]; exists && old != n {
		if !overwrite {
			return errors.Wrapf(storage.ErrEntryExists, "%v", newPath)
		}

		if old.mode == storage.ReadOnly {
			return errors.Wrapf(storage.ErrPermissionDenied, "%v", newPath)
		}

		fs.used -= contentSize(old)
	}

	delete(oldParent.children, oldName)
	n.name = newName
	n.modified = fs.now()
	newParent.children[newName] = n

	return nil
}

// Copy implements storage.Backend.
func (fs *Filesystem) Copy(ctx context.Context, srcPath, dstPath string, overwrite bool) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	src, err := fs.resolve(srcPath)
	if err != nil {
		return err
	}

	if pathWithin(srcPath, dstPath) {
		return errors.Wrapf(storage.ErrInvalidFileName, "copy %v to %v: destination is inside the source", srcPath, dstPath)
	}

	dstParent, dstName, err := fs.writableParent(dstPath)
	if err != nil {
		return err
	}

	var replaced int64

	if old, exists := dstParent.children[dstName]; exists {
		if !overwrite {
			return errors.Wrapf(storage.ErrEntryExists, "%v", dstPath)
		}

		if old.mode == storage.ReadOnly {
			return errors.Wrapf(storage.ErrPermissionDenied, "%v", dstPath)
		}

		replaced = contentSize(old)
	}

	added := contentSize(src)
	if fs.capacity > 0 && fs.used+added-replaced > fs.capacity {
		return errors.Wrapf(storage.ErrOutOfSpace, "%v", dstPath)
	}

	if old, exists := dstParent.children[dstName]; exists {
		fs.used -= contentSize(old)
	}

	dup := fs.deepCopy(src, dstName)
	dstParent.children[dstName] = dup
	dstParent.modified = fs.now()
	fs.used += added

	return nil
}

func (fs *Filesystem) deepCopy(n *node, name string) *node {
	t := fs.now()

	dup := &node{
		name:     name,
		typ:      n.typ,
		mode:     storage.ReadWrite,
		data:     append([]byte(nil), n.data...),
		created:  t,
		modified: t,
	}

	if n.isFolder() {
		dup.children = make(map[string]*node, len(n.children))

		for cn, c := range n.children {
			dup.children[cn] = fs.deepCopy(c, cn)
		}
	}

	return dup
}

// pathWithin determines whether p equals root or lies underneath it, after
// cleaning both.
func pathWithin(root, p string) bool {
	rc := path.Clean("/" + root)
	pc := path.Clean("/" + p)

	return pc == rc || strings.HasPrefix(pc, rc+"/")
}

func contentSize(n *node) int64 {
	total := int64(len(n.data))

	for _, c := range n.children {
		total += contentSize(c)
	}

	return total
}

// URL implements storage.Backend.
func (fs *Filesystem) URL(p string) string {
	return "memfs://" + fs.name + path.Clean("/"+p)
}

// NativePath implements storage.Backend. In-memory entries have no native
// representation.
func (fs *Filesystem) NativePath(p string) (string, error) {
	return "", errors.Wrapf(storage.ErrNotImplemented, "native path of %v", p)
}

var _ storage.Backend = (*Filesystem)(nil)
