// Package mock provides an in-memory core.Backend built on the virtual tree
// engine. It is intended for tests: a mock is constructed from a flat map of
// paths to content or from a nested object tree, and behaves like a small
// POSIX filesystem without symbolic links or permissions.
package mock

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/fspath"
	"github.com/jmgilman/go/treefs/vtree"
)

// store is shared between a backend and the views returned by Chroot.
type store struct {
	mu   sync.RWMutex
	tree *vtree.Tree
}

// Backend is a core.Backend over a virtual tree.
type Backend struct {
	store *store
	base  string // absolute path of this view's root inside the tree
}

// Option configures a Backend.
type Option func(*options)

type options struct {
	tree []vtree.Option
}

// WithClock sets the clock used to stamp modification times.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.tree = append(o.tree, vtree.WithClock(now))
	}
}

// New returns a mock backend seeded with files, a flat map of slash paths to
// content. Intermediate directories are created on demand; paths are not
// validated beyond normalization.
//
// Paths are applied in sorted order of their normalized form, so a path
// always lands after its prefixes: given both "a" and "a/b", "a" ends up a
// directory holding "b".
func New(files map[string][]byte, opts ...Option) *Backend {
	b := empty(opts...)

	type entry struct{ path, key string }
	entries := make([]entry, 0, len(files))
	for key := range files {
		entries = append(entries, entry{path: fspath.Join("/", key), key: key})
	}
	slices.SortFunc(entries, func(x, y entry) int {
		if c := strings.Compare(x.path, y.path); c != 0 {
			return c
		}
		return strings.Compare(x.key, y.key)
	})

	for _, e := range entries {
		b.put(e.path, files[e.key])
	}
	return b
}

// Put stores a copy of data at name, replacing whatever is there. Unlike a
// write through Open, an existing directory at name or a file at one of its
// prefixes is replaced rather than reported. The root cannot be replaced.
func (b *Backend) Put(name string, data []byte) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	path := b.resolve(name)
	if path == "/" {
		return core.PathError("put", name, core.ErrIsDirectory)
	}
	b.put(path, data)
	return nil
}

func (b *Backend) put(path string, data []byte) {
	b.store.tree.Find(path).Set(vtree.NewFile(clone(data), b.store.tree.Now()))
}

// FromObject returns a mock backend seeded with a nested object tree. Nested
// map[string]any values become directories; string and []byte values become
// files. Any other value type is rejected.
func FromObject(obj map[string]any, opts ...Option) (*Backend, error) {
	b := empty(opts...)
	if err := b.load("/", obj); err != nil {
		return nil, err
	}
	return b, nil
}

func empty(opts ...Option) *Backend {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{
		store: &store{tree: vtree.New(o.tree...)},
		base:  "/",
	}
}

func (b *Backend) load(dir string, obj map[string]any) error {
	tree := b.store.tree
	if len(obj) == 0 && dir != "/" {
		tree.Find(dir).Set(vtree.NewDirectory(tree.Now()))
	}
	for name, value := range obj {
		p := fspath.Join(dir, name)
		switch v := value.(type) {
		case map[string]any:
			if err := b.load(p, v); err != nil {
				return err
			}
		case string:
			tree.Find(p).Set(vtree.NewFile([]byte(v), tree.Now()))
		case []byte:
			tree.Find(p).Set(vtree.NewFile(clone(v), tree.Now()))
		default:
			return fmt.Errorf("mock: unsupported content type %T at %s", value, p)
		}
	}
	return nil
}

// Object exports the backend's tree as nested maps. Files are exported as
// []byte copies; empty directories as empty maps.
func (b *Backend) Object() map[string]any {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	dir, ok := b.store.tree.Find(b.base).Get().(*vtree.Directory)
	if !ok {
		return map[string]any{}
	}
	return export(dir)
}

func export(dir *vtree.Directory) map[string]any {
	out := make(map[string]any, len(dir.Entries))
	for name, node := range dir.Entries {
		switch n := node.(type) {
		case *vtree.Directory:
			out[name] = export(n)
		case *vtree.File:
			out[name] = clone(n.Data)
		}
	}
	return out
}

// resolve maps a name in this view to an absolute tree path.
func (b *Backend) resolve(name string) string {
	return fspath.Join(b.base, fspath.Join("/", name))
}

// Stat returns a snapshot of the named node.
func (b *Backend) Stat(_ context.Context, name string) (core.Stat, error) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	h := b.store.tree.Find(b.resolve(name))
	switch n := h.Get().(type) {
	case *vtree.Directory:
		return core.Stat{Name: h.Name(), Mode: fs.ModeDir | 0o755, ModTime: n.ModTime()}, nil
	case *vtree.File:
		return core.Stat{Name: h.Name(), Size: int64(len(n.Data)), Mode: 0o644, ModTime: n.ModTime()}, nil
	default:
		return core.Stat{}, core.PathError("stat", name, fs.ErrNotExist)
	}
}

// List returns the entry names of the named directory in map order.
func (b *Backend) List(_ context.Context, name string) ([]string, error) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	switch n := b.store.tree.Find(b.resolve(name)).Get().(type) {
	case *vtree.Directory:
		return n.Names(), nil
	case *vtree.File:
		return nil, core.PathError("list", name, core.ErrNotDirectory)
	default:
		return nil, core.PathError("list", name, fs.ErrNotExist)
	}
}

// Open opens the named file. Read-only opens snapshot the current content.
// Write opens buffer content and commit it on Close; O_APPEND starts from
// the current content. O_RDWR is not supported.
func (b *Backend) Open(_ context.Context, name string, flag int) (core.File, error) {
	if flag&os.O_RDWR != 0 {
		return nil, core.PathError("open", name, fmt.Errorf("%w: O_RDWR", core.ErrUnsupported))
	}

	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	h := b.store.tree.Find(b.resolve(name))
	node := h.Get()
	if _, ok := node.(*vtree.Directory); ok {
		return nil, core.PathError("open", name, core.ErrIsDirectory)
	}

	if !core.IsWriteFlag(flag) {
		f, ok := node.(*vtree.File)
		if !ok {
			return nil, core.PathError("open", name, fs.ErrNotExist)
		}
		return newReader(name, f.Data), nil
	}

	if h.Shadowed() {
		return nil, core.PathError("open", name, core.ErrNotDirectory)
	}
	if node == nil && flag&os.O_CREATE == 0 {
		return nil, core.PathError("open", name, fs.ErrNotExist)
	}
	if node != nil && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0 {
		return nil, core.PathError("open", name, fs.ErrExist)
	}

	var initial []byte
	if f, ok := node.(*vtree.File); ok && flag&os.O_APPEND != 0 {
		initial = clone(f.Data)
	}
	return newWriter(name, initial, b.commit), nil
}

// commit stores data at name. The path is resolved again so that writers
// opened concurrently do not clobber directories created in between.
func (b *Backend) commit(name string, data []byte) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	h := b.store.tree.Find(b.resolve(name))
	if h.IsRoot() {
		return core.PathError("write", name, core.ErrIsDirectory)
	}
	if h.Shadowed() {
		return core.PathError("write", name, core.ErrNotDirectory)
	}
	if h.IsDirectory() {
		return core.PathError("write", name, core.ErrIsDirectory)
	}
	h.Set(vtree.NewFile(data, b.store.tree.Now()))
	return nil
}

// MakeDirectory creates a single directory. The parent must exist.
func (b *Backend) MakeDirectory(_ context.Context, name string, _ fs.FileMode) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	h := b.store.tree.Find(b.resolve(name))
	switch {
	case h.Exists():
		return core.PathError("mkdir", name, fs.ErrExist)
	case h.Shadowed():
		return core.PathError("mkdir", name, core.ErrNotDirectory)
	case h.Pending():
		return core.PathError("mkdir", name, fs.ErrNotExist)
	}
	h.Set(vtree.NewDirectory(b.store.tree.Now()))
	return nil
}

// Remove removes the named file.
func (b *Backend) Remove(_ context.Context, name string) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	h := b.store.tree.Find(b.resolve(name))
	switch h.Get().(type) {
	case *vtree.File:
		h.Delete()
		return nil
	case *vtree.Directory:
		return core.PathError("remove", name, core.ErrIsDirectory)
	default:
		return core.PathError("remove", name, fs.ErrNotExist)
	}
}

// RemoveDirectory removes the named empty directory. The root of the tree
// cannot be removed.
func (b *Backend) RemoveDirectory(_ context.Context, name string) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	h := b.store.tree.Find(b.resolve(name))
	switch n := h.Get().(type) {
	case *vtree.Directory:
		if len(n.Entries) > 0 {
			return core.PathError("rmdir", name, core.ErrNotEmpty)
		}
		if h.IsRoot() {
			return core.PathError("rmdir", name, fs.ErrPermission)
		}
		h.Delete()
		return nil
	case *vtree.File:
		return core.PathError("rmdir", name, core.ErrNotDirectory)
	default:
		return core.PathError("rmdir", name, fs.ErrNotExist)
	}
}

// Chroot returns a view of the same tree rooted at dir. The view shares
// storage with b: writes through either are visible to both.
func (b *Backend) Chroot(_ context.Context, dir string) (core.Backend, error) {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	base := b.resolve(dir)
	if !b.store.tree.Find(base).Exists() {
		return nil, core.PathError("chroot", dir, fs.ErrNotExist)
	}
	return &Backend{store: b.store, base: base}, nil
}

// Type returns FSTypeMemory.
func (b *Backend) Type() core.FSType {
	return core.FSTypeMemory
}

func clone(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// Compile-time interface check.
var _ core.Backend = (*Backend)(nil)
