package billy

import (
	"context"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/fspath"
)

// Backend adapts a billy.Filesystem to core.Backend.
// It keeps access to the underlying billy.Filesystem for go-git integration.
type Backend struct {
	bfs billy.Filesystem
	typ core.FSType
}

// Option configures filesystem creation.
type Option func(*config)

type config struct {
	root string
}

// WithRoot roots a local filesystem at dir instead of the host root.
func WithRoot(dir string) Option {
	return func(c *config) {
		c.root = dir
	}
}

// NewLocal creates a go-billy-backed local filesystem.
// The returned filesystem is rooted at the host root ("/") unless WithRoot
// is given.
func NewLocal(opts ...Option) *Backend {
	cfg := config{root: "/"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Backend{bfs: osfs.New(cfg.root), typ: core.FSTypeLocal}
}

// NewMemory creates a go-billy-backed in-memory filesystem.
// The filesystem initially holds only its root directory.
func NewMemory() *Backend {
	bfs := memfs.New()
	// memfs materializes "/" lazily; create it so the root can be listed.
	_ = bfs.MkdirAll("/", 0o755)
	return &Backend{bfs: bfs, typ: core.FSTypeMemory}
}

// Wrap adapts an existing billy.Filesystem, reporting typ from Type.
func Wrap(bfs billy.Filesystem, typ core.FSType) *Backend {
	return &Backend{bfs: bfs, typ: typ}
}

// Unwrap returns the underlying billy.Filesystem for go-git integration.
func (b *Backend) Unwrap() billy.Filesystem {
	return b.bfs
}

// normalize anchors names at the filesystem root and cleans them.
func normalize(name string) string {
	return fspath.Join("/", name)
}

// Stat returns a snapshot of the named node, following symbolic links.
func (b *Backend) Stat(_ context.Context, name string) (core.Stat, error) {
	info, err := b.bfs.Stat(normalize(name))
	if err != nil {
		return core.Stat{}, err
	}
	return core.StatFromFileInfo(info), nil
}

// Lstat returns a snapshot of the named node without following a final
// symbolic link.
func (b *Backend) Lstat(_ context.Context, name string) (core.Stat, error) {
	info, err := b.bfs.Lstat(normalize(name))
	if err != nil {
		return core.Stat{}, err
	}
	return core.StatFromFileInfo(info), nil
}

// Symlink creates link pointing at target.
func (b *Backend) Symlink(_ context.Context, target, link string) error {
	return b.bfs.Symlink(target, normalize(link))
}

// Readlink returns the target of the named symbolic link.
func (b *Backend) Readlink(_ context.Context, name string) (string, error) {
	return b.bfs.Readlink(normalize(name))
}

// List returns the entry names of the named directory, sorted by billy.
func (b *Backend) List(_ context.Context, name string) ([]string, error) {
	name = normalize(name)
	// memfs lists files as empty directories, so check the kind first.
	info, err := b.bfs.Stat(name)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, core.PathError("readdir", name, core.ErrNotDirectory)
	}

	infos, err := b.bfs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name()
	}
	return names, nil
}

// Open opens the named file with the given os.O_* flags.
// Directories cannot be opened. Write opens with O_CREATE create missing
// parent directories.
func (b *Backend) Open(_ context.Context, name string, flag int) (core.File, error) {
	name = normalize(name)
	info, err := b.bfs.Stat(name)
	if err == nil && info.IsDir() {
		return nil, core.PathError("open", name, core.ErrIsDirectory)
	}
	// memfs reports a file in the parent chain with an untyped error
	if err != nil && flag&os.O_CREATE != 0 && b.fileAncestor(name) {
		return nil, core.PathError("open", name, core.ErrNotDirectory)
	}

	f, err := b.bfs.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{file: f, fs: b.bfs, name: name}, nil
}

// fileAncestor reports whether the nearest existing ancestor of name is not
// a directory.
func (b *Backend) fileAncestor(name string) bool {
	for dir := fspath.Dir(name); dir != "/"; dir = fspath.Dir(dir) {
		info, err := b.bfs.Stat(dir)
		if err != nil {
			continue
		}
		return !info.IsDir()
	}
	return false
}

// MakeDirectory creates a new directory with the specified name and
// permission bits. Unlike MkdirAll, this fails if the parent does not exist.
func (b *Backend) MakeDirectory(_ context.Context, name string, perm fs.FileMode) error {
	name = normalize(name)
	if _, err := b.bfs.Lstat(name); err == nil {
		return core.PathError("mkdir", name, fs.ErrExist)
	}

	if parent := fspath.Dir(name); parent != "/" {
		info, err := b.bfs.Stat(parent)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return core.PathError("mkdir", name, core.ErrNotDirectory)
		}
	}
	// the parent is known to exist, so MkdirAll creates exactly one level
	return b.bfs.MkdirAll(name, perm)
}

// Remove removes the named file or symbolic link.
func (b *Backend) Remove(_ context.Context, name string) error {
	name = normalize(name)
	info, err := b.bfs.Lstat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return core.PathError("remove", name, core.ErrIsDirectory)
	}
	return b.bfs.Remove(name)
}

// RemoveDirectory removes the named empty directory.
func (b *Backend) RemoveDirectory(_ context.Context, name string) error {
	name = normalize(name)
	info, err := b.bfs.Lstat(name)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return core.PathError("rmdir", name, core.ErrNotDirectory)
	}

	entries, err := b.bfs.ReadDir(name)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return core.PathError("rmdir", name, core.ErrNotEmpty)
	}
	return b.bfs.Remove(name)
}

// Chroot returns a backend scoped to the given node. The node must exist.
func (b *Backend) Chroot(_ context.Context, dir string) (core.Backend, error) {
	dir = normalize(dir)
	if _, err := b.bfs.Stat(dir); err != nil {
		return nil, err
	}
	chrooted, err := b.bfs.Chroot(dir)
	if err != nil {
		return nil, err
	}
	return &Backend{bfs: chrooted, typ: b.typ}, nil
}

// Type returns the storage type the backend was created with.
func (b *Backend) Type() core.FSType {
	return b.typ
}

// WriteFile writes data to the named file, creating it and its parents if
// necessary. It is a convenience for seeding fixtures.
func (b *Backend) WriteFile(name string, data []byte) error {
	return util.WriteFile(b.bfs, normalize(name), data, 0o644)
}

// RemoveAll removes path and any children it contains.
func (b *Backend) RemoveAll(name string) error {
	err := util.RemoveAll(b.bfs, normalize(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Compile-time interface checks.
var (
	_ core.Backend     = (*Backend)(nil)
	_ core.LinkBackend = (*Backend)(nil)
)
