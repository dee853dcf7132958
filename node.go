package treefs

import (
	"context"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/jmgilman/go/treefs/core"
)

// Stat returns a snapshot of the node at p, following symbolic links.
func (f *FS) Stat(ctx context.Context, p string) (core.Stat, error) {
	st, err := f.backend.Stat(ctx, f.resolve(p))
	if err != nil {
		return core.Stat{}, core.WrapPathError("stat", p, core.NoFlags, err)
	}
	return st, nil
}

// Lstat is Stat without following a final symbolic link. Backends without
// link support fall back to Stat.
func (f *FS) Lstat(ctx context.Context, p string) (core.Stat, error) {
	lb, ok := f.backend.(core.LinkBackend)
	if !ok {
		return f.Stat(ctx, p)
	}
	st, err := lb.Lstat(ctx, f.resolve(p))
	if err != nil {
		return core.Stat{}, core.WrapPathError("lstat", p, core.NoFlags, err)
	}
	return st, nil
}

// List returns the entry names of the directory at p in backend order.
func (f *FS) List(ctx context.Context, p string) ([]string, error) {
	names, err := f.backend.List(ctx, f.resolve(p))
	if err != nil {
		return nil, core.WrapPathError("list", p, core.NoFlags, err)
	}
	return names, nil
}

// Exists reports whether a node exists at p.
func (f *FS) Exists(ctx context.Context, p string) bool {
	_, err := f.Stat(ctx, p)
	return f.check("exists", p, err)
}

// IsFile reports whether p is a regular file.
func (f *FS) IsFile(ctx context.Context, p string) bool {
	st, err := f.Stat(ctx, p)
	return f.check("isFile", p, err) && st.IsFile()
}

// IsDirectory reports whether p is a directory.
func (f *FS) IsDirectory(ctx context.Context, p string) bool {
	st, err := f.Stat(ctx, p)
	return f.check("isDirectory", p, err) && st.IsDirectory()
}

// check turns a stat failure into false. Anything other than a missing node
// is logged, since the predicates have no way to report it.
func (f *FS) check(op, p string, err error) bool {
	if err == nil {
		return true
	}
	if !core.IsNotExist(err) {
		f.logger.Debug().Err(err).Str("op", op).Str("path", p).Msg("stat failed")
	}
	return false
}

// LastModified returns the modification time of the node at p.
func (f *FS) LastModified(ctx context.Context, p string) (time.Time, error) {
	st, err := f.Stat(ctx, p)
	if err != nil {
		return time.Time{}, err
	}
	return st.LastModified(), nil
}

// Open opens the file at p with os.O_* flags.
func (f *FS) Open(ctx context.Context, p string, flag int) (core.File, error) {
	file, err := f.backend.Open(ctx, f.resolve(p), flag)
	if err != nil {
		return nil, core.WrapPathError("open", p, flag, err)
	}
	return file, nil
}

// Read returns the full content of the file at p.
func (f *FS) Read(ctx context.Context, p string) ([]byte, error) {
	file, err := f.Open(ctx, p, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, core.WrapPathError("read", p, os.O_RDONLY, err)
	}
	return data, nil
}

// Write replaces the content of the file at p, creating it and any missing
// parent directories.
func (f *FS) Write(ctx context.Context, p string, data []byte) error {
	return f.write(ctx, "write", p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, data)
}

// Append adds data to the end of the file at p, creating it if needed.
func (f *FS) Append(ctx context.Context, p string, data []byte) error {
	return f.write(ctx, "append", p, os.O_WRONLY|os.O_CREATE|os.O_APPEND, data)
}

func (f *FS) write(ctx context.Context, op, p string, flag int, data []byte) error {
	file, err := f.Open(ctx, p, flag)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return core.WrapPathError(op, p, flag, err)
	}
	if err := file.Close(); err != nil {
		return core.WrapPathError(op, p, flag, err)
	}
	return nil
}

// MakeDirectory creates a single directory at p. The parent must exist.
func (f *FS) MakeDirectory(ctx context.Context, p string, perm fs.FileMode) error {
	return core.WrapPathError("makeDirectory", p, core.NoFlags, f.backend.MakeDirectory(ctx, f.resolve(p), perm))
}

// Remove removes the file or symbolic link at p.
func (f *FS) Remove(ctx context.Context, p string) error {
	return core.WrapPathError("remove", p, core.NoFlags, f.backend.Remove(ctx, f.resolve(p)))
}

// RemoveDirectory removes the empty directory at p.
func (f *FS) RemoveDirectory(ctx context.Context, p string) error {
	return core.WrapPathError("removeDirectory", p, core.NoFlags, f.backend.RemoveDirectory(ctx, f.resolve(p)))
}

// Symlink creates a symbolic link at link pointing to target. The target is
// stored as given.
func (f *FS) Symlink(ctx context.Context, target, link string) error {
	lb, ok := f.backend.(core.LinkBackend)
	if !ok {
		return core.WrapPathError("symlink", link, core.NoFlags, core.ErrUnsupported)
	}
	return core.WrapPathError("symlink", link, core.NoFlags, lb.Symlink(ctx, target, f.resolve(link)))
}

// SymbolicCopy creates a symbolic link at target that leads to source by a
// relative path, so the pair can be moved together.
func (f *FS) SymbolicCopy(ctx context.Context, source, target string) error {
	return f.Symlink(ctx, f.Relative(ctx, target, source), target)
}

// Readlink returns the target of the symbolic link at p.
func (f *FS) Readlink(ctx context.Context, p string) (string, error) {
	lb, ok := f.backend.(core.LinkBackend)
	if !ok {
		return "", core.WrapPathError("readlink", p, core.NoFlags, core.ErrUnsupported)
	}
	target, err := lb.Readlink(ctx, f.resolve(p))
	if err != nil {
		return "", core.WrapPathError("readlink", p, core.NoFlags, err)
	}
	return target, nil
}

// Chroot returns a handle rooted at the directory p. The new handle has its
// own identity and resolves relative paths against its root.
func (f *FS) Chroot(ctx context.Context, p string) (*FS, error) {
	backend, err := f.backend.Chroot(ctx, f.resolve(p))
	if err != nil {
		return nil, core.WrapPathError("chroot", p, core.NoFlags, err)
	}
	return f.derive(backend), nil
}
