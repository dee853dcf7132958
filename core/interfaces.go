package core

import (
	"context"
	"io"
	"io/fs"
)

// FSType represents the underlying type of filesystem implementation.
type FSType int

const (
	// FSTypeUnknown indicates the filesystem type is unknown or unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates a local filesystem (e.g., disk-backed).
	FSTypeLocal
	// FSTypeMemory indicates an in-memory filesystem.
	FSTypeMemory
	// FSTypeRemote indicates a remote filesystem (e.g., S3, cloud storage).
	FSTypeRemote
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	case FSTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Backend is the node capability contract every storage implementation
// provides. The tree algorithms in treefs are written once against this
// interface.
//
// Names passed to a Backend are slash-separated. Absolute names are resolved
// against the backend root; backends also accept root-relative names.
// Failures must wrap the fs sentinels (fs.ErrNotExist, fs.ErrExist) or the
// sentinels declared in this package so callers can classify them.
type Backend interface {
	// Stat returns a snapshot of the named node.
	// A missing node fails with an error wrapping fs.ErrNotExist.
	Stat(ctx context.Context, name string) (Stat, error)

	// List returns the names of the entries of the named directory.
	// Order is unspecified. Listing a file fails with ErrNotDirectory.
	List(ctx context.Context, name string) ([]string, error)

	// Open opens the named file with os.O_* flags.
	// Read-only opens require an existing file. Write opens commit the
	// written content no later than Close.
	Open(ctx context.Context, name string, flag int) (File, error)

	// MakeDirectory creates a single directory. The parent must exist.
	// An existing node at name fails with an error wrapping fs.ErrExist.
	MakeDirectory(ctx context.Context, name string, perm fs.FileMode) error

	// Remove removes a file or symbolic link. Directories fail with ErrIsDirectory.
	Remove(ctx context.Context, name string) error

	// RemoveDirectory removes an empty directory. Non-empty directories fail
	// with ErrNotEmpty; files fail with ErrNotDirectory.
	RemoveDirectory(ctx context.Context, name string) error

	// Chroot returns a backend whose root is the named node.
	Chroot(ctx context.Context, dir string) (Backend, error)

	// Type returns the underlying storage type.
	Type() FSType
}

// LinkBackend is implemented by backends that support symbolic links
// (typically local filesystems only).
//
// Use type assertion to check if a backend supports links:
//
//	if lb, ok := backend.(core.LinkBackend); ok {
//	    st, err := lb.Lstat(ctx, "link")
//	}
type LinkBackend interface {
	// Lstat returns a snapshot of the named node without following a final
	// symbolic link.
	Lstat(ctx context.Context, name string) (Stat, error)

	// Symlink creates a symbolic link named newname pointing to oldname.
	Symlink(ctx context.Context, oldname, newname string) error

	// Readlink returns the destination of the named symbolic link.
	Readlink(ctx context.Context, name string) (string, error)
}

// File represents an open stream on a backend node.
//
// Which of Read and Write succeed depends on the flags the file was opened
// with. Content written to a file is only guaranteed to be visible to other
// callers after Close returns nil.
type File interface {
	io.Reader
	io.Writer
	io.Closer

	// Name returns the name of the file as provided to Open.
	Name() string
}
