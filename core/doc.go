// Package core defines the node capability contract shared by every treefs
// backend.
//
// A Backend exposes a small set of primitive operations (Stat, List, Open,
// MakeDirectory, Remove, RemoveDirectory, Chroot). The tree algorithms in the
// treefs package (recursive listing, tree creation and removal, reroot, merge)
// are written once against this interface, so the disk, in-memory and
// object-store backends behave the same way from a caller's point of view.
//
// # Optional capabilities
//
// Backends that support symbolic links also implement LinkBackend. Callers
// check for it with a type assertion:
//
//	if lb, ok := backend.(core.LinkBackend); ok {
//	    target, err := lb.Readlink(ctx, "current")
//	}
//
// # Errors
//
// Backends report failures by wrapping the io/fs sentinels or the sentinels in
// this package (ErrNotDirectory, ErrIsDirectory, ErrNotEmpty, ErrUnsupported).
// WrapPathError converts such a failure into an errors.PlatformError carrying
// the operation, path and open flags.
//
// # Implementations
//
//   - github.com/jmgilman/go/treefs/billy - go-billy disk and memory backends
//   - github.com/jmgilman/go/treefs/mock - virtual tree mock backend
//   - github.com/jmgilman/go/treefs/minio - MinIO/S3 backend
package core
