// Package billy provides go-billy-backed implementations of core.Backend.
//
// NewLocal wraps go-billy's osfs and is the disk backend; NewMemory wraps
// memfs and gives disk semantics without touching the host filesystem. Both
// implement core.LinkBackend. Unwrap exposes the underlying billy.Filesystem
// for go-git integration.
//
// Usage:
//
//	backend := billy.NewLocal(billy.WithRoot(dir))
//	names, err := backend.List(ctx, "/")
//
// Write opens with os.O_CREATE create missing parent directories, as go-billy
// does. MakeDirectory creates a single level and requires the parent.
//
// # Thread Safety
//
// Backends are safe for concurrent use by multiple goroutines. File handles
// are not.
package billy
