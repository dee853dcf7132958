// Package treefs provides filesystem handles over interchangeable storage
// backends and the tree algorithms written once against them.
//
// An FS binds a core.Backend to a working-directory resolver. Relative paths
// passed to an FS are resolved against that working directory; results of
// tree walks are rendered in the form the caller used.
//
// # Backends
//
//   - NewDisk: the host filesystem through go-billy's osfs
//   - NewMemory: go-billy's memfs
//   - NewMock, NewMockObject: the virtual tree in package mock
//   - New: any core.Backend, such as the S3-compatible backend in package minio
//   - Open: a backend chosen by a config.Config
//
// # Tree algorithms
//
// ListTree walks a subtree in pre-order, consulting a Guard for every node.
// MakeTree and RemoveTree create and remove whole paths. Reroot descends
// through chains of single-directory entries. ToObject, Merge and Snapshot
// flatten trees into path to content maps and build mock handles from them.
//
// Basic usage:
//
//	fsys := treefs.NewMock(map[string][]byte{"a/b/1": []byte("x")})
//	paths, err := fsys.ListTree(ctx, "/", nil)
//	if err != nil {
//	    return err
//	}
package treefs
