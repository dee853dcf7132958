package treefs

import (
	"context"
	"maps"
	"slices"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/fspath"
	"github.com/jmgilman/go/treefs/mock"
)

// readConcurrency caps the file reads ToObject issues at once.
const readConcurrency = 32

// ToObject reads every file under base and returns its content keyed by the
// path relative to base. Directories are not represented. A base naming a
// file yields that file keyed by its base name.
func (f *FS) ToObject(ctx context.Context, base string) (map[string][]byte, error) {
	if base == "" {
		base = "."
	}
	paths, err := f.ListTree(ctx, base, filesOnly)
	if err != nil {
		return nil, err
	}

	files := xsync.NewMap[string, []byte]()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for _, p := range paths {
		g.Go(func() error {
			data, err := f.Read(gctx, p)
			if err != nil {
				if core.IsNotExist(err) {
					f.logger.Debug().Str("path", p).Msg("skipping vanished file")
					return nil
				}
				return err
			}
			key := f.RelativeFromDirectory(base, p)
			if key == "." {
				// base is the file itself
				key = f.syntax.Base(f.Absolute(p))
			}
			files.Store(key, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]byte, files.Size())
	files.Range(func(key string, data []byte) bool {
		out[key] = data
		return true
	})
	return out, nil
}

// Merge flattens the files of every handle, relative to each handle's
// working directory, into a new mock handle. Handles are read concurrently
// and applied in order, so later handles win on collisions.
func Merge(ctx context.Context, handles []*FS, opts ...Option) (*FS, error) {
	objects := make([]map[string][]byte, len(handles))
	g, gctx := errgroup.WithContext(ctx)
	for i, h := range handles {
		g.Go(func() error {
			obj, err := h.ToObject(gctx, ".")
			objects[i] = obj
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	backend := mock.New(nil)
	seen := make(map[string]struct{})
	for i, obj := range objects {
		for _, key := range slices.Sorted(maps.Keys(obj)) {
			path := fspath.Join("/", toSlash(handles[i].syntax, key))
			if _, ok := seen[path]; ok {
				handles[i].logger.Debug().Str("path", path).Msg("overriding merged file")
			}
			seen[path] = struct{}{}
			// Put replaces a file or directory left by an earlier handle
			if err := backend.Put(path, obj[key]); err != nil {
				return nil, core.WrapPathError("merge", key, core.NoFlags, err)
			}
		}
	}
	return New(backend, opts...), nil
}

// Snapshot copies the files under base into a new mock handle rooted at
// base. Empty directories are not copied. Snapshotting a file yields a
// handle holding only that file at its base name.
func (f *FS) Snapshot(ctx context.Context, base string) (*FS, error) {
	files, err := f.ToObject(ctx, base)
	if err != nil {
		return nil, err
	}
	flat := make(map[string][]byte, len(files))
	for key, data := range files {
		flat[toSlash(f.syntax, key)] = data
	}
	return NewMock(flat, WithSyntax(f.syntax), WithLogger(f.base)), nil
}

// toSlash rewrites a path of syntax s into the slash form mock keys use.
func toSlash(s fspath.Syntax, p string) string {
	return fspath.JoinSegments(s.Split(p))
}
