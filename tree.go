package treefs

import (
	"context"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/treefs/core"
)

// Decision is a Guard's verdict on a node.
type Decision int

const (
	// Include reports the node and descends into it.
	Include Decision = iota
	// Exclude omits the node but still descends into it.
	Exclude
	// Prune omits the node and its subtree.
	Prune
)

// Guard decides per node whether ListTree reports it and whether it
// descends. The path is in the caller's form. Sibling subtrees are walked
// concurrently, so a Guard must be safe for concurrent use.
type Guard func(p string, st core.Stat) Decision

// listConcurrency caps the sibling subtrees listed at once per directory.
const listConcurrency = 16

func includeAll(string, core.Stat) Decision { return Include }

func directoriesOnly(_ string, st core.Stat) Decision {
	if st.IsDirectory() {
		return Include
	}
	return Prune
}

func filesOnly(_ string, st core.Stat) Decision {
	if st.IsFile() {
		return Include
	}
	return Exclude
}

// ListTree returns the paths under base, base included, in depth-first
// pre-order. Siblings follow the backend's listing order. A nil guard
// includes everything.
//
// Paths are joined onto base as given, so a relative base yields relative
// paths and an empty base is ".". Nodes that vanish during the walk are
// skipped. Symbolic links are reported but never followed.
func (f *FS) ListTree(ctx context.Context, base string, guard Guard) ([]string, error) {
	if base == "" {
		base = "."
	}
	if guard == nil {
		guard = includeAll
	}
	return f.listTree(ctx, base, guard)
}

// ListDirectoryTree returns the directories under base, base included.
func (f *FS) ListDirectoryTree(ctx context.Context, base string) ([]string, error) {
	return f.ListTree(ctx, base, directoriesOnly)
}

func (f *FS) listTree(ctx context.Context, p string, guard Guard) ([]string, error) {
	st, err := f.Lstat(ctx, p)
	if err != nil {
		if core.IsNotExist(err) {
			f.logger.Debug().Str("path", p).Msg("skipping vanished entry")
			return nil, nil
		}
		return nil, err
	}

	decision := guard(p, st)
	var paths []string
	if decision == Include {
		paths = append(paths, p)
	}
	if decision == Prune || !st.IsDirectory() {
		return paths, nil
	}

	names, err := f.List(ctx, p)
	if err != nil {
		if core.IsNotExist(err) {
			f.logger.Debug().Str("path", p).Msg("directory vanished before listing")
			return paths, nil
		}
		return nil, err
	}

	branches := make([][]string, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, name := range names {
		g.Go(func() error {
			branch, err := f.listTree(gctx, f.syntax.Join(p, name), guard)
			branches[i] = branch
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, branch := range branches {
		paths = append(paths, branch...)
	}
	return paths, nil
}

// MakeTree creates p and every missing ancestor, root to leaf. Existing
// directories along the way are not an error, so calling it twice is safe.
func (f *FS) MakeTree(ctx context.Context, p string, perm fs.FileMode) error {
	segs := f.syntax.Split(p)
	start := 0
	if len(segs) > 0 && segs[0] == "" {
		start = 1
	}

	for i := start; i < len(segs); i++ {
		prefix := f.syntax.JoinSegments(segs[:i+1])
		err := f.MakeDirectory(ctx, prefix, perm)
		switch {
		case err == nil:
		case core.IsExist(err):
			f.logger.Debug().Str("path", prefix).Msg("directory already exists")
		default:
			return err
		}
	}
	return nil
}

// RemoveTree removes p and everything below it. Children are removed one at
// a time. Symbolic links are removed, never followed. Removing the root
// empties it.
func (f *FS) RemoveTree(ctx context.Context, p string) error {
	st, err := f.Lstat(ctx, p)
	if err != nil {
		return err
	}
	if !st.IsDirectory() {
		return f.Remove(ctx, p)
	}

	names, err := f.List(ctx, p)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := f.RemoveTree(ctx, f.syntax.Join(p, name)); err != nil {
			return err
		}
	}

	if f.resolve(p) == "/" {
		return nil
	}
	err = f.RemoveDirectory(ctx, p)
	if err != nil && len(names) > 0 && core.IsNotExist(err) {
		// implicit directories of object stores go away with their last entry
		return nil
	}
	return err
}

// Reroot descends from p while the current directory holds exactly one
// entry and that entry is a directory, then returns a handle rooted where
// it stopped. A p that is not a directory is used as is. An empty p starts
// at the root of the handle.
func (f *FS) Reroot(ctx context.Context, p string) (*FS, error) {
	if p == "" {
		p = f.syntax.JoinSegments([]string{""})
	}

	for {
		names, err := f.List(ctx, p)
		if err != nil {
			if core.IsNotDirectory(err) {
				break
			}
			return nil, err
		}
		if len(names) != 1 {
			break
		}

		next := f.syntax.Join(p, names[0])
		if !f.IsDirectory(ctx, next) {
			break
		}
		f.logger.Debug().Str("from", p).Str("to", next).Msg("descending into single directory")
		p = next
	}

	return f.Chroot(ctx, p)
}
