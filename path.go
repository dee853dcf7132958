package treefs

import (
	"context"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/errors"
	"github.com/jmgilman/go/treefs/fspath"
)

// maxLinkHops bounds symbolic link resolution in Canonical.
const maxLinkHops = 40

// Join joins path elements in the handle's syntax.
func (f *FS) Join(elem ...string) string {
	return f.syntax.Join(elem...)
}

// Absolute resolves p against the working directory and normalizes it.
func (f *FS) Absolute(p string) string {
	return f.syntax.Normalize(f.syntax.Absolute(p, f.wd()))
}

// RelativeFromFile returns the path from the directory containing the file
// source to target.
func (f *FS) RelativeFromFile(source, target string) string {
	return f.syntax.RelativeFromFile(source, target, f.wd())
}

// RelativeFromDirectory returns the path from the directory source to target.
// An empty target yields the path from the working directory to source.
func (f *FS) RelativeFromDirectory(source, target string) string {
	return f.syntax.RelativeFromDirectory(source, target, f.wd())
}

// Relative returns the path from source to target, treating source as a
// directory when it is one on the backend and as a file otherwise.
func (f *FS) Relative(ctx context.Context, source, target string) string {
	if f.IsDirectory(ctx, source) {
		return f.RelativeFromDirectory(source, target)
	}
	return f.RelativeFromFile(source, target)
}

// Contains reports whether child lies strictly below parent.
func (f *FS) Contains(parent, child string) bool {
	return f.syntax.Contains(parent, child, f.wd())
}

// Canonical returns the absolute normalized form of p with every symbolic
// link resolved. On backends without links it is the same as Absolute and
// performs no I/O. With links, every segment must exist.
func (f *FS) Canonical(ctx context.Context, p string) (string, error) {
	lb, ok := f.backend.(core.LinkBackend)
	if !ok {
		return f.Absolute(p), nil
	}

	pending := fspath.Split(f.resolve(p))[1:]
	resolved := []string{""}
	hops := 0

	for len(pending) > 0 {
		seg := pending[0]
		pending = pending[1:]

		if seg == ".." {
			if len(resolved) > 1 {
				resolved = resolved[:len(resolved)-1]
			}
			continue
		}

		next := append(resolved[:len(resolved):len(resolved)], seg)
		name := fspath.JoinSegments(next)
		st, err := lb.Lstat(ctx, name)
		if err != nil {
			return "", core.WrapPathError("canonical", p, core.NoFlags, err)
		}
		if !st.IsSymbolicLink() {
			resolved = next
			continue
		}

		hops++
		if hops > maxLinkHops {
			return "", errors.WithContextMap(
				errors.New(errors.CodeInvalidInput, "too many levels of symbolic links"),
				map[string]interface{}{"op": "canonical", "path": p},
			)
		}
		target, err := lb.Readlink(ctx, name)
		if err != nil {
			return "", core.WrapPathError("canonical", p, core.NoFlags, err)
		}

		segs := fspath.Split(target)
		if fspath.IsAbsolute(target) {
			resolved = []string{""}
			segs = segs[1:]
		}
		pending = append(segs, pending...)
	}

	return f.syntax.JoinSegments(resolved), nil
}
