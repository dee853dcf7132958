// Package fspath implements the path algebra used by treefs: splitting,
// joining, normalization, absolute resolution, containment and relative path
// computation. Nothing in this package performs I/O.
//
// The root of an absolute path is represented by a single empty leading
// segment, so Split("/") is [""] and Split("/a") is ["", "a"]. Every
// comparison in this package goes through Split, which keeps root-level paths
// consistent on both sides of a comparison.
package fspath

import "strings"

// Syntax describes the textual form of paths.
type Syntax struct {
	// Separator separates segments and marks absolute paths when leading.
	Separator string
}

// Slash is the forward-slash syntax used by every built-in backend.
var Slash = Syntax{Separator: "/"}

func (s Syntax) sep() string {
	if s.Separator == "" {
		return "/"
	}
	return s.Separator
}

// IsAbsolute reports whether p begins with the root separator.
func (s Syntax) IsAbsolute(p string) bool {
	return strings.HasPrefix(p, s.sep())
}

// Normalize returns the shortest equivalent form of p. Empty and "."
// segments are dropped and ".." is resolved lexically; leading ".." segments
// of relative paths are kept, those of absolute paths are discarded.
// An empty result is ".".
func (s Syntax) Normalize(p string) string {
	if p == "" {
		return "."
	}
	segs := s.clean(p)
	if s.IsAbsolute(p) {
		return s.sep() + strings.Join(segs, s.sep())
	}
	if len(segs) == 0 {
		return "."
	}
	return strings.Join(segs, s.sep())
}

func (s Syntax) clean(p string) []string {
	abs := s.IsAbsolute(p)
	var out []string
	for _, seg := range strings.Split(p, s.sep()) {
		switch seg {
		case "", ".":
		case "..":
			switch {
			case len(out) > 0 && out[len(out)-1] != "..":
				out = out[:len(out)-1]
			case !abs:
				out = append(out, seg)
			}
		default:
			out = append(out, seg)
		}
	}
	return out
}

// Split returns the segments of the normalized form of p. An absolute path
// starts with the empty root segment; "." yields no segments.
func (s Syntax) Split(p string) []string {
	segs := s.clean(p)
	if s.IsAbsolute(p) {
		return append([]string{""}, segs...)
	}
	return segs
}

// JoinSegments is the inverse of Split: JoinSegments(Split(p)) == Normalize(p).
func (s Syntax) JoinSegments(segs []string) string {
	if len(segs) == 0 {
		return "."
	}
	if segs[0] == "" {
		return s.Normalize(s.sep() + strings.Join(segs[1:], s.sep()))
	}
	return s.Normalize(strings.Join(segs, s.sep()))
}

// Join joins any number of path elements and normalizes the result. Empty
// elements are ignored.
func (s Syntax) Join(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		if e != "" {
			parts = append(parts, e)
		}
	}
	if len(parts) == 0 {
		return "."
	}
	return s.Normalize(strings.Join(parts, s.sep()))
}

// Base returns the last segment of p, "." for an empty relative path and the
// separator for the root.
func (s Syntax) Base(p string) string {
	segs := s.Split(p)
	switch {
	case len(segs) == 0:
		return "."
	case len(segs) == 1 && segs[0] == "":
		return s.sep()
	default:
		return segs[len(segs)-1]
	}
}

// Dir returns all but the last segment of p.
func (s Syntax) Dir(p string) string {
	segs := s.Split(p)
	switch {
	case len(segs) == 0:
		return "."
	case len(segs) == 1 && segs[0] == "":
		return s.sep()
	default:
		return s.JoinSegments(segs[:len(segs)-1])
	}
}

// Absolute resolves p against cwd. Absolute paths are returned unchanged.
func (s Syntax) Absolute(p, cwd string) string {
	if s.IsAbsolute(p) {
		return p
	}
	return s.Join(cwd, p)
}

// RelativeFromFile returns the path that leads from the directory containing
// the file source to target.
func (s Syntax) RelativeFromFile(source, target, cwd string) string {
	from := s.Split(s.Absolute(source, cwd))
	if len(from) > 1 {
		from = from[:len(from)-1]
	}
	return s.relate(from, s.Split(s.Absolute(target, cwd)))
}

// RelativeFromDirectory returns the path that leads from the directory source
// to target. With an empty target, the path from cwd to source is returned.
func (s Syntax) RelativeFromDirectory(source, target, cwd string) string {
	if target == "" {
		source, target = cwd, source
	}
	return s.relate(s.Split(s.Absolute(source, cwd)), s.Split(s.Absolute(target, cwd)))
}

func (s Syntax) relate(from, to []string) string {
	i := 0
	for i < len(from) && i < len(to) && from[i] == to[i] {
		i++
	}

	out := make([]string, 0, len(from)-i+len(to)-i)
	for range from[i:] {
		out = append(out, "..")
	}
	out = append(out, to[i:]...)
	if len(out) == 0 {
		return "."
	}
	return strings.Join(out, s.sep())
}

// Contains reports whether child lies strictly below parent. The comparison
// is segment-wise: "/ab" is not contained in "/a".
func (s Syntax) Contains(parent, child, cwd string) bool {
	p := s.Split(s.Absolute(parent, cwd))
	c := s.Split(s.Absolute(child, cwd))
	if len(p) >= len(c) {
		return false
	}
	for i := range p {
		if p[i] != c[i] {
			return false
		}
	}
	return true
}

// IsAbsolute reports whether p is absolute in the Slash syntax.
func IsAbsolute(p string) bool { return Slash.IsAbsolute(p) }

// Normalize normalizes p in the Slash syntax.
func Normalize(p string) string { return Slash.Normalize(p) }

// Split splits p in the Slash syntax.
func Split(p string) []string { return Slash.Split(p) }

// JoinSegments joins segments in the Slash syntax.
func JoinSegments(segs []string) string { return Slash.JoinSegments(segs) }

// Join joins elements in the Slash syntax.
func Join(elem ...string) string { return Slash.Join(elem...) }

// Base returns the last segment of p in the Slash syntax.
func Base(p string) string { return Slash.Base(p) }

// Dir returns the parent of p in the Slash syntax.
func Dir(p string) string { return Slash.Dir(p) }

// Absolute resolves p against cwd in the Slash syntax.
func Absolute(p, cwd string) string { return Slash.Absolute(p, cwd) }

// RelativeFromFile is Slash.RelativeFromFile.
func RelativeFromFile(source, target, cwd string) string {
	return Slash.RelativeFromFile(source, target, cwd)
}

// RelativeFromDirectory is Slash.RelativeFromDirectory.
func RelativeFromDirectory(source, target, cwd string) string {
	return Slash.RelativeFromDirectory(source, target, cwd)
}

// Contains is Slash.Contains.
func Contains(parent, child, cwd string) bool { return Slash.Contains(parent, child, cwd) }
