// Package vtree implements the virtual tree engine behind the mock backend:
// an in-memory hierarchy of directories and files addressed by slash paths.
//
// Lookups never mutate the tree. When a lookup walks through a segment that is
// missing (or is a file), it continues against a freshly allocated, detached
// directory and records a pending splice. The splices are applied only when
// Handle.Set commits a value, so a write that is never committed leaves no
// intermediate directories behind.
//
// A Tree is not safe for concurrent use; callers serialize access.
package vtree

import (
	"time"

	"github.com/jmgilman/go/treefs/fspath"
)

// Node is either a *Directory or a *File.
type Node interface {
	// ModTime returns the time the node was last committed.
	ModTime() time.Time
}

// Directory maps segment names to child nodes. Entry order is not preserved.
type Directory struct {
	Entries map[string]Node
	modTime time.Time
}

// NewDirectory returns an empty directory stamped with modTime.
func NewDirectory(modTime time.Time) *Directory {
	return &Directory{Entries: make(map[string]Node), modTime: modTime}
}

// ModTime implements Node.
func (d *Directory) ModTime() time.Time { return d.modTime }

// Names returns the entry names in map order.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.Entries))
	for name := range d.Entries {
		names = append(names, name)
	}
	return names
}

// File is a leaf holding opaque content.
type File struct {
	Data    []byte
	modTime time.Time
}

// NewFile returns a file holding data stamped with modTime. data is not copied.
func NewFile(data []byte, modTime time.Time) *File {
	return &File{Data: data, modTime: modTime}
}

// ModTime implements Node.
func (f *File) ModTime() time.Time { return f.modTime }

// Tree is a rooted virtual tree.
type Tree struct {
	root *Directory
	now  func() time.Time
}

// Option configures a Tree.
type Option func(*Tree)

// WithClock sets the clock used to stamp committed nodes.
func WithClock(now func() time.Time) Option {
	return func(t *Tree) {
		t.now = now
	}
}

// New returns an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.root = NewDirectory(t.now())
	return t
}

// Root returns the root directory.
func (t *Tree) Root() *Directory { return t.root }

// Now returns the current time of the tree's clock.
func (t *Tree) Now() time.Time { return t.now() }

// splice links a detached directory into its parent.
type splice struct {
	parent *Directory
	name   string
	child  *Directory
}

// Find resolves path to a handle. The path is normalized first; absolute and
// relative paths both resolve from the root, and the empty path (or "." or
// "/") resolves to the root itself. Find never mutates the tree.
func (t *Tree) Find(path string) *Handle {
	// anchoring at the root also clamps leading ".." segments
	segs := fspath.Split(fspath.Join("/", path))[1:]
	if len(segs) == 0 {
		return &Handle{tree: t, root: true}
	}

	h := &Handle{tree: t, parent: t.root, name: segs[len(segs)-1]}
	at := t.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := at.Entries[seg].(*Directory)
		if !ok {
			if at.Entries[seg] != nil {
				h.shadowed = true
			}
			next = NewDirectory(time.Time{})
			h.pending = append(h.pending, splice{parent: at, name: seg, child: next})
		}
		at = next
	}
	h.parent = at
	return h
}

// Handle is a resolved position in a tree. It gives get and set access to the
// position whether or not it currently holds a node.
type Handle struct {
	tree     *Tree
	root     bool
	parent   *Directory
	name     string
	pending  []splice
	shadowed bool
}

// Get returns the node at the handle's position, or nil.
func (h *Handle) Get() Node {
	if h.root {
		return h.tree.root
	}
	if n, ok := h.parent.Entries[h.name]; ok {
		return n
	}
	return nil
}

// Set commits n at the handle's position. Pending intermediate directories
// are spliced into the tree first, root to leaf. Setting the root requires a
// *Directory; other nodes are ignored there.
func (h *Handle) Set(n Node) {
	if h.root {
		if d, ok := n.(*Directory); ok {
			h.tree.root = d
		}
		return
	}
	parent := h.parent
	if len(h.pending) > 0 {
		now := h.tree.now()
		at := h.pending[0].parent
		for _, s := range h.pending {
			// another commit may have created the directory since Find
			if existing, ok := at.Entries[s.name].(*Directory); ok {
				at = existing
				continue
			}
			s.child.modTime = now
			at.Entries[s.name] = s.child
			at = s.child
		}
		parent = at
		h.parent = at
		h.pending = nil
	}
	parent.Entries[h.name] = n
}

// Delete removes the node at the handle's position. It reports whether a node
// was removed. The root and unmaterialized positions cannot be deleted.
func (h *Handle) Delete() bool {
	if h.root || len(h.pending) > 0 {
		return false
	}
	if _, ok := h.parent.Entries[h.name]; !ok {
		return false
	}
	delete(h.parent.Entries, h.name)
	return true
}

// Name returns the final segment of the resolved path, or "/" for the root.
func (h *Handle) Name() string {
	if h.root {
		return "/"
	}
	return h.name
}

// IsRoot reports whether the handle addresses the tree root.
func (h *Handle) IsRoot() bool { return h.root }

// Pending reports whether committing through this handle would create
// intermediate directories.
func (h *Handle) Pending() bool { return len(h.pending) > 0 }

// Shadowed reports whether an intermediate segment currently holds a file.
// Committing through a shadowed handle replaces that file with a directory.
func (h *Handle) Shadowed() bool { return h.shadowed }

// Exists reports whether a node is present at the handle's position.
func (h *Handle) Exists() bool { return h.Get() != nil }

// IsFile reports whether the node at the position is a file.
func (h *Handle) IsFile() bool {
	_, ok := h.Get().(*File)
	return ok
}

// IsDirectory reports whether the node at the position is a directory.
func (h *Handle) IsDirectory() bool {
	_, ok := h.Get().(*Directory)
	return ok
}
