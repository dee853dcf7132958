package mock

import (
	"bytes"
	"io/fs"
	"sync"

	"github.com/jmgilman/go/treefs/core"
)

// reader serves a snapshot of a file's content taken at Open.
type reader struct {
	name   string
	r      *bytes.Reader
	closed bool
}

func newReader(name string, data []byte) *reader {
	return &reader{name: name, r: bytes.NewReader(clone(data))}
}

func (f *reader) Read(p []byte) (int, error) {
	if f.closed {
		return 0, core.PathError("read", f.name, fs.ErrClosed)
	}
	return f.r.Read(p)
}

func (f *reader) Write([]byte) (int, error) {
	return 0, core.PathError("write", f.name, fs.ErrPermission)
}

func (f *reader) Close() error {
	if f.closed {
		return core.PathError("close", f.name, fs.ErrClosed)
	}
	f.closed = true
	return nil
}

func (f *reader) Name() string { return f.name }

// writer buffers content until Close, which commits it to the tree.
type writer struct {
	name   string
	commit func(name string, data []byte) error

	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

func newWriter(name string, initial []byte, commit func(string, []byte) error) *writer {
	w := &writer{name: name, commit: commit}
	w.buf.Write(initial)
	return w
}

func (f *writer) Read([]byte) (int, error) {
	return 0, core.PathError("read", f.name, fs.ErrPermission)
}

func (f *writer) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, core.PathError("write", f.name, fs.ErrClosed)
	}
	return f.buf.Write(p)
}

func (f *writer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return core.PathError("close", f.name, fs.ErrClosed)
	}
	f.closed = true
	return f.commit(f.name, clone(f.buf.Bytes()))
}

func (f *writer) Name() string { return f.name }

var (
	_ core.File = (*reader)(nil)
	_ core.File = (*writer)(nil)
)
