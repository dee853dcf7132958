package treefs

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jmgilman/go/treefs/billy"
	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/fspath"
	"github.com/jmgilman/go/treefs/mock"
)

// FS is a filesystem handle. Its identity and working directory are fixed at
// construction; the content behind it belongs to the backend.
type FS struct {
	backend core.Backend
	wd      func() string
	syntax  fspath.Syntax
	base    zerolog.Logger
	logger  zerolog.Logger
	id      uuid.UUID
}

// Option configures an FS.
type Option func(*FS)

// WithWorkingDirectory fixes the directory relative paths resolve against.
func WithWorkingDirectory(dir string) Option {
	return func(f *FS) {
		f.wd = func() string { return dir }
	}
}

// WithWorkingDirectoryFunc resolves the working directory on every call.
func WithWorkingDirectoryFunc(wd func() string) Option {
	return func(f *FS) {
		f.wd = wd
	}
}

// WithSyntax sets the path syntax callers use. Backends always receive
// slash-separated names.
func WithSyntax(s fspath.Syntax) Option {
	return func(f *FS) {
		f.syntax = s
	}
}

// WithLogger sets the logger used for debug events. The default discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(f *FS) {
		f.logger = l
	}
}

// New returns a handle over backend. Unless an option sets one, the working
// directory is the root.
func New(backend core.Backend, opts ...Option) *FS {
	f := &FS{
		backend: backend,
		syntax:  fspath.Slash,
		logger:  zerolog.Nop(),
		id:      uuid.New(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.wd == nil {
		root := f.syntax.JoinSegments([]string{""})
		f.wd = func() string { return root }
	}
	f.base = f.logger
	f.logger = f.base.With().
		Str("fs", f.id.String()).
		Str("backend", backend.Type().String()).
		Logger()
	return f
}

// NewDisk returns a handle over the host filesystem. Relative paths resolve
// against the process working directory at call time.
func NewDisk(opts ...Option) *FS {
	return New(billy.NewLocal(), append([]Option{WithWorkingDirectoryFunc(processDirectory)}, opts...)...)
}

// NewMemory returns a handle over an empty go-billy memory filesystem.
func NewMemory(opts ...Option) *FS {
	return New(billy.NewMemory(), opts...)
}

// NewMock returns a handle over a virtual tree seeded from a flat map of
// path to content.
func NewMock(files map[string][]byte, opts ...Option) *FS {
	return New(mock.New(files), opts...)
}

// NewMockObject returns a handle over a virtual tree seeded from a nested
// object. See mock.FromObject for the accepted value types.
func NewMockObject(obj map[string]any, opts ...Option) (*FS, error) {
	backend, err := mock.FromObject(obj)
	if err != nil {
		return nil, err
	}
	return New(backend, opts...), nil
}

// ID returns the identity of the handle.
func (f *FS) ID() uuid.UUID { return f.id }

// Backend returns the underlying backend.
func (f *FS) Backend() core.Backend { return f.backend }

// Type returns the storage type of the backend.
func (f *FS) Type() core.FSType { return f.backend.Type() }

// Syntax returns the path syntax of the handle.
func (f *FS) Syntax() fspath.Syntax { return f.syntax }

// WorkingDirectory returns the current working directory of the handle.
func (f *FS) WorkingDirectory() string { return f.wd() }

// derive returns a fresh handle over backend sharing syntax and logger.
// Derived handles resolve relative paths against their own root.
func (f *FS) derive(backend core.Backend) *FS {
	return New(backend, WithSyntax(f.syntax), WithLogger(f.base))
}

// resolve converts a caller path into the absolute slash-separated name the
// backend expects.
func (f *FS) resolve(p string) string {
	return fspath.JoinSegments(f.syntax.Split(f.syntax.Absolute(p, f.wd())))
}

func processDirectory() string {
	dir, err := os.Getwd()
	if err != nil {
		return "/"
	}
	return dir
}
