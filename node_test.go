package treefs

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/errors"
	"github.com/jmgilman/go/treefs/mock"
)

func TestWriteRead_BinaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	content := []byte{0x00, 0xff, 0xfe, 'a', '\n', 0x80, 0x00}

	for name, fsys := range map[string]*FS{
		"mock":   NewMock(nil),
		"memory": NewMemory(),
		"disk":   newDisk(t),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, fsys.Write(ctx, "/deep/path/blob.bin", content))

			got, err := fsys.Read(ctx, "/deep/path/blob.bin")
			require.NoError(t, err)
			assert.Equal(t, content, got)
		})
	}
}

func TestWrite_Truncates(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"f": []byte("long content")})

	require.NoError(t, fsys.Write(ctx, "f", []byte("short")))
	got, err := fsys.Read(ctx, "f")
	require.NoError(t, err)
	assert.Equal(t, "short", string(got))
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(nil)

	require.NoError(t, fsys.Append(ctx, "/log", []byte("a")))
	require.NoError(t, fsys.Append(ctx, "/log", []byte("b")))

	got, err := fsys.Read(ctx, "/log")
	require.NoError(t, err)
	assert.Equal(t, "ab", string(got))
}

func TestRead_Errors(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"dir/f": nil})

	_, err := fsys.Read(ctx, "/missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	var platformErr errors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, "open", platformErr.Context()["op"])
	assert.Equal(t, "/missing", platformErr.Context()["path"])
	assert.Equal(t, "O_RDONLY", platformErr.Context()["flags"])

	_, err = fsys.Read(ctx, "/dir")
	assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))
}

func TestWrite_UnderFile(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"f": []byte("x")})

	err := fsys.Write(ctx, "/f/child", []byte("y"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotADirectory, errors.GetCode(err))
}

func TestPredicates(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"dir/file.txt": []byte("x")})

	tests := []struct {
		path           string
		exists, isFile bool
		isDirectory    bool
	}{
		{"/", true, false, true},
		{"/dir", true, false, true},
		{"dir", true, false, true},
		{"/dir/file.txt", true, true, false},
		{"/dir/missing", false, false, false},
		{"/dir/file.txt/below", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.exists, fsys.Exists(ctx, tt.path))
			assert.Equal(t, tt.isFile, fsys.IsFile(ctx, tt.path))
			assert.Equal(t, tt.isDirectory, fsys.IsDirectory(ctx, tt.path))
		})
	}
}

func TestPredicates_LogUnexpectedErrors(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	fsys := New(failingBackend{Backend: mock.New(nil), err: fs.ErrPermission}, WithLogger(logger))
	assert.False(t, fsys.Exists(ctx, "/x"))
	assert.Contains(t, buf.String(), "stat failed")

	buf.Reset()
	quiet := New(failingBackend{Backend: mock.New(nil), err: fs.ErrNotExist}, WithLogger(logger))
	assert.False(t, quiet.IsDirectory(ctx, "/x"))
	assert.Empty(t, buf.String())
}

func TestLastModified(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fsys := New(mock.New(map[string][]byte{"f": nil}, mock.WithClock(func() time.Time { return stamp })))

	got, err := fsys.LastModified(ctx, "/f")
	require.NoError(t, err)
	assert.True(t, stamp.Equal(got))

	_, err = fsys.LastModified(ctx, "/missing")
	assert.True(t, core.IsNotExist(err))
}

func TestOpen_Flags(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"f": []byte("x")})

	_, err := fsys.Open(ctx, "/f", os.O_WRONLY|os.O_CREATE|os.O_EXCL)
	assert.Equal(t, errors.CodeAlreadyExists, errors.GetCode(err))

	_, err = fsys.Open(ctx, "/f", os.O_RDWR)
	assert.Equal(t, errors.CodeNotSupported, errors.GetCode(err))
}

func TestDirectoryOperations(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(nil)

	require.NoError(t, fsys.MakeDirectory(ctx, "/a", 0o755))
	assert.True(t, fsys.IsDirectory(ctx, "/a"))

	err := fsys.MakeDirectory(ctx, "/a", 0o755)
	assert.True(t, core.IsExist(err))

	err = fsys.MakeDirectory(ctx, "/x/y", 0o755)
	assert.True(t, core.IsNotExist(err))

	require.NoError(t, fsys.Write(ctx, "/a/f", []byte("f")))
	err = fsys.RemoveDirectory(ctx, "/a")
	assert.Equal(t, errors.CodeNotEmpty, errors.GetCode(err))

	err = fsys.Remove(ctx, "/a")
	assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))

	require.NoError(t, fsys.Remove(ctx, "/a/f"))
	require.NoError(t, fsys.RemoveDirectory(ctx, "/a"))
	assert.False(t, fsys.Exists(ctx, "/a"))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"d/a": nil, "d/b": nil, "f": nil})

	names, err := fsys.List(ctx, "/d")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, names)

	_, err = fsys.List(ctx, "/f")
	assert.True(t, core.IsNotDirectory(err))
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	fsys := newDisk(t)

	require.NoError(t, fsys.Write(ctx, "/target.txt", []byte("t")))
	require.NoError(t, fsys.Symlink(ctx, "target.txt", "/link"))

	target, err := fsys.Readlink(ctx, "/link")
	require.NoError(t, err)
	assert.Equal(t, "target.txt", target)

	st, err := fsys.Lstat(ctx, "/link")
	require.NoError(t, err)
	assert.True(t, st.IsSymbolicLink())

	st, err = fsys.Stat(ctx, "/link")
	require.NoError(t, err)
	assert.True(t, st.IsFile())
}

func TestSymbolicCopy(t *testing.T) {
	ctx := context.Background()
	fsys := NewMemory()

	require.NoError(t, fsys.Write(ctx, "/a/src.txt", []byte("source")))
	require.NoError(t, fsys.MakeTree(ctx, "/b/c", 0o755))
	require.NoError(t, fsys.SymbolicCopy(ctx, "/a/src.txt", "/b/c/link"))

	target, err := fsys.Readlink(ctx, "/b/c/link")
	require.NoError(t, err)
	assert.Equal(t, "../../a/src.txt", target)

	st, err := fsys.Lstat(ctx, "/b/c/link")
	require.NoError(t, err)
	assert.True(t, st.IsSymbolicLink())

	got, err := fsys.Read(ctx, "/b/c/link")
	require.NoError(t, err)
	assert.Equal(t, "source", string(got))

	require.NoError(t, fsys.SymbolicCopy(ctx, "/a/src.txt", "/a/sibling"))
	target, err = fsys.Readlink(ctx, "/a/sibling")
	require.NoError(t, err)
	assert.Equal(t, "src.txt", target)
}

func TestSymbolicCopy_Unsupported(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"src": nil})

	err := fsys.SymbolicCopy(ctx, "/src", "/copy")
	assert.Equal(t, errors.CodeNotSupported, errors.GetCode(err))
}

func TestLinks_Unsupported(t *testing.T) {
	ctx := context.Background()
	fsys := NewMock(map[string][]byte{"f": nil})

	err := fsys.Symlink(ctx, "f", "/link")
	assert.Equal(t, errors.CodeNotSupported, errors.GetCode(err))

	_, err = fsys.Readlink(ctx, "/f")
	assert.Equal(t, errors.CodeNotSupported, errors.GetCode(err))

	st, err := fsys.Lstat(ctx, "/f")
	require.NoError(t, err)
	assert.True(t, st.IsFile())
}
