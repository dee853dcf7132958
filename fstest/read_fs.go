package fstest

import (
	"bytes"
	"context"
	"os"
	"slices"
	"testing"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/errors"
)

// testContent includes bytes that are not valid UTF-8 so that backends which
// mangle content through a text encoding are caught.
var testContent = []byte("test file content\x00\xff\xfe")

// TestRead tests Stat, List and read-only Open.
func TestRead(t *testing.T, newBackend Factory, config Config) {
	setup := func(t *testing.T, b core.Backend) {
		t.Helper()
		writeFile(t, b, "/testdir/testfile.txt", testContent)
		writeFile(t, b, "/testdir/other.txt", nil)
		writeFile(t, b, "/testdir/sub/nested.txt", []byte("n"))
	}

	run(t, "Read", "StatFile", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		st, err := b.Stat(context.Background(), "/testdir/testfile.txt")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "/testdir/testfile.txt", err)
		}
		if !st.IsFile() || st.IsDirectory() {
			t.Errorf("Stat(%q): IsFile() = %v, IsDirectory() = %v", "/testdir/testfile.txt", st.IsFile(), st.IsDirectory())
		}
		if st.Size != int64(len(testContent)) {
			t.Errorf("Stat(%q): Size = %d, want %d", "/testdir/testfile.txt", st.Size, len(testContent))
		}
		if st.Name != "testfile.txt" {
			t.Errorf("Stat(%q): Name = %q, want %q", "/testdir/testfile.txt", st.Name, "testfile.txt")
		}
	})

	run(t, "Read", "StatDirectory", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		for _, name := range []string{"/", "/testdir", "/testdir/sub"} {
			st, err := b.Stat(context.Background(), name)
			if err != nil {
				t.Errorf("Stat(%q): got error %v, want nil", name, err)
				continue
			}
			if !st.IsDirectory() {
				t.Errorf("Stat(%q): IsDirectory() = false, want true", name)
			}
		}
	})

	run(t, "Read", "StatNotExist", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		_, err := b.Stat(context.Background(), "/testdir/missing.txt")
		if !core.IsNotExist(err) {
			t.Errorf("Stat(missing): got error %v, want not exist", err)
		}
	})

	run(t, "Read", "List", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		got := list(t, b, "/testdir")
		want := []string{"other.txt", "sub", "testfile.txt"}
		if !slices.Equal(got, want) {
			t.Errorf("List(%q): got %v, want %v", "/testdir", got, want)
		}
		if got := list(t, b, "/"); !slices.Equal(got, []string{"testdir"}) {
			t.Errorf("List(%q): got %v, want %v", "/", got, []string{"testdir"})
		}
	})

	run(t, "Read", "ListRelativeName", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		if got := list(t, b, "testdir/sub"); !slices.Equal(got, []string{"nested.txt"}) {
			t.Errorf("List(%q): got %v, want %v", "testdir/sub", got, []string{"nested.txt"})
		}
	})

	run(t, "Read", "ListFile", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		_, err := b.List(context.Background(), "/testdir/testfile.txt")
		if !core.IsNotDirectory(err) {
			t.Errorf("List(file): got error %v, want not a directory", err)
		}
	})

	run(t, "Read", "ListNotExist", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		_, err := b.List(context.Background(), "/nope")
		if !core.IsNotExist(err) {
			t.Errorf("List(missing): got error %v, want not exist", err)
		}
	})

	run(t, "Read", "Open", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		if got := readFile(t, b, "/testdir/testfile.txt"); !bytes.Equal(got, testContent) {
			t.Errorf("read %q: got %q, want %q", "/testdir/testfile.txt", got, testContent)
		}
		if got := readFile(t, b, "/testdir/other.txt"); len(got) != 0 {
			t.Errorf("read %q: got %q, want empty", "/testdir/other.txt", got)
		}
	})

	run(t, "Read", "OpenNotExist", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		_, err := b.Open(context.Background(), "/testdir/missing.txt", os.O_RDONLY)
		if !core.IsNotExist(err) {
			t.Errorf("Open(missing): got error %v, want not exist", err)
		}
	})

	run(t, "Read", "OpenDirectory", newBackend, config, func(t *testing.T, b core.Backend) {
		setup(t, b)
		_, err := b.Open(context.Background(), "/testdir", os.O_RDONLY)
		if core.Classify(err) != errors.CodeIsADirectory {
			t.Errorf("Open(directory): got error %v, want is a directory", err)
		}
	})
}
