package fstest

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/jmgilman/go/treefs/core"
)

// TestWrite tests write opens and the visibility of committed content.
func TestWrite(t *testing.T, newBackend Factory, config Config) {
	run(t, "Write", "RoundTrip", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/file.bin", testContent)
		if got := readFile(t, b, "/file.bin"); !bytes.Equal(got, testContent) {
			t.Errorf("round trip: got %q, want %q", got, testContent)
		}
	})

	run(t, "Write", "Overwrite", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/file.txt", []byte("a much longer original"))
		writeFile(t, b, "/file.txt", []byte("short"))
		if got := readFile(t, b, "/file.txt"); string(got) != "short" {
			t.Errorf("after overwrite: got %q, want %q", got, "short")
		}
	})

	run(t, "Write", "ImplicitParents", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/a/b/c.txt", []byte("deep"))
		st, err := b.Stat(context.Background(), "/a/b")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "/a/b", err)
		}
		if !st.IsDirectory() {
			t.Errorf("Stat(%q): IsDirectory() = false, want true", "/a/b")
		}
	})

	run(t, "Write", "Name", newBackend, config, func(t *testing.T, b core.Backend) {
		f, err := b.Open(context.Background(), "/named.txt", os.O_WRONLY|os.O_CREATE)
		if err != nil {
			t.Fatalf("Open(): got error %v, want nil", err)
		}
		defer func() { _ = f.Close() }()
		if f.Name() == "" {
			t.Error("Name(): got empty name")
		}
	})

	run(t, "Write", "UnderFile", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/plain", []byte("x"))
		for _, name := range []string{"/plain/child", "/plain/sub/child"} {
			f, err := b.Open(context.Background(), name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
			if err == nil {
				_ = f.Close()
				t.Errorf("Open(%q) below a file: got nil error, want not a directory", name)
				continue
			}
			if !core.IsNotDirectory(err) {
				t.Errorf("Open(%q) below a file: got %v, want not a directory", name, err)
			}
		}
		st, err := b.Stat(context.Background(), "/plain")
		if err != nil || !st.IsFile() {
			t.Errorf("Stat(%q) after rejected writes: got %+v, %v; want a file", "/plain", st, err)
		}
	})

	run(t, "Write", "EmptyFile", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/empty", nil)
		st, err := b.Stat(context.Background(), "/empty")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "/empty", err)
		}
		if !st.IsFile() || st.Size != 0 {
			t.Errorf("Stat(%q): IsFile() = %v, Size = %d", "/empty", st.IsFile(), st.Size)
		}
	})
}
