package fstest

import (
	"context"
	"testing"

	"github.com/jmgilman/go/treefs/core"
	"github.com/jmgilman/go/treefs/errors"
)

// TestManage tests MakeDirectory, Remove and RemoveDirectory.
func TestManage(t *testing.T, newBackend Factory, config Config) {
	ctx := context.Background()

	run(t, "Manage", "MakeDirectory", newBackend, config, func(t *testing.T, b core.Backend) {
		mkdir(t, b, "/dir")
		mkdir(t, b, "/dir/sub")

		st, err := b.Stat(ctx, "/dir/sub")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "/dir/sub", err)
		}
		if !st.IsDirectory() {
			t.Errorf("Stat(%q): IsDirectory() = false, want true", "/dir/sub")
		}
		if got := list(t, b, "/dir/sub"); len(got) != 0 {
			t.Errorf("List(%q): got %v, want empty", "/dir/sub", got)
		}
	})

	run(t, "Manage", "MakeDirectoryExists", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/dir/file.txt", nil)
		for _, name := range []string{"/dir", "/dir/file.txt"} {
			if err := b.MakeDirectory(ctx, name, 0o755); !core.IsExist(err) {
				t.Errorf("MakeDirectory(%q): got error %v, want exist", name, err)
			}
		}
	})

	run(t, "Manage", "MakeDirectoryMissingParent", newBackend, config, func(t *testing.T, b core.Backend) {
		if err := b.MakeDirectory(ctx, "/a/b", 0o755); !core.IsNotExist(err) {
			t.Errorf("MakeDirectory(%q): got error %v, want not exist", "/a/b", err)
		}
	})

	run(t, "Manage", "RemoveFile", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/dir/file.txt", []byte("x"))
		writeFile(t, b, "/dir/keep.txt", []byte("y"))

		if err := b.Remove(ctx, "/dir/file.txt"); err != nil {
			t.Fatalf("Remove(%q): got error %v, want nil", "/dir/file.txt", err)
		}
		if _, err := b.Stat(ctx, "/dir/file.txt"); !core.IsNotExist(err) {
			t.Errorf("Stat(%q) after Remove: got error %v, want not exist", "/dir/file.txt", err)
		}
		if got := list(t, b, "/dir"); len(got) != 1 || got[0] != "keep.txt" {
			t.Errorf("List(%q) after Remove: got %v, want [keep.txt]", "/dir", got)
		}
	})

	run(t, "Manage", "RemoveNotExist", newBackend, config, func(t *testing.T, b core.Backend) {
		if err := b.Remove(ctx, "/missing.txt"); !core.IsNotExist(err) {
			t.Errorf("Remove(missing): got error %v, want not exist", err)
		}
	})

	run(t, "Manage", "RemoveDirectoryWithRemove", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/dir/file.txt", nil)
		if err := b.Remove(ctx, "/dir"); core.Classify(err) != errors.CodeIsADirectory {
			t.Errorf("Remove(directory): got error %v, want is a directory", err)
		}
	})

	run(t, "Manage", "RemoveDirectory", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/dir/file.txt", nil)
		if err := b.Remove(ctx, "/dir/file.txt"); err != nil {
			t.Fatalf("Remove(%q): setup failed: %v", "/dir/file.txt", err)
		}
		if config.ImplicitDirectories {
			// the directory vanished with its last entry
			return
		}
		if err := b.RemoveDirectory(ctx, "/dir"); err != nil {
			t.Fatalf("RemoveDirectory(%q): got error %v, want nil", "/dir", err)
		}
		if _, err := b.Stat(ctx, "/dir"); !core.IsNotExist(err) {
			t.Errorf("Stat(%q) after RemoveDirectory: got error %v, want not exist", "/dir", err)
		}
	})

	run(t, "Manage", "RemoveDirectoryNotEmpty", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/dir/file.txt", nil)
		if err := b.RemoveDirectory(ctx, "/dir"); core.Classify(err) != errors.CodeNotEmpty {
			t.Errorf("RemoveDirectory(non-empty): got error %v, want not empty", err)
		}
		if got := list(t, b, "/dir"); len(got) != 1 {
			t.Errorf("List(%q) after failed RemoveDirectory: got %v", "/dir", got)
		}
	})

	run(t, "Manage", "RemoveDirectoryFile", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/file.txt", nil)
		if err := b.RemoveDirectory(ctx, "/file.txt"); !core.IsNotDirectory(err) {
			t.Errorf("RemoveDirectory(file): got error %v, want not a directory", err)
		}
	})

	run(t, "Manage", "RemoveDirectoryNotExist", newBackend, config, func(t *testing.T, b core.Backend) {
		if err := b.RemoveDirectory(ctx, "/missing"); !core.IsNotExist(err) {
			t.Errorf("RemoveDirectory(missing): got error %v, want not exist", err)
		}
	})
}
