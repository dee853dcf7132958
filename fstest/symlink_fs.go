package fstest

import (
	"bytes"
	"context"
	"testing"

	"github.com/jmgilman/go/treefs/core"
)

// TestLinks tests the optional core.LinkBackend capability.
// Backends that do not implement it are skipped.
func TestLinks(t *testing.T, newBackend Factory, config Config) {
	ctx := context.Background()

	if _, ok := newBackend(t).(core.LinkBackend); !ok {
		t.Skip("LinkBackend not supported")
	}

	run(t, "Links", "SymlinkAndReadlink", newBackend, config, func(t *testing.T, b core.Backend) {
		lb := b.(core.LinkBackend)
		writeFile(t, b, "/target.txt", testContent)

		if err := lb.Symlink(ctx, "target.txt", "/link.txt"); err != nil {
			t.Fatalf("Symlink(target.txt, /link.txt): got error %v, want nil", err)
		}
		target, err := lb.Readlink(ctx, "/link.txt")
		if err != nil {
			t.Fatalf("Readlink(%q): got error %v, want nil", "/link.txt", err)
		}
		if target != "target.txt" {
			t.Errorf("Readlink(%q): got %q, want %q", "/link.txt", target, "target.txt")
		}
		if got := readFile(t, b, "/link.txt"); !bytes.Equal(got, testContent) {
			t.Errorf("read through symlink: got %q, want %q", got, testContent)
		}
	})

	run(t, "Links", "LstatDoesNotFollow", newBackend, config, func(t *testing.T, b core.Backend) {
		lb := b.(core.LinkBackend)
		writeFile(t, b, "/target.txt", testContent)
		if err := lb.Symlink(ctx, "target.txt", "/link.txt"); err != nil {
			t.Fatalf("Symlink(): setup failed: %v", err)
		}

		lst, err := lb.Lstat(ctx, "/link.txt")
		if err != nil {
			t.Fatalf("Lstat(%q): got error %v, want nil", "/link.txt", err)
		}
		if !lst.IsSymbolicLink() {
			t.Errorf("Lstat(%q): IsSymbolicLink() = false, want true", "/link.txt")
		}

		st, err := b.Stat(ctx, "/link.txt")
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", "/link.txt", err)
		}
		if st.IsSymbolicLink() || !st.IsFile() {
			t.Errorf("Stat(%q): want the target's regular file stat, got mode %s", "/link.txt", st.Mode)
		}
	})

	run(t, "Links", "RemoveLinkKeepsTarget", newBackend, config, func(t *testing.T, b core.Backend) {
		lb := b.(core.LinkBackend)
		writeFile(t, b, "/target.txt", testContent)
		if err := lb.Symlink(ctx, "target.txt", "/link.txt"); err != nil {
			t.Fatalf("Symlink(): setup failed: %v", err)
		}

		if err := b.Remove(ctx, "/link.txt"); err != nil {
			t.Fatalf("Remove(%q): got error %v, want nil", "/link.txt", err)
		}
		if _, err := lb.Lstat(ctx, "/link.txt"); !core.IsNotExist(err) {
			t.Errorf("Lstat(%q) after Remove: got error %v, want not exist", "/link.txt", err)
		}
		if got := readFile(t, b, "/target.txt"); !bytes.Equal(got, testContent) {
			t.Errorf("target after removing link: got %q, want %q", got, testContent)
		}
	})

	run(t, "Links", "BrokenSymlink", newBackend, config, func(t *testing.T, b core.Backend) {
		lb := b.(core.LinkBackend)
		if err := lb.Symlink(ctx, "nowhere.txt", "/broken"); err != nil {
			t.Fatalf("Symlink(): setup failed: %v", err)
		}
		if _, err := b.Stat(ctx, "/broken"); !core.IsNotExist(err) {
			t.Errorf("Stat(broken link): got error %v, want not exist", err)
		}
		if _, err := lb.Lstat(ctx, "/broken"); err != nil {
			t.Errorf("Lstat(broken link): got error %v, want nil", err)
		}
	})
}
