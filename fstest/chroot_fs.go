package fstest

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/jmgilman/go/treefs/core"
)

// TestChroot tests scoped backend views and boundary enforcement.
func TestChroot(t *testing.T, newBackend Factory, config Config) {
	ctx := context.Background()

	// root/
	//   chroot-dir/
	//     inside.txt
	//     nested/deep.txt
	//   outside.txt
	setup := func(t *testing.T, b core.Backend) core.Backend {
		t.Helper()
		writeFile(t, b, "/chroot-dir/inside.txt", []byte("inside content"))
		writeFile(t, b, "/chroot-dir/nested/deep.txt", []byte("deep"))
		writeFile(t, b, "/outside.txt", []byte("outside content"))

		sub, err := b.Chroot(ctx, "/chroot-dir")
		if err != nil {
			t.Fatalf("Chroot(%q): got error %v, want nil", "/chroot-dir", err)
		}
		return sub
	}

	run(t, "Chroot", "ChrootToSubdirectory", newBackend, config, func(t *testing.T, b core.Backend) {
		sub := setup(t, b)
		if got := readFile(t, sub, "/inside.txt"); string(got) != "inside content" {
			t.Errorf("read through chroot: got %q, want %q", got, "inside content")
		}
		if got, want := list(t, sub, "/"), []string{"inside.txt", "nested"}; !slices.Equal(got, want) {
			t.Errorf("List(%q) in chroot: got %v, want %v", "/", got, want)
		}
		if sub.Type() != b.Type() {
			t.Errorf("Type() in chroot: got %s, want %s", sub.Type(), b.Type())
		}
	})

	run(t, "Chroot", "WritesVisibleInParent", newBackend, config, func(t *testing.T, b core.Backend) {
		sub := setup(t, b)
		writeFile(t, sub, "/created.txt", testContent)
		if got := readFile(t, b, "/chroot-dir/created.txt"); !bytes.Equal(got, testContent) {
			t.Errorf("read through parent: got %q, want %q", got, testContent)
		}
	})

	run(t, "Chroot", "PathTraversalPrevention", newBackend, config, func(t *testing.T, b core.Backend) {
		sub := setup(t, b)
		for _, name := range []string{"/../outside.txt", "../outside.txt", "nested/../../outside.txt"} {
			if _, err := sub.Stat(ctx, name); !core.IsNotExist(err) {
				t.Errorf("Stat(%q) in chroot: got error %v, want not exist", name, err)
			}
		}
	})

	run(t, "Chroot", "ChrootOnChroot", newBackend, config, func(t *testing.T, b core.Backend) {
		sub := setup(t, b)
		nested, err := sub.Chroot(ctx, "/nested")
		if err != nil {
			t.Fatalf("Chroot(%q) in chroot: got error %v, want nil", "/nested", err)
		}
		if got := readFile(t, nested, "/deep.txt"); string(got) != "deep" {
			t.Errorf("read through nested chroot: got %q, want %q", got, "deep")
		}
	})

	run(t, "Chroot", "ChrootNotExist", newBackend, config, func(t *testing.T, b core.Backend) {
		if _, err := b.Chroot(ctx, "/missing"); !core.IsNotExist(err) {
			t.Errorf("Chroot(missing): got error %v, want not exist", err)
		}
	})
}
