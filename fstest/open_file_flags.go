package fstest

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmgilman/go/treefs/core"
)

// TestOpenFlags tests the os.O_* flag semantics every backend must honor.
// O_RDWR is optional: backends either support it or fail with
// core.ErrUnsupported.
func TestOpenFlags(t *testing.T, newBackend Factory, config Config) {
	run(t, "OpenFlags", "Append", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/log.txt", []byte("one\n"))

		f, err := b.Open(context.Background(), "/log.txt", os.O_WRONLY|os.O_CREATE|os.O_APPEND)
		if err != nil {
			t.Fatalf("Open(O_APPEND): got error %v, want nil", err)
		}
		if _, err := f.Write([]byte("two\n")); err != nil {
			t.Fatalf("Write(): got error %v, want nil", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}

		if got := readFile(t, b, "/log.txt"); string(got) != "one\ntwo\n" {
			t.Errorf("after append: got %q, want %q", got, "one\ntwo\n")
		}
	})

	run(t, "OpenFlags", "AppendCreates", newBackend, config, func(t *testing.T, b core.Backend) {
		f, err := b.Open(context.Background(), "/new.txt", os.O_WRONLY|os.O_CREATE|os.O_APPEND)
		if err != nil {
			t.Fatalf("Open(O_APPEND|O_CREATE): got error %v, want nil", err)
		}
		if _, err := f.Write([]byte("first")); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
		if got := readFile(t, b, "/new.txt"); string(got) != "first" {
			t.Errorf("got %q, want %q", got, "first")
		}
	})

	run(t, "OpenFlags", "Exclusive", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/exists.txt", []byte("x"))

		_, err := b.Open(context.Background(), "/exists.txt", os.O_WRONLY|os.O_CREATE|os.O_EXCL)
		if !core.IsExist(err) {
			t.Errorf("Open(existing, O_EXCL): got error %v, want exist", err)
		}

		f, err := b.Open(context.Background(), "/fresh.txt", os.O_WRONLY|os.O_CREATE|os.O_EXCL)
		if err != nil {
			t.Fatalf("Open(fresh, O_EXCL): got error %v, want nil", err)
		}
		if err := f.Close(); err != nil {
			t.Errorf("Close(): got error %v", err)
		}
	})

	run(t, "OpenFlags", "WriteWithoutCreate", newBackend, config, func(t *testing.T, b core.Backend) {
		_, err := b.Open(context.Background(), "/missing.txt", os.O_WRONLY)
		if !core.IsNotExist(err) {
			t.Errorf("Open(missing, O_WRONLY): got error %v, want not exist", err)
		}
	})

	run(t, "OpenFlags", "WriteDirectory", newBackend, config, func(t *testing.T, b core.Backend) {
		mkdir(t, b, "/dir")
		_, err := b.Open(context.Background(), "/dir", os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
		if err == nil {
			t.Error("Open(directory, O_WRONLY): got nil error")
		}
	})

	run(t, "OpenFlags", "ReadWrite", newBackend, config, func(t *testing.T, b core.Backend) {
		writeFile(t, b, "/rw.txt", []byte("abc"))

		f, err := b.Open(context.Background(), "/rw.txt", os.O_RDWR)
		if errors.Is(err, core.ErrUnsupported) {
			t.Skip("O_RDWR not supported by backend")
		}
		if err != nil {
			t.Fatalf("Open(O_RDWR): got error %v, want nil or ErrUnsupported", err)
		}
		if err := f.Close(); err != nil {
			t.Errorf("Close(): got error %v", err)
		}
	})
}
