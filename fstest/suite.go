// Package fstest provides a conformance test suite for validating storage
// backends against the core.Backend contract.
//
// This package contains test functions that backend packages import and run
// against fresh instances of their backend. The optional core.LinkBackend
// capability is detected by type assertion and its tests are skipped for
// backends without symbolic links.
//
// Example usage:
//
//	func TestMyBackend(t *testing.T) {
//	    fstest.TestBackend(t, func(t *testing.T) core.Backend {
//	        return mybackend.New()
//	    }, fstest.DefaultConfig())
//	}
package fstest

import (
	"context"
	"io"
	"os"
	"slices"
	"testing"

	"github.com/jmgilman/go/treefs/core"
)

// Config adapts the suite to documented backend differences.
type Config struct {
	// ImplicitDirectories indicates directories created implicitly by a
	// write exist only while they have entries (object store key prefixes).
	// Directories created with MakeDirectory always persist.
	ImplicitDirectories bool

	// SkipTests lists specific test names to skip.
	// Format: "Group/SubTest" (e.g., "Write/Append").
	SkipTests []string
}

// DefaultConfig returns the configuration for POSIX-like backends.
func DefaultConfig() Config {
	return Config{}
}

// ObjectStoreConfig returns the configuration for S3-like backends.
func ObjectStoreConfig() Config {
	return Config{ImplicitDirectories: true}
}

// Factory returns a fresh, empty backend. Each subtest gets its own instance.
type Factory func(t *testing.T) core.Backend

// TestBackend runs every conformance group against backends built by
// newBackend.
func TestBackend(t *testing.T, newBackend Factory, config Config) {
	groups := []struct {
		name string
		run  func(*testing.T, Factory, Config)
	}{
		{"Read", TestRead},
		{"Write", TestWrite},
		{"OpenFlags", TestOpenFlags},
		{"Manage", TestManage},
		{"Chroot", TestChroot},
		{"Links", TestLinks},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if config.skip(g.name) {
				t.Skip("Skipped by backend configuration")
			}
			g.run(t, newBackend, config)
		})
	}
}

// run executes a named subtest against a fresh backend unless it is skipped.
func run(t *testing.T, group, name string, newBackend Factory, config Config, fn func(*testing.T, core.Backend)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if config.skip(group + "/" + name) {
			t.Skip("Skipped by backend configuration")
		}
		fn(t, newBackend(t))
	})
}

func (c Config) skip(name string) bool {
	return slices.Contains(c.SkipTests, name)
}

// writeFile creates or truncates name with data, failing the test on error.
func writeFile(t *testing.T, b core.Backend, name string, data []byte) {
	t.Helper()
	f, err := b.Open(context.Background(), name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		t.Fatalf("Open(%q) for write: setup failed: %v", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		t.Fatalf("Write(%q): setup failed: %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(%q): setup failed: %v", name, err)
	}
}

// readFile returns the content of name, failing the test on error.
func readFile(t *testing.T, b core.Backend, name string) []byte {
	t.Helper()
	f, err := b.Open(context.Background(), name, os.O_RDONLY)
	if err != nil {
		t.Fatalf("Open(%q): got error %v, want nil", name, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll(%q): got error %v, want nil", name, err)
	}
	return data
}

// list returns the sorted entry names of name, failing the test on error.
func list(t *testing.T, b core.Backend, name string) []string {
	t.Helper()
	names, err := b.List(context.Background(), name)
	if err != nil {
		t.Fatalf("List(%q): got error %v, want nil", name, err)
	}
	slices.Sort(names)
	return names
}

// mkdir creates name, failing the test on error.
func mkdir(t *testing.T, b core.Backend, name string) {
	t.Helper()
	if err := b.MakeDirectory(context.Background(), name, 0o755); err != nil {
		t.Fatalf("MakeDirectory(%q): setup failed: %v", name, err)
	}
}
