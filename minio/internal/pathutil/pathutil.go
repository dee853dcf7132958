// Package pathutil maps slash-separated backend names to MinIO/S3 object
// keys.
package pathutil

import (
	"strings"

	"github.com/jmgilman/go/treefs/fspath"
)

// Normalize cleans a name into a key fragment without leading or trailing
// slashes. Backslashes are treated as separators and ".." segments cannot
// climb above the root. Returns "." for the root.
func Normalize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(fspath.Join("/", name), "/")
	if name == "" {
		return "."
	}
	return name
}

// NormalizePrefix normalizes a key prefix. Returns "" for the bucket root.
func NormalizePrefix(prefix string) string {
	if p := Normalize(prefix); p != "." {
		return p
	}
	return ""
}

// JoinPath joins a prefix with a name to create a full object key.
// The root name maps to the prefix itself.
func JoinPath(prefix, name string) string {
	name = Normalize(name)
	switch {
	case name == ".":
		return prefix
	case prefix == "":
		return name
	default:
		return prefix + "/" + name
	}
}

// DirKey returns the key prefix that lists the entries of the directory at
// key. The bucket root lists with the empty prefix.
func DirKey(key string) string {
	if key == "" {
		return ""
	}
	return key + "/"
}

// EntryName returns the entry name of object key listed under dirKey, and
// whether the object is a directory (a common prefix or marker object).
// The marker of dirKey itself yields an empty name.
func EntryName(dirKey, key string) (string, bool) {
	rel := strings.TrimPrefix(key, dirKey)
	isDir := strings.HasSuffix(rel, "/")
	return strings.TrimSuffix(rel, "/"), isDir
}
