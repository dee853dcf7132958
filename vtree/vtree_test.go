package vtree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() Option {
	return WithClock(func() time.Time { return time.Unix(1700000000, 0) })
}

func TestFind_Root(t *testing.T) {
	tree := New()

	for _, p := range []string{"", ".", "/", "./", "/.."} {
		h := tree.Find(p)
		assert.True(t, h.IsRoot(), p)
		assert.True(t, h.IsDirectory(), p)
		assert.False(t, h.IsFile(), p)
		assert.Same(t, tree.Root(), h.Get(), p)
	}
}

func TestSetGet_RoundTrip(t *testing.T) {
	tree := New()
	data := []byte{0x00, 0xff, 0x10, 'x'}

	tree.Find("a/b/c.bin").Set(NewFile(data, tree.Now()))

	got, ok := tree.Find("/a/b/c.bin").Get().(*File)
	require.True(t, ok)
	assert.Equal(t, data, got.Data)
	assert.True(t, tree.Find("a").IsDirectory())
	assert.True(t, tree.Find("a/b").IsDirectory())
	assert.True(t, tree.Find("a/./b/c.bin").IsFile())
}

func TestFind_DoesNotMaterialize(t *testing.T) {
	tree := New()

	h := tree.Find("x/y/z")
	assert.True(t, h.Pending())
	assert.False(t, h.Exists())
	assert.Nil(t, h.Get())

	assert.Empty(t, tree.Root().Entries, "lookup must not create directories")
	assert.False(t, tree.Find("x").Exists())
}

func TestSet_SplicesPendingChain(t *testing.T) {
	tree := New(fixedClock())
	tree.Find("keep").Set(NewFile([]byte("k"), tree.Now()))

	h := tree.Find("x/y/z")
	require.True(t, h.Pending())
	h.Set(NewFile([]byte("v"), tree.Now()))

	assert.False(t, h.Pending())
	assert.ElementsMatch(t, []string{"keep", "x"}, tree.Root().Names())
	x, ok := tree.Root().Entries["x"].(*Directory)
	require.True(t, ok)
	assert.Equal(t, time.Unix(1700000000, 0), x.ModTime())
	assert.True(t, tree.Find("x/y").IsDirectory())
	assert.Equal(t, []byte("v"), tree.Find("x/y/z").Get().(*File).Data)
}

func TestSet_MergesWithDirectoryCreatedSinceFind(t *testing.T) {
	tree := New()

	first := tree.Find("d/one")
	second := tree.Find("d/two")
	first.Set(NewFile([]byte("1"), tree.Now()))
	second.Set(NewFile([]byte("2"), tree.Now()))

	d, ok := tree.Find("d").Get().(*Directory)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"one", "two"}, d.Names())
}

func TestFind_ShadowedByFile(t *testing.T) {
	tree := New()
	tree.Find("f").Set(NewFile([]byte("file"), tree.Now()))

	h := tree.Find("f/child")
	assert.True(t, h.Shadowed())
	assert.True(t, h.Pending())
	assert.False(t, h.Exists())

	h.Set(NewFile([]byte("c"), tree.Now()))
	assert.True(t, tree.Find("f").IsDirectory())
	assert.True(t, tree.Find("f/child").IsFile())
}

func TestNodeKinds(t *testing.T) {
	tree := New()
	tree.Find("dir/file").Set(NewFile(nil, tree.Now()))

	file := tree.Find("dir/file")
	assert.True(t, file.Exists())
	assert.True(t, file.IsFile(), "empty content is still a file")
	assert.False(t, file.IsDirectory())

	dir := tree.Find("dir")
	assert.True(t, dir.IsDirectory())
	assert.False(t, dir.IsFile())

	missing := tree.Find("dir/missing")
	assert.False(t, missing.Exists())
	assert.False(t, missing.IsFile())
	assert.False(t, missing.IsDirectory())
}

func TestDelete(t *testing.T) {
	tree := New()
	tree.Find("a/b").Set(NewFile([]byte("x"), tree.Now()))

	assert.False(t, tree.Find("missing/b").Delete(), "unmaterialized positions cannot be deleted")
	assert.False(t, tree.Find("a/missing").Delete())
	assert.False(t, tree.Find("/").Delete(), "root cannot be deleted")

	assert.True(t, tree.Find("a/b").Delete())
	assert.False(t, tree.Find("a/b").Exists())
	assert.True(t, tree.Find("a").IsDirectory())
}

func TestSet_Root(t *testing.T) {
	tree := New()
	replacement := NewDirectory(tree.Now())
	replacement.Entries["only"] = NewFile([]byte("v"), tree.Now())

	tree.Find("").Set(replacement)
	assert.Same(t, replacement, tree.Root())
	assert.True(t, tree.Find("only").IsFile())

	tree.Find("/").Set(NewFile([]byte("ignored"), tree.Now()))
	assert.Same(t, replacement, tree.Root())
}

func TestFind_ClampsParentSegments(t *testing.T) {
	tree := New()
	tree.Find("../../a").Set(NewFile([]byte("v"), tree.Now()))

	assert.True(t, tree.Find("/a").IsFile())
	assert.Equal(t, "a", tree.Find("x/../a").Name())
	assert.Equal(t, "/", tree.Find("").Name())
}
