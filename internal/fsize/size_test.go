package fsize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reclaim-sh/reclaim/internal/testutil"
)

func TestSizeCountsFilesAndDirs(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("a.bin", 100)
	f.CreateFileWithSize("sub/b.bin", 200)
	f.CreateFileWithSize("sub/deep/c.bin", 300)

	stats := NewSizer(0).Size(f.RootDir, DefaultMaxDepth)

	assert.Equal(t, int64(600), stats.Bytes)
	assert.Equal(t, int64(3), stats.Files)
	assert.Equal(t, int64(2), stats.Dirs)
	assert.Equal(t, testutil.TreeSize(t, f.RootDir), stats.Bytes)
}

func TestSizeEqualsOwnFilesPlusChildren(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("top.bin", 50)
	f.CreateFileWithSize("child/a.bin", 70)
	f.CreateFileWithSize("child/b.bin", 30)

	s := NewSizer(0)
	whole := s.Size(f.RootDir, DefaultMaxDepth)
	child := s.Size(f.Path("child"), DefaultMaxDepth)

	assert.Equal(t, child.Bytes+50, whole.Bytes)
	assert.Equal(t, child.Files+1, whole.Files)
}

func TestSizeRespectsMaxDepth(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("l1/f.bin", 10)
	f.CreateFileWithSize("l1/l2/f.bin", 20)
	f.CreateFileWithSize("l1/l2/l3/f.bin", 40)

	stats := NewSizer(0).Size(f.RootDir, 2)

	// Depth 1 and 2 files are counted, depth 3 is beyond the bound.
	assert.Equal(t, int64(30), stats.Bytes)
	// Directories are still counted when seen, even if not entered.
	assert.Equal(t, int64(3), stats.Dirs)
}

func TestSizeSkipsSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	target := f.CreateFileWithSize("real/data.bin", 500)
	f.CreateSymlink("link-to-file", target)
	f.CreateSymlink("link-to-dir", f.Path("real"))

	stats := NewSizer(0).Size(f.RootDir, DefaultMaxDepth)

	assert.Equal(t, int64(500), stats.Bytes)
	assert.Equal(t, int64(1), stats.Files)
}

func TestSizeMissingPathIsZero(t *testing.T) {
	stats := NewSizer(0).Size("/no/such/path", DefaultMaxDepth)
	assert.Equal(t, Stats{}, stats)
}

func TestFileOrDirSize(t *testing.T) {
	f := testutil.NewFixture(t)
	file := f.CreateFileWithSize("single.bin", 123)
	f.CreateFileWithSize("dir/a.bin", 10)

	s := NewSizer(0)

	stats, ok := s.FileOrDirSize(file, DefaultMaxDepth)
	require.True(t, ok)
	assert.Equal(t, Stats{Bytes: 123, Files: 1}, stats)

	stats, ok = s.FileOrDirSize(f.Path("dir"), DefaultMaxDepth)
	require.True(t, ok)
	assert.Equal(t, int64(10), stats.Bytes)

	_, ok = s.FileOrDirSize(f.Path("missing"), DefaultMaxDepth)
	assert.False(t, ok)
}

func TestSizeCachedReturnsStaleUntilTTL(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("a.bin", 100)

	clock := time.Now()
	s := NewSizer(time.Minute)
	s.cache.now = func() time.Time { return clock }

	first := s.SizeCached(f.RootDir, DefaultMaxDepth)
	assert.Equal(t, int64(100), first.Bytes)

	// Grow the tree; the cache keeps answering with the old number.
	f.CreateFileWithSize("b.bin", 900)
	assert.Equal(t, int64(100), s.SizeCached(f.RootDir, DefaultMaxDepth).Bytes)

	// Past the TTL the entry expires and the tree is rescanned.
	clock = clock.Add(time.Minute + time.Second)
	assert.Equal(t, int64(1000), s.SizeCached(f.RootDir, DefaultMaxDepth).Bytes)
}

func TestCacheClear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("/a", Stats{Bytes: 1})
	c.Put("/b", Stats{Bytes: 2})
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("/a")
	assert.False(t, ok)
}

func TestCachePutOverwrites(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("/a", Stats{Bytes: 1})
	c.Put("/a", Stats{Bytes: 5})

	stats, ok := c.Get("/a")
	require.True(t, ok)
	assert.Equal(t, int64(5), stats.Bytes)
	assert.Equal(t, 1, c.Len())
}
