package fsize

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reclaim-sh/reclaim/internal/testutil"
)

func collect(root, pattern string, maxDepth int) []string {
	var paths []string
	for p := range FindMatching(root, pattern, maxDepth) {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func TestFindMatchingBasic(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("app/node_modules/dep/index.js", 10)
	f.CreateFileWithSize("tools/cli/node_modules/dep/index.js", 10)
	f.CreateFileWithSize("app/src/main.js", 10)

	got := collect(f.RootDir, "node_modules", DefaultDiscoverDepth)

	assert.Equal(t, []string{
		f.Path("app/node_modules"),
		f.Path("tools/cli/node_modules"),
	}, got)
}

func TestFindMatchingNeverYieldsNestedMatches(t *testing.T) {
	f := testutil.NewFixture(t)
	// A vendored node_modules inside another must not be yielded.
	f.CreateFileWithSize("app/node_modules/dep/node_modules/sub/index.js", 10)

	got := collect(f.RootDir, "node_modules", DefaultDiscoverDepth)

	assert.Equal(t, []string{f.Path("app/node_modules")}, got)
}

func TestFindMatchingRespectsDepth(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir("a/node_modules")
	f.CreateDir("a/b/c/node_modules")

	got := collect(f.RootDir, "node_modules", 2)

	assert.Equal(t, []string{f.Path("a/node_modules")}, got)
}

func TestFindMatchingSkipsHiddenUnlessPatternHidden(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir(".config/node_modules")
	f.CreateDir("proj/node_modules")

	got := collect(f.RootDir, "node_modules", DefaultDiscoverDepth)
	assert.Equal(t, []string{f.Path("proj/node_modules")}, got)

	// Searching for a hidden name matches that name directly.
	f.CreateDir("proj/.venv")
	got = collect(f.RootDir, ".venv", DefaultDiscoverDepth)
	assert.Equal(t, []string{f.Path("proj/.venv")}, got)
}

func TestFindMatchingVirtualenvSpellings(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir("proj/.virtualenv")

	// Searching one virtualenv spelling does not skip the other.
	got := collect(f.RootDir, ".virtualenv", DefaultDiscoverDepth)
	assert.Equal(t, []string{f.Path("proj/.virtualenv")}, got)
}

func TestFindMatchingSkipsDenyListedDirs(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir(".git/node_modules")
	f.CreateDir("Library/node_modules")
	f.CreateDir("work/node_modules")

	got := collect(f.RootDir, "node_modules", DefaultDiscoverDepth)

	assert.Equal(t, []string{f.Path("work/node_modules")}, got)
}

func TestFindMatchingDenyListedNameStillMatchesAsPattern(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir("proj/__pycache__")

	got := collect(f.RootDir, "__pycache__", DefaultDiscoverDepth)

	assert.Equal(t, []string{f.Path("proj/__pycache__")}, got)
}

func TestFindMatchingSkipsSymlinkedDirs(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateDir("real/node_modules")
	f.CreateSymlink("alias", f.Path("real"))

	got := collect(f.RootDir, "node_modules", DefaultDiscoverDepth)

	assert.Equal(t, []string{f.Path("real/node_modules")}, got)
}

func TestFindMatchingMissingRoot(t *testing.T) {
	assert.Empty(t, collect("/no/such/root", "node_modules", DefaultDiscoverDepth))
}
