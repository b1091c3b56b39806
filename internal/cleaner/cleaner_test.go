package cleaner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reclaim-sh/reclaim/internal/catalog"
	"github.com/reclaim-sh/reclaim/internal/fsize"
	"github.com/reclaim-sh/reclaim/internal/protect"
	"github.com/reclaim-sh/reclaim/internal/testutil"
)

func newTestExecutor(t *testing.T, cats []*catalog.Category) *Executor {
	t.Helper()
	store := protect.NewStore(filepath.Join(t.TempDir(), "protection.json"))
	return New(catalog.NewRegistryFrom(cats), fsize.NewSizer(0), store)
}

func fixedCategory(id string, risk catalog.RiskLevel, paths ...string) *catalog.Category {
	return &catalog.Category{ID: id, Name: id, RiskLevel: risk, Paths: paths}
}

func TestIsPathSafe(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{home, false},
		{"~", false},
		{"~/Documents", false},
		{"/System", false},
		{"/usr", false},
		// Exact match only: contents of blocked directories stay fair game.
		{"~/Documents/old-project/node_modules", true},
		{"~/Library/Caches/com.example.app", true},
		{"/tmp/scratch", true},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, IsPathSafe(tt.path), "IsPathSafe(%q)", tt.path)
	}
}

func TestDeletePathDryRunLeavesFileIntact(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFileWithSize("cache/data.bin", 64)
	e := newTestExecutor(t, nil)

	freed, files, err := e.DeletePath(f.Path("cache"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(64), freed)
	assert.Equal(t, int64(1), files)
	assert.FileExists(t, path)
}

func TestDeletePathRemovesTree(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("cache/data.bin", 64)
	e := newTestExecutor(t, nil)

	freed, _, err := e.DeletePath(f.Path("cache"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(64), freed)
	assert.NoDirExists(t, f.Path("cache"))
}

func TestDeletePathMissingIsNotAnError(t *testing.T) {
	e := newTestExecutor(t, nil)
	freed, files, err := e.DeletePath("/no/such/path", false)
	require.NoError(t, err)
	assert.Zero(t, freed)
	assert.Zero(t, files)
}

func TestCleanCategoryDryRun(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFileWithSize("npm/entry.json", 6)
	e := newTestExecutor(t, []*catalog.Category{
		fixedCategory("npm_cache", catalog.RiskSafe, f.Path("npm")),
	})

	res := e.CleanCategory(context.Background(), "npm_cache", true)

	assert.True(t, res.Success)
	assert.True(t, res.DryRun)
	assert.Equal(t, int64(6), res.FreedBytes)
	assert.Equal(t, int64(1), res.DeletedFiles)
	assert.FileExists(t, path)
}

func TestCleanCategoryDeletes(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFileWithSize("npm/entry.json", 6)
	e := newTestExecutor(t, []*catalog.Category{
		fixedCategory("npm_cache", catalog.RiskSafe, f.Path("npm")),
	})

	res := e.CleanCategory(context.Background(), "npm_cache", false)

	assert.True(t, res.Success)
	assert.Equal(t, int64(6), res.FreedBytes)
	assert.NoFileExists(t, path)
}

func TestCleanCategoryUnknownID(t *testing.T) {
	e := newTestExecutor(t, nil)
	res := e.CleanCategory(context.Background(), "nope", false)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "unknown category")
}

func TestCleanCategoryRefusesBlockedPath(t *testing.T) {
	e := newTestExecutor(t, []*catalog.Category{
		fixedCategory("suspicious", catalog.RiskSafe, "~"),
	})

	res := e.CleanCategory(context.Background(), "suspicious", false)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], home)
	assert.DirExists(t, home)
}

func TestCleanCategorySkipsProtectedPath(t *testing.T) {
	f := testutil.NewFixture(t)
	keep := f.CreateFileWithSize("keep/data.bin", 10)
	f.CreateFileWithSize("drop/data.bin", 20)

	store := protect.NewStore(filepath.Join(t.TempDir(), "protection.json"))
	require.NoError(t, store.AddPath(f.Path("keep")))

	e := New(catalog.NewRegistryFrom([]*catalog.Category{
		fixedCategory("mixed", catalog.RiskSafe, f.Path("keep"), f.Path("drop")),
	}), fsize.NewSizer(0), store)

	res := e.CleanCategory(context.Background(), "mixed", false)

	assert.True(t, res.Success)
	assert.Equal(t, int64(20), res.FreedBytes)
	assert.FileExists(t, keep)
	assert.NoDirExists(t, f.Path("drop"))
}

func TestCleanCategoryRespectsProtectedCategory(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFileWithSize("npm/entry.json", 6)

	store := protect.NewStore(filepath.Join(t.TempDir(), "protection.json"))
	require.NoError(t, store.AddCategory("npm_cache"))

	e := New(catalog.NewRegistryFrom([]*catalog.Category{
		fixedCategory("npm_cache", catalog.RiskSafe, f.Path("npm")),
	}), fsize.NewSizer(0), store)

	res := e.CleanCategory(context.Background(), "npm_cache", false)

	assert.False(t, res.Success)
	assert.FileExists(t, path)
}

func TestCleanCategoryNativeCommandDryRun(t *testing.T) {
	e := newTestExecutor(t, []*catalog.Category{
		{
			ID:             "go_cache",
			Name:           "Go Module Cache",
			RiskLevel:      catalog.RiskSafe,
			Paths:          []string{"/tmp/does-not-matter"},
			CleanupCommand: "go clean -modcache",
		},
	})

	res := e.CleanCategory(context.Background(), "go_cache", true)

	assert.True(t, res.Success)
	assert.Zero(t, res.FreedBytes)
	require.Len(t, res.Paths, 1)
	assert.Equal(t, "[native command: go clean -modcache]", res.Paths[0])
}

func TestCleanSafeItemsSkipsReviewCategories(t *testing.T) {
	f := testutil.NewFixture(t)
	safe := f.CreateFileWithSize("safe/a.bin", 10)
	review := f.CreateFileWithSize("review/b.bin", 20)

	e := newTestExecutor(t, []*catalog.Category{
		fixedCategory("safe_cat", catalog.RiskSafe, f.Path("safe")),
		fixedCategory("review_cat", catalog.RiskReview, f.Path("review")),
	})

	results := e.CleanSafeItems(context.Background(), false)

	require.Len(t, results, 1)
	assert.Equal(t, "safe_cat", results[0].CategoryID)
	assert.NoFileExists(t, safe)
	assert.FileExists(t, review)
}

func TestValidateRequest(t *testing.T) {
	e := newTestExecutor(t, []*catalog.Category{
		fixedCategory("a", catalog.RiskSafe, "/tmp/a"),
		fixedCategory("b", catalog.RiskSafe, "/tmp/b"),
	})

	assert.NoError(t, e.ValidateRequest([]string{"a", "b"}, 500))
	assert.NoError(t, e.ValidateRequest([]string{"b", "a"}, MaxCleanupBytes-1))

	err := e.ValidateRequest([]string{"a"}, MaxCleanupBytes)
	require.Error(t, err)
	var ce *CleanupError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ReasonSafetyLimit, ce.Reason)

	assert.Error(t, e.ValidateRequest([]string{"a", "ghost"}, 1))
	// Order of ids does not change the verdict.
	assert.Error(t, e.ValidateRequest([]string{"ghost", "a"}, 1))
}

func TestDeleteArtifactDir(t *testing.T) {
	f := testutil.NewFixture(t)
	modules := f.CreateNodeProject("proj", "demo", 128)
	e := newTestExecutor(t, []*catalog.Category{
		{
			ID:        "node_modules",
			Name:      "Node Modules",
			RiskLevel: catalog.RiskSafe,
			Recursive: &catalog.RecursiveSpec{
				PatternNames: []string{"node_modules"},
				SearchRoots:  []string{f.RootDir},
			},
		},
	})

	// A directory whose basename is not a known artifact is refused.
	_, err := e.DeleteArtifactDir(f.Path("proj"), false)
	require.Error(t, err)
	assert.DirExists(t, f.Path("proj"))

	freed, err := e.DeleteArtifactDir(modules, false)
	require.NoError(t, err)
	assert.Equal(t, int64(128), freed)
	assert.NoDirExists(t, modules)
	assert.FileExists(t, f.Path("proj/package.json"))
}

func TestDeleteAppCacheRequiresContainment(t *testing.T) {
	e := newTestExecutor(t, nil)

	_, err := e.DeleteAppCache("/tmp/outside", false)
	require.Error(t, err)
	var ce *CleanupError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ReasonUnsafePath, ce.Reason)

	// The caches root itself is refused, and traversal cannot escape it.
	_, err = e.DeleteAppCache("~/Library/Caches", false)
	assert.Error(t, err)
	_, err = e.DeleteAppCache("~/Library/Caches/../Mail", false)
	assert.Error(t, err)
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, ReasonNotFound, categorize("/x", os.ErrNotExist).Reason)
	assert.Equal(t, ReasonPermissionDenied, categorize("/x", os.ErrPermission).Reason)
	assert.Equal(t, ReasonUnknown, categorize("/x", assert.AnError).Reason)
}
