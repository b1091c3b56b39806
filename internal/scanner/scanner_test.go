package scanner

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reclaim-sh/reclaim/internal/catalog"
	"github.com/reclaim-sh/reclaim/internal/fsize"
	"github.com/reclaim-sh/reclaim/internal/testutil"
)

func newTestOrchestrator(cats []*catalog.Category) *Orchestrator {
	return &Orchestrator{
		registry: catalog.NewRegistryFrom(cats),
		sizer:    fsize.NewSizer(0),
		maxDepth: fsize.DefaultMaxDepth,
	}
}

func fixedCategory(id string, risk catalog.RiskLevel, paths ...string) *catalog.Category {
	return &catalog.Category{
		ID:        id,
		Name:      id,
		RiskLevel: risk,
		Paths:     paths,
	}
}

func TestScanPath(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("cache/a.bin", 100)
	f.CreateFileWithSize("cache/sub/b.bin", 200)

	o := newTestOrchestrator(nil)

	r, err := o.ScanPath(f.Path("cache"))
	require.NoError(t, err)
	assert.True(t, r.Exists)
	assert.Equal(t, int64(300), r.SizeBytes)
	assert.Equal(t, int64(2), r.FileCount)
	assert.Equal(t, int64(1), r.DirCount)

	r, err = o.ScanPath(f.Path("missing"))
	assert.Error(t, err)
	assert.False(t, r.Exists)
}

func TestScanCategoryAggregatesPaths(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("one/a.bin", 100)
	f.CreateFileWithSize("two/b.bin", 50)

	cat := fixedCategory("test_cache", catalog.RiskSafe,
		f.Path("missing"), f.Path("one"), f.Path("two"))
	o := newTestOrchestrator([]*catalog.Category{cat})

	r, err := o.ScanCategory(context.Background(), "test_cache")
	require.NoError(t, err)

	assert.Equal(t, int64(150), r.SizeBytes)
	assert.Equal(t, int64(2), r.FileCount)
	assert.True(t, r.Exists)
	// Display path is the first existing path with a nonzero size.
	assert.Equal(t, f.Path("one"), r.Path)
}

func TestScanCategoryAllPathsMissing(t *testing.T) {
	f := testutil.NewFixture(t)
	cat := fixedCategory("ghost", catalog.RiskSafe, f.Path("nope"), f.Path("also/nope"))
	o := newTestOrchestrator([]*catalog.Category{cat})

	r, err := o.ScanCategory(context.Background(), "ghost")
	require.NoError(t, err)

	assert.False(t, r.Exists)
	assert.Zero(t, r.SizeBytes)
	// Falls back to the first declared path.
	assert.Equal(t, f.Path("nope"), r.Path)
}

func TestScanCategoryUnknown(t *testing.T) {
	o := newTestOrchestrator(nil)
	_, err := o.ScanCategory(context.Background(), "no_such")
	assert.Error(t, err)
}

func TestScanRecursiveCategoryFiltersByMinSize(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("small/node_modules/x.js", 500*1024)
	f.CreateFileWithSize("big/node_modules/y.js", 2*1024*1024)

	cat := &catalog.Category{
		ID:        "node_modules",
		Name:      "Node Modules",
		RiskLevel: catalog.RiskSafe,
		Recursive: &catalog.RecursiveSpec{
			PatternNames: []string{"node_modules"},
			SearchRoots:  []string{f.RootDir},
			MinSizeBytes: 1024 * 1024,
		},
	}
	o := newTestOrchestrator([]*catalog.Category{cat})

	results, err := o.ScanRecursiveCategory(context.Background(), "node_modules")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, f.Path("big/node_modules"), results[0].Path)
}

func TestScanRecursiveCategoryDedupesOverlappingRoots(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("proj/node_modules/x.js", 10)

	cat := &catalog.Category{
		ID:        "node_modules",
		Name:      "Node Modules",
		RiskLevel: catalog.RiskSafe,
		Recursive: &catalog.RecursiveSpec{
			PatternNames: []string{"node_modules"},
			SearchRoots:  []string{f.RootDir, f.RootDir},
		},
	}
	o := newTestOrchestrator([]*catalog.Category{cat})

	results, err := o.ScanRecursiveCategory(context.Background(), "node_modules")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestScanRecursiveCategorySortsBySize(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("a/node_modules/x.js", 100)
	f.CreateFileWithSize("b/node_modules/y.js", 300)
	f.CreateFileWithSize("c/node_modules/z.js", 200)

	cat := &catalog.Category{
		ID:        "node_modules",
		Name:      "Node Modules",
		RiskLevel: catalog.RiskSafe,
		Recursive: &catalog.RecursiveSpec{
			PatternNames: []string{"node_modules"},
			SearchRoots:  []string{f.RootDir},
		},
	}
	o := newTestOrchestrator([]*catalog.Category{cat})

	results, err := o.ScanRecursiveCategory(context.Background(), "node_modules")
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, int64(300), results[0].SizeBytes)
	assert.Equal(t, int64(200), results[1].SizeBytes)
	assert.Equal(t, int64(100), results[2].SizeBytes)
}

func TestAggregateRecursive(t *testing.T) {
	cat := &catalog.Category{ID: "node_modules", Name: "Node Modules", RiskLevel: catalog.RiskSafe}

	t.Run("no matches", func(t *testing.T) {
		agg := AggregateRecursive(cat, nil)
		assert.False(t, agg.Exists)
		assert.Equal(t, "Node Modules", agg.CategoryName)
	})

	t.Run("single match keeps plain path", func(t *testing.T) {
		agg := AggregateRecursive(cat, []Result{{Path: "/p/node_modules", SizeBytes: 10}})
		assert.Equal(t, "Node Modules (1 found)", agg.CategoryName)
		assert.Equal(t, "/p/node_modules", agg.Path)
		assert.Equal(t, int64(10), agg.SizeBytes)
	})

	t.Run("multiple matches", func(t *testing.T) {
		agg := AggregateRecursive(cat, []Result{
			{Path: "/a/node_modules", SizeBytes: 30, FileCount: 3},
			{Path: "/b/node_modules", SizeBytes: 20, FileCount: 2},
		})
		assert.Equal(t, "Node Modules (2 found)", agg.CategoryName)
		assert.Equal(t, "/a/node_modules (+1 more)", agg.Path)
		assert.Equal(t, int64(50), agg.SizeBytes)
		assert.Equal(t, int64(5), agg.FileCount)
		assert.True(t, agg.Exists)
	})
}

func TestScanAllSortsDescendingAndKeepsRisk(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("safe/a.bin", 1000)
	f.CreateFileWithSize("review/b.bin", 2000)

	cats := []*catalog.Category{
		fixedCategory("safe_cat", catalog.RiskSafe, f.Path("safe")),
		fixedCategory("review_cat", catalog.RiskReview, f.Path("review")),
	}
	o := newTestOrchestrator(cats)

	results, err := o.ScanAll(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "review_cat", results[0].CategoryID)
	assert.Equal(t, int64(2000), results[0].SizeBytes)
	assert.Equal(t, int64(1000), results[1].SizeBytes)

	analysis := Analyze(results)
	require.Len(t, analysis.SafeItems, 1)
	assert.Equal(t, "safe_cat", analysis.SafeItems[0].CategoryID)
	require.Len(t, analysis.ReviewItems, 1)
	assert.Equal(t, int64(1000), analysis.SafeBytes)
	assert.Equal(t, int64(3000), analysis.TotalBytes)
}

func TestScanAllReportsProgressForEveryCategory(t *testing.T) {
	f := testutil.NewFixture(t)
	var cats []*catalog.Category
	for _, id := range []string{"c1", "c2", "c3"} {
		f.CreateFileWithSize(id+"/f.bin", 10)
		cats = append(cats, fixedCategory(id, catalog.RiskSafe, f.Path(id)))
	}
	o := newTestOrchestrator(cats)

	var mu sync.Mutex
	var dones []int
	total := 0
	_, err := o.ScanAll(context.Background(), Options{
		MaxWorkers: 2,
		Progress: func(name string, done, tot int) {
			mu.Lock()
			dones = append(dones, done)
			total = tot
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, total)
	assert.Equal(t, []int{1, 2, 3}, dones)
}

func TestScanAllCapturesCategoryFailure(t *testing.T) {
	f := testutil.NewFixture(t)
	cats := []*catalog.Category{
		fixedCategory("gone", catalog.RiskSafe, f.Path("missing")),
	}
	o := newTestOrchestrator(cats)

	results, err := o.ScanAll(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Exists)
	assert.Zero(t, results[0].SizeBytes)
	assert.Equal(t, "gone", results[0].CategoryID)
}

func TestScanAllIncludeDev(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileWithSize("proj/node_modules/x.js", 100)

	cats := []*catalog.Category{
		{
			ID:        "node_modules",
			Name:      "Node Modules",
			RiskLevel: catalog.RiskSafe,
			Recursive: &catalog.RecursiveSpec{
				PatternNames: []string{"node_modules"},
				SearchRoots:  []string{f.RootDir},
			},
		},
	}
	o := newTestOrchestrator(cats)

	results, err := o.ScanAll(context.Background(), Options{})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = o.ScanAll(context.Background(), Options{IncludeDev: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Node Modules (1 found)", results[0].CategoryName)
}
