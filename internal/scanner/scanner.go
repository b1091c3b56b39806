// Package scanner walks the category catalog, sizes every target, and
// assembles the per-category results that drive reports and cleanups.
package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/reclaim-sh/reclaim/internal/catalog"
	"github.com/reclaim-sh/reclaim/internal/docker"
	"github.com/reclaim-sh/reclaim/internal/fsize"
	"github.com/reclaim-sh/reclaim/internal/log"
	"github.com/reclaim-sh/reclaim/internal/pathutil"
)

// DefaultWorkers bounds the fixed-path scan pool.
const DefaultWorkers = 4

// Result is the measured size of one category (or one recursive match).
type Result struct {
	CategoryID   string            `json:"category_id"`
	CategoryName string            `json:"category_name"`
	Path         string            `json:"path"`
	SizeBytes    int64             `json:"size_bytes"`
	FileCount    int64             `json:"file_count"`
	DirCount     int64             `json:"dir_count"`
	RiskLevel    catalog.RiskLevel `json:"risk_level"`
	Exists       bool              `json:"exists"`
	Error        string            `json:"error,omitempty"`
}

// GB returns the size in decimal gigabytes.
func (r *Result) GB() float64 {
	return float64(r.SizeBytes) / 1e9
}

// HumanSize renders the size with decimal SI units ("1.2 GB").
func (r *Result) HumanSize() string {
	return humanize.Bytes(uint64(r.SizeBytes))
}

// ProgressFunc is called once per completed category during ScanAll.
// Completion order is not category order.
type ProgressFunc func(categoryName string, done, total int)

// Options tune a full scan.
type Options struct {
	// IncludeDev enables the recursive project-artifact pass.
	IncludeDev bool
	// MaxWorkers caps the fixed-path pool; 0 means DefaultWorkers.
	MaxWorkers int
	// Progress, when set, receives completion callbacks.
	Progress ProgressFunc
}

// Orchestrator coordinates category scans over a shared size cache.
type Orchestrator struct {
	registry *catalog.Registry
	sizer    *fsize.Sizer
	docker   *docker.Client
	maxDepth int
}

// New creates an Orchestrator with the built-in catalog and a fresh cache.
func New() *Orchestrator {
	return &Orchestrator{
		registry: catalog.NewRegistry(),
		sizer:    fsize.NewSizer(fsize.DefaultTTL),
		docker:   docker.NewClient(),
		maxDepth: fsize.DefaultMaxDepth,
	}
}

// Registry exposes the category catalog.
func (o *Orchestrator) Registry() *catalog.Registry { return o.registry }

// Sizer exposes the shared size engine.
func (o *Orchestrator) Sizer() *fsize.Sizer { return o.sizer }

// ScanPath measures a single path, expanding ~ and $VARs first.
func (o *Orchestrator) ScanPath(path string) (Result, error) {
	expanded := pathutil.Expand(path)
	stats, exists := o.sizer.FileOrDirSize(expanded, o.maxDepth)
	r := Result{
		Path:      expanded,
		SizeBytes: stats.Bytes,
		FileCount: stats.Files,
		DirCount:  stats.Dirs,
		Exists:    exists,
	}
	if !exists {
		return r, fmt.Errorf("path does not exist: %s", expanded)
	}
	return r, nil
}

// ScanCategory measures every path of a fixed-path category and folds
// them into one result. Recursive categories are not valid here.
func (o *Orchestrator) ScanCategory(ctx context.Context, id string) (Result, error) {
	cat := o.registry.Get(id)
	if cat == nil {
		return Result{CategoryID: id, Error: "unknown category"}, fmt.Errorf("unknown category: %s", id)
	}
	if cat.IsRecursive() {
		return Result{CategoryID: id, Error: "recursive category"},
			fmt.Errorf("category %s requires a recursive scan", id)
	}

	if cat.ExternalTool && cat.ID == "docker_data" {
		if r, ok := o.scanDocker(ctx, cat); ok {
			return r, nil
		}
		// Docker unreachable; fall through to sizing the VM image on disk.
	}

	parts := make([]Result, 0, len(cat.Paths))
	for _, p := range cat.Paths {
		pr, err := o.ScanPath(p)
		if err != nil && pr.Exists {
			pr.Error = err.Error()
		}
		parts = append(parts, pr)
	}
	return o.aggregate(cat, parts), nil
}

// scanDocker asks the docker CLI for real usage. Returns ok=false when
// the daemon is unreachable so the caller can fall back.
func (o *Orchestrator) scanDocker(ctx context.Context, cat *catalog.Category) (Result, bool) {
	b := o.docker.Usage(ctx)
	if !b.Available {
		log.Debug("docker unavailable, falling back to filesystem scan: %s", b.Err)
		return Result{}, false
	}
	return Result{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Path:         "[docker: images, containers, volumes, build cache]",
		SizeBytes:    b.TotalBytes,
		RiskLevel:    cat.RiskLevel,
		Exists:       b.TotalBytes > 0,
	}, true
}

// aggregate folds per-path results into one category result. The display
// path is the first path that exists with a nonzero size, else the first
// input's path. Counts sum, Exists is an OR, errors join with "; ".
func (o *Orchestrator) aggregate(cat *catalog.Category, parts []Result) Result {
	if len(parts) == 0 {
		return Result{CategoryID: cat.ID, CategoryName: cat.Name, RiskLevel: cat.RiskLevel}
	}

	agg := Result{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Path:         parts[0].Path,
		RiskLevel:    cat.RiskLevel,
	}
	var errs []string
	pathChosen := false
	for _, p := range parts {
		agg.SizeBytes += p.SizeBytes
		agg.FileCount += p.FileCount
		agg.DirCount += p.DirCount
		if p.Exists {
			agg.Exists = true
			if !pathChosen && p.SizeBytes > 0 {
				agg.Path = p.Path
				pathChosen = true
			}
		}
		if p.Error != "" {
			errs = append(errs, p.Error)
		}
	}
	agg.Error = strings.Join(errs, "; ")
	return agg
}

// ScanRecursiveCategory discovers and measures every match of a
// recursive category, sorted largest first. Matches below the
// category's minimum size are dropped, and a directory found under two
// search roots is counted once.
func (o *Orchestrator) ScanRecursiveCategory(ctx context.Context, id string) ([]Result, error) {
	cat := o.registry.Get(id)
	if cat == nil {
		return nil, fmt.Errorf("unknown category: %s", id)
	}
	if !cat.IsRecursive() {
		return nil, fmt.Errorf("category %s is not recursive", id)
	}

	seen := make(map[string]struct{})
	var results []Result
	for _, root := range cat.Recursive.SearchRoots {
		expanded := pathutil.Expand(root)
		for _, pattern := range cat.Recursive.PatternNames {
			matches := fsize.FindMatching(expanded, pattern, fsize.DefaultDiscoverDepth)
			for match := range matches {
				if err := ctx.Err(); err != nil {
					drain(matches)
					return results, err
				}
				if _, dup := seen[match]; dup {
					continue
				}
				seen[match] = struct{}{}

				stats := o.sizer.SizeCached(match, o.maxDepth)
				if stats.Bytes < cat.Recursive.MinSizeBytes {
					continue
				}
				results = append(results, Result{
					CategoryID:   cat.ID,
					CategoryName: cat.Name,
					Path:         match,
					SizeBytes:    stats.Bytes,
					FileCount:    stats.Files,
					DirCount:     stats.Dirs,
					RiskLevel:    cat.RiskLevel,
					Exists:       true,
				})
			}
		}
	}

	sortBySize(results)
	return results, nil
}

// AggregateRecursive folds the matches of one recursive category into a
// single summary row: "node_modules (12 found)" with a "+11 more" path
// suffix. Returns a zero-value result when there are no matches.
func AggregateRecursive(cat *catalog.Category, matches []Result) Result {
	agg := Result{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		RiskLevel:    cat.RiskLevel,
	}
	if len(matches) == 0 {
		return agg
	}

	agg.CategoryName = fmt.Sprintf("%s (%d found)", cat.Name, len(matches))
	agg.Path = matches[0].Path
	if len(matches) > 1 {
		agg.Path = fmt.Sprintf("%s (+%d more)", matches[0].Path, len(matches)-1)
	}
	for _, m := range matches {
		agg.SizeBytes += m.SizeBytes
		agg.FileCount += m.FileCount
		agg.DirCount += m.DirCount
	}
	agg.Exists = true
	return agg
}

// ScanAll scans every fixed-path category on a bounded pool, optionally
// follows with the recursive dev-artifact pass, and returns all results
// sorted largest first. A category that fails still yields a zero-size
// result carrying the error.
func (o *Orchestrator) ScanAll(ctx context.Context, opts Options) ([]Result, error) {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	fixed := o.registry.Fixed()
	recursive := o.registry.RecursiveOnly()
	total := len(fixed)
	if opts.IncludeDev {
		total += len(recursive)
	}

	var (
		mu      sync.Mutex
		results []Result
		done    int
	)
	report := func(name string) {
		done++
		if opts.Progress != nil {
			opts.Progress(name, done, total)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, cat := range fixed {
		cat := cat
		g.Go(func() error {
			r, err := o.ScanCategory(gctx, cat.ID)
			if err != nil && r.Error == "" {
				r.Error = err.Error()
			}
			r.CategoryID = cat.ID
			r.CategoryName = cat.Name
			r.RiskLevel = cat.RiskLevel

			mu.Lock()
			results = append(results, r)
			report(cat.Name)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	if opts.IncludeDev {
		for _, cat := range recursive {
			matches, err := o.ScanRecursiveCategory(ctx, cat.ID)
			agg := AggregateRecursive(cat, matches)
			if err != nil {
				agg.Error = err.Error()
			}
			if agg.Exists {
				results = append(results, agg)
			}

			mu.Lock()
			report(cat.Name)
			mu.Unlock()
		}
	}

	sortBySize(results)
	return results, ctx.Err()
}

// drain unblocks a discovery producer after an early exit.
func drain(ch <-chan string) {
	go func() {
		for range ch {
		}
	}()
}

func sortBySize(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].SizeBytes > rs[j].SizeBytes
	})
}

// Analysis groups scan results by risk for reporting and safe-clean runs.
type Analysis struct {
	SafeItems   []Result `json:"safe_items"`
	ReviewItems []Result `json:"review_items"`
	RiskyItems  []Result `json:"risky_items"`
	TotalBytes  int64    `json:"total_bytes"`
	SafeBytes   int64    `json:"safe_bytes"`
}

// Analyze splits results by risk level and totals them.
func Analyze(results []Result) *Analysis {
	a := &Analysis{}
	for _, r := range results {
		if !r.Exists || r.SizeBytes == 0 {
			continue
		}
		a.TotalBytes += r.SizeBytes
		switch r.RiskLevel {
		case catalog.RiskSafe:
			a.SafeItems = append(a.SafeItems, r)
			a.SafeBytes += r.SizeBytes
		case catalog.RiskReview:
			a.ReviewItems = append(a.ReviewItems, r)
		default:
			a.RiskyItems = append(a.RiskyItems, r)
		}
	}
	return a
}
