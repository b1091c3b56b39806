// Package cleaner deletes what the scanner found, behind a deny list of
// paths that must never be removed and a per-run size ceiling.
package cleaner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/reclaim-sh/reclaim/internal/catalog"
	"github.com/reclaim-sh/reclaim/internal/docker"
	"github.com/reclaim-sh/reclaim/internal/fsize"
	"github.com/reclaim-sh/reclaim/internal/log"
	"github.com/reclaim-sh/reclaim/internal/pathutil"
	"github.com/reclaim-sh/reclaim/internal/protect"
)

const (
	// MaxCleanupBytes caps a single request at 100 GB (decimal).
	MaxCleanupBytes = 100 * 1000 * 1000 * 1000

	commandTimeout = 300 * time.Second
)

// blockedPaths are never deletable, no matter what a category says.
var blockedPaths = []string{
	"~",
	"~/Documents",
	"~/Desktop",
	"~/Pictures",
	"~/Music",
	"~/Movies",
	"~/Code",
	"~/Projects",
	"~/Work",
	"/System",
	"/Library",
	"/Applications",
	"/usr",
	"/bin",
	"/sbin",
	"/var",
	"/private",
	"/Users",
}

// Result records the outcome of cleaning one category.
type Result struct {
	CategoryID   string   `json:"category_id"`
	CategoryName string   `json:"category_name"`
	Success      bool     `json:"success"`
	DryRun       bool     `json:"dry_run"`
	FreedBytes   int64    `json:"freed_bytes"`
	DeletedFiles int64    `json:"deleted_files"`
	Paths        []string `json:"paths,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// HumanFreed renders the freed size with decimal SI units.
func (r *Result) HumanFreed() string {
	return humanize.Bytes(uint64(r.FreedBytes))
}

// Executor performs cleanups against the category catalog.
type Executor struct {
	registry *catalog.Registry
	sizer    *fsize.Sizer
	store    *protect.Store
	docker   *docker.Client
	maxDepth int
}

// New creates an Executor sharing the given registry and size engine.
func New(registry *catalog.Registry, sizer *fsize.Sizer, store *protect.Store) *Executor {
	return &Executor{
		registry: registry,
		sizer:    sizer,
		store:    store,
		docker:   docker.NewClient(),
		maxDepth: fsize.DefaultMaxDepth,
	}
}

// IsPathSafe reports whether path may be deleted. The deny list matches
// exactly so contents of blocked directories stay deletable, and the
// home directory itself is always refused.
func IsPathSafe(path string) bool {
	cleaned := filepath.Clean(pathutil.Expand(path))
	if home := pathutil.Home(); home != "" && cleaned == home {
		return false
	}
	for _, blocked := range blockedPaths {
		if cleaned == filepath.Clean(pathutil.Expand(blocked)) {
			return false
		}
	}
	return true
}

// DeletePath measures then removes a file or directory. A missing path
// frees nothing and is not an error. In dry-run mode nothing is touched
// and the measured size is reported as reclaimable.
func (e *Executor) DeletePath(path string, dryRun bool) (freed, files int64, err error) {
	expanded := pathutil.Expand(path)
	info, statErr := os.Lstat(expanded)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return 0, 0, nil
		}
		return 0, 0, categorize(expanded, statErr)
	}

	var stats fsize.Stats
	if info.IsDir() {
		stats = e.sizer.SizeCached(expanded, e.maxDepth)
	} else {
		stats = fsize.Stats{Bytes: info.Size(), Files: 1}
	}

	if dryRun {
		return stats.Bytes, stats.Files, nil
	}

	if info.IsDir() {
		err = os.RemoveAll(expanded)
	} else {
		err = os.Remove(expanded)
	}
	if err != nil {
		return 0, 0, categorize(expanded, err)
	}
	return stats.Bytes, stats.Files, nil
}

// CleanCategory cleans one category by id. Categories with a native
// cleanup command run it instead of deleting paths; in dry-run mode the
// command is reported but not executed.
func (e *Executor) CleanCategory(ctx context.Context, id string, dryRun bool) Result {
	res := Result{CategoryID: id, DryRun: dryRun}

	cat := e.registry.Get(id)
	if cat == nil {
		res.Errors = append(res.Errors, fmt.Sprintf("unknown category: %s", id))
		return res
	}
	res.CategoryName = cat.Name

	if e.store.IsCategoryProtected(id) {
		res.Errors = append(res.Errors, (&CleanupError{Path: id, Reason: ReasonProtected}).Error())
		return res
	}

	if cat.CleanupCommand != "" {
		return e.runNativeCommand(ctx, cat, res)
	}

	for _, p := range cat.Paths {
		expanded := pathutil.Expand(p)
		if e.store.IsProtected(expanded) {
			log.Debug("skipping protected path: %s", expanded)
			continue
		}
		if !IsPathSafe(expanded) {
			res.Errors = append(res.Errors, (&CleanupError{Path: expanded, Reason: ReasonUnsafePath}).Error())
			continue
		}
		freed, files, err := e.DeletePath(expanded, dryRun)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		if freed > 0 {
			res.FreedBytes += freed
			res.DeletedFiles += files
			res.Paths = append(res.Paths, expanded)
		}
	}

	res.Success = len(res.Errors) == 0
	return res
}

// runNativeCommand executes a category's own cleanup tool, e.g.
// "docker system prune -a" or "go clean -modcache".
func (e *Executor) runNativeCommand(ctx context.Context, cat *catalog.Category, res Result) Result {
	res.Paths = append(res.Paths, fmt.Sprintf("[native command: %s]", cat.CleanupCommand))
	if res.DryRun {
		res.Success = true
		return res
	}

	before := int64(0)
	for _, p := range cat.Paths {
		if stats, ok := e.sizer.FileOrDirSize(pathutil.Expand(p), e.maxDepth); ok {
			before += stats.Bytes
		}
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	parts := strings.Fields(cat.CleanupCommand)
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		ce := &CleanupError{Path: cat.CleanupCommand, Reason: ReasonCommandFailure, Original: err}
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", ce.Error(), strings.TrimSpace(string(out))))
		return res
	}

	e.sizer.Cache().Clear()
	after := int64(0)
	for _, p := range cat.Paths {
		if stats, ok := e.sizer.FileOrDirSize(pathutil.Expand(p), e.maxDepth); ok {
			after += stats.Bytes
		}
	}
	if before > after {
		res.FreedBytes = before - after
	}
	res.Success = true
	return res
}

// CleanCategories cleans several categories in sequence and returns the
// per-category outcomes in request order.
func (e *Executor) CleanCategories(ctx context.Context, ids []string, dryRun bool) []Result {
	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, e.CleanCategory(ctx, id, dryRun))
	}
	return results
}

// CleanSafeItems cleans every safe-risk category.
func (e *Executor) CleanSafeItems(ctx context.Context, dryRun bool) []Result {
	var ids []string
	for _, cat := range e.registry.ByRisk(catalog.RiskSafe) {
		if !cat.IsRecursive() {
			ids = append(ids, cat.ID)
		}
	}
	return e.CleanCategories(ctx, ids, dryRun)
}

/// ValidateRequest rejects a cleanup before anything is touched: every
// id must exist in the catalog and the estimated total must stay under
// the per-run ceiling.
func (e *Executor) ValidateRequest(ids []string, estimatedBytes int64) error {
	if estimatedBytes >= MaxCleanupBytes {
		return &CleanupError{
			Path:   humanize.Bytes(uint64(estimatedBytes)),
			Reason: ReasonSafetyLimit,
		}
	}
	for _, id := range ids {
		if e.registry.Get(id) == nil {
			return fmt.Errorf("unknown category: %s", id)
		}
	}
	return nil
}

// DeleteArtifactDir removes one discovered project-artifact directory
// (node_modules, target, __pycache__, ...). The basename must match a
// recursive category pattern so arbitrary directories cannot sneak in.
func (e *Executor) DeleteArtifactDir(path string, dryRun bool) (int64, error) {
	expanded := pathutil.Expand(path)
	base := filepath.Base(expanded)
	if !e.isArtifactName(base) {
		return 0, &CleanupError{Path: expanded, Reason: ReasonUnsafePath}
	}
	if e.store.IsProtected(expanded) {
		return 0, &CleanupError{Path: expanded, Reason: ReasonProtected}
	}
	if !IsPathSafe(expanded) {
		return 0, &CleanupError{Path: expanded, Reason: ReasonUnsafePath}
	}
	freed, _, err := e.DeletePath(expanded, dryRun)
	return freed, err
}

func (e *Executor) isArtifactName(name string) bool {
	for _, cat := range e.registry.RecursiveOnly() {
		for _, pattern := range cat.Recursive.PatternNames {
			if name == pattern {
				return true
			}
		}
	}
	return false
}

// DeleteAppCache removes one entry under ~/Library/Caches. The path
// must resolve inside the caches directory.
func (e *Executor) DeleteAppCache(path string, dryRun bool) (int64, error) {
	expanded := filepath.Clean(pathutil.Expand(path))
	cachesRoot := pathutil.Expand("~/Library/Caches")
	if expanded == cachesRoot || !strings.HasPrefix(expanded, cachesRoot+string(filepath.Separator)) {
		return 0, &CleanupError{Path: expanded, Reason: ReasonUnsafePath}
	}
	if e.store.IsProtected(expanded) {
		return 0, &CleanupError{Path: expanded, Reason: ReasonProtected}
	}
	freed, _, err := e.DeletePath(expanded, dryRun)
	return freed, err
}

// RemoveDockerItem deletes one docker image, container, or volume.
func (e *Executor) RemoveDockerItem(ctx context.Context, kind, id string, dryRun bool) error {
	if dryRun {
		return nil
	}
	if err := e.docker.RemoveItem(ctx, kind, id); err != nil {
		return &CleanupError{Path: fmt.Sprintf("%s/%s", kind, id), Reason: ReasonCommandFailure, Original: err}
	}
	return nil
}
