package scanner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reclaim-sh/reclaim/internal/catalog"
	"github.com/reclaim-sh/reclaim/internal/fsize"
	"github.com/reclaim-sh/reclaim/internal/pathutil"
)

// breakdownWorkers is wider than the category pool because per-entry
// sizing jobs are smaller.
const breakdownWorkers = 6

// inactiveAfter marks a project as dormant for the node_modules report.
const inactiveAfter = 180 * 24 * time.Hour

// bundleOwners maps cache bundle-id prefixes to a friendly app name.
var bundleOwners = map[string]string{
	"com.google.Chrome":         "Google Chrome",
	"com.apple.Safari":          "Safari",
	"com.microsoft.VSCode":      "VS Code",
	"com.microsoft.edgemac":     "Microsoft Edge",
	"org.mozilla.firefox":       "Firefox",
	"com.spotify.client":        "Spotify",
	"com.tinyspeck.slackmacgap": "Slack",
	"com.docker.docker":         "Docker",
}

// AppCache is one entry under ~/Library/Caches.
type AppCache struct {
	Name      string `json:"name"`
	BundleID  string `json:"bundle_id"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// AppCachesBreakdown sizes every entry of ~/Library/Caches in parallel
// and returns them sorted largest first.
func (o *Orchestrator) AppCachesBreakdown(ctx context.Context) ([]AppCache, error) {
	root := pathutil.Expand("~/Library/Caches")
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	caches := make([]AppCache, len(entries))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(breakdownWorkers)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			path := filepath.Join(root, entry.Name())
			stats, ok := o.sizer.FileOrDirSize(path, o.maxDepth)
			if !ok {
				return nil
			}
			caches[i] = AppCache{
				Name:      ownerName(entry.Name()),
				BundleID:  entry.Name(),
				Path:      path,
				SizeBytes: stats.Bytes,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := caches[:0]
	for _, c := range caches {
		if c.Path != "" && c.SizeBytes > 0 {
			out = append(out, c)
		}
	}
	sortAppCaches(out)
	return out, nil
}

func ownerName(bundleID string) string {
	for prefix, name := range bundleOwners {
		if strings.HasPrefix(bundleID, prefix) {
			return name
		}
	}
	return bundleID
}

func sortAppCaches(cs []AppCache) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j].SizeBytes > cs[j-1].SizeBytes; j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}

// NodeProject is one project directory holding a node_modules tree.
type NodeProject struct {
	Name         string    `json:"name"`
	ProjectPath  string    `json:"project_path"`
	ModulesPath  string    `json:"modules_path"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
	Inactive     bool      `json:"inactive"`
}

// NodeModulesBreakdown lists per-project node_modules sizes across the
// usual project roots plus top-level projects in the home directory.
// Projects untouched for six months are flagged inactive.
func (o *Orchestrator) NodeModulesBreakdown(ctx context.Context) ([]NodeProject, error) {
	roots := catalog.ProjectRoots()
	roots = append(roots, homeTopLevelProjects()...)

	seen := make(map[string]struct{})
	var projects []NodeProject
	for _, root := range roots {
		expanded := pathutil.Expand(root)
		matches := fsize.FindMatching(expanded, "node_modules", fsize.DefaultDiscoverDepth)
		for match := range matches {
			if err := ctx.Err(); err != nil {
				drain(matches)
				return projects, err
			}
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}

			stats := o.sizer.SizeCached(match, o.maxDepth)
			if stats.Bytes == 0 {
				continue
			}
			projectDir := filepath.Dir(match)
			p := NodeProject{
				Name:        projectName(projectDir),
				ProjectPath: projectDir,
				ModulesPath: match,
				SizeBytes:   stats.Bytes,
			}
			if info, err := os.Stat(projectDir); err == nil {
				p.LastModified = info.ModTime()
				p.Inactive = time.Since(info.ModTime()) > inactiveAfter
			}
			projects = append(projects, p)
		}
	}

	sortNodeProjects(projects)
	return projects, nil
}

// projectName prefers the package.json name, falling back to the
// directory basename.
func projectName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err == nil {
		var pkg struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(data, &pkg) == nil && pkg.Name != "" {
			return pkg.Name
		}
	}
	return filepath.Base(dir)
}

// homeTopLevelProjects finds direct home subdirectories that look like
// projects (carry a package.json or .git) without descending further.
func homeTopLevelProjects() []string {
	home := pathutil.Home()
	if home == "" {
		return nil
	}
	entries, err := os.ReadDir(home)
	if err != nil {
		return nil
	}
	var roots []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(home, e.Name())
		if fileExists(filepath.Join(dir, "package.json")) || fileExists(filepath.Join(dir, ".git")) {
			roots = append(roots, dir)
		}
	}
	return roots
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func sortNodeProjects(ps []NodeProject) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].SizeBytes > ps[j-1].SizeBytes; j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}

// LargeFile is one oversized regular file.
type LargeFile struct {
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// FindLargeFiles walks root and returns regular files of at least
// minBytes, largest first, up to limit entries. Symlinks are never
// followed and unreadable branches are skipped.
func FindLargeFiles(ctx context.Context, root string, minBytes int64, limit int) ([]LargeFile, error) {
	root = pathutil.Expand(root)
	var files []LargeFile
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() < minBytes {
			return nil
		}
		files = append(files, LargeFile{Path: path, SizeBytes: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return files, err
	}

	for i := 1; i < len(files); i++ {
		for j := i; j > 0 && files[j].SizeBytes > files[j-1].SizeBytes; j-- {
			files[j], files[j-1] = files[j-1], files[j]
		}
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

// FindProjectArtifacts runs every recursive dev category and returns
// the matches keyed by category id.
func (o *Orchestrator) FindProjectArtifacts(ctx context.Context) (map[string][]Result, error) {
	artifacts := make(map[string][]Result)
	for _, cat := range o.registry.RecursiveOnly() {
		matches, err := o.ScanRecursiveCategory(ctx, cat.ID)
		if err != nil {
			return artifacts, err
		}
		if len(matches) > 0 {
			artifacts[cat.ID] = matches
		}
	}
	return artifacts, nil
}
