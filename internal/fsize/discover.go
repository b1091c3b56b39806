package fsize

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDiscoverDepth bounds recursive pattern discovery.
const DefaultDiscoverDepth = 15

// skipDirs are never descended into while discovering artifacts: either
// they are unproductive (VCS metadata, macOS system trees) or they are
// themselves artifact directories whose contents must not be searched
// for more matches. A name in this set is still matched when it equals
// the pattern being searched for.
var skipDirs = map[string]struct{}{
	".git":         {},
	".svn":         {},
	".hg":          {},
	"Library":      {},
	"Applications": {},
	".Trash":       {},
	"node_modules": {},
	".venv":        {},
	"venv":         {},
	"__pycache__":  {},
}

// FindMatching lazily yields directories named pattern found anywhere
// under root, up to maxDepth levels deep. Matches are not recursed into,
// so no yielded path is nested inside another (a vendored node_modules
// inside another never double-counts). Symlinked directories are never
// followed. Hidden entries are skipped unless the pattern itself is a
// hidden name. Unreadable directories terminate only their own branch.
//
// The returned channel is closed when the traversal finishes; consumers
// must drain it.
func FindMatching(root, pattern string, maxDepth int) <-chan string {
	if maxDepth <= 0 {
		maxDepth = DefaultDiscoverDepth
	}

	out := make(chan string)
	go func() {
		defer close(out)
		descend(root, pattern, maxDepth, out)
	}()
	return out
}

func descend(dir, pattern string, depth int, out chan<- string) {
	if depth <= 0 {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 || !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if skipHidden(name, pattern) {
			continue
		}
		if _, denied := skipDirs[name]; denied && name != pattern {
			continue
		}

		path := filepath.Join(dir, name)
		if name == pattern {
			out <- path
			// No node_modules inside node_modules.
			continue
		}

		descend(path, pattern, depth-1, out)
	}
}

// skipHidden reports whether a dot-named directory should be skipped.
// A hidden name is kept when it equals the pattern, and virtualenv
// spellings are kept when a virtualenv spelling is being searched for.
func skipHidden(name, pattern string) bool {
	if !strings.HasPrefix(name, ".") || name == pattern {
		return false
	}
	if isVenvName(name) && isVenvName(pattern) {
		return false
	}
	return true
}

func isVenvName(name string) bool {
	return name == ".venv" || name == ".virtualenv"
}
