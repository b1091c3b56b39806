// Package testutil provides test helpers and fixtures. All file
// operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture holds a temp directory tree shaped like the things the
// scanner and cleaner operate on.
type Fixture struct {
	T       *testing.T
	RootDir string
}

// NewFixture creates a fixture rooted in a fresh temp directory.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{T: t, RootDir: t.TempDir()}
}

// Path joins relPath onto the fixture root.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateFile creates a file with the given content, making parent
// directories as needed, and returns its path.
func (f *Fixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateFileWithSize creates a file holding size zero bytes.
func (f *Fixture) CreateFileWithSize(relPath string, size int) string {
	f.T.Helper()
	return f.CreateFile(relPath, make([]byte, size))
}

// CreateDir creates a directory (and parents) under the root.
func (f *Fixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateSymlink creates a symlink at relPath pointing to target.
func (f *Fixture) CreateSymlink(relPath, target string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Fatalf("failed to create symlink %s: %v", fullPath, err)
	}
	return fullPath
}

// Touch sets a path's modification time age in the past.
func (f *Fixture) Touch(relPath string, age time.Duration) {
	f.T.Helper()

	old := time.Now().Add(-age)
	if err := os.Chtimes(f.Path(relPath), old, old); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", relPath, err)
	}
}

// CreateNodeProject builds a project directory with a package.json and
// a node_modules tree holding size bytes of file data.
func (f *Fixture) CreateNodeProject(relPath, name string, size int) string {
	f.T.Helper()

	f.CreateFile(filepath.Join(relPath, "package.json"), []byte(`{"name": "`+name+`"}`))
	f.CreateFileWithSize(filepath.Join(relPath, "node_modules", "dep", "index.js"), size)
	return f.Path(filepath.Join(relPath, "node_modules"))
}

// CreateVenv builds a .venv directory holding size bytes of file data.
func (f *Fixture) CreateVenv(relPath string, size int) string {
	f.T.Helper()

	f.CreateFileWithSize(filepath.Join(relPath, ".venv", "lib", "site.py"), size)
	return f.Path(filepath.Join(relPath, ".venv"))
}

// TreeSize walks a directory and returns the total regular-file bytes,
// for verifying sizing logic independently.
func TreeSize(t *testing.T, root string) int64 {
	t.Helper()

	var total int64
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk %s: %v", root, err)
	}
	return total
}
