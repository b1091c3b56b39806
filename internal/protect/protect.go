// Package protect persists user-marked paths and categories that the
// cleaner must never touch.
package protect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reclaim-sh/reclaim/internal/log"
	"github.com/reclaim-sh/reclaim/internal/pathutil"
)

// DefaultPath is where the protection file lives.
const DefaultPath = "~/.reclaim/config.json"

// fileFormat is the on-disk JSON shape.
type fileFormat struct {
	ProtectedPaths      []string `json:"protectedPaths"`
	ProtectedCategories []string `json:"protectedCategories"`
}

// Store reads and writes the protection file. Every query reloads from
// disk so edits made by other processes take effect immediately.
type Store struct {
	path string
}

// NewStore opens a store at path, or at DefaultPath when empty.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: pathutil.Expand(path)}
}

// Path returns the expanded location of the protection file.
func (s *Store) Path() string { return s.path }

// load reads the file, treating a missing or corrupt file as empty.
func (s *Store) load() fileFormat {
	var f fileFormat
	data, err := os.ReadFile(s.path)
	if err != nil {
		return f
	}
	if err := json.Unmarshal(data, &f); err != nil {
		log.Warn("ignoring corrupt protection file %s: %v", s.path, err)
		return fileFormat{}
	}
	return f
}

func (s *Store) save(f fileFormat) error {
	if f.ProtectedPaths == nil {
		f.ProtectedPaths = []string{}
	}
	if f.ProtectedCategories == nil {
		f.ProtectedCategories = []string{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// IsProtected reports whether path equals a protected path or lives
// underneath one.
func (s *Store) IsProtected(path string) bool {
	cleaned := filepath.Clean(pathutil.Expand(path))
	for _, p := range s.load().ProtectedPaths {
		protected := filepath.Clean(pathutil.Expand(p))
		if cleaned == protected || strings.HasPrefix(cleaned, protected+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsCategoryProtected reports whether a category id is protected.
func (s *Store) IsCategoryProtected(id string) bool {
	for _, c := range s.load().ProtectedCategories {
		if c == id {
			return true
		}
	}
	return false
}

// AddPath protects a path. The path must exist, which catches typos
// before they silently protect nothing.
func (s *Store) AddPath(path string) error {
	expanded := filepath.Clean(pathutil.Expand(path))
	if _, err := os.Lstat(expanded); err != nil {
		return fmt.Errorf("cannot protect %s: %w", expanded, err)
	}

	f := s.load()
	for _, p := range f.ProtectedPaths {
		if filepath.Clean(pathutil.Expand(p)) == expanded {
			return nil
		}
	}
	f.ProtectedPaths = append(f.ProtectedPaths, expanded)
	return s.save(f)
}

// RemovePath drops a path from the protection list. Removing a path
// that was never protected is not an error.
func (s *Store) RemovePath(path string) error {
	expanded := filepath.Clean(pathutil.Expand(path))
	f := s.load()
	kept := f.ProtectedPaths[:0]
	for _, p := range f.ProtectedPaths {
		if filepath.Clean(pathutil.Expand(p)) != expanded {
			kept = append(kept, p)
		}
	}
	f.ProtectedPaths = kept
	return s.save(f)
}

// AddCategory protects a category id.
func (s *Store) AddCategory(id string) error {
	f := s.load()
	for _, c := range f.ProtectedCategories {
		if c == id {
			return nil
		}
	}
	f.ProtectedCategories = append(f.ProtectedCategories, id)
	return s.save(f)
}

// RemoveCategory drops a category id from the protection list.
func (s *Store) RemoveCategory(id string) error {
	f := s.load()
	kept := f.ProtectedCategories[:0]
	for _, c := range f.ProtectedCategories {
		if c != id {
			kept = append(kept, c)
		}
	}
	f.ProtectedCategories = kept
	return s.save(f)
}

// Paths returns the protected paths, sorted.
func (s *Store) Paths() []string {
	paths := append([]string(nil), s.load().ProtectedPaths...)
	sort.Strings(paths)
	return paths
}

// Categories returns the protected category ids, sorted.
func (s *Store) Categories() []string {
	cats := append([]string(nil), s.load().ProtectedCategories...)
	sort.Strings(cats)
	return cats
}
