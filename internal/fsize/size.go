// Package fsize measures directory trees: total byte size, file and
// directory counts, with depth bounds and a TTL cache shared across
// concurrent scanners.
package fsize

import (
	"io/fs"
	"os"
	"time"
)

// DefaultMaxDepth bounds how deep a size walk descends.
const DefaultMaxDepth = 20

// Stats is the result of measuring one directory tree.
type Stats struct {
	Bytes int64
	Files int64
	Dirs  int64
}

func (s Stats) add(other Stats) Stats {
	return Stats{
		Bytes: s.Bytes + other.Bytes,
		Files: s.Files + other.Files,
		Dirs:  s.Dirs + other.Dirs,
	}
}

// Sizer computes directory sizes. The zero value is not usable; create
// one with NewSizer so the cache is initialized.
type Sizer struct {
	cache *Cache
}

// NewSizer creates a Sizer with a fresh cache using ttl (DefaultTTL if
// non-positive).
func NewSizer(ttl time.Duration) *Sizer {
	return &Sizer{cache: NewCache(ttl)}
}

// Cache exposes the underlying cache, mainly so callers can Clear it
// after deleting measured paths.
func (s *Sizer) Cache() *Cache {
	return s.cache
}

// Size walks path up to maxDepth levels deep, summing regular-file
// sizes and counting files and directories. Symlinks are never
// followed. Entries or subtrees that cannot be read contribute zero;
// a single inaccessible directory never fails the walk.
func (s *Sizer) Size(path string, maxDepth int) Stats {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return walk(path, 0, maxDepth)
}

// SizeCached is Size backed by the shared cache: a hit younger than the
// TTL is returned without rescanning, otherwise the path is measured
// and the cache entry replaced. Concurrent callers measuring the same
// path may both recompute; last write wins.
func (s *Sizer) SizeCached(path string, maxDepth int) Stats {
	if stats, ok := s.cache.Get(path); ok {
		return stats
	}
	stats := s.Size(path, maxDepth)
	s.cache.Put(path, stats)
	return stats
}

func walk(path string, depth, maxDepth int) Stats {
	var stats Stats
	if depth > maxDepth {
		return stats
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		// Permission denied or vanished subtree: zero contribution.
		return stats
	}

	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			stats.Dirs++
			stats = stats.add(walk(path+string(os.PathSeparator)+entry.Name(), depth+1, maxDepth))
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Bytes += info.Size()
		stats.Files++
	}

	return stats
}

// FileOrDirSize measures path whether it is a regular file or a
// directory, returning the stats and whether the path exists.
func (s *Sizer) FileOrDirSize(path string, maxDepth int) (Stats, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		return Stats{}, false
	}
	if info.IsDir() {
		return s.SizeCached(path, maxDepth), true
	}
	if info.Mode().IsRegular() {
		return Stats{Bytes: info.Size(), Files: 1}, true
	}
	return Stats{}, false
}
