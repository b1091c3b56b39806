// Package catalog holds the static registry of cleanup categories: what
// each one covers, where it lives on disk, and how risky deleting it is.
package catalog

import "sort"

// RiskLevel classifies how dangerous cleaning a category is.
type RiskLevel string

const (
	RiskSafe   RiskLevel = "safe"   // no data loss, auto-recoverable
	RiskReview RiskLevel = "review" // manual recovery, user judgment needed
	RiskRisky  RiskLevel = "risky"  // potential data loss
)

// RecursiveSpec describes a category measured by discovering directories
// by name under a set of search roots instead of scanning fixed paths.
type RecursiveSpec struct {
	// PatternNames are the directory names to discover (e.g. "node_modules").
	PatternNames []string
	// SearchRoots are expanded with pathutil.Expand before searching.
	SearchRoots []string
	// MinSizeBytes drops matches smaller than this from results.
	MinSizeBytes int64
}

// Category is an immutable descriptor of one cleanup target. Exactly one
// of Paths / Recursive is set.
type Category struct {
	ID        string
	Name      string
	RiskLevel RiskLevel

	// Paths are candidate locations for fixed-path categories. They may
	// contain ~ and environment variables.
	Paths []string

	// Recursive is non-nil for discovery-based categories.
	Recursive *RecursiveSpec

	// CleanupCommand, when set, is a native shell command used instead of
	// direct deletion (e.g. "npm cache clean --force").
	CleanupCommand string

	// ExternalTool marks categories whose on-disk footprint is misleading
	// and whose size must come from an external breakdown query.
	ExternalTool bool

	// Presentation text, ignored by the scanning/cleanup core.
	Description  string
	Consequences string
	Recovery     string
}

// IsRecursive reports whether the category is discovery-based.
func (c *Category) IsRecursive() bool {
	return c.Recursive != nil
}

// Registry provides read-only lookups over the category table.
type Registry struct {
	byID  map[string]*Category
	order []string
}

// NewRegistry builds a registry over the built-in category table.
func NewRegistry() *Registry {
	return newRegistry(builtinCategories)
}

// NewRegistryFrom builds a registry over an explicit category table.
func NewRegistryFrom(categories []*Category) *Registry {
	return newRegistry(categories)
}

func newRegistry(categories []*Category) *Registry {
	r := &Registry{byID: make(map[string]*Category, len(categories))}
	for _, c := range categories {
		r.byID[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r
}

// Get returns the category with the given id, or nil.
func (r *Registry) Get(id string) *Category {
	return r.byID[id]
}

// All returns every category in declaration order.
func (r *Registry) All() []*Category {
	out := make([]*Category, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Fixed returns the fixed-path categories.
func (r *Registry) Fixed() []*Category {
	var out []*Category
	for _, c := range r.All() {
		if !c.IsRecursive() {
			out = append(out, c)
		}
	}
	return out
}

// RecursiveOnly returns the discovery-based categories.
func (r *Registry) RecursiveOnly() []*Category {
	var out []*Category
	for _, c := range r.All() {
		if c.IsRecursive() {
			out = append(out, c)
		}
	}
	return out
}

// ByRisk returns the categories at the given risk level.
func (r *Registry) ByRisk(level RiskLevel) []*Category {
	var out []*Category
	for _, c := range r.All() {
		if c.RiskLevel == level {
			out = append(out, c)
		}
	}
	return out
}

// IDs returns all known category ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	sort.Strings(ids)
	return ids
}
