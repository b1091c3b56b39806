// Package pathutil resolves user-supplied paths into absolute forms.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand expands a leading ~ and any environment variable references in
// raw, returning the cleaned result. Expansion is purely syntactic: the
// returned path is not required to exist, and Expand never fails.
func Expand(raw string) string {
	expanded := os.ExpandEnv(raw)

	if expanded == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = home
		}
	} else if strings.HasPrefix(expanded, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, expanded[2:])
		}
	}

	return filepath.Clean(expanded)
}

// Home returns the current user's home directory, or "" if it cannot be
// determined.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
