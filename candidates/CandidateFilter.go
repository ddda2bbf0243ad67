package candidates

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter drops candidates matching any of a set of glob patterns.
type Filter struct {
	patterns []string
	globs    []glob.Glob
}

// NewFilter compiles patterns. An empty pattern list gives a filter that
// keeps everything.
func NewFilter(patterns []string) (*Filter, error) {
	filter := &Filter{}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		filter.patterns = append(filter.patterns, pattern)
		filter.globs = append(filter.globs, g)
	}
	return filter, nil
}

// Excludes reports whether candidate matches one of the patterns.
func (f *Filter) Excludes(candidate string) bool {
	for _, g := range f.globs {
		if g.Match(candidate) {
			return true
		}
	}
	return false
}

// Apply returns the candidates the filter keeps, preserving order.
func (f *Filter) Apply(candidates []string) []string {
	if len(f.globs) == 0 {
		return candidates
	}
	kept := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if !f.Excludes(candidate) {
			kept = append(kept, candidate)
		}
	}
	return kept
}
