package project

import (
	"fmt"
	"path/filepath"
)

// DiscoverSchemas expands the schema globs relative to dir. Files keep the
// order of the patterns, each pattern's matches sorted, duplicates dropped.
func DiscoverSchemas(dir string, patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid schema pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files match %v in %s", patterns, dir)
	}
	return files, nil
}
