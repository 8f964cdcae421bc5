package source

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves glob patterns (with ** support) to a sorted, de-duplicated
// list of files. A pattern without glob characters names a single file. It is
// an error for any pattern to match nothing.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, FilePrefix)

		matches, err := doublestar.FilepathGlob(filepath.Clean(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if containsGlob(pattern) {
				return nil, fmt.Errorf("no files match pattern: %s", pattern)
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, pattern)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
