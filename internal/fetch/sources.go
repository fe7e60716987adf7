package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoSources is returned when no argument resolves to a page.
var ErrNoSources = errors.New("no pages found for the given sources")

// ResolveSources expands the given arguments into page sources.
// URLs and files pass through unchanged. Directories are searched with the
// include globs and any other argument is treated as a glob pattern.
// The result keeps argument order and drops duplicates.
func ResolveSources(args []string, include []string) ([]string, error) {
	var sources []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			sources = append(sources, s)
		}
	}

	for _, arg := range args {
		if IsURL(arg) {
			add(arg)
			continue
		}

		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			matches, err := globDir(arg, include)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		case err == nil:
			add(arg)
		default:
			matches, globErr := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if globErr != nil {
				return nil, fmt.Errorf("invalid source pattern %q: %w", arg, globErr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("source %q does not exist and matches no files", arg)
			}
			slices.Sort(matches)
			for _, m := range matches {
				add(m)
			}
		}
	}

	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	return sources, nil
}

// globDir returns the files under dir matching any of the patterns, sorted.
func globDir(dir string, patterns []string) ([]string, error) {
	fsys := os.DirFS(dir)
	var matches []string
	for _, pattern := range patterns {
		found, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		for _, f := range found {
			matches = append(matches, filepath.Join(dir, filepath.FromSlash(f)))
		}
	}
	slices.Sort(matches)
	return slices.Compact(matches), nil
}
