package indexer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
)

// ErrDirectoryNotFound is returned when the ingestion root is missing or is
// not a directory.
var ErrDirectoryNotFound = errors.New("directory not found")

// Discover returns the absolute path of every regular file under root,
// skipping any entry whose name begins with '.'. Directories are traversed
// but never returned. Symlinks are followed; a directory reached a second
// time through a link is not descended into again.
//
// The hidden-name rule applies to entries found below root, not to root
// itself: Discover("~/.photos") walks that directory, and every returned
// path starts with its dot-prefixed component.
//
// The walk uses an explicit stack and visits children in name order, so the
// output order is stable for a given tree.
func Discover(root string) ([]string, error) {
	return discover(root, nil)
}

// discover is Discover with a set of absolute, cleaned file paths that are
// left out of the result.
func discover(root string, exclude map[string]bool) ([]string, error) {
	retryCfg := filesystem.DefaultRetryConfig()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, root, err)
	}

	info, err := filesystem.StatWithRetry(abs, retryCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, root)
	}

	visited := make(map[fileKey]bool)
	if key, ok := fileID(abs, info); ok {
		visited[key] = true
	}

	var (
		files []string
		stack = []string{abs}
	)

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := filesystem.ReadDirWithRetry(dir, retryCfg)
		if err != nil {
			logging.Warn("Skipping unreadable directory %s: %v", dir, err)
			continue
		}

		var subdirs []string
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			path := filepath.Join(dir, name)
			if exclude[path] {
				logging.Debug("Skipping catalog file %s", path)
				continue
			}

			// Stat follows symlinks so linked files and directories are
			// classified by their targets.
			info, err := filesystem.StatWithRetry(path, retryCfg)
			if err != nil {
				logging.Warn("Skipping %s: %v", path, err)
				continue
			}

			switch {
			case info.IsDir():
				if key, ok := fileID(path, info); ok {
					if visited[key] {
						logging.Debug("Already visited %s, not descending", path)
						continue
					}
					visited[key] = true
				}
				subdirs = append(subdirs, path)
			case info.Mode().IsRegular():
				files = append(files, path)
			default:
				logging.Debug("Skipping non-regular file %s (%v)", path, info.Mode().Type())
			}
		}

		// ReadDir sorts by name; push in reverse so the first child is walked first.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	logging.Debug("Discovered %d files under %s", len(files), abs)
	return files, nil
}
