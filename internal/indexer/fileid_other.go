//go:build !unix

package indexer

import (
	"os"
	"path/filepath"
)

// Without inode numbers a directory is identified by its resolved path.
type fileKey struct {
	path string
}

func fileID(path string, _ os.FileInfo) (fileKey, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileKey{}, false
	}
	return fileKey{path: resolved}, true
}
