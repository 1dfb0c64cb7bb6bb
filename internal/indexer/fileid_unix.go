//go:build unix

package indexer

import (
	"os"
	"syscall"
)

type fileKey struct {
	dev uint64
	ino uint64
}

func fileID(_ string, info os.FileInfo) (fileKey, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}
	return fileKey{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true //nolint:unconvert // Dev and Ino widths vary by platform
}
