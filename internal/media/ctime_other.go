//go:build !linux

package media

import (
	"os"
	"time"
)

// creationTime returns the modification time where no portable birth time
// is available.
func creationTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
