package logging

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// RotatingWriter is an io.WriteCloser that rolls its file over once it
// reaches maxBytes, keeping at most backups old files named path.1..path.N.
type RotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	backups  int
	file     *os.File
	size     int64
}

// NewRotatingWriter opens (or appends to) path.
func NewRotatingWriter(path string, maxBytes int64, backups int) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		path:     path,
		maxBytes: maxBytes,
		backups:  backups,
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingWriter) open() error {
	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	rw.file = f
	rw.size = info.Size()
	return nil
}

// Write appends p, rotating first if p would push the file past maxBytes.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, os.ErrClosed
	}

	if rw.maxBytes > 0 && rw.size > 0 && rw.size+int64(len(p)) > rw.maxBytes {
		// A failed rotation leaves the current file open when it can; the
		// line is appended there and the next write tries again.
		if err := rw.rotate(); err != nil && rw.file == nil {
			return 0, err
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// rotate shifts path.N-1 -> path.N ... path -> path.1 and reopens path. If
// the shift fails, path is reopened for appending before the error is
// returned.
func (rw *RotatingWriter) rotate() error {
	closeErr := rw.file.Close()
	rw.file = nil

	if err := rw.shift(); err != nil {
		if openErr := rw.open(); openErr != nil {
			return errors.Join(err, openErr)
		}
		return err
	}
	if err := rw.open(); err != nil {
		return err
	}
	return closeErr
}

func (rw *RotatingWriter) shift() error {
	if rw.backups > 0 {
		_ = os.Remove(fmt.Sprintf("%s.%d", rw.path, rw.backups))
		for i := rw.backups - 1; i >= 1; i-- {
			src := fmt.Sprintf("%s.%d", rw.path, i)
			if _, err := os.Stat(src); err == nil {
				if err := os.Rename(src, fmt.Sprintf("%s.%d", rw.path, i+1)); err != nil {
					return err
				}
			}
		}
		return os.Rename(rw.path, rw.path+".1")
	}
	return os.Truncate(rw.path, 0)
}

// Close closes the underlying file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	err := rw.file.Close()
	rw.file = nil
	return err
}
