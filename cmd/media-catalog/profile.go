package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"media-catalog/internal/logging"
)

const profileFile = "results.prof"

// startProfile starts CPU profiling into path. The returned func stops it.
func startProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("start profile: %w", err)
	}

	return func() {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			logging.Warn("failed to close profile %s: %v", path, err)
			return
		}
		logging.Info("CPU profile written to %s (inspect with: go tool pprof -top %s)", path, path)
	}, nil
}
