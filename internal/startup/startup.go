package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jedib0t/go-pretty/v6/table"

	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// LogConfig prints the banner, system information and the resolved
// configuration.
func LogConfig(cfg *Config) {
	printBanner()
	logSystemInfo()

	section("CONFIGURATION")
	if cfg.ConfigFile != "" {
		logging.Info("  Config file:      %s", cfg.ConfigFile)
	}
	logging.Info("  MEDIA_DIR:        %s", cfg.MediaDir)
	logging.Info("  DATABASE_DIR:     %s", cfg.DatabaseDir)
	logging.Info("  Database file:    %s", cfg.DatabasePath)
	logging.Info("  DEV_MODE:         %v", cfg.DevMode)
	logging.Info("  PORT:             %s", cfg.Port)
	logging.Info("  METRICS_ENABLED:  %v", cfg.MetricsEnabled)
	logging.Info("  LOG_LEVEL:        %s", cfg.LogLevel)
	if cfg.LogFile != "" {
		logging.Info("  LOG_FILE:         %s (rotate at %d bytes, keep %d)", cfg.LogFile, cfg.LogMaxBytes, cfg.LogBackups)
	} else {
		logging.Info("  LOG_FILE:         DISABLED")
	}
	logging.Info("  PROBE_BINARY:     %s (timeout %v)", cfg.ProbeBinary, cfg.ProbeTimeout)
	if cfg.MemoryLimit > 0 {
		logging.Info("  MEMORY_LIMIT:     %s (ratio %.2f)", memory.FormatBytes(cfg.MemoryLimit), cfg.MemoryRatio)
	}

	if err := ensureDirectory(cfg.MediaDir, "media"); err != nil {
		logging.Warn("  Media directory issue: %v", err)
	}
	logging.Info("")
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	section("DATABASE INITIALIZATION")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogProbeInit checks that the video probe binary can be run. A missing
// probe only degrades video extraction.
func LogProbeInit(binary string) {
	section("EXTRACTOR INITIALIZATION")

	if err := checkProbe(binary); err != nil {
		logging.Warn("  Probe check failed: %v", err)
		logging.Warn("  Video files will be cataloged without metadata")
		return
	}
	logging.Info("  [OK] %s is available", binary)
}

// LogIngestStarted logs the start of an ingestion run
func LogIngestStarted(root string) {
	section("INGESTION")
	logging.Info("  Root: %s", root)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., the metrics handler)
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the registered routes, grouped by prefix, at debug
// level.
func LogHTTPRoutes(router *mux.Router) {
	section("HTTP SERVER SETUP")
	if !logging.IsDebugEnabled() {
		return
	}

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	sort.SliceStable(routes, func(i, j int) bool {
		gi, gj := getRouteGroup(routes[i].Path), getRouteGroup(routes[j].Path)
		if gi != gj {
			return gi < gj
		}
		return routes[i].Path < routes[j].Path
	})

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Group", "Method", "Path"})
	for _, route := range routes {
		group := getRouteGroup(route.Path)
		if group == "" {
			group = "root"
		}
		tw.AppendRow(table.Row{group, route.Method, route.Path})
	}

	logging.Debug("  Registered routes (%d total):", len(routes))
	for _, line := range strings.Split(tw.Render(), "\n") {
		logging.Debug("  %s", line)
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with endpoint information
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("  API:             http://localhost:%s/api/media", config.Port)
	if config.MetricsEnabled {
		logging.Info("  Metrics:         http://localhost:%s/metrics", config.Port)
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section("SHUTDOWN INITIATED (received %s)", signal)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

const rule = "------------------------------------------------------------"

// section starts a titled block in the startup log.
func section(format string, args ...interface{}) {
	logging.Info("")
	logging.Info(rule)
	logging.Info(format, args...)
	logging.Info(rule)
}

func printBanner() {
	logging.Info(rule)
	logging.Info("  media-catalog")
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	section("SYSTEM INFORMATION")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if name == "media" {
			return fmt.Errorf("directory does not exist")
		}
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func checkProbe(binary string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", binary)
	}
	logging.Debug("  Probe path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", binary, err)
	}

	if lines := strings.Split(string(output), "\n"); len(lines) > 0 {
		logging.Debug("  Probe version: %s", strings.TrimSpace(lines[0]))
	}
	return nil
}
