package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"media-catalog/internal/logging"
	"media-catalog/internal/media"
	"media-catalog/internal/memory"
)

const (
	databaseFile = "media_catalog.db"

	defaultLogFile     = "media_catalog.log"
	defaultLogMaxBytes = 10000
	defaultLogBackups  = 3
)

// Config holds all application configuration. It is built once by
// LoadConfig and passed explicitly to the store, extractors and pipeline.
type Config struct {
	MediaDir       string
	DatabaseDir    string
	Port           string
	MetricsEnabled bool
	DevMode        bool

	LogLevel    string
	LogFile     string
	LogMaxBytes int64
	LogBackups  int

	ProbeBinary  string
	ProbeTimeout time.Duration

	// MemoryLimit is the container memory limit in bytes (0 = unknown).
	MemoryLimit int64
	MemoryRatio float64

	// Derived paths
	DatabasePath string
	LockPath     string

	// ConfigFile is the TOML file that was read, if any.
	ConfigFile string
}

// fileConfig is the TOML layout. Pointer fields distinguish "unset" from a
// zero value.
type fileConfig struct {
	MediaDir       *string `toml:"media_dir"`
	DatabaseDir    *string `toml:"database_dir"`
	Port           *string `toml:"port"`
	MetricsEnabled *bool   `toml:"metrics_enabled"`
	DevMode        *bool   `toml:"dev_mode"`
	Log            struct {
		Level    *string `toml:"level"`
		File     *string `toml:"file"`
		MaxBytes *int64  `toml:"max_bytes"`
		Backups  *int    `toml:"backups"`
	} `toml:"log"`
	Probe struct {
		Binary  *string `toml:"binary"`
		Timeout *string `toml:"timeout"`
	} `toml:"probe"`
	Memory struct {
		Limit *int64   `toml:"limit"`
		Ratio *float64 `toml:"ratio"`
	} `toml:"memory"`
}

// Overrides carries command-line values. Empty strings and nil pointers
// leave the lower layers untouched.
type Overrides struct {
	ConfigFile  string
	EnvFile     string
	MediaDir    string
	DatabaseDir string
	Port        string
	LogLevel    string
	LogFile     string
	DevMode     *bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MediaDir:       ".",
		DatabaseDir:    ".",
		Port:           "8080",
		MetricsEnabled: true,
		LogLevel:       "warn",
		LogFile:        defaultLogFile,
		LogMaxBytes:    defaultLogMaxBytes,
		LogBackups:     defaultLogBackups,
		ProbeBinary:    "ffprobe",
		ProbeTimeout:   30 * time.Second,
		MemoryRatio:    memory.DefaultRatio,
	}
}

// LoadConfig builds the configuration from, lowest precedence first:
// built-in defaults, an optional TOML file (ov.ConfigFile or CATALOG_CONFIG),
// a .env file, environment variables and finally ov. The database directory
// is created if needed and must be writable.
func LoadConfig(ov Overrides) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(ov.EnvFile); err != nil {
		return nil, err
	}

	configFile := ov.ConfigFile
	if configFile == "" {
		configFile = os.Getenv("CATALOG_CONFIG")
	}
	if configFile != "" {
		if err := applyFile(&cfg, configFile); err != nil {
			return nil, err
		}
		cfg.ConfigFile = configFile
	}

	applyEnv(&cfg)
	applyOverrides(&cfg, ov)

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads path, or ./.env when path is empty. A missing default
// file is not an error; variables already in the environment win.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var fc fileConfig
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.MediaDir, fc.MediaDir)
	setString(&cfg.DatabaseDir, fc.DatabaseDir)
	setString(&cfg.Port, fc.Port)
	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFile, fc.Log.File)
	setString(&cfg.ProbeBinary, fc.Probe.Binary)
	if fc.MetricsEnabled != nil {
		cfg.MetricsEnabled = *fc.MetricsEnabled
	}
	if fc.DevMode != nil {
		cfg.DevMode = *fc.DevMode
	}
	if fc.Log.MaxBytes != nil {
		cfg.LogMaxBytes = *fc.Log.MaxBytes
	}
	if fc.Log.Backups != nil {
		cfg.LogBackups = *fc.Log.Backups
	}
	if fc.Probe.Timeout != nil {
		d, err := time.ParseDuration(*fc.Probe.Timeout)
		if err != nil {
			return fmt.Errorf("parse config %s: probe.timeout: %w", path, err)
		}
		cfg.ProbeTimeout = d
	}
	if fc.Memory.Limit != nil {
		cfg.MemoryLimit = *fc.Memory.Limit
	}
	if fc.Memory.Ratio != nil {
		cfg.MemoryRatio = *fc.Memory.Ratio
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.MediaDir = getEnv("MEDIA_DIR", cfg.MediaDir)
	cfg.DatabaseDir = getEnv("DATABASE_DIR", cfg.DatabaseDir)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.MetricsEnabled = getEnvBool("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.DevMode = getEnvBool("DEV_MODE", cfg.DevMode)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.LogMaxBytes = getEnvInt64("LOG_MAX_BYTES", cfg.LogMaxBytes)
	cfg.LogBackups = int(getEnvInt64("LOG_BACKUPS", int64(cfg.LogBackups)))
	cfg.ProbeBinary = getEnv("PROBE_BINARY", cfg.ProbeBinary)
	cfg.ProbeTimeout = getEnvDuration("PROBE_TIMEOUT", cfg.ProbeTimeout)
	cfg.MemoryLimit = getEnvInt64("MEMORY_LIMIT", cfg.MemoryLimit)
	cfg.MemoryRatio = getEnvFloat("MEMORY_RATIO", cfg.MemoryRatio)
}

func applyOverrides(cfg *Config, ov Overrides) {
	setString(&cfg.MediaDir, nonEmpty(ov.MediaDir))
	setString(&cfg.DatabaseDir, nonEmpty(ov.DatabaseDir))
	setString(&cfg.Port, nonEmpty(ov.Port))
	setString(&cfg.LogLevel, nonEmpty(ov.LogLevel))
	setString(&cfg.LogFile, nonEmpty(ov.LogFile))
	if ov.DevMode != nil {
		cfg.DevMode = *ov.DevMode
	}
}

// resolve makes paths absolute, validates values and prepares the database
// directory.
func (c *Config) resolve() error {
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.LogMaxBytes < 0 || c.LogBackups < 0 {
		return fmt.Errorf("log rotation values must not be negative")
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("memory limit must not be negative")
	}

	if c.LogFile == "none" {
		c.LogFile = ""
	}

	var err error
	if c.MediaDir, err = filepath.Abs(c.MediaDir); err != nil {
		return fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	if c.DatabaseDir, err = filepath.Abs(c.DatabaseDir); err != nil {
		return fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	if err := ensureDirectory(c.DatabaseDir, "database"); err != nil {
		return fmt.Errorf("database directory error: %w", err)
	}
	if err := testWriteAccess(c.DatabaseDir); err != nil {
		return fmt.Errorf("database directory is not writable (required for database): %w", err)
	}

	c.DatabasePath = filepath.Join(c.DatabaseDir, databaseFile)
	c.LockPath = c.DatabasePath + ".lock"
	return nil
}

// LoggingOptions returns the sink layout: console at LogLevel, file at
// debug when LogFile is set. LOG_FILE=none disables the file sink.
func (c *Config) LoggingOptions() logging.Options {
	level, _ := logging.ParseLevel(c.LogLevel)
	return logging.Options{
		ConsoleLevel: level,
		FilePath:     c.LogFile,
		FileLevel:    logging.LevelDebug,
		MaxBytes:     c.LogMaxBytes,
		Backups:      c.LogBackups,
	}
}

// MediaOptions returns the extractor settings.
func (c *Config) MediaOptions() media.Options {
	return media.Options{
		ProbeBinary:  c.ProbeBinary,
		ProbeTimeout: c.ProbeTimeout,
	}
}

// CatalogFiles returns the absolute paths of the files this configuration
// writes: the database with its SQLite companions and run lock, and the log
// file with its rotations. Ingestion skips them so a catalog kept inside
// the media tree never records itself.
func (c *Config) CatalogFiles() []string {
	files := []string{
		c.DatabasePath,
		c.DatabasePath + "-wal",
		c.DatabasePath + "-shm",
		c.DatabasePath + "-journal",
		c.LockPath,
	}
	if c.LogFile == "" {
		return files
	}

	logPath, err := filepath.Abs(c.LogFile)
	if err != nil {
		logging.Warn("Cannot resolve log file %s: %v", c.LogFile, err)
		return files
	}
	files = append(files, logPath)
	for i := 1; i <= c.LogBackups; i++ {
		files = append(files, fmt.Sprintf("%s.%d", logPath, i))
	}
	return files
}

// MemorySettings returns the runtime memory budget.
func (c *Config) MemorySettings() memory.Settings {
	return memory.Settings{
		ContainerLimit: c.MemoryLimit,
		Ratio:          c.MemoryRatio,
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("Invalid number for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
