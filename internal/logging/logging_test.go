package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   LogLevel
		wantOK bool
	}{
		{name: "Debug", input: "debug", want: LevelDebug, wantOK: true},
		{name: "Info", input: "info", want: LevelInfo, wantOK: true},
		{name: "Warn", input: "warn", want: LevelWarn, wantOK: true},
		{name: "Warning alias", input: "warning", want: LevelWarn, wantOK: true},
		{name: "Error", input: "error", want: LevelError, wantOK: true},
		{name: "Case insensitive", input: "DEBUG", want: LevelDebug, wantOK: true},
		{name: "Unknown falls back to info", input: "verbose", want: LevelInfo, wantOK: false},
		{name: "Empty", input: "", want: LevelInfo, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "error")
	if got := LevelFromEnv(LevelWarn); got != LevelError {
		t.Errorf("LevelFromEnv() = %v, want %v", got, LevelError)
	}

	t.Setenv("DEBUG", "true")
	if got := LevelFromEnv(LevelWarn); got != LevelDebug {
		t.Errorf("LevelFromEnv() with DEBUG=true = %v, want %v", got, LevelDebug)
	}

	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "")
	if got := LevelFromEnv(LevelWarn); got != LevelWarn {
		t.Errorf("LevelFromEnv() fallback = %v, want %v", got, LevelWarn)
	}
}

func TestLogLevelConstants(t *testing.T) {
	if LevelDebug >= LevelInfo {
		t.Error("LevelDebug should be less than LevelInfo")
	}
	if LevelInfo >= LevelWarn {
		t.Error("LevelInfo should be less than LevelWarn")
	}
	if LevelWarn >= LevelError {
		t.Error("LevelWarn should be less than LevelError")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}

func TestSetOutputFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, LevelWarn)
	defer Close()

	Debug("debug %d", 1)
	Info("info %d", 2)
	Warn("warn %d", 3)
	Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("messages below threshold were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") {
		t.Errorf("missing warn line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] error 4") {
		t.Errorf("missing error line in %q", out)
	}
	if GetLevel() != LevelWarn {
		t.Errorf("GetLevel() = %v, want %v", GetLevel(), LevelWarn)
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() should be false at warn level")
	}
}

func TestConfigureWritesFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.log")

	err := Configure(Options{
		ConsoleLevel: LevelError,
		FilePath:     path,
		FileLevel:    LevelDebug,
		MaxBytes:     1 << 20,
		Backups:      1,
	})
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	Debug("written to file only")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[DEBUG] written to file only") {
		t.Errorf("log file missing debug line: %q", data)
	}
}

func TestRotatingWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotate.log")

	rw, err := NewRotatingWriter(path, 10, 2)
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer rw.Close()

	for _, line := range []string{"first-1\n", "second2\n", "third-3\n", "fourth4\n"} {
		if _, err := rw.Write([]byte(line)); err != nil {
			t.Fatalf("Write(%q) error = %v", line, err)
		}
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(current) != "fourth4\n" {
		t.Errorf("current file = %q, want %q", current, "fourth4\n")
	}

	backup1, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("read backup 1: %v", err)
	}
	if string(backup1) != "third-3\n" {
		t.Errorf("backup 1 = %q, want %q", backup1, "third-3\n")
	}

	if _, err := os.Stat(path + ".2"); err != nil {
		t.Errorf("expected backup 2 to exist: %v", err)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Errorf("expected at most 2 backups, stat .3 err = %v", err)
	}
}

func TestRotatingWriterSurvivesFailedRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stuck.log")

	// A non-empty directory where the first backup belongs makes the rename fail.
	if err := os.MkdirAll(filepath.Join(path+".1", "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rw, err := NewRotatingWriter(path, 10, 1)
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer rw.Close()

	lines := []string{"first-1\n", "second2\n", "third-3\n"}
	for _, line := range lines {
		if _, err := rw.Write([]byte(line)); err != nil {
			t.Fatalf("Write(%q) error = %v", line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != strings.Join(lines, "") {
		t.Errorf("log = %q, want every line appended", data)
	}

	// Once the obstruction is gone the next write rotates normally.
	if err := os.RemoveAll(path + ".1"); err != nil {
		t.Fatalf("remove obstruction: %v", err)
	}
	if _, err := rw.Write([]byte("fourth4\n")); err != nil {
		t.Fatalf("Write after recovery error = %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "fourth4\n" {
		t.Errorf("log after rotation = %q, %v; want %q", data, err, "fourth4\n")
	}
}

func TestRotatingWriterClosed(t *testing.T) {
	rw, err := NewRotatingWriter(filepath.Join(t.TempDir(), "x.log"), 0, 0)
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
