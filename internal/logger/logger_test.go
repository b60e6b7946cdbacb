package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { Close(); Logger = nil })

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Fatalf("log directory was not created: %s", dir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Debug("hidden below warn")
	Warn("snapshot save failed", "err", "disk full")
	Error("import failed", "path", "x.json")
	Close()

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if !strings.Contains(out, "snapshot save failed") || !strings.Contains(out, "disk full") {
		t.Fatalf("log missing warning: %q", out)
	}
	if strings.Contains(out, "hidden below warn") {
		t.Fatal("debug message written at warn level")
	}
}

func TestInitDebugMode(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Debug: true, Dir: dir}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { Close(); Logger = nil })

	Debug("debug line", "k", 1)
	Close()

	b, _ := os.ReadFile(filepath.Join(dir, FileName))
	if !strings.Contains(string(b), "debug line") {
		t.Fatalf("debug message missing: %q", b)
	}
}

func captureStderr(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stderr
	os.Stderr = f
	t.Cleanup(func() { os.Stderr = orig; f.Close() })
	return f
}

func TestStderrTee(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		wanted bool
	}{
		{"debug without stderr", Config{Debug: true}, false},
		{"stderr", Config{Stderr: true}, true},
		{"debug with stderr", Config{Debug: true, Stderr: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := captureStderr(t)
			tt.cfg.Dir = t.TempDir()
			if err := Init(tt.cfg); err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { Close(); Logger = nil })

			Warn("tee check")
			b, err := os.ReadFile(f.Name())
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Contains(string(b), "tee check"); got != tt.wanted {
				t.Fatalf("stderr has log line = %v, want %v (%q)", got, tt.wanted, b)
			}
		})
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	if err := Close(); err != nil {
		t.Fatal(err)
	}
}

func TestInitUncreatableDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Init(Config{Dir: filepath.Join(f, "logs")}); err == nil {
		t.Fatal("expected error when the log dir sits under a file")
	}
}
