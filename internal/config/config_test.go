package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yogeshc/csv2rds/internal/errs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const validINI = `[RDS]
host = test-host
port = 3306
database = test-db
username = test-user
password = test-pass
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.ini", validINI))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host != "test-host" {
		t.Errorf("Host = %q, want %q", cfg.Host, "test-host")
	}
	if cfg.Port != 3306 {
		t.Errorf("Port = %d, want 3306", cfg.Port)
	}
	if cfg.Database != "test-db" {
		t.Errorf("Database = %q, want %q", cfg.Database, "test-db")
	}
	if cfg.User != "test-user" {
		t.Errorf("User = %q, want %q", cfg.User, "test-user")
	}
	if cfg.Password != "test-pass" {
		t.Errorf("Password = %q, want %q", cfg.Password, "test-pass")
	}

	// Pool tuning falls back to defaults when the keys are absent.
	if !cfg.Pool.PrePing {
		t.Error("Pool.PrePing = false, want default true")
	}
	if cfg.Pool.RecycleAge != time.Hour {
		t.Errorf("Pool.RecycleAge = %v, want %v", cfg.Pool.RecycleAge, time.Hour)
	}
}

func TestLoadPoolTuning(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.ini", validINI+`pool_pre_ping = false
pool_recycle = 600
pool_max_open = 8
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Pool.PrePing {
		t.Error("Pool.PrePing = true, want false")
	}
	if cfg.Pool.RecycleAge != 10*time.Minute {
		t.Errorf("Pool.RecycleAge = %v, want %v", cfg.Pool.RecycleAge, 10*time.Minute)
	}
	if cfg.Pool.MaxOpenConns != 8 {
		t.Errorf("Pool.MaxOpenConns = %d, want 8", cfg.Pool.MaxOpenConns)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Fatalf("Load() error = %v, want configuration error", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %q should mention not found", err)
	}
}

func TestLoadMissingSection(t *testing.T) {
	_, err := Load(writeFile(t, "config.ini", "[other]\nhost = x\n"))
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Fatalf("Load() error = %v, want configuration error", err)
	}
	if !strings.Contains(err.Error(), "RDS section missing") {
		t.Errorf("error %q should mention the missing section", err)
	}
}

func TestLoadMissingFields(t *testing.T) {
	for _, field := range []string{"host", "port", "database", "username", "password"} {
		t.Run(field, func(t *testing.T) {
			var b strings.Builder
			b.WriteString("[RDS]\n")
			for _, line := range strings.Split(strings.TrimSpace(validINI), "\n")[1:] {
				if !strings.HasPrefix(line, field+" ") {
					b.WriteString(line + "\n")
				}
			}
			_, err := Load(writeFile(t, "config.ini", b.String()))
			if !errors.Is(err, errs.ErrConfiguration) {
				t.Fatalf("Load() error = %v, want configuration error", err)
			}
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error %q should name the missing field %q", err, field)
			}
		})
	}
}

func TestLoadBadPort(t *testing.T) {
	for _, port := range []string{"not-a-number", "0", "99999"} {
		t.Run(port, func(t *testing.T) {
			content := strings.Replace(validINI, "port = 3306", "port = "+port, 1)
			_, err := Load(writeFile(t, "config.ini", content))
			if !errors.Is(err, errs.ErrConfiguration) {
				t.Fatalf("Load() error = %v, want configuration error", err)
			}
		})
	}
}

func TestLoadDefaultsMissingFile(t *testing.T) {
	d, err := LoadDefaults(filepath.Join(t.TempDir(), "defaults.yaml"))
	if err != nil {
		t.Fatalf("LoadDefaults() error = %v", err)
	}
	if d.Engine != DefaultEngine {
		t.Errorf("Engine = %q, want %q", d.Engine, DefaultEngine)
	}
	if d.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", d.ChunkSize, DefaultChunkSize)
	}
	if d.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", d.Workers, DefaultWorkers)
	}
	if !d.ShowProgress() {
		t.Error("ShowProgress() = false, want true by default")
	}
}

func TestLoadDefaults(t *testing.T) {
	d, err := LoadDefaults(writeFile(t, "defaults.yaml", `engine: postgres
chunk_size: 500
workers: 4
log_level: debug
log_format: json
progress: false
`))
	if err != nil {
		t.Fatalf("LoadDefaults() error = %v", err)
	}
	if d.Engine != "postgres" {
		t.Errorf("Engine = %q, want postgres", d.Engine)
	}
	if d.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", d.ChunkSize)
	}
	if d.Workers != 4 {
		t.Errorf("Workers = %d, want 4", d.Workers)
	}
	if d.LogLevel != "debug" || d.LogFormat != "json" {
		t.Errorf("logging = %s/%s, want debug/json", d.LogLevel, d.LogFormat)
	}
	if d.ShowProgress() {
		t.Error("ShowProgress() = true, want false")
	}
}

func TestLoadDefaultsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "engine: [unterminated"},
		{"zero chunk size", "chunk_size: 0"},
		{"zero workers", "workers: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDefaults(writeFile(t, "defaults.yaml", tt.content))
			if !errors.Is(err, errs.ErrConfiguration) {
				t.Errorf("LoadDefaults() error = %v, want configuration error", err)
			}
		})
	}
}
