package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

func TestLoadConfigFromMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ATTENDANCE_DATA_DIR", "")
	t.Setenv("ATTENDANCE_LOG_LEVEL", "")
	t.Setenv("ATTENDANCE_PORT", "")

	cfg, info, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if info.FileFound || info.PortSpecified {
		t.Fatalf("info=%+v", info)
	}
	if cfg.Server.Port != DefaultConfig().Server.Port {
		t.Fatalf("port=%d", cfg.Server.Port)
	}
	if len(cfg.Shifts.Rules) != 4 || len(cfg.Ledger.Statuses) != 5 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	t.Setenv("ATTENDANCE_DATA_DIR", "")
	t.Setenv("ATTENDANCE_PORT", "")
	t.Setenv("ATTENDANCE_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 18080

[log]
level = "warn"
format = "json"

[[shifts.rules]]
category = "Working"
codes = ["D", "E"]

[[shifts.rules]]
category = "Off"
codes = ["OFF"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, info, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom failed: %v", err)
	}
	if !info.FileFound || !info.PortSpecified || cfg.Server.Port != 18080 {
		t.Fatalf("info=%+v port=%d", info, cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log=%+v", cfg.Log)
	}
	if got := cfg.Shifts.Categorize("d"); got != model.CategoryWorking {
		t.Fatalf("custom vocabulary not loaded, D -> %s", got)
	}
	if got := cfg.Shifts.Categorize("M"); got != model.CategoryOther {
		t.Fatalf("default rules should be replaced, M -> %s", got)
	}
	if len(cfg.Ledger.Statuses) != 5 {
		t.Fatalf("statuses=%v", cfg.Ledger.Statuses)
	}
	if cfg.Data.DataDir != "data" {
		t.Fatalf("data dir=%q", cfg.Data.DataDir)
	}
}

func TestLoadConfigFromInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nport="), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := LoadConfigFrom(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "store")

	dir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir failed: %v", err)
	}
	for _, sub := range []string{"uploads", "exports"} {
		if st, err := os.Stat(filepath.Join(dir, sub)); err != nil || !st.IsDir() {
			t.Fatalf("%s not created: %v", sub, err)
		}
	}
	if got := GetDataPath(cfg, "exports", "a.xlsx"); got != filepath.Join(dir, "exports", "a.xlsx") {
		t.Fatalf("GetDataPath=%q", got)
	}
}
