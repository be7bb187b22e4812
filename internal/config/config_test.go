package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navd.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[navmesh]
rebuild_cooldown = "1s"
build_workers = 3

[search]
node_limit = 500

[logging]
format = "json"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Navmesh.RebuildCooldown != time.Second || cfg.Navmesh.BuildWorkers != 3 {
		t.Fatalf("navmesh section %+v", cfg.Navmesh)
	}
	if cfg.Search.NodeLimit != 500 || cfg.Search.CheckInterval != 20 {
		t.Fatalf("search section %+v", cfg.Search)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Fatalf("logging section %+v", cfg.Logging)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatal("start time not set")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"budget over tick":  "[search]\ntick_budget = \"1s\"\n",
		"zero slice":        "[search]\nrequest_slice = \"0s\"\n",
		"negative cooldown": "[navmesh]\nrebuild_cooldown = \"-1s\"\n",
		"bad toml":          "[search\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().validate(); err != nil {
		t.Fatal(err)
	}
}
