package config

import (
	"path/filepath"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "vidupe", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Point the database at the temp dir (t.Setenv auto-restores on cleanup)
	dbPath := filepath.Join(tmp, "cache.db")
	t.Setenv("VIDUPE_DB", dbPath)

	// 3. Load with validation
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution
	if cfg.Database.Path != dbPath {
		t.Errorf("expected database path %q, got %q", dbPath, cfg.Database.Path)
	}

	// 5. Verify file values match built-in defaults
	def := Default()
	if cfg.Scan.Threshold != def.Scan.Threshold || cfg.Scan.Skip != def.Scan.Skip {
		t.Errorf("scan section differs from defaults: %+v vs %+v", cfg.Scan, def.Scan)
	}
	if len(cfg.Scan.Extensions) != len(def.Scan.Extensions) {
		t.Errorf("expected %d extensions, got %d", len(def.Scan.Extensions), len(cfg.Scan.Extensions))
	}
}
