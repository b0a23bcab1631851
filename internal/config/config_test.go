package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/promptml/promptml/internal/markup"
)

func withTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Render.IndentWidth != markup.DefaultIndentWidth {
		t.Errorf("IndentWidth = %d", cfg.Render.IndentWidth)
	}
	if cfg.Import.MaxInputBytes != 1<<20 {
		t.Errorf("MaxInputBytes = %d", cfg.Import.MaxInputBytes)
	}
	if cfg.Storage.HistoryKeep != 500 {
		t.Errorf("HistoryKeep = %d", cfg.Storage.HistoryKeep)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withTempConfig(t)

	cfg := DefaultConfig()
	cfg.Render.IndentWidth = 4
	cfg.Web.Port = 9999
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	back, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if back.Render.IndentWidth != 4 || back.Web.Port != 9999 {
		t.Errorf("loaded config = %+v", back)
	}
}

func TestLoadFillsUnsetFields(t *testing.T) {
	path := withTempConfig(t)
	if err := os.WriteFile(path, []byte("render:\n  indent_width: 3\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Render.IndentWidth != 3 {
		t.Errorf("IndentWidth = %d, want 3", cfg.Render.IndentWidth)
	}
	if cfg.Storage.Path == "" || cfg.Web.Port == 0 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := withTempConfig(t)
	if err := os.WriteFile(path, []byte(":\n\t??"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
