package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	s, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg := s.Config()
	if cfg.IsConfigured() {
		t.Error("Expected unconfigured server")
	}
	if cfg.Server.Timeout != 30*time.Second || cfg.UI.DefaultTab != "ALL" || !cfg.UI.ShowStats {
		t.Errorf("Unexpected defaults %+v %+v", cfg.Server, cfg.UI)
	}
	if s.Path() != path {
		t.Errorf("Expected save path %s, got %s", path, s.Path())
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`server:
  url: http://localhost:8080
  timeout: 5s
ui:
  default_tab: BACKLOG
  show_stats: false
cache:
  enabled: false
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BACKLOG_SERVER_TOKEN", "from-env")

	s, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg := s.Config()
	if cfg.Server.URL != "http://localhost:8080" || cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Unexpected server config %+v", cfg.Server)
	}
	if cfg.Server.Token != "from-env" {
		t.Errorf("Expected env token, got %q", cfg.Server.Token)
	}
	if cfg.UI.DefaultTab != "BACKLOG" || cfg.UI.ShowStats {
		t.Errorf("Unexpected ui config %+v", cfg.UI)
	}
	if cfg.CacheDir() != "" {
		t.Errorf("Expected no cache dir when disabled, got %q", cfg.CacheDir())
	}
}

func TestTokenFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Config().Server.URL = "http://games.local"

	tokens := NewTokenFile(s)
	if err := tokens.SaveToken("tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := NewTokenFile(reloaded).LoadToken(); got != "tok" {
		t.Errorf("Expected persisted token, got %q", got)
	}
	if reloaded.Config().Server.URL != "http://games.local" {
		t.Errorf("Expected URL saved with token, got %q", reloaded.Config().Server.URL)
	}

	if err := NewTokenFile(reloaded).ClearToken(); err != nil {
		t.Fatal(err)
	}
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Config().Server.Token != "" {
		t.Errorf("Expected cleared token, got %q", again.Config().Server.Token)
	}
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(filepath.Join(dir, "abc"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Cache.Dir = dir

	if err := cfg.ClearCache(); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected cache dir removed, stat err = %v", err)
	}
}
