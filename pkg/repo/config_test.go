package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_ReadMissingReturnsEmpty(t *testing.T) {
	r := initRepo(t)
	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if len(cfg.Sections) != 0 {
		t.Errorf("expected empty config, got %v", cfg.Sections)
	}
	if cfg.Get("user.name") != "" {
		t.Error("Get on empty config should return empty string")
	}
}

func TestConfig_SetGetRoundTrip(t *testing.T) {
	r := initRepo(t)

	if err := r.SetConfig("user.name", "Ada"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := r.SetConfig("user.email", "ada@example.com"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := r.SetConfig("core.compression", "zstd"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}

	got, err := r.GetConfig("user.name")
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if got != "Ada" {
		t.Errorf("user.name: got %q", got)
	}
	got, _ = r.GetConfig("core.compression")
	if got != "zstd" {
		t.Errorf("core.compression: got %q", got)
	}

	// The file is TOML with section tables.
	data, err := os.ReadFile(filepath.Join(r.MetaDir, "config.toml"))
	if err != nil {
		t.Fatalf("read config.toml: %v", err)
	}
	if !strings.Contains(string(data), "[user]") {
		t.Errorf("config.toml missing [user] section:\n%s", data)
	}
}

func TestConfig_OverwriteValue(t *testing.T) {
	r := initRepo(t)
	if err := r.SetConfig("user.name", "First"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if err := r.SetConfig("user.name", "Second"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	got, _ := r.GetConfig("user.name")
	if got != "Second" {
		t.Errorf("user.name: got %q, want Second", got)
	}
}

func TestConfig_InvalidKey(t *testing.T) {
	r := initRepo(t)
	if err := r.SetConfig("nodot", "v"); err == nil {
		t.Error("key without a section should be rejected")
	}
	if err := r.SetConfig(".empty", "v"); err == nil {
		t.Error("empty section should be rejected")
	}
}
