package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppEnvDefaults(t *testing.T) {
	for _, key := range []string{"ACTIONLIST_VERBOSE", "ACTIONLIST_SCENE", "ACTIONLIST_APP_NAME", "ACTIONLIST_AUTOSAVE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadAppEnv(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadAppEnv failed: %v", err)
	}
	if cfg.Verbose || !cfg.Autosave {
		t.Errorf("Unexpected flags: %+v", cfg)
	}
	if cfg.AppName != "actionlist_demo" || cfg.Scene != "prologue" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadAppEnvOverrides(t *testing.T) {
	t.Setenv("ACTIONLIST_VERBOSE", "true")
	t.Setenv("ACTIONLIST_AUTOSAVE", "false")
	t.Setenv("ACTIONLIST_SCENE", "")
	os.Unsetenv("ACTIONLIST_SCENE")

	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte("ACTIONLIST_SCENE=hall\n"), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := LoadAppEnv(envFile)
	if err != nil {
		t.Fatalf("LoadAppEnv failed: %v", err)
	}
	if !cfg.Verbose || cfg.Autosave {
		t.Errorf("Environment overrides not applied: %+v", cfg)
	}
	if cfg.Scene != "hall" {
		t.Errorf("Expected scene from env file, got %q", cfg.Scene)
	}
}

func TestLoadAppEnvInvalidValue(t *testing.T) {
	t.Setenv("ACTIONLIST_VERBOSE", "maybe")
	if _, err := LoadAppEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected an error for an invalid boolean")
	}
}
