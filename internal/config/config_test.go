package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Cube.ScrambleLength != 25 {
		t.Errorf("ScrambleLength = %d, want 25", cfg.Cube.ScrambleLength)
	}
	if cfg.Cube.AnimationHold() != 150*time.Millisecond {
		t.Errorf("AnimationHold = %v", cfg.Cube.AnimationHold())
	}
	if cfg.Server.IdleTimeout != 10*time.Minute {
		t.Errorf("IdleTimeout = %v", cfg.Server.IdleTimeout)
	}
	if cfg.SmartCube.ScanTimeout != 10*time.Second {
		t.Errorf("ScanTimeout = %v", cfg.SmartCube.ScanTimeout)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("cube:\n  scramble_length: 12\nserver:\n  ws_addr: \"127.0.0.1:9000\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Cube.ScrambleLength != 12 {
		t.Errorf("ScrambleLength = %d, want 12", cfg.Cube.ScrambleLength)
	}
	if cfg.Server.WSAddr != "127.0.0.1:9000" {
		t.Errorf("WSAddr = %q", cfg.Server.WSAddr)
	}
	if cfg.Server.SSHAddr != ":2222" {
		t.Errorf("SSHAddr = %q, want default", cfg.Server.SSHAddr)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("cube:\n  scramble_length: -3\n"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("negative scramble length should fail validation")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x/y.db"); got != filepath.Join(home, "x/y.db") {
		t.Errorf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome changed an absolute path: %q", got)
	}
}
