package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv strips any ambient TRAJFLOW_* variables so the test observes the
// compiled-in defaults. t.Setenv registers the restore; Unsetenv removes the
// variable entirely rather than leaving it empty.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRAJFLOW_DEVICE",
		"TRAJFLOW_BAUD",
		"TRAJFLOW_PERIOD",
		"TRAJFLOW_GROUP",
		"TRAJFLOW_JOINTS",
		"TRAJFLOW_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Simulated() {
		t.Error("expected simulated mode without a device")
	}
	if cfg.Period != 10*time.Millisecond {
		t.Errorf("expected default period 10ms, got %v", cfg.Period)
	}
	if len(cfg.Joints) != 6 {
		t.Errorf("expected 6 default joints, got %d", len(cfg.Joints))
	}
	if cfg.Group != "arm" {
		t.Errorf("expected default group arm, got %q", cfg.Group)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRAJFLOW_DEVICE", "/dev/ttyUSB0")
	t.Setenv("TRAJFLOW_BAUD", "250000")
	t.Setenv("TRAJFLOW_PERIOD", "4ms")
	t.Setenv("TRAJFLOW_GROUP", "gantry")
	t.Setenv("TRAJFLOW_JOINTS", "x,y,z")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Simulated() {
		t.Error("expected serial mode with a device set")
	}
	if cfg.Baud != 250000 {
		t.Errorf("expected baud 250000, got %d", cfg.Baud)
	}
	if cfg.Period != 4*time.Millisecond {
		t.Errorf("expected period 4ms, got %v", cfg.Period)
	}
	if len(cfg.Joints) != 3 || cfg.Joints[2] != "z" {
		t.Errorf("unexpected joints: %v", cfg.Joints)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRAJFLOW_PERIOD", "-5ms")
	if _, err := Load(); err == nil {
		t.Error("expected error for negative period")
	}
}
