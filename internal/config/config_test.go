package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaults(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chain-index-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tunables.StableFlushInterval != DefaultStableFlushInterval {
		t.Errorf("StableFlushInterval = %d, want %d", cfg.Tunables.StableFlushInterval, DefaultStableFlushInterval)
	}

	path := ConfigPath(tmpDir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Load() did not write a default config file")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "chain-index-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := DefaultConfig(tmpDir)
	cfg.Tunables.MaxForkDepth = 18
	cfg.Logging.Level = "debug"

	if err := cfg.Save(ConfigPath(tmpDir)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got.Tunables.MaxForkDepth != 18 {
		t.Errorf("MaxForkDepth = %d, want 18", got.Tunables.MaxForkDepth)
	}
	if got.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", got.Logging.Level)
	}
}

func TestTunablesWithDefaults(t *testing.T) {
	var t1 TunablesConfig
	got := t1.WithDefaults()

	if got.StableFlushInterval != DefaultStableFlushInterval {
		t.Errorf("StableFlushInterval = %d, want %d", got.StableFlushInterval, DefaultStableFlushInterval)
	}
	if got.MaxForkDepth != DefaultMaxForkDepth {
		t.Errorf("MaxForkDepth = %d, want %d", got.MaxForkDepth, DefaultMaxForkDepth)
	}
	if got.NewTxCleanupWaitSecs != DefaultNewTxCleanupWaitSecs {
		t.Errorf("NewTxCleanupWaitSecs = %d, want %d", got.NewTxCleanupWaitSecs, DefaultNewTxCleanupWaitSecs)
	}
	if got.BlockTransactionIndexBound != DefaultBlockTransactionIndexBound {
		t.Errorf("BlockTransactionIndexBound = %d, want %d", got.BlockTransactionIndexBound, DefaultBlockTransactionIndexBound)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := ExpandPath("~/.chain-index")
	want := filepath.Join(home, ".chain-index")
	if got != want {
		t.Errorf("ExpandPath(~/.chain-index) = %s, want %s", got, want)
	}
}
