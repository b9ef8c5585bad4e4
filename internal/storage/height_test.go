package storage

import (
	"testing"

	"github.com/weave-gw/chain-index-core/internal/config"
)

func TestGetMaxHeightEmpty(t *testing.T) {
	s := openTestStorage(t, config.TunablesConfig{})

	height, err := s.GetMaxHeight()
	if err != nil {
		t.Fatalf("GetMaxHeight() error = %v", err)
	}
	if height != -1 {
		t.Errorf("GetMaxHeight() = %d, want -1 on empty index", height)
	}
}

func TestGetNewBlockHashByHeight(t *testing.T) {
	s := openTestStorage(t, config.TunablesConfig{StableFlushInterval: 1000, MaxForkDepth: 1000})
	ingestChain(t, s, 3)

	hash, ok, err := s.GetNewBlockHashByHeight(2)
	if err != nil {
		t.Fatalf("GetNewBlockHashByHeight() error = %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true for an ingested height")
	}
	if string(hash) != "block-2" {
		t.Errorf("hash = %q, want %q", hash, "block-2")
	}

	_, ok, err = s.GetNewBlockHashByHeight(999)
	if err != nil {
		t.Fatalf("GetNewBlockHashByHeight() error = %v", err)
	}
	if ok {
		t.Error("ok = true for an unindexed height, want false")
	}
}

func TestGetNewBlockHashByHeightRejectsNegative(t *testing.T) {
	s := openTestStorage(t, config.TunablesConfig{})
	if _, _, err := s.GetNewBlockHashByHeight(-1); err == nil {
		t.Fatal("expected error for negative height, got nil")
	}
}
