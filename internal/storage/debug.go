package storage

import "fmt"

// GetDebugInfo summarizes row counts and height ranges across both tiers,
// for health checks and diagnostics.
func (s *Storage) GetDebugInfo() (DebugInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info DebugInfo

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM wallets", &info.Counts.Wallets},
		{"SELECT COUNT(*) FROM tag_names", &info.Counts.TagNames},
		{"SELECT COUNT(*) FROM tag_values", &info.Counts.TagValues},
		{"SELECT COUNT(*) FROM pending_transactions", &info.Counts.NewTxs},
		{"SELECT COUNT(*) FROM pending_blocks", &info.Counts.NewBlocks},
		{"SELECT COUNT(*) FROM confirmed_transactions", &info.Counts.ConfirmedTxs},
		{"SELECT COUNT(*) FROM confirmed_blocks", &info.Counts.ConfirmedBlocks},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dest); err != nil {
			return DebugInfo{}, fmt.Errorf("failed to query debug count: %w", err)
		}
	}

	heights := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COALESCE(MIN(height), -1) FROM pending_block_heights", &info.Heights.MinPendingHeight},
		{"SELECT COALESCE(MAX(height), -1) FROM pending_block_heights", &info.Heights.MaxPendingHeight},
		{"SELECT COALESCE(MIN(height), -1) FROM confirmed_block_heights", &info.Heights.MinConfirmedHeight},
		{"SELECT COALESCE(MAX(height), -1) FROM confirmed_block_heights", &info.Heights.MaxConfirmedHeight},
	}
	for _, h := range heights {
		if err := s.db.QueryRow(h.query).Scan(h.dest); err != nil {
			return DebugInfo{}, fmt.Errorf("failed to query debug height: %w", err)
		}
	}

	if info.Heights.MaxConfirmedHeight >= 0 && info.Counts.ConfirmedBlocks > 0 {
		expected := info.Heights.MaxConfirmedHeight - (info.Heights.MinConfirmedHeight - 1)
		info.Counts.MissingStableBlocks = expected - info.Counts.ConfirmedBlocks
	}

	return info, nil
}
