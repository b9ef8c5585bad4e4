package storage

import "fmt"

// ResetToHeight deletes every pending block-height row above height h, as
// the first step of handling a fork. The pending block, block-transaction,
// transaction and tag rows of those heights are left in place:
// transaction queries, which resolve height through pending_block_heights,
// no longer return them, while GetGqlBlocks reads pending_blocks directly
// and still does. Confirmed data is untouched.
func (s *Storage) ResetToHeight(h int64) error {
	if h < 0 {
		return fmt.Errorf("%w: negative height %d", ErrInvalidArgument, h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stmts.deletePendingBlockHeightsAbove.Exec(h); err != nil {
		return fmt.Errorf("failed to reset pending block heights: %w", err)
	}
	return nil
}
