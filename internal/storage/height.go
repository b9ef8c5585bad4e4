package storage

import (
	"database/sql"
	"fmt"
)

// GetMaxHeight returns the highest block height recorded in either tier,
// or -1 if the index is empty.
func (s *Storage) GetMaxHeight() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var height sql.NullInt64
	row := s.db.QueryRow(`
		SELECT MAX(h) FROM (
			SELECT MAX(height) AS h FROM pending_block_heights
			UNION ALL
			SELECT MAX(height) AS h FROM confirmed_block_heights
		)`)
	if err := row.Scan(&height); err != nil {
		return 0, fmt.Errorf("failed to query max height: %w", err)
	}
	if !height.Valid {
		return -1, nil
	}
	return height.Int64, nil
}

// GetNewBlockHashByHeight returns the independent hash recorded at height
// h in the pending tier, if any. ok is false when no pending block
// occupies that height.
func (s *Storage) GetNewBlockHashByHeight(h int64) (hash []byte, ok bool, err error) {
	if h < 0 {
		return nil, false, fmt.Errorf("%w: negative height %d", ErrInvalidArgument, h)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT indep_hash FROM pending_block_heights WHERE height = ? LIMIT 1`, h)
	if err := row.Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to query block hash at height %d: %w", h, err)
	}
	return hash, true, nil
}
