package storage

import (
	"database/sql"
	"fmt"
)

// Stabilize promotes every pending block at a height strictly below
// endHeight into the confirmed tier, then purges the pending rows that
// promotion copied and any pending transaction that has sat unmined past
// its retention window. Blocks at or above endHeight stay pending: they
// are still within fork-reorganization depth of the chain tip.
//
// Promotion copies five tables in order — blocks, block heights, block
// transactions, transactions, transaction tags. Each copy selects its
// rows by joining through pending_block_heights (and, for transactions
// and tags, pending_block_transactions), which also supplies the
// height/index pair the confirmed transaction and tag rows carry.
// Cleanup then runs in the reverse order (tags, transactions, block
// transactions, blocks, block heights) so a row is never deleted while
// something still references it within the same transaction, and
// finally drops missing-transaction rows whose transaction has since
// been confirmed.
func (s *Storage) Stabilize(endHeight int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin stabilization transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Stmt(s.stmts.promoteBlocks).Exec(endHeight); err != nil {
		return fmt.Errorf("failed to promote blocks: %w", err)
	}
	if _, err := tx.Stmt(s.stmts.promoteBlockHeights).Exec(endHeight); err != nil {
		return fmt.Errorf("failed to promote block heights: %w", err)
	}
	if _, err := tx.Stmt(s.stmts.promoteBlockTransactions).Exec(endHeight); err != nil {
		return fmt.Errorf("failed to promote block transactions: %w", err)
	}
	if _, err := tx.Stmt(s.stmts.promoteTransactions).Exec(endHeight); err != nil {
		return fmt.Errorf("failed to promote transactions: %w", err)
	}
	if _, err := tx.Stmt(s.stmts.promoteTransactionTags).Exec(endHeight); err != nil {
		return fmt.Errorf("failed to promote transaction tags: %w", err)
	}

	var maxConfirmedTimestamp sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(block_timestamp) FROM confirmed_blocks`).Scan(&maxConfirmedTimestamp); err != nil {
		return fmt.Errorf("failed to query max confirmed block timestamp: %w", err)
	}

	// cleanupBefore tracks the chain's own clock, not wall-clock ingestion
	// time: a pending transaction only ages out relative to how far the
	// confirmed tip has advanced. Until at least one block is confirmed
	// there is no basis for the cutoff, so cleanup-by-age is skipped.
	var cleanupBefore int64 = -1
	if maxConfirmedTimestamp.Valid {
		cleanupBefore = maxConfirmedTimestamp.Int64 - s.tunables.NewTxCleanupWaitSecs
	}

	tagsRes, err := tx.Stmt(s.stmts.deletePendingTransactionTagsBelow).Exec(endHeight)
	if err != nil {
		return fmt.Errorf("failed to clean up pending transaction tags: %w", err)
	}
	txsRes, err := tx.Stmt(s.stmts.deletePendingTransactionsBelow).Exec(endHeight, cleanupBefore)
	if err != nil {
		return fmt.Errorf("failed to clean up pending transactions: %w", err)
	}
	if _, err := tx.Stmt(s.stmts.deletePendingBlockTransactionsBelow).Exec(endHeight, cleanupBefore); err != nil {
		return fmt.Errorf("failed to clean up pending block transactions: %w", err)
	}
	blocksRes, err := tx.Stmt(s.stmts.deletePendingBlocksBelow).Exec(endHeight)
	if err != nil {
		return fmt.Errorf("failed to clean up pending blocks: %w", err)
	}
	if _, err := tx.Stmt(s.stmts.deletePendingBlockHeightsBelow).Exec(endHeight); err != nil {
		return fmt.Errorf("failed to clean up pending block heights: %w", err)
	}
	missingRes, err := tx.Stmt(s.stmts.deleteArrivedMissingTransactions).Exec(endHeight)
	if err != nil {
		return fmt.Errorf("failed to clean up arrived missing transactions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stabilization transaction: %w", err)
	}

	if s.log != nil {
		blocksDeleted, _ := blocksRes.RowsAffected()
		txsDeleted, _ := txsRes.RowsAffected()
		tagsDeleted, _ := tagsRes.RowsAffected()
		missingDeleted, _ := missingRes.RowsAffected()
		s.log.Info("stabilization run complete",
			"end_height", endHeight,
			"cleanup_before", cleanupBefore,
			"blocks_cleaned", blocksDeleted,
			"txs_cleaned", txsDeleted,
			"tags_cleaned", tagsDeleted,
			"missing_txs_cleaned", missingDeleted,
		)
	}
	return nil
}
