package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/weave-gw/chain-index-core/internal/encoding"
)

// SaveBlockAndTxs records one accepted block, the full bodies of every
// transaction it references that the caller was able to fetch, and the
// ids of any it couldn't. The block, its transactions, and their tags all
// land in the pending tier inside a single transaction so a caller never
// observes a block with partially-recorded transactions.
//
// Every insert is insert-or-ignore: re-ingesting a block or transaction
// the index already has is a no-op, not an error, which makes the whole
// operation idempotent under at-least-once delivery.
func (s *Storage) SaveBlockAndTxs(block Block, txs []Transaction, missingTxIDs [][]byte) error {
	if block.Height < 0 {
		return fmt.Errorf("%w: negative block height %d", ErrInvalidArgument, block.Height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin ingestion transaction: %w", err)
	}
	defer tx.Rollback()

	now := nowUnix()

	missingCount := len(missingTxIDs)
	if _, err := tx.Stmt(s.stmts.insertPendingBlock).Exec(
		block.IndepHash, block.Height, block.PreviousBlock, block.Nonce, block.Hash, block.Timestamp,
		block.Diff, block.CumulativeDiff, block.LastRetarget, block.RewardAddr, block.RewardPool,
		block.BlockSize, block.WeaveSize,
		block.UsdToArRateDividend, block.UsdToArRateDivisor,
		block.ScheduledUsdToArRateDividend, block.ScheduledUsdToArRateDivisor,
		block.HashListMerkle, block.WalletList, block.TxRoot,
		len(block.Txs), missingCount, now,
	); err != nil {
		return fmt.Errorf("failed to insert block: %w", err)
	}

	if _, err := tx.Stmt(s.stmts.insertPendingBlockHeight).Exec(block.Height, block.IndepHash); err != nil {
		return fmt.Errorf("failed to insert block height: %w", err)
	}

	for idx, txID := range block.Txs {
		if _, err := tx.Stmt(s.stmts.insertPendingBlockTransaction).Exec(block.IndepHash, txID, idx); err != nil {
			return fmt.Errorf("failed to insert block transaction: %w", err)
		}
	}

	for _, id := range missingTxIDs {
		if _, err := tx.Stmt(s.stmts.insertMissingTransaction).Exec(block.IndepHash, id, block.Height); err != nil {
			return fmt.Errorf("failed to insert missing transaction: %w", err)
		}
	}

	for _, t := range txs {
		if err := s.insertTransaction(tx, t, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ingestion transaction: %w", err)
	}

	if s.log != nil {
		s.log.Info("block accepted",
			"height", block.Height,
			"indep_hash", fmt.Sprintf("%x", block.IndepHash),
			"txs", len(txs),
			"missing_txs", missingCount,
		)
	}

	if s.tunables.StableFlushInterval > 0 && block.Height%s.tunables.StableFlushInterval == 0 {
		stableTip := block.Height - s.tunables.MaxForkDepth
		if stableTip >= 0 {
			if err := s.Stabilize(stableTip); err != nil {
				return fmt.Errorf("failed to stabilize through height %d: %w", stableTip, err)
			}
		}
	}

	return nil
}

// insertTransaction writes one transaction, its owner wallet, and its
// tags within an already-open ingestion transaction.
func (s *Storage) insertTransaction(tx *sql.Tx, t Transaction, createdAt int64) error {
	ownerAddress := encoding.WalletAddress(t.OwnerModulus)

	if len(t.OwnerModulus) > 0 {
		if _, err := tx.Stmt(s.stmts.insertWallet).Exec(ownerAddress, t.OwnerModulus); err != nil {
			return fmt.Errorf("failed to insert wallet: %w", err)
		}
	}

	contentType := contentTypeOf(t.Tags)

	if _, err := tx.Stmt(s.stmts.insertPendingTransaction).Exec(
		t.ID, t.Signature, t.Format, t.LastTx, ownerAddress, t.Target,
		t.Quantity, t.Reward, t.DataSize, t.DataRoot, contentType, len(t.Tags), createdAt,
	); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	for idx, tag := range t.Tags {
		nameHash := encoding.TagNameHash(tag.Name)
		valueHash := encoding.TagValueHash(tag.Value)

		if _, err := tx.Stmt(s.stmts.insertTagName).Exec(nameHash, tag.Name); err != nil {
			return fmt.Errorf("failed to insert tag name: %w", err)
		}
		if _, err := tx.Stmt(s.stmts.insertTagValue).Exec(valueHash, tag.Value); err != nil {
			return fmt.Errorf("failed to insert tag value: %w", err)
		}
		if _, err := tx.Stmt(s.stmts.insertPendingTransactionTag).Exec(nameHash, valueHash, t.ID, idx); err != nil {
			return fmt.Errorf("failed to insert transaction tag: %w", err)
		}
	}

	return nil
}

// contentTypeOf returns the value of the first tag whose name is
// "Content-Type" under a case-insensitive comparison, or "" if absent.
func contentTypeOf(tags []Tag) string {
	for _, tag := range tags {
		if strings.EqualFold(string(tag.Name), "content-type") {
			return string(tag.Value)
		}
	}
	return ""
}
