package storage

import (
	"database/sql"
	"fmt"
)

// statements is the catalog of named, parameterized statements prepared
// once against the writable handle at startup. Transactions borrow them
// via tx.Stmt(...), which compiles a transaction-scoped cursor from the
// same prepared plan instead of re-parsing SQL on every call.
type statements struct {
	insertPendingBlock            *sql.Stmt
	insertPendingBlockHeight      *sql.Stmt
	insertPendingBlockTransaction *sql.Stmt
	insertPendingTransaction      *sql.Stmt
	insertTagName                 *sql.Stmt
	insertTagValue                *sql.Stmt
	insertPendingTransactionTag   *sql.Stmt
	insertWallet                  *sql.Stmt
	insertMissingTransaction      *sql.Stmt

	promoteBlocks            *sql.Stmt
	promoteBlockHeights      *sql.Stmt
	promoteBlockTransactions *sql.Stmt
	promoteTransactions      *sql.Stmt
	promoteTransactionTags   *sql.Stmt

	deletePendingTransactionTagsBelow   *sql.Stmt
	deletePendingTransactionsBelow      *sql.Stmt
	deletePendingBlockTransactionsBelow *sql.Stmt
	deletePendingBlocksBelow            *sql.Stmt
	deletePendingBlockHeightsBelow      *sql.Stmt
	deleteArrivedMissingTransactions    *sql.Stmt

	deletePendingBlockHeightsAbove *sql.Stmt
}

// namedStmt is one entry in the preparation table: a field to populate and
// the SQL text to compile it from.
type namedStmt struct {
	dest **sql.Stmt
	sql  string
}

func prepareStatements(db *sql.DB) (*statements, error) {
	s := &statements{}

	entries := []namedStmt{
		{&s.insertPendingBlock, `
			INSERT OR IGNORE INTO pending_blocks (
				indep_hash, height, previous_block, nonce, hash, block_timestamp,
				diff, cumulative_diff, last_retarget, reward_addr, reward_pool,
				block_size, weave_size,
				usd_to_ar_rate_dividend, usd_to_ar_rate_divisor,
				scheduled_usd_to_ar_rate_dividend, scheduled_usd_to_ar_rate_divisor,
				hash_list_merkle, wallet_list, tx_root, tx_count, missing_tx_count, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`},
		{&s.insertPendingBlockHeight, `
			INSERT OR IGNORE INTO pending_block_heights (height, indep_hash) VALUES (?, ?)`},
		{&s.insertPendingBlockTransaction, `
			INSERT OR IGNORE INTO pending_block_transactions
				(block_indep_hash, transaction_id, block_transaction_index)
			VALUES (?, ?, ?)`},
		{&s.insertPendingTransaction, `
			INSERT OR IGNORE INTO pending_transactions (
				id, signature, format, last_tx, owner_address, target,
				quantity, reward, data_size, data_root, content_type, tag_count, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`},
		{&s.insertTagName, `INSERT OR IGNORE INTO tag_names (hash, name) VALUES (?, ?)`},
		{&s.insertTagValue, `INSERT OR IGNORE INTO tag_values (hash, value) VALUES (?, ?)`},
		{&s.insertPendingTransactionTag, `
			INSERT OR IGNORE INTO pending_transaction_tags
				(tag_name_hash, tag_value_hash, transaction_id, transaction_tag_index)
			VALUES (?, ?, ?, ?)`},
		{&s.insertWallet, `INSERT OR IGNORE INTO wallets (address, public_modulus) VALUES (?, ?)`},
		{&s.insertMissingTransaction, `
			INSERT OR IGNORE INTO missing_transactions (block_indep_hash, transaction_id, height)
			VALUES (?, ?, ?)`},

		{&s.promoteBlocks, `
			INSERT OR IGNORE INTO confirmed_blocks
			SELECT b.indep_hash, b.height, b.previous_block, b.nonce, b.hash, b.block_timestamp,
				b.diff, b.cumulative_diff, b.last_retarget, b.reward_addr, b.reward_pool,
				b.block_size, b.weave_size,
				b.usd_to_ar_rate_dividend, b.usd_to_ar_rate_divisor,
				b.scheduled_usd_to_ar_rate_dividend, b.scheduled_usd_to_ar_rate_divisor,
				b.hash_list_merkle, b.wallet_list, b.tx_root, b.tx_count, b.missing_tx_count
			FROM pending_blocks b
			JOIN pending_block_heights bh ON bh.indep_hash = b.indep_hash AND bh.height = b.height
			WHERE bh.height < ?`},
		{&s.promoteBlockHeights, `
			INSERT OR IGNORE INTO confirmed_block_heights
			SELECT bh.height, bh.indep_hash
			FROM pending_block_heights bh
			WHERE bh.height < ?`},
		{&s.promoteBlockTransactions, `
			INSERT OR IGNORE INTO confirmed_block_transactions
			SELECT bt.block_indep_hash, bt.transaction_id, bt.block_transaction_index, bh.height
			FROM pending_block_transactions bt
			JOIN pending_block_heights bh ON bh.indep_hash = bt.block_indep_hash
			WHERE bh.height < ?`},
		{&s.promoteTransactions, `
			INSERT OR IGNORE INTO confirmed_transactions
			SELECT t.id, t.signature, t.format, t.last_tx, t.owner_address, t.target,
				t.quantity, t.reward, t.data_size, t.data_root, t.content_type, t.tag_count,
				t.created_at, bh.height, bt.block_transaction_index
			FROM pending_transactions t
			JOIN pending_block_transactions bt ON bt.transaction_id = t.id
			JOIN pending_block_heights bh ON bh.indep_hash = bt.block_indep_hash
			WHERE bh.height < ?`},
		{&s.promoteTransactionTags, `
			INSERT OR IGNORE INTO confirmed_transaction_tags
			SELECT tt.tag_name_hash, tt.tag_value_hash, tt.transaction_id, tt.transaction_tag_index,
				bh.height, bt.block_transaction_index
			FROM pending_transaction_tags tt
			JOIN pending_block_transactions bt ON bt.transaction_id = tt.transaction_id
			JOIN pending_block_heights bh ON bh.indep_hash = bt.block_indep_hash
			WHERE bh.height < ?`},

		{&s.deletePendingTransactionTagsBelow, `
			DELETE FROM pending_transaction_tags
			WHERE transaction_id IN (
				SELECT bt.transaction_id
				FROM pending_block_transactions bt
				JOIN pending_block_heights bh ON bh.indep_hash = bt.block_indep_hash
				WHERE bh.height < ?
			)`},
		{&s.deletePendingTransactionsBelow, `
			DELETE FROM pending_transactions
			WHERE id IN (
				SELECT bt.transaction_id
				FROM pending_block_transactions bt
				JOIN pending_block_heights bh ON bh.indep_hash = bt.block_indep_hash
				WHERE bh.height < ?
			) OR created_at < ?`},
		{&s.deletePendingBlockTransactionsBelow, `
			DELETE FROM pending_block_transactions
			WHERE block_indep_hash IN (
				SELECT bh.indep_hash FROM pending_block_heights bh WHERE bh.height < ?
			) OR transaction_id IN (
				SELECT id FROM pending_transactions WHERE created_at < ?
			)`},
		{&s.deletePendingBlocksBelow, `
			DELETE FROM pending_blocks WHERE height < ?`},
		{&s.deletePendingBlockHeightsBelow, `
			DELETE FROM pending_block_heights WHERE height < ?`},
		{&s.deleteArrivedMissingTransactions, `
			DELETE FROM missing_transactions
			WHERE height < ?
			AND EXISTS (
				SELECT 1 FROM confirmed_block_transactions cbt
				WHERE cbt.block_indep_hash = missing_transactions.block_indep_hash
				AND cbt.transaction_id = missing_transactions.transaction_id
			)`},

		{&s.deletePendingBlockHeightsAbove, `
			DELETE FROM pending_block_heights WHERE height > ?`},
	}

	for _, e := range entries {
		stmt, err := db.Prepare(e.sql)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare statement: %w", err)
		}
		*e.dest = stmt
	}

	return s, nil
}

func (s *statements) Close() error {
	fields := []*sql.Stmt{
		s.insertPendingBlock, s.insertPendingBlockHeight, s.insertPendingBlockTransaction,
		s.insertPendingTransaction, s.insertTagName, s.insertTagValue,
		s.insertPendingTransactionTag, s.insertWallet, s.insertMissingTransaction,
		s.promoteBlocks, s.promoteBlockHeights, s.promoteBlockTransactions,
		s.promoteTransactions, s.promoteTransactionTags,
		s.deletePendingTransactionTagsBelow, s.deletePendingTransactionsBelow,
		s.deletePendingBlockTransactionsBelow, s.deletePendingBlocksBelow,
		s.deletePendingBlockHeightsBelow, s.deleteArrivedMissingTransactions,
		s.deletePendingBlockHeightsAbove,
	}
	for _, f := range fields {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
