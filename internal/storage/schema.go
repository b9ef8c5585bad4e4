package storage

// schema creates every table and index used by the chain indexing core.
// Block, BlockHeight, BlockTransaction, Transaction, and TransactionTag
// each get a pending and a confirmed table; TagName, TagValue, and Wallet
// are shared and append-only across both tiers.
const schema = `
-- =========================================================================
-- Shared, append-only lookup tables
-- =========================================================================

CREATE TABLE IF NOT EXISTS tag_names (
	hash BLOB PRIMARY KEY,
	name BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS tag_values (
	hash BLOB PRIMARY KEY,
	value BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
	address BLOB PRIMARY KEY,
	public_modulus BLOB NOT NULL
);

-- =========================================================================
-- Pending tier
-- =========================================================================

CREATE TABLE IF NOT EXISTS pending_blocks (
	indep_hash BLOB PRIMARY KEY,
	height INTEGER NOT NULL,
	previous_block BLOB,
	nonce BLOB,
	hash BLOB,
	block_timestamp INTEGER,
	diff TEXT,
	cumulative_diff TEXT,
	last_retarget INTEGER,
	reward_addr BLOB,
	reward_pool TEXT,
	block_size INTEGER,
	weave_size INTEGER,
	usd_to_ar_rate_dividend INTEGER,
	usd_to_ar_rate_divisor INTEGER,
	scheduled_usd_to_ar_rate_dividend INTEGER,
	scheduled_usd_to_ar_rate_divisor INTEGER,
	hash_list_merkle BLOB,
	wallet_list BLOB,
	tx_root BLOB,
	tx_count INTEGER NOT NULL DEFAULT 0,
	missing_tx_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pending_block_heights (
	height INTEGER NOT NULL,
	indep_hash BLOB NOT NULL,
	UNIQUE (height, indep_hash)
);

CREATE INDEX IF NOT EXISTS idx_pending_block_heights_height ON pending_block_heights(height);

CREATE TABLE IF NOT EXISTS pending_block_transactions (
	block_indep_hash BLOB NOT NULL,
	transaction_id BLOB NOT NULL,
	block_transaction_index INTEGER NOT NULL,
	PRIMARY KEY (block_indep_hash, transaction_id)
);

CREATE INDEX IF NOT EXISTS idx_pending_block_txs_block ON pending_block_transactions(block_indep_hash);
CREATE INDEX IF NOT EXISTS idx_pending_block_txs_tx ON pending_block_transactions(transaction_id);

CREATE TABLE IF NOT EXISTS pending_transactions (
	id BLOB PRIMARY KEY,
	signature BLOB,
	format INTEGER NOT NULL DEFAULT 1,
	last_tx BLOB,
	owner_address BLOB,
	target BLOB,
	quantity TEXT,
	reward TEXT,
	data_size INTEGER,
	data_root BLOB,
	content_type TEXT,
	tag_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pending_transactions_owner ON pending_transactions(owner_address);
CREATE INDEX IF NOT EXISTS idx_pending_transactions_target ON pending_transactions(target);

CREATE TABLE IF NOT EXISTS pending_transaction_tags (
	tag_name_hash BLOB NOT NULL,
	tag_value_hash BLOB NOT NULL,
	transaction_id BLOB NOT NULL,
	transaction_tag_index INTEGER NOT NULL,
	PRIMARY KEY (transaction_id, transaction_tag_index)
);

CREATE INDEX IF NOT EXISTS idx_pending_tx_tags_name_value ON pending_transaction_tags(tag_name_hash, tag_value_hash);
CREATE INDEX IF NOT EXISTS idx_pending_tx_tags_tx ON pending_transaction_tags(transaction_id);

-- =========================================================================
-- Confirmed tier (append-only)
-- =========================================================================

CREATE TABLE IF NOT EXISTS confirmed_blocks (
	indep_hash BLOB PRIMARY KEY,
	height INTEGER NOT NULL,
	previous_block BLOB,
	nonce BLOB,
	hash BLOB,
	block_timestamp INTEGER,
	diff TEXT,
	cumulative_diff TEXT,
	last_retarget INTEGER,
	reward_addr BLOB,
	reward_pool TEXT,
	block_size INTEGER,
	weave_size INTEGER,
	usd_to_ar_rate_dividend INTEGER,
	usd_to_ar_rate_divisor INTEGER,
	scheduled_usd_to_ar_rate_dividend INTEGER,
	scheduled_usd_to_ar_rate_divisor INTEGER,
	hash_list_merkle BLOB,
	wallet_list BLOB,
	tx_root BLOB,
	tx_count INTEGER NOT NULL DEFAULT 0,
	missing_tx_count INTEGER NOT NULL DEFAULT 0
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_confirmed_blocks_height ON confirmed_blocks(height);

CREATE TABLE IF NOT EXISTS confirmed_block_heights (
	height INTEGER NOT NULL,
	indep_hash BLOB NOT NULL,
	UNIQUE (height, indep_hash)
);

CREATE INDEX IF NOT EXISTS idx_confirmed_block_heights_height ON confirmed_block_heights(height);

CREATE TABLE IF NOT EXISTS confirmed_block_transactions (
	block_indep_hash BLOB NOT NULL,
	transaction_id BLOB NOT NULL,
	block_transaction_index INTEGER NOT NULL,
	height INTEGER NOT NULL,
	PRIMARY KEY (block_indep_hash, transaction_id)
);

CREATE INDEX IF NOT EXISTS idx_confirmed_block_txs_block ON confirmed_block_transactions(block_indep_hash);
CREATE INDEX IF NOT EXISTS idx_confirmed_block_txs_tx ON confirmed_block_transactions(transaction_id);
CREATE INDEX IF NOT EXISTS idx_confirmed_block_txs_sort ON confirmed_block_transactions(height, block_transaction_index);

CREATE TABLE IF NOT EXISTS confirmed_transactions (
	id BLOB PRIMARY KEY,
	signature BLOB,
	format INTEGER NOT NULL DEFAULT 1,
	last_tx BLOB,
	owner_address BLOB,
	target BLOB,
	quantity TEXT,
	reward TEXT,
	data_size INTEGER,
	data_root BLOB,
	content_type TEXT,
	tag_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	height INTEGER NOT NULL,
	block_transaction_index INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_confirmed_transactions_owner ON confirmed_transactions(owner_address);
CREATE INDEX IF NOT EXISTS idx_confirmed_transactions_target ON confirmed_transactions(target);
CREATE INDEX IF NOT EXISTS idx_confirmed_transactions_sort ON confirmed_transactions(height, block_transaction_index);

CREATE TABLE IF NOT EXISTS confirmed_transaction_tags (
	tag_name_hash BLOB NOT NULL,
	tag_value_hash BLOB NOT NULL,
	transaction_id BLOB NOT NULL,
	transaction_tag_index INTEGER NOT NULL,
	height INTEGER NOT NULL,
	block_transaction_index INTEGER NOT NULL,
	PRIMARY KEY (transaction_id, transaction_tag_index)
);

CREATE INDEX IF NOT EXISTS idx_confirmed_tx_tags_name_value ON confirmed_transaction_tags(tag_name_hash, tag_value_hash);
CREATE INDEX IF NOT EXISTS idx_confirmed_tx_tags_sort ON confirmed_transaction_tags(height, block_transaction_index);

-- =========================================================================
-- Missing transactions (pending-only concept; not tiered)
-- =========================================================================

CREATE TABLE IF NOT EXISTS missing_transactions (
	block_indep_hash BLOB NOT NULL,
	transaction_id BLOB NOT NULL,
	height INTEGER NOT NULL,
	PRIMARY KEY (block_indep_hash, transaction_id)
);

CREATE INDEX IF NOT EXISTS idx_missing_transactions_height ON missing_transactions(height);
CREATE INDEX IF NOT EXISTS idx_missing_transactions_tx ON missing_transactions(transaction_id);
`
