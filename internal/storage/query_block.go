package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/weave-gw/chain-index-core/internal/encoding"
)

type blockRow struct {
	indepHash      []byte
	height         int64
	previousBlock  []byte
	nonce          []byte
	hash           []byte
	timestamp      int64
	diff           string
	cumulativeDiff string
	lastRetarget   int64
	rewardAddr     []byte
	rewardPool     string
	blockSize      int64
	weaveSize      int64

	usdToArRateDividend          int64
	usdToArRateDivisor           int64
	scheduledUsdToArRateDividend int64
	scheduledUsdToArRateDivisor  int64

	hashListMerkle []byte
	walletList     []byte
	txRoot         []byte
	txCount        int
	missingTxCount int
}

func (r blockRow) toGql() GqlBlock {
	return GqlBlock{
		IndepHash:                    r.indepHash,
		Height:                       r.height,
		PreviousBlock:                r.previousBlock,
		Nonce:                        r.nonce,
		Hash:                         r.hash,
		Timestamp:                    r.timestamp,
		Diff:                         r.diff,
		CumulativeDiff:               r.cumulativeDiff,
		LastRetarget:                 r.lastRetarget,
		RewardAddr:                   r.rewardAddr,
		RewardPool:                   r.rewardPool,
		BlockSize:                    r.blockSize,
		WeaveSize:                    r.weaveSize,
		UsdToArRateDividend:          r.usdToArRateDividend,
		UsdToArRateDivisor:           r.usdToArRateDivisor,
		ScheduledUsdToArRateDividend: r.scheduledUsdToArRateDividend,
		ScheduledUsdToArRateDivisor:  r.scheduledUsdToArRateDivisor,
		HashListMerkle:               r.hashListMerkle,
		WalletList:                   r.walletList,
		TxRoot:                       r.txRoot,
		TxCount:                      r.txCount,
		MissingTxCount:               r.missingTxCount,
	}
}

const blockColumns = `indep_hash, height, previous_block, nonce, hash, block_timestamp,
	diff, cumulative_diff, last_retarget, reward_addr, reward_pool, block_size, weave_size,
	usd_to_ar_rate_dividend, usd_to_ar_rate_divisor,
	scheduled_usd_to_ar_rate_dividend, scheduled_usd_to_ar_rate_divisor,
	hash_list_merkle, wallet_list, tx_root, tx_count, missing_tx_count`

func scanBlockRow(scanner interface{ Scan(...interface{}) error }) (blockRow, error) {
	var r blockRow
	err := scanner.Scan(
		&r.indepHash, &r.height, &r.previousBlock, &r.nonce, &r.hash, &r.timestamp,
		&r.diff, &r.cumulativeDiff, &r.lastRetarget, &r.rewardAddr, &r.rewardPool,
		&r.blockSize, &r.weaveSize,
		&r.usdToArRateDividend, &r.usdToArRateDivisor,
		&r.scheduledUsdToArRateDividend, &r.scheduledUsdToArRateDivisor,
		&r.hashListMerkle, &r.walletList, &r.txRoot, &r.txCount, &r.missingTxCount,
	)
	return r, err
}

// GetGqlBlocks answers a paginated, filtered block query, unifying the
// pending and confirmed tiers per the active sort order.
func (s *Storage) GetGqlBlocks(args BlockQueryArgs) (BlockConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cursor, hasCursor, err := encoding.DecodeBlockCursor(args.Cursor)
	if err != nil {
		return BlockConnection{}, err
	}

	limit := args.PageSize + 1
	desc := args.SortOrder != HeightAsc

	var rows []blockRow
	if desc {
		rows, err = s.queryBlockTier("pending", args, cursor, hasCursor, args.MinHeight, args.MaxHeight, limit, desc)
		if err != nil {
			return BlockConnection{}, err
		}
		if len(rows) < limit {
			maxHeight := args.MaxHeight
			if len(rows) > 0 {
				bound := rows[len(rows)-1].height - 1
				if maxHeight < 0 || bound < maxHeight {
					maxHeight = bound
				}
			}
			more, err := s.queryBlockTier("confirmed", args, cursor, hasCursor, args.MinHeight, maxHeight, limit-len(rows), desc)
			if err != nil {
				return BlockConnection{}, err
			}
			rows = append(rows, more...)
		}
	} else {
		rows, err = s.queryBlockTier("confirmed", args, cursor, hasCursor, args.MinHeight, args.MaxHeight, limit, desc)
		if err != nil {
			return BlockConnection{}, err
		}
		if len(rows) < limit {
			minHeight := args.MinHeight
			if len(rows) > 0 {
				bound := rows[len(rows)-1].height + 1
				if minHeight < 0 || bound > minHeight {
					minHeight = bound
				}
			}
			more, err := s.queryBlockTier("pending", args, cursor, hasCursor, minHeight, args.MaxHeight, limit-len(rows), desc)
			if err != nil {
				return BlockConnection{}, err
			}
			rows = append(rows, more...)
		}
	}

	hasNextPage := len(rows) > args.PageSize
	if hasNextPage {
		rows = rows[:args.PageSize]
	}

	edges := make([]BlockEdge, len(rows))
	for i, r := range rows {
		edges[i] = BlockEdge{
			Cursor: encoding.EncodeBlockCursor(encoding.BlockCursor{Height: r.height}),
			Block:  r.toGql(),
		}
	}

	return BlockConnection{Edges: edges, HasNextPage: hasNextPage}, nil
}

func (s *Storage) queryBlockTier(
	tier string,
	args BlockQueryArgs,
	cursor encoding.BlockCursor,
	hasCursor bool,
	minHeight, maxHeight int64,
	limit int,
	desc bool,
) ([]blockRow, error) {
	if limit <= 0 {
		return nil, nil
	}

	table := "confirmed_blocks"
	if tier == "pending" {
		table = "pending_blocks"
	}

	var b strings.Builder
	var params []interface{}

	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE 1=1", blockColumns, table)

	if len(args.IDs) > 0 {
		fmt.Fprintf(&b, " AND indep_hash IN (%s)", placeholders(len(args.IDs)))
		params = append(params, byteSlicesToArgs(args.IDs)...)
	}
	if minHeight >= 0 {
		b.WriteString(" AND height >= ?")
		params = append(params, minHeight)
	}
	if maxHeight >= 0 {
		b.WriteString(" AND height <= ?")
		params = append(params, maxHeight)
	}
	if hasCursor {
		if desc {
			b.WriteString(" AND height < ?")
		} else {
			b.WriteString(" AND height > ?")
		}
		params = append(params, cursor.Height)
	}

	order := "DESC"
	if !desc {
		order = "ASC"
	}
	fmt.Fprintf(&b, " ORDER BY height %s LIMIT ?", order)
	params = append(params, limit)

	rows, err := s.db.Query(b.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s blocks: %w", tier, err)
	}
	defer rows.Close()

	var out []blockRow
	for rows.Next() {
		r, err := scanBlockRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s block row: %w", tier, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s block rows: %w", tier, err)
	}

	return out, nil
}

// GetGqlBlock looks up a single block by its independent hash, checking
// the confirmed tier first.
func (s *Storage) GetGqlBlock(indepHash []byte) (*GqlBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, table := range []string{"confirmed_blocks", "pending_blocks"} {
		query := fmt.Sprintf("SELECT %s FROM %s WHERE indep_hash = ? LIMIT 1", blockColumns, table)
		row := s.db.QueryRow(query, indepHash)
		r, err := scanBlockRow(row)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query block from %s: %w", table, err)
		}
		gql := r.toGql()
		return &gql, nil
	}
	return nil, nil
}
