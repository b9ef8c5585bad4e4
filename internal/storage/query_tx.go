package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/weave-gw/chain-index-core/internal/encoding"
)

// txRow is one row of a transaction tier query, before tag fetching.
type txRow struct {
	tier                  string // "pending" or "confirmed"
	id                    []byte
	signature             []byte
	format                int
	lastTx                []byte
	ownerAddress          []byte
	target                []byte
	quantity              string
	reward                string
	dataSize              int64
	dataRoot              []byte
	contentType           string
	height                int64
	blockTransactionIndex int
}

// GetGqlTransactions answers a paginated, filtered transaction query,
// unifying the pending and confirmed tiers per the active sort order.
func (s *Storage) GetGqlTransactions(args TransactionQueryArgs) (TransactionConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cursor, hasCursor, err := encoding.DecodeTransactionCursor(args.Cursor)
	if err != nil {
		return TransactionConnection{}, err
	}

	limit := args.PageSize + 1
	desc := args.SortOrder != HeightAsc

	var rows []txRow
	if desc {
		rows, err = s.queryTransactionTier("pending", args, cursor, hasCursor, args.MinHeight, args.MaxHeight, limit, desc)
		if err != nil {
			return TransactionConnection{}, err
		}
		if len(rows) < limit {
			maxHeight := args.MaxHeight
			if len(rows) > 0 {
				bound := rows[len(rows)-1].height - 1
				if maxHeight < 0 || bound < maxHeight {
					maxHeight = bound
				}
			}
			more, err := s.queryTransactionTier("confirmed", args, cursor, hasCursor, args.MinHeight, maxHeight, limit-len(rows), desc)
			if err != nil {
				return TransactionConnection{}, err
			}
			rows = append(rows, more...)
		}
	} else {
		rows, err = s.queryTransactionTier("confirmed", args, cursor, hasCursor, args.MinHeight, args.MaxHeight, limit, desc)
		if err != nil {
			return TransactionConnection{}, err
		}
		if len(rows) < limit {
			minHeight := args.MinHeight
			if len(rows) > 0 {
				bound := rows[len(rows)-1].height + 1
				if minHeight < 0 || bound > minHeight {
					minHeight = bound
				}
			}
			more, err := s.queryTransactionTier("pending", args, cursor, hasCursor, minHeight, args.MaxHeight, limit-len(rows), desc)
			if err != nil {
				return TransactionConnection{}, err
			}
			rows = append(rows, more...)
		}
	}

	hasNextPage := len(rows) > args.PageSize
	if hasNextPage {
		rows = rows[:args.PageSize]
	}

	edges := make([]TransactionEdge, len(rows))
	for i, r := range rows {
		tags, err := s.fetchTransactionTags(r.tier, r.id, r.height, r.blockTransactionIndex)
		if err != nil {
			return TransactionConnection{}, err
		}

		edges[i] = TransactionEdge{
			Cursor: encoding.EncodeTransactionCursor(encoding.TransactionCursor{
				Height:                r.height,
				BlockTransactionIndex: r.blockTransactionIndex,
			}),
			Transaction: GqlTransaction{
				ID:                    r.id,
				Signature:             r.signature,
				Format:                r.format,
				LastTx:                r.lastTx,
				OwnerAddress:          r.ownerAddress,
				Target:                r.target,
				Quantity:              r.quantity,
				Reward:                r.reward,
				DataSize:              r.dataSize,
				DataRoot:              r.dataRoot,
				ContentType:           r.contentType,
				Height:                r.height,
				BlockTransactionIndex: r.blockTransactionIndex,
				Tags:                  tags,
			},
		}
	}

	return TransactionConnection{Edges: edges, HasNextPage: hasNextPage}, nil
}

// queryTransactionTier runs the filtered, ordered, limited transaction
// query against either the pending or the confirmed tier. Pending rows
// resolve height via a join through pending_block_heights (which may map
// a height to more than one indep_hash across competing forks); confirmed
// rows carry height and block_transaction_index directly.
func (s *Storage) queryTransactionTier(
	tier string,
	args TransactionQueryArgs,
	cursor encoding.TransactionCursor,
	hasCursor bool,
	minHeight, maxHeight int64,
	limit int,
	desc bool,
) ([]txRow, error) {
	if limit <= 0 {
		return nil, nil
	}

	var b strings.Builder
	var params []interface{}

	var heightCol, idxCol string
	if tier == "pending" {
		heightCol, idxCol = "bh.height", "bt.block_transaction_index"
		b.WriteString(`
			SELECT t.id, t.signature, t.format, t.last_tx, t.owner_address, t.target,
				t.quantity, t.reward, t.data_size, t.data_root, t.content_type,
				bh.height, bt.block_transaction_index
			FROM pending_transactions t
			JOIN pending_block_transactions bt ON bt.transaction_id = t.id
			JOIN pending_block_heights bh ON bh.indep_hash = bt.block_indep_hash`)
	} else {
		heightCol, idxCol = "t.height", "t.block_transaction_index"
		b.WriteString(`
			SELECT t.id, t.signature, t.format, t.last_tx, t.owner_address, t.target,
				t.quantity, t.reward, t.data_size, t.data_root, t.content_type,
				t.height, t.block_transaction_index
			FROM confirmed_transactions t`)
	}

	for i, tf := range args.Tags {
		alias := fmt.Sprintf("tt%d", i)
		valuePlaceholders := placeholders(len(tf.Values))
		if tier == "pending" {
			fmt.Fprintf(&b, " JOIN pending_transaction_tags %s ON %s.transaction_id = t.id"+
				" AND %s.tag_name_hash = ? AND %s.tag_value_hash IN (%s)",
				alias, alias, alias, alias, valuePlaceholders)
		} else {
			fmt.Fprintf(&b, " JOIN confirmed_transaction_tags %s ON %s.height = t.height"+
				" AND %s.block_transaction_index = t.block_transaction_index"+
				" AND %s.tag_name_hash = ? AND %s.tag_value_hash IN (%s)",
				alias, alias, alias, alias, alias, valuePlaceholders)
		}
		params = append(params, encoding.TagNameHash([]byte(tf.Name)))
		for _, v := range tf.Values {
			params = append(params, encoding.TagValueHash([]byte(v)))
		}
	}

	b.WriteString(" WHERE 1=1")

	if len(args.IDs) > 0 {
		fmt.Fprintf(&b, " AND t.id IN (%s)", placeholders(len(args.IDs)))
		params = append(params, byteSlicesToArgs(args.IDs)...)
	}
	if len(args.Recipients) > 0 {
		fmt.Fprintf(&b, " AND t.target IN (%s)", placeholders(len(args.Recipients)))
		params = append(params, byteSlicesToArgs(args.Recipients)...)
	}
	if len(args.Owners) > 0 {
		fmt.Fprintf(&b, " AND t.owner_address IN (%s)", placeholders(len(args.Owners)))
		params = append(params, byteSlicesToArgs(args.Owners)...)
	}
	if minHeight >= 0 {
		fmt.Fprintf(&b, " AND %s >= ?", heightCol)
		params = append(params, minHeight)
	}
	if maxHeight >= 0 {
		fmt.Fprintf(&b, " AND %s <= ?", heightCol)
		params = append(params, maxHeight)
	}
	if hasCursor {
		if desc {
			fmt.Fprintf(&b, " AND (%s < ? OR (%s = ? AND %s < ?))", heightCol, heightCol, idxCol)
		} else {
			fmt.Fprintf(&b, " AND (%s > ? OR (%s = ? AND %s > ?))", heightCol, heightCol, idxCol)
		}
		params = append(params, cursor.Height, cursor.Height, cursor.BlockTransactionIndex)
	}

	order := "DESC"
	if !desc {
		order = "ASC"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s, %s %s LIMIT ?", heightCol, order, idxCol, order)
	params = append(params, limit)

	rows, err := s.db.Query(b.String(), params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s transactions: %w", tier, err)
	}
	defer rows.Close()

	var out []txRow
	for rows.Next() {
		var r txRow
		r.tier = tier
		var contentType sql.NullString
		if err := rows.Scan(
			&r.id, &r.signature, &r.format, &r.lastTx, &r.ownerAddress, &r.target,
			&r.quantity, &r.reward, &r.dataSize, &r.dataRoot, &contentType,
			&r.height, &r.blockTransactionIndex,
		); err != nil {
			return nil, fmt.Errorf("failed to scan %s transaction row: %w", tier, err)
		}
		r.contentType = contentType.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s transaction rows: %w", tier, err)
	}

	return out, nil
}

// GetGqlTransaction looks up a single transaction by id, checking the
// confirmed tier first since that is where most historical lookups hit.
func (s *Storage) GetGqlTransaction(id []byte) (*GqlTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tier := range []string{"confirmed", "pending"} {
		tx, err := s.getGqlTransactionFromTier(tier, id)
		if err != nil {
			return nil, err
		}
		if tx != nil {
			return tx, nil
		}
	}
	return nil, nil
}

func (s *Storage) getGqlTransactionFromTier(tier string, id []byte) (*GqlTransaction, error) {
	var query string
	if tier == "pending" {
		query = `
			SELECT t.id, t.signature, t.format, t.last_tx, t.owner_address, t.target,
				t.quantity, t.reward, t.data_size, t.data_root, t.content_type,
				bh.height, bt.block_transaction_index
			FROM pending_transactions t
			JOIN pending_block_transactions bt ON bt.transaction_id = t.id
			JOIN pending_block_heights bh ON bh.indep_hash = bt.block_indep_hash
			WHERE t.id = ?
			LIMIT 1`
	} else {
		query = `
			SELECT t.id, t.signature, t.format, t.last_tx, t.owner_address, t.target,
				t.quantity, t.reward, t.data_size, t.data_root, t.content_type,
				t.height, t.block_transaction_index
			FROM confirmed_transactions t
			WHERE t.id = ?
			LIMIT 1`
	}

	var r txRow
	r.tier = tier
	var contentType sql.NullString
	row := s.db.QueryRow(query, id)
	err := row.Scan(
		&r.id, &r.signature, &r.format, &r.lastTx, &r.ownerAddress, &r.target,
		&r.quantity, &r.reward, &r.dataSize, &r.dataRoot, &contentType,
		&r.height, &r.blockTransactionIndex,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s transaction: %w", tier, err)
	}
	r.contentType = contentType.String

	tags, err := s.fetchTransactionTags(tier, r.id, r.height, r.blockTransactionIndex)
	if err != nil {
		return nil, err
	}

	return &GqlTransaction{
		ID:                    r.id,
		Signature:             r.signature,
		Format:                r.format,
		LastTx:                r.lastTx,
		OwnerAddress:          r.ownerAddress,
		Target:                r.target,
		Quantity:              r.quantity,
		Reward:                r.reward,
		DataSize:              r.dataSize,
		DataRoot:              r.dataRoot,
		ContentType:           r.contentType,
		Height:                r.height,
		BlockTransactionIndex: r.blockTransactionIndex,
		Tags:                  tags,
	}, nil
}
