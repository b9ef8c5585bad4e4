package storage

import "fmt"

// fetchTransactionTags loads the tag list for one transaction from the
// given tier, preserving transaction_tag_index order. This is a
// deliberate N+1 query per returned transaction rather than a batched
// fetch: it keeps the listing query simple and avoids a large row
// fan-out when callers request many transactions with many tags each.
func (s *Storage) fetchTransactionTags(tier string, txID []byte, height int64, blockTransactionIndex int) ([]GqlTag, error) {
	var query string
	var args []interface{}

	if tier == "pending" {
		query = `
			SELECT tn.name, tv.value
			FROM pending_transaction_tags tt
			JOIN tag_names tn ON tn.hash = tt.tag_name_hash
			JOIN tag_values tv ON tv.hash = tt.tag_value_hash
			WHERE tt.transaction_id = ?
			ORDER BY tt.transaction_tag_index ASC`
		args = []interface{}{txID}
	} else {
		query = `
			SELECT tn.name, tv.value
			FROM confirmed_transaction_tags tt
			JOIN tag_names tn ON tn.hash = tt.tag_name_hash
			JOIN tag_values tv ON tv.hash = tt.tag_value_hash
			WHERE tt.transaction_id = ? AND tt.height = ? AND tt.block_transaction_index = ?
			ORDER BY tt.transaction_tag_index ASC`
		args = []interface{}{txID, height, blockTransactionIndex}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s transaction tags: %w", tier, err)
	}
	defer rows.Close()

	var tags []GqlTag
	for rows.Next() {
		var name, value []byte
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan transaction tag: %w", err)
		}
		tags = append(tags, GqlTag{Name: string(name), Value: string(value)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction tags: %w", err)
	}

	return tags, nil
}
