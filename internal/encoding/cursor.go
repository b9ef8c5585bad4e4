package encoding

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadCursor is returned when cursor bytes do not decode to valid JSON of
// the expected arity. It is a validation failure and is never retried by
// the caller.
var ErrBadCursor = errors.New("bad cursor")

// TransactionCursor is the exclusive pagination bound for transaction
// queries: the tuple (height, block_transaction_index).
type TransactionCursor struct {
	Height                int64
	BlockTransactionIndex int
}

// BlockCursor is the exclusive pagination bound for block queries: the
// single-element tuple (height).
type BlockCursor struct {
	Height int64
}

// EncodeTransactionCursor encodes a transaction cursor as the JSON array
// [height, block_transaction_index], base64 of its UTF-8 bytes.
func EncodeTransactionCursor(c TransactionCursor) string {
	raw, _ := json.Marshal([2]int64{c.Height, int64(c.BlockTransactionIndex)})
	return B64(raw)
}

// DecodeTransactionCursor decodes a cursor produced by EncodeTransactionCursor.
// An empty string yields "no bound" (ok=false, err=nil).
func DecodeTransactionCursor(s string) (c TransactionCursor, ok bool, err error) {
	if s == "" {
		return TransactionCursor{}, false, nil
	}

	raw, err := B64Decode(s)
	if err != nil {
		return TransactionCursor{}, false, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}

	var parts []int64
	if err := json.Unmarshal(raw, &parts); err != nil {
		return TransactionCursor{}, false, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	if len(parts) != 2 {
		return TransactionCursor{}, false, fmt.Errorf("%w: expected 2 elements, got %d", ErrBadCursor, len(parts))
	}

	return TransactionCursor{Height: parts[0], BlockTransactionIndex: int(parts[1])}, true, nil
}

// EncodeBlockCursor encodes a block cursor as the JSON array [height].
func EncodeBlockCursor(c BlockCursor) string {
	raw, _ := json.Marshal([1]int64{c.Height})
	return B64(raw)
}

// DecodeBlockCursor decodes a cursor produced by EncodeBlockCursor.
func DecodeBlockCursor(s string) (c BlockCursor, ok bool, err error) {
	if s == "" {
		return BlockCursor{}, false, nil
	}

	raw, err := B64Decode(s)
	if err != nil {
		return BlockCursor{}, false, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}

	var parts []int64
	if err := json.Unmarshal(raw, &parts); err != nil {
		return BlockCursor{}, false, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	if len(parts) != 1 {
		return BlockCursor{}, false, fmt.Errorf("%w: expected 1 element, got %d", ErrBadCursor, len(parts))
	}

	return BlockCursor{Height: parts[0]}, true, nil
}
