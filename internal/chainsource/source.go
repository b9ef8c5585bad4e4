// Package chainsource defines the boundary between the indexing core and
// whatever fetches blocks and transactions from the chain itself. The
// core treats the chain source as an external collaborator: this package
// only states the contract, never an HTTP client or retry policy.
package chainsource

import (
	"context"

	"github.com/weave-gw/chain-index-core/internal/storage"
)

// BlockAndTxs is the result of fetching one height: the block, the
// transaction bodies that could be retrieved, and the ids of those that
// could not.
type BlockAndTxs struct {
	Block        storage.Block
	Txs          []storage.Transaction
	MissingTxIDs [][]byte
}

// Source fetches block and transaction data by height. Implementations
// decode the source chain's wire format (base64 identifiers, JSON
// numerics) into the raw byte/int fields the storage layer expects;
// transport, retry, and rate limiting are the implementation's concern,
// not this interface's.
type Source interface {
	GetBlockAndTxsByHeight(ctx context.Context, height int64) (*BlockAndTxs, error)
}
