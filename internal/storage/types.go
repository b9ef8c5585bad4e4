package storage

// Block is one block of the indexed chain, as decoded at the ingestion
// boundary (all byte fields already raw, not base64 text).
type Block struct {
	IndepHash      []byte
	Height         int64
	PreviousBlock  []byte
	Nonce          []byte
	Hash           []byte
	Timestamp      int64
	Diff           string
	CumulativeDiff string
	LastRetarget   int64
	RewardAddr     []byte
	RewardPool     string
	BlockSize      int64
	WeaveSize      int64

	UsdToArRateDividend          int64
	UsdToArRateDivisor           int64
	ScheduledUsdToArRateDividend int64
	ScheduledUsdToArRateDivisor  int64

	HashListMerkle []byte
	WalletList     []byte
	TxRoot         []byte

	// Txs holds every transaction id the block references, in order. The
	// ids present in the txs argument to SaveBlockAndTxs and the ids in
	// missingTxIds together must cover exactly this list.
	Txs [][]byte
}

// Tag is a single name/value pair attached to a transaction.
type Tag struct {
	Name  []byte
	Value []byte
}

// Transaction is one transaction as decoded at the ingestion boundary.
type Transaction struct {
	ID              []byte
	Signature       []byte
	Format          int
	LastTx          []byte
	OwnerModulus    []byte // input only; OwnerAddress is derived from this
	Target          []byte
	Quantity        string
	Reward          string
	DataSize        int64
	DataRoot        []byte
	Tags            []Tag
}

// GqlTag is the [{name, value}] shape returned for a transaction's tags.
type GqlTag struct {
	Name  string
	Value string
}

// GqlTransaction is a transaction row as returned to a caller, carrying its
// tier-unifying sort key and (optionally) its tags.
type GqlTransaction struct {
	ID                    []byte
	Signature             []byte
	Format                int
	LastTx                []byte
	OwnerAddress          []byte
	Target                []byte
	Quantity              string
	Reward                string
	DataSize              int64
	DataRoot              []byte
	ContentType           string
	Height                int64
	BlockTransactionIndex int
	Tags                  []GqlTag
}

// GqlBlock is a block row as returned to a caller.
type GqlBlock struct {
	IndepHash      []byte
	Height         int64
	PreviousBlock  []byte
	Nonce          []byte
	Hash           []byte
	Timestamp      int64
	Diff           string
	CumulativeDiff string
	LastRetarget   int64
	RewardAddr     []byte
	RewardPool     string
	BlockSize      int64
	WeaveSize      int64

	UsdToArRateDividend          int64
	UsdToArRateDivisor           int64
	ScheduledUsdToArRateDividend int64
	ScheduledUsdToArRateDivisor  int64

	HashListMerkle []byte
	WalletList     []byte
	TxRoot         []byte
	TxCount        int
	MissingTxCount int
}

// SortOrder controls the total order paginated queries traverse.
type SortOrder int

const (
	HeightDesc SortOrder = iota
	HeightAsc
)

// TagFilter requires name == tag.name AND tag.value IN values.
type TagFilter struct {
	Name   string
	Values []string
}

// TransactionQueryArgs are the filters and pagination controls accepted by
// GetGqlTransactions.
type TransactionQueryArgs struct {
	PageSize  int
	Cursor    string
	SortOrder SortOrder

	IDs        [][]byte
	Recipients [][]byte
	Owners     [][]byte

	MinHeight int64 // -1 means unbounded
	MaxHeight int64 // -1 means unbounded

	Tags []TagFilter
}

// BlockQueryArgs are the filters and pagination controls accepted by
// GetGqlBlocks.
type BlockQueryArgs struct {
	PageSize  int
	Cursor    string
	SortOrder SortOrder

	IDs [][]byte

	MinHeight int64
	MaxHeight int64
}

// TransactionEdge pairs a transaction with its page cursor.
type TransactionEdge struct {
	Cursor      string
	Transaction GqlTransaction
}

// BlockEdge pairs a block with its page cursor.
type BlockEdge struct {
	Cursor string
	Block  GqlBlock
}

// TransactionConnection is a page of transaction results.
type TransactionConnection struct {
	Edges       []TransactionEdge
	HasNextPage bool
}

// BlockConnection is a page of block results.
type BlockConnection struct {
	Edges       []BlockEdge
	HasNextPage bool
}

// DebugInfo summarizes index state for health checks.
type DebugInfo struct {
	Counts  DebugCounts
	Heights DebugHeights
}

// DebugCounts holds the row counts exposed for diagnostics.
type DebugCounts struct {
	Wallets             int64
	TagNames            int64
	TagValues           int64
	NewTxs              int64 // pending transactions
	NewBlocks           int64 // pending blocks
	ConfirmedTxs        int64
	ConfirmedBlocks     int64
	MissingStableBlocks int64
}

// DebugHeights holds the min/max heights observed in each tier.
type DebugHeights struct {
	MinPendingHeight   int64
	MaxPendingHeight   int64
	MinConfirmedHeight int64
	MaxConfirmedHeight int64
}
