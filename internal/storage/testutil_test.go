package storage

import (
	"testing"

	"github.com/weave-gw/chain-index-core/internal/config"
	"github.com/weave-gw/chain-index-core/pkg/logging"
)

// openTestStorage opens a fresh Storage in a temp directory with the
// given tunables, so stabilization can be exercised at small heights
// without waiting for real chain depth.
func openTestStorage(t *testing.T, tunables config.TunablesConfig) *Storage {
	t.Helper()

	cfg := config.DefaultConfig(t.TempDir())
	cfg.Tunables = tunables.WithDefaults()
	cfg.Logging.Level = "error"

	s, err := New(cfg, logging.New(&logging.Config{Level: "error"}))
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testBlock(height int64, indepHash []byte, txIDs [][]byte) Block {
	return Block{
		IndepHash:      indepHash,
		Height:         height,
		PreviousBlock:  []byte("prev"),
		Nonce:          []byte("nonce"),
		Hash:           []byte("hash"),
		Timestamp:      1700000000 + height,
		Diff:           "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		CumulativeDiff: "123456789012345678901234567890",
		LastRetarget:   1700000000,
		RewardAddr:     []byte("reward-addr"),
		RewardPool:     "1000000000000",
		BlockSize:      1024,
		WeaveSize:      2048,

		UsdToArRateDividend:          1,
		UsdToArRateDivisor:           5,
		ScheduledUsdToArRateDividend: 1,
		ScheduledUsdToArRateDivisor:  5,

		HashListMerkle: []byte("merkle"),
		WalletList:     []byte("wallet-list"),
		TxRoot:         []byte("tx-root"),
		Txs:            txIDs,
	}
}

func testTransaction(id []byte, owner []byte, tags []Tag) Transaction {
	return Transaction{
		ID:           id,
		Signature:    []byte("sig-" + string(id)),
		Format:       2,
		LastTx:       []byte("last-tx"),
		OwnerModulus: owner,
		Target:       []byte("target"),
		Quantity:     "0",
		Reward:       "1234567",
		DataSize:     512,
		DataRoot:     []byte("data-root"),
		Tags:         tags,
	}
}
