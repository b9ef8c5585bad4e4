package storage

import (
	"fmt"
	"testing"

	"github.com/weave-gw/chain-index-core/internal/config"
)

// ingestTaggedChain writes blocks 1..n, each holding one transaction
// tagged Content-Type=image/png, through the normal ingestion path.
func ingestTaggedChain(t *testing.T, s *Storage, n int64) {
	t.Helper()
	tag := []Tag{{Name: []byte("Content-Type"), Value: []byte("image/png")}}
	for h := int64(1); h <= n; h++ {
		indepHash := []byte(fmt.Sprintf("tblock-%d", h))
		txID := []byte(fmt.Sprintf("ttx-%d", h))
		block := testBlock(h, indepHash, [][]byte{txID})
		txs := []Transaction{testTransaction(txID, []byte("owner"), tag)}
		if err := s.SaveBlockAndTxs(block, txs, nil); err != nil {
			t.Fatalf("SaveBlockAndTxs(height=%d) error = %v", h, err)
		}
	}
}

func TestGetGqlTransactionsTagFilterDescPaging(t *testing.T) {
	s := openTestStorage(t, config.TunablesConfig{StableFlushInterval: 10000, MaxForkDepth: 10000})
	ingestTaggedChain(t, s, 10)

	page1, err := s.GetGqlTransactions(TransactionQueryArgs{
		PageSize:  3,
		SortOrder: HeightDesc,
		MinHeight: -1,
		MaxHeight: -1,
		Tags:      []TagFilter{{Name: "Content-Type", Values: []string{"image/png"}}},
	})
	if err != nil {
		t.Fatalf("GetGqlTransactions() error = %v", err)
	}
	if len(page1.Edges) != 3 {
		t.Fatalf("page1 edges = %d, want 3", len(page1.Edges))
	}
	if !page1.HasNextPage {
		t.Error("page1.HasNextPage = false, want true")
	}

	wantHeights := []int64{10, 9, 8}
	for i, edge := range page1.Edges {
		if edge.Transaction.Height != wantHeights[i] {
			t.Errorf("page1 edge[%d].Height = %d, want %d", i, edge.Transaction.Height, wantHeights[i])
		}
		if len(edge.Transaction.Tags) != 1 || edge.Transaction.Tags[0].Value != "image/png" {
			t.Errorf("page1 edge[%d] tags = %v, want [Content-Type=image/png]", i, edge.Transaction.Tags)
		}
	}

	page2, err := s.GetGqlTransactions(TransactionQueryArgs{
		PageSize:  3,
		Cursor:    page1.Edges[2].Cursor,
		SortOrder: HeightDesc,
		MinHeight: -1,
		MaxHeight: -1,
		Tags:      []TagFilter{{Name: "Content-Type", Values: []string{"image/png"}}},
	})
	if err != nil {
		t.Fatalf("GetGqlTransactions() page2 error = %v", err)
	}
	if len(page2.Edges) != 3 {
		t.Fatalf("page2 edges = %d, want 3", len(page2.Edges))
	}

	wantHeights2 := []int64{7, 6, 5}
	for i, edge := range page2.Edges {
		if edge.Transaction.Height != wantHeights2[i] {
			t.Errorf("page2 edge[%d].Height = %d, want %d", i, edge.Transaction.Height, wantHeights2[i])
		}
	}

	for _, e1 := range page1.Edges {
		for _, e2 := range page2.Edges {
			if e1.Transaction.Height == e2.Transaction.Height {
				t.Errorf("height %d appears in both pages", e1.Transaction.Height)
			}
		}
	}
}

func TestGetGqlTransactionsTwoTierUnion(t *testing.T) {
	s := openTestStorage(t, config.TunablesConfig{StableFlushInterval: 50, MaxForkDepth: 10})
	ingestTaggedChain(t, s, 60)

	info, err := s.GetDebugInfo()
	if err != nil {
		t.Fatalf("GetDebugInfo() error = %v", err)
	}
	if info.Counts.ConfirmedBlocks == 0 {
		t.Fatal("expected some confirmed blocks after 60-block ingest with flush interval 50")
	}
	if info.Counts.NewBlocks == 0 {
		t.Fatal("expected some pending blocks to remain")
	}

	conn, err := s.GetGqlTransactions(TransactionQueryArgs{
		PageSize:  100,
		SortOrder: HeightDesc,
		MinHeight: -1,
		MaxHeight: -1,
		Tags:      []TagFilter{{Name: "Content-Type", Values: []string{"image/png"}}},
	})
	if err != nil {
		t.Fatalf("GetGqlTransactions() error = %v", err)
	}
	if len(conn.Edges) != 60 {
		t.Fatalf("edges = %d, want 60", len(conn.Edges))
	}

	for i := 1; i < len(conn.Edges); i++ {
		if conn.Edges[i].Transaction.Height >= conn.Edges[i-1].Transaction.Height {
			t.Fatalf("edges not strictly decreasing at %d: %d >= %d",
				i, conn.Edges[i].Transaction.Height, conn.Edges[i-1].Transaction.Height)
		}
	}

	// Find the pending/confirmed transition: the height at which pending
	// rows give way to confirmed rows must be strictly higher than the
	// highest confirmed height.
	transitionFound := false
	for i := 1; i < len(conn.Edges); i++ {
		if conn.Edges[i-1].Transaction.Height > int64(info.Heights.MaxConfirmedHeight) &&
			conn.Edges[i].Transaction.Height <= int64(info.Heights.MaxConfirmedHeight) {
			transitionFound = true
			break
		}
	}
	if !transitionFound {
		t.Error("did not observe a pending-to-confirmed transition in the unified result")
	}
}

func TestGetGqlTransactionSingleLookup(t *testing.T) {
	s := openTestStorage(t, config.TunablesConfig{})

	id := []byte("tx-lookup")
	block := testBlock(1, []byte("block-lookup"), [][]byte{id})
	txs := []Transaction{testTransaction(id, []byte("owner"), []Tag{{Name: []byte("Foo"), Value: []byte("bar")}})}
	if err := s.SaveBlockAndTxs(block, txs, nil); err != nil {
		t.Fatalf("SaveBlockAndTxs() error = %v", err)
	}

	got, err := s.GetGqlTransaction(id)
	if err != nil {
		t.Fatalf("GetGqlTransaction() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetGqlTransaction() returned nil, want a transaction")
	}
	if string(got.ID) != string(id) {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}
	if len(got.Tags) != 1 || got.Tags[0].Name != "Foo" || got.Tags[0].Value != "bar" {
		t.Errorf("Tags = %v, want [Foo=bar]", got.Tags)
	}

	missing, err := s.GetGqlTransaction([]byte("does-not-exist"))
	if err != nil {
		t.Fatalf("GetGqlTransaction() error = %v", err)
	}
	if missing != nil {
		t.Error("GetGqlTransaction() for unknown id = non-nil, want nil")
	}
}
