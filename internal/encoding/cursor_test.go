package encoding

import (
	"errors"
	"testing"
)

func TestEncodeTransactionCursor(t *testing.T) {
	got := EncodeTransactionCursor(TransactionCursor{Height: 1138, BlockTransactionIndex: 42})
	want := "WzExMzgsNDJd"
	if got != want {
		t.Errorf("EncodeTransactionCursor() = %s, want %s", got, want)
	}
}

func TestDecodeTransactionCursor(t *testing.T) {
	c, ok, err := DecodeTransactionCursor("WzExMzgsNDJd")
	if err != nil {
		t.Fatalf("DecodeTransactionCursor() error = %v", err)
	}
	if !ok {
		t.Fatal("DecodeTransactionCursor() ok = false, want true")
	}
	if c.Height != 1138 || c.BlockTransactionIndex != 42 {
		t.Errorf("DecodeTransactionCursor() = %+v, want {1138 42}", c)
	}
}

func TestDecodeTransactionCursorEmpty(t *testing.T) {
	_, ok, err := DecodeTransactionCursor("")
	if err != nil {
		t.Fatalf("DecodeTransactionCursor(\"\") error = %v", err)
	}
	if ok {
		t.Error("DecodeTransactionCursor(\"\") ok = true, want false (no bound)")
	}
}

func TestDecodeTransactionCursorMalformed(t *testing.T) {
	if _, _, err := DecodeTransactionCursor("123"); err == nil {
		t.Fatal("DecodeTransactionCursor(\"123\") error = nil, want ErrBadCursor")
	} else if !errors.Is(err, ErrBadCursor) {
		t.Errorf("DecodeTransactionCursor(\"123\") error = %v, want ErrBadCursor", err)
	}
}

func TestTransactionCursorRoundTrip(t *testing.T) {
	for _, c := range []TransactionCursor{
		{Height: 0, BlockTransactionIndex: 0},
		{Height: 982575, BlockTransactionIndex: 2},
		{Height: 1, BlockTransactionIndex: 999},
	} {
		enc := EncodeTransactionCursor(c)
		dec, ok, err := DecodeTransactionCursor(enc)
		if err != nil {
			t.Fatalf("round trip %+v: decode error = %v", c, err)
		}
		if !ok || dec != c {
			t.Errorf("round trip %+v: got %+v (ok=%v)", c, dec, ok)
		}
	}
}

func TestBlockCursorRoundTrip(t *testing.T) {
	c := BlockCursor{Height: 982575}
	enc := EncodeBlockCursor(c)
	dec, ok, err := DecodeBlockCursor(enc)
	if err != nil {
		t.Fatalf("DecodeBlockCursor() error = %v", err)
	}
	if !ok || dec != c {
		t.Errorf("DecodeBlockCursor() = %+v (ok=%v), want %+v", dec, ok, c)
	}
}
