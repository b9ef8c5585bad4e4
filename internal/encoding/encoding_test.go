package encoding

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"testing"
)

func TestB64RoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10, 0x7f, 0x80}
	enc := B64(raw)
	dec, err := B64Decode(enc)
	if err != nil {
		t.Fatalf("B64Decode() error = %v", err)
	}
	if !bytes.Equal(dec, raw) {
		t.Errorf("B64Decode(B64(%x)) = %x, want %x", raw, dec, raw)
	}
	if bytes.ContainsAny([]byte(enc), "+/=") {
		t.Errorf("B64() = %q, contains non-URL-safe or padding characters", enc)
	}
}

func TestTagNameHash(t *testing.T) {
	name := []byte("Content-Type")
	got := TagNameHash(name)
	want := sha1.Sum(name)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("TagNameHash() = %x, want %x", got, want)
	}
}

func TestTagValueHash(t *testing.T) {
	value := []byte("image/png")
	got := TagValueHash(value)
	want := sha1.Sum(value)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("TagValueHash() = %x, want %x", got, want)
	}
}

func TestWalletAddress(t *testing.T) {
	modulus := bytes.Repeat([]byte{0xAB}, 512)
	got := WalletAddress(modulus)
	want := sha256.Sum256(modulus)
	if !bytes.Equal(got, want[:]) {
		t.Errorf("WalletAddress() = %x, want %x", got, want)
	}
}
