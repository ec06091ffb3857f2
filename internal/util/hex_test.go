package util

import (
	"encoding/binary"
	"testing"

	zeebo "github.com/zeebo/blake3"
)

func TestEncodeHashLEMatchesReference(t *testing.T) {
	h := zeebo.New()
	h.Write([]byte("cerberus"))
	digest := h.Sum(nil)

	var words [8]uint32
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(digest[i*4:])
	}

	want := BytesToHex(digest)
	if got := EncodeHashLE(words); got != want {
		t.Errorf("EncodeHashLE = %s, want %s", got, want)
	}
}

func TestDecodeHashLERoundTrip(t *testing.T) {
	words := [8]uint32{1, 2, 3, 0xdeadbeef, 5, 6, 7, 8}
	decoded, ok := DecodeHashLE(EncodeHashLE(words))
	if !ok {
		t.Fatal("DecodeHashLE failed on encoder output")
	}
	if decoded != words {
		t.Errorf("round-trip = %v, want %v", decoded, words)
	}
}

func TestDecodeHashLEInvalid(t *testing.T) {
	for _, s := range []string{"", "zz", "abcd", "0x1234"} {
		if _, ok := DecodeHashLE(s); ok {
			t.Errorf("DecodeHashLE(%q) should fail", s)
		}
	}
}

func TestFormatNonce(t *testing.T) {
	tests := []struct {
		nonce uint64
		want  string
	}{
		{0, "0"},
		{1234567890, "1234567890"},
		{18446744073709551615, "18446744073709551615"},
	}
	for _, tt := range tests {
		if got := FormatNonce(tt.nonce); got != tt.want {
			t.Errorf("FormatNonce(%d) = %q, want %q", tt.nonce, got, tt.want)
		}
	}
}

func TestHexToBytes(t *testing.T) {
	b, err := HexToBytes("0xdeadbeef")
	if err != nil {
		t.Fatalf("HexToBytes error = %v", err)
	}
	if BytesToHex(b) != "deadbeef" {
		t.Errorf("round-trip = %s, want deadbeef", BytesToHex(b))
	}

	if _, err := HexToBytes("not-hex"); err == nil {
		t.Error("HexToBytes should reject invalid input")
	}
}
