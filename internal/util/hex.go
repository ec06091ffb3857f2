package util

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
)

// EncodeHashLE renders eight little-endian BLAKE3 hash words as the
// 64-character lowercase hex digest, matching what a byte-oriented hasher
// would produce for the same message.
func EncodeHashLE(words [8]uint32) string {
	var buf [32]byte
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return hex.EncodeToString(buf[:])
}

// DecodeHashLE parses a 64-character hex digest back into eight
// little-endian words.
func DecodeHashLE(s string) ([8]uint32, bool) {
	var words [8]uint32
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil || len(raw) != 32 {
		return words, false
	}
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return words, true
}

// FormatNonce renders a nonce the way it is appended to the challenge
// prefix: plain decimal ASCII.
func FormatNonce(nonce uint64) string {
	return strconv.FormatUint(nonce, 10)
}

// HexToBytes converts a hex string to bytes, accepting an 0x prefix.
func HexToBytes(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

// BytesToHex converts bytes to a bare hex string.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}
