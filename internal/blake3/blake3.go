// Package blake3 implements the single-chunk BLAKE3 compression primitives
// used by the Cerberus nonce search.
//
// Only single-block compression is provided. Tree hashing kicks in above
// 1024 bytes of input and is out of range for Cerberus challenges, so the
// chunk counter is always zero and every message carries the root flags.
package blake3

import "encoding/binary"

const (
	// BlockSize is the BLAKE3 block size in bytes
	BlockSize = 64

	// FlagChunkStart marks the first block of a chunk
	FlagChunkStart = 1 << 0

	// FlagChunkEnd marks the last block of a chunk
	FlagChunkEnd = 1 << 1

	// FlagRoot marks the root output block
	FlagRoot = 1 << 3
)

// IV is the BLAKE3 initialization vector
var IV = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

// MessageSchedule selects the two message words consumed by each G call.
// Row r is the word order for round r; BLAKE3 uses seven rounds.
var MessageSchedule = [7][16]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{2, 6, 3, 10, 7, 0, 4, 13, 1, 11, 12, 5, 9, 14, 15, 8},
	{3, 4, 10, 12, 13, 2, 7, 14, 6, 5, 9, 0, 11, 15, 8, 1},
	{10, 7, 12, 9, 14, 3, 13, 15, 4, 0, 11, 2, 5, 8, 1, 6},
	{12, 13, 9, 11, 15, 10, 14, 8, 7, 2, 5, 3, 0, 1, 6, 4},
	{9, 14, 11, 5, 8, 12, 15, 1, 13, 3, 0, 10, 2, 6, 4, 7},
	{11, 15, 5, 0, 1, 9, 8, 6, 14, 10, 2, 12, 3, 4, 7, 13},
}

// g mixes one column or diagonal of the state with two message words.
func g(v *[16]uint32, a, b, c, d int, mx, my uint32) {
	v[a] = v[a] + v[b] + mx
	v[d] = rotr(v[d]^v[a], 16)
	v[c] = v[c] + v[d]
	v[b] = rotr(v[b]^v[c], 12)
	v[a] = v[a] + v[b] + my
	v[d] = rotr(v[d]^v[a], 8)
	v[c] = v[c] + v[d]
	v[b] = rotr(v[b]^v[c], 7)
}

func rotr(x uint32, k uint) uint32 {
	return (x >> k) | (x << (32 - k))
}

// initState lays out the 16-word internal state for one compression:
// chaining value, first half of IV, counter, block length and flags.
func initState(cv *[8]uint32, counter uint64, blockLen, flags uint32) [16]uint32 {
	return [16]uint32{
		cv[0], cv[1], cv[2], cv[3], cv[4], cv[5], cv[6], cv[7],
		IV[0], IV[1], IV[2], IV[3],
		uint32(counter), uint32(counter >> 32), blockLen, flags,
	}
}

// round applies one full BLAKE3 round to the state.
func round(v *[16]uint32, block *[16]uint32, r int) {
	s := &MessageSchedule[r]
	g(v, 0, 4, 8, 12, block[s[0]], block[s[1]])
	g(v, 1, 5, 9, 13, block[s[2]], block[s[3]])
	g(v, 2, 6, 10, 14, block[s[4]], block[s[5]])
	g(v, 3, 7, 11, 15, block[s[6]], block[s[7]])
	g(v, 0, 5, 10, 15, block[s[8]], block[s[9]])
	g(v, 1, 6, 11, 12, block[s[10]], block[s[11]])
	g(v, 2, 7, 8, 13, block[s[12]], block[s[13]])
	g(v, 3, 4, 9, 14, block[s[14]], block[s[15]])
}

// Compress runs the full BLAKE3 compression of one 64-byte block and
// returns all 16 output words.
func Compress(cv *[8]uint32, block *[16]uint32, counter uint64, blockLen, flags uint32) [16]uint32 {
	v := initState(cv, counter, blockLen, flags)
	for r := 0; r < 7; r++ {
		round(&v, block, r)
	}

	var out [16]uint32
	for i := 0; i < 8; i++ {
		out[i] = v[i] ^ v[i+8]
		out[i+8] = v[i+8] ^ cv[i]
	}
	return out
}

// Compress8 returns the first eight output words of Compress, suitable as
// a chaining value or as the (truncated) root hash.
func Compress8(cv *[8]uint32, block *[16]uint32, counter uint64, blockLen, flags uint32) [8]uint32 {
	v := initState(cv, counter, blockLen, flags)
	for r := 0; r < 7; r++ {
		round(&v, block, r)
	}

	var out [8]uint32
	for i := 0; i < 8; i++ {
		out[i] = v[i] ^ v[i+8]
	}
	return out
}

// IngestMessagePrefix prepares an internal state with the round-0 G calls
// whose message operands are already known. msgPrefix holds the leading
// constant words of the block; each complete pair drives one G call in
// round-0 order. The returned state is what CompressQuadReduced expects
// when invoked with constWords = len(msgPrefix).
func IngestMessagePrefix(cv *[8]uint32, msgPrefix []uint32, counter uint64, blockLen, flags uint32) [16]uint32 {
	v := initState(cv, counter, blockLen, flags)
	for j := 0; j < len(msgPrefix)/2; j++ {
		a, b, c, d := gIndex[j][0], gIndex[j][1], gIndex[j][2], gIndex[j][3]
		g(&v, a, b, c, d, msgPrefix[j*2], msgPrefix[j*2+1])
	}
	return v
}

// gIndex is the column/diagonal order of the eight G calls within a round.
var gIndex = [8][4]int{
	{0, 4, 8, 12},
	{1, 5, 9, 13},
	{2, 6, 10, 14},
	{3, 7, 11, 15},
	{0, 5, 10, 15},
	{1, 6, 11, 12},
	{2, 7, 8, 13},
	{3, 4, 9, 14},
}

// WordsFromBytes reinterprets a 64-byte block as 16 little-endian words.
func WordsFromBytes(block *[64]byte) [16]uint32 {
	var words [16]uint32
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(block[i*4:])
	}
	return words
}

// BytesFromWords is the inverse of WordsFromBytes.
func BytesFromWords(words *[16]uint32) [64]byte {
	var block [64]byte
	for i, w := range words {
		binary.LittleEndian.PutUint32(block[i*4:], w)
	}
	return block
}
