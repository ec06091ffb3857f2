package solver

import (
	"github.com/sjtug/cerberus-solver/internal/blake3"
)

// Message is a prepared Cerberus search instance: the chaining value after
// absorbing the whole prefix blocks, the residual block with working-set
// digits pre-placed, and the addend that maps the solver's 9-digit index
// back to the full decimal nonce.
//
// The proof construct is prefix || ASCII_DECIMAL(nonce).
type Message struct {
	PrefixState [8]uint32
	Residual    [64]byte
	ResidualLen int
	Flags       uint32
	NonceAddend uint64
}

// NewMessage absorbs the prefix and places the working-set digits.
//
// Distinct working sets yield distinct pre-placed digit strings, so the
// 9-digit spaces searched by concurrent workers are disjoint.
func NewMessage(prefix []byte, workingSet uint32) (*Message, error) {
	if len(prefix) > MaxPrefixLen {
		return nil, ErrPrefixTooLong
	}

	m := &Message{
		PrefixState: blake3.IV,
		Flags:       blake3.FlagChunkStart | blake3.FlagChunkEnd | blake3.FlagRoot,
	}

	// Counter stays zero throughout: it only advances across chunks, and
	// everything here is single-chunk.
	whole := len(prefix) / blake3.BlockSize
	for i := 0; i < whole; i++ {
		var block [64]byte
		copy(block[:], prefix[i*blake3.BlockSize:])
		words := blake3.WordsFromBytes(&block)

		var thisFlag uint32
		if i == 0 {
			thisFlag = blake3.FlagChunkStart
		}
		m.PrefixState = blake3.Compress8(&m.PrefixState, &words, 0, blake3.BlockSize, thisFlag)
		m.Flags &^= blake3.FlagChunkStart
	}

	remainder := prefix[whole*blake3.BlockSize:]
	copy(m.Residual[:], remainder)
	ptr := len(remainder)

	var nonceAddend uint64
	if len(remainder) >= 55 {
		// Not enough room for 9 digits after the suffix. Pad the block out
		// with digits drawn from the working set and absorb it, so the
		// search continues in a fresh block. The head digit stays in 1..8
		// to keep the full nonce below the signed 64-bit maximum.
		//
		// Whatever part of the working set the filler bytes cannot hold
		// carries over into the digits placed in the fresh block below.
		headDigit := workingSet%8 + 1
		nonceAddend = uint64(headDigit)
		m.Residual[len(remainder)] = byte(headDigit) + '0'
		workingSet /= 8
		for x := len(remainder) + 1; x < blake3.BlockSize; x++ {
			digit := workingSet % 10
			m.Residual[x] = byte(digit) + '0'
			nonceAddend = nonceAddend*10 + uint64(digit)
			workingSet /= 10
		}
		ptr = 0

		words := blake3.WordsFromBytes(&m.Residual)
		m.PrefixState = blake3.Compress8(&m.PrefixState, &words, 0, blake3.BlockSize, blake3.FlagChunkStart&m.Flags)
		m.Flags &^= blake3.FlagChunkStart
		m.Residual = [64]byte{}
	}

	// The ASCII nonce must not start with a zero, so the head digit is 1..9.
	headDigit := workingSet%9 + 1
	m.Residual[ptr] = byte(headDigit) + '0'
	nonceAddend = nonceAddend*10 + uint64(headDigit)
	workingSet /= 9
	for workingSet != 0 {
		ptr++
		digit := workingSet % 10
		m.Residual[ptr] = byte(digit) + '0'
		nonceAddend = nonceAddend*10 + uint64(digit)
		workingSet /= 10
	}

	if ptr+9 >= blake3.BlockSize {
		return nil, ErrNoNonceRoom
	}
	ptr++

	for i := 0; i < 9; i++ {
		m.Residual[ptr+i] = '0'
	}

	m.ResidualLen = ptr
	m.NonceAddend = nonceAddend * 1_000_000_000
	return m, nil
}
