// Package solver implements the Cerberus proof-of-work search: find a
// decimal nonce whose ASCII form, appended to a challenge prefix, yields a
// BLAKE3 hash with enough leading zero dibits.
package solver

import (
	"errors"
	"math/bits"
)

// Progress is called periodically during a search with the number of
// additional hash attempts made since the last call. Counts are rounded to
// the report period and must be treated as best-effort statistics.
type Progress func(delta uint32)

// Solver searches the nonce space of one message instance.
type Solver interface {
	// SetReportSlot assigns this worker's phase within the report period,
	// so concurrent workers fire their progress callbacks staggered.
	SetReportSlot(tid, threads uint32)

	// Solve returns the first nonce (in this solver's enumeration order)
	// whose hash satisfies mask, together with the full eight-word hash.
	// ok is false when the instance's nonce space is exhausted; the caller
	// may then advance the working set and build a new instance.
	Solve(mask uint32, progress Progress) (nonce uint64, hash [8]uint32, ok bool)
}

var (
	// ErrPrefixTooLong is returned for prefixes over MaxPrefixLen bytes,
	// which would require BLAKE3 tree mode.
	ErrPrefixTooLong = errors.New("solver: prefix too long")

	// ErrNoNonceRoom is returned when the residual block cannot hold the
	// nine nonce digits.
	ErrNoNonceRoom = errors.New("solver: no room for nonce in residual block")

	// ErrInvalidDifficulty is returned for difficulty factors outside 1..16.
	ErrInvalidDifficulty = errors.New("solver: difficulty factor must be in 1..16")

	// ErrWorkingSetExhausted is returned when the 32-bit working-set
	// counter overflows before a solution is found. Not expected to fire
	// for any realistic difficulty.
	ErrWorkingSetExhausted = errors.New("solver: working set exhausted")
)

// MaxPrefixLen is the longest accepted challenge prefix. Tree-based hashing
// kicks in at 1024 bytes of input; this leaves headroom for the nonce.
const MaxPrefixLen = 1000

// ComputeMask derives the first-word success mask for a difficulty factor.
// Cerberus compares the hash as a big-endian integer while BLAKE3 emits
// little-endian words, hence the byte swap. The success predicate is
// hashWord0 & mask == 0.
func ComputeMask(difficultyFactor uint8) (uint32, error) {
	if difficultyFactor < 1 || difficultyFactor > 16 {
		return 0, ErrInvalidDifficulty
	}
	if difficultyFactor == 16 {
		return ^uint32(0), nil
	}
	return bits.ReverseBytes32(^(^uint32(0) >> (difficultyFactor * 2))), nil
}
