// Package verify cross-checks solver output against an independent BLAKE3
// implementation.
package verify

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/sjtug/cerberus-solver/internal/solver"
)

// Solution recomputes BLAKE3(prefix || ascii(nonce)) with a reference
// hasher and checks both the difficulty predicate and the reported hash.
func Solution(prefix string, nonce uint64, hash [8]uint32, difficultyFactor uint8) error {
	mask, err := solver.ComputeMask(difficultyFactor)
	if err != nil {
		return err
	}

	h := blake3.New()
	h.Write([]byte(prefix))
	h.Write([]byte(strconv.FormatUint(nonce, 10)))
	digest := h.Sum(nil)

	var ref [8]uint32
	for i := range ref {
		ref[i] = binary.LittleEndian.Uint32(digest[i*4:])
	}

	if ref != hash {
		return fmt.Errorf("verify: hash mismatch for nonce %d", nonce)
	}
	if ref[0]&mask != 0 {
		return fmt.Errorf("verify: hash does not meet difficulty %d", difficultyFactor)
	}
	return nil
}
