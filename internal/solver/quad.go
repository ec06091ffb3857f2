package solver

import (
	"github.com/sjtug/cerberus-solver/internal/blake3"
)

// laneIDWords holds the 1000 pre-packed lane-ID words: entry i carries the
// three ASCII decimal digits of i in its high three bytes (ones digit
// highest), low byte zero. Consumed four entries at a time, one per lane.
var laneIDWords = buildLaneIDWords()

func buildLaneIDWords() [1000]uint32 {
	var out [1000]uint32
	for i := 0; i < 1000; i++ {
		c := i
		var w uint32
		for j := 0; j < 3; j++ {
			w |= uint32(byte(c%10)+'0') << (8 * uint(3-j))
			c /= 10
		}
		out[i] = w
	}
	return out
}

// OuterLoopPeriod is the center-word stride between progress callbacks.
const OuterLoopPeriod = 64

// QuadReportPeriod is the attempt count reported per progress callback of
// the quad solver: one full lane-table sweep per center word, 64 words.
const QuadReportPeriod = uint32(len(laneIDWords)) * OuterLoopPeriod

// QuadSolver searches four candidates per compression. Nine nonce digits
// are split into a four-digit center word, a three-digit lane-ID word, and
// two residual digits in the outermost loop, so most of the block template
// stays constant and the corresponding mixing is hoisted or elided.
type QuadSolver struct {
	message    *Message
	reportSlot uint32
}

// NewQuadSolver wraps a message instance.
func NewQuadSolver(m *Message) *QuadSolver {
	return &QuadSolver{message: m}
}

// SetReportSlot implements Solver.
func (s *QuadSolver) SetReportSlot(tid, threads uint32) {
	s.reportSlot = tid * OuterLoopPeriod / threads
}

// solveRange runs the center-word × lane-table search over one residual
// configuration. It returns the matching center word and the global lane
// index (table entry) on success.
func (s *QuadSolver) solveRange(msgTpl *[16]uint32, centerIdx, laneIdx, constWords int, mask uint32, progress Progress) (uint32, uint32, bool) {
	// Only words up to centerIdx+1 can hold suffix or nonce digits; build
	// the working template from a zeroed block so every later word is zero.
	var msg [16]uint32
	copy(msg[:centerIdx+2], msgTpl[:centerIdx+2])

	prepared := blake3.IngestMessagePrefix(
		&s.message.PrefixState,
		msg[:constWords],
		0,
		uint32(s.message.ResidualLen)+9,
		s.message.Flags,
	)

	maskVec := blake3.Splat(mask)

	for word := uint32(0); word < 10000; word++ {
		msg[centerIdx] = uint32(byte(word%10)+'0')<<24 |
			uint32(byte(word/10%10)+'0')<<16 |
			uint32(byte(word/100%10)+'0')<<8 |
			uint32(byte(word/1000%10)+'0')

		for li := 0; li < len(laneIDWords)/4; li++ {
			laneID := blake3.Vec4{
				laneIDWords[li*4], laneIDWords[li*4+1],
				laneIDWords[li*4+2], laneIDWords[li*4+3],
			}
			if centerIdx < laneIdx {
				laneID = laneID.Shr(8)
			}

			v := blake3.QuadState(&prepared)
			patch := blake3.Splat(msg[laneIdx]).Or(laneID)
			blake3.CompressQuadReduced(&v, &msg, patch, constWords, laneIdx)

			masked := v[0].And(maskVec)
			for lane := 0; lane < 4; lane++ {
				if masked[lane] == 0 {
					return word, uint32(li*4 + lane), true
				}
			}
		}

		if word%OuterLoopPeriod == s.reportSlot && progress != nil {
			progress(QuadReportPeriod)
		}
	}
	return 0, 0, false
}

// Solve implements Solver.
//
// Digit layout by residual length mod 4 (N = known-zero pad, ? = suffix):
//
//	0: |1234|5678|NNN9
//	1: |123?|4567|NN89
//	2: |12??|3456|N789
//	3: |1???|2345|6789
func (s *QuadSolver) Solve(mask uint32, progress Progress) (uint64, [8]uint32, bool) {
	residualLen := s.message.ResidualLen
	centerIdx := residualLen/4 + 1
	positionMod := residualLen % 4

	laneIdx := centerIdx + 1
	constWords := centerIdx
	if positionMod < 2 {
		laneIdx = centerIdx - 1
		constWords = centerIdx - 1
	}

	for resid0 := uint32(0); resid0 < 10; resid0++ {
		for resid1 := uint32(0); resid1 < 10; resid1++ {
			block := s.message.Residual

			switch positionMod {
			case 0:
				block[residualLen] = byte(resid0) + '0'
				block[residualLen+8] = byte(resid1) + '0'
			case 1:
				block[residualLen+7] = byte(resid0) + '0'
				block[residualLen+8] = byte(resid1) + '0'
			case 2:
				block[residualLen] = byte(resid0) + '0'
				block[residualLen+1] = byte(resid1) + '0'
			case 3:
				block[residualLen] = byte(resid0) + '0'
				block[residualLen+8] = byte(resid1) + '0'
			}

			msgTpl := blake3.WordsFromBytes(&block)

			word, laneID, ok := s.solveRange(&msgTpl, centerIdx, laneIdx, constWords, mask, progress)
			if !ok {
				continue
			}

			var outputNonce uint32
			switch positionMod {
			case 0:
				outputNonce = 10*word + 100_000*laneID + 100_000_000*resid0 + resid1
			case 1:
				outputNonce = 100*word + 1_000_000*laneID + 10*resid0 + resid1
			case 2:
				outputNonce = 1000*word + laneID + 100_000_000*resid0 + 10_000_000*resid1
			case 3:
				outputNonce = 10_000*word + 10*laneID + 100_000_000*resid0 + resid1
			}

			nonce := uint64(outputNonce) + s.message.NonceAddend

			// Recompute the full eight-word hash for the winning nonce.
			final := s.message.Residual
			nonceCopy := nonce
			for i := 8; i >= 0; i-- {
				final[residualLen+i] = byte(nonceCopy%10) + '0'
				nonceCopy /= 10
			}
			finalWords := blake3.WordsFromBytes(&final)
			hash := blake3.Compress8(&s.message.PrefixState, &finalWords, 0, uint32(residualLen)+9, s.message.Flags)

			return nonce, hash, true
		}
	}

	return 0, [8]uint32{}, false
}
