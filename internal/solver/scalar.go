package solver

import (
	"github.com/sjtug/cerberus-solver/internal/blake3"
)

// ScalarReportPeriod is how many attempts the scalar solver makes between
// progress callbacks.
const ScalarReportPeriod = 16384

// ScalarSolver is the straightforward fallback: one full compression per
// candidate nonce, no state reuse beyond the absorbed prefix.
type ScalarSolver struct {
	message         *Message
	attemptedNonces uint32
	reportSlot      uint32
}

// NewScalarSolver wraps a message instance.
func NewScalarSolver(m *Message) *ScalarSolver {
	return &ScalarSolver{message: m}
}

// SetReportSlot implements Solver.
func (s *ScalarSolver) SetReportSlot(tid, threads uint32) {
	s.reportSlot = tid * ScalarReportPeriod / threads
}

// setDigit places an ASCII digit at byte position pos of the block's
// little-endian word view. Expressed as word arithmetic so the layout is
// the same on every host.
func setDigit(words *[16]uint32, pos int, digit byte) {
	shift := uint(pos%4) * 8
	words[pos/4] = words[pos/4]&^(0xff<<shift) | uint32(digit)<<shift
}

// Solve implements Solver, enumerating the 32-bit nonce range in order.
func (s *ScalarSolver) Solve(mask uint32, progress Progress) (uint64, [8]uint32, bool) {
	msg := blake3.WordsFromBytes(&s.message.Residual)
	if s.message.ResidualLen+9 > len(s.message.Residual) {
		// NewMessage guarantees nine bytes of headroom.
		return 0, [8]uint32{}, false
	}

	for nonce := uint32(0); nonce < ^uint32(0); nonce++ {
		nonceCopy := nonce
		for i := 8; i >= 0; i-- {
			setDigit(&msg, s.message.ResidualLen+i, byte(nonceCopy%10)+'0')
			nonceCopy /= 10
		}

		hash := blake3.Compress8(&s.message.PrefixState, &msg, 0, uint32(s.message.ResidualLen)+9, s.message.Flags)
		s.attemptedNonces++
		if s.attemptedNonces%ScalarReportPeriod == s.reportSlot && progress != nil {
			progress(ScalarReportPeriod)
		}
		if hash[0]&mask == 0 {
			return uint64(nonce) + s.message.NonceAddend, hash, true
		}
	}

	return 0, [8]uint32{}, false
}
