package blake3

// Vec4 is a four-lane vector of 32-bit words. Each solver lane evaluates
// one nonce candidate; the layout matches a 128-bit SIMD register so the
// per-lane loops below vectorize cleanly.
type Vec4 [4]uint32

// Splat broadcasts a scalar word into all four lanes.
func Splat(x uint32) Vec4 {
	return Vec4{x, x, x, x}
}

// Or returns the lane-wise OR of two vectors.
func (v Vec4) Or(o Vec4) Vec4 {
	return Vec4{v[0] | o[0], v[1] | o[1], v[2] | o[2], v[3] | o[3]}
}

// And returns the lane-wise AND of two vectors.
func (v Vec4) And(o Vec4) Vec4 {
	return Vec4{v[0] & o[0], v[1] & o[1], v[2] & o[2], v[3] & o[3]}
}

// Shr shifts every lane right by k bits.
func (v Vec4) Shr(k uint) Vec4 {
	return Vec4{v[0] >> k, v[1] >> k, v[2] >> k, v[3] >> k}
}

// g4 mixes one column or diagonal across all four lanes.
func g4(va, vb, vc, vd *Vec4, x, y Vec4) {
	for l := 0; l < 4; l++ {
		va[l] = va[l] + vb[l] + x[l]
		vd[l] = rotr(vd[l]^va[l], 16)
		vc[l] = vc[l] + vd[l]
		vb[l] = rotr(vb[l]^vc[l], 12)
		va[l] = va[l] + vb[l] + y[l]
		vd[l] = rotr(vd[l]^va[l], 8)
		vc[l] = vc[l] + vd[l]
		vb[l] = rotr(vb[l]^vc[l], 7)
	}
}

// g4AOnly is the front half of g4: it finishes the a lane and leaves b, c
// and d mid-mix. Valid only when nothing downstream reads them again.
func g4AOnly(va, vb, vc, vd *Vec4, x, y Vec4) {
	for l := 0; l < 4; l++ {
		va[l] = va[l] + vb[l] + x[l]
		vd[l] = rotr(vd[l]^va[l], 16)
		vc[l] = vc[l] + vd[l]
		vb[l] = rotr(vb[l]^vc[l], 12)
		va[l] = va[l] + vb[l] + y[l]
	}
}

// QuadState broadcasts a prepared 16-word state into four lanes.
func QuadState(prepared *[16]uint32) [16]Vec4 {
	var v [16]Vec4
	for i := range v {
		v[i] = Splat(prepared[i])
	}
	return v
}

// CompressQuadReduced runs the seven BLAKE3 rounds over four lanes at once
// and produces only the first output word, left in v[0].
//
// Message operands come from blockTemplate, broadcast to all lanes, except
// that schedule positions equal to patchIdx read the per-lane patch vector.
//
// constWords round-0 elision: the state must come from IngestMessagePrefix
// with the same count, which has already executed the G calls covered by
// the leading constWords template words; those calls are skipped here.
//
// Terminal round truncation: only v[0] ^ v[8] is produced, so round-6 calls
// that feed neither word are dropped and the (0,5,10,15) diagonal runs in
// its a-only form.
func CompressQuadReduced(v *[16]Vec4, blockTemplate *[16]uint32, patch Vec4, constWords, patchIdx int) {
	for i := 0; i < 7; i++ {
		s := &MessageSchedule[i]
		m := func(pos int) Vec4 {
			if s[pos] == patchIdx {
				return patch
			}
			return Splat(blockTemplate[s[pos]])
		}

		if i > 0 || constWords < 2 {
			g4(&v[0], &v[4], &v[8], &v[12], m(0), m(1))
		}
		if i > 0 || constWords < 4 {
			g4(&v[1], &v[5], &v[9], &v[13], m(2), m(3))
		}
		if i > 0 || constWords < 6 {
			g4(&v[2], &v[6], &v[10], &v[14], m(4), m(5))
		}
		if i > 0 || constWords < 8 {
			g4(&v[3], &v[7], &v[11], &v[15], m(6), m(7))
		}
		if i > 0 || constWords < 10 {
			if i < 6 {
				g4(&v[0], &v[5], &v[10], &v[15], m(8), m(9))
			} else {
				g4AOnly(&v[0], &v[5], &v[10], &v[15], m(8), m(9))
			}
		}
		if i < 6 && (i > 0 || constWords < 12) {
			g4(&v[1], &v[6], &v[11], &v[12], m(10), m(11))
		}
		if i > 0 || constWords < 14 {
			g4(&v[2], &v[7], &v[8], &v[13], m(12), m(13))
		}
		if i < 6 && (i > 0 || constWords < 16) {
			g4(&v[3], &v[4], &v[9], &v[14], m(14), m(15))
		}
	}

	v[0] = Vec4{v[0][0] ^ v[8][0], v[0][1] ^ v[8][1], v[0][2] ^ v[8][2], v[0][3] ^ v[8][3]}
}
