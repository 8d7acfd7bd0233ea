package bigfloat

// round.go implements the rounding engine spec §4.F describes,
// generalizing the Go-zh-go.old draft math/big.Float.round method (see
// float.go's history) from its two built-in modes out to the full set
// of seven spec §2 rounding modes, and splitting the bit-counting and
// rounding-decision logic out of the Float type itself so BigFloat and
// the Ziv-loop transcendental code (transcend.go) share it. BigDecimal
// rounds decimal digits with its own routines in decimal.go and takes
// only expOverflowToInf and Flags.expRange from here.

// normalizeAndRound takes a normalized mantissa (msb of the top limb
// set, or empty for zero), its binary exponent, and a sticky bit
// summarizing any bits already discarded below mant's current
// precision, and rounds it down to prec bits according to flags.Mode,
// applying the spec §4.F exponent-range bounds check (step 3) and
// subnormal handling (step 6) described by flags.ExpBits/SubnormalOK.
//
// It returns the rounded mantissa, the (possibly adjusted) exponent, a
// Status with Inexact/Overflow/Underflow set as appropriate, and two
// booleans telling the caller (BigFloat.round) to
// materialize the result as infinity or as a signed zero instead of
// using the returned (mant, exp) pair directly — round.go has no
// mantissa/exponent encoding for those two special values itself.
func normalizeAndRound(mant nat, exp int64, neg bool, prec uint, flags Flags, sbit uint) (outMant nat, outExp int64, status Status, overflowInf bool, underflowZero bool) {
	if len(mant) == 0 {
		return mant, 0, 0, false, false
	}
	if err := flags.validate(); err != nil {
		return mant, exp, InvalidOp, false, false
	}

	effPrec := prec
	subnormal := false
	expMin, expMax, bounded := flags.expRange()
	if bounded && exp < expMin {
		if !flags.SubnormalOK {
			return nat{}, 0, Underflow | Inexact, false, true
		}
		lost := uint(expMin - exp)
		if lost >= prec {
			effPrec = 0
		} else {
			effPrec = prec - lost
		}
		subnormal = true
	}

	mant2, exp2, rstatus := roundMantissa(mant, exp, neg, effPrec, flags.Mode, sbit)
	status = rstatus

	if len(mant2) == 0 {
		if subnormal {
			return nat{}, 0, status | Underflow | Inexact, false, true
		}
		return mant2, exp2, status, false, false
	}

	if bounded && exp2 > expMax {
		if expOverflowToInf(flags.Mode, neg) {
			return nil, 0, status | Overflow | Inexact, true, false
		}
		return maxFiniteMant(prec), expMax, status | Overflow | Inexact, false, false
	}

	if subnormal {
		status |= Underflow
	}
	return mant2, exp2, status, false, false
}

// expOverflowToInf reports whether a magnitude overflowing the
// exponent range under mode rounds to an infinity (true) or clamps to
// the largest finite representable magnitude (false), following the
// directed-rounding table spec §4.F step 3 describes.
func expOverflowToInf(mode RoundingMode, neg bool) bool {
	switch mode {
	case RNDZ:
		return false
	case RNDU:
		return !neg
	case RNDD:
		return neg
	default:
		return true
	}
}

// maxFiniteMant returns the largest normalized mantissa representable
// at prec bits (all mantissa bits set, msb of the top limb included),
// used as the clamp target when a directed rounding mode overflows
// away from infinity.
func maxFiniteMant(prec uint) nat {
	n := int((prec + 63) / 64)
	out := natMake(n)
	for i := range out {
		out[i] = ^uint64(0)
	}
	t := uint(n)*64 - prec
	if t > 0 && t < 64 {
		out[0] &^= uint64(1)<<t - 1
	}
	return out.norm().make(n)
}

// roundMantissa is normalizeAndRound's original bit-rounding core
// (prec-bit truncation plus mode's round/sticky decision), kept
// separate so the exponent-range and subnormal logic above can re-run
// it at a narrowed effective precision without duplicating the
// truncation arithmetic.
func roundMantissa(mant nat, exp int64, neg bool, prec uint, mode RoundingMode, sbit uint) (nat, int64, Status) {
	if len(mant) == 0 {
		return mant, 0, 0
	}

	bitsAvail := uint(len(mant)) * 64
	if bitsAvail == prec {
		return mant, exp, 0
	}

	n := int((prec + 63) / 64)
	if bitsAvail < prec {
		// mantissa has fewer bits than prec: zero-extend, exact.
		out := natMake(n)
		out.clear()
		copy(out[n-len(mant):], mant)
		return out, exp, 0
	}

	// bitsAvail > prec: genuine rounding.
	r := bitsAvail - prec - 1
	rbit := mant.bit(r)
	if sbit == 0 {
		sbit = mant.sticky(r)
	}

	roundUp := decideRoundUp(mode, neg, mant, r, rbit, sbit)

	// truncate to the top n limbs.
	m := len(mant)
	out := natMake(n)
	copy(out, mant[m-n:])

	t := uint(n)*64 - prec
	lsb := uint64(1) << t

	var status Status
	if rbit|sbit != 0 {
		status = Inexact
	}

	if roundUp {
		one := natMake(1)
		one[0] = lsb
		sum := out.add(out, one)
		if len(sum) > n {
			// overflow: mantissa became a power of two one bit too
			// wide; shift right and bump the exponent.
			sum = sum.shr(sum, 1)
			sum = sum.make(n)
			sum[n-1] |= 1 << 63
			exp++
		}
		out = sum.make(n)
	}
	out[0] &^= lsb - 1
	return out.norm().make(n), exp, status
}

// decideRoundUp applies the spec §2 rounding-mode table to the
// (rbit, sbit) pair extracted at the cut point, the same truth table
// Go-zh-go.old's Float.round used for its two modes, extended to all
// seven.
func decideRoundUp(mode RoundingMode, neg bool, mant nat, r uint, rbit, sbit uint) bool {
	switch mode {
	case RNDZ, RNDF:
		return false
	case RNDA:
		return rbit|sbit != 0
	case RNDD:
		return neg && rbit|sbit != 0
	case RNDU:
		return !neg && rbit|sbit != 0
	case RNDN:
		if rbit == 0 {
			return false
		}
		if sbit == 1 {
			return true
		}
		// exact tie: round to even, i.e. up iff the bit that will become
		// the result's new lsb (the bit immediately above the rounding
		// bit) is currently 1.
		return mant.bit(r+1) != 0
	case RNDNA:
		if rbit == 0 {
			return false
		}
		return true
	default:
		return false
	}
}

// canRound reports whether the mantissa mant, known accurate to
// workingPrec bits (i.e. off from the true value by less than one ulp
// at that precision), carries enough bits to decide how it would round
// to targetPrec bits under mode without ambiguity. This is the
// fence-pattern test (bf_can_round in the reference design) that
// drives the Ziv loop in transcend.go: a run of all-zero or all-one
// bits straddling the rounding point means the true value might be
// just past a rounding boundary that the current working precision
// can't resolve, so the caller should retry at higher precision.
func canRound(mant nat, workingPrec, targetPrec uint, mode RoundingMode) bool {
	if mode == RNDF {
		// faithful rounding never needs a retry: any value within one
		// ulp of the true result is an acceptable answer.
		return true
	}
	if workingPrec <= targetPrec {
		return false
	}
	bitsAvail := uint(len(mant)) * 64
	if bitsAvail < workingPrec {
		return false
	}
	margin := workingPrec - targetPrec
	if margin < 2 {
		return false
	}

	// Inspect the `margin` bits directly below the target rounding
	// point: if they are all 0 or all 1, the error bound (less than one
	// ulp at workingPrec) could still flip the rounding decision, so
	// higher precision is required.
	hi := bitsAvail - targetPrec
	lo := hi - margin
	allZero := true
	allOne := true
	for i := lo; i < hi; i++ {
		if mant.bit(i) == 0 {
			allOne = false
		} else {
			allZero = false
		}
		if !allZero && !allOne {
			return true
		}
	}
	return false
}
