package bigfloat

import "math/bits"

// decBase is B = 10^19, the largest power of ten that fits a uint64
// limb with headroom for carry arithmetic (spec §3, §4.B: "base
// B = 10^19 with a precomputed ... fast reduction").
const decBase uint64 = 10000000000000000000 // 10^19

const decDigitsPerLimb = 19

// decNat mirrors nat but in base 10^19: a little-endian slice of
// decimal limbs. It is the decimal counterpart of spec §4.B's limb
// primitives, used by BigDecimal (component H) instead of BigFloat's
// binary nat.
type decNat []uint64

func (z decNat) norm() decNat {
	i := len(z)
	for i > 0 && z[i-1] == 0 {
		i--
	}
	return z[:i]
}

func decNatMake(n int) decNat { return make(decNat, n) }

func (z decNat) make(n int) decNat {
	if n <= cap(z) {
		return z[:n]
	}
	const e = 4
	return make(decNat, n, n+e)
}

func (z decNat) set(x decNat) decNat {
	z = z.make(len(x))
	copy(z, x)
	return z
}

func (z decNat) setUint64(x uint64) decNat {
	if x == 0 {
		return z[:0]
	}
	if x < decBase {
		z = z.make(1)
		z[0] = x
		return z
	}
	z = z.make(2)
	z[0] = x % decBase
	z[1] = x / decBase
	return z.norm()
}

func (x decNat) cmp(y decNat) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (z decNat) add(x, y decNat) decNat {
	m, n := len(x), len(y)
	if m < n {
		return z.add(y, x)
	}
	z = z.make(m + 1)
	var c uint64
	for i := 0; i < n; i++ {
		s, c1 := bits.Add64(x[i], y[i], c)
		c = 0
		if c1 != 0 || s >= decBase {
			s -= decBase
			c = 1
		}
		z[i] = s
	}
	for i := n; i < m; i++ {
		s := x[i] + c
		c = 0
		if s >= decBase {
			s -= decBase
			c = 1
		}
		z[i] = s
	}
	z[m] = c
	return z.norm()
}

// sub computes x - y; requires x >= y.
func (z decNat) sub(x, y decNat) decNat {
	m, n := len(x), len(y)
	if m < n {
		panic("bigfloat: decNat.sub underflow")
	}
	z = z.make(m)
	var borrow uint64
	for i := 0; i < n; i++ {
		b := borrow
		d := x[i] - y[i] - b
		borrow = 0
		if x[i] < y[i]+b {
			d += decBase
			borrow = 1
		}
		z[i] = d
	}
	for i := n; i < m; i++ {
		b := borrow
		d := x[i] - b
		borrow = 0
		if x[i] < b {
			d += decBase
			borrow = 1
		}
		z[i] = d
	}
	if borrow != 0 {
		panic("bigfloat: decNat.sub underflow")
	}
	return z.norm()
}

// mulAddWW computes z = x*y + r for a single decimal-limb multiplier y
// and addend r, using a 128-bit intermediate (bits.Mul64/Div64) since
// decBase*decBase overflows 64 bits. Mirrors nat.mulAddWW.
func (z decNat) mulAddWW(x decNat, y, r uint64) decNat {
	z = z.make(len(x) + 1)
	c := r
	for i, xi := range x {
		hi, lo := bits.Mul64(xi, y)
		// add c into (hi:lo)
		var cc uint64
		lo, cc = bits.Add64(lo, c, 0)
		hi += cc
		// reduce (hi:lo) mod decBase, carry = quotient
		q, rem := bits.Div64(hi, lo, decBase)
		z[i] = rem
		c = q
	}
	z[len(x)] = c
	return z.norm()
}

func (z decNat) mul(x, y decNat) decNat {
	x = x.norm()
	y = y.norm()
	if len(x) == 0 || len(y) == 0 {
		return z[:0]
	}
	out := decNatMake(len(x) + len(y))
	for i, yi := range y {
		if yi == 0 {
			continue
		}
		carry := decNatMulAddRow(out[i:i+len(x)+1], x, yi)
		_ = carry
	}
	return out.norm()
}

// decNatMulAddRow computes dst += x*y (single limb y, dst pre-sized to
// len(x)+1) with decimal-base carry propagation, returning the final
// carry (always absorbed into dst's extra limb, so the return value is
// informational only).
func decNatMulAddRow(dst, x decNat, y uint64) uint64 {
	var c uint64
	for i, xi := range x {
		hi, lo := bits.Mul64(xi, y)
		var cc uint64
		lo, cc = bits.Add64(lo, c, 0)
		hi += cc
		lo, cc = bits.Add64(lo, dst[i], 0)
		hi += cc
		q, rem := bits.Div64(hi, lo, decBase)
		dst[i] = rem
		c = q
	}
	dst[len(x)] += c
	return c
}

func (z decNat) divW(x decNat, y uint64) (q decNat, r uint64) {
	x = x.norm()
	q = z.make(len(x))
	for i := len(x) - 1; i >= 0; i-- {
		// (r*decBase + x[i]) / y, computed via 128-bit division
		hi, lo := bits.Mul64(r, decBase)
		lo2, c := bits.Add64(lo, x[i], 0)
		hi += c
		q[i], r = bits.Div64(hi, lo2, y)
	}
	return q.norm(), r
}

// divByPow10 divides x by 10^cut, returning quotient and remainder. Since
// each decNat limb holds exactly decDigitsPerLimb decimal digits, dropping
// whole limbs from the bottom is itself exact division by a power of
// 10^decDigitsPerLimb; only the within-limb remainder (cut %
// decDigitsPerLimb digits) needs an actual single-limb division
// (divW), so this stays fast regardless of how many digits cut spans.
func (z decNat) divByPow10(x decNat, cut uint) (q, r decNat) {
	x = x.norm()
	if cut == 0 {
		return x, decNatMake(0)
	}
	wholeLimbs := int(cut / decDigitsPerLimb)
	sub := int(cut % decDigitsPerLimb)
	if wholeLimbs >= len(x) {
		return decNatMake(0), x
	}

	rLow := decNatMake(wholeLimbs)
	copy(rLow, x[:wholeLimbs])
	top := decNatMake(len(x) - wholeLimbs)
	copy(top, x[wholeLimbs:])

	if sub == 0 {
		return top.norm(), rLow.norm()
	}

	divisor := uint64(1)
	for i := 0; i < sub; i++ {
		divisor *= 10
	}
	qTop, rTop := decNatMake(0).divW(top, divisor)
	rFull := decNatMake(wholeLimbs + 1)
	copy(rFull, rLow)
	rFull[wholeLimbs] = rTop
	return qTop.norm(), rFull.norm()
}

// div divides x by y (y nonzero) and returns the quotient and
// remainder, dispatching to the fast single-limb divW path when y fits
// one decimal limb and to divGeneral's long division otherwise. This
// mirrors nat.div's single-limb/multi-limb dispatch in divide.go, one
// limb size up: decBase's digit-sized remainder estimation makes a
// Knuth-style two-limb qhat guess imprecise (a decimal digit's
// trial quotient can be off by more than the usual +1/-1 correction
// window), so divGeneral instead finds each whole quotient limb by
// binary search over [0, decBase) against y, using decNat.mul/.cmp — slower
// per limb than Knuth's limb-at-a-time estimate-and-correct, but
// simple enough to get right without a compiler to check it against.
func (z decNat) div(x, y decNat) (q, r decNat) {
	y = y.norm()
	if len(y) == 0 {
		panic("bigfloat: decNat division by zero")
	}
	if len(y) == 1 {
		qq, rr := decNatMake(0).divW(x, y[0])
		return qq, decNatMake(1).setUint64(rr)
	}
	return decNatMake(0).divGeneral(x, y)
}

// divGeneral implements long division of x by a multi-limb y one
// decimal limb of quotient at a time: at each step the running
// remainder is shifted up by one decimal limb (i.e. multiplied by
// decBase) and the next limb of x is folded in, then the largest
// digit d in [0, decBase) with d*y <= remainder is located by binary
// search and remainder -= d*y. This is the schoolbook long-division
// algorithm generalized from single decimal digits to whole decBase
// "digits", grounded on nat.div's limb-at-a-time structure in
// divide.go but substituting search-for-the-quotient-limb for Knuth's
// direct estimate since decBase isn't a binary power.
func (z decNat) divGeneral(x, y decNat) (q, r decNat) {
	x = x.norm()
	y = y.norm()
	if x.cmp(y) < 0 {
		return decNatMake(0), x
	}

	rem := decNatMake(0)
	qDigits := make([]uint64, len(x))
	for i := len(x) - 1; i >= 0; i-- {
		shifted := decNatMake(len(rem) + 1)
		copy(shifted[1:], rem)
		shifted[0] = x[i]
		rem = shifted.norm()

		lo, hi := uint64(0), decBase-1
		for lo < hi {
			mid := lo + (hi-lo+1)/2
			prod := decNatMake(0).mul(y, decNatMake(1).setUint64(mid))
			if prod.cmp(rem) <= 0 {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		qDigits[i] = lo
		if lo > 0 {
			prod := decNatMake(0).mul(y, decNatMake(1).setUint64(lo))
			rem = decNatMake(0).sub(rem, prod)
		}
	}
	return decNat(qDigits).norm(), rem.norm()
}

// digitsLen returns the exact number of base-10 digits in x (0 for x == 0).
func (x decNat) digitsLen() int {
	x = x.norm()
	if len(x) == 0 {
		return 0
	}
	n := (len(x) - 1) * decDigitsPerLimb
	top := x[len(x)-1]
	for top > 0 {
		n++
		top /= 10
	}
	return n
}

// digitAt returns the i'th decimal digit of x (0 = least significant).
func (x decNat) digitAt(i int) uint {
	limb := i / decDigitsPerLimb
	if limb >= len(x) {
		return 0
	}
	pos := i % decDigitsPerLimb
	v := x[limb]
	for k := 0; k < pos; k++ {
		v /= 10
	}
	return uint(v % 10)
}

// stickyFrom reports whether any decimal digit below position i (i.e.
// digits [0, i)) of x is nonzero — the decimal analogue of nat.sticky.
func (x decNat) stickyFrom(i int) uint {
	for k := 0; k < i; k++ {
		if x.digitAt(k) != 0 {
			return 1
		}
	}
	return 0
}
