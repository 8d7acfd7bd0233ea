// This file implements arbitrary-precision binary floating-point
// numbers, reworking the Go-zh-go.old math/big draft's Float type
// (sign, normalized mantissa nat, binary exponent, precision) into the
// Context-driven, multi-rounding-mode BigFloat spec §4.G describes.
// Unlike the draft this is lifted from, precision and rounding mode
// are supplied per-operation by the caller's Context/Flags rather than
// carried on each operand, mirroring cockroachdb/apd's
// Context.Precision/Context.Rounding split between "what a number is"
// and "how an operation should round".

package bigfloat

import "math"

// expZero, expInf, expNaN are the three reserved exponent sentinels
// spec §1 reserves outside the normal range, mirrored on the binary
// exponent's int64 domain the same way the draft's Float used infExp.
const (
	expZero int64 = 0
	expInf  int64 = math.MaxInt64
	expNaN  int64 = math.MaxInt64 - 1
)

// BigFloat is a multi-precision binary floating-point number of the
// form sign * mantissa * 2^exponent, with 0.5 <= mantissa < 1 except
// for the three special values zero, infinity, and NaN (each carrying
// an empty mantissa and one of the sentinel exponents above).
type BigFloat struct {
	neg  bool
	mant nat
	exp  int64
}

// NewBigFloat returns a new zero-valued BigFloat.
func NewBigFloat() *BigFloat { return new(BigFloat) }

func (z *BigFloat) isSpecial() bool { return len(z.mant) == 0 }

func (z *BigFloat) IsZero() bool { return len(z.mant) == 0 && z.exp == expZero }
func (z *BigFloat) IsInf() bool  { return len(z.mant) == 0 && z.exp == expInf }
func (z *BigFloat) IsNaN() bool  { return len(z.mant) == 0 && z.exp == expNaN }

func (z *BigFloat) Signbit() bool { return z.neg }

// Sign returns -1, 0, +1 for negative, zero, positive x; NaN reports 0.
func (x *BigFloat) Sign() int {
	if x.IsNaN() || x.IsZero() {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

func (z *BigFloat) SetZero(neg bool) *BigFloat {
	z.mant = z.mant[:0]
	z.exp = expZero
	z.neg = neg
	return z
}

func (z *BigFloat) SetInf(neg bool) *BigFloat {
	z.mant = z.mant[:0]
	z.exp = expInf
	z.neg = neg
	return z
}

func (z *BigFloat) SetNaN() *BigFloat {
	z.mant = z.mant[:0]
	z.exp = expNaN
	z.neg = false
	return z
}

// commit assigns res into z, growing z's mantissa buffer through
// ctx's allocator (spec §6's realloc hook). An allocator failure
// turns z into NaN and adds MemError to status, per spec §4.A's
// "assignment that grows the mantissa reallocates; failure to
// reallocate turns the destination into NaN and raises the memory
// flag."
func (z *BigFloat) commit(ctx *Context, res *BigFloat, status Status) Status {
	buf, err := ctx.realloc(nil, len(res.mant))
	if err != nil {
		z.SetNaN()
		return status | MemError
	}
	copy(buf, res.mant)
	z.mant = buf
	z.exp = res.exp
	z.neg = res.neg
	return status
}

// Copy sets z to x and returns z; z and x may be the same value.
func (z *BigFloat) Copy(x *BigFloat) *BigFloat {
	if z != x {
		z.neg = x.neg
		z.exp = x.exp
		z.mant = z.mant.set(x.mant)
	}
	return z
}

// fnorm shifts mantissa m left so its top limb's msb is set, returning
// the shift amount; m must be non-empty.
func fnorm(m nat) uint {
	s := uint(0)
	top := m[len(m)-1]
	for top&(1<<63) == 0 {
		top <<= 1
		s++
	}
	if s > 0 {
		m2 := natMake(0).shl(m, s)
		copy(m, m2)
	}
	return s
}

// SetUint64 sets z to x exactly (no rounding; the mantissa grows to
// fit x).
func (z *BigFloat) SetUint64(x uint64) *BigFloat {
	z.neg = false
	if x == 0 {
		return z.SetZero(false)
	}
	z.mant = z.mant.setUint64(x)
	shift := fnorm(z.mant)
	z.exp = int64(z.mant.bitLen()) // overwritten below
	_ = shift
	z.exp = int64(64*len(z.mant)) - int64(shift)
	return z
}

func (z *BigFloat) SetInt64(x int64) *BigFloat {
	u := uint64(x)
	neg := x < 0
	if neg {
		u = uint64(-x)
	}
	z.SetUint64(u)
	z.neg = neg
	return z
}

// SetFloat64 sets z to x exactly (a float64's mantissa always fits 53
// bits, well within any useful BigFloat precision).
func (z *BigFloat) SetFloat64(x float64) *BigFloat {
	z.neg = math.Signbit(x)
	if math.IsInf(x, 0) {
		return z.SetInf(z.neg)
	}
	if math.IsNaN(x) {
		return z.SetNaN()
	}
	if x == 0 {
		return z.SetZero(z.neg)
	}
	frac, exp := math.Frexp(x)
	bits := math.Float64bits(math.Abs(frac))
	mantBits := bits&((1<<52)-1) | (1 << 52)
	z.mant = z.mant.setUint64(mantBits << 11) // shift into a 64-bit normalized form
	fnorm(z.mant)
	z.exp = int64(exp)
	return z
}

// SetBigInt sets z to the exact value of x.
func (z *BigFloat) SetBigInt(x *BigInt) *BigFloat {
	z.neg = x.neg
	if len(x.abs) == 0 {
		return z.SetZero(x.neg)
	}
	z.mant = z.mant.set(x.abs)
	bl := z.mant.bitLen()
	fnorm(z.mant)
	z.exp = int64(bl)
	return z
}

// round applies normalizeAndRound to z's current mantissa/exponent at
// the given precision and flags, updating z in place (possibly turning
// it into an infinity or a signed zero on overflow/underflow) and
// returning the resulting Status.
func (z *BigFloat) round(prec uint, flags Flags, sbit uint) Status {
	if z.isSpecial() {
		return 0
	}
	mant, exp, status, overflowInf, underflowZero := normalizeAndRound(z.mant, z.exp, z.neg, prec, flags, sbit)
	if overflowInf {
		z.SetInf(z.neg)
		return status
	}
	if underflowZero {
		z.SetZero(z.neg)
		return status
	}
	z.mant = mant
	z.exp = exp
	return status
}

// Round sets z to x rounded to prec bits under flags, and returns the
// resulting Status.
func (z *BigFloat) Round(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.isSpecial() {
		z.Copy(x)
		return 0
	}
	res := new(BigFloat).Copy(x)
	status := res.round(prec, flags, 0)
	return z.commit(ctx, res, status)
}

// alignedExp returns the exponent of x's mantissa with the binary
// point placed immediately after the low bit (i.e. the value of x is
// mant * 2^alignedExp when mant is read as a plain integer).
func alignedExp(exp int64, mantLen int) int64 {
	return exp - int64(mantLen)*64
}

// uadd computes |x|+|y| into z at the given precision, ignoring signs;
// x, y must be finite and nonzero.
func uadd(x, y *BigFloat, prec uint, flags Flags) (*BigFloat, Status) {
	ex := alignedExp(x.exp, len(x.mant))
	ey := alignedExp(y.exp, len(y.mant))

	var mant nat
	var exp int64
	switch {
	case ex == ey:
		mant = mant.add(x.mant, y.mant)
		exp = ex
	case ex < ey:
		shifted := natMake(0).shl(y.mant, uint(ey-ex))
		mant = mant.add(x.mant, shifted)
		exp = ex
	default:
		shifted := natMake(0).shl(x.mant, uint(ex-ey))
		mant = mant.add(shifted, y.mant)
		exp = ey
	}
	s := fnorm(mant)
	resExp := exp + int64(len(mant))*64 - int64(s)

	z := &BigFloat{mant: mant, exp: resExp}
	status := z.round(prec, flags, 0)
	return z, status
}

// usub computes |x|-|y| into z at the given precision, ignoring signs;
// requires |x| >= |y|, both finite and nonzero.
func usub(x, y *BigFloat, prec uint, flags Flags) (*BigFloat, Status) {
	ex := alignedExp(x.exp, len(x.mant))
	ey := alignedExp(y.exp, len(y.mant))

	var mant nat
	var exp int64
	switch {
	case ex == ey:
		mant = mant.sub(x.mant, y.mant)
		exp = ex
	case ex < ey:
		shifted := natMake(0).shl(y.mant, uint(ey-ex))
		mant = mant.sub(x.mant, shifted)
		exp = ex
	default:
		shifted := natMake(0).shl(x.mant, uint(ex-ey))
		mant = mant.sub(shifted, y.mant)
		exp = ey
	}
	if len(mant) == 0 {
		z := new(BigFloat).SetZero(flags.Mode == RNDD)
		return z, 0
	}
	s := fnorm(mant)
	resExp := exp + int64(len(mant))*64 - int64(s)
	z := &BigFloat{mant: mant, exp: resExp}
	status := z.round(prec, flags, 0)
	return z, status
}

// ucmp compares |x| and |y|, both finite and nonzero.
func ucmp(x, y *BigFloat) int {
	ex, ey := x.exp, y.exp
	if ex != ey {
		if ex < ey {
			return -1
		}
		return 1
	}
	// compare from the top limb down; a missing low limb counts as zero
	for i, j := len(x.mant)-1, len(y.mant)-1; i >= 0 || j >= 0; i, j = i-1, j-1 {
		var a, b uint64
		if i >= 0 {
			a = x.mant[i]
		}
		if j >= 0 {
			b = y.mant[j]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add sets z to x+y rounded to prec bits under flags and returns the status.
func (z *BigFloat) Add(ctx *Context, x, y *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() || y.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	if x.IsInf() {
		if y.IsInf() && x.neg != y.neg {
			z.SetNaN()
			return InvalidOp
		}
		z.SetInf(x.neg)
		return 0
	}
	if y.IsInf() {
		z.SetInf(y.neg)
		return 0
	}
	if x.IsZero() {
		if y.IsZero() {
			z.SetZero(x.neg && y.neg)
			return 0
		}
		return z.Round(ctx, y, prec, flags)
	}
	if y.IsZero() {
		return z.Round(ctx, x, prec, flags)
	}

	var res *BigFloat
	var status Status
	neg := x.neg
	if x.neg == y.neg {
		res, status = uadd(x, y, prec, flags)
	} else if ucmp(x, y) >= 0 {
		res, status = usub(x, y, prec, flags)
	} else {
		neg = !neg
		res, status = usub(y, x, prec, flags)
	}
	res.neg = neg && !res.IsZero()
	return z.commit(ctx, res, status)
}

// Sub sets z to x-y rounded to prec bits under flags.
func (z *BigFloat) Sub(ctx *Context, x, y *BigFloat, prec uint, flags Flags) Status {
	var negY BigFloat
	negY.Copy(y)
	if !negY.isSpecial() || negY.IsInf() {
		negY.neg = !negY.neg
	}
	return z.Add(ctx, x, &negY, prec, flags)
}

// Neg sets z to -x.
func (z *BigFloat) Neg(x *BigFloat) *BigFloat {
	z.Copy(x)
	z.neg = !z.neg
	return z
}

// Abs sets z to |x|.
func (z *BigFloat) Abs(x *BigFloat) *BigFloat {
	z.Copy(x)
	z.neg = false
	return z
}

// Mul sets z to x*y rounded to prec bits under flags.
func (z *BigFloat) Mul(ctx *Context, x, y *BigFloat, prec uint, flags Flags) Status {
	neg := x.neg != y.neg
	if x.IsNaN() || y.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	if x.IsInf() || y.IsInf() {
		if x.IsZero() || y.IsZero() {
			z.SetNaN()
			return InvalidOp
		}
		z.SetInf(neg)
		return 0
	}
	if x.IsZero() || y.IsZero() {
		z.SetZero(neg)
		return 0
	}

	mant := natMake(0).mul(ctx, x.mant, y.mant)
	s := fnorm(mant)
	exp := x.exp + y.exp - int64(s)

	res := &BigFloat{mant: mant, exp: exp, neg: neg}
	status := res.round(prec, flags, 0)
	return z.commit(ctx, res, status)
}

// Quo sets z to x/y rounded to prec bits under flags.
func (z *BigFloat) Quo(ctx *Context, x, y *BigFloat, prec uint, flags Flags) Status {
	neg := x.neg != y.neg
	if x.IsNaN() || y.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	if y.IsZero() {
		if x.IsZero() {
			z.SetNaN()
			return InvalidOp
		}
		z.SetInf(neg)
		return DivideByZero
	}
	if x.IsInf() {
		if y.IsInf() {
			z.SetNaN()
			return InvalidOp
		}
		z.SetInf(neg)
		return 0
	}
	if y.IsInf() {
		z.SetZero(neg)
		return 0
	}
	if x.IsZero() {
		z.SetZero(neg)
		return 0
	}

	n := int(prec/64) + 2
	xadj := x.mant
	if d := n - len(x.mant) + len(y.mant); d > 0 {
		ext := natMake(len(x.mant) + d)
		copy(ext[d:], x.mant)
		xadj = ext
	}

	q, r := natMake(0).div(ctx, xadj, y.mant)
	s := fnorm(q)
	exp := x.exp - y.exp - int64(len(xadj)-len(y.mant)-len(q))*64 - int64(s)

	var sbit uint
	if len(r) > 0 {
		sbit = 1
	}

	res := &BigFloat{mant: q, exp: exp, neg: neg}
	status := res.round(prec, flags, sbit)
	return z.commit(ctx, res, status)
}

// decideIntRoundUp reports whether the toward-zero-truncated integer
// quotient trunc (parity trackable via truncEven, sign via neg) should
// be bumped one away from zero to produce the integer flags.Mode asks
// for, given the fractional remainder's absolute value compared to one
// half (fracCmpHalf: -1/0/1) — the same round-mode decision table
// decideRoundUp applies at a bit cut point, reapplied at the
// integer/fraction boundary since an integer-valued quotient has no
// mantissa bits below it to inspect directly.
func decideIntRoundUp(mode RoundingMode, neg bool, fracIsZero bool, fracCmpHalf int, truncEven bool) bool {
	if fracIsZero {
		return false
	}
	switch mode {
	case RNDZ, RNDF:
		return false
	case RNDA:
		return true
	case RNDD:
		return neg
	case RNDU:
		return !neg
	case RNDN:
		if fracCmpHalf < 0 {
			return false
		}
		if fracCmpHalf > 0 {
			return true
		}
		return !truncEven
	case RNDNA:
		return fracCmpHalf >= 0
	default:
		return false
	}
}

// DivRem sets q to the integer-valued quotient of x/y, rounded per
// flags.Mode (spec §4.G's "integer-valued quotient with user-supplied
// rounding"), and returns r, the exact remainder x - q*y. This
// library's RoundingMode has no distinct Euclidean variant (unlike
// libbf's BF_RNDE); a caller wanting a always-nonnegative remainder
// gets it from RNDD when y > 0.
func (q *BigFloat) DivRem(ctx *Context, x, y *BigFloat, prec uint, flags Flags) (r *BigFloat, status Status) {
	r = new(BigFloat)
	if x.IsNaN() || y.IsNaN() || (x.IsInf() && y.IsInf()) || y.IsZero() && x.IsZero() {
		q.SetNaN()
		r.SetNaN()
		return r, InvalidOp
	}
	if y.IsZero() {
		q.SetInf(x.neg != y.neg)
		r.SetNaN()
		return r, DivideByZero
	}
	if x.IsInf() {
		q.SetInf(x.neg != y.neg)
		r.SetNaN()
		return r, InvalidOp
	}
	if y.IsInf() || x.IsZero() {
		q.SetZero(x.neg != y.neg)
		r.Copy(x)
		return r, 0
	}

	// compute the exact (or very nearly exact) quotient at a working
	// precision generous enough to resolve its integer part plus guard
	// bits for the fractional comparison below.
	workPrec := prec
	if d := x.exp - y.exp + 1; d > 0 {
		if ib := uint(d); ib > workPrec {
			workPrec = ib
		}
	}
	workPrec += 64

	qNeg := x.neg != y.neg
	var exact BigFloat
	exact.Quo(ctx, x, y, workPrec, Flags{Mode: RNDZ, ExpBits: flags.ExpBits})

	bi := bigFloatToBigIntTrunc(&exact)
	truncQ := new(BigFloat).SetBigInt(bi)
	truncQ.neg = qNeg && !truncQ.IsZero()

	frac := new(BigFloat)
	frac.Sub(ctx, &exact, truncQ, workPrec, Flags{Mode: RNDN})
	frac.Abs(frac)

	half := new(BigFloat).SetFloat64(0.5)
	fracCmpHalf := frac.Cmp(half)
	truncEven := len(bi.abs) == 0 || bi.abs[0]&1 == 0

	qInt := new(BigFloat).Copy(truncQ)
	if decideIntRoundUp(flags.Mode, qNeg, frac.IsZero(), fracCmpHalf, truncEven) {
		one := new(BigFloat).SetInt64(1)
		if qNeg {
			one.Neg(one)
		}
		qInt.Add(ctx, qInt, one, workPrec, Flags{Mode: RNDZ})
	}

	prod := new(BigFloat)
	prod.Mul(ctx, qInt, y, workPrec+64, Flags{Mode: RNDN})
	r.Sub(ctx, x, prod, workPrec+64, Flags{Mode: RNDN})

	rstatus := qInt.round(prec, flags, 0)
	status = q.commit(ctx, qInt, rstatus)
	return r, status
}

// Rem sets z to x - n*y where n is x/y rounded to the nearest integer
// (ties to even), the spec §4.G IEEE-754 remainder operation.
func (z *BigFloat) Rem(ctx *Context, x, y *BigFloat, prec uint) Status {
	n := new(BigFloat)
	_, _ = n.DivRem(ctx, x, y, quoWorkPrec(x, y), Flags{Mode: RNDN})
	prod := new(BigFloat)
	prod.Mul(ctx, n, y, prec+128, Flags{Mode: RNDN})
	return z.Sub(ctx, x, prod, prec, Flags{Mode: RNDN})
}

// quoWorkPrec returns a precision generous enough to resolve the
// integer part of x/y, for Rem/RemQuo's intermediate quotient.
func quoWorkPrec(x, y *BigFloat) uint {
	p := uint(128)
	if d := x.exp - y.exp; d > 0 {
		p += uint(d)
	}
	return p
}

// RemQuo behaves like Rem but also returns the low bits of the integer
// quotient n and its sign, which callers use (per spec §4.G) to
// determine the octant/quadrant of a reduced argument without forming
// the full-precision quotient themselves.
func (z *BigFloat) RemQuo(ctx *Context, x, y *BigFloat, prec uint) (quoLow int64, quoNeg bool, status Status) {
	n := new(BigFloat)
	n.DivRem(ctx, x, y, quoWorkPrec(x, y), Flags{Mode: RNDN})
	quoNeg = n.neg
	bi := bigFloatToBigIntTrunc(n)
	if len(bi.abs) > 0 {
		quoLow = int64(bi.abs[0])
	}
	prod := new(BigFloat)
	prod.Mul(ctx, n, y, prec+128, Flags{Mode: RNDN})
	status = z.Sub(ctx, x, prod, prec, Flags{Mode: RNDN})
	return quoLow, quoNeg, status
}

// Sqrt sets z to sqrt(x) rounded to prec bits under flags.
func (z *BigFloat) Sqrt(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() || x.neg && !x.IsZero() {
		z.SetNaN()
		return InvalidOp
	}
	if x.IsZero() {
		z.SetZero(x.neg)
		return 0
	}
	if x.IsInf() {
		z.SetInf(false)
		return 0
	}

	// scale the mantissa so its bit length is even and large enough to
	// deliver prec+guard bits of the square root, then take the integer
	// sqrt and reattach the (halved) exponent.
	guard := uint(64)
	need := 2 * (prec + guard)
	bl := uint(x.mant.bitLen())
	expAdj := x.exp
	shiftAmt := int64(need) - int64(bl)
	// keep expAdj - shiftAmt even so the exponent halves cleanly
	if (expAdj-shiftAmt)%2 != 0 {
		shiftAmt++
	}
	var scaled nat
	if shiftAmt >= 0 {
		scaled = natMake(0).shl(x.mant, uint(shiftAmt))
	} else {
		scaled = natMake(0).shr(x.mant, uint(-shiftAmt))
	}

	s, r := natMake(0).sqrt(ctx, scaled)
	sBitLen := s.bitLen()
	resExp := (x.exp - shiftAmt + int64(len(scaled))*64 - int64(scaled.bitLen())) / 2
	_ = sBitLen
	_ = resExp

	// resulting exponent: x = scaled * 2^(alignedExp(x.exp, len(x.mant))
	// - shiftAmt), an even exponent (64*len(x.mant) is even), so
	// sqrt(x) = s * 2^(half that exponent) with s the integer root.
	alignedScaledExp := alignedExp(x.exp, len(x.mant)) - shiftAmt
	halfExp := alignedScaledExp / 2

	var sbit uint
	if len(r) > 0 {
		sbit = 1
	}
	sNorm := natMake(0).set(s)
	shift := fnorm(sNorm)
	finalExp := halfExp + int64(len(sNorm))*64 - int64(shift)

	res := &BigFloat{mant: sNorm, exp: finalExp}
	status := res.round(prec, flags, sbit)
	return z.commit(ctx, res, status)
}

// Cmp compares x and y: -1, 0, +1 as x <, ==, > y. NaN compares
// unordered and Cmp returns 2 in that case (callers that care should
// check IsNaN first).
func (x *BigFloat) Cmp(y *BigFloat) int {
	if x.IsNaN() || y.IsNaN() {
		return 2
	}
	switch {
	case x.IsZero() && y.IsZero():
		return 0
	case x.IsZero():
		return -y.Sign()
	case y.IsZero():
		return x.Sign()
	}
	switch {
	case x.neg == y.neg:
		if x.IsInf() && y.IsInf() {
			return 0
		}
		if x.IsInf() {
			if x.neg {
				return -1
			}
			return 1
		}
		if y.IsInf() {
			if y.neg {
				return 1
			}
			return -1
		}
		r := ucmp(x, y)
		if x.neg {
			r = -r
		}
		return r
	case x.neg:
		return -1
	default:
		return 1
	}
}

// MulExp2 sets z to x * 2^s rounded to prec bits under flags, a fast
// path that only moves the exponent (spec §4.G's mul_2exp), saturating
// at the reserved extreme exponent before rounding.
func (z *BigFloat) MulExp2(ctx *Context, x *BigFloat, s int64, prec uint, flags Flags) Status {
	z.Copy(x)
	if z.isSpecial() {
		return 0
	}
	sum := z.exp + s
	switch {
	case s > 0 && sum < z.exp:
		sum = expNaN - 1 // overflowed int64: saturate at the largest representable exponent
	case s < 0 && sum > z.exp:
		sum = -(expNaN - 1) // underflowed int64: saturate at the smallest
	}
	z.exp = sum
	return z.round(prec, flags, 0)
}

// MarshalText renders x in radix 10 with FormatFree and the default
// digit count, via radix.go's formatter.
func (x *BigFloat) MarshalText() ([]byte, error) {
	ctx := NewContext(nil)
	s, err := FormatBigFloat(ctx, x, 10, FormatFree, 0, Flags{Mode: RNDN})
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText parses text using radix.go's ParseBigFloat at a
// generous default precision, matching the round-trip MarshalText
// produces for values created by this package.
func (z *BigFloat) UnmarshalText(text []byte) error {
	ctx := NewContext(nil)
	v, _, err := ParseBigFloat(ctx, string(text), 0, 200, Flags{Mode: RNDN})
	if err != nil {
		return err
	}
	z.Copy(v)
	return nil
}
