package bigfloat

// decimal.go implements BigDecimal, the base-10^19 analogue of
// BigFloat (spec §4.H), mirroring its structure limb-for-limb but
// built on decNat instead of nat. Kept as a near-twin of float.go on
// purpose, with the same five special values (zero, inf, NaN, plus
// signed zero). It does not call round.go's normalizeAndRound: round,
// roundDigits and decideRoundUpDecimal repeat that engine's steps and
// decision table over decimal digit positions instead of bits.
type BigDecimal struct {
	neg  bool
	mant decNat
	exp  int64 // power-of-ten exponent: value = mant * 10^(exp - digitsLen(mant)), i.e. 0.d1d2... * 10^exp
}

const (
	decExpZero int64 = 0
	decExpInf  int64 = 1<<62 - 1
	decExpNaN  int64 = 1<<62 - 2
)

func NewBigDecimal() *BigDecimal { return new(BigDecimal) }

func (z *BigDecimal) isSpecial() bool { return len(z.mant) == 0 }
func (z *BigDecimal) IsZero() bool    { return len(z.mant) == 0 && z.exp == decExpZero }
func (z *BigDecimal) IsInf() bool     { return len(z.mant) == 0 && z.exp == decExpInf }
func (z *BigDecimal) IsNaN() bool     { return len(z.mant) == 0 && z.exp == decExpNaN }

func (x *BigDecimal) Sign() int {
	if x.IsNaN() || x.IsZero() {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

func (z *BigDecimal) SetZero(neg bool) *BigDecimal {
	z.mant = z.mant[:0]
	z.exp = decExpZero
	z.neg = neg
	return z
}

func (z *BigDecimal) SetInf(neg bool) *BigDecimal {
	z.mant = z.mant[:0]
	z.exp = decExpInf
	z.neg = neg
	return z
}

func (z *BigDecimal) SetNaN() *BigDecimal {
	z.mant = z.mant[:0]
	z.exp = decExpNaN
	z.neg = false
	return z
}

func (z *BigDecimal) Copy(x *BigDecimal) *BigDecimal {
	if z != x {
		z.neg = x.neg
		z.exp = x.exp
		z.mant = z.mant.set(x.mant)
	}
	return z
}

// commit assigns res into z, growing z's mantissa buffer through
// ctx's allocator, mirroring BigFloat.commit over decimal limbs.
func (z *BigDecimal) commit(ctx *Context, res *BigDecimal, status Status) Status {
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

// Round sets z to x rounded to `digits` decimal digits under flags, and
// returns the resulting Status, mirroring BigFloat's exported Round.
func (z *BigDecimal) Round(ctx *Context, x *BigDecimal, digits uint, flags Flags) Status {
	if x.isSpecial() {
		z.Copy(x)
		return 0
	}
	res := new(BigDecimal).Copy(x)
	status := res.round(digits, flags, 0)
	return z.commit(ctx, res, status)
}

func (z *BigDecimal) SetUint64(x uint64) *BigDecimal {
	z.neg = false
	if x == 0 {
		return z.SetZero(false)
	}
	z.mant = z.mant.setUint64(x)
	z.exp = int64(z.mant.digitsLen())
	return z
}

func (z *BigDecimal) SetInt64(x int64) *BigDecimal {
	u := uint64(x)
	neg := x < 0
	if neg {
		u = uint64(-x)
	}
	z.SetUint64(u)
	z.neg = neg
	return z
}

// round rounds z's mantissa to digits decimal digits using
// decideRoundUpDecimal, a copy of decideRoundUp's decision table over
// decimal digit positions: decNat.digitAt/stickyFrom stand in for
// nat.bit/sticky, so the same round-to-even / round-half-away logic
// applies.
//
// z.exp always denotes the power of ten such that z's value equals
// z.mant (read as a plain integer) times 10^(z.exp - digitsLen(z.mant)):
// dropping cut low-order digits from the mantissa leaves the value
// unchanged as long as exp is adjusted by however many digits the
// mantissa's length actually changed by (normally -cut, or -cut+1 on a
// round-up that carries into an extra digit, e.g. 999 -> 1000).
// round applies the spec §4.F exponent-range and subnormal steps (see
// round.go's normalizeAndRound, whose binary-bit logic this mirrors
// over decimal digit positions) before delegating the actual digit
// truncation to roundDigits.
func (z *BigDecimal) round(digits uint, flags Flags, sticky uint) Status {
	if z.isSpecial() {
		return 0
	}
	if err := flags.validate(); err != nil {
		return InvalidOp
	}

	effDigits := digits
	subnormal := false
	expMin, expMax, bounded := flags.expRange()
	if bounded && z.exp < expMin {
		if !flags.SubnormalOK {
			z.SetZero(z.neg)
			return Underflow | Inexact
		}
		lost := uint(expMin - z.exp)
		if lost >= digits {
			effDigits = 0
		} else {
			effDigits = digits - lost
		}
		subnormal = true
	}

	status := z.roundDigits(effDigits, flags.Mode, sticky)

	if z.isSpecial() {
		if subnormal {
			z.SetZero(z.neg)
			return status | Underflow | Inexact
		}
		return status
	}

	if bounded && z.exp > expMax {
		if expOverflowToInf(flags.Mode, z.neg) {
			z.SetInf(z.neg)
			return status | Overflow | Inexact
		}
		z.mant = maxFiniteDecMant(digits)
		z.exp = expMax
		return status | Overflow | Inexact
	}
	if subnormal {
		status |= Underflow
	}
	return status
}

// maxFiniteDecMant returns 10^digits - 1 (digits repeated 9s), the
// decimal analogue of round.go's maxFiniteMant, used as the clamp
// target when a directed rounding mode overflows away from infinity.
func maxFiniteDecMant(digits uint) decNat {
	if digits == 0 {
		return decNatMake(0)
	}
	return decNatMake(0).sub(pow10(int(digits)), decNatMake(1).setUint64(1))
}

// roundDigits is the digit-truncation core round used to share with
// the effective-precision narrowing round applies for subnormals: it
// rounds z's mantissa to `digits` decimal digits using the shared
// rounding-mode decision table, reinterpreted over decimal digit
// positions (decNat.digitAt/stickyFrom standing in for nat.bit/sticky).
//
// z.exp always denotes the power of ten such that z's value equals
// z.mant (read as a plain integer) times 10^(z.exp - digitsLen(z.mant)):
// dropping cut low-order digits from the mantissa leaves the value
// unchanged as long as exp is adjusted by however many digits the
// mantissa's length actually changed by (normally -cut, or -cut+1 on a
// round-up that carries into an extra digit, e.g. 999 -> 1000).
func (z *BigDecimal) roundDigits(digits uint, mode RoundingMode, sticky uint) Status {
	dl := uint(z.mant.digitsLen())
	if dl <= digits {
		return 0
	}
	cut := dl - digits
	rbit := z.mant.digitAt(int(cut) - 1)
	sbit := sticky
	if sbit == 0 {
		sbit = z.mant.stickyFrom(int(cut) - 1)
	}
	rb := uint(0)
	if rbit >= 5 {
		rb = 1
	}
	sb := sbit
	if rbit != 0 && rbit != 5 {
		sb = 1
	}

	roundUp := decideRoundUpDecimal(mode, z.neg, z.mant, cut, rb, sb)

	q, rem := decNatMake(0).divByPow10(z.mant, cut)
	var status Status
	if rb|sb != 0 {
		status = Inexact
	}
	if roundUp {
		q = q.add(q, decNatMake(1).setUint64(1))
	}
	_ = rem
	q = q.norm()
	if len(q) == 0 {
		z.SetZero(z.neg)
		return status
	}
	newDl := int64(q.digitsLen())
	z.exp = z.exp - int64(dl) + int64(cut) + newDl
	z.mant = q
	return status
}

func decideRoundUpDecimal(mode RoundingMode, neg bool, mant decNat, cut uint, rbit, sbit uint) bool {
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
		return mant.digitAt(int(cut))%2 != 0
	case RNDNA:
		return rbit != 0
	default:
		return false
	}
}

// pow10 returns 10^n as a decNat, a tiny helper used by decimal
// rounding and formatting.
func pow10(n int) decNat {
	if n == 0 {
		return decNatMake(1).setUint64(1)
	}
	z := decNatMake(1).setUint64(1)
	ten := decNatMake(1).setUint64(10)
	for i := 0; i < n; i++ {
		z = z.mul(z, ten)
	}
	return z
}

// Add sets z to x+y rounded to `digits` decimal digits under flags.
func (z *BigDecimal) Add(ctx *Context, x, y *BigDecimal, digits uint, flags Flags) Status {
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
		z.Copy(y)
		return z.round(digits, flags, 0)
	}
	if y.IsZero() {
		z.Copy(x)
		return z.round(digits, flags, 0)
	}

	neg := x.neg
	// align both mantissas to the same power-of-ten position before
	// combining their raw digit strings: ex/ey are the exponent of each
	// operand's least-significant digit (exp - digit count), mirroring
	// float.go's alignedExp for binary mantissas.
	ex := x.exp - int64(x.mant.digitsLen())
	ey := y.exp - int64(y.mant.digitsLen())

	var mant decNat
	var alignedExp int64
	switch {
	case ex == ey:
		if x.neg == y.neg {
			mant = mant.add(x.mant, y.mant)
			alignedExp = ex
		} else if x.mant.cmp(y.mant) >= 0 {
			mant = mant.sub(x.mant, y.mant)
			alignedExp = ex
		} else {
			neg = !neg
			mant = mant.sub(y.mant, x.mant)
			alignedExp = ex
		}
	case ex < ey:
		shifted := decNatMake(0).mul(y.mant, pow10(int(ey-ex)))
		if x.neg == y.neg {
			mant = mant.add(x.mant, shifted)
			alignedExp = ex
		} else if x.mant.cmp(shifted) >= 0 {
			mant = mant.sub(x.mant, shifted)
			alignedExp = ex
		} else {
			neg = !neg
			mant = mant.sub(shifted, x.mant)
			alignedExp = ex
		}
	default:
		shifted := decNatMake(0).mul(x.mant, pow10(int(ex-ey)))
		if x.neg == y.neg {
			mant = mant.add(shifted, y.mant)
			alignedExp = ey
		} else if shifted.cmp(y.mant) >= 0 {
			mant = mant.sub(shifted, y.mant)
			alignedExp = ey
		} else {
			neg = !neg
			mant = mant.sub(y.mant, shifted)
			alignedExp = ey
		}
	}
	if len(mant) == 0 {
		z.SetZero(flags.Mode == RNDD)
		return 0
	}
	exp := alignedExp + int64(mant.digitsLen())
	res := &BigDecimal{mant: mant, exp: exp, neg: neg}
	status := res.round(digits, flags, 0)
	return z.commit(ctx, res, status)
}

// Sub sets z to x-y rounded to `digits` decimal digits under flags.
func (z *BigDecimal) Sub(ctx *Context, x, y *BigDecimal, digits uint, flags Flags) Status {
	var negY BigDecimal
	negY.Copy(y)
	if !negY.isSpecial() || negY.IsInf() {
		negY.neg = !negY.neg
	}
	return z.Add(ctx, x, &negY, digits, flags)
}

// Mul sets z to x*y rounded to `digits` decimal digits under flags.
func (z *BigDecimal) Mul(ctx *Context, x, y *BigDecimal, digits uint, flags Flags) Status {
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
	mant := decNatMake(0).mul(x.mant, y.mant)
	// aligned exponents (exp - digit count) add under multiplication,
	// same as float.go's Mul adding binary exponents directly since
	// both operands there are already expressed relative to their
	// mantissa's bit length.
	alignedExp := (x.exp - int64(x.mant.digitsLen())) + (y.exp - int64(y.mant.digitsLen()))
	exp := alignedExp + int64(mant.digitsLen())
	res := &BigDecimal{mant: mant, exp: exp, neg: neg}
	status := res.round(digits, flags, 0)
	return z.commit(ctx, res, status)
}

// Quo sets z to x/y rounded to `digits` decimal digits under flags,
// mirroring BigFloat.Quo: scale the dividend so the decNat divide
// yields at least `digits` significant digits of quotient, stamp a
// sticky bit from a nonzero remainder, then round.
func (z *BigDecimal) Quo(ctx *Context, x, y *BigDecimal, digits uint, flags Flags) Status {
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

	guardDigits := int(digits) + 2*decDigitsPerLimb + 2
	scale := guardDigits - x.mant.digitsLen() + y.mant.digitsLen()
	xadj := x.mant
	if scale > 0 {
		xadj = decNatMake(0).mul(x.mant, pow10(scale))
	}

	q, r := decNatMake(0).div(xadj, y.mant)
	var sbit uint
	if len(r.norm()) > 0 {
		sbit = 1
	}

	alignedExp := (x.exp - int64(x.mant.digitsLen())) - (y.exp - int64(y.mant.digitsLen()))
	if scale > 0 {
		alignedExp -= int64(scale)
	}
	exp := alignedExp + int64(q.digitsLen())

	res := &BigDecimal{mant: q, exp: exp, neg: neg}
	status := res.round(digits, flags, sbit)
	return z.commit(ctx, res, status)
}

// Sqrt sets z to sqrt(x) rounded to `digits` decimal digits under
// flags, by Newton's method expressed directly in terms of
// BigDecimal's own Add/Quo (rather than a dedicated decNat sqrt
// kernel): x_{k+1} = (x_k + a/x_k)/2, run at a guard-digit working
// precision until two successive iterates agree, the same
// fixed-iteration-cap shape transcend.go's lnNewton uses for its
// Newton loop.
func (z *BigDecimal) Sqrt(ctx *Context, x *BigDecimal, digits uint, flags Flags) Status {
	if x.IsNaN() || (x.neg && !x.IsZero()) {
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

	workDigits := digits + 2*decDigitsPerLimb
	work := Flags{Mode: RNDN}

	guessExp := x.exp/2 + 1
	cur := new(BigDecimal).SetUint64(1)
	cur.exp = guessExp
	two := new(BigDecimal).SetUint64(2)

	for i := 0; i < 100; i++ {
		ratio := new(BigDecimal)
		ratio.Quo(ctx, x, cur, workDigits, work)
		sum := new(BigDecimal)
		sum.Add(ctx, cur, ratio, workDigits, work)
		next := new(BigDecimal)
		next.Quo(ctx, sum, two, workDigits, work)
		if next.Cmp(cur) == 0 {
			cur = next
			break
		}
		cur = next
	}
	status := cur.round(digits, flags, 0)
	return z.commit(ctx, cur, status)
}

// Rem sets z to x - n*y where n is the truncated (toward zero)
// integer quotient x/y, mirroring BigFloat.Rem's structure.
func (z *BigDecimal) Rem(ctx *Context, x, y *BigDecimal, digits uint) Status {
	if x.IsNaN() || y.IsNaN() || y.IsZero() || x.IsInf() {
		z.SetNaN()
		return InvalidOp
	}
	if y.IsInf() || x.IsZero() {
		z.Copy(x)
		return 0
	}
	workDigits := digits + 2*decDigitsPerLimb
	n := new(BigDecimal)
	n.Quo(ctx, x, y, workDigits, Flags{Mode: RNDZ})

	nTrunc := new(BigDecimal).Copy(n)
	if nTrunc.exp <= 0 {
		nTrunc.SetZero(nTrunc.neg)
	} else {
		nTrunc.roundDigits(uint(nTrunc.exp), RNDZ, 0)
	}

	prod := new(BigDecimal)
	prod.Mul(ctx, nTrunc, y, workDigits, Flags{Mode: RNDN})
	return z.Sub(ctx, x, prod, digits, Flags{Mode: RNDN})
}

func (x *BigDecimal) Cmp(y *BigDecimal) int {
	if x.IsNaN() || y.IsNaN() {
		return 2
	}
	if x.IsZero() && y.IsZero() {
		return 0
	}
	if x.IsZero() {
		return -y.Sign()
	}
	if y.IsZero() {
		return x.Sign()
	}
	if x.neg != y.neg {
		if x.neg {
			return -1
		}
		return 1
	}
	// align to each mantissa's least-significant-digit exponent before
	// comparing, the same alignment Add uses: comparing exp alone would
	// be fine if mantissas were canonically trimmed of trailing zero
	// digits, but they are not, so digit counts can differ at equal
	// magnitude.
	ex := x.exp - int64(x.mant.digitsLen())
	ey := y.exp - int64(y.mant.digitsLen())
	var r int
	switch {
	case ex == ey:
		r = x.mant.cmp(y.mant)
	case ex < ey:
		shifted := decNatMake(0).mul(y.mant, pow10(int(ey-ex)))
		r = x.mant.cmp(shifted)
	default:
		shifted := decNatMake(0).mul(x.mant, pow10(int(ex-ey)))
		r = shifted.cmp(y.mant)
	}
	if x.neg {
		r = -r
	}
	return r
}
