package bigfloat

// transcend.go implements the Ziv-loop transcendental functions spec
// §4.J calls for: compute an approximation at a working precision a
// few guard bits above the target, check with round.go's canRound
// whether that approximation resolves the final rounding decision
// unambiguously, and double the guard and retry if not. This mirrors
// the apd Context's Exp/Ln/Pow methods (other_examples' context.go),
// which drive a Newton or Taylor iteration to a guard precision and
// re-run at higher precision on an inexact boundary, generalized here
// into one shared helper (zivLoop) instead of duplicating the retry
// loop in every function.

const zivInitialGuard = 32
const zivMaxGuard = 1 << 20

// zivLoop runs compute at increasing working precision until the
// result can be rounded to prec bits unambiguously (or until
// zivMaxGuard is reached, at which point it returns the last result
// anyway — a determinism escape hatch rather than an infinite loop,
// matching spec §4.J's note that pathological exact-tie inputs are
// out of scope for a bounded retry count).
func zivLoop(prec uint, mode RoundingMode, compute func(workPrec uint) *BigFloat) *BigFloat {
	guard := uint(zivInitialGuard)
	for {
		workPrec := prec + guard
		res := compute(workPrec)
		if res.isSpecial() {
			return res
		}
		if canRound(res.mant, workPrec, prec, mode) || guard >= zivMaxGuard {
			return res
		}
		guard *= 2
	}
}

// piCache returns ctx's cached pi to at least prec bits, computing
// (and widening the cache) if needed via the Chudnovsky binary-
// splitting series, the standard high-precision pi algorithm (each
// term contributes roughly 14 decimal digits); binary splitting pairs
// the series terms pairwise so the partial numerators/denominators,
// accumulated as BigInt products in chudnovskyPQT, stay balanced in
// size.
func piCache(ctx *Context, prec uint) *BigFloat {
	if ctx.pi != nil && uint(len(ctx.pi.mant))*64 >= prec {
		return ctx.pi
	}
	ctx.pi = computePi(ctx, prec+64)
	return ctx.pi
}

// computePi evaluates the Chudnovsky series
//
//	1/pi = 12 * sum_{k=0}^inf (-1)^k (6k)!(13591409+545140134k) / ((3k)!(k!)^3 640320^(3k+3/2))
//
// via binary splitting: P(a,b) and Q(a,b) are built recursively so
// that computing n terms costs O(M(n) log n) instead of O(n^2).
func computePi(ctx *Context, prec uint) *BigFloat {
	terms := int(prec)/47 + 2 // ~14.18 decimal digits per term, prec in bits
	_, q, t := chudnovskyPQT(ctx, 0, int64(terms))

	// pi = q*640320^{3/2} / (12*t), compute via BigFloat division after
	// converting q/t to exact BigFloats (p only matters as an
	// intermediate of the binary-split recursion itself).
	qf := new(BigFloat).SetBigInt(q)
	tf := new(BigFloat).SetBigInt(t)

	c := new(BigFloat).SetInt64(640320)
	c32 := new(BigFloat)
	c32.Mul(ctx, c, c, prec+64, Flags{Mode: RNDN})
	c32.Mul(ctx, c32, c, prec+64, Flags{Mode: RNDN})
	sqrtC3 := new(BigFloat)
	sqrtC3.Sqrt(ctx, c32, prec+64, Flags{Mode: RNDN})

	num := new(BigFloat)
	num.Mul(ctx, qf, sqrtC3, prec+64, Flags{Mode: RNDN})

	twelve := new(BigFloat).SetInt64(12)
	denom := new(BigFloat)
	denom.Mul(ctx, twelve, tf, prec+64, Flags{Mode: RNDN})

	pi := new(BigFloat)
	pi.Quo(ctx, num, denom, prec, Flags{Mode: RNDN})
	return pi
}

// chudnovskyPQT computes the binary-split triple (P(a,b), Q(a,b),
// T(a,b)) for the Chudnovsky series over term range [a,b).
func chudnovskyPQT(ctx *Context, a, b int64) (p, q, t *BigInt) {
	if b-a == 1 {
		if a == 0 {
			p = NewBigInt(1)
		} else {
			p1 := NewBigInt(2*a - 1)
			p2 := NewBigInt(6*a - 1)
			p3 := NewBigInt(6*a - 5)
			p = new(BigInt).Mul(ctx, p1, p2)
			p = p.Mul(ctx, p, p3)
			p = p.Neg(p)
		}
		if a == 0 {
			q = NewBigInt(1)
		} else {
			aCubed := new(BigInt).Mul(ctx, NewBigInt(a), NewBigInt(a))
			aCubed = aCubed.Mul(ctx, aCubed, NewBigInt(a))
			c3 := NewBigInt(10939058860032000)
			q = new(BigInt).Mul(ctx, aCubed, c3)
		}
		coeff := new(BigInt).Mul(ctx, NewBigInt(545140134), NewBigInt(a))
		coeff = coeff.Add(ctx, coeff, NewBigInt(13591409))
		t = new(BigInt).Mul(ctx, p, coeff)
		return p, q, t
	}
	m := (a + b) / 2
	p1, q1, t1 := chudnovskyPQT(ctx, a, m)
	p2, q2, t2 := chudnovskyPQT(ctx, m, b)

	p = new(BigInt).Mul(ctx, p1, p2)
	q = new(BigInt).Mul(ctx, q1, q2)

	t1q2 := new(BigInt).Mul(ctx, t1, q2)
	p1t2 := new(BigInt).Mul(ctx, p1, t2)
	t = new(BigInt).Add(ctx, t1q2, p1t2)
	return p, q, t
}

// ln2Cache returns ctx's cached ln(2) to at least prec bits, computed
// via the Newton iteration for log described below applied to the
// constant 2 itself, seeded (while no cached ln2 exists yet) from the
// float64 constant 0.6931471805599453.
func ln2Cache(ctx *Context, prec uint) *BigFloat {
	if ctx.ln2 != nil && uint(len(ctx.ln2.mant))*64 >= prec {
		return ctx.ln2
	}
	two := new(BigFloat).SetInt64(2)
	ctx.ln2 = lnNewton(ctx, two, prec+64)
	return ctx.ln2
}

// Exp sets z to e^x rounded to prec bits under flags, via argument
// reduction (divide x by 2^k until small) followed by a Taylor series
// and repeated squaring, run inside the Ziv retry loop.
func (z *BigFloat) Exp(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	if x.IsZero() {
		z.SetInt64(1)
		return 0
	}
	if x.IsInf() {
		if x.neg {
			z.SetZero(false)
		} else {
			z.SetInf(false)
		}
		return 0
	}
	res := zivLoop(prec, flags.Mode, func(wp uint) *BigFloat {
		return expTaylor(ctx, x, wp)
	})
	return z.Round(ctx, res, prec, flags)
}

// expTaylor computes e^x to approximately workPrec bits by reducing x
// to |x/2^k| < 1, summing the Taylor series for e^y, and squaring the
// result k times: e^x = (e^y)^(2^k).
func expTaylor(ctx *Context, x *BigFloat, workPrec uint) *BigFloat {
	k := 0
	y := new(BigFloat).Copy(x)
	one := new(BigFloat).SetInt64(1)
	for new(BigFloat).Abs(y).Cmp(one) > 0 {
		y.MulExp2(ctx, y, -1, workPrec, Flags{Mode: RNDN})
		k++
	}

	sum := new(BigFloat).SetInt64(1)
	term := new(BigFloat).SetInt64(1)
	for n := int64(1); n < int64(workPrec)/2+20; n++ {
		term.Mul(ctx, term, y, workPrec, Flags{Mode: RNDN})
		nBF := new(BigFloat).SetInt64(n)
		term.Quo(ctx, term, nBF, workPrec, Flags{Mode: RNDN})
		if term.IsZero() {
			break
		}
		sum.Add(ctx, sum, term, workPrec, Flags{Mode: RNDN})
	}

	for i := 0; i < k; i++ {
		sum.Mul(ctx, sum, sum, workPrec, Flags{Mode: RNDN})
	}
	return sum
}

// Log sets z to ln(x) rounded to prec bits under flags.
func (z *BigFloat) Log(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() || x.Sign() < 0 {
		z.SetNaN()
		return InvalidOp
	}
	if x.IsZero() {
		z.SetInf(true)
		return DivideByZero
	}
	if x.IsInf() {
		z.SetInf(false)
		return 0
	}
	one := new(BigFloat).SetInt64(1)
	if x.Cmp(one) == 0 {
		z.SetZero(false)
		return 0
	}
	res := zivLoop(prec, flags.Mode, func(wp uint) *BigFloat {
		return lnNewton(ctx, x, wp)
	})
	return z.Round(ctx, res, prec, flags)
}

// lnNewton computes ln(x) for x > 0 via Newton's iteration on
// f(y) = e^y - x, i.e. y_{n+1} = y_n + x/e^{y_n} - 1, seeded from the
// binary exponent of x (ln(x) ~ exp*ln2) for fast initial convergence.
func lnNewton(ctx *Context, x *BigFloat, workPrec uint) *BigFloat {
	y := new(BigFloat).SetInt64(x.exp)
	if ctx.ln2 != nil {
		y.Mul(ctx, y, ctx.ln2, workPrec, Flags{Mode: RNDN})
	} else {
		// bootstrap estimate without the cache (used while computing
		// ln2 itself): 0.693 is close enough for Newton to converge.
		approx := new(BigFloat)
		approx.SetFloat64(0.6931471805599453)
		y.Mul(ctx, y, approx, workPrec, Flags{Mode: RNDN})
	}

	one := new(BigFloat).SetInt64(1)
	for iter := 0; iter < 200; iter++ {
		ey := expTaylor(ctx, y, workPrec)
		ratio := new(BigFloat)
		ratio.Quo(ctx, x, ey, workPrec, Flags{Mode: RNDN})
		ratio.Sub(ctx, ratio, one, workPrec, Flags{Mode: RNDN})
		if ratio.IsZero() {
			break
		}
		y.Add(ctx, y, ratio, workPrec, Flags{Mode: RNDN})
	}
	return y
}

// Pow sets z to x^y rounded to prec bits under flags, via exp(y*ln(x))
// for every y, integer or not; there is no repeated-squaring path, so
// a negative x gives NaN (ln(x) is invalid) even for an integer y.
func (z *BigFloat) Pow(ctx *Context, x, y *BigFloat, prec uint, flags Flags) Status {
	if x.IsZero() {
		if y.IsZero() {
			z.SetInt64(1)
			return 0
		}
		z.SetZero(false)
		return 0
	}
	lnx := new(BigFloat)
	lnx.Log(ctx, x, prec+64, Flags{Mode: RNDN})
	exponent := new(BigFloat)
	exponent.Mul(ctx, y, lnx, prec+64, Flags{Mode: RNDN})
	return z.Exp(ctx, exponent, prec, flags)
}

// atanSeries computes atan(y) by halving the argument with
// atan(y) = 2*atan(y/(1+sqrt(1+y^2))) until |y| <= 1/8, summing the
// Taylor series directly (no Euler acceleration), and scaling the sum
// back up by 2^k for the k halvings.
func atanSeries(ctx *Context, y *BigFloat, workPrec uint) *BigFloat {
	one := new(BigFloat).SetInt64(1)
	eighth := new(BigFloat).SetFloat64(0.125)
	y = new(BigFloat).Copy(y)
	k := int64(0)
	for !y.isSpecial() && new(BigFloat).Abs(y).Cmp(eighth) > 0 {
		d := new(BigFloat)
		d.Mul(ctx, y, y, workPrec, Flags{Mode: RNDN})
		d.Add(ctx, d, one, workPrec, Flags{Mode: RNDN})
		d.Sqrt(ctx, d, workPrec, Flags{Mode: RNDN})
		d.Add(ctx, d, one, workPrec, Flags{Mode: RNDN})
		y.Quo(ctx, y, d, workPrec, Flags{Mode: RNDN})
		k++
	}

	y2 := new(BigFloat)
	y2.Mul(ctx, y, y, workPrec, Flags{Mode: RNDN})

	sum := new(BigFloat).Copy(y)
	term := new(BigFloat).Copy(y)
	neg := true // y - y^3/3 + y^5/5 - ...
	for n := int64(3); n < int64(workPrec)+20; n += 2 {
		term.Mul(ctx, term, y2, workPrec, Flags{Mode: RNDN})
		nBF := new(BigFloat).SetInt64(n)
		part := new(BigFloat)
		part.Quo(ctx, term, nBF, workPrec, Flags{Mode: RNDN})
		if part.IsZero() {
			break
		}
		if neg {
			sum.Sub(ctx, sum, part, workPrec, Flags{Mode: RNDN})
		} else {
			sum.Add(ctx, sum, part, workPrec, Flags{Mode: RNDN})
		}
		neg = !neg
	}
	sum.MulExp2(ctx, sum, k, workPrec, Flags{Mode: RNDN})
	return sum
}

// Atan sets z to atan(x) rounded to prec bits under flags.
func (z *BigFloat) Atan(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	res := zivLoop(prec, flags.Mode, func(wp uint) *BigFloat {
		return atanSeries(ctx, x, wp)
	})
	return z.Round(ctx, res, prec, flags)
}

// Atan2 sets z to atan2(y, x) rounded to prec bits under flags,
// resolving the full four-quadrant angle from atan(y/x) and the signs
// of x and y, using the cached pi constant for the quadrant offsets.
func (z *BigFloat) Atan2(ctx *Context, y, x *BigFloat, prec uint, flags Flags) Status {
	pi := piCache(ctx, prec+64)
	if x.IsZero() {
		half := new(BigFloat)
		half.MulExp2(ctx, pi, -1, prec+64, Flags{Mode: RNDN})
		if y.Sign() < 0 {
			half.Neg(half)
		}
		return z.Round(ctx, half, prec, flags)
	}
	ratio := new(BigFloat)
	ratio.Quo(ctx, y, x, prec+64, Flags{Mode: RNDN})
	base := new(BigFloat)
	base.Atan(ctx, ratio, prec+64, Flags{Mode: RNDN})
	if x.Sign() > 0 {
		return z.Round(ctx, base, prec, flags)
	}
	if y.Sign() >= 0 {
		base.Add(ctx, base, pi, prec+64, Flags{Mode: RNDN})
	} else {
		base.Sub(ctx, base, pi, prec+64, Flags{Mode: RNDN})
	}
	return z.Round(ctx, base, prec, flags)
}

// Asin sets z to asin(x) rounded to prec bits under flags, for
// |x| <= 1, via the identity asin(x) = atan(x / sqrt(1 - x^2)), with
// the x == ±1 edge handled directly (the identity's denominator
// vanishes there).
func (z *BigFloat) Asin(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	one := new(BigFloat).SetInt64(1)
	if x.Cmp(one) > 0 || new(BigFloat).Neg(x).Cmp(one) > 0 {
		z.SetNaN()
		return InvalidOp
	}
	if x.Cmp(one) == 0 || new(BigFloat).Neg(x).Cmp(one) == 0 {
		pi := piCache(ctx, prec+64)
		half := new(BigFloat)
		half.MulExp2(ctx, pi, -1, prec+64, Flags{Mode: RNDN})
		if x.Sign() < 0 {
			half.Neg(half)
		}
		return z.Round(ctx, half, prec, flags)
	}

	workPrec := prec + 64
	x2 := new(BigFloat)
	x2.Mul(ctx, x, x, workPrec, Flags{Mode: RNDN})
	oneMinusX2 := new(BigFloat)
	oneMinusX2.Sub(ctx, one, x2, workPrec, Flags{Mode: RNDN})
	denom := new(BigFloat)
	denom.Sqrt(ctx, oneMinusX2, workPrec, Flags{Mode: RNDN})
	ratio := new(BigFloat)
	ratio.Quo(ctx, x, denom, workPrec, Flags{Mode: RNDN})

	res := new(BigFloat)
	res.Atan(ctx, ratio, workPrec, Flags{Mode: RNDN})
	return z.Round(ctx, res, prec, flags)
}

// Acos sets z to acos(x) rounded to prec bits under flags, via
// acos(x) = pi/2 - asin(x).
func (z *BigFloat) Acos(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	workPrec := prec + 64
	asinx := new(BigFloat)
	asinx.Asin(ctx, x, workPrec, Flags{Mode: RNDN})
	if asinx.IsNaN() {
		z.SetNaN()
		return InvalidOp
	}
	pi := piCache(ctx, workPrec)
	halfPi := new(BigFloat)
	halfPi.MulExp2(ctx, pi, -1, workPrec, Flags{Mode: RNDN})
	res := new(BigFloat)
	res.Sub(ctx, halfPi, asinx, workPrec, Flags{Mode: RNDN})
	return z.Round(ctx, res, prec, flags)
}

// Sin and Cos are derived from the Taylor expansion of
// sin via argument reduction mod 2*pi followed by the standard
// alternating series; cos(x) = sin(x + pi/2).
func (z *BigFloat) Sin(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() || x.IsInf() {
		z.SetNaN()
		return InvalidOp
	}
	res := zivLoop(prec, flags.Mode, func(wp uint) *BigFloat {
		return sinTaylor(ctx, x, wp)
	})
	return z.Round(ctx, res, prec, flags)
}

func (z *BigFloat) Cos(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	if x.IsNaN() || x.IsInf() {
		z.SetNaN()
		return InvalidOp
	}
	pi := piCache(ctx, prec+64)
	halfPi := new(BigFloat)
	halfPi.MulExp2(ctx, pi, -1, prec+64, Flags{Mode: RNDN})
	shifted := new(BigFloat)
	shifted.Add(ctx, x, halfPi, prec+64, Flags{Mode: RNDN})
	res := zivLoop(prec, flags.Mode, func(wp uint) *BigFloat {
		return sinTaylor(ctx, shifted, wp)
	})
	return z.Round(ctx, res, prec, flags)
}

func (z *BigFloat) Tan(ctx *Context, x *BigFloat, prec uint, flags Flags) Status {
	s := new(BigFloat)
	c := new(BigFloat)
	s.Sin(ctx, x, prec+64, Flags{Mode: RNDN})
	c.Cos(ctx, x, prec+64, Flags{Mode: RNDN})
	if c.IsZero() {
		z.SetInf(s.Sign() < 0)
		return DivideByZero
	}
	return z.Quo(ctx, s, c, prec, flags)
}

// sinTaylor reduces x modulo 2*pi into [-pi, pi] and sums the
// alternating Taylor series x - x^3/3! + x^5/5! - ...
func sinTaylor(ctx *Context, x *BigFloat, workPrec uint) *BigFloat {
	pi := piCache(ctx, workPrec)
	twoPi := new(BigFloat)
	twoPi.MulExp2(ctx, pi, 1, workPrec, Flags{Mode: RNDN})

	y := new(BigFloat).Copy(x)
	q := new(BigFloat)
	q.Quo(ctx, y, twoPi, workPrec, Flags{Mode: RNDN})
	qi := roundToIntBigFloat(ctx, q, workPrec)
	shift := new(BigFloat)
	shift.Mul(ctx, qi, twoPi, workPrec, Flags{Mode: RNDN})
	y.Sub(ctx, y, shift, workPrec, Flags{Mode: RNDN})

	y2 := new(BigFloat)
	y2.Mul(ctx, y, y, workPrec, Flags{Mode: RNDN})

	sum := new(BigFloat).Copy(y)
	term := new(BigFloat).Copy(y)
	neg := true
	for n := int64(3); n < int64(workPrec)+20; n += 2 {
		term.Mul(ctx, term, y2, workPrec, Flags{Mode: RNDN})
		denom := new(BigFloat).SetInt64(n * (n - 1))
		term.Quo(ctx, term, denom, workPrec, Flags{Mode: RNDN})
		if term.IsZero() {
			break
		}
		if neg {
			sum.Sub(ctx, sum, term, workPrec, Flags{Mode: RNDN})
		} else {
			sum.Add(ctx, sum, term, workPrec, Flags{Mode: RNDN})
		}
		neg = !neg
	}
	return sum
}

// roundToIntBigFloat returns x rounded to the nearest integer,
// implemented by adding ±1/2 and truncating toward zero,
// a small helper sin/cos's range reduction needs and that has no
// other natural home in round.go (it operates at the BigFloat level,
// not the limb level).
func roundToIntBigFloat(ctx *Context, x *BigFloat, prec uint) *BigFloat {
	half := new(BigFloat).SetFloat64(0.5)
	if x.Sign() < 0 {
		half.Neg(half)
	}
	adjusted := new(BigFloat)
	adjusted.Add(ctx, x, half, prec, Flags{Mode: RNDN})
	bi := bigFloatToBigIntTrunc(adjusted)
	return new(BigFloat).SetBigInt(bi)
}

// bigFloatToBigIntTrunc truncates x toward zero into a BigInt; x must
// be finite.
func bigFloatToBigIntTrunc(x *BigFloat) *BigInt {
	if x.isSpecial() {
		return NewBigInt(0)
	}
	if x.exp <= 0 {
		return NewBigInt(0)
	}
	bits := uint(x.exp)
	mantBits := uint(len(x.mant)) * 64
	var shifted nat
	if mantBits > bits {
		shifted = natMake(0).shr(x.mant, mantBits-bits)
	} else {
		shifted = natMake(0).shl(x.mant, bits-mantBits)
	}
	bi := new(BigInt)
	bi.abs = shifted
	bi.neg = x.neg && len(bi.abs) > 0
	return bi
}
