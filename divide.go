package bigfloat

import "math/bits"

// div computes q, r such that x = q*y + r, 0 <= r < y, for y != 0.
// Single-limb divisors go through divW; multi-limb divisors use Knuth's
// Algorithm D (normalize, estimate-and-correct per quotient limb),
// grounded on the bford-go math/big nat.go divLarge routine (spec
// §4.C: "schoolbook long division for the general case"). Large,
// well-conditioned divisions where len(x), len(y) both exceed
// divNewtonThreshold instead go through a Newton-Raphson reciprocal
// (divRecip), per spec §4.C's "Newton-iteration reciprocal division
// for very large operands" requirement.
const divNewtonThreshold = 200

func (z nat) div(ctx *Context, x, y nat) (q, r nat) {
	x = x.norm()
	y = y.norm()
	if len(y) == 0 {
		panic("bigfloat: division by zero")
	}
	if x.cmp(y) < 0 {
		return natMake(0), x.set(x)
	}
	if len(y) == 1 {
		qq, rr := z.divW(x, y[0])
		return qq, natMake(1).setUint64(rr)
	}
	if len(x) > divNewtonThreshold && len(y) > divNewtonThreshold {
		return divRecip(ctx, x, y)
	}
	return divKnuth(x, y)
}

// divKnuth implements Knuth's Algorithm D (TAOCP vol 2, 4.3.1): it
// normalizes the divisor so its top limb has its high bit set, derives
// a per-quotient-limb estimate from the top two dividend limbs divided
// by the top divisor limb, corrects the estimate down by at most 2 via
// a three-limb cross-check, then confirms with a full multiply-and-
// subtract, correcting by +1 (adding y back) on underflow.
func divKnuth(x, y nat) (q, r nat) {
	n := len(y)
	m := len(x) - n

	s := uint(bits.LeadingZeros64(y[n-1]))
	yn := natMake(n)
	yn = yn.shl(y, s)
	yn = yn[:n]

	xn := natMake(len(x) + 1)
	shifted := xn.shl(x, s)
	copy(xn, shifted)
	for i := len(shifted); i < len(xn); i++ {
		xn[i] = 0
	}

	q = natMake(m + 1)
	rem := natMake(n + 1)

	for j := m; j >= 0; j-- {
		// estimate qhat from the top 3 limbs of the working remainder
		// against the top 2 limbs of yn.
		num2 := xn[j+n]
		num1 := uint64(0)
		if j+n-1 >= 0 && j+n-1 < len(xn) {
			num1 = xn[j+n-1]
		}
		var qhat, rhat uint64
		if num2 >= yn[n-1] {
			qhat = ^uint64(0)
		} else {
			qhat, rhat = bits.Div64(num2, num1, yn[n-1])
			for {
				hi, lo := bits.Mul64(qhat, yn[n-2])
				if hi < rhat || (hi == rhat && lo <= xn[j+n-2]) {
					break
				}
				qhat--
				var c uint64
				rhat, c = bits.Add64(rhat, yn[n-1], 0)
				if c != 0 {
					break
				}
			}
		}

		// multiply and subtract: rem_window -= qhat*yn
		borrow := uint64(0)
		carry := uint64(0)
		for i := 0; i < n; i++ {
			hi, lo := bits.Mul64(qhat, yn[i])
			lo, c := bits.Add64(lo, carry, 0)
			hi += c
			carry = hi
			d, b := bits.Sub64(xn[j+i], lo, borrow)
			xn[j+i] = d
			borrow = b
		}
		d, b := bits.Sub64(xn[j+n], carry, borrow)
		xn[j+n] = d
		borrow = b

		if borrow != 0 {
			// qhat was one too large: add yn back, decrement qhat.
			qhat--
			c := uint64(0)
			for i := 0; i < n; i++ {
				xn[j+i], c = bits.Add64(xn[j+i], yn[i], c)
			}
			xn[j+n], _ = bits.Add64(xn[j+n], 0, c)
		}
		q[j] = qhat
	}

	rShifted := nat(xn[:n]).norm()
	rem = rem.shr(rShifted, s)
	return q.norm(), rem.norm()
}

// divRecip performs large-operand division via a Newton-Raphson
// reciprocal: it computes an approximate fixed-point reciprocal of y
// to enough limbs, multiplies by x, and corrects the quotient estimate
// by at most a couple of limb-level add/sub passes (spec §4.C). This
// turns repeated division by the same or similarly-sized divisor into
// O(M(n)) rather than O(n^2), matching the Ziv-loop transcendental
// code's appetite for many divisions at the same working precision.
func divRecip(ctx *Context, x, y nat) (q, r nat) {
	n := len(y)
	prec := uint(n+2) * 64

	recip := nat(nil).reciprocal(ctx, y, prec)

	// q0 = (x * recip) >> prec, an approximation of x/y good to within
	// a small additive error in the last couple of limbs.
	prod := natMake(0)
	prod = prod.mul(ctx, x, recip)
	q = natMake(0)
	q = q.shr(prod, prec)

	// correct: compute r = x - q*y, then nudge q up/down while r is out
	// of range. At most a couple of iterations given the reciprocal's
	// accuracy.
	qy := natMake(0)
	qy = qy.mul(ctx, q, y)
	for qy.cmp(x) > 0 {
		one := natMake(1)
		one[0] = 1
		q = q.sub(q, one)
		qy = qy.mul(ctx, q, y)
	}
	r = natMake(0)
	r = r.sub(x, qy)
	for r.cmp(y) >= 0 {
		r = r.sub(r, y)
		one := natMake(1)
		one[0] = 1
		q = q.add(q, one)
	}
	return q.norm(), r.norm()
}

// reciprocal computes floor(2^prec / y) via Newton's iteration
// x_{k+1} = x_k*(2 - y*x_k/2^prec), doubling the number of correct
// bits each step starting from a single-limb seed, per spec §4.C.
func (z nat) reciprocal(ctx *Context, y nat, prec uint) nat {
	y = y.norm()
	n := y.bitLen()
	// seed: a crude single-word approximation of 2^(n+64)/y_top
	top := y[len(y)-1]
	if top == 0 {
		top = 1
	}
	seedShift := uint(64)
	seedNum := uint64(1) << 63
	_ = seedShift
	x := natMake(1)
	x[0], _ = bits.Div64(seedNum>>0, 0, top)
	if x[0] == 0 {
		x[0] = 1
	}
	curPrec := uint(64)

	two := natMake(2)
	two[0] = 2

	for curPrec < prec {
		next := curPrec * 2
		if next > prec {
			next = prec
		}
		// x = x*(2*2^curPrec - y*x) >> curPrec, all done in the
		// 2^next-scaled fixed point domain.
		yx := natMake(0)
		yx = yx.mul(ctx, y, x)
		yx = yx.shr(yx, uint(n)+curPrec-next)

		twoScaled := natMake(0)
		twoScaled = twoScaled.shl(two, next)

		diff := natMake(0)
		if twoScaled.cmp(yx) > 0 {
			diff = diff.sub(twoScaled, yx)
		}
		x = x.mul(ctx, x, diff)
		x = x.shr(x, curPrec)
		curPrec = next
	}
	return x.norm()
}
