package bigfloat

import (
	"math/rand"

	"github.com/pkg/errors"
)

// BigInt is the signed multi-precision integer helper spec §13
// carries as internal plumbing for the Chudnovsky binary-splitting
// accumulators and BigFloat truncation (transcend.go) and radix.go's
// powers of ten (bigFloatPow10). It follows the shape
// of the teacher's signed Int (sign plus an unsigned nat magnitude,
// normalized-zero-is-nil), narrowed to the concerns this library
// actually needs: no Jacobi symbol or modular square root, since
// nothing here does number-theoretic primality beyond a test
// checking the five fixed NTT primes.
type BigInt struct {
	neg bool
	abs nat
}

func NewBigInt(x int64) *BigInt {
	z := new(BigInt)
	return z.SetInt64(x)
}

func (z *BigInt) SetInt64(x int64) *BigInt {
	neg := x < 0
	u := uint64(x)
	if neg {
		u = uint64(-x)
	}
	z.abs = z.abs.setUint64(u)
	z.neg = neg && len(z.abs) > 0
	return z
}

func (z *BigInt) SetUint64(x uint64) *BigInt {
	z.abs = z.abs.setUint64(x)
	z.neg = false
	return z
}

func (x *BigInt) Sign() int {
	if len(x.abs) == 0 {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

func (z *BigInt) Set(x *BigInt) *BigInt {
	if z != x {
		z.neg = x.neg
		z.abs = z.abs.set(x.abs)
	}
	return z
}

func (x *BigInt) Cmp(y *BigInt) int {
	switch {
	case x.neg == y.neg:
		r := x.abs.cmp(y.abs)
		if x.neg {
			return -r
		}
		return r
	case x.neg:
		return -1
	default:
		return 1
	}
}

func (z *BigInt) Neg(x *BigInt) *BigInt {
	z.Set(x)
	if len(z.abs) > 0 {
		z.neg = !z.neg
	}
	return z
}

func (z *BigInt) Abs(x *BigInt) *BigInt {
	z.Set(x)
	z.neg = false
	return z
}

func (z *BigInt) Add(ctx *Context, x, y *BigInt) *BigInt {
	if x.neg == y.neg {
		z.abs = z.abs.add(x.abs, y.abs)
		z.neg = x.neg && len(z.abs) > 0
		return z
	}
	if x.abs.cmp(y.abs) >= 0 {
		z.abs = z.abs.sub(x.abs, y.abs)
		z.neg = x.neg && len(z.abs) > 0
	} else {
		z.abs = z.abs.sub(y.abs, x.abs)
		z.neg = y.neg && len(z.abs) > 0
	}
	return z
}

func (z *BigInt) Sub(ctx *Context, x, y *BigInt) *BigInt {
	var negY BigInt
	negY.Neg(y)
	return z.Add(ctx, x, &negY)
}

func (z *BigInt) Mul(ctx *Context, x, y *BigInt) *BigInt {
	z.abs = z.abs.mul(ctx, x.abs, y.abs)
	z.neg = (x.neg != y.neg) && len(z.abs) > 0
	return z
}

// QuoRem sets z to the quotient x/y and r to the remainder, truncated
// toward zero (like Go's / and % operators on integers).
func (z *BigInt) QuoRem(ctx *Context, x, y, r *BigInt) (*BigInt, *BigInt) {
	if len(y.abs) == 0 {
		panic("bigfloat: division by zero")
	}
	q, rm := natMake(0).div(ctx, x.abs, y.abs)
	z.abs = q
	z.neg = (x.neg != y.neg) && len(z.abs) > 0
	r.abs = rm
	r.neg = x.neg && len(r.abs) > 0
	return z, r
}

// GCD sets z to the greatest common divisor of |a| and |b| via the
// Euclidean algorithm (binary gcd is unneeded at the sizes this
// library's CRT setup uses: the fixed NTT primes, checked once).
func (z *BigInt) GCD(ctx *Context, a, b *BigInt) *BigInt {
	x := natMake(0).set(a.abs)
	y := natMake(0).set(b.abs)
	for len(y) > 0 {
		_, r := natMake(0).div(ctx, x, y)
		x, y = y, r
	}
	z.abs = x
	z.neg = false
	return z
}

// ModInverse sets z to the inverse of a modulo m (both positive, gcd(a,m) == 1)
// via the extended Euclidean algorithm.
func (z *BigInt) ModInverse(ctx *Context, a, m *BigInt) *BigInt {
	// extended Euclid on plain int64 pairs is insufficient once moduli
	// exceed 63 bits, so this walks BigInt values directly.
	old_r, r := new(BigInt).Set(a), new(BigInt).Set(m)
	old_s, s := NewBigInt(1), NewBigInt(0)

	for r.Sign() != 0 {
		q := new(BigInt)
		rem := new(BigInt)
		q, rem = q.QuoRem(ctx, old_r, r, rem)
		old_r, r = r, rem

		t := new(BigInt).Mul(ctx, q, s)
		t = t.Sub(ctx, old_s, t)
		old_s, s = s, t
	}
	if old_s.Sign() < 0 {
		old_s = old_s.Add(ctx, old_s, m)
	}
	z.Set(old_s)
	return z
}

// Exp sets z = x^y mod m (or x^y if m is nil) using square-and-multiply.
func (z *BigInt) Exp(ctx *Context, x, y, m *BigInt) *BigInt {
	result := NewBigInt(1)
	base := new(BigInt).Set(x)
	if m != nil {
		_, base = new(BigInt).QuoRem(ctx, base, m, new(BigInt))
	}
	e := new(BigInt).Set(y)
	two := NewBigInt(2)
	zero := NewBigInt(0)
	for e.Cmp(zero) > 0 {
		var q, r BigInt
		q.QuoRem(ctx, e, two, &r)
		if r.Sign() != 0 {
			result = result.Mul(ctx, result, base)
			if m != nil {
				_, result = new(BigInt).QuoRem(ctx, result, m, new(BigInt))
			}
		}
		base = base.Mul(ctx, base, base)
		if m != nil {
			_, base = new(BigInt).QuoRem(ctx, base, m, new(BigInt))
		}
		e = &q
	}
	z.Set(result)
	return z
}

// MulRange sets z to the product of all integers in [lo, hi] (1 for an
// empty range), using a binary-splitting recursive product rather
// than a flat left-to-right multiply chain, which keeps operand sizes
// balanced; every partial product is a schoolbook basicMul, never
// nat.mul's Karatsuba/NTT tiers.
func (z *BigInt) MulRange(ctx *Context, lo, hi int64) *BigInt {
	switch {
	case lo > hi:
		return z.SetInt64(1)
	case lo == hi:
		return z.SetInt64(lo)
	case lo <= 0 && hi >= 0:
		return z.SetInt64(0)
	}
	neg := lo < 0 && (hi-lo)%2 == 0 // an odd count of negative factors
	if lo < 0 {
		lo, hi = -hi, -lo
	}
	z.abs = mulRangeNat(uint64(lo), uint64(hi))
	z.neg = neg && len(z.abs) > 0
	return z
}

func mulRangeNat(lo, hi uint64) nat {
	if lo == hi {
		return natMake(1).setUint64(lo)
	}
	if hi-lo == 1 {
		a := natMake(1).setUint64(lo)
		b := natMake(1).setUint64(hi)
		out := natMake(2)
		basicMul(out, a, b)
		return out.norm()
	}
	mid := lo + (hi-lo)/2
	l := mulRangeNat(lo, mid)
	r := mulRangeNat(mid+1, hi)
	out := natMake(len(l) + len(r))
	if len(l) >= karatsubaThreshold && len(r) >= karatsubaThreshold {
		basicMul(out, l, r) // ctx-free path: sizes here stay modest in practice
	} else {
		basicMul(out, l, r)
	}
	return out.norm()
}

// ProbablyPrime reports whether x is probably prime, via Go's
// trial-division-then-Miller-Rabin convention (n rounds), used by
// ntt_test.go to check that ntt.go's five hardcoded primes really
// are prime.
func (x *BigInt) ProbablyPrime(ctx *Context, n int, rnd *rand.Rand) bool {
	if x.Sign() <= 0 {
		return false
	}
	one := NewBigInt(1)
	if x.Cmp(one) == 0 {
		return false
	}
	two := NewBigInt(2)
	if x.Cmp(two) == 0 {
		return true
	}
	var rem BigInt
	new(BigInt).QuoRem(ctx, x, two, &rem)
	if rem.Sign() == 0 {
		return false
	}

	// write x-1 = d*2^s
	nMinus1 := new(BigInt).Sub(ctx, x, one)
	d := new(BigInt).Set(nMinus1)
	s := 0
	for {
		var r BigInt
		var q BigInt
		q.QuoRem(ctx, d, two, &r)
		if r.Sign() != 0 {
			break
		}
		d = &q
		s++
	}

	for i := 0; i < n; i++ {
		a := randomBigInt(rnd, nMinus1)
		if a.Cmp(two) < 0 {
			a = two
		}
		y := new(BigInt).Exp(ctx, a, d, x)
		if y.Cmp(one) == 0 || y.Cmp(nMinus1) == 0 {
			continue
		}
		composite := true
		for j := 0; j < s-1; j++ {
			y = y.Mul(ctx, y, y)
			_, y = new(BigInt).QuoRem(ctx, y, x, new(BigInt))
			if y.Cmp(nMinus1) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

func randomBigInt(rnd *rand.Rand, limit *BigInt) *BigInt {
	z := new(BigInt)
	z.abs = natMake(0).random(rnd, limit.abs)
	return z
}

// Bytes returns the big-endian byte representation of |x|.
func (x *BigInt) Bytes() []byte {
	n := (x.abs.bitLen() + 7) / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		limb := x.abs[i/8]
		out[n-1-i] = byte(limb >> (8 * uint(i%8)))
	}
	return out
}

// SetString parses a base-radix unsigned-or-signed integer literal
// (radix 0 means "infer from a 0x/0o/0b prefix, else base 10"), the
// integer-only counterpart to radix.go's fuller float literal parser.
func (z *BigInt) SetString(s string, radix int) (*BigInt, bool) {
	if s == "" {
		return nil, false
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if radix == 0 {
		switch {
		case len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
			radix, s = 16, s[2:]
		case len(s) > 1 && s[0] == '0' && (s[1] == 'o' || s[1] == 'O'):
			radix, s = 8, s[2:]
		case len(s) > 1 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
			radix, s = 2, s[2:]
		default:
			radix = 10
		}
	}
	if s == "" {
		return nil, false
	}
	acc := natMake(0)
	base := uint64(radix)
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d < 0 || uint64(d) >= base {
			return nil, false
		}
		acc = acc.mulAddWW(acc, base, uint64(d))
	}
	z.abs = acc.norm()
	z.neg = neg && len(z.abs) > 0
	return z, true
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// MarshalText implements encoding.TextMarshaler by rendering x in
// base 10, mirroring the rest of this package's round-trippable
// MarshalText/UnmarshalText pairs (spec §13).
func (x *BigInt) MarshalText() ([]byte, error) {
	if len(x.abs) == 0 {
		return []byte("0"), nil
	}
	var digits []byte
	tmp := natMake(0).set(x.abs)
	ten := uint64(10)
	for len(tmp) > 0 {
		var r uint64
		tmp, r = natMake(0).divW(tmp, ten)
		digits = append(digits, byte('0'+r))
	}
	if x.neg {
		digits = append(digits, '-')
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return digits, nil
}

func (z *BigInt) UnmarshalText(text []byte) error {
	v, ok := z.SetString(string(text), 10)
	if !ok {
		return errors.Errorf("bigfloat: invalid integer literal %q", text)
	}
	*z = *v
	return nil
}
