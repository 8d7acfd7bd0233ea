package bigfloat

import (
	"math/rand"
	"testing"
)

func TestBigIntAddSubMul(t *testing.T) {
	ctx := NewContext(nil)
	a := NewBigInt(123456789)
	b := NewBigInt(-987654321)

	sum := new(BigInt).Add(ctx, a, b)
	if sum.Cmp(NewBigInt(123456789-987654321)) != 0 {
		t.Fatalf("Add: got sign/value mismatch")
	}

	diff := new(BigInt).Sub(ctx, a, b)
	if diff.Cmp(NewBigInt(123456789+987654321)) != 0 {
		t.Fatalf("Sub: got sign/value mismatch")
	}

	prod := new(BigInt).Mul(ctx, a, b)
	if prod.Sign() >= 0 {
		t.Fatalf("Mul of a positive and a negative should be negative")
	}
}

func TestBigIntQuoRem(t *testing.T) {
	ctx := NewContext(nil)
	x := NewBigInt(-17)
	y := NewBigInt(5)
	var q, r BigInt
	q.QuoRem(ctx, x, y, &r)
	// truncated division: -17/5 = -3 remainder -2
	if q.Cmp(NewBigInt(-3)) != 0 {
		t.Fatalf("quotient = %v, want -3", q)
	}
	if r.Cmp(NewBigInt(-2)) != 0 {
		t.Fatalf("remainder = %v, want -2", r)
	}
}

func TestBigIntGCD(t *testing.T) {
	ctx := NewContext(nil)
	a := NewBigInt(270)
	b := NewBigInt(192)
	g := new(BigInt).GCD(ctx, a, b)
	if g.Cmp(NewBigInt(6)) != 0 {
		t.Fatalf("gcd(270,192) = %v, want 6", g)
	}
}

func TestBigIntModInverse(t *testing.T) {
	ctx := NewContext(nil)
	a := NewBigInt(3)
	m := NewBigInt(11)
	inv := new(BigInt).ModInverse(ctx, a, m)
	prod := new(BigInt).Mul(ctx, a, inv)
	var q, r BigInt
	q.QuoRem(ctx, prod, m, &r)
	if r.Cmp(NewBigInt(1)) != 0 {
		t.Fatalf("a*inv mod m = %v, want 1", r)
	}
}

func TestBigIntExp(t *testing.T) {
	ctx := NewContext(nil)
	base := NewBigInt(2)
	exp := NewBigInt(10)
	got := new(BigInt).Exp(ctx, base, exp, nil)
	if got.Cmp(NewBigInt(1024)) != 0 {
		t.Fatalf("2^10 = %v, want 1024", got)
	}

	m := NewBigInt(1000)
	gotMod := new(BigInt).Exp(ctx, base, exp, m)
	if gotMod.Cmp(NewBigInt(24)) != 0 {
		t.Fatalf("2^10 mod 1000 = %v, want 24", gotMod)
	}
}

func TestBigIntMulRange(t *testing.T) {
	ctx := NewContext(nil)
	got := new(BigInt).MulRange(ctx, 1, 10)
	// 10! = 3628800
	if got.Cmp(NewBigInt(3628800)) != 0 {
		t.Fatalf("MulRange(1,10) = %v, want 3628800", got)
	}
	empty := new(BigInt).MulRange(ctx, 1, 0)
	if empty.Cmp(NewBigInt(1)) != 0 {
		t.Fatalf("MulRange with lo>hi (empty range) should be 1, got %v", empty)
	}
	throughZero := new(BigInt).MulRange(ctx, -2, 2)
	if throughZero.Sign() != 0 {
		t.Fatalf("MulRange spanning zero should be 0, got %v", throughZero)
	}
}

func TestBigIntSetStringRoundTrip(t *testing.T) {
	cases := []string{"0", "12345", "-98765", "0x1a", "-0o17", "0b1011"}
	for _, s := range cases {
		z, ok := new(BigInt).SetString(s, 0)
		if !ok {
			t.Fatalf("SetString(%q) failed to parse", s)
		}
		text, err := z.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%q): %v", s, err)
		}
		back, ok := new(BigInt).SetString(string(text), 10)
		if !ok {
			t.Fatalf("SetString on marshaled text %q failed", text)
		}
		if back.Cmp(z) != 0 {
			t.Fatalf("round trip for %q: got %v via %q", s, back, text)
		}
	}
}

func TestBigIntProbablyPrimeOnKnownValues(t *testing.T) {
	ctx := NewContext(nil)
	rnd := rand.New(rand.NewSource(7))
	primes := []int64{2, 3, 5, 7, 11, 101, 7919}
	for _, p := range primes {
		x := NewBigInt(p)
		if !x.ProbablyPrime(ctx, 20, rnd) {
			t.Fatalf("%d should be reported prime", p)
		}
	}
	composites := []int64{1, 4, 6, 9, 100, 7921}
	for _, c := range composites {
		x := NewBigInt(c)
		if x.ProbablyPrime(ctx, 20, rnd) {
			t.Fatalf("%d should not be reported prime", c)
		}
	}
}

// TestNTTPrimesArePrime guards the fixed moduli ntt.go's convolution
// multiplication depends on: if any of these were composite the CRT
// reconstruction would be silently wrong.
func TestNTTPrimesArePrime(t *testing.T) {
	ctx := NewContext(nil)
	rnd := rand.New(rand.NewSource(42))
	for _, p := range nttPrimes {
		x := new(BigInt).SetUint64(p)
		if !x.ProbablyPrime(ctx, 20, rnd) {
			t.Fatalf("nttPrimes entry %d is not prime", p)
		}
	}
}
