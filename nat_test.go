package bigfloat

import (
	"math/rand"
	"testing"
)

func TestNatAddSub(t *testing.T) {
	x := natMake(1).setUint64(1<<63 | 3)
	y := natMake(1).setUint64(5)
	sum := natMake(0).add(x, y)
	back := natMake(0).sub(sum, y)
	if back.cmp(x) != 0 {
		t.Fatalf("add then sub did not round-trip: got %v want %v", back, x)
	}
}

func TestNatMulSchoolbookVsKaratsuba(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ctx := NewContext(nil)
	for trial := 0; trial < 20; trial++ {
		n := 10 + trial*5 // stays under karatsubaThreshold for small trials, over for large
		x := randomNat(rnd, n)
		y := randomNat(rnd, n)

		var basic nat
		basic = basic.make(len(x) + len(y))
		basic.clear()
		basicMul(basic, x, y)
		basic = basic.norm()

		viaMul := natMake(0).mul(ctx, x, y)
		if basic.cmp(viaMul) != 0 {
			t.Fatalf("trial %d: basicMul and nat.mul disagree", trial)
		}
	}
}

func randomNat(rnd *rand.Rand, limbs int) nat {
	out := natMake(limbs)
	for i := range out {
		out[i] = rnd.Uint64()
	}
	return out.norm()
}

func TestNatShiftRoundTrip(t *testing.T) {
	x := natMake(2)
	x[0] = 0xdeadbeef
	x[1] = 0x1
	for _, s := range []uint{1, 7, 64, 65, 127} {
		shifted := natMake(0).shl(x, s)
		back := natMake(0).shr(shifted, s)
		if back.cmp(x.norm()) != 0 {
			t.Fatalf("shift %d did not round-trip: got %v want %v", s, back, x)
		}
	}
}

func TestNatDivW(t *testing.T) {
	x := natMake(2)
	x[0] = 123456789
	x[1] = 42
	q, r := natMake(0).divW(x, 97)
	// verify q*97 + r == x
	prod := q.mulAddWW(q, 97, r)
	if prod.cmp(x.norm()) != 0 {
		t.Fatalf("divW: q*97+r = %v, want %v", prod, x)
	}
	if r >= 97 {
		t.Fatalf("remainder %d >= divisor", r)
	}
}

func TestNatBitLenAndSticky(t *testing.T) {
	x := natMake(1)
	x[0] = 0b1011
	if x.bitLen() != 4 {
		t.Fatalf("bitLen = %d, want 4", x.bitLen())
	}
	if x.sticky(1) != 1 {
		t.Fatalf("sticky(1) should see bit 0 set")
	}
	if x.sticky(0) != 0 {
		t.Fatalf("sticky(0) should see nothing below bit 0")
	}
}
