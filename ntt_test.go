package bigfloat

import (
	"math/rand"
	"testing"
)

func TestNTTModularArithmeticHelpers(t *testing.T) {
	p := nttPrimes[0]
	if modAdd(p-1, 2, p) != 1 {
		t.Fatalf("modAdd wraparound failed")
	}
	if modSub(1, 2, p) != p-1 {
		t.Fatalf("modSub wraparound failed")
	}
	if modMul(p-1, p-1, p) != 1 {
		t.Fatalf("modMul((p-1)*(p-1) mod p) should be 1, got %d", modMul(p-1, p-1, p))
	}
	a := uint64(12345)
	inv := modInv(a, p)
	if modMul(a, inv, p) != 1 {
		t.Fatalf("a * modInv(a) mod p should be 1")
	}
}

func TestNTTTransformRoundTrip(t *testing.T) {
	p := nttPrimes[0]
	root := nttRoots[0]
	a := []uint64{1, 2, 3, 4, 0, 0, 0, 0}
	orig := append([]uint64(nil), a...)
	nttTransform(a, p, root, false)
	nttTransform(a, p, root, true)
	for i := range a {
		if a[i] != orig[i] {
			t.Fatalf("NTT forward+inverse did not round trip at index %d: got %d want %d", i, a[i], orig[i])
		}
	}
}

func TestToDigitsFromDigitsRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	x := randomNat(rnd, 10)
	digits := toDigits(x)
	widened := make([]uint64, len(digits))
	copy(widened, digits)
	back := fromDigits(widened)
	if back.cmp(x.norm()) != 0 {
		t.Fatalf("toDigits/fromDigits did not round trip: got %v want %v", back, x)
	}
}

func TestNTTMulAgainstSchoolbook(t *testing.T) {
	ctx := NewContext(nil)
	rnd := rand.New(rand.NewSource(9))
	x := randomNat(rnd, nttThreshold+5)
	y := randomNat(rnd, nttThreshold+5)

	var basic nat
	basic = basic.make(len(x) + len(y))
	basic.clear()
	basicMul(basic, x, y)
	basic = basic.norm()

	viaMul := natMake(0).mul(ctx, x, y)
	if basic.cmp(viaMul) != 0 {
		t.Fatalf("nttMul (via nat.mul dispatch) disagrees with schoolbook multiplication")
	}
}
