package bigfloat

import "testing"

func TestDivSingleLimbMatchesDivW(t *testing.T) {
	ctx := NewContext(nil)
	x := natMake(3)
	x[0], x[1], x[2] = 0xffffffffffffffff, 0x1, 0x2
	y := natMake(1)
	y[0] = 999983 // a prime, single-limb divisor exercises the divW fast path

	q1, r1 := natMake(0).div(ctx, x, y)
	q2, r2 := natMake(0).divW(x, y[0])

	if q1.cmp(q2) != 0 {
		t.Fatalf("quotient mismatch: div=%v divW=%v", q1, q2)
	}
	if len(r1) > 0 && r1[0] != r2 || len(r1) == 0 && r2 != 0 {
		t.Fatalf("remainder mismatch: div=%v divW=%v", r1, r2)
	}
}

func TestDivKnuthMultiLimbDivisor(t *testing.T) {
	ctx := NewContext(nil)
	y := natMake(2)
	y[0], y[1] = 0x9999999999999999, 0x1234
	x := natMake(0).mul(ctx, y, natMake(1).setUint64(777))
	x = x.add(x, natMake(1).setUint64(555))

	q, r := natMake(0).div(ctx, x, y)
	if q.cmp(natMake(1).setUint64(777)) != 0 {
		t.Fatalf("quotient = %v, want 777", q)
	}
	if r.cmp(natMake(1).setUint64(555)) != 0 {
		t.Fatalf("remainder = %v, want 555", r)
	}
}

func TestSqrtSingleLimbValues(t *testing.T) {
	ctx := NewContext(nil)
	for _, v := range []uint64{0, 1, 4, 9, 1 << 20, 1<<32 - 1} {
		x := natMake(1).setUint64(v)
		s, r := natMake(0).sqrt(ctx, x)
		want := isqrtUint64(v)
		if len(s) == 0 && want != 0 {
			t.Fatalf("sqrt(%d): got empty, want %d", v, want)
		}
		if len(s) > 0 && s[0] != want {
			t.Fatalf("sqrt(%d) = %d, want %d", v, s[0], want)
		}
		if len(r) > 0 && r[0] != v-want*want {
			t.Fatalf("sqrt(%d) remainder = %v, want %d", v, r, v-want*want)
		}
	}
}

func TestSqrtLargeValue(t *testing.T) {
	ctx := NewContext(nil)
	// (2^200 + 12345)^2
	base := natMake(0).shl(natMake(1).setUint64(1), 200)
	base = base.add(base, natMake(1).setUint64(12345))
	squared := natMake(0).mul(ctx, base, base)

	s, r := natMake(0).sqrt(ctx, squared)
	if s.cmp(base) != 0 {
		t.Fatalf("sqrt of perfect square did not recover the base")
	}
	if len(r) != 0 {
		t.Fatalf("sqrt of perfect square left nonzero remainder: %v", r)
	}
}
