package bigfloat

import (
	"strings"
	"testing"
)

func TestBigDecimalSetUint64Cmp(t *testing.T) {
	a := new(BigDecimal).SetUint64(123)
	b := new(BigDecimal).SetUint64(45)
	if a.Cmp(b) <= 0 {
		t.Fatalf("123 should compare greater than 45")
	}
	c := new(BigDecimal).SetUint64(123)
	if a.Cmp(c) != 0 {
		t.Fatalf("123 should equal 123")
	}
}

func TestBigDecimalAddExact(t *testing.T) {
	ctx := NewContext(nil)
	a := new(BigDecimal).SetUint64(123)
	b := new(BigDecimal).SetUint64(45)
	var z BigDecimal
	status := z.Add(ctx, a, b, 50, Flags{Mode: RNDN})
	if status&Inexact != 0 {
		t.Fatalf("123+45 at generous precision should be exact")
	}
	want := new(BigDecimal).SetUint64(168)
	if z.Cmp(want) != 0 {
		t.Fatalf("123+45 = %v, want 168", renderDec(&z))
	}
}

func TestBigDecimalSubExact(t *testing.T) {
	ctx := NewContext(nil)
	a := new(BigDecimal).SetUint64(1000)
	b := new(BigDecimal).SetUint64(1)
	var z BigDecimal
	z.Sub(ctx, a, b, 50, Flags{Mode: RNDN})
	want := new(BigDecimal).SetUint64(999)
	if z.Cmp(want) != 0 {
		t.Fatalf("1000-1 = %v, want 999", renderDec(&z))
	}
}

func TestBigDecimalMulExact(t *testing.T) {
	ctx := NewContext(nil)
	a := new(BigDecimal).SetUint64(12)
	b := new(BigDecimal).SetUint64(34)
	var z BigDecimal
	status := z.Mul(ctx, a, b, 50, Flags{Mode: RNDN})
	if status&Inexact != 0 {
		t.Fatalf("12*34 at generous precision should be exact")
	}
	want := new(BigDecimal).SetUint64(408)
	if z.Cmp(want) != 0 {
		t.Fatalf("12*34 = %v, want 408", renderDec(&z))
	}
}

func TestBigDecimalRoundDropsTrailingDigits(t *testing.T) {
	ctx := NewContext(nil)
	x := new(BigDecimal).SetUint64(123456)
	var z BigDecimal
	status := z.Round(ctx, x, 3, Flags{Mode: RNDN})
	if status&Inexact == 0 {
		t.Fatalf("rounding 123456 to 3 digits should be inexact")
	}
	want := new(BigDecimal).SetUint64(123000)
	if z.Cmp(want) != 0 {
		t.Fatalf("round(123456, 3 digits) = %v, want 123000", renderDec(&z))
	}
}

func TestBigDecimalRoundCarriesOverflow(t *testing.T) {
	ctx := NewContext(nil)
	x := new(BigDecimal).SetUint64(999999)
	var z BigDecimal
	z.Round(ctx, x, 3, Flags{Mode: RNDN})
	want := new(BigDecimal).SetUint64(1000000)
	if z.Cmp(want) != 0 {
		t.Fatalf("round(999999, 3 digits) = %v, want 1000000", renderDec(&z))
	}
}

func TestBigDecimalAddDifferentMagnitudes(t *testing.T) {
	ctx := NewContext(nil)
	a := new(BigDecimal).SetUint64(1000000)
	b := new(BigDecimal).SetUint64(1)
	var z BigDecimal
	status := z.Add(ctx, a, b, 50, Flags{Mode: RNDN})
	if status&Inexact != 0 {
		t.Fatalf("1000000+1 at generous precision should be exact")
	}
	want := new(BigDecimal).SetUint64(1000001)
	if z.Cmp(want) != 0 {
		t.Fatalf("1000000+1 = %v, want 1000001", renderDec(&z))
	}
}

func TestBigDecimalQuoExact(t *testing.T) {
	ctx := NewContext(nil)
	a := new(BigDecimal).SetUint64(100)
	b := new(BigDecimal).SetUint64(4)
	var z BigDecimal
	status := z.Quo(ctx, a, b, 50, Flags{Mode: RNDN})
	if status&Inexact != 0 {
		t.Fatalf("100/4 should be exact")
	}
	want := new(BigDecimal).SetUint64(25)
	if z.Cmp(want) != 0 {
		t.Fatalf("100/4 = %v, want 25", renderDec(&z))
	}
}

func TestBigDecimalQuoRepeatingRoundsToRequestedDigits(t *testing.T) {
	ctx := NewContext(nil)
	one := new(BigDecimal).SetUint64(1)
	three := new(BigDecimal).SetUint64(3)
	var z BigDecimal
	status := z.Quo(ctx, one, three, 10, Flags{Mode: RNDN})
	if status&Inexact == 0 {
		t.Fatalf("1/3 at 10 digits should be inexact")
	}
	s := renderDec(&z)
	if !strings.HasPrefix(s, "0.333333333") {
		t.Fatalf("1/3 = %q, want a 0.333333333 prefix", s)
	}
}

func TestBigDecimalSqrtFour(t *testing.T) {
	ctx := NewContext(nil)
	four := new(BigDecimal).SetUint64(4)
	var z BigDecimal
	status := z.Sqrt(ctx, four, 50, Flags{Mode: RNDN})
	if status&Inexact != 0 {
		t.Fatalf("sqrt(4) should be exact")
	}
	want := new(BigDecimal).SetUint64(2)
	if z.Cmp(want) != 0 {
		t.Fatalf("sqrt(4) = %v, want 2", renderDec(&z))
	}
}

func TestBigDecimalRemTruncatedQuotient(t *testing.T) {
	ctx := NewContext(nil)
	x := new(BigDecimal).SetUint64(17)
	y := new(BigDecimal).SetUint64(5)
	var z BigDecimal
	z.Rem(ctx, x, y, 50)
	want := new(BigDecimal).SetUint64(2)
	if z.Cmp(want) != 0 {
		t.Fatalf("17 rem 5 = %v, want 2", renderDec(&z))
	}
}

func TestBigDecimalFormatRoundTrip(t *testing.T) {
	ctx := NewContext(nil)
	x, _, err := ParseBigDecimal(ctx, "123.45", 50, Flags{Mode: RNDN})
	if err != nil {
		t.Fatalf("ParseBigDecimal: %v", err)
	}
	s, err := FormatBigDecimal(ctx, x, FormatFixed)
	if err != nil {
		t.Fatalf("FormatBigDecimal: %v", err)
	}
	if s != "123.45" {
		t.Fatalf("FormatBigDecimal(123.45) = %q, want \"123.45\"", s)
	}
	back, _, err := ParseBigDecimal(ctx, s, 50, Flags{Mode: RNDN})
	if err != nil {
		t.Fatalf("re-parsing %q: %v", s, err)
	}
	if back.Cmp(x) != 0 {
		t.Fatalf("round trip through %q did not preserve value", s)
	}
}

func TestBigDecimalParseWithExponent(t *testing.T) {
	ctx := NewContext(nil)
	x, _, err := ParseBigDecimal(ctx, "1.5e3", 50, Flags{Mode: RNDN})
	if err != nil {
		t.Fatalf("ParseBigDecimal: %v", err)
	}
	want := new(BigDecimal).SetUint64(1500)
	if x.Cmp(want) != 0 {
		t.Fatalf("1.5e3 = %v, want 1500", renderDec(x))
	}
}

func renderDec(x *BigDecimal) string {
	ctx := NewContext(nil)
	s, err := FormatBigDecimal(ctx, x, FormatFixed)
	if err != nil {
		return "<format error: " + err.Error() + ">"
	}
	return s
}
