package bigfloat

import (
	"strings"
	"testing"
)

func TestParseFormatFreeFormRoundTrip(t *testing.T) {
	ctx := NewContext(nil)
	one := new(BigFloat).SetInt64(1)
	three := new(BigFloat).SetInt64(3)
	var third BigFloat
	third.Quo(ctx, one, three, 64, Flags{Mode: RNDN})

	s, err := FormatBigFloat(ctx, &third, 10, FormatFree, 0, Flags{Mode: RNDN})
	if err != nil {
		t.Fatalf("FormatBigFloat: %v", err)
	}
	if !strings.HasPrefix(s, "0.333") {
		t.Fatalf("1/3 formatted as %q, want a 0.333... prefix", s)
	}

	back, _, err := ParseBigFloat(ctx, s, 10, 64, Flags{Mode: RNDN})
	if err != nil {
		t.Fatalf("ParseBigFloat(%q): %v", s, err)
	}
	diff := new(BigFloat)
	diff.Sub(ctx, back, &third, 64, Flags{Mode: RNDN})
	diff.Abs(diff)
	tol := new(BigFloat).SetInt64(1)
	tol.exp -= 60
	if diff.Cmp(tol) > 0 {
		t.Fatalf("round trip of %q did not recover 1/3 closely enough: diff=%v", s, diff)
	}
}

func TestParseIntegerRadices(t *testing.T) {
	ctx := NewContext(nil)
	cases := []struct {
		s    string
		want int64
	}{
		{"255", 255},
		{"0xff", 255},
		{"0o377", 255},
		{"0b11111111", 255},
	}
	for _, c := range cases {
		x, _, err := ParseBigFloat(ctx, c.s, 0, 53, Flags{Mode: RNDN})
		if err != nil {
			t.Fatalf("ParseBigFloat(%q): %v", c.s, err)
		}
		want := new(BigFloat).SetInt64(c.want)
		if x.Cmp(want) != 0 {
			t.Fatalf("ParseBigFloat(%q) = %v, want %d", c.s, x, c.want)
		}
	}
}

func TestFormatFixedAndExponential(t *testing.T) {
	ctx := NewContext(nil)
	x := new(BigFloat).SetInt64(1234)

	fixed, err := FormatBigFloat(ctx, x, 10, FormatFixed, 0, Flags{Mode: RNDN})
	if err != nil {
		t.Fatalf("FormatBigFloat fixed: %v", err)
	}
	if !strings.HasPrefix(fixed, "1234") {
		t.Fatalf("fixed format of 1234 = %q, want a 1234 prefix", fixed)
	}

	exp, err := FormatBigFloat(ctx, x, 10, FormatExponential, 4, Flags{Mode: RNDN})
	if err != nil {
		t.Fatalf("FormatBigFloat exponential: %v", err)
	}
	if !strings.Contains(exp, "e") {
		t.Fatalf("exponential format of 1234 = %q, want an 'e' marker", exp)
	}
}

func TestParseInfAndNaN(t *testing.T) {
	ctx := NewContext(nil)
	inf, _, err := ParseBigFloat(ctx, "inf", 10, 53, Flags{Mode: RNDN})
	if err != nil || !inf.IsInf() {
		t.Fatalf("ParseBigFloat(\"inf\"): got %v, err %v", inf, err)
	}
	negInf, _, err := ParseBigFloat(ctx, "-infinity", 10, 53, Flags{Mode: RNDN})
	if err != nil || !negInf.IsInf() || !negInf.Signbit() {
		t.Fatalf("ParseBigFloat(\"-infinity\"): got %v, err %v", negInf, err)
	}
	nan, _, err := ParseBigFloat(ctx, "nan", 10, 53, Flags{Mode: RNDN})
	if err != nil || !nan.IsNaN() {
		t.Fatalf("ParseBigFloat(\"nan\"): got %v, err %v", nan, err)
	}
}

func TestParseInvalidSyntax(t *testing.T) {
	ctx := NewContext(nil)
	if _, _, err := ParseBigFloat(ctx, "", 10, 53, Flags{Mode: RNDN}); err == nil {
		t.Fatalf("expected error parsing empty string")
	}
	if _, _, err := ParseBigFloat(ctx, "12x34", 10, 53, Flags{Mode: RNDN}); err == nil {
		t.Fatalf("expected error parsing invalid digit")
	}
}
