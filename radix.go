package bigfloat

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// radix.go implements the literal <-> BigFloat conversion spec §4.I
// describes: atof-style parsing (sign, 0x/0o/0b prefixes, integer,
// fractional, and e/E/p/P exponent parts) and ftoa-style formatting in
// fixed, exponential, and "free" forms (free output uses the fixed
// notation; it is not a shortest round-trip search).
// The formatter's structure follows db47h/decimal's decimal_toa.go
// (bufSizeForFmt/fmtF/fmtE dispatch on a small FormatMode enum), which
// itself follows the standard library's strconv/math-big ftoa; the
// parser follows the same teacher's atof shape generalized to
// arbitrary radix.

// FormatMode selects the output form FormatBigFloat/FormatBigDecimal
// use, named after math/big's ftoa verbs but expressed as an enum
// instead of a rune since this library has no fmt.Formatter hookup.
type FormatMode int

const (
	FormatFree FormatMode = iota // fixed notation, as FormatFixed; no shortest-string search
	FormatFixed
	FormatExponential
)

const lowercaseDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// ParseBigFloat parses s as a BigFloat at the given radix (0 infers
// from a 0x/0o/0b prefix, defaulting to 10) rounded to prec bits under
// mode. The exponent marker is 'p'/'P' for radix 16 (binary exponent,
// as in C99 hex floats) and 'e'/'E' for radix 10 (decimal exponent);
// '@' is accepted for either as a radix-agnostic alternative, matching
// spec §4.I's atof grammar.
func ParseBigFloat(ctx *Context, s string, radix int, prec uint, flags Flags) (*BigFloat, Status, error) {
	orig := s
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if s == "" {
		return nil, 0, errors.Wrapf(errSyntax, "parsing %q", orig)
	}

	if strings.EqualFold(s, "inf") || strings.EqualFold(s, "infinity") {
		return new(BigFloat).SetInf(neg), 0, nil
	}
	if strings.EqualFold(s, "nan") {
		return new(BigFloat).SetNaN(), 0, nil
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
	if radix < 2 || radix > 36 {
		return nil, 0, errInvalidRadix
	}

	expMarkers := "eE@"
	if radix == 16 {
		expMarkers = "pP@"
	}

	mantStr := s
	expStr := ""
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(expMarkers, s[i]) >= 0 {
			mantStr = s[:i]
			expStr = s[i+1:]
			break
		}
	}

	intPart := mantStr
	fracPart := ""
	if dot := strings.IndexByte(mantStr, '.'); dot >= 0 {
		intPart = mantStr[:dot]
		fracPart = mantStr[dot+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, 0, errors.Wrapf(errSyntax, "parsing %q", orig)
	}

	var extraExp int64
	if expStr != "" {
		v, err := strconv.ParseInt(expStr, 10, 64)
		if err != nil {
			return nil, 0, errors.Wrapf(errSyntax, "parsing exponent in %q", orig)
		}
		extraExp = v
	}

	digits := intPart + fracPart
	acc := natMake(0)
	base := uint64(radix)
	for i := 0; i < len(digits); i++ {
		d := digitValue(digits[i])
		if d < 0 || uint64(d) >= base {
			return nil, 0, errors.Wrapf(errSyntax, "invalid digit %q in %q", digits[i], orig)
		}
		acc = acc.mulAddWW(acc, base, uint64(d))
	}

	z := new(BigFloat)
	if len(acc) == 0 {
		z.SetZero(neg)
		return z, 0, nil
	}
	z.mant = z.mant.set(acc)
	bl := z.mant.bitLen()
	shift := fnorm(z.mant)
	z.exp = int64(bl)
	_ = shift
	z.neg = neg

	// Account for the fractional digit count and the explicit exponent.
	// For radix 16, the 'p' exponent marker is a C99 hex-float binary
	// exponent and applies directly to z's bit exponent; a fractional
	// part still divides the mantissa by 16^len(fracPart), which is
	// itself a power of two and so also folds into the bit exponent.
	// For every other radix the exponent and fractional part both scale
	// by powers of the radix itself, applied via one shared loop.
	if radix == 16 {
		z.exp += extraExp - int64(len(fracPart))*4
	} else {
		netDigitExp := extraExp - int64(len(fracPart))
		if netDigitExp != 0 {
			r := new(BigFloat).SetInt64(int64(radix))
			if netDigitExp > 0 {
				scale := new(BigFloat).SetInt64(1)
				for i := int64(0); i < netDigitExp; i++ {
					scale.Mul(ctx, scale, r, prec+64, Flags{Mode: RNDN})
				}
				z.Mul(ctx, z, scale, prec+64, Flags{Mode: RNDN})
			} else {
				scale := new(BigFloat).SetInt64(1)
				for i := int64(0); i < -netDigitExp; i++ {
					scale.Mul(ctx, scale, r, prec+64, Flags{Mode: RNDN})
				}
				z.Quo(ctx, z, scale, prec+64, Flags{Mode: RNDN})
			}
		}
	}

	status := z.round(prec, flags, 0)
	return z, status, nil
}

// FormatBigFloat renders x in the given FormatMode. The digits written
// are always decimal: radix must lie in [2, 36] but otherwise only
// picks FormatExponential's exponent marker ('p' for 16, 'e' for any
// other radix; the exponent is a power of ten either way). digits is
// the number of significant digits to produce for every format (0
// selects about len(x.mant)*64*log10(2)+2, the whole mantissa);
// trailing zeros are trimmed. FormatFree writes the same fixed
// notation as FormatFixed and does not search for the shortest string
// that parses back to x.
func FormatBigFloat(ctx *Context, x *BigFloat, radix int, format FormatMode, digits int, flags Flags) (string, error) {
	if radix < 2 || radix > 36 {
		return "", errInvalidRadix
	}
	b := newDynBuf(ctx)
	if x.neg {
		b.WriteByte('-')
	}
	switch {
	case x.IsNaN():
		b.WriteString("nan")
		return b.String(), nil
	case x.IsInf():
		b.WriteString("inf")
		return b.String(), nil
	case x.IsZero():
		b.WriteByte('0')
		return b.String(), nil
	}

	decDigits, decExp := mantissaToDecimalDigits(ctx, x, digits, format, flags.Mode)

	switch format {
	case FormatFixed:
		fmtF(b, decDigits, decExp)
	case FormatExponential:
		fmtE(b, decDigits, decExp, radix)
	default:
		fmtF(b, decDigits, decExp)
	}
	if err := b.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// mantissaToDecimalDigits converts x's binary mantissa into a decimal
// digit string and decimal exponent (value = 0.d1d2d3... * 10^decExp).
// Rather than peeling digits out of the raw limb representation, it
// drives the job through BigFloat's own Mul/Sub/Cmp: scale |x| down to
// a fraction in [0.1, 1) by an estimated power of ten, then repeatedly
// multiply by ten and split off the leading digit by comparison
// against 0..9. This costs more arithmetic than a bespoke digit
// extractor but reuses already-correct rounding and normalization
// instead of duplicating them, matching the "keep one rounding engine"
// principle round.go's doc comment states.
func mantissaToDecimalDigits(ctx *Context, x *BigFloat, digits int, format FormatMode, mode RoundingMode) (string, int) {
	if digits <= 0 {
		bits := len(x.mant) * 64
		digits = int(float64(bits)/3.3219280948873626) + 2
	}
	workPrec := uint(digits)*4 + 64
	work := Flags{Mode: mode}

	absX := new(BigFloat).Abs(x)
	decExp := int(float64(x.exp)*0.3010299956639812) + 1

	scale := bigFloatPow10(ctx, decExp, workPrec)
	frac := new(BigFloat)
	frac.Quo(ctx, absX, scale, workPrec, work)

	one := new(BigFloat).SetInt64(1)
	tenth := bigFloatPow10(ctx, -1, workPrec)
	// nudge decExp so frac lands in [0.1, 1).
	for frac.Cmp(one) >= 0 {
		decExp++
		scale = bigFloatPow10(ctx, decExp, workPrec)
		frac.Quo(ctx, absX, scale, workPrec, work)
	}
	for frac.Sign() != 0 && frac.Cmp(tenth) < 0 {
		decExp--
		scale = bigFloatPow10(ctx, decExp, workPrec)
		frac.Quo(ctx, absX, scale, workPrec, work)
	}

	ten := new(BigFloat).SetInt64(10)
	var sb strings.Builder
	for i := 0; i < digits; i++ {
		frac.Mul(ctx, frac, ten, workPrec, work)
		d := 0
		for dd := 9; dd >= 0; dd-- {
			dBF := new(BigFloat).SetInt64(int64(dd))
			if frac.Cmp(dBF) >= 0 {
				d = dd
				frac.Sub(ctx, frac, dBF, workPrec, work)
				break
			}
		}
		sb.WriteByte(byte('0' + d))
	}
	s := strings.TrimRight(sb.String(), "0")
	if s == "" {
		s = "0"
	}
	return s, decExp
}

// bigFloatPow10 returns 10^n as a BigFloat at the given precision,
// via exact BigInt exponentiation for n >= 0 and a reciprocal for n < 0.
func bigFloatPow10(ctx *Context, n int, prec uint) *BigFloat {
	absN := n
	if absN < 0 {
		absN = -absN
	}
	bi := NewBigInt(10)
	bi = bi.Exp(ctx, bi, NewBigInt(int64(absN)), nil)
	bf := new(BigFloat).SetBigInt(bi)
	if n >= 0 {
		r := new(BigFloat)
		r.Round(ctx, bf, prec, Flags{Mode: RNDN})
		return r
	}
	one := new(BigFloat).SetInt64(1)
	r := new(BigFloat)
	r.Quo(ctx, one, bf, prec, Flags{Mode: RNDN})
	return r
}

// fmtF writes digits in fixed (non-exponential) notation with the
// decimal point placed according to decExp.
func fmtF(b *dynBuf, digits string, decExp int) {
	switch {
	case decExp <= 0:
		b.WriteString("0.")
		for i := 0; i < -decExp; i++ {
			b.WriteByte('0')
		}
		b.WriteString(digits)
	case decExp >= len(digits):
		b.WriteString(digits)
		for i := len(digits); i < decExp; i++ {
			b.WriteByte('0')
		}
	default:
		b.WriteString(digits[:decExp])
		b.WriteByte('.')
		b.WriteString(digits[decExp:])
	}
}

// fmtE writes digits in exponential notation: d.ddd...e+NN.
func fmtE(b *dynBuf, digits string, decExp int, radix int) {
	b.WriteByte(digits[0])
	if len(digits) > 1 {
		b.WriteByte('.')
		b.WriteString(digits[1:])
	}
	if radix == 16 {
		b.WriteByte('p')
	} else {
		b.WriteByte('e')
	}
	b.putInt(int64(decExp-1), true)
}

// FormatBigDecimal renders a BigDecimal; since its mantissa is already
// base-10, this skips the binary-to-decimal digit extraction
// FormatBigFloat needs and just walks decNat's limbs.
func FormatBigDecimal(ctx *Context, x *BigDecimal, format FormatMode) (string, error) {
	b := newDynBuf(ctx)
	if x.neg {
		b.WriteByte('-')
	}
	switch {
	case x.IsNaN():
		b.WriteString("nan")
		return b.String(), nil
	case x.IsInf():
		b.WriteString("inf")
		return b.String(), nil
	case x.IsZero():
		b.WriteByte('0')
		return b.String(), nil
	}

	var sb strings.Builder
	m := x.mant.norm()
	for i := len(m) - 1; i >= 0; i-- {
		if i == len(m)-1 {
			sb.WriteString(strconv.FormatUint(m[i], 10))
		} else {
			s := strconv.FormatUint(m[i], 10)
			for j := len(s); j < decDigitsPerLimb; j++ {
				sb.WriteByte('0')
			}
			sb.WriteString(s)
		}
	}
	digits := sb.String()
	// x.exp already is the decimal-point position for 0.digits (the
	// same convention mantissaToDecimalDigits produces for BigFloat):
	// value = 0.digits * 10^x.exp.
	decExp := int(x.exp)

	switch format {
	case FormatExponential:
		fmtE(b, digits, decExp, 10)
	default:
		fmtF(b, digits, decExp)
	}
	if err := b.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseBigDecimal parses s as a BigDecimal rounded to `digits` decimal
// digits under mode.
func ParseBigDecimal(ctx *Context, s string, digits uint, flags Flags) (*BigDecimal, Status, error) {
	orig := s
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if strings.EqualFold(s, "inf") || strings.EqualFold(s, "infinity") {
		return new(BigDecimal).SetInf(neg), 0, nil
	}
	if strings.EqualFold(s, "nan") {
		return new(BigDecimal).SetNaN(), 0, nil
	}

	expStr := ""
	mantStr := s
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			mantStr = s[:i]
			expStr = s[i+1:]
			break
		}
	}
	intPart, fracPart := mantStr, ""
	if dot := strings.IndexByte(mantStr, '.'); dot >= 0 {
		intPart = mantStr[:dot]
		fracPart = mantStr[dot+1:]
	}
	if intPart == "" && fracPart == "" {
		return nil, 0, errors.Wrapf(errSyntax, "parsing %q", orig)
	}
	var extraExp int64
	if expStr != "" {
		v, err := strconv.ParseInt(expStr, 10, 64)
		if err != nil {
			return nil, 0, errors.Wrapf(errSyntax, "parsing exponent in %q", orig)
		}
		extraExp = v
	}
	allDigits := intPart + fracPart
	mant := decNatMake(0)
	for i := 0; i < len(allDigits); i++ {
		c := allDigits[i]
		if c < '0' || c > '9' {
			return nil, 0, errors.Wrapf(errSyntax, "invalid digit %q in %q", c, orig)
		}
		mant = mant.mulAddWW(mant, 10, uint64(c-'0'))
	}

	z := new(BigDecimal)
	if len(mant) == 0 {
		z.SetZero(neg)
		return z, 0, nil
	}
	z.mant = mant
	// z.exp follows the same offset convention as the rest of this
	// type (value = mant * 10^(exp - digitsLen(mant))): the raw
	// power-of-ten scale implied by the literal is extraExp-len(fracPart),
	// so exp is that plus the digit count.
	z.exp = extraExp - int64(len(fracPart)) + int64(mant.digitsLen())
	z.neg = neg
	status := z.round(digits, flags, 0)
	return z, status, nil
}
