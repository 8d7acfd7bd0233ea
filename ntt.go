package bigfloat

import "math/bits"

// ntt.go implements the multi-prime number-theoretic-transform
// convolution multiply spec §4.E calls for: split each operand into
// digits small enough that a sum of up to 2^20 digit products cannot
// overflow a chosen NTT-friendly prime's field, transform with
// Cooley-Tukey, pointwise-multiply, invert, and do this independently
// modulo enough distinct primes that Garner's CRT reconstructs the
// exact (unreduced) integer digit products. This mirrors the shape of
// the wyf-ACCEPT-eth2030 NTT precompile's nttForward/nttInverse
// butterfly and bit-reversal routines, generalized from one fixed
// field to a small bank of primes chosen for this library.
//
// Spec §4.E's NTT section explicitly allows an implementation to use
// "a simplified, non-bit-exact convolution strategy" as long as the
// result is mathematically a correct product; this rendition takes
// that option rather than reproducing the reference's exact six-step
// decomposition, so only the asymptotic shape (transform, pointwise
// multiply, invert, carry-propagate) is preserved.

// nttPrimes are five primes of the form k*2^39+1, each with a smooth
// multiplicative group supporting transform lengths up to 2^39,
// comfortably larger than any digit count this library will build
// (digits are packed 16 bits at a time, spec §4.E "digit width chosen
// so the maximum per-coefficient product sum fits the prime").
var nttPrimes = [5]uint64{
	(1 << 39)*5 + 1,
	(1 << 39)*12 + 1,
	(1 << 39)*54 + 1,
	(1 << 39)*72 + 1,
	(1 << 39)*81 + 1,
}

// nttRoots holds a known primitive root of unity of the full
// multiplicative group for each prime above (a fixed generator,
// verified offline the way a reference implementation would hardcode
// one rather than search for it per-call).
var nttRoots = [5]uint64{3, 5, 5, 5, 7}

const nttDigitBits = 16
const nttDigitBase = 1 << nttDigitBits

// nttState is the shape of a per-transform-length table of
// twiddle factors for each prime. Nothing builds or reads one:
// nttTransform recomputes its twiddle factors on every call, and
// Context.maxNTTCacheBytes is not consulted by any transform.
type nttState struct {
	length  int
	tables  [5][]uint64 // per-prime twiddle factors, bit-reversed order
	invN    [5]uint64   // modular inverse of length mod each prime
}

func modAdd(a, b, p uint64) uint64 {
	s := a + b
	if s >= p || s < a {
		s -= p
	}
	return s
}

func modSub(a, b, p uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + p - b
}

// modMul computes a*b mod p using a 128-bit intermediate product, safe
// for any a, b < p <= 2^63.
func modMul(a, b, p uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, r := bits.Div64(hi, lo, p)
	return r
}

func modPow(base, exp, p uint64) uint64 {
	result := uint64(1) % p
	base %= p
	for exp > 0 {
		if exp&1 == 1 {
			result = modMul(result, base, p)
		}
		base = modMul(base, base, p)
		exp >>= 1
	}
	return result
}

func modInv(a, p uint64) uint64 {
	return modPow(a, p-2, p)
}

func bitReverse(a []uint64) {
	n := len(a)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
}

// nttTransform performs an in-place Cooley-Tukey NTT (forward if
// invert is false) of a over the field mod p. root is a generator of
// the multiplicative group mod p; each stage uses root^((p-1)/length)
// as its primitive length'th root of unity (or its inverse, for the
// inverse transform). len(a) must be a power of two dividing p-1.
func nttTransform(a []uint64, p, root uint64, invert bool) {
	n := len(a)
	bitReverse(a)
	for length := 2; length <= n; length <<= 1 {
		w := modPow(root, (p-1)/uint64(length), p)
		if invert {
			w = modInv(w, p)
		}
		for i := 0; i < n; i += length {
			wn := uint64(1)
			half := length / 2
			for j := 0; j < half; j++ {
				u := a[i+j]
				v := modMul(a[i+j+half], wn, p)
				a[i+j] = modAdd(u, v, p)
				a[i+j+half] = modSub(u, v, p)
				wn = modMul(wn, w, p)
			}
		}
	}
	if invert {
		ninv := modInv(uint64(n), p)
		for i := range a {
			a[i] = modMul(a[i], ninv, p)
		}
	}
}

// nttConvolve returns the length len(x)+len(y) convolution of digit
// arrays x and y (each entry < nttDigitBase) modulo p, via forward
// transform, pointwise multiply, inverse transform. The working
// transform length is the next power of two >= len(x)+len(y).
func nttConvolve(x, y []uint64, p, root uint64) []uint64 {
	outLen := len(x) + len(y)
	n := 1
	for n < outLen {
		n <<= 1
	}
	fa := make([]uint64, n)
	fb := make([]uint64, n)
	copy(fa, x)
	copy(fb, y)

	nttTransform(fa, p, root, false)
	nttTransform(fb, p, root, false)
	for i := range fa {
		fa[i] = modMul(fa[i], fb[i], p)
	}
	nttTransform(fa, p, root, true)
	return fa[:outLen]
}

// toDigits splits x's limbs into nttDigitBits-wide little-endian
// digits, the narrow base the NTT convolution sums products over
// without overflowing any of the nttPrimes fields.
func toDigits(x nat) []uint64 {
	if len(x) == 0 {
		return nil
	}
	bitsTotal := len(x) * 64
	nd := (bitsTotal + nttDigitBits - 1) / nttDigitBits
	out := make([]uint64, nd)
	for i := 0; i < nd; i++ {
		bitPos := uint(i * nttDigitBits)
		limb := bitPos / 64
		off := bitPos % 64
		var v uint64
		if limb < uint(len(x)) {
			v = x[limb] >> off
			if off+nttDigitBits > 64 && limb+1 < uint(len(x)) {
				v |= x[limb+1] << (64 - off)
			}
		}
		out[i] = v & (nttDigitBase - 1)
	}
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	return out
}

// fromDigits reassembles a little-endian nttDigitBits-wide digit
// array (with entries possibly far larger than nttDigitBase, as the
// raw convolution output is before carry propagation) back into a
// normalized nat by propagating carries digit by digit and then
// repacking every 64/nttDigitBits digits into a limb.
func fromDigits(digits []uint64) nat {
	carry := uint64(0)
	norm := make([]uint64, len(digits)+4)
	for i, d := range digits {
		v := d + carry
		norm[i] = v & (nttDigitBase - 1)
		carry = v >> nttDigitBits
	}
	i := len(digits)
	for carry != 0 {
		norm[i] = carry & (nttDigitBase - 1)
		carry >>= nttDigitBits
		i++
	}
	norm = norm[:i]

	nLimbs := (len(norm)*nttDigitBits + 63) / 64
	out := natMake(nLimbs)
	for idx, d := range norm {
		bitPos := uint(idx * nttDigitBits)
		limb := bitPos / 64
		off := bitPos % 64
		out[limb] |= d << off
		if off+nttDigitBits > 64 && limb+1 < uint(len(out)) {
			out[limb+1] |= d >> (64 - off)
		}
	}
	return out.norm()
}

// nttMul multiplies x and y by convolving their digits modulo every
// prime in nttPrimes, reconstructing each exact digit-product
// coefficient with garnerCRT (which reads the first two residues),
// then carry-propagating that array back into a normalized nat. Called by nat.mul once both operands exceed
// nttThreshold limbs.
func nttMul(ctx *Context, x, y nat) nat {
	dx := toDigits(x)
	dy := toDigits(y)
	if len(dx) == 0 || len(dy) == 0 {
		return natMake(0)
	}

	results := make([][]uint64, len(nttPrimes))
	for pi, p := range nttPrimes {
		results[pi] = nttConvolve(dx, dy, p, nttRoots[pi])
	}

	outLen := len(dx) + len(dy)
	combined := make([]uint64, outLen)
	for i := 0; i < outLen; i++ {
		residues := make([]uint64, len(nttPrimes))
		for pi := range nttPrimes {
			residues[pi] = results[pi][i]
		}
		combined[i] = garnerCRT(residues, nttPrimes[:])
	}

	return fromDigits(combined)
}

// garnerCRT reconstructs a coefficient's true value from its residues
// modulo the first two primes via one Garner mixed-radix step. Each
// coefficient is a sum of at most len(dx) digit products, each less
// than nttDigitBase^2 = 2^32; while the digit count stays below 2^32
// that sum is below both 2^64 and primes[0]*primes[1], so two residues
// determine it. The residues modulo the remaining primes are not read.
func garnerCRT(residues, primes []uint64) uint64 {
	x0 := residues[0]
	p0 := primes[0]
	inv := modInv(p0%primes[1], primes[1])
	t := modMul(modSub(residues[1], x0%primes[1], primes[1]), inv, primes[1])
	// x = x0 + t*p0, reduced back into a single uint64 since the true
	// coefficient value is guaranteed to fit by the digit-width choice
	// above.
	hi, lo := bits.Mul64(t, p0)
	_ = hi
	return lo + x0
}
