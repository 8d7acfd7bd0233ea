package bigfloat

// sqrt computes floor(sqrt(x)) together with the remainder x - s*s.
// It uses Newton's method over the integers, x_{k+1} = (x_k +
// x/x_k)/2, the same iteration Brent & Zimmermann's "Modern Computer
// Arithmetic" §1.5 derives their integer square root from (bford-go's
// math/big nat.go cites the same source for its recursive sqrt; this
// rendition keeps to the plain Newton form rather than the limb-split
// recursion, trading a constant factor for a much smaller surface to
// get subtly wrong). Starting from a bit-length-derived initial guess,
// each iteration doubles the number of correct bits, so convergence
// takes O(log bitlen(x)) multiply-and-divide rounds.
func (z nat) sqrt(ctx *Context, x nat) (s, r nat) {
	x = x.norm()
	if len(x) == 0 {
		return natMake(0), natMake(0)
	}
	bl := x.bitLen()
	if bl <= 64 {
		v := x[0]
		s0 := isqrtUint64(v)
		sn := natMake(1)
		sn = sn.setUint64(s0)
		rn := natMake(0)
		rn = rn.setUint64(v - s0*s0)
		return sn, rn
	}

	// initial guess: 2^ceil(bl/2), an overestimate by at most a factor
	// close to sqrt(2).
	guess := natMake(0)
	one := natMake(1)
	one[0] = 1
	guess = guess.shl(one, uint(bl+1)/2)

	cur := guess
	for {
		// next = (cur + x/cur) / 2
		q, _ := natMake(0).div(ctx, x, cur)
		sum := natMake(0)
		sum = sum.add(cur, q)
		next := natMake(0)
		next = next.shr(sum, 1)
		if next.cmp(cur) >= 0 {
			break
		}
		cur = next
	}

	s = cur
	sq := natMake(0)
	sq = sq.mul(ctx, s, s)
	for sq.cmp(x) > 0 {
		s = s.sub(s, one)
		sq = sq.mul(ctx, s, s)
	}
	r = natMake(0)
	r = r.sub(x, sq)
	// guard against the rare case Newton's floor-division rounding
	// leaves s one too small: (s+1)^2 <= x would mean we stopped early.
	for {
		s1 := natMake(0)
		s1 = s1.add(s, one)
		sq1 := natMake(0)
		sq1 = sq1.mul(ctx, s1, s1)
		if sq1.cmp(x) > 0 {
			break
		}
		s = s1
		sq = sq1
		r = natMake(0)
		r = r.sub(x, sq)
	}
	return s.norm(), r.norm()
}

// isqrtUint64 computes floor(sqrt(v)) for a single 64-bit limb via
// Newton's method in native uint64 arithmetic, the base case sqrt
// bottoms out to.
func isqrtUint64(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	x := v
	y := x/2 + x%2 // (x+1)/2 without overflow at v = 2^64-1
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return x
}
