package bigfloat

import "testing"

func TestNormalizeAndRoundExact(t *testing.T) {
	mant := natMake(1)
	mant[0] = 1 << 63
	out, exp, status, _, _ := normalizeAndRound(mant, 5, false, 64, Flags{Mode: RNDN}, 0)
	if status != 0 {
		t.Fatalf("exact-fit rounding should report no status, got %v", status)
	}
	if out.cmp(mant) != 0 || exp != 5 {
		t.Fatalf("exact-fit rounding changed the value: out=%v exp=%d", out, exp)
	}
}

func TestNormalizeAndRoundTiesToEvenRoundsUpOnOddLsb(t *testing.T) {
	// keeping the top 3 bits (prec=3): 0b101 (odd lsb) with bit 60 as
	// the exact-halfway round bit and nothing below. Ties-to-even moves
	// an odd candidate to the even neighbor, 0b110.
	mant := natMake(1)
	mant[0] = 1<<63 | 1<<61 | 1<<60
	out, _, status, _, _ := normalizeAndRound(mant, 0, false, 3, Flags{Mode: RNDN}, 0)
	if status&Inexact == 0 {
		t.Fatalf("expected Inexact status for a lossy round")
	}
	if out[0] != 1<<63|1<<62 {
		t.Fatalf("ties-to-even on an odd lsb should round up: got %#x", out[0])
	}
}

func TestNormalizeAndRoundTiesToEvenRoundsDownOnEvenLsb(t *testing.T) {
	// top 3 bits: 0b100 (even lsb) with bit 60 as the exact-halfway
	// round bit. Ties-to-even leaves an even candidate unchanged.
	mant := natMake(1)
	mant[0] = 1<<63 | 1<<60
	out, _, status, _, _ := normalizeAndRound(mant, 0, false, 3, Flags{Mode: RNDN}, 0)
	if status&Inexact == 0 {
		t.Fatalf("expected Inexact status for a lossy round")
	}
	if out[0] != 1<<63 {
		t.Fatalf("ties-to-even on an even lsb should round down: got %#x", out[0])
	}
}

func TestNormalizeAndRoundTowardZeroTruncates(t *testing.T) {
	mant := natMake(1)
	mant[0] = 0xffffffffffffffff
	out, _, status, _, _ := normalizeAndRound(mant, 0, false, 4, Flags{Mode: RNDZ}, 0)
	if status&Inexact == 0 {
		t.Fatalf("expected Inexact status when truncating")
	}
	if out.bitLen()-int(out.trailingZeroBits()) > 4 {
		t.Fatalf("RNDZ result has more than 4 significant bits: %v", out)
	}
}

func TestCanRoundFacetsDetectAmbiguity(t *testing.T) {
	// an all-ones run straddling the cut point should force a retry.
	mant := natMake(2)
	mant[1] = ^uint64(0)
	mant[0] = ^uint64(0)
	if canRound(mant, 128, 60, RNDN) {
		t.Fatalf("expected canRound to report ambiguity for an all-ones run")
	}
}

func TestCanRoundFaithfulNeverRetries(t *testing.T) {
	mant := natMake(1)
	mant[0] = 1 << 63
	if !canRound(mant, 64, 10, RNDF) {
		t.Fatalf("RNDF should never require a retry")
	}
}
