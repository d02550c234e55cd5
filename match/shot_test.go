package match

import (
	"math"
	"testing"
)

func TestShotProbabilityRange(t *testing.T) {
	for skill := 1; skill <= 10; skill++ {
		prev := math.Inf(1)
		for d := 1; d <= 200; d++ {
			p := ShotProbability(d, skill)
			if p <= 0 || p > 1 {
				t.Fatalf("ShotProbability(%d,%d) = %f, want (0,1]", d, skill, p)
			}
			if p > prev {
				t.Fatalf("ShotProbability increased with distance at d=%d skill=%d: %f > %f", d, skill, p, prev)
			}
			prev = p
			if skill > 1 && p < ShotProbability(d, skill-1) {
				t.Fatalf("ShotProbability decreased with skill at d=%d skill=%d", d, skill)
			}
		}
	}
}

func TestShotProbabilityValue(t *testing.T) {
	// (10+90·5) / (0.5·100·10 − 0.5) / 100
	want := 460.0 / 499.5 / 100
	if got := ShotProbability(100, 5); math.Abs(got-want) > 1e-9 {
		t.Fatalf("ShotProbability(100,5) = %f, want %f", got, want)
	}
	if got := ShotProbability(1, 1); got != 1 {
		t.Fatalf("ShotProbability(1,1) = %f, want 1", got)
	}
}

func TestDetermineShotSuccessLandsOnTarget(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0}}
	target := Point{128, 32}
	if got := DetermineShot(rng, 1, Point{0, 0}, target); got != target {
		t.Fatalf("DetermineShot = %v, want %v", got, target)
	}
}

func TestDetermineShotMissEnvelope(t *testing.T) {
	origin := Point{40, 10}
	targets := []Point{{64, 32}, {128, 32}, {0, 32}, {10, 64}, {120, 0}}
	for _, target := range targets {
		for mx := 0; mx < 8; mx++ {
			for sx := 0; sx < 2; sx++ {
				for my := 0; my < 8; my++ {
					for sy := 0; sy < 2; sy++ {
						rng := &scriptedRand{floats: []float64{0.999}, ints: []int{mx, sx, my, sy}}
						got := DetermineShot(rng, 1, origin, target)
						if !got.InBounds() {
							t.Fatalf("miss toward %v landed out of bounds at %v", target, got)
						}
						if got.X != overshootLeftX && got.X != overshootRightX && abs(got.X-target.X) > 4 {
							t.Fatalf("miss toward %v: x offset too large at %v", target, got)
						}
						if abs(got.Y-target.Y) > 4 {
							t.Fatalf("miss toward %v: y offset too large at %v", target, got)
						}
					}
				}
			}
		}
	}
}

func TestDetermineShotClampsToInsetValues(t *testing.T) {
	cases := []struct {
		target Point
		ints   []int
		want   Point
	}{
		// X +3 越过右底线 → 108
		{Point{128, 32}, []int{5, 1, 0, 0}, Point{108, 32}},
		// X -2 越过左底线 → 20
		{Point{0, 32}, []int{3, 0, 0, 0}, Point{20, 32}},
		// Y +4 越过边线 → 64
		{Point{60, 64}, []int{0, 0, 7, 1}, Point{60, 64}},
		// Y -1 越过边线 → 0
		{Point{60, 0}, []int{0, 0, 1, 0}, Point{60, 0}},
	}
	for _, c := range cases {
		rng := &scriptedRand{floats: []float64{0.999}, ints: c.ints}
		if got := DetermineShot(rng, 1, Point{0, 0}, c.target); got != c.want {
			t.Fatalf("DetermineShot(%v, %v) = %v, want %v", c.target, c.ints, got, c.want)
		}
	}
}
