package control

import (
	"testing"

	"github.com/golang/geo/r3"
)

func TestBlendWeight(t *testing.T) {
	p := DefaultParams()
	p.RateLow, p.RateHigh = 2, 6

	if a := p.BlendWeight(0); a != 0 {
		t.Errorf("expected 0 at rest, got %g", a)
	}
	if a := p.BlendWeight(2); a != 0 {
		t.Errorf("expected exactly 0 at the low threshold, got %g", a)
	}
	if a := p.BlendWeight(6); a != 1 {
		t.Errorf("expected exactly 1 at the high threshold, got %g", a)
	}
	if a := p.BlendWeight(4); notSmall(a - 0.5) {
		t.Errorf("expected 0.5 midway, got %g", a)
	}

	prev := 0.0
	for x := 2.0; x <= 6; x += 0.01 {
		a := p.BlendWeight(x)
		if a < prev {
			t.Errorf("weight decreased at %g: %g < %g", x, a, prev)
		}
		prev = a
	}
	if a := p.BlendWeight(2 + 1e-7); a > 1e-9 {
		t.Errorf("jump above the low threshold: %g", a)
	}
	if a := p.BlendWeight(6 - 1e-7); a < 1-1e-9 {
		t.Errorf("jump below the high threshold: %g", a)
	}
}

func TestBlendWeightStep(t *testing.T) {
	p := DefaultParams()
	if p.RateLow != p.RateHigh {
		t.Fatalf("default thresholds are expected to coincide")
	}
	if a := p.BlendWeight(p.RateLow); a != 0 {
		t.Errorf("expected 0 at the step, got %g", a)
	}
	if a := p.BlendWeight(p.RateLow + 1e-9); a != 1 {
		t.Errorf("expected 1 just above the step, got %g", a)
	}
}

func TestBlend(t *testing.T) {
	ff := LawOutput{Thrust: 40000, Moment: r3.Vector{X: 1000, Y: -2000, Z: 3000}}
	tr := LawOutput{Thrust: 20000, Moment: r3.Vector{X: -1000, Y: 2000, Z: 1000}}

	var cmd Command
	Blend(&cmd, 0.25, &ff, &tr)
	expected := Command{Thrust: 25000, Roll: -500, Pitch: 1000, Yaw: 1500}
	if cmd != expected {
		t.Errorf("expected %+v, got %+v", expected, cmd)
	}

	Blend(&cmd, 0, &ff, &tr)
	if cmd.Thrust != tr.Thrust || cmd.Roll != tr.Moment.X || cmd.Yaw != tr.Moment.Z {
		t.Errorf("alpha 0 should give the tracking law alone, got %+v", cmd)
	}
	Blend(&cmd, 1, &ff, &tr)
	if cmd.Thrust != ff.Thrust || cmd.Pitch != ff.Moment.Y {
		t.Errorf("alpha 1 should give the feedforward law alone, got %+v", cmd)
	}
}

func TestBlendZeroThrustOverride(t *testing.T) {
	ff := LawOutput{Thrust: 0, Moment: r3.Vector{X: 32000, Y: -32000, Z: 100}}
	tr := LawOutput{Thrust: 0, Moment: r3.Vector{X: 5, Y: 6, Z: -7}}

	for _, alpha := range []float64{0, 0.3, 1} {
		cmd := Command{Roll: 1, Pitch: 1, Yaw: 1}
		Blend(&cmd, alpha, &ff, &tr)
		if cmd != (Command{}) {
			t.Errorf("alpha %g: zero thrust should command zero moments, got %+v", alpha, cmd)
		}
	}

	// Thrusts that cancel exactly also count as off.
	ff.Thrust, tr.Thrust = 1000, -1000
	var cmd Command
	Blend(&cmd, 0.5, &ff, &tr)
	if cmd != (Command{}) {
		t.Errorf("cancelling thrusts should command zero moments, got %+v", cmd)
	}
}
