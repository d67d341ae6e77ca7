package game

import (
	"math"
	"testing"
)

func TestFixedStepperAdvance(t *testing.T) {
	// 2 的幂步长，累加时没有舍入误差
	const step = 1.0 / 64.0

	tests := []struct {
		name      string
		frames    []float64
		wantSteps int
	}{
		{name: "exact frames", frames: []float64{step, step, step}, wantSteps: 3},
		{name: "accumulates short frames", frames: []float64{step / 2, step / 2, step / 2}, wantSteps: 1},
		{name: "long frame clamped to max", frames: []float64{2.0}, wantSteps: 8},
		{name: "negative frame ignored", frames: []float64{-1, step}, wantSteps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFixedStepper(step, 0.125)
			total := 0
			calls := 0
			for _, f := range tt.frames {
				total += s.Advance(f, func(dt float64) {
					if dt != step {
						t.Errorf("step dt = %f, want %f", dt, step)
					}
					calls++
				})
			}
			if total != tt.wantSteps || calls != tt.wantSteps {
				t.Errorf("steps = %d (calls %d), want %d", total, calls, tt.wantSteps)
			}
			if s.Pending() < 0 || s.Pending() >= step {
				t.Errorf("pending %f outside [0, step)", s.Pending())
			}
		})
	}
}

func TestFixedStepperReset(t *testing.T) {
	s := NewFixedStepper(0.01, 0.1)
	s.Advance(0.005, func(float64) {})
	if math.Abs(s.Pending()-0.005) > 1e-12 {
		t.Fatalf("pending = %f, want 0.005", s.Pending())
	}
	s.Reset()
	if s.Pending() != 0 {
		t.Errorf("pending after Reset = %f", s.Pending())
	}
	if s.Step() != 0.01 {
		t.Errorf("Step() = %f", s.Step())
	}
}
