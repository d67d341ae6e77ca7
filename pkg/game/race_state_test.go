package game

import (
	"testing"
	"time"
)

func TestRaceStateLifecycle(t *testing.T) {
	s := NewRaceState()
	if s.Phase != PhaseIdle || s.IsRunning() {
		t.Fatalf("new state should be idle, got %s", s.Phase)
	}

	now := time.Unix(100, 0)
	s.Begin(5, 7, now)
	if !s.IsRunning() {
		t.Fatalf("expected running after Begin, got %s", s.Phase)
	}
	if s.TargetRank != 5 {
		t.Errorf("TargetRank = %d, want 5 (clamped)", s.TargetRank)
	}
	gen := s.Generation

	if rank := s.RecordFinish("A"); rank != 1 {
		t.Errorf("first finish rank = %d, want 1", rank)
	}
	if rank := s.RecordFinish("B"); rank != 2 {
		t.Errorf("second finish rank = %d, want 2", rank)
	}

	s.MarkDone()
	if s.Phase != PhaseDone {
		t.Errorf("expected done, got %s", s.Phase)
	}

	// 从 done 重新开始会清空上一局的记录
	s.Begin(2, 1, now)
	if len(s.FinishOrder) != 0 {
		t.Errorf("expected finish order cleared, got %v", s.FinishOrder)
	}
	if s.Generation == gen {
		t.Error("expected generation to change on Begin")
	}

	gen = s.Generation
	s.Clear()
	if s.Phase != PhaseIdle || s.Generation == gen {
		t.Errorf("Clear: phase=%s generation=%d", s.Phase, s.Generation)
	}
}

func TestRaceStateMarkDoneOnlyFromRunning(t *testing.T) {
	s := NewRaceState()
	s.MarkDone()
	if s.Phase != PhaseIdle {
		t.Errorf("MarkDone from idle should be ignored, got %s", s.Phase)
	}
}

func TestRacePhaseString(t *testing.T) {
	tests := map[RacePhase]string{
		PhaseIdle:     "idle",
		PhaseRunning:  "running",
		PhaseDone:     "done",
		RacePhase(42): "unknown",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("RacePhase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
