package systems

import (
	"math"
	"testing"

	"github.com/decker502/marblerace/pkg/physics"
)

func TestCameraFocusWindowHoldsStart(t *testing.T) {
	f := newRaceFixture(t, false)
	f.start(t, []string{"A"}, 1)
	_, _, body := f.ball(t, "A")

	f.world.SetPosition(body, physics.V(260, 1500))
	f.state.Elapsed = f.cfg.Camera.StartFocus - 0.1
	f.cameraSys.AfterStep(testStep)

	if got := f.camera.Main.CenterY; got != f.camera.DefaultCenter() {
		t.Errorf("center during focus window = %.1f, want %.1f", got, f.camera.DefaultCenter())
	}
}

func TestCameraConvergesToLeader(t *testing.T) {
	f := newRaceFixture(t, false)
	f.start(t, []string{"A", "B"}, 1)
	_, _, bodyA := f.ball(t, "A")
	_, _, bodyB := f.ball(t, "B")

	const leaderY = 1500.0
	f.world.SetPosition(bodyA, physics.V(200, leaderY))
	f.world.SetPosition(bodyB, physics.V(300, 900))
	f.state.Elapsed = f.cfg.Camera.StartFocus + 1

	prev := math.Abs(leaderY - f.camera.Main.CenterY)
	for i := 0; i < 60; i++ {
		f.cameraSys.AfterStep(testStep)
		diff := math.Abs(leaderY - f.camera.Main.CenterY)
		if diff > prev {
			t.Fatalf("tick %d: distance grew %.4f -> %.4f", i, prev, diff)
		}
		if want := prev * (1 - f.cfg.Camera.Smoothing); math.Abs(diff-want) > 1e-6 {
			t.Fatalf("tick %d: distance = %.6f, want %.6f", i, diff, want)
		}
		prev = diff
	}
	if prev > 1 {
		t.Errorf("camera did not converge, still %.3f away", prev)
	}
}

func TestCameraCenterClamped(t *testing.T) {
	f := newRaceFixture(t, false)
	f.start(t, []string{"A"}, 1)
	_, _, body := f.ball(t, "A")

	f.world.SetPosition(body, physics.V(260, f.cfg.World.Height))
	f.state.Elapsed = f.cfg.Camera.StartFocus + 1
	for i := 0; i < 300; i++ {
		f.cameraSys.AfterStep(testStep)
	}

	if got, limit := f.camera.Main.CenterY, f.camera.GoalCenter(); got > limit {
		t.Errorf("center = %.1f exceeds %.1f", got, limit)
	}
	if f.camera.Main.Bottom() > f.cfg.World.Height {
		t.Errorf("viewport bottom %.1f below world", f.camera.Main.Bottom())
	}
}

func TestCameraMiniViewport(t *testing.T) {
	f := newRaceFixture(t, false)
	f.start(t, []string{"Lead", "Tail"}, 1)
	_, _, leadBody := f.ball(t, "Lead")
	tailID, _, tailBody := f.ball(t, "Tail")

	const center = 1500.0
	f.state.Elapsed = f.cfg.Camera.StartFocus + 1
	f.world.SetPosition(leadBody, physics.V(260, center))
	f.camera.SetMainCenter(center)

	// 主视口上边界 1120，含边距 1102；球半径 12
	top := f.camera.Main.Top() - f.cfg.Camera.MiniMargin
	r := f.cfg.Ball.Radius

	tests := []struct {
		name       string
		tailY      float64
		wantActive bool
	}{
		{"far above", 100, true},
		{"just outside margin", top - r - 0.5, true},
		{"touching margin", top - r, false},
		{"inside view", center - 100, false},
		{"back outside", 400, true},
	}
	for _, tt := range tests {
		f.world.SetPosition(tailBody, physics.V(260, tt.tailY))
		f.cameraSys.AfterStep(testStep)

		mini := f.camera.Mini
		if mini.Active != tt.wantActive {
			t.Errorf("%s (y=%.1f): active = %v, want %v", tt.name, tt.tailY, mini.Active, tt.wantActive)
			continue
		}
		if !tt.wantActive {
			if mini.Target != 0 {
				t.Errorf("%s: inactive mini viewport keeps target %d", tt.name, mini.Target)
			}
			continue
		}
		if mini.Target != tailID {
			t.Errorf("%s: target = %d, want %d", tt.name, mini.Target, tailID)
		}
		wantMin := math.Max(0, tt.tailY-f.cfg.Camera.MiniHeight/2)
		if math.Abs(mini.MinY-wantMin) > 1e-9 {
			t.Errorf("%s: mini top = %.1f, want %.1f", tt.name, mini.MinY, wantMin)
		}
	}
}

func TestCameraMiniTargetResolvedEachTick(t *testing.T) {
	f := newRaceFixture(t, false)
	f.start(t, []string{"Lead", "Tail"}, 1)
	_, _, leadBody := f.ball(t, "Lead")
	tailID, _, tailBody := f.ball(t, "Tail")

	f.state.Elapsed = f.cfg.Camera.StartFocus + 1
	f.world.SetPosition(leadBody, physics.V(260, 1500))
	f.world.SetPosition(tailBody, physics.V(260, 100))
	f.camera.SetMainCenter(1500)
	f.cameraSys.AfterStep(testStep)

	pos, ok := f.cameraSys.MiniTarget()
	if !ok || pos.Y != 100 {
		t.Fatalf("MiniTarget = %v, %v; want y=100", pos, ok)
	}

	// 目标被移除后不再解析出位置
	f.race.removeBall(tailID)
	if _, ok := f.cameraSys.MiniTarget(); ok {
		t.Errorf("MiniTarget resolved a removed ball")
	}

	// 下一步只剩领先球，小视口关闭
	f.cameraSys.AfterStep(testStep)
	if f.camera.Mini.Active {
		t.Errorf("mini viewport still active with only the leader left")
	}
}

func TestCameraIdleDoesNothing(t *testing.T) {
	f := newRaceFixture(t, false)
	f.camera.SetMainCenter(1000)
	f.cameraSys.AfterStep(testStep)
	if f.camera.Main.CenterY != 1000 {
		t.Errorf("idle camera moved to %.1f", f.camera.Main.CenterY)
	}
}

func TestCameraJumps(t *testing.T) {
	f := newRaceFixture(t, false)

	f.cameraSys.JumpToGoal()
	if got := f.camera.Main.Bottom(); got != f.cfg.World.Height {
		t.Errorf("after JumpToGoal bottom = %.1f, want %.1f", got, f.cfg.World.Height)
	}
	f.cameraSys.JumpToTop()
	if got := f.camera.Main.Top(); got != 0 {
		t.Errorf("after JumpToTop top = %.1f, want 0", got)
	}
}
