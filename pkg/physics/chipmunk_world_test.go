package physics

import "testing"

func newTestChipmunkWorld(gravity float64) *ChipmunkWorld {
	return NewChipmunkWorld(ChipmunkOptions{Gravity: V(0, gravity), Iterations: 10})
}

func ballDef(x, y float64) BodyDef {
	return BodyDef{
		Kind:     KindBall,
		Motion:   MotionDynamic,
		Position: V(x, y),
		Parts:    []Shape{Circle(V(0, 0), 12)},
		Material: Material{Restitution: 0.45, Friction: 0.02, Density: 0.004},
		UserData: 42,
	}
}

func goalDef(x, y float64) BodyDef {
	return BodyDef{
		Kind:     KindGoal,
		Motion:   MotionStatic,
		Position: V(x, y),
		Parts:    []Shape{Rect(V(0, 0), 58, 24, 0)},
		Sensor:   true,
	}
}

func TestChipmunkWorldBodyLifecycle(t *testing.T) {
	w := newTestChipmunkWorld(0)

	wall := w.CreateBody(BodyDef{Kind: KindWall, Motion: MotionStatic, Position: V(10, 100),
		Parts: []Shape{Rect(V(0, 0), 20, 200, 0)}})
	ball := w.CreateBody(ballDef(100, 100))

	if got := w.Bodies(); len(got) != 2 || got[0] != wall || got[1] != ball {
		t.Fatalf("Bodies() = %v, want [%d %d]", got, wall, ball)
	}

	state, ok := w.Body(ball)
	if !ok {
		t.Fatal("ball body missing")
	}
	if state.Kind != KindBall || state.UserData != 42 || state.Scale != 1 {
		t.Errorf("unexpected state %+v", state)
	}

	w.SetPosition(ball, V(200, 50))
	w.SetVelocity(ball, V(3, 4))
	if p := w.Position(ball); p != V(200, 50) {
		t.Errorf("position = %v", p)
	}
	if v := w.Velocity(ball); v != V(3, 4) {
		t.Errorf("velocity = %v", v)
	}

	w.RemoveBody(ball)
	if w.HasBody(ball) {
		t.Error("ball should be removed")
	}
	// 重复移除无副作用
	w.RemoveBody(ball)
	if len(w.Bodies()) != 1 {
		t.Errorf("expected 1 body left, got %d", len(w.Bodies()))
	}
}

func TestChipmunkWorldSensorCollisionStart(t *testing.T) {
	w := newTestChipmunkWorld(1000)
	goal := w.CreateBody(goalDef(0, 200))
	ball := w.CreateBody(ballDef(0, 0))

	var pairs []CollisionPair
	w.OnCollisionStart(func(pair CollisionPair) {
		pairs = append(pairs, pair)
	})

	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60.0)
	}

	if len(pairs) == 0 {
		t.Fatal("expected ball to enter goal sensor")
	}
	self, other, ok := pairs[0].Pick(KindBall)
	if !ok || self.ID != ball || other.ID != goal || other.Kind != KindGoal {
		t.Errorf("unexpected pair %+v", pairs[0])
	}
	// 传感器不阻挡球
	if y := w.Position(ball).Y; y <= 200 {
		t.Errorf("ball should fall through sensor, y=%.1f", y)
	}
}

func TestChipmunkWorldDisabledCollisionSkipsEvents(t *testing.T) {
	w := newTestChipmunkWorld(1000)
	w.CreateBody(goalDef(0, 200))
	ball := w.CreateBody(ballDef(0, 0))
	w.SetCollidable(ball, false)

	count := 0
	w.OnCollisionStart(func(CollisionPair) { count++ })
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60.0)
	}
	if count != 0 {
		t.Errorf("expected no collision events, got %d", count)
	}
}

func TestChipmunkWorldStepHooksOrder(t *testing.T) {
	w := newTestChipmunkWorld(0)
	var order []string
	w.OnBeforeStep(func(dt float64) { order = append(order, "before") })
	w.OnAfterStep(func(dt float64) { order = append(order, "after") })

	w.Step(1.0 / 60.0)
	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Errorf("hook order = %v", order)
	}
}

func TestChipmunkWorldApplyForce(t *testing.T) {
	w := newTestChipmunkWorld(0)
	ball := w.CreateBody(ballDef(0, 0))

	w.ApplyForce(ball, V(500, 0), w.Position(ball))
	w.Step(1.0 / 60.0)
	if v := w.Velocity(ball); v.X <= 0 {
		t.Errorf("expected positive x velocity after force, got %v", v)
	}

	// 力只作用一步
	vx := w.Velocity(ball).X
	w.Step(1.0 / 60.0)
	if v := w.Velocity(ball); v.X > vx+1e-9 {
		t.Errorf("force should not persist: %.4f -> %.4f", vx, v.X)
	}
}

func TestChipmunkWorldKinematicAngle(t *testing.T) {
	w := newTestChipmunkWorld(0)
	star := w.CreateBody(BodyDef{Kind: KindStar, Motion: MotionKinematic, Position: V(300, 300),
		Parts: []Shape{Rect(V(0, 0), 290, 12, 0), Circle(V(0, 0), 16)}})

	w.SetAngle(star, 1.25)
	w.Step(1.0 / 60.0)
	if a := w.Angle(star); a < 1.2499 || a > 1.2501 {
		t.Errorf("angle = %.4f, want 1.25", a)
	}
}

func TestChipmunkWorldKinematicSetPositionMovesShapes(t *testing.T) {
	w := newTestChipmunkWorld(1000)
	bar := w.CreateBody(BodyDef{Kind: KindMover, Motion: MotionKinematic, Position: V(100, 100),
		Parts: []Shape{Rect(V(0, 0), 200, 12, 0)}})
	ball := w.CreateBody(ballDef(300, 150))

	w.SetPosition(bar, V(300, 200))
	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60.0)
	}

	if p := w.Position(bar); p != V(300, 200) {
		t.Errorf("bar position = %v, want (300, 200)", p)
	}
	// 球应停在移动后的横条上，而不是穿过去
	if y := w.Position(ball).Y; y > 195 {
		t.Errorf("ball y = %.1f, want resting on the moved bar (< 195)", y)
	}
}
