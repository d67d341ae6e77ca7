package systems

import (
	"math"
	"testing"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/decker502/marblerace/pkg/physics/physicstest"
)

// newKinematic 创建一个带脚本组件的运动学障碍
func newKinematic(em *ecs.EntityManager, world physics.World, kind physics.BodyKind, pos physics.Vec2, comp interface{}) (ecs.EntityID, physics.BodyID) {
	id := em.CreateEntity()
	body := world.CreateBody(physics.BodyDef{
		Kind:     kind,
		Motion:   physics.MotionKinematic,
		Position: pos,
		Parts:    []physics.Shape{physics.Rect(physics.Vec2{}, 100, 14, 0)},
		UserData: uint64(id),
	})
	em.AddComponent(id, comp)
	ecs.AddComponent(em, id, &components.BodyComponent{Body: body, Kind: kind})
	return id, body
}

func TestObstacleSystemMovers(t *testing.T) {
	em := ecs.NewEntityManager()
	world := physicstest.NewWorld(physics.V(0, 1150))
	system := NewObstacleSystem(em, world)

	mover := &components.MoverComponent{BaseX: 260, Y: 1760, Amplitude: 134, Speed: 1.6, Phase: 0.5}
	_, body := newKinematic(em, world, physics.KindMover, physics.V(260, 1760), mover)

	for step := 1; step <= 90; step++ {
		world.SetVelocity(body, physics.V(40, -7))
		system.Update(testStep)

		elapsed := float64(step) * testStep
		wantX := mover.BaseX + mover.Amplitude*math.Sin(elapsed*mover.Speed+mover.Phase)
		pos := world.Position(body)
		if math.Abs(pos.X-wantX) > 1e-9 || pos.Y != mover.Y {
			t.Fatalf("step %d: position = %v, want (%.4f, %.0f)", step, pos, wantX, mover.Y)
		}
		if v := world.Velocity(body); v != (physics.Vec2{}) {
			t.Fatalf("step %d: velocity = %v, want zero", step, v)
		}
	}

	if math.Abs(system.Elapsed()-90*testStep) > 1e-9 {
		t.Errorf("elapsed = %.4f, want %.4f", system.Elapsed(), 90*testStep)
	}
}

func TestRotatorStep(t *testing.T) {
	tests := []struct {
		name    string
		rotator components.RotatorComponent
		dt      float64
		want    float64
	}{
		{"per second", components.RotatorComponent{Speed: 1.9}, 0.5, 0.95},
		{"frame normalized one frame", components.RotatorComponent{Speed: 0.07, FrameNormalized: true}, 0.016666, 0.07 * 16.666 / 16.666},
		{"frame normalized half second", components.RotatorComponent{Speed: 0.07, FrameNormalized: true}, 0.5, 0.07 * 500 / 16.666},
		{"reverse", components.RotatorComponent{Speed: -2.6}, 1, -2.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RotatorStep(&tt.rotator, tt.dt); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RotatorStep = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestObstacleSystemRotatorsAccumulate(t *testing.T) {
	em := ecs.NewEntityManager()
	world := physicstest.NewWorld(physics.V(0, 1150))
	system := NewObstacleSystem(em, world)

	spinner := &components.RotatorComponent{Speed: 0.07, FrameNormalized: true}
	star := &components.RotatorComponent{Speed: 1.9}
	_, spinnerBody := newKinematic(em, world, physics.KindSpinner, physics.V(260, 600), spinner)
	_, starBody := newKinematic(em, world, physics.KindStar, physics.V(343, 2000), star)

	const steps = 600
	for i := 0; i < steps; i++ {
		system.Update(testStep)
	}

	wantSpinner := steps * 0.07 * (testStep * 1000) / 16.666
	wantStar := steps * 1.9 * testStep
	if math.Abs(world.Angle(spinnerBody)-wantSpinner) > 1e-6 {
		t.Errorf("spinner angle = %.6f, want %.6f", world.Angle(spinnerBody), wantSpinner)
	}
	if math.Abs(world.Angle(starBody)-wantStar) > 1e-6 {
		t.Errorf("star angle = %.6f, want %.6f", world.Angle(starBody), wantStar)
	}
	// 角度不取模，持续累加
	if star.Angle < 2*math.Pi {
		t.Errorf("star angle %.3f should accumulate past 2π", star.Angle)
	}
}

func TestObstacleSystemSkipsRemovedBodies(t *testing.T) {
	em := ecs.NewEntityManager()
	world := physicstest.NewWorld(physics.V(0, 1150))
	system := NewObstacleSystem(em, world)

	rotator := &components.RotatorComponent{Speed: 1}
	_, body := newKinematic(em, world, physics.KindRotator, physics.V(0, 0), rotator)
	world.RemoveBody(body)

	system.Update(testStep)
	if rotator.Angle != 0 {
		t.Errorf("rotator without body advanced to %.3f", rotator.Angle)
	}
}
