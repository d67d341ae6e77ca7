package entities

import (
	"math"
	"testing"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/decker502/marblerace/pkg/physics/physicstest"
)

func buildDefaultBoard(t *testing.T) (*ecs.EntityManager, *physicstest.World, *Board) {
	t.Helper()
	em := ecs.NewEntityManager()
	world := physicstest.NewWorld(physics.V(0, 1150))
	cfg := config.DefaultGameConfig()
	board, err := BuildBoard(em, world, cfg.Board, cfg.Race.World)
	if err != nil {
		t.Fatalf("BuildBoard failed: %v", err)
	}
	return em, world, board
}

func TestBuildBoardBodyCounts(t *testing.T) {
	_, world, board := buildDefaultBoard(t)

	counts := make(map[physics.BodyKind]int)
	for _, id := range world.Bodies() {
		state, ok := world.Body(id)
		if !ok {
			t.Fatalf("body %d missing", id)
		}
		counts[state.Kind]++
	}

	tests := []struct {
		kind physics.BodyKind
		want int
	}{
		// 2 边墙 + 2 地板 + 2 立柱 + 2 斜坡
		{physics.KindWall, 8},
		{physics.KindFunnel, 2},
		// 9 行 × 8 + 9 行 × 7
		{physics.KindPeg, 135},
		{physics.KindSpinner, 1},
		{physics.KindMover, 2},
		{physics.KindStar, 1},
		{physics.KindRotator, 1},
		{physics.KindGoal, 1},
		{physics.KindSpring, 8},
		{physics.KindDecoration, 8},
	}
	total := 0
	for _, tt := range tests {
		total += tt.want
		if counts[tt.kind] != tt.want {
			t.Errorf("%s count = %d, want %d", tt.kind, counts[tt.kind], tt.want)
		}
	}
	if board.BodyCount() != total {
		t.Errorf("BodyCount = %d, want %d", board.BodyCount(), total)
	}
}

func TestBuildBoardGoal(t *testing.T) {
	em, world, board := buildDefaultBoard(t)

	if board.GoalCenter != physics.V(260, 2476) {
		t.Errorf("GoalCenter = %+v, want (260, 2476)", board.GoalCenter)
	}
	goal, ok := ecs.GetComponent[*components.GoalComponent](em, board.GoalEntity)
	if !ok {
		t.Fatal("goal entity has no GoalComponent")
	}
	if goal.CenterX != 260 || goal.CenterY != 2476 {
		t.Errorf("GoalComponent center = (%.0f, %.0f)", goal.CenterX, goal.CenterY)
	}

	bc, _ := ecs.GetComponent[*components.BodyComponent](em, board.GoalEntity)
	state, _ := world.Body(bc.Body)
	if !state.Sensor {
		t.Error("goal body should be a sensor")
	}
}

func TestBuildBoardBodiesPointBackToEntities(t *testing.T) {
	em, world, board := buildDefaultBoard(t)

	for _, id := range world.Bodies() {
		state, _ := world.Body(id)
		entity, ok := board.EntityOf(id)
		if !ok {
			t.Fatalf("body %d not indexed", id)
		}
		if uint64(entity) != state.UserData {
			t.Errorf("body %d UserData = %d, want entity %d", id, state.UserData, entity)
		}
		bc, ok := ecs.GetComponent[*components.BodyComponent](em, entity)
		if !ok || bc.Body != id || bc.Kind != state.Kind {
			t.Errorf("entity %d BodyComponent mismatch: %+v", entity, bc)
		}
		if !ecs.HasComponent[*components.StyleComponent](em, entity) {
			t.Errorf("entity %d has no StyleComponent", entity)
		}
	}
}

func TestBuildBoardScriptedObstacles(t *testing.T) {
	em, world, _ := buildDefaultBoard(t)

	movers := ecs.GetEntitiesWith1[*components.MoverComponent](em)
	if len(movers) != 2 {
		t.Fatalf("expected 2 movers, got %d", len(movers))
	}
	wantAmp := []float64{134, 174}
	for i, id := range movers {
		m, _ := ecs.GetComponent[*components.MoverComponent](em, id)
		if math.Abs(m.Amplitude-wantAmp[i]) > 1e-9 {
			t.Errorf("mover %d amplitude = %.1f, want %.1f", i, m.Amplitude, wantAmp[i])
		}
	}

	rotators := ecs.GetEntitiesWith2[*components.RotatorComponent, *components.BodyComponent](em)
	if len(rotators) != 3 {
		t.Fatalf("expected 3 rotators, got %d", len(rotators))
	}
	frameNormalized := 0
	for _, id := range rotators {
		r, _ := ecs.GetComponent[*components.RotatorComponent](em, id)
		bc, _ := ecs.GetComponent[*components.BodyComponent](em, id)
		if r.FrameNormalized {
			frameNormalized++
		}
		if bc.Kind == physics.KindRotator {
			if pos := world.Position(bc.Body); pos.Y != 2290 {
				t.Errorf("wood rotator y = %.0f, want 2290", pos.Y)
			}
		}
	}
	if frameNormalized != 1 {
		t.Errorf("expected only the primary spinner to be frame-normalized, got %d", frameNormalized)
	}

	springs := ecs.GetEntitiesWith1[*components.SpringComponent](em)
	if len(springs) != 8 {
		t.Fatalf("expected 8 springs, got %d", len(springs))
	}
	first, _ := ecs.GetComponent[*components.SpringComponent](em, springs[0])
	second, _ := ecs.GetComponent[*components.SpringComponent](em, springs[1])
	if first.DirSign != 1 || second.DirSign != -1 {
		t.Errorf("spring directions = %.0f, %.0f, want 1, -1", first.DirSign, second.DirSign)
	}
}

func TestBuildBoardRejectsInvalidLayout(t *testing.T) {
	cfg := config.DefaultBoardConfig()
	cfg.Springs.Zones[0].Dir = "up"

	em := ecs.NewEntityManager()
	world := physicstest.NewWorld(physics.V(0, 1150))
	if _, err := BuildBoard(em, world, cfg, config.DefaultRaceConfig().World); err == nil {
		t.Fatal("expected error for invalid layout")
	}
	if len(world.Bodies()) != 0 {
		t.Errorf("invalid layout should not create bodies, got %d", len(world.Bodies()))
	}
}
