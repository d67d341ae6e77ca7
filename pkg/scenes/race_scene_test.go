package scenes

import (
	"errors"
	"testing"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/decker502/marblerace/pkg/physics/physicstest"
)

func newTestScene(t *testing.T, opts RaceSceneOptions) (*RaceScene, *physicstest.World) {
	t.Helper()
	cfg := config.DefaultGameConfig()
	// 测试世界没有实体碰撞，去掉弹簧避免球被弹出边墙
	cfg.Board.Springs.Zones = nil

	world := physicstest.NewWorld(physics.V(0, cfg.Race.Physics.Gravity))
	world.FloorY = cfg.Race.World.Height - 10
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	scene, err := NewRaceScene(cfg, world, nil, opts)
	if err != nil {
		t.Fatalf("NewRaceScene failed: %v", err)
	}
	return scene, world
}

func setInput(t *testing.T, s *RaceScene, id ecs.EntityID, text string) {
	t.Helper()
	input, ok := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
	if !ok {
		t.Fatalf("input %d missing", id)
	}
	input.Text = text
}

func TestRaceSceneAutoStartRunsToDone(t *testing.T) {
	scene, world := newTestScene(t, RaceSceneOptions{
		Names:      []string{"A", "B", "C"},
		TargetRank: 2,
		AutoStart:  true,
	})

	race := scene.Race()
	if race.Phase() != game.PhaseRunning || race.BallCount() != 3 {
		t.Fatalf("after auto start: phase %s, balls %d", race.Phase(), race.BallCount())
	}

	const frame = 0.05
	for i := 0; i < 1200 && race.Phase() != game.PhaseDone; i++ {
		scene.advance(frame)
	}
	if race.Phase() != game.PhaseDone {
		t.Fatalf("race not done, finished %v", race.FinishOrder())
	}
	if len(race.FinishOrder()) != 3 {
		t.Errorf("finish order = %v, want 3 names", race.FinishOrder())
	}
	if world.Steps == 0 {
		t.Errorf("world never stepped")
	}
}

func TestRaceSceneStartFromPanel(t *testing.T) {
	scene, _ := newTestScene(t, RaceSceneOptions{})

	setInput(t, scene, scene.entrantsInput, "")
	if err := scene.StartRace(); !errors.Is(err, game.ErrNoEntrants) {
		t.Fatalf("StartRace with empty panel = %v, want ErrNoEntrants", err)
	}

	setInput(t, scene, scene.entrantsInput, "Ann, Bo | Cy\nAnn")
	setInput(t, scene, scene.rankInput, "9")
	if err := scene.StartRace(); err != nil {
		t.Fatalf("StartRace failed: %v", err)
	}
	if got := scene.Race().BallCount(); got != 3 {
		t.Errorf("ball count = %d, want 3", got)
	}
	if got := scene.Race().TargetRank(); got != 3 {
		t.Errorf("target rank = %d, want clamped 3", got)
	}

	settings := scene.settings.GetSettings()
	if settings.EntrantsText != "Ann, Bo | Cy\nAnn" || settings.TargetRank != 9 {
		t.Errorf("settings not remembered: %+v", settings)
	}
}

func TestRaceSceneLocksInputsWhileRunning(t *testing.T) {
	scene, _ := newTestScene(t, RaceSceneOptions{Names: []string{"A"}, AutoStart: true})
	scene.advance(0)

	for _, id := range []ecs.EntityID{scene.entrantsInput, scene.rankInput} {
		input, _ := ecs.GetComponent[*components.TextInputComponent](scene.entityManager, id)
		if !input.Disabled {
			t.Errorf("input %d editable during race", id)
		}
	}

	scene.ResetRace()
	scene.advance(0)
	for _, id := range []ecs.EntityID{scene.entrantsInput, scene.rankInput} {
		input, _ := ecs.GetComponent[*components.TextInputComponent](scene.entityManager, id)
		if input.Disabled {
			t.Errorf("input %d still locked after reset", id)
		}
	}
	if scene.Race().Phase() != game.PhaseIdle || scene.Race().BallCount() != 0 {
		t.Errorf("after reset: phase %s, balls %d", scene.Race().Phase(), scene.Race().BallCount())
	}
}

func TestRaceSceneTargetRankParsing(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"2", 2},
		{" 4 ", 4},
		{"", 1},
		{"abc", 1},
	}
	scene, _ := newTestScene(t, RaceSceneOptions{})
	for _, tt := range tests {
		setInput(t, scene, scene.rankInput, tt.text)
		if got := scene.targetRank(); got != tt.want {
			t.Errorf("targetRank(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestRaceSceneSaveOnExitWithoutStorage(t *testing.T) {
	scene, _ := newTestScene(t, RaceSceneOptions{Names: []string{"X", "Y"}, TargetRank: 2})
	if !scene.SaveOnExit() {
		t.Errorf("SaveOnExit without storage should succeed")
	}
	if got := scene.settings.GetSettings().EntrantsText; got != "X\nY" {
		t.Errorf("saved entrants = %q, want %q", got, "X\nY")
	}
}
