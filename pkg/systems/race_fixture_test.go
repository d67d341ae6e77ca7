package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/entities"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/decker502/marblerace/pkg/physics/physicstest"
)

const testStep = 1.0 / 60.0

// raceFixture 用测试物理世界组装的完整比赛
type raceFixture struct {
	em        *ecs.EntityManager
	world     *physicstest.World
	cfg       *config.RaceConfig
	board     *entities.Board
	state     *game.RaceState
	camera    *game.CameraState
	raceLog   *game.RaceLog
	obstacles *ObstacleSystem
	race      *RaceSystem
	cameraSys *CameraSystem
	sink      *SinkAnimationSystem

	finished  []string
	targetHit []string
	done      [][]string
}

// newRaceFixture 创建比赛
// withSprings 为 false 时去掉弹簧（测试世界没有实体碰撞，弹簧会把球弹出边墙）
func newRaceFixture(t *testing.T, withSprings bool) *raceFixture {
	t.Helper()

	gameCfg := config.DefaultGameConfig()
	if !withSprings {
		gameCfg.Board.Springs.Zones = nil
	}

	f := &raceFixture{
		em:      ecs.NewEntityManager(),
		world:   physicstest.NewWorld(physics.V(0, gameCfg.Race.Physics.Gravity)),
		cfg:     gameCfg.Race,
		state:   game.NewRaceState(),
		raceLog: game.NewRaceLog(0),
	}
	f.world.FloorY = gameCfg.Race.World.Height - 10

	board, err := entities.BuildBoard(f.em, f.world, gameCfg.Board, gameCfg.Race.World)
	if err != nil {
		t.Fatalf("BuildBoard failed: %v", err)
	}
	f.board = board

	f.camera = game.NewCameraState(f.cfg.World, f.cfg.Camera)
	f.obstacles = NewObstacleSystem(f.em, f.world)
	f.race = NewRaceSystem(f.em, f.world, f.cfg, board, f.state, f.camera, f.obstacles,
		f.raceLog, rand.New(rand.NewSource(7)))
	f.cameraSys = NewCameraSystem(f.em, f.world, f.cfg.Camera, f.camera, f.state)
	f.sink = NewSinkAnimationSystem(f.em, f.world)

	f.race.SetHooks(RaceHooks{
		OnFinish:    func(name string, rank int) { f.finished = append(f.finished, name) },
		OnTargetHit: func(name string, rank int) { f.targetHit = append(f.targetHit, name) },
		OnRaceDone:  func(order []string) { f.done = append(f.done, order) },
	})
	return f
}

// tick 一个显示帧：一个物理步 + 下沉动画
func (f *raceFixture) tick() {
	f.world.Step(testStep)
	f.sink.Update(testStep)
}

// ball 按名字查找球实体
func (f *raceFixture) ball(t *testing.T, name string) (ecs.EntityID, *components.BallComponent, physics.BodyID) {
	t.Helper()
	for _, id := range ecs.GetEntitiesWith2[*components.BallComponent, *components.BodyComponent](f.em) {
		ball, _ := ecs.GetComponent[*components.BallComponent](f.em, id)
		if ball.Name == name {
			body, _ := ecs.GetComponent[*components.BodyComponent](f.em, id)
			return id, ball, body.Body
		}
	}
	t.Fatalf("ball %q not found", name)
	return 0, nil, 0
}

func (f *raceFixture) start(t *testing.T, names []string, rank int) {
	t.Helper()
	if err := f.race.Start(names, rank); err != nil {
		t.Fatalf("Start(%v, %d) failed: %v", names, rank, err)
	}
}
