package systems

import (
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/entities"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/physics"
)

// RaceHooks 比赛事件通知（均可为 nil）
type RaceHooks struct {
	// OnFinish 某个球完赛
	OnFinish func(name string, rank int)
	// OnTargetHit 完赛名次等于目标名次
	OnTargetHit func(name string, rank int)
	// OnRaceDone 最后一个球移除，比赛结束
	OnRaceDone func(order []string)
}

// BallView 球的只读快照（供界面渲染）
type BallView struct {
	Entity   ecs.EntityID
	Name     string
	Color    color.NRGBA
	Position physics.Vec2
	// Radius 当前显示半径（已乘缩放）
	Radius   float64
	Finished bool
	Rank     int
}

// RaceSystem 比赛控制器：生命周期、球登记表、完赛顺序、终点吸入、弹簧发射和限速
//
// 状态机: idle --Start--> running --最后一个球移除--> done；任意状态 --Reset--> idle
//
// 球登记表就是拥有 BallComponent 的实体集合，只由本系统增删。
// 物理步进前的逻辑注册在 World.OnBeforeStep，碰撞处理注册在 World.OnCollisionStart。
type RaceSystem struct {
	entityManager *ecs.EntityManager
	world         physics.World
	cfg           *config.RaceConfig
	board         *entities.Board

	state     *game.RaceState
	camera    *game.CameraState
	obstacles *ObstacleSystem
	raceLog   *game.RaceLog

	rng   *rand.Rand
	now   func() time.Time
	hooks RaceHooks
}

// NewRaceSystem 创建比赛控制器并挂接到物理世界
//
// 参数:
//   - em: EntityManager 实例
//   - world: 物理世界
//   - cfg: 比赛配置
//   - board: 已构建的棋盘（提供终点位置）
//   - state: 比赛状态
//   - camera: 摄像机状态（开赛和重置时恢复默认）
//   - obstacles: 障碍物系统（每个物理步推进）
//   - raceLog: 面向玩家的比赛日志
//   - rng: 出生抖动的随机源
func NewRaceSystem(em *ecs.EntityManager, world physics.World, cfg *config.RaceConfig, board *entities.Board,
	state *game.RaceState, camera *game.CameraState, obstacles *ObstacleSystem,
	raceLog *game.RaceLog, rng *rand.Rand) *RaceSystem {
	s := &RaceSystem{
		entityManager: em,
		world:         world,
		cfg:           cfg,
		board:         board,
		state:         state,
		camera:        camera,
		obstacles:     obstacles,
		raceLog:       raceLog,
		rng:           rng,
		now:           time.Now,
	}
	world.OnBeforeStep(s.BeforeStep)
	world.OnCollisionStart(s.HandleCollision)
	return s
}

// SetHooks 设置事件通知
func (s *RaceSystem) SetHooks(hooks RaceHooks) {
	s.hooks = hooks
}

// Start 开始新一局
//
// 参数:
//   - names: 参赛者名字（会去空白、去重并截断到上限）
//   - targetRank: 目标名次（钳制到 [1, 参赛人数]）
//
// 返回:
//   - game.ErrRaceRunning: 比赛进行中，不做任何改变
//   - game.ErrNoEntrants: 没有有效名字，只写一条提示日志
func (s *RaceSystem) Start(names []string, targetRank int) error {
	if s.state.IsRunning() {
		return game.ErrRaceRunning
	}

	entrants := game.NormalizeEntrants(names, s.cfg.Entrants.MaxEntrants)
	if len(entrants) == 0 {
		s.raceLog.Add("Enter at least one name!")
		log.Printf("[RaceSystem] Start rejected: no entrants")
		return game.ErrNoEntrants
	}

	s.removeAllBalls()
	s.state.Begin(len(entrants), targetRank, s.now())
	s.camera.Reset()

	s.raceLog.Add("Target rank: #%d", s.state.TargetRank)
	s.raceLog.Add("Race started: %d balls", len(entrants))
	log.Printf("[RaceSystem] Race started: %d entrants, target #%d (requested %d), generation %d",
		len(entrants), s.state.TargetRank, targetRank, s.state.Generation)

	for i, name := range entrants {
		s.spawnBall(name, i)
	}
	return nil
}

// spawnBall 在漏斗上方生成第 i 个球，带随机水平偏移和一次性水平推力
func (s *RaceSystem) spawnBall(name string, i int) {
	spawn := s.cfg.Entrants
	x := s.cfg.World.Width/2 + (s.rng.Float64()*2-1)*spawn.SpawnJitterX
	y := spawn.SpawnY + float64(i)*spawn.SpawnStagger
	pos := physics.V(x, y)

	_, body := entities.NewBallEntity(s.entityManager, s.world, s.cfg, name, i, pos)
	push := (s.rng.Float64() - 0.5) * spawn.SpawnForce
	s.world.ApplyForce(body, physics.V(push, 0), pos)
}

// Reset 清空所有球和完赛记录，回到 idle
// 正在播放的下沉动画随球实体一起销毁，其回调因代数变化而失效
func (s *RaceSystem) Reset() {
	removed := s.removeAllBalls()
	s.state.Clear()
	s.camera.Reset()
	s.raceLog.Clear()
	log.Printf("[RaceSystem] Reset: removed %d balls, generation %d", removed, s.state.Generation)
}

// BeforeStep 每个物理步之前执行（仅比赛进行中）
//
// 顺序: 障碍物运动 → 逐个未完赛球（按创建顺序）限速、近距完赛或施加吸力
func (s *RaceSystem) BeforeStep(dt float64) {
	if !s.state.IsRunning() {
		return
	}
	s.state.Elapsed += dt
	s.obstacles.Update(dt)

	for _, id := range s.ballEntities() {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		if ball.Finished || !s.world.HasBody(body.Body) {
			continue
		}

		s.clampSpeed(body.Body)
		s.applyGoalCapture(id, body.Body)
	}
}

// clampSpeed 速度超过上限时按比例缩放，方向不变
func (s *RaceSystem) clampSpeed(body physics.BodyID) {
	vel := s.world.Velocity(body)
	if vel.Len() > s.cfg.Ball.MaxSpeed {
		s.world.SetVelocity(body, vel.ClampLength(s.cfg.Ball.MaxSpeed))
	}
}

// ballEntities 球登记表快照（按创建顺序）
func (s *RaceSystem) ballEntities() []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.BallComponent, *components.BodyComponent](s.entityManager)
}

// removeAllBalls 移除所有球的刚体和实体，返回移除数量
func (s *RaceSystem) removeAllBalls() int {
	ids := s.ballEntities()
	for _, id := range ids {
		s.removeBall(id)
	}
	return len(ids)
}

// removeBall 移除球的刚体并立即销毁实体
func (s *RaceSystem) removeBall(id ecs.EntityID) {
	if body, ok := ecs.GetComponent[*components.BodyComponent](s.entityManager, id); ok {
		s.world.RemoveBody(body.Body)
	}
	s.entityManager.DestroyEntity(id)
	s.entityManager.RemoveMarkedEntities()
}

// Phase 当前比赛阶段
func (s *RaceSystem) Phase() game.RacePhase {
	return s.state.Phase
}

// State 比赛状态（只读使用）
func (s *RaceSystem) State() *game.RaceState {
	return s.state
}

// TargetRank 本局目标名次
func (s *RaceSystem) TargetRank() int {
	return s.state.TargetRank
}

// FinishOrder 完赛顺序的副本
func (s *RaceSystem) FinishOrder() []string {
	out := make([]string, len(s.state.FinishOrder))
	copy(out, s.state.FinishOrder)
	return out
}

// BallCount 登记表中的球数（包括正在下沉的）
func (s *RaceSystem) BallCount() int {
	return len(s.ballEntities())
}

// Balls 所有球的快照，按创建顺序
func (s *RaceSystem) Balls() []BallView {
	ids := s.ballEntities()
	views := make([]BallView, 0, len(ids))
	for _, id := range ids {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		if !s.world.HasBody(body.Body) {
			continue
		}
		views = append(views, BallView{
			Entity:   id,
			Name:     ball.Name,
			Color:    ball.Color,
			Position: s.world.Position(body.Body),
			Radius:   ball.Radius * ball.Scale,
			Finished: ball.Finished,
			Rank:     ball.Rank,
		})
	}
	return views
}
