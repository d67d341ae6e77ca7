package systems

import (
	"log"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/physics"
)

// CameraSystem 摄像机控制器
//
// 主视口：开赛后 StartFocus 秒内固定在起点区域，之后每步以
// center += (leaderY - center) * Smoothing 平滑跟随领先球。
// 小视口：最后一名完全落在主视口（含边距）之外时激活并对准它，否则关闭。
//
// 挂接在 World.OnAfterStep，只在比赛进行中工作。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	world         physics.World
	cfg           config.CameraConfig
	camera        *game.CameraState
	race          *game.RaceState
}

// NewCameraSystem 创建摄像机系统并挂接到物理世界
func NewCameraSystem(em *ecs.EntityManager, world physics.World, cfg config.CameraConfig,
	camera *game.CameraState, race *game.RaceState) *CameraSystem {
	s := &CameraSystem{
		entityManager: em,
		world:         world,
		cfg:           cfg,
		camera:        camera,
		race:          race,
	}
	world.OnAfterStep(s.AfterStep)
	return s
}

// trackedBall 参与镜头判定的球
type trackedBall struct {
	id     ecs.EntityID
	y      float64
	radius float64
}

// AfterStep 每个物理步之后更新两个视口
func (s *CameraSystem) AfterStep(dt float64) {
	if !s.race.IsRunning() {
		return
	}

	leader, trailing, ok := s.extremes()

	if s.race.Elapsed < s.cfg.StartFocus || !ok {
		s.camera.SetMainCenter(s.camera.DefaultCenter())
	} else {
		center := s.camera.Main.CenterY
		s.camera.SetMainCenter(center + (leader.y-center)*s.cfg.Smoothing)
	}

	s.updateMini(trailing, ok)
}

// extremes 扫描所有球（包括正在下沉的），返回领先球（Y 最大）和最后一名（Y 最小）
// 相同 Y 时保留创建顺序靠前的
func (s *CameraSystem) extremes() (leader, trailing trackedBall, ok bool) {
	for _, id := range ecs.GetEntitiesWith2[*components.BallComponent, *components.BodyComponent](s.entityManager) {
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		if !s.world.HasBody(body.Body) {
			continue
		}

		t := trackedBall{id: id, y: s.world.Position(body.Body).Y, radius: ball.Radius}
		if !ok {
			leader, trailing, ok = t, t, true
			continue
		}
		if t.y > leader.y {
			leader = t
		}
		if t.y < trailing.y {
			trailing = t
		}
	}
	return leader, trailing, ok
}

// updateMini 可见性判定: y+r >= top-margin 且 y-r <= bottom+margin
func (s *CameraSystem) updateMini(trailing trackedBall, ok bool) {
	if !ok {
		s.camera.HideMini()
		return
	}

	top := s.camera.Main.Top() - s.cfg.MiniMargin
	bottom := s.camera.Main.Bottom() + s.cfg.MiniMargin
	visible := trailing.y+trailing.radius >= top && trailing.y-trailing.radius <= bottom
	if visible {
		if s.camera.Mini.Active {
			log.Printf("[CameraSystem] Trailing ball back in main view, mini viewport off")
		}
		s.camera.HideMini()
		return
	}

	if !s.camera.Mini.Active || s.camera.Mini.Target != trailing.id {
		log.Printf("[CameraSystem] Mini viewport tracking entity %d at y=%.0f", trailing.id, trailing.y)
	}
	s.camera.ShowMini(trailing.id, trailing.y)
}

// MiniTarget 解析小视口目标球的当前位置
// 目标已不存在（完赛移除或重置）时返回 false
func (s *CameraSystem) MiniTarget() (physics.Vec2, bool) {
	if !s.camera.Mini.Active {
		return physics.Vec2{}, false
	}
	body, ok := ecs.GetComponent[*components.BodyComponent](s.entityManager, s.camera.Mini.Target)
	if !ok || !s.world.HasBody(body.Body) {
		return physics.Vec2{}, false
	}
	return s.world.Position(body.Body), true
}

// JumpToGoal 调试：主视口直接跳到终点区域
func (s *CameraSystem) JumpToGoal() {
	s.camera.SetMainCenter(s.camera.GoalCenter())
	log.Printf("[CameraSystem] Jump to goal (center=%.0f)", s.camera.Main.CenterY)
}

// JumpToTop 调试：主视口直接回到起点区域
func (s *CameraSystem) JumpToTop() {
	s.camera.SetMainCenter(s.camera.DefaultCenter())
	log.Printf("[CameraSystem] Jump to top (center=%.0f)", s.camera.Main.CenterY)
}

// Reset 恢复默认视口
func (s *CameraSystem) Reset() {
	s.camera.Reset()
}
