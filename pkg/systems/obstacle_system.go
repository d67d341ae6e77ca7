package systems

import (
	"math"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
)

// frameMillis 60fps 下一帧的毫秒数，用于按帧归一化的旋转速度
const frameMillis = 16.666

// ObstacleSystem 驱动脚本障碍物：往复移动条和各类旋转器
//
// 障碍物时间只在 Update 被调用时推进（即比赛进行中），
// 两局之间不归零，旋转角度也不重置。
type ObstacleSystem struct {
	entityManager *ecs.EntityManager
	world         physics.World

	// elapsed 障碍物累计运行时间（秒）
	elapsed float64
}

// NewObstacleSystem 创建障碍物系统
func NewObstacleSystem(em *ecs.EntityManager, world physics.World) *ObstacleSystem {
	return &ObstacleSystem{
		entityManager: em,
		world:         world,
	}
}

// Elapsed 障碍物累计运行时间
func (s *ObstacleSystem) Elapsed() float64 {
	return s.elapsed
}

// Update 推进一个物理步
//
// 参数:
//   - dt: 步长（秒）
func (s *ObstacleSystem) Update(dt float64) {
	s.elapsed += dt
	s.updateMovers()
	s.updateRotators(dt)
}

// updateMovers 往复条: x = BaseX + Amplitude*sin(t*Speed + Phase)
// 位置由脚本直接给出，速度强制为零，避免引擎用速度再积分一次
func (s *ObstacleSystem) updateMovers() {
	for _, id := range ecs.GetEntitiesWith2[*components.MoverComponent, *components.BodyComponent](s.entityManager) {
		mover, _ := ecs.GetComponent[*components.MoverComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		if !s.world.HasBody(body.Body) {
			continue
		}

		x := mover.BaseX + mover.Amplitude*math.Sin(s.elapsed*mover.Speed+mover.Phase)
		s.world.SetPosition(body.Body, physics.V(x, mover.Y))
		s.world.SetVelocity(body.Body, physics.Vec2{})
	}
}

func (s *ObstacleSystem) updateRotators(dt float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.RotatorComponent, *components.BodyComponent](s.entityManager) {
		rotator, _ := ecs.GetComponent[*components.RotatorComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		if !s.world.HasBody(body.Body) {
			continue
		}

		rotator.Angle += RotatorStep(rotator, dt)
		s.world.SetAngle(body.Body, rotator.Angle)
	}
}

// RotatorStep 返回旋转器在一个步长内转过的角度
//
// 按帧归一化的旋转器（主旋转器）: Speed * dt(ms) / 16.666
// 其他旋转器: Speed * dt
func RotatorStep(r *components.RotatorComponent, dt float64) float64 {
	if r.FrameNormalized {
		return r.Speed * (dt * 1000) / frameMillis
	}
	return r.Speed * dt
}
