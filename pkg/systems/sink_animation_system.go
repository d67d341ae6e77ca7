package systems

import (
	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/decker502/marblerace/pkg/utils"
)

// SinkAnimationSystem 完赛球的下沉动画
//
// 按显示帧推进（不跟随物理步）：球沿 EaseOutCubic 曲线滑向终点中心，
// 同时缩小到 MinScale。完成后移除组件并调用 OnComplete。
type SinkAnimationSystem struct {
	entityManager *ecs.EntityManager
	world         physics.World
}

// NewSinkAnimationSystem 创建下沉动画系统
func NewSinkAnimationSystem(em *ecs.EntityManager, world physics.World) *SinkAnimationSystem {
	return &SinkAnimationSystem{
		entityManager: em,
		world:         world,
	}
}

// Update 推进所有下沉动画
//
// 参数:
//   - deltaTime: 本帧墙钟时长（秒）
//
// 完成回调在遍历结束后统一调用，回调中可以安全地销毁实体
func (s *SinkAnimationSystem) Update(deltaTime float64) {
	var completed []func()

	entities := ecs.GetEntitiesWith3[
		*components.SinkAnimationComponent,
		*components.BallComponent,
		*components.BodyComponent,
	](s.entityManager)

	for _, id := range entities {
		sink, _ := ecs.GetComponent[*components.SinkAnimationComponent](s.entityManager, id)
		ball, _ := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)

		sink.Elapsed += deltaTime
		t := utils.Progress(sink.Elapsed, sink.Duration)
		e := utils.EaseOutCubic(t)

		if s.world.HasBody(body.Body) {
			pos := physics.V(
				utils.Lerp(sink.StartX, sink.TargetX, e),
				utils.Lerp(sink.StartY, sink.TargetY, e),
			)
			s.world.SetPosition(body.Body, pos)
			s.world.SetVelocity(body.Body, physics.Vec2{})
		}

		ball.Scale = 1 - (1-sink.MinScale)*e
		s.world.SetScale(body.Body, ball.Scale)

		if t >= 1 {
			ecs.RemoveComponent[*components.SinkAnimationComponent](s.entityManager, id)
			if sink.OnComplete != nil {
				completed = append(completed, sink.OnComplete)
			}
		}
	}

	for _, fn := range completed {
		fn()
	}
}
