package systems

import (
	"log"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
)

// HandleCollision 处理碰撞开始事件
//
// 只关心球与其他刚体的碰撞，按另一方的类型分派：
//   - 终点传感器: 完赛
//   - 弹簧: 覆盖速度并追加推力
//   - 其他: 忽略（由物理引擎正常处理碰撞响应）
func (s *RaceSystem) HandleCollision(pair physics.CollisionPair) {
	if !s.state.IsRunning() {
		return
	}
	self, other, ok := pair.Pick(physics.KindBall)
	if !ok {
		return
	}
	id := ecs.EntityID(self.UserData)

	switch other.Kind {
	case physics.KindGoal:
		s.finishBall(id)
	case physics.KindSpring:
		s.launchFromSpring(id, self.ID, ecs.EntityID(other.UserData))
	case physics.KindBall, physics.KindWall, physics.KindFunnel, physics.KindPeg,
		physics.KindSpinner, physics.KindMover, physics.KindStar, physics.KindRotator,
		physics.KindDecoration:
	}
}

// launchFromSpring 弹簧发射
// 速度直接覆盖为 (方向*BaseVelocityX*power, BaseVelocityY*power)，
// 再追加一次 (方向*BoostForceX*power, BoostForceY*power) 的推力
func (s *RaceSystem) launchFromSpring(ballID ecs.EntityID, body physics.BodyID, springID ecs.EntityID) {
	ball, ok := ecs.GetComponent[*components.BallComponent](s.entityManager, ballID)
	if !ok || ball.Finished {
		return
	}
	spring, ok := ecs.GetComponent[*components.SpringComponent](s.entityManager, springID)
	if !ok {
		return
	}

	launch := s.cfg.Spring
	p := spring.Power
	s.world.SetVelocity(body, physics.V(spring.DirSign*launch.BaseVelocityX*p, launch.BaseVelocityY*p))
	s.world.ApplyForce(body,
		physics.V(spring.DirSign*launch.BoostForceX*p, launch.BoostForceY*p),
		s.world.Position(body))
	log.Printf("[RaceSystem] Spring launch: %s (dir %+.0f, power %.2f)", ball.Name, spring.DirSign, p)
}
