package systems

import (
	"log"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
)

// degenerateDistance 距终点中心小于此值时本步跳过（无法归一化方向）
const degenerateDistance = 1e-4

// applyGoalCapture 终点吸入
//
// 距离 <= NearRadius 直接完赛；
// 距离 <= SuctionRadius 施加指向终点的吸力，
// 大小 = SuctionForce * (SuctionFloor + 1 - d/SuctionRadius)，越近越大，边缘处仍有下限。
func (s *RaceSystem) applyGoalCapture(id ecs.EntityID, body physics.BodyID) {
	capture := s.cfg.GoalCapture
	pos := s.world.Position(body)
	delta := s.board.GoalCenter.Sub(pos)
	d := delta.Len()

	switch {
	case d < degenerateDistance:
		return
	case d <= capture.NearRadius:
		s.finishBall(id)
	case d <= capture.SuctionRadius:
		strength := capture.SuctionForce * (capture.SuctionFloor + 1 - d/capture.SuctionRadius)
		s.world.ApplyForce(body, delta.Scale(strength/d), pos)
	}
}

// finishBall 完赛处理（幂等）
//
// 分配名次、写日志、发出通知，然后关闭碰撞并挂上下沉动画。
// 动画完成回调绑定当前比赛代数，重置后不会再生效。
func (s *RaceSystem) finishBall(id ecs.EntityID) {
	ball, ok := ecs.GetComponent[*components.BallComponent](s.entityManager, id)
	if !ok || ball.Finished {
		return
	}
	body, ok := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
	if !ok {
		return
	}

	ball.Finished = true
	ball.Rank = s.state.RecordFinish(ball.Name)
	s.raceLog.Add("#%d: %s", ball.Rank, ball.Name)
	log.Printf("[RaceSystem] Ball finished: %s rank #%d (t=%.2fs)", ball.Name, ball.Rank, s.state.Elapsed)

	if s.hooks.OnFinish != nil {
		s.hooks.OnFinish(ball.Name, ball.Rank)
	}
	if ball.Rank == s.state.TargetRank {
		s.raceLog.Add("HIT! target #%d: %s", ball.Rank, ball.Name)
		log.Printf("[RaceSystem] Target rank #%d hit by %s", ball.Rank, ball.Name)
		if s.hooks.OnTargetHit != nil {
			s.hooks.OnTargetHit(ball.Name, ball.Rank)
		}
	}

	s.world.SetCollidable(body.Body, false)
	pos := s.world.Position(body.Body)
	generation := s.state.Generation
	ecs.AddComponent(s.entityManager, id, &components.SinkAnimationComponent{
		StartX:     pos.X,
		StartY:     pos.Y,
		TargetX:    s.board.GoalCenter.X,
		TargetY:    s.board.GoalCenter.Y,
		Duration:   s.cfg.Sink.Duration,
		MinScale:   s.cfg.Sink.MinScale,
		OnComplete: func() { s.completeSink(id, generation) },
	})
}

// completeSink 下沉动画完成：从登记表移除球，登记表为空时比赛结束
// 代数已变化（重置或新开一局）或球已不存在时不做任何事
func (s *RaceSystem) completeSink(id ecs.EntityID, generation uint64) {
	if generation != s.state.Generation {
		log.Printf("[RaceSystem] Stale sink callback ignored (entity %d, generation %d != %d)",
			id, generation, s.state.Generation)
		return
	}
	if !s.entityManager.Exists(id) || !ecs.HasComponent[*components.BallComponent](s.entityManager, id) {
		return
	}

	s.removeBall(id)
	if s.BallCount() > 0 {
		return
	}

	s.state.MarkDone()
	s.camera.HideMini()
	s.raceLog.Add("Race finished!")
	log.Printf("[RaceSystem] Race done: %v", s.state.FinishOrder)
	if s.hooks.OnRaceDone != nil {
		s.hooks.OnRaceDone(s.FinishOrder())
	}
}
