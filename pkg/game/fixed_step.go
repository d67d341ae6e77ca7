package game

// FixedStepper 固定步长累加器
//
// 每帧把墙钟间隔累加进来（单帧最多 maxFrame，防止卡顿后追帧失控），
// 再按固定步长逐步消耗。
type FixedStepper struct {
	step        float64
	maxFrame    float64
	accumulator float64
}

// NewFixedStepper 创建累加器
//
// 参数：
//   - step: 固定步长（秒），如 1/60
//   - maxFrame: 单帧最多累加的时间（秒），如 0.1
func NewFixedStepper(step, maxFrame float64) *FixedStepper {
	return &FixedStepper{step: step, maxFrame: maxFrame}
}

// Advance 累加一帧的时间并执行若干固定步
//
// 返回：
//   - int: 本帧执行的步数
func (s *FixedStepper) Advance(frame float64, stepFn func(dt float64)) int {
	if frame < 0 {
		frame = 0
	}
	if frame > s.maxFrame {
		frame = s.maxFrame
	}
	s.accumulator += frame

	steps := 0
	for s.accumulator >= s.step {
		stepFn(s.step)
		s.accumulator -= s.step
		steps++
	}
	return steps
}

// Step 返回固定步长
func (s *FixedStepper) Step() float64 {
	return s.step
}

// Pending 返回尚未消耗的累积时间
func (s *FixedStepper) Pending() float64 {
	return s.accumulator
}

// Reset 清空累积时间
func (s *FixedStepper) Reset() {
	s.accumulator = 0
}
