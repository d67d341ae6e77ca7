package game

import "time"

// RacePhase 比赛阶段
type RacePhase int

const (
	// PhaseIdle 未开始（或已重置）
	PhaseIdle RacePhase = iota
	// PhaseRunning 比赛进行中
	PhaseRunning
	// PhaseDone 所有球均已完赛并移除
	PhaseDone
)

func (p RacePhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// RaceState 比赛状态
// 只由 RaceSystem 修改；CameraSystem 和界面只读
//
// 状态转换：
//   - idle/done --Begin--> running
//   - running --MarkDone--> done（最后一个球移除时）
//   - 任意 --Clear--> idle
type RaceState struct {
	Phase RacePhase

	// FinishOrder 完赛顺序（参赛者名字）
	FinishOrder []string

	// TargetRank 本局目标名次（已钳制到 [1, EntrantCount]）
	TargetRank int

	// EntrantCount 本局参赛人数
	EntrantCount int

	// StartedAt 开赛时刻（墙钟，仅用于显示）
	StartedAt time.Time

	// Elapsed 开赛后累计的模拟时间（秒），只在物理步进时增长
	Elapsed float64

	// Generation 每次开赛或重置时递增
	// 延迟回调（下沉动画完成）据此判断自己是否已过期
	Generation uint64
}

// NewRaceState 创建空闲状态
func NewRaceState() *RaceState {
	return &RaceState{Phase: PhaseIdle}
}

// IsRunning 比赛是否进行中
func (s *RaceState) IsRunning() bool {
	return s.Phase == PhaseRunning
}

// Begin 开始新一局
//
// 参数：
//   - entrants: 参赛人数（>= 1）
//   - targetRank: 请求的目标名次，会被钳制
//   - now: 开赛时刻
func (s *RaceState) Begin(entrants, targetRank int, now time.Time) {
	s.Generation++
	s.Phase = PhaseRunning
	s.FinishOrder = s.FinishOrder[:0]
	s.EntrantCount = entrants
	s.TargetRank = ClampRank(targetRank, entrants)
	s.StartedAt = now
	s.Elapsed = 0
}

// RecordFinish 记录一名完赛者，返回其名次（1-based）
func (s *RaceState) RecordFinish(name string) int {
	s.FinishOrder = append(s.FinishOrder, name)
	return len(s.FinishOrder)
}

// MarkDone 标记比赛结束
func (s *RaceState) MarkDone() {
	if s.Phase == PhaseRunning {
		s.Phase = PhaseDone
	}
}

// Clear 回到空闲状态，丢弃完赛记录
func (s *RaceState) Clear() {
	s.Generation++
	s.Phase = PhaseIdle
	s.FinishOrder = nil
	s.EntrantCount = 0
	s.Elapsed = 0
}
