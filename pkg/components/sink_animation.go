package components

// SinkAnimationComponent 完赛球的下沉动画状态
// 用于实现球滑向终点中心并缩小的缓动动画
//
// 工作流程：
//  1. RaceSystem 判定完赛时添加此组件，记录起点和终点，并关闭该球的碰撞
//  2. SinkAnimationSystem 每个显示帧根据 Elapsed 计算缓动位置和缩放
//  3. Elapsed 达到 Duration 时移除组件并调用 OnComplete
//
// 比赛重置时球实体被直接销毁，组件随之消失，OnComplete 不会再被调用。
type SinkAnimationComponent struct {
	// StartX/StartY 起点（完赛瞬间球的位置）
	StartX float64
	StartY float64

	// TargetX/TargetY 终点（终点传感器中心）
	TargetX float64
	TargetY float64

	// Elapsed 已播放时间（秒）
	Elapsed float64

	// Duration 动画总时长（秒）
	Duration float64

	// MinScale 动画结束时的缩放
	MinScale float64

	// OnComplete 动画完成回调
	OnComplete func()
}
