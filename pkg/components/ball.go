package components

import "image/color"

// BallComponent 参赛球
//
// Finished 一旦置为 true 就不再清除：已完赛的球不再参与吸入、终点和弹簧判定。
type BallComponent struct {
	Name   string      // 参赛者名字
	Color  color.NRGBA // 填充颜色
	Radius float64     // 原始半径（像素），实际显示半径 = Radius * Scale
	Scale  float64     // 显示缩放（下沉动画中从 1.0 缩小到 0.45）

	Finished bool // 是否已完赛
	Rank     int  // 完赛名次（1-based），未完赛为 0

	// Order 出场顺序，用于稳定排序
	Order int
}
