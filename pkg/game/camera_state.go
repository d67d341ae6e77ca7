package game

import (
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
)

// Viewport 竖直滚动的视口（世界坐标）
type Viewport struct {
	// CenterY 视口中心的世界Y坐标
	CenterY float64
	Width   float64
	Height  float64
}

// Top 视口上边界（世界Y）
func (v Viewport) Top() float64 {
	return v.CenterY - v.Height/2
}

// Bottom 视口下边界（世界Y）
func (v Viewport) Bottom() float64 {
	return v.CenterY + v.Height/2
}

// MiniViewport 小视口：跟踪落在主视口之外的最后一名
// Target 只是实体ID（弱引用），每帧重新解析
type MiniViewport struct {
	Active bool
	Target ecs.EntityID
	// MinY 小视口上边界（世界Y），已钳制到 [0, 世界高度 - Height]
	MinY   float64
	Width  float64
	Height float64
}

// CameraState 摄像机状态（主视口 + 小视口）
// 只由 CameraSystem 和 RaceSystem.Reset 修改；渲染只读
type CameraState struct {
	Main Viewport
	Mini MiniViewport

	worldHeight float64
}

// NewCameraState 创建摄像机状态，主视口位于世界顶部
func NewCameraState(world config.WorldConfig, cam config.CameraConfig) *CameraState {
	c := &CameraState{
		Main:        Viewport{Width: world.Width, Height: world.ViewHeight},
		Mini:        MiniViewport{Width: cam.MiniWidth, Height: cam.MiniHeight},
		worldHeight: world.Height,
	}
	c.Reset()
	return c
}

// WorldHeight 世界总高度
func (c *CameraState) WorldHeight() float64 {
	return c.worldHeight
}

// DefaultCenter 主视口默认中心（世界顶部，起点区域）
func (c *CameraState) DefaultCenter() float64 {
	return c.Main.Height / 2
}

// GoalCenter 主视口对准世界底部时的中心
func (c *CameraState) GoalCenter() float64 {
	return c.worldHeight - c.Main.Height/2
}

// SetMainCenter 设置主视口中心，钳制到 [H/2, 世界高度 - H/2]
func (c *CameraState) SetMainCenter(y float64) {
	c.Main.CenterY = clamp(y, c.DefaultCenter(), c.GoalCenter())
}

// ShowMini 激活小视口并对准目标
//
// 参数：
//   - target: 目标球实体
//   - y: 目标球当前世界Y
func (c *CameraState) ShowMini(target ecs.EntityID, y float64) {
	c.Mini.Active = true
	c.Mini.Target = target
	c.Mini.MinY = clamp(y-c.Mini.Height/2, 0, c.worldHeight-c.Mini.Height)
}

// HideMini 关闭小视口并清除目标
func (c *CameraState) HideMini() {
	c.Mini.Active = false
	c.Mini.Target = 0
}

// Reset 恢复默认：主视口回到顶部，小视口关闭
func (c *CameraState) Reset() {
	c.Main.CenterY = c.DefaultCenter()
	c.HideMini()
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
