package config

// 屏幕布局常量
// 本文件定义了窗口中各区域的位置：左侧主视口、右侧控制面板、主视口内的小视口
// 主视口宽度与世界宽度一致，竖直方向由摄像机决定显示世界的哪一段

const (
	// MainViewX 主视口在屏幕上的左上角X坐标
	MainViewX = 0.0

	// MainViewY 主视口在屏幕上的左上角Y坐标
	MainViewY = 0.0

	// PanelWidth 右侧控制面板宽度（输入框、状态、日志）
	PanelWidth = 300.0

	// PanelPadding 面板内边距
	PanelPadding = 12.0

	// PanelLineHeight 面板中一行调试字体的高度
	PanelLineHeight = 16.0

	// EntrantsBoxHeight 参赛者输入框高度
	EntrantsBoxHeight = 168.0

	// RankBoxHeight 目标名次输入框高度
	RankBoxHeight = 24.0

	// RaceLogLines 面板中显示的比赛日志行数
	RaceLogLines = 16

	// MiniViewInset 小视口相对主视口右下角的偏移
	MiniViewInset = 12.0

	// BallLabelOffsetY 名字标签中心相对球心的竖直偏移
	BallLabelOffsetY = -18.0

	// BallLabelWidth / BallLabelHeight 名字标签底板尺寸
	BallLabelWidth  = 68.0
	BallLabelHeight = 18.0

	// LeaderboardWidth 主视口右上角完赛榜底板宽度
	LeaderboardWidth = 156.0
)

// ScreenSize 根据世界宽度和主视口高度计算窗口逻辑尺寸
//
// 参数：
//   - world: 世界尺寸配置
//
// 返回：
//   - width: 主视口宽度 + 面板宽度
//   - height: 主视口高度
func ScreenSize(world WorldConfig) (width, height int) {
	return int(world.Width + PanelWidth), int(world.ViewHeight)
}

// PanelX 返回控制面板左边缘的屏幕X坐标
func PanelX(world WorldConfig) float64 {
	return MainViewX + world.Width
}

// MiniViewOrigin 返回小视口在屏幕上的左上角坐标（贴主视口右下角）
func MiniViewOrigin(world WorldConfig, cam CameraConfig) (x, y float64) {
	x = MainViewX + world.Width - cam.MiniWidth - MiniViewInset
	y = MainViewY + world.ViewHeight - cam.MiniHeight - MiniViewInset
	return x, y
}
