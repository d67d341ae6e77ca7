package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 由 SceneManager 驱动的场景（本程序只有比赛场景）
type Scene interface {
	// Update 推进一帧；deltaTime 为真实经过的秒数，
	// 场景内部再用固定步长累加器切分给物理世界
	Update(deltaTime float64)

	// Draw 绘制主视口、小视口、叠加层和控制面板
	Draw(screen *ebiten.Image)
}

// Saveable 退出时需要保存状态的场景
//
// 比赛场景借此在窗口关闭时记住面板上的参赛名单和目标名次
type Saveable interface {
	// SaveOnExit 保存面板设置
	// 返回 false 表示保存失败（程序仍正常退出）
	SaveOnExit() bool
}
