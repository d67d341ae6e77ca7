// Package app 提供弹珠抽签比赛的 ebiten.Game 包装器
//
// main.go 负责解析命令行和加载配置，然后通过 NewApp() 创建应用实例。
package app

import (
	"image/color"
	"io"
	"log"
	"time"

	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/decker502/marblerace/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Scene 比赛场景的启动参数（预置名单、目标名次、自动开赛、随机种子）
	Scene scenes.RaceSceneOptions
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg          *config.GameConfig
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	verbose      bool

	lastUpdate               time.Time
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 参数:
//   - cfg: 启动配置
//   - gameCfg: 已验证的比赛和棋盘配置
//   - gdataManager: 设置存储，可为 nil（仅内存设置）
//
// 返回:
//   - *App: 应用实例
//   - error: 场景创建失败时返回错误
func NewApp(cfg Config, gameCfg *config.GameConfig, gdataManager *gdata.Manager) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	phys := gameCfg.Race.Physics
	world := physics.NewChipmunkWorld(physics.ChipmunkOptions{
		Gravity:    physics.V(0, phys.Gravity),
		Damping:    phys.Damping,
		Iterations: phys.Iterations,
	})

	settings := game.NewSettingsManager(gdataManager)
	raceScene, err := scenes.NewRaceScene(gameCfg, world, settings, cfg.Scene)
	if err != nil {
		return nil, err
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(raceScene)
	log.Printf("[App] Race scene ready")

	return &App{
		cfg:          gameCfg,
		sceneManager: sceneManager,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次，传给场景的是真实经过的时间（由固定步长累加器切分）
func (a *App) Update() error {
	width, height := config.ScreenSize(a.cfg.Race.World)

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(width, height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", width, height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	now := time.Now()
	deltaTime := 1.0 / float64(ebiten.TPS())
	if !a.lastUpdate.IsZero() {
		deltaTime = now.Sub(a.lastUpdate).Seconds()
	}
	a.lastUpdate = now

	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸（主视口 + 右侧面板）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenSize(a.cfg.Race.World)
}

// GetSceneManager 返回场景管理器
// 用于在窗口关闭时保存面板设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Settings 返回面板设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
