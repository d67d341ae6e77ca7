package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/marblerace/pkg/app"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/embedded"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细调试日志")
	names     = flag.String("names", "", "预置参赛者（用 , | 或换行分隔）")
	rank      = flag.Int("rank", 0, "预置目标名次（1-based，0 表示使用上次的设置）")
	autoStart = flag.Bool("autostart", false, "启动后立即开赛")
	seed      = flag.Int64("seed", 0, "出生抖动随机种子（0 表示使用当前时间）")
	configDir = flag.String("config-dir", "", "磁盘配置目录，其中的 race.yaml / board.yaml 覆盖内置版本")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)
	embedded.SetOverrideDir(*configDir)

	gameCfg, err := config.LoadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	// 设置存储失败时降级为仅内存设置
	gdataManager, err := gdata.Open(gdata.Config{AppName: "marblerace"})
	if err != nil {
		log.Printf("[Main] Warning: settings storage unavailable: %v", err)
		gdataManager = nil
	}

	application, err := app.NewApp(app.Config{
		Verbose: *verbose,
		Scene: scenes.RaceSceneOptions{
			Names:      game.ParseNames(*names),
			TargetRank: *rank,
			AutoStart:  *autoStart,
			Seed:       *seed,
		},
	}, gameCfg, gdataManager)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	width, height := config.ScreenSize(gameCfg.Race.World)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Marble Race")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(application.Settings().GetSettings().Fullscreen)

	if err := ebiten.RunGame(application); err != nil {
		log.Printf("[Main] Game exited with error: %v", err)
	}

	if !application.GetSceneManager().SaveOnExit() {
		log.Printf("[Main] Failed to save settings on exit")
	}
}
