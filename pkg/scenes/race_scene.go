package scenes

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/entities"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/decker502/marblerace/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// RaceSceneOptions 启动参数
type RaceSceneOptions struct {
	// Names 预置的参赛者（为空时使用上次保存的名单）
	Names []string
	// TargetRank 预置的目标名次（<= 0 时使用上次保存的值）
	TargetRank int
	// AutoStart 场景创建后立即开赛
	AutoStart bool
	// Seed 出生抖动随机种子（0 表示使用当前时间）
	Seed int64
}

// RaceScene 比赛场景
//
// 每帧顺序: 输入 → 固定步长物理（步进前比赛逻辑、步进后镜头）→ 下沉动画 → 实体清理
type RaceScene struct {
	cfg           *config.GameConfig
	entityManager *ecs.EntityManager
	world         physics.World
	board         *entities.Board

	state    *game.RaceState
	camera   *game.CameraState
	raceLog  *game.RaceLog
	stepper  *game.FixedStepper
	settings *game.SettingsManager

	obstacleSystem  *systems.ObstacleSystem
	raceSystem      *systems.RaceSystem
	cameraSystem    *systems.CameraSystem
	sinkSystem      *systems.SinkAnimationSystem
	textInputSystem *systems.TextInputSystem
	renderSystem    *systems.RenderSystem
	overlaySystem   *systems.OverlayRenderSystem

	entrantsInput ecs.EntityID
	rankInput     ecs.EntityID
}

// NewRaceScene 创建比赛场景
//
// 参数:
//   - cfg: 已验证的游戏配置
//   - world: 物理世界（正式运行为 ChipmunkWorld）
//   - settings: 面板设置（可为 nil）
//   - opts: 启动参数
//
// 返回:
//   - *RaceScene: 场景实例
//   - error: 棋盘构建失败时返回错误
func NewRaceScene(cfg *config.GameConfig, world physics.World, settings *game.SettingsManager, opts RaceSceneOptions) (*RaceScene, error) {
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	s := &RaceScene{
		cfg:           cfg,
		entityManager: ecs.NewEntityManager(),
		world:         world,
		state:         game.NewRaceState(),
		camera:        game.NewCameraState(cfg.Race.World, cfg.Race.Camera),
		raceLog:       game.NewRaceLog(config.RaceLogLines * 4),
		stepper:       game.NewFixedStepper(cfg.Race.Physics.FixedStep, cfg.Race.Physics.MaxFrame),
		settings:      settings,
	}

	board, err := entities.BuildBoard(s.entityManager, world, cfg.Board, cfg.Race.World)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}
	s.board = board

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Printf("[RaceScene] Board ready: %d bodies, goal at (%.0f, %.0f), seed %d",
		board.BodyCount(), board.GoalCenter.X, board.GoalCenter.Y, seed)

	s.obstacleSystem = systems.NewObstacleSystem(s.entityManager, world)
	s.raceSystem = systems.NewRaceSystem(s.entityManager, world, cfg.Race, board, s.state, s.camera,
		s.obstacleSystem, s.raceLog, rand.New(rand.NewSource(seed)))
	s.cameraSystem = systems.NewCameraSystem(s.entityManager, world, cfg.Race.Camera, s.camera, s.state)
	s.sinkSystem = systems.NewSinkAnimationSystem(s.entityManager, world)
	s.textInputSystem = systems.NewTextInputSystem(s.entityManager)
	s.renderSystem = systems.NewRenderSystem(s.entityManager, world, s.camera, cfg.Race.World, cfg.Race.Camera)
	s.overlaySystem = systems.NewOverlayRenderSystem(s.entityManager, s.raceSystem, s.camera, s.raceLog, cfg.Race.World)

	s.raceSystem.SetHooks(systems.RaceHooks{
		OnTargetHit: func(name string, rank int) {
			log.Printf("[RaceScene] Winner at target rank #%d: %s", rank, name)
		},
		OnRaceDone: func(order []string) {
			log.Printf("[RaceScene] Final order: %s", strings.Join(order, ", "))
		},
	})

	s.createInputs(opts)

	if opts.AutoStart {
		if err := s.StartRace(); err != nil {
			log.Printf("[RaceScene] Auto start failed: %v", err)
		}
	}
	return s, nil
}

// createInputs 创建面板上的两个输入框，初始内容来自启动参数或上次保存的设置
func (s *RaceScene) createInputs(opts RaceSceneOptions) {
	saved := s.settings.GetSettings()
	entrantsText := saved.EntrantsText
	if len(opts.Names) > 0 {
		entrantsText = strings.Join(opts.Names, "\n")
	}
	rank := saved.TargetRank
	if opts.TargetRank > 0 {
		rank = opts.TargetRank
	}

	x := config.PanelX(s.cfg.Race.World) + config.PanelPadding
	y := config.MainViewY + config.PanelPadding + 2*config.PanelLineHeight + 4

	s.entrantsInput = s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, s.entrantsInput, &components.TextInputComponent{
		Label:          "Entrants (one per line, or , |)",
		Text:           entrantsText,
		CursorPosition: len([]rune(entrantsText)),
		X:              x,
		Y:              y,
		Width:          config.PanelWidth - 2*config.PanelPadding,
		Height:         config.EntrantsBoxHeight,
		Multiline:      true,
		Placeholder:    "Alice, Bob, Carol",
	})

	y += config.EntrantsBoxHeight + config.PanelLineHeight + 12
	rankText := strconv.Itoa(rank)
	s.rankInput = s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, s.rankInput, &components.TextInputComponent{
		Label:          "Target rank (Enter to start)",
		Text:           rankText,
		CursorPosition: len(rankText),
		X:              x,
		Y:              y,
		Width:          80,
		Height:         config.RankBoxHeight,
		MaxLength:      3,
		NumericOnly:    true,
		Placeholder:    "1",
	})
}

// inputText 读取输入框文本
func (s *RaceScene) inputText(id ecs.EntityID) string {
	input, ok := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
	if !ok {
		return ""
	}
	return input.Text
}

// entrants 当前输入框中的参赛者（未去重）
func (s *RaceScene) entrants() []string {
	return game.ParseNames(s.inputText(s.entrantsInput))
}

// targetRank 当前输入的目标名次，无法解析时为 1
func (s *RaceScene) targetRank() int {
	rank, err := strconv.Atoi(strings.TrimSpace(s.inputText(s.rankInput)))
	if err != nil {
		return 1
	}
	return rank
}

// StartRace 按面板输入开赛，并记住本次输入
func (s *RaceScene) StartRace() error {
	names := s.entrants()
	rank := s.targetRank()

	if err := s.raceSystem.Start(names, rank); err != nil {
		log.Printf("[RaceScene] Start failed: %v", err)
		return err
	}

	s.stepper.Reset()
	s.settings.SetEntrants(s.inputText(s.entrantsInput), rank)
	if err := s.settings.Save(); err != nil {
		log.Printf("[RaceScene] Warning: failed to save settings: %v", err)
	}
	return nil
}

// ResetRace 清空比赛
func (s *RaceScene) ResetRace() {
	s.raceSystem.Reset()
	s.stepper.Reset()
}

// Update 每帧更新
func (s *RaceScene) Update(deltaTime float64) {
	s.handleInput()
	s.textInputSystem.Update(deltaTime)
	s.advance(deltaTime)
}

// advance 推进模拟: 固定步长物理 → 下沉动画 → 实体清理
func (s *RaceScene) advance(deltaTime float64) {
	s.stepper.Advance(deltaTime, s.world.Step)
	s.sinkSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()
	s.syncInputs()
}

// syncInputs 比赛进行中锁定输入框
func (s *RaceScene) syncInputs() {
	running := s.raceSystem.Phase() == game.PhaseRunning
	for _, id := range []ecs.EntityID{s.entrantsInput, s.rankInput} {
		if input, ok := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id); ok {
			input.Disabled = running
		}
	}
}

// Draw 绘制主视口、小视口、叠加层和控制面板
func (s *RaceScene) Draw(screen *ebiten.Image) {
	s.renderSystem.DrawMain(screen)
	s.overlaySystem.DrawLabels(screen)
	s.renderSystem.DrawMini(screen)
	s.overlaySystem.DrawLeaderboard(screen)
	s.overlaySystem.DrawPanel(screen, systems.PanelStatus{
		Queued:      len(game.NormalizeEntrants(s.entrants(), s.cfg.Race.Entrants.MaxEntrants)),
		MaxEntrants: s.cfg.Race.Entrants.MaxEntrants,
	})
}

// SaveOnExit 退出时保存面板输入
func (s *RaceScene) SaveOnExit() bool {
	s.settings.SetEntrants(s.inputText(s.entrantsInput), s.targetRank())
	if err := s.settings.Save(); err != nil {
		log.Printf("[RaceScene] Failed to save settings on exit: %v", err)
		return false
	}
	return true
}

// Race 比赛控制器（供外部查询状态）
func (s *RaceScene) Race() *systems.RaceSystem {
	return s.raceSystem
}

// Camera 摄像机状态
func (s *RaceScene) Camera() *game.CameraState {
	return s.camera
}
