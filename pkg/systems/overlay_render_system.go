package systems

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试字体的字符尺寸
const (
	debugCharWidth  = 6
	debugCharHeight = 16
)

var (
	labelBackground = color.NRGBA{A: 0x8c}
	panelBackground = color.NRGBA{R: 0x1c, G: 0x1c, B: 0x2a, A: 0xff}
	inputBackground = color.NRGBA{R: 0x0e, G: 0x0e, B: 0x16, A: 0xff}
	inputBorder     = color.NRGBA{R: 0x5a, G: 0x5a, B: 0x80, A: 0xff}
	inputFocus      = color.NRGBA{R: 0xff, G: 0xd4, B: 0x00, A: 0xff}
	targetHighlight = color.NRGBA{R: 0xff, G: 0xd4, B: 0x00, A: 0x55}
	cursorColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// PanelStatus 控制面板上显示的状态
type PanelStatus struct {
	// Queued 输入框中有效的参赛人数（已去重、截断）
	Queued int
	// MaxEntrants 参赛人数上限
	MaxEntrants int
}

// OverlayRenderSystem 叠加层：球的名字标签、完赛榜和右侧控制面板
// 文字使用 ebitenutil 调试字体，只支持 ASCII
type OverlayRenderSystem struct {
	entityManager *ecs.EntityManager
	race          *RaceSystem
	camera        *game.CameraState
	raceLog       *game.RaceLog
	worldCfg      config.WorldConfig
}

// NewOverlayRenderSystem 创建叠加层渲染系统
func NewOverlayRenderSystem(em *ecs.EntityManager, race *RaceSystem, camera *game.CameraState,
	raceLog *game.RaceLog, worldCfg config.WorldConfig) *OverlayRenderSystem {
	return &OverlayRenderSystem{
		entityManager: em,
		race:          race,
		camera:        camera,
		raceLog:       raceLog,
		worldCfg:      worldCfg,
	}
}

// DrawLabels 在主视口中每个球上方绘制名字标签
func (s *OverlayRenderSystem) DrawLabels(screen *ebiten.Image) {
	top := s.camera.Main.Top()
	for _, ball := range s.race.Balls() {
		x := config.MainViewX + ball.Position.X
		y := config.MainViewY + ball.Position.Y - top + config.BallLabelOffsetY
		if y < config.MainViewY-config.BallLabelHeight || y > config.MainViewY+s.worldCfg.ViewHeight+config.BallLabelHeight {
			continue
		}

		vector.DrawFilledRect(screen,
			float32(x-config.BallLabelWidth/2), float32(y-config.BallLabelHeight/2-1),
			config.BallLabelWidth, config.BallLabelHeight, labelBackground, false)
		ebitenutil.DebugPrintAt(screen, ball.Name, int(x)-len(ball.Name)*debugCharWidth/2, int(y)-debugCharHeight/2-1)
	}
}

// DrawLeaderboard 在主视口右上角绘制完赛顺序，目标名次所在行高亮
func (s *OverlayRenderSystem) DrawLeaderboard(screen *ebiten.Image) {
	order := s.race.FinishOrder()
	x := config.MainViewX + s.worldCfg.Width - config.LeaderboardWidth - 14
	y := config.MainViewY + 14

	vector.DrawFilledRect(screen, float32(x), float32(y),
		config.LeaderboardWidth, float32(20+len(order)*debugCharHeight), labelBackground, false)
	ebitenutil.DebugPrintAt(screen, "Finish:", int(x)+10, int(y)+4)

	target := s.race.TargetRank()
	for i, name := range order {
		rowY := y + 20 + float64(i*debugCharHeight)
		if i+1 == target {
			vector.DrawFilledRect(screen, float32(x), float32(rowY), config.LeaderboardWidth, debugCharHeight, targetHighlight, false)
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d. %s", i+1, name), int(x)+10, int(rowY))
	}
}

// DrawPanel 绘制右侧控制面板：输入框、状态和比赛日志
func (s *OverlayRenderSystem) DrawPanel(screen *ebiten.Image, status PanelStatus) {
	px := config.PanelX(s.worldCfg)
	vector.DrawFilledRect(screen, float32(px), float32(config.MainViewY),
		config.PanelWidth, float32(s.worldCfg.ViewHeight), panelBackground, false)

	x := int(px + config.PanelPadding)
	y := int(config.MainViewY + config.PanelPadding)
	ebitenutil.DebugPrintAt(screen, "MARBLE RACE", x, y)

	for _, id := range ecs.GetEntitiesWith1[*components.TextInputComponent](s.entityManager) {
		input, _ := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
		s.drawInput(screen, input)
	}

	y = int(s.inputsBottom() + config.PanelPadding)
	lines := []string{
		fmt.Sprintf("Status: %s", s.race.Phase()),
		fmt.Sprintf("Queued: %d / max %d", status.Queued, status.MaxEntrants),
		fmt.Sprintf("Balls on board: %d", s.race.BallCount()),
		"F5 start  F6 reset  Tab focus",
		"G goal  T top  F11 fullscreen",
		"",
		"Log:",
	}
	lines = append(lines, s.raceLog.Recent(config.RaceLogLines)...)
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += config.PanelLineHeight
	}
}

// inputsBottom 所有输入框的最低边（屏幕Y）
func (s *OverlayRenderSystem) inputsBottom() float64 {
	bottom := config.MainViewY + config.PanelPadding + debugCharHeight
	for _, id := range ecs.GetEntitiesWith1[*components.TextInputComponent](s.entityManager) {
		input, _ := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
		bottom = max(bottom, input.Y+input.Height)
	}
	return bottom
}

// drawInput 绘制一个输入框：标题、边框、文本（或占位符）和光标
func (s *OverlayRenderSystem) drawInput(screen *ebiten.Image, input *components.TextInputComponent) {
	ebitenutil.DebugPrintAt(screen, input.Label, int(input.X), int(input.Y)-debugCharHeight-2)

	border := inputBorder
	if input.IsFocused && !input.Disabled {
		border = inputFocus
	}
	vector.DrawFilledRect(screen, float32(input.X), float32(input.Y), float32(input.Width), float32(input.Height), inputBackground, false)
	vector.StrokeRect(screen, float32(input.X), float32(input.Y), float32(input.Width), float32(input.Height), 1, border, false)

	tx, ty := int(input.X)+4, int(input.Y)+4
	if input.Text == "" && !input.IsFocused {
		ebitenutil.DebugPrintAt(screen, input.Placeholder, tx, ty)
		return
	}

	maxLines := max(int(input.Height-8)/debugCharHeight, 1)
	lines, hidden := visibleLines(input.Text, maxLines)
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), tx, ty)

	if input.IsFocused && input.CursorVisible && !input.Disabled {
		row, col := cursorRowCol(input.Text, input.CursorPosition)
		row -= hidden
		if row < 0 || row >= len(lines) {
			return
		}
		cx := float32(tx + col*debugCharWidth)
		cy := float32(ty + row*debugCharHeight)
		vector.StrokeLine(screen, cx, cy+2, cx, cy+debugCharHeight-2, 1, cursorColor, false)
	}
}

// visibleLines 返回文本最后 n 行以及被隐藏的前部行数
func visibleLines(text string, n int) (lines []string, hidden int) {
	lines = strings.Split(text, "\n")
	if len(lines) > n {
		hidden = len(lines) - n
		lines = lines[hidden:]
	}
	return lines, hidden
}

// cursorRowCol 光标所在的行和列（按字符计）
func cursorRowCol(text string, cursor int) (row, col int) {
	runes := []rune(text)
	cursor = clampCursor(cursor, len(runes))
	before := strings.Split(string(runes[:cursor]), "\n")
	return len(before) - 1, len([]rune(before[len(before)-1]))
}
