package config

import (
	"fmt"

	"github.com/decker502/marblerace/pkg/embedded"
)

// 数据文件路径（相对嵌入文件系统）
const (
	RaceConfigPath  = "data/race.yaml"
	BoardConfigPath = "data/board.yaml"
)

// GameConfig 一局游戏所需的全部配置
type GameConfig struct {
	Race  *RaceConfig
	Board *BoardConfig
}

// LoadGameConfig 从嵌入数据（或覆盖目录）加载比赛参数和棋盘布局
//
// 返回：
//   - *GameConfig: 两份配置均通过验证后的结果
//   - error: 任一文件读取、解析或验证失败
func LoadGameConfig() (*GameConfig, error) {
	raceData, err := embedded.ReadFile(RaceConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", RaceConfigPath, err)
	}
	race, err := ParseRaceConfig(raceData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RaceConfigPath, err)
	}

	boardData, err := embedded.ReadFile(BoardConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", BoardConfigPath, err)
	}
	board, err := ParseBoardConfig(boardData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", BoardConfigPath, err)
	}

	cfg := &GameConfig{Race: race, Board: board}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultGameConfig 返回内置默认配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{Race: DefaultRaceConfig(), Board: DefaultBoardConfig()}
}

// Validate 检查两份配置之间的一致性
func (c *GameConfig) Validate() error {
	goalY := c.Race.World.Height - c.Board.Goal.OffsetFromBottom
	if goalY <= 0 || goalY > c.Race.World.Height {
		return fmt.Errorf("goal y %.0f outside world height %.0f", goalY, c.Race.World.Height)
	}
	if c.Board.Goal.HoleWidth >= c.Race.World.Width {
		return fmt.Errorf("goal hole (%.0f) wider than world (%.0f)", c.Board.Goal.HoleWidth, c.Race.World.Width)
	}
	for i, z := range c.Board.Springs.Zones {
		if z.X < 0 || z.X > c.Race.World.Width || z.Y < 0 || z.Y > c.Race.World.Height {
			return fmt.Errorf("spring %d at (%.0f, %.0f) outside world", i, z.X, z.Y)
		}
	}
	return nil
}

// GoalCenter 返回终点传感器中心（吸入与下沉动画的目标点）
func (c *GameConfig) GoalCenter() (x, y float64) {
	goalY := c.Race.World.Height - c.Board.Goal.OffsetFromBottom
	return c.Race.World.Width / 2, goalY + c.Board.Goal.SensorOffsetY
}
