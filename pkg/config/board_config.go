package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// BoardConfig 棋盘布局（墙、漏斗、钉阵、旋转器、移动条、终点、弹簧）
//
// 所有坐标为世界坐标，角度单位为度，角速度单位为 弧度/秒。
//
// 配置文件位置: data/board.yaml
type BoardConfig struct {
	Surface SurfaceConfig `yaml:"surface"`
	Walls   WallsConfig   `yaml:"walls"`
	Funnel  FunnelConfig  `yaml:"funnel"`
	Pegs    PegGridConfig `yaml:"pegs"`
	Spinner SpinnerConfig `yaml:"spinner"`
	Movers  MoversConfig  `yaml:"movers"`
	Star    StarConfig    `yaml:"star"`
	Goal    GoalConfig    `yaml:"goal"`
	Rotator SpinnerConfig `yaml:"rotator"`
	Springs SpringsConfig `yaml:"springs"`
}

// SurfaceConfig 静态几何（墙、漏斗、钉、终点结构）的表面材质
//
// 物理引擎按 球 × 表面 的乘积计算实际弹性，
// Restitution = 1 时反弹完全由球自身的弹性决定。
type SurfaceConfig struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

// WallsConfig 左右边墙
type WallsConfig struct {
	Thickness float64 `yaml:"thickness"`
	Color     string  `yaml:"color"`
}

// FunnelConfig 顶部漏斗（两块对称斜板）
type FunnelConfig struct {
	// OffsetX 斜板中心到世界中线的水平距离
	OffsetX   float64 `yaml:"offsetX"`
	Y         float64 `yaml:"y"`
	Length    float64 `yaml:"length"`
	Thickness float64 `yaml:"thickness"`
	AngleDeg  float64 `yaml:"angleDeg"`
	Color     string  `yaml:"color"`
}

// PegGridConfig 交错钉阵：偶数行 EvenCols 列，奇数行 OddCols 列
type PegGridConfig struct {
	StartY      float64 `yaml:"startY"`
	Rows        int     `yaml:"rows"`
	GapX        float64 `yaml:"gapX"`
	GapY        float64 `yaml:"gapY"`
	EvenCols    int     `yaml:"evenCols"`
	OddCols     int     `yaml:"oddCols"`
	EvenOffsetX float64 `yaml:"evenOffsetX"`
	OddOffsetX  float64 `yaml:"oddOffsetX"`
	Radius      float64 `yaml:"radius"`
	Color       string  `yaml:"color"`
}

// SpinnerConfig 绕固定轴旋转的障碍物。
//
// Blades 为各叶片的角度（度），每片叶片是长 Length、厚 Thickness 的横条。
// FrameNormalized 为 true 时 Speed 表示 弧度/帧(60fps)，否则为 弧度/秒。
type SpinnerConfig struct {
	X               float64   `yaml:"x"`
	Y               float64   `yaml:"y"`
	Length          float64   `yaml:"length"`
	Thickness       float64   `yaml:"thickness"`
	HubRadius       float64   `yaml:"hubRadius"`
	Blades          []float64 `yaml:"blades"`
	Speed           float64   `yaml:"speed"`
	FrameNormalized bool      `yaml:"frameNormalized"`
	Restitution     float64   `yaml:"restitution"`
	Color           string    `yaml:"color"`
}

// MoversConfig 水平往复移动的横条
type MoversConfig struct {
	Thickness   float64 `yaml:"thickness"`
	Restitution float64 `yaml:"restitution"`
	// WallMargin 自动计算振幅时与边墙保留的距离
	WallMargin float64       `yaml:"wallMargin"`
	Bars       []MoverConfig `yaml:"bars"`
}

// MoverConfig 单个移动条
type MoverConfig struct {
	BaseX  float64 `yaml:"baseX"`
	Y      float64 `yaml:"y"`
	Length float64 `yaml:"length"`
	// Amplitude 振幅，<= 0 时根据长度和 WallMargin 自动计算
	Amplitude float64 `yaml:"amplitude"`
	Speed     float64 `yaml:"speed"`
	// Phase 初相位（弧度）
	Phase float64 `yaml:"phase"`
	Color string  `yaml:"color"`
}

// StarConfig 多叶片旋转星
type StarConfig = SpinnerConfig

// GoalConfig 终点区域：传感器、洞两侧地板、立柱、入口斜坡
type GoalConfig struct {
	// OffsetFromBottom 终点中心到世界底部的距离
	OffsetFromBottom float64 `yaml:"offsetFromBottom"`
	HoleWidth        float64 `yaml:"holeWidth"`
	FloorHeight      float64 `yaml:"floorHeight"`

	SensorPadding float64 `yaml:"sensorPadding"`
	SensorHeight  float64 `yaml:"sensorHeight"`
	SensorOffsetY float64 `yaml:"sensorOffsetY"`

	PostWidth   float64 `yaml:"postWidth"`
	PostHeight  float64 `yaml:"postHeight"`
	PostOffsetY float64 `yaml:"postOffsetY"`

	SlopeLength   float64 `yaml:"slopeLength"`
	SlopeHeight   float64 `yaml:"slopeHeight"`
	SlopeAngleDeg float64 `yaml:"slopeAngleDeg"`
	SlopeOffsetX  float64 `yaml:"slopeOffsetX"`
	SlopeRise     float64 `yaml:"slopeRise"`

	// RotatorRise 下方旋转器中心高于终点的距离
	RotatorRise float64 `yaml:"rotatorRise"`

	FloorColor  string `yaml:"floorColor"`
	SensorColor string `yaml:"sensorColor"`
	PostColor   string `yaml:"postColor"`
}

// SpringsConfig 蘑菇弹簧区
type SpringsConfig struct {
	CapRadius   float64      `yaml:"capRadius"`
	BaseRadius  float64      `yaml:"baseRadius"`
	BaseOffsetY float64      `yaml:"baseOffsetY"`
	DotRadius   float64      `yaml:"dotRadius"`
	Dots        []Point      `yaml:"dots"`
	Color       string       `yaml:"color"`
	CapColor    string       `yaml:"capColor"`
	Zones       []SpringZone `yaml:"zones"`
}

// Point 二维偏移
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SpringZone 单个弹簧区
type SpringZone struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Dir string  `yaml:"dir"`
	// Power 发射强度倍率，未配置时为 1
	Power float64 `yaml:"power"`
}

// 弹簧方向
const (
	SpringDirLeft  = "left"
	SpringDirRight = "right"
)

// DirSign 返回方向符号：right = +1，left = -1
func (z SpringZone) DirSign() float64 {
	if z.Dir == SpringDirLeft {
		return -1
	}
	return 1
}

// DefaultBoardConfig 返回默认棋盘布局（世界宽 520，高 2500）
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Surface: SurfaceConfig{Restitution: 1, Friction: 0.1},
		Walls:   WallsConfig{Thickness: 20, Color: "#2b2b3a"},
		Funnel: FunnelConfig{
			OffsetX: 70, Y: 95, Length: 170, Thickness: 12, AngleDeg: 30, Color: "#3a3a55",
		},
		Pegs: PegGridConfig{
			StartY: 180, Rows: 18, GapX: 52, GapY: 62,
			EvenCols: 8, OddCols: 7, EvenOffsetX: 60, OddOffsetX: 86,
			Radius: 7, Color: "#6c6cf5",
		},
		Spinner: SpinnerConfig{
			X: 260, Y: 760, Length: 440, Thickness: 14, HubRadius: 18,
			Blades: []float64{0}, Speed: 0.045, FrameNormalized: true,
			Restitution: 0.9, Color: "#ffd400",
		},
		Movers: MoversConfig{
			Thickness: 14, Restitution: 0.95, WallMargin: 26,
			Bars: []MoverConfig{
				{BaseX: 260, Y: 1760, Length: 200, Speed: 1.6, Phase: 0, Color: "#ff3b3b"},
				{BaseX: 260, Y: 1820, Length: 120, Speed: 2.2, Phase: math.Pi * 0.6, Color: "#ff3b3b"},
			},
		},
		Star: StarConfig{
			X: 520 * 0.66, Y: 2000, Length: 290, Thickness: 12, HubRadius: 16,
			Blades: []float64{0, 90, 45, -45}, Speed: 1.9,
			Restitution: 0.95, Color: "#2f7bff",
		},
		Goal: GoalConfig{
			OffsetFromBottom: 30, HoleWidth: 40, FloorHeight: 20,
			SensorPadding: 18, SensorHeight: 24, SensorOffsetY: 6,
			PostWidth: 12, PostHeight: 170, PostOffsetY: -38,
			SlopeLength: 240, SlopeHeight: 14, SlopeAngleDeg: 18, SlopeOffsetX: 105, SlopeRise: 150,
			RotatorRise: 180,
			FloorColor:  "#2b2b3a", SensorColor: "#ffffff10", PostColor: "#3a3a55",
		},
		Rotator: SpinnerConfig{
			X: 260, Length: 180, Thickness: 12, HubRadius: 14,
			Blades: []float64{0, 90}, Speed: 2.6,
			Restitution: 0.95, Color: "#d6a15b",
		},
		Springs: SpringsConfig{
			CapRadius: 26, BaseRadius: 18, BaseOffsetY: 34, DotRadius: 8,
			Dots:     []Point{{X: -26, Y: -5}, {X: 0, Y: 5}, {X: 22, Y: -10}},
			Color:    "#6fd6ff",
			CapColor: "#fffffff2",
			Zones: []SpringZone{
				{X: 40, Y: 1940, Dir: SpringDirRight, Power: 1},
				{X: 420, Y: 2200, Dir: SpringDirLeft, Power: 1},
				{X: 110, Y: 1520, Dir: SpringDirRight, Power: 1},
				{X: 310, Y: 1640, Dir: SpringDirLeft, Power: 1},
				{X: 120, Y: 1260, Dir: SpringDirRight, Power: 1},
				{X: 470, Y: 1440, Dir: SpringDirLeft, Power: 1},
				{X: 260, Y: 1360, Dir: SpringDirRight, Power: 1},
				{X: 120, Y: 2100, Dir: SpringDirRight, Power: 1},
			},
		},
	}
}

// LoadBoardConfig 从文件加载棋盘布局
func LoadBoardConfig(path string) (*BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board config: %w", err)
	}
	return ParseBoardConfig(data)
}

// ParseBoardConfig 解析 YAML 格式的棋盘布局，未配置的字段保留默认值
func ParseBoardConfig(data []byte) (*BoardConfig, error) {
	cfg := DefaultBoardConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse board config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}
	return cfg, nil
}

func (c *BoardConfig) applyDefaults() {
	for i := range c.Springs.Zones {
		if c.Springs.Zones[i].Power == 0 {
			c.Springs.Zones[i].Power = 1
		}
		if c.Springs.Zones[i].Dir == "" {
			c.Springs.Zones[i].Dir = SpringDirRight
		}
	}
}

// Validate 验证布局有效性
func (c *BoardConfig) Validate() error {
	if c.Surface.Restitution < 0 || c.Surface.Friction < 0 {
		return fmt.Errorf("surface material must not be negative")
	}
	if c.Walls.Thickness <= 0 {
		return fmt.Errorf("wall thickness must be positive")
	}
	if c.Funnel.Length <= 0 || c.Funnel.Thickness <= 0 {
		return fmt.Errorf("funnel size must be positive")
	}
	if c.Pegs.Rows < 0 || c.Pegs.EvenCols < 0 || c.Pegs.OddCols < 0 {
		return fmt.Errorf("peg grid counts must not be negative")
	}
	if c.Pegs.Rows > 0 && c.Pegs.Radius <= 0 {
		return fmt.Errorf("peg radius must be positive")
	}
	for name, s := range map[string]SpinnerConfig{"spinner": c.Spinner, "star": c.Star, "rotator": c.Rotator} {
		if s.Length <= 0 || s.Thickness <= 0 || s.HubRadius <= 0 {
			return fmt.Errorf("%s size must be positive", name)
		}
		if len(s.Blades) == 0 {
			return fmt.Errorf("%s needs at least one blade", name)
		}
	}
	for i, bar := range c.Movers.Bars {
		if bar.Length <= 0 {
			return fmt.Errorf("mover %d length must be positive", i)
		}
	}
	if c.Goal.HoleWidth <= 0 || c.Goal.SensorHeight <= 0 {
		return fmt.Errorf("goal hole and sensor size must be positive")
	}
	if c.Springs.CapRadius <= 0 {
		return fmt.Errorf("spring cap radius must be positive")
	}
	for i, z := range c.Springs.Zones {
		if z.Dir != SpringDirLeft && z.Dir != SpringDirRight {
			return fmt.Errorf("spring %d: unknown direction %q", i, z.Dir)
		}
		if z.Power <= 0 {
			return fmt.Errorf("spring %d: power must be positive, got %.2f", i, z.Power)
		}
	}
	colors := []string{c.Walls.Color, c.Funnel.Color, c.Pegs.Color, c.Spinner.Color, c.Star.Color,
		c.Rotator.Color, c.Goal.FloorColor, c.Goal.SensorColor, c.Goal.PostColor,
		c.Springs.Color, c.Springs.CapColor}
	for _, bar := range c.Movers.Bars {
		colors = append(colors, bar.Color)
	}
	for _, clr := range colors {
		if _, err := ParseHexColor(clr); err != nil {
			return err
		}
	}
	return nil
}

// MoverAmplitude 返回移动条的实际振幅：
// 未配置时取 "不碰到边墙" 的最大值 W/2 - margin - len/2（不小于 0）
func (c *BoardConfig) MoverAmplitude(bar MoverConfig, worldWidth float64) float64 {
	if bar.Amplitude > 0 {
		return bar.Amplitude
	}
	return math.Max(0, worldWidth/2-c.Movers.WallMargin-bar.Length/2)
}

// DegToRad 角度转弧度
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
