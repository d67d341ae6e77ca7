package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RaceConfig 比赛调校参数
//
// 时间单位均为秒，长度单位为世界像素，速度单位为 像素/秒。
//
// 配置文件位置: data/race.yaml
type RaceConfig struct {
	World       WorldConfig       `yaml:"world"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Ball        BallConfig        `yaml:"ball"`
	Entrants    EntrantsConfig    `yaml:"entrants"`
	GoalCapture GoalCaptureConfig `yaml:"goalCapture"`
	Sink        SinkConfig        `yaml:"sink"`
	Camera      CameraConfig      `yaml:"camera"`
	Spring      SpringConfig      `yaml:"spring"`

	// Palette 球的颜色表（按出场顺序循环使用）
	Palette []string `yaml:"palette"`
}

// WorldConfig 世界尺寸
type WorldConfig struct {
	// Width 世界宽度（同时也是主视口宽度）
	Width float64 `yaml:"width"`
	// Height 世界总高度
	Height float64 `yaml:"height"`
	// ViewHeight 主视口高度
	ViewHeight float64 `yaml:"viewHeight"`
}

// PhysicsConfig 物理引擎与固定步长参数
type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"`
	// Damping 每秒保留的速度比例
	Damping    float64 `yaml:"damping"`
	Iterations int     `yaml:"iterations"`
	// FixedStep 固定步长
	FixedStep float64 `yaml:"fixedStep"`
	// MaxFrame 单帧最多累积的时间，防止卡顿后追帧失控
	MaxFrame float64 `yaml:"maxFrame"`
}

// BallConfig 球的物理参数
type BallConfig struct {
	Radius      float64 `yaml:"radius"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Density     float64 `yaml:"density"`
	// MaxSpeed 速度上限，防止高速穿透薄障碍
	MaxSpeed float64 `yaml:"maxSpeed"`
}

// EntrantsConfig 参赛者与出生参数
type EntrantsConfig struct {
	MaxEntrants int `yaml:"maxEntrants"`
	// SpawnY 第一个球的出生高度，之后每个球下移 SpawnStagger
	SpawnY       float64 `yaml:"spawnY"`
	SpawnStagger float64 `yaml:"spawnStagger"`
	// SpawnJitterX 出生点水平随机偏移范围 [-jitter, jitter]
	SpawnJitterX float64 `yaml:"spawnJitterX"`
	// SpawnForce 出生时水平随机力的幅度，力 = (rand-0.5)*SpawnForce
	SpawnForce float64 `yaml:"spawnForce"`
}

// GoalCaptureConfig 终点吸入参数
type GoalCaptureConfig struct {
	SuctionRadius float64 `yaml:"suctionRadius"`
	SuctionForce  float64 `yaml:"suctionForce"`
	// SuctionFloor 吸力系数下限（在吸入半径边缘处仍有的吸力比例）
	SuctionFloor float64 `yaml:"suctionFloor"`
	NearRadius   float64 `yaml:"nearRadius"`
}

// SinkConfig 下沉动画参数
type SinkConfig struct {
	Duration float64 `yaml:"duration"`
	// MinScale 动画结束时的缩放比例
	MinScale float64 `yaml:"minScale"`
}

// CameraConfig 主视口/小视口参数
type CameraConfig struct {
	// StartFocus 开赛后镜头固定在起点区域的时长
	StartFocus float64 `yaml:"startFocus"`
	// Smoothing 每步向领先球靠近的比例
	Smoothing  float64 `yaml:"smoothing"`
	MiniWidth  float64 `yaml:"miniWidth"`
	MiniHeight float64 `yaml:"miniHeight"`
	MiniMargin float64 `yaml:"miniMargin"`
}

// SpringConfig 蘑菇弹簧发射参数（实际值再乘以每个弹簧的 power）
type SpringConfig struct {
	BaseVelocityX float64 `yaml:"baseVelocityX"`
	BaseVelocityY float64 `yaml:"baseVelocityY"`
	BoostForceX   float64 `yaml:"boostForceX"`
	BoostForceY   float64 `yaml:"boostForceY"`
}

// DefaultRaceConfig 返回默认调校参数
//
// 数值来自原版网页版本，速度类参数已从 像素/帧(60fps) 换算为 像素/秒。
func DefaultRaceConfig() *RaceConfig {
	return &RaceConfig{
		World: WorldConfig{Width: 520, Height: 2500, ViewHeight: 760},
		Physics: PhysicsConfig{
			Gravity:    1150,
			Damping:    0.485,
			Iterations: 10,
			FixedStep:  1.0 / 60.0,
			MaxFrame:   0.1,
		},
		Ball: BallConfig{
			Radius:      12,
			Restitution: 0.45,
			Friction:    0.02,
			Density:     0.004,
			MaxSpeed:    1560,
		},
		Entrants: EntrantsConfig{
			MaxEntrants:  10,
			SpawnY:       55,
			SpawnStagger: 3,
			SpawnJitterX: 60,
			SpawnForce:   3000,
		},
		GoalCapture: GoalCaptureConfig{
			SuctionRadius: 240,
			SuctionForce:  900,
			SuctionFloor:  0.45,
			NearRadius:    58,
		},
		Sink: SinkConfig{Duration: 0.52, MinScale: 0.45},
		Camera: CameraConfig{
			StartFocus: 1.4,
			Smoothing:  0.12,
			MiniWidth:  220,
			MiniHeight: 160,
			MiniMargin: 18,
		},
		Spring: SpringConfig{
			BaseVelocityX: 510,
			BaseVelocityY: -870,
			BoostForceX:   8000,
			BoostForceY:   -12000,
		},
		Palette: []string{
			"#ffcc66", "#7dd3fc", "#c4b5fd", "#86efac", "#fda4af",
			"#fbbf24", "#a7f3d0", "#93c5fd", "#f9a8d4", "#fde68a",
		},
	}
}

// LoadRaceConfig 从文件加载比赛配置
//
// 参数:
//   - path: 配置文件路径（如 "data/race.yaml"）
//
// 返回:
//   - *RaceConfig: 加载成功后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadRaceConfig(path string) (*RaceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read race config: %w", err)
	}
	return ParseRaceConfig(data)
}

// ParseRaceConfig 解析 YAML 格式的比赛配置
//
// 未出现在 YAML 中的字段保留默认值。
func ParseRaceConfig(data []byte) (*RaceConfig, error) {
	cfg := DefaultRaceConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse race config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid race config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置有效性
func (c *RaceConfig) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 || c.World.ViewHeight <= 0 {
		return fmt.Errorf("world dimensions must be positive")
	}
	if c.World.ViewHeight > c.World.Height {
		return fmt.Errorf("viewHeight(%.0f) exceeds world height(%.0f)", c.World.ViewHeight, c.World.Height)
	}
	if c.Physics.FixedStep <= 0 {
		return fmt.Errorf("fixedStep must be positive, got %f", c.Physics.FixedStep)
	}
	if c.Physics.MaxFrame < c.Physics.FixedStep {
		return fmt.Errorf("maxFrame(%f) must be >= fixedStep(%f)", c.Physics.MaxFrame, c.Physics.FixedStep)
	}
	if c.Physics.Damping < 0 || c.Physics.Damping > 1 {
		return fmt.Errorf("damping must be in [0, 1], got %f", c.Physics.Damping)
	}
	if c.Ball.Radius <= 0 || c.Ball.MaxSpeed <= 0 || c.Ball.Density <= 0 {
		return fmt.Errorf("ball radius, density and maxSpeed must be positive")
	}
	if c.Entrants.MaxEntrants < 1 {
		return fmt.Errorf("maxEntrants must be >= 1, got %d", c.Entrants.MaxEntrants)
	}
	if c.GoalCapture.NearRadius <= 0 || c.GoalCapture.SuctionRadius <= c.GoalCapture.NearRadius {
		return fmt.Errorf("suctionRadius(%.1f) must exceed nearRadius(%.1f) > 0",
			c.GoalCapture.SuctionRadius, c.GoalCapture.NearRadius)
	}
	if c.GoalCapture.SuctionFloor <= 0 {
		return fmt.Errorf("suctionFloor must be positive, got %f", c.GoalCapture.SuctionFloor)
	}
	if c.Sink.Duration <= 0 {
		return fmt.Errorf("sink duration must be positive, got %f", c.Sink.Duration)
	}
	if c.Sink.MinScale <= 0 || c.Sink.MinScale > 1 {
		return fmt.Errorf("sink minScale must be in (0, 1], got %f", c.Sink.MinScale)
	}
	if c.Camera.Smoothing <= 0 || c.Camera.Smoothing > 1 {
		return fmt.Errorf("camera smoothing must be in (0, 1], got %f", c.Camera.Smoothing)
	}
	if c.Camera.MiniWidth <= 0 || c.Camera.MiniHeight <= 0 || c.Camera.MiniHeight > c.World.Height {
		return fmt.Errorf("mini viewport size invalid: %.0fx%.0f", c.Camera.MiniWidth, c.Camera.MiniHeight)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("palette must not be empty")
	}
	for _, hex := range c.Palette {
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
	}
	return nil
}

// BallColor 返回第 i 个球的颜色
func (c *RaceConfig) BallColor(i int) color.NRGBA {
	clr, _ := ParseHexColor(c.Palette[i%len(c.Palette)])
	return clr
}

// ParseHexColor 解析 "#rrggbb" 或 "#rrggbbaa" 格式的颜色（非预乘 alpha）
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
