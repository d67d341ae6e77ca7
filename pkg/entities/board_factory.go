package entities

import (
	"fmt"
	"log"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
)

// Board 已构建的棋盘
// 构建完成后不再变化；障碍物的运动由 ObstacleSystem 驱动
type Board struct {
	// GoalCenter 终点传感器中心（吸入目标和下沉动画终点）
	GoalCenter physics.Vec2
	// GoalEntity 终点传感器实体
	GoalEntity ecs.EntityID

	bodyToEntity map[physics.BodyID]ecs.EntityID
}

// EntityOf 返回刚体所属的棋盘实体
func (b *Board) EntityOf(body physics.BodyID) (ecs.EntityID, bool) {
	id, ok := b.bodyToEntity[body]
	return id, ok
}

// BodyCount 棋盘刚体数量
func (b *Board) BodyCount() int {
	return len(b.bodyToEntity)
}

// boardBuilder 构建过程中的共享状态
type boardBuilder struct {
	em    *ecs.EntityManager
	world physics.World
	cfg   *config.BoardConfig
	board *Board
}

// part 描述一个棋盘刚体
type part struct {
	kind     physics.BodyKind
	motion   physics.MotionType
	pos      physics.Vec2
	angle    float64
	shapes   []physics.Shape
	material physics.Material
	sensor   bool
	color    string
	layer    int
}

// BuildBoard 一次性构建全部静态几何和脚本障碍物
//
// 参数:
//   - em: EntityManager 实例
//   - world: 物理世界
//   - cfg: 棋盘布局
//   - worldCfg: 世界尺寸
//
// 返回:
//   - *Board: 终点位置和刚体索引
//   - error: 布局无效时返回错误
func BuildBoard(em *ecs.EntityManager, world physics.World, cfg *config.BoardConfig, worldCfg config.WorldConfig) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board layout: %w", err)
	}

	b := &boardBuilder{
		em:    em,
		world: world,
		cfg:   cfg,
		board: &Board{bodyToEntity: make(map[physics.BodyID]ecs.EntityID)},
	}

	b.addWalls(worldCfg)
	b.addFunnel(worldCfg)
	b.addPegs()
	b.addRotator(cfg.Spinner, physics.KindSpinner, physics.V(cfg.Spinner.X, cfg.Spinner.Y))
	b.addMovers(worldCfg)
	b.addRotator(cfg.Star, physics.KindStar, physics.V(cfg.Star.X, cfg.Star.Y))
	goalY := b.addGoal(worldCfg)
	b.addRotator(cfg.Rotator, physics.KindRotator, physics.V(cfg.Rotator.X, goalY-cfg.Goal.RotatorRise))
	b.addSprings()

	log.Printf("[BoardBuilder] 棋盘构建完成: %d 个刚体, 终点 (%.0f, %.0f)",
		len(b.board.bodyToEntity), b.board.GoalCenter.X, b.board.GoalCenter.Y)
	return b.board, nil
}

// add 创建实体和刚体，刚体的 UserData 为实体ID
func (b *boardBuilder) add(p part) (ecs.EntityID, physics.BodyID) {
	id := b.em.CreateEntity()
	body := b.world.CreateBody(physics.BodyDef{
		Kind:     p.kind,
		Motion:   p.motion,
		Position: p.pos,
		Angle:    p.angle,
		Parts:    p.shapes,
		Material: p.material,
		Sensor:   p.sensor,
		UserData: uint64(id),
	})
	// 颜色已在配置验证时检查过
	fill, _ := config.ParseHexColor(p.color)

	ecs.AddComponent(b.em, id, &components.BodyComponent{Body: body, Kind: p.kind})
	ecs.AddComponent(b.em, id, &components.StyleComponent{Fill: fill, Layer: p.layer})
	b.board.bodyToEntity[body] = id
	return id, body
}

func (b *boardBuilder) surface() physics.Material {
	return physics.Material{Restitution: b.cfg.Surface.Restitution, Friction: b.cfg.Surface.Friction}
}

// addStaticRect 添加一块静态矩形
func (b *boardBuilder) addStaticRect(kind physics.BodyKind, x, y, w, h, angle float64, color string) {
	b.add(part{
		kind:     kind,
		motion:   physics.MotionStatic,
		pos:      physics.V(x, y),
		angle:    angle,
		shapes:   []physics.Shape{physics.Rect(physics.Vec2{}, w, h, 0)},
		material: b.surface(),
		color:    color,
		layer:    components.LayerStatic,
	})
}

func (b *boardBuilder) addWalls(w config.WorldConfig) {
	t := b.cfg.Walls.Thickness
	b.addStaticRect(physics.KindWall, t/2, w.Height/2, t, w.Height, 0, b.cfg.Walls.Color)
	b.addStaticRect(physics.KindWall, w.Width-t/2, w.Height/2, t, w.Height, 0, b.cfg.Walls.Color)
}

// addFunnel 顶部漏斗：两块竖板分别向中线倾斜
func (b *boardBuilder) addFunnel(w config.WorldConfig) {
	f := b.cfg.Funnel
	angle := config.DegToRad(f.AngleDeg)
	b.addStaticRect(physics.KindFunnel, w.Width/2-f.OffsetX, f.Y, f.Thickness, f.Length, angle, f.Color)
	b.addStaticRect(physics.KindFunnel, w.Width/2+f.OffsetX, f.Y, f.Thickness, f.Length, -angle, f.Color)
}

// addPegs 交错钉阵：偶数行和奇数行列数、起始偏移不同
func (b *boardBuilder) addPegs() {
	p := b.cfg.Pegs
	for row := 0; row < p.Rows; row++ {
		y := p.StartY + float64(row)*p.GapY
		cols, offsetX := p.EvenCols, p.EvenOffsetX
		if row%2 == 1 {
			cols, offsetX = p.OddCols, p.OddOffsetX
		}
		for c := 0; c < cols; c++ {
			b.add(part{
				kind:     physics.KindPeg,
				motion:   physics.MotionStatic,
				pos:      physics.V(offsetX+float64(c)*p.GapX, y),
				shapes:   []physics.Shape{physics.Circle(physics.Vec2{}, p.Radius)},
				material: b.surface(),
				color:    p.Color,
				layer:    components.LayerStatic,
			})
		}
	}
}

// addRotator 旋转障碍：若干叶片 + 中心轴，组合为一个运动学刚体
func (b *boardBuilder) addRotator(s config.SpinnerConfig, kind physics.BodyKind, pos physics.Vec2) {
	shapes := make([]physics.Shape, 0, len(s.Blades)+1)
	for _, deg := range s.Blades {
		shapes = append(shapes, physics.Rect(physics.Vec2{}, s.Length, s.Thickness, config.DegToRad(deg)))
	}
	shapes = append(shapes, physics.Circle(physics.Vec2{}, s.HubRadius))

	id, _ := b.add(part{
		kind:     kind,
		motion:   physics.MotionKinematic,
		pos:      pos,
		shapes:   shapes,
		material: physics.Material{Restitution: s.Restitution},
		color:    s.Color,
		layer:    components.LayerObstacle,
	})
	ecs.AddComponent(b.em, id, &components.RotatorComponent{
		Speed:           s.Speed,
		FrameNormalized: s.FrameNormalized,
	})
}

// addMovers 水平往复移动条
func (b *boardBuilder) addMovers(w config.WorldConfig) {
	m := b.cfg.Movers
	for _, bar := range m.Bars {
		id, _ := b.add(part{
			kind:     physics.KindMover,
			motion:   physics.MotionKinematic,
			pos:      physics.V(bar.BaseX, bar.Y),
			shapes:   []physics.Shape{physics.Rect(physics.Vec2{}, bar.Length, m.Thickness, 0)},
			material: physics.Material{Restitution: m.Restitution},
			color:    bar.Color,
			layer:    components.LayerObstacle,
		})
		ecs.AddComponent(b.em, id, &components.MoverComponent{
			BaseX:     bar.BaseX,
			Y:         bar.Y,
			Amplitude: b.cfg.MoverAmplitude(bar, w.Width),
			Speed:     bar.Speed,
			Phase:     bar.Phase,
		})
	}
}

// addGoal 终点区域：传感器、洞两侧地板、两根立柱、两块入口斜坡
// 返回终点中心高度 goalY
func (b *boardBuilder) addGoal(w config.WorldConfig) float64 {
	g := b.cfg.Goal
	goalX := w.Width / 2
	goalY := w.Height - g.OffsetFromBottom

	// 地板：洞左右各一段，顶在世界底边
	leftW := goalX - g.HoleWidth/2
	rightW := w.Width - (goalX + g.HoleWidth/2)
	b.addStaticRect(physics.KindWall, leftW/2, w.Height, leftW, g.FloorHeight, 0, g.FloorColor)
	b.addStaticRect(physics.KindWall, goalX+g.HoleWidth/2+rightW/2, w.Height, rightW, g.FloorHeight, 0, g.FloorColor)

	center := physics.V(goalX, goalY+g.SensorOffsetY)
	id, _ := b.add(part{
		kind:   physics.KindGoal,
		motion: physics.MotionStatic,
		pos:    center,
		shapes: []physics.Shape{physics.Rect(physics.Vec2{}, g.HoleWidth+g.SensorPadding, g.SensorHeight, 0)},
		sensor: true,
		color:  g.SensorColor,
		layer:  components.LayerSensor,
	})
	ecs.AddComponent(b.em, id, &components.GoalComponent{CenterX: center.X, CenterY: center.Y})
	b.board.GoalCenter = center
	b.board.GoalEntity = id

	postOffset := g.HoleWidth/2 + g.PostWidth/2
	b.addStaticRect(physics.KindWall, goalX-postOffset, goalY+g.PostOffsetY, g.PostWidth, g.PostHeight, 0, g.PostColor)
	b.addStaticRect(physics.KindWall, goalX+postOffset, goalY+g.PostOffsetY, g.PostWidth, g.PostHeight, 0, g.PostColor)

	// 斜坡外高内低，把球导向立柱之间
	slope := config.DegToRad(g.SlopeAngleDeg)
	slopeX := postOffset + g.SlopeOffsetX
	slopeY := goalY - g.SlopeRise
	b.addStaticRect(physics.KindWall, goalX-slopeX, slopeY, g.SlopeLength, g.SlopeHeight, slope, g.PostColor)
	b.addStaticRect(physics.KindWall, goalX+slopeX, slopeY, g.SlopeLength, g.SlopeHeight, -slope, g.PostColor)

	return goalY
}

// addSprings 蘑菇弹簧：底座、三个装饰圆点（实体碰撞）和一个传感器伞盖
func (b *boardBuilder) addSprings() {
	s := b.cfg.Springs
	for _, z := range s.Zones {
		shapes := []physics.Shape{physics.Circle(physics.V(0, s.BaseOffsetY), s.BaseRadius)}
		for _, d := range s.Dots {
			shapes = append(shapes, physics.Circle(physics.V(d.X, d.Y), s.DotRadius))
		}
		b.add(part{
			kind:     physics.KindDecoration,
			motion:   physics.MotionStatic,
			pos:      physics.V(z.X, z.Y),
			shapes:   shapes,
			material: b.surface(),
			color:    s.Color,
			layer:    components.LayerStatic,
		})

		id, _ := b.add(part{
			kind:   physics.KindSpring,
			motion: physics.MotionStatic,
			pos:    physics.V(z.X, z.Y),
			shapes: []physics.Shape{physics.Circle(physics.Vec2{}, s.CapRadius)},
			sensor: true,
			color:  s.CapColor,
			layer:  components.LayerObstacle,
		})
		ecs.AddComponent(b.em, id, &components.SpringComponent{
			DirSign: z.DirSign(),
			Power:   z.Power,
		})
	}
}
