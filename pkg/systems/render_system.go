package systems

import (
	"image"
	"image/color"
	"sort"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/game"
	"github.com/decker502/marblerace/pkg/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	backgroundColor = color.NRGBA{R: 0x14, G: 0x14, B: 0x1f, A: 0xff}
	miniBorderColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x99}
)

// RenderSystem 绘制棋盘和球
//
// 主视口: 屏幕坐标 = 视口原点 + (世界X, 世界Y - 视口上边界)
// 小视口: 先把世界的一整条横带（宽 = 世界宽度，高 = 小视口高度）画到离屏图像，
// 再横向压缩贴到主视口右下角，只在小视口激活时绘制
type RenderSystem struct {
	entityManager *ecs.EntityManager
	world         physics.World
	camera        *game.CameraState
	worldCfg      config.WorldConfig
	cameraCfg     config.CameraConfig

	miniImage *ebiten.Image
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, world physics.World, camera *game.CameraState,
	worldCfg config.WorldConfig, cameraCfg config.CameraConfig) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		world:         world,
		camera:        camera,
		worldCfg:      worldCfg,
		cameraCfg:     cameraCfg,
	}
}

// DrawMain 绘制主视口
func (s *RenderSystem) DrawMain(screen *ebiten.Image) {
	rect := image.Rect(
		int(config.MainViewX), int(config.MainViewY),
		int(config.MainViewX+s.worldCfg.Width), int(config.MainViewY+s.worldCfg.ViewHeight),
	)
	dst := screen.SubImage(rect).(*ebiten.Image)
	dst.Fill(backgroundColor)

	main := s.camera.Main
	origin := physics.V(config.MainViewX, config.MainViewY-main.Top())
	s.drawWorld(dst, origin, main.Top(), main.Bottom())
}

// DrawMini 小视口激活时绘制
func (s *RenderSystem) DrawMini(screen *ebiten.Image) {
	mini := s.camera.Mini
	if !mini.Active {
		return
	}

	w, h := int(s.worldCfg.Width), int(mini.Height)
	if s.miniImage == nil || s.miniImage.Bounds().Dx() != w || s.miniImage.Bounds().Dy() != h {
		s.miniImage = ebiten.NewImage(w, h)
	}
	s.miniImage.Fill(backgroundColor)
	s.drawWorld(s.miniImage, physics.V(0, -mini.MinY), mini.MinY, mini.MinY+mini.Height)

	x, y := config.MiniViewOrigin(s.worldCfg, s.cameraCfg)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(mini.Width/s.worldCfg.Width, 1)
	op.GeoM.Translate(x, y)
	screen.DrawImage(s.miniImage, op)

	vector.StrokeRect(screen, float32(x), float32(y), float32(mini.Width), float32(mini.Height), 2, miniBorderColor, false)
}

// drawWorld 按层级绘制所有可见刚体
//
// 参数:
//   - dst: 绘制目标
//   - origin: 世界坐标 (0,0) 在 dst 上的位置
//   - top/bottom: 可见的世界Y范围，范围外的部件跳过
func (s *RenderSystem) drawWorld(dst *ebiten.Image, origin physics.Vec2, top, bottom float64) {
	for _, id := range s.drawOrder() {
		style, _ := ecs.GetComponent[*components.StyleComponent](s.entityManager, id)
		body, _ := ecs.GetComponent[*components.BodyComponent](s.entityManager, id)
		state, ok := s.world.Body(body.Body)
		if !ok {
			continue
		}

		for _, part := range state.Parts {
			switch part.Kind {
			case physics.ShapeCircle:
				c, r := part.WorldCircle(state.Position, state.Angle, state.Scale)
				if c.Y+r < top || c.Y-r > bottom {
					continue
				}
				p := origin.Add(c)
				vector.DrawFilledCircle(dst, float32(p.X), float32(p.Y), float32(r), style.Fill, true)
			case physics.ShapeRect:
				a, b, thickness := part.WorldAxis(state.Position, state.Angle)
				if max(a.Y, b.Y)+thickness < top || min(a.Y, b.Y)-thickness > bottom {
					continue
				}
				pa, pb := origin.Add(a), origin.Add(b)
				vector.StrokeLine(dst, float32(pa.X), float32(pa.Y), float32(pb.X), float32(pb.Y),
					float32(thickness), style.Fill, true)
			}
		}
	}
}

// drawOrder 按 Layer 升序、同层按创建顺序排列的可绘制实体
func (s *RenderSystem) drawOrder() []ecs.EntityID {
	ids := ecs.GetEntitiesWith2[*components.StyleComponent, *components.BodyComponent](s.entityManager)
	sort.SliceStable(ids, func(i, j int) bool {
		si, _ := ecs.GetComponent[*components.StyleComponent](s.entityManager, ids[i])
		sj, _ := ecs.GetComponent[*components.StyleComponent](s.entityManager, ids[j])
		return si.Layer < sj.Layer
	})
	return ids
}
