package entities

import (
	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/config"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/decker502/marblerace/pkg/physics"
)

// NewBallEntity 创建一个参赛球实体
// 参数:
//   - em: EntityManager 实例
//   - world: 物理世界
//   - cfg: 比赛配置（球的半径、材质、颜色表）
//   - name: 参赛者名字
//   - index: 出场顺序（决定颜色）
//   - pos: 出生位置（世界坐标）
//
// 返回: 创建的实体ID和刚体ID
func NewBallEntity(em *ecs.EntityManager, world physics.World, cfg *config.RaceConfig,
	name string, index int, pos physics.Vec2) (ecs.EntityID, physics.BodyID) {
	id := em.CreateEntity()

	body := world.CreateBody(physics.BodyDef{
		Kind:     physics.KindBall,
		Motion:   physics.MotionDynamic,
		Position: pos,
		Parts:    []physics.Shape{physics.Circle(physics.Vec2{}, cfg.Ball.Radius)},
		Material: physics.Material{
			Restitution: cfg.Ball.Restitution,
			Friction:    cfg.Ball.Friction,
			Density:     cfg.Ball.Density,
		},
		UserData: uint64(id),
	})

	clr := cfg.BallColor(index)
	ecs.AddComponent(em, id, &components.BallComponent{
		Name:   name,
		Color:  clr,
		Radius: cfg.Ball.Radius,
		Scale:  1,
		Order:  index,
	})
	ecs.AddComponent(em, id, &components.BodyComponent{Body: body, Kind: physics.KindBall})
	ecs.AddComponent(em, id, &components.StyleComponent{Fill: clr, Layer: components.LayerBall})

	return id, body
}
