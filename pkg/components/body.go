package components

import (
	"image/color"

	"github.com/decker502/marblerace/pkg/physics"
)

// BodyComponent 实体对应的物理刚体
// 刚体本身由 physics.World 持有，这里只保存 ID（弱引用，查询前需检查 HasBody）
type BodyComponent struct {
	Body physics.BodyID
	Kind physics.BodyKind
}

// StyleComponent 渲染样式
type StyleComponent struct {
	Fill color.NRGBA

	// Layer 绘制层级，数值小的先画
	Layer int
}

// 绘制层级
const (
	LayerSensor = iota
	LayerStatic
	LayerObstacle
	LayerBall
)
