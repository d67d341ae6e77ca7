package physics

import "math"

// ShapeKind 形状类型
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Shape 刚体的一个组成形状（局部坐标）
type Shape struct {
	Kind ShapeKind
	// Offset 相对刚体中心的偏移
	Offset Vec2
	// Radius 圆形半径
	Radius float64
	// Width/Height 矩形尺寸，Angle 为矩形相对刚体的旋转
	Width  float64
	Height float64
	Angle  float64
}

// Circle 创建圆形部件
func Circle(offset Vec2, radius float64) Shape {
	return Shape{Kind: ShapeCircle, Offset: offset, Radius: radius}
}

// Rect 创建矩形部件
func Rect(offset Vec2, width, height, angle float64) Shape {
	return Shape{Kind: ShapeRect, Offset: offset, Width: width, Height: height, Angle: angle}
}

// Capsule 把矩形表示为两端圆头的线段：沿长边的端点 a、b 与半径（短边一半）。
// 端点在刚体局部坐标系中。
func (s Shape) Capsule() (a, b Vec2, radius float64) {
	long, short := s.Width, s.Height
	axis := V(1, 0)
	if s.Height > s.Width {
		long, short = s.Height, s.Width
		axis = V(0, 1)
	}
	radius = short / 2
	half := math.Max(long/2-radius, 0)
	dir := axis.Rotate(s.Angle).Scale(half)
	return s.Offset.Sub(dir), s.Offset.Add(dir), radius
}

// WorldCircle 返回圆形部件在世界坐标中的圆心和半径
func (s Shape) WorldCircle(pos Vec2, angle, scale float64) (Vec2, float64) {
	return pos.Add(s.Offset.Scale(scale).Rotate(angle)), s.Radius * scale
}

// WorldSegment 返回矩形部件（胶囊）在世界坐标中的端点和半径
func (s Shape) WorldSegment(pos Vec2, angle float64) (a, b Vec2, radius float64) {
	la, lb, r := s.Capsule()
	return pos.Add(la.Rotate(angle)), pos.Add(lb.Rotate(angle)), r
}

// Area 形状面积（用于由密度计算质量）
func (s Shape) Area() float64 {
	if s.Kind == ShapeCircle {
		return math.Pi * s.Radius * s.Radius
	}
	return s.Width * s.Height
}

// PointSegmentDistance 点 p 到线段 ab 的最短距离
func PointSegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Scale(t))).Len()
}

// WorldAxis 返回矩形部件在世界坐标中沿长边的完整中线（端点在矩形边缘）和短边宽度，
// 用于按粗线绘制矩形
func (s Shape) WorldAxis(pos Vec2, angle float64) (a, b Vec2, thickness float64) {
	long, short := s.Width, s.Height
	axis := V(1, 0)
	if s.Height > s.Width {
		long, short = s.Height, s.Width
		axis = V(0, 1)
	}
	half := axis.Rotate(s.Angle).Scale(long / 2)
	center := pos.Add(s.Offset.Rotate(angle))
	half = half.Rotate(angle)
	return center.Sub(half), center.Add(half), short
}
