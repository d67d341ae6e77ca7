// Package physicstest 提供用于测试的确定性 physics.World 实现。
//
// World 只做最简单的显式欧拉积分：动力学刚体受重力和外力，
// 可选地板阻挡下落；传感器刚体与球重叠时触发"碰撞开始"事件。
// 不处理实体之间的碰撞响应。
package physicstest

import (
	"github.com/decker502/marblerace/pkg/physics"
)

type body struct {
	def        physics.BodyDef
	pos        physics.Vec2
	angle      float64
	vel        physics.Vec2
	force      physics.Vec2
	mass       float64
	scale      float64
	collidable bool
}

// World 测试用物理世界
type World struct {
	// Gravity 重力加速度
	Gravity physics.Vec2
	// FloorY 大于 0 时，动力学圆形刚体无法低于此高度
	FloorY float64

	bodies   map[physics.BodyID]*body
	order    []physics.BodyID
	nextID   physics.BodyID
	touching map[[2]physics.BodyID]bool

	beforeStep []physics.StepFunc
	afterStep  []physics.StepFunc
	onCollide  []physics.CollisionFunc

	// Steps 已执行的步数
	Steps int
}

// NewWorld 创建测试世界
func NewWorld(gravity physics.Vec2) *World {
	return &World{
		Gravity:  gravity,
		bodies:   make(map[physics.BodyID]*body),
		nextID:   1,
		touching: make(map[[2]physics.BodyID]bool),
	}
}

var _ physics.World = (*World)(nil)

func (w *World) CreateBody(def physics.BodyDef) physics.BodyID {
	id := w.nextID
	w.nextID++

	mass := 0.0
	density := def.Material.Density
	if density <= 0 {
		density = 0.001
	}
	for _, part := range def.Parts {
		mass += density * part.Area()
	}
	if mass <= 0 {
		mass = 1
	}

	w.bodies[id] = &body{
		def:        def,
		pos:        def.Position,
		angle:      def.Angle,
		mass:       mass,
		scale:      1,
		collidable: true,
	}
	w.order = append(w.order, id)
	return id
}

func (w *World) RemoveBody(id physics.BodyID) {
	if _, ok := w.bodies[id]; !ok {
		return
	}
	delete(w.bodies, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	for key := range w.touching {
		if key[0] == id || key[1] == id {
			delete(w.touching, key)
		}
	}
}

func (w *World) HasBody(id physics.BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

func (w *World) Bodies() []physics.BodyID {
	out := make([]physics.BodyID, len(w.order))
	copy(out, w.order)
	return out
}

func (w *World) Body(id physics.BodyID) (physics.BodyState, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return physics.BodyState{}, false
	}
	return physics.BodyState{
		ID:       id,
		Kind:     b.def.Kind,
		Motion:   b.def.Motion,
		Position: b.pos,
		Angle:    b.angle,
		Velocity: b.vel,
		Scale:    b.scale,
		Parts:    b.def.Parts,
		Sensor:   b.def.Sensor,
		UserData: b.def.UserData,
	}, true
}

func (w *World) Position(id physics.BodyID) physics.Vec2 {
	if b, ok := w.bodies[id]; ok {
		return b.pos
	}
	return physics.Vec2{}
}

func (w *World) SetPosition(id physics.BodyID, p physics.Vec2) {
	if b, ok := w.bodies[id]; ok {
		b.pos = p
	}
}

func (w *World) Angle(id physics.BodyID) float64 {
	if b, ok := w.bodies[id]; ok {
		return b.angle
	}
	return 0
}

func (w *World) SetAngle(id physics.BodyID, angle float64) {
	if b, ok := w.bodies[id]; ok {
		b.angle = angle
	}
}

func (w *World) Velocity(id physics.BodyID) physics.Vec2 {
	if b, ok := w.bodies[id]; ok {
		return b.vel
	}
	return physics.Vec2{}
}

func (w *World) SetVelocity(id physics.BodyID, v physics.Vec2) {
	if b, ok := w.bodies[id]; ok && b.def.Motion != physics.MotionStatic {
		b.vel = v
	}
}

func (w *World) ApplyForce(id physics.BodyID, force, point physics.Vec2) {
	if b, ok := w.bodies[id]; ok && b.def.Motion == physics.MotionDynamic {
		b.force = b.force.Add(force)
	}
}

// Force 返回刚体当前累积的外力（测试断言用）
func (w *World) Force(id physics.BodyID) physics.Vec2 {
	if b, ok := w.bodies[id]; ok {
		return b.force
	}
	return physics.Vec2{}
}

// Mass 返回刚体质量
func (w *World) Mass(id physics.BodyID) float64 {
	if b, ok := w.bodies[id]; ok {
		return b.mass
	}
	return 0
}

func (w *World) SetCollidable(id physics.BodyID, collidable bool) {
	if b, ok := w.bodies[id]; ok {
		b.collidable = collidable
	}
}

// Collidable 返回刚体是否参与碰撞
func (w *World) Collidable(id physics.BodyID) bool {
	if b, ok := w.bodies[id]; ok {
		return b.collidable
	}
	return false
}

func (w *World) SetScale(id physics.BodyID, scale float64) {
	if b, ok := w.bodies[id]; ok {
		b.scale = scale
	}
}

func (w *World) Step(dt float64) {
	for _, fn := range w.beforeStep {
		fn(dt)
	}

	for _, id := range w.order {
		b := w.bodies[id]
		if b.def.Motion != physics.MotionDynamic {
			continue
		}
		accel := w.Gravity.Add(b.force.Scale(1 / b.mass))
		b.vel = b.vel.Add(accel.Scale(dt))
		b.pos = b.pos.Add(b.vel.Scale(dt))
		b.force = physics.Vec2{}

		if w.FloorY > 0 {
			r := radiusOf(b)
			if b.pos.Y+r > w.FloorY {
				b.pos.Y = w.FloorY - r
				if b.vel.Y > 0 {
					b.vel.Y = 0
				}
			}
		}
	}
	w.Steps++

	for _, pair := range w.detectSensorContacts() {
		for _, fn := range w.onCollide {
			fn(pair)
		}
	}

	for _, fn := range w.afterStep {
		fn(dt)
	}
}

// detectSensorContacts 查找新发生的 动力学刚体 × 传感器 重叠
func (w *World) detectSensorContacts() []physics.CollisionPair {
	var events []physics.CollisionPair
	for _, did := range w.order {
		d := w.bodies[did]
		if d.def.Motion != physics.MotionDynamic {
			continue
		}
		for _, sid := range w.order {
			s := w.bodies[sid]
			if !s.def.Sensor {
				continue
			}
			key := [2]physics.BodyID{did, sid}
			overlap := d.collidable && s.collidable && overlaps(d, s)
			if overlap && !w.touching[key] {
				events = append(events, physics.CollisionPair{
					A: physics.BodyRef{ID: did, Kind: d.def.Kind, UserData: d.def.UserData},
					B: physics.BodyRef{ID: sid, Kind: s.def.Kind, UserData: s.def.UserData},
				})
			}
			if overlap {
				w.touching[key] = true
			} else {
				delete(w.touching, key)
			}
		}
	}
	return events
}

func radiusOf(b *body) float64 {
	r := 0.0
	for _, part := range b.def.Parts {
		if part.Kind == physics.ShapeCircle && part.Radius > r {
			r = part.Radius
		}
	}
	return r * b.scale
}

func overlaps(d, s *body) bool {
	center := d.pos
	r := radiusOf(d)
	for _, part := range s.def.Parts {
		switch part.Kind {
		case physics.ShapeCircle:
			c, pr := part.WorldCircle(s.pos, s.angle, 1)
			if center.Sub(c).Len() <= r+pr {
				return true
			}
		default:
			a, bb, pr := part.WorldSegment(s.pos, s.angle)
			if physics.PointSegmentDistance(center, a, bb) <= r+pr {
				return true
			}
		}
	}
	return false
}

func (w *World) OnBeforeStep(fn physics.StepFunc) {
	w.beforeStep = append(w.beforeStep, fn)
}

func (w *World) OnAfterStep(fn physics.StepFunc) {
	w.afterStep = append(w.afterStep, fn)
}

func (w *World) OnCollisionStart(fn physics.CollisionFunc) {
	w.onCollide = append(w.onCollide, fn)
}
