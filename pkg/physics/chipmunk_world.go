package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
)

// ChipmunkOptions Chipmunk2D 空间参数
type ChipmunkOptions struct {
	// Gravity 重力加速度（像素/秒²）
	Gravity Vec2
	// Damping 每秒保留的速度比例（1 = 无空气阻力）
	Damping float64
	// Iterations 约束求解迭代次数
	Iterations int
}

type chipmunkBody struct {
	def        BodyDef
	body       *cp.Body
	shapes     []*cp.Shape
	scale      float64
	collidable bool
}

// ChipmunkWorld 基于 github.com/jakecoffman/cp 的 World 实现
//
// 矩形部件以胶囊线段实现（半径为短边一半），圆形部件直接映射为圆形。
// 碰撞开始事件在引擎步进期间收集，Step 返回前按发生顺序同步派发，
// 这样回调里可以安全地修改刚体。
type ChipmunkWorld struct {
	space  *cp.Space
	bodies map[BodyID]*chipmunkBody
	order  []BodyID
	nextID BodyID

	beforeStep []StepFunc
	afterStep  []StepFunc
	onCollide  []CollisionFunc
	pending    []CollisionPair
}

// NewChipmunkWorld 创建物理世界
func NewChipmunkWorld(opts ChipmunkOptions) *ChipmunkWorld {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: opts.Gravity.X, Y: opts.Gravity.Y})
	if opts.Damping > 0 {
		space.SetDamping(opts.Damping)
	}
	if opts.Iterations > 0 {
		space.Iterations = uint(opts.Iterations)
	}

	w := &ChipmunkWorld{
		space:  space,
		bodies: make(map[BodyID]*chipmunkBody),
		nextID: 1,
	}

	// 所有需要关注的事件都至少有一方是球
	handler := space.NewWildcardCollisionHandler(cp.CollisionType(KindBall))
	handler.BeginFunc = w.collisionBegin

	log.Printf("[Physics] Chipmunk space created: gravity=(%.0f, %.0f) damping=%.3f iterations=%d",
		opts.Gravity.X, opts.Gravity.Y, opts.Damping, opts.Iterations)
	return w
}

// CreateBody 创建刚体并加入空间
func (w *ChipmunkWorld) CreateBody(def BodyDef) BodyID {
	id := w.nextID
	w.nextID++

	var body *cp.Body
	switch def.Motion {
	case MotionStatic:
		body = cp.NewStaticBody()
	case MotionKinematic:
		body = cp.NewKinematicBody()
	default:
		mass, moment := massProperties(def)
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(toCP(def.Position))
	body.SetAngle(def.Angle)
	body.UserData = id
	w.space.AddBody(body)

	cb := &chipmunkBody{def: def, body: body, scale: 1, collidable: true}
	for _, part := range def.Parts {
		var shape *cp.Shape
		switch part.Kind {
		case ShapeCircle:
			shape = cp.NewCircle(body, part.Radius, toCP(part.Offset))
		default:
			a, b, r := part.Capsule()
			shape = cp.NewSegment(body, toCP(a), toCP(b), r)
		}
		shape.SetElasticity(def.Material.Restitution)
		shape.SetFriction(def.Material.Friction)
		shape.SetSensor(def.Sensor)
		shape.SetCollisionType(cp.CollisionType(def.Kind))
		shape.UserData = id
		cb.shapes = append(cb.shapes, w.space.AddShape(shape))
	}

	w.bodies[id] = cb
	w.order = append(w.order, id)
	return id
}

// massProperties 由密度和形状计算质量和转动惯量
func massProperties(def BodyDef) (mass, moment float64) {
	density := def.Material.Density
	if density <= 0 {
		density = 0.001
	}
	for _, part := range def.Parts {
		m := density * part.Area()
		mass += m
		switch part.Kind {
		case ShapeCircle:
			moment += cp.MomentForCircle(m, 0, part.Radius, toCP(part.Offset))
		default:
			moment += cp.MomentForBox(m, part.Width, part.Height)
		}
	}
	if mass <= 0 {
		mass = 1
		moment = math.Inf(1)
	}
	return mass, moment
}

// RemoveBody 从空间移除刚体及其形状，不存在时忽略
func (w *ChipmunkWorld) RemoveBody(id BodyID) {
	cb, ok := w.bodies[id]
	if !ok {
		return
	}
	for _, shape := range cb.shapes {
		w.space.RemoveShape(shape)
	}
	w.space.RemoveBody(cb.body)
	delete(w.bodies, id)
	for i, other := range w.order {
		if other == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

func (w *ChipmunkWorld) HasBody(id BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

func (w *ChipmunkWorld) Bodies() []BodyID {
	out := make([]BodyID, len(w.order))
	copy(out, w.order)
	return out
}

func (w *ChipmunkWorld) Body(id BodyID) (BodyState, bool) {
	cb, ok := w.bodies[id]
	if !ok {
		return BodyState{}, false
	}
	return BodyState{
		ID:       id,
		Kind:     cb.def.Kind,
		Motion:   cb.def.Motion,
		Position: fromCP(cb.body.Position()),
		Angle:    cb.body.Angle(),
		Velocity: fromCP(cb.body.Velocity()),
		Scale:    cb.scale,
		Parts:    cb.def.Parts,
		Sensor:   cb.def.Sensor,
		UserData: cb.def.UserData,
	}, true
}

func (w *ChipmunkWorld) Position(id BodyID) Vec2 {
	if cb, ok := w.bodies[id]; ok {
		return fromCP(cb.body.Position())
	}
	return Vec2{}
}

// SetPosition 直接设置位置，用于运动学障碍物和下沉中的球；
// 静态刚体创建后不再移动，需要移动的部件应建为运动学刚体
func (w *ChipmunkWorld) SetPosition(id BodyID, p Vec2) {
	cb, ok := w.bodies[id]
	if !ok {
		return
	}
	cb.body.SetPosition(toCP(p))
}

func (w *ChipmunkWorld) Angle(id BodyID) float64 {
	if cb, ok := w.bodies[id]; ok {
		return cb.body.Angle()
	}
	return 0
}

func (w *ChipmunkWorld) SetAngle(id BodyID, angle float64) {
	cb, ok := w.bodies[id]
	if !ok {
		return
	}
	cb.body.SetAngle(angle)
}

func (w *ChipmunkWorld) Velocity(id BodyID) Vec2 {
	if cb, ok := w.bodies[id]; ok {
		return fromCP(cb.body.Velocity())
	}
	return Vec2{}
}

func (w *ChipmunkWorld) SetVelocity(id BodyID, v Vec2) {
	if cb, ok := w.bodies[id]; ok && cb.def.Motion != MotionStatic {
		cb.body.SetVelocityVector(toCP(v))
	}
}

func (w *ChipmunkWorld) ApplyForce(id BodyID, force, point Vec2) {
	if cb, ok := w.bodies[id]; ok && cb.def.Motion == MotionDynamic {
		cb.body.ApplyForceAtWorldPoint(toCP(force), toCP(point))
	}
}

// SetCollidable 通过碰撞过滤器开关碰撞
func (w *ChipmunkWorld) SetCollidable(id BodyID, collidable bool) {
	cb, ok := w.bodies[id]
	if !ok || cb.collidable == collidable {
		return
	}
	filter := cp.SHAPE_FILTER_ALL
	if !collidable {
		filter = cp.NewShapeFilter(cp.NO_GROUP, 0, 0)
	}
	for _, shape := range cb.shapes {
		shape.SetFilter(filter)
	}
	cb.collidable = collidable
}

// SetScale 记录缩放；渲染按此缩放绘制。
// 缩放只在碰撞关闭期间使用（下沉动画），因此不重建碰撞形状。
func (w *ChipmunkWorld) SetScale(id BodyID, scale float64) {
	if cb, ok := w.bodies[id]; ok {
		cb.scale = scale
	}
}

// Step 推进一步：步进前回调 → 引擎步进 → 碰撞开始事件 → 步进后回调
func (w *ChipmunkWorld) Step(dt float64) {
	for _, fn := range w.beforeStep {
		fn(dt)
	}

	w.pending = w.pending[:0]
	w.space.Step(dt)

	if len(w.pending) > 0 {
		events := make([]CollisionPair, len(w.pending))
		copy(events, w.pending)
		for _, pair := range events {
			for _, fn := range w.onCollide {
				fn(pair)
			}
		}
	}

	for _, fn := range w.afterStep {
		fn(dt)
	}
}

func (w *ChipmunkWorld) OnBeforeStep(fn StepFunc) {
	w.beforeStep = append(w.beforeStep, fn)
}

func (w *ChipmunkWorld) OnAfterStep(fn StepFunc) {
	w.afterStep = append(w.afterStep, fn)
}

func (w *ChipmunkWorld) OnCollisionStart(fn CollisionFunc) {
	w.onCollide = append(w.onCollide, fn)
}

// collisionBegin 通配碰撞回调：只记录事件，始终允许碰撞继续
func (w *ChipmunkWorld) collisionBegin(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	shapeA, shapeB := arb.Shapes()
	a, okA := w.refOf(shapeA)
	b, okB := w.refOf(shapeB)
	if !okA || !okB {
		return true
	}
	// 球与球相撞时两侧通配回调都会触发，只记录一次
	if a.Kind == KindBall && b.Kind == KindBall && a.ID > b.ID {
		return true
	}
	w.pending = append(w.pending, CollisionPair{A: a, B: b})
	return true
}

func (w *ChipmunkWorld) refOf(shape *cp.Shape) (BodyRef, bool) {
	if shape == nil {
		return BodyRef{}, false
	}
	id, ok := shape.UserData.(BodyID)
	if !ok {
		return BodyRef{}, false
	}
	cb, ok := w.bodies[id]
	if !ok {
		return BodyRef{}, false
	}
	return BodyRef{ID: id, Kind: cb.def.Kind, UserData: cb.def.UserData}, true
}

func toCP(v Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromCP(v cp.Vector) Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}
