// Package physics 定义比赛所需的刚体物理能力接口，并提供基于 Chipmunk2D 的实现。
//
// 比赛逻辑只通过 World 接口访问物理引擎：创建刚体、读写位置/角度/速度、
// 施加力、单步推进，以及订阅"碰撞开始"和步进前后通知。
// 引擎本身（碰撞检测、约束求解）被视为黑盒。
package physics

// BodyID 刚体句柄，0 表示无效
type BodyID uint64

// MotionType 刚体运动类型
type MotionType int

const (
	// MotionStatic 静态刚体，永不移动
	MotionStatic MotionType = iota
	// MotionKinematic 运动学刚体，由脚本直接设置位置/角度，不受力影响
	MotionKinematic
	// MotionDynamic 动力学刚体，受重力、碰撞、外力驱动
	MotionDynamic
)

// BodyKind 刚体语义分类，在创建时确定，碰撞处理按此分派
type BodyKind int

const (
	KindDecoration BodyKind = iota
	KindWall
	KindFunnel
	KindPeg
	KindSpinner
	KindMover
	KindStar
	KindRotator
	KindGoal
	KindSpring
	KindBall
)

var kindNames = map[BodyKind]string{
	KindDecoration: "decoration",
	KindWall:       "wall",
	KindFunnel:     "funnel",
	KindPeg:        "peg",
	KindSpinner:    "spinner",
	KindMover:      "mover",
	KindStar:       "star",
	KindRotator:    "rotator",
	KindGoal:       "goal",
	KindSpring:     "spring",
	KindBall:       "ball",
}

func (k BodyKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Material 表面材质参数
type Material struct {
	Restitution float64
	Friction    float64
	Density     float64
}

// BodyDef 刚体创建参数
type BodyDef struct {
	Kind     BodyKind
	Motion   MotionType
	Position Vec2
	Angle    float64
	// Parts 组成刚体的形状，多个形状组合为一个刚体
	Parts    []Shape
	Material Material
	// Sensor 为 true 时只触发碰撞事件，不产生碰撞响应
	Sensor bool
	// UserData 调用方附带的数据（通常为实体ID）
	UserData uint64
}

// BodyState 刚体当前状态快照
type BodyState struct {
	ID       BodyID
	Kind     BodyKind
	Motion   MotionType
	Position Vec2
	Angle    float64
	Velocity Vec2
	Scale    float64
	Parts    []Shape
	Sensor   bool
	UserData uint64
}

// BodyRef 碰撞事件中的一方
type BodyRef struct {
	ID       BodyID
	Kind     BodyKind
	UserData uint64
}

// CollisionPair 一次"碰撞开始"事件
type CollisionPair struct {
	A BodyRef
	B BodyRef
}

// Pick 若一方属于 kind，返回该方和另一方
func (p CollisionPair) Pick(kind BodyKind) (self, other BodyRef, ok bool) {
	switch {
	case p.A.Kind == kind:
		return p.A, p.B, true
	case p.B.Kind == kind:
		return p.B, p.A, true
	}
	return BodyRef{}, BodyRef{}, false
}

// CollisionFunc 碰撞开始回调
type CollisionFunc func(pair CollisionPair)

// StepFunc 步进前/后回调，dt 为本步时长（秒）
type StepFunc func(dt float64)

// World 物理世界能力接口
type World interface {
	CreateBody(def BodyDef) BodyID
	RemoveBody(id BodyID)
	HasBody(id BodyID) bool
	// Bodies 按创建顺序返回所有刚体
	Bodies() []BodyID
	Body(id BodyID) (BodyState, bool)

	Position(id BodyID) Vec2
	SetPosition(id BodyID, p Vec2)
	Angle(id BodyID) float64
	SetAngle(id BodyID, angle float64)
	Velocity(id BodyID) Vec2
	SetVelocity(id BodyID, v Vec2)
	// ApplyForce 在世界坐标点施加力，只作用于下一步
	ApplyForce(id BodyID, force, point Vec2)

	// SetCollidable 开关刚体的碰撞（关闭后不与任何物体发生碰撞或触发事件）
	SetCollidable(id BodyID, collidable bool)
	// SetScale 设置刚体的整体缩放（相对创建时尺寸）
	SetScale(id BodyID, scale float64)

	// Step 推进一个固定时长
	Step(dt float64)

	OnBeforeStep(fn StepFunc)
	OnAfterStep(fn StepFunc)
	OnCollisionStart(fn CollisionFunc)
}
