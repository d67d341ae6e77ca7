package components

// MoverComponent 水平往复移动的障碍条
// x = BaseX + Amplitude * sin(t * Speed + Phase)，y 固定
type MoverComponent struct {
	BaseX     float64
	Y         float64
	Amplitude float64
	Speed     float64 // 角速度（弧度/秒）
	Phase     float64 // 初相位（弧度）
}

// RotatorComponent 绕固定轴旋转的障碍（主旋转器、星、木质十字）
type RotatorComponent struct {
	Speed float64

	// FrameNormalized 为 true 时 Speed 的单位是 弧度/帧(60fps)，
	// 每步角度增量 = Speed * dt(ms) / 16.666
	FrameNormalized bool

	// Angle 当前累计角度，不做取模
	Angle float64
}

// SpringComponent 蘑菇弹簧（只触发，不产生碰撞）
type SpringComponent struct {
	DirSign float64 // +1 向右，-1 向左
	Power   float64
}

// GoalComponent 终点传感器
type GoalComponent struct {
	CenterX float64
	CenterY float64
}
