package components

// TextInputComponent 文本输入框组件
// 用于控制面板中输入参赛者名单和目标名次
type TextInputComponent struct {
	// Label 输入框上方的标题
	Label string

	// 输入框文本
	Text           string // 当前输入的文本
	CursorPosition int    // 光标位置（字符索引，非字节）

	// 输入框位置和尺寸（屏幕坐标）
	X      float64
	Y      float64
	Width  float64
	Height float64

	// 光标状态
	CursorVisible    bool    // 光标是否可见（闪烁效果）
	CursorBlinkTimer float64 // 光标闪烁计时器（秒）

	// 输入限制
	MaxLength   int    // 最大字符数（0 = 无限制）
	Multiline   bool   // 是否允许 Enter 换行
	NumericOnly bool   // 是否只接受数字
	Placeholder string // 占位符文本（输入框为空时显示）

	// 焦点状态
	IsFocused bool // 是否获得焦点（接收键盘输入）

	// Disabled 比赛进行中禁止编辑
	Disabled bool

	// Submitted 在单行输入框中按下 Enter 时置为 true，由使用方读取后清除
	Submitted bool
}
