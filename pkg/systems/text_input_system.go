package systems

import (
	"image"
	"log"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TextInputSystem 文本输入系统
// 处理控制面板输入框的焦点切换、键盘输入和光标闪烁
type TextInputSystem struct {
	entityManager *ecs.EntityManager
}

// NewTextInputSystem 创建文本输入系统
func NewTextInputSystem(em *ecs.EntityManager) *TextInputSystem {
	return &TextInputSystem{
		entityManager: em,
	}
}

// Update 更新文本输入系统
func (s *TextInputSystem) Update(deltaTime float64) {
	s.handleFocus()

	entities := ecs.GetEntitiesWith1[*components.TextInputComponent](s.entityManager)
	for _, entityID := range entities {
		input, ok := ecs.GetComponent[*components.TextInputComponent](s.entityManager, entityID)
		if !ok {
			continue
		}

		// 只处理获得焦点且可编辑的输入框
		if !input.IsFocused || input.Disabled {
			input.CursorVisible = false
			continue
		}

		s.updateCursorBlink(input, deltaTime)
		s.handleKeyboardInput(input)
	}
}

// Focused 返回当前获得焦点的输入框，没有时返回 0
func (s *TextInputSystem) Focused() ecs.EntityID {
	for _, id := range ecs.GetEntitiesWith1[*components.TextInputComponent](s.entityManager) {
		input, _ := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
		if input.IsFocused {
			return id
		}
	}
	return 0
}

// handleFocus Tab 在输入框之间切换焦点，鼠标点击输入框获得焦点，点击别处失去焦点
func (s *TextInputSystem) handleFocus() {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		s.FocusNext()
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.FocusAt(ebiten.CursorPosition())
	}
}

// FocusNext 焦点移到下一个输入框（按创建顺序循环）
func (s *TextInputSystem) FocusNext() {
	ids := ecs.GetEntitiesWith1[*components.TextInputComponent](s.entityManager)
	if len(ids) == 0 {
		return
	}

	next := 0
	for i, id := range ids {
		input, _ := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
		if input.IsFocused {
			next = (i + 1) % len(ids)
			break
		}
	}
	s.focus(ids[next])
}

// FocusAt 点击坐标落在某个输入框内时让它获得焦点，否则所有输入框失去焦点
func (s *TextInputSystem) FocusAt(x, y int) {
	pt := image.Pt(x, y)
	var target ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.TextInputComponent](s.entityManager) {
		input, _ := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
		rect := image.Rect(int(input.X), int(input.Y), int(input.X+input.Width), int(input.Y+input.Height))
		if pt.In(rect) {
			target = id
			break
		}
	}
	s.focus(target)
}

// focus 让 target 获得焦点（0 表示全部失去焦点）
func (s *TextInputSystem) focus(target ecs.EntityID) {
	for _, id := range ecs.GetEntitiesWith1[*components.TextInputComponent](s.entityManager) {
		input, _ := ecs.GetComponent[*components.TextInputComponent](s.entityManager, id)
		input.IsFocused = id == target
		if input.IsFocused {
			input.CursorPosition = len([]rune(input.Text))
			input.CursorBlinkTimer = 0
			input.CursorVisible = true
		}
	}
}

// updateCursorBlink 更新光标闪烁状态
func (s *TextInputSystem) updateCursorBlink(input *components.TextInputComponent, deltaTime float64) {
	const blinkInterval = 0.5 // 光标闪烁间隔（秒）

	input.CursorBlinkTimer += deltaTime
	if input.CursorBlinkTimer >= blinkInterval {
		input.CursorBlinkTimer = 0
		input.CursorVisible = !input.CursorVisible
	}
}

// repeating 第1帧立即响应，按住 30 帧后每 3 帧响应一次
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%3 == 0)
}

// handleKeyboardInput 处理键盘输入
func (s *TextInputSystem) handleKeyboardInput(input *components.TextInputComponent) {
	edited := false

	if runes := ebiten.AppendInputChars(nil); len(runes) > 0 {
		s.insertText(input, string(runes))
		edited = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		if input.Multiline {
			s.insertText(input, "\n")
		} else {
			input.Submitted = true
		}
		edited = true
	}

	if repeating(ebiten.KeyBackspace) {
		s.deleteCharBefore(input)
		edited = true
	}
	if repeating(ebiten.KeyDelete) {
		s.deleteCharAfter(input)
		edited = true
	}
	if repeating(ebiten.KeyArrowLeft) {
		s.moveCursorLeft(input)
		edited = true
	}
	if repeating(ebiten.KeyArrowRight) {
		s.moveCursorRight(input)
		edited = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		input.CursorPosition = 0
		edited = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		input.CursorPosition = len([]rune(input.Text))
		edited = true
	}

	// 编辑时光标保持可见
	if edited {
		input.CursorBlinkTimer = 0
		input.CursorVisible = true
	}
}

// insertText 在光标位置插入文本
// 调试字体只能显示 ASCII，其余字符被过滤；NumericOnly 时只保留数字
func (s *TextInputSystem) insertText(input *components.TextInputComponent, text string) {
	filtered := make([]rune, 0, len(text))
	for _, r := range text {
		switch {
		case input.NumericOnly && (r < '0' || r > '9'):
		case r == '\n' && input.Multiline:
			filtered = append(filtered, r)
		case r < 0x20 || r > 0x7e:
		default:
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return
	}

	runes := []rune(input.Text)
	if input.MaxLength > 0 && len(runes)+len(filtered) > input.MaxLength {
		log.Printf("[TextInputSystem] Max length reached (%d chars)", input.MaxLength)
		return
	}

	pos := clampCursor(input.CursorPosition, len(runes))
	result := make([]rune, 0, len(runes)+len(filtered))
	result = append(result, runes[:pos]...)
	result = append(result, filtered...)
	result = append(result, runes[pos:]...)

	input.Text = string(result)
	input.CursorPosition = pos + len(filtered)
}

// deleteCharBefore 删除光标前的字符（退格）
func (s *TextInputSystem) deleteCharBefore(input *components.TextInputComponent) {
	runes := []rune(input.Text)
	pos := clampCursor(input.CursorPosition, len(runes))
	if pos == 0 {
		return
	}

	input.Text = string(append(runes[:pos-1:pos-1], runes[pos:]...))
	input.CursorPosition = pos - 1
}

// deleteCharAfter 删除光标后的字符（Delete键）
func (s *TextInputSystem) deleteCharAfter(input *components.TextInputComponent) {
	runes := []rune(input.Text)
	pos := clampCursor(input.CursorPosition, len(runes))
	if pos >= len(runes) {
		return
	}

	input.Text = string(append(runes[:pos:pos], runes[pos+1:]...))
	input.CursorPosition = pos
}

// moveCursorLeft 光标左移
func (s *TextInputSystem) moveCursorLeft(input *components.TextInputComponent) {
	if input.CursorPosition > 0 {
		input.CursorPosition--
	}
}

// moveCursorRight 光标右移
func (s *TextInputSystem) moveCursorRight(input *components.TextInputComponent) {
	if input.CursorPosition < len([]rune(input.Text)) {
		input.CursorPosition++
	}
}

func clampCursor(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}
