package scenes

import (
	"log"

	"github.com/decker502/marblerace/pkg/components"
	"github.com/decker502/marblerace/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleInput 处理场景级快捷键
//
//   - F5 / 目标名次框中按 Enter: 开赛
//   - F6: 重置；Esc: 有焦点时取消焦点，否则重置
//   - G / T: 镜头跳到终点 / 起点（仅在没有输入框获得焦点时）
func (s *RaceScene) handleInput() {
	if rank, ok := ecs.GetComponent[*components.TextInputComponent](s.entityManager, s.rankInput); ok && rank.Submitted {
		rank.Submitted = false
		_ = s.StartRace()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		_ = s.StartRace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		log.Printf("[RaceScene] Reset requested (F6)")
		s.ResetRace()
	}

	focused := s.textInputSystem.Focused()
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if focused != 0 {
			s.textInputSystem.FocusAt(-1, -1)
		} else {
			log.Printf("[RaceScene] Reset requested (Esc)")
			s.ResetRace()
		}
	}
	if focused != 0 {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		s.cameraSystem.JumpToGoal()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.cameraSystem.JumpToTop()
	}
}
