package scenes

import (
	"github.com/decker502/marblerace/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// RaceScene 实现 game.Scene 和 game.Saveable
var (
	_ Scene         = (*RaceScene)(nil)
	_ game.Saveable = (*RaceScene)(nil)
)
