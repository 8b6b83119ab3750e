package components

import "github.com/yohamta/donburi"

// LevelData is a singleton describing the loaded level.
type LevelData struct {
	Path  string
	Name  string
	Bound float32 // Side of the square from the origin that encloses the level
}

var Level = donburi.NewComponentType[LevelData]()
