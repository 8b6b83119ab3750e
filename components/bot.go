package components

import (
	"github.com/automoto/drake/navmesh"
	"github.com/yohamta/donburi"
)

type BotData struct {
	Speed        float32
	ProbeLocator donburi.Entity
	Absm         donburi.Entity
	Agent        *navmesh.Agent
	Navmesh      *navmesh.Shared // Acquired when the bot is created, nil when the level has none
}

var Bot = donburi.NewComponentType[BotData]()
