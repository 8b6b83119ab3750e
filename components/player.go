package components

import (
	"github.com/automoto/drake/shared/messages"
	"github.com/yohamta/donburi"
)

// PlayerData holds the latest input for a player avatar. On the server it is
// written by the network layer; on a client it is written by the local input
// system and forwarded to the server.
type PlayerData struct {
	Input messages.InputState
	Absm  donburi.Entity
}

var Player = donburi.NewComponentType[PlayerData]()
