package components

import (
	"fmt"
	"strings"

	"github.com/yohamta/donburi"
)

// RespawnMode selects the start point used when respawning.
type RespawnMode int

const (
	RespawnRoundRobin RespawnMode = iota
	RespawnRandom
)

// ParseRespawnMode parses "round_robin" or "random".
func ParseRespawnMode(s string) (RespawnMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "round_robin", "roundrobin":
		return RespawnRoundRobin, nil
	case "random":
		return RespawnRandom, nil
	}
	return RespawnRoundRobin, fmt.Errorf("unknown respawn mode %q", s)
}

// RespawnAction is what a respawn zone does to an actor that fell into it.
type RespawnAction int

const (
	ActionRespawn RespawnAction = iota
	ActionDamage
	ActionKill
)

// ParseRespawnAction parses "respawn", "damage" or "kill".
func ParseRespawnAction(s string) (RespawnAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "respawn":
		return ActionRespawn, nil
	case "damage":
		return ActionDamage, nil
	case "kill":
		return ActionKill, nil
	}
	return ActionRespawn, fmt.Errorf("unknown respawn action %q", s)
}

type RespawnZoneData struct {
	Threshold float32 // Actors whose Y is below this are handled
	Mode      RespawnMode
	Action    RespawnAction
	Next      int // Round-robin cursor
}

var RespawnZone = donburi.NewComponentType[RespawnZoneData]()
