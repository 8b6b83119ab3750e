package components

import (
	cfg "github.com/automoto/drake/config"
	"github.com/yohamta/donburi"
)

// ActorData is the locomotion and ragdoll state shared by players and bots.
// It lives on the actor's upright rigid body node.
type ActorData struct {
	InAirTime       float32
	MaxInAirTime    float32
	StandUpTimer    float32
	StandUpInterval float32
	Ragdoll         donburi.Entity
	Collider        donburi.Entity
	RigidBody       donburi.Entity
	Speed           float32
	Jump            bool // Set by controllers for one tick
}

// NewActor returns actor state with the configured defaults.
func NewActor() ActorData {
	return ActorData{
		MaxInAirTime:    cfg.Actor.MaxInAirTime,
		StandUpInterval: cfg.Actor.StandUpInterval,
		Speed:           cfg.Actor.Speed,
		Ragdoll:         donburi.Null,
		Collider:        donburi.Null,
		RigidBody:       donburi.Null,
	}
}

var Actor = donburi.NewComponentType[ActorData]()
