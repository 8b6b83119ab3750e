package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/scene"
)

var rng = rand.New(rand.NewSource(42))

// UpdateRespawnZones handles every actor that fell below a zone's threshold.
// Respawn and Damage send the actor back to a start point; Kill removes it.
func UpdateRespawnZones(sc *scene.Scene) {
	var actors []donburi.Entity
	components.Actor.Each(sc.World, func(entry *donburi.Entry) {
		actors = append(actors, entry.Entity())
	})
	starts := StartPoints(sc)

	var killed []donburi.Entity
	components.RespawnZone.Each(sc.World, func(entry *donburi.Entry) {
		zone := components.RespawnZone.Get(entry)
		for _, e := range actors {
			pos, ok := sc.GlobalPosition(e)
			if !ok || pos.Y() >= zone.Threshold {
				continue
			}
			switch zone.Action {
			case components.ActionKill:
				killed = append(killed, e)
			default:
				if p, ok := pickStartPoint(zone, starts); ok {
					SendActorMessage(sc, ActorMessage{Actor: e, Kind: ActorRespawnAt, Position: p})
				}
			}
		}
	})

	for _, e := range killed {
		sc.Remove(e)
	}
}

func pickStartPoint(zone *components.RespawnZoneData, starts []mgl32.Vec3) (mgl32.Vec3, bool) {
	if len(starts) == 0 {
		return mgl32.Vec3{}, false
	}
	switch zone.Mode {
	case components.RespawnRandom:
		return starts[rng.Intn(len(starts))], true
	default:
		p := starts[zone.Next%len(starts)]
		zone.Next = (zone.Next + 1) % len(starts)
		return p, true
	}
}
