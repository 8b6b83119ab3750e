package systems

import "github.com/automoto/drake/scene"

// Install wires the scripts into a simulated scene. Order matters: actors
// and their controllers first, then triggers, then the ragdoll follower so
// bones see this tick's body state before physics steps.
func Install(sc *scene.Scene) {
	subscribeActorMessages(sc)

	sc.AddSystem(UpdateActors)
	sc.AddSystem(UpdatePlayers)
	sc.AddSystem(UpdateBots)
	sc.AddSystem(UpdateJumpers)
	sc.AddSystem(UpdateCannons)
	sc.AddSystem(UpdateRotators)
	sc.AddSystem(UpdateProjectiles)
	sc.AddSystem(UpdateSounds)
	sc.AddSystem(UpdateRespawnZones)
	sc.AddSystem(UpdateRagdolls)
}
