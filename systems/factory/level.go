package factory

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/archetypes"
	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
)

func CreateLevel(g *graph.Graph, data components.LevelData) *donburi.Entry {
	level := archetypes.Level.Spawn(g, "Level", donburi.Null, mgl32.Vec3{})
	components.Level.SetValue(level, data)
	return level
}

// CreatePlatform adds a static box of level geometry. The collider is a
// trimesh so ground probes treat it as level.
func CreatePlatform(g *graph.Graph, parent donburi.Entity, name string, center, halfExtents mgl32.Vec3) *donburi.Entry {
	p := archetypes.Platform.Spawn(g, name, parent, center)
	components.Collider.SetValue(p, components.ColliderData{
		Shape:  components.TrimeshBox(halfExtents),
		Groups: StaticGroups,
	})
	return p
}

func CreateStartPoint(g *graph.Graph, parent donburi.Entity, pos mgl32.Vec3) *donburi.Entry {
	return archetypes.StartPoint.Spawn(g, "StartPoint", parent, pos)
}

func CreateTarget(g *graph.Graph, parent donburi.Entity, pos mgl32.Vec3) *donburi.Entry {
	return archetypes.Target.Spawn(g, "Target", parent, pos)
}

// CreateJumper adds a sensor pad that launches actors with pushForce.
func CreateJumper(g *graph.Graph, parent donburi.Entity, center, halfExtents mgl32.Vec3, pushForce float32) *donburi.Entry {
	j := archetypes.Jumper.Spawn(g, "Jumper", parent, center)
	components.Collider.SetValue(j, components.ColliderData{
		Shape:  components.BoxShape(halfExtents),
		Groups: TriggerGroups,
		Sensor: true,
	})
	components.Jumper.SetValue(j, components.JumperData{PushForce: pushForce, Collider: j.Entity()})
	return j
}

// CreateCannon adds a cannon facing yaw, with a muzzle and a shot sound.
func CreateCannon(g *graph.Graph, parent donburi.Entity, pos mgl32.Vec3, yaw, interval, impulse float32) *donburi.Entry {
	c := archetypes.Cannon.Spawn(g, "Cannon", parent, pos)
	components.Node.Get(c).Rotation = mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})

	muzzle := archetypes.Muzzle.Spawn(g, "Muzzle", c.Entity(), mgl32.Vec3{0, 0.5, 0.8})
	shot := archetypes.Sound.Spawn(g, "Shot", c.Entity(), mgl32.Vec3{})
	components.Sound.SetValue(shot, components.SoundData{Name: "shot", Length: 0.5})

	components.Cannon.SetValue(c, components.CannonData{
		Phase:             components.CannonIdle,
		Cooldown:          interval,
		ShootInterval:     interval,
		ProjectileImpulse: impulse,
		Muzzle:            muzzle.Entity(),
		ShotSound:         shot.Entity(),
	})
	return c
}

// CreateRotator adds a static box obstacle spinning at speed rad/s.
func CreateRotator(g *graph.Graph, parent donburi.Entity, center, halfExtents mgl32.Vec3, speed float32) *donburi.Entry {
	r := archetypes.Rotator.Spawn(g, "Rotator", parent, center)
	components.Collider.SetValue(r, components.ColliderData{
		Shape:  components.BoxShape(halfExtents),
		Groups: StaticGroups,
	})
	components.Rotator.SetValue(r, components.RotatorData{RotationSpeed: speed})
	return r
}

func CreateRespawnZone(g *graph.Graph, parent donburi.Entity, zone components.RespawnZoneData) *donburi.Entry {
	z := archetypes.RespawnZone.Spawn(g, "RespawnZone", parent, mgl32.Vec3{})
	components.RespawnZone.SetValue(z, zone)
	return z
}

// CreateSound adds a sound source, playing from the start when looping.
func CreateSound(g *graph.Graph, parent donburi.Entity, name string, pos mgl32.Vec3, looping bool) *donburi.Entry {
	s := archetypes.Sound.Spawn(g, name, parent, pos)
	data := components.SoundData{Name: name, Looping: looping}
	if looping {
		data.Status = components.SoundPlaying
	}
	components.Sound.SetValue(s, data)
	return s
}
