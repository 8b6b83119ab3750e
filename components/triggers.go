package components

import "github.com/yohamta/donburi"

// JumperData pushes actors touching its collider upwards.
type JumperData struct {
	PushForce float32
	Collider  donburi.Entity
}

var Jumper = donburi.NewComponentType[JumperData]()

type CannonPhase int

const (
	CannonIdle CannonPhase = iota
	CannonShoot
)

type CannonData struct {
	Phase             CannonPhase
	Cooldown          float32
	ShootInterval     float32
	ProjectileImpulse float32
	Muzzle            donburi.Entity
	ShotSound         donburi.Entity
}

var Cannon = donburi.NewComponentType[CannonData]()

type RotatorData struct {
	RotationSpeed float32 // Radians per second around Y
}

var Rotator = donburi.NewComponentType[RotatorData]()

type ProjectileData struct {
	TTL float32
}

var Projectile = donburi.NewComponentType[ProjectileData]()
