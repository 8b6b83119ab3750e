package config

import "time"

// ActorConfig contains locomotion and ragdoll tuning shared by players and bots
type ActorConfig struct {
	MaxInAirTime    float32 // Seconds without ground contact before the ragdoll takes over
	StandUpInterval float32 // Seconds of continuous ground contact before standing up
	Speed           float32 // Max self-propelled horizontal speed
	AirControlScale float32 // Force multiplier applied to desired velocity while airborne or ragdolled
	ForcedAirTime   float32 // Air time forced by a serious impact

	// Serious impact thresholds
	ImpactVelocity float32 // Relative linear velocity between the two bodies of a manifold
	ImpactImpulse  float32 // Impulse of any single contact point
}

// PlayerConfig contains player script values
type PlayerConfig struct {
	JumpVelocity float32
	TurnSpeed    float32 // Radians per second for keyboard yaw
}

// PhysicsConfig contains host physics values
type PhysicsConfig struct {
	Gravity     float32
	MaxContacts int     // Upper bound on contact pairs tracked per collider
	SkinWidth   float32 // Contact tolerance so resting bodies keep touching the ground
	Friction    float32 // Tangential damping per second on upward-facing contacts
}

// NetConfig contains transport and session values
type NetConfig struct {
	DefaultAddress string
	TickRate       int
	MaxFrameSize   uint32 // Frames larger than this are treated as malformed
	DialTimeout    time.Duration
	WriteTimeout   time.Duration // Per frame; a stalled peer is closed
	PlayerPrefab   string
	DefaultLevel   string
	LevelDir       string
}

// CannonConfig contains defaults for cannon triggers
type CannonConfig struct {
	ShootInterval     float32
	ProjectileImpulse float32
	ProjectileRadius  float32
	ProjectileMass    float32
	ProjectileTTL     float32
}

// RespawnConfig contains respawn zone defaults
type RespawnConfig struct {
	Threshold float32 // Actors below this Y are respawned
}

// DebugConfig contains debug toggles. DisableRagdoll is persisted via gdata.
type DebugConfig struct {
	DisableRagdoll bool `json:"disableRagdoll" yaml:"disable_ragdoll"`
	DrawContacts   bool `json:"drawContacts" yaml:"draw_contacts"`
}

var Actor ActorConfig
var Player PlayerConfig
var Physics PhysicsConfig
var Net NetConfig
var Cannon CannonConfig
var Respawn RespawnConfig
var Debug DebugConfig

func init() {
	Actor = ActorConfig{
		MaxInAirTime:    1.1,
		StandUpInterval: 1.0,
		Speed:           4.0,
		AirControlScale: 2.25,
		ForcedAirTime:   999.0,
		ImpactVelocity:  1.0,
		ImpactImpulse:   0.6,
	}

	Player = PlayerConfig{
		JumpVelocity: 5.0,
		TurnSpeed:    2.5,
	}

	Physics = PhysicsConfig{
		Gravity:     -9.81,
		MaxContacts: 64,
		SkinWidth:   0.01,
		Friction:    8.0,
	}

	Net = NetConfig{
		DefaultAddress: "127.0.0.1:10001",
		TickRate:       60,
		MaxFrameSize:   16 << 20,
		DialTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		PlayerPrefab:   "data/models/player.rgs",
		DefaultLevel:   "data/maps/drake.tmx",
		LevelDir:       "data/maps",
	}

	Cannon = CannonConfig{
		ShootInterval:     2.0,
		ProjectileImpulse: 12.0,
		ProjectileRadius:  0.25,
		ProjectileMass:    2.0,
		ProjectileTTL:     5.0,
	}

	Respawn = RespawnConfig{
		Threshold: -10.0,
	}

	// Debug Config (defaults, can be overridden by CLI flags or saved settings)
	Debug = DebugConfig{}
}
