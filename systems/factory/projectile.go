package factory

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/archetypes"
	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
)

// CreateProjectile spawns a cannon ball at pos and kicks it with impulse.
func CreateProjectile(g *graph.Graph, pos, impulse mgl32.Vec3) *donburi.Entry {
	p := archetypes.Projectile.Spawn(g, "Projectile", donburi.Null, pos)
	rb := components.RigidBodyData{
		Kind:         components.BodyDynamic,
		Mass:         cfg.Cannon.ProjectileMass,
		GravityScale: 1,
	}
	rb.ApplyImpulse(impulse)
	components.RigidBody.SetValue(p, rb)
	components.Collider.SetValue(p, components.ColliderData{
		Shape:  components.BallShape(cfg.Cannon.ProjectileRadius),
		Groups: ProjectileGroups,
	})
	components.Projectile.SetValue(p, components.ProjectileData{TTL: cfg.Cannon.ProjectileTTL})
	return p
}
