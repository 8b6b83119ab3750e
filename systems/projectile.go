package systems

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/scene"
)

// UpdateProjectiles removes projectiles whose lifetime ran out.
func UpdateProjectiles(sc *scene.Scene) {
	dt := sc.DT()
	var expired []donburi.Entity
	components.Projectile.Each(sc.World, func(entry *donburi.Entry) {
		p := components.Projectile.Get(entry)
		p.TTL -= dt
		if p.TTL <= 0 {
			expired = append(expired, entry.Entity())
		}
	})
	for _, e := range expired {
		sc.Remove(e)
	}
}
