package systems

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/scene"
)

// UpdateSounds stops one-shot sounds once they played for their length.
func UpdateSounds(sc *scene.Scene) {
	dt := sc.DT()
	components.Sound.Each(sc.World, func(entry *donburi.Entry) {
		s := components.Sound.Get(entry)
		if s.Status != components.SoundPlaying || s.Looping || s.Length <= 0 {
			return
		}
		s.Elapsed += dt
		if s.Elapsed >= s.Length {
			s.Stop()
		}
	})
}
