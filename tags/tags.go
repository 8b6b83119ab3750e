package tags

import "github.com/yohamta/donburi"

var (
	Actor      = donburi.NewTag().SetName("Actor")
	StartPoint = donburi.NewTag().SetName("StartPoint")
	Target     = donburi.NewTag().SetName("Target")
	Platform   = donburi.NewTag().SetName("Platform")
	Bone       = donburi.NewTag().SetName("Bone")
	Muzzle     = donburi.NewTag().SetName("Muzzle")
	Probe      = donburi.NewTag().SetName("Probe")
)
