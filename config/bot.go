package config

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Speed                  float32 // Navmesh agent speed
	RecalculationThreshold float32 // Target drift that triggers a path rebuild
	ArriveDistance         float32 // Distance to the final target at which the bot stops
	ProbeMaxHeight         float32 // Length of the downward edge probe
	EdgeDepth              float32 // Probe hits deeper than this count as an edge
	JumpVelocity           float32
	RunThreshold           float32 // Horizontal speed above which the bot counts as running
	ProbeOffset            float32 // Distance of the probe locator in front of the body
}

// NavmeshConfig controls how platform tops are linked into a navigation mesh
type NavmeshConfig struct {
	LinkGap  float32 // Max horizontal gap between two linked polygons
	MaxClimb float32 // Max height a link may climb
	MaxDrop  float32 // Max height a link may drop
}

// Bot holds bot AI configuration
var Bot BotConfigData

var Navmesh NavmeshConfig

func init() {
	Bot = BotConfigData{
		Speed:                  1.0,
		RecalculationThreshold: 0.5,
		ArriveDistance:         1.0,
		ProbeMaxHeight:         10.0,
		EdgeDepth:              8.0,
		JumpVelocity:           5.0,
		RunThreshold:           0.1,
		ProbeOffset:            0.6,
	}

	Navmesh = NavmeshConfig{
		LinkGap:  1.5,
		MaxClimb: 1.0,
		MaxDrop:  20.0,
	}
}
