package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileDocument mirrors the package globals. Keys are the lowercased field
// names, e.g.
//
//	actor:
//	  maxinairtime: 1.5
//	net:
//	  tickrate: 30
type fileDocument struct {
	Actor   *ActorConfig   `yaml:"actor"`
	Player  *PlayerConfig  `yaml:"player"`
	Bot     *BotConfigData `yaml:"bot"`
	Navmesh *NavmeshConfig `yaml:"navmesh"`
	Physics *PhysicsConfig `yaml:"physics"`
	Net     *NetConfig     `yaml:"net"`
	Cannon  *CannonConfig  `yaml:"cannon"`
	Respawn *RespawnConfig `yaml:"respawn"`
	Debug   *DebugConfig   `yaml:"debug"`
}

// LoadFile overlays the YAML document at path onto the package globals.
// Fields missing from the document keep their current values.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return Apply(data)
}

// Apply overlays a YAML document onto the package globals.
func Apply(data []byte) error {
	doc := fileDocument{
		Actor:   &Actor,
		Player:  &Player,
		Bot:     &Bot,
		Navmesh: &Navmesh,
		Physics: &Physics,
		Net:     &Net,
		Cannon:  &Cannon,
		Respawn: &Respawn,
		Debug:   &Debug,
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
