package assets

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/automoto/drake/components"
	"github.com/automoto/drake/navmesh"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/systems"
	"github.com/automoto/drake/systems/factory"
)

// levelNamespace seeds the instance ids of level nodes.
var levelNamespace = uuid.MustParse("6d7a1b7e-3f0c-4b8e-9a51-0c2f6d1e8b44")

// LoadScene parses the level at p and builds a ready-to-tick scene from it.
// Every peer building the same level gets the same instance ids.
func (m *Manager) LoadScene(p string) (*scene.Scene, error) {
	def, err := m.LoadLevel(p)
	if err != nil {
		m.log.WithError(err).Errorf("failed to load level %s", p)
		return nil, err
	}
	sc := Build(def)
	m.log.Infof("loaded level %s (%d nodes)", p, sc.Len())
	return sc, nil
}

// Build creates the scene described by def with its scripts installed.
func Build(def *LevelDef) *scene.Scene {
	sc := scene.New(def.Path)
	systems.Install(sc)

	g := sc.Graph
	level := factory.CreateLevel(g, components.LevelData{
		Path:  def.Path,
		Name:  def.Name,
		Bound: max(def.Width, def.Depth),
	}).Entity()

	if len(def.Platforms) > 0 {
		rects := make([]navmesh.Rect, len(def.Platforms))
		for i, p := range def.Platforms {
			rects[i] = navmesh.Rect{Min: p.Min, Max: p.Max, Height: p.Elevation}
		}
		sc.Navmesh = navmesh.NewShared(navmesh.New(rects))
	}

	for _, p := range def.Platforms {
		factory.CreatePlatform(g, level, p.Name, p.Center(), p.HalfExtents())
	}
	for _, p := range def.StartPoints {
		factory.CreateStartPoint(g, level, p)
	}
	for _, p := range def.Targets {
		factory.CreateTarget(g, level, p)
	}
	for _, j := range def.Jumpers {
		factory.CreateJumper(g, level, j.Center, j.HalfExtents, j.PushForce)
	}
	for _, c := range def.Cannons {
		factory.CreateCannon(g, level, c.Position, c.Yaw, c.ShootInterval, c.ProjectileImpulse)
	}
	for _, r := range def.Rotators {
		factory.CreateRotator(g, level, r.Center, r.HalfExtents, r.RotationSpeed)
	}
	for _, z := range def.RespawnZones {
		factory.CreateRespawnZone(g, level, z)
	}
	for _, s := range def.Sounds {
		factory.CreateSound(g, level, s.Name, s.Position, s.Looping)
	}
	for _, p := range def.Bots {
		factory.CreateBot(g, sc.Navmesh, p)
	}

	for i, e := range sc.Nodes() {
		sc.SetInstanceID(e, levelNodeID(def.Path, i))
	}
	return sc
}

func levelNodeID(levelPath string, index int) uuid.UUID {
	return uuid.NewSHA1(levelNamespace, []byte(levelPath+"#"+strconv.Itoa(index)))
}
