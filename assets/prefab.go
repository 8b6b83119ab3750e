package assets

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"

	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/systems/factory"
)

const (
	BotPrefab        = "data/models/bot.rgs"
	ProjectilePrefab = "data/models/projectile.rgs"
)

// ErrIDCount is returned when an id list does not match the prefab's nodes.
var ErrIDCount = errors.New("instance id count mismatch")

// Prefab is a named node tree that can be instantiated into any scene.
type Prefab struct {
	Path  string
	build func(sc *scene.Scene, pos mgl32.Vec3) donburi.Entity
	nodes int
}

// NewPrefab wraps a builder. build must create all nodes under the root it
// returns, in a fixed order.
func NewPrefab(path string, build func(sc *scene.Scene, pos mgl32.Vec3) donburi.Entity) *Prefab {
	p := &Prefab{Path: path, build: build}
	scratch := scene.New(path)
	scratch.Walk(build(scratch, mgl32.Vec3{}), func(donburi.Entity) { p.nodes++ })
	return p
}

// NodeCount returns the number of nodes one instance creates.
func (p *Prefab) NodeCount() int {
	return p.nodes
}

// GenerateIDs returns fresh instance ids for one instance, in the order
// Instantiate assigns them.
func (p *Prefab) GenerateIDs() []uuid.UUID {
	ids := make([]uuid.UUID, p.nodes)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

// Instantiate builds the prefab into sc at pos facing rot and returns its
// root. ids, when given, are assigned depth first from the root.
func (p *Prefab) Instantiate(sc *scene.Scene, ids []uuid.UUID, pos mgl32.Vec3, rot mgl32.Quat) (donburi.Entity, error) {
	if ids != nil && len(ids) != p.nodes {
		return donburi.Null, fmt.Errorf("%s: got %d ids for %d nodes: %w", p.Path, len(ids), p.nodes, ErrIDCount)
	}
	root := p.build(sc, pos)
	sc.SetLocalRotation(root, rot)
	if ids != nil {
		i := 0
		sc.Walk(root, func(e donburi.Entity) {
			sc.SetInstanceID(e, ids[i])
			i++
		})
	}
	return root, nil
}

// RegisterPrefab makes p resolvable by its path.
func (m *Manager) RegisterPrefab(p *Prefab) {
	m.prefabs[p.Path] = p
}

// Prefab resolves a prefab path.
func (m *Manager) Prefab(p string) (*Prefab, error) {
	prefab, ok := m.prefabs[p]
	if !ok {
		return nil, fmt.Errorf("prefab %s: %w", p, ErrNotFound)
	}
	return prefab, nil
}

func builtinPrefabs() []*Prefab {
	return []*Prefab{
		NewPrefab(cfg.Net.PlayerPrefab, func(sc *scene.Scene, pos mgl32.Vec3) donburi.Entity {
			return factory.CreatePlayer(sc.Graph, pos).Entity()
		}),
		NewPrefab(BotPrefab, func(sc *scene.Scene, pos mgl32.Vec3) donburi.Entity {
			return factory.CreateBot(sc.Graph, sc.Navmesh, pos).Entity()
		}),
		NewPrefab(ProjectilePrefab, func(sc *scene.Scene, pos mgl32.Vec3) donburi.Entity {
			return factory.CreateProjectile(sc.Graph, pos, mgl32.Vec3{}).Entity()
		}),
	}
}
