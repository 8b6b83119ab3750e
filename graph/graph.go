// Package graph is the scene graph: handle-based nodes stored in a donburi
// world, with parent/child links, instance ids and transform helpers.
package graph

import (
	"errors"
	"slices"

	"github.com/automoto/drake/components"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// ErrNoSuchNode is returned when a handle or instance id does not resolve.
var ErrNoSuchNode = errors.New("no such node")

// Graph owns every node of a scene. Handles are donburi entities, which carry
// a generation so a stale handle never resolves to a newer node.
type Graph struct {
	World donburi.World

	nodes []donburi.Entity
	byID  map[uuid.UUID]donburi.Entity
}

func New() *Graph {
	return &Graph{
		World: donburi.NewWorld(),
		byID:  make(map[uuid.UUID]donburi.Entity),
	}
}

// CreateNode creates a node under parent (donburi.Null for a root) at the
// given local position. Extra component types are added to the node.
func (g *Graph) CreateNode(name string, parent donburi.Entity, position mgl32.Vec3, cs ...donburi.IComponentType) donburi.Entity {
	e := g.World.Create(append([]donburi.IComponentType{components.Node}, cs...)...)
	node := components.NodeData{
		Name:       name,
		InstanceID: uuid.New(),
		Parent:     donburi.Null,
		Position:   position,
		Rotation:   mgl32.QuatIdent(),
	}
	components.Node.SetValue(g.World.Entry(e), node)
	g.nodes = append(g.nodes, e)
	g.byID[node.InstanceID] = e

	if g.Valid(parent) {
		g.Link(e, parent)
	}
	return e
}

// Valid reports whether the handle resolves to a live node.
func (g *Graph) Valid(e donburi.Entity) bool {
	return e != donburi.Null && g.World.Valid(e)
}

// Entry returns the donburi entry for a live node.
func (g *Graph) Entry(e donburi.Entity) (*donburi.Entry, bool) {
	if !g.Valid(e) {
		return nil, false
	}
	return g.World.Entry(e), true
}

// Node returns the node data for a live node.
func (g *Graph) Node(e donburi.Entity) (*components.NodeData, bool) {
	entry, ok := g.Entry(e)
	if !ok {
		return nil, false
	}
	return components.Node.Get(entry), true
}

// Get returns component c of node e, or nil when the node is gone or does not
// carry c.
func Get[T any](g *Graph, e donburi.Entity, c *donburi.ComponentType[T]) *T {
	entry, ok := g.Entry(e)
	if !ok || !entry.HasComponent(c) {
		return nil
	}
	return c.Get(entry)
}

// Has reports whether node e is live and carries c.
func (g *Graph) Has(e donburi.Entity, c donburi.IComponentType) bool {
	entry, ok := g.Entry(e)
	return ok && entry.HasComponent(c)
}

// SetInstanceID replaces the instance id of a node.
func (g *Graph) SetInstanceID(e donburi.Entity, id uuid.UUID) {
	node, ok := g.Node(e)
	if !ok {
		return
	}
	if g.byID[node.InstanceID] == e {
		delete(g.byID, node.InstanceID)
	}
	node.InstanceID = id
	g.byID[id] = e
}

// NodeByID resolves an instance id.
func (g *Graph) NodeByID(id uuid.UUID) (donburi.Entity, bool) {
	e, ok := g.byID[id]
	if !ok || !g.Valid(e) {
		return donburi.Null, false
	}
	return e, true
}

// Link reparents child under parent.
func (g *Graph) Link(child, parent donburi.Entity) {
	node, ok := g.Node(child)
	if !ok {
		return
	}
	g.unlink(child, node)
	if p, ok := g.Node(parent); ok {
		node.Parent = parent
		p.Children = append(p.Children, child)
	}
}

func (g *Graph) unlink(child donburi.Entity, node *components.NodeData) {
	if p, ok := g.Node(node.Parent); ok {
		p.Children = slices.DeleteFunc(p.Children, func(c donburi.Entity) bool { return c == child })
	}
	node.Parent = donburi.Null
}

// Remove deletes a node and its whole subtree.
func (g *Graph) Remove(e donburi.Entity) {
	node, ok := g.Node(e)
	if !ok {
		return
	}
	g.unlink(e, node)

	var subtree []donburi.Entity
	g.Walk(e, func(n donburi.Entity) { subtree = append(subtree, n) })
	for _, n := range subtree {
		if nd, ok := g.Node(n); ok && g.byID[nd.InstanceID] == n {
			delete(g.byID, nd.InstanceID)
		}
	}
	for _, n := range subtree {
		g.World.Remove(n)
	}
	g.nodes = slices.DeleteFunc(g.nodes, func(n donburi.Entity) bool { return !g.World.Valid(n) })
}

// Walk visits e and its descendants depth first.
func (g *Graph) Walk(e donburi.Entity, fn func(donburi.Entity)) {
	node, ok := g.Node(e)
	if !ok {
		return
	}
	fn(e)
	for _, c := range slices.Clone(node.Children) {
		g.Walk(c, fn)
	}
}

// Each visits every live node in creation order.
func (g *Graph) Each(fn func(e donburi.Entity, entry *donburi.Entry)) {
	for _, e := range slices.Clone(g.nodes) {
		if entry, ok := g.Entry(e); ok {
			fn(e, entry)
		}
	}
}

// Nodes returns every live node in creation order.
func (g *Graph) Nodes() []donburi.Entity {
	return slices.DeleteFunc(slices.Clone(g.nodes), func(e donburi.Entity) bool { return !g.Valid(e) })
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// FindChild returns the first descendant of e with the given name.
func (g *Graph) FindChild(e donburi.Entity, name string) (donburi.Entity, bool) {
	found := donburi.Null
	g.Walk(e, func(n donburi.Entity) {
		if found != donburi.Null || n == e {
			return
		}
		if node, _ := g.Node(n); node.Name == name {
			found = n
		}
	})
	return found, found != donburi.Null
}

// FindByName returns the first node in creation order with the given name.
func (g *Graph) FindByName(name string) (donburi.Entity, bool) {
	for _, e := range g.nodes {
		if node, ok := g.Node(e); ok && node.Name == name {
			return e, true
		}
	}
	return donburi.Null, false
}
