package core

import (
	"fmt"
	"math"
	"net"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/assets"
	"github.com/automoto/drake/components"
	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/network"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/shared/messages"
	"github.com/automoto/drake/systems"
)

type State int

const (
	StateIdle State = iota
	StateLobby
	StateInGame
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateInGame:
		return "in game"
	default:
		return "idle"
	}
}

// Server owns the authoritative scene. Each tick it applies client input,
// runs the scene and broadcasts the nodes and sounds that changed.
type Server struct {
	listener *network.Listener
	conns    *orderedmap.OrderedMap[uint64, *network.Conn]
	assets   *assets.Manager
	scene    *scene.Scene
	state    State
	log      *logrus.Entry

	prevNodes  map[donburi.Entity]messages.NodeState
	prevSounds map[donburi.Entity]messages.SoundState
}

// NewServer binds addr and starts accepting players.
func NewServer(addr string, am *assets.Manager) (*Server, error) {
	l, err := network.Bind(addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener:   l,
		conns:      orderedmap.NewOrderedMap[uint64, *network.Conn](),
		assets:     am,
		state:      StateLobby,
		log:        logrus.WithFields(logrus.Fields{"component": "server", "addr": l.Addr().String()}),
		prevNodes:  make(map[donburi.Entity]messages.NodeState),
		prevSounds: make(map[donburi.Entity]messages.SoundState),
	}, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) State() State {
	return s.state
}

// Scene returns the authoritative scene, nil until a game starts.
func (s *Server) Scene() *scene.Scene {
	return s.scene
}

// Connections returns the open connections in the order they joined.
func (s *Server) Connections() []*network.Conn {
	out := make([]*network.Conn, 0, s.conns.Len())
	for el := s.conns.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

func (s *Server) PlayerCount() int {
	return s.conns.Len()
}

// IsSinglePlayer reports whether exactly one peer is connected.
func (s *Server) IsSinglePlayer() bool {
	return s.conns.Len() == 1
}

// AcceptConnections adds the connections accepted since the last call.
// Outside the lobby new peers are turned away.
func (s *Server) AcceptConnections() {
	for _, c := range s.listener.Accept() {
		if s.state != StateLobby {
			s.log.Warnf("rejecting %s: game in progress", c.RemoteAddr())
			c.Close()
			continue
		}
		s.conns.Set(c.ID(), c)
		s.log.Infof("player %d joined from %s", s.conns.Len(), c.RemoteAddr())
	}
}

// StartGame loads the level, tells every peer to load it and spawns one
// player per connection.
func (s *Server) StartGame(levelPath string) error {
	sc, err := s.assets.LoadScene(levelPath)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	s.broadcast(messages.LoadLevel{Path: levelPath})

	s.scene = sc
	clear(s.prevNodes)
	clear(s.prevSounds)
	s.state = StateInGame
	s.log.Infof("game started on %s with %d players", levelPath, s.conns.Len())
	return s.OnSceneLoaded(sc)
}

// OnSceneLoaded spawns a player at each start point, one per connection.
// Every peer receives every player; only its own is marked local.
func (s *Server) OnSceneLoaded(sc *scene.Scene) error {
	prefab, err := s.assets.Prefab(cfg.Net.PlayerPrefab)
	if err != nil {
		return fmt.Errorf("spawn players: %w", err)
	}

	starts := systems.StartPoints(sc)
	conns := s.Connections()
	count := min(len(conns), len(starts))
	if count < len(conns) {
		s.log.Warnf("level has %d start points for %d players", len(starts), len(conns))
	}

	ids := lo.Times(count, func(int) []uuid.UUID { return prefab.GenerateIDs() })
	instances := make([]messages.InstanceDescriptor, count)
	for p := range count {
		instances[p] = messages.InstanceDescriptor{
			Path:     prefab.Path,
			Position: starts[p],
			Rotation: mgl32.QuatIdent(),
			IDs:      ids[p],
		}
		if _, err := prefab.Instantiate(sc, ids[p], starts[p], mgl32.QuatIdent()); err != nil {
			return fmt.Errorf("spawn player %d: %w", p, err)
		}
	}

	for c, conn := range conns {
		players := lo.Map(instances, func(inst messages.InstanceDescriptor, p int) messages.PlayerDescriptor {
			return messages.PlayerDescriptor{Instance: inst, IsRemote: p != c}
		})
		if err := conn.SendMessage(messages.AddPlayers{Players: players}); err != nil {
			s.log.WithError(err).Warnf("player %d did not receive spawns", c)
		}
	}
	return nil
}

// ReadMessages applies the latest input from every connection to the
// player it names.
func (s *Server) ReadMessages() {
	for _, conn := range s.Connections() {
		network.ProcessInput(conn, messages.DecodeClientMessage, func(m messages.ClientMessage) {
			if in, ok := m.(messages.Input); ok {
				s.applyInput(in)
			}
		})
	}
}

func (s *Server) applyInput(in messages.Input) {
	if s.scene == nil {
		return
	}
	e, ok := s.scene.NodeByID(in.Player)
	if !ok {
		s.log.Warnf("no such player %s", in.Player)
		return
	}
	player := graph.Get(s.scene.Graph, e, components.Player)
	if player == nil {
		s.log.Warnf("no such player %s", in.Player)
		return
	}
	player.Input = in.InputState
}

// Update broadcasts the nodes and sounds that changed since the previous
// call. A node seen for the first time only records its baseline. The
// broadcast goes out even when nothing changed.
func (s *Server) Update() {
	if s.scene == nil {
		return
	}
	var tick messages.UpdateTickMessage
	nodes := make(map[donburi.Entity]messages.NodeState)
	sounds := make(map[donburi.Entity]messages.SoundState)

	s.scene.Each(func(e donburi.Entity, entry *donburi.Entry) {
		node := components.Node.Get(entry)
		state := messages.NodeState{Node: node.InstanceID, Position: node.Position, Rotation: node.Rotation}
		if prev, ok := s.prevNodes[e]; !ok {
			nodes[e] = state
		} else if !sameNodeState(prev, state) {
			tick.Nodes = append(tick.Nodes, state)
			nodes[e] = state
		}

		if !entry.HasComponent(components.Sound) {
			return
		}
		sound := messages.SoundState{
			Node:      node.InstanceID,
			IsPlaying: components.Sound.Get(entry).Status == components.SoundPlaying,
		}
		if prev, ok := s.prevSounds[e]; !ok {
			sounds[e] = sound
		} else if prev != sound {
			tick.Sounds = append(tick.Sounds, sound)
			sounds[e] = sound
		}
	})

	s.broadcast(messages.UpdateTick{Tick: tick})

	for e, st := range nodes {
		s.prevNodes[e] = st
	}
	for e, st := range sounds {
		s.prevSounds[e] = st
	}
}

// Tick runs one server frame: input, scene scripts and physics, then the
// delta broadcast. Closed connections are dropped at the end.
func (s *Server) Tick(dt float32) {
	switch s.state {
	case StateLobby:
		s.AcceptConnections()
	case StateInGame:
		s.AcceptConnections()
		s.ReadMessages()
		s.scene.Update(dt)
		s.Update()
	}
	s.dropClosed()
}

func (s *Server) broadcast(m messages.ServerMessage) {
	for _, conn := range s.Connections() {
		if err := conn.SendMessage(m); err != nil {
			s.log.WithError(err).Debugf("broadcast to connection %d failed", conn.ID())
		}
	}
}

func (s *Server) dropClosed() {
	for _, conn := range s.Connections() {
		if conn.Closed() {
			s.conns.Delete(conn.ID())
			s.log.Infof("connection %d dropped", conn.ID())
		}
	}
}

// Stop closes the listener and every connection.
func (s *Server) Stop() {
	if err := s.listener.Close(); err != nil {
		s.log.WithError(err).Warn("closing listener")
	}
	for _, conn := range s.Connections() {
		conn.Close()
	}
	s.conns = orderedmap.NewOrderedMap[uint64, *network.Conn]()
	s.scene = nil
	s.state = StateIdle
	s.log.Info("server stopped")
}

// sameNodeState compares transforms bit for bit.
func sameNodeState(a, b messages.NodeState) bool {
	if a.Node != b.Node {
		return false
	}
	fa := [7]float32{a.Position[0], a.Position[1], a.Position[2], a.Rotation.W, a.Rotation.V[0], a.Rotation.V[1], a.Rotation.V[2]}
	fb := [7]float32{b.Position[0], b.Position[1], b.Position[2], b.Rotation.W, b.Rotation.V[0], b.Rotation.V[1], b.Rotation.V[2]}
	for i := range fa {
		if math.Float32bits(fa[i]) != math.Float32bits(fb[i]) {
			return false
		}
	}
	return true
}
