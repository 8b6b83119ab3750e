package core

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/assets"
	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/network"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/shared/messages"
	"github.com/automoto/drake/systems/factory"
)

const testLevel = "data/maps/drake.tmx"

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer("127.0.0.1:0", assets.Embedded())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Stop)
	return s
}

// join connects n raw peers and waits until the server accepted them.
func join(t *testing.T, s *Server, n int) []*network.Conn {
	t.Helper()
	conns := make([]*network.Conn, n)
	for i := range conns {
		c, err := network.Dial(s.Addr().String())
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(c.Close)
		conns[i] = c
		waitFor(t, "accept", func() bool {
			s.AcceptConnections()
			return s.PlayerCount() == i+1
		})
	}
	return conns
}

func nextTick(t *testing.T, c *network.Conn) messages.UpdateTickMessage {
	t.Helper()
	var tick *messages.UpdateTickMessage
	waitFor(t, "tick", func() bool {
		network.ProcessInput(c, messages.DecodeServerMessage, func(m messages.ServerMessage) {
			if u, ok := m.(messages.UpdateTick); ok && tick == nil {
				tick = &u.Tick
			}
		})
		return tick != nil
	})
	return *tick
}

func TestDeltaCompression(t *testing.T) {
	s := newTestServer(t)
	peer := join(t, s, 1)[0]

	sc := scene.New("delta")
	for i := 0; i < 10; i++ {
		sc.CreateNode("Static", donburi.Null, mgl32.Vec3{float32(i), 0, 0})
	}
	mover := sc.CreateNode("Mover", donburi.Null, mgl32.Vec3{})
	s.scene = sc
	s.state = StateInGame

	s.Update()
	if tick := nextTick(t, peer); len(tick.Nodes) != 0 {
		t.Fatalf("first tick carried %d nodes, want only baselines", len(tick.Nodes))
	}

	for i := 1; i <= 3; i++ {
		sc.SetLocalPosition(mover, mgl32.Vec3{float32(i), 0, 0})
		s.Update()
		tick := nextTick(t, peer)
		if len(tick.Nodes) != 1 {
			t.Fatalf("tick %d carried %d nodes, want 1", i, len(tick.Nodes))
		}
		node, _ := sc.Node(mover)
		if tick.Nodes[0].Node != node.InstanceID || tick.Nodes[0].Position != node.Position {
			t.Errorf("tick %d carried %+v", i, tick.Nodes[0])
		}
	}

	s.Update()
	if tick := nextTick(t, peer); len(tick.Nodes) != 0 || len(tick.Sounds) != 0 {
		t.Errorf("unchanged scene produced %d nodes, %d sounds", len(tick.Nodes), len(tick.Sounds))
	}
}

func TestNewNodesStartFromBaseline(t *testing.T) {
	s := newTestServer(t)
	peer := join(t, s, 1)[0]

	sc := scene.New("baseline")
	s.scene = sc
	s.state = StateInGame
	s.Update()
	nextTick(t, peer)

	e := sc.CreateNode("Late", donburi.Null, mgl32.Vec3{1, 2, 3})
	s.Update()
	if tick := nextTick(t, peer); len(tick.Nodes) != 0 {
		t.Fatalf("new node replicated on its first tick")
	}
	sc.SetLocalPosition(e, mgl32.Vec3{4, 5, 6})
	s.Update()
	if tick := nextTick(t, peer); len(tick.Nodes) != 1 {
		t.Fatalf("moved node replicated %d times", len(tick.Nodes))
	}
}

func TestSoundDeltas(t *testing.T) {
	s := newTestServer(t)
	peer := join(t, s, 1)[0]

	sc := scene.New("sounds")
	sound := factory.CreateSound(sc.Graph, donburi.Null, "shot", mgl32.Vec3{}, false)
	s.scene = sc
	s.state = StateInGame
	s.Update()
	nextTick(t, peer)

	components.Sound.Get(sound).Play()
	s.Update()
	tick := nextTick(t, peer)
	if len(tick.Sounds) != 1 || !tick.Sounds[0].IsPlaying {
		t.Fatalf("sounds = %+v", tick.Sounds)
	}
	s.Update()
	if tick := nextTick(t, peer); len(tick.Sounds) != 0 {
		t.Errorf("unchanged sound replicated again")
	}
}

func TestSameNodeStateIsBitwise(t *testing.T) {
	id := uuid.New()
	a := messages.NodeState{Node: id, Rotation: mgl32.QuatIdent()}
	b := a
	if !sameNodeState(a, b) {
		t.Fatal("identical states differ")
	}
	b.Position[0] = float32(negZero())
	if sameNodeState(a, b) {
		t.Error("-0 and +0 compared equal")
	}
}

func negZero() float64 {
	z := 0.0
	return -z
}

func TestStartGameSpawnsOneLocalAvatarPerPeer(t *testing.T) {
	s := newTestServer(t)
	am := assets.Embedded()

	var clients []*network.Client
	for i := 0; i < 2; i++ {
		c, err := network.TryConnect(s.Addr().String(), am)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(c.Disconnect)
		clients = append(clients, c)
		waitFor(t, "accept", func() bool {
			s.AcceptConnections()
			return s.PlayerCount() == i+1
		})
	}

	if err := s.StartGame(testLevel); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateInGame {
		t.Fatalf("state = %v", s.State())
	}

	locals := make(map[uuid.UUID]bool)
	for i, c := range clients {
		waitFor(t, "spawn", func() bool {
			c.ReadMessages()
			_, ok := c.LocalPlayer()
			return ok
		})
		id, _ := c.LocalPlayer()
		locals[id] = true

		var avatars, controlled int
		components.Actor.Each(c.Scene().World, func(entry *donburi.Entry) {
			if entry.HasComponent(components.Bot) {
				return
			}
			avatars++
			if entry.HasComponent(components.Player) {
				controlled++
			}
		})
		if avatars != 2 || controlled != 1 {
			t.Errorf("client %d: %d avatars, %d controlled", i, avatars, controlled)
		}
	}
	if len(locals) != 2 {
		t.Errorf("clients share a local avatar")
	}

	var players int
	components.Player.Each(s.Scene().World, func(*donburi.Entry) { players++ })
	if players != 2 {
		t.Errorf("server scene has %d players", players)
	}
}

func TestInputReachesPlayer(t *testing.T) {
	s := newTestServer(t)
	c, err := network.TryConnect(s.Addr().String(), assets.Embedded())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Disconnect)
	waitFor(t, "accept", func() bool {
		s.AcceptConnections()
		return s.PlayerCount() == 1
	})
	if err := s.StartGame(testLevel); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "spawn", func() bool {
		c.ReadMessages()
		_, ok := c.LocalPlayer()
		return ok
	})

	id, _ := c.LocalPlayer()
	player, ok := s.Scene().NodeByID(id)
	if !ok {
		t.Fatal("server does not know the local player")
	}
	in := messages.InputState{Forward: true, Yaw: 0.5}
	c.SendInput(in)
	waitFor(t, "input", func() bool {
		s.ReadMessages()
		return graph.Get(s.Scene().Graph, player, components.Player).Input == in
	})
}

func TestUnknownPlayerInputIsDropped(t *testing.T) {
	s := newTestServer(t)
	sc := scene.New("input")
	s.scene = sc
	s.state = StateInGame

	p := factory.CreatePlayer(sc.Graph, mgl32.Vec3{})
	s.applyInput(messages.Input{Player: uuid.New(), InputState: messages.InputState{Jump: true}})
	if components.Player.Get(p).Input.Jump {
		t.Error("input for an unknown id reached a player")
	}

	target := sc.CreateNode("NotAPlayer", donburi.Null, mgl32.Vec3{})
	node, _ := sc.Node(target)
	s.applyInput(messages.Input{Player: node.InstanceID})
}

func TestClosedConnectionsAreDropped(t *testing.T) {
	s := newTestServer(t)
	conns := join(t, s, 2)

	conns[0].Close()
	waitFor(t, "drop", func() bool {
		s.ReadMessages()
		s.Tick(1.0 / 60)
		return s.PlayerCount() == 1
	})
	if !s.IsSinglePlayer() {
		t.Error("one peer left but not single player")
	}
}

func TestIsSinglePlayer(t *testing.T) {
	tests := []struct {
		name  string
		peers int
		want  bool
	}{
		{"empty server", 0, false},
		{"one peer", 1, true},
		{"two peers", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			join(t, s, tt.peers)
			if got := s.IsSinglePlayer(); got != tt.want {
				t.Errorf("IsSinglePlayer() with %d peers = %v, want %v", tt.peers, got, tt.want)
			}
		})
	}
}

func TestStartGameMissingLevel(t *testing.T) {
	s := newTestServer(t)
	join(t, s, 1)
	if err := s.StartGame("data/maps/nowhere.tmx"); err == nil {
		t.Fatal("expected an error")
	}
	if s.State() != StateLobby || s.Scene() != nil {
		t.Errorf("state changed to %v after a failed start", s.State())
	}
}

func TestLateJoinersAreRejected(t *testing.T) {
	s := newTestServer(t)
	join(t, s, 1)
	if err := s.StartGame(testLevel); err != nil {
		t.Fatal(err)
	}

	late, err := network.Dial(s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer late.Close()
	waitFor(t, "reject", func() bool {
		s.AcceptConnections()
		network.ProcessInput(late, messages.DecodeServerMessage, func(messages.ServerMessage) {})
		return late.Closed()
	})
	if s.PlayerCount() != 1 {
		t.Errorf("player count = %d", s.PlayerCount())
	}
}
