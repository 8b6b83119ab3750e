// Package network carries the framed TCP transport and the game client.
package network

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/automoto/drake/assets"
	"github.com/automoto/drake/components"
	"github.com/automoto/drake/graph"
	"github.com/automoto/drake/scene"
	"github.com/automoto/drake/shared/messages"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnected
	StateInGame
)

func (s ClientState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateInGame:
		return "in game"
	default:
		return "disconnected"
	}
}

// Client mirrors the server's scene. It does not simulate: every node
// transform and sound state comes from UpdateTick messages.
type Client struct {
	conn   *Conn
	assets *assets.Manager
	log    *logrus.Entry

	state       ClientState
	scene       *scene.Scene
	localPlayer uuid.UUID
	hasLocal    bool
}

// TryConnect dials the server at addr.
func TryConnect(addr string, am *assets.Manager) (*Client, error) {
	conn, err := Dial(addr)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:   conn,
		assets: am,
		state:  StateConnected,
		log:    logrus.WithFields(logrus.Fields{"component": "client", "server": addr}),
	}
	c.log.Info("connected")
	return c, nil
}

func (c *Client) State() ClientState {
	return c.state
}

// Scene returns the current mirrored scene, nil before the first level.
func (c *Client) Scene() *scene.Scene {
	return c.scene
}

// LocalPlayer returns the instance id of this peer's avatar.
func (c *Client) LocalPlayer() (uuid.UUID, bool) {
	return c.localPlayer, c.hasLocal
}

// ReadMessages applies every message received since the last call. When the
// server went away the client returns to its pre-scene state.
func (c *Client) ReadMessages() {
	if c.state == StateDisconnected {
		return
	}
	ProcessInput(c.conn, messages.DecodeServerMessage, c.handle)
	if c.conn.Closed() {
		c.log.Warn("lost connection to server")
		c.Disconnect()
	}
}

func (c *Client) handle(m messages.ServerMessage) {
	switch msg := m.(type) {
	case messages.LoadLevel:
		c.loadLevel(msg.Path)
	case messages.AddPlayers:
		c.addPlayers(msg.Players)
	case messages.UpdateTick:
		c.applyTick(msg.Tick)
	}
}

func (c *Client) loadLevel(path string) {
	sc, err := c.assets.LoadScene(path)
	if err != nil {
		c.log.WithError(err).Errorf("cannot load level %s", path)
		return
	}
	c.scene = sc
	c.hasLocal = false
	c.state = StateInGame
	c.log.Infof("level %s loaded", path)
}

func (c *Client) addPlayers(players []messages.PlayerDescriptor) {
	if c.scene == nil {
		c.log.Warn("players added before any level")
		return
	}
	for _, p := range players {
		inst := p.Instance
		prefab, err := c.assets.Prefab(inst.Path)
		if err != nil {
			c.log.WithError(err).Error("cannot spawn player")
			continue
		}
		root, err := prefab.Instantiate(c.scene, inst.IDs, inst.Position, inst.Rotation)
		if err != nil {
			c.log.WithError(err).Error("cannot spawn player")
			continue
		}
		if rb := graph.Get(c.scene.Graph, root, components.RigidBody); rb != nil {
			rb.LinVel = inst.Velocity
		}

		if p.IsRemote {
			if entry, ok := c.scene.Entry(root); ok {
				entry.RemoveComponent(components.Player)
			}
			c.scene.Walk(root, func(e donburi.Entity) {
				if rb := graph.Get(c.scene.Graph, e, components.RigidBody); rb != nil {
					rb.Kind = components.BodyKinematic
				}
			})
			continue
		}
		if len(inst.IDs) > 0 {
			c.localPlayer = inst.IDs[0]
			c.hasLocal = true
		}
	}
}

func (c *Client) applyTick(tick messages.UpdateTickMessage) {
	if c.scene == nil {
		return
	}
	for _, ns := range tick.Nodes {
		e, ok := c.scene.NodeByID(ns.Node)
		if !ok {
			c.log.Debugf("tick for unknown node %s", ns.Node)
			continue
		}
		c.scene.SetLocalPosition(e, ns.Position)
		c.scene.SetLocalRotation(e, ns.Rotation)
	}
	for _, ss := range tick.Sounds {
		e, ok := c.scene.NodeByID(ss.Node)
		if !ok {
			continue
		}
		if s := graph.Get(c.scene.Graph, e, components.Sound); s != nil {
			if ss.IsPlaying {
				s.Play()
			} else {
				s.Stop()
			}
		}
	}
}

// SendInput forwards the local avatar's input to the server.
func (c *Client) SendInput(in messages.InputState) {
	if !c.hasLocal || c.state == StateDisconnected {
		return
	}
	if e, ok := c.scene.NodeByID(c.localPlayer); ok {
		if p := graph.Get(c.scene.Graph, e, components.Player); p != nil {
			p.Input = in
		}
	}
	if err := c.conn.SendMessage(messages.Input{Player: c.localPlayer, InputState: in}); err != nil {
		c.log.WithError(err).Debug("input not sent")
	}
}

// Disconnect closes the connection and drops the mirrored scene.
func (c *Client) Disconnect() {
	c.conn.Close()
	c.scene = nil
	c.hasLocal = false
	c.state = StateDisconnected
}
