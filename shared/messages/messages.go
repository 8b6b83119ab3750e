// Package messages defines the wire schema exchanged between server and
// clients. Every message is a tagged union variant; the tag is the variant
// index in declaration order.
package messages

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// NodeState is the replicated transform of one node.
type NodeState struct {
	Node     uuid.UUID
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// SoundState is the replicated playback state of one sound source.
type SoundState struct {
	Node      uuid.UUID
	IsPlaying bool
}

// UpdateTickMessage carries only the entries that changed since the last
// broadcast.
type UpdateTickMessage struct {
	Nodes  []NodeState
	Sounds []SoundState
}

// InstanceDescriptor describes a prefab instantiation. IDs are generated by
// the server so every peer agrees on node identity.
type InstanceDescriptor struct {
	Path     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Velocity mgl32.Vec3
	IDs      []uuid.UUID
}

type PlayerDescriptor struct {
	Instance InstanceDescriptor
	IsRemote bool
}

// Message is anything that can be framed onto a connection.
type Message interface {
	tag() uint32
	encode(e *encoder)
}

// ClientMessage is sent from a client to the server.
type ClientMessage interface {
	Message
	isClientMessage()
}

// ServerMessage is sent from the server to clients.
type ServerMessage interface {
	Message
	isServerMessage()
}

// Input carries the latest input snapshot for the peer's avatar.
type Input struct {
	Player     uuid.UUID
	InputState InputState
}

// LoadLevel is an authoritative level change.
type LoadLevel struct {
	Path string
}

// AddPlayers requests avatar spawns.
type AddPlayers struct {
	Players []PlayerDescriptor
}

// UpdateTick is a per-tick world delta.
type UpdateTick struct {
	Tick UpdateTickMessage
}

const (
	tagInput uint32 = iota
)

const (
	tagLoadLevel uint32 = iota
	tagAddPlayers
	tagUpdateTick
)

func (Input) isClientMessage()      {}
func (LoadLevel) isServerMessage()  {}
func (AddPlayers) isServerMessage() {}
func (UpdateTick) isServerMessage() {}

func (Input) tag() uint32      { return tagInput }
func (LoadLevel) tag() uint32  { return tagLoadLevel }
func (AddPlayers) tag() uint32 { return tagAddPlayers }
func (UpdateTick) tag() uint32 { return tagUpdateTick }
