package messages

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ErrMalformed is returned when a payload cannot be decoded.
var ErrMalformed = errors.New("malformed message")

// Encode serializes m as its variant tag followed by the variant fields.
// Integers and floats are little-endian, sequences and strings carry a u64
// length prefix, ids are 16 raw bytes.
func Encode(m Message) []byte {
	e := &encoder{buf: make([]byte, 0, 64)}
	e.u32(m.tag())
	m.encode(e)
	return e.buf
}

// DecodeClientMessage decodes a payload produced by Encode for a ClientMessage.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	d := &decoder{buf: payload}
	var msg ClientMessage
	switch tag := d.u32(); tag {
	case tagInput:
		msg = Input{Player: d.id(), InputState: d.inputState()}
	default:
		if d.err == nil {
			d.fail(fmt.Sprintf("unknown client message tag %d", tag))
		}
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return msg, nil
}

// DecodeServerMessage decodes a payload produced by Encode for a ServerMessage.
func DecodeServerMessage(payload []byte) (ServerMessage, error) {
	d := &decoder{buf: payload}
	var msg ServerMessage
	switch tag := d.u32(); tag {
	case tagLoadLevel:
		msg = LoadLevel{Path: d.str()}
	case tagAddPlayers:
		n := d.length(instanceMinSize)
		var players []PlayerDescriptor
		if n > 0 {
			players = make([]PlayerDescriptor, 0, n)
		}
		for i := 0; i < n && d.err == nil; i++ {
			players = append(players, d.playerDescriptor())
		}
		msg = AddPlayers{Players: players}
	case tagUpdateTick:
		msg = UpdateTick{Tick: d.updateTick()}
	default:
		if d.err == nil {
			d.fail(fmt.Sprintf("unknown server message tag %d", tag))
		}
	}
	if err := d.finish(); err != nil {
		return nil, err
	}
	return msg, nil
}

func (m Input) encode(e *encoder) {
	e.id(m.Player)
	e.inputState(m.InputState)
}

func (m LoadLevel) encode(e *encoder) {
	e.str(m.Path)
}

func (m AddPlayers) encode(e *encoder) {
	e.u64(uint64(len(m.Players)))
	for _, p := range m.Players {
		e.playerDescriptor(p)
	}
}

func (m UpdateTick) encode(e *encoder) {
	e.u64(uint64(len(m.Tick.Nodes)))
	for _, n := range m.Tick.Nodes {
		e.id(n.Node)
		e.vec3(n.Position)
		e.quat(n.Rotation)
	}
	e.u64(uint64(len(m.Tick.Sounds)))
	for _, s := range m.Tick.Sounds {
		e.id(s.Node)
		e.bool(s.IsPlaying)
	}
}

// Minimum encoded sizes, used to reject lengths the payload cannot hold.
const (
	idSize            = 16
	nodeStateSize     = idSize + 3*4 + 4*4
	soundStateSize    = idSize + 1
	instanceMinSize   = 8 + 3*4 + 4*4 + 3*4 + 8 + 1
	stringElementSize = 1
)

type encoder struct {
	buf []byte
}

func (e *encoder) u32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *encoder) u64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }
func (e *encoder) f32(v float32) {
	e.u32(math.Float32bits(v))
}

func (e *encoder) bool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *encoder) str(s string) {
	e.u64(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) id(id uuid.UUID) { e.buf = append(e.buf, id[:]...) }

func (e *encoder) vec3(v mgl32.Vec3) {
	e.f32(v[0])
	e.f32(v[1])
	e.f32(v[2])
}

func (e *encoder) quat(q mgl32.Quat) {
	e.f32(q.V[0])
	e.f32(q.V[1])
	e.f32(q.V[2])
	e.f32(q.W)
}

func (e *encoder) inputState(s InputState) {
	e.bool(s.Forward)
	e.bool(s.Backward)
	e.bool(s.Left)
	e.bool(s.Right)
	e.bool(s.Jump)
	e.f32(s.Yaw)
}

func (e *encoder) playerDescriptor(p PlayerDescriptor) {
	e.str(p.Instance.Path)
	e.vec3(p.Instance.Position)
	e.quat(p.Instance.Rotation)
	e.vec3(p.Instance.Velocity)
	e.u64(uint64(len(p.Instance.IDs)))
	for _, id := range p.Instance.IDs {
		e.id(id)
	}
	e.bool(p.IsRemote)
}

// decoder reads sequentially and latches the first error; every accessor
// returns a zero value once an error occurred.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) fail(reason string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrMalformed, reason)
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.buf)-d.off < n {
		d.fail(fmt.Sprintf("need %d bytes at offset %d, have %d", n, d.off, len(d.buf)-d.off))
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) finish() error {
	if d.err == nil && d.off != len(d.buf) {
		d.fail(fmt.Sprintf("%d trailing bytes", len(d.buf)-d.off))
	}
	return d.err
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) f32() float32 { return math.Float32frombits(d.u32()) }

func (d *decoder) bool() bool {
	b := d.take(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	}
	d.fail(fmt.Sprintf("invalid bool byte %d", b[0]))
	return false
}

// length reads a sequence length and checks that the remaining payload can
// hold that many elements of at least elemSize bytes.
func (d *decoder) length(elemSize int) int {
	n := d.u64()
	if d.err != nil {
		return 0
	}
	remaining := uint64(len(d.buf) - d.off)
	if n > remaining/uint64(elemSize) {
		d.fail(fmt.Sprintf("length %d exceeds payload", n))
		return 0
	}
	return int(n)
}

func (d *decoder) str() string {
	n := d.length(stringElementSize)
	return string(d.take(n))
}

func (d *decoder) id() uuid.UUID {
	var id uuid.UUID
	copy(id[:], d.take(idSize))
	return id
}

func (d *decoder) vec3() mgl32.Vec3 {
	return mgl32.Vec3{d.f32(), d.f32(), d.f32()}
}

func (d *decoder) quat() mgl32.Quat {
	x, y, z, w := d.f32(), d.f32(), d.f32(), d.f32()
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

func (d *decoder) inputState() InputState {
	return InputState{
		Forward:  d.bool(),
		Backward: d.bool(),
		Left:     d.bool(),
		Right:    d.bool(),
		Jump:     d.bool(),
		Yaw:      d.f32(),
	}
}

func (d *decoder) playerDescriptor() PlayerDescriptor {
	var p PlayerDescriptor
	p.Instance.Path = d.str()
	p.Instance.Position = d.vec3()
	p.Instance.Rotation = d.quat()
	p.Instance.Velocity = d.vec3()
	n := d.length(idSize)
	if n > 0 {
		p.Instance.IDs = make([]uuid.UUID, 0, n)
		for i := 0; i < n; i++ {
			p.Instance.IDs = append(p.Instance.IDs, d.id())
		}
	}
	p.IsRemote = d.bool()
	return p
}

func (d *decoder) updateTick() UpdateTickMessage {
	var t UpdateTickMessage
	n := d.length(nodeStateSize)
	if n > 0 {
		t.Nodes = make([]NodeState, 0, n)
		for i := 0; i < n && d.err == nil; i++ {
			t.Nodes = append(t.Nodes, NodeState{Node: d.id(), Position: d.vec3(), Rotation: d.quat()})
		}
	}
	n = d.length(soundStateSize)
	if n > 0 {
		t.Sounds = make([]SoundState, 0, n)
		for i := 0; i < n && d.err == nil; i++ {
			t.Sounds = append(t.Sounds, SoundState{Node: d.id(), IsPlaying: d.bool()})
		}
	}
	return t
}
