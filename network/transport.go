package network

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	cfg "github.com/automoto/drake/config"
	"github.com/automoto/drake/shared/messages"
)

// ErrClosed is returned when using a connection that was closed.
var ErrClosed = errors.New("connection closed")

const frameHeaderSize = 4

var connIDs atomic.Uint64

// Conn is a framed message stream. Each frame is a u32 little-endian payload
// length followed by the payload. A reader goroutine splits incoming bytes
// into frames; ProcessInput hands them to the caller without blocking.
type Conn struct {
	id     uint64
	conn   net.Conn
	frames chan []byte
	done   chan struct{}
	log    *logrus.Entry

	writeMu sync.Mutex
	w       *bufio.Writer

	closeOnce sync.Once
	closed    atomic.Bool
}

func newConn(c net.Conn) *Conn {
	if tcp, ok := c.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
		_ = tcp.SetKeepAlive(true)
	}
	id := connIDs.Add(1)
	conn := &Conn{
		id:     id,
		conn:   c,
		frames: make(chan []byte, 64),
		done:   make(chan struct{}),
		w:      bufio.NewWriter(c),
		log: logrus.WithFields(logrus.Fields{
			"component": "transport",
			"conn":      id,
			"remote":    c.RemoteAddr().String(),
		}),
	}
	go conn.readLoop()
	return conn
}

// Dial connects to a listening peer.
func Dial(addr string) (*Conn, error) {
	c, err := net.DialTimeout("tcp", addr, cfg.Net.DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return newConn(c), nil
}

// ID is unique per connection within the process.
func (c *Conn) ID() uint64 {
	return c.id
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Closed reports whether the connection was closed by either side. Frames
// received before the close can still be drained with ProcessInput.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// Close shuts the socket down. It is safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		_ = c.conn.Close()
		c.log.Debug("connection closed")
	})
}

func (c *Conn) readLoop() {
	defer close(c.frames)
	r := bufio.NewReader(c.conn)
	var header [frameHeaderSize]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			c.readFailed(err)
			return
		}
		size := binary.LittleEndian.Uint32(header[:])
		if size > cfg.Net.MaxFrameSize {
			c.log.Warnf("frame of %d bytes exceeds limit, closing", size)
			c.Close()
			return
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			c.readFailed(err)
			return
		}
		select {
		case c.frames <- payload:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) readFailed(err error) {
	if !c.Closed() && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
		c.log.WithError(err).Warn("receive failed")
	}
	c.Close()
}

// SendMessage frames and writes m. A failed write closes the connection.
func (c *Conn) SendMessage(m messages.Message) error {
	if c.Closed() {
		return ErrClosed
	}
	payload := messages.Encode(m)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if cfg.Net.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.Net.WriteTimeout))
	}
	if _, err := c.w.Write(header[:]); err != nil {
		return c.sendFailed(err)
	}
	if _, err := c.w.Write(payload); err != nil {
		return c.sendFailed(err)
	}
	if err := c.w.Flush(); err != nil {
		return c.sendFailed(err)
	}
	return nil
}

func (c *Conn) sendFailed(err error) error {
	c.log.WithError(err).Warn("send failed")
	c.Close()
	return fmt.Errorf("send: %w", err)
}

// ProcessInput decodes every frame received so far and calls fn for each
// message, in order. It never blocks. A frame that fails to decode closes
// the connection and stops processing.
func ProcessInput[M any](c *Conn, decode func([]byte) (M, error), fn func(M)) {
	for {
		select {
		case payload, ok := <-c.frames:
			if !ok {
				return
			}
			m, err := decode(payload)
			if err != nil {
				c.log.WithError(err).Warn("malformed frame, closing")
				c.Close()
				return
			}
			fn(m)
		default:
			return
		}
	}
}

// Listener accepts connections in the background. Accepted connections are
// handed out by Accept.
type Listener struct {
	ln       net.Listener
	accepted chan *Conn
	done     chan struct{}
	log      *logrus.Entry
}

// Bind listens on addr.
func Bind(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", addr, err)
	}
	l := &Listener{
		ln:       ln,
		accepted: make(chan *Conn, 16),
		done:     make(chan struct{}),
		log:      logrus.WithFields(logrus.Fields{"component": "transport", "addr": ln.Addr().String()}),
	}
	go l.acceptLoop()
	l.log.Info("listening")
	return l, nil
}

func (l *Listener) acceptLoop() {
	for {
		c, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.done:
			default:
				l.log.WithError(err).Error("accept failed")
			}
			return
		}
		conn := newConn(c)
		select {
		case l.accepted <- conn:
			conn.log.Info("accepted connection")
		case <-l.done:
			conn.Close()
			return
		}
	}
}

// Accept returns the connections accepted since the last call. It never
// blocks.
func (l *Listener) Accept() []*Conn {
	var out []*Conn
	for {
		select {
		case c := <-l.accepted:
			out = append(out, c)
		default:
			return out
		}
	}
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting. Already accepted connections stay open.
func (l *Listener) Close() error {
	select {
	case <-l.done:
		return nil
	default:
	}
	close(l.done)
	return l.ln.Close()
}
