package signal

import (
	"sync"
	"time"

	"PMeet/logger"
	"PMeet/tools/ids"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; SDP bodies stay well under this.
	maxMessageSize = 64 * 1024

	// Per-connection outbound queue. A peer that stops draining loses
	// frames rather than stalling the relay.
	sendQueueSize = 64
)

// Conn is one live signaling connection. The id is process-unique for as
// long as the connection is registered.
type Conn struct {
	ID string

	ws        *websocket.Conn
	send      chan *Frame
	closeOnce sync.Once
}

func (c *Conn) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ConnManager is the connection registry. It knows nothing about rooms; it
// hands out ids and moves frames to sockets.
type ConnManager struct {
	mu     sync.RWMutex
	conns  map[string]*Conn
	nodeID string
}

func NewConnManager(nodeID string) *ConnManager {
	return &ConnManager{
		conns:  make(map[string]*Conn),
		nodeID: nodeID,
	}
}

func (m *ConnManager) NodeID() string { return m.nodeID }

// Register assigns a fresh id to the websocket and starts its write pump.
func (m *ConnManager) Register(ws *websocket.Conn) *Conn {
	c := &Conn{
		ID:   ids.GenerateString(),
		ws:   ws,
		send: make(chan *Frame, sendQueueSize),
	}

	m.mu.Lock()
	m.conns[c.ID] = c
	m.mu.Unlock()

	go c.writePump()
	return c
}

// Unregister drops the connection from the registry and shuts down its write
// pump. Safe to call more than once; transports repeat disconnect signals
// under failure.
func (m *ConnManager) Unregister(id string) {
	m.mu.Lock()
	c, ok := m.conns[id]
	if ok {
		delete(m.conns, id)
	}
	m.mu.Unlock()

	if ok {
		c.closeSend()
	}
}

// Send enqueues a frame for one connection. Best effort: false when the id
// is gone or the peer's queue is full.
func (m *ConnManager) Send(id string, f *Frame) bool {
	m.mu.RLock()
	c, ok := m.conns[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case c.send <- f:
		return true
	default:
		logger.Warnf("[conn] send queue full, drop kind=%s conn=%s", f.Type, id)
		return false
	}
}

// Count reports the number of registered connections.
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Close tears down every registered connection.
func (m *ConnManager) Close() {
	m.mu.Lock()
	conns := m.conns
	m.conns = make(map[string]*Conn)
	m.mu.Unlock()

	for _, c := range conns {
		c.closeSend()
	}
}

// writePump is the single writer for the socket: frames from the send queue
// plus keepalive pings. Exits when the queue closes or a write fails.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteJSON(f); err != nil {
				logger.Infof("[conn] write err conn=%s err=%v", c.ID, err)
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
