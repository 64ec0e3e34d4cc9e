package signal

import (
	"context"
	"net"
	"net/http"
	"time"

	"PMeet/logger"
	"PMeet/service/storage"
	"PMeet/tools/safe"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Server ties the registry, room table and dispatcher to the websocket
// transport. State is injected, never package-level, so the core can be
// exercised in isolation.
type Server struct {
	conn     *ConnManager
	rooms    *RoomTable
	disp     *Dispatcher
	sched    *scheduler
	presence storage.Presence

	joinNotifyDelay time.Duration
	upgrader        websocket.Upgrader
}

type ServerConf struct {
	AllowedOrigin   string // empty allows any origin
	JoinNotifyDelay time.Duration
	Presence        storage.Presence // nil means no presence bookkeeping
}

func NewServer(conf ServerConf, conn *ConnManager, rooms *RoomTable, disp *Dispatcher) *Server {
	safe.MustNotNil(conn, "conn manager")
	safe.MustNotNil(rooms, "room table")
	safe.MustNotNil(disp, "dispatcher")

	presence := conf.Presence
	if presence == nil {
		presence = storage.NopPresence{}
	}
	delay := conf.JoinNotifyDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	return &Server{
		conn:            conn,
		rooms:           rooms,
		disp:            disp,
		sched:           newScheduler(),
		presence:        presence,
		joinNotifyDelay: delay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(conf.AllowedOrigin),
		},
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	if allowed == "" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}

func (s *Server) Rooms() *RoomTable   { return s.rooms }
func (s *Server) Conns() *ConnManager { return s.conn }
func (s *Server) Disp() *Dispatcher   { return s.disp }

// HandleWS upgrades the request and runs the connection to completion.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error: %v", err)
		return
	}

	conn := s.conn.Register(ws)
	logger.Infof("[ws] connected conn=%s remote=%s", conn.ID, ws.RemoteAddr())

	safe.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.presence.Online(ctx, conn.ID); err != nil {
			logger.Debugf("[ws] presence online conn=%s err=%v", conn.ID, err)
		}
	})

	s.readLoop(conn)
	s.teardown(conn)
}

// readLoop is the single reader for the socket. Each frame is fully handled
// before the next read, which keeps one connection's events in order.
func (s *Server) readLoop(conn *Conn) {
	ws := conn.ws
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s", conn.ID)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s err=%v", conn.ID, rerr)
			} else {
				logger.Infof("[ws] read err conn=%s err=%v", conn.ID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		f, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[ws] bad frame conn=%s err=%v sample=%q", conn.ID, perr, sample)
			continue
		}

		s.handleFrame(conn.ID, f)
	}
}

// handleFrame is the dispatch boundary: a fault in one event is logged and
// the event dropped, never propagated to the transport or other rooms.
func (s *Server) handleFrame(connID string, f *Frame) {
	defer safe.Recover("ws.dispatch")

	ctx := &Context{Rooms: s.rooms, JoinNotifyDelay: s.joinNotifyDelay}
	effects, err := s.disp.Dispatch(ctx, f, connID)
	if err != nil {
		// rejections stay off the wire; the log line is the only trace
		logger.Infof("[ws] drop kind=%s conn=%s reason=%v", f.Type, connID, err)
	}
	s.deliver(effects)
}

// deliver sends immediate effects and schedules delayed ones. A delayed
// notification re-checks membership at fire time: if the connection it is
// about (or its target) left the room inside the window, it is suppressed.
func (s *Server) deliver(effects []Outbound) {
	for _, e := range effects {
		if e.Delay <= 0 {
			s.conn.Send(e.Target, e.Frame)
			continue
		}

		about, target, frame := e.About, e.Target, e.Frame
		roomID := e.Frame.RoomID
		s.sched.schedule(about, e.Delay, func() {
			if !s.rooms.IsMember(roomID, about) || !s.rooms.IsMember(roomID, target) {
				return
			}
			s.conn.Send(target, frame)
		})
	}
}

// teardown is the lifecycle supervisor's disconnect path: cancel anything
// scheduled about this connection, pull it out of every room, tell the
// remaining members, then discard the id. Runs even on abrupt loss, and a
// second run finds nothing to do.
func (s *Server) teardown(conn *Conn) {
	s.sched.cancelAll(conn.ID)

	for _, dep := range s.rooms.DisconnectAll(conn.ID) {
		for _, member := range dep.Remaining {
			s.conn.Send(member, BuildUserLeft(dep.RoomID, conn.ID))
		}
	}

	s.conn.Unregister(conn.ID)

	safe.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.presence.Offline(ctx, conn.ID); err != nil {
			logger.Debugf("[ws] presence offline conn=%s err=%v", conn.ID, err)
		}
	})

	logger.Infof("[ws] disconnected conn=%s", conn.ID)
}

// HandleHealth reports the live room and connection counts.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rooms":       s.rooms.Count(),
		"connections": s.conn.Count(),
	})
}
