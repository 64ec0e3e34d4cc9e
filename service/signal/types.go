package signal

import "time"

// Handler processes one inbound frame kind. Handlers never write to a socket
// themselves; they mutate the RoomTable and return the outbound effects, so
// the core runs (and is tested) without a live transport.
type Handler interface {
	Kind() Kind
	Handle(ctx *Context, f *Frame, connID string) ([]Outbound, error)
}

// Context carries the injected state a handler may touch.
type Context struct {
	Rooms *RoomTable

	// JoinNotifyDelay postpones the user-joined broadcast so the joiner can
	// finish attaching before peers negotiate toward it.
	JoinNotifyDelay time.Duration
}

// Outbound is a notification to deliver to exactly one connection. Delay>0
// asks the server to schedule it; About names the connection the
// notification concerns so the schedule can be cancelled when that
// connection goes away within the window.
type Outbound struct {
	Target string
	Frame  *Frame
	Delay  time.Duration
	About  string
}

func sendTo(target string, f *Frame) Outbound {
	return Outbound{Target: target, Frame: f}
}
