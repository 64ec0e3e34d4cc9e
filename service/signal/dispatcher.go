package signal

import (
	"PMeet/tools/errs"
)

type Dispatcher struct {
	handlers map[Kind]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Kind]Handler)}
}

func (d *Dispatcher) Register(h Handler) { d.handlers[h.Kind()] = h }

// Dispatch routes one frame to its handler and returns the outbound effects.
// Unknown kinds are an error for the caller to log; the sender is never told.
func (d *Dispatcher) Dispatch(ctx *Context, f *Frame, connID string) ([]Outbound, error) {
	h, ok := d.handlers[f.Type]
	if !ok {
		return nil, errs.ErrNoHandler.WithDetail(string(f.Type))
	}
	return h.Handle(ctx, f, connID)
}

func (d *Dispatcher) GetHandler(kind Kind) Handler {
	h, ok := d.handlers[kind]
	if !ok {
		return nil
	}
	return h
}
