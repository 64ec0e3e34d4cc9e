package handlers

import (
	"PMeet/service/signal"
)

// RelayHandler implements the three signaling kinds (offer, answer,
// ice-candidate). They share one authorize-and-forward body; only the kind
// on the envelope differs. Forwarding is unicast: the payload goes to the
// target member and nobody else, and the sender on the forwarded envelope is
// the server-side connection id, not whatever the client claimed.
type RelayHandler struct {
	kind signal.Kind
}

func NewOfferHandler() signal.Handler     { return &RelayHandler{kind: signal.KindOffer} }
func NewAnswerHandler() signal.Handler    { return &RelayHandler{kind: signal.KindAnswer} }
func NewCandidateHandler() signal.Handler { return &RelayHandler{kind: signal.KindCandidate} }

func (h *RelayHandler) Kind() signal.Kind { return h.kind }

func (h *RelayHandler) Handle(ctx *signal.Context, f *signal.Frame, connID string) ([]signal.Outbound, error) {
	if err := ctx.Rooms.Authorize(f.RoomID, connID, f.Target); err != nil {
		// dropped silently: no forward, no reply, only the caller's log
		return nil, err
	}

	return []signal.Outbound{
		{
			Target: f.Target,
			Frame:  signal.BuildRelay(h.kind, f.RoomID, connID, f.Target, f.Payload),
		},
	}, nil
}
