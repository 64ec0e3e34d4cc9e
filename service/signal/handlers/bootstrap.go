package handlers

import (
	"PMeet/service/signal"
)

// RegisterAll wires every inbound frame kind into the dispatcher.
func RegisterAll(d *signal.Dispatcher) {
	d.Register(NewCreateRoomHandler())
	d.Register(NewJoinRoomHandler())
	d.Register(NewLeaveRoomHandler())
	d.Register(NewOfferHandler())
	d.Register(NewAnswerHandler())
	d.Register(NewCandidateHandler())
}
