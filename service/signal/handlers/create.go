package handlers

import (
	"PMeet/logger"
	"PMeet/service/signal"
)

// CreateRoomHandler implements create-room: idempotent creation, the caller
// joins whichever room ends up existing and gets the full member list back.
type CreateRoomHandler struct{}

func NewCreateRoomHandler() signal.Handler { return &CreateRoomHandler{} }

func (h *CreateRoomHandler) Kind() signal.Kind { return signal.KindCreateRoom }

func (h *CreateRoomHandler) Handle(ctx *signal.Context, f *signal.Frame, connID string) ([]signal.Outbound, error) {
	members := ctx.Rooms.CreateOrJoin(f.RoomID, connID)
	logger.Infof("[room] create-or-join room=%s conn=%s members=%d", f.RoomID, connID, len(members))

	return []signal.Outbound{
		{Target: connID, Frame: signal.BuildRoomCreated(f.RoomID, members)},
	}, nil
}
