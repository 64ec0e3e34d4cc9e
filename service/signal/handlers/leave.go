package handlers

import (
	"PMeet/logger"
	"PMeet/service/signal"
)

// LeaveRoomHandler implements leave-room. Leaving a room one is not in, or a
// room that does not exist, is a benign no-op with no effects.
type LeaveRoomHandler struct{}

func NewLeaveRoomHandler() signal.Handler { return &LeaveRoomHandler{} }

func (h *LeaveRoomHandler) Kind() signal.Kind { return signal.KindLeaveRoom }

func (h *LeaveRoomHandler) Handle(ctx *signal.Context, f *signal.Frame, connID string) ([]signal.Outbound, error) {
	remaining, changed := ctx.Rooms.Leave(f.RoomID, connID)
	if !changed {
		return nil, nil
	}

	logger.Infof("[room] leave room=%s conn=%s remaining=%d", f.RoomID, connID, len(remaining))

	out := make([]signal.Outbound, 0, len(remaining))
	for _, member := range remaining {
		out = append(out, signal.Outbound{
			Target: member,
			Frame:  signal.BuildUserLeft(f.RoomID, connID),
		})
	}
	return out, nil
}
