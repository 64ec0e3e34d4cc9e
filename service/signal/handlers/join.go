package handlers

import (
	"PMeet/logger"
	"PMeet/service/signal"
	"PMeet/tools/errs"
)

// JoinRoomHandler implements join-room. Unlike create-room it refuses an
// absent room, so a client can tell "room doesn't exist" apart from "you
// founded it". The joiner gets the other members immediately; the others
// hear about the joiner after the notify delay.
type JoinRoomHandler struct{}

func NewJoinRoomHandler() signal.Handler { return &JoinRoomHandler{} }

func (h *JoinRoomHandler) Kind() signal.Kind { return signal.KindJoinRoom }

func (h *JoinRoomHandler) Handle(ctx *signal.Context, f *signal.Frame, connID string) ([]signal.Outbound, error) {
	others, err := ctx.Rooms.Join(f.RoomID, connID)
	if err != nil {
		if errs.ErrRoomNotFound.Is(err) {
			// the one rejection that is reported to the caller
			return []signal.Outbound{
				{Target: connID, Frame: signal.BuildInvalidRoom(f.RoomID)},
			}, nil
		}
		return nil, err
	}

	logger.Infof("[room] join room=%s conn=%s others=%d", f.RoomID, connID, len(others))

	out := make([]signal.Outbound, 0, len(others)+1)
	out = append(out, signal.Outbound{
		Target: connID,
		Frame:  signal.BuildExistingUsers(f.RoomID, others),
	})
	for _, other := range others {
		out = append(out, signal.Outbound{
			Target: other,
			Frame:  signal.BuildUserJoined(f.RoomID, connID),
			Delay:  ctx.JoinNotifyDelay,
			About:  connID,
		})
	}
	return out, nil
}
