package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"PMeet/service/signal"
	"PMeet/tools/errs"
)

func newCtx() *signal.Context {
	return &signal.Context{
		Rooms:           signal.NewRoomTable(),
		JoinNotifyDelay: 10 * time.Millisecond,
	}
}

func newDisp() *signal.Dispatcher {
	d := signal.NewDispatcher()
	RegisterAll(d)
	return d
}

func dispatch(t *testing.T, d *signal.Dispatcher, ctx *signal.Context, f *signal.Frame, connID string) []signal.Outbound {
	t.Helper()
	out, err := d.Dispatch(ctx, f, connID)
	if err != nil {
		t.Fatalf("dispatch %s: %v", f.Type, err)
	}
	return out
}

func TestCreateRoomAcksFounder(t *testing.T) {
	ctx, d := newCtx(), newDisp()

	out := dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "A")

	if len(out) != 1 || out[0].Target != "A" {
		t.Fatalf("effects = %+v, want one ack to A", out)
	}
	ack := out[0].Frame
	if ack.Type != signal.KindRoomCreated || ack.RoomID != "r1" {
		t.Fatalf("ack = %+v", ack)
	}
	if len(ack.Users) != 1 || ack.Users[0] != "A" {
		t.Fatalf("ack users = %v, want [A]", ack.Users)
	}
	if !ctx.Rooms.IsMember("r1", "A") {
		t.Fatal("founder must be a member")
	}
}

func TestCreateRoomTwiceIsJoin(t *testing.T) {
	ctx, d := newCtx(), newDisp()

	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "A")
	out := dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "B")

	if len(out[0].Frame.Users) != 2 {
		t.Fatalf("second create ack users = %v, want both members", out[0].Frame.Users)
	}
	if ctx.Rooms.Count() != 1 {
		t.Fatalf("room count = %d, want 1", ctx.Rooms.Count())
	}
}

func TestJoinEffects(t *testing.T) {
	ctx, d := newCtx(), newDisp()
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "A")

	out := dispatch(t, d, ctx, &signal.Frame{Type: signal.KindJoinRoom, RoomID: "r1"}, "B")

	if len(out) != 2 {
		t.Fatalf("effects = %+v, want existing-users + delayed user-joined", out)
	}

	imm := out[0]
	if imm.Target != "B" || imm.Frame.Type != signal.KindExistingUsers || imm.Delay != 0 {
		t.Fatalf("immediate effect = %+v", imm)
	}
	if len(imm.Frame.Users) != 1 || imm.Frame.Users[0] != "A" {
		t.Fatalf("existing users = %v, want [A]", imm.Frame.Users)
	}

	delayed := out[1]
	if delayed.Target != "A" || delayed.Frame.Type != signal.KindUserJoined {
		t.Fatalf("delayed effect = %+v", delayed)
	}
	if delayed.Delay != ctx.JoinNotifyDelay || delayed.About != "B" {
		t.Fatalf("delayed effect not scheduled about the joiner: %+v", delayed)
	}
	if delayed.Frame.UserID != "B" {
		t.Fatalf("user-joined carries %q, want the joiner id", delayed.Frame.UserID)
	}
}

func TestJoinGhostRoom(t *testing.T) {
	ctx, d := newCtx(), newDisp()

	out := dispatch(t, d, ctx, &signal.Frame{Type: signal.KindJoinRoom, RoomID: "ghost"}, "A")

	if len(out) != 1 || out[0].Target != "A" || out[0].Frame.Type != signal.KindInvalidRoom {
		t.Fatalf("effects = %+v, want invalid-room to the caller", out)
	}
	if ctx.Rooms.Count() != 0 {
		t.Fatal("failed join must leave the table unchanged")
	}
}

func TestLeaveNotifiesRemaining(t *testing.T) {
	ctx, d := newCtx(), newDisp()
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "A")
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "B")

	out := dispatch(t, d, ctx, &signal.Frame{Type: signal.KindLeaveRoom, RoomID: "r1"}, "A")

	if len(out) != 1 || out[0].Target != "B" || out[0].Frame.Type != signal.KindUserLeft {
		t.Fatalf("effects = %+v, want user-left to B", out)
	}
	if out[0].Frame.UserID != "A" {
		t.Fatalf("user-left carries %q, want A", out[0].Frame.UserID)
	}

	// second leave is a benign no-op
	if out := dispatch(t, d, ctx, &signal.Frame{Type: signal.KindLeaveRoom, RoomID: "r1"}, "A"); len(out) != 0 {
		t.Fatalf("repeat leave produced effects: %+v", out)
	}
}

func TestOfferUnicast(t *testing.T) {
	ctx, d := newCtx(), newDisp()
	for _, id := range []string{"A", "B", "C"} {
		dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, id)
	}

	payload := json.RawMessage(`{"sdp":"v=0"}`)
	out := dispatch(t, d, ctx, &signal.Frame{
		Type:    signal.KindOffer,
		RoomID:  "r1",
		Sender:  "A",
		Target:  "B",
		Payload: payload,
	}, "A")

	// delivered to B and to nobody else, even with a third member present
	if len(out) != 1 || out[0].Target != "B" {
		t.Fatalf("effects = %+v, want a single forward to B", out)
	}
	f := out[0].Frame
	if f.Type != signal.KindOffer || f.Sender != "A" || string(f.Payload) != string(payload) {
		t.Fatalf("forwarded frame = %+v", f)
	}
}

func TestRelaySenderIsServerAssigned(t *testing.T) {
	ctx, d := newCtx(), newDisp()
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "A")
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "B")

	// A claims to be B; the forwarded envelope must still say A
	out := dispatch(t, d, ctx, &signal.Frame{
		Type: signal.KindAnswer, RoomID: "r1", Sender: "B", Target: "B",
	}, "A")
	if out[0].Frame.Sender != "A" {
		t.Fatalf("forwarded sender = %q, want the server-side id", out[0].Frame.Sender)
	}
}

func TestRelayRejections(t *testing.T) {
	ctx, d := newCtx(), newDisp()
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "A")
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r1"}, "B")
	dispatch(t, d, ctx, &signal.Frame{Type: signal.KindCreateRoom, RoomID: "r2"}, "C")

	cases := []struct {
		name   string
		frame  *signal.Frame
		connID string
		want   errs.CodeError
	}{
		{
			name:   "unknown room",
			frame:  &signal.Frame{Type: signal.KindOffer, RoomID: "nope", Target: "B"},
			connID: "A",
			want:   errs.ErrUnknownRoom,
		},
		{
			name:   "sender never joined",
			frame:  &signal.Frame{Type: signal.KindOffer, RoomID: "r1", Sender: "C", Target: "B"},
			connID: "C",
			want:   errs.ErrUnauthorizedSender,
		},
		{
			name:   "target missing",
			frame:  &signal.Frame{Type: signal.KindCandidate, RoomID: "r1"},
			connID: "A",
			want:   errs.ErrInvalidTarget,
		},
		{
			name:   "target in another room",
			frame:  &signal.Frame{Type: signal.KindAnswer, RoomID: "r1", Target: "C"},
			connID: "A",
			want:   errs.ErrInvalidTarget,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := d.Dispatch(ctx, tc.frame, tc.connID)
			if len(out) != 0 {
				t.Fatalf("rejected signal produced effects: %+v", out)
			}
			if err == nil || !tc.want.Is(err) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
