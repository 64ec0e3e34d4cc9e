package signal

import (
	"encoding/json"
	"fmt"
)

// Kind names the wire-level event of a frame. Inbound kinds come from the
// browser; outbound kinds are only ever produced by the server.
type Kind string

const (
	// inbound
	KindCreateRoom Kind = "create-room"
	KindJoinRoom   Kind = "join-room"
	KindLeaveRoom  Kind = "leave-room"
	KindOffer      Kind = "offer"
	KindAnswer     Kind = "answer"
	KindCandidate  Kind = "ice-candidate"

	// outbound
	KindRoomCreated   Kind = "room-created"
	KindExistingUsers Kind = "existing-users"
	KindInvalidRoom   Kind = "invalid-room"
	KindUserJoined    Kind = "user-joined"
	KindUserLeft      Kind = "user-left"
)

// Frame is the JSON envelope for every message on the socket. Payload is the
// opaque negotiation blob (SDP offer/answer or ICE candidate); the relay
// forwards it untouched and never looks inside.
type Frame struct {
	Type    Kind            `json:"type"`
	RoomID  string          `json:"roomId,omitempty"`
	Sender  string          `json:"sender,omitempty"`
	Target  string          `json:"target,omitempty"`
	UserID  string          `json:"userId,omitempty"`
	Users   []string        `json:"users,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if f.Type == "" {
		return nil, fmt.Errorf("frame has no type")
	}
	return f, nil
}

// ---- server-built replies ----

func BuildRoomCreated(roomID string, members []string) *Frame {
	return &Frame{Type: KindRoomCreated, RoomID: roomID, Users: members}
}

func BuildExistingUsers(roomID string, others []string) *Frame {
	if others == nil {
		others = []string{}
	}
	return &Frame{Type: KindExistingUsers, RoomID: roomID, Users: others}
}

func BuildInvalidRoom(roomID string) *Frame {
	return &Frame{Type: KindInvalidRoom, RoomID: roomID}
}

func BuildUserJoined(roomID, userID string) *Frame {
	return &Frame{Type: KindUserJoined, RoomID: roomID, UserID: userID}
}

func BuildUserLeft(roomID, userID string) *Frame {
	return &Frame{Type: KindUserLeft, RoomID: roomID, UserID: userID}
}

// BuildRelay rewrites the envelope around an untouched payload. Sender is the
// server-side id of the sending connection, never the client-claimed one.
func BuildRelay(kind Kind, roomID, sender, target string, payload json.RawMessage) *Frame {
	return &Frame{
		Type:    kind,
		RoomID:  roomID,
		Sender:  sender,
		Target:  target,
		Payload: payload,
	}
}
