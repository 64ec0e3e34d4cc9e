package errs

import (
	"strings"
	"testing"
)

func TestCodeErrorIs(t *testing.T) {
	err := ErrRoomNotFound.WithDetail("r1").Wrap()

	if !ErrRoomNotFound.Is(err) {
		t.Fatal("wrapped error must match its code")
	}
	if ErrUnknownRoom.Is(err) {
		t.Fatal("different code must not match")
	}
	if ErrRoomNotFound.Is(nil) {
		t.Fatal("nil must not match")
	}
}

func TestWithDetailAccumulates(t *testing.T) {
	e := ErrInvalidTarget.WithDetail("first").WithDetail("second")
	if e.Detail != "first, second" {
		t.Fatalf("detail = %q", e.Detail)
	}
	// the original is untouched
	if ErrInvalidTarget.Detail != "" {
		t.Fatalf("predefined error mutated: %q", ErrInvalidTarget.Detail)
	}
}

func TestErrorString(t *testing.T) {
	msg := ErrUnauthorizedSender.WithDetail("conn-9").Error()
	for _, want := range []string{"20003", "sender is not a room member", "conn-9"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestWrapMsgKeepsCode(t *testing.T) {
	err := ErrInternal.WrapMsg("insert user", "email", "a@b.c")
	if !ErrInternal.Is(err) {
		t.Fatalf("WrapMsg lost the code: %v", err)
	}
	if !strings.Contains(err.Error(), "a@b.c") {
		t.Fatalf("WrapMsg dropped kv detail: %v", err)
	}
}
