package errs

// Signaling rejections. Only ErrRoomNotFound ever crosses the transport
// boundary (as an invalid-room reply); the rest are logged and dropped so a
// rejected sender cannot probe room membership.
var (
	ErrRoomNotFound       = NewCodeError(20001, "room not found")
	ErrUnknownRoom        = NewCodeError(20002, "signal for unknown room")
	ErrUnauthorizedSender = NewCodeError(20003, "sender is not a room member")
	ErrInvalidTarget      = NewCodeError(20004, "target is not a room member")
	ErrNoHandler          = NewCodeError(20005, "no handler for frame kind")
)

// HTTP user surface.
var (
	ErrBadRequest       = NewCodeError(10400, "bad request")
	ErrTokenInvalid     = NewCodeError(10401, "invalid token")
	ErrTokenExpired     = NewCodeError(10402, "token expired")
	ErrUserExists       = NewCodeError(10403, "user already registered")
	ErrUserNotFound     = NewCodeError(10404, "user not found")
	ErrPasswordMismatch = NewCodeError(10405, "invalid password")
	ErrInternal         = NewCodeError(10500, "internal server error")
)
