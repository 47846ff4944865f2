package blogclient

import "errors"

// Sentinel errors shared by both backends. Callers match with errors.Is;
// the remote client additionally carries the backend's own message via
// the Error type.
var (
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrNotPostAuthor         = errors.New("only the author can modify this post")
	ErrPostNotFound          = errors.New("post not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidInput          = errors.New("invalid input")
)

// Error is a failure from the remote backend. Message is the backend's
// human-readable message (or a generic fallback); Status is the HTTP
// status code. Unwrap lets errors.Is match the package sentinels.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.kind
}
