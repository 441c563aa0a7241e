package physics

import "errors"

var (
	ErrGroupMismatch  = errors.New("physics: body collision group does not match group tag")
	ErrAlreadyMember  = errors.New("physics: body already in collision group")
	ErrBodyRegistered = errors.New("physics: body already registered")
	ErrNilBody        = errors.New("physics: body is nil")
)
