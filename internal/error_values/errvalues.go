package errorvalues

import "errors"

var (
	ErrUserNotFound     = errors.New("no signed-in user")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")
)
