package apperror

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerExists   = errors.New("a user with that name already exists")
	ErrSamePlayer     = errors.New("a player cannot play against themselves")
	ErrGameFinished   = errors.New("cannot cancel completed game")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("concurrent update, try again")
)
