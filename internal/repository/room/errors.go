package room

import "errors"

var (
	ErrRoomAlreadyExists    = errors.New("room already exists")
	ErrRoomNotFound         = errors.New("room not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrQueueEmpty           = errors.New("queue is empty")
	ErrQueueIndexOutOfRange = errors.New("queue index out of range")
)
