package app

import "errors"

// Error taxonomy surfaced synchronously to the originating caller.
// Relay delivery failures are never errors: no live recipient means
// the event is silently dropped.
var (
	ErrNotFound            = errors.New("session not found")
	ErrForbidden           = errors.New("participant not allowed for this transition")
	ErrInvalidTransition   = errors.New("invalid call state transition")
	ErrParticipantBusy     = errors.New("participant busy")
	ErrReceiverUnreachable = errors.New("receiver has no live connection")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room full")
)
