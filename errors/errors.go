package errors

import "fmt"

var (
	ErrAlreadyHasSession        = fmt.Errorf("host already has an active session")
	ErrNoActiveSession          = fmt.Errorf("no active session")
	ErrInvalidSize              = fmt.Errorf("invalid session size")
	ErrSessionFull              = fmt.Errorf("session is full")
	ErrMemberAlreadyConnected   = fmt.Errorf("member is already connected")
	ErrMemberNotConnected       = fmt.Errorf("member is not connected")
	ErrResizeBelowConnected     = fmt.Errorf("cannot resize below connected count")
	ErrTeamCountExceedsCapacity = fmt.Errorf("too few members for requested teams")
	ErrSessionEnded             = fmt.Errorf("session has ended")
	ErrWorkerPanic              = fmt.Errorf("worker panic")
	ErrOnlyCensoredFiles        = fmt.Errorf("censored directory contains directories")
	ErrEmptyWords               = fmt.Errorf("no words have been found")
)
