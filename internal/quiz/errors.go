package quiz

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrDisabled  = errors.New("test disabled")
	ErrProtected = errors.New("access code required")

	// Assessment lifecycle. Expired means the 2-hour attempt window lapsed
	// before the assessment was swept; abandoned means the sweeper (or a lazy
	// check) already flipped it. Both are recoverable: the candidate restarts.
	ErrExpired   = errors.New("assessment expired")
	ErrAbandoned = errors.New("assessment abandoned")
	ErrCompleted = errors.New("assessment already completed")
)
