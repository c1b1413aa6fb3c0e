package store

import "fmt"

// LoadError reports a failed historical fetch. Non-fatal: the previous view
// is retained and the caller may surface a retryable error state.
type LoadError struct {
	RoomID string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load messages for room %s: %v", e.RoomID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SendError reports a failed message persistence. The local view is never
// mutated on a failed send; the user may retry by resubmitting.
type SendError struct {
	RoomID string
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send message to room %s: %v", e.RoomID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
