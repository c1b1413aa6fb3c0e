// Package services defines the business logic for rooms, messages, and
// presence. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import "errors"

var (
	// ErrRoomNotFound indicates that the requested room does not exist or
	// is not accessible to the current user.
	ErrRoomNotFound = errors.New("room not found")

	// ErrEmptyRoomName is returned when a room is created or renamed with
	// a blank name.
	ErrEmptyRoomName = errors.New("room name is empty")

	// ErrEmptyMessage is returned when a send request contains no text.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrTooLong is returned when message text exceeds the configured
	// maximum length.
	ErrTooLong = errors.New("message text too long")
)
