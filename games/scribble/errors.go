/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribble

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrGameAlreadyActive   = errors.New("game already active")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInvalidSettings     = errors.New("invalid settings")
	ErrBadRequest          = errors.New("bad request")
	ErrAlreadyGuessed      = errors.New("already guessed the word")
	ErrRoomClosed          = errors.New("room closed")
)
