package gochan

import "errors"

// ErrClosed is returned by Send/Recv (and their blocking/timeout variants)
// when the channel is closed and, for Recv, drained.
var ErrClosed = errors.New("gochan: channel closed")

// ErrInvalidArgument is returned by MakeN when asked for a negative capacity,
// and by NewBuffered when asked for a capacity below 1.
var ErrInvalidArgument = errors.New("gochan: invalid argument")
