package gochan

// selKind records which side of a channel a Selector binds to. The select
// engine itself only needs the register/unregister/status/tryOnce closures
// below to drive a candidate — every behavioral branch is already captured
// in those closures by the constructing channel — but kind is carried
// alongside them for introspection and debugging.
type selKind int

const (
	selRecv selKind = iota
	selSend
)

// Selector is one candidate operation passed to Select/TrySelect: a
// send-with-value or a recv, bound to a channel and an after-action. It is
// constructed by a channel's Sender or Receiver method and is meant to be
// consumed by exactly one Select/TrySelect call.
type Selector struct {
	kind selKind

	register   func(tok *token) bool
	unregister func(tok *token)
	status     func() status

	// tryOnce attempts the operation once, non-blockingly. On success it
	// runs the candidate's after-action itself and returns true.
	tryOnce func() bool
}
