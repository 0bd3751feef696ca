package gochan

import "github.com/xtaci/gochan/internal/deadline"

// MaxTimeout is the distinguished "maximum" timeout value: pass it to any
// TrySendTimeout/TryRecvTimeout/TrySelectTimeout to block indefinitely,
// equivalent to the unbounded variant.
const MaxTimeout = deadline.Max

// Channel is the common surface both channel flavours implement.
// Make/MakeN return one of *Buffered[T] or *Rendezvous[T] behind this
// interface; callers that don't care which variant they hold can program
// against Channel directly, the way Orizon's Channel[T] wrapper exposes a
// single type regardless of backing capacity.
type Channel[T any] interface {
	Send(v T) error
	TrySend(v T) bool
	TrySendTimeout(v T, timeoutMs int64) (bool, error)

	Recv() (T, error)
	TryRecv() (T, bool)
	TryRecvTimeout(timeoutMs int64) (T, bool, error)

	Close() error
	IsClosed() bool

	ForEach(f func(T))
	ForNew(f func(T))

	Sender(v T, action func()) Selector
	Receiver(action func(T)) Selector
}

var (
	_ Channel[int] = (*Buffered[int])(nil)
	_ Channel[int] = (*Rendezvous[int])(nil)
)

// Make constructs a rendezvous channel (the zero-argument constructor).
func Make[T any]() Channel[T] {
	return NewRendezvous[T]()
}

// MakeN constructs a channel of capacity n: n == 0 yields a rendezvous
// channel, n > 0 a buffered channel of that capacity, and n < 0 fails with
// ErrInvalidArgument.
func MakeN[T any](n int) (Channel[T], error) {
	if n < 0 {
		return nil, ErrInvalidArgument
	}
	if n == 0 {
		return NewRendezvous[T](), nil
	}
	return NewBuffered[T](n)
}
