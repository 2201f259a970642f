package event

import "sync/atomic"

// OneTimeListener decorates a Listener so it runs at most once. After the
// first invocation the emitter drops it from every registration it holds.
type OneTimeListener struct {
	// Listener is the decorated listener.
	Listener

	fired atomic.Bool
}

func NewOneTimeListener(l Listener) *OneTimeListener {
	return &OneTimeListener{Listener: l}
}

// Handle marks the listener as expired and delegates to the wrapped one.
func (o *OneTimeListener) Handle(e Event, args ...any) Response {
	o.claim()
	return o.Listener.Handle(e, args...)
}

// IsListener matches the decorator itself as well as anything the wrapped
// listener matches.
func (o *OneTimeListener) IsListener(other Listener) bool {
	if sameListener(o, other) {
		return true
	}
	return o.Listener.IsListener(other)
}

// Expired reports whether the listener has already been invoked.
func (o *OneTimeListener) Expired() bool {
	return o.fired.Load()
}

func (o *OneTimeListener) ID() string {
	return listenerID(o.Listener)
}

// claim flips the listener to expired and reports whether this call did it.
func (o *OneTimeListener) claim() bool {
	return o.fired.CompareAndSwap(false, true)
}
