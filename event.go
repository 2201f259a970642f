package event

import "sync/atomic"

// Event is what listeners receive. Custom events usually embed *BasicEvent
// and add their own payload fields.
type Event interface {
	// Name returns the event name. It never changes after construction.
	Name() string
	// Emitter returns the emitter currently dispatching the event, or nil
	// if it has not been emitted yet.
	Emitter() *Emitter
	// SetEmitter binds the dispatching emitter. Called by Emit.
	SetEmitter(e *Emitter)
	// StopPropagation prevents the remaining listeners from being invoked.
	// It cannot be undone.
	StopPropagation()
	IsPropagationStopped() bool
}

// BasicEvent is the default Event implementation.
type BasicEvent struct {
	name    string
	emitter atomic.Pointer[Emitter]
	stopped atomic.Bool
}

// NewEvent returns a BasicEvent called name.
func NewEvent(name string) *BasicEvent {
	return &BasicEvent{name: name}
}

func (e *BasicEvent) Name() string {
	return e.name
}

func (e *BasicEvent) Emitter() *Emitter {
	return e.emitter.Load()
}

func (e *BasicEvent) SetEmitter(em *Emitter) {
	e.emitter.Store(em)
}

func (e *BasicEvent) StopPropagation() {
	e.stopped.Store(true)
}

func (e *BasicEvent) IsPropagationStopped() bool {
	return e.stopped.Load()
}

func (e *BasicEvent) String() string {
	return "Event{name=" + e.name + "}"
}
