package event

// EventEmitter is the dispatch surface shared by Emitter and NoopEmitter.
type EventEmitter interface {
	// AddListener registers a listener for an event name or pattern.
	AddListener(name string, l Listener, priority ...Priority) error

	// RemoveListener removes the listener from the given event.
	RemoveListener(name string, l Listener)

	// RemoveAllListeners removes every listener of the given event.
	RemoveAllListeners(name string)

	// HasListeners reports whether the event may have listeners.
	HasListeners(name string) bool

	// Emit dispatches an event synchronously.
	Emit(event any, args ...any) (Event, error)

	// EmitBatch dispatches several events sharing one emission log.
	EmitBatch(names []string, data ...any) ([]Event, error)

	// GetResponses returns the responses of the last emission.
	GetResponses(filters ...ResponseFilter) []Response
}

var (
	_ EventEmitter = (*Emitter)(nil)
	_ EventEmitter = NoopEmitter{}
)

// NoopEmitter accepts registrations and emissions without dispatching
// anything. Emit still validates its input and returns the event.
type NoopEmitter struct{}

func (NoopEmitter) AddListener(name string, l Listener, _ ...Priority) error {
	if name == "" || isNil(l) {
		return invalidArgument("listener registration for %q", name)
	}
	return nil
}

func (NoopEmitter) RemoveListener(string, Listener) {}

func (NoopEmitter) RemoveAllListeners(string) {}

func (NoopEmitter) HasListeners(string) bool { return false }

func (NoopEmitter) Emit(event any, _ ...any) (Event, error) {
	return ensureEvent(event)
}

func (NoopEmitter) EmitBatch(names []string, _ ...any) ([]Event, error) {
	events := make([]Event, 0, len(names))
	for _, name := range names {
		events = append(events, NewEvent(name))
	}
	return events, nil
}

func (NoopEmitter) GetResponses(...ResponseFilter) []Response { return nil }
