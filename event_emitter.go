package event

import (
	"runtime/debug"
	"sort"

	"github.com/pkg/errors"
)

// Emitter dispatches named events to the listeners registered for them.
// Dispatch is synchronous: Emit returns once every listener has run.
//
// Registration is safe for concurrent use, including from inside a
// listener. The emission log behind GetResponses and GetEventNames belongs
// to the emitter and assumes one Emit or EmitBatch in flight at a time;
// concurrent callers should dispatch with their own Session through EmitIn
// and EmitBatchIn.
type Emitter struct {
	registry *registry
	session  *Session
	logger   logger

	defaultPriority Priority
	errorPolicy     ErrorPolicy
	recoverPanics   bool
}

func NewEmitter(opts ...EmitterOption) *Emitter {
	cfg := DefaultConfig()
	e := &Emitter{
		registry:        newRegistry(),
		session:         NewSession(),
		logger:          noopLogger{},
		defaultPriority: cfg.DefaultPriority,
		errorPolicy:     cfg.ErrorPolicy,
		recoverPanics:   cfg.RecoverPanics,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithField("component", "emitter")
	return e
}

// AddListener registers l for name. Names starting with "~" are regular
// expressions and names containing "*" are wildcard patterns; "*" alone
// receives every event. The first priority passed is used, defaulting to
// the configured default priority.
func (e *Emitter) AddListener(name string, l Listener, priority ...Priority) error {
	if name == "" {
		return invalidArgument("event name cannot be empty")
	}
	if isNil(l) {
		return invalidArgument("listener for %q cannot be nil", name)
	}

	p := pickPriority(e.defaultPriority, priority)
	if err := e.registry.add(name, l, p); err != nil {
		return err
	}

	e.logger.Debugf("listener %s added to %q at priority %s", listenerID(l), name, p)
	return nil
}

// AddCallback wraps fn into a CallbackListener and registers it. The
// returned listener identifies the registration for RemoveListener.
func (e *Emitter) AddCallback(name string, fn CallbackFunc, priority ...Priority) (*CallbackListener, error) {
	if fn == nil {
		return nil, invalidArgument("callback for %q cannot be nil", name)
	}
	l := NewCallbackListener(fn)
	if err := e.AddListener(name, l, priority...); err != nil {
		return nil, err
	}
	return l, nil
}

// AddOneTimeListener registers l so that it runs for the first matching
// event only.
func (e *Emitter) AddOneTimeListener(name string, l Listener, priority ...Priority) (*OneTimeListener, error) {
	if isNil(l) {
		return nil, invalidArgument("listener for %q cannot be nil", name)
	}
	once := NewOneTimeListener(l)
	if err := e.AddListener(name, once, priority...); err != nil {
		return nil, err
	}
	return once, nil
}

func (e *Emitter) AddOneTimeCallback(name string, fn CallbackFunc, priority ...Priority) (*OneTimeListener, error) {
	if fn == nil {
		return nil, invalidArgument("callback for %q cannot be nil", name)
	}
	return e.AddOneTimeListener(name, NewCallbackListener(fn), priority...)
}

// AddListenerBatch registers several listeners at the default priority.
// Values may be a Listener, a CallbackFunc, or a slice of either. Every
// name and value is checked before anything is registered. Names are registered in
// lexical order.
func (e *Emitter) AddListenerBatch(listeners map[string]any) error {
	names := make([]string, 0, len(listeners))
	for name := range listeners {
		names = append(names, name)
	}
	sort.Strings(names)

	batch := make(map[string][]Listener, len(listeners))
	for _, name := range names {
		if name == "" {
			return invalidArgument("event name cannot be empty")
		}
		if _, err := compilePattern(name); err != nil {
			return err
		}
		ls, err := ensureListeners(listeners[name])
		if err != nil {
			return errors.Wrapf(err, "listeners for %q", name)
		}
		batch[name] = ls
	}

	for _, name := range names {
		for _, l := range batch[name] {
			if err := e.AddListener(name, l); err != nil {
				return err
			}
		}
	}
	return nil
}

// UseListenerProvider lets p register its listeners on the emitter.
func (e *Emitter) UseListenerProvider(p ListenerProvider) error {
	if p == nil {
		return invalidArgument("listener provider cannot be nil")
	}
	return p.ProvideListeners(listenerAcceptor{emitter: e})
}

// RemoveListener removes every registration of l under name. l may be the
// registered listener or the listener wrapped by a one-time registration.
func (e *Emitter) RemoveListener(name string, l Listener) {
	if isNil(l) {
		return
	}
	e.registry.remove(name, l)
	e.logger.Debugf("listener %s removed from %q", listenerID(l), name)
}

func (e *Emitter) RemoveAllListeners(name string) {
	e.registry.removeAll(name)
	e.logger.Debugf("all listeners removed from %q", name)
}

// HasListeners reports whether name has listeners. Note that it reports
// true whenever any pattern listener is registered, even one that does not
// match name.
func (e *Emitter) HasListeners(name string) bool {
	return e.registry.hasAny(name)
}

// GetListeners returns the listeners Emit(name) would invoke, in order.
func (e *Emitter) GetListeners(name string) []Listener {
	return append([]Listener(nil), e.registry.resolve(name)...)
}

// GetListenerNames returns the registered event names, patterns included.
func (e *Emitter) GetListenerNames() []string {
	return e.registry.names()
}

// Emit dispatches event, a string name or an Event, to the listeners of
// its name and then to the "*" listeners. Each listener receives the event
// followed by args. The dispatch stops early when a listener stops the
// event's propagation.
//
// Outside a batch, Emit clears the emission log before dispatching.
func (e *Emitter) Emit(event any, args ...any) (Event, error) {
	return e.emit(e.session, event, args)
}

// EmitIn is Emit recording into s instead of the emitter's own log.
func (e *Emitter) EmitIn(s *Session, event any, args ...any) (Event, error) {
	if s == nil {
		return nil, invalidArgument("session cannot be nil")
	}
	return e.emit(s, event, args)
}

// EmitBatch emits every name in order, passing data to each emission. The
// emission log is cleared once and then accumulates across the batch.
func (e *Emitter) EmitBatch(names []string, data ...any) ([]Event, error) {
	return e.emitBatch(e.session, names, data)
}

func (e *Emitter) EmitBatchIn(s *Session, names []string, data ...any) ([]Event, error) {
	if s == nil {
		return nil, invalidArgument("session cannot be nil")
	}
	return e.emitBatch(s, names, data)
}

// EmitGeneratedEvents emits the events released by g as one batch.
func (e *Emitter) EmitGeneratedEvents(g Generator) ([]Event, error) {
	if g == nil {
		return nil, invalidArgument("generator cannot be nil")
	}
	return e.EmitBatch(g.ReleaseEvents())
}

// GetResponses returns the responses of the last Emit or EmitBatch that
// match every filter.
func (e *Emitter) GetResponses(filters ...ResponseFilter) []Response {
	return e.session.Responses(filters...)
}

func (e *Emitter) GetErrorResponses(filters ...ResponseFilter) []Response {
	return e.session.ErrorResponses(filters...)
}

func (e *Emitter) GetSuccessResponses() []Response {
	return e.session.SuccessResponses()
}

// GetLastEventName returns the last name in the emission log, "" if none.
func (e *Emitter) GetLastEventName() string {
	return e.session.LastEventName()
}

// GetEventNames returns the names logged by the last Emit or EmitBatch,
// one entry per invoked listener.
func (e *Emitter) GetEventNames() []string {
	return e.session.EventNames()
}

func (e *Emitter) emit(s *Session, event any, args []any) (Event, error) {
	ev, err := ensureEvent(event)
	if err != nil {
		return nil, err
	}
	s.recordName(ev.Name())
	ev.SetEmitter(e)

	// The name recorded above does not survive outside a batch.
	if !s.inBatch() {
		s.reset()
	}

	e.logger.Debugf("emitting %q", ev.Name())

	if err := e.invokeListeners(s, ev.Name(), ev, args); err != nil {
		return ev, err
	}
	if err := e.invokeListeners(s, Wildcard, ev, args); err != nil {
		return ev, err
	}
	return ev, nil
}

func (e *Emitter) emitBatch(s *Session, names []string, data []any) ([]Event, error) {
	end := s.beginBatch()
	defer end()

	events := make([]Event, 0, len(names))
	for _, name := range names {
		ev, err := e.emit(s, name, data)
		if ev != nil {
			events = append(events, ev)
		}
		if err != nil {
			return events, err
		}
	}
	return events, nil
}

func (e *Emitter) invokeListeners(s *Session, name string, ev Event, args []any) error {
	for _, l := range e.registry.resolve(name) {
		if ev.IsPropagationStopped() {
			break
		}

		target := l
		if once, ok := l.(*OneTimeListener); ok {
			claimed := once.claim()
			e.registry.drop(once)
			if !claimed {
				continue
			}
			target = once.Listener
		}

		s.recordName(ev.Name())
		resp := e.invoke(target, ev, args)
		if resp.Event == nil {
			resp.Event = ev
		}
		if resp.ListenerID == "" {
			resp.ListenerID = listenerID(l)
		}
		s.recordResponse(resp)

		if resp.Success {
			continue
		}

		e.logger.
			WithField("listener", resp.ListenerID).
			Warnf("listener failed on %q: %s", ev.Name(), resp.Message)

		if e.errorPolicy == ErrorPolicyAbort {
			cause := resp.Err
			if cause == nil {
				cause = errors.Wrap(ErrListenerFailed, resp.Message)
			}
			return newListenerError(ev.Name(), resp.ListenerID, cause)
		}
	}
	return nil
}

func (e *Emitter) invoke(l Listener, ev Event, args []any) (resp Response) {
	if e.recoverPanics {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Errorf("listener %s panicked on %q: %v\n%s", listenerID(l), ev.Name(), r, debug.Stack())
				resp = NewErrorResponse(ev, errors.Wrapf(ErrListenerPanic, "%v", r))
			}
		}()
	}
	return l.Handle(ev, args...)
}

func ensureEvent(event any) (Event, error) {
	switch t := event.(type) {
	case string:
		return NewEvent(t), nil
	case Event:
		if !isNil(t) {
			return t, nil
		}
	}
	return nil, invalidArgument("events should be a string or an Event, received %T", event)
}

func ensureListeners(v any) ([]Listener, error) {
	switch t := v.(type) {
	case Listener:
		if isNil(t) {
			return nil, invalidArgument("nil listener")
		}
		return []Listener{t}, nil
	case CallbackFunc:
		if t == nil {
			return nil, invalidArgument("nil callback")
		}
		return []Listener{NewCallbackListener(t)}, nil
	case func(Event, ...any) (any, error):
		if t == nil {
			return nil, invalidArgument("nil callback")
		}
		return []Listener{NewCallbackListener(t)}, nil
	case []Listener:
		out := make([]Listener, 0, len(t))
		for _, l := range t {
			ls, err := ensureListeners(l)
			if err != nil {
				return nil, err
			}
			out = append(out, ls...)
		}
		return out, nil
	case []CallbackFunc:
		out := make([]Listener, 0, len(t))
		for _, fn := range t {
			ls, err := ensureListeners(fn)
			if err != nil {
				return nil, err
			}
			out = append(out, ls...)
		}
		return out, nil
	case []any:
		out := make([]Listener, 0, len(t))
		for _, item := range t {
			if _, nested := item.([]any); nested {
				return nil, invalidArgument("nested listener lists are not supported")
			}
			ls, err := ensureListeners(item)
			if err != nil {
				return nil, err
			}
			out = append(out, ls...)
		}
		return out, nil
	}
	return nil, invalidArgument("listeners should be a Listener or a CallbackFunc, received %T", v)
}
