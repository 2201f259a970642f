package event

import (
	"sync"

	"github.com/pkg/errors"
)

type (
	// ListenerAcceptor is the registration surface handed to a
	// ListenerProvider.
	ListenerAcceptor interface {
		AddListener(name string, l Listener, priority ...Priority) error
	}

	// ListenerProvider registers a set of listeners in one go, see
	// Emitter.UseListenerProvider.
	ListenerProvider interface {
		ProvideListeners(acceptor ListenerAcceptor) error
	}

	// ProviderFunc adapts a function to ListenerProvider.
	ProviderFunc func(acceptor ListenerAcceptor) error

	// Generator releases the names of events it has been holding back.
	// ReleaseEvents must return a finite slice and forget what it returned.
	Generator interface {
		ReleaseEvents() []string
	}
)

func (f ProviderFunc) ProvideListeners(acceptor ListenerAcceptor) error {
	return f(acceptor)
}

// listenerAcceptor exposes only AddListener of the emitter to providers.
type listenerAcceptor struct {
	emitter *Emitter
}

func (a listenerAcceptor) AddListener(name string, l Listener, priority ...Priority) error {
	return a.emitter.AddListener(name, l, priority...)
}

// EventBuffer is a Generator that collects event names until they are
// released.
type EventBuffer struct {
	mu     sync.Mutex
	events []string
}

func NewEventBuffer() *EventBuffer {
	return &EventBuffer{}
}

// Record queues name for the next release.
func (b *EventBuffer) Record(name string) {
	b.mu.Lock()
	b.events = append(b.events, name)
	b.mu.Unlock()
}

func (b *EventBuffer) ReleaseEvents() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := b.events
	b.events = nil
	return events
}

// ConfigProvider registers the bindings of a Config, resolving handler
// names through a fixed handler table.
type ConfigProvider struct {
	logger   logger
	bindings []Binding
	handlers map[string]CallbackFunc
}

func NewConfigProvider(
	logger logger,
	bindings []Binding,
	handlers map[string]CallbackFunc,
) ConfigProvider {
	if logger == nil {
		logger = noopLogger{}
	}
	return ConfigProvider{
		logger:   logger.WithField("provider", "config"),
		bindings: bindings,
		handlers: handlers,
	}
}

// ProvideListeners registers one listener per binding. It stops at the
// first binding naming a handler missing from the table.
func (p ConfigProvider) ProvideListeners(acceptor ListenerAcceptor) error {
	for _, b := range p.bindings {
		fn, ok := p.handlers[b.Handler]
		if !ok || fn == nil {
			p.logger.Errorf("cannot bind %q: no handler named %q", b.Event, b.Handler)
			return errors.Wrapf(ErrUnknownHandler, "binding %q -> %q", b.Event, b.Handler)
		}

		var l Listener = NewCallbackListener(fn)
		if b.Once {
			l = NewOneTimeListener(l)
		}
		var priority []Priority
		if b.Priority != nil {
			priority = append(priority, *b.Priority)
		}
		if err := acceptor.AddListener(b.Event, l, priority...); err != nil {
			return errors.Wrapf(err, "binding %q -> %q", b.Event, b.Handler)
		}
		p.logger.Debugf("bound %q to handler %q", b.Event, b.Handler)
	}
	return nil
}
