package event

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrListenerFailed  = errors.New("listener failed")
	ErrListenerPanic   = errors.New("listener panicked")
	ErrUnknownHandler  = errors.New("unknown handler")
)

// ListenerError is returned by Emit when a listener fails and the emitter
// runs with ErrorPolicyAbort.
type ListenerError struct {
	EventName  string
	ListenerID string
	err        error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s failed on event %q: %s", e.ListenerID, e.EventName, e.err)
}

func (e *ListenerError) Unwrap() error { return e.err }

func newListenerError(eventName, listenerID string, err error) *ListenerError {
	if err == nil {
		return nil
	}
	return &ListenerError{
		EventName:  eventName,
		ListenerID: listenerID,
		err:        err,
	}
}

func invalidArgument(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
