package event

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

type (
	// Listener handles emitted events.
	Listener interface {
		// Handle is invoked with the emitted event followed by the extra
		// arguments passed to Emit.
		Handle(e Event, args ...any) Response
		// IsListener reports whether other refers to this listener. It is
		// used to find registrations on removal.
		IsListener(other Listener) bool
	}

	// CallbackFunc is a plain function listener. See CallbackListener.
	CallbackFunc func(e Event, args ...any) (any, error)
)

// CallbackListener adapts a CallbackFunc to the Listener interface.
//
// Go functions cannot be compared, so the adapter itself is the identity:
// keep the *CallbackListener returned by NewCallbackListener or
// Emitter.AddCallback to remove the registration later.
type CallbackListener struct {
	id       uuid.UUID
	callback CallbackFunc
}

func NewCallbackListener(fn CallbackFunc) *CallbackListener {
	return &CallbackListener{id: uuid.New(), callback: fn}
}

func (l *CallbackListener) ID() string {
	return l.id.String()
}

func (l *CallbackListener) Callback() CallbackFunc {
	return l.callback
}

// Handle calls the wrapped function and turns its result into a Response.
// A returned Response (or *Response) is used as is; any other value becomes
// the response data. A non-nil error marks the response as failed.
func (l *CallbackListener) Handle(e Event, args ...any) Response {
	v, err := l.callback(e, args...)
	return toResponse(e, l.ID(), v, err)
}

func (l *CallbackListener) IsListener(other Listener) bool {
	return sameListener(l, unwrapListener(other))
}

func (l *CallbackListener) String() string {
	return "CallbackListener{id=" + l.ID() + "}"
}

func toResponse(e Event, id string, v any, err error) Response {
	var r Response
	switch t := v.(type) {
	case Response:
		r = t
	case *Response:
		if t != nil {
			r = *t
		}
	default:
		if err != nil {
			r = NewErrorResponse(e, err)
			r.Data = v
		} else {
			r = NewSuccessResponse(e, v)
		}
	}

	if r.Event == nil {
		r.Event = e
	}
	if r.ListenerID == "" {
		r.ListenerID = id
	}
	if err != nil {
		r.Success = false
		r.Err = err
		if r.Message == "" {
			r.Message = err.Error()
		}
	}
	return r
}

// unwrapListener strips one-time decorators so identity checks compare the
// listener that was originally registered.
func unwrapListener(l Listener) Listener {
	for {
		once, ok := l.(*OneTimeListener)
		if !ok || once == nil {
			return l
		}
		l = once.Listener
	}
}

// sameListener reports whether a and b are the same listener value. Values
// of non-comparable dynamic types are never considered equal.
func sameListener(a, b Listener) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func containsListener(ls []Listener, l Listener) bool {
	for _, registered := range ls {
		if sameListener(registered, l) {
			return true
		}
	}
	return false
}

// isNil reports whether v is nil or an interface holding a nil pointer,
// map, slice, func or chan.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func listenerID(l Listener) string {
	if withID, ok := l.(interface{ ID() string }); ok {
		return withID.ID()
	}
	return fmt.Sprintf("%T", l)
}
