package event

import "fmt"

// Response is what a listener hands back for one invocation. The emitter
// keeps every Response of the current emission session, see GetResponses.
type Response struct {
	// Event is the event the listener was invoked with.
	Event Event
	// ListenerID identifies the listener that produced the response.
	ListenerID string
	// Message is an optional human readable note. Failed responses carry
	// the error text here.
	Message string
	// Data is the optional payload returned by the listener.
	Data any
	// Success is false when the listener returned an error or panicked.
	Success bool
	// Err is the listener's error, if any.
	Err error
}

// EventName returns the name of the event behind the response, or "" when
// the response carries no event.
func (r Response) EventName() string {
	if r.Event == nil {
		return ""
	}
	return r.Event.Name()
}

func (r Response) String() string {
	if r.Success {
		return fmt.Sprintf("Response{event=%s,listener=%s,data=%v}",
			r.EventName(), r.ListenerID, r.Data)
	}
	return fmt.Sprintf("Response{event=%s,listener=%s,error=%s}",
		r.EventName(), r.ListenerID, r.Message)
}

func NewSuccessResponse(e Event, data any) Response {
	return Response{Event: e, Data: data, Success: true}
}

func NewErrorResponse(e Event, err error) Response {
	r := Response{Event: e, Err: err}
	if err != nil {
		r.Message = err.Error()
	}
	return r
}

// ResponseFilter selects responses. See Emitter.GetResponses.
type ResponseFilter func(Response) bool

func WhereEventName(name string) ResponseFilter {
	return func(r Response) bool {
		return r.EventName() == name
	}
}

func WhereSuccess(success bool) ResponseFilter {
	return func(r Response) bool {
		return r.Success == success
	}
}

func WhereMessage(msg string) ResponseFilter {
	return func(r Response) bool {
		return r.Message == msg
	}
}

func WhereListener(id string) ResponseFilter {
	return func(r Response) bool {
		return r.ListenerID == id
	}
}

// filterResponses returns the responses matching every filter. It always
// returns a fresh slice.
func filterResponses(rs []Response, filters ...ResponseFilter) []Response {
	out := make([]Response, 0, len(rs))
next:
	for _, r := range rs {
		for _, f := range filters {
			if f != nil && !f(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}
