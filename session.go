package event

import "sync"

// Session accumulates the bookkeeping of one emission: the response of
// every invoked listener and the event names that were touched.
//
// Each Emit starts a fresh session unless it runs inside EmitBatch, in
// which case the whole batch shares one.
type Session struct {
	mu         sync.Mutex
	responses  []Response
	eventNames []string
	batch      bool
}

// NewSession returns an empty session for EmitIn and EmitBatchIn.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) recordName(name string) {
	s.mu.Lock()
	s.eventNames = append(s.eventNames, name)
	s.mu.Unlock()
}

func (s *Session) recordResponse(r Response) {
	s.mu.Lock()
	s.responses = append(s.responses, r)
	s.mu.Unlock()
}

func (s *Session) reset() {
	s.mu.Lock()
	s.responses = nil
	s.eventNames = nil
	s.mu.Unlock()
}

func (s *Session) inBatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batch
}

// beginBatch enters batch mode and clears the logs. The returned func
// restores the previous mode.
func (s *Session) beginBatch() func() {
	s.mu.Lock()
	prev := s.batch
	s.batch = true
	s.responses = nil
	s.eventNames = nil
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.batch = prev
		s.mu.Unlock()
	}
}

// Responses returns the collected responses matching every filter.
func (s *Session) Responses(filters ...ResponseFilter) []Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterResponses(s.responses, filters...)
}

// ErrorResponses returns the failed responses matching every filter.
func (s *Session) ErrorResponses(filters ...ResponseFilter) []Response {
	return s.Responses(append([]ResponseFilter{WhereSuccess(false)}, filters...)...)
}

func (s *Session) SuccessResponses() []Response {
	return s.Responses(WhereSuccess(true))
}

// LastEventName returns the most recent name in the log, or "" if the log
// is empty.
func (s *Session) LastEventName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.eventNames) == 0 {
		return ""
	}
	return s.eventNames[len(s.eventNames)-1]
}

func (s *Session) EventNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.eventNames...)
}
