package event

type mockGenerator struct {
	ReleaseEventsFunc func() []string
}

func (m *mockGenerator) ReleaseEvents() []string {
	return m.ReleaseEventsFunc()
}

type mockProvider struct {
	ProvideListenersFunc func(acceptor ListenerAcceptor) error
}

func (m *mockProvider) ProvideListeners(acceptor ListenerAcceptor) error {
	return m.ProvideListenersFunc(acceptor)
}

// recordingListener appends its tag to a shared log on every call and
// returns tag as response data.
type recordingListener struct {
	tag string
	log *[]string
}

func (r *recordingListener) Handle(e Event, _ ...any) Response {
	*r.log = append(*r.log, r.tag)
	return NewSuccessResponse(e, r.tag)
}

func (r *recordingListener) IsListener(other Listener) bool {
	return sameListener(r, unwrapListener(other))
}

func (r *recordingListener) ID() string {
	return r.tag
}
