package event

import (
	"github.com/stretchr/testify/mock"
)

type mockListener struct {
	mock.Mock

	tapHandle func(e Event, args ...any)
}

func (m *mockListener) Handle(e Event, args ...any) Response {
	if m.tapHandle != nil {
		m.tapHandle(e, args...)
	}
	called := m.Called(append([]any{e}, args...)...)
	return called.Get(0).(Response)
}

func (m *mockListener) IsListener(other Listener) bool {
	return sameListener(m, unwrapListener(other))
}
