package shared

import "time"

// Clock abstracts time operations so retry backoff and cycle sleeps can be
// made instant in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func NewRealClock() Clock { return &RealClock{} }

func (RealClock) Now() time.Time        { return time.Now().UTC() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// MockClock implements Clock with controllable time for tests. Sleep
// advances the clock without blocking.
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock; a zero startTime means "now".
func NewMockClock(startTime time.Time) *MockClock {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return &MockClock{CurrentTime: startTime}
}

func (m *MockClock) Now() time.Time { return m.CurrentTime }

func (m *MockClock) Sleep(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// Advance moves the clock forward without a Sleep call.
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}
