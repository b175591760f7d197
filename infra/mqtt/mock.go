package mqtt

import (
	"sync"

	"github.com/greenfleet/greenfleet/core/planner"
)

// MockPublisher records published runs. It is used in tests and when the
// broker is disabled in development setups.
type MockPublisher struct {
	mu   sync.Mutex
	runs []planner.Run
	Err  error
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishRun records the run or returns Err.
func (m *MockPublisher) PublishRun(run planner.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.runs = append(m.runs, run)
	return nil
}

// Runs returns a copy of the recorded runs.
func (m *MockPublisher) Runs() []planner.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]planner.Run, len(m.runs))
	copy(out, m.runs)
	return out
}
