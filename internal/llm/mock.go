package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockCall records one GenerateJSON invocation against a MockClient.
type MockCall struct {
	System      string
	User        string
	Temperature float32
	Tier        ModelTier
}

// MockClient is a scripted Client for tests and local debugging: it returns
// queued responses in order without calling an external model. Safe for
// concurrent use, since the orchestrator may run variants in parallel.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     []MockCall
}

// NewMockClient creates a mock that replies with the given responses in order.
// A nil entry in errs (or running past its end) means the call succeeds.
func NewMockClient(responses []string, errs []error) *MockClient {
	return &MockClient{responses: responses, errs: errs}
}

// GenerateJSON pops the next scripted response or error.
func (m *MockClient) GenerateJSON(_ context.Context, system, user string, temperature float32, tier ModelTier) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.calls)
	m.calls = append(m.calls, MockCall{System: system, User: user, Temperature: temperature, Tier: tier})

	if idx < len(m.errs) && m.errs[idx] != nil {
		return "", m.errs[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return "", fmt.Errorf("mock client: no scripted response for call %d", idx)
}

// GetModel returns a fixed placeholder model name.
func (m *MockClient) GetModel(tier ModelTier) string {
	return "mock-" + string(tier)
}

// Close is a no-op.
func (m *MockClient) Close() error {
	return nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}
