package mock

import (
	"context"

	"github.com/poiesic/relevance/ai"
	"github.com/poiesic/relevance/core"
)

// MockQueryGenerator is a test double for ai.QueryGenerator.
// It allows custom behavior injection via function fields.
type MockQueryGenerator struct {
	// GenerateQueryFunc is called by GenerateQuery if set.
	// If nil, the request text passes through as the free-text query.
	GenerateQueryFunc func(ctx context.Context, kind core.EntityKind, text string) (*ai.GeneratedQuery, error)

	callCount int
}

// NewMockQueryGenerator creates a mock generator with pass-through behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockQueryGenerator() *MockQueryGenerator {
	return &MockQueryGenerator{}
}

// GenerateQuery returns the injected behavior's result, or passes the text
// through unchanged with no filter and no expression.
func (m *MockQueryGenerator) GenerateQuery(ctx context.Context, kind core.EntityKind, text string) (*ai.GeneratedQuery, error) {
	m.callCount++

	if m.GenerateQueryFunc != nil {
		return m.GenerateQueryFunc(ctx, kind, text)
	}

	return &ai.GeneratedQuery{Query: text}, nil
}

// CallCount returns the number of times GenerateQuery was called.
func (m *MockQueryGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockQueryGenerator) Reset() {
	m.callCount = 0
	m.GenerateQueryFunc = nil
}
