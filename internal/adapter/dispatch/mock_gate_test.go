package dispatch

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
)

// MockGate is a mock implementation of the DispatchGate interface for testing purposes
type MockGate struct {
	mock.Mock
}

// CheckAndConsume mocks the CheckAndConsume method from DispatchGate interface
func (m *MockGate) CheckAndConsume(ctx context.Context, key entity.LimiterKey, limit int, window time.Duration) (*repository.CheckResult, error) {
	args := m.Called(ctx, key, limit, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CheckResult), args.Error(1)
}

// Close mocks the Close method from DispatchGate interface
func (m *MockGate) Close() error {
	args := m.Called()
	return args.Error(0)
}
