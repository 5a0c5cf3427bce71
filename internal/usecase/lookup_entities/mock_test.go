package lookup_entities

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

// MockHostSource is a mock implementation of repository.HostSource
type MockHostSource struct {
	mock.Mock
}

func (m *MockHostSource) Fetch(ctx context.Context, e entity.Entity, apiKey string) (*entity.HostRecord, error) {
	args := m.Called(ctx, e, apiKey)
	var record *entity.HostRecord
	if args.Get(0) != nil {
		record = args.Get(0).(*entity.HostRecord)
	}
	return record, args.Error(1)
}

// MockDispatcher runs jobs inline unless the expectation returns an error
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, apiKey string, fn func(context.Context) error) error {
	args := m.Called(ctx, apiKey)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
