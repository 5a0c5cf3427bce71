package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/config"
	"github.com/EuricoCruz/shodan_enrichment/internal/usecase/lookup_entities"
)

// MockService is a mock implementation of lookupService
type MockService struct {
	mock.Mock
}

func (m *MockService) Lookup(ctx context.Context, entities []entity.Entity, options lookup_entities.Options) ([]entity.LookupResult, error) {
	args := m.Called(entities, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LookupResult), args.Error(1)
}

func (m *MockService) Close() error {
	return nil
}

func useService(t *testing.T, service lookupService) {
	t.Helper()
	previous := startService
	startService = func(*config.Config, logrus.Ext1FieldLogger) (lookupService, error) {
		return service, nil
	}
	t.Cleanup(func() { startService = previous })
}

func run(args ...string) (string, error) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookup_PrintsTags(t *testing.T) {
	// Arrange
	service := new(MockService)
	useService(t, service)
	google := entity.Entity{Value: "8.8.8.8", Type: entity.EntityTypeIPv4}
	private := entity.Entity{Value: "10.0.0.1", Type: entity.EntityTypeIPv4, IsPrivateIP: true}
	service.On("Lookup", []entity.Entity{google, private}, lookup_entities.Options{APIKey: "abc123"}).
		Return([]entity.LookupResult{{
			Entity: google,
			Data:   &entity.ResultData{Summary: []string{"Ports: 53, 443"}, Details: map[string]any{}},
		}}, nil)

	// Act
	out, err := run("lookup", "8.8.8.8", "10.0.0.1", "--api-key", "abc123")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "1 private or reserved address(es) skipped")
	assert.Contains(t, out, "8.8.8.8 (IPv4)")
	assert.Contains(t, out, "  - Ports: 53, 443")
}

func TestLookup_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("SHODAN_API_KEY", "from-env")
	service := new(MockService)
	useService(t, service)
	service.On("Lookup", mock.Anything, lookup_entities.Options{APIKey: "from-env"}).
		Return([]entity.LookupResult{entity.NewLimitReachedResult(entity.Entity{Value: "8.8.8.8", Type: entity.EntityTypeIPv4})}, nil)

	out, err := run("lookup", "8.8.8.8")

	require.NoError(t, err)
	assert.Contains(t, out, "search limit reached")
}

func TestLookup_JSON(t *testing.T) {
	service := new(MockService)
	useService(t, service)
	google := entity.Entity{Value: "8.8.8.8", Type: entity.EntityTypeIPv4}
	service.On("Lookup", mock.Anything, mock.Anything).Return([]entity.LookupResult{{Entity: google}}, nil)

	out, err := run("lookup", "8.8.8.8", "--api-key", "abc123", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, `[{"entity":{"value":"8.8.8.8","type":"IPv4","isPrivateIP":false},"data":null}]`, out)
}

func TestLookup_InvalidValue(t *testing.T) {
	useService(t, new(MockService))

	_, err := run("lookup", "not-an-ip", "--api-key", "abc123")

	assert.Error(t, err)
}

func TestLookup_BatchError(t *testing.T) {
	service := new(MockService)
	useService(t, service)
	service.On("Lookup", mock.Anything, mock.Anything).
		Return(nil, &entity.LookupError{Detail: entity.DetailUnauthorized, Status: 401})

	_, err := run("lookup", "8.8.8.8", "--api-key", "wrong")

	var lookupErr *entity.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, entity.DetailUnauthorized, lookupErr.Detail)
}

func TestValidate(t *testing.T) {
	t.Setenv("SHODAN_API_KEY", "")

	out, err := run("validate")
	assert.Error(t, err)
	assert.Contains(t, out, "apiKey: You must provide a Shodan API key")

	out, err = run("validate", "--api-key", "abc123")
	assert.NoError(t, err)
	assert.Contains(t, out, "Options are valid")
}

func TestDescriptor(t *testing.T) {
	out, err := run("descriptor")

	require.NoError(t, err)
	assert.Contains(t, out, `"acronym": "SHO"`)
}
