package contract

import (
	"context"

	"github.com/huangsam/adviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockResultSource is a mock implementation of ResultSource for testing.
type MockResultSource struct {
	mock.Mock
}

var _ ResultSource = &MockResultSource{}

// GetDetector mocks the GetDetector method.
func (m *MockResultSource) GetDetector(ctx context.Context, detectorID string) (schema.Detector, error) {
	args := m.Called(ctx, detectorID)
	return args.Get(0).(schema.Detector), args.Error(1)
}

// GetAnomalies mocks the GetAnomalies method.
func (m *MockResultSource) GetAnomalies(ctx context.Context, q schema.ResultQuery) ([]schema.AnomalyResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.AnomalyResult), args.Error(1)
}

// GetFeatureData mocks the GetFeatureData method.
func (m *MockResultSource) GetFeatureData(ctx context.Context, q schema.ResultQuery, feature string) ([]schema.FeatureResult, error) {
	args := m.Called(ctx, q, feature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.FeatureResult), args.Error(1)
}

// GetEntitySummaries mocks the GetEntitySummaries method.
func (m *MockResultSource) GetEntitySummaries(ctx context.Context, q schema.ResultQuery, bucketWidth int64) ([]schema.EntitySummary, error) {
	args := m.Called(ctx, q, bucketWidth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.EntitySummary), args.Error(1)
}

// GetCategoryValues mocks the GetCategoryValues method.
func (m *MockResultSource) GetCategoryValues(ctx context.Context, q schema.ResultQuery, field string) ([]string, error) {
	args := m.Called(ctx, q, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// GetStatus mocks the GetStatus method.
func (m *MockResultSource) GetStatus(ctx context.Context) (schema.SourceStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.SourceStatus), args.Error(1)
}

// Close mocks the Close method.
func (m *MockResultSource) Close() error {
	args := m.Called()
	return args.Error(0)
}
