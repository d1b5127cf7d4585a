package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"stonearchive/internal/domain"
)

// PhotoServiceMock is a testify-backed fake for handler tests.
type PhotoServiceMock struct {
	mock.Mock
}

func (m *PhotoServiceMock) Ingest(ctx context.Context, input domain.IngestInput) (*domain.Photograph, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photograph), args.Error(1)
}

func (m *PhotoServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photograph, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photograph), args.Error(1)
}

func (m *PhotoServiceMock) GetOriginalBytes(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *PhotoServiceMock) GetDerivedAsset(ctx context.Context, id uuid.UUID, variant domain.DerivedVariant) ([]byte, error) {
	args := m.Called(ctx, id, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *PhotoServiceMock) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SearchServiceMock is a testify-backed fake for handler tests.
type SearchServiceMock struct {
	mock.Mock
}

func (m *SearchServiceMock) Search(ctx context.Context, in domain.SearchPhotosInput) (domain.PaginatedResponse[domain.PhotoSummary], error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.PaginatedResponse[domain.PhotoSummary]), args.Error(1)
}
