package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"stonearchive/internal/domain"
)

// PhotographRepositoryMock is a testify-backed fake for service tests.
type PhotographRepositoryMock struct {
	mock.Mock
}

func (m *PhotographRepositoryMock) Create(ctx context.Context, photo *domain.Photograph, tagNames []string) error {
	args := m.Called(ctx, photo, tagNames)
	return args.Error(0)
}

func (m *PhotographRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photograph, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photograph), args.Error(1)
}

func (m *PhotographRepositoryMock) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PhotographRepositoryMock) Search(ctx context.Context, in domain.SearchPhotosInput) ([]domain.PhotoSummary, int64, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PhotoSummary), args.Get(1).(int64), args.Error(2)
}
