package mockrepository

import (
	"context"

	"statbot/internal/model"
	"statbot/internal/repository"

	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.ModerationRepository = &Repository{}

func (m *Repository) Create(ctx context.Context, event model.ModerationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Repository) CreateBatch(ctx context.Context, events []model.ModerationEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *Repository) FetchSummary(ctx context.Context, filter model.ModerationFilter) ([]model.ModerationSummary, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.ModerationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}
