package repository

import (
	"context"

	"bookride/internal/domain"
)

// TripRecordRepository persists terminal trip outcomes for the history
// endpoints.
type TripRecordRepository interface {
	Create(ctx context.Context, record *domain.TripRecord) error
	GetByID(ctx context.Context, id string) (*domain.TripRecord, error)
	GetAll(ctx context.Context) ([]*domain.TripRecord, error)
}
