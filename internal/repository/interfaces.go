package repository

import (
	"context"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// RecommendationRepo stores successful submissions.
type RecommendationRepo interface {
	Create(ctx context.Context, rec *domain.RecommendationRecord) error
	GetByID(ctx context.Context, id string) (*domain.RecommendationRecord, error)
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.RecommendationRecord, error)
	Count(ctx context.Context) (int, error)
	// PruneKeepLatest deletes all but the newest keep records and returns
	// how many were removed.
	PruneKeepLatest(ctx context.Context, keep int) (int64, error)
}
