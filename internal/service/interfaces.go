package service

import (
	"context"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// AdviceService runs one submission through the prediction service and
// assembles the result for display.
type AdviceService interface {
	Recommend(ctx context.Context, req contract.AdviceRequest) (*contract.Advice, error)
}

// HistoryService keeps the local record of successful submissions.
type HistoryService interface {
	Record(ctx context.Context, rec *domain.RecommendationRecord) error
	Recent(ctx context.Context, limit int) ([]*domain.RecommendationRecord, error)
	Get(ctx context.Context, id string) (*domain.RecommendationRecord, error)
}
