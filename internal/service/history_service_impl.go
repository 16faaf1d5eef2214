package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/db"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/repository"
)

type historyService struct {
	records    repository.RecommendationRepo
	uow        db.UnitOfWork
	maxEntries int
	observer   UseCaseObserver
}

// NewHistoryService keeps at most maxEntries records; 0 keeps everything.
func NewHistoryService(
	records repository.RecommendationRepo,
	uow db.UnitOfWork,
	maxEntries int,
	observers ...UseCaseObserver,
) HistoryService {
	return &historyService{
		records:    records,
		uow:        uow,
		maxEntries: maxEntries,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Record inserts rec and prunes the oldest entries in one transaction.
func (s *historyService) Record(ctx context.Context, rec *domain.RecommendationRecord) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": rec.ID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "history.record",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteRecommendationRepo(tx)
		if err := repo.Create(ctx, rec); err != nil {
			return err
		}
		if s.maxEntries <= 0 {
			return nil
		}
		pruned, err := repo.PruneKeepLatest(ctx, s.maxEntries)
		if err != nil {
			return err
		}
		fields["pruned"] = pruned
		return nil
	})
}

func (s *historyService) Recent(ctx context.Context, limit int) (recs []*domain.RecommendationRecord, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "history.recent",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"limit": limit, "count": len(recs)},
			ReadOnly:  true,
		})
	}()

	recs, err = s.records.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return recs, nil
}

func (s *historyService) Get(ctx context.Context, id string) (*domain.RecommendationRecord, error) {
	return s.records.GetByID(ctx, id)
}
