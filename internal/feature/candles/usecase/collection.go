package usecase

import (
	"context"
	"errors"

	"trademaster/internal/feature/candles/domain/entity"
)

// ErrCorpusNotFound is returned when a corpus ID is unknown or was evicted.
var ErrCorpusNotFound = errors.New("corpus not found")

// CorpusRepository keeps collected corpora in process memory.
type CorpusRepository interface {
	Save(corpus *entity.Corpus, report *entity.CollectReport)
	Find(id string) (*entity.Corpus, *entity.CollectReport, bool)
}

// CollectionUsecase runs collections against the session catalog and keeps the results.
type CollectionUsecase struct {
	catalog   InstrumentCatalog
	collector CorpusCollector
	repo      CorpusRepository
}

// NewCollectionUsecase creates a new CollectionUsecase.
func NewCollectionUsecase(catalog InstrumentCatalog, collector CorpusCollector, repo CorpusRepository) *CollectionUsecase {
	return &CollectionUsecase{catalog: catalog, collector: collector, repo: repo}
}

// Collect fetches the tickers and stores the resulting corpus, even a partial one.
func (u *CollectionUsecase) Collect(ctx context.Context, tickers []string, durationDays int, interval string) (*entity.Corpus, *entity.CollectReport, error) {
	catalog, err := u.catalog.Instruments(ctx)
	if err != nil {
		return nil, nil, err
	}
	corpus, report, err := u.collector.Collect(ctx, tickers, durationDays, interval, catalog)
	if corpus != nil && report != nil {
		u.repo.Save(corpus, report)
	}
	return corpus, report, err
}

// Corpus returns a stored corpus and its report.
func (u *CollectionUsecase) Corpus(id string) (*entity.Corpus, *entity.CollectReport, error) {
	c, r, ok := u.repo.Find(id)
	if !ok {
		return nil, nil, ErrCorpusNotFound
	}
	return c, r, nil
}
