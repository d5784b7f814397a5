package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/candles/usecase"
	ientity "trademaster/internal/feature/instruments/domain/entity"
)

type mockCorpusRepository struct {
	saved map[string]*entity.Corpus
}

func (m *mockCorpusRepository) Save(c *entity.Corpus, _ *entity.CollectReport) {
	if m.saved == nil {
		m.saved = map[string]*entity.Corpus{}
	}
	m.saved[c.ID] = c
}

func (m *mockCorpusRepository) Find(id string) (*entity.Corpus, *entity.CollectReport, bool) {
	c, ok := m.saved[id]
	return c, &entity.CollectReport{RunID: id}, ok
}

func TestCollectionUsecase(t *testing.T) {
	t.Parallel()

	repo := &mockCorpusRepository{}
	collector := &mockCorpusCollector{
		CollectFunc: func(_ context.Context, tickers []string, _ int, _ string, catalog []ientity.Instrument) (*entity.Corpus, *entity.CollectReport, error) {
			assert.Equal(t, testCatalog, catalog)
			return entity.NewCorpus("run-1"), &entity.CollectReport{RunID: "run-1"}, nil
		},
	}
	uc := usecase.NewCollectionUsecase(&mockCatalog{}, collector, repo)

	c, _, err := uc.Collect(context.Background(), []string{"INFY"}, 30, "ONE_DAY")
	require.NoError(t, err)
	assert.Equal(t, "run-1", c.ID)

	got, _, err := uc.Corpus("run-1")
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, _, err = uc.Corpus("missing")
	assert.ErrorIs(t, err, usecase.ErrCorpusNotFound)
}
