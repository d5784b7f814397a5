// Package adapters holds storage implementations for the candles feature.
package adapters

import (
	"log/slog"
	"sync"

	"trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/candles/usecase"
)

type storedCorpus struct {
	corpus *entity.Corpus
	report *entity.CollectReport
}

// CorpusMemory はプロセスメモリ上にコーパスを保持するCorpusRepository実装です。
// 上限を超えると最も古いコーパスから破棄します。
type CorpusMemory struct {
	limit int

	mu    sync.RWMutex
	items map[string]storedCorpus
	order []string
}

var _ usecase.CorpusRepository = (*CorpusMemory)(nil)

// NewCorpusMemory creates a store holding at most limit corpora (limit <= 0 means 16).
func NewCorpusMemory(limit int) *CorpusMemory {
	if limit <= 0 {
		limit = 16
	}
	return &CorpusMemory{limit: limit, items: make(map[string]storedCorpus)}
}

// Save stores a corpus under its ID.
func (m *CorpusMemory) Save(corpus *entity.Corpus, report *entity.CollectReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[corpus.ID]; !ok {
		m.order = append(m.order, corpus.ID)
	}
	m.items[corpus.ID] = storedCorpus{corpus: corpus, report: report}

	for len(m.order) > m.limit {
		oldest := m.order[0]
		m.order = m.order[1:]
		slog.Info("evicting corpus", "corpus_id", oldest, "size_mb", m.items[oldest].corpus.SizeMB())
		delete(m.items, oldest)
	}
}

// Find returns the corpus stored under id.
func (m *CorpusMemory) Find(id string) (*entity.Corpus, *entity.CollectReport, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[id]
	return s.corpus, s.report, ok
}

// Len returns the number of stored corpora.
func (m *CorpusMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
