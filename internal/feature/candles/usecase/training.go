package usecase

import (
	"context"
	"log/slog"

	"trademaster/internal/feature/candles/domain/entity"
	ientity "trademaster/internal/feature/instruments/domain/entity"
)

// InstrumentCatalog supplies the session's instrument list.
type InstrumentCatalog interface {
	Instruments(ctx context.Context) ([]ientity.Instrument, error)
}

// CorpusCollector is the part of Collector the training builder needs.
type CorpusCollector interface {
	Collect(ctx context.Context, tickers []string, durationDays int, interval string, catalog []ientity.Instrument) (*entity.Corpus, *entity.CollectReport, error)
}

// TrainingConfig sets the history window used for training frames.
type TrainingConfig struct {
	DurationDays int    // default 365
	Interval     string // default ONE_DAY
}

// TrainingUsecase builds supervised-learning frames on top of Collect.
type TrainingUsecase struct {
	catalog   InstrumentCatalog
	collector CorpusCollector
	cfg       TrainingConfig
}

// NewTrainingUsecase creates a new TrainingUsecase.
func NewTrainingUsecase(catalog InstrumentCatalog, collector CorpusCollector, cfg TrainingConfig) *TrainingUsecase {
	if cfg.DurationDays <= 0 {
		cfg.DurationDays = 365
	}
	if cfg.Interval == "" {
		cfg.Interval = string(entity.OneDay)
	}
	return &TrainingUsecase{catalog: catalog, collector: collector, cfg: cfg}
}

// BuildTrainingFrame collects tickers and emits one sample per ticker from its
// second-to-last candle. The label is 1 when that candle closed above its open.
// Tickers with fewer than 2 rows are skipped.
func (u *TrainingUsecase) BuildTrainingFrame(ctx context.Context, tickers []string) (*entity.TrainingFrame, *entity.CollectReport, error) {
	catalog, err := u.catalog.Instruments(ctx)
	if err != nil {
		return nil, nil, err
	}
	corpus, report, err := u.collector.Collect(ctx, tickers, u.cfg.DurationDays, u.cfg.Interval, catalog)
	if err != nil && corpus == nil {
		return nil, report, err
	}
	return FrameFromCorpus(tickers, corpus), report, err
}

// FrameFromCorpus lays out samples in request order for the tickers present in corpus.
func FrameFromCorpus(tickers []string, corpus *entity.Corpus) *entity.TrainingFrame {
	frame := &entity.TrainingFrame{Columns: entity.FeatureColumns}
	done := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		if _, ok := done[t]; ok {
			continue
		}
		done[t] = struct{}{}

		s, ok := corpus.Get(t)
		if !ok {
			continue
		}
		if s.Len() < 2 {
			slog.Warn("not enough rows for a training sample", "ticker", t, "rows", s.Len())
			continue
		}
		i := s.Len() - 2
		c := s.Candles[i]
		label := 0
		if c.Close > c.Open {
			label = 1
		}
		frame.Tickers = append(frame.Tickers, t)
		frame.Features = append(frame.Features, []float64{c.Open, c.High, c.Low, c.Close, c.Volume, s.Gap[i]})
		frame.Labels = append(frame.Labels, label)
		slog.Debug("training sample", "ticker", t, "label", label)
	}
	slog.Info("training frame built", "samples", frame.Len(), "requested", len(tickers))
	return frame
}
