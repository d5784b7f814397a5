// Command collect runs one collection batch over a ticker universe file and
// prints the per-ticker report (and optionally the training frame) as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"trademaster/internal/app/di"
	"trademaster/internal/feature/candles/adapters/universe"
	"trademaster/internal/feature/candles/transport/http/dto"
	candlesusecase "trademaster/internal/feature/candles/usecase"
	"trademaster/internal/platform/logging"
)

func main() {
	path := flag.String("universe", "universe.yaml", "ticker universe file")
	group := flag.String("group", "", "group to collect (default: all groups)")
	frame := flag.Bool("frame", false, "emit the training frame instead of the report")
	flag.Parse()

	logging.Setup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *path, *group, *frame); err != nil {
		slog.Error("collect failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, group string, emitFrame bool) error {
	u, err := universe.Load(path)
	if err != nil {
		return err
	}
	tickers, err := u.Tickers(group)
	if err != nil {
		return err
	}

	app, err := di.NewApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("failed to release resources", "error", err)
		}
	}()

	slog.Info("collect started", "group", group, "tickers", len(tickers), "duration_days", u.DurationDays, "interval", u.Interval)
	corpus, report, err := app.Collection.Collect(ctx, tickers, u.DurationDays, u.Interval)
	if corpus == nil {
		return err
	}
	if err != nil {
		// キャンセルされても収集済みの分は出力する
		slog.Warn("collect interrupted", "error", err, "collected", report.Collected())
	}
	for _, o := range report.Failed() {
		slog.Warn("ticker not collected", "ticker", o.Ticker, "status", o.Status, "attempts", o.Attempts, "error", o.Error)
	}
	slog.Info("collect finished", "collected", report.Collected(), "failed", len(report.Failed()), "size_mb", corpus.SizeMB())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if emitFrame {
		f := candlesusecase.FrameFromCorpus(tickers, corpus)
		return enc.Encode(dto.NewTrainingFrameResponse(f, report))
	}
	return enc.Encode(dto.NewCorpusResponse(corpus, report))
}
