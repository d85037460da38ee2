package trainer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/macyb27/Aether-Trader-Mobile/internal/calculator"
	"github.com/macyb27/Aether-Trader-Mobile/internal/collector"
	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
	"github.com/macyb27/Aether-Trader-Mobile/internal/notifier"
	"github.com/macyb27/Aether-Trader-Mobile/internal/recorder"
	"github.com/macyb27/Aether-Trader-Mobile/internal/simulator"
)

var (
	// ErrDataUnavailable means no usable history could be fetched.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidSymbol is returned for empty or malformed symbols.
	ErrInvalidSymbol = collector.ErrInvalidSymbol
)

// PersistError reports that a run completed but its summary could not be
// stored. Run returns it together with the summary.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "persist summary: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

// Notifier delivers a formatted summary. *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options tunes the episode aggregation.
type Options struct {
	Seed          int64
	Workers       int
	ProgressEvery int
}

// Trainer runs fetch, indicator pipeline, episodes and persistence for one symbol.
type Trainer struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Notifier  Notifier // optional
	Options   Options

	now func() time.Time
}

// New creates a Trainer. A nil recorder is replaced by a no-op one.
func New(col *collector.Collector, rec recorder.Recorder, n Notifier, opts Options) *Trainer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Trainer{
		Collector: col,
		Recorder:  rec,
		Notifier:  n,
		Options:   opts,
		now:       time.Now,
	}
}

// Run trains symbol over period for the given number of episodes.
//
// When the summary cannot be recorded the returned error is a *PersistError
// and the summary is still returned. Every other error comes with a nil summary.
func (t *Trainer) Run(ctx context.Context, symbol string, episodes int, period string) (*model.TrainingSummary, error) {
	if episodes < 1 {
		return nil, simulator.ErrInvalidEpisodes
	}
	sym, err := collector.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = collector.DefaultPeriod
	}
	if err := collector.ValidatePeriod(period); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("[INFO] training %s: %d episodes over %s", sym, episodes, period)
	series, err := t.Collector.Collect(sym, period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", sym, ErrDataUnavailable, err)
	}

	rows := calculator.ComputeIndicators(series.Bars)
	if len(rows) < 2 {
		log.Printf("[WARN] %s: only %d usable rows after indicator warm-up (%d bars), episodes will be flat",
			sym, len(rows), len(series.Bars))
	} else {
		log.Printf("[INFO] %s: %d usable rows (%s to %s)", sym, len(rows),
			rows[0].Time.Format("2006-01-02"), rows[len(rows)-1].Time.Format("2006-01-02"))
	}

	agg, err := simulator.Run(rows, simulator.Options{
		Episodes:      episodes,
		Seed:          t.Options.Seed,
		Workers:       t.Options.Workers,
		ProgressEvery: t.Options.ProgressEvery,
		OnProgress: func(p simulator.Progress) {
			log.Printf("[INFO] %s episode %d/%d | avg return %.2f%% | avg win rate %.1f%%",
				sym, p.Episode, p.Total, p.AvgReturnWindow, p.AvgWinRateWindow)
		},
	})
	if err != nil {
		return nil, err
	}

	summary := &model.TrainingSummary{
		RunID:          uuid.NewString(),
		Symbol:         sym,
		Period:         period,
		Episodes:       episodes,
		Timestamp:      t.now(),
		DataPoints:     len(rows),
		AverageReturn:  agg.AverageReturn,
		AverageWinRate: agg.AverageWinRate,
		AverageTrades:  agg.AverageTrades,
		BestReturn:     agg.BestReturn,
		BestEpisode:    agg.BestEpisode,
		AllEpisodes:    agg.Episodes,
	}
	if len(rows) > 0 {
		summary.StartDate = rows[0].Time
		summary.EndDate = rows[len(rows)-1].Time
	} else {
		summary.StartDate = series.Bars[0].Time
		summary.EndDate = series.Bars[len(series.Bars)-1].Time
	}

	log.Printf("[INFO] %s done: avg return %.2f%%, avg win rate %.1f%%, avg trades %.1f, best %.2f%% (episode %d)",
		sym, summary.AverageReturn, summary.AverageWinRate, summary.AverageTrades,
		summary.BestReturn, summary.BestEpisode.Episode)

	t.notify(ctx, summary)

	if err := t.Recorder.RecordSummary(summary); err != nil {
		log.Printf("[ERROR] record %s run %s: %v", sym, summary.RunID, err)
		return summary, &PersistError{Err: err}
	}
	return summary, nil
}

func (t *Trainer) notify(ctx context.Context, s *model.TrainingSummary) {
	if t.Notifier == nil {
		return
	}
	if err := t.Notifier.SendWithRetry(ctx, notifier.FormatTrainingSummary(s), 3); err != nil {
		log.Printf("[ERROR] send summary: %v", err)
	}
}
