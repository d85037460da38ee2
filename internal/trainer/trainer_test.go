package trainer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/macyb27/Aether-Trader-Mobile/internal/collector"
	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
	"github.com/macyb27/Aether-Trader-Mobile/internal/simulator"
)

type captureRecorder struct {
	got []*model.TrainingSummary
	err error
}

func (c *captureRecorder) RecordSummary(s *model.TrainingSummary) error {
	c.got = append(c.got, s)
	return c.err
}
func (c *captureRecorder) Close() error { return nil }

type fakeNotifier struct{ sent []string }

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

func newTrainer(f collector.Fetcher, rec *captureRecorder, n Notifier) *Trainer {
	tr := New(collector.NewCollector(f), rec, n, Options{Seed: 1, Workers: 2})
	tr.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return tr
}

func TestRun_Success(t *testing.T) {
	rec := &captureRecorder{}
	n := &fakeNotifier{}
	tr := newTrainer(&collector.MockFetcher{Price: 100}, rec, n)

	s, err := tr.Run(context.Background(), "aapl", 12, "1y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Symbol != "AAPL" || s.Period != "1y" || s.Episodes != 12 || s.RunID == "" {
		t.Errorf("unexpected summary header: %+v", s)
	}
	if len(s.AllEpisodes) != 12 || s.AllEpisodes[0].Episode != 1 || s.AllEpisodes[11].Episode != 12 {
		t.Fatalf("expected 12 ordered episodes, got %d", len(s.AllEpisodes))
	}
	if s.DataPoints == 0 || !s.StartDate.Before(s.EndDate) {
		t.Errorf("unexpected data range: %d points, %v to %v", s.DataPoints, s.StartDate, s.EndDate)
	}
	if len(rec.got) != 1 || rec.got[0] != s {
		t.Errorf("expected summary to be recorded once, got %d", len(rec.got))
	}
	if len(n.sent) != 1 {
		t.Errorf("expected one notification, got %d", len(n.sent))
	}
}

func TestRun_DataUnavailable(t *testing.T) {
	rec := &captureRecorder{}
	tr := newTrainer(&collector.MockFetcher{Err: collector.ErrNoData}, rec, nil)

	s, err := tr.Run(context.Background(), "ZZZZ", 5, "")
	if !errors.Is(err, ErrDataUnavailable) || !errors.Is(err, collector.ErrNoData) {
		t.Fatalf("expected ErrDataUnavailable wrapping ErrNoData, got %v", err)
	}
	if s != nil {
		t.Error("expected no summary")
	}
	if len(rec.got) != 0 {
		t.Error("nothing should be recorded")
	}
}

func TestRun_Validation(t *testing.T) {
	tr := newTrainer(&collector.MockFetcher{Price: 100}, &captureRecorder{}, nil)
	ctx := context.Background()

	if _, err := tr.Run(ctx, "  ", 5, "1y"); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}
	if _, err := tr.Run(ctx, "AAPL", 0, "1y"); !errors.Is(err, simulator.ErrInvalidEpisodes) {
		t.Errorf("expected ErrInvalidEpisodes, got %v", err)
	}
	if _, err := tr.Run(ctx, "AAPL", 5, "4y"); err == nil {
		t.Error("expected error for unsupported period")
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := tr.Run(cancelled, "AAPL", 5, "1y"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRun_PersistFailureKeepsSummary(t *testing.T) {
	diskFull := errors.New("disk full")
	rec := &captureRecorder{err: diskFull}
	tr := newTrainer(&collector.MockFetcher{Price: 100}, rec, nil)

	s, err := tr.Run(context.Background(), "MSFT", 3, "1y")
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PersistError, got %v", err)
	}
	if !errors.Is(err, diskFull) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if s == nil || len(s.AllEpisodes) != 3 {
		t.Fatal("expected summary alongside the persist error")
	}
}

func TestRun_InsufficientHistory(t *testing.T) {
	bars := make([]model.OHLCV, 30)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Close: 100 + float64(i%3), Volume: 1e6}
	}
	tr := newTrainer(&collector.MockFetcher{Bars: bars}, &captureRecorder{}, nil)

	s, err := tr.Run(context.Background(), "TINY", 4, "1y")
	if err != nil {
		t.Fatalf("short history should not fail: %v", err)
	}
	if s.DataPoints != 0 {
		t.Errorf("expected no usable rows, got %d", s.DataPoints)
	}
	if !s.StartDate.Equal(bars[0].Time) || !s.EndDate.Equal(bars[29].Time) {
		t.Errorf("expected raw bar range, got %v to %v", s.StartDate, s.EndDate)
	}
	for _, ep := range s.AllEpisodes {
		if ep.TotalReturn != 0 || ep.TotalTrades != 0 || ep.PortfolioValue != simulator.InitialCapital {
			t.Errorf("expected flat episode, got %+v", ep)
		}
	}
	if s.BestEpisode.Episode != 1 {
		t.Errorf("expected first episode to be best on ties, got %d", s.BestEpisode.Episode)
	}
}
