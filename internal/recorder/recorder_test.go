package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

func sampleSummary(symbol string, ts time.Time) *model.TrainingSummary {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ep1 := model.EpisodeResult{
		Episode: 1, TotalTrades: 2, PortfolioValue: 11900, TotalReturn: 19, WinRate: 100,
		Trades: []model.Trade{
			{Type: model.TradeBuy, Price: 100, Date: day},
			{Type: model.TradeSell, Price: 120, Date: day.AddDate(0, 0, 5), PnL: 1900},
		},
	}
	ep2 := model.EpisodeResult{Episode: 2, PortfolioValue: 10000, Trades: []model.Trade{}}
	return &model.TrainingSummary{
		RunID:          "run-" + symbol + ts.Format("150405"),
		Symbol:         symbol,
		Period:         "2y",
		Episodes:       2,
		Timestamp:      ts,
		DataPoints:     120,
		StartDate:      day,
		EndDate:        day.AddDate(0, 4, 0),
		AverageReturn:  9.5,
		AverageWinRate: 50,
		AverageTrades:  1,
		BestReturn:     19,
		BestEpisode:    ep1,
		AllEpisodes:    []model.EpisodeResult{ep1, ep2},
	}
}

func TestSQLiteRecorder_LatestRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "trainer.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if _, err := r.LatestRun("AAPL"); !errors.Is(err, ErrNoRuns) {
		t.Fatalf("expected ErrNoRuns, got %v", err)
	}

	older := sampleSummary("AAPL", time.Unix(1700000000, 0))
	newer := sampleSummary("AAPL", time.Unix(1700003600, 0))
	newer.AverageReturn = 12.25
	other := sampleSummary("MSFT", time.Unix(1700007200, 0))
	for _, s := range []*model.TrainingSummary{older, newer, other} {
		if err := r.RecordSummary(s); err != nil {
			t.Fatalf("record %s: %v", s.RunID, err)
		}
	}

	got, err := r.LatestRun("AAPL")
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if got.RunID != newer.RunID || got.AverageReturn != 12.25 {
		t.Errorf("expected newest AAPL run, got %s (avg %f)", got.RunID, got.AverageReturn)
	}
	if !got.StartDate.Equal(newer.StartDate) || got.DataPoints != 120 {
		t.Errorf("run metadata mismatch: %+v", got)
	}
	if len(got.AllEpisodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(got.AllEpisodes))
	}
	best := got.BestEpisode
	if best.Episode != 1 || len(best.Trades) != 2 {
		t.Fatalf("unexpected best episode: %+v", best)
	}
	if best.Trades[0].Type != model.TradeBuy || best.Trades[1].PnL != 1900 {
		t.Errorf("trades not round-tripped in order: %+v", best.Trades)
	}
	if !best.Trades[1].Date.Equal(newer.BestEpisode.Trades[1].Date) {
		t.Errorf("trade date mismatch: %v", best.Trades[1].Date)
	}
	if got.AllEpisodes[1].Trades == nil {
		t.Error("expected empty, non-nil trade list for episode without trades")
	}
}

func TestSQLiteRecorder_AssignsRunID(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "trainer.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	s := sampleSummary("SPY", time.Now())
	s.RunID = ""
	if err := r.RecordSummary(s); err != nil {
		t.Fatalf("record: %v", err)
	}
	if s.RunID == "" {
		t.Fatal("expected a generated run id")
	}
	// Same run id twice violates the primary key and must leave no partial rows.
	if err := r.RecordSummary(s); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
	got, err := r.LatestRun("SPY")
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if len(got.AllEpisodes) != 2 {
		t.Errorf("expected 2 episodes after rolled back duplicate, got %d", len(got.AllEpisodes))
	}
}

func TestJSONFileRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "rl-training-results.json")
	r := NewJSONFileRecorder(path)
	s := sampleSummary("AAPL", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	if err := r.RecordSummary(s); err != nil {
		t.Fatalf("record: %v", err)
	}

	rep, err := LoadReport(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rep.Symbol != "AAPL" || rep.Episodes != 2 || !rep.TrainingDate.Equal(s.Timestamp) {
		t.Errorf("unexpected header: %+v", rep)
	}
	if rep.Metrics.AverageReturn != 9.5 || rep.Metrics.BestReturn != 19 {
		t.Errorf("unexpected metrics: %+v", rep.Metrics)
	}
	if rep.BestEpisode.Episode != 1 || len(rep.AllResults) != 2 {
		t.Errorf("unexpected episodes: best=%d all=%d", rep.BestEpisode.Episode, len(rep.AllResults))
	}
}

type failingRecorder struct{ err error }

func (f failingRecorder) RecordSummary(*model.TrainingSummary) error { return f.err }
func (f failingRecorder) Close() error                              { return nil }

func TestMultiRecorder_JoinsErrors(t *testing.T) {
	errA := errors.New("sink a")
	errB := errors.New("sink b")
	path := filepath.Join(t.TempDir(), "r.json")
	m := MultiRecorder{failingRecorder{errA}, NewJSONFileRecorder(path), failingRecorder{errB}}

	err := m.RecordSummary(sampleSummary("AAPL", time.Now()))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both sink errors, got %v", err)
	}
	if _, err := LoadReport(path); err != nil {
		t.Errorf("healthy sink should still be written: %v", err)
	}
	if err := (MultiRecorder{NewNoopRecorder()}).RecordSummary(&model.TrainingSummary{}); err != nil {
		t.Errorf("noop should not fail: %v", err)
	}
}
