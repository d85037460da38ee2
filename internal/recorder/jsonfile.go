package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// Report is the JSON document written by JSONFileRecorder.
type Report struct {
	Symbol       string                `json:"symbol"`
	Episodes     int                   `json:"episodes"`
	TrainingDate time.Time             `json:"trainingDate"`
	Metrics      ReportMetrics         `json:"metrics"`
	BestEpisode  model.EpisodeResult   `json:"bestEpisode"`
	AllResults   []model.EpisodeResult `json:"allResults"`
}

type ReportMetrics struct {
	AverageReturn  float64 `json:"averageReturn"`
	AverageWinRate float64 `json:"averageWinRate"`
	AverageTrades  float64 `json:"averageTrades"`
	BestReturn     float64 `json:"bestReturn"`
}

// JSONFileRecorder overwrites a single JSON file with the latest summary.
type JSONFileRecorder struct {
	path string
	mu   sync.Mutex
}

func NewJSONFileRecorder(path string) *JSONFileRecorder {
	return &JSONFileRecorder{path: path}
}

func (r *JSONFileRecorder) RecordSummary(s *model.TrainingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := Report{
		Symbol:       s.Symbol,
		Episodes:     s.Episodes,
		TrainingDate: s.Timestamp,
		Metrics: ReportMetrics{
			AverageReturn:  s.AverageReturn,
			AverageWinRate: s.AverageWinRate,
			AverageTrades:  s.AverageTrades,
			BestReturn:     s.BestReturn,
		},
		BestEpisode: s.BestEpisode,
		AllResults:  s.AllEpisodes,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r *JSONFileRecorder) Close() error { return nil }

// LoadReport reads a report written by JSONFileRecorder.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
