package recorder

import (
	"errors"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// Recorder persists training summaries for later analysis.
type Recorder interface {
	RecordSummary(s *model.TrainingSummary) error
	Close() error
}

// MultiRecorder fans a summary out to several sinks. Every sink is
// attempted; the returned error joins the failures.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordSummary(s *model.TrainingSummary) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordSummary(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
