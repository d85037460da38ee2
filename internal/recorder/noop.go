package recorder

import "github.com/macyb27/Aether-Trader-Mobile/internal/model"

// NoopRecorder is a no-op implementation used when no sink is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSummary(_ *model.TrainingSummary) error { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
