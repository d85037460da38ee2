package main

import (
	"log"
	"os"

	"github.com/macyb27/Aether-Trader-Mobile/internal/collector"
	"github.com/macyb27/Aether-Trader-Mobile/internal/config"
	"github.com/macyb27/Aether-Trader-Mobile/internal/notifier"
	"github.com/macyb27/Aether-Trader-Mobile/internal/recorder"
	"github.com/macyb27/Aether-Trader-Mobile/internal/trainer"
)

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	var f collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderREST:
		f = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderFinanceGo:
		f = collector.NewFinanceGoFetcher()
	default:
		f = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", f.Name())
	return f
}

// newRecorder opens the SQLite and JSON sinks. The SQLite recorder is also
// returned on its own for history reads. When SQLite cannot be opened the
// remaining sinks are still returned together with the open error.
func newRecorder(cfg *config.Config, jsonPath string) (recorder.Recorder, *recorder.SQLiteRecorder, error) {
	var (
		sinks   recorder.MultiRecorder
		sr      *recorder.SQLiteRecorder
		openErr error
	)
	if cfg.Database.SQLitePath != "" {
		var err error
		sr, err = recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[ERROR] init sqlite recorder: %v", err)
			sr, openErr = nil, err
		} else {
			sinks = append(sinks, sr)
		}
	}
	if jsonPath != "" {
		sinks = append(sinks, recorder.NewJSONFileRecorder(jsonPath))
	}
	if len(sinks) == 0 {
		return recorder.NewNoopRecorder(), nil, openErr
	}
	return sinks, sr, openErr
}

func newTelegram(cfg *config.Config) *notifier.TelegramNotifier {
	if !cfg.TelegramEnabled() {
		return nil
	}
	return notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
}

func newTrainer(cfg *config.Config, rec recorder.Recorder, tn *notifier.TelegramNotifier) *trainer.Trainer {
	var n trainer.Notifier
	if tn != nil {
		n = tn
	}
	return trainer.New(collector.NewCollector(newFetcher(cfg)), rec, n, trainer.Options{
		Seed:          cfg.Training.Seed,
		Workers:       cfg.Training.Workers,
		ProgressEvery: cfg.Training.ProgressEvery,
	})
}
