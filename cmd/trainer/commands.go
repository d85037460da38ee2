package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/macyb27/Aether-Trader-Mobile/internal/calculator"
	"github.com/macyb27/Aether-Trader-Mobile/internal/collector"
	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
	"github.com/macyb27/Aether-Trader-Mobile/internal/recorder"
	"github.com/macyb27/Aether-Trader-Mobile/internal/scheduler"
	"github.com/macyb27/Aether-Trader-Mobile/internal/trainer"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "trainer",
		Short: "Rule-based episode backtester",
		Long: `trainer replays an RSI/MACD rule over daily price history for a number of
episodes and reports return, win rate and trade statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Configuration file path (default configs/config.yaml or $CONFIG_PATH)")

	rootCmd.AddCommand(newTrainCmd(&cfgPath))
	rootCmd.AddCommand(newFetchCmd(&cfgPath))
	rootCmd.AddCommand(newScheduleCmd(&cfgPath))
	rootCmd.AddCommand(newHistoryCmd(&cfgPath))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newTrainCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train SYMBOL [EPISODES]",
		Short: "Run the backtest episodes for a symbol",
		Example: `  trainer train AAPL
  trainer train msft 50 --period 1y --seed 42`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			episodes := cfg.Training.Episodes
			if len(args) > 1 {
				if episodes, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("parse episodes %q: %w", args[1], err)
				}
			}
			flags := cmd.Flags()
			period := cfg.DataSource.Period
			if flags.Changed("period") {
				period, _ = flags.GetString("period")
			}
			if flags.Changed("seed") {
				cfg.Training.Seed, _ = flags.GetInt64("seed")
			}
			if flags.Changed("workers") {
				cfg.Training.Workers, _ = flags.GetInt("workers")
			}
			jsonPath := cfg.Output.JSONPath
			if flags.Changed("json") {
				jsonPath, _ = flags.GetString("json")
			}

			// A sink that failed to open still lets the run proceed; the
			// failure is reported as a persistence error afterwards.
			rec, _, openErr := newRecorder(cfg, jsonPath)
			defer rec.Close()
			tr := newTrainer(cfg, rec, newTelegram(cfg))

			summary, err := tr.Run(cmd.Context(), args[0], episodes, period)
			if err == nil && openErr != nil {
				err = &trainer.PersistError{Err: openErr}
			}
			var pe *trainer.PersistError
			if errors.As(err, &pe) {
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
				return &exitError{code: 2, err: err}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().String("period", collector.DefaultPeriod, "History window (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	cmd.Flags().Int64("seed", 0, "Base seed for the sentiment noise (0 seeds from the clock)")
	cmd.Flags().Int("workers", 0, "Episodes to run in parallel (0 or 1 runs sequentially)")
	cmd.Flags().String("json", "", "Write the results document to this path")
	return cmd
}

func newFetchCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch SYMBOL [PERIOD] [INTERVAL]",
		Short: "Print historical bars as JSON",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, interval := collector.DefaultPeriod, "1d"
			if len(args) > 1 {
				period = args[1]
			}
			if len(args) > 2 {
				interval = args[2]
			}

			payload, err := func() (*collector.HistoryPayload, error) {
				cfg, err := loadConfig(*cfgPath)
				if err != nil {
					return nil, fmt.Errorf("load config: %w", err)
				}
				return collector.FetchPayload(newFetcher(cfg), args[0], period, interval)
			}()
			if err != nil {
				payload = collector.FailedPayload(err)
			} else {
				logSnapshot(payload)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(payload); encErr != nil {
				return encErr
			}
			if err != nil {
				return &exitError{code: 1, err: err}
			}
			return nil
		},
	}
}

func newScheduleCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Train the configured symbols on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rec, sr, err := newRecorder(cfg, cfg.Output.JSONPath)
			defer rec.Close()
			if err != nil {
				return &exitError{code: 2, err: fmt.Errorf("open recorder: %w", err)}
			}
			tn := newTelegram(cfg)
			tr := newTrainer(cfg, rec, tn)

			// Context for graceful shutdown
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, tr, cfg.Training.Symbols, cfg.Training.Episodes, cfg.DataSource.Period)
			if sr != nil {
				sched.History = sr
			}
			if err := sched.Register(cfg.Schedule.Cron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Println("[INFO] Telegram polling started")
			}

			if os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] RUN_ON_START enabled, training now")
				sched.RunAsync()
			}

			log.Printf("[INFO] scheduler running (%s) for %v. Press Ctrl+C to stop.", cfg.Schedule.Cron, cfg.Training.Symbols)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
			return nil
		},
	}
}

func newHistoryCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show the last recorded run of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			sym, err := collector.NormalizeSymbol(args[0])
			if err != nil {
				return err
			}
			sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer sr.Close()

			run, err := sr.LatestRun(sym)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(run))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trainer %s\n", version)
		},
	}
}

// logSnapshot logs the latest close and indicator values of fetched bars.
func logSnapshot(p *collector.HistoryPayload) {
	l, err := calculator.LatestOf(&model.PriceSeries{Symbol: p.Symbol, Bars: p.Data})
	if err != nil {
		log.Printf("[WARN] %s: no indicator snapshot: %v", p.Symbol, err)
		return
	}
	log.Printf("[INFO] %s: %d bars, last close %.2f, SMA%d %.2f, SMA%d %.2f, RSI(%d) %.1f",
		p.Symbol, p.DataPoints, l.Close, calculator.ShortSMAWindow, l.SMA20,
		calculator.LongSMAWindow, l.SMA50, calculator.RSIPeriod, l.RSI)
}
