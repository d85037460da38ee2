package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
	"github.com/macyb27/Aether-Trader-Mobile/internal/notifier"
	"github.com/macyb27/Aether-Trader-Mobile/internal/trainer"
)

// Runner trains one symbol. *trainer.Trainer satisfies it.
type Runner interface {
	Run(ctx context.Context, symbol string, episodes int, period string) (*model.TrainingSummary, error)
}

// HistoryReader returns the most recent stored run of a symbol.
type HistoryReader interface {
	LatestRun(symbol string) (*model.TrainingSummary, error)
}

// Scheduler trains the configured symbols on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	History  HistoryReader // optional, used by the /history command
	Symbols  []string
	Episodes int
	Period   string
	Ctx      context.Context

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup // chat-triggered runs
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner Runner, symbols []string, episodes int, period string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Symbols:  symbols,
		Episodes: episodes,
		Period:   period,
		Ctx:      ctx,
	}
}

// Register adds the training job under the given cron spec (with seconds).
func (s *Scheduler) Register(spec string) error {
	if len(s.Symbols) == 0 {
		return fmt.Errorf("register training task: no symbols configured")
	}
	if _, err := s.Cron.AddFunc(spec, func() { s.trainAll() }); err != nil {
		return fmt.Errorf("register training task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs, including
// ones started from chat, to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the training job immediately (for manual trigger / RUN_ON_START).
// It reports false when a run was already in progress.
func (s *Scheduler) RunNow() bool {
	return s.trainAll()
}

// acquire takes the single-run guard. Every training path goes through it.
func (s *Scheduler) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		log.Println("[WARN] previous training run still in progress, skipping")
		return false
	}
	s.running = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// startAsync runs fn in the background under the guard.
func (s *Scheduler) startAsync(fn func()) bool {
	if !s.acquire() {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release()
		fn()
	}()
	return true
}

// RunAsync starts the training job in the background. Stop waits for it.
// It reports false when a run was already in progress.
func (s *Scheduler) RunAsync() bool {
	return s.startAsync(s.trainSymbols)
}

func (s *Scheduler) trainAll() bool {
	if !s.acquire() {
		return false
	}
	defer s.release()
	s.trainSymbols()
	return true
}

func (s *Scheduler) trainSymbols() {
	log.Printf("[INFO] running scheduled training for %d symbols", len(s.Symbols))
	for _, sym := range s.Symbols {
		if s.Ctx.Err() != nil {
			log.Println("[INFO] training run cancelled")
			return
		}
		s.trainOne(sym, s.Episodes)
	}
}

func (s *Scheduler) trainOne(symbol string, episodes int) {
	start := time.Now()
	_, err := s.Runner.Run(s.Ctx, symbol, episodes, s.Period)
	var pe *trainer.PersistError
	switch {
	case err == nil:
		log.Printf("[INFO] %s trained in %s", symbol, time.Since(start).Round(time.Millisecond))
	case errors.As(err, &pe):
		log.Printf("[WARN] %s trained but not stored: %v", symbol, err)
	default:
		log.Printf("[ERROR] %s training failed: %v", symbol, err)
	}
}

const busyReply = "A training run is already in progress, try again later"

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch strings.ToLower(fields[0]) {
	case "/train":
		if len(fields) < 2 {
			if !s.RunAsync() {
				return busyReply
			}
			return "Training started for " + strings.Join(s.Symbols, ", ")
		}
		episodes := s.Episodes
		if len(fields) > 2 {
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 1 {
				return "Episodes must be a positive integer"
			}
			episodes = n
		}
		symbol := fields[1]
		if !s.startAsync(func() { s.trainOne(symbol, episodes) }) {
			return busyReply
		}
		return fmt.Sprintf("Training %s for %d episodes", strings.ToUpper(fields[1]), episodes)
	case "/history":
		if s.History == nil {
			return "History is not available"
		}
		if len(fields) < 2 {
			return "Usage: /history SYMBOL"
		}
		run, err := s.History.LatestRun(strings.ToUpper(fields[1]))
		if err != nil {
			return fmt.Sprintf("No history: %v", err)
		}
		return notifier.FormatRunHistory(run, time.Now())
	default:
		return "Commands:\n• /train [SYMBOL [EPISODES]]\n• /history SYMBOL"
	}
}
