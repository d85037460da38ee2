package simulator

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
	"github.com/macyb27/Aether-Trader-Mobile/internal/strategy"
)

// ErrInvalidEpisodes is returned when fewer than one episode is requested.
var ErrInvalidEpisodes = errors.New("episode count must be at least 1")

// DefaultProgressEvery is the progress reporting interval in episodes.
const DefaultProgressEvery = 10

// Progress reports averages over the most recent window of episodes.
type Progress struct {
	Episode          int
	Total            int
	AvgReturnWindow  float64
	AvgWinRateWindow float64
}

// Options controls an aggregation run.
type Options struct {
	Episodes int
	// Seed is the base seed; episode k draws noise from Seed+k.
	// Zero seeds from the clock.
	Seed          int64
	Workers       int
	ProgressEvery int
	OnProgress    func(Progress)
	// Observer is called from worker goroutines when Workers > 1.
	Observer Observer
}

// Aggregate is the summary part computed by Run. Metadata such as the
// symbol and date range is filled in by the caller.
type Aggregate struct {
	AverageReturn  float64
	AverageWinRate float64
	AverageTrades  float64
	BestReturn     float64
	BestEpisode    model.EpisodeResult
	Episodes       []model.EpisodeResult
}

// Run replays the rule opts.Episodes times over rows and aggregates the
// results. Episodes are numbered from 1 and reported in that order.
func Run(rows []model.IndicatorRow, opts Options) (*Aggregate, error) {
	if opts.Episodes < 1 {
		return nil, ErrInvalidEpisodes
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var results []model.EpisodeResult
	if opts.Workers > 1 {
		results = runParallel(rows, opts, seed)
	} else {
		results = runSequential(rows, opts, seed)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Episode < results[j].Episode })

	agg := &Aggregate{Episodes: results}
	best := -1
	var sumReturn, sumWinRate, sumTrades float64
	for i, r := range results {
		sumReturn += r.TotalReturn
		sumWinRate += r.WinRate
		sumTrades += float64(r.TotalTrades)
		if best < 0 || r.TotalReturn > results[best].TotalReturn {
			best = i
		}
		reportProgress(results[:i+1], opts)
	}
	n := float64(len(results))
	agg.AverageReturn = sumReturn / n
	agg.AverageWinRate = sumWinRate / n
	agg.AverageTrades = sumTrades / n
	agg.BestEpisode = results[best]
	agg.BestReturn = results[best].TotalReturn
	return agg, nil
}

func runSequential(rows []model.IndicatorRow, opts Options, seed int64) []model.EpisodeResult {
	results := make([]model.EpisodeResult, 0, opts.Episodes)
	for k := 1; k <= opts.Episodes; k++ {
		results = append(results, RunEpisode(rows, k, strategy.NewNoise(seed+int64(k)), opts.Observer))
	}
	return results
}

// runParallel fans episodes out to a fixed pool of workers. Each episode
// owns its noise stream, so results match the sequential run.
func runParallel(rows []model.IndicatorRow, opts Options, seed int64) []model.EpisodeResult {
	jobs := make(chan int)
	out := make(chan model.EpisodeResult, opts.Episodes)

	workers := opts.Workers
	if workers > opts.Episodes {
		workers = opts.Episodes
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for k := range jobs {
				out <- RunEpisode(rows, k, strategy.NewNoise(seed+int64(k)), opts.Observer)
			}
		}()
	}
	for k := 1; k <= opts.Episodes; k++ {
		jobs <- k
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]model.EpisodeResult, 0, opts.Episodes)
	for r := range out {
		results = append(results, r)
	}
	return results
}

// reportProgress emits averages of the last window once the number of
// completed episodes reaches a multiple of the interval.
func reportProgress(done []model.EpisodeResult, opts Options) {
	if opts.OnProgress == nil {
		return
	}
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	if len(done)%every != 0 {
		return
	}
	window := done[len(done)-every:]
	var ret, win float64
	for _, r := range window {
		ret += r.TotalReturn
		win += r.WinRate
	}
	opts.OnProgress(Progress{
		Episode:          len(done),
		Total:            opts.Episodes,
		AvgReturnWindow:  ret / float64(len(window)),
		AvgWinRateWindow: win / float64(len(window)),
	})
}
