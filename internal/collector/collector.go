package collector

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// ErrInvalidSymbol is returned for empty or malformed symbols.
var ErrInvalidSymbol = errors.New("invalid symbol")

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.^=\-]{1,20}$`)

// NormalizeSymbol trims and upper-cases symbol and checks its characters.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ string, period string) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	now := time.Now()
	start, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}
	days := int(now.Sub(start).Hours() / 24)
	return generateMockBars(m.Price, days*252/365), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector fetches and cleans price history.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the daily history of symbol over period. The returned
// series is ascending with unique dates. An empty result is ErrNoData.
func (c *Collector) Collect(symbol, period string) (*model.PriceSeries, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = DefaultPeriod
	}
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}

	bars, err := c.Fetcher.FetchHistory(sym, period)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	bars = cleanBars(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch history %s: %w", sym, ErrNoData)
	}

	log.Printf("[INFO] %s: fetched %d bars from %s (%s to %s)", sym, len(bars), c.Fetcher.Name(),
		bars[0].Time.Format("2006-01-02"), bars[len(bars)-1].Time.Format("2006-01-02"))

	return &model.PriceSeries{
		Symbol:    sym,
		Period:    period,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

// cleanBars returns a sorted copy without zero-time bars and with one bar
// per timestamp (the last one seen wins).
func cleanBars(in []model.OHLCV) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(in))
	for _, b := range in {
		if b.Time.IsZero() {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	dedup := out[:0]
	for _, b := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Time.Equal(b.Time) {
			dedup[n-1] = b
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}
