package collector

import (
	"errors"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// ErrNoData is returned when a provider has no bars for a symbol, typically
// because the symbol is unknown or delisted.
var ErrNoData = errors.New("no data found")

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchHistory returns daily bars covering period (yfinance grammar,
	// e.g. "2y"), ascending by time.
	FetchHistory(symbol, period string) ([]model.OHLCV, error)
	Name() string
}

// IntervalFetcher is implemented by providers that can serve bar sizes
// other than one day.
type IntervalFetcher interface {
	FetchInterval(symbol, period, interval string) ([]model.OHLCV, error)
}

// TickerInfo is descriptive data about a symbol. Zero fields are unknown.
type TickerInfo struct {
	CompanyName  string
	MarketCap    int64
	CurrentPrice float64
	Sector       string
	Industry     string
}

// InfoFetcher is implemented by providers that expose ticker info.
type InfoFetcher interface {
	FetchInfo(symbol string) (*TickerInfo, error)
}
