package collector

import (
	"fmt"
	"log"
	"time"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// HistoryPayload is the JSON document printed by the fetch command.
type HistoryPayload struct {
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	Symbol       string        `json:"symbol,omitempty"`
	Period       string        `json:"period,omitempty"`
	Interval     string        `json:"interval,omitempty"`
	DataPoints   int           `json:"data_points"`
	StartDate    string        `json:"start_date,omitempty"`
	EndDate      string        `json:"end_date,omitempty"`
	CurrentPrice float64       `json:"current_price,omitempty"`
	MarketCap    int64         `json:"market_cap,omitempty"`
	CompanyName  string        `json:"company_name,omitempty"`
	Sector       string        `json:"sector,omitempty"`
	Industry     string        `json:"industry,omitempty"`
	Data         []model.OHLCV `json:"data,omitempty"`
}

// FailedPayload wraps an error in the payload shape.
func FailedPayload(err error) *HistoryPayload {
	return &HistoryPayload{Success: false, Error: err.Error()}
}

// FetchPayload fetches bars for symbol and wraps them in a HistoryPayload.
// Intervals other than 1d require an IntervalFetcher. Providers that are
// also InfoFetchers add ticker info; an info failure only drops those fields.
func FetchPayload(f Fetcher, symbol, period, interval string) (*HistoryPayload, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = DefaultPeriod
	}
	if interval == "" {
		interval = "1d"
	}

	var bars []model.OHLCV
	if interval == "1d" {
		bars, err = f.FetchHistory(sym, period)
	} else if inf, ok := f.(IntervalFetcher); ok {
		bars, err = inf.FetchInterval(sym, period, interval)
	} else {
		return nil, fmt.Errorf("provider %s does not support interval %q", f.Name(), interval)
	}
	if err != nil {
		return nil, err
	}
	bars = cleanBars(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("no data found for symbol %s: %w", sym, ErrNoData)
	}

	p := &HistoryPayload{
		Success:      true,
		Symbol:       sym,
		Period:       period,
		Interval:     interval,
		DataPoints:   len(bars),
		StartDate:    bars[0].Time.Format(time.RFC3339),
		EndDate:      bars[len(bars)-1].Time.Format(time.RFC3339),
		CurrentPrice: bars[len(bars)-1].Close,
		Data:         bars,
	}
	if inf, ok := f.(InfoFetcher); ok {
		info, err := inf.FetchInfo(sym)
		if err != nil {
			log.Printf("[WARN] %s: ticker info unavailable: %v", sym, err)
		} else {
			p.CompanyName = info.CompanyName
			p.MarketCap = info.MarketCap
			p.Sector = info.Sector
			p.Industry = info.Industry
			if info.CurrentPrice > 0 {
				p.CurrentPrice = info.CurrentPrice
			}
		}
	}
	return p, nil
}
