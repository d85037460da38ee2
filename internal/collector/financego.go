package collector

import (
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// FinanceGoFetcher implements Fetcher with the piquette/finance-go chart
// iterator.
type FinanceGoFetcher struct {
	now func() time.Time
}

// NewFinanceGoFetcher creates a finance-go backed fetcher.
func NewFinanceGoFetcher() *FinanceGoFetcher {
	return &FinanceGoFetcher{now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchHistory(symbol, period string) ([]model.OHLCV, error) {
	end := f.now()
	start, err := PeriodStart(period, end)
	if err != nil {
		return nil, err
	}

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []model.OHLCV
	for iter.Next() {
		b := iter.Bar()
		bar := model.OHLCV{
			Time:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   toFloat64(b.Open),
			High:   toFloat64(b.High),
			Low:    toFloat64(b.Low),
			Close:  toFloat64(b.Close),
			Volume: float64(b.Volume),
		}
		if bar.Close == 0 {
			continue
		}
		bars = append(bars, bar)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("finance-go %s: %w", symbol, ErrNoData)
	}
	return bars, nil
}

// FetchInfo returns the name, market cap and live price of an equity.
// Yahoo's quote endpoint carries no sector or industry.
func (f *FinanceGoFetcher) FetchInfo(symbol string) (*TickerInfo, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go quote %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("finance-go quote %s: %w", symbol, ErrNoData)
	}
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	return &TickerInfo{
		CompanyName:  name,
		MarketCap:    q.MarketCap,
		CurrentPrice: q.RegularMarketPrice,
	}, nil
}

func toFloat64(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
