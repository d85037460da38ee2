package model

import "time"

// Action is the output of the decision rule for one bar.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// TradeType distinguishes entries from exits.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// Trade is a recorded simulated execution. PnL is only meaningful for sells.
type Trade struct {
	Type  TradeType `json:"type"`
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
	PnL   float64   `json:"pnl,omitempty"`
}

// EpisodeResult is the outcome of one replay of the decision rule.
type EpisodeResult struct {
	Episode        int     `json:"episode"`
	TotalTrades    int     `json:"totalTrades"`
	PortfolioValue float64 `json:"portfolioValue"`
	TotalReturn    float64 `json:"totalReturn"` // percent
	WinRate        float64 `json:"winRate"`     // percent, 0..100
	Trades         []Trade `json:"trades"`
}

// SellCount returns the number of closing trades in the episode.
func (r *EpisodeResult) SellCount() int {
	n := 0
	for _, t := range r.Trades {
		if t.Type == TradeSell {
			n++
		}
	}
	return n
}

// TrainingSummary aggregates all episodes of one run.
type TrainingSummary struct {
	RunID          string          `json:"runId"`
	Symbol         string          `json:"symbol"`
	Period         string          `json:"period"`
	Episodes       int             `json:"episodes"`
	Timestamp      time.Time       `json:"trainingDate"`
	DataPoints     int             `json:"dataPoints"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	AverageReturn  float64         `json:"averageReturn"`
	AverageWinRate float64         `json:"averageWinRate"`
	AverageTrades  float64         `json:"averageTrades"`
	BestReturn     float64         `json:"bestReturn"`
	BestEpisode    EpisodeResult   `json:"bestEpisode"`
	AllEpisodes    []EpisodeResult `json:"allResults"`
}
