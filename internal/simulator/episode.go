package simulator

import (
	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
	"github.com/macyb27/Aether-Trader-Mobile/internal/strategy"
)

const (
	// InitialCapital is the starting portfolio value of every episode.
	InitialCapital = 10000.0
	// PositionFraction is the share of the portfolio committed on entry.
	PositionFraction = 0.95
)

// Observer receives every decision made during an episode.
type Observer func(i int, state model.DecisionState, action model.Action)

// episode holds the private mutable state of one replay.
type episode struct {
	portfolio  float64
	position   float64
	entryPrice float64
	trades     []model.Trade
}

func (e *episode) long() bool { return e.position > 0 }

func (e *episode) snapshot(price float64) strategy.Snapshot {
	snap := strategy.Snapshot{PortfolioValue: e.portfolio, PositionSize: e.position}
	if e.long() {
		snap.UnrealizedPnL = (price - e.entryPrice) * e.position
	}
	return snap
}

func (e *episode) buy(row *model.IndicatorRow) {
	if e.long() || row.Close <= 0 {
		return
	}
	e.position = e.portfolio * PositionFraction / row.Close
	e.entryPrice = row.Close
	e.trades = append(e.trades, model.Trade{Type: model.TradeBuy, Price: row.Close, Date: row.Time})
}

func (e *episode) sell(row *model.IndicatorRow) {
	if !e.long() {
		return
	}
	pnl := e.close(row.Close)
	e.trades = append(e.trades, model.Trade{Type: model.TradeSell, Price: row.Close, Date: row.Time, PnL: pnl})
}

// close realizes the open position and returns its pnl.
func (e *episode) close(price float64) float64 {
	pnl := (price - e.entryPrice) * e.position
	e.portfolio += pnl
	e.position = 0
	e.entryPrice = 0
	return pnl
}

// RunEpisode replays the fixed decision rule once over rows. The last row is
// only used to force-close an open position; that close adjusts the
// portfolio but is not recorded as a trade. Short or degenerate input yields
// a zero-trade result.
func RunEpisode(rows []model.IndicatorRow, number int, noise strategy.NoiseSource, observe Observer) model.EpisodeResult {
	e := &episode{portfolio: InitialCapital}

	for i := 0; i < len(rows)-1; i++ {
		row := &rows[i]
		prevClose := row.Close
		if i > 0 {
			prevClose = rows[i-1].Close
		}

		state := strategy.BuildState(row, prevClose, noise, e.snapshot(row.Close))
		action := strategy.Decide(&state)
		if observe != nil {
			observe(i, state, action)
		}

		switch action {
		case model.ActionBuy:
			e.buy(row)
		case model.ActionSell:
			e.sell(row)
		}
	}

	if e.long() {
		e.close(rows[len(rows)-1].Close)
	}

	return e.result(number)
}

func (e *episode) result(number int) model.EpisodeResult {
	trades := e.trades
	if trades == nil {
		trades = []model.Trade{}
	}
	res := model.EpisodeResult{
		Episode:        number,
		TotalTrades:    len(trades),
		PortfolioValue: e.portfolio,
		TotalReturn:    (e.portfolio - InitialCapital) / InitialCapital * 100,
		Trades:         trades,
	}
	if sells := res.SellCount(); sells > 0 {
		wins := 0
		for _, t := range trades {
			if t.Type == model.TradeSell && t.PnL > 0 {
				wins++
			}
		}
		res.WinRate = float64(wins) / float64(sells) * 100
	}
	return res
}
