package strategy

import "github.com/macyb27/Aether-Trader-Mobile/internal/model"

// Rule holds the thresholds of the momentum + RSI decision rule.
type Rule struct {
	OversoldRSI   float64 // buy below, when MACD is positive
	OverboughtRSI float64 // sell above
}

// DefaultRule is the fixed policy replayed by every episode.
var DefaultRule = Rule{OversoldRSI: 30, OverboughtRSI: 70}

// Decide maps a decision state to an action using DefaultRule.
func Decide(s *model.DecisionState) model.Action {
	return DefaultRule.Decide(s)
}

// Decide maps a decision state to an action, in priority order:
// oversold with positive MACD buys, overbought or negative MACD sells,
// anything else holds. Sentiment and portfolio fields are not consulted.
func (r Rule) Decide(s *model.DecisionState) model.Action {
	switch {
	case s.RSI < r.OversoldRSI && s.MACD > 0:
		return model.ActionBuy
	case s.RSI > r.OverboughtRSI || s.MACD < 0:
		return model.ActionSell
	default:
		return model.ActionHold
	}
}
