package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

// FormatTrainingSummary formats a finished run into a Telegram message.
func FormatTrainingSummary(s *model.TrainingSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🤖 <b>Backtest %s</b> | %s\n\n", s.Symbol, s.Timestamp.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Data: %s bars (%s → %s), period %s\n",
		humanize.Comma(int64(s.DataPoints)),
		s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"), s.Period))
	b.WriteString(fmt.Sprintf("Episodes: %d\n\n", s.Episodes))

	b.WriteString("📈 <b>Averages</b>\n")
	b.WriteString(fmt.Sprintf("  Return: %s%%\n", signed(s.AverageReturn)))
	b.WriteString(fmt.Sprintf("  Win rate: %s%%\n", fixed(s.AverageWinRate)))
	b.WriteString(fmt.Sprintf("  Trades: %s\n\n", fixed(s.AverageTrades)))

	best := s.BestEpisode
	b.WriteString(fmt.Sprintf("🏆 <b>Best episode #%d</b>\n", best.Episode))
	b.WriteString(fmt.Sprintf("  Return: %s%%\n", signed(best.TotalReturn)))
	b.WriteString(fmt.Sprintf("  Portfolio: $%s\n", money(best.PortfolioValue)))
	b.WriteString(fmt.Sprintf("  Trades: %d | Win rate: %s%%\n", best.TotalTrades, fixed(best.WinRate)))
	return b.String()
}

// FormatRunHistory formats the latest stored run of a symbol as a reply.
func FormatRunHistory(s *model.TrainingSummary, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s</b> last trained %s\n",
		s.Symbol, humanize.RelTime(s.Timestamp, now, "ago", "from now")))
	b.WriteString(fmt.Sprintf("Run: <code>%s</code>\n", s.RunID))
	b.WriteString(fmt.Sprintf("Avg return %s%% | best %s%% (episode #%d)\n",
		signed(s.AverageReturn), signed(s.BestReturn), s.BestEpisode.Episode))
	return b.String()
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
