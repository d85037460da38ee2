package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/macyb27/Aether-Trader-Mobile/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(22)

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func pct(v float64) string {
	s := fmt.Sprintf("%+.2f%%", v)
	if v < 0 {
		return lossStyle.Render(s)
	}
	return gainStyle.Render(s)
}

func line(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// renderSummary draws the end-of-run report.
func renderSummary(s *model.TrainingSummary) string {
	lines := []string{
		line("Symbol", s.Symbol),
		line("Run", s.RunID),
		line("Data points", fmt.Sprintf("%d (%s to %s)", s.DataPoints,
			s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"))),
		line("Episodes", fmt.Sprintf("%d", s.Episodes)),
		"",
		line("Average return", pct(s.AverageReturn)),
		line("Average win rate", fmt.Sprintf("%.1f%%", s.AverageWinRate)),
		line("Average trades", fmt.Sprintf("%.1f", s.AverageTrades)),
		line("Best episode return", pct(s.BestReturn)+fmt.Sprintf(" (#%d)", s.BestEpisode.Episode)),
	}
	title := titleStyle.Render(fmt.Sprintf("Training complete | %s", s.Timestamp.Format("2006-01-02 15:04")))
	return lipgloss.JoinVertical(lipgloss.Left, title, boxStyle.Render(strings.Join(lines, "\n")))
}
