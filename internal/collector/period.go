package collector

import (
	"fmt"
	"time"
)

// DefaultPeriod is the history window used when none is given.
const DefaultPeriod = "2y"

type span struct{ years, months, days int }

var periods = map[string]span{
	"1d":  {0, 0, 1},
	"5d":  {0, 0, 5},
	"1mo": {0, 1, 0},
	"3mo": {0, 3, 0},
	"6mo": {0, 6, 0},
	"1y":  {1, 0, 0},
	"2y":  {2, 0, 0},
	"5y":  {5, 0, 0},
	"10y": {10, 0, 0},
}

// ValidatePeriod checks a period against the supported grammar:
// 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max.
func ValidatePeriod(period string) error {
	_, err := PeriodStart(period, time.Now())
	return err
}

// PeriodStart returns the first instant covered by period when it ends at now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), nil
	case "max":
		return time.Unix(0, 0).In(now.Location()), nil
	}
	s, ok := periods[period]
	if !ok {
		return time.Time{}, fmt.Errorf("unsupported period %q", period)
	}
	return now.AddDate(-s.years, -s.months, -s.days), nil
}
