package ledger

import (
	"fmt"
	"time"
)

// =============================================================================
// YEAR MONTH - billing period (this IS a monthly billing system)
// =============================================================================

// YearMonth identifies one billing month. Month is 1-based calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth builds a billing period from 1-based calendar values.
func NewYearMonth(year, month int) YearMonth {
	return YearMonth{Year: year, Month: time.Month(month)}
}

// CurrentYearMonth returns the billing period containing now.
func CurrentYearMonth() YearMonth {
	now := time.Now()
	return YearMonth{Year: now.Year(), Month: now.Month()}
}

// Valid reports whether the period is a plausible calendar month.
func (ym YearMonth) Valid() bool {
	return ym.Month >= time.January && ym.Month <= time.December && ym.Year > 0
}

// Comparison
func (ym YearMonth) Equal(other YearMonth) bool {
	return ym.Year == other.Year && ym.Month == other.Month
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) After(other YearMonth) bool {
	return other.Before(ym)
}

// Bounds
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (ym YearMonth) End() time.Time {
	return ym.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
