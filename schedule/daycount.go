/*
daycount.go - Year-fraction conventions

PURPOSE:
  Computes the fraction of a year between two dates under the market
  day-count conventions. Consumed by valuation for accrual and
  discounting; the event scheduler never needs it.

CONVENTIONS:
  ACT/360        actual days / 360
  ACT/365F       actual days / 365 (fixed)
  30/360         30-day months, 360-day year (US bond basis)
  ACT/ACT ISDA   actual days split per calendar year over 365/366
  ACT/ACT ICMA   shares the ISDA implementation in this core

Year fractions are ratios, not money, so they stay float64; monetary
values elsewhere use decimals.
*/
package schedule

import (
	"strings"
	"time"
)

// =============================================================================
// DAY-COUNT CONVENTION
// =============================================================================

type DayCountConvention string

const (
	DayCountAct360     DayCountConvention = "ACT/360"
	DayCountAct365F    DayCountConvention = "ACT/365F"
	DayCount30360      DayCountConvention = "30/360"
	DayCountActActISDA DayCountConvention = "ACT/ACT-ISDA"
	DayCountActActICMA DayCountConvention = "ACT/ACT-ICMA"
)

// ParseDayCount maps a textual day-count name onto the typed constant.
func ParseDayCount(name string) (DayCountConvention, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ACT/360", "A/360", "ACTUAL/360":
		return DayCountAct360, nil
	case "ACT/365F", "ACT/365", "A/365F", "ACTUAL/365-FIXED":
		return DayCountAct365F, nil
	case "30/360", "30E/360", "30U/360":
		return DayCount30360, nil
	case "ACT/ACT-ISDA", "ACT/ACT", "ACTUAL/ACTUAL":
		return DayCountActActISDA, nil
	case "ACT/ACT-ICMA":
		return DayCountActActICMA, nil
	default:
		return "", &ConventionError{Kind: "day-count", Name: name}
	}
}

// YearFraction returns the year fraction from start to end under the
// convention. Negative when end precedes start (the fraction is signed,
// matching date subtraction).
func YearFraction(start, end TimePoint, convention DayCountConvention) (float64, error) {
	switch convention {
	case DayCountAct360:
		return float64(DaysBetween(start, end)) / 360.0, nil
	case DayCountAct365F:
		return float64(DaysBetween(start, end)) / 365.0, nil
	case DayCount30360:
		return thirty360(start, end), nil
	case DayCountActActISDA, DayCountActActICMA:
		// ICMA shares the ISDA split in this core.
		return actActISDA(start, end), nil
	default:
		return 0, &ConventionError{Kind: "day-count", Name: string(convention)}
	}
}

func thirty360(start, end TimePoint) float64 {
	d1, d2 := start.Day(), end.Day()
	if d1 == 31 {
		d1 = 30
	}
	if d2 == 31 && d1 == 30 {
		d2 = 30
	}
	days := 360*(end.Year()-start.Year()) +
		30*(int(end.Month())-int(start.Month())) +
		(d2 - d1)
	return float64(days) / 360.0
}

func actActISDA(start, end TimePoint) float64 {
	if end.Before(start) {
		return -actActISDA(end, start)
	}
	if start.Year() == end.Year() {
		return float64(DaysBetween(start, end)) / yearBasis(start.Year())
	}

	// Split at calendar-year boundaries.
	fraction := 0.0
	firstYearEnd := NewTimePoint(start.Year()+1, time.January, 1)
	fraction += float64(DaysBetween(start, firstYearEnd)) / yearBasis(start.Year())
	fraction += float64(end.Year() - start.Year() - 1)
	lastYearStart := NewTimePoint(end.Year(), time.January, 1)
	fraction += float64(DaysBetween(lastYearStart, end)) / yearBasis(end.Year())
	return fraction
}

func yearBasis(year int) float64 {
	if isLeapYear(year) {
		return 366.0
	}
	return 365.0
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
