// Package calendar holds the pure date arithmetic behind the picker views:
// month grids, weekday rotation, decade windows and clamped stepping.
//
// Weekday indexes follow the picker convention where 0 is Monday and 6 is Sunday.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-datepicker/internal/config"
)

// ErrInvalidDate is returned when a year/month/day triple names no real day.
var ErrInvalidDate = errors.New(config.ErrInvalidDate)

// Date is a calendar day without time or location, usable as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates the triple instead of letting time.Date normalize it.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if day < 1 || day > DaysIn(year, month) {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// DateOf drops the clock and location of t.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Format renders d with a Go time layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Weekday returns the Monday-based index (0-6) of the given day.
func Weekday(year int, month time.Month, day int) int {
	wd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % config.DaysPerWeek
}

func normalizeWeekday(firstWeekday int) int {
	return ((firstWeekday % config.DaysPerWeek) + config.DaysPerWeek) % config.DaysPerWeek
}

// MonthGrid lays the month out as weeks, one row per week, with 0 for
// cells that fall outside the month.
func MonthGrid(year int, month time.Month, firstWeekday int) [][]int {
	offset := (Weekday(year, month, 1) - normalizeWeekday(firstWeekday) + config.DaysPerWeek) % config.DaysPerWeek
	days := DaysIn(year, month)
	rows := (offset + days + config.DaysPerWeek - 1) / config.DaysPerWeek

	grid := make([][]int, rows)
	for row := range grid {
		week := make([]int, config.DaysPerWeek)
		for col := range week {
			day := row*config.DaysPerWeek + col - offset + 1
			if day >= 1 && day <= days {
				week[col] = day
			}
		}
		grid[row] = week
	}
	return grid
}

// WeekdayHeader rotates Monday-first names so that index 0 is firstWeekday.
func WeekdayHeader(firstWeekday int, names [config.DaysPerWeek]string) []string {
	start := normalizeWeekday(firstWeekday)
	header := make([]string, 0, config.DaysPerWeek)
	header = append(header, names[start:]...)
	header = append(header, names[:start]...)
	return header
}

// WeekdayAt maps a header column back to its Monday-based weekday index.
func WeekdayAt(firstWeekday, column int) int {
	return normalizeWeekday(firstWeekday + column)
}

// DecadeWindow returns the decade containing year, e.g. 2020-2029 for 2024.
func DecadeWindow(year int) (start, end int) {
	start = year - year%config.YearsPerDecade
	return start, start + config.YearsPerDecade - 1
}

// DecadeYears lists the years shown on the decade view. The window starts
// three years before the decade, shifted forward by start%4 when the decade
// does not begin on a leap year. Decades start on an even year, so the
// shift is 0 or 2 and the whole decade stays on screen.
func DecadeYears(year int) []int {
	start, _ := DecadeWindow(year)
	if !IsLeap(start) {
		start += start % 4
	}
	years := make([]int, config.DecadeYearCount)
	for i := range years {
		years[i] = start - config.DecadeLeadYears + i
	}
	return years
}

// YearRange is the inclusive span of years the picker may show.
type YearRange struct {
	Min int
	Max int
}

// NewYearRange centers a span of ±span years on the year of now.
func NewYearRange(now time.Time, span int) YearRange {
	if span < 0 {
		span = -span
	}
	return YearRange{Min: now.Year() - span, Max: now.Year() + span}
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Clamp saturates year into the range.
func (r YearRange) Clamp(year int) int {
	return min(max(year, r.Min), r.Max)
}

// StepMonth moves by delta months with year carry. Leaving the range
// saturates to January of the first year or December of the last year.
func StepMonth(year int, month time.Month, delta int, r YearRange) (int, time.Month) {
	idx := year*config.MonthsPerYear + int(month-1) + delta
	y := floorDiv(idx, config.MonthsPerYear)
	m := time.Month(idx-y*config.MonthsPerYear) + 1

	switch {
	case y < r.Min:
		return r.Min, time.January
	case y > r.Max:
		return r.Max, time.December
	}
	return y, m
}

// StepYear moves by delta years, clamped to the range.
func StepYear(year, delta int, r YearRange) int {
	return r.Clamp(year + delta)
}

// StepDecade moves by delta decades, clamped to the range.
func StepDecade(year, delta int, r YearRange) int {
	return r.Clamp(year + delta*config.YearsPerDecade)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
