package s0_data

import (
	"sort"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
)

// Calendar is the month-boundary index of the market's trading dates
// ⭐ SSOT: 월별 첫/마지막 거래일은 여기서만 계산
type Calendar struct {
	months []contracts.MonthBoundary
	index  map[int]int // monthKey → position in months
}

// NewCalendar groups distinct trading dates by (year, month) and keeps the
// first and last trading day of each month, sorted chronologically.
func NewCalendar(dates []time.Time) (*Calendar, error) {
	if len(dates) == 0 {
		return nil, contracts.NewDataError(contracts.StageData, "no trading dates to build the calendar from", nil)
	}

	byMonth := make(map[int]*contracts.MonthBoundary)
	for _, d := range dates {
		d = truncateDay(d)
		key := monthKey(d)

		mb, ok := byMonth[key]
		if !ok {
			byMonth[key] = &contracts.MonthBoundary{
				Year:             d.Year(),
				Month:            d.Month(),
				FirstTradingDate: d,
				LastTradingDate:  d,
			}
			continue
		}
		if d.Before(mb.FirstTradingDate) {
			mb.FirstTradingDate = d
		}
		if d.After(mb.LastTradingDate) {
			mb.LastTradingDate = d
		}
	}

	months := make([]contracts.MonthBoundary, 0, len(byMonth))
	for _, mb := range byMonth {
		months = append(months, *mb)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].FirstTradingDate.Before(months[j].FirstTradingDate)
	})

	index := make(map[int]int, len(months))
	for i, mb := range months {
		index[monthKey(mb.FirstTradingDate)] = i
	}

	return &Calendar{months: months, index: index}, nil
}

// Len returns the number of months in the calendar
func (c *Calendar) Len() int {
	return len(c.months)
}

// Months returns a copy of all month boundaries in chronological order
func (c *Calendar) Months() []contracts.MonthBoundary {
	out := make([]contracts.MonthBoundary, len(c.months))
	copy(out, c.months)
	return out
}

// FirstTradingDates returns the first trading date of every month
func (c *Calendar) FirstTradingDates() []time.Time {
	out := make([]time.Time, len(c.months))
	for i, mb := range c.months {
		out[i] = mb.FirstTradingDate
	}
	return out
}

// LastTradingDates returns the last trading date of every month
func (c *Calendar) LastTradingDates() []time.Time {
	out := make([]time.Time, len(c.months))
	for i, mb := range c.months {
		out[i] = mb.LastTradingDate
	}
	return out
}

// FirstYear returns the calendar year of the earliest month
func (c *Calendar) FirstYear() int {
	return c.months[0].Year
}

// MonthOf returns the boundary of the month containing date
func (c *Calendar) MonthOf(date time.Time) (contracts.MonthBoundary, bool) {
	i, ok := c.index[monthKey(date)]
	if !ok {
		return contracts.MonthBoundary{}, false
	}
	return c.months[i], true
}

// OpenDate returns the first trading date of the month after formation's month
func (c *Calendar) OpenDate(formation time.Time) (time.Time, error) {
	return c.nextFirstTradingDate(formation, "open")
}

// CloseDate returns the first trading date of the month after open's month
func (c *Calendar) CloseDate(open time.Time) (time.Time, error) {
	return c.nextFirstTradingDate(open, "close")
}

func (c *Calendar) nextFirstTradingDate(date time.Time, leg string) (time.Time, error) {
	i, ok := c.index[monthKey(date)]
	if !ok {
		return time.Time{}, contracts.NewLookupError(contracts.StageReturn, date, "", leg+" date: month not in trading calendar")
	}
	if i+1 >= len(c.months) {
		return time.Time{}, contracts.NewNoDataError(contracts.StageReturn, date, leg+" date: no subsequent trading month")
	}
	return c.months[i+1].FirstTradingDate, nil
}

func monthKey(d time.Time) int {
	return d.Year()*12 + int(d.Month()) - 1
}

// truncateDay drops the clock part and normalizes to UTC
func truncateDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
