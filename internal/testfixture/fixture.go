// Package testfixture builds small deterministic datasets for tests
package testfixture

import (
	"fmt"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
)

// Day returns a UTC midnight date
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Item builds one financial line item
func Item(company string, periodEnd, filing time.Time, item string, value float64) contracts.FinancialRecord {
	return contracts.FinancialRecord{
		CompanyID:  company,
		PeriodEnd:  periodEnd,
		FilingDate: filing,
		ItemName:   item,
		Value:      value,
	}
}

// Quote builds one market record
func Quote(date time.Time, company string, closeAdj, shares float64) contracts.MarketRecord {
	return contracts.MarketRecord{Date: date, CompanyID: company, CloseAdj: closeAdj, SharesOut: shares}
}

// QuarterEnds returns n quarter-end dates starting at the first quarter of year
func QuarterEnds(year, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		y := year + i/4
		m := time.Month((i%4+1)*3)
		out = append(out, time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC))
	}
	return out
}

// TradingDays returns every weekday in [from, to]
func TradingDays(from, to time.Time) []time.Time {
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}

// CompanyID formats the i-th synthetic company id
func CompanyID(i int) string {
	return fmt.Sprintf("C%03d", i)
}

// Synthetic builds a deterministic universe of n companies over the given
// number of calendar years starting 2010-01-01. Each company files quarterly
// "Gross Profit" and "Total Assets" 45 days after period end and trades every
// weekday.
func Synthetic(n, years int) ([]contracts.FinancialRecord, []contracts.MarketRecord) {
	start := Day(2010, 1, 1)
	end := Day(2010+years-1, 12, 31)
	quarters := QuarterEnds(2010, years*4)
	days := TradingDays(start, end)

	var financials []contracts.FinancialRecord
	var market []contracts.MarketRecord

	for i := 0; i < n; i++ {
		id := CompanyID(i)
		for q, pe := range quarters {
			filing := pe.AddDate(0, 0, 45)
			gp := float64(10 + (i*7+q*3)%23)
			ta := float64(200 + (i*13+q*5)%97)
			financials = append(financials,
				Item(id, pe, filing, contracts.ItemGrossProfit, gp),
				Item(id, pe, filing, contracts.ItemTotalAssets, ta),
			)
		}

		shares := float64(1000 + i*37)
		for k, d := range days {
			price := 10 + float64((i*11+k*3)%50)/2
			market = append(market, Quote(d, id, price, shares))
		}
	}

	return financials, market
}
