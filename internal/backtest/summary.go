package backtest

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/gpr2m/internal/contracts"
)

// Summary is the run-level tally of the monthly P&L series
type Summary struct {
	Months     int       `json:"months"` // 수익률이 있는 formation 월 수
	FirstDate  time.Time `json:"first_date"`
	LastDate   time.Time `json:"last_date"`
	Cumulative float64   `json:"cumulative"` // Σ 월별 total (가격 단위)
	Unpriced   int       `json:"unpriced"`
}

// Summarize tallies returns ordered by formation date
func Summarize(returns []*contracts.MonthlyReturn) Summary {
	var s Summary
	if len(returns) == 0 {
		return s
	}

	totals := make([]float64, len(returns))
	for i, r := range returns {
		totals[i] = r.Total
		s.Unpriced += len(r.Unpriced)
	}

	s.Months = len(returns)
	s.FirstDate = returns[0].FormationDate
	s.LastDate = returns[len(returns)-1].FormationDate
	s.Cumulative = floats.Sum(totals)

	return s
}
