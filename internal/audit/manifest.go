package audit

import (
	"time"

	"github.com/wonny/gpr2m/internal/backtest"
	"github.com/wonny/gpr2m/internal/contracts"
)

// Manifest describes one pipeline run and everything it published
// ⭐ SSOT: S5 실행 기록 (manifest.json)
type Manifest struct {
	RunID      string                   `json:"run_id"`
	Mode       string                   `json:"mode"` // run | rebuild
	StrategyID string                   `json:"strategy_id"`
	Version    string                   `json:"version"`
	ConfigHash string                   `json:"config_hash"`
	CreatedAt  time.Time                `json:"created_at"`
	Dataset    contracts.DatasetSummary `json:"dataset"`
	Months     []MonthEntry             `json:"months"`
	Summary    backtest.Summary         `json:"summary"`
}

// MonthEntry is the outcome of one formation month
type MonthEntry struct {
	Date      string         `json:"date"`
	Scored    int            `json:"scored"`
	Skipped   map[string]int `json:"skipped,omitempty"`
	Qualified int            `json:"qualified"`
	Long      int            `json:"long"`
	Short     int            `json:"short"`
	Overlap   bool           `json:"overlap"`
	Shortfall bool           `json:"shortfall"`
	Total     *float64       `json:"total,omitempty"` // 마지막 달은 없음
	Unpriced  int            `json:"unpriced"`
}

// NewMonthEntry summarizes a month's factor set, baskets and (optional) return
func NewMonthEntry(set *contracts.FactorSet, pair *contracts.PortfolioPair, ret *contracts.MonthlyReturn) MonthEntry {
	entry := MonthEntry{
		Date:      set.Date.Format(contracts.DateLayout),
		Scored:    set.Count(),
		Qualified: pair.Qualified,
		Long:      pair.Long.Count(),
		Short:     pair.Short.Count(),
		Overlap:   pair.Overlap,
		Shortfall: pair.Shortfall(),
	}

	if counts := set.SkipCounts(); len(counts) > 0 {
		entry.Skipped = make(map[string]int, len(counts))
		for reason, n := range counts {
			entry.Skipped[string(reason)] = n
		}
	}

	if ret != nil {
		total := ret.Total
		entry.Total = &total
		entry.Unpriced = len(ret.Unpriced)
	}

	return entry
}
