package quality

import (
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
)

// Coverage keys
const (
	CoverageMarketValue = "market_value"
	CoverageFilings     = "filings"
)

// Source is the slice of the dataset the gate inspects
type Source interface {
	Companies() []string
	MarketValue(date time.Time, companyID string) (float64, bool)
	Financials(companyID string) []contracts.FinancialRecord
}

// Gate measures per-month data coverage of the company universe
type Gate struct {
	src    Source
	config Config
}

// Config holds the coverage thresholds a month must reach to pass.
// Zero thresholds pass every month.
type Config struct {
	MinMarketValueCoverage float64
	MinFilingCoverage      float64
}

// NewGate creates a new Gate instance
func NewGate(src Source, config Config) *Gate {
	return &Gate{
		src:    src,
		config: config,
	}
}

// Check measures coverage at one formation date
// ⭐ SSOT: S0 → S2 품질 검증
func (g *Gate) Check(date time.Time) *contracts.CoverageSnapshot {
	companies := g.src.Companies()
	snapshot := &contracts.CoverageSnapshot{
		Date:           date,
		TotalCompanies: len(companies),
		Coverage:       make(map[string]float64),
	}
	if len(companies) == 0 {
		return snapshot
	}

	var priced, filed int
	for _, id := range companies {
		if _, ok := g.src.MarketValue(date, id); ok {
			priced++
		}
		if hasFilingBy(g.src.Financials(id), date) {
			filed++
		}
	}

	total := float64(len(companies))
	snapshot.Coverage[CoverageMarketValue] = float64(priced) / total
	snapshot.Coverage[CoverageFilings] = float64(filed) / total
	snapshot.Score = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = snapshot.Coverage[CoverageMarketValue] >= g.config.MinMarketValueCoverage &&
		snapshot.Coverage[CoverageFilings] >= g.config.MinFilingCoverage

	return snapshot
}

// CheckAll runs Check for every date in order
func (g *Gate) CheckAll(dates []time.Time) []*contracts.CoverageSnapshot {
	out := make([]*contracts.CoverageSnapshot, 0, len(dates))
	for _, d := range dates {
		out = append(out, g.Check(d))
	}
	return out
}

func hasFilingBy(records []contracts.FinancialRecord, date time.Time) bool {
	for _, r := range records {
		if !r.FilingDate.After(date) {
			return true
		}
	}
	return false
}

// calculateScore calculates overall quality score using weighted average
func (g *Gate) calculateScore(coverage map[string]float64) float64 {
	// 가중치 (합계 = 1.0)
	weights := map[string]float64{
		CoverageMarketValue: 0.5, // 시가총액 (없으면 스킵)
		CoverageFilings:     0.5, // 재무제표
	}

	score := 0.0
	for key, weight := range weights {
		if cov, exists := coverage[key]; exists {
			score += cov * weight
		}
	}

	return score
}
