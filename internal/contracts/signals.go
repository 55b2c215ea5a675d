package contracts

import "time"

// FactorScore is the GPR2M score of one company at one formation date
// ⭐ SSOT: S2 → S3 팩터 점수 전달 (생성 후 불변)
type FactorScore struct {
	CompanyID   string  `json:"company"`
	GrossProfit float64 `json:"gross_profit"` // 최근 4기 합계
	TotalAssets float64 `json:"total_assets"` // 최근 4기 평균
	MarketValue float64 `json:"market_value"`
	GPR2M       float64 `json:"gpr2m"`
}

// GPR returns gross profit over total assets
func (f FactorScore) GPR() float64 {
	return f.GrossProfit / f.TotalAssets
}

// SkipReason explains why a company has no score for a month
type SkipReason string

const (
	SkipNoMarketValue       SkipReason = "no_market_value"
	SkipInsufficientHistory SkipReason = "insufficient_history"
)

// FactorSet is the scored cross-section of one formation date
type FactorSet struct {
	Date    time.Time             `json:"date"`
	Scores  []FactorScore         `json:"scores"`  // gpr2m 내림차순
	Skipped map[string]SkipReason `json:"skipped"` // key: company id
}

// Count returns the number of scored companies
func (s *FactorSet) Count() int {
	return len(s.Scores)
}

// Get returns the score of a company
func (s *FactorSet) Get(companyID string) (*FactorScore, bool) {
	for i := range s.Scores {
		if s.Scores[i].CompanyID == companyID {
			return &s.Scores[i], true
		}
	}
	return nil, false
}

// SkipCounts aggregates skipped companies by reason
func (s *FactorSet) SkipCounts() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, reason := range s.Skipped {
		counts[reason]++
	}
	return counts
}
