package contracts

import (
	"context"
	"time"
)

// DataSource loads both input datasets once per run (S0)
// ⭐ SSOT: S0 데이터 적재 인터페이스
type DataSource interface {
	LoadFinancials(ctx context.Context) ([]FinancialRecord, error)
	LoadMarket(ctx context.Context) ([]MarketRecord, error)
}

// FundamentalsProvider returns the point-in-time fundamentals window (S1)
type FundamentalsProvider interface {
	FundamentalsAsOf(companyID string, asOf time.Time) []FundamentalRow
}

// MarketLookup answers per-(date, company) market questions
type MarketLookup interface {
	MarketValue(date time.Time, companyID string) (float64, bool)
	ClosePrice(date time.Time, companyID string) (float64, bool)
}

// TradingCalendar maps formation dates onto the holding window
type TradingCalendar interface {
	OpenDate(formation time.Time) (time.Time, error)
	CloseDate(open time.Time) (time.Time, error)
}

// FactorScorer scores a month's cross-section (S2)
type FactorScorer interface {
	ScoreMonth(ctx context.Context, asOf time.Time, companies []string) (*FactorSet, error)
}

// PortfolioConstructor splits scores into long/short baskets (S3)
type PortfolioConstructor interface {
	Build(date time.Time, scores []FactorScore) *PortfolioPair
}

// ReturnCalculator measures the holding-period P&L of a basket pair (S4)
type ReturnCalculator interface {
	Calculate(ctx context.Context, pair *PortfolioPair) (*MonthlyReturn, error)
}
