package contracts

import "time"

// DateLayout is the ISO date format used for every file name, CSV cell and log field
const DateLayout = "2006-01-02"

// FinancialRecord is one line item of a filed financial statement
// ⭐ SSOT: 재무제표 원천 레코드 (restatement 포함, 동일 기간 다중 filing 가능)
type FinancialRecord struct {
	CompanyID  string    `json:"company_id"`
	PeriodEnd  time.Time `json:"period_end"`
	FilingDate time.Time `json:"filing_date"`
	ItemName   string    `json:"item_name"`
	Value      float64   `json:"value"`
}

// MarketRecord is one company's end-of-day market data
type MarketRecord struct {
	Date      time.Time `json:"date"`
	CompanyID string    `json:"company_id"`
	CloseAdj  float64   `json:"close_adj"`  // 수정종가
	SharesOut float64   `json:"shares_out"` // 발행주식수
}

// MarketValue returns close price × shares outstanding
func (m MarketRecord) MarketValue() float64 {
	return m.CloseAdj * m.SharesOut
}

// MonthBoundary holds the first and last trading date of a calendar month
// ⭐ SSOT: S0 → S2/S4 월 경계 전달 (불변)
type MonthBoundary struct {
	Year             int        `json:"year"`
	Month            time.Month `json:"month"`
	FirstTradingDate time.Time  `json:"first_trading_date"`
	LastTradingDate  time.Time  `json:"last_trading_date"`
}

// Key returns the YYYY-MM key of the month
func (m MonthBoundary) Key() string {
	return m.FirstTradingDate.Format("2006-01")
}

// Contains reports whether date falls inside the boundary's calendar month
func (m MonthBoundary) Contains(date time.Time) bool {
	return date.Year() == m.Year && date.Month() == m.Month
}

// DatasetSummary describes the loaded input tables
type DatasetSummary struct {
	FinancialRows int            `json:"financial_rows"`
	MarketRows    int            `json:"market_rows"`
	DroppedRows   int            `json:"dropped_rows"` // 중복 제거된 행
	Companies     int            `json:"companies"`
	TradingDays   int            `json:"trading_days"`
	Months        int            `json:"months"`
	FirstDate     time.Time      `json:"first_date"`
	LastDate      time.Time      `json:"last_date"`
	Items         map[string]int `json:"items"` // 항목명별 행 수
}

// IsValid checks if both datasets carry rows
func (d *DatasetSummary) IsValid() bool {
	return d.FinancialRows > 0 && d.MarketRows > 0 && d.TradingDays > 0
}

// CoverageSnapshot is the per-month data coverage of the company universe
// ⭐ SSOT: S0 품질 스냅샷
type CoverageSnapshot struct {
	Date           time.Time          `json:"date"`
	TotalCompanies int                `json:"total_companies"`
	Coverage       map[string]float64 `json:"coverage"` // market_value, filings
	Score          float64            `json:"score"`
	Passed         bool               `json:"passed"`
}
