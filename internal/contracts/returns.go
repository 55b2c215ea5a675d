package contracts

import "time"

// MonthlyReturn is the holding-period P&L of one formation date's baskets.
// Contributions are raw price differences on one unit of each name.
// ⭐ SSOT: S4 수익률 결과
type MonthlyReturn struct {
	FormationDate time.Time `json:"formation_date"`
	OpenDate      time.Time `json:"open_date"`
	CloseDate     time.Time `json:"close_date"`
	LongReturn    float64   `json:"long_return"`
	ShortReturn   float64   `json:"short_return"`
	Total         float64   `json:"total"`
	LongPriced    int       `json:"long_priced"`
	ShortPriced   int       `json:"short_priced"`
	Unpriced      []string  `json:"unpriced,omitempty"` // 시가/종가 누락 종목
}
