package contracts

import "time"

// Line item names used by the GPR2M factor
const (
	ItemGrossProfit = "Gross Profit"
	ItemTotalAssets = "Total Assets"
)

// FundamentalRow is a point-in-time view of one line item for one reporting period
// ⭐ SSOT: S1 → S2 시점 재무 데이터 전달
type FundamentalRow struct {
	PeriodEnd  time.Time `json:"period_end"`
	FilingDate time.Time `json:"filing_date"`
	ItemName   string    `json:"item_name"`
	Value      float64   `json:"value"`
}

// CountItem returns how many rows carry the given item name
func CountItem(rows []FundamentalRow, item string) int {
	n := 0
	for _, r := range rows {
		if r.ItemName == item {
			n++
		}
	}
	return n
}

// ItemValues returns the values of every row carrying the given item name, in row order
func ItemValues(rows []FundamentalRow, item string) []float64 {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if r.ItemName == item {
			values = append(values, r.Value)
		}
	}
	return values
}
