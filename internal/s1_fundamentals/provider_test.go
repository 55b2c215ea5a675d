package s1_fundamentals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/testfixture"
)

var day = testfixture.Day

type mapSource map[string][]contracts.FinancialRecord

func (m mapSource) Financials(id string) []contracts.FinancialRecord {
	return m[id]
}

const (
	gp = contracts.ItemGrossProfit
	ta = contracts.ItemTotalAssets
)

func TestFundamentalsAsOf_LatestFilingPerPeriod(t *testing.T) {
	pe := day(2010, 3, 31)
	src := mapSource{"A": {
		testfixture.Item("A", pe, day(2010, 5, 1), gp, 10),
		testfixture.Item("A", pe, day(2010, 5, 1), ta, 100),
		testfixture.Item("A", pe, day(2010, 8, 1), gp, 12), // restatement
		testfixture.Item("A", pe, day(2010, 8, 1), ta, 110),
	}}
	p := NewProvider(src, Config{})

	tests := []struct {
		name   string
		asOf   time.Time
		wantGP float64
		wantTA float64
	}{
		{"before restatement", day(2010, 6, 30), 10, 100},
		{"after restatement", day(2010, 8, 31), 12, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := p.FundamentalsAsOf("A", tt.asOf)
			require.Len(t, rows, 2)
			assert.Equal(t, []float64{tt.wantGP}, contracts.ItemValues(rows, gp))
			assert.Equal(t, []float64{tt.wantTA}, contracts.ItemValues(rows, ta))
		})
	}
}

func TestFundamentalsAsOf_NoLookAhead(t *testing.T) {
	financials, _ := testfixture.Synthetic(2, 3)
	src := mapSource{}
	for _, r := range financials {
		src[r.CompanyID] = append(src[r.CompanyID], r)
	}
	p := NewProvider(src, Config{WindowRows: 8})

	for _, asOf := range testfixture.TradingDays(day(2010, 1, 1), day(2012, 12, 31)) {
		for id := range src {
			rows := p.FundamentalsAsOf(id, asOf)
			assert.LessOrEqual(t, len(rows), 8)
			for _, r := range rows {
				assert.False(t, r.FilingDate.After(asOf), "filing %s after %s", r.FilingDate, asOf)
				assert.False(t, r.PeriodEnd.After(asOf))
			}
		}
	}
}

func TestFundamentalsAsOf_OrderingAndWindow(t *testing.T) {
	var records []contracts.FinancialRecord
	for i, pe := range testfixture.QuarterEnds(2010, 6) {
		f := pe.AddDate(0, 0, 30)
		records = append(records,
			testfixture.Item("A", pe, f, ta, float64(100+i)),
			testfixture.Item("A", pe, f, gp, float64(10+i)),
		)
	}
	p := NewProvider(mapSource{"A": records}, Config{WindowRows: 8})

	rows := p.FundamentalsAsOf("A", day(2012, 1, 1))
	require.Len(t, rows, 8)

	// 최신 기간(2011-06-30)부터 4개 기간
	assert.Equal(t, day(2011, 6, 30), rows[0].PeriodEnd)
	assert.Equal(t, day(2010, 9, 30), rows[7].PeriodEnd)
	for i := 0; i < len(rows); i += 2 {
		assert.Equal(t, gp, rows[i].ItemName)
		assert.Equal(t, ta, rows[i+1].ItemName)
	}
	assert.Equal(t, 4, contracts.CountItem(rows, gp))
	assert.Equal(t, []float64{15, 14, 13, 12}, contracts.ItemValues(rows, gp))
}

func TestFundamentalsAsOf_AveragesDuplicates(t *testing.T) {
	pe, f := day(2010, 3, 31), day(2010, 4, 30)
	p := NewProvider(mapSource{"A": {
		testfixture.Item("A", pe, f, gp, 10),
		testfixture.Item("A", pe, f, gp, 20),
	}}, Config{})

	rows := p.FundamentalsAsOf("A", day(2010, 5, 31))
	require.Len(t, rows, 1)
	assert.Equal(t, 15.0, rows[0].Value)
}

func TestFundamentalsAsOf_FutureFilingInvisible(t *testing.T) {
	p := NewProvider(mapSource{"A": {
		testfixture.Item("A", day(2010, 3, 31), day(2010, 5, 15), gp, 10),
	}}, Config{})

	assert.Empty(t, p.FundamentalsAsOf("A", day(2010, 4, 30)))
	assert.Empty(t, p.FundamentalsAsOf("unknown", day(2010, 4, 30)))
}
