package s2_signals

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/s0_data"
	"github.com/wonny/gpr2m/internal/s1_fundamentals"
	"github.com/wonny/gpr2m/pkg/logger"
)

// B의 2010-09-30 Gross Profit 값이 비어 있음: 로드 시 제거되어 3개 기간만 남음
const gateFinancialCSV = `companyid,periodenddate,filingdate,dataitemname,dataitemvalue
A,2010-03-31,2011-01-15,Gross Profit,10
A,2010-06-30,2011-01-15,Gross Profit,10
A,2010-09-30,2011-01-15,Gross Profit,10
A,2010-12-31,2011-01-15,Gross Profit,10
A,2010-03-31,2011-01-15,Total Assets,100
A,2010-06-30,2011-01-15,Total Assets,100
A,2010-09-30,2011-01-15,Total Assets,100
A,2010-12-31,2011-01-15,Total Assets,100
B,2010-03-31,2011-01-15,Gross Profit,10
B,2010-06-30,2011-01-15,Gross Profit,10
B,2010-09-30,2011-01-15,Gross Profit,
B,2010-12-31,2011-01-15,Gross Profit,10
B,2010-03-31,2011-01-15,Total Assets,100
B,2010-06-30,2011-01-15,Total Assets,100
B,2010-09-30,2011-01-15,Total Assets,100
B,2010-12-31,2011-01-15,Total Assets,100
`

const gateMarketCSV = `date,companyid,price_close_adj,shares_out
2010-01-04,A,4,100
2011-01-31,A,4,100
2011-01-31,B,4,100
`

func TestScoreMonth_EmptyValueCellFailsGate(t *testing.T) {
	dir := t.TempDir()
	finPath := filepath.Join(dir, "financials.csv")
	mktPath := filepath.Join(dir, "market.csv")
	require.NoError(t, os.WriteFile(finPath, []byte(gateFinancialCSV), 0o644))
	require.NoError(t, os.WriteFile(mktPath, []byte(gateMarketCSV), 0o644))

	ds, err := s0_data.Load(context.Background(), s0_data.NewCSVSource(finPath, mktPath), logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Summary().DroppedRows)

	provider := s1_fundamentals.NewProvider(ds, s1_fundamentals.Config{})
	b := NewBuilder(provider, ds, ds.Calendar().FirstYear(), DefaultConfig(), logger.NewNop())

	set, err := b.ScoreMonth(context.Background(), day(2011, 1, 31), ds.Companies())
	require.NoError(t, err)

	a, ok := set.Get("A")
	require.True(t, ok)
	assert.InDelta(t, 0.001, a.GPR2M, 1e-15)

	// 빈 셀은 0으로 합산되지 않고 기간 수 부족으로 스킵
	_, ok = set.Get("B")
	assert.False(t, ok)
	assert.Equal(t, contracts.SkipInsufficientHistory, set.Skipped["B"])
}
