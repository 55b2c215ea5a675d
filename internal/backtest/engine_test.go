package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/s0_data"
	"github.com/wonny/gpr2m/internal/testfixture"
	"github.com/wonny/gpr2m/pkg/logger"
)

var day = testfixture.Day

type priceKey struct {
	date    time.Time
	company string
}

type stubMarket map[priceKey]float64

func (s stubMarket) MarketValue(time.Time, string) (float64, bool) {
	return 0, false
}

func (s stubMarket) ClosePrice(date time.Time, id string) (float64, bool) {
	v, ok := s[priceKey{date, id}]
	return v, ok
}

func pairOf(date time.Time, long, short []string) *contracts.PortfolioPair {
	p := &contracts.PortfolioPair{FormationDate: date, LongSize: len(long), ShortSize: len(short)}
	p.Long.Side, p.Short.Side = contracts.SideLong, contracts.SideShort
	for _, id := range long {
		p.Long.Holdings = append(p.Long.Holdings, contracts.Holding{CompanyID: id})
	}
	for _, id := range short {
		p.Short.Holdings = append(p.Short.Holdings, contracts.Holding{CompanyID: id})
	}
	p.Qualified = len(long) + len(short)
	return p
}

func newEngine(t *testing.T, m stubMarket) *Engine {
	t.Helper()
	cal, err := s0_data.NewCalendar(testfixture.TradingDays(day(2011, 1, 1), day(2011, 4, 30)))
	require.NoError(t, err)
	return NewEngine(cal, m, logger.NewNop())
}

func TestCalculate(t *testing.T) {
	open, closeDate := day(2011, 2, 1), day(2011, 3, 1)
	m := stubMarket{
		{open, "L1"}: 10, {closeDate, "L1"}: 15,
		{open, "L2"}: 20, {closeDate, "L2"}: 18,
		{open, "S1"}: 30, {closeDate, "S1"}: 25,
		{open, "L3"}: 50, // 상장폐지: 종가 없음
		{closeDate, "S2"}: 7, // 시가 없음
	}

	r, err := newEngine(t, m).Calculate(context.Background(), pairOf(day(2011, 1, 31), []string{"L1", "L2", "L3"}, []string{"S1", "S2"}))
	require.NoError(t, err)

	assert.Equal(t, open, r.OpenDate)
	assert.Equal(t, closeDate, r.CloseDate)
	assert.Equal(t, 3.0, r.LongReturn)
	assert.Equal(t, 5.0, r.ShortReturn)
	assert.Equal(t, 8.0, r.Total)
	assert.Equal(t, 2, r.LongPriced)
	assert.Equal(t, 1, r.ShortPriced)
	assert.Equal(t, []string{"L3", "S2"}, r.Unpriced)
}

func TestCalculate_LastMonths(t *testing.T) {
	e := newEngine(t, stubMarket{})

	tests := []struct {
		name      string
		formation time.Time
		wantErr   error
	}{
		{"last month", day(2011, 4, 29), contracts.ErrNoData},
		{"second to last month", day(2011, 3, 31), contracts.ErrNoData},
		{"outside calendar", day(2012, 1, 31), contracts.ErrLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := e.Calculate(context.Background(), pairOf(tt.formation, []string{"A"}, nil))
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculate_EmptyBaskets(t *testing.T) {
	r, err := newEngine(t, stubMarket{}).Calculate(context.Background(), pairOf(day(2011, 1, 31), nil, nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Total)
	assert.Empty(t, r.Unpriced)
}

func TestSummarize(t *testing.T) {
	returns := []*contracts.MonthlyReturn{
		{FormationDate: day(2011, 1, 31), Total: 4},
		{FormationDate: day(2011, 2, 28), Total: -6, Unpriced: []string{"X"}},
		{FormationDate: day(2011, 3, 31), Total: 1},
		{FormationDate: day(2011, 4, 29), Total: 5},
	}

	s := Summarize(returns)

	assert.Equal(t, 4, s.Months)
	assert.Equal(t, day(2011, 1, 31), s.FirstDate)
	assert.Equal(t, day(2011, 4, 29), s.LastDate)
	assert.Equal(t, 4.0, s.Cumulative)
	assert.Equal(t, 1, s.Unpriced)

	assert.Equal(t, Summary{}, Summarize(nil))
}
