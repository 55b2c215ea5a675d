package s0_data

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/testfixture"
	"github.com/wonny/gpr2m/pkg/logger"
)

func TestNewDataset(t *testing.T) {
	financials := []contracts.FinancialRecord{
		testfixture.Item("B", day(2010, 3, 31), day(2010, 5, 1), contracts.ItemGrossProfit, 10),
		testfixture.Item("A", day(2010, 3, 31), day(2010, 5, 1), contracts.ItemGrossProfit, 20),
		testfixture.Item("A", day(2010, 3, 31), day(2010, 5, 1), contracts.ItemTotalAssets, 200),
	}
	market := []contracts.MarketRecord{
		testfixture.Quote(day(2010, 1, 29), "A", 10, 100),
		testfixture.Quote(day(2010, 1, 29), "Z", 5, 10), // 재무 데이터 없음
		testfixture.Quote(day(2010, 2, 1), "A", 11, 100),
	}

	ds, err := NewDataset(financials, market)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, ds.Companies())
	assert.Len(t, ds.Financials("A"), 2)
	assert.Nil(t, ds.Financials("Z"))

	mv, ok := ds.MarketValue(day(2010, 1, 29), "A")
	require.True(t, ok)
	assert.Equal(t, 1000.0, mv)

	px, ok := ds.ClosePrice(day(2010, 2, 1), "A")
	require.True(t, ok)
	assert.Equal(t, 11.0, px)

	_, ok = ds.MarketValue(day(2010, 2, 1), "B")
	assert.False(t, ok)

	s := ds.Summary()
	assert.True(t, s.IsValid())
	assert.Equal(t, 3, s.FinancialRows)
	assert.Equal(t, 3, s.MarketRows)
	assert.Equal(t, 2, s.Companies)
	assert.Equal(t, 2, s.TradingDays)
	assert.Equal(t, 2, s.Months)
	assert.Equal(t, day(2010, 1, 29), s.FirstDate)
	assert.Equal(t, day(2010, 2, 1), s.LastDate)
	assert.Equal(t, 2, s.Items[contracts.ItemGrossProfit])

	// Summary는 복사본
	s.Items["x"] = 1
	assert.NotContains(t, ds.Summary().Items, "x")
}

func TestNewDataset_Empty(t *testing.T) {
	_, err := NewDataset(nil, []contracts.MarketRecord{testfixture.Quote(day(2010, 1, 4), "A", 1, 1)})
	assert.True(t, errors.Is(err, contracts.ErrData))

	_, err = NewDataset([]contracts.FinancialRecord{{CompanyID: "A"}}, nil)
	assert.True(t, errors.Is(err, contracts.ErrData))
}

type memFinancials struct {
	records []contracts.FinancialRecord
	err     error
}

func (m *memFinancials) LoadAll(context.Context) ([]contracts.FinancialRecord, error) {
	return m.records, m.err
}

func (m *memFinancials) Count(context.Context) (int64, error) {
	return int64(len(m.records)), m.err
}

type memPrices struct {
	records []contracts.MarketRecord
	err     error
}

func (m *memPrices) LoadAll(context.Context) ([]contracts.MarketRecord, error) {
	return m.records, m.err
}

func (m *memPrices) Count(context.Context) (int64, error) {
	return int64(len(m.records)), m.err
}

func TestPostgresSource_StoredRows(t *testing.T) {
	financials, market := testfixture.Synthetic(3, 2)
	src := NewRepositorySource(&memFinancials{records: financials}, &memPrices{records: market})

	fin, mkt, err := src.StoredRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(len(financials)), fin)
	assert.Equal(t, int64(len(market)), mkt)

	boom := errors.New("relation does not exist")
	_, _, err = NewRepositorySource(&memFinancials{}, &memPrices{err: boom}).StoredRows(context.Background())
	assert.ErrorIs(t, err, contracts.ErrData)
	assert.ErrorIs(t, err, boom)
}

func TestLoad_RepositorySource(t *testing.T) {
	financials, market := testfixture.Synthetic(3, 2)
	src := NewRepositorySource(&memFinancials{records: financials}, &memPrices{records: market})

	ds, err := Load(context.Background(), src, logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 24, ds.Calendar().Len())
	assert.Equal(t, 3, ds.Summary().Companies)
	assert.Equal(t, 0, ds.Summary().DroppedRows)
}

func TestLoad_SourceError(t *testing.T) {
	boom := errors.New("connection refused")
	src := NewRepositorySource(&memFinancials{err: boom}, &memPrices{})

	_, err := Load(context.Background(), src, logger.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrData)
	assert.ErrorIs(t, err, boom)
}
