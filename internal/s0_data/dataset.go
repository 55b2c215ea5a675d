package s0_data

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/pkg/logger"
)

// Dataset is the read-only pipeline context shared by every stage.
// It is built once per run; nothing mutates it afterwards.
// ⭐ SSOT: 재무/시장 테이블 + 캘린더 (전역 상태 금지)
type Dataset struct {
	financials map[string][]contracts.FinancialRecord // key: company id
	market     map[marketKey]contracts.MarketRecord
	companies  []string
	calendar   *Calendar
	summary    contracts.DatasetSummary
}

type marketKey struct {
	day     int64
	company string
}

func keyOf(date time.Time, companyID string) marketKey {
	return marketKey{day: truncateDay(date).Unix() / 86400, company: companyID}
}

// NewDataset indexes both tables and derives the trading calendar
func NewDataset(financials []contracts.FinancialRecord, market []contracts.MarketRecord) (*Dataset, error) {
	if len(financials) == 0 {
		return nil, contracts.NewDataError(contracts.StageData, "financial dataset is empty", nil)
	}
	if len(market) == 0 {
		return nil, contracts.NewDataError(contracts.StageData, "market dataset is empty", nil)
	}

	ds := &Dataset{
		financials: make(map[string][]contracts.FinancialRecord),
		market:     make(map[marketKey]contracts.MarketRecord, len(market)),
		summary: contracts.DatasetSummary{
			FinancialRows: len(financials),
			MarketRows:    len(market),
			Items:         make(map[string]int),
		},
	}

	for _, rec := range financials {
		ds.financials[rec.CompanyID] = append(ds.financials[rec.CompanyID], rec)
		ds.summary.Items[rec.ItemName]++
	}

	ds.companies = make([]string, 0, len(ds.financials))
	for id := range ds.financials {
		ds.companies = append(ds.companies, id)
	}
	sort.Strings(ds.companies)

	seenDays := make(map[int64]time.Time)
	for _, rec := range market {
		key := keyOf(rec.Date, rec.CompanyID)
		// 중복 시 첫 번째 레코드 유지
		if _, exists := ds.market[key]; !exists {
			ds.market[key] = rec
		}
		seenDays[key.day] = truncateDay(rec.Date)
	}

	dates := make([]time.Time, 0, len(seenDays))
	for _, d := range seenDays {
		dates = append(dates, d)
	}

	calendar, err := NewCalendar(dates)
	if err != nil {
		return nil, err
	}
	ds.calendar = calendar

	months := calendar.Months()
	ds.summary.Companies = len(ds.companies)
	ds.summary.TradingDays = len(dates)
	ds.summary.Months = len(months)
	ds.summary.FirstDate = months[0].FirstTradingDate
	ds.summary.LastDate = months[len(months)-1].LastTradingDate

	return ds, nil
}

// Load reads both datasets from src and builds the Dataset
func Load(ctx context.Context, src contracts.DataSource, log *logger.Logger) (*Dataset, error) {
	start := time.Now()

	financials, err := src.LoadFinancials(ctx)
	if err != nil {
		return nil, fmt.Errorf("load financials: %w", err)
	}

	market, err := src.LoadMarket(ctx)
	if err != nil {
		return nil, fmt.Errorf("load market: %w", err)
	}

	ds, err := NewDataset(financials, market)
	if err != nil {
		return nil, err
	}
	if dc, ok := src.(droppedCounter); ok {
		ds.summary.DroppedRows = dc.Dropped()
	}

	log.WithStage(contracts.StageData).WithFields(map[string]interface{}{
		"financial_rows": ds.summary.FinancialRows,
		"market_rows":    ds.summary.MarketRows,
		"companies":      ds.summary.Companies,
		"months":         ds.summary.Months,
		"dropped_rows":   ds.summary.DroppedRows,
		"first_date":     ds.summary.FirstDate.Format(contracts.DateLayout),
		"last_date":      ds.summary.LastDate.Format(contracts.DateLayout),
		"duration_ms":    time.Since(start).Milliseconds(),
	}).Info("Datasets loaded")

	return ds, nil
}

// Calendar returns the trading calendar
func (d *Dataset) Calendar() *Calendar {
	return d.calendar
}

// Companies returns every company present in the financial dataset, sorted
func (d *Dataset) Companies() []string {
	out := make([]string, len(d.companies))
	copy(out, d.companies)
	return out
}

// Financials returns the raw financial records of one company.
// The slice is shared; callers must not modify it.
func (d *Dataset) Financials(companyID string) []contracts.FinancialRecord {
	return d.financials[companyID]
}

// Market returns the market record of a company on a date
func (d *Dataset) Market(date time.Time, companyID string) (contracts.MarketRecord, bool) {
	rec, ok := d.market[keyOf(date, companyID)]
	return rec, ok
}

// MarketValue returns close × shares of a company on a date
func (d *Dataset) MarketValue(date time.Time, companyID string) (float64, bool) {
	rec, ok := d.Market(date, companyID)
	if !ok {
		return 0, false
	}
	return rec.MarketValue(), true
}

// ClosePrice returns the adjusted close of a company on a date
func (d *Dataset) ClosePrice(date time.Time, companyID string) (float64, bool) {
	rec, ok := d.Market(date, companyID)
	if !ok {
		return 0, false
	}
	return rec.CloseAdj, true
}

// Summary describes the loaded tables
func (d *Dataset) Summary() contracts.DatasetSummary {
	s := d.summary
	s.Items = make(map[string]int, len(d.summary.Items))
	for k, v := range d.summary.Items {
		s.Items[k] = v
	}
	return s
}

// droppedCounter is implemented by sources that discard rows while loading
type droppedCounter interface {
	Dropped() int
}
