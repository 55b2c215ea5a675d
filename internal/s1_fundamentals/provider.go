package s1_fundamentals

import (
	"sort"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
)

// DefaultWindowRows is the number of rows kept after point-in-time filtering
const DefaultWindowRows = 8

// Source returns the raw filings of one company
type Source interface {
	Financials(companyID string) []contracts.FinancialRecord
}

// Config holds the point-in-time window settings
type Config struct {
	WindowRows int `yaml:"window_rows"` // 최근 N행 (항목 2개 × 4분기 = 8)
}

// Provider returns what was publicly known about a company at a date
// ⭐ SSOT: S1 point-in-time 재무 (look-ahead 금지)
type Provider struct {
	src    Source
	config Config
}

// NewProvider creates a new point-in-time provider
func NewProvider(src Source, config Config) *Provider {
	if config.WindowRows <= 0 {
		config.WindowRows = DefaultWindowRows
	}
	return &Provider{
		src:    src,
		config: config,
	}
}

type rowKey struct {
	periodEnd time.Time
	item      string
}

type accumulator struct {
	sum   float64
	count int
}

// FundamentalsAsOf returns the company's trailing fundamentals known at asOf.
// Only the latest filing of each period survives, duplicates are averaged,
// periods run most recent first and items ascending by name inside a period.
func (p *Provider) FundamentalsAsOf(companyID string, asOf time.Time) []contracts.FundamentalRow {
	records := p.src.Financials(companyID)
	if len(records) == 0 {
		return nil
	}

	// 1. asOf 시점에 공개된 행만
	latest := make(map[time.Time]time.Time) // periodEnd → max filingDate
	for _, r := range records {
		if r.FilingDate.After(asOf) || r.PeriodEnd.After(asOf) {
			continue
		}
		if f, ok := latest[r.PeriodEnd]; !ok || r.FilingDate.After(f) {
			latest[r.PeriodEnd] = r.FilingDate
		}
	}
	if len(latest) == 0 {
		return nil
	}

	// 2. 기간별 최신 filing만 남기고 3. 중복 항목은 평균
	acc := make(map[rowKey]*accumulator)
	for _, r := range records {
		f, ok := latest[r.PeriodEnd]
		if !ok || !r.FilingDate.Equal(f) {
			continue
		}
		key := rowKey{periodEnd: r.PeriodEnd, item: r.ItemName}
		a, ok := acc[key]
		if !ok {
			a = &accumulator{}
			acc[key] = a
		}
		a.sum += r.Value
		a.count++
	}

	rows := make([]contracts.FundamentalRow, 0, len(acc))
	for key, a := range acc {
		rows = append(rows, contracts.FundamentalRow{
			PeriodEnd:  key.periodEnd,
			FilingDate: latest[key.periodEnd],
			ItemName:   key.item,
			Value:      a.sum / float64(a.count),
		})
	}

	// 4. 최신 기간 우선, 기간 내 항목명 오름차순
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].PeriodEnd.Equal(rows[j].PeriodEnd) {
			return rows[i].PeriodEnd.After(rows[j].PeriodEnd)
		}
		return rows[i].ItemName < rows[j].ItemName
	})

	// 5. 윈도우 적용
	if len(rows) > p.config.WindowRows {
		rows = rows[:p.config.WindowRows]
	}

	return rows
}
