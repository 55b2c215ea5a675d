package backtest

import (
	"context"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/pkg/logger"
)

// Engine measures the one-month holding P&L of a formation date's baskets
// ⭐ SSOT: S4 수익률 계산은 여기서만
type Engine struct {
	calendar contracts.TradingCalendar
	market   contracts.MarketLookup
	logger   *logger.Logger
}

// NewEngine creates a new return engine
func NewEngine(
	calendar contracts.TradingCalendar,
	market contracts.MarketLookup,
	logger *logger.Logger,
) *Engine {
	return &Engine{
		calendar: calendar,
		market:   market,
		logger:   logger,
	}
}

// Calculate opens both baskets on the first trading day of the next month and
// closes them on the first trading day of the month after. Long names earn
// close − open, short names open − close, one unit each. Names missing either
// price are left out and listed in Unpriced. The last month has no close and
// yields a NoData error.
func (e *Engine) Calculate(ctx context.Context, pair *contracts.PortfolioPair) (*contracts.MonthlyReturn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	open, err := e.calendar.OpenDate(pair.FormationDate)
	if err != nil {
		return nil, err
	}
	closeDate, err := e.calendar.CloseDate(open)
	if err != nil {
		return nil, err
	}

	result := &contracts.MonthlyReturn{
		FormationDate: pair.FormationDate,
		OpenDate:      open,
		CloseDate:     closeDate,
	}

	var longPnL, shortPnL []float64
	for _, id := range pair.Long.Companies() {
		openPx, closePx, ok := e.prices(id, open, closeDate)
		if !ok {
			result.Unpriced = append(result.Unpriced, id)
			continue
		}
		longPnL = append(longPnL, closePx-openPx) // 매수 후 매도
	}
	for _, id := range pair.Short.Companies() {
		openPx, closePx, ok := e.prices(id, open, closeDate)
		if !ok {
			result.Unpriced = append(result.Unpriced, id)
			continue
		}
		shortPnL = append(shortPnL, openPx-closePx) // 공매도 후 환매
	}

	result.LongReturn = floats.Sum(longPnL)
	result.ShortReturn = floats.Sum(shortPnL)
	result.Total = result.LongReturn + result.ShortReturn
	result.LongPriced = len(longPnL)
	result.ShortPriced = len(shortPnL)

	e.logger.ForMonth(contracts.StageReturn, pair.FormationDate).WithFields(map[string]interface{}{
		"open_date":    open.Format(contracts.DateLayout),
		"close_date":   closeDate.Format(contracts.DateLayout),
		"long_return":  result.LongReturn,
		"short_return": result.ShortReturn,
		"total":        result.Total,
		"unpriced":     len(result.Unpriced),
	}).Info("Monthly return calculated")

	return result, nil
}

func (e *Engine) prices(companyID string, open, closeDate time.Time) (float64, float64, bool) {
	openPx, ok := e.market.ClosePrice(open, companyID)
	if !ok {
		return 0, 0, false
	}
	closePx, ok := e.market.ClosePrice(closeDate, companyID)
	if !ok {
		return 0, 0, false
	}
	return openPx, closePx, true
}
