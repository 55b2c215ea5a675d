package s2_signals

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/pkg/logger"
)

// GPR2MCalculator turns a point-in-time fundamentals window into a GPR2M score
// ⭐ SSOT: GPR2M 계산은 여기서만
type GPR2MCalculator struct {
	config Config
	logger *logger.Logger
}

// NewGPR2MCalculator creates a new GPR2M calculator
func NewGPR2MCalculator(config Config, log *logger.Logger) *GPR2MCalculator {
	return &GPR2MCalculator{
		config: config.withDefaults(),
		logger: log,
	}
}

// Calculate scores one company.
// A window without exactly RequiredPeriods gross profit rows yields
// SkipInsufficientHistory and no score; zero denominators are DivisionErrors.
func (c *GPR2MCalculator) Calculate(asOf time.Time, companyID string, rows []contracts.FundamentalRow, marketValue float64) (*contracts.FactorScore, contracts.SkipReason, error) {
	if contracts.CountItem(rows, c.config.GrossProfitItem) != c.config.RequiredPeriods {
		return nil, contracts.SkipInsufficientHistory, nil
	}

	grossProfit := floats.Sum(contracts.ItemValues(rows, c.config.GrossProfitItem))
	totalAssets := floats.Sum(contracts.ItemValues(rows, c.config.TotalAssetsItem)) / float64(c.config.RequiredPeriods)

	if totalAssets == 0 {
		return nil, "", contracts.NewDivisionError(contracts.StageFactor, asOf, companyID, "average total assets is zero")
	}
	gpr := grossProfit / totalAssets

	if marketValue == 0 {
		return nil, "", contracts.NewDivisionError(contracts.StageFactor, asOf, companyID, "market value is zero")
	}

	score := &contracts.FactorScore{
		CompanyID:   companyID,
		GrossProfit: grossProfit,
		TotalAssets: totalAssets,
		MarketValue: marketValue,
		GPR2M:       gpr / marketValue,
	}

	c.logger.WithFields(map[string]interface{}{
		"company":      companyID,
		"gross_profit": score.GrossProfit,
		"total_assets": score.TotalAssets,
		"market_value": score.MarketValue,
		"gpr2m":        score.GPR2M,
	}).Debug("Calculated gpr2m")

	return score, "", nil
}
