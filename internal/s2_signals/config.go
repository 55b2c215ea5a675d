package s2_signals

import "github.com/wonny/gpr2m/internal/contracts"

// Config holds factor settings
type Config struct {
	GrossProfitItem string `yaml:"gross_profit_item"` // "Gross Profit"
	TotalAssetsItem string `yaml:"total_assets_item"` // "Total Assets"
	RequiredPeriods int    `yaml:"required_periods"`  // 4
	WarmupYears     int    `yaml:"warmup_years"`      // 첫 해 제외
}

// DefaultConfig returns the standard GPR2M settings
func DefaultConfig() Config {
	return Config{
		GrossProfitItem: contracts.ItemGrossProfit,
		TotalAssetsItem: contracts.ItemTotalAssets,
		RequiredPeriods: 4,
		WarmupYears:     1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.GrossProfitItem == "" {
		c.GrossProfitItem = d.GrossProfitItem
	}
	if c.TotalAssetsItem == "" {
		c.TotalAssetsItem = d.TotalAssetsItem
	}
	if c.RequiredPeriods <= 0 {
		c.RequiredPeriods = d.RequiredPeriods
	}
	if c.WarmupYears < 0 {
		c.WarmupYears = 0
	}
	return c
}
