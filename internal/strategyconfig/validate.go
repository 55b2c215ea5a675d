package strategyconfig

import "fmt"

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Factor ===
	f := cfg.Factor
	if f.GrossProfitItem == "" {
		return ValidationError{"factor.gross_profit_item", "required"}
	}
	if f.TotalAssetsItem == "" {
		return ValidationError{"factor.total_assets_item", "required"}
	}
	if f.GrossProfitItem == f.TotalAssetsItem {
		return ValidationError{"factor", "gross_profit_item and total_assets_item must differ"}
	}
	if f.RequiredPeriods < 1 {
		return ValidationError{"factor.required_periods", "must be >= 1"}
	}
	if f.WindowRows < f.RequiredPeriods {
		return ValidationError{"factor.window_rows", fmt.Sprintf("must be >= required_periods=%d, got %d", f.RequiredPeriods, f.WindowRows)}
	}
	if f.WarmupYears < 0 {
		return ValidationError{"factor.warmup_years", "must be >= 0"}
	}

	// === Portfolio ===
	if cfg.Portfolio.LongSize < 1 {
		return ValidationError{"portfolio.long_size", "must be >= 1"}
	}
	if cfg.Portfolio.ShortSize < 1 {
		return ValidationError{"portfolio.short_size", "must be >= 1"}
	}

	// === Quality ===
	if q := cfg.Quality.MinMarketValueCoverage; q < 0 || q > 1 {
		return ValidationError{"quality.min_market_value_coverage", fmt.Sprintf("must be within [0, 1], got %g", q)}
	}
	if q := cfg.Quality.MinFilingCoverage; q < 0 || q > 1 {
		return ValidationError{"quality.min_filing_coverage", fmt.Sprintf("must be within [0, 1], got %g", q)}
	}

	// === Output ===
	if cfg.Output.XLSXSummary && !cfg.Output.WriteArtifacts {
		return ValidationError{"output.xlsx_summary", "requires write_artifacts"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 기간당 GP + TA 2개 항목 기준으로 윈도우가 부족한 경우
	if cfg.Factor.WindowRows < 2*cfg.Factor.RequiredPeriods {
		warnings = append(warnings, Warning{
			Code:    "NARROW_WINDOW",
			Message: fmt.Sprintf("window_rows=%d cannot hold %d periods of gross profit and total assets", cfg.Factor.WindowRows, cfg.Factor.RequiredPeriods),
		})
	}

	// window_rows는 기간당 항목 수를 가정함
	if cfg.Factor.WindowRows%cfg.Factor.RequiredPeriods != 0 {
		warnings = append(warnings, Warning{
			Code:    "UNEVEN_WINDOW",
			Message: "window_rows is not a multiple of required_periods: periods may be cut mid-way",
		})
	}

	if cfg.Portfolio.LongSize != cfg.Portfolio.ShortSize {
		warnings = append(warnings, Warning{
			Code:    "ASYMMETRIC_BASKETS",
			Message: "long and short baskets differ in size: P&L is not dollar-neutral",
		})
	}

	return warnings
}
