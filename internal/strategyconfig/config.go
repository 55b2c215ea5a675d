package strategyconfig

import "time"

// Config는 GPR2M 전략의 전체 설정
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Factor    Factor    `yaml:"factor" json:"factor"`
	Portfolio Portfolio `yaml:"portfolio" json:"portfolio"`
	Quality   Quality   `yaml:"quality" json:"quality"`
	Output    Output    `yaml:"output" json:"output"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Factor S1/S2: 시점 재무 윈도우와 팩터 입력 항목
type Factor struct {
	GrossProfitItem string `yaml:"gross_profit_item" json:"gross_profit_item"`
	TotalAssetsItem string `yaml:"total_assets_item" json:"total_assets_item"`

	// WindowRows caps the point-in-time rows kept per company (most recent first).
	// Assumes a fixed number of line items per period; see DESIGN.md.
	WindowRows int `yaml:"window_rows" json:"window_rows"`

	// RequiredPeriods is the exact number of gross profit rows the gate demands,
	// and the divisor that averages total assets.
	RequiredPeriods int `yaml:"required_periods" json:"required_periods"`

	// WarmupYears skips the first N calendar years of the dataset
	WarmupYears int `yaml:"warmup_years" json:"warmup_years"`
}

// Portfolio S3: 바스켓 크기 (동일가중)
type Portfolio struct {
	LongSize  int `yaml:"long_size" json:"long_size"`
	ShortSize int `yaml:"short_size" json:"short_size"`
}

// Quality S0: 월말 커버리지 임계값 (data-check 리포트용, 실행은 막지 않음)
type Quality struct {
	MinMarketValueCoverage float64 `yaml:"min_market_value_coverage" json:"min_market_value_coverage"`
	MinFilingCoverage      float64 `yaml:"min_filing_coverage" json:"min_filing_coverage"`
}

// Output S5: 산출물 옵션
type Output struct {
	WriteArtifacts bool `yaml:"write_artifacts" json:"write_artifacts"`
	XLSXSummary    bool `yaml:"xlsx_summary" json:"xlsx_summary"`
}

// Default returns the reference GPR2M strategy
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "gpr2m_long_short",
			Version:    "1.0.0",
		},
		Factor: Factor{
			GrossProfitItem: "Gross Profit",
			TotalAssetsItem: "Total Assets",
			WindowRows:      8,
			RequiredPeriods: 4,
			WarmupYears:     1,
		},
		Portfolio: Portfolio{
			LongSize:  20,
			ShortSize: 20,
		},
		Quality: Quality{
			MinMarketValueCoverage: 0.5,
			MinFilingCoverage:      0.5,
		},
		Output: Output{
			WriteArtifacts: true,
		},
	}
}

// DecisionSnapshot ties a run's outputs to the exact strategy it used
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml,omitempty"`
	StrategyID string    `json:"strategy_id"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}
