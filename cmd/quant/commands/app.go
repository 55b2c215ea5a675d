package commands

import (
	"context"
	"fmt"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/s0_data"
	"github.com/wonny/gpr2m/internal/strategyconfig"
	"github.com/wonny/gpr2m/pkg/config"
	"github.com/wonny/gpr2m/pkg/database"
	"github.com/wonny/gpr2m/pkg/logger"
)

// app bundles what every pipeline command needs
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	source  contracts.DataSource
	dataset *s0_data.Dataset
	db      *database.DB
}

// Close releases the database pool, if any
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// newApp loads env config, builds the logger and loads both datasets
func newApp(ctx context.Context) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	a := &app{cfg: cfg, log: logger.New(cfg)}

	// 3. Data source
	var src contracts.DataSource
	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		src = s0_data.NewPostgresSource(db.Pool)
	default:
		src = s0_data.NewCSVSource(cfg.Data.FinancialPath, cfg.Data.MarketPath)
	}

	a.source = src

	// 4. S0: load datasets
	ds, err := s0_data.Load(ctx, src, a.log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("S0 failed: %w", err)
	}
	a.dataset = ds

	return a, nil
}

// strategyOverrides are CLI flags that take precedence over the strategy file
type strategyOverrides struct {
	longSize  int
	shortSize int
	xlsx      bool
}

// loadStrategy reads the strategy file (flag, then STRATEGY_PATH, then defaults),
// applies CLI overrides and returns it with its decision snapshot.
func loadStrategy(path string, cfg *config.Config, o strategyOverrides, log *logger.Logger) (*strategyconfig.Config, *strategyconfig.DecisionSnapshot, error) {
	if path == "" {
		path = cfg.StrategyPath
	}

	strategy, data, err := strategyconfig.LoadOrDefault(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load strategy: %w", err)
	}

	overridden := false
	if o.longSize > 0 {
		strategy.Portfolio.LongSize = o.longSize
		overridden = true
	}
	if o.shortSize > 0 {
		strategy.Portfolio.ShortSize = o.shortSize
		overridden = true
	}
	if o.xlsx {
		strategy.Output.XLSXSummary = true
		overridden = true
	}
	if overridden {
		if err := strategyconfig.Validate(strategy); err != nil {
			return nil, nil, fmt.Errorf("strategy overrides: %w", err)
		}
		// 스냅샷 YAML은 실제 적용된 설정
		if data, err = strategyconfig.Marshal(strategy); err != nil {
			return nil, nil, err
		}
	}

	for _, w := range strategyconfig.Warn(strategy) {
		log.WithFields(map[string]interface{}{
			"code": w.Code,
		}).Warn(w.Message)
	}

	decision, err := strategyconfig.NewDecisionSnapshot(strategy, data)
	if err != nil {
		return nil, nil, fmt.Errorf("strategy snapshot: %w", err)
	}

	return strategy, decision, nil
}
