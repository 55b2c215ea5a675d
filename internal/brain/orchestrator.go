package brain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/gpr2m/internal/audit"
	"github.com/wonny/gpr2m/internal/backtest"
	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/s0_data"
	"github.com/wonny/gpr2m/internal/s1_fundamentals"
	"github.com/wonny/gpr2m/internal/s2_signals"
	"github.com/wonny/gpr2m/internal/selection"
	"github.com/wonny/gpr2m/internal/strategyconfig"
	"github.com/wonny/gpr2m/pkg/logger"
)

// Run modes
const (
	ModeRun     = "run"
	ModeRebuild = "rebuild"
)

// Orchestrator coordinates the staged monthly pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	// Stage components
	dataset          *s0_data.Dataset
	signalBuilder    *s2_signals.Builder
	portfolioBuilder *selection.Builder
	returnEngine     *backtest.Engine

	// Artifacts (nil이면 파일 출력 없음)
	writer *audit.Writer

	logger *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID    string
	From     time.Time // zero = 처음부터
	To       time.Time // zero = 끝까지
	Workers  int
	XLSX     bool
	Decision *strategyconfig.DecisionSnapshot
}

// MonthResult is the outcome of one formation month
type MonthResult struct {
	Date    time.Time
	Factors *contracts.FactorSet
	Pair    *contracts.PortfolioPair
	Return  *contracts.MonthlyReturn // 마지막 달은 nil
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID    string
	Mode     string
	Months   []MonthResult
	Returns  []*contracts.MonthlyReturn
	Summary  backtest.Summary
	Manifest *audit.Manifest
	Duration time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	dataset *s0_data.Dataset,
	signalBuilder *s2_signals.Builder,
	portfolioBuilder *selection.Builder,
	returnEngine *backtest.Engine,
	writer *audit.Writer,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		dataset:          dataset,
		signalBuilder:    signalBuilder,
		portfolioBuilder: portfolioBuilder,
		returnEngine:     returnEngine,
		writer:           writer,
		logger:           logger,
	}
}

// New wires every stage from a loaded dataset and a strategy
func New(ds *s0_data.Dataset, cfg *strategyconfig.Config, writer *audit.Writer, log *logger.Logger) *Orchestrator {
	provider := s1_fundamentals.NewProvider(ds, s1_fundamentals.Config{
		WindowRows: cfg.Factor.WindowRows,
	})

	signals := s2_signals.NewBuilder(provider, ds, ds.Calendar().FirstYear(), s2_signals.Config{
		GrossProfitItem: cfg.Factor.GrossProfitItem,
		TotalAssetsItem: cfg.Factor.TotalAssetsItem,
		RequiredPeriods: cfg.Factor.RequiredPeriods,
		WarmupYears:     cfg.Factor.WarmupYears,
	}, log)

	portfolios := selection.NewBuilder(selection.Config{
		LongSize:  cfg.Portfolio.LongSize,
		ShortSize: cfg.Portfolio.ShortSize,
	}, log)

	returns := backtest.NewEngine(ds.Calendar(), ds, log)

	return NewOrchestrator(ds, signals, portfolios, returns, writer, log)
}

// FormationDates returns the month-end trading dates to score: outside the
// warm-up years and inside [from, to] (zero bounds are open).
func (o *Orchestrator) FormationDates(from, to time.Time) []time.Time {
	var dates []time.Time
	for _, d := range o.dataset.Calendar().LastTradingDates() {
		if o.signalBuilder.InWarmup(d) || !inRange(d, from, to) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// Run scores, builds and measures every formation month, then publishes the
// run artifacts. A structural error aborts the run; months not yet published
// stay unpublished.
// S2 → S3 → S4 → S5 (월별), 월 단위 병렬
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	dates := o.FormationDates(config.From, config.To)
	companies := o.dataset.Companies()

	return o.execute(ctx, ModeRun, config, dates, func(ctx context.Context, date time.Time) (*contracts.FactorSet, error) {
		set, err := o.signalBuilder.ScoreMonth(ctx, date, companies)
		if err != nil {
			return nil, fmt.Errorf("S2 failed: %w", err)
		}
		return set, nil
	})
}

// Rebuild re-derives baskets and returns from the factor tables already
// published under the writer's root; factors are not recomputed.
func (o *Orchestrator) Rebuild(ctx context.Context, config RunConfig) (*RunResult, error) {
	if o.writer == nil {
		return nil, errors.New("rebuild requires an artifact writer")
	}

	published, err := audit.ListMonths(o.writer.Root())
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for _, d := range published {
		if inRange(d, config.From, config.To) {
			dates = append(dates, d)
		}
	}

	return o.execute(ctx, ModeRebuild, config, dates, func(_ context.Context, date time.Time) (*contracts.FactorSet, error) {
		set, err := audit.ReadFactorTable(o.writer.MonthDir(date))
		if err != nil {
			return nil, fmt.Errorf("read factor table: %w", err)
		}
		return set, nil
	})
}

type scoreFunc func(ctx context.Context, date time.Time) (*contracts.FactorSet, error)

func (o *Orchestrator) execute(ctx context.Context, mode string, config RunConfig, dates []time.Time, score scoreFunc) (*RunResult, error) {
	startTime := time.Now()

	if config.RunID == "" {
		config.RunID = GenerateRunID()
	}
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":  config.RunID,
		"mode":    mode,
		"months":  len(dates),
		"workers": workers,
	}).Info("Starting pipeline run")

	months := make([]MonthResult, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, date := range dates {
		g.Go(func() error {
			result, err := o.runMonth(gctx, date, score)
			if err != nil {
				return err
			}
			months[i] = *result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.logger.WithError(err).WithFields(map[string]interface{}{
			"run_id": config.RunID,
		}).Error("Pipeline run aborted")
		return nil, err
	}

	result := &RunResult{
		RunID:  config.RunID,
		Mode:   mode,
		Months: months,
	}
	for _, m := range months {
		if m.Return != nil {
			result.Returns = append(result.Returns, m.Return)
		}
	}
	sort.Slice(result.Returns, func(i, j int) bool {
		return result.Returns[i].FormationDate.Before(result.Returns[j].FormationDate)
	})
	result.Summary = backtest.Summarize(result.Returns)
	result.Manifest = o.buildManifest(result, config)

	if err := o.runS5(config, result); err != nil {
		return nil, fmt.Errorf("S5 failed: %w", err)
	}

	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":       config.RunID,
		"mode":         mode,
		"months":       len(result.Months),
		"with_return":  len(result.Returns),
		"cumulative":   result.Summary.Cumulative,
		"duration_sec": result.Duration.Seconds(),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

// runMonth executes S2 (or reads its table) → S3 → S4 → S5 for one formation date
func (o *Orchestrator) runMonth(ctx context.Context, date time.Time, score scoreFunc) (*MonthResult, error) {
	set, err := score(ctx, date)
	if err != nil {
		return nil, err
	}

	pair := o.portfolioBuilder.Build(date, set.Scores)

	ret, err := o.returnEngine.Calculate(ctx, pair)
	switch {
	case errors.Is(err, contracts.ErrNoData):
		// 마지막 달: 수익률 없음
		o.logger.ForMonth(contracts.StageReturn, date).Info("No holding period after formation month, return skipped")
		ret = nil
	case err != nil:
		return nil, fmt.Errorf("S4 failed: %w", err)
	}

	if o.writer != nil {
		if err := o.writer.WriteMonth(set, pair, ret); err != nil {
			return nil, fmt.Errorf("S5 failed: %w", err)
		}
	}

	return &MonthResult{Date: date, Factors: set, Pair: pair, Return: ret}, nil
}

// runS5 publishes run-level artifacts
func (o *Orchestrator) runS5(config RunConfig, result *RunResult) error {
	if o.writer == nil {
		return nil
	}

	if err := o.writer.WriteRun(result.Manifest, result.Returns); err != nil {
		return err
	}

	if config.XLSX {
		path := filepath.Join(o.writer.Root(), audit.WorkbookFile)
		if err := audit.WriteWorkbook(path, result.Manifest, result.Returns); err != nil {
			return err
		}
	}

	return nil
}

func (o *Orchestrator) buildManifest(result *RunResult, config RunConfig) *audit.Manifest {
	m := &audit.Manifest{
		RunID:     result.RunID,
		Mode:      result.Mode,
		CreatedAt: time.Now().UTC(),
		Dataset:   o.dataset.Summary(),
		Months:    make([]audit.MonthEntry, 0, len(result.Months)),
		Summary:   result.Summary,
	}
	if d := config.Decision; d != nil {
		m.StrategyID = d.StrategyID
		m.Version = d.Version
		m.ConfigHash = d.ConfigHash
	}
	for _, month := range result.Months {
		m.Months = append(m.Months, audit.NewMonthEntry(month.Factors, month.Pair, month.Return))
	}
	return m
}

func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// GenerateRunID generates a unique run ID
func GenerateRunID() string {
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}
