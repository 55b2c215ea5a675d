package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/gpr2m/internal/audit"
	"github.com/wonny/gpr2m/internal/brain"
	"github.com/wonny/gpr2m/internal/contracts"
)

// runCmd represents the full pipeline command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "GPR2M 파이프라인 실행 (S0 → S5)",
	Long: `데이터 적재부터 산출물 저장까지 전체 파이프라인을 실행합니다.

월말(마지막 거래일)마다:
  S2  GPR2M 팩터 계산 (첫 해는 warm-up)
  S3  상위 N 롱 / 하위 N 숏 바스켓
  S4  다음 달 첫 거래일 진입, 그 다음 달 첫 거래일 청산
  S5  output/<YYYY-MM-DD>/ 에 산출물 저장

Flags:
  --from      첫 formation 날짜 (YYYY-MM-DD)
  --to        마지막 formation 날짜 (YYYY-MM-DD)
  --long      롱 바스켓 크기 (전략 파일 덮어쓰기)
  --short     숏 바스켓 크기 (전략 파일 덮어쓰기)
  --strategy  전략 YAML 경로 (기본: STRATEGY_PATH 또는 내장 기본값)
  --out       산출물 디렉토리 (기본: OUTPUT_DIR)
  --workers   월 단위 병렬 처리 수 (기본: WORKERS)
  --xlsx      summary.xlsx 생성

Example:
  go run ./cmd/quant run
  go run ./cmd/quant run --from 2012-01-01 --to 2012-12-31 --xlsx
  go run ./cmd/quant run --long 10 --short 10 --workers 4`,
	RunE: runPipeline,
}

var (
	runFrom     string
	runTo       string
	runLong     int
	runShort    int
	runStrategy string
	runOut      string
	runWorkers  int
	runXLSX     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFrom, "from", "", "첫 formation 날짜 (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runTo, "to", "", "마지막 formation 날짜 (YYYY-MM-DD)")
	runCmd.Flags().IntVar(&runLong, "long", 0, "롱 바스켓 크기")
	runCmd.Flags().IntVar(&runShort, "short", 0, "숏 바스켓 크기")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "", "전략 YAML 경로")
	runCmd.Flags().StringVar(&runOut, "out", "", "산출물 디렉토리")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "월 단위 병렬 처리 수")
	runCmd.Flags().BoolVar(&runXLSX, "xlsx", false, "summary.xlsx 생성")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	start := time.Now()

	from, to, err := parseRange(runFrom, runTo)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	strategy, decision, err := loadStrategy(runStrategy, a.cfg, strategyOverrides{
		longSize:  runLong,
		shortSize: runShort,
		xlsx:      runXLSX,
	}, a.log)
	if err != nil {
		return err
	}

	outDir := firstNonEmpty(runOut, a.cfg.OutputDir)
	var writer *audit.Writer
	if strategy.Output.WriteArtifacts {
		writer = audit.NewWriter(outDir, a.log)
	}

	runID := brain.GenerateRunID()
	PrintHeader("GPR2M Pipeline Run", [][2]string{
		{"Run ID", runID},
		{"Strategy", fmt.Sprintf("%s v%s", strategy.Meta.StrategyID, strategy.Meta.Version)},
		{"Config Hash", decision.ConfigHash[:12]},
		{"Baskets", fmt.Sprintf("long %d / short %d", strategy.Portfolio.LongSize, strategy.Portfolio.ShortSize)},
		{"Period", formatRange(from, to)},
		{"Output", outputLabel(writer, outDir)},
	})

	orchestrator := brain.New(a.dataset, strategy, writer, a.log)
	result, err := orchestrator.Run(cmd.Context(), brain.RunConfig{
		RunID:    runID,
		From:     from,
		To:       to,
		Workers:  firstPositive(runWorkers, a.cfg.Workers),
		XLSX:     strategy.Output.XLSXSummary,
		Decision: decision,
	})
	if err != nil {
		PrintError(err.Error())
		return fmt.Errorf("pipeline failed: %w", err)
	}

	printRunResult(result)
	if writer != nil {
		PrintSuccess(fmt.Sprintf("artifacts written to %s", writer.Root()))
	}
	PrintCompletion(time.Since(start).Seconds())
	return nil
}

func printRunResult(result *brain.RunResult) {
	fmt.Println()
	PrintTableHeader(
		[]string{"Formation", "Scored", "Long", "Short", "Flags", "Total P&L"},
		[]int{10, 6, 4, 5, 9, 14},
	)
	for _, m := range result.Months {
		total := "-"
		if m.Return != nil {
			total = fmt.Sprintf("%+.4f", m.Return.Total)
		}
		PrintTableRow([]string{
			m.Date.Format(contracts.DateLayout),
			fmt.Sprintf("%d", m.Factors.Count()),
			fmt.Sprintf("%d", m.Pair.Long.Count()),
			fmt.Sprintf("%d", m.Pair.Short.Count()),
			pairFlags(m.Pair),
			total,
		}, []int{10, 6, 4, 5, 9, 14})
	}

	s := result.Summary
	fmt.Println()
	PrintDoubleSeparator()
	PrintKeyValue("Months with return", fmt.Sprintf("%d / %d", s.Months, len(result.Months)), 18)
	PrintKeyValue("Cumulative P&L", fmt.Sprintf("%+.4f", s.Cumulative), 18)
	PrintKeyValue("Unpriced names", fmt.Sprintf("%d", s.Unpriced), 18)
	PrintDoubleSeparator()
}

func pairFlags(p *contracts.PortfolioPair) string {
	switch {
	case p.Overlap:
		return "overlap"
	case p.Shortfall():
		return "shortfall"
	default:
		return ""
	}
}

func outputLabel(w *audit.Writer, dir string) string {
	if w == nil {
		return "(disabled)"
	}
	return dir
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = time.Parse(contracts.DateLayout, from); err != nil {
			return start, end, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if end, err = time.Parse(contracts.DateLayout, to); err != nil {
			return start, end, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return start, end, nil
}

func formatRange(from, to time.Time) string {
	label := func(t time.Time, open string) string {
		if t.IsZero() {
			return open
		}
		return t.Format(contracts.DateLayout)
	}
	return label(from, "start") + " ~ " + label(to, "end")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 1
}
