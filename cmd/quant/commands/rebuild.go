package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/gpr2m/internal/audit"
	"github.com/wonny/gpr2m/internal/brain"
)

// rebuildCmd re-derives baskets and returns from saved factor tables
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "저장된 gpr2m.csv로 포트폴리오/수익률 재생성",
	Long: `이미 저장된 월별 gpr2m.csv를 읽어 S3(포트폴리오)와 S4(수익률)만 다시 실행합니다.
팩터는 다시 계산하지 않습니다. 바스켓 크기만 바꿔 볼 때 사용합니다.

Example:
  go run ./cmd/quant rebuild
  go run ./cmd/quant rebuild --out output --long 10 --short 10`,
	RunE: runRebuild,
}

var (
	rebuildFrom     string
	rebuildTo       string
	rebuildLong     int
	rebuildShort    int
	rebuildStrategy string
	rebuildOut      string
	rebuildWorkers  int
	rebuildXLSX     bool
)

func init() {
	rootCmd.AddCommand(rebuildCmd)

	rebuildCmd.Flags().StringVar(&rebuildFrom, "from", "", "첫 formation 날짜 (YYYY-MM-DD)")
	rebuildCmd.Flags().StringVar(&rebuildTo, "to", "", "마지막 formation 날짜 (YYYY-MM-DD)")
	rebuildCmd.Flags().IntVar(&rebuildLong, "long", 0, "롱 바스켓 크기")
	rebuildCmd.Flags().IntVar(&rebuildShort, "short", 0, "숏 바스켓 크기")
	rebuildCmd.Flags().StringVar(&rebuildStrategy, "strategy", "", "전략 YAML 경로")
	rebuildCmd.Flags().StringVar(&rebuildOut, "out", "", "산출물 디렉토리")
	rebuildCmd.Flags().IntVar(&rebuildWorkers, "workers", 0, "월 단위 병렬 처리 수")
	rebuildCmd.Flags().BoolVar(&rebuildXLSX, "xlsx", false, "summary.xlsx 생성")
}

func runRebuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	from, to, err := parseRange(rebuildFrom, rebuildTo)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	strategy, decision, err := loadStrategy(rebuildStrategy, a.cfg, strategyOverrides{
		longSize:  rebuildLong,
		shortSize: rebuildShort,
		xlsx:      rebuildXLSX,
	}, a.log)
	if err != nil {
		return err
	}

	outDir := firstNonEmpty(rebuildOut, a.cfg.OutputDir)
	runID := brain.GenerateRunID()
	PrintHeader("GPR2M Rebuild", [][2]string{
		{"Run ID", runID},
		{"Baskets", fmt.Sprintf("long %d / short %d", strategy.Portfolio.LongSize, strategy.Portfolio.ShortSize)},
		{"Period", formatRange(from, to)},
		{"Output", outDir},
	})

	PrintInfo("factor tables are read from disk, not recomputed")

	orchestrator := brain.New(a.dataset, strategy, audit.NewWriter(outDir, a.log), a.log)
	result, err := orchestrator.Rebuild(cmd.Context(), brain.RunConfig{
		RunID:    runID,
		From:     from,
		To:       to,
		Workers:  firstPositive(rebuildWorkers, a.cfg.Workers),
		XLSX:     strategy.Output.XLSXSummary,
		Decision: decision,
	})
	if err != nil {
		PrintError(err.Error())
		return fmt.Errorf("rebuild failed: %w", err)
	}
	if len(result.Months) == 0 {
		PrintWarning(fmt.Sprintf("no factor tables found under %s (run `quant run` first)", outDir))
		return nil
	}

	printRunResult(result)
	PrintCompletion(time.Since(start).Seconds())
	return nil
}
