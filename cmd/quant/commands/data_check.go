package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/s0_data"
	"github.com/wonny/gpr2m/internal/s0_data/quality"
	"github.com/wonny/gpr2m/internal/strategyconfig"
)

// dataCheckCmd represents the data check command
var dataCheckCmd = &cobra.Command{
	Use:   "data-check",
	Short: "입력 데이터 상태 확인",
	Long: `재무/시장 데이터셋의 상태를 확인합니다.

확인 항목:
- 행 수 (중복/빈 값 제거 포함), postgres면 테이블 행 수와 커넥션 풀
- 종목 수, 거래일 수, 기간
- 재무 항목별 행 수
- 월말별 시가총액/공시 커버리지 (전략 파일 quality 임계값 기준 OK/LOW)

Example:
  go run ./cmd/quant data-check
  go run ./cmd/quant data-check --strategy config/strategy/gpr2m.yaml`,
	RunE: runDataCheck,
}

var (
	dataCheckCoverage bool
	dataCheckStrategy string
)

func init() {
	rootCmd.AddCommand(dataCheckCmd)
	dataCheckCmd.Flags().BoolVar(&dataCheckCoverage, "coverage", true, "월말별 커버리지 출력")
	dataCheckCmd.Flags().StringVar(&dataCheckStrategy, "strategy", "", "전략 YAML 경로 (quality 임계값)")
}

func runDataCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("=== GPR2M Data Check ===")

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.dataset.Summary()

	fmt.Println()
	fmt.Printf("📊 데이터 소스: %s\n", a.cfg.Data.Source)
	PrintSeparator()
	PrintKeyValue("재무 행", fmt.Sprintf("%d", s.FinancialRows), 12)
	PrintKeyValue("시장 행", fmt.Sprintf("%d", s.MarketRows), 12)
	PrintKeyValue("제거된 행", fmt.Sprintf("%d", s.DroppedRows), 12)
	PrintKeyValue("종목 수", fmt.Sprintf("%d", s.Companies), 12)
	PrintKeyValue("거래일 수", fmt.Sprintf("%d", s.TradingDays), 12)
	PrintKeyValue("월 수", fmt.Sprintf("%d", s.Months), 12)
	PrintKeyValue("기간", fmt.Sprintf("%s ~ %s", s.FirstDate.Format(contracts.DateLayout), s.LastDate.Format(contracts.DateLayout)), 12)

	if pg, ok := a.source.(*s0_data.PostgresSource); ok {
		fin, mkt, err := pg.StoredRows(ctx)
		if err != nil {
			return err
		}
		PrintKeyValue("DB 재무 행", fmt.Sprintf("%d", fin), 12)
		PrintKeyValue("DB 시장 행", fmt.Sprintf("%d", mkt), 12)
	}
	if a.db != nil {
		st := a.db.Stats()
		PrintKeyValue("DB 커넥션", fmt.Sprintf("total %d / idle %d / max %d", st.TotalConns, st.IdleConns, st.MaxConns), 12)
	}

	fmt.Println()
	fmt.Println("📋 재무 항목")
	PrintSeparator()
	items := make([]string, 0, len(s.Items))
	for name := range s.Items {
		items = append(items, name)
	}
	sort.Strings(items)
	for _, name := range items {
		marker := ""
		if name == contracts.ItemGrossProfit || name == contracts.ItemTotalAssets {
			marker = " ⭐"
		}
		PrintKeyValue(name, fmt.Sprintf("%d%s", s.Items[name], marker), 24)
	}

	if !s.IsValid() {
		PrintWarning("dataset is incomplete")
	}

	if !dataCheckCoverage {
		return nil
	}

	strategy, _, err := loadStrategy(dataCheckStrategy, a.cfg, strategyOverrides{}, a.log)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("📈 월말 커버리지 (min market value %.0f%%, min filings %.0f%%)\n",
		strategy.Quality.MinMarketValueCoverage*100, strategy.Quality.MinFilingCoverage*100)
	widths := []int{10, 9, 12, 8, 5, 6}
	PrintTableHeader([]string{"Date", "Companies", "Market value", "Filings", "Score", "Status"}, widths)

	snapshots := coverageGate(a.dataset, strategy).CheckAll(a.dataset.Calendar().LastTradingDates())
	low := 0
	for _, snap := range snapshots {
		status := "OK"
		if !snap.Passed {
			status = "LOW"
			low++
		}
		PrintTableRow([]string{
			snap.Date.Format(contracts.DateLayout),
			fmt.Sprintf("%d", snap.TotalCompanies),
			fmt.Sprintf("%.1f%%", snap.Coverage[quality.CoverageMarketValue]*100),
			fmt.Sprintf("%.1f%%", snap.Coverage[quality.CoverageFilings]*100),
			fmt.Sprintf("%.2f", snap.Score),
			status,
		}, widths)
	}
	if low > 0 {
		PrintWarning(fmt.Sprintf("%d of %d month ends below coverage thresholds", low, len(snapshots)))
	}

	return nil
}

// coverageGate builds the S0 coverage gate from the strategy's quality thresholds
func coverageGate(src quality.Source, strategy *strategyconfig.Config) *quality.Gate {
	return quality.NewGate(src, quality.Config{
		MinMarketValueCoverage: strategy.Quality.MinMarketValueCoverage,
		MinFilingCoverage:      strategy.Quality.MinFilingCoverage,
	})
}
