package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/s0_data"
)

// calendarCmd prints the trading month boundaries
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "월별 첫/마지막 거래일 출력",
	Long: `시장 데이터에서 계산한 월별 첫 거래일과 마지막 거래일을 출력합니다.
마지막 거래일이 formation 날짜, 첫 거래일이 진입/청산 날짜입니다.

--date를 주면 그 날짜가 속한 달과 보유 기간(진입/청산일)만 출력합니다.

Example:
  go run ./cmd/quant calendar
  go run ./cmd/quant calendar --date 2011-03-15`,
	RunE: runCalendar,
}

var calendarDate string

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().StringVar(&calendarDate, "date", "", "조회할 날짜 (YYYY-MM-DD)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	cal := a.dataset.Calendar()

	if calendarDate != "" {
		date, err := time.Parse(contracts.DateLayout, calendarDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		w, err := holdingWindowOf(cal, date)
		if err != nil {
			return err
		}
		PrintHeader("Holding window", [][2]string{
			{"Month", w.month.Key()},
			{"Formation", w.month.LastTradingDate.Format(contracts.DateLayout)},
			{"Open", dateOrDash(w.open)},
			{"Close", dateOrDash(w.close)},
		})
		return nil
	}

	fmt.Println()
	fmt.Printf("📅 Trading calendar: %d months\n\n", cal.Len())

	widths := []int{7, 10, 10}
	PrintTableHeader([]string{"Month", "First", "Last"}, widths)
	for _, m := range cal.Months() {
		PrintTableRow([]string{
			m.Key(),
			m.FirstTradingDate.Format(contracts.DateLayout),
			m.LastTradingDate.Format(contracts.DateLayout),
		}, widths)
	}

	return nil
}

// holdingWindow is the month containing a date and the holding period formed at its end
type holdingWindow struct {
	month contracts.MonthBoundary
	open  time.Time // zero: 다음 달 데이터 없음
	close time.Time
}

func holdingWindowOf(cal *s0_data.Calendar, date time.Time) (holdingWindow, error) {
	var w holdingWindow

	month, ok := cal.MonthOf(date)
	if !ok {
		return w, contracts.NewLookupError(contracts.StageData, date, "", "month not in trading calendar")
	}
	w.month = month

	open, err := cal.OpenDate(month.LastTradingDate)
	if errors.Is(err, contracts.ErrNoData) {
		return w, nil
	}
	if err != nil {
		return w, err
	}
	w.open = open

	closeDate, err := cal.CloseDate(open)
	if errors.Is(err, contracts.ErrNoData) {
		return w, nil
	}
	if err != nil {
		return w, err
	}
	w.close = closeDate

	return w, nil
}

func dateOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(contracts.DateLayout)
}
