package audit

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/gpr2m/internal/contracts"
)

// Workbook sheet names
const (
	SheetSummary = "Summary"
	SheetReturns = "Returns"
	SheetMonths  = "Months"
)

// WriteWorkbook renders the manifest and return series into summary.xlsx
func WriteWorkbook(path string, manifest *Manifest, returns []*contracts.MonthlyReturn) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetReturns, SheetMonths} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	s := manifest.Summary
	summary := [][]interface{}{
		{"run_id", manifest.RunID},
		{"mode", manifest.Mode},
		{"strategy_id", manifest.StrategyID},
		{"version", manifest.Version},
		{"config_hash", manifest.ConfigHash},
		{"created_at", manifest.CreatedAt.Format("2006-01-02 15:04:05")},
		{"months_with_return", s.Months},
		{"cumulative", s.Cumulative},
		{"first_date", formatDate(s.FirstDate)},
		{"last_date", formatDate(s.LastDate)},
		{"unpriced", s.Unpriced},
	}
	if err := setRows(f, SheetSummary, summary); err != nil {
		return err
	}

	rows := [][]interface{}{{"formation_date", "open_date", "close_date", "long_return", "short_return", "total", "long_priced", "short_priced", "unpriced"}}
	for _, r := range returns {
		rows = append(rows, []interface{}{
			r.FormationDate.Format(contracts.DateLayout),
			r.OpenDate.Format(contracts.DateLayout),
			r.CloseDate.Format(contracts.DateLayout),
			r.LongReturn,
			r.ShortReturn,
			r.Total,
			r.LongPriced,
			r.ShortPriced,
			len(r.Unpriced),
		})
	}
	if err := setRows(f, SheetReturns, rows); err != nil {
		return err
	}

	months := [][]interface{}{{"date", "scored", "qualified", "long", "short", "overlap", "shortfall"}}
	for _, m := range manifest.Months {
		months = append(months, []interface{}{m.Date, m.Scored, m.Qualified, m.Long, m.Short, m.Overlap, m.Shortfall})
	}
	if err := setRows(f, SheetMonths, months); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(contracts.DateLayout)
}
