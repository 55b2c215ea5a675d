package s0_data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
)

// Column names of the two input files (header match is case-insensitive)
const (
	ColCompanyID  = "companyid"
	ColPeriodEnd  = "periodenddate"
	ColFilingDate = "filingdate"
	ColItemName   = "dataitemname"
	ColItemValue  = "dataitemvalue"
	ColDate       = "date"
	ColCloseAdj   = "price_close_adj"
	ColSharesOut  = "shares_out"
)

// CSVSource implements contracts.DataSource over two CSV files.
// Extra columns (restatementtypename etc.) are ignored; exact duplicate
// rows and rows with an empty numeric cell are dropped and counted.
type CSVSource struct {
	financialPath string
	marketPath    string
	dropped       int
}

// NewCSVSource creates a CSV data source
func NewCSVSource(financialPath, marketPath string) *CSVSource {
	return &CSVSource{financialPath: financialPath, marketPath: marketPath}
}

// Dropped returns how many rows were discarded by the loads so far
func (s *CSVSource) Dropped() int {
	return s.dropped
}

// LoadFinancials implements contracts.DataSource
func (s *CSVSource) LoadFinancials(ctx context.Context) ([]contracts.FinancialRecord, error) {
	var records []contracts.FinancialRecord
	seen := make(map[contracts.FinancialRecord]struct{})

	err := readCSV(ctx, s.financialPath,
		[]string{ColCompanyID, ColPeriodEnd, ColFilingDate, ColItemName, ColItemValue},
		func(line int, cells []string) error {
			if cells[4] == "" {
				s.dropped++
				return nil
			}

			periodEnd, err := parseDate(cells[1])
			if err != nil {
				return lineError(s.financialPath, line, ColPeriodEnd, err)
			}
			filingDate, err := parseDate(cells[2])
			if err != nil {
				return lineError(s.financialPath, line, ColFilingDate, err)
			}
			value, err := strconv.ParseFloat(cells[4], 64)
			if err != nil {
				return lineError(s.financialPath, line, ColItemValue, err)
			}

			rec := contracts.FinancialRecord{
				CompanyID:  cells[0],
				PeriodEnd:  periodEnd,
				FilingDate: filingDate,
				ItemName:   cells[3],
				Value:      value,
			}
			if _, dup := seen[rec]; dup {
				s.dropped++
				return nil
			}
			seen[rec] = struct{}{}
			records = append(records, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// LoadMarket implements contracts.DataSource
func (s *CSVSource) LoadMarket(ctx context.Context) ([]contracts.MarketRecord, error) {
	var records []contracts.MarketRecord
	seen := make(map[contracts.MarketRecord]struct{})

	err := readCSV(ctx, s.marketPath,
		[]string{ColDate, ColCompanyID, ColCloseAdj, ColSharesOut},
		func(line int, cells []string) error {
			if cells[2] == "" || cells[3] == "" {
				s.dropped++
				return nil
			}

			date, err := parseDate(cells[0])
			if err != nil {
				return lineError(s.marketPath, line, ColDate, err)
			}
			closeAdj, err := strconv.ParseFloat(cells[2], 64)
			if err != nil {
				return lineError(s.marketPath, line, ColCloseAdj, err)
			}
			shares, err := strconv.ParseFloat(cells[3], 64)
			if err != nil {
				return lineError(s.marketPath, line, ColSharesOut, err)
			}

			rec := contracts.MarketRecord{
				Date:      date,
				CompanyID: cells[1],
				CloseAdj:  closeAdj,
				SharesOut: shares,
			}
			if _, dup := seen[rec]; dup {
				s.dropped++
				return nil
			}
			seen[rec] = struct{}{}
			records = append(records, rec)
			return nil
		})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// readCSV streams path row by row, handing fn the requested columns in order
func readCSV(ctx context.Context, path string, columns []string, fn func(line int, cells []string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return contracts.NewDataError(contracts.StageData, "open "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return contracts.NewDataError(contracts.StageData, path+" is empty", nil)
		}
		return contracts.NewDataError(contracts.StageData, "read header of "+path, err)
	}

	positions, err := columnPositions(header, columns)
	if err != nil {
		return contracts.NewDataError(contracts.StageData, path, err)
	}

	cells := make([]string, len(columns))
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return contracts.NewDataError(contracts.StageData, fmt.Sprintf("%s line %d", path, line), err)
		}

		// 대용량 파일 - 주기적으로 취소 확인
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		for i, pos := range positions {
			cells[i] = strings.TrimSpace(record[pos])
		}
		if err := fn(line, cells); err != nil {
			return err
		}
	}

	return nil
}

// columnPositions maps the wanted column names onto header indexes
func columnPositions(header, columns []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}

	positions := make([]int, len(columns))
	var missing []string
	for i, col := range columns {
		pos, ok := index[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		positions[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return positions, nil
}

// parseDate accepts YYYY-MM-DD or any timestamp starting with it
func parseDate(s string) (time.Time, error) {
	if len(s) > len(contracts.DateLayout) {
		s = s[:len(contracts.DateLayout)]
	}
	return time.Parse(contracts.DateLayout, s)
}

func lineError(path string, line int, column string, err error) error {
	return contracts.NewDataError(contracts.StageData, fmt.Sprintf("%s line %d column %s", path, line, column), err)
}
