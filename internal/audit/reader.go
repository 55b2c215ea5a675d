package audit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
)

// ListMonths returns the formation dates that have a published factor table, oldest first
func ListMonths(root string) ([]time.Time, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, contracts.NewDataError(contracts.StageAudit, "read output root "+root, err)
	}

	var dates []time.Time
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), tempDirPattern) {
			continue
		}
		date, err := time.Parse(contracts.DateLayout, e.Name())
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), FactorFile)); err != nil {
			continue
		}
		dates = append(dates, date)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// ReadFactorTable loads a month's gpr2m.csv back into a FactorSet.
// The formation date comes from the directory name; skip reasons are not persisted.
func ReadFactorTable(dir string) (*contracts.FactorSet, error) {
	date, err := time.Parse(contracts.DateLayout, filepath.Base(dir))
	if err != nil {
		return nil, contracts.NewDataError(contracts.StageAudit, "month directory name "+dir, err)
	}

	path := filepath.Join(dir, FactorFile)
	file, err := os.Open(path)
	if err != nil {
		return nil, contracts.NewDataError(contracts.StageAudit, "open "+path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, contracts.NewDataError(contracts.StageAudit, "read header of "+path, err)
	}
	if len(header) < len(factorHeader) {
		return nil, contracts.NewDataError(contracts.StageAudit, fmt.Sprintf("%s: expected columns %v", path, factorHeader), nil)
	}
	for i, col := range factorHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return nil, contracts.NewDataError(contracts.StageAudit, fmt.Sprintf("%s: expected columns %v", path, factorHeader), nil)
		}
	}

	set := &contracts.FactorSet{
		Date:    date,
		Scores:  make([]contracts.FactorScore, 0),
		Skipped: make(map[string]contracts.SkipReason),
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, contracts.NewDataError(contracts.StageAudit, fmt.Sprintf("%s line %d", path, line), err)
		}

		var values [4]float64
		for i := range values {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, contracts.NewDataError(contracts.StageAudit, fmt.Sprintf("%s line %d column %s", path, line, factorHeader[i+1]), err)
			}
			values[i] = v
		}

		set.Scores = append(set.Scores, contracts.FactorScore{
			CompanyID:   record[0],
			GrossProfit: values[0],
			TotalAssets: values[1],
			MarketValue: values[2],
			GPR2M:       values[3],
		})
	}

	return set, nil
}
