package audit

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/pkg/logger"
)

// Artifact file names
const (
	FactorFile     = "gpr2m.csv"
	LongFile       = "long_portfolio.csv"
	ShortFile      = "short_portfolio.csv"
	TotalFile      = "total_portfolio_return.txt"
	ReturnsFile    = "returns.csv"
	ManifestFile   = "manifest.json"
	WorkbookFile   = "summary.xlsx"
	tempDirPattern = ".tmp-"
)

var (
	factorHeader    = []string{"company", "gross profit", "total assets", "market value", "gpr2m"}
	portfolioHeader = []string{"company", "gpr2m"}
	returnsHeader   = []string{
		"formation_date", "open_date", "close_date",
		"long_return", "short_return", "total",
		"long_priced", "short_priced", "unpriced",
	}
)

// Writer publishes run artifacts under a root directory.
// A month directory appears complete or not at all.
// ⭐ SSOT: 산출물 파일 쓰기는 여기서만
type Writer struct {
	root   string
	logger *logger.Logger
}

// NewWriter creates a new artifact writer
func NewWriter(root string, logger *logger.Logger) *Writer {
	return &Writer{
		root:   root,
		logger: logger,
	}
}

// Root returns the output root directory
func (w *Writer) Root() string {
	return w.root
}

// MonthDir returns the directory of a formation date
func (w *Writer) MonthDir(date time.Time) string {
	return filepath.Join(w.root, date.Format(contracts.DateLayout))
}

// WriteMonth writes the factor table, both baskets and (when ret is non-nil)
// the total return into a temp directory, then renames it into place.
func (w *Writer) WriteMonth(set *contracts.FactorSet, pair *contracts.PortfolioPair, ret *contracts.MonthlyReturn) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create output root: %w", err)
	}

	name := set.Date.Format(contracts.DateLayout)
	tmp, err := os.MkdirTemp(w.root, tempDirPattern+name+"-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp) // rename 성공 시 no-op

	if err := writeCSV(filepath.Join(tmp, FactorFile), factorHeader, factorRows(set.Scores)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(tmp, LongFile), portfolioHeader, holdingRows(pair.Long.Holdings)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(tmp, ShortFile), portfolioHeader, holdingRows(pair.Short.Holdings)); err != nil {
		return err
	}
	if ret != nil {
		if err := os.WriteFile(filepath.Join(tmp, TotalFile), []byte(formatFloat(ret.Total)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", TotalFile, err)
		}
	}

	final := w.MonthDir(set.Date)
	if err := os.RemoveAll(final); err != nil {
		return fmt.Errorf("remove previous %s: %w", name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}

	w.logger.WithStage(contracts.StageAudit).WithFields(map[string]interface{}{
		"date":       name,
		"dir":        final,
		"has_return": ret != nil,
	}).Debug("Month artifacts published")

	return nil
}

// WriteRun writes the run-level returns.csv and manifest.json
func (w *Writer) WriteRun(manifest *Manifest, returns []*contracts.MonthlyReturn) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create output root: %w", err)
	}

	rows := make([][]string, 0, len(returns))
	for _, r := range returns {
		rows = append(rows, []string{
			r.FormationDate.Format(contracts.DateLayout),
			r.OpenDate.Format(contracts.DateLayout),
			r.CloseDate.Format(contracts.DateLayout),
			formatFloat(r.LongReturn),
			formatFloat(r.ShortReturn),
			formatFloat(r.Total),
			strconv.Itoa(r.LongPriced),
			strconv.Itoa(r.ShortPriced),
			strings.Join(r.Unpriced, ";"),
		})
	}
	if err := writeFileAtomic(filepath.Join(w.root, ReturnsFile), func(path string) error {
		return writeCSV(path, returnsHeader, rows)
	}); err != nil {
		return err
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(w.root, ManifestFile), func(path string) error {
		return os.WriteFile(path, data, 0o644)
	}); err != nil {
		return err
	}

	w.logger.WithStage(contracts.StageAudit).WithFields(map[string]interface{}{
		"run_id":  manifest.RunID,
		"months":  len(manifest.Months),
		"returns": len(returns),
	}).Info("Run artifacts written")

	return nil
}

// writeFileAtomic lets write fill a sibling temp file, then renames it onto path
func writeFileAtomic(path string, write func(tmp string) error) error {
	tmp := filepath.Join(filepath.Dir(path), tempDirPattern+filepath.Base(path))
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", filepath.Base(path), err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	return file.Close()
}

func factorRows(scores []contracts.FactorScore) [][]string {
	rows := make([][]string, len(scores))
	for i, s := range scores {
		rows[i] = []string{
			s.CompanyID,
			formatFloat(s.GrossProfit),
			formatFloat(s.TotalAssets),
			formatFloat(s.MarketValue),
			formatFloat(s.GPR2M),
		}
	}
	return rows
}

func holdingRows(holdings []contracts.Holding) [][]string {
	rows := make([][]string, len(holdings))
	for i, h := range holdings {
		rows[i] = []string{h.CompanyID, formatFloat(h.GPR2M)}
	}
	return rows
}

// formatFloat writes the shortest plain decimal that parses back bit-identical.
// 지수 표기 없음: 시가총액(1e9 단위)도 그대로 읽힘
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
