package brain

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/gpr2m/internal/audit"
	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/internal/s0_data"
	"github.com/wonny/gpr2m/internal/strategyconfig"
	"github.com/wonny/gpr2m/internal/testfixture"
	"github.com/wonny/gpr2m/pkg/logger"
)

var day = testfixture.Day

func newSynthetic(t *testing.T, n int, out string) *Orchestrator {
	t.Helper()
	financials, market := testfixture.Synthetic(n, 3)
	ds, err := s0_data.NewDataset(financials, market)
	require.NoError(t, err)

	var writer *audit.Writer
	if out != "" {
		writer = audit.NewWriter(out, logger.NewNop())
	}
	return New(ds, strategyconfig.Default(), writer, logger.NewNop())
}

func TestFormationDates(t *testing.T) {
	o := newSynthetic(t, 3, "")

	dates := o.FormationDates(time.Time{}, time.Time{})
	require.Len(t, dates, 24) // 2010년은 warm-up
	assert.Equal(t, day(2011, 1, 31), dates[0])
	assert.Equal(t, day(2012, 12, 31), dates[23])

	ranged := o.FormationDates(day(2011, 6, 1), day(2011, 8, 31))
	assert.Equal(t, []time.Time{day(2011, 6, 30), day(2011, 7, 29), day(2011, 8, 31)}, ranged)
}

func TestRun_Synthetic(t *testing.T) {
	out := t.TempDir()
	o := newSynthetic(t, 45, out)

	result, err := o.Run(context.Background(), RunConfig{RunID: "r1", Workers: 4, XLSX: true})
	require.NoError(t, err)

	require.Len(t, result.Months, 24)
	assert.Equal(t, "r1", result.RunID)
	assert.Equal(t, ModeRun, result.Mode)

	// 2011-01: 2010 Q4 공시 전이라 3분기뿐
	jan := result.Months[0]
	assert.Equal(t, 0, jan.Factors.Count())
	assert.Equal(t, 45, jan.Factors.SkipCounts()[contracts.SkipInsufficientHistory])

	feb := result.Months[1]
	assert.Equal(t, 45, feb.Factors.Count())
	assert.Equal(t, 20, feb.Pair.Long.Count())
	assert.Equal(t, 20, feb.Pair.Short.Count())
	assert.False(t, feb.Pair.Overlap)

	// 마지막 두 달은 보유 기간이 없음
	assert.Nil(t, result.Months[22].Return)
	assert.Nil(t, result.Months[23].Return)
	assert.Len(t, result.Returns, 22)
	assert.Equal(t, 22, result.Summary.Months)

	for i := 1; i < len(result.Returns); i++ {
		assert.True(t, result.Returns[i-1].FormationDate.Before(result.Returns[i].FormationDate))
	}

	for _, name := range []string{audit.ManifestFile, audit.ReturnsFile, audit.WorkbookFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.FileExists(t, filepath.Join(out, "2011-02-28", audit.TotalFile))
	assert.NoFileExists(t, filepath.Join(out, "2012-12-31", audit.TotalFile))
	assert.FileExists(t, filepath.Join(out, "2012-12-31", audit.LongFile))
}

func TestRun_Deterministic(t *testing.T) {
	outA, outB := t.TempDir(), t.TempDir()

	a, err := newSynthetic(t, 45, outA).Run(context.Background(), RunConfig{RunID: "a", Workers: 1})
	require.NoError(t, err)
	b, err := newSynthetic(t, 45, outB).Run(context.Background(), RunConfig{RunID: "b", Workers: 8})
	require.NoError(t, err)

	require.Equal(t, len(a.Returns), len(b.Returns))
	for i := range a.Returns {
		assert.Equal(t, a.Returns[i], b.Returns[i])
	}
	for i := range a.Months {
		assert.Equal(t, a.Months[i].Pair, b.Months[i].Pair)
	}

	for _, month := range []string{"2011-03-31", "2012-06-29"} {
		for _, name := range []string{audit.FactorFile, audit.LongFile, audit.ShortFile, audit.TotalFile} {
			da, err := os.ReadFile(filepath.Join(outA, month, name))
			require.NoError(t, err)
			db, err := os.ReadFile(filepath.Join(outB, month, name))
			require.NoError(t, err)
			assert.Equal(t, da, db, "%s/%s", month, name)
		}
	}
}

func TestRebuild_MatchesRun(t *testing.T) {
	out := t.TempDir()
	o := newSynthetic(t, 45, out)

	run, err := o.Run(context.Background(), RunConfig{Workers: 2})
	require.NoError(t, err)

	rebuilt, err := o.Rebuild(context.Background(), RunConfig{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, ModeRebuild, rebuilt.Mode)
	require.Len(t, rebuilt.Months, len(run.Months))
	assert.Equal(t, run.Returns, rebuilt.Returns)
	assert.Equal(t, run.Summary, rebuilt.Summary)
}

func TestRebuild_RequiresWriter(t *testing.T) {
	_, err := newSynthetic(t, 3, "").Rebuild(context.Background(), RunConfig{})
	assert.Error(t, err)
}

func TestRun_StructuralErrorAborts(t *testing.T) {
	financials, market := testfixture.Synthetic(5, 2)
	for i := range financials {
		if financials[i].CompanyID == testfixture.CompanyID(2) && financials[i].ItemName == contracts.ItemTotalAssets {
			financials[i].Value = 0
		}
	}
	ds, err := s0_data.NewDataset(financials, market)
	require.NoError(t, err)

	out := t.TempDir()
	o := New(ds, strategyconfig.Default(), audit.NewWriter(out, logger.NewNop()), logger.NewNop())

	result, err := o.Run(context.Background(), RunConfig{From: day(2011, 3, 1), To: day(2011, 3, 31)})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, contracts.ErrDivision)
	assert.True(t, contracts.IsStructural(err))

	assert.NoDirExists(t, filepath.Join(out, "2011-03-31"))
	assert.NoFileExists(t, filepath.Join(out, audit.ManifestFile))
}

func TestRun_NoWriter(t *testing.T) {
	result, err := newSynthetic(t, 4, "").Run(context.Background(), RunConfig{From: day(2012, 1, 1)})
	require.NoError(t, err)

	require.Len(t, result.Months, 12)
	// 4종목뿐 → 바스켓 겹침
	assert.True(t, result.Months[0].Pair.Overlap)
	assert.True(t, result.Months[0].Pair.Shortfall())
	assert.NotNil(t, result.Manifest)
	assert.Len(t, result.Manifest.Months, 12)
}

func TestGenerateRunID(t *testing.T) {
	a, b := GenerateRunID(), GenerateRunID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "run_")
}
