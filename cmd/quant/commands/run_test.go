package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/gpr2m/internal/contracts"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantFrom time.Time
		wantTo   time.Time
		wantErr  bool
	}{
		{name: "open range"},
		{
			name:     "both bounds",
			from:     "2012-01-01",
			to:       "2012-12-31",
			wantFrom: time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "from only",
			from:     "2013-06-30",
			wantFrom: time.Date(2013, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{name: "bad from", from: "2012/01/01", wantErr: true},
		{name: "bad to", to: "31-12-2012", wantErr: true},
		{name: "reversed", from: "2013-01-01", to: "2012-01-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseRange(tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantFrom.Equal(from))
			assert.True(t, tt.wantTo.Equal(to))
		})
	}
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "start ~ end", formatRange(time.Time{}, time.Time{}))
	assert.Equal(t, "2012-01-01 ~ end", formatRange(time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}))
}

func TestFirstPositive(t *testing.T) {
	assert.Equal(t, 4, firstPositive(0, 4))
	assert.Equal(t, 2, firstPositive(2, 4))
	assert.Equal(t, 1, firstPositive(0, 0))
	assert.Equal(t, "out", firstNonEmpty("", "out"))
}

func TestPairFlags(t *testing.T) {
	long := contracts.Portfolio{Side: contracts.SideLong}
	short := contracts.Portfolio{Side: contracts.SideShort}

	assert.Equal(t, "", pairFlags(&contracts.PortfolioPair{Long: long, Short: short, Qualified: 40, LongSize: 20, ShortSize: 20}))
	assert.Equal(t, "shortfall", pairFlags(&contracts.PortfolioPair{Long: long, Short: short, Qualified: 30, LongSize: 20, ShortSize: 20}))
	assert.Equal(t, "overlap", pairFlags(&contracts.PortfolioPair{Long: long, Short: short, Qualified: 3, LongSize: 20, ShortSize: 20, Overlap: true}))
}
