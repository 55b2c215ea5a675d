package selection

import (
	"sort"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/pkg/logger"
)

// Config defines basket sizes
type Config struct {
	LongSize  int `yaml:"long_size"`  // 상위 N (기본: 20)
	ShortSize int `yaml:"short_size"` // 하위 N (기본: 20)
}

// DefaultConfig returns the standard 20/20 baskets
func DefaultConfig() Config {
	return Config{
		LongSize:  20,
		ShortSize: 20,
	}
}

// Builder implements S3: splitting a month's scores into long and short baskets
// ⭐ SSOT: S3 포트폴리오 구성은 여기서만
type Builder struct {
	config Config
	logger *logger.Logger
}

// NewBuilder creates a new portfolio builder
func NewBuilder(config Config, logger *logger.Logger) *Builder {
	return &Builder{
		config: config,
		logger: logger,
	}
}

// Build ranks scores by gpr2m (descending, ties by company id) and takes the
// top LongSize as long and the bottom ShortSize as short. The short basket
// keeps ranking order. With fewer qualified companies than both baskets need
// the baskets shrink or overlap; the pair says so explicitly.
func (b *Builder) Build(date time.Time, scores []contracts.FactorScore) *contracts.PortfolioPair {
	ranked := make([]contracts.FactorScore, len(scores))
	copy(ranked, scores)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].GPR2M != ranked[j].GPR2M {
			return ranked[i].GPR2M > ranked[j].GPR2M
		}
		return ranked[i].CompanyID < ranked[j].CompanyID
	})

	n := len(ranked)
	longN := min(b.config.LongSize, n)
	shortN := min(b.config.ShortSize, n)

	pair := &contracts.PortfolioPair{
		FormationDate: date,
		Long:          basket(date, contracts.SideLong, ranked[:longN]),
		Short:         basket(date, contracts.SideShort, ranked[n-shortN:]),
		Qualified:     n,
		LongSize:      b.config.LongSize,
		ShortSize:     b.config.ShortSize,
	}
	pair.Overlap = longN+shortN > n

	if pair.Shortfall() {
		b.logger.ForMonth(contracts.StagePortfolio, date).WithFields(map[string]interface{}{
			"qualified":  n,
			"long":       longN,
			"short":      shortN,
			"long_size":  b.config.LongSize,
			"short_size": b.config.ShortSize,
			"overlap":    pair.Overlap,
		}).Warn("Not enough qualified companies for full baskets")
	}

	b.logger.ForMonth(contracts.StagePortfolio, date).WithFields(map[string]interface{}{
		"qualified": n,
		"long":      pair.Long.Count(),
		"short":     pair.Short.Count(),
	}).Debug("Portfolios built")

	return pair
}

func basket(date time.Time, side contracts.Side, scores []contracts.FactorScore) contracts.Portfolio {
	p := contracts.Portfolio{
		FormationDate: date,
		Side:          side,
		Holdings:      make([]contracts.Holding, len(scores)),
	}
	for i, s := range scores {
		p.Holdings[i] = contracts.Holding{CompanyID: s.CompanyID, GPR2M: s.GPR2M}
	}
	return p
}
