package s2_signals

import (
	"context"
	"sort"
	"time"

	"github.com/wonny/gpr2m/internal/contracts"
	"github.com/wonny/gpr2m/pkg/logger"
)

// Builder scores a month's cross-section of companies
// ⭐ SSOT: S2 팩터 생성 오케스트레이션은 여기서만
type Builder struct {
	calculator   *GPR2MCalculator
	fundamentals contracts.FundamentalsProvider
	market       contracts.MarketLookup
	firstYear    int // 데이터셋 첫 해
	config       Config
	logger       *logger.Logger
}

// NewBuilder creates a new factor builder.
// firstYear is the calendar year of the dataset's first trading month.
func NewBuilder(
	fundamentals contracts.FundamentalsProvider,
	market contracts.MarketLookup,
	firstYear int,
	config Config,
	log *logger.Logger,
) *Builder {
	config = config.withDefaults()
	return &Builder{
		calculator:   NewGPR2MCalculator(config, log),
		fundamentals: fundamentals,
		market:       market,
		firstYear:    firstYear,
		config:       config,
		logger:       log,
	}
}

// InWarmup reports whether asOf falls in the excluded warm-up years
func (b *Builder) InWarmup(asOf time.Time) bool {
	return asOf.Year() < b.firstYear+b.config.WarmupYears
}

// ScoreMonth scores every company at the formation date asOf.
// Scores are ordered by gpr2m descending, ties by company id ascending.
// Warm-up months return an empty set.
func (b *Builder) ScoreMonth(ctx context.Context, asOf time.Time, companies []string) (*contracts.FactorSet, error) {
	set := &contracts.FactorSet{
		Date:    asOf,
		Scores:  make([]contracts.FactorScore, 0, len(companies)),
		Skipped: make(map[string]contracts.SkipReason),
	}

	if b.InWarmup(asOf) {
		b.logger.ForMonth(contracts.StageFactor, asOf).Debug("Warm-up month, not scored")
		return set, nil
	}

	for _, id := range companies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// a. 시가총액 (없으면 스킵)
		mv, ok := b.market.MarketValue(asOf, id)
		if !ok {
			set.Skipped[id] = contracts.SkipNoMarketValue
			continue
		}

		// b. point-in-time 재무
		rows := b.fundamentals.FundamentalsAsOf(id, asOf)

		// c~g. 충분성 검사 + 비율 계산
		score, reason, err := b.calculator.Calculate(asOf, id, rows, mv)
		if err != nil {
			b.logger.WithError(err).ForMonth(contracts.StageFactor, asOf).WithFields(map[string]interface{}{
				"company": id,
			}).Error("Structural factor failure")
			return nil, err
		}
		if score == nil {
			set.Skipped[id] = reason
			b.logger.ForMonth(contracts.StageFactor, asOf).WithFields(map[string]interface{}{
				"company": id,
				"reason":  string(reason),
			}).Debug("Company skipped")
			continue
		}

		set.Scores = append(set.Scores, *score)
	}

	SortScores(set.Scores)

	skips := set.SkipCounts()
	b.logger.ForMonth(contracts.StageFactor, asOf).WithFields(map[string]interface{}{
		"companies":            len(companies),
		"scored":               set.Count(),
		"no_market_value":      skips[contracts.SkipNoMarketValue],
		"insufficient_history": skips[contracts.SkipInsufficientHistory],
	}).Info("Month scored")

	return set, nil
}

// SortScores orders scores by gpr2m descending, ties by company id ascending
func SortScores(scores []contracts.FactorScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].GPR2M != scores[j].GPR2M {
			return scores[i].GPR2M > scores[j].GPR2M
		}
		return scores[i].CompanyID < scores[j].CompanyID
	})
}
