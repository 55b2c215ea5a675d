package s0_data

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/gpr2m/internal/contracts"
)

// PostgresSource implements contracts.DataSource on top of the two repositories
type PostgresSource struct {
	financials contracts.FinancialRepository
	prices     contracts.PriceRepository
}

// NewPostgresSource creates a data source reading from the given pool
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{
		financials: NewFinancialRepository(pool),
		prices:     NewPriceRepository(pool),
	}
}

// NewRepositorySource wires arbitrary repositories (tests use in-memory ones)
func NewRepositorySource(financials contracts.FinancialRepository, prices contracts.PriceRepository) *PostgresSource {
	return &PostgresSource{financials: financials, prices: prices}
}

// LoadFinancials implements contracts.DataSource
func (s *PostgresSource) LoadFinancials(ctx context.Context) ([]contracts.FinancialRecord, error) {
	records, err := s.financials.LoadAll(ctx)
	if err != nil {
		return nil, contracts.NewDataError(contracts.StageData, "financial table", err)
	}
	return records, nil
}

// LoadMarket implements contracts.DataSource
func (s *PostgresSource) LoadMarket(ctx context.Context) ([]contracts.MarketRecord, error) {
	records, err := s.prices.LoadAll(ctx)
	if err != nil {
		return nil, contracts.NewDataError(contracts.StageData, "market table", err)
	}
	return records, nil
}

// StoredRows counts the rows held by both tables before dedup.
// data-check compares them with the loaded summary.
func (s *PostgresSource) StoredRows(ctx context.Context) (financials, market int64, err error) {
	if financials, err = s.financials.Count(ctx); err != nil {
		return 0, 0, contracts.NewDataError(contracts.StageData, "financial table", err)
	}
	if market, err = s.prices.Count(ctx); err != nil {
		return 0, 0, contracts.NewDataError(contracts.StageData, "market table", err)
	}
	return financials, market, nil
}
