package s0_data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/gpr2m/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository
// ⭐ SSOT: 시장 데이터 저장소는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// LoadAll reads every daily market record
func (r *PriceRepository) LoadAll(ctx context.Context) ([]contracts.MarketRecord, error) {
	query := `
		SELECT DISTINCT trade_date, company_id, price_close_adj, shares_out
		FROM data.market_daily
		WHERE price_close_adj IS NOT NULL AND shares_out IS NOT NULL
		ORDER BY trade_date, company_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query market: %w", err)
	}
	defer rows.Close()

	var records []contracts.MarketRecord
	for rows.Next() {
		var rec contracts.MarketRecord
		if err := rows.Scan(&rec.Date, &rec.CompanyID, &rec.CloseAdj, &rec.SharesOut); err != nil {
			return nil, fmt.Errorf("scan market row: %w", err)
		}
		rec.Date = truncateDay(rec.Date)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market: %w", err)
	}

	return records, nil
}

// Count returns the number of stored market rows
func (r *PriceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM data.market_daily`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count market: %w", err)
	}
	return n, nil
}
