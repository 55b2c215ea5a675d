package s0_data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/gpr2m/internal/contracts"
)

// FinancialRepository implements contracts.FinancialRepository
// ⭐ SSOT: 재무 데이터 저장소는 여기서만
type FinancialRepository struct {
	pool *pgxpool.Pool
}

// NewFinancialRepository creates a new financial repository
func NewFinancialRepository(pool *pgxpool.Pool) *FinancialRepository {
	return &FinancialRepository{pool: pool}
}

// LoadAll reads every financial line item.
// restatement_type_name is not selected; DISTINCT drops exact duplicates.
func (r *FinancialRepository) LoadAll(ctx context.Context) ([]contracts.FinancialRecord, error) {
	query := `
		SELECT DISTINCT company_id, period_end_date, filing_date, data_item_name, data_item_value
		FROM data.financials
		WHERE data_item_value IS NOT NULL
		ORDER BY company_id, period_end_date, filing_date, data_item_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query financials: %w", err)
	}
	defer rows.Close()

	var records []contracts.FinancialRecord
	for rows.Next() {
		var rec contracts.FinancialRecord
		if err := rows.Scan(&rec.CompanyID, &rec.PeriodEnd, &rec.FilingDate, &rec.ItemName, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan financial row: %w", err)
		}
		rec.PeriodEnd = truncateDay(rec.PeriodEnd)
		rec.FilingDate = truncateDay(rec.FilingDate)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate financials: %w", err)
	}

	return records, nil
}

// Count returns the number of stored financial rows
func (r *FinancialRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM data.financials`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count financials: %w", err)
	}
	return n, nil
}
