package contracts

import "context"

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// FinancialRepository reads financial statement line items
type FinancialRepository interface {
	LoadAll(ctx context.Context) ([]FinancialRecord, error)
	Count(ctx context.Context) (int64, error)
}

// PriceRepository reads daily market records
type PriceRepository interface {
	LoadAll(ctx context.Context) ([]MarketRecord, error)
	Count(ctx context.Context) (int64, error)
}
