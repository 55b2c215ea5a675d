package contracts

import "time"

// Side is the direction of a basket
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Holding is one equally weighted basket member
type Holding struct {
	CompanyID string  `json:"company"`
	GPR2M     float64 `json:"gpr2m"`
}

// Portfolio is an ordered basket formed at a month end
// ⭐ SSOT: S3 → S4 포트폴리오 전달
type Portfolio struct {
	FormationDate time.Time `json:"formation_date"`
	Side          Side      `json:"side"`
	Holdings      []Holding `json:"holdings"`
}

// Count returns the number of holdings
func (p *Portfolio) Count() int {
	return len(p.Holdings)
}

// Companies returns the company ids in basket order
func (p *Portfolio) Companies() []string {
	ids := make([]string, len(p.Holdings))
	for i, h := range p.Holdings {
		ids[i] = h.CompanyID
	}
	return ids
}

// Contains reports whether the basket holds the company
func (p *Portfolio) Contains(companyID string) bool {
	for _, h := range p.Holdings {
		if h.CompanyID == companyID {
			return true
		}
	}
	return false
}

// PortfolioPair is the long and short basket of one formation date
type PortfolioPair struct {
	FormationDate time.Time `json:"formation_date"`
	Long          Portfolio `json:"long"`
	Short         Portfolio `json:"short"`
	Qualified     int       `json:"qualified"`  // 점수 산출 종목 수
	LongSize      int       `json:"long_size"`  // 설정값
	ShortSize     int       `json:"short_size"` // 설정값
	Overlap       bool      `json:"overlap"`    // long ∩ short ≠ ∅
}

// Shortfall reports whether fewer companies qualified than both baskets need
func (p *PortfolioPair) Shortfall() bool {
	return p.Qualified < p.LongSize+p.ShortSize
}
