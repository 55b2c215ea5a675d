package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 오류, 산출물 manifest에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4 → S5
//   Data  Fundamentals  Factor  Portfolio  Return  Audit

// Stage represents a pipeline stage
type Stage string

const (
	// StageData S0: 데이터 적재 및 거래일 캘린더
	// 위치: internal/s0_data/
	StageData Stage = "S0_DATA"

	// StageFundamentals S1: 시점 기준 재무 데이터
	// 위치: internal/s1_fundamentals/
	StageFundamentals Stage = "S1_FUNDAMENTALS"

	// StageFactor S2: GPR2M 팩터 계산
	// 위치: internal/s2_signals/
	StageFactor Stage = "S2_FACTOR"

	// StagePortfolio S3: long/short 바스켓 구성
	// 위치: internal/selection/
	StagePortfolio Stage = "S3_PORTFOLIO"

	// StageReturn S4: 보유기간 수익 계산
	// 위치: internal/backtest/
	StageReturn Stage = "S4_RETURN"

	// StageAudit S5: 산출물 기록
	// 위치: internal/audit/
	StageAudit Stage = "S5_AUDIT"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageData:
		return "S0"
	case StageFundamentals:
		return "S1"
	case StageFactor:
		return "S2"
	case StagePortfolio:
		return "S3"
	case StageReturn:
		return "S4"
	case StageAudit:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// Description returns a short description of the stage
func (s Stage) Description() string {
	switch s {
	case StageData:
		return "데이터 적재/거래일 캘린더"
	case StageFundamentals:
		return "시점 기준 재무"
	case StageFactor:
		return "GPR2M 팩터"
	case StagePortfolio:
		return "Long/Short 구성"
	case StageReturn:
		return "보유기간 수익"
	case StageAudit:
		return "산출물 기록"
	default:
		return "알 수 없음"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageData,
		StageFundamentals,
		StageFactor,
		StagePortfolio,
		StageReturn,
		StageAudit,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}
