package contracts

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds. Match with errors.Is.
var (
	ErrData     = errors.New("data error")     // 필수 입력 누락/빈 데이터
	ErrLookup   = errors.New("lookup error")   // 필요한 종목/날짜 없음
	ErrDivision = errors.New("division error") // 0 분모
	ErrNoData   = errors.New("no data")        // 다음 달 없음
)

// PipelineError carries the stage, date and company a failure happened at
// ⭐ SSOT: 파이프라인 오류 타입은 여기서만
type PipelineError struct {
	Kind    error
	Stage   Stage
	Date    time.Time
	Company string
	Detail  string
	Err     error
}

func (e *PipelineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Stage != "" {
		fmt.Fprintf(&b, " [%s]", e.Stage.ShortName())
	}
	if !e.Date.IsZero() {
		fmt.Fprintf(&b, " date=%s", e.Date.Format(DateLayout))
	}
	if e.Company != "" {
		fmt.Fprintf(&b, " company=%s", e.Company)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause
func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewDataError reports missing or empty required input
func NewDataError(stage Stage, detail string, err error) *PipelineError {
	return &PipelineError{Kind: ErrData, Stage: stage, Detail: detail, Err: err}
}

// NewLookupError reports a company or date absent where it is required
func NewLookupError(stage Stage, date time.Time, company, detail string) *PipelineError {
	return &PipelineError{Kind: ErrLookup, Stage: stage, Date: date, Company: company, Detail: detail}
}

// NewDivisionError reports a zero denominator feeding a ratio
func NewDivisionError(stage Stage, date time.Time, company, detail string) *PipelineError {
	return &PipelineError{Kind: ErrDivision, Stage: stage, Date: date, Company: company, Detail: detail}
}

// NewNoDataError reports that no subsequent month exists
func NewNoDataError(stage Stage, date time.Time, detail string) *PipelineError {
	return &PipelineError{Kind: ErrNoData, Stage: stage, Date: date, Detail: detail}
}

// IsStructural reports whether err invalidates a whole month's output.
// NoData is a terminal condition, not a structural failure.
func IsStructural(err error) bool {
	return errors.Is(err, ErrData) || errors.Is(err, ErrLookup) || errors.Is(err, ErrDivision)
}
