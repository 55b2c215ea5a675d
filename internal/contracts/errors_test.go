package contracts

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

func TestPipelineError_Is(t *testing.T) {
	date := time.Date(2011, 6, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		kind       error
		structural bool
	}{
		{"data", NewDataError(StageData, "empty market dataset", nil), ErrData, true},
		{"lookup", NewLookupError(StageReturn, date, "", "month not in calendar"), ErrLookup, true},
		{"division", NewDivisionError(StageFactor, date, "A", "total assets is zero"), ErrDivision, true},
		{"no data", NewNoDataError(StageReturn, date, "no next month"), ErrNoData, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("score month: %w", tt.err)
			if !errors.Is(wrapped, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.kind)
			}
			if got := IsStructural(wrapped); got != tt.structural {
				t.Errorf("IsStructural() = %v, want %v", got, tt.structural)
			}

			var pe *PipelineError
			if !errors.As(wrapped, &pe) {
				t.Fatal("expected errors.As to find *PipelineError")
			}
		})
	}
}

func TestPipelineError_Message(t *testing.T) {
	err := NewDivisionError(StageFactor, time.Date(2011, 6, 30, 0, 0, 0, 0, time.UTC), "A", "market value is zero")
	msg := err.Error()

	for _, part := range []string{"division error", "[S2]", "date=2011-06-30", "company=A", "market value is zero"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}
}

func TestPipelineError_UnwrapCause(t *testing.T) {
	err := NewDataError(StageData, "read market dataset", io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected cause to be reachable")
	}
	if !errors.Is(err, ErrData) {
		t.Error("expected kind to be reachable")
	}
}
