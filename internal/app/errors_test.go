package app

import (
	"errors"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{"nil error", nil, ""},
		{"op only", &OperationError{Op: "undo"}, "undo"},
		{"op and target", &OperationError{Op: "open log file", Target: "/tmp/x.log"}, "open log file /tmp/x.log"},
		{"wrapped", &OperationError{Op: "undo", Err: ErrNothingToUndo}, "undo: nothing to undo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("rollback", "", ErrNothingToRollback)
	if !errors.Is(err, ErrNothingToRollback) {
		t.Error("errors.Is() did not find the wrapped sentinel")
	}

	var nilErr *OperationError
	if nilErr.Unwrap() != nil {
		t.Error("Unwrap() on nil receiver returned non-nil")
	}
}

func TestComponentError(t *testing.T) {
	inner := errors.New("boom")
	err := &ComponentError{Component: "script", Err: inner}

	if got := err.Error(); got != "script: boom" {
		t.Errorf("Error() = %q, want %q", got, "script: boom")
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() did not find the wrapped error")
	}

	bare := &ComponentError{Component: "backend"}
	if got := bare.Error(); got != "backend" {
		t.Errorf("Error() = %q, want %q", got, "backend")
	}
}

func TestRecoveredPanicError(t *testing.T) {
	err := &RecoveredPanicError{Value: "bad state"}
	if got := err.Error(); got != "panic: bad state" {
		t.Errorf("Error() = %q, want %q", got, "panic: bad state")
	}
}
