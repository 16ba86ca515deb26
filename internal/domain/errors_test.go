package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestScoreOutOfRangeError(t *testing.T) {
	err := NewScoreOutOfRange("achievement", 120, 0, 100)

	if !errors.Is(err, ErrScoreOutOfRange) {
		t.Error("should unwrap to ErrScoreOutOfRange")
	}
	var detail *ScoreOutOfRangeError
	if !errors.As(err, &detail) {
		t.Fatal("should expose ScoreOutOfRangeError")
	}
	if detail.Field != "achievement" || detail.Value != 120 {
		t.Errorf("detail = %+v", detail)
	}
	if !strings.Contains(err.Error(), "achievement") {
		t.Errorf("message %q should name the field", err.Error())
	}
}

func TestInsufficientCandidatesError(t *testing.T) {
	err := NewInsufficientCandidates(5, 2)

	if !errors.Is(err, ErrInsufficientCandidates) {
		t.Error("should unwrap to ErrInsufficientCandidates")
	}
	var detail *InsufficientCandidatesError
	if !errors.As(err, &detail) {
		t.Fatal("should expose InsufficientCandidatesError")
	}
	if detail.Requested != 5 || detail.Available != 2 {
		t.Errorf("detail = %+v", detail)
	}
}

func TestSchemaMismatchError(t *testing.T) {
	err := NewSchemaMismatch("type book")

	if !errors.Is(err, ErrSchemaMismatch) {
		t.Error("should unwrap to ErrSchemaMismatch")
	}
	if !strings.Contains(err.Error(), "type book") {
		t.Errorf("message %q should name the uncovered field", err.Error())
	}
}
