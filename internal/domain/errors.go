package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound signals a missing record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrAlreadyExists signals a duplicate record.
	ErrAlreadyExists = errors.New("already exists")
	// ErrScoreOutOfRange signals an achievement or interest score outside the declared scale.
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrEmptyPopulation signals a fit attempted on zero records.
	ErrEmptyPopulation = errors.New("empty population")
	// ErrSchemaMismatch signals encoding against a normalizer fitted on an incompatible population.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrStaleEncoding signals vectors from different fitted snapshots mixed in one computation.
	ErrStaleEncoding = errors.New("stale encoding")
	// ErrInvalidWeights signals a weight configuration with no positive weight.
	ErrInvalidWeights = errors.New("invalid weights")
	// ErrInsufficientCandidates signals a neighbor count exceeding the available candidates.
	ErrInsufficientCandidates = errors.New("insufficient candidates")
)

// ScoreOutOfRangeError wraps ErrScoreOutOfRange with the offending field and bounds.
type ScoreOutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s=%v outside [%v, %v]", ErrScoreOutOfRange.Error(), e.Field, e.Value, e.Min, e.Max)
}

func (e *ScoreOutOfRangeError) Unwrap() error { return ErrScoreOutOfRange }

// NewScoreOutOfRange creates a score bounds violation error.
func NewScoreOutOfRange(field string, value, min, max float64) error {
	return &ScoreOutOfRangeError{Field: field, Value: value, Min: min, Max: max}
}

// InsufficientCandidatesError wraps ErrInsufficientCandidates with the requested
// neighbor count and the number of candidates actually available.
type InsufficientCandidatesError struct {
	Requested int
	Available int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("%s: requested %d, available %d", ErrInsufficientCandidates.Error(), e.Requested, e.Available)
}

func (e *InsufficientCandidatesError) Unwrap() error { return ErrInsufficientCandidates }

// NewInsufficientCandidates creates an insufficient candidates error.
func NewInsufficientCandidates(requested, available int) error {
	return &InsufficientCandidatesError{Requested: requested, Available: available}
}

// SchemaMismatchError wraps ErrSchemaMismatch with the field or record type
// the fitted schema does not cover.
type SchemaMismatchError struct {
	Field string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: %s not covered by fitted schema", ErrSchemaMismatch.Error(), e.Field)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// NewSchemaMismatch creates a schema mismatch error.
func NewSchemaMismatch(field string) error {
	return &SchemaMismatchError{Field: field}
}
