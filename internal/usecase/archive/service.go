// Package archive manages the record population: ingestion with bounds
// validation, retrieval, deletion, and CSV backup export.
//
// Mutations never refit the normalizer; the host invalidates the snapshot
// explicitly after a batch of changes.
package archive

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

// CreateInput carries the fields of a record to ingest.
// Nil Achievement/Interest mean the score was not supplied.
type CreateInput struct {
	Name        string
	Type        record.Type
	Category    string
	Achievement *float64
	Interest    *float64
	Tags        []string
	FreeText    string
	Notes       string
}

// Service implements record archive operations.
type Service struct {
	repo   Repository
	scale  record.Scale
	logger *zap.Logger
	now    func() time.Time
}

// New creates an archive service.
func New(repo Repository, scale record.Scale, logger *zap.Logger) *Service {
	return &Service{repo: repo, scale: scale, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the timestamp source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates and stores a new record. Scores outside the declared
// scale are rejected at ingestion.
func (s *Service) Create(ctx context.Context, in CreateInput) (record.Record, error) {
	rec, err := record.New(
		uuid.NewString(), in.Name, in.Type, in.Category,
		scoreOrNaN(in.Achievement), scoreOrNaN(in.Interest),
		in.Tags, s.now(), in.FreeText, in.Notes,
		s.scale,
	)
	if err != nil {
		return record.Record{}, fmt.Errorf("new record: %w", err)
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return record.Record{}, fmt.Errorf("save record: %w", err)
	}

	s.logger.Info("Archived record",
		zap.String("id", rec.ID()),
		zap.String("type", string(rec.RecordType())),
		zap.String("name", rec.Name()),
	)
	return rec, nil
}

// Get returns one record by ID.
func (s *Service) Get(ctx context.Context, id string) (record.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return record.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return rec, nil
}

// List returns the full population.
func (s *Service) List(ctx context.Context) ([]record.Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// Delete removes a record by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	s.logger.Info("Deleted record", zap.String("id", id))
	return nil
}

func scoreOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
