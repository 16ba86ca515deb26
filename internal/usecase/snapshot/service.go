// Package snapshot owns the current fitted normalizer state.
//
// The engine never refits implicitly: the host calls Refit whenever records
// are added, edited, or removed. Between refits every ranking and similarity
// query reads one immutable View, so results within a session are computed
// against a single consistent population.
package snapshot

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/feature"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
	"github.com/bokjinpyeong/my-data-reflection/internal/metrics"
	"github.com/bokjinpyeong/my-data-reflection/internal/usecase/encode"
)

// View is one immutable fitted snapshot with its encoded population.
type View struct {
	snap    *encode.Snapshot
	vectors []feature.Vector
	records map[string]record.Record
}

// SnapshotID returns the fitted snapshot identifier.
func (v *View) SnapshotID() string { return v.snap.ID() }

// Vectors returns the encoded population.
func (v *View) Vectors() []feature.Vector { return v.vectors }

// Record looks up a record of the snapshot population by ID.
func (v *View) Record(id string) (record.Record, bool) {
	r, ok := v.records[id]
	return r, ok
}

// Size returns the population size.
func (v *View) Size() int { return len(v.vectors) }

// VectorSchema returns the shared component layout.
func (v *View) VectorSchema() feature.Schema { return v.snap.VectorSchema() }

// Vocabulary returns the fitted tag vocabulary.
func (v *View) Vocabulary() []string { return v.snap.Vocabulary() }

// Service holds the current View behind a single-writer, multiple-reader
// lock: Refit is the write, Current is the read.
type Service struct {
	repo   Repository
	scale  record.Scale
	logger *zap.Logger

	mu      sync.RWMutex
	current *View
}

// New creates a snapshot service. No snapshot is fitted until Refit is called.
func New(repo Repository, scale record.Scale, logger *zap.Logger) *Service {
	return &Service{repo: repo, scale: scale, logger: logger}
}

// Refit reloads the record population and fits a fresh normalizer.
// This is the invalidation entry point the host calls after any mutation.
// On ErrEmptyPopulation the previous snapshot (if any) is kept.
func (s *Service) Refit(ctx context.Context) (*View, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	snap, err := encode.Fit(records, s.scale)
	if err != nil {
		return nil, fmt.Errorf("fit normalizer: %w", err)
	}

	vectors, err := snap.TransformAll(records)
	if err != nil {
		return nil, fmt.Errorf("encode population: %w", err)
	}

	byID := make(map[string]record.Record, len(records))
	for i := range records {
		byID[records[i].ID()] = records[i]
	}

	view := &View{snap: snap, vectors: vectors, records: byID}

	s.mu.Lock()
	s.current = view
	s.mu.Unlock()

	metrics.ObserveRefit(len(vectors), snap.VectorSchema().Len())
	s.logger.Info("Refitted normalizer snapshot",
		zap.String("snapshot_id", snap.ID()),
		zap.Int("population", len(vectors)),
		zap.Int("dimensions", snap.VectorSchema().Len()),
		zap.Int("vocabulary", len(snap.Vocabulary())),
	)
	return view, nil
}

// Current returns the active View. Fails when no fit has succeeded yet;
// it never refits on the caller's behalf.
func (s *Service) Current() (*View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, fmt.Errorf("no fitted snapshot, call refit first: %w", domain.ErrEmptyPopulation)
	}
	return s.current, nil
}
