// Package similarity answers k-nearest-neighbor queries over one encoded
// population snapshot.
package similarity

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/feature"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/neighbor"
)

// Service runs k-NN queries with a configurable metric.
//
// Pairwise distances are cached per (snapshot, metric); the cache is dropped
// as soon as a different snapshot is queried, so a refit can never serve
// stale distances.
type Service struct {
	metric Metric

	mu            sync.Mutex
	cacheSnapshot string
	cache         map[pairKey]float64
}

type pairKey struct {
	lo string
	hi string
}

func newPairKey(a, b string) pairKey {
	if a < b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

// New creates a similarity service using the given metric.
func New(metric Metric) *Service {
	return &Service{metric: metric, cache: make(map[pairKey]float64)}
}

// MetricName returns the configured metric.
func (s *Service) MetricName() Metric { return s.metric }

// Neighbors returns the k records closest to the query record, excluding
// the query itself by identity.
//
// All vectors must come from one fitted snapshot (ErrStaleEncoding
// otherwise). k must satisfy 0 < k <= len(vectors)-1; a k exceeding the
// candidate count fails with ErrInsufficientCandidates instead of silently
// truncating. Ordering is distance ascending, then timestamp descending,
// then record ID ascending.
func (s *Service) Neighbors(vectors []feature.Vector, queryID string, k int) ([]neighbor.Neighbor, error) {
	if len(vectors) == 0 {
		return nil, domain.ErrEmptyPopulation
	}

	snapshotID := vectors[0].SnapshotID()
	var query *feature.Vector
	for i := range vectors {
		if vectors[i].SnapshotID() != snapshotID {
			return nil, fmt.Errorf("%w: vector %s encoded against snapshot %s, expected %s",
				domain.ErrStaleEncoding, vectors[i].RecordID(), vectors[i].SnapshotID(), snapshotID)
		}
		if vectors[i].RecordID() == queryID {
			query = &vectors[i]
		}
	}
	if query == nil {
		return nil, fmt.Errorf("query %s: %w", queryID, domain.ErrRecordNotFound)
	}

	available := len(vectors) - 1
	if k <= 0 {
		return nil, fmt.Errorf("neighbor count must be positive, got %d", k)
	}
	if k > available {
		return nil, domain.NewInsufficientCandidates(k, available)
	}

	type candidate struct {
		vec      *feature.Vector
		distance float64
	}
	candidates := make([]candidate, 0, available)
	for i := range vectors {
		if vectors[i].RecordID() == queryID {
			continue
		}
		d := s.distance(snapshotID, query, &vectors[i])
		candidates = append(candidates, candidate{vec: &vectors[i], distance: d})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := &candidates[a], &candidates[b]
		if ca.distance != cb.distance {
			return ca.distance < cb.distance
		}
		if !ca.vec.CreatedAt().Equal(cb.vec.CreatedAt()) {
			return ca.vec.CreatedAt().After(cb.vec.CreatedAt())
		}
		return ca.vec.RecordID() < cb.vec.RecordID()
	})

	out := make([]neighbor.Neighbor, k)
	for i := 0; i < k; i++ {
		out[i] = neighbor.New(candidates[i].vec.RecordID(), candidates[i].distance, i+1)
	}
	return out, nil
}

// distance returns the cached pairwise distance, computing and storing it on
// miss. A snapshot change invalidates the whole cache.
func (s *Service) distance(snapshotID string, a, b *feature.Vector) float64 {
	key := newPairKey(a.RecordID(), b.RecordID())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheSnapshot != snapshotID {
		s.cacheSnapshot = snapshotID
		s.cache = make(map[pairKey]float64)
	}
	if d, ok := s.cache[key]; ok {
		return d
	}
	d := s.metric.Distance(a.Values(), b.Values())
	s.cache[key] = d
	return d
}
