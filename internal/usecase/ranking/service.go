// Package ranking orders encoded records by a weighted composite score.
package ranking

import (
	"fmt"
	"sort"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/feature"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/rank"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/weights"
)

// Service computes weighted rankings.
type Service struct{}

// New creates a ranking service.
func New() *Service {
	return &Service{}
}

// Rank scores every vector as the share-weighted sum of its weighted
// dimensions and returns a deterministic descending order.
//
// Only dimensions named in the config contribute; unweighted one-hot
// dimensions never distort the score. Ties break by timestamp descending,
// then record ID ascending, so the order never depends on input order.
func (s *Service) Rank(vectors []feature.Vector, cfg weights.Config) ([]rank.Entry, error) {
	if cfg.IsZero() {
		return nil, fmt.Errorf("%w: no configuration supplied", domain.ErrInvalidWeights)
	}
	if len(vectors) == 0 {
		return nil, domain.ErrEmptyPopulation
	}

	schema := vectors[0].VectorSchema()
	snapshotID := vectors[0].SnapshotID()
	for i := range vectors {
		if vectors[i].SnapshotID() != snapshotID {
			return nil, fmt.Errorf("%w: vector %s encoded against snapshot %s, expected %s",
				domain.ErrStaleEncoding, vectors[i].RecordID(), vectors[i].SnapshotID(), snapshotID)
		}
	}

	// Resolve weighted dimensions once; a weight naming a feature the
	// schema does not carry is a caller mistake, not a silent no-op.
	shares := cfg.Shares()
	type dim struct {
		index int
		share float64
	}
	dims := make([]dim, 0, len(shares))
	for _, name := range cfg.Features() {
		idx, ok := schema.Index(name)
		if !ok {
			return nil, domain.NewSchemaMismatch("feature " + name)
		}
		dims = append(dims, dim{index: idx, share: shares[name]})
	}

	scored := make([]rank.Entry, 0, len(vectors))
	order := make([]int, len(vectors))
	scores := make([]float64, len(vectors))
	for i := range vectors {
		var score float64
		for _, d := range dims {
			score += d.share * vectors[i].Value(d.index)
		}
		scores[i] = score
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		va, vb := &vectors[order[a]], &vectors[order[b]]
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		if !va.CreatedAt().Equal(vb.CreatedAt()) {
			return va.CreatedAt().After(vb.CreatedAt())
		}
		return va.RecordID() < vb.RecordID()
	})

	for pos, i := range order {
		scored = append(scored, rank.New(vectors[i].RecordID(), scores[i], pos+1))
	}
	return scored, nil
}
