// Package encode turns heterogeneous records into fixed-schema feature
// vectors. Fit derives scaling parameters from one population snapshot;
// Transform applies them without mutating the fitted state. Refitting after
// the population changes is the caller's responsibility.
package encode

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/feature"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

// UnknownTag is the schema source name of the dimension that absorbs tags
// unseen at fit time.
const UnknownTag = "tag:?"

// midpoint substitutes for missing scores and constant numeric fields.
const midpoint = 0.5

// bounds holds the observed min/max of one numeric feature.
type bounds struct {
	min float64
	max float64
	set bool
}

func (b *bounds) observe(v float64) {
	if math.IsNaN(v) {
		return
	}
	if !b.set {
		b.min, b.max, b.set = v, v, true
		return
	}
	if v < b.min {
		b.min = v
	}
	if v > b.max {
		b.max = v
	}
}

// normalize min-max scales v into [0, 1]. Degenerate bounds (min == max, or
// no value observed at fit time) pin the result to the midpoint instead of
// dividing by zero.
func (b *bounds) normalize(v float64) float64 {
	if math.IsNaN(v) {
		return midpoint
	}
	if !b.set || b.min == b.max {
		return midpoint
	}
	return (v - b.min) / (b.max - b.min)
}

// Snapshot is one fitted normalizer state: numeric bounds, tag vocabulary,
// and the record types the fit observed. Immutable after Fit.
type Snapshot struct {
	id          string
	scale       record.Scale
	achievement bounds
	interest    bounds
	vocab       []string
	vocabIndex  map[string]int
	types       map[record.Type]bool
	schema      feature.Schema
	size        int
	fittedAt    time.Time
}

// Fit computes normalization parameters from the full current population.
// Returns ErrEmptyPopulation for zero records.
func Fit(records []record.Record, scale record.Scale) (*Snapshot, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyPopulation
	}

	s := &Snapshot{
		id:       uuid.NewString(),
		scale:    scale,
		types:    make(map[record.Type]bool),
		size:     len(records),
		fittedAt: time.Now().UTC(),
	}

	vocabSeen := make(map[string]bool)
	for i := range records {
		r := &records[i]
		s.types[r.RecordType()] = true
		s.achievement.observe(r.Achievement())
		s.interest.observe(r.Interest())
		for _, tag := range r.Tags() {
			if !vocabSeen[tag] {
				vocabSeen[tag] = true
				s.vocab = append(s.vocab, tag)
			}
		}
	}

	// Records already carry sorted tags, but vocabulary order must not
	// depend on record order across refits.
	sort.Strings(s.vocab)
	s.vocabIndex = make(map[string]int, len(s.vocab))
	for i, tag := range s.vocab {
		s.vocabIndex[tag] = i
	}

	s.schema = buildSchema(s.vocab)
	return s, nil
}

// buildSchema lays out [achievement, interest, tag_0..tag_{v-1}, tag:?].
func buildSchema(vocab []string) feature.Schema {
	components := make([]feature.Component, 0, 2+len(vocab)+1)
	components = append(components,
		feature.NewComponent("achievement", feature.NormalizedNumeric),
		feature.NewComponent("interest", feature.NormalizedNumeric),
	)
	for _, tag := range vocab {
		components = append(components, feature.NewComponent("tag:"+tag, feature.OneHotCategorical))
	}
	components = append(components, feature.NewComponent(UnknownTag, feature.OneHotCategorical))
	return feature.NewSchema(components)
}

// Transform applies the fitted parameters to one record.
// Returns ErrSchemaMismatch when the record's type was not part of the
// fitted population. Missing scores encode to the midpoint; tags unseen at
// fit time light up the unknown dimension rather than failing.
func (s *Snapshot) Transform(r record.Record) (feature.Vector, error) {
	if !s.types[r.RecordType()] {
		return feature.Vector{}, domain.NewSchemaMismatch("type " + string(r.RecordType()))
	}

	values := make([]float64, s.schema.Len())
	values[0] = s.achievement.normalize(r.Achievement())
	values[1] = s.interest.normalize(r.Interest())

	unknownIdx := s.schema.Len() - 1
	for _, tag := range r.Tags() {
		if i, ok := s.vocabIndex[tag]; ok {
			values[2+i] = 1
		} else {
			values[unknownIdx] = 1
		}
	}

	return feature.New(r.ID(), s.id, values, s.schema, r.CreatedAt())
}

// TransformAll encodes every record against the fitted state. All returned
// vectors share one schema.
func (s *Snapshot) TransformAll(records []record.Record) ([]feature.Vector, error) {
	vectors := make([]feature.Vector, 0, len(records))
	for i := range records {
		v, err := s.Transform(records[i])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// ID returns the snapshot identifier used for staleness checks.
func (s *Snapshot) ID() string { return s.id }

// VectorSchema returns the shared component layout.
func (s *Snapshot) VectorSchema() feature.Schema { return s.schema }

// Vocabulary returns the sorted tag vocabulary observed at fit time.
func (s *Snapshot) Vocabulary() []string { return s.vocab }

// Size returns the population size the snapshot was fitted on.
func (s *Snapshot) Size() int { return s.size }

// FittedAt returns the fit time.
func (s *Snapshot) FittedAt() time.Time { return s.fittedAt }

// Covers reports whether the fitted population contained the given type.
func (s *Snapshot) Covers(t record.Type) bool { return s.types[t] }
