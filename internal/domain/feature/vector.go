package feature

import (
	"fmt"
	"time"
)

// Kind is the encoding applied to one vector component.
type Kind string

// Component encoding kinds.
const (
	// RawNumeric is a numeric field copied without rescaling.
	RawNumeric Kind = "raw_numeric"
	// NormalizedNumeric is a numeric field rescaled to [0, 1].
	NormalizedNumeric Kind = "normalized_numeric"
	// OneHotCategorical is a 0/1 indicator for one categorical label.
	OneHotCategorical Kind = "one_hot_categorical"
)

// Component describes the provenance of one vector dimension.
type Component struct {
	source string
	kind   Kind
}

// NewComponent creates a component descriptor.
func NewComponent(source string, kind Kind) Component {
	return Component{source: source, kind: kind}
}

// Source returns the source field name.
func (c Component) Source() string { return c.source }

// EncodingKind returns the encoding applied to the component.
func (c Component) EncodingKind() Kind { return c.kind }

// Schema is the ordered layout shared by every vector of one encoding pass.
type Schema struct {
	components []Component
	index      map[string]int
}

// NewSchema creates a schema from ordered components.
func NewSchema(components []Component) Schema {
	idx := make(map[string]int, len(components))
	for i, c := range components {
		idx[c.source] = i
	}
	return Schema{components: components, index: idx}
}

// Len returns the number of dimensions.
func (s Schema) Len() int { return len(s.components) }

// Component returns the descriptor at index i.
func (s Schema) Component(i int) Component { return s.components[i] }

// Index returns the dimension index of a source field.
func (s Schema) Index(source string) (int, bool) {
	i, ok := s.index[source]
	return i, ok
}

// Equal reports whether two schemas have identical layout.
func (s Schema) Equal(other Schema) bool {
	if len(s.components) != len(other.components) {
		return false
	}
	for i := range s.components {
		if s.components[i] != other.components[i] {
			return false
		}
	}
	return true
}

// Vector is the fixed-schema numeric encoding of one record.
// It carries the record identity, the snapshot it was encoded against, and
// the record timestamp used for deterministic tie-breaking downstream.
type Vector struct {
	recordID   string
	snapshotID string
	values     []float64
	schema     Schema
	createdAt  time.Time
}

// New validates and creates a Vector. Value count must match the schema.
func New(recordID, snapshotID string, values []float64, schema Schema, createdAt time.Time) (Vector, error) {
	if recordID == "" {
		return Vector{}, fmt.Errorf("vector record ID is required")
	}
	if snapshotID == "" {
		return Vector{}, fmt.Errorf("vector snapshot ID is required")
	}
	if len(values) != schema.Len() {
		return Vector{}, fmt.Errorf("vector has %d values, schema has %d dimensions", len(values), schema.Len())
	}
	return Vector{
		recordID: recordID, snapshotID: snapshotID,
		values: values, schema: schema, createdAt: createdAt,
	}, nil
}

// RecordID returns the encoded record's identifier.
func (v *Vector) RecordID() string { return v.recordID }

// SnapshotID returns the fitted snapshot the vector was encoded against.
func (v *Vector) SnapshotID() string { return v.snapshotID }

// Values returns the ordered numeric components.
func (v *Vector) Values() []float64 { return v.values }

// Value returns the component at index i.
func (v *Vector) Value(i int) float64 { return v.values[i] }

// Dim returns the number of components.
func (v *Vector) Dim() int { return len(v.values) }

// VectorSchema returns the shared component layout.
func (v *Vector) VectorSchema() Schema { return v.schema }

// CreatedAt returns the source record's timestamp.
func (v *Vector) CreatedAt() time.Time { return v.createdAt }
