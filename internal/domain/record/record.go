package record

import (
	"fmt"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
)

// Type is the closed variant of an archived experience.
type Type string

// Record type constants.
const (
	// Subject is a school subject record.
	Subject Type = "subject"
	// Activity is an extracurricular activity record.
	Activity Type = "activity"
	// Book is a reading log record.
	Book Type = "book"
)

// IsValid reports whether t is one of the declared record types.
func (t Type) IsValid() bool {
	switch t {
	case Subject, Activity, Book:
		return true
	}
	return false
}

// Types returns all declared record types in a fixed order.
func Types() []Type {
	return []Type{Subject, Activity, Book}
}

// Scale is the bounded range achievement and interest scores must lie in.
type Scale struct {
	min float64
	max float64
}

// NewScale validates and creates a Scale.
func NewScale(min, max float64) (Scale, error) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return Scale{}, fmt.Errorf("scale bounds must be numbers")
	}
	if min >= max {
		return Scale{}, fmt.Errorf("scale min %v must be below max %v", min, max)
	}
	return Scale{min: min, max: max}, nil
}

// DefaultScale returns the 0-100 scale.
func DefaultScale() Scale {
	return Scale{min: 0, max: 100}
}

// Min returns the lower bound.
func (s Scale) Min() float64 { return s.min }

// Max returns the upper bound.
func (s Scale) Max() float64 { return s.max }

// Contains reports whether v lies within the scale bounds.
func (s Scale) Contains(v float64) bool {
	return v >= s.min && v <= s.max
}

// MaxNameLength is the maximum allowed record name length in runes.
const MaxNameLength = 256

// Record is one archived experience (immutable value object).
// Achievement and interest may be NaN, meaning the score was not supplied;
// encoding substitutes the normalized midpoint for missing scores.
type Record struct {
	id          string
	name        string
	recordType  Type
	category    string
	achievement float64
	interest    float64
	tags        []string
	createdAt   time.Time
	freeText    string
	notes       string
}

// New validates and creates a Record.
// Scores must lie within scale or be NaN (missing). Tags are deduplicated and sorted.
func New(
	id, name string, t Type, category string,
	achievement, interest float64,
	tags []string, createdAt time.Time, freeText, notes string,
	scale Scale,
) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("record ID is required")
	}
	if name == "" {
		return Record{}, fmt.Errorf("record name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return Record{}, fmt.Errorf("record name too long (max %d)", MaxNameLength)
	}
	if !t.IsValid() {
		return Record{}, fmt.Errorf("invalid record type %q", t)
	}
	if !math.IsNaN(achievement) && !scale.Contains(achievement) {
		return Record{}, domain.NewScoreOutOfRange("achievement", achievement, scale.Min(), scale.Max())
	}
	if !math.IsNaN(interest) && !scale.Contains(interest) {
		return Record{}, domain.NewScoreOutOfRange("interest", interest, scale.Min(), scale.Max())
	}
	if createdAt.IsZero() {
		return Record{}, fmt.Errorf("record timestamp is required")
	}

	return Record{
		id:          id,
		name:        name,
		recordType:  t,
		category:    category,
		achievement: achievement,
		interest:    interest,
		tags:        normalizeTags(tags),
		createdAt:   createdAt,
		freeText:    freeText,
		notes:       notes,
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(
	id, name string, t Type, category string,
	achievement, interest float64,
	tags []string, createdAt time.Time, freeText, notes string,
) Record {
	return Record{
		id: id, name: name, recordType: t, category: category,
		achievement: achievement, interest: interest,
		tags: normalizeTags(tags), createdAt: createdAt,
		freeText: freeText, notes: notes,
	}
}

// ID returns the stable record identifier.
func (r *Record) ID() string { return r.id }

// Name returns the experience name.
func (r *Record) Name() string { return r.name }

// RecordType returns the closed type variant.
func (r *Record) RecordType() Type { return r.recordType }

// Category returns the free-form category (subject field, activity kind).
func (r *Record) Category() string { return r.category }

// Achievement returns the achievement score (NaN when missing).
func (r *Record) Achievement() float64 { return r.achievement }

// Interest returns the interest score (NaN when missing).
func (r *Record) Interest() float64 { return r.interest }

// HasAchievement reports whether an achievement score was supplied.
func (r *Record) HasAchievement() bool { return !math.IsNaN(r.achievement) }

// HasInterest reports whether an interest score was supplied.
func (r *Record) HasInterest() bool { return !math.IsNaN(r.interest) }

// Tags returns the sorted, deduplicated tag set.
func (r *Record) Tags() []string { return r.tags }

// CreatedAt returns the record timestamp.
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// FreeText returns the unstructured reflection text (never encoded numerically).
func (r *Record) FreeText() string { return r.freeText }

// Notes returns the short memo attached to the record.
func (r *Record) Notes() string { return r.notes }

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
