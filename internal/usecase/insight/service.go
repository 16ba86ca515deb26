// Package insight derives descriptive views of the archive: keyword counts
// over reflection text and distribution counts per type and category.
package insight

import (
	"context"
	"fmt"
	"sort"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

// DefaultKeywordLimit caps keyword results when no limit is supplied.
const DefaultKeywordLimit = 30

// Repository lists the record population.
type Repository interface {
	List(ctx context.Context) ([]record.Record, error)
}

// Keyword is one counted term.
type Keyword struct {
	Term  string
	Count int
}

// Distribution holds record counts per type and per category.
type Distribution struct {
	Total      int
	ByType     map[string]int
	ByCategory map[string]int
}

// Service computes archive insights.
type Service struct {
	repo Repository
}

// New creates an insight service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Keywords counts terms across notes and free text of all records,
// most frequent first, ties broken alphabetically.
func (s *Service) Keywords(ctx context.Context, limit int) ([]Keyword, error) {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	counts := make(map[string]int)
	for i := range records {
		for _, tok := range tokenize(records[i].Notes()) {
			counts[tok]++
		}
		for _, tok := range tokenize(records[i].FreeText()) {
			counts[tok]++
		}
	}

	keywords := make([]Keyword, 0, len(counts))
	for term, n := range counts {
		keywords = append(keywords, Keyword{Term: term, Count: n})
	}
	sort.Slice(keywords, func(a, b int) bool {
		if keywords[a].Count != keywords[b].Count {
			return keywords[a].Count > keywords[b].Count
		}
		return keywords[a].Term < keywords[b].Term
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords, nil
}

// Distribution counts records per type and per category, the bias-check
// view of the archive.
func (s *Service) Distribution(ctx context.Context) (Distribution, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return Distribution{}, fmt.Errorf("list records: %w", err)
	}

	dist := Distribution{
		Total:      len(records),
		ByType:     make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for i := range records {
		dist.ByType[string(records[i].RecordType())]++
		if cat := records[i].Category(); cat != "" {
			dist.ByCategory[cat]++
		}
	}
	return dist, nil
}
