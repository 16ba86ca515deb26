package similarity

import (
	"errors"
	"testing"
	"time"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/feature"
)

var baseTime = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func planeSchema() feature.Schema {
	return feature.NewSchema([]feature.Component{
		feature.NewComponent("achievement", feature.NormalizedNumeric),
		feature.NewComponent("interest", feature.NormalizedNumeric),
	})
}

func makeVector(t *testing.T, id, snapshotID string, x, y float64, createdAt time.Time) feature.Vector {
	t.Helper()
	v, err := feature.New(id, snapshotID, []float64{x, y}, planeSchema(), createdAt)
	if err != nil {
		t.Fatalf("feature.New(%s): %v", id, err)
	}
	return v
}

func TestNeighbors_OrderAndSelfExclusion(t *testing.T) {
	// Query at origin; (1,0) and (0,1) tie at distance 1, (5,5) is far.
	vectors := []feature.Vector{
		makeVector(t, "query", "snap", 0, 0, baseTime),
		makeVector(t, "east", "snap", 1, 0, baseTime),
		makeVector(t, "north", "snap", 0, 1, baseTime),
		makeVector(t, "far", "snap", 5, 5, baseTime),
	}

	svc := New(Euclidean)
	got, err := svc.Neighbors(vectors, "query", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equal timestamps: the (1,0)/(0,1) tie breaks by record ID ascending.
	want := []string{"east", "north", "far"}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbors, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i].RecordID() != want[i] {
			t.Errorf("rank %d = %q, want %q", i+1, got[i].RecordID(), want[i])
		}
		if got[i].RecordID() == "query" {
			t.Error("query record must be excluded from its own neighbors")
		}
		if got[i].Rank() != i+1 {
			t.Errorf("neighbor %d rank = %d, want %d", i, got[i].Rank(), i+1)
		}
	}
}

func TestNeighbors_DistancesNonDecreasing(t *testing.T) {
	vectors := []feature.Vector{
		makeVector(t, "q", "snap", 0.5, 0.5, baseTime),
		makeVector(t, "a", "snap", 0.4, 0.5, baseTime),
		makeVector(t, "b", "snap", 0.9, 0.1, baseTime),
		makeVector(t, "c", "snap", 0.5, 0.6, baseTime),
		makeVector(t, "d", "snap", 0, 0, baseTime),
	}

	got, err := New(Euclidean).Neighbors(vectors, "q", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Distance() < got[i-1].Distance() {
			t.Errorf("distance at rank %d (%v) below rank %d (%v)",
				i+1, got[i].Distance(), i, got[i-1].Distance())
		}
	}
}

func TestNeighbors_TimestampTieBreak(t *testing.T) {
	older := baseTime
	newer := baseTime.Add(time.Hour)

	// Both candidates sit at the same distance; the newer record wins.
	vectors := []feature.Vector{
		makeVector(t, "q", "snap", 0, 0, baseTime),
		makeVector(t, "old", "snap", 1, 0, older),
		makeVector(t, "new", "snap", 0, 1, newer),
	}

	got, err := New(Euclidean).Neighbors(vectors, "q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].RecordID() != "new" || got[1].RecordID() != "old" {
		t.Errorf("order = [%s, %s], want [new, old]", got[0].RecordID(), got[1].RecordID())
	}
}

func TestNeighbors_ExactlyK(t *testing.T) {
	vectors := []feature.Vector{
		makeVector(t, "q", "snap", 0, 0, baseTime),
		makeVector(t, "a", "snap", 1, 0, baseTime),
		makeVector(t, "b", "snap", 2, 0, baseTime),
		makeVector(t, "c", "snap", 3, 0, baseTime),
	}

	for k := 1; k <= 3; k++ {
		got, err := New(Euclidean).Neighbors(vectors, "q", k)
		if err != nil {
			t.Fatalf("k=%d: unexpected error: %v", k, err)
		}
		if len(got) != k {
			t.Errorf("k=%d: got %d neighbors", k, len(got))
		}
	}
}

func TestNeighbors_Errors(t *testing.T) {
	vectors := []feature.Vector{
		makeVector(t, "q", "snap", 0, 0, baseTime),
		makeVector(t, "a", "snap", 1, 0, baseTime),
	}
	svc := New(Euclidean)

	t.Run("empty population", func(t *testing.T) {
		_, err := svc.Neighbors(nil, "q", 1)
		if !errors.Is(err, domain.ErrEmptyPopulation) {
			t.Fatalf("error = %v, want ErrEmptyPopulation", err)
		}
	})

	t.Run("unknown query", func(t *testing.T) {
		_, err := svc.Neighbors(vectors, "ghost", 1)
		if !errors.Is(err, domain.ErrRecordNotFound) {
			t.Fatalf("error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("k zero", func(t *testing.T) {
		if _, err := svc.Neighbors(vectors, "q", 0); err == nil {
			t.Fatal("expected error for k = 0")
		}
	})

	t.Run("k equals population", func(t *testing.T) {
		_, err := svc.Neighbors(vectors, "q", 2)
		if !errors.Is(err, domain.ErrInsufficientCandidates) {
			t.Fatalf("error = %v, want ErrInsufficientCandidates", err)
		}
		var detail *domain.InsufficientCandidatesError
		if !errors.As(err, &detail) {
			t.Fatal("expected InsufficientCandidatesError detail")
		}
		if detail.Requested != 2 || detail.Available != 1 {
			t.Errorf("detail = %d/%d, want 2/1", detail.Requested, detail.Available)
		}
	})

	t.Run("mixed snapshots", func(t *testing.T) {
		stale := makeVector(t, "b", "old-snap", 0, 1, baseTime)
		_, err := svc.Neighbors(append(vectors, stale), "q", 1)
		if !errors.Is(err, domain.ErrStaleEncoding) {
			t.Fatalf("error = %v, want ErrStaleEncoding", err)
		}
	})
}

func TestNeighbors_CacheSurvivesRepeatQueriesAndDropsOnRefit(t *testing.T) {
	svc := New(Euclidean)

	first := []feature.Vector{
		makeVector(t, "q", "snap-1", 0, 0, baseTime),
		makeVector(t, "a", "snap-1", 1, 0, baseTime),
	}
	if _, err := svc.Neighbors(first, "q", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Neighbors(first, "a", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.cache) == 0 {
		t.Error("expected cached pairwise distances")
	}

	// Same IDs, different snapshot, different geometry. The cache must not
	// serve the old distance.
	second := []feature.Vector{
		makeVector(t, "q", "snap-2", 0, 0, baseTime),
		makeVector(t, "a", "snap-2", 3, 4, baseTime),
	}
	got, err := svc.Neighbors(second, "q", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Distance() != 5 {
		t.Errorf("distance = %v, want 5 (recomputed after snapshot change)", got[0].Distance())
	}
}
