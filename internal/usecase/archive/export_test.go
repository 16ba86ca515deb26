package archive

import (
	"context"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

func makeRecord(t *testing.T, id string, typ record.Type, achievement, interest float64, tags []string, createdAt time.Time) record.Record {
	t.Helper()
	r, err := record.New(id, "record "+id, typ, "cat", achievement, interest, tags, createdAt, "free text", "notes", record.DefaultScale())
	if err != nil {
		t.Fatalf("record.New(%s): %v", id, err)
	}
	return r
}

func TestExportCSV(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockRepo{listRecs: []record.Record{
		makeRecord(t, "s1", record.Subject, 88, 72, []string{"algebra", "proofs"}, ts),
		makeRecord(t, "b1", record.Book, math.NaN(), 90, nil, ts),
		makeRecord(t, "s2", record.Subject, 60, math.NaN(), nil, ts.Add(time.Hour)),
	}}
	svc := newService(repo)

	var buf strings.Builder
	if err := svc.ExportCSV(context.Background(), record.Subject, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	// Header plus the two subject rows; the book row is filtered out.
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[0][0] != "id" || rows[0][6] != "tags" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "s1" || rows[2][0] != "s2" {
		t.Errorf("row order = [%s, %s], want [s1, s2]", rows[1][0], rows[2][0])
	}
	if rows[1][6] != "algebra;proofs" {
		t.Errorf("tags cell = %q, want algebra;proofs", rows[1][6])
	}
	if rows[2][5] != "" {
		t.Errorf("missing interest cell = %q, want empty", rows[2][5])
	}
	if rows[1][7] != ts.Format(time.RFC3339) {
		t.Errorf("created_at cell = %q", rows[1][7])
	}
}

func TestExportCSV_InvalidType(t *testing.T) {
	svc := newService(&mockRepo{})

	var buf strings.Builder
	if err := svc.ExportCSV(context.Background(), record.Type("exam"), &buf); err == nil {
		t.Fatal("expected error for invalid type")
	}
}
