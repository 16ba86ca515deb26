package archive

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

var exportHeader = []string{
	"id", "name", "type", "category", "achievement", "interest", "tags", "created_at", "free_text", "notes",
}

// ExportCSV writes all records of one type as CSV, the backup format of the
// archive. Rows are ordered by creation time, oldest first.
func (s *Service) ExportCSV(ctx context.Context, t record.Type, w io.Writer) error {
	if !t.IsValid() {
		return fmt.Errorf("invalid record type %q", t)
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		r := &records[i]
		if r.RecordType() != t {
			continue
		}
		row := []string{
			r.ID(), r.Name(), string(r.RecordType()), r.Category(),
			formatScore(r.Achievement()), formatScore(r.Interest()),
			strings.Join(r.Tags(), ";"),
			r.CreatedAt().Format(time.RFC3339),
			r.FreeText(), r.Notes(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// formatScore renders a score, empty for missing values.
func formatScore(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
