package record

import (
	"math"
	"time"

	domrec "github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
)

// recordDTO is the stored JSON shape of a record. Missing scores are nil
// (NaN is not valid JSON).
type recordDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Category    string    `json:"category,omitempty"`
	Achievement *float64  `json:"achievement,omitempty"`
	Interest    *float64  `json:"interest,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	FreeText    string    `json:"free_text,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

func toDTO(r *domrec.Record) recordDTO {
	return recordDTO{
		ID:          r.ID(),
		Name:        r.Name(),
		Type:        string(r.RecordType()),
		Category:    r.Category(),
		Achievement: scoreToPtr(r.Achievement()),
		Interest:    scoreToPtr(r.Interest()),
		Tags:        r.Tags(),
		CreatedAt:   r.CreatedAt(),
		FreeText:    r.FreeText(),
		Notes:       r.Notes(),
	}
}

func fromDTO(d *recordDTO) domrec.Record {
	return domrec.Reconstruct(
		d.ID, d.Name, domrec.Type(d.Type), d.Category,
		ptrToScore(d.Achievement), ptrToScore(d.Interest),
		d.Tags, d.CreatedAt, d.FreeText, d.Notes,
	)
}

func scoreToPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func ptrToScore(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
