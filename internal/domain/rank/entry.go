package rank

// Entry is one position in a weighted ranking.
type Entry struct {
	recordID string
	score    float64
	position int
}

// New creates a ranking entry. Position is 1-based.
func New(recordID string, score float64, position int) Entry {
	return Entry{recordID: recordID, score: score, position: position}
}

// RecordID returns the ranked record's identifier.
func (e *Entry) RecordID() string { return e.recordID }

// Score returns the weighted composite score.
func (e *Entry) Score() float64 { return e.score }

// Position returns the 1-based rank position.
func (e *Entry) Position() int { return e.position }
