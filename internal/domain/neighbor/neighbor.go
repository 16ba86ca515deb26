package neighbor

// Neighbor is one hit of a similarity query.
type Neighbor struct {
	recordID string
	distance float64
	rank     int
}

// New creates a neighbor result. Rank is 1-based.
func New(recordID string, distance float64, rank int) Neighbor {
	return Neighbor{recordID: recordID, distance: distance, rank: rank}
}

// RecordID returns the neighbor's record identifier.
func (n *Neighbor) RecordID() string { return n.recordID }

// Distance returns the distance to the query record.
func (n *Neighbor) Distance() float64 { return n.distance }

// Rank returns the 1-based position among returned neighbors.
func (n *Neighbor) Rank() int { return n.rank }
