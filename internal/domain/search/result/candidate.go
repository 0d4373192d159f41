package result

// Candidate is a scored webinar id coming out of a retrieval stage, before
// metadata aggregation.
type Candidate struct {
	ID    string
	Score float64
}
