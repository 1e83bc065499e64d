package domain

// RetrievedMatch is a transient similarity search result, ordered by
// descending similarity. Never persisted.
type RetrievedMatch struct {
	Content    string
	Similarity float32
}
