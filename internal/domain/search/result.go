// Package search defines similarity search results.
package search

// Result is a single similarity hit. Ephemeral: produced per query,
// never persisted.
type Result struct {
	ID         string
	Content    string
	Metadata   map[string]string
	Similarity float64 // in [0, 1]
}
