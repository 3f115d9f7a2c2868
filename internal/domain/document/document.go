// Package document defines the stored document aggregate: one embedded
// chunk of an ingested text, owned by the vector store.
package document

import "fmt"

// Stored is a persisted (vector, content, metadata) tuple. Created on
// ingestion, never updated in place: re-ingestion produces new IDs.
type Stored struct {
	ID       string
	Vector   []float32
	Content  string
	Metadata map[string]string
}

// New validates and creates a Stored document.
func New(id, content string, vector []float32, metadata map[string]string) (Stored, error) {
	if id == "" {
		return Stored{}, fmt.Errorf("document ID is required")
	}
	if content == "" {
		return Stored{}, fmt.Errorf("content is required")
	}
	if len(vector) == 0 {
		return Stored{}, fmt.Errorf("vector is required")
	}
	return Stored{
		ID:       id,
		Vector:   vector,
		Content:  content,
		Metadata: cloneMap(metadata),
	}, nil
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
