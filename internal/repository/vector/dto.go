package vector

import (
	"strings"

	"github.com/Kcodess2807/Blitz-Protocol/internal/db"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/document"
	"github.com/Kcodess2807/Blitz-Protocol/internal/domain/search"
)

// Reserved hash fields. Metadata keys never start with "__".
const (
	fieldVector  = "__vector"
	fieldContent = "__content"
)

// hashFields builds the Redis hash for one stored chunk: the vector
// blob, the content and every metadata pair as a plain field.
func hashFields(doc document.Stored) map[string]string {
	fields := make(map[string]string, len(doc.Metadata)+2)
	fields[fieldVector] = db.VectorToBytes(doc.Vector)
	fields[fieldContent] = doc.Content
	for k, v := range doc.Metadata {
		fields[k] = v
	}
	return fields
}

// returnFields lists what a KNN search should bring back: content plus
// the configured filter tags. The score field is handled by the db layer.
func (r *Repo) returnFields() []string {
	fields := make([]string, 0, len(r.cfg.FilterTags)+2)
	fields = append(fields, fieldContent, "__vector_score")
	fields = append(fields, r.cfg.FilterTags...)
	return fields
}

// entryToResult maps one FT.SEARCH hit to a domain result. The document
// ID is the key without the storage prefix.
func (r *Repo) entryToResult(entry db.SearchEntry) search.Result {
	metadata := make(map[string]string)
	for k, v := range entry.Fields {
		if strings.HasPrefix(k, "__") {
			continue
		}
		metadata[k] = v
	}
	return search.Result{
		ID:         strings.TrimPrefix(entry.Key, r.cfg.KeyPrefix),
		Content:    entry.Fields[fieldContent],
		Metadata:   metadata,
		Similarity: entry.Score,
	}
}
