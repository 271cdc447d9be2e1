package store

// Document represents a retrieved protocol fragment flowing through the RAG pipeline.
// Metadata must carry a "source" key identifying provenance for citation.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Score    float32           `json:"score"`
}

// Source returns the provenance identifier of the document, or "desconhecido"
// when the ingestion layer failed to record one.
func (d Document) Source() string {
	if s, ok := d.Metadata["source"]; ok && s != "" {
		return s
	}
	return "desconhecido"
}

// Sources extracts the deduplicated, order-preserving list of provenance
// identifiers from a document set. Used to build citation lists.
func Sources(docs []Document) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, d := range docs {
		s := d.Source()
		if seen[s] {
			continue
		}
		seen[s] = true
		sources = append(sources, s)
	}
	return sources
}
