package search

import (
	"context"

	"clinical-assistant-be/pkg/store"
)

// DocumentSearcher is the retrieval capability consumed by the pipeline.
// Implementations return documents ranked best-first; an empty slice (not an
// error) means no matches exist.
type DocumentSearcher interface {
	Search(ctx context.Context, query string, k int) ([]store.Document, error)
}
