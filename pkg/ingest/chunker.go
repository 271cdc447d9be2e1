package ingest

import "strings"

// ChunkConfig controls recursive character chunking.
type ChunkConfig struct {
	Size    int // target chunk size in runes
	Overlap int // runes repeated between adjacent chunks
}

// DefaultChunkConfig matches the protocol base's original ingestion settings.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{Size: 1000, Overlap: 200}
}

// separators tried in order, coarsest first.
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunk splits content into overlapping segments, preferring to break at
// paragraph, line and sentence boundaries before falling back to hard cuts.
func Chunk(content string, cfg ChunkConfig) []string {
	if cfg.Size <= 0 {
		cfg = DefaultChunkConfig()
	}
	if cfg.Overlap >= cfg.Size {
		cfg.Overlap = cfg.Size / 4
	}

	runes := []rune(content)
	if len(runes) <= cfg.Size {
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + cfg.Size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = splitPoint(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end == len(runes) {
			break
		}
		next := end - cfg.Overlap
		if next <= start {
			next = start + 1 // guarantee forward progress on pathological input
		}
		start = next
	}

	return chunks
}

// splitPoint walks the separator list and returns the latest natural break
// inside the window, or the hard limit when none exists.
func splitPoint(runes []rune, start, limit int) int {
	window := string(runes[start:limit])
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return start + len([]rune(window[:idx+len(sep)]))
		}
	}
	return limit
}
