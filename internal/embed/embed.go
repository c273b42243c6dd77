// Package embed provides query and document embedding behind a small
// interface so the pipeline can be tested with fakes.
package embed

import "context"

// Embedder produces L2-normalized embedding vectors. Implementations must
// be safe for concurrent use — the pipeline shares one embedder across
// requests.
type Embedder interface {
	// EmbedQuery embeds a single free-text query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch of documents, one vector per input in the
	// same order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
