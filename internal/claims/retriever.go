// Package claims implements the claim extraction pipeline: retrieval over
// the evidence store, company disambiguation, passage selection, generative
// extraction with a bounded repair loop, citation enrichment, and
// deduplication.
package claims

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenlens/claims-cli/internal/embed"
	"github.com/greenlens/claims-cli/internal/index"
	"github.com/greenlens/claims-cli/internal/model"
)

// Retriever embeds a free-text query and returns the nearest passages with
// metadata joined in.
type Retriever struct {
	store    *index.Store
	embedder embed.Embedder
}

// NewRetriever builds a Retriever over an opened evidence store.
func NewRetriever(store *index.Store, embedder embed.Embedder) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Retrieve returns the topK nearest passages for query, highest score first.
// An empty result is not an error; topK <= 0 yields no passages.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]model.Passage, error) {
	if topK <= 0 {
		return nil, nil
	}

	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "claims: embed query")
	}

	hits, err := r.store.Search(vec, topK)
	if err != nil {
		return nil, eris.Wrap(err, "claims: search index")
	}

	passages := make([]model.Passage, 0, len(hits))
	for _, h := range hits {
		row, ok := r.store.Get(h.ID)
		if !ok {
			continue
		}
		passages = append(passages, model.Passage{
			ID:      h.ID,
			Company: row.Company,
			Year:    row.Year,
			Page:    row.Page,
			Text:    model.NormalizeWS(row.Chunk),
			Score:   h.Score,
		})
	}

	zap.L().Debug("claims: retrieval complete",
		zap.Int("top_k", topK),
		zap.Int("passages", len(passages)),
	)
	return passages, nil
}
