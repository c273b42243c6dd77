package news

import (
	"context"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/greenlens/claims-cli/internal/embed"
	"github.com/greenlens/claims-cli/internal/model"
)

// rerankQuery is the relevance anchor: negative environmental incidents and
// regulatory action for the company.
const rerankQuery = "%s 環境 永續 負面事件 裁罰 污染"

// Rerank scores each item's title+summary against the incident query by
// embedding similarity and keeps the topK, highest first. Each kept item
// gets its relevance score and a best-effort event date guess attached.
func Rerank(ctx context.Context, embedder embed.Embedder, company string, items []model.NewsItem, topK int) ([]model.NewsItem, error) {
	if len(items) == 0 || topK <= 0 {
		return nil, nil
	}

	query, err := embedder.EmbedQuery(ctx, fmt.Sprintf(rerankQuery, company))
	if err != nil {
		return nil, eris.Wrap(err, "news: embed rerank query")
	}

	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Title + " " + it.Summary
	}
	vecs, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, eris.Wrap(err, "news: embed candidates")
	}

	scored := make([]model.NewsItem, len(items))
	copy(scored, items)
	for i := range scored {
		var score float64
		for d := range query {
			score += float64(query[d]) * float64(vecs[i][d])
		}
		scored[i].RelevanceScore = score
		scored[i].EventDateGuess = GuessEventDate(scored[i].Published)
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].RelevanceScore > scored[b].RelevanceScore
	})
	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}
