package news

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/greenlens/claims-cli/internal/embed"
	"github.com/greenlens/claims-cli/internal/model"
	"github.com/greenlens/claims-cli/pkg/anthropic"
)

// HarvesterOptions tune one company scan.
type HarvesterOptions struct {
	Feed       FeedConfig
	RerankTopK int
	Model      string
	MaxTokens  int64
}

// Harvester runs the full scan: query expansion, RSS harvest, dedup,
// embedding rerank, event extraction, and source enrichment.
type Harvester struct {
	fetcher  *Fetcher
	embedder embed.Embedder
	llm      anthropic.Client
	opts     HarvesterOptions
}

// NewHarvester builds a Harvester; a nil httpClient uses the fetcher
// default.
func NewHarvester(httpClient *http.Client, embedder embed.Embedder, llm anthropic.Client, opts HarvesterOptions) *Harvester {
	if opts.RerankTopK <= 0 {
		opts.RerankTopK = 12
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	return &Harvester{
		fetcher:  NewFetcher(httpClient, opts.Feed),
		embedder: embedder,
		llm:      llm,
		opts:     opts,
	}
}

// Run scans press coverage for one company. The report always carries the
// queries used and the reranked candidates, even when no events come back.
func (h *Harvester) Run(ctx context.Context, company string) (*model.NewsReport, error) {
	queries := BuildQueries(company, h.fetcher.cfg.Templates)

	items, err := h.fetcher.FetchAll(ctx, queries)
	if err != nil {
		return nil, err
	}
	items = DedupeItems(items)

	candidates, err := Rerank(ctx, h.embedder, company, items, h.opts.RerankTopK)
	if err != nil {
		return nil, err
	}

	payload := &eventPayload{SelectedCompany: company}
	if len(candidates) > 0 {
		payload, err = ExtractEvents(ctx, h.llm, h.opts.Model, h.opts.MaxTokens, company, candidates)
		if err != nil {
			return nil, err
		}
	}
	EnrichEventSources(payload.Events, candidates)

	zap.L().Info("news: scan complete",
		zap.String("company", company),
		zap.Int("harvested", len(items)),
		zap.Int("candidates", len(candidates)),
		zap.Int("events", len(payload.Events)),
	)

	return &model.NewsReport{
		SelectedCompany: payload.SelectedCompany,
		Events:          payload.Events,
		Queries:         queries,
		CandidatesUsed:  candidates,
	}, nil
}
