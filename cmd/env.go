package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/greenlens/claims-cli/internal/claims"
	"github.com/greenlens/claims-cli/internal/embed"
	"github.com/greenlens/claims-cli/internal/index"
	"github.com/greenlens/claims-cli/internal/judge"
	"github.com/greenlens/claims-cli/internal/news"
	"github.com/greenlens/claims-cli/internal/store"
	anthropicpkg "github.com/greenlens/claims-cli/pkg/anthropic"
)

// pipelineEnv holds the initialized evidence store, clients, and pipeline
// stages shared by the run/news/serve commands.
type pipelineEnv struct {
	Index     *index.Store
	Store     store.Store
	Pipeline  *claims.Pipeline
	Harvester *news.Harvester
	Judge     *judge.Judge
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initEnv opens the evidence store and the run log and wires the pipeline.
// Callers should defer env.Close().
func initEnv(ctx context.Context) (*pipelineEnv, error) {
	idx, err := index.Open(cfg.Index.VectorPath, cfg.Index.MetaPath)
	if err != nil {
		return nil, err
	}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	embedder := embed.NewOpenAI(cfg.Embed.Key, cfg.Embed.BaseURL, cfg.Embed.Model)
	llm := anthropicpkg.NewClient(cfg.Anthropic.Key)

	pipeline := claims.NewPipeline(idx, embedder, llm, claims.Options{
		RetrieveTopK:       cfg.Extraction.RetrieveTopK,
		CompanyTopN:        cfg.Extraction.CompanyTopN,
		PassagesPerCompany: cfg.Extraction.PassagesPerCompany,
		ExcerptMaxLen:      cfg.Extraction.ExcerptMaxLen,
		MaxAttempts:        cfg.Extraction.MaxAttempts,
		Model:              cfg.Anthropic.Model,
		MaxTokens:          cfg.Anthropic.MaxTokens,
	})

	templates := cfg.News.QueryTemplates
	if cfg.News.TemplatesFile != "" {
		templates, err = news.LoadTemplates(cfg.News.TemplatesFile)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	harvester := news.NewHarvester(nil, embedder, llm, news.HarvesterOptions{
		Feed: news.FeedConfig{
			Templates:         templates,
			Locale:            cfg.News.Locale,
			Country:           cfg.News.Country,
			Edition:           cfg.News.Edition,
			ItemsPerFeed:      cfg.News.ItemsPerFeed,
			RequestsPerSecond: cfg.News.RequestsPerSecond,
		},
		RerankTopK: cfg.News.RerankTopK,
		Model:      cfg.Anthropic.Model,
		MaxTokens:  cfg.Anthropic.MaxTokens,
	})

	return &pipelineEnv{
		Index:     idx,
		Store:     st,
		Pipeline:  pipeline,
		Harvester: harvester,
		Judge:     judge.New(llm, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.Judge.BriefLimit),
	}, nil
}
