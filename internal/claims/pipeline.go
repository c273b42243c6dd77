package claims

import (
	"context"

	"go.uber.org/zap"

	"github.com/greenlens/claims-cli/internal/embed"
	"github.com/greenlens/claims-cli/internal/index"
	"github.com/greenlens/claims-cli/internal/model"
	"github.com/greenlens/claims-cli/pkg/anthropic"
)

// Options tune the pipeline stages. Zero values fall back to defaults
// matching the offline-calibrated behaviour of the system.
type Options struct {
	RetrieveTopK       int
	CompanyTopN        int
	PassagesPerCompany int
	ExcerptMaxLen      int
	MaxAttempts        int
	Model              string
	MaxTokens          int64
}

func (o *Options) applyDefaults() {
	if o.RetrieveTopK <= 0 {
		o.RetrieveTopK = 500
	}
	if o.CompanyTopN <= 0 {
		o.CompanyTopN = 5
	}
	if o.PassagesPerCompany <= 0 {
		o.PassagesPerCompany = 30
	}
	if o.ExcerptMaxLen <= 0 {
		o.ExcerptMaxLen = 160
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 2
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 8192
	}
}

// Pipeline wires the stages over shared, request-safe collaborators: the
// immutable evidence store, a stateless embedder, and the model client.
type Pipeline struct {
	retriever *Retriever
	extractor *Extractor
	opts      Options
}

// NewPipeline builds the pipeline once at startup; one Pipeline serves
// concurrent requests.
func NewPipeline(store *index.Store, embedder embed.Embedder, llm anthropic.Client, opts Options) *Pipeline {
	opts.applyDefaults()
	return &Pipeline{
		retriever: NewRetriever(store, embedder),
		extractor: NewExtractor(llm, opts.Model, opts.MaxTokens, opts.MaxAttempts),
		opts:      opts,
	}
}

// Extract runs one request end to end. Every outcome is a structured result,
// never a panic: empty retrieval and an unmatched preferred company are
// zero-claims successes, and unparseable model output is OK=false with the
// raw text attached. External-service faults surface as OK=false with an
// error log rather than propagating to the caller.
func (p *Pipeline) Extract(ctx context.Context, query, preferredCompany string) model.ExtractionResult {
	log := zap.L().With(
		zap.String("query", query),
		zap.String("preferred_company", preferredCompany),
	)

	passages, err := p.retriever.Retrieve(ctx, query, p.opts.RetrieveTopK)
	if err != nil {
		log.Error("claims: retrieval failed", zap.Error(err))
		return model.ExtractionResult{OK: false, SelectedCompany: preferredCompany, Claims: []model.Claim{}}
	}
	if len(passages) == 0 {
		log.Info("claims: empty retrieval")
		return model.ExtractionResult{OK: true, SelectedCompany: preferredCompany, Claims: []model.Claim{}}
	}

	pool := passages
	if preferredCompany != "" {
		pool = FilterByCompany(passages, preferredCompany)
		if len(pool) == 0 {
			log.Info("claims: preferred company matched no passages")
			return model.ExtractionResult{OK: true, SelectedCompany: preferredCompany, Claims: []model.Claim{}}
		}
	}

	ranked := RankCompanies(pool, p.opts.CompanyTopN)
	selected := ChooseCompany(ranked, preferredCompany)
	if selected == "" {
		// Filtered passages whose company names all fail the final match
		// check; keep the user's requested name in the result.
		log.Info("claims: no company selected")
		return model.ExtractionResult{OK: true, SelectedCompany: preferredCompany, Claims: []model.Claim{}}
	}
	log.Info("claims: company selected",
		zap.String("company", selected),
		zap.Int("candidates", len(ranked)),
	)

	selectedPassages := SelectPassages(pool, selected, p.opts.PassagesPerCompany)

	parsed, citeMap, raw, state, err := p.extractor.Extract(ctx, selected, selectedPassages)
	if err != nil {
		log.Error("claims: model call failed", zap.Error(err))
		return model.ExtractionResult{OK: false, SelectedCompany: selected, Claims: []model.Claim{}}
	}
	if state == ParseFailed {
		log.Warn("claims: output unresolvable after repair", zap.Int("raw_len", len(raw)))
		return model.ExtractionResult{OK: false, SelectedCompany: selected, Raw: raw, Claims: []model.Claim{}}
	}

	enriched := EnrichClaims(parsed, citeMap, p.opts.ExcerptMaxLen)
	deduped := DedupeClaims(enriched)

	log.Info("claims: extraction complete",
		zap.Int("claims", len(deduped)),
		zap.Bool("recovered_parse", state == ParseRecovered),
	)
	return model.ExtractionResult{OK: true, SelectedCompany: selected, Claims: deduped}
}
