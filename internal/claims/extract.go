package claims

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenlens/claims-cli/internal/model"
	"github.com/greenlens/claims-cli/pkg/anthropic"
)

// Extractor invokes the generative model under the array-only output
// contract, with a bounded number of attempts. The first attempt uses the
// full extraction prompt; every later attempt uses the simplified repair
// prompt restating the same evidence.
type Extractor struct {
	llm         anthropic.Client
	model       string
	maxTokens   int64
	maxAttempts int
}

// NewExtractor builds an Extractor. maxAttempts < 1 is treated as 1.
func NewExtractor(llm anthropic.Client, modelID string, maxTokens int64, maxAttempts int) *Extractor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Extractor{
		llm:         llm,
		model:       modelID,
		maxTokens:   maxTokens,
		maxAttempts: maxAttempts,
	}
}

// Extract runs the prompt-and-parse loop for the resolved company. It
// returns the parsed claims, the citation index for the evidence shown to
// the model, the last raw response, and the final parse state. The error is
// non-nil only for model-call faults, never for unparseable output.
func (e *Extractor) Extract(ctx context.Context, company string, passages []model.Passage) ([]model.Claim, map[int]model.Passage, string, ParseState, error) {
	evidence, citeMap := BuildContext(passages)
	temp := 0.0

	var raw string
	var usage anthropic.TokenUsage
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		prompt := buildExtractPrompt(company, evidence)
		if attempt > 1 {
			prompt = buildRepairPrompt(company, evidence)
		}

		resp, err := e.llm.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       e.model,
			MaxTokens:   e.maxTokens,
			System:      extractSystemText,
			Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
			Temperature: &temp,
		})
		if err != nil {
			return nil, citeMap, raw, ParseFailed, eris.Wrapf(err, "claims: extraction attempt %d", attempt)
		}
		usage.Add(resp.Usage)
		raw = resp.Text()

		claims, state := ParseClaims(raw)
		if state != ParseFailed {
			usage.LogCost(e.model, "extract")
			return claims, citeMap, raw, state, nil
		}

		zap.L().Warn("claims: model output failed to parse",
			zap.String("company", company),
			zap.Int("attempt", attempt),
			zap.Int("raw_len", len(raw)),
		)
	}

	usage.LogCost(e.model, "extract")
	return nil, citeMap, raw, ParseFailed, nil
}
