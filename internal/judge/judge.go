// Package judge synthesizes the disclosure claims and the press-coverage
// events into a narrative greenwashing-risk assessment for end users.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/greenlens/claims-cli/internal/model"
	"github.com/greenlens/claims-cli/pkg/anthropic"
)

// judgeTemperature leaves a little room for prose while staying repeatable.
const judgeTemperature = 0.2

const judgeSystemText = "You are a rigorous sustainability-disclosure and media analyst. Write clear, structured prose in the language of the user's question."

const judgePrompt = `You are a greenwashing-risk interpretation agent. Combine the
commitments from the company's sustainability report with the external news
and controversies, and write an explanation a general reader can follow to
judge greenwashing risk. Answer in the same language as the user's question.

USER QUESTION:
%s

COMPANY UNDER REVIEW:
%s

REPORT COMMITMENTS (JSON — read and summarize, do not paste verbatim):
%s

EXTERNAL NEWS AND CONTROVERSIES (JSON — read and summarize, do not paste
verbatim):
%s

Structure the answer as numbered sections of flowing text plus bullets. Do
not output JSON or any bracketed data structures:

1. Restate the question and the company in 1-3 sentences.
2. Key report commitments: 2-6 bullets, each naming the topic and the gist.
   When a commitment maps to a passage, end the bullet with a note like
   "(report source: meta_id=822)".
3. Key external events: 2-6 bullets with the gist and likely impact. Mark
   cited items with "(news source)" rather than pasting full links.
4. Overall judgement: state exactly one of "[greenwashing risk: low]",
   "[greenwashing risk: medium]", or "[greenwashing risk: high]", then
   explain in 3-6 sentences, addressing decoupling (polished commitments
   against heavy controversy) and omission (major external events the
   report barely acknowledges).
5. Limitations: 1-3 bullets on what you cannot be sure of (data recency,
   single-outlet reporting), making clear this is text-evidence-based
   interpretation, not an audit or legal conclusion.`

// claimBrief is the compact claim projection shown to the judge model.
type claimBrief struct {
	ClaimText  string `json:"claim_text"`
	Topic      string `json:"topic"`
	TargetYear *int   `json:"target_year"`
	Certainty  string `json:"certainty"`
	MetaIDs    []int  `json:"meta_ids"`
}

// newsBrief is the compact event projection shown to the judge model.
type newsBrief struct {
	Title     string  `json:"title"`
	Date      string  `json:"date,omitempty"`
	Summary   string  `json:"summary"`
	Severity  string  `json:"severity"`
	Link      string  `json:"link,omitempty"`
	Relevance float64 `json:"relevance_score,omitempty"`
}

// BuildClaimBrief compacts at most limit claims down to the fields the
// judge needs, keeping the passage ids their evidence came from.
func BuildClaimBrief(claims []model.Claim, limit int) []claimBrief {
	if limit > 0 && limit < len(claims) {
		claims = claims[:limit]
	}
	out := make([]claimBrief, 0, len(claims))
	for _, c := range claims {
		ids := make([]int, 0, len(c.SourceChunks))
		for _, ch := range c.SourceChunks {
			ids = append(ids, ch.ID)
		}
		out = append(out, claimBrief{
			ClaimText:  c.ClaimText,
			Topic:      string(c.Topic),
			TargetYear: c.TargetYear,
			Certainty:  string(c.Certainty),
			MetaIDs:    ids,
		})
	}
	return out
}

// BuildNewsBrief compacts at most limit events, pulling the first resolved
// source's link and relevance alongside the event summary.
func BuildNewsBrief(events []model.NewsEvent, limit int) []newsBrief {
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	out := make([]newsBrief, 0, len(events))
	for _, e := range events {
		brief := newsBrief{
			Title:    e.EventTitle,
			Date:     e.EventDate,
			Summary:  e.EventText,
			Severity: e.Severity,
		}
		if len(e.Sources) > 0 {
			brief.Link = e.Sources[0].Link
			brief.Relevance = e.Sources[0].RelevanceScore
		}
		out = append(out, brief)
	}
	return out
}

// Judge produces the narrative assessment.
type Judge struct {
	llm        anthropic.Client
	model      string
	maxTokens  int64
	briefLimit int
}

// New builds a Judge. briefLimit caps the claims and events shown to the
// model; <= 0 means 30.
func New(llm anthropic.Client, modelID string, maxTokens int64, briefLimit int) *Judge {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if briefLimit <= 0 {
		briefLimit = 30
	}
	return &Judge{llm: llm, model: modelID, maxTokens: maxTokens, briefLimit: briefLimit}
}

// Assess writes the user-facing narrative for one query. The company is
// taken from the extraction result, falling back to the news report.
func (j *Judge) Assess(ctx context.Context, query string, extraction *model.ExtractionResult, news *model.NewsReport) (string, error) {
	company := ""
	var claims []model.Claim
	if extraction != nil {
		company = extraction.SelectedCompany
		claims = extraction.Claims
	}
	var events []model.NewsEvent
	if news != nil {
		if company == "" {
			company = news.SelectedCompany
		}
		events = news.Events
	}
	if company == "" {
		company = "the company in question"
	}

	claimsJSON, err := json.Marshal(BuildClaimBrief(claims, j.briefLimit))
	if err != nil {
		return "", eris.Wrap(err, "judge: marshal claim brief")
	}
	newsJSON, err := json.Marshal(BuildNewsBrief(events, j.briefLimit))
	if err != nil {
		return "", eris.Wrap(err, "judge: marshal news brief")
	}

	temp := judgeTemperature
	prompt := fmt.Sprintf(judgePrompt, query, company, claimsJSON, newsJSON)
	resp, err := j.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       j.model,
		MaxTokens:   j.maxTokens,
		System:      judgeSystemText,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "judge: assessment call")
	}
	resp.Usage.LogCost(j.model, "judge")

	return strings.TrimSpace(resp.Text()), nil
}
