package news

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/greenlens/claims-cli/internal/model"
	"github.com/greenlens/claims-cli/pkg/anthropic"
)

const eventSystemText = "You are a strict JSON generator. Output ONLY JSON."

const eventPrompt = `MANDATORY OUTPUT FORMAT:
You must output a single JSON object and nothing else.

You are a press-coverage disclosure agent. Extract the negative
environmental/sustainability events involving %s from the cited news below.
If the citations do not support a negative event, output an empty events
array.

COMPANY:
%s

NEWS CITATIONS:
%s

OUTPUT JSON SHAPE:
{
  "selected_company": "%s",
  "events": [
    {
      "event_id": "news_0001",
      "company": "%s",
      "event_title": "...",
      "event_text": "2-4 sentences, in the same language as the cited news",
      "event_date": "YYYY-MM-DD or null",
      "topic": "climate/water/waste/energy/general",
      "severity": "high/medium/low",
      "source_citations": [1, 2],
      "evidence": {
        "snippet": "the single most decisive sentence or span from the citations"
      }
    }
  ]
}

RULES:
1) Use only the cited content. Never speculate.
2) Cite only numbers that appear in the news citations.
3) Judge topic and severity conservatively.`

// eventPayload is the object shape the model is asked to emit.
type eventPayload struct {
	SelectedCompany string            `json:"selected_company"`
	Events          []model.NewsEvent `json:"events"`
}

// buildNewsContext numbers candidates from 1; those indexes are the
// citation keys events refer back to.
func buildNewsContext(items []model.NewsItem) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%d] %s | %s | %s | %s", i+1, it.Title, it.EventDateGuess, it.Summary, it.Link)
	}
	return b.String()
}

// parseEventPayload parses untrusted model output: strict whole-text object
// first, then the span from the first '{' to the last '}'. Nil means
// unparseable.
func parseEventPayload(raw string) *eventPayload {
	text := strings.TrimSpace(raw)

	var payload eventPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil {
		return &payload
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		payload = eventPayload{}
		if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err == nil {
			return &payload
		}
	}
	return nil
}

// ExtractEvents asks the model for negative events grounded in the reranked
// candidates. Unparseable output degrades to an empty events list rather
// than an error; only the model call itself can fail.
func ExtractEvents(ctx context.Context, llm anthropic.Client, modelID string, maxTokens int64, company string, candidates []model.NewsItem) (*eventPayload, error) {
	prompt := fmt.Sprintf(eventPrompt, company, company, buildNewsContext(candidates), company, company)
	temp := 0.0

	resp, err := llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       modelID,
		MaxTokens:   maxTokens,
		System:      eventSystemText,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "news: extract events")
	}
	resp.Usage.LogCost(modelID, "news_events")

	payload := parseEventPayload(resp.Text())
	if payload == nil {
		zap.L().Warn("news: event output failed to parse",
			zap.String("company", company),
		)
		return &eventPayload{SelectedCompany: company}, nil
	}
	return payload, nil
}

// EnrichEventSources resolves each event's 1-based citation indexes back to
// the candidate items. Unparseable or out-of-range citations contribute
// nothing.
func EnrichEventSources(events []model.NewsEvent, candidates []model.NewsItem) {
	for i := range events {
		var sources []model.NewsSource
		for _, cite := range events[i].SourceCitations {
			n, err := strconv.Atoi(cite)
			if err != nil || n < 1 || n > len(candidates) {
				continue
			}
			it := candidates[n-1]
			sources = append(sources, model.NewsSource{
				Title:          it.Title,
				Link:           it.Link,
				Published:      it.Published,
				Summary:        it.Summary,
				RelevanceScore: it.RelevanceScore,
			})
		}
		events[i].Sources = sources
	}
}
