package news

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlens/claims-cli/internal/model"
	"github.com/greenlens/claims-cli/pkg/anthropic"
)

type fakeEmbedder struct {
	query []float32
	texts map[string][]float32
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return f.query, nil
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.texts[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0}
		}
	}
	return out, nil
}

type scriptedLLM struct {
	response string
	err      error
	calls    int
}

func (s *scriptedLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: s.response}},
	}, nil
}

func TestRerank_OrdersByRelevance(t *testing.T) {
	items := []model.NewsItem{
		{Title: "benign", Summary: "pr", Published: "Mon, 03 Aug 2026 08:00:00 GMT"},
		{Title: "spill", Summary: "fine"},
	}
	emb := &fakeEmbedder{
		query: []float32{1, 0},
		texts: map[string][]float32{
			"benign pr":  {0.1, 0},
			"spill fine": {0.9, 0},
		},
	}

	out, err := Rerank(context.Background(), emb, "中油", items, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "spill", out[0].Title)
	assert.InDelta(t, 0.9, out[0].RelevanceScore, 1e-6)
	assert.Equal(t, "2026-08-03", out[1].EventDateGuess)
}

func TestRerank_TopKAndEmpty(t *testing.T) {
	emb := &fakeEmbedder{query: []float32{1, 0}}

	out, err := Rerank(context.Background(), emb, "c", nil, 5)
	require.NoError(t, err)
	assert.Nil(t, out)

	items := []model.NewsItem{{Title: "a"}, {Title: "b"}}
	out, err = Rerank(context.Background(), emb, "c", items, 1)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestParseEventPayload(t *testing.T) {
	strict := `{"selected_company":"中油","events":[]}`
	p := parseEventPayload(strict)
	require.NotNil(t, p)
	assert.Equal(t, "中油", p.SelectedCompany)

	wrapped := "Here you go:\n" + `{"selected_company":"中油","events":[{"event_id":"news_0001","company":"中油","event_title":"t","event_text":"x","event_date":null,"topic":"water","severity":"high","source_citations":[1,"2"],"evidence":{"snippet":"s"}}]}`
	p = parseEventPayload(wrapped)
	require.NotNil(t, p)
	require.Len(t, p.Events, 1)
	assert.Equal(t, []string{"1", "2"}, p.Events[0].SourceCitations)
	assert.Equal(t, "", p.Events[0].EventDate)

	assert.Nil(t, parseEventPayload("no json here"))
}

func TestExtractEvents_DegradesOnGarbage(t *testing.T) {
	llm := &scriptedLLM{response: "cannot comply"}
	payload, err := ExtractEvents(context.Background(), llm, "m", 1024, "中油", []model.NewsItem{{Title: "t"}})
	require.NoError(t, err)
	assert.Equal(t, "中油", payload.SelectedCompany)
	assert.Empty(t, payload.Events)
}

func TestEnrichEventSources(t *testing.T) {
	candidates := []model.NewsItem{
		{Title: "first", Link: "l1", RelevanceScore: 0.9},
		{Title: "second", Link: "l2"},
	}
	events := []model.NewsEvent{
		{SourceCitations: []string{"1", "99", "junk"}},
	}

	EnrichEventSources(events, candidates)
	require.Len(t, events[0].Sources, 1)
	assert.Equal(t, "first", events[0].Sources[0].Title)
	assert.Equal(t, 0.9, events[0].Sources[0].RelevanceScore)
}

func TestBuildNewsContext(t *testing.T) {
	items := []model.NewsItem{
		{Title: "t1", EventDateGuess: "2026-01-01", Summary: "s1", Link: "l1"},
		{Title: "t2"},
	}
	ctx := buildNewsContext(items)
	assert.Contains(t, ctx, "[1] t1 | 2026-01-01 | s1 | l1")
	assert.Contains(t, ctx, "[2] t2")
}
