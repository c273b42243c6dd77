package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarvester_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}))
	defer srv.Close()

	emb := &fakeEmbedder{
		query: []float32{1, 0},
		texts: map[string][]float32{
			"中油工安事件遭裁罰 高雄廠區發生洩漏": {0.9, 0},
			"中油宣示淨零路徑 2050 淨零":     {0.1, 0},
		},
	}
	llm := &scriptedLLM{response: `{"selected_company":"中油","events":[{"event_id":"news_0001","company":"中油","event_title":"裁罰","event_text":"洩漏遭罰","event_date":"2026-08-03","topic":"water","severity":"high","source_citations":[1],"evidence":{"snippet":"高雄廠區發生洩漏"}}]}`}

	h := NewHarvester(srv.Client(), emb, llm, HarvesterOptions{
		Feed: FeedConfig{
			BaseURL:           srv.URL,
			Templates:         []string{"%s 污染"},
			RequestsPerSecond: 1000,
		},
		RerankTopK: 2,
		Model:      "test-model",
	})

	report, err := h.Run(context.Background(), "中油")
	require.NoError(t, err)

	assert.Equal(t, "中油", report.SelectedCompany)
	assert.Equal(t, []string{"中油 污染"}, report.Queries)
	require.Len(t, report.CandidatesUsed, 2)
	assert.Equal(t, "中油工安事件遭裁罰", report.CandidatesUsed[0].Title)

	require.Len(t, report.Events, 1)
	require.Len(t, report.Events[0].Sources, 1)
	assert.Equal(t, "https://example.com/a", report.Events[0].Sources[0].Link)
	assert.Equal(t, 1, llm.calls)
}

func TestHarvester_NoCandidatesSkipsModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`)
	}))
	defer srv.Close()

	llm := &scriptedLLM{response: "{}"}
	h := NewHarvester(srv.Client(), &fakeEmbedder{query: []float32{1, 0}}, llm, HarvesterOptions{
		Feed: FeedConfig{BaseURL: srv.URL, Templates: []string{"%s"}, RequestsPerSecond: 1000},
	})

	report, err := h.Run(context.Background(), "中油")
	require.NoError(t, err)
	assert.Empty(t, report.Events)
	assert.Empty(t, report.CandidatesUsed)
	assert.Zero(t, llm.calls)
}
