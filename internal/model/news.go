package model

import "encoding/json"

// NewsItem is one harvested news entry, deduplicated and reranked before
// being offered to the event extractor.
type NewsItem struct {
	Title          string  `json:"title"`
	Link           string  `json:"link"`
	Published      string  `json:"published"`
	Summary        string  `json:"summary"`
	Source         string  `json:"source"`
	Query          string  `json:"query"`
	RelevanceScore float64 `json:"relevance_score,omitempty"`
	EventDateGuess string  `json:"event_date_guess,omitempty"`
}

// NewsEvidence carries the key snippet the extractor picked for an event.
type NewsEvidence struct {
	Snippet string `json:"snippet"`
}

// NewsSource is the resolved source record for one cited news item.
type NewsSource struct {
	Title          string  `json:"title"`
	Link           string  `json:"link"`
	Published      string  `json:"published"`
	Summary        string  `json:"summary"`
	RelevanceScore float64 `json:"relevance_score"`
}

// NewsEvent is one extracted negative environmental/sustainability event.
// SourceCitations are 1-based indexes into the numbered news context, not
// evidence-store passage ids.
type NewsEvent struct {
	EventID         string       `json:"event_id"`
	Company         string       `json:"company"`
	EventTitle      string       `json:"event_title"`
	EventText       string       `json:"event_text"`
	EventDate       string       `json:"event_date,omitempty"`
	Topic           Topic        `json:"topic"`
	Severity        string       `json:"severity"`
	SourceCitations []string     `json:"source_citations"`
	Evidence        NewsEvidence `json:"evidence"`
	Sources         []NewsSource `json:"sources,omitempty"`
}

// UnmarshalJSON decodes an event tolerantly: citation indexes may come back
// as numbers or strings, and event_date may be null.
func (e *NewsEvent) UnmarshalJSON(data []byte) error {
	type alias NewsEvent
	aux := struct {
		SourceCitations []json.RawMessage `json:"source_citations"`
		EventDate       json.RawMessage   `json:"event_date"`
		*alias
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	e.EventDate = ""
	if s := string(aux.EventDate); s != "" && s != "null" {
		_ = json.Unmarshal(aux.EventDate, &e.EventDate)
	}

	e.SourceCitations = nil
	for _, raw := range aux.SourceCitations {
		if cite, ok := parseCitation(raw); ok {
			e.SourceCitations = append(e.SourceCitations, cite)
		}
	}
	return nil
}

// NewsReport is the harvester's terminal shape for one company scan.
type NewsReport struct {
	SelectedCompany string      `json:"selected_company"`
	Events          []NewsEvent `json:"events"`
	Queries         []string    `json:"query"`
	CandidatesUsed  []NewsItem  `json:"candidates_used"`
}
