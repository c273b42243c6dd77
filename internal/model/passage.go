package model

// Passage is one retrievable unit of disclosure text joined with its
// metadata row and the similarity score from the current query.
//
// ID is the ordinal position of the row in the evidence store's metadata
// table. It is stable within a single build of the store only — rebuilding
// the index re-numbers every passage and invalidates previously issued
// citations. It is not a durable cross-build key.
type Passage struct {
	ID      int     `json:"id"`
	Company string  `json:"company"`
	Year    string  `json:"year"`
	Page    int     `json:"page"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// CompanyScore is one entry of the per-request company ranking: the sum of
// similarity scores of all passages attributed to the company within one
// retrieval result. Rankings are always recomputed, never stored.
type CompanyScore struct {
	Company string  `json:"company"`
	Score   float64 `json:"score"`
}
