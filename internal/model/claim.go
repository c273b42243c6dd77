package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Topic classifies a sustainability commitment. Unknown values coming back
// from the model are passed through untouched — the taxonomy is advisory.
type Topic string

const (
	TopicClimate      Topic = "climate"
	TopicWater        Topic = "water"
	TopicWaste        Topic = "waste"
	TopicEnergy       Topic = "energy"
	TopicBiodiversity Topic = "biodiversity"
	TopicGeneral      Topic = "general"
)

// Certainty grades how firmly a commitment is stated in the source text.
type Certainty string

const (
	CertaintyHigh   Certainty = "high"
	CertaintyMedium Certainty = "medium"
	CertaintyLow    Certainty = "low"
)

// ExcerptRecord is a read-only, display-bounded projection of the Passage a
// claim cites. Text is truncated with a trailing ellipsis when cut.
type ExcerptRecord struct {
	ID      int     `json:"meta_id"`
	Company string  `json:"company"`
	Year    string  `json:"year"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
	Text    string  `json:"chunk"`
}

// Claim is a structured record of one stated sustainability commitment.
// Created by the extractor from model output, enriched with source chunks
// by the citation enricher, and merged by the deduplicator.
type Claim struct {
	Company         string          `json:"company"`
	ClaimText       string          `json:"claim_text"`
	Topic           Topic           `json:"topic"`
	TargetYear      *int            `json:"target_year"`
	Metric          string          `json:"metric"`
	Certainty       Certainty       `json:"certainty"`
	SourceCitations []string        `json:"source_citations"`
	SourceChunks    []ExcerptRecord `json:"source_chunks,omitempty"`
}

// MergeKey identifies claims that denote the same real-world commitment:
// two claims with equal keys are duplicates and their citations merge.
func (c *Claim) MergeKey() string {
	return c.Company + "\x00" + NormalizeWS(c.ClaimText) + "\x00" + string(c.Topic) + "\x00" + c.Metric
}

// Clone returns a deep copy so the deduplicator's canonical record never
// aliases the caller's input slices.
func (c *Claim) Clone() Claim {
	out := *c
	if c.TargetYear != nil {
		year := *c.TargetYear
		out.TargetYear = &year
	}
	out.SourceCitations = append([]string(nil), c.SourceCitations...)
	out.SourceChunks = append([]ExcerptRecord(nil), c.SourceChunks...)
	return out
}

// UnmarshalJSON decodes a claim tolerantly: the generative model may emit
// citation ids as numbers or strings and target_year as a number, a numeric
// string, or null. Absent and null target_year both decode to nil.
func (c *Claim) UnmarshalJSON(data []byte) error {
	type alias Claim
	aux := struct {
		TargetYear      json.RawMessage   `json:"target_year"`
		SourceCitations []json.RawMessage `json:"source_citations"`
		*alias
	}{alias: (*alias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	c.TargetYear = parseYear(aux.TargetYear)

	c.SourceCitations = nil
	for _, raw := range aux.SourceCitations {
		if cite, ok := parseCitation(raw); ok {
			c.SourceCitations = append(c.SourceCitations, cite)
		}
	}
	return nil
}

func parseYear(raw json.RawMessage) *int {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	// Years sometimes come back as floats ("2030.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		year := int(f)
		return &year
	}
	return nil
}

func parseCitation(raw json.RawMessage) (string, bool) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		asString = strings.TrimSpace(asString)
		return asString, asString != ""
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.Itoa(int(asNumber)), true
	}
	return "", false
}

// ExtractionResult is the terminal shape of one pipeline request. OK is
// false only when both the primary and repair model responses failed to
// parse; Raw then carries the second attempt's text. An empty Claims slice
// with OK true is genuine zero-claims success.
type ExtractionResult struct {
	OK              bool    `json:"ok"`
	SelectedCompany string  `json:"selected_company,omitempty"`
	Claims          []Claim `json:"claims"`
	Raw             string  `json:"raw,omitempty"`
}
