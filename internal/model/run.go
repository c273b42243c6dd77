package model

import "time"

// RunStatus is the lifecycle state of one analysis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunResult bundles the outputs of one full analysis: the extracted claims,
// the press scan, and the narrative assessment.
type RunResult struct {
	Extraction *ExtractionResult `json:"extraction,omitempty"`
	News       *NewsReport       `json:"news,omitempty"`
	Assessment string            `json:"assessment,omitempty"`
}

// Run is the persisted record of one analysis request.
type Run struct {
	ID               string     `json:"id"`
	Query            string     `json:"query"`
	PreferredCompany string     `json:"preferred_company,omitempty"`
	Status           RunStatus  `json:"status"`
	Result           *RunResult `json:"result,omitempty"`
	Error            string     `json:"error,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
