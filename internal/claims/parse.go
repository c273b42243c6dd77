package claims

import (
	"encoding/json"
	"strings"

	"github.com/greenlens/claims-cli/internal/model"
)

// ParseState is the outcome of the tolerant model-output parse.
type ParseState int

const (
	// ParseStrict means the whole response parsed as a JSON array.
	ParseStrict ParseState = iota
	// ParseRecovered means the array was salvaged from a bracketed span
	// inside surrounding prose. Advisory recovery, not a guarantee.
	ParseRecovered
	// ParseFailed means no array could be extracted; the raw text is all
	// the caller gets.
	ParseFailed
)

// ParseClaims parses untrusted model output into claims. It first tries the
// trimmed text as a whole, then falls back to the span from the first '[' to
// the last ']'. An empty parsed array is a successful zero-claims result.
func ParseClaims(raw string) ([]model.Claim, ParseState) {
	text := strings.TrimSpace(raw)

	var claims []model.Claim
	if err := json.Unmarshal([]byte(text), &claims); err == nil {
		return claims, ParseStrict
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		claims = nil
		if err := json.Unmarshal([]byte(text[start:end+1]), &claims); err == nil {
			return claims, ParseRecovered
		}
	}

	return nil, ParseFailed
}
