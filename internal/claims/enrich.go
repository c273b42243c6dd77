package claims

import (
	"strconv"

	"github.com/greenlens/claims-cli/internal/model"
)

// EnrichClaims resolves each claim's citations back to excerpt records with
// text truncated to maxLen. Citations that do not parse as integers or that
// reference ids absent from the citation index contribute nothing — dangling
// citations are dropped silently, never raised as errors.
func EnrichClaims(claims []model.Claim, citeMap map[int]model.Passage, maxLen int) []model.Claim {
	for i := range claims {
		var chunks []model.ExcerptRecord
		for _, cite := range claims[i].SourceCitations {
			id, err := strconv.Atoi(cite)
			if err != nil {
				continue
			}
			p, ok := citeMap[id]
			if !ok {
				continue
			}
			chunks = append(chunks, model.ExcerptRecord{
				ID:      id,
				Company: p.Company,
				Year:    p.Year,
				Page:    p.Page,
				Score:   p.Score,
				Text:    model.Truncate(p.Text, maxLen),
			})
		}
		claims[i].SourceChunks = chunks
	}
	return claims
}
