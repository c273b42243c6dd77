package claims

import (
	"fmt"
	"strings"

	"github.com/greenlens/claims-cli/internal/model"
)

// extractSystemText pins the model into array-only output for both the
// primary and repair attempts.
const extractSystemText = "You are a strict JSON generator. Output ONLY a JSON array. No explanations."

const extractPrompt = `MANDATORY OUTPUT FORMAT:
You must output a JSON array and nothing else. If there are no explicit
commitments, output [].

You are a sustainability-claims extraction agent. Extract the environmental
commitments, targets, strategies, pathways, and policy statements a company
makes, using ONLY the cited evidence below.

COMPANY UNDER REVIEW:
%s

EVIDENCE (use only this content):
%s

OUTPUT REQUIREMENTS:
1) Base every claim strictly on the evidence. Never speculate or invent.
2) Write claim_text in the same language as the evidence passages.
3) Output a JSON array only.
4) Each element must contain:
   - company (set to %s)
   - claim_text (a complete commitment sentence, not a bare section heading)
   - topic (climate/water/waste/energy/biodiversity/general)
   - target_year (null when not stated)
   - metric (e.g. GHG/renewable/energy_efficiency/SS/COD/Oil/Phenol/unknown)
   - certainty (high/medium/low)
   - source_citations (the bracketed passage numbers from the evidence,
     e.g. [123] — never invent numbers)
5) If the evidence contains no explicit commitments, output [].
6) More than 20 claims is fine when the evidence supports them.
7) Merge repeated statements of the same commitment into one entry.
Output JSON only.`

const repairPrompt = `Your previous output was not valid JSON.
Re-answer using the evidence below, outputting a JSON array only.

COMPANY UNDER REVIEW:
%s

EVIDENCE:
%s

FIELDS PER ELEMENT:
- company
- claim_text
- topic
- target_year
- metric
- certainty
- source_citations (the bracketed passage numbers)

Output a JSON array only. If there are no explicit commitments, output [].`

// BuildContext renders the numbered evidence block shown to the model and a
// citation index mapping passage id to passage. The bracketed number on each
// line is the store-ordinal id the model must cite.
func BuildContext(passages []model.Passage) (string, map[int]model.Passage) {
	var b strings.Builder
	citeMap := make(map[int]model.Passage, len(passages))

	for i, p := range passages {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%d] %s | %s | p.%d | %s", p.ID, p.Company, p.Year, p.Page, p.Text)
		citeMap[p.ID] = p
	}
	return b.String(), citeMap
}

func buildExtractPrompt(company, context string) string {
	return fmt.Sprintf(extractPrompt, company, context, company)
}

func buildRepairPrompt(company, context string) string {
	return fmt.Sprintf(repairPrompt, company, context)
}
