package claims

import (
	"sort"
	"strings"

	"github.com/greenlens/claims-cli/internal/model"
)

// normName strips all whitespace and lower-cases a company name for fuzzy
// comparison.
func normName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// MatchCompanyName reports whether a passage's company name and a
// user-preferred name refer to the same company. Names match when either
// normalized form contains the other, which tolerates year-suffixed store
// names ("台塑2024" matches "台塑"). Empty names never match.
func MatchCompanyName(name, preferred string) bool {
	n1 := normName(name)
	n2 := normName(preferred)
	if n1 == "" || n2 == "" {
		return false
	}
	return strings.Contains(n1, n2) || strings.Contains(n2, n1)
}

// FilterByCompany keeps only passages whose company fuzzily matches the
// preferred name, preserving order.
func FilterByCompany(passages []model.Passage, preferred string) []model.Passage {
	var out []model.Passage
	for _, p := range passages {
		if MatchCompanyName(p.Company, preferred) {
			out = append(out, p)
		}
	}
	return out
}

// RankCompanies aggregates passage scores per company and returns the topN
// companies by total score, highest first. Ties keep first-seen order.
func RankCompanies(passages []model.Passage, topN int) []model.CompanyScore {
	agg := make(map[string]float64)
	var order []string
	for _, p := range passages {
		if p.Company == "" {
			continue
		}
		if _, seen := agg[p.Company]; !seen {
			order = append(order, p.Company)
		}
		agg[p.Company] += p.Score
	}

	ranked := make([]model.CompanyScore, 0, len(order))
	for _, c := range order {
		ranked = append(ranked, model.CompanyScore{Company: c, Score: agg[c]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked
}

// ChooseCompany picks one company from the ranking. With a preferred name it
// returns the highest-ranked fuzzy match, or "" when nothing matches — the
// caller must not fall back to an unrelated top-ranked company. Without a
// preference it returns the top-ranked company.
func ChooseCompany(ranked []model.CompanyScore, preferred string) string {
	if len(ranked) == 0 {
		return ""
	}
	if preferred != "" {
		for _, cs := range ranked {
			if MatchCompanyName(cs.Company, preferred) {
				return cs.Company
			}
		}
		return ""
	}
	return ranked[0].Company
}

// SelectPassages narrows passages to those of the resolved company (exact
// match at this stage), sorted descending by score and truncated to limit.
func SelectPassages(passages []model.Passage, company string, limit int) []model.Passage {
	var out []model.Passage
	for _, p := range passages {
		if p.Company == company {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
