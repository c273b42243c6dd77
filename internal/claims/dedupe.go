package claims

import (
	"sort"

	"github.com/greenlens/claims-cli/internal/model"
)

// DedupeClaims merges claims that denote the same commitment, keyed by
// (company, whitespace-normalized claim text, topic, metric). The first
// occurrence of a key is deep-copied and retained as the canonical record;
// later occurrences union their citation ids into it (sorted string set)
// and append their source chunks. Output preserves first-occurrence order.
func DedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]int)
	out := make([]model.Claim, 0, len(claims))

	for i := range claims {
		key := claims[i].MergeKey()
		if at, ok := seen[key]; ok {
			existing := &out[at]
			existing.SourceCitations = unionCitations(existing.SourceCitations, claims[i].SourceCitations)
			existing.SourceChunks = append(existing.SourceChunks, claims[i].SourceChunks...)
			continue
		}
		seen[key] = len(out)
		out = append(out, claims[i].Clone())
	}
	return out
}

func unionCitations(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, c := range a {
		set[c] = true
	}
	for _, c := range b {
		set[c] = true
	}
	merged := make([]string, 0, len(set))
	for c := range set {
		merged = append(merged, c)
	}
	sort.Strings(merged)
	return merged
}
