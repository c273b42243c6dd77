package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaims_Strict(t *testing.T) {
	raw := `[{"company":"台塑","claim_text":"2030年再生能源占比達30%","topic":"energy","target_year":2030,"metric":"renewable","certainty":"high","source_citations":[12]}]`

	claims, state := ParseClaims(raw)
	assert.Equal(t, ParseStrict, state)
	require.Len(t, claims, 1)
	assert.Equal(t, "台塑", claims[0].Company)
	assert.Equal(t, []string{"12"}, claims[0].SourceCitations)
}

func TestParseClaims_StrictEmptyArray(t *testing.T) {
	claims, state := ParseClaims("  []  ")
	assert.Equal(t, ParseStrict, state)
	assert.Empty(t, claims)
}

func TestParseClaims_RecoveredFromProse(t *testing.T) {
	raw := "Here are the claims you asked for:\n[{\"company\":\"A\",\"claim_text\":\"net zero by 2050\",\"topic\":\"climate\",\"target_year\":null,\"metric\":\"GHG\",\"certainty\":\"medium\",\"source_citations\":[\"3\"]}]\nLet me know if you need more."

	claims, state := ParseClaims(raw)
	assert.Equal(t, ParseRecovered, state)
	require.Len(t, claims, 1)
	assert.Nil(t, claims[0].TargetYear)
}

func TestParseClaims_Failed(t *testing.T) {
	for _, raw := range []string{
		"I could not find any commitments.",
		"",
		"[{broken json]",
	} {
		claims, state := ParseClaims(raw)
		assert.Equal(t, ParseFailed, state, "raw=%q", raw)
		assert.Nil(t, claims)
	}
}
