package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimUnmarshal_MixedCitationTypes(t *testing.T) {
	raw := `{"company":"台塑","claim_text":"2030年前減碳30%","topic":"climate",
		"target_year":2030,"metric":"GHG","certainty":"high",
		"source_citations":[12,"47",3.0]}`

	var c Claim
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, []string{"12", "47", "3"}, c.SourceCitations)
	require.NotNil(t, c.TargetYear)
	assert.Equal(t, 2030, *c.TargetYear)
	assert.Equal(t, TopicClimate, c.Topic)
}

func TestClaimUnmarshal_NullTargetYear(t *testing.T) {
	var c Claim
	require.NoError(t, json.Unmarshal([]byte(`{"company":"x","target_year":null}`), &c))
	assert.Nil(t, c.TargetYear)

	var c2 Claim
	require.NoError(t, json.Unmarshal([]byte(`{"company":"x"}`), &c2))
	assert.Nil(t, c2.TargetYear)
}

func TestClaimUnmarshal_StringYear(t *testing.T) {
	var c Claim
	require.NoError(t, json.Unmarshal([]byte(`{"target_year":"2050"}`), &c))
	require.NotNil(t, c.TargetYear)
	assert.Equal(t, 2050, *c.TargetYear)
}

func TestClaimUnmarshal_GarbageYearIgnored(t *testing.T) {
	var c Claim
	require.NoError(t, json.Unmarshal([]byte(`{"target_year":"soon"}`), &c))
	assert.Nil(t, c.TargetYear)
}

func TestClaimMergeKey_NormalizesWhitespace(t *testing.T) {
	a := Claim{Company: "A", ClaimText: "reduce   emissions\nby 30%", Topic: TopicClimate, Metric: "GHG"}
	b := Claim{Company: "A", ClaimText: "reduce emissions by 30%", Topic: TopicClimate, Metric: "GHG"}
	assert.Equal(t, a.MergeKey(), b.MergeKey())
}

func TestClaimClone_NoAliasing(t *testing.T) {
	year := 2030
	c := Claim{
		Company:         "A",
		TargetYear:      &year,
		SourceCitations: []string{"1"},
		SourceChunks:    []ExcerptRecord{{ID: 1}},
	}
	clone := c.Clone()
	clone.SourceCitations[0] = "9"
	*clone.TargetYear = 2040
	clone.SourceChunks[0].ID = 9

	assert.Equal(t, "1", c.SourceCitations[0])
	assert.Equal(t, 2030, *c.TargetYear)
	assert.Equal(t, 1, c.SourceChunks[0].ID)
}

func TestNewsEventUnmarshal_NumericCitations(t *testing.T) {
	raw := `{"event_id":"news_0001","event_title":"油污外洩","event_date":null,
		"severity":"high","source_citations":[1,2]}`

	var e NewsEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, []string{"1", "2"}, e.SourceCitations)
	assert.Empty(t, e.EventDate)
}

func TestNormalizeWS(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWS("  a\t b\n\nc "))
	assert.Equal(t, "", NormalizeWS("   "))
}

func TestTruncate_RuneSafe(t *testing.T) {
	assert.Equal(t, "台塑石化", Truncate("台塑石化", 4))
	assert.Equal(t, "台塑...", Truncate("台塑石化公司", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
