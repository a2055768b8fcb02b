package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/insight/schema"
)

func TestRankRecommendations(t *testing.T) {
	recs := []schema.Recommendation{
		{ID: "a", Priority: schema.LowLevel, Impact: schema.HighLevel, Effort: schema.LowLevel},
		{ID: "b", Priority: schema.HighLevel, Impact: schema.MediumLevel, Effort: schema.HighLevel},
		{ID: "c", Priority: schema.HighLevel, Impact: schema.HighLevel, Effort: schema.HighLevel},
		{ID: "d", Priority: schema.HighLevel, Impact: schema.HighLevel, Effort: schema.LowLevel},
		{ID: "e", Priority: schema.MediumLevel, Impact: schema.LowLevel, Effort: schema.MediumLevel},
		{ID: "f", Priority: schema.HighLevel, Impact: schema.HighLevel, Effort: schema.LowLevel},
	}

	ranked := RankRecommendations(recs)

	var ids []string
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"d", "f", "c", "b", "e", "a"}, ids)
}

func TestRankRecommendationsEmpty(t *testing.T) {
	assert.Empty(t, RankRecommendations(nil))
}
