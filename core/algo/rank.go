package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/insight/schema"
)

// RankRecommendations orders recommendations by priority (desc), impact (desc)
// and effort (asc). The sort is stable so equal keys keep generation order.
func RankRecommendations(recs []schema.Recommendation) []schema.Recommendation {
	slices.SortStableFunc(recs, func(a, b schema.Recommendation) int {
		if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Impact.Rank(), a.Impact.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.Effort.Rank(), b.Effort.Rank())
	})
	return recs
}
