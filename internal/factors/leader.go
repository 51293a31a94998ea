package factors

import (
	"sort"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// Leadership tiers inside an industry.
const (
	TierSuperLeader = "super_leader"
	TierLeader      = "leader"
	TierNearLeader  = "near_leader"
	TierFollower    = "follower"
)

// RankLeaders ranks every snapshot symbol inside its industry by the
// day's change and by turnover, and assigns a leadership tier from the
// two ranks. Symbols with no industry label are followers.
func RankLeaders(snapshot *contracts.Snapshot) map[string]string {
	byIndustry := make(map[string][]contracts.Quote)
	for _, q := range snapshot.Quotes {
		if q.Industry == "" {
			continue
		}
		byIndustry[q.Industry] = append(byIndustry[q.Industry], q)
	}

	tiers := make(map[string]string, len(snapshot.Quotes))
	for _, q := range snapshot.Quotes {
		tiers[q.Code] = TierFollower
	}

	for _, peers := range byIndustry {
		changeRank := rankBy(peers, func(q contracts.Quote) float64 { return q.PctChange })
		turnoverRank := rankBy(peers, func(q contracts.Quote) float64 { return q.TurnoverRate })

		for _, q := range peers {
			cr, tr := changeRank[q.Code], turnoverRank[q.Code]
			switch {
			case cr <= 3 && tr <= 3:
				tiers[q.Code] = TierSuperLeader
			case cr <= 5 && tr <= 10:
				tiers[q.Code] = TierLeader
			case cr <= 10:
				tiers[q.Code] = TierNearLeader
			}
		}
	}
	return tiers
}

// rankBy returns 1-based descending ranks for one metric.
func rankBy(peers []contracts.Quote, metric func(contracts.Quote) float64) map[string]int {
	sorted := make([]contracts.Quote, len(peers))
	copy(sorted, peers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return metric(sorted[i]) > metric(sorted[j])
	})

	ranks := make(map[string]int, len(sorted))
	for i, q := range sorted {
		ranks[q.Code] = i + 1
	}
	return ranks
}
