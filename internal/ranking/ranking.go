// Package ranking turns raw donations into ranked donor standings.
package ranking

import (
	"sort"

	"github.com/tinoosan/fanbase/internal/fandom"
)

// VIPCohortSize is the number of top donors that make up the VIP tier.
const VIPCohortSize = 50

// Donation is the aggregator's input: one gift with its donor identity
// already resolved for display.
type Donation struct {
	DonorID   *string
	DonorName string
	AvatarURL *string
	Amount    int64
}

// Options tunes an aggregation run.
type Options struct {
	// SeasonID is copied onto every item; nil for all-season standings.
	SeasonID *int64
	// Cohort truncates the ranked list after ranks are assigned. Zero keeps everything.
	Cohort int
}

type group struct {
	donorID   *string
	name      string
	avatarURL *string
	total     int64
}

// Aggregate groups donations by donor, sums amounts and ranks donors by total.
//
// Registered donors group by id and anonymous donors by name; the two never
// merge. Equal totals keep the order in which the donors were first seen.
// Ranks are 1-based and dense with no shared positions.
func Aggregate(donations []Donation, opts Options) []fandom.RankingItem {
	if len(donations) == 0 {
		return []fandom.RankingItem{}
	}
	index := make(map[string]int, len(donations))
	groups := make([]*group, 0, len(donations))
	for _, d := range donations {
		key := groupKey(d)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &group{donorID: d.DonorID})
		}
		g := groups[i]
		g.total += d.Amount
		if d.DonorName != "" {
			g.name = d.DonorName
		}
		if d.AvatarURL != nil {
			g.avatarURL = d.AvatarURL
		}
	}

	sort.SliceStable(groups, func(a, b int) bool { return groups[a].total > groups[b].total })

	items := make([]fandom.RankingItem, len(groups))
	for i, g := range groups {
		items[i] = fandom.RankingItem{
			Rank:        i + 1,
			DonorID:     g.donorID,
			DonorName:   g.name,
			AvatarURL:   g.avatarURL,
			TotalAmount: g.total,
			SeasonID:    opts.SeasonID,
		}
	}
	return Truncate(items, opts.Cohort)
}

// Truncate keeps the first n items; n <= 0 keeps all. Ranks are not recomputed.
func Truncate(items []fandom.RankingItem, n int) []fandom.RankingItem {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// Contains reports whether donorID holds a position in items.
func Contains(items []fandom.RankingItem, donorID string) bool {
	for _, it := range items {
		if it.DonorID != nil && *it.DonorID == donorID {
			return true
		}
	}
	return false
}

func groupKey(d Donation) string {
	if d.DonorID != nil && *d.DonorID != "" {
		return "id:" + *d.DonorID
	}
	return "name:" + d.DonorName
}

// FromDonations resolves donor display data against profiles. A registered
// donor shows the profile nickname and avatar; a missing profile or an
// anonymous gift falls back to the donation's donor name.
func FromDonations(donations []fandom.Donation, profiles map[string]fandom.Profile) []Donation {
	out := make([]Donation, 0, len(donations))
	for _, d := range donations {
		in := Donation{DonorID: d.DonorID, DonorName: d.DonorName, Amount: d.Amount}
		if d.DonorID != nil {
			if p, ok := profiles[*d.DonorID]; ok {
				if p.Nickname != "" {
					in.DonorName = p.Nickname
				}
				in.AvatarURL = p.AvatarURL
			}
		}
		out = append(out, in)
	}
	return out
}

// DonorIDs lists the distinct registered donors in first-seen order.
func DonorIDs(donations []fandom.Donation) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, d := range donations {
		if d.DonorID == nil || *d.DonorID == "" {
			continue
		}
		if _, ok := seen[*d.DonorID]; ok {
			continue
		}
		seen[*d.DonorID] = struct{}{}
		ids = append(ids, *d.DonorID)
	}
	return ids
}
