package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/fandom"
)

func id(s string) *string { return &s }

func TestAggregate_EndToEnd(t *testing.T) {
	in := []Donation{
		{DonorID: id("a"), DonorName: "a", Amount: 100},
		{DonorID: id("a"), DonorName: "a", Amount: 50},
		{DonorID: id("b"), DonorName: "b", Amount: 90},
		{DonorName: "anon", Amount: 90},
	}
	got := Aggregate(in, Options{})
	require.Len(t, got, 3)

	assert.Equal(t, "a", *got[0].DonorID)
	assert.Equal(t, int64(150), got[0].TotalAmount)
	assert.Equal(t, 1, got[0].Rank)

	assert.Equal(t, "b", *got[1].DonorID)
	assert.Equal(t, int64(90), got[1].TotalAmount)
	assert.Equal(t, 2, got[1].Rank)

	assert.Nil(t, got[2].DonorID)
	assert.Equal(t, "anon", got[2].DonorName)
	assert.Equal(t, int64(90), got[2].TotalAmount)
	assert.Equal(t, 3, got[2].Rank)
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil, Options{Cohort: VIPCohortSize})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregate_IDAndNameNeverMerge(t *testing.T) {
	in := []Donation{
		{DonorID: id("u1"), DonorName: "kim", Amount: 10},
		{DonorName: "kim", Amount: 10},
	}
	got := Aggregate(in, Options{})
	require.Len(t, got, 2)
	assert.Equal(t, "u1", *got[0].DonorID)
	assert.Nil(t, got[1].DonorID)
}

func TestAggregate_Deterministic(t *testing.T) {
	in := donors(30)
	first := Aggregate(in, Options{})
	second := Aggregate(in, Options{})
	assert.Equal(t, first, second)
}

func TestAggregate_PermutingDistinctDonorsKeepsRanking(t *testing.T) {
	in := []Donation{
		{DonorID: id("x"), Amount: 300},
		{DonorID: id("y"), Amount: 200},
		{DonorID: id("z"), Amount: 100},
		{DonorID: id("x"), Amount: 5},
	}
	reversed := make([]Donation, len(in))
	for i := range in {
		reversed[len(in)-1-i] = in[i]
	}
	a, b := Aggregate(in, Options{}), Aggregate(reversed, Options{})
	require.Len(t, b, 3)
	for i := range a {
		assert.Equal(t, *a[i].DonorID, *b[i].DonorID)
		assert.Equal(t, a[i].Rank, b[i].Rank)
		assert.Equal(t, a[i].TotalAmount, b[i].TotalAmount)
	}
}

func TestAggregate_TieFollowsEncounterOrder(t *testing.T) {
	in := []Donation{{DonorID: id("p"), Amount: 50}, {DonorID: id("q"), Amount: 50}}
	got := Aggregate(in, Options{})
	assert.Equal(t, "p", *got[0].DonorID)

	in[0], in[1] = in[1], in[0]
	got = Aggregate(in, Options{})
	assert.Equal(t, "q", *got[0].DonorID)
}

func TestAggregate_ZeroAmountsRankByEncounter(t *testing.T) {
	in := []Donation{{DonorName: "c"}, {DonorName: "a"}, {DonorName: "b"}}
	got := Aggregate(in, Options{})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].DonorName, got[1].DonorName, got[2].DonorName})
}

func TestAggregate_RankDensity(t *testing.T) {
	got := Aggregate(donors(40), Options{})
	require.Len(t, got, 40)
	for i, it := range got {
		assert.Equal(t, i+1, it.Rank)
	}
}

func TestAggregate_VIPCutoff(t *testing.T) {
	in := donors(75)
	full := Aggregate(in, Options{})
	vip := Aggregate(in, Options{Cohort: VIPCohortSize})
	require.Len(t, full, 75)
	require.Len(t, vip, 50)
	assert.Equal(t, full[:50], vip)
	assert.Equal(t, 50, vip[49].Rank)
}

func TestAggregate_LatestNameWins(t *testing.T) {
	in := []Donation{
		{DonorID: id("u"), DonorName: "old", Amount: 1},
		{DonorID: id("u"), DonorName: "new", AvatarURL: id("img"), Amount: 1},
	}
	got := Aggregate(in, Options{SeasonID: ptr(int64(3))})
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].DonorName)
	assert.Equal(t, "img", *got[0].AvatarURL)
	assert.Equal(t, int64(3), *got[0].SeasonID)
}

func TestFromDonations_ResolvesProfiles(t *testing.T) {
	avatar := "https://cdn/a.png"
	profiles := map[string]fandom.Profile{"u1": {ID: "u1", Nickname: "Moon", AvatarURL: &avatar}}
	in := []fandom.Donation{
		{DonorID: id("u1"), DonorName: "raw", Amount: 5},
		{DonorID: id("ghost"), DonorName: "gone", Amount: 5},
		{DonorName: "anon", Amount: 5},
	}
	got := FromDonations(in, profiles)
	require.Len(t, got, 3)
	assert.Equal(t, "Moon", got[0].DonorName)
	assert.Equal(t, &avatar, got[0].AvatarURL)
	assert.Equal(t, "gone", got[1].DonorName)
	assert.Equal(t, "anon", got[2].DonorName)
	assert.Equal(t, []string{"u1", "ghost"}, DonorIDs(in))
}

func TestContains(t *testing.T) {
	items := Aggregate([]Donation{{DonorID: id("a"), Amount: 1}, {DonorName: "b", Amount: 2}}, Options{})
	assert.True(t, Contains(items, "a"))
	assert.False(t, Contains(items, "b"))
}

// donors builds n donors with strictly decreasing totals, each split over two gifts.
func donors(n int) []Donation {
	var out []Donation
	for i := 0; i < n; i++ {
		d := id(fmt.Sprintf("d%03d", i))
		total := int64((n - i) * 10)
		out = append(out, Donation{DonorID: d, Amount: total / 2}, Donation{DonorID: d, Amount: total - total/2})
	}
	return out
}

func ptr[T any](v T) *T { return &v }
