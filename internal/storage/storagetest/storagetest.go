// Package storagetest is the behavioural contract every repository.Backend
// must pass. Backends call Run from their own tests with a factory that
// returns a store loaded with fixture.Default().
package storagetest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/repository"
)

// Factory returns a fresh backend holding fixture.Default(). It registers
// its own cleanup on t.
type Factory func(t *testing.T) repository.Backend

// Run executes the whole contract, one fresh backend per subtest.
func Run(t *testing.T, open Factory) {
	tests := []struct {
		name string
		fn   func(*testing.T, repository.Backend)
	}{
		{"Profiles", testProfiles},
		{"Seasons", testSeasons},
		{"Episodes", testEpisodes},
		{"Donations", testDonations},
		{"Rankings", testRankings},
		{"VipChecks", testVipChecks},
		{"Posts", testPosts},
		{"Likes", testLikes},
		{"Comments", testComments},
		{"Notices", testNotices},
		{"Schedules", testSchedules},
		{"Timeline", testTimeline},
		{"Signatures", testSignatures},
		{"VipRewards", testVipRewards},
		{"VipImages", testVipImages},
		{"Media", testMedia},
		{"LiveStatus", testLiveStatus},
		{"Banners", testBanners},
		{"Guestbook", testGuestbook},
		{"Organization", testOrganization},
		{"IdsNeverReused", testIdsNeverReused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func i64(n int64) *int64 { return &n }

func ids[T any](rows []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func testProfiles(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Profiles()

	got, err := repo.FindByID(c, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindByNickname(c, "PinkHeart")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, fixture.DonorID(6), got.ID)
	assert.Equal(t, int64(70000), got.TotalDonation)

	vips, err := repo.FindVipMembers(c)
	require.NoError(t, err)
	var vipIDs []string
	for _, p := range vips {
		vipIDs = append(vipIDs, p.ID)
	}
	assert.Equal(t, []string{"user-6", "user-1", "user-2", "user-5", "user-7", "user-8", "user-3", "user-4"}, vipIDs)

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	require.Len(t, all, 11)
	assert.Equal(t, fixture.AdminID, all[0].ID)

	pg, err := repo.FindPaginated(c, repository.PageOptions{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(11), pg.TotalCount)
	assert.Equal(t, 3, pg.TotalPages)
	require.Len(t, pg.Data, 5)
	assert.Equal(t, all[5].ID, pg.Data[0].ID)

	created, err := repo.Create(c, fandom.Profile{Nickname: "Fresh"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fandom.RoleMember, created.Role)

	_, err = repo.Create(c, fandom.Profile{ID: fixture.AdminID, Nickname: "Dup"})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = repo.Create(c, fandom.Profile{Nickname: " "})
	assert.ErrorIs(t, err, errs.ErrValidation)

	created.Role = fandom.RoleModerator
	updated, err := repo.Update(c, created)
	require.NoError(t, err)
	assert.Equal(t, fandom.RoleModerator, updated.Role)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	_, err = repo.Update(c, fandom.Profile{ID: "nobody", Nickname: "x"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, repo.Delete(c, created.ID))
	assert.ErrorIs(t, repo.Delete(c, created.ID), errs.ErrNotFound)
}

func testSeasons(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Seasons()

	active, err := repo.FindActive(c)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, int64(4), active.ID)

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(all, func(s fandom.Season) int64 { return s.ID }))

	missing, err := repo.FindByID(c, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	s5, err := repo.Create(c, fandom.Season{Name: "Season 5", StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, int64(5), s5.ID)

	s5.IsActive = true
	_, err = repo.Update(c, s5)
	require.NoError(t, err)
	active, err = repo.FindActive(c)
	require.NoError(t, err)
	assert.Equal(t, int64(5), active.ID, "latest start date wins when several are active")

	require.NoError(t, repo.Delete(c, s5.ID))
	_, err = repo.Update(c, s5)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func testEpisodes(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Episodes()
	epID := func(e fandom.Episode) int64 { return e.ID }

	eps, err := repo.FindBySeason(c, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(eps, epID))

	battles, err := repo.FindRankBattles(c, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 1, 3}, ids(battles, epID))

	battles, err = repo.FindRankBattles(c, i64(4))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(battles, epID))

	latest, err := repo.FindLatestRankBattle(c, i64(4))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(3), latest.ID)

	latest, err = repo.FindLatestRankBattle(c, i64(2))
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = repo.Create(c, fandom.Episode{SeasonID: 4, EpisodeNumber: 0, Title: "bad"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func testDonations(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Donations()
	donID := func(d fandom.Donation) int64 { return d.ID }

	total, err := repo.GetTotal(c, fixture.DonorID(1))
	require.NoError(t, err)
	assert.Equal(t, int64(53002), total)

	total, err = repo.GetTotal(c, "nobody")
	require.NoError(t, err)
	assert.Zero(t, total)

	epTotal, err := repo.GetTotalByEpisode(c, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(85000), epTotal)

	byEp, err := repo.FindByEpisode(c, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 1, 9, 16, 23, 10, 4, 2}, ids(byEp, donID))

	byDonor, err := repo.FindByDonor(c, fixture.DonorID(4))
	require.NoError(t, err)
	assert.Equal(t, []int64{18, 19}, ids(byDonor, donID))

	season3, err := repo.FindBySeason(c, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{22, 20, 21}, ids(season3, donID))

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	require.Len(t, all, 24)
	assert.Equal(t, int64(3), all[0].ID)

	pg, err := repo.FindPaginated(c, repository.PageOptions{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(24), pg.TotalCount)
	assert.Equal(t, 3, pg.TotalPages)
	assert.Equal(t, ids(all[20:], donID), ids(pg.Data, donID))

	pg, err = repo.FindPaginated(c, repository.PageOptions{Page: math.MaxInt64 / 10, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, pg.Data)
	assert.Equal(t, int64(24), pg.TotalCount)

	_, err = repo.Create(c, fandom.Donation{DonorName: "x", Amount: -1, SeasonID: 4})
	assert.ErrorIs(t, err, errs.ErrValidation)

	d, err := repo.Create(c, fandom.Donation{DonorName: "walk-in", Amount: 100, SeasonID: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(25), d.ID)
	assert.False(t, d.CreatedAt.IsZero())

	d.Amount = 250
	d, err = repo.Update(c, d)
	require.NoError(t, err)
	assert.Equal(t, int64(250), d.Amount)

	require.NoError(t, repo.Delete(c, d.ID))
	gone, err := repo.FindByID(c, d.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, repo.Delete(c, d.ID), errs.ErrNotFound)
}

type rankRow struct {
	donor string
	total int64
	rank  int
}

func rankRows(items []fandom.RankingItem) []rankRow {
	out := make([]rankRow, 0, len(items))
	for _, it := range items {
		key := it.DonorName
		if it.DonorID != nil {
			key = *it.DonorID
		}
		out = append(out, rankRow{key, it.TotalAmount, it.Rank})
	}
	return out
}

func testRankings(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Rankings()

	season4, err := repo.GetRankings(c, repository.RankingQuery{SeasonID: i64(4), Unit: fandom.UnitFilterAll})
	require.NoError(t, err)
	assert.Equal(t, []rankRow{
		{"user-6", 45000, 1},
		{"user-1", 38002, 2},
		{"user-5", 30000, 3},
		{"user-2", 25000, 4},
		{"user-7", 22000, 5},
		{"Secret Admirer", 18000, 6},
		{"user-8", 15000, 7},
		{"user-3", 12000, 8},
		{"user-4", 8000, 9},
	}, rankRows(season4))
	for _, it := range season4 {
		require.NotNil(t, it.SeasonID)
		assert.Equal(t, int64(4), *it.SeasonID)
	}

	crew, err := repo.GetRankings(c, repository.RankingQuery{SeasonID: i64(4), Unit: fandom.UnitFilterCrew})
	require.NoError(t, err)
	assert.Equal(t, []rankRow{
		{"user-2", 25000, 1},
		{"user-8", 15000, 2},
		{"user-4", 8000, 3},
	}, rankRows(crew))

	vip, err := repo.GetRankings(c, repository.RankingQuery{Unit: fandom.UnitFilterVIP})
	require.NoError(t, err)
	assert.Len(t, vip, 9)
	assert.Nil(t, vip[0].SeasonID)
	assert.Equal(t, rankRow{"user-6", 70000, 1}, rankRows(vip)[0])

	top, err := repo.GetTopRankers(c, 0)
	require.NoError(t, err)
	assert.Equal(t, []rankRow{
		{"user-6", 70000, 1},
		{"user-1", 53002, 2},
		{"user-2", 43000, 3},
	}, rankRows(top))

	ep, err := repo.GetEpisodeRankings(c, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []rankRow{
		{"user-1", 26000, 1},
		{"user-6", 20000, 2},
		{"user-2", 20000, 3},
		{"user-8", 10000, 4},
		{"Secret Admirer", 9000, 5},
	}, rankRows(ep), "ties keep first-encounter order")
	assert.Equal(t, "gul***", ep[0].DonorName)

	none, err := repo.GetEpisodeRankings(c, 99, 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testVipChecks(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Episodes()

	ok, err := repo.IsVipForEpisode(c, fixture.DonorID(8), 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsVipForEpisode(c, fixture.DonorID(4), 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.IsVipForRankBattles(c, fixture.DonorID(7), nil)
	require.NoError(t, err)
	assert.True(t, ok, "episode 1 of the active season")

	ok, err = repo.IsVipForRankBattles(c, fixture.DonorID(3), nil)
	require.NoError(t, err)
	assert.False(t, ok, "only gave during a regular episode")

	ok, err = repo.IsVipForRankBattles(c, fixture.DonorID(2), i64(3))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsVipForRankBattles(c, "", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func postIDs(items []fandom.PostItem) []int64 {
	return ids(items, func(p fandom.PostItem) int64 { return p.ID })
}

func testPosts(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Posts()

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 3, 1}, postIDs(all))
	assert.Equal(t, fandom.AnonymousName, all[0].AuthorName)
	assert.Equal(t, "gul***", all[3].AuthorName)

	deleted, err := repo.FindByID(c, 5)
	require.NoError(t, err)
	assert.Nil(t, deleted)

	free, err := repo.FindByBoard(c, fandom.BoardFree)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 1}, postIDs(free))

	recent, err := repo.FindRecent(c, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, postIDs(recent))

	pg, err := repo.FindPaginated(c, repository.PostListOptions{Board: fandom.BoardFree, PageOptions: repository.PageOptions{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pg.TotalCount)
	assert.Equal(t, []int64{1}, postIDs(pg.Data))

	found, err := repo.Search(c, repository.PostSearch{Query: "CHRISTMAS", Type: repository.SearchTitle})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, postIDs(found.Data))

	found, err = repo.Search(c, repository.PostSearch{Query: "gul", Type: repository.SearchAuthor})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, postIDs(found.Data))

	found, err = repo.Search(c, repository.PostSearch{Query: "admin", Board: fandom.BoardFree})
	require.NoError(t, err)
	assert.Empty(t, found.Data)

	views, err := repo.IncrementViewCount(c, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(121), views)
	_, err = repo.IncrementViewCount(c, 5)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	p, err := repo.Create(c, fandom.Post{BoardType: fandom.BoardFree, Title: "new", Content: "body", AuthorID: fixture.MemberID, ViewCount: 999})
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.ID)
	assert.Zero(t, p.ViewCount)

	p.Title = "edited"
	p.LikeCount = 50
	edited, err := repo.Update(c, p)
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Title)
	assert.Zero(t, edited.LikeCount)

	require.NoError(t, repo.Delete(c, p.ID))
	assert.ErrorIs(t, repo.Delete(c, p.ID), errs.ErrNotFound)
	_, err = repo.Update(c, p)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func testLikes(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Posts()
	user := fixture.DonorID(4)

	res, err := repo.ToggleLike(c, 1, user)
	require.NoError(t, err)
	assert.Equal(t, fandom.LikeResult{Liked: true, LikeCount: 3}, res)

	liked, err := repo.HasUserLiked(c, 1, user)
	require.NoError(t, err)
	assert.True(t, liked)

	res, err = repo.ToggleLike(c, 1, user)
	require.NoError(t, err)
	assert.Equal(t, fandom.LikeResult{Liked: false, LikeCount: 2}, res)

	liked, err = repo.HasUserLiked(c, 1, user)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = repo.ToggleLike(c, 5, user)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, err = repo.ToggleLike(c, 1, "")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func testComments(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Comments()

	items, err := repo.FindByPostID(c, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, fandom.AnonymousName, items[0].AuthorName)

	thread, err := repo.FindByPostID(c, 1)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "Starguard", thread[0].AuthorName)

	gone, err := repo.FindByID(c, 4)
	require.NoError(t, err)
	assert.Nil(t, gone)

	cm, err := repo.Create(c, fandom.Comment{PostID: 3, AuthorID: fixture.MemberID, Content: "hi"})
	require.NoError(t, err)
	post, err := b.Posts().FindByID(c, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.CommentCount)

	_, err = repo.Create(c, fandom.Comment{PostID: 5, AuthorID: fixture.MemberID, Content: "hi"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	cm.Content = "hello"
	cm, err = repo.Update(c, cm)
	require.NoError(t, err)
	assert.Equal(t, "hello", cm.Content)

	require.NoError(t, repo.Delete(c, cm.ID))
	post, err = b.Posts().FindByID(c, 3)
	require.NoError(t, err)
	assert.Zero(t, post.CommentCount)
	assert.ErrorIs(t, repo.Delete(c, cm.ID), errs.ErrNotFound)
}

func testNotices(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Notices()
	nID := func(n fandom.Notice) int64 { return n.ID }

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4, 3, 2}, ids(all, nID))

	recent, err := repo.FindRecent(c, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(recent, nID))

	official, err := repo.FindPaginated(c, repository.NoticeListOptions{Category: "official"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(official.Data, nID))
	assert.Equal(t, 1, official.TotalPages)

	found, err := repo.Search(c, repository.NoticeSearch{Query: "season"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(found.Data, nID))

	found, err = repo.Search(c, repository.NoticeSearch{Query: "rules", Category: "event"})
	require.NoError(t, err)
	assert.Empty(t, found.Data)

	n, err := repo.Create(c, fandom.Notice{Title: "t", Content: "c", Category: "event", IsPinned: true})
	require.NoError(t, err)
	all, err = repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, n.ID, all[0].ID, "newest pinned notice first")

	require.NoError(t, repo.Delete(c, n.ID))
	assert.ErrorIs(t, repo.Delete(c, n.ID), errs.ErrNotFound)
}

func testSchedules(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Schedules()
	sID := func(s fandom.Schedule) int64 { return s.ID }

	dec, err := repo.FindByMonth(c, 2024, time.December)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(dec, sID))

	crew, err := repo.FindByMonthAndUnit(c, 2024, time.December, fandom.UnitCrew)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(crew, sID))

	jan, err := repo.FindByMonth(c, 2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(jan, sID))

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 1, 2, 3, 4}, ids(all, sID))

	_, err = repo.Create(c, fandom.Schedule{Title: "", EventType: "x", StartAt: time.Now()})
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.ErrorIs(t, repo.Delete(c, 99), errs.ErrNotFound)
}

func testTimeline(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Timeline()
	eID := func(e fandom.TimelineEvent) int64 { return e.ID }

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(all, eID))

	crew := fandom.UnitCrew
	got, err := repo.FindByFilter(c, repository.TimelineFilter{Unit: &crew})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(got, eID))

	got, err = repo.FindByFilter(c, repository.TimelineFilter{Category: "milestone"})
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, ids(got, eID))

	got, err = repo.FindByFilter(c, repository.TimelineFilter{Category: "all", SeasonID: i64(3)})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got, eID))

	cats, err := repo.GetCategories(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"event", "founding", "milestone"}, cats)
}

func testSignatures(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Signatures()
	sID := func(s fandom.Signature) int64 { return s.ID }

	byName, err := repo.FindByMemberName(c, "NANO")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(byName, sID))

	featured, err := repo.FindFeatured(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(featured, sID))

	crew, err := repo.FindByUnit(c, fandom.UnitCrew)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids(crew, sID))

	_, err = repo.Create(c, fandom.Signature{SigNumber: 0, Title: "zero", Unit: fandom.UnitExcel, MemberName: "Luna"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	s, err := repo.Create(c, fandom.Signature{SigNumber: 1, Title: "encore", Unit: fandom.UnitExcel, MemberName: "Luna"})
	require.NoError(t, err)
	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, s.ID, 2, 3, 4}, ids(all, sID))

	el, err := repo.Create(c, fandom.Signature{SigNumber: 9, Title: "bonjour", Unit: fandom.UnitCrew, MemberName: "ÉLODIE"})
	require.NoError(t, err)
	byName, err = repo.FindByMemberName(c, "élodie")
	require.NoError(t, err)
	assert.Equal(t, []int64{el.ID}, ids(byName, sID))
}

func testVipRewards(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.VipRewards()
	rID := func(r fandom.VipReward) int64 { return r.ID }

	top, err := repo.FindTop(c, 3, i64(4))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(top, rID))

	top, err = repo.FindTop(c, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(top, rID))

	latest, err := repo.FindByProfileID(c, fixture.DonorID(6))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(1), latest.ID)

	none, err := repo.FindByProfileID(c, fixture.MemberID)
	require.NoError(t, err)
	assert.Nil(t, none)

	second, err := repo.FindByRank(c, 2, i64(3))
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, int64(5), second.ID)

	s3, err := repo.FindBySeason(c, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, ids(s3, rID))
}

func testVipImages(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.VipImages()
	iID := func(i fandom.VipImage) int64 { return i.ID }

	mine, err := repo.FindByProfileID(c, fixture.DonorID(6))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(mine, iID))

	img, err := repo.Create(c, fandom.VipImage{RewardID: 1, ImageURL: "https://example.com/x.jpg", OrderIndex: -1})
	require.NoError(t, err)
	gallery, err := repo.FindByRewardID(c, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{img.ID, 1, 2}, ids(gallery, iID))

	_, err = repo.Create(c, fandom.VipImage{RewardID: 99, ImageURL: "https://example.com/y.jpg"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, repo.Delete(c, img.ID))
	assert.ErrorIs(t, repo.Delete(c, img.ID), errs.ErrNotFound)
}

func testMedia(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Media()
	mID := func(m fandom.Media) int64 { return m.ID }

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, ids(all, mID))

	shared, err := repo.FindByUnit(c, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(shared, mID))

	excel := fandom.UnitExcel
	ex, err := repo.FindByUnit(c, &excel)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(ex, mID))

	shorts, err := repo.FindByType(c, fandom.MediaShorts)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids(shorts, mID))
}

func testLiveStatus(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.LiveStatus()
	lID := func(l fandom.LiveStatus) int64 { return l.ID }

	live, err := repo.FindLive(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(live, lID))

	n, err := repo.LiveCount(c)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	viewers := 100
	require.NoError(t, repo.UpdateStatus(c, 4, true, &viewers))
	n, err = repo.LiveCount(c)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.ErrorIs(t, repo.UpdateStatus(c, 99, true, nil), errs.ErrNotFound)

	up, err := repo.Upsert(c, fandom.LiveStatus{MemberID: 1, Platform: "youtube", StreamURL: "https://youtube.com/live/nano2", IsLive: true, ViewerCount: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(5), up.ID)
	assert.Equal(t, "https://youtube.com/live/nano2", up.StreamURL)

	rows, err := repo.FindByMemberID(c, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5}, ids(rows, lID))

	fresh, err := repo.Upsert(c, fandom.LiveStatus{MemberID: 2, Platform: "pandatv", StreamURL: "https://www.pandalive.co.kr/haerin"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), fresh.ID)

	again, err := repo.Upsert(c, fandom.LiveStatus{MemberID: 2, Platform: "pandatv", StreamURL: "https://www.pandalive.co.kr/haerin", IsLive: true, ViewerCount: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(6), again.ID)
	assert.True(t, again.IsLive)
	next, err := repo.Upsert(c, fandom.LiveStatus{MemberID: 3, Platform: "chzzk", StreamURL: "https://chzzk.naver.com/live/luna"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), next.ID)

	yt, err := repo.FindLiveByPlatform(c, "youtube")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, ids(yt, lID))
}

func testBanners(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Banners()
	bID := func(b fandom.Banner) int64 { return b.ID }

	active, err := repo.FindActive(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(active, bID))

	res := repo.Reorder(c, []int64{3, 1, 2})
	_, failed := res.Failed()
	assert.False(t, failed)
	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(all, bID))

	res = repo.Reorder(c, []int64{2, 99, 1})
	require.Len(t, res, 3)
	assert.True(t, res[0].OK)
	assert.False(t, res[1].OK)
	assert.Equal(t, "not found", res[1].Error)
	assert.ErrorIs(t, res[2].Err(), repository.ErrSkipped)
	assert.Equal(t, 1, res.Succeeded())

	toggled, err := repo.ToggleActive(c, 3)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
	_, err = repo.ToggleActive(c, 99)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func testGuestbook(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Guestbook()
	gID := func(e fandom.GuestbookEntry) int64 { return e.ID }

	page, err := repo.FindByTributeUserID(c, fixture.DonorID(6))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(page, gID))

	pending, err := repo.FindPending(c, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(pending, gID))

	member, err := repo.Create(c, fandom.GuestbookEntry{TributeUserID: fixture.DonorID(1), AuthorName: "Luna", Message: "hi", IsMember: true})
	require.NoError(t, err)
	assert.True(t, member.IsApproved)

	fan, err := repo.Create(c, fandom.GuestbookEntry{TributeUserID: fixture.DonorID(1), AuthorName: "fan", Message: "hi", IsApproved: true})
	require.NoError(t, err)
	assert.False(t, fan.IsApproved)

	approved, err := repo.Approve(c, 3)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	page, err = repo.FindByTributeUserID(c, fixture.DonorID(6))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, ids(page, gID))

	require.NoError(t, repo.Delete(c, 3))
	gone, err := repo.FindByID(c, 3)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, repo.Delete(c, 3), errs.ErrNotFound)
	_, err = repo.Approve(c, 3)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func testOrganization(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Organization()
	oID := func(m fandom.OrgMember) int64 { return m.ID }

	all, err := repo.FindAll(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6, 7, 1, 2, 3}, ids(all, oID))

	live, err := repo.FindLiveMembers(c)
	require.NoError(t, err)
	assert.Equal(t, []int64{6, 1, 3}, ids(live, oID))

	excel, err := repo.FindByUnit(c, fandom.UnitExcel)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(excel, oID))
}

func testIdsNeverReused(t *testing.T, b repository.Backend) {
	c := ctx(t)
	repo := b.Banners()

	first, err := repo.Create(c, fandom.Banner{ImageURL: "https://example.com/a.jpg"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(c, first.ID))

	second, err := repo.Create(c, fandom.Banner{ImageURL: "https://example.com/b.jpg"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}
