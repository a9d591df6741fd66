package provider

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/config"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/storage/remote"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.UseMockData = false
	cfg.DatabaseDriver = config.DriverSQLite
	cfg.DatabaseURL = filepath.Join(t.TempDir(), "fanbase.sqlite")
	cfg.DevSeed = true
	return cfg
}

func open(t *testing.T, cfg *config.Config) *Provider {
	t.Helper()
	p, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestMockFlagSelectsMemory(t *testing.T) {
	p := open(t, config.Default())
	assert.Equal(t, KindMemory, p.Kind())
	require.NoError(t, p.Ready(context.Background()))

	all, err := p.Profiles().FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(fixture.Default().Profiles))
}

func TestRemoteWithoutURLFails(t *testing.T) {
	cfg := config.Default()
	cfg.UseMockData = false
	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestSQLiteDevSeedRunsOnce(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	p := open(t, cfg)
	assert.Equal(t, KindSQLite, p.Kind())
	require.NoError(t, p.Ready(ctx))

	store, ok := p.Backend.(*remote.Store)
	require.True(t, ok)
	seeded, err := Seed(ctx, store)
	require.NoError(t, err)
	assert.False(t, seeded)
}

type snapshot struct {
	Season4      []fandom.RankingItem
	AllSeasons   []fandom.RankingItem
	Episode3     []fandom.RankingItem
	PostPage     []int64
	PostTotal    int64
	SearchPage   []int64
	Comments     []string
	NoticeIDs    []int64
	December     []int64
	Categories   []string
	Crew         []int64
	Live         []int64
	LiveCount    int64
	Guestbook    []int64
	Pending      []int64
	VipMembers   []string
	Top          []int64
	RankBattle   bool
	EpisodeTotal int64
}

func ids[T any](rows []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

// take reads the same logical views from any backend. Timestamps are left out
// since drivers may hand them back in a different location.
func take(t *testing.T, b repository.Backend) snapshot {
	t.Helper()
	ctx := context.Background()
	var s snapshot
	var err error
	s4 := int64(4)

	s.Season4, err = b.Rankings().GetRankings(ctx, repository.RankingQuery{SeasonID: &s4, Unit: fandom.UnitFilterAll})
	require.NoError(t, err)
	s.AllSeasons, err = b.Rankings().GetRankings(ctx, repository.RankingQuery{Unit: fandom.UnitFilterExcel})
	require.NoError(t, err)
	s.Episode3, err = b.Rankings().GetEpisodeRankings(ctx, 3, 0)
	require.NoError(t, err)

	posts, err := b.Posts().FindPaginated(ctx, repository.PostListOptions{Board: fandom.BoardFree, PageOptions: repository.PageOptions{Page: 1, Limit: 2}})
	require.NoError(t, err)
	s.PostPage = ids(posts.Data, func(p fandom.PostItem) int64 { return p.ID })
	s.PostTotal = posts.TotalCount

	found, err := b.Posts().Search(ctx, repository.PostSearch{Query: "s", Type: repository.SearchAll})
	require.NoError(t, err)
	s.SearchPage = ids(found.Data, func(p fandom.PostItem) int64 { return p.ID })

	comments, err := b.Comments().FindByPostID(ctx, 2)
	require.NoError(t, err)
	for _, c := range comments {
		s.Comments = append(s.Comments, c.AuthorName)
	}

	notices, err := b.Notices().FindAll(ctx)
	require.NoError(t, err)
	s.NoticeIDs = ids(notices, func(n fandom.Notice) int64 { return n.ID })

	dec, err := b.Schedules().FindByMonthAndUnit(ctx, 2024, time.December, fandom.UnitExcel)
	require.NoError(t, err)
	s.December = ids(dec, func(x fandom.Schedule) int64 { return x.ID })

	s.Categories, err = b.Timeline().GetCategories(ctx)
	require.NoError(t, err)

	crew, err := b.Organization().FindByUnit(ctx, fandom.UnitCrew)
	require.NoError(t, err)
	s.Crew = ids(crew, func(m fandom.OrgMember) int64 { return m.ID })

	live, err := b.LiveStatus().FindLive(ctx)
	require.NoError(t, err)
	s.Live = ids(live, func(l fandom.LiveStatus) int64 { return l.ID })
	s.LiveCount, err = b.LiveStatus().LiveCount(ctx)
	require.NoError(t, err)

	gb, err := b.Guestbook().FindByTributeUserID(ctx, fixture.DonorID(6))
	require.NoError(t, err)
	s.Guestbook = ids(gb, func(e fandom.GuestbookEntry) int64 { return e.ID })
	pending, err := b.Guestbook().FindPending(ctx, "")
	require.NoError(t, err)
	s.Pending = ids(pending, func(e fandom.GuestbookEntry) int64 { return e.ID })

	vips, err := b.Profiles().FindVipMembers(ctx)
	require.NoError(t, err)
	for _, v := range vips {
		s.VipMembers = append(s.VipMembers, v.ID)
	}

	top, err := b.VipRewards().FindTop(ctx, 3, &s4)
	require.NoError(t, err)
	s.Top = ids(top, func(r fandom.VipReward) int64 { return r.ID })

	s.RankBattle, err = b.Episodes().IsVipForRankBattles(ctx, fixture.DonorID(7), nil)
	require.NoError(t, err)
	s.EpisodeTotal, err = b.Donations().GetTotalByEpisode(ctx, 3)
	require.NoError(t, err)
	return s
}

func TestBackendsAgree(t *testing.T) {
	mem := open(t, config.Default())
	sql := open(t, sqliteConfig(t))

	want := take(t, mem)
	got := take(t, sql)
	assert.Equal(t, want, got)

	assert.Equal(t, int64(85000), want.EpisodeTotal)
	assert.Equal(t, "PinkHeart", want.Season4[0].DonorName)
	assert.True(t, want.RankBattle)
}
