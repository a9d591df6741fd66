package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/filter"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/permission"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/storage/memory"
)

func setup(t *testing.T) (Service, *memory.Store, *invalidation.Recorder) {
	t.Helper()
	store := memory.New()
	store.Load(fixture.Default())
	rec := &invalidation.Recorder{}
	run := action.NewRunner(nil, permission.NewResolver(action.ProfileRoles{Profiles: store.Profiles()}), rec)
	return New(store, run), store, rec
}

var admin = action.WithActor(context.Background(), fixture.AdminID)

func str(s string) *string { return &s }

func total(t *testing.T, store *memory.Store, id string) int64 {
	t.Helper()
	p, err := store.Profiles().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.TotalDonation
}

func TestOnlyAdmins(t *testing.T) {
	svc, _, rec := setup(t)
	for _, actor := range []string{fixture.ModeratorID, fixture.DonorID(1), fixture.MemberID} {
		res := svc.DeleteBanner(action.WithActor(context.Background(), actor), 1)
		require.NotNil(t, res.Error, actor)
		assert.Equal(t, errs.KindForbidden, res.Error.Kind, actor)
	}
	res := svc.DeleteBanner(context.Background(), 1)
	assert.Equal(t, errs.KindNotAuthenticated, res.Error.Kind)
	assert.Empty(t, rec.Events())
}

func TestCreateDonationSyncsTotal(t *testing.T) {
	svc, store, rec := setup(t)
	require.Equal(t, int64(15000), total(t, store, fixture.DonorID(8)))

	d, err := svc.CreateDonation(admin, DonationInput{DonorID: str(fixture.DonorID(8)), DonorName: "CrewKeeper", Amount: 1000, SeasonID: 4}).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(25), d.ID)
	assert.Equal(t, int64(16000), total(t, store, fixture.DonorID(8)))
	assert.Equal(t, []string{
		"public:donations", "admin:donations",
		"public:rankings", "admin:rankings",
		"public:profiles", "admin:profiles",
	}, rec.Keys())

	// Anonymous gifts have no profile to sync.
	_, err = svc.CreateDonation(admin, DonationInput{DonorName: "Secret Admirer", Amount: 10, SeasonID: 4}).Value()
	require.NoError(t, err)
}

func TestUpdateDonation(t *testing.T) {
	svc, store, _ := setup(t)

	res := svc.UpdateDonation(admin, 1, DonationInput{DonorID: str(fixture.DonorID(1)), DonorName: "gul***", Amount: -1, SeasonID: 4})
	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindValidation, res.Error.Kind)
	assert.Equal(t, "amount must be >= 0", res.Error.Message)

	// Moving a gift to another donor resyncs both.
	_, err := svc.UpdateDonation(admin, 1, DonationInput{DonorID: str(fixture.DonorID(4)), DonorName: "HappyToday", Amount: 15000, SeasonID: 4}).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(38002), total(t, store, fixture.DonorID(1)))
	assert.Equal(t, int64(23000), total(t, store, fixture.DonorID(4)))

	res = svc.UpdateDonation(admin, 404, DonationInput{DonorName: "x", SeasonID: 4})
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
}

func TestDeleteDonationsStopsAtFirstFailure(t *testing.T) {
	svc, store, rec := setup(t)
	ctx := context.Background()

	res, err := svc.DeleteDonations(admin, []int64{3, 99, 4}).Value()
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.True(t, res[0].OK)
	assert.False(t, res[1].OK)
	assert.Equal(t, "not found", res[1].Error)
	assert.ErrorIs(t, res[2].Err(), repository.ErrSkipped)
	assert.Equal(t, 1, res.Succeeded())

	gone, err := store.Donations().FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, gone)
	kept, err := store.Donations().FindByID(ctx, 4)
	require.NoError(t, err)
	assert.NotNil(t, kept)

	assert.Equal(t, int64(49002), total(t, store, fixture.DonorID(1)))
	assert.NotEmpty(t, rec.Events())
}

func TestBanners(t *testing.T) {
	svc, store, rec := setup(t)
	ctx := context.Background()

	b, err := svc.CreateBanner(admin, BannerInput{ImageURL: "https://example.com/new.jpg", DisplayOrder: 9}).Value()
	require.NoError(t, err)
	assert.False(t, b.IsActive)

	b, err = svc.ToggleBanner(admin, b.ID).Value()
	require.NoError(t, err)
	assert.True(t, b.IsActive)

	res, err := svc.ReorderBanners(admin, []int64{3, 1, 2}).Value()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Succeeded())

	all, err := store.Banners().FindAll(ctx)
	require.NoError(t, err)
	order := make([]int64, 0, len(all))
	for _, x := range all {
		order = append(order, x.ID)
	}
	assert.Equal(t, []int64{3, 1, 2, b.ID}, order)

	bad := svc.UpdateBanner(admin, 1, BannerInput{})
	assert.Equal(t, errs.KindValidation, bad.Error.Kind)

	del := svc.DeleteBanner(admin, 42)
	assert.Equal(t, errs.KindNotFound, del.Error.Kind)
	assert.Equal(t, "banner not found", del.Error.Message)
	assert.Contains(t, rec.Keys(), "public:banners")
}

func TestSchedules(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()

	s, err := svc.CreateSchedule(admin, ScheduleInput{Title: "Festival", EventType: "event", StartAt: time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC)}).Value()
	require.NoError(t, err)
	require.NotNil(t, s.CreatedBy)
	assert.Equal(t, fixture.AdminID, *s.CreatedBy)

	dec, err := store.Schedules().FindByMonth(ctx, 2024, time.December)
	require.NoError(t, err)
	assert.Len(t, dec, 4)

	res, err := svc.DeleteSchedules(admin, []int64{1, s.ID}).Value()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded())

	bad := svc.CreateSchedule(admin, ScheduleInput{Title: "no start"})
	assert.Equal(t, errs.KindValidation, bad.Error.Kind)
}

func TestUpsertLive(t *testing.T) {
	svc, _, _ := setup(t)

	st, err := svc.UpsertLive(admin, fandom.LiveStatus{MemberID: 4, Platform: "pandatv", StreamURL: "u", IsLive: true, ViewerCount: 10}).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.ID)

	st, err = svc.UpsertLive(admin, fandom.LiveStatus{MemberID: 2, Platform: "youtube", StreamURL: "u"}).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(6), st.ID)

	res := svc.UpsertLive(admin, fandom.LiveStatus{MemberID: 99, Platform: "youtube"})
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
}

func TestGuestbookModeration(t *testing.T) {
	svc, store, _ := setup(t)

	pending, err := svc.PendingGuestbook(admin, "").Value()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(3), pending[0].ID)

	e, err := svc.ApproveGuestbook(admin, 3).Value()
	require.NoError(t, err)
	assert.True(t, e.IsApproved)

	entries, err := store.Guestbook().FindByTributeUserID(context.Background(), fixture.DonorID(6))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSetRole(t *testing.T) {
	svc, _, _ := setup(t)

	p, err := svc.SetRole(admin, fixture.MemberID, fandom.RoleModerator).Value()
	require.NoError(t, err)
	assert.Equal(t, fandom.RoleModerator, p.Role)

	res := svc.SetRole(admin, fixture.MemberID, "owner")
	assert.Equal(t, errs.KindValidation, res.Error.Kind)

	res = svc.SetRole(admin, "ghost", fandom.RoleVIP)
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
}

func TestNotices(t *testing.T) {
	svc, _, _ := setup(t)

	n, err := svc.CreateNotice(admin, NoticeInput{Title: "Holiday", Content: "Off on the 1st"}).Value()
	require.NoError(t, err)
	assert.Equal(t, "official", n.Category)
	require.NotNil(t, n.AuthorID)
	assert.Equal(t, fixture.AdminID, *n.AuthorID)

	n, err = svc.CreateNotice(admin, NoticeInput{Title: "Meetup", Content: "See you there", Category: "Fan Meeting"}).Value()
	require.NoError(t, err)
	assert.Equal(t, "fan_meeting", n.Category)

	res := svc.CreateNotice(admin, NoticeInput{Title: "Bad", Content: "x", Category: "?!"})
	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindValidation, res.Error.Kind)

	_, err = svc.DeleteNotice(admin, n.ID).Value()
	require.NoError(t, err)
}

func TestTables(t *testing.T) {
	svc, _, _ := setup(t)

	donations, err := svc.DonationsTable(admin, TableQuery{Filter: filter.Query{
		Conditions: []filter.Condition{{Field: "amount", Operator: filter.GTE, Value: 20000}},
	}}).Value()
	require.NoError(t, err)
	ids := make([]int64, 0, len(donations.Data))
	for _, d := range donations.Data {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int64{6, 12, 13, 20}, ids)
	assert.Equal(t, int64(4), donations.TotalCount)

	profiles, err := svc.ProfilesTable(admin, TableQuery{Filter: filter.Query{Search: "heart"}}).Value()
	require.NoError(t, err)
	require.Len(t, profiles.Data, 1)
	assert.Equal(t, fixture.DonorID(6), profiles.Data[0].ID)

	posts, err := svc.PostsTable(admin, TableQuery{
		Filter: filter.Query{Conditions: []filter.Condition{{Field: "board_type", Operator: filter.Equals, Value: "free"}}},
		Page:   repository.PageOptions{Page: 1, Limit: 2},
	}).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(3), posts.TotalCount)
	assert.Equal(t, 2, posts.TotalPages)
	require.Len(t, posts.Data, 2)
	assert.Equal(t, int64(4), posts.Data[0].ID)

	res := svc.MediaTable(admin, TableQuery{Filter: filter.Query{
		Conditions: []filter.Condition{{Field: "view_count", Operator: filter.Between, Value: 1}},
	}})
	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindValidation, res.Error.Kind)

	denied := svc.BannersTable(action.WithActor(context.Background(), fixture.ModeratorID), TableQuery{})
	assert.Equal(t, errs.KindForbidden, denied.Error.Kind)
}
