package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/permission"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/storage/memory"
)

func setup(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.Load(fixture.Default())
	run := action.NewRunner(nil, permission.NewResolver(action.ProfileRoles{Profiles: store.Profiles()}), nil)
	return New(store, run), store
}

func unit(u fandom.Unit) *fandom.Unit { return &u }

func ids[T any](rows []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func scheduleID(s fandom.Schedule) int64 { return s.ID }

func TestSchedules(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	all, err := svc.Schedules(ctx, 2024, time.December, nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(all, scheduleID))

	crew, err := svc.Schedules(ctx, 2024, time.December, unit(fandom.UnitCrew)).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(crew, scheduleID))

	res := svc.Schedules(ctx, 2024, 13, nil)
	assert.Equal(t, errs.KindValidation, res.Error.Kind)

	res = svc.Schedules(ctx, 2024, time.December, unit("band"))
	assert.Equal(t, errs.KindValidation, res.Error.Kind)
}

func TestTimeline(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	cats, err := svc.TimelineCategories(ctx).Value()
	require.NoError(t, err)
	assert.Equal(t, []string{"event", "founding", "milestone"}, cats)

	events, err := svc.Timeline(ctx, repository.TimelineFilter{Category: "milestone"}).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, ids(events, func(e fandom.TimelineEvent) int64 { return e.ID }))
}

func TestSignatures(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	sigID := func(s fandom.Signature) int64 { return s.ID }

	featuredCrew, err := svc.Signatures(ctx, SignatureQuery{Featured: true, Unit: unit(fandom.UnitCrew)}).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(featuredCrew, sigID))

	byName, err := svc.Signatures(ctx, SignatureQuery{Member: "nano"}).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(byName, sigID))

	all, err := svc.Signatures(ctx, SignatureQuery{}).Value()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMedia(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	mediaID := func(m fandom.Media) int64 { return m.ID }

	shorts, err := svc.Media(ctx, MediaQuery{Type: fandom.MediaShorts}).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1}, ids(shorts, mediaID))

	excelShorts, err := svc.Media(ctx, MediaQuery{Type: fandom.MediaShorts, Unit: unit(fandom.UnitExcel)}).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(excelShorts, mediaID))

	res := svc.Media(ctx, MediaQuery{Type: "podcast"})
	assert.Equal(t, errs.KindValidation, res.Error.Kind)
}

func TestLive(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	board, err := svc.Live(ctx).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(3), board.LiveCount)
	require.Len(t, board.Members, 3)
	assert.Equal(t, []int64{6, 1, 3}, ids(board.Members, func(m LiveMember) int64 { return m.ID }))
	require.Len(t, board.Members[1].Streams, 1)
	assert.Equal(t, "pandatv", board.Members[1].Streams[0].Platform)

	require.NoError(t, store.LiveStatus().UpdateStatus(ctx, 1, false, nil))
	board, err = svc.Live(ctx).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(2), board.LiveCount)
	assert.Empty(t, board.Members[1].Streams)
}

func TestBannersAndOrganization(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	banners, err := svc.Banners(ctx).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(banners, func(b fandom.Banner) int64 { return b.ID }))

	orgID := func(m fandom.OrgMember) int64 { return m.ID }
	all, err := svc.Organization(ctx, nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5, 6, 7, 1, 2, 3}, ids(all, orgID))

	excel, err := svc.Organization(ctx, unit(fandom.UnitExcel)).Value()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(excel, orgID))
}
