package tribute

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/permission"
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

func as(id string) context.Context { return action.WithActor(context.Background(), id) }

func entryIDs(entries []fandom.GuestbookEntry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestPage(t *testing.T) {
	svc, _, _ := setup(t)
	page, err := svc.Page(context.Background(), fixture.DonorID(6)).Value()
	require.NoError(t, err)
	assert.Equal(t, "PinkHeart", page.Profile.Nickname)
	require.NotNil(t, page.Reward)
	assert.Equal(t, int64(1), page.Reward.ID)
	assert.Len(t, page.Images, 2)
	assert.Equal(t, []int64{2, 1}, entryIDs(page.Guestbook))
}

func TestPageWithoutReward(t *testing.T) {
	svc, _, _ := setup(t)
	page, err := svc.Page(context.Background(), fixture.DonorID(8)).Value()
	require.NoError(t, err)
	assert.Nil(t, page.Reward)
	assert.Empty(t, page.Images)
	assert.Empty(t, page.Guestbook)

	res := svc.Page(context.Background(), "nobody")
	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
	assert.Equal(t, "tribute not found", res.Error.Message)
}

func TestWriteGuestbook(t *testing.T) {
	svc, store, rec := setup(t)
	ctx := context.Background()

	// Unit members are approved on write.
	e, err := svc.WriteGuestbook(as(fixture.DonorID(3)), fixture.DonorID(6), "well deserved").Value()
	require.NoError(t, err)
	assert.Equal(t, "SweetFan", e.AuthorName)
	assert.True(t, e.IsMember)
	assert.True(t, e.IsApproved)
	assert.Equal(t, []string{"public:guestbook", "admin:guestbook"}, rec.Keys())

	// Everyone else waits for moderation.
	e, err = svc.WriteGuestbook(as(fixture.MemberID), fixture.DonorID(6), "hello").Value()
	require.NoError(t, err)
	assert.False(t, e.IsApproved)

	pending, err := store.Guestbook().FindPending(ctx, fixture.DonorID(6))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, e.ID}, entryIDs(pending))

	res := svc.WriteGuestbook(context.Background(), fixture.DonorID(6), "hi")
	assert.Equal(t, errs.KindNotAuthenticated, res.Error.Kind)

	res = svc.WriteGuestbook(as(fixture.MemberID), fixture.DonorID(6), "  ")
	assert.Equal(t, errs.KindValidation, res.Error.Kind)

	res = svc.WriteGuestbook(as(fixture.MemberID), "nobody", "hi")
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
}

func TestDeleteGuestbook(t *testing.T) {
	tests := []struct {
		name  string
		actor string
		kind  errs.Kind
	}{
		{"author", fixture.DonorID(2), errs.KindNone},
		{"tribute owner", fixture.DonorID(6), errs.KindNone},
		{"admin", fixture.AdminID, errs.KindNone},
		{"moderator", fixture.ModeratorID, errs.KindForbidden},
		{"stranger", fixture.DonorID(3), errs.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, rec := setup(t)
			res := svc.DeleteGuestbook(as(tt.actor), 2)
			if tt.kind == errs.KindNone {
				require.Nil(t, res.Error)
				assert.NotEmpty(t, rec.Events())
				return
			}
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.kind, res.Error.Kind)
			assert.Equal(t, "insufficient permission for guestbook.delete", res.Error.Message)
			assert.Empty(t, rec.Events())
		})
	}
}

func TestGalleryOwnership(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()

	res := svc.AddImage(as(fixture.DonorID(1)), 1, ImageInput{ImageURL: "https://example.com/x.jpg"})
	assert.Equal(t, errs.KindForbidden, res.Error.Kind)

	img, err := svc.AddImage(as(fixture.DonorID(6)), 1, ImageInput{ImageURL: "https://example.com/x.jpg", OrderIndex: 2}).Value()
	require.NoError(t, err)

	images, err := store.VipImages().FindByRewardID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, images, 3)

	del := svc.RemoveImage(as(fixture.ModeratorID), img.ID)
	assert.Equal(t, errs.KindForbidden, del.Error.Kind)

	_, err = svc.RemoveImage(as(fixture.AdminID), img.ID).Value()
	require.NoError(t, err)

	del = svc.RemoveImage(as(fixture.AdminID), img.ID)
	assert.Equal(t, errs.KindNotFound, del.Error.Kind)

	res = svc.AddImage(as(fixture.AdminID), 99, ImageInput{ImageURL: "u"})
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
}

func TestRewards(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	season, err := svc.SeasonRewards(ctx, 3).Value()
	require.NoError(t, err)
	require.Len(t, season, 2)
	assert.Equal(t, 1, season[0].Rank)

	s4 := int64(4)
	top, err := svc.TopRewards(ctx, 0, &s4).Value()
	require.NoError(t, err)
	assert.Len(t, top, 3)
}
