package board

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

func as(id string) context.Context { return action.WithActor(context.Background(), id) }

func TestGetPostCountsView(t *testing.T) {
	svc, _, _ := setup(t)
	p, err := svc.GetPost(context.Background(), 1).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(121), p.ViewCount)
	assert.Equal(t, "gul***", p.AuthorName)

	res := svc.GetPost(context.Background(), 5)
	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
	assert.Equal(t, "post not found", res.Error.Message)
}

func TestCreatePostUsesActor(t *testing.T) {
	svc, _, rec := setup(t)
	p, err := svc.CreatePost(as(fixture.MemberID), PostInput{BoardType: fandom.BoardFree, Title: "hi", Content: "there"}).Value()
	require.NoError(t, err)
	assert.Equal(t, fixture.MemberID, p.AuthorID)
	assert.Equal(t, []string{"public:posts", "admin:posts"}, rec.Keys())

	res := svc.CreatePost(context.Background(), PostInput{BoardType: fandom.BoardFree, Title: "x"})
	assert.Equal(t, errs.KindNotAuthenticated, res.Error.Kind)

	res = svc.CreatePost(as(fixture.MemberID), PostInput{BoardType: fandom.BoardFree})
	assert.Equal(t, errs.KindValidation, res.Error.Kind)
	assert.Equal(t, "title is required", res.Error.Message)
}

func TestPostOwnershipRules(t *testing.T) {
	tests := []struct {
		name  string
		actor string
		kind  errs.Kind
	}{
		{"author", fixture.DonorID(1), errs.KindNone},
		{"moderator", fixture.ModeratorID, errs.KindNone},
		{"admin", fixture.AdminID, errs.KindNone},
		{"other vip", fixture.DonorID(2), errs.KindForbidden},
		{"member", fixture.MemberID, errs.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, rec := setup(t)
			res := svc.UpdatePost(as(tt.actor), 1, PostInput{Title: "edited", Content: "c"})
			if tt.kind == errs.KindNone {
				require.Nil(t, res.Error)
				assert.Equal(t, "edited", res.Data.Title)
				assert.Equal(t, fandom.BoardFree, res.Data.BoardType)
				assert.NotEmpty(t, rec.Events())
				return
			}
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.kind, res.Error.Kind)
			assert.Equal(t, "insufficient permission for posts.update", res.Error.Message)
			assert.Empty(t, rec.Events())
		})
	}
}

func TestDeletePost(t *testing.T) {
	svc, store, _ := setup(t)
	res := svc.DeletePost(as(fixture.DonorID(2)), 1)
	assert.Equal(t, errs.KindForbidden, res.Error.Kind)

	d, err := svc.DeletePost(as(fixture.DonorID(1)), 1).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)

	p, err := store.Posts().FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, p)

	res = svc.DeletePost(as(fixture.DonorID(1)), 1)
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
}

func TestLikes(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := as(fixture.DonorID(5))

	r, err := svc.ToggleLike(ctx, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, fandom.LikeResult{Liked: true, LikeCount: 2}, r)

	liked, err := svc.HasLiked(ctx, 2).Value()
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestComments(t *testing.T) {
	svc, _, rec := setup(t)

	c, err := svc.CreateComment(as(fixture.DonorID(3)), 1, CommentInput{Content: "me too", ParentID: ptr(int64(1))}).Value()
	require.NoError(t, err)
	assert.Equal(t, fixture.DonorID(3), c.AuthorID)
	assert.Contains(t, rec.Keys(), "public:comments")
	assert.Contains(t, rec.Keys(), "public:posts")

	res := svc.CreateComment(as(fixture.DonorID(3)), 2, CommentInput{Content: "x", ParentID: ptr(int64(1))})
	assert.Equal(t, errs.KindValidation, res.Error.Kind)

	items, err := svc.Comments(context.Background(), 1).Value()
	require.NoError(t, err)
	assert.Len(t, items, 3)

	del := svc.DeleteComment(as(fixture.DonorID(1)), c.ID)
	assert.Equal(t, errs.KindForbidden, del.Error.Kind)

	_, err = svc.DeleteComment(as(fixture.ModeratorID), c.ID).Value()
	require.NoError(t, err)
}

func TestSearchPosts(t *testing.T) {
	svc, _, _ := setup(t)
	pg, err := svc.SearchPosts(context.Background(), repository.PostSearch{Query: "pink", Type: repository.SearchAuthor}).Value()
	require.NoError(t, err)
	require.Len(t, pg.Data, 1)
	assert.Equal(t, int64(2), pg.Data[0].ID)

	res := svc.SearchPosts(context.Background(), repository.PostSearch{Query: "x", Type: "body"})
	assert.Equal(t, errs.KindValidation, res.Error.Kind)
}

func TestNotices(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	pg, err := svc.Notices(ctx, repository.NoticeListOptions{PageOptions: repository.PageOptions{Limit: 2}}).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(4), pg.TotalCount)
	assert.Equal(t, 2, pg.TotalPages)
	assert.True(t, pg.Data[0].IsPinned)

	n, err := svc.GetNotice(ctx, 3).Value()
	require.NoError(t, err)
	assert.Equal(t, "event", n.Category)

	res := svc.GetNotice(ctx, 42)
	assert.Equal(t, errs.KindNotFound, res.Error.Kind)
}

func ptr[T any](v T) *T { return &v }
