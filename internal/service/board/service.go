// Package board implements the community board: posts, comments, likes and
// the notice board.
package board

import (
	"context"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/repository"
)

// PostInput holds the fields a caller may set on a post.
type PostInput struct {
	BoardType   fandom.BoardType `json:"board_type"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	IsAnonymous bool             `json:"is_anonymous"`
}

// CommentInput holds the fields a caller may set on a comment.
type CommentInput struct {
	Content     string `json:"content"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// Deleted acknowledges a removal.
type Deleted struct {
	ID int64 `json:"id"`
}

type Service interface {
	ListPosts(ctx context.Context, opts repository.PostListOptions) action.Result[repository.Page[fandom.PostItem]]
	SearchPosts(ctx context.Context, q repository.PostSearch) action.Result[repository.Page[fandom.PostItem]]
	RecentPosts(ctx context.Context, limit int) action.Result[[]fandom.PostItem]
	// GetPost counts a view before returning the post.
	GetPost(ctx context.Context, id int64) action.Result[fandom.PostItem]
	CreatePost(ctx context.Context, in PostInput) action.Result[fandom.Post]
	UpdatePost(ctx context.Context, id int64, in PostInput) action.Result[fandom.Post]
	DeletePost(ctx context.Context, id int64) action.Result[Deleted]
	ToggleLike(ctx context.Context, postID int64) action.Result[fandom.LikeResult]
	HasLiked(ctx context.Context, postID int64) action.Result[bool]

	Comments(ctx context.Context, postID int64) action.Result[[]fandom.CommentItem]
	CreateComment(ctx context.Context, postID int64, in CommentInput) action.Result[fandom.Comment]
	DeleteComment(ctx context.Context, id int64) action.Result[Deleted]

	Notices(ctx context.Context, opts repository.NoticeListOptions) action.Result[repository.Page[fandom.Notice]]
	SearchNotices(ctx context.Context, q repository.NoticeSearch) action.Result[repository.Page[fandom.Notice]]
	RecentNotices(ctx context.Context, limit int) action.Result[[]fandom.Notice]
	GetNotice(ctx context.Context, id int64) action.Result[fandom.Notice]
}

type service struct {
	b   repository.Backend
	run *action.Runner
}

func New(b repository.Backend, run *action.Runner) Service { return &service{b: b, run: run} }

var (
	postsChanged    = invalidation.Both(invalidation.Posts)
	commentsChanged = append(invalidation.Both(invalidation.Comments), invalidation.Both(invalidation.Posts)...)
)

func (s *service) ListPosts(ctx context.Context, opts repository.PostListOptions) action.Result[repository.Page[fandom.PostItem]] {
	return action.Public(ctx, s.run, "posts.list", func(ctx context.Context) (repository.Page[fandom.PostItem], error) {
		return s.b.Posts().FindPaginated(ctx, opts)
	})
}

func (s *service) SearchPosts(ctx context.Context, q repository.PostSearch) action.Result[repository.Page[fandom.PostItem]] {
	return action.Public(ctx, s.run, "posts.search", func(ctx context.Context) (repository.Page[fandom.PostItem], error) {
		switch q.Type {
		case "", repository.SearchTitle, repository.SearchAuthor, repository.SearchAll:
		default:
			return repository.Page[fandom.PostItem]{}, errs.Validation("unknown search type %q", q.Type)
		}
		return s.b.Posts().Search(ctx, q)
	})
}

func (s *service) RecentPosts(ctx context.Context, limit int) action.Result[[]fandom.PostItem] {
	return action.Public(ctx, s.run, "posts.recent", func(ctx context.Context) ([]fandom.PostItem, error) {
		return s.b.Posts().FindRecent(ctx, limit)
	})
}

func (s *service) GetPost(ctx context.Context, id int64) action.Result[fandom.PostItem] {
	return action.Public(ctx, s.run, "posts.get", func(ctx context.Context) (fandom.PostItem, error) {
		views, err := s.b.Posts().IncrementViewCount(ctx, id)
		if err != nil {
			return fandom.PostItem{}, err
		}
		p, err := s.b.Posts().FindByID(ctx, id)
		if err != nil {
			return fandom.PostItem{}, err
		}
		if p == nil {
			return fandom.PostItem{}, errs.NotFound("post")
		}
		p.ViewCount = views
		return *p, nil
	})
}

func (s *service) CreatePost(ctx context.Context, in PostInput) action.Result[fandom.Post] {
	return action.Authenticated(ctx, s.run, "posts.create", func(ctx context.Context, actorID string) (fandom.Post, error) {
		return s.b.Posts().Create(ctx, fandom.Post{
			BoardType:   in.BoardType,
			Title:       in.Title,
			Content:     in.Content,
			AuthorID:    actorID,
			IsAnonymous: in.IsAnonymous,
		})
	}, postsChanged...)
}

// ownPost loads a visible post and checks that actorID may change it.
func (s *service) ownPost(ctx context.Context, actorID string, id int64, act string) (*fandom.PostItem, error) {
	p, err := s.b.Posts().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NotFound("post")
	}
	if _, err := s.run.Permissions().RequireOwnerOrModerator(ctx, actorID, p.AuthorID, act); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdatePost(ctx context.Context, id int64, in PostInput) action.Result[fandom.Post] {
	return action.Authenticated(ctx, s.run, "posts.update", func(ctx context.Context, actorID string) (fandom.Post, error) {
		cur, err := s.ownPost(ctx, actorID, id, "posts.update")
		if err != nil {
			return fandom.Post{}, err
		}
		next := cur.Post
		next.Title, next.Content, next.IsAnonymous = in.Title, in.Content, in.IsAnonymous
		if in.BoardType != "" {
			next.BoardType = in.BoardType
		}
		return s.b.Posts().Update(ctx, next)
	}, postsChanged...)
}

func (s *service) DeletePost(ctx context.Context, id int64) action.Result[Deleted] {
	return action.Authenticated(ctx, s.run, "posts.delete", func(ctx context.Context, actorID string) (Deleted, error) {
		if _, err := s.ownPost(ctx, actorID, id, "posts.delete"); err != nil {
			return Deleted{}, err
		}
		return Deleted{ID: id}, s.b.Posts().Delete(ctx, id)
	}, postsChanged...)
}

func (s *service) ToggleLike(ctx context.Context, postID int64) action.Result[fandom.LikeResult] {
	return action.Authenticated(ctx, s.run, "posts.like", func(ctx context.Context, actorID string) (fandom.LikeResult, error) {
		return s.b.Posts().ToggleLike(ctx, postID, actorID)
	}, invalidation.Event{Entity: invalidation.Posts, Scope: invalidation.Public})
}

func (s *service) HasLiked(ctx context.Context, postID int64) action.Result[bool] {
	return action.Authenticated(ctx, s.run, "posts.has_liked", func(ctx context.Context, actorID string) (bool, error) {
		return s.b.Posts().HasUserLiked(ctx, postID, actorID)
	})
}

func (s *service) Comments(ctx context.Context, postID int64) action.Result[[]fandom.CommentItem] {
	return action.Public(ctx, s.run, "comments.list", func(ctx context.Context) ([]fandom.CommentItem, error) {
		return s.b.Comments().FindByPostID(ctx, postID)
	})
}

func (s *service) CreateComment(ctx context.Context, postID int64, in CommentInput) action.Result[fandom.Comment] {
	return action.Authenticated(ctx, s.run, "comments.create", func(ctx context.Context, actorID string) (fandom.Comment, error) {
		if in.ParentID != nil {
			parent, err := s.b.Comments().FindByID(ctx, *in.ParentID)
			if err != nil {
				return fandom.Comment{}, err
			}
			if parent == nil || parent.PostID != postID {
				return fandom.Comment{}, errs.Validation("reply target %d is not on this post", *in.ParentID)
			}
		}
		return s.b.Comments().Create(ctx, fandom.Comment{
			PostID:      postID,
			AuthorID:    actorID,
			Content:     in.Content,
			ParentID:    in.ParentID,
			IsAnonymous: in.IsAnonymous,
		})
	}, commentsChanged...)
}

func (s *service) DeleteComment(ctx context.Context, id int64) action.Result[Deleted] {
	return action.Authenticated(ctx, s.run, "comments.delete", func(ctx context.Context, actorID string) (Deleted, error) {
		c, err := s.b.Comments().FindByID(ctx, id)
		if err != nil {
			return Deleted{}, err
		}
		if c == nil {
			return Deleted{}, errs.NotFound("comment")
		}
		if _, err := s.run.Permissions().RequireOwnerOrModerator(ctx, actorID, c.AuthorID, "comments.delete"); err != nil {
			return Deleted{}, err
		}
		return Deleted{ID: id}, s.b.Comments().Delete(ctx, id)
	}, commentsChanged...)
}

func (s *service) Notices(ctx context.Context, opts repository.NoticeListOptions) action.Result[repository.Page[fandom.Notice]] {
	return action.Public(ctx, s.run, "notices.list", func(ctx context.Context) (repository.Page[fandom.Notice], error) {
		return s.b.Notices().FindPaginated(ctx, opts)
	})
}

func (s *service) SearchNotices(ctx context.Context, q repository.NoticeSearch) action.Result[repository.Page[fandom.Notice]] {
	return action.Public(ctx, s.run, "notices.search", func(ctx context.Context) (repository.Page[fandom.Notice], error) {
		return s.b.Notices().Search(ctx, q)
	})
}

func (s *service) RecentNotices(ctx context.Context, limit int) action.Result[[]fandom.Notice] {
	return action.Public(ctx, s.run, "notices.recent", func(ctx context.Context) ([]fandom.Notice, error) {
		return s.b.Notices().FindRecent(ctx, limit)
	})
}

func (s *service) GetNotice(ctx context.Context, id int64) action.Result[fandom.Notice] {
	return action.Public(ctx, s.run, "notices.get", func(ctx context.Context) (fandom.Notice, error) {
		n, err := s.b.Notices().FindByID(ctx, id)
		if err != nil {
			return fandom.Notice{}, err
		}
		if n == nil {
			return fandom.Notice{}, errs.NotFound("notice")
		}
		return *n, nil
	})
}
