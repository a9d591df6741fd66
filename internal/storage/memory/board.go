package memory

import (
	"context"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type postRepo struct{ s *Store }

func postNewest(a, b fandom.Post) int { return desc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }

func livePost(keep func(fandom.Post) bool) func(fandom.Post) bool {
	return func(p fandom.Post) bool { return !p.IsDeleted && (keep == nil || keep(p)) }
}

func onBoard(board fandom.BoardType) func(fandom.Post) bool {
	if board == "" {
		return nil
	}
	return func(p fandom.Post) bool { return p.BoardType == board }
}

// items lists visible posts with resolved authors. Callers hold the read lock.
func (r postRepo) items(keep func(fandom.Post) bool) []fandom.PostItem {
	rows := r.s.posts.list(livePost(keep), postNewest)
	ids := make([]string, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.AuthorID)
	}
	return repository.PostItems(rows, r.s.profileMap(ids))
}

func (r postRepo) FindByID(_ context.Context, id int64) (*fandom.PostItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := r.items(func(p fandom.Post) bool { return p.ID == id })
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r postRepo) FindByBoard(_ context.Context, board fandom.BoardType) ([]fandom.PostItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.items(func(p fandom.Post) bool { return p.BoardType == board }), nil
}

func (r postRepo) FindRecent(_ context.Context, limit int) ([]fandom.PostItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := r.items(nil)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r postRepo) FindAll(_ context.Context) ([]fandom.PostItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.items(nil), nil
}

func (r postRepo) FindPaginated(_ context.Context, opts repository.PostListOptions) (repository.Page[fandom.PostItem], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return repository.Paginate(r.items(onBoard(opts.Board)), opts.PageOptions), nil
}

func (r postRepo) Search(_ context.Context, q repository.PostSearch) (repository.Page[fandom.PostItem], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return repository.SearchPosts(r.items(onBoard(q.Board)), q)
}

// visible returns a non-deleted post. Callers hold the lock.
func (r postRepo) visible(id int64) (fandom.Post, error) {
	p, ok := r.s.posts.get(id)
	if !ok || p.IsDeleted {
		return fandom.Post{}, errs.NotFound("post")
	}
	return p, nil
}

func (r postRepo) IncrementViewCount(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, err := r.visible(id)
	if err != nil {
		return 0, err
	}
	p.ViewCount++
	r.s.posts.replace(p)
	return p.ViewCount, nil
}

func (r postRepo) Create(_ context.Context, p fandom.Post) (fandom.Post, error) {
	if err := p.Validate(); err != nil {
		return fandom.Post{}, err
	}
	now := repository.Timestamp()
	stamp(&p.CreatedAt, now)
	stamp(&p.UpdatedAt, now)
	p.IsDeleted = false
	p.ViewCount, p.LikeCount, p.CommentCount = 0, 0, 0
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.posts.insert(p), nil
}

// Update replaces the editable fields; counters and authorship are kept.
func (r postRepo) Update(_ context.Context, p fandom.Post) (fandom.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, err := r.visible(p.ID)
	if err != nil {
		return fandom.Post{}, err
	}
	cur.Title, cur.Content, cur.BoardType, cur.IsAnonymous = p.Title, p.Content, p.BoardType, p.IsAnonymous
	if err := cur.Validate(); err != nil {
		return fandom.Post{}, err
	}
	cur.UpdatedAt = repository.Timestamp()
	r.s.posts.replace(cur)
	return cur, nil
}

func (r postRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, err := r.visible(id)
	if err != nil {
		return err
	}
	p.IsDeleted = true
	p.UpdatedAt = repository.Timestamp()
	r.s.posts.replace(p)
	return nil
}

func (r postRepo) ToggleLike(_ context.Context, postID int64, userID string) (fandom.LikeResult, error) {
	if userID == "" {
		return fandom.LikeResult{}, errs.Validation("user is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, err := r.visible(postID)
	if err != nil {
		return fandom.LikeResult{}, err
	}
	existing, found := r.s.likes.first(func(l fandom.PostLike) bool {
		return l.PostID == postID && l.UserID == userID
	}, func(a, b fandom.PostLike) int { return asc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })

	res := fandom.LikeResult{}
	if found {
		r.s.likes.remove(existing.ID)
		if p.LikeCount > 0 {
			p.LikeCount--
		}
	} else {
		r.s.likes.insert(fandom.PostLike{PostID: postID, UserID: userID, CreatedAt: repository.Timestamp()})
		p.LikeCount++
		res.Liked = true
	}
	r.s.posts.replace(p)
	res.LikeCount = p.LikeCount
	return res, nil
}

func (r postRepo) HasUserLiked(_ context.Context, postID int64, userID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, l := range r.s.likes.rows {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) FindByPostID(_ context.Context, postID int64) ([]fandom.CommentItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.comments.list(func(c fandom.Comment) bool { return c.PostID == postID && !c.IsDeleted },
		func(a, b fandom.Comment) int { return asc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) })
	ids := make([]string, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.AuthorID)
	}
	return repository.CommentItems(rows, r.s.profileMap(ids)), nil
}

func (r commentRepo) FindByID(_ context.Context, id int64) (*fandom.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments.get(id)
	if !ok || c.IsDeleted {
		return nil, nil
	}
	return &c, nil
}

func (r commentRepo) Create(_ context.Context, c fandom.Comment) (fandom.Comment, error) {
	if err := c.Validate(); err != nil {
		return fandom.Comment{}, err
	}
	now := repository.Timestamp()
	stamp(&c.CreatedAt, now)
	stamp(&c.UpdatedAt, now)
	c.IsDeleted = false
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, err := postRepo(r).visible(c.PostID)
	if err != nil {
		return fandom.Comment{}, err
	}
	c = r.s.comments.insert(c)
	p.CommentCount++
	r.s.posts.replace(p)
	return c, nil
}

func (r commentRepo) Update(_ context.Context, c fandom.Comment) (fandom.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.comments.get(c.ID)
	if !ok || cur.IsDeleted {
		return fandom.Comment{}, errs.NotFound("comment")
	}
	cur.Content, cur.IsAnonymous = c.Content, c.IsAnonymous
	if err := cur.Validate(); err != nil {
		return fandom.Comment{}, err
	}
	cur.UpdatedAt = repository.Timestamp()
	r.s.comments.replace(cur)
	return cur, nil
}

func (r commentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments.get(id)
	if !ok || c.IsDeleted {
		return errs.NotFound("comment")
	}
	c.IsDeleted = true
	c.UpdatedAt = repository.Timestamp()
	r.s.comments.replace(c)
	if p, ok := r.s.posts.get(c.PostID); ok && p.CommentCount > 0 {
		p.CommentCount--
		r.s.posts.replace(p)
	}
	return nil
}
