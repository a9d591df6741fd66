package remote

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type postRepo struct{ s *Store }

const postOrder = "created_at desc, id desc"

func visiblePosts(tx *gorm.DB) *gorm.DB {
	return tx.Model(&fandom.Post{}).Where("is_deleted = ?", false)
}

func onBoard(tx *gorm.DB, board fandom.BoardType) *gorm.DB {
	if board == "" {
		return tx
	}
	return tx.Where("board_type = ?", board)
}

// items resolves authors for rows already read.
func (r postRepo) items(ctx context.Context, rows []fandom.Post) ([]fandom.PostItem, error) {
	ids := make([]string, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.AuthorID)
	}
	profiles, err := r.s.profileMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	return repository.PostItems(rows, profiles), nil
}

func (r postRepo) list(ctx context.Context, tx *gorm.DB, op string) ([]fandom.PostItem, error) {
	rows, err := many[fandom.Post](tx.Order(postOrder), op)
	if err != nil {
		return nil, err
	}
	return r.items(ctx, rows)
}

func (r postRepo) FindByID(ctx context.Context, id int64) (*fandom.PostItem, error) {
	p, err := one[fandom.Post](visiblePosts(r.s.q(ctx)).Where("id = ?", id), "find post")
	if err != nil || p == nil {
		return nil, err
	}
	items, err := r.items(ctx, []fandom.Post{*p})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (r postRepo) FindByBoard(ctx context.Context, board fandom.BoardType) ([]fandom.PostItem, error) {
	return r.list(ctx, visiblePosts(r.s.q(ctx)).Where("board_type = ?", board), "posts by board")
}

func (r postRepo) FindRecent(ctx context.Context, limit int) ([]fandom.PostItem, error) {
	tx := visiblePosts(r.s.q(ctx))
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return r.list(ctx, tx, "recent posts")
}

func (r postRepo) FindAll(ctx context.Context) ([]fandom.PostItem, error) {
	return r.list(ctx, visiblePosts(r.s.q(ctx)), "list posts")
}

func (r postRepo) FindPaginated(ctx context.Context, opts repository.PostListOptions) (repository.Page[fandom.PostItem], error) {
	pg, err := page[fandom.Post](onBoard(visiblePosts(r.s.q(ctx)), opts.Board), "page posts", postOrder, opts.PageOptions)
	if err != nil {
		return repository.Page[fandom.PostItem]{}, err
	}
	items, err := r.items(ctx, pg.Data)
	if err != nil {
		return repository.Page[fandom.PostItem]{}, err
	}
	return repository.Page[fandom.PostItem]{
		Data:       items,
		TotalCount: pg.TotalCount,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: pg.TotalPages,
	}, nil
}

// Search matches on resolved author names, so it filters after the read.
func (r postRepo) Search(ctx context.Context, q repository.PostSearch) (repository.Page[fandom.PostItem], error) {
	all, err := r.list(ctx, onBoard(visiblePosts(r.s.q(ctx)), q.Board), "search posts")
	if err != nil {
		return repository.Page[fandom.PostItem]{}, err
	}
	return repository.SearchPosts(all, q)
}

func (r postRepo) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		res := visiblePosts(tx).Where("id = ?", id).UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return errs.Backend("increment views", res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("post")
		}
		if err := tx.Model(&fandom.Post{}).Where("id = ?", id).Select("view_count").Scan(&count).Error; err != nil {
			return errs.Backend("increment views", err)
		}
		return nil
	})
	return count, err
}

func (r postRepo) Create(ctx context.Context, p fandom.Post) (fandom.Post, error) {
	if err := p.Validate(); err != nil {
		return fandom.Post{}, err
	}
	p.ID = 0
	p.IsDeleted = false
	p.ViewCount, p.LikeCount, p.CommentCount = 0, 0, 0
	if err := r.s.q(ctx).Create(&p).Error; err != nil {
		return fandom.Post{}, errs.Backend("create post", err)
	}
	return p, nil
}

// visible reads a non-deleted post inside tx.
func visible(tx *gorm.DB, id int64) (fandom.Post, error) {
	p, err := one[fandom.Post](visiblePosts(tx).Where("id = ?", id), "find post")
	if err != nil {
		return fandom.Post{}, err
	}
	if p == nil {
		return fandom.Post{}, errs.NotFound("post")
	}
	return *p, nil
}

func (r postRepo) Update(ctx context.Context, p fandom.Post) (fandom.Post, error) {
	var out fandom.Post
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := visible(tx, p.ID)
		if err != nil {
			return err
		}
		cur.Title, cur.Content, cur.BoardType, cur.IsAnonymous = p.Title, p.Content, p.BoardType, p.IsAnonymous
		if err := cur.Validate(); err != nil {
			return err
		}
		cur.UpdatedAt = repository.Timestamp()
		err = tx.Model(&fandom.Post{}).Where("id = ?", cur.ID).Updates(map[string]any{
			"title":        cur.Title,
			"content":      cur.Content,
			"board_type":   cur.BoardType,
			"is_anonymous": cur.IsAnonymous,
			"updated_at":   cur.UpdatedAt,
		}).Error
		if err != nil {
			return errs.Backend("update post", err)
		}
		out = cur
		return nil
	})
	return out, err
}

func (r postRepo) Delete(ctx context.Context, id int64) error {
	res := visiblePosts(r.s.q(ctx)).Where("id = ?", id).Updates(map[string]any{
		"is_deleted": true,
		"updated_at": repository.Timestamp(),
	})
	if res.Error != nil {
		return errs.Backend("delete post", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("post")
	}
	return nil
}

func (r postRepo) ToggleLike(ctx context.Context, postID int64, userID string) (fandom.LikeResult, error) {
	if userID == "" {
		return fandom.LikeResult{}, errs.Validation("user is required")
	}
	var res fandom.LikeResult
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := visible(tx, postID); err != nil {
			return err
		}
		var like fandom.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).Take(&like).Error
		switch {
		case err == nil:
			if err := tx.Delete(&fandom.PostLike{}, like.ID).Error; err != nil {
				return errs.Backend("unlike", err)
			}
			err = tx.Model(&fandom.Post{}).Where("id = ? AND like_count > 0", postID).
				UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error
			if err != nil {
				return errs.Backend("unlike", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			like = fandom.PostLike{PostID: postID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return errs.Backend("like", err)
			}
			err = tx.Model(&fandom.Post{}).Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
			if err != nil {
				return errs.Backend("like", err)
			}
			res.Liked = true
		default:
			return errs.Backend("toggle like", err)
		}
		if err := tx.Model(&fandom.Post{}).Where("id = ?", postID).Select("like_count").Scan(&res.LikeCount).Error; err != nil {
			return errs.Backend("toggle like", err)
		}
		return nil
	})
	if err != nil {
		return fandom.LikeResult{}, err
	}
	return res, nil
}

func (r postRepo) HasUserLiked(ctx context.Context, postID int64, userID string) (bool, error) {
	var n int64
	err := r.s.q(ctx).Model(&fandom.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&n).Error
	if err != nil {
		return false, errs.Backend("has liked", err)
	}
	return n > 0, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) FindByPostID(ctx context.Context, postID int64) ([]fandom.CommentItem, error) {
	rows, err := many[fandom.Comment](r.s.q(ctx).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Order("created_at asc, id asc"), "comments by post")
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.AuthorID)
	}
	profiles, err := r.s.profileMap(ctx, ids)
	if err != nil {
		return nil, err
	}
	return repository.CommentItems(rows, profiles), nil
}

func (r commentRepo) FindByID(ctx context.Context, id int64) (*fandom.Comment, error) {
	return one[fandom.Comment](r.s.q(ctx).Where("id = ? AND is_deleted = ?", id, false), "find comment")
}

func (r commentRepo) Create(ctx context.Context, c fandom.Comment) (fandom.Comment, error) {
	if err := c.Validate(); err != nil {
		return fandom.Comment{}, err
	}
	c.ID = 0
	c.IsDeleted = false
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := visible(tx, c.PostID); err != nil {
			return err
		}
		if err := tx.Create(&c).Error; err != nil {
			return errs.Backend("create comment", err)
		}
		err := tx.Model(&fandom.Post{}).Where("id = ?", c.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
		if err != nil {
			return errs.Backend("create comment", err)
		}
		return nil
	})
	if err != nil {
		return fandom.Comment{}, err
	}
	return c, nil
}

func (r commentRepo) Update(ctx context.Context, c fandom.Comment) (fandom.Comment, error) {
	var out fandom.Comment
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := one[fandom.Comment](tx.Where("id = ? AND is_deleted = ?", c.ID, false), "find comment")
		if err != nil {
			return err
		}
		if cur == nil {
			return errs.NotFound("comment")
		}
		cur.Content, cur.IsAnonymous = c.Content, c.IsAnonymous
		if err := cur.Validate(); err != nil {
			return err
		}
		cur.UpdatedAt = repository.Timestamp()
		err = tx.Model(&fandom.Comment{}).Where("id = ?", cur.ID).Updates(map[string]any{
			"content":      cur.Content,
			"is_anonymous": cur.IsAnonymous,
			"updated_at":   cur.UpdatedAt,
		}).Error
		if err != nil {
			return errs.Backend("update comment", err)
		}
		out = *cur
		return nil
	})
	return out, err
}

func (r commentRepo) Delete(ctx context.Context, id int64) error {
	return r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := one[fandom.Comment](tx.Where("id = ? AND is_deleted = ?", id, false), "find comment")
		if err != nil {
			return err
		}
		if cur == nil {
			return errs.NotFound("comment")
		}
		err = tx.Model(&fandom.Comment{}).Where("id = ?", id).Updates(map[string]any{
			"is_deleted": true,
			"updated_at": repository.Timestamp(),
		}).Error
		if err != nil {
			return errs.Backend("delete comment", err)
		}
		err = tx.Model(&fandom.Post{}).Where("id = ? AND comment_count > 0", cur.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - ?", 1)).Error
		if err != nil {
			return errs.Backend("delete comment", err)
		}
		return nil
	})
}
