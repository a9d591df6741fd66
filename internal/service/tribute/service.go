// Package tribute serves VIP tribute pages: the reward, its gallery and the
// guestbook visitors leave on it.
package tribute

import (
	"context"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/repository"
)

// Page is everything a tribute page renders.
type Page struct {
	Profile   fandom.Profile          `json:"profile"`
	Reward    *fandom.VipReward       `json:"reward,omitempty"`
	Images    []fandom.VipImage       `json:"images"`
	Guestbook []fandom.GuestbookEntry `json:"guestbook"`
}

// ImageInput adds a picture to a reward's gallery.
type ImageInput struct {
	ImageURL   string  `json:"image_url"`
	Title      *string `json:"title,omitempty"`
	OrderIndex int     `json:"order_index"`
}

// Deleted acknowledges a removal.
type Deleted struct {
	ID int64 `json:"id"`
}

type Service interface {
	// Page fails with not found when the profile does not exist. A profile
	// without a reward still has a page.
	Page(ctx context.Context, profileID string) action.Result[Page]
	SeasonRewards(ctx context.Context, seasonID int64) action.Result[[]fandom.VipReward]
	TopRewards(ctx context.Context, limit int, seasonID *int64) action.Result[[]fandom.VipReward]

	WriteGuestbook(ctx context.Context, tributeUserID, message string) action.Result[fandom.GuestbookEntry]
	DeleteGuestbook(ctx context.Context, id int64) action.Result[Deleted]

	AddImage(ctx context.Context, rewardID int64, in ImageInput) action.Result[fandom.VipImage]
	RemoveImage(ctx context.Context, imageID int64) action.Result[Deleted]
}

type service struct {
	b   repository.Backend
	run *action.Runner
}

func New(b repository.Backend, run *action.Runner) Service { return &service{b: b, run: run} }

var (
	guestbookChanged = invalidation.Both(invalidation.Guestbook)
	imagesChanged    = invalidation.Both(invalidation.VipImages)
)

func (s *service) Page(ctx context.Context, profileID string) action.Result[Page] {
	return action.Public(ctx, s.run, "tribute.page", func(ctx context.Context) (Page, error) {
		p, err := s.b.Profiles().FindByID(ctx, profileID)
		if err != nil {
			return Page{}, err
		}
		if p == nil {
			return Page{}, errs.NotFound("tribute")
		}
		reward, err := s.b.VipRewards().FindByProfileID(ctx, profileID)
		if err != nil {
			return Page{}, err
		}
		images := []fandom.VipImage{}
		if reward != nil {
			if images, err = s.b.VipImages().FindByRewardID(ctx, reward.ID); err != nil {
				return Page{}, err
			}
		}
		entries, err := s.b.Guestbook().FindByTributeUserID(ctx, profileID)
		if err != nil {
			return Page{}, err
		}
		return Page{Profile: *p, Reward: reward, Images: images, Guestbook: entries}, nil
	})
}

func (s *service) SeasonRewards(ctx context.Context, seasonID int64) action.Result[[]fandom.VipReward] {
	return action.Public(ctx, s.run, "vip_rewards.season", func(ctx context.Context) ([]fandom.VipReward, error) {
		return s.b.VipRewards().FindBySeason(ctx, seasonID)
	})
}

func (s *service) TopRewards(ctx context.Context, limit int, seasonID *int64) action.Result[[]fandom.VipReward] {
	return action.Public(ctx, s.run, "vip_rewards.top", func(ctx context.Context) ([]fandom.VipReward, error) {
		if limit <= 0 {
			limit = repository.DefaultTopRankers
		}
		return s.b.VipRewards().FindTop(ctx, limit, seasonID)
	})
}

// WriteGuestbook signs with the actor's nickname. Writers who belong to a
// unit are members and skip moderation.
func (s *service) WriteGuestbook(ctx context.Context, tributeUserID, message string) action.Result[fandom.GuestbookEntry] {
	return action.Authenticated(ctx, s.run, "guestbook.write", func(ctx context.Context, actorID string) (fandom.GuestbookEntry, error) {
		owner, err := s.b.Profiles().FindByID(ctx, tributeUserID)
		if err != nil {
			return fandom.GuestbookEntry{}, err
		}
		if owner == nil {
			return fandom.GuestbookEntry{}, errs.NotFound("tribute")
		}
		author, err := s.b.Profiles().FindByID(ctx, actorID)
		if err != nil {
			return fandom.GuestbookEntry{}, err
		}
		if author == nil {
			return fandom.GuestbookEntry{}, errs.NotFound("profile")
		}
		return s.b.Guestbook().Create(ctx, fandom.GuestbookEntry{
			TributeUserID: tributeUserID,
			AuthorID:      &actorID,
			AuthorName:    author.Nickname,
			Message:       message,
			IsMember:      author.Unit != nil,
		})
	}, guestbookChanged...)
}

func (s *service) DeleteGuestbook(ctx context.Context, id int64) action.Result[Deleted] {
	return action.Authenticated(ctx, s.run, "guestbook.delete", func(ctx context.Context, actorID string) (Deleted, error) {
		e, err := s.b.Guestbook().FindByID(ctx, id)
		if err != nil {
			return Deleted{}, err
		}
		if e == nil {
			return Deleted{}, errs.NotFound("guestbook entry")
		}
		if e.AuthorID == nil || *e.AuthorID != actorID {
			if _, err := s.run.Permissions().RequireOwnerOrAdmin(ctx, actorID, e.TributeUserID, "guestbook.delete"); err != nil {
				return Deleted{}, err
			}
		}
		return Deleted{ID: id}, s.b.Guestbook().Delete(ctx, id)
	}, guestbookChanged...)
}

// reward loads a reward and checks that actorID owns it or is an admin.
func (s *service) reward(ctx context.Context, actorID string, rewardID int64, act string) (*fandom.VipReward, error) {
	r, err := s.b.VipRewards().FindByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errs.NotFound("reward")
	}
	if _, err := s.run.Permissions().RequireOwnerOrAdmin(ctx, actorID, r.ProfileID, act); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) AddImage(ctx context.Context, rewardID int64, in ImageInput) action.Result[fandom.VipImage] {
	return action.Authenticated(ctx, s.run, "vip_images.add", func(ctx context.Context, actorID string) (fandom.VipImage, error) {
		if _, err := s.reward(ctx, actorID, rewardID, "vip_images.add"); err != nil {
			return fandom.VipImage{}, err
		}
		return s.b.VipImages().Create(ctx, fandom.VipImage{
			RewardID:   rewardID,
			ImageURL:   in.ImageURL,
			Title:      in.Title,
			OrderIndex: in.OrderIndex,
		})
	}, imagesChanged...)
}

func (s *service) RemoveImage(ctx context.Context, imageID int64) action.Result[Deleted] {
	return action.Authenticated(ctx, s.run, "vip_images.remove", func(ctx context.Context, actorID string) (Deleted, error) {
		img, err := s.b.VipImages().FindByID(ctx, imageID)
		if err != nil {
			return Deleted{}, err
		}
		if img == nil {
			return Deleted{}, errs.NotFound("image")
		}
		if _, err := s.reward(ctx, actorID, img.RewardID, "vip_images.remove"); err != nil {
			return Deleted{}, err
		}
		return Deleted{ID: imageID}, s.b.VipImages().Delete(ctx, imageID)
	}, imagesChanged...)
}
