package remote

import (
	"context"

	"gorm.io/gorm"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type rewardRepo struct{ s *Store }

const (
	rewardByRank = "rank asc, id asc"
	rewardNewest = "created_at desc, id desc"
)

func inSeason(tx *gorm.DB, seasonID *int64) *gorm.DB {
	if seasonID == nil {
		return tx
	}
	return tx.Where("season_id = ?", *seasonID)
}

func (r rewardRepo) FindByID(ctx context.Context, id int64) (*fandom.VipReward, error) {
	return one[fandom.VipReward](r.s.q(ctx).Where("id = ?", id), "find reward")
}

func (r rewardRepo) FindByProfileID(ctx context.Context, profileID string) (*fandom.VipReward, error) {
	return one[fandom.VipReward](r.s.q(ctx).Where("profile_id = ?", profileID).Order(rewardNewest), "reward by profile")
}

func (r rewardRepo) FindByRank(ctx context.Context, rank int, seasonID *int64) (*fandom.VipReward, error) {
	tx := inSeason(r.s.q(ctx).Where("rank = ?", rank), seasonID).Order(rewardNewest)
	return one[fandom.VipReward](tx, "reward by rank")
}

func (r rewardRepo) FindBySeason(ctx context.Context, seasonID int64) ([]fandom.VipReward, error) {
	return many[fandom.VipReward](r.s.q(ctx).Where("season_id = ?", seasonID).Order(rewardByRank), "rewards by season")
}

func (r rewardRepo) FindTop(ctx context.Context, limit int, seasonID *int64) ([]fandom.VipReward, error) {
	if limit <= 0 {
		limit = repository.DefaultTopRankers
	}
	tx := inSeason(r.s.q(ctx).Where("rank >= ? AND rank <= ?", 1, limit), seasonID).Order(rewardByRank)
	return many[fandom.VipReward](tx, "top rewards")
}

func (r rewardRepo) Create(ctx context.Context, row fandom.VipReward) (fandom.VipReward, error) {
	if err := row.Validate(); err != nil {
		return fandom.VipReward{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.VipReward{}, errs.Backend("create reward", err)
	}
	return row, nil
}

func (r rewardRepo) Update(ctx context.Context, row fandom.VipReward) (fandom.VipReward, error) {
	if err := row.Validate(); err != nil {
		return fandom.VipReward{}, err
	}
	return replace(r.s.q(ctx), "reward", row.ID, &row)
}

func (r rewardRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.VipReward](r.s.q(ctx), "reward", id)
}

type imageRepo struct{ s *Store }

const imageOrder = "order_index asc, id asc"

func (r imageRepo) FindByID(ctx context.Context, id int64) (*fandom.VipImage, error) {
	return one[fandom.VipImage](r.s.q(ctx).Where("id = ?", id), "find image")
}

func (r imageRepo) FindByRewardID(ctx context.Context, rewardID int64) ([]fandom.VipImage, error) {
	return many[fandom.VipImage](r.s.q(ctx).Where("reward_id = ?", rewardID).Order(imageOrder), "images by reward")
}

func (r imageRepo) FindByProfileID(ctx context.Context, profileID string) ([]fandom.VipImage, error) {
	owned := r.s.q(ctx).Model(&fandom.VipReward{}).Select("id").Where("profile_id = ?", profileID)
	return many[fandom.VipImage](r.s.q(ctx).Where("reward_id IN (?)", owned).Order(imageOrder), "images by profile")
}

func (r imageRepo) Create(ctx context.Context, img fandom.VipImage) (fandom.VipImage, error) {
	if err := img.Validate(); err != nil {
		return fandom.VipImage{}, err
	}
	img.ID = 0
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		reward, err := one[fandom.VipReward](tx.Where("id = ?", img.RewardID), "find reward")
		if err != nil {
			return err
		}
		if reward == nil {
			return errs.NotFound("reward")
		}
		if err := tx.Create(&img).Error; err != nil {
			return errs.Backend("create image", err)
		}
		return nil
	})
	if err != nil {
		return fandom.VipImage{}, err
	}
	return img, nil
}

func (r imageRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.VipImage](r.s.q(ctx), "image", id)
}

type guestbookRepo struct{ s *Store }

func liveEntries(tx *gorm.DB) *gorm.DB {
	return tx.Model(&fandom.GuestbookEntry{}).Where("is_deleted = ?", false)
}

func (r guestbookRepo) FindByID(ctx context.Context, id int64) (*fandom.GuestbookEntry, error) {
	return one[fandom.GuestbookEntry](liveEntries(r.s.q(ctx)).Where("id = ?", id), "find guestbook entry")
}

func (r guestbookRepo) FindByTributeUserID(ctx context.Context, tributeUserID string) ([]fandom.GuestbookEntry, error) {
	tx := liveEntries(r.s.q(ctx)).
		Where("tribute_user_id = ? AND is_approved = ?", tributeUserID, true).
		Order("created_at desc, id desc")
	return many[fandom.GuestbookEntry](tx, "guestbook")
}

func (r guestbookRepo) FindPending(ctx context.Context, tributeUserID string) ([]fandom.GuestbookEntry, error) {
	tx := liveEntries(r.s.q(ctx)).Where("is_approved = ?", false)
	if tributeUserID != "" {
		tx = tx.Where("tribute_user_id = ?", tributeUserID)
	}
	return many[fandom.GuestbookEntry](tx.Order("created_at asc, id asc"), "pending guestbook")
}

func (r guestbookRepo) Create(ctx context.Context, e fandom.GuestbookEntry) (fandom.GuestbookEntry, error) {
	if err := e.Validate(); err != nil {
		return fandom.GuestbookEntry{}, err
	}
	e.ID = 0
	e.IsApproved = e.IsMember
	e.IsDeleted = false
	if err := r.s.q(ctx).Create(&e).Error; err != nil {
		return fandom.GuestbookEntry{}, errs.Backend("create guestbook entry", err)
	}
	return e, nil
}

func (r guestbookRepo) Approve(ctx context.Context, id int64) (fandom.GuestbookEntry, error) {
	res := liveEntries(r.s.q(ctx)).Where("id = ?", id).UpdateColumn("is_approved", true)
	if res.Error != nil {
		return fandom.GuestbookEntry{}, errs.Backend("approve guestbook entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return fandom.GuestbookEntry{}, errs.NotFound("guestbook entry")
	}
	e, err := r.FindByID(ctx, id)
	if err != nil {
		return fandom.GuestbookEntry{}, err
	}
	if e == nil {
		return fandom.GuestbookEntry{}, errs.NotFound("guestbook entry")
	}
	return *e, nil
}

func (r guestbookRepo) Delete(ctx context.Context, id int64) error {
	res := liveEntries(r.s.q(ctx)).Where("id = ?", id).UpdateColumn("is_deleted", true)
	if res.Error != nil {
		return errs.Backend("delete guestbook entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("guestbook entry")
	}
	return nil
}
