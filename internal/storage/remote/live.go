package remote

import (
	"context"

	"gorm.io/gorm"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type liveRepo struct{ s *Store }

const liveByViewers = "viewer_count desc, id asc"

func (r liveRepo) FindAll(ctx context.Context) ([]fandom.LiveStatus, error) {
	return many[fandom.LiveStatus](r.s.q(ctx).Order("id asc"), "list live status")
}

func (r liveRepo) FindByMemberID(ctx context.Context, memberID int64) ([]fandom.LiveStatus, error) {
	return many[fandom.LiveStatus](r.s.q(ctx).Where("member_id = ?", memberID).Order("id asc"), "live status by member")
}

func (r liveRepo) FindLive(ctx context.Context) ([]fandom.LiveStatus, error) {
	return many[fandom.LiveStatus](r.s.q(ctx).Where("is_live = ?", true).Order(liveByViewers), "live now")
}

func (r liveRepo) FindLiveByPlatform(ctx context.Context, platform string) ([]fandom.LiveStatus, error) {
	tx := r.s.q(ctx).Where("is_live = ? AND platform = ?", true, platform).Order(liveByViewers)
	return many[fandom.LiveStatus](tx, "live by platform")
}

func (r liveRepo) UpdateStatus(ctx context.Context, memberID int64, isLive bool, viewerCount *int) error {
	set := map[string]any{
		"is_live":      isLive,
		"last_checked": repository.Timestamp(),
	}
	if viewerCount != nil {
		set["viewer_count"] = *viewerCount
	}
	res := r.s.q(ctx).Model(&fandom.LiveStatus{}).Where("member_id = ?", memberID).Updates(set)
	if res.Error != nil {
		return errs.Backend("update live status", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("live status")
	}
	return nil
}

func (r liveRepo) Upsert(ctx context.Context, l fandom.LiveStatus) (fandom.LiveStatus, error) {
	if err := l.Validate(); err != nil {
		return fandom.LiveStatus{}, err
	}
	if l.LastChecked.IsZero() {
		l.LastChecked = repository.Timestamp()
	}
	var out fandom.LiveStatus
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := one[fandom.LiveStatus](tx.Where("member_id = ? AND platform = ?", l.MemberID, l.Platform), "upsert live status")
		if err != nil {
			return err
		}
		if cur == nil {
			l.ID = 0
			if err := tx.Create(&l).Error; err != nil {
				return errs.Backend("insert live status", err)
			}
		} else {
			l.ID = cur.ID
			if err := tx.Save(&l).Error; err != nil {
				return errs.Backend("update live status", err)
			}
		}
		out = l
		return nil
	})
	if err != nil {
		return fandom.LiveStatus{}, err
	}
	return out, nil
}

func (r liveRepo) LiveCount(ctx context.Context) (int64, error) {
	var n int64
	if err := r.s.q(ctx).Model(&fandom.LiveStatus{}).Where("is_live = ?", true).Count(&n).Error; err != nil {
		return 0, errs.Backend("live count", err)
	}
	return n, nil
}

func (r liveRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.LiveStatus](r.s.q(ctx), "live status", id)
}
