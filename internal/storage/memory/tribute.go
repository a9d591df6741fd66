package memory

import (
	"cmp"
	"context"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type rewardRepo struct{ s *Store }

func rewardByRank(a, b fandom.VipReward) int {
	if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func rewardNewest(a, b fandom.VipReward) int { return desc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }

func inSeason(seasonID *int64) func(fandom.VipReward) bool {
	return func(r fandom.VipReward) bool { return seasonID == nil || r.SeasonID == *seasonID }
}

func (r rewardRepo) FindByID(_ context.Context, id int64) (*fandom.VipReward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.rewards.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r rewardRepo) FindByProfileID(_ context.Context, profileID string) (*fandom.VipReward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, _ := r.s.rewards.first(func(v fandom.VipReward) bool { return v.ProfileID == profileID }, rewardNewest)
	return row, nil
}

func (r rewardRepo) FindByRank(_ context.Context, rank int, seasonID *int64) (*fandom.VipReward, error) {
	season := inSeason(seasonID)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, _ := r.s.rewards.first(func(v fandom.VipReward) bool { return v.Rank == rank && season(v) }, rewardNewest)
	return row, nil
}

func (r rewardRepo) FindBySeason(_ context.Context, seasonID int64) ([]fandom.VipReward, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rewards.list(inSeason(&seasonID), rewardByRank), nil
}

func (r rewardRepo) FindTop(_ context.Context, limit int, seasonID *int64) ([]fandom.VipReward, error) {
	if limit <= 0 {
		limit = repository.DefaultTopRankers
	}
	season := inSeason(seasonID)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.rewards.list(func(v fandom.VipReward) bool {
		return v.Rank >= 1 && v.Rank <= limit && season(v)
	}, rewardByRank), nil
}

func (r rewardRepo) Create(_ context.Context, row fandom.VipReward) (fandom.VipReward, error) {
	if err := row.Validate(); err != nil {
		return fandom.VipReward{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.rewards.insert(row), nil
}

func (r rewardRepo) Update(_ context.Context, row fandom.VipReward) (fandom.VipReward, error) {
	if err := row.Validate(); err != nil {
		return fandom.VipReward{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.rewards.get(row.ID)
	if !ok {
		return fandom.VipReward{}, errs.NotFound("reward")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.rewards.replace(row)
	return row, nil
}

func (r rewardRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.rewards.remove(id) {
		return errs.NotFound("reward")
	}
	return nil
}

type imageRepo struct{ s *Store }

func imageOrder(a, b fandom.VipImage) int {
	if c := cmp.Compare(a.OrderIndex, b.OrderIndex); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r imageRepo) FindByID(_ context.Context, id int64) (*fandom.VipImage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.images.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r imageRepo) FindByRewardID(_ context.Context, rewardID int64) ([]fandom.VipImage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.images.list(func(i fandom.VipImage) bool { return i.RewardID == rewardID }, imageOrder), nil
}

func (r imageRepo) FindByProfileID(_ context.Context, profileID string) ([]fandom.VipImage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	owned := make(map[int64]struct{})
	for _, v := range r.s.rewards.rows {
		if v.ProfileID == profileID {
			owned[v.ID] = struct{}{}
		}
	}
	return r.s.images.list(func(i fandom.VipImage) bool {
		_, ok := owned[i.RewardID]
		return ok
	}, imageOrder), nil
}

// Create requires the parent reward to exist.
func (r imageRepo) Create(_ context.Context, img fandom.VipImage) (fandom.VipImage, error) {
	if err := img.Validate(); err != nil {
		return fandom.VipImage{}, err
	}
	stamp(&img.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rewards.get(img.RewardID); !ok {
		return fandom.VipImage{}, errs.NotFound("reward")
	}
	return r.s.images.insert(img), nil
}

func (r imageRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.images.remove(id) {
		return errs.NotFound("image")
	}
	return nil
}

type guestbookRepo struct{ s *Store }

func (r guestbookRepo) FindByID(_ context.Context, id int64) (*fandom.GuestbookEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.guestbook.get(id); ok && !row.IsDeleted {
		return &row, nil
	}
	return nil, nil
}

func (r guestbookRepo) FindByTributeUserID(_ context.Context, tributeUserID string) ([]fandom.GuestbookEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.guestbook.list(func(e fandom.GuestbookEntry) bool {
		return e.TributeUserID == tributeUserID && e.IsApproved && !e.IsDeleted
	}, func(a, b fandom.GuestbookEntry) int { return desc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }), nil
}

func (r guestbookRepo) FindPending(_ context.Context, tributeUserID string) ([]fandom.GuestbookEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.guestbook.list(func(e fandom.GuestbookEntry) bool {
		if tributeUserID != "" && e.TributeUserID != tributeUserID {
			return false
		}
		return !e.IsApproved && !e.IsDeleted
	}, func(a, b fandom.GuestbookEntry) int { return asc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }), nil
}

func (r guestbookRepo) Create(_ context.Context, e fandom.GuestbookEntry) (fandom.GuestbookEntry, error) {
	if err := e.Validate(); err != nil {
		return fandom.GuestbookEntry{}, err
	}
	e.IsApproved = e.IsMember
	e.IsDeleted = false
	stamp(&e.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.guestbook.insert(e), nil
}

func (r guestbookRepo) Approve(_ context.Context, id int64) (fandom.GuestbookEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.guestbook.get(id)
	if !ok || e.IsDeleted {
		return fandom.GuestbookEntry{}, errs.NotFound("guestbook entry")
	}
	e.IsApproved = true
	r.s.guestbook.replace(e)
	return e, nil
}

func (r guestbookRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.guestbook.get(id)
	if !ok || e.IsDeleted {
		return errs.NotFound("guestbook entry")
	}
	e.IsDeleted = true
	r.s.guestbook.replace(e)
	return nil
}
