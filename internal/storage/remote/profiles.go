package remote

import (
	"context"

	"github.com/google/uuid"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type profileRepo struct{ s *Store }

const profileOrder = "created_at asc, id asc"

func (r profileRepo) FindByID(ctx context.Context, id string) (*fandom.Profile, error) {
	return one[fandom.Profile](r.s.q(ctx).Where("id = ?", id), "find profile")
}

func (r profileRepo) FindByNickname(ctx context.Context, nickname string) (*fandom.Profile, error) {
	return one[fandom.Profile](r.s.q(ctx).Where("nickname = ?", nickname).Order(profileOrder), "find profile by nickname")
}

func (r profileRepo) FindVipMembers(ctx context.Context) ([]fandom.Profile, error) {
	return many[fandom.Profile](r.s.q(ctx).Where("role = ?", fandom.RoleVIP).Order("total_donation desc, id asc"), "vip members")
}

func (r profileRepo) FindAll(ctx context.Context) ([]fandom.Profile, error) {
	return many[fandom.Profile](r.s.q(ctx).Order(profileOrder), "list profiles")
}

func (r profileRepo) FindPaginated(ctx context.Context, opts repository.PageOptions) (repository.Page[fandom.Profile], error) {
	return page[fandom.Profile](r.s.q(ctx), "page profiles", profileOrder, opts)
}

func (r profileRepo) Create(ctx context.Context, p fandom.Profile) (fandom.Profile, error) {
	if p.Role == "" {
		p.Role = fandom.RoleMember
	}
	if err := p.Validate(); err != nil {
		return fandom.Profile{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	existing, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return fandom.Profile{}, err
	}
	if existing != nil {
		return fandom.Profile{}, errs.ErrConflict
	}
	if err := r.s.q(ctx).Create(&p).Error; err != nil {
		return fandom.Profile{}, errs.Backend("create profile", err)
	}
	return p, nil
}

func (r profileRepo) Update(ctx context.Context, p fandom.Profile) (fandom.Profile, error) {
	if p.Role == "" {
		p.Role = fandom.RoleMember
	}
	if err := p.Validate(); err != nil {
		return fandom.Profile{}, err
	}
	res := r.s.q(ctx).Model(&fandom.Profile{}).Where("id = ?", p.ID).Select("*").Omit("id", "created_at").Updates(&p)
	if res.Error != nil {
		return fandom.Profile{}, errs.Backend("update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return fandom.Profile{}, errs.NotFound("profile")
	}
	got, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return fandom.Profile{}, err
	}
	if got == nil {
		return fandom.Profile{}, errs.NotFound("profile")
	}
	return *got, nil
}

func (r profileRepo) Delete(ctx context.Context, id string) error {
	res := r.s.q(ctx).Where("id = ?", id).Delete(&fandom.Profile{})
	if res.Error != nil {
		return errs.Backend("delete profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("profile")
	}
	return nil
}
