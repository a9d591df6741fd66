package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type profileRepo struct{ s *Store }

func profileOrder(a, b fandom.Profile) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *Store) profileList(keep func(fandom.Profile) bool) []fandom.Profile {
	out := make([]fandom.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, profileOrder)
	return out
}

func (r profileRepo) FindByID(_ context.Context, id string) (*fandom.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r profileRepo) FindByNickname(_ context.Context, nickname string) (*fandom.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.profileList(func(p fandom.Profile) bool { return p.Nickname == nickname })
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r profileRepo) FindVipMembers(_ context.Context) ([]fandom.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.profileList(func(p fandom.Profile) bool { return p.Role == fandom.RoleVIP })
	slices.SortFunc(rows, func(a, b fandom.Profile) int {
		if c := cmp.Compare(b.TotalDonation, a.TotalDonation); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return rows, nil
}

func (r profileRepo) FindAll(_ context.Context) ([]fandom.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.profileList(nil), nil
}

func (r profileRepo) FindPaginated(ctx context.Context, opts repository.PageOptions) (repository.Page[fandom.Profile], error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return repository.Page[fandom.Profile]{}, err
	}
	return repository.Paginate(all, opts), nil
}

func (r profileRepo) Create(_ context.Context, p fandom.Profile) (fandom.Profile, error) {
	if p.Role == "" {
		p.Role = fandom.RoleMember
	}
	if err := p.Validate(); err != nil {
		return fandom.Profile{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := repository.Timestamp()
	stamp(&p.CreatedAt, now)
	stamp(&p.UpdatedAt, now)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.profiles[p.ID]; exists {
		return fandom.Profile{}, errs.ErrConflict
	}
	r.s.profiles[p.ID] = p
	return p, nil
}

func (r profileRepo) Update(_ context.Context, p fandom.Profile) (fandom.Profile, error) {
	if p.Role == "" {
		p.Role = fandom.RoleMember
	}
	if err := p.Validate(); err != nil {
		return fandom.Profile{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.profiles[p.ID]
	if !ok {
		return fandom.Profile{}, errs.NotFound("profile")
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = repository.Timestamp()
	r.s.profiles[p.ID] = p
	return p, nil
}

func (r profileRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[id]; !ok {
		return errs.NotFound("profile")
	}
	delete(r.s.profiles, id)
	return nil
}

// profileMap snapshots profiles by id. Callers hold the lock.
func (s *Store) profileMap(ids []string) map[string]fandom.Profile {
	out := make(map[string]fandom.Profile, len(ids))
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out
}
