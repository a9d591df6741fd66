package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type noticeRepo struct{ s *Store }

func noticeOrder(a, b fandom.Notice) int {
	if c := boolDesc(a.IsPinned, b.IsPinned); c != 0 {
		return c
	}
	return desc(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
}

func inCategory(category string) func(fandom.Notice) bool {
	if category == "" {
		return nil
	}
	return func(n fandom.Notice) bool { return n.Category == category }
}

func (r noticeRepo) FindByID(_ context.Context, id int64) (*fandom.Notice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.notices.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r noticeRepo) FindRecent(_ context.Context, limit int) ([]fandom.Notice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.notices.list(nil, noticeOrder)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r noticeRepo) FindAll(_ context.Context) ([]fandom.Notice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.notices.list(nil, noticeOrder), nil
}

func (r noticeRepo) FindPaginated(_ context.Context, opts repository.NoticeListOptions) (repository.Page[fandom.Notice], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return repository.Paginate(r.s.notices.list(inCategory(opts.Category), noticeOrder), opts.PageOptions), nil
}

func (r noticeRepo) Search(_ context.Context, q repository.NoticeSearch) (repository.Page[fandom.Notice], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return repository.SearchNotices(r.s.notices.list(inCategory(q.Category), noticeOrder), q)
}

func (r noticeRepo) Create(_ context.Context, n fandom.Notice) (fandom.Notice, error) {
	if err := n.Validate(); err != nil {
		return fandom.Notice{}, err
	}
	now := repository.Timestamp()
	stamp(&n.CreatedAt, now)
	stamp(&n.UpdatedAt, now)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.notices.insert(n), nil
}

func (r noticeRepo) Update(_ context.Context, n fandom.Notice) (fandom.Notice, error) {
	if err := n.Validate(); err != nil {
		return fandom.Notice{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.notices.get(n.ID)
	if !ok {
		return fandom.Notice{}, errs.NotFound("notice")
	}
	n.CreatedAt = cur.CreatedAt
	n.UpdatedAt = repository.Timestamp()
	r.s.notices.replace(n)
	return n, nil
}

func (r noticeRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.notices.remove(id) {
		return errs.NotFound("notice")
	}
	return nil
}

type scheduleRepo struct{ s *Store }

func scheduleOrder(a, b fandom.Schedule) int { return asc(a.StartAt, b.StartAt, a.ID, b.ID) }

func (r scheduleRepo) FindByID(_ context.Context, id int64) (*fandom.Schedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.schedules.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r scheduleRepo) FindAll(_ context.Context) ([]fandom.Schedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.schedules.list(nil, scheduleOrder), nil
}

func (r scheduleRepo) month(year int, month time.Month, unit *fandom.Unit) []fandom.Schedule {
	start, end := repository.MonthRange(year, month)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.schedules.list(func(s fandom.Schedule) bool {
		if s.StartAt.Before(start) || !s.StartAt.Before(end) {
			return false
		}
		return unit == nil || s.Unit == nil || *s.Unit == *unit
	}, scheduleOrder)
}

func (r scheduleRepo) FindByMonth(_ context.Context, year int, month time.Month) ([]fandom.Schedule, error) {
	return r.month(year, month, nil), nil
}

func (r scheduleRepo) FindByMonthAndUnit(_ context.Context, year int, month time.Month, unit fandom.Unit) ([]fandom.Schedule, error) {
	return r.month(year, month, &unit), nil
}

func (r scheduleRepo) Create(_ context.Context, row fandom.Schedule) (fandom.Schedule, error) {
	if err := row.Validate(); err != nil {
		return fandom.Schedule{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.schedules.insert(row), nil
}

func (r scheduleRepo) Update(_ context.Context, row fandom.Schedule) (fandom.Schedule, error) {
	if err := row.Validate(); err != nil {
		return fandom.Schedule{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.schedules.get(row.ID)
	if !ok {
		return fandom.Schedule{}, errs.NotFound("schedule")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.schedules.replace(row)
	return row, nil
}

func (r scheduleRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.schedules.remove(id) {
		return errs.NotFound("schedule")
	}
	return nil
}

type timelineRepo struct{ s *Store }

func timelineOrder(a, b fandom.TimelineEvent) int { return desc(a.EventDate, b.EventDate, a.ID, b.ID) }

func (r timelineRepo) FindByID(_ context.Context, id int64) (*fandom.TimelineEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.timeline.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r timelineRepo) FindAll(_ context.Context) ([]fandom.TimelineEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.timeline.list(nil, timelineOrder), nil
}

func (r timelineRepo) FindByFilter(_ context.Context, f repository.TimelineFilter) ([]fandom.TimelineEvent, error) {
	category, byCategory := repository.TimelineCategory(f.Category)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.timeline.list(func(e fandom.TimelineEvent) bool {
		if f.SeasonID != nil && (e.SeasonID == nil || *e.SeasonID != *f.SeasonID) {
			return false
		}
		if byCategory && e.Category != category {
			return false
		}
		if f.Unit != nil && e.Unit != nil && *e.Unit != *f.Unit {
			return false
		}
		return true
	}, timelineOrder), nil
}

func (r timelineRepo) GetCategories(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range r.s.timeline.rows {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	slices.Sort(out)
	return out, nil
}

func (r timelineRepo) Create(_ context.Context, row fandom.TimelineEvent) (fandom.TimelineEvent, error) {
	if err := row.Validate(); err != nil {
		return fandom.TimelineEvent{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.timeline.insert(row), nil
}

func (r timelineRepo) Update(_ context.Context, row fandom.TimelineEvent) (fandom.TimelineEvent, error) {
	if err := row.Validate(); err != nil {
		return fandom.TimelineEvent{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.timeline.get(row.ID)
	if !ok {
		return fandom.TimelineEvent{}, errs.NotFound("timeline event")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.timeline.replace(row)
	return row, nil
}

func (r timelineRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.timeline.remove(id) {
		return errs.NotFound("timeline event")
	}
	return nil
}

type signatureRepo struct{ s *Store }

func signatureOrder(a, b fandom.Signature) int {
	if c := cmp.Compare(a.SigNumber, b.SigNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r signatureRepo) find(keep func(fandom.Signature) bool) []fandom.Signature {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.signatures.list(keep, signatureOrder)
}

func (r signatureRepo) FindByID(_ context.Context, id int64) (*fandom.Signature, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.signatures.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r signatureRepo) FindAll(_ context.Context) ([]fandom.Signature, error) {
	return r.find(nil), nil
}

func (r signatureRepo) FindByUnit(_ context.Context, unit fandom.Unit) ([]fandom.Signature, error) {
	return r.find(func(s fandom.Signature) bool { return s.Unit == unit }), nil
}

func (r signatureRepo) FindByMemberName(_ context.Context, name string) ([]fandom.Signature, error) {
	want := strings.ToLower(name)
	return r.find(func(s fandom.Signature) bool { return strings.ToLower(s.MemberName) == want }), nil
}

func (r signatureRepo) FindFeatured(_ context.Context) ([]fandom.Signature, error) {
	return r.find(func(s fandom.Signature) bool { return s.IsFeatured }), nil
}

func (r signatureRepo) Create(_ context.Context, row fandom.Signature) (fandom.Signature, error) {
	if err := row.Validate(); err != nil {
		return fandom.Signature{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.signatures.insert(row), nil
}

func (r signatureRepo) Update(_ context.Context, row fandom.Signature) (fandom.Signature, error) {
	if err := row.Validate(); err != nil {
		return fandom.Signature{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.signatures.get(row.ID)
	if !ok {
		return fandom.Signature{}, errs.NotFound("signature")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.signatures.replace(row)
	return row, nil
}

func (r signatureRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.signatures.remove(id) {
		return errs.NotFound("signature")
	}
	return nil
}

type mediaRepo struct{ s *Store }

func mediaOrder(a, b fandom.Media) int { return desc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }

func (r mediaRepo) find(keep func(fandom.Media) bool) []fandom.Media {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.media.list(keep, mediaOrder)
}

func (r mediaRepo) FindByID(_ context.Context, id int64) (*fandom.Media, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.media.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r mediaRepo) FindAll(_ context.Context) ([]fandom.Media, error) { return r.find(nil), nil }

func (r mediaRepo) FindByType(_ context.Context, t fandom.MediaType) ([]fandom.Media, error) {
	return r.find(func(m fandom.Media) bool { return m.ContentType == t }), nil
}

func (r mediaRepo) FindByUnit(_ context.Context, unit *fandom.Unit) ([]fandom.Media, error) {
	return r.find(func(m fandom.Media) bool {
		if unit == nil {
			return m.Unit == nil
		}
		return m.Unit != nil && *m.Unit == *unit
	}), nil
}

func (r mediaRepo) FindFeatured(_ context.Context) ([]fandom.Media, error) {
	return r.find(func(m fandom.Media) bool { return m.IsFeatured }), nil
}

func (r mediaRepo) Create(_ context.Context, row fandom.Media) (fandom.Media, error) {
	if err := row.Validate(); err != nil {
		return fandom.Media{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.media.insert(row), nil
}

func (r mediaRepo) Update(_ context.Context, row fandom.Media) (fandom.Media, error) {
	if err := row.Validate(); err != nil {
		return fandom.Media{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.media.get(row.ID)
	if !ok {
		return fandom.Media{}, errs.NotFound("media")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.media.replace(row)
	return row, nil
}

func (r mediaRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.media.remove(id) {
		return errs.NotFound("media")
	}
	return nil
}

type bannerRepo struct{ s *Store }

func bannerOrder(a, b fandom.Banner) int {
	if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r bannerRepo) FindByID(_ context.Context, id int64) (*fandom.Banner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.banners.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r bannerRepo) FindAll(_ context.Context) ([]fandom.Banner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.banners.list(nil, bannerOrder), nil
}

func (r bannerRepo) FindActive(_ context.Context) ([]fandom.Banner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.banners.list(func(b fandom.Banner) bool { return b.IsActive }, bannerOrder), nil
}

func (r bannerRepo) Create(_ context.Context, row fandom.Banner) (fandom.Banner, error) {
	if err := row.Validate(); err != nil {
		return fandom.Banner{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.banners.insert(row), nil
}

func (r bannerRepo) Update(_ context.Context, row fandom.Banner) (fandom.Banner, error) {
	if err := row.Validate(); err != nil {
		return fandom.Banner{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.banners.get(row.ID)
	if !ok {
		return fandom.Banner{}, errs.NotFound("banner")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.banners.replace(row)
	return row, nil
}

func (r bannerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.banners.remove(id) {
		return errs.NotFound("banner")
	}
	return nil
}

func (r bannerRepo) ToggleActive(_ context.Context, id int64) (fandom.Banner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.banners.get(id)
	if !ok {
		return fandom.Banner{}, errs.NotFound("banner")
	}
	b.IsActive = !b.IsActive
	r.s.banners.replace(b)
	return b, nil
}

func (r bannerRepo) Reorder(ctx context.Context, ids []int64) repository.BatchResult {
	return repository.RunBatch(ctx, ids, func(_ context.Context, i int, id int64) error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
		b, ok := r.s.banners.get(id)
		if !ok {
			return errs.NotFound("banner")
		}
		b.DisplayOrder = i
		r.s.banners.replace(b)
		return nil
	})
}

type orgRepo struct{ s *Store }

func orgOrder(a, b fandom.OrgMember) int {
	if c := cmp.Compare(a.Unit, b.Unit); c != 0 {
		return c
	}
	if c := cmp.Compare(a.PositionOrder, b.PositionOrder); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r orgRepo) find(keep func(fandom.OrgMember) bool) []fandom.OrgMember {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.org.list(keep, orgOrder)
}

func (r orgRepo) FindByID(_ context.Context, id int64) (*fandom.OrgMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.org.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r orgRepo) FindAll(_ context.Context) ([]fandom.OrgMember, error) { return r.find(nil), nil }

func (r orgRepo) FindByUnit(_ context.Context, unit fandom.Unit) ([]fandom.OrgMember, error) {
	return r.find(func(m fandom.OrgMember) bool { return m.Unit == unit }), nil
}

func (r orgRepo) FindLiveMembers(_ context.Context) ([]fandom.OrgMember, error) {
	return r.find(func(m fandom.OrgMember) bool { return m.IsLive && m.IsActive }), nil
}

func (r orgRepo) Create(_ context.Context, row fandom.OrgMember) (fandom.OrgMember, error) {
	if err := row.Validate(); err != nil {
		return fandom.OrgMember{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.org.insert(row), nil
}

func (r orgRepo) Update(_ context.Context, row fandom.OrgMember) (fandom.OrgMember, error) {
	if err := row.Validate(); err != nil {
		return fandom.OrgMember{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.org.get(row.ID)
	if !ok {
		return fandom.OrgMember{}, errs.NotFound("member")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.org.replace(row)
	return row, nil
}

func (r orgRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.org.remove(id) {
		return errs.NotFound("member")
	}
	return nil
}
