package remote

import (
	"context"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type noticeRepo struct{ s *Store }

const noticeOrder = "is_pinned desc, created_at desc, id desc"

func inCategory(tx *gorm.DB, category string) *gorm.DB {
	if category == "" {
		return tx
	}
	return tx.Where("category = ?", category)
}

func (r noticeRepo) FindByID(ctx context.Context, id int64) (*fandom.Notice, error) {
	return one[fandom.Notice](r.s.q(ctx).Where("id = ?", id), "find notice")
}

func (r noticeRepo) FindRecent(ctx context.Context, limit int) ([]fandom.Notice, error) {
	tx := r.s.q(ctx).Order(noticeOrder)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	return many[fandom.Notice](tx, "recent notices")
}

func (r noticeRepo) FindAll(ctx context.Context) ([]fandom.Notice, error) {
	return many[fandom.Notice](r.s.q(ctx).Order(noticeOrder), "list notices")
}

func (r noticeRepo) FindPaginated(ctx context.Context, opts repository.NoticeListOptions) (repository.Page[fandom.Notice], error) {
	return page[fandom.Notice](inCategory(r.s.q(ctx), opts.Category), "page notices", noticeOrder, opts.PageOptions)
}

func (r noticeRepo) Search(ctx context.Context, q repository.NoticeSearch) (repository.Page[fandom.Notice], error) {
	rows, err := many[fandom.Notice](inCategory(r.s.q(ctx), q.Category).Order(noticeOrder), "search notices")
	if err != nil {
		return repository.Page[fandom.Notice]{}, err
	}
	return repository.SearchNotices(rows, q)
}

func (r noticeRepo) Create(ctx context.Context, n fandom.Notice) (fandom.Notice, error) {
	if err := n.Validate(); err != nil {
		return fandom.Notice{}, err
	}
	n.ID = 0
	if err := r.s.q(ctx).Create(&n).Error; err != nil {
		return fandom.Notice{}, errs.Backend("create notice", err)
	}
	return n, nil
}

func (r noticeRepo) Update(ctx context.Context, n fandom.Notice) (fandom.Notice, error) {
	if err := n.Validate(); err != nil {
		return fandom.Notice{}, err
	}
	return replace(r.s.q(ctx), "notice", n.ID, &n)
}

func (r noticeRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Notice](r.s.q(ctx), "notice", id)
}

type scheduleRepo struct{ s *Store }

const scheduleOrder = "start_datetime asc, id asc"

func (r scheduleRepo) FindByID(ctx context.Context, id int64) (*fandom.Schedule, error) {
	return one[fandom.Schedule](r.s.q(ctx).Where("id = ?", id), "find schedule")
}

func (r scheduleRepo) FindAll(ctx context.Context) ([]fandom.Schedule, error) {
	return many[fandom.Schedule](r.s.q(ctx).Order(scheduleOrder), "list schedules")
}

func (r scheduleRepo) month(ctx context.Context, year int, month time.Month) *gorm.DB {
	start, end := repository.MonthRange(year, month)
	return r.s.q(ctx).Where("start_datetime >= ? AND start_datetime < ?", start, end).Order(scheduleOrder)
}

func (r scheduleRepo) FindByMonth(ctx context.Context, year int, month time.Month) ([]fandom.Schedule, error) {
	return many[fandom.Schedule](r.month(ctx, year, month), "schedules by month")
}

func (r scheduleRepo) FindByMonthAndUnit(ctx context.Context, year int, month time.Month, unit fandom.Unit) ([]fandom.Schedule, error) {
	tx := r.month(ctx, year, month).Where("unit = ? OR unit IS NULL", unit)
	return many[fandom.Schedule](tx, "schedules by month and unit")
}

func (r scheduleRepo) Create(ctx context.Context, row fandom.Schedule) (fandom.Schedule, error) {
	if err := row.Validate(); err != nil {
		return fandom.Schedule{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.Schedule{}, errs.Backend("create schedule", err)
	}
	return row, nil
}

func (r scheduleRepo) Update(ctx context.Context, row fandom.Schedule) (fandom.Schedule, error) {
	if err := row.Validate(); err != nil {
		return fandom.Schedule{}, err
	}
	return replace(r.s.q(ctx), "schedule", row.ID, &row)
}

func (r scheduleRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Schedule](r.s.q(ctx), "schedule", id)
}

type timelineRepo struct{ s *Store }

const timelineOrder = "event_date desc, id desc"

func (r timelineRepo) FindByID(ctx context.Context, id int64) (*fandom.TimelineEvent, error) {
	return one[fandom.TimelineEvent](r.s.q(ctx).Where("id = ?", id), "find timeline event")
}

func (r timelineRepo) FindAll(ctx context.Context) ([]fandom.TimelineEvent, error) {
	return many[fandom.TimelineEvent](r.s.q(ctx).Order(timelineOrder), "list timeline")
}

func (r timelineRepo) FindByFilter(ctx context.Context, f repository.TimelineFilter) ([]fandom.TimelineEvent, error) {
	tx := r.s.q(ctx).Order(timelineOrder)
	if f.SeasonID != nil {
		tx = tx.Where("season_id = ?", *f.SeasonID)
	}
	if category, ok := repository.TimelineCategory(f.Category); ok {
		tx = tx.Where("category = ?", category)
	}
	if f.Unit != nil {
		tx = tx.Where("unit = ? OR unit IS NULL", *f.Unit)
	}
	return many[fandom.TimelineEvent](tx, "filter timeline")
}

// GetCategories sorts in Go so the result does not depend on the database collation.
func (r timelineRepo) GetCategories(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := r.s.q(ctx).Model(&fandom.TimelineEvent{}).Distinct().Pluck("category", &out).Error; err != nil {
		return nil, errs.Backend("timeline categories", err)
	}
	slices.Sort(out)
	return out, nil
}

func (r timelineRepo) Create(ctx context.Context, row fandom.TimelineEvent) (fandom.TimelineEvent, error) {
	if err := row.Validate(); err != nil {
		return fandom.TimelineEvent{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.TimelineEvent{}, errs.Backend("create timeline event", err)
	}
	return row, nil
}

func (r timelineRepo) Update(ctx context.Context, row fandom.TimelineEvent) (fandom.TimelineEvent, error) {
	if err := row.Validate(); err != nil {
		return fandom.TimelineEvent{}, err
	}
	return replace(r.s.q(ctx), "timeline event", row.ID, &row)
}

func (r timelineRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.TimelineEvent](r.s.q(ctx), "timeline event", id)
}

type signatureRepo struct{ s *Store }

const signatureOrder = "sig_number asc, id asc"

func (r signatureRepo) FindByID(ctx context.Context, id int64) (*fandom.Signature, error) {
	return one[fandom.Signature](r.s.q(ctx).Where("id = ?", id), "find signature")
}

func (r signatureRepo) FindAll(ctx context.Context) ([]fandom.Signature, error) {
	return many[fandom.Signature](r.s.q(ctx).Order(signatureOrder), "list signatures")
}

func (r signatureRepo) FindByUnit(ctx context.Context, unit fandom.Unit) ([]fandom.Signature, error) {
	return many[fandom.Signature](r.s.q(ctx).Where("unit = ?", unit).Order(signatureOrder), "signatures by unit")
}

// FindByMemberName folds case in Go; sqlite's LOWER only knows ASCII.
func (r signatureRepo) FindByMemberName(ctx context.Context, name string) ([]fandom.Signature, error) {
	rows, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(name)
	return slices.DeleteFunc(rows, func(s fandom.Signature) bool {
		return strings.ToLower(s.MemberName) != want
	}), nil
}

func (r signatureRepo) FindFeatured(ctx context.Context) ([]fandom.Signature, error) {
	return many[fandom.Signature](r.s.q(ctx).Where("is_featured = ?", true).Order(signatureOrder), "featured signatures")
}

func (r signatureRepo) Create(ctx context.Context, row fandom.Signature) (fandom.Signature, error) {
	if err := row.Validate(); err != nil {
		return fandom.Signature{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.Signature{}, errs.Backend("create signature", err)
	}
	return row, nil
}

func (r signatureRepo) Update(ctx context.Context, row fandom.Signature) (fandom.Signature, error) {
	if err := row.Validate(); err != nil {
		return fandom.Signature{}, err
	}
	return replace(r.s.q(ctx), "signature", row.ID, &row)
}

func (r signatureRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Signature](r.s.q(ctx), "signature", id)
}

type mediaRepo struct{ s *Store }

const mediaOrder = "created_at desc, id desc"

func (r mediaRepo) FindByID(ctx context.Context, id int64) (*fandom.Media, error) {
	return one[fandom.Media](r.s.q(ctx).Where("id = ?", id), "find media")
}

func (r mediaRepo) FindAll(ctx context.Context) ([]fandom.Media, error) {
	return many[fandom.Media](r.s.q(ctx).Order(mediaOrder), "list media")
}

func (r mediaRepo) FindByType(ctx context.Context, t fandom.MediaType) ([]fandom.Media, error) {
	return many[fandom.Media](r.s.q(ctx).Where("content_type = ?", t).Order(mediaOrder), "media by type")
}

func (r mediaRepo) FindByUnit(ctx context.Context, unit *fandom.Unit) ([]fandom.Media, error) {
	tx := r.s.q(ctx).Order(mediaOrder)
	if unit == nil {
		tx = tx.Where("unit IS NULL")
	} else {
		tx = tx.Where("unit = ?", *unit)
	}
	return many[fandom.Media](tx, "media by unit")
}

func (r mediaRepo) FindFeatured(ctx context.Context) ([]fandom.Media, error) {
	return many[fandom.Media](r.s.q(ctx).Where("is_featured = ?", true).Order(mediaOrder), "featured media")
}

func (r mediaRepo) Create(ctx context.Context, row fandom.Media) (fandom.Media, error) {
	if err := row.Validate(); err != nil {
		return fandom.Media{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.Media{}, errs.Backend("create media", err)
	}
	return row, nil
}

func (r mediaRepo) Update(ctx context.Context, row fandom.Media) (fandom.Media, error) {
	if err := row.Validate(); err != nil {
		return fandom.Media{}, err
	}
	return replace(r.s.q(ctx), "media", row.ID, &row)
}

func (r mediaRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Media](r.s.q(ctx), "media", id)
}

type bannerRepo struct{ s *Store }

const bannerOrder = "display_order asc, id asc"

func (r bannerRepo) FindByID(ctx context.Context, id int64) (*fandom.Banner, error) {
	return one[fandom.Banner](r.s.q(ctx).Where("id = ?", id), "find banner")
}

func (r bannerRepo) FindAll(ctx context.Context) ([]fandom.Banner, error) {
	return many[fandom.Banner](r.s.q(ctx).Order(bannerOrder), "list banners")
}

func (r bannerRepo) FindActive(ctx context.Context) ([]fandom.Banner, error) {
	return many[fandom.Banner](r.s.q(ctx).Where("is_active = ?", true).Order(bannerOrder), "active banners")
}

func (r bannerRepo) Create(ctx context.Context, row fandom.Banner) (fandom.Banner, error) {
	if err := row.Validate(); err != nil {
		return fandom.Banner{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.Banner{}, errs.Backend("create banner", err)
	}
	return row, nil
}

func (r bannerRepo) Update(ctx context.Context, row fandom.Banner) (fandom.Banner, error) {
	if err := row.Validate(); err != nil {
		return fandom.Banner{}, err
	}
	return replace(r.s.q(ctx), "banner", row.ID, &row)
}

func (r bannerRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Banner](r.s.q(ctx), "banner", id)
}

func (r bannerRepo) ToggleActive(ctx context.Context, id int64) (fandom.Banner, error) {
	var out fandom.Banner
	err := r.s.q(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := one[fandom.Banner](tx.Where("id = ?", id), "find banner")
		if err != nil {
			return err
		}
		if b == nil {
			return errs.NotFound("banner")
		}
		b.IsActive = !b.IsActive
		if err := tx.Model(&fandom.Banner{}).Where("id = ?", id).UpdateColumn("is_active", b.IsActive).Error; err != nil {
			return errs.Backend("toggle banner", err)
		}
		out = *b
		return nil
	})
	return out, err
}

func (r bannerRepo) Reorder(ctx context.Context, ids []int64) repository.BatchResult {
	return repository.RunBatch(ctx, ids, func(ctx context.Context, i int, id int64) error {
		res := r.s.q(ctx).Model(&fandom.Banner{}).Where("id = ?", id).UpdateColumn("display_order", i)
		if res.Error != nil {
			return errs.Backend("reorder banner", res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("banner")
		}
		return nil
	})
}

type orgRepo struct{ s *Store }

const orgOrder = "unit asc, position_order asc, id asc"

func (r orgRepo) FindByID(ctx context.Context, id int64) (*fandom.OrgMember, error) {
	return one[fandom.OrgMember](r.s.q(ctx).Where("id = ?", id), "find member")
}

func (r orgRepo) FindAll(ctx context.Context) ([]fandom.OrgMember, error) {
	return many[fandom.OrgMember](r.s.q(ctx).Order(orgOrder), "list organization")
}

func (r orgRepo) FindByUnit(ctx context.Context, unit fandom.Unit) ([]fandom.OrgMember, error) {
	return many[fandom.OrgMember](r.s.q(ctx).Where("unit = ?", unit).Order(orgOrder), "organization by unit")
}

func (r orgRepo) FindLiveMembers(ctx context.Context) ([]fandom.OrgMember, error) {
	return many[fandom.OrgMember](r.s.q(ctx).Where("is_live = ? AND is_active = ?", true, true).Order(orgOrder), "live members")
}

func (r orgRepo) Create(ctx context.Context, row fandom.OrgMember) (fandom.OrgMember, error) {
	if err := row.Validate(); err != nil {
		return fandom.OrgMember{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.OrgMember{}, errs.Backend("create member", err)
	}
	return row, nil
}

func (r orgRepo) Update(ctx context.Context, row fandom.OrgMember) (fandom.OrgMember, error) {
	if err := row.Validate(); err != nil {
		return fandom.OrgMember{}, err
	}
	return replace(r.s.q(ctx), "member", row.ID, &row)
}

func (r orgRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.OrgMember](r.s.q(ctx), "member", id)
}
