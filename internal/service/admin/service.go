// Package admin holds the back-office actions. Every operation requires an
// admin or superadmin actor.
package admin

import (
	"context"
	"time"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/filter"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/slug"
)

// DonationInput is a manual donation entry or correction.
type DonationInput struct {
	DonorID   *string      `json:"donor_id,omitempty"`
	DonorName string       `json:"donor_name"`
	Amount    int64        `json:"amount"`
	SeasonID  int64        `json:"season_id"`
	EpisodeID *int64       `json:"episode_id,omitempty"`
	Unit      *fandom.Unit `json:"unit,omitempty"`
	Message   *string      `json:"message,omitempty"`
}

func (in DonationInput) donation() fandom.Donation {
	return fandom.Donation{
		DonorID:   in.DonorID,
		DonorName: in.DonorName,
		Amount:    in.Amount,
		SeasonID:  in.SeasonID,
		EpisodeID: in.EpisodeID,
		Unit:      in.Unit,
		Message:   in.Message,
	}
}

type BannerInput struct {
	Title        *string `json:"title,omitempty"`
	ImageURL     string  `json:"image_url"`
	LinkURL      *string `json:"link_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsActive     bool    `json:"is_active"`
}

type ScheduleInput struct {
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Unit        *fandom.Unit `json:"unit,omitempty"`
	EventType   string       `json:"event_type"`
	StartAt     time.Time    `json:"start_datetime"`
	EndAt       *time.Time   `json:"end_datetime,omitempty"`
	Location    *string      `json:"location,omitempty"`
	IsAllDay    bool         `json:"is_all_day"`
	Color       *string      `json:"color,omitempty"`
}

type NoticeInput struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Category     string  `json:"category"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	IsPinned     bool    `json:"is_pinned"`
}

// Deleted acknowledges a removal.
type Deleted struct {
	ID int64 `json:"id"`
}

// TableQuery is an advanced filter over one admin table. The fields a free
// text search reads are fixed per table.
type TableQuery struct {
	Filter filter.Query            `json:"filter"`
	Page   repository.PageOptions `json:"page"`
}

type Service interface {
	CreateDonation(ctx context.Context, in DonationInput) action.Result[fandom.Donation]
	UpdateDonation(ctx context.Context, id int64, in DonationInput) action.Result[fandom.Donation]
	DeleteDonation(ctx context.Context, id int64) action.Result[Deleted]
	// DeleteDonations removes ids in order and stops at the first failure.
	DeleteDonations(ctx context.Context, ids []int64) action.Result[repository.BatchResult]

	CreateBanner(ctx context.Context, in BannerInput) action.Result[fandom.Banner]
	UpdateBanner(ctx context.Context, id int64, in BannerInput) action.Result[fandom.Banner]
	DeleteBanner(ctx context.Context, id int64) action.Result[Deleted]
	ToggleBanner(ctx context.Context, id int64) action.Result[fandom.Banner]
	ReorderBanners(ctx context.Context, ids []int64) action.Result[repository.BatchResult]

	CreateSchedule(ctx context.Context, in ScheduleInput) action.Result[fandom.Schedule]
	DeleteSchedule(ctx context.Context, id int64) action.Result[Deleted]
	DeleteSchedules(ctx context.Context, ids []int64) action.Result[repository.BatchResult]

	UpsertLive(ctx context.Context, st fandom.LiveStatus) action.Result[fandom.LiveStatus]

	PendingGuestbook(ctx context.Context, tributeUserID string) action.Result[[]fandom.GuestbookEntry]
	ApproveGuestbook(ctx context.Context, id int64) action.Result[fandom.GuestbookEntry]

	SetRole(ctx context.Context, profileID string, role fandom.Role) action.Result[fandom.Profile]

	CreateNotice(ctx context.Context, in NoticeInput) action.Result[fandom.Notice]
	DeleteNotice(ctx context.Context, id int64) action.Result[Deleted]

	ProfilesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Profile]]
	DonationsTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Donation]]
	PostsTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.PostItem]]
	NoticesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Notice]]
	SchedulesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Schedule]]
	SignaturesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Signature]]
	MediaTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Media]]
	BannersTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Banner]]
}

type service struct {
	b   repository.Backend
	run *action.Runner
}

func New(b repository.Backend, run *action.Runner) Service { return &service{b: b, run: run} }

var (
	donationsChanged = concat(
		invalidation.Both(invalidation.Donations),
		invalidation.Both(invalidation.Rankings),
		invalidation.Both(invalidation.Profiles),
	)
	bannersChanged   = invalidation.Both(invalidation.Banners)
	schedulesChanged = invalidation.Both(invalidation.Schedules)
	liveChanged      = invalidation.Both(invalidation.LiveStatus)
	guestbookChanged = invalidation.Both(invalidation.Guestbook)
	profilesChanged  = invalidation.Both(invalidation.Profiles)
	noticesChanged   = invalidation.Both(invalidation.Notices)
)

func concat(groups ...[]invalidation.Event) []invalidation.Event {
	var out []invalidation.Event
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// syncTotal recomputes a donor's cached total. Anonymous donations and
// donors without a profile have nothing to sync.
func (s *service) syncTotal(ctx context.Context, donorID *string) error {
	if donorID == nil || *donorID == "" {
		return nil
	}
	p, err := s.b.Profiles().FindByID(ctx, *donorID)
	if err != nil || p == nil {
		return err
	}
	total, err := s.b.Donations().GetTotal(ctx, *donorID)
	if err != nil {
		return err
	}
	if total == p.TotalDonation {
		return nil
	}
	p.TotalDonation = total
	_, err = s.b.Profiles().Update(ctx, *p)
	return err
}

func (s *service) CreateDonation(ctx context.Context, in DonationInput) action.Result[fandom.Donation] {
	return action.Admin(ctx, s.run, "donations.create", func(ctx context.Context, _ string) (fandom.Donation, error) {
		d, err := s.b.Donations().Create(ctx, in.donation())
		if err != nil {
			return fandom.Donation{}, err
		}
		return d, s.syncTotal(ctx, d.DonorID)
	}, donationsChanged...)
}

func (s *service) UpdateDonation(ctx context.Context, id int64, in DonationInput) action.Result[fandom.Donation] {
	return action.Admin(ctx, s.run, "donations.update", func(ctx context.Context, _ string) (fandom.Donation, error) {
		prev, err := s.b.Donations().FindByID(ctx, id)
		if err != nil {
			return fandom.Donation{}, err
		}
		if prev == nil {
			return fandom.Donation{}, errs.NotFound("donation")
		}
		next := in.donation()
		next.ID = id
		d, err := s.b.Donations().Update(ctx, next)
		if err != nil {
			return fandom.Donation{}, err
		}
		if err := s.syncTotal(ctx, prev.DonorID); err != nil {
			return fandom.Donation{}, err
		}
		return d, s.syncTotal(ctx, d.DonorID)
	}, donationsChanged...)
}

func (s *service) deleteDonation(ctx context.Context, id int64) error {
	d, err := s.b.Donations().FindByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return errs.NotFound("donation")
	}
	if err := s.b.Donations().Delete(ctx, id); err != nil {
		return err
	}
	return s.syncTotal(ctx, d.DonorID)
}

func (s *service) DeleteDonation(ctx context.Context, id int64) action.Result[Deleted] {
	return action.Admin(ctx, s.run, "donations.delete", func(ctx context.Context, _ string) (Deleted, error) {
		return Deleted{ID: id}, s.deleteDonation(ctx, id)
	}, donationsChanged...)
}

func (s *service) DeleteDonations(ctx context.Context, ids []int64) action.Result[repository.BatchResult] {
	return action.Admin(ctx, s.run, "donations.delete_many", func(ctx context.Context, _ string) (repository.BatchResult, error) {
		return repository.RunBatch(ctx, ids, func(ctx context.Context, _ int, id int64) error {
			return s.deleteDonation(ctx, id)
		}), nil
	}, donationsChanged...)
}

func (s *service) CreateBanner(ctx context.Context, in BannerInput) action.Result[fandom.Banner] {
	return action.Admin(ctx, s.run, "banners.create", func(ctx context.Context, _ string) (fandom.Banner, error) {
		return s.b.Banners().Create(ctx, fandom.Banner{
			Title:        in.Title,
			ImageURL:     in.ImageURL,
			LinkURL:      in.LinkURL,
			DisplayOrder: in.DisplayOrder,
			IsActive:     in.IsActive,
		})
	}, bannersChanged...)
}

func (s *service) UpdateBanner(ctx context.Context, id int64, in BannerInput) action.Result[fandom.Banner] {
	return action.Admin(ctx, s.run, "banners.update", func(ctx context.Context, _ string) (fandom.Banner, error) {
		return s.b.Banners().Update(ctx, fandom.Banner{
			ID:           id,
			Title:        in.Title,
			ImageURL:     in.ImageURL,
			LinkURL:      in.LinkURL,
			DisplayOrder: in.DisplayOrder,
			IsActive:     in.IsActive,
		})
	}, bannersChanged...)
}

func (s *service) DeleteBanner(ctx context.Context, id int64) action.Result[Deleted] {
	return action.Admin(ctx, s.run, "banners.delete", func(ctx context.Context, _ string) (Deleted, error) {
		return Deleted{ID: id}, s.b.Banners().Delete(ctx, id)
	}, bannersChanged...)
}

func (s *service) ToggleBanner(ctx context.Context, id int64) action.Result[fandom.Banner] {
	return action.Admin(ctx, s.run, "banners.toggle", func(ctx context.Context, _ string) (fandom.Banner, error) {
		return s.b.Banners().ToggleActive(ctx, id)
	}, bannersChanged...)
}

func (s *service) ReorderBanners(ctx context.Context, ids []int64) action.Result[repository.BatchResult] {
	return action.Admin(ctx, s.run, "banners.reorder", func(ctx context.Context, _ string) (repository.BatchResult, error) {
		return s.b.Banners().Reorder(ctx, ids), nil
	}, bannersChanged...)
}

func (s *service) CreateSchedule(ctx context.Context, in ScheduleInput) action.Result[fandom.Schedule] {
	return action.Admin(ctx, s.run, "schedules.create", func(ctx context.Context, actorID string) (fandom.Schedule, error) {
		eventType, err := slug.Code("event_type", in.EventType, "broadcast")
		if err != nil {
			return fandom.Schedule{}, err
		}
		return s.b.Schedules().Create(ctx, fandom.Schedule{
			Title:       in.Title,
			Description: in.Description,
			Unit:        in.Unit,
			EventType:   eventType,
			StartAt:     in.StartAt.UTC(),
			EndAt:       in.EndAt,
			Location:    in.Location,
			IsAllDay:    in.IsAllDay,
			Color:       in.Color,
			CreatedBy:   &actorID,
		})
	}, schedulesChanged...)
}

func (s *service) DeleteSchedule(ctx context.Context, id int64) action.Result[Deleted] {
	return action.Admin(ctx, s.run, "schedules.delete", func(ctx context.Context, _ string) (Deleted, error) {
		return Deleted{ID: id}, s.b.Schedules().Delete(ctx, id)
	}, schedulesChanged...)
}

func (s *service) DeleteSchedules(ctx context.Context, ids []int64) action.Result[repository.BatchResult] {
	return action.Admin(ctx, s.run, "schedules.delete_many", func(ctx context.Context, _ string) (repository.BatchResult, error) {
		return repository.RunBatch(ctx, ids, func(ctx context.Context, _ int, id int64) error {
			return s.b.Schedules().Delete(ctx, id)
		}), nil
	}, schedulesChanged...)
}

func (s *service) UpsertLive(ctx context.Context, st fandom.LiveStatus) action.Result[fandom.LiveStatus] {
	return action.Admin(ctx, s.run, "live.upsert", func(ctx context.Context, _ string) (fandom.LiveStatus, error) {
		m, err := s.b.Organization().FindByID(ctx, st.MemberID)
		if err != nil {
			return fandom.LiveStatus{}, err
		}
		if m == nil {
			return fandom.LiveStatus{}, errs.NotFound("member")
		}
		st.ID = 0
		return s.b.LiveStatus().Upsert(ctx, st)
	}, liveChanged...)
}

func (s *service) PendingGuestbook(ctx context.Context, tributeUserID string) action.Result[[]fandom.GuestbookEntry] {
	return action.Admin(ctx, s.run, "guestbook.pending", func(ctx context.Context, _ string) ([]fandom.GuestbookEntry, error) {
		return s.b.Guestbook().FindPending(ctx, tributeUserID)
	})
}

func (s *service) ApproveGuestbook(ctx context.Context, id int64) action.Result[fandom.GuestbookEntry] {
	return action.Admin(ctx, s.run, "guestbook.approve", func(ctx context.Context, _ string) (fandom.GuestbookEntry, error) {
		return s.b.Guestbook().Approve(ctx, id)
	}, guestbookChanged...)
}

func (s *service) SetRole(ctx context.Context, profileID string, role fandom.Role) action.Result[fandom.Profile] {
	return action.Admin(ctx, s.run, "profiles.set_role", func(ctx context.Context, _ string) (fandom.Profile, error) {
		if !role.Valid() {
			return fandom.Profile{}, errs.Validation("unknown role %q", role)
		}
		p, err := s.b.Profiles().FindByID(ctx, profileID)
		if err != nil {
			return fandom.Profile{}, err
		}
		if p == nil {
			return fandom.Profile{}, errs.NotFound("profile")
		}
		p.Role = role
		return s.b.Profiles().Update(ctx, *p)
	}, profilesChanged...)
}

func (s *service) CreateNotice(ctx context.Context, in NoticeInput) action.Result[fandom.Notice] {
	return action.Admin(ctx, s.run, "notices.create", func(ctx context.Context, actorID string) (fandom.Notice, error) {
		category, err := slug.Code("category", in.Category, "official")
		if err != nil {
			return fandom.Notice{}, err
		}
		return s.b.Notices().Create(ctx, fandom.Notice{
			Title:        in.Title,
			Content:      in.Content,
			Category:     category,
			ThumbnailURL: in.ThumbnailURL,
			IsPinned:     in.IsPinned,
			AuthorID:     &actorID,
		})
	}, noticesChanged...)
}

func (s *service) DeleteNotice(ctx context.Context, id int64) action.Result[Deleted] {
	return action.Admin(ctx, s.run, "notices.delete", func(ctx context.Context, _ string) (Deleted, error) {
		return Deleted{ID: id}, s.b.Notices().Delete(ctx, id)
	}, noticesChanged...)
}
