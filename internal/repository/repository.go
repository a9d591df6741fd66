// Package repository defines the per-entity contracts both storage backends
// implement. Callers depend only on these interfaces; a Backend is chosen once
// at startup and handed down.
//
// Read conventions shared by every implementation:
//   - FindByID and other single-row lookups return (nil, nil) when nothing matches.
//   - Update and Delete of a missing row return errs.ErrNotFound.
//   - Create always assigns a fresh id; ids are never reused.
//   - Every list has a total order that ends on the id, so backends agree row for row.
//   - Soft-deleted rows are invisible to reads.
package repository

import (
	"context"
	"time"

	"github.com/tinoosan/fanbase/internal/fandom"
)

// Backend hands out one repository per entity.
type Backend interface {
	Profiles() Profiles
	Seasons() Seasons
	Episodes() Episodes
	Donations() Donations
	Rankings() Rankings
	Posts() Posts
	Comments() Comments
	Notices() Notices
	Schedules() Schedules
	Timeline() Timeline
	Signatures() Signatures
	VipRewards() VipRewards
	VipImages() VipImages
	Media() Media
	LiveStatus() LiveStatus
	Banners() Banners
	Guestbook() Guestbook
	Organization() Organization
}

// Profiles ordered by created_at asc, id asc.
type Profiles interface {
	FindByID(ctx context.Context, id string) (*fandom.Profile, error)
	FindByNickname(ctx context.Context, nickname string) (*fandom.Profile, error)
	// FindVipMembers lists role=vip profiles by total donation, highest first.
	FindVipMembers(ctx context.Context) ([]fandom.Profile, error)
	FindAll(ctx context.Context) ([]fandom.Profile, error)
	FindPaginated(ctx context.Context, opts PageOptions) (Page[fandom.Profile], error)
	// Create assigns a UUID when p.ID is empty.
	Create(ctx context.Context, p fandom.Profile) (fandom.Profile, error)
	Update(ctx context.Context, p fandom.Profile) (fandom.Profile, error)
	Delete(ctx context.Context, id string) error
}

type Seasons interface {
	FindByID(ctx context.Context, id int64) (*fandom.Season, error)
	// FindActive returns the active season with the latest start date.
	FindActive(ctx context.Context) (*fandom.Season, error)
	// FindAll orders by start_date desc, id desc.
	FindAll(ctx context.Context) ([]fandom.Season, error)
	Create(ctx context.Context, s fandom.Season) (fandom.Season, error)
	Update(ctx context.Context, s fandom.Season) (fandom.Season, error)
	Delete(ctx context.Context, id int64) error
}

type Episodes interface {
	FindByID(ctx context.Context, id int64) (*fandom.Episode, error)
	// FindBySeason orders by episode_number asc.
	FindBySeason(ctx context.Context, seasonID int64) ([]fandom.Episode, error)
	// FindRankBattles orders by season_id, episode_number. A nil season means all seasons.
	FindRankBattles(ctx context.Context, seasonID *int64) ([]fandom.Episode, error)
	FindLatestRankBattle(ctx context.Context, seasonID *int64) (*fandom.Episode, error)
	// IsVipForEpisode reports whether userID is in the episode's top 50.
	IsVipForEpisode(ctx context.Context, userID string, episodeID int64) (bool, error)
	// IsVipForRankBattles checks every rank battle of the season, defaulting
	// to the active season. No season means false.
	IsVipForRankBattles(ctx context.Context, userID string, seasonID *int64) (bool, error)
	Create(ctx context.Context, e fandom.Episode) (fandom.Episode, error)
	Update(ctx context.Context, e fandom.Episode) (fandom.Episode, error)
	Delete(ctx context.Context, id int64) error
}

// Donations lists newest first (created_at desc, id desc) unless noted.
type Donations interface {
	FindByID(ctx context.Context, id int64) (*fandom.Donation, error)
	FindByDonor(ctx context.Context, donorID string) ([]fandom.Donation, error)
	FindBySeason(ctx context.Context, seasonID int64) ([]fandom.Donation, error)
	// FindByEpisode orders by amount desc, id asc.
	FindByEpisode(ctx context.Context, episodeID int64) ([]fandom.Donation, error)
	GetTotal(ctx context.Context, donorID string) (int64, error)
	GetTotalByEpisode(ctx context.Context, episodeID int64) (int64, error)
	FindAll(ctx context.Context) ([]fandom.Donation, error)
	FindPaginated(ctx context.Context, opts PageOptions) (Page[fandom.Donation], error)
	Create(ctx context.Context, d fandom.Donation) (fandom.Donation, error)
	// Update is the admin correction path; amount must stay >= 0.
	Update(ctx context.Context, d fandom.Donation) (fandom.Donation, error)
	Delete(ctx context.Context, id int64) error
}

// RankingQuery scopes GetRankings. A nil SeasonID aggregates every season.
type RankingQuery struct {
	SeasonID *int64
	Unit     fandom.UnitFilter
}

// Rankings are derived from donations on every read.
type Rankings interface {
	GetRankings(ctx context.Context, q RankingQuery) ([]fandom.RankingItem, error)
	GetTopRankers(ctx context.Context, limit int) ([]fandom.RankingItem, error)
	// GetEpisodeRankings ranks one episode's donors; limit <= 0 means the VIP cohort size.
	GetEpisodeRankings(ctx context.Context, episodeID int64, limit int) ([]fandom.RankingItem, error)
}

// SearchType chooses which fields a text search reads.
type SearchType string

const (
	SearchTitle  SearchType = "title"
	SearchAuthor SearchType = "author"
	SearchAll    SearchType = "all"
)

// PostListOptions pages a board. An empty Board lists every board.
type PostListOptions struct {
	Board fandom.BoardType
	PageOptions
}

// PostSearch is a text search composed with the board filter.
type PostSearch struct {
	Query string
	Type  SearchType
	Board fandom.BoardType
	PageOptions
}

// Posts lists newest first (created_at desc, id desc).
type Posts interface {
	FindByID(ctx context.Context, id int64) (*fandom.PostItem, error)
	FindByBoard(ctx context.Context, board fandom.BoardType) ([]fandom.PostItem, error)
	FindRecent(ctx context.Context, limit int) ([]fandom.PostItem, error)
	FindAll(ctx context.Context) ([]fandom.PostItem, error)
	FindPaginated(ctx context.Context, opts PostListOptions) (Page[fandom.PostItem], error)
	Search(ctx context.Context, s PostSearch) (Page[fandom.PostItem], error)
	// IncrementViewCount returns the new count.
	IncrementViewCount(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, p fandom.Post) (fandom.Post, error)
	Update(ctx context.Context, p fandom.Post) (fandom.Post, error)
	// Delete is soft.
	Delete(ctx context.Context, id int64) error
	ToggleLike(ctx context.Context, postID int64, userID string) (fandom.LikeResult, error)
	HasUserLiked(ctx context.Context, postID int64, userID string) (bool, error)
}

// Comments list oldest first (created_at asc, id asc).
type Comments interface {
	FindByPostID(ctx context.Context, postID int64) ([]fandom.CommentItem, error)
	FindByID(ctx context.Context, id int64) (*fandom.Comment, error)
	// Create bumps the post's comment count; the post must exist.
	Create(ctx context.Context, c fandom.Comment) (fandom.Comment, error)
	Update(ctx context.Context, c fandom.Comment) (fandom.Comment, error)
	// Delete is soft and decrements the post's comment count.
	Delete(ctx context.Context, id int64) error
}

// NoticeListOptions pages notices, optionally within one category.
type NoticeListOptions struct {
	Category string
	PageOptions
}

// NoticeSearch matches titles only.
type NoticeSearch struct {
	Query    string
	Category string
	PageOptions
}

// Notices list pinned first, then newest (is_pinned desc, created_at desc, id desc).
type Notices interface {
	FindByID(ctx context.Context, id int64) (*fandom.Notice, error)
	FindRecent(ctx context.Context, limit int) ([]fandom.Notice, error)
	FindAll(ctx context.Context) ([]fandom.Notice, error)
	FindPaginated(ctx context.Context, opts NoticeListOptions) (Page[fandom.Notice], error)
	Search(ctx context.Context, s NoticeSearch) (Page[fandom.Notice], error)
	Create(ctx context.Context, n fandom.Notice) (fandom.Notice, error)
	Update(ctx context.Context, n fandom.Notice) (fandom.Notice, error)
	Delete(ctx context.Context, id int64) error
}

// Schedules list by start time (start_datetime asc, id asc).
type Schedules interface {
	FindByID(ctx context.Context, id int64) (*fandom.Schedule, error)
	FindAll(ctx context.Context) ([]fandom.Schedule, error)
	// FindByMonth returns items starting within the calendar month (UTC).
	FindByMonth(ctx context.Context, year int, month time.Month) ([]fandom.Schedule, error)
	// FindByMonthAndUnit also includes items with no unit.
	FindByMonthAndUnit(ctx context.Context, year int, month time.Month, unit fandom.Unit) ([]fandom.Schedule, error)
	Create(ctx context.Context, s fandom.Schedule) (fandom.Schedule, error)
	Update(ctx context.Context, s fandom.Schedule) (fandom.Schedule, error)
	Delete(ctx context.Context, id int64) error
}

// TimelineFilter narrows timeline events. A Category of "all" or "" is ignored;
// a Unit also admits events with no unit.
type TimelineFilter struct {
	SeasonID *int64
	Category string
	Unit     *fandom.Unit
}

// Timeline lists newest first (event_date desc, id desc).
type Timeline interface {
	FindByID(ctx context.Context, id int64) (*fandom.TimelineEvent, error)
	FindAll(ctx context.Context) ([]fandom.TimelineEvent, error)
	FindByFilter(ctx context.Context, f TimelineFilter) ([]fandom.TimelineEvent, error)
	// GetCategories returns the distinct categories, sorted.
	GetCategories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, e fandom.TimelineEvent) (fandom.TimelineEvent, error)
	Update(ctx context.Context, e fandom.TimelineEvent) (fandom.TimelineEvent, error)
	Delete(ctx context.Context, id int64) error
}

// Signatures list by number (sig_number asc, id asc).
type Signatures interface {
	FindByID(ctx context.Context, id int64) (*fandom.Signature, error)
	FindAll(ctx context.Context) ([]fandom.Signature, error)
	FindByUnit(ctx context.Context, unit fandom.Unit) ([]fandom.Signature, error)
	// FindByMemberName compares case-insensitively.
	FindByMemberName(ctx context.Context, name string) ([]fandom.Signature, error)
	FindFeatured(ctx context.Context) ([]fandom.Signature, error)
	Create(ctx context.Context, s fandom.Signature) (fandom.Signature, error)
	Update(ctx context.Context, s fandom.Signature) (fandom.Signature, error)
	Delete(ctx context.Context, id int64) error
}

type VipRewards interface {
	FindByID(ctx context.Context, id int64) (*fandom.VipReward, error)
	// FindByProfileID returns the profile's most recent reward.
	FindByProfileID(ctx context.Context, profileID string) (*fandom.VipReward, error)
	FindByRank(ctx context.Context, rank int, seasonID *int64) (*fandom.VipReward, error)
	// FindBySeason orders by rank asc, id asc.
	FindBySeason(ctx context.Context, seasonID int64) ([]fandom.VipReward, error)
	// FindTop returns rewards ranked 1..limit, ordered by rank.
	FindTop(ctx context.Context, limit int, seasonID *int64) ([]fandom.VipReward, error)
	Create(ctx context.Context, r fandom.VipReward) (fandom.VipReward, error)
	Update(ctx context.Context, r fandom.VipReward) (fandom.VipReward, error)
	Delete(ctx context.Context, id int64) error
}

// VipImages list by gallery position (order_index asc, id asc).
type VipImages interface {
	FindByID(ctx context.Context, id int64) (*fandom.VipImage, error)
	FindByRewardID(ctx context.Context, rewardID int64) ([]fandom.VipImage, error)
	FindByProfileID(ctx context.Context, profileID string) ([]fandom.VipImage, error)
	Create(ctx context.Context, img fandom.VipImage) (fandom.VipImage, error)
	Delete(ctx context.Context, id int64) error
}

// Media lists newest first (created_at desc, id desc).
type Media interface {
	FindByID(ctx context.Context, id int64) (*fandom.Media, error)
	FindAll(ctx context.Context) ([]fandom.Media, error)
	FindByType(ctx context.Context, t fandom.MediaType) ([]fandom.Media, error)
	// FindByUnit with a nil unit returns media not tied to a unit.
	FindByUnit(ctx context.Context, unit *fandom.Unit) ([]fandom.Media, error)
	FindFeatured(ctx context.Context) ([]fandom.Media, error)
	Create(ctx context.Context, m fandom.Media) (fandom.Media, error)
	Update(ctx context.Context, m fandom.Media) (fandom.Media, error)
	Delete(ctx context.Context, id int64) error
}

type LiveStatus interface {
	// FindAll orders by id.
	FindAll(ctx context.Context) ([]fandom.LiveStatus, error)
	FindByMemberID(ctx context.Context, memberID int64) ([]fandom.LiveStatus, error)
	// FindLive orders by viewer_count desc, id asc.
	FindLive(ctx context.Context) ([]fandom.LiveStatus, error)
	FindLiveByPlatform(ctx context.Context, platform string) ([]fandom.LiveStatus, error)
	// UpdateStatus sets every platform row of the member. A nil viewerCount leaves counts alone.
	UpdateStatus(ctx context.Context, memberID int64, isLive bool, viewerCount *int) error
	// Upsert inserts or replaces the row for (member_id, platform).
	Upsert(ctx context.Context, s fandom.LiveStatus) (fandom.LiveStatus, error)
	LiveCount(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// Banners list by display order (display_order asc, id asc).
type Banners interface {
	FindByID(ctx context.Context, id int64) (*fandom.Banner, error)
	FindAll(ctx context.Context) ([]fandom.Banner, error)
	FindActive(ctx context.Context) ([]fandom.Banner, error)
	Create(ctx context.Context, b fandom.Banner) (fandom.Banner, error)
	Update(ctx context.Context, b fandom.Banner) (fandom.Banner, error)
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (fandom.Banner, error)
	// Reorder sets display_order to each id's position, one row at a time.
	Reorder(ctx context.Context, ids []int64) BatchResult
}

type Guestbook interface {
	FindByID(ctx context.Context, id int64) (*fandom.GuestbookEntry, error)
	// FindByTributeUserID lists approved entries, newest first.
	FindByTributeUserID(ctx context.Context, tributeUserID string) ([]fandom.GuestbookEntry, error)
	// FindPending lists unapproved entries, oldest first. An empty id lists every page.
	FindPending(ctx context.Context, tributeUserID string) ([]fandom.GuestbookEntry, error)
	// Create approves member entries immediately.
	Create(ctx context.Context, e fandom.GuestbookEntry) (fandom.GuestbookEntry, error)
	Approve(ctx context.Context, id int64) (fandom.GuestbookEntry, error)
	// Delete is soft.
	Delete(ctx context.Context, id int64) error
}

// Organization lists by unit, position_order, id.
type Organization interface {
	FindByID(ctx context.Context, id int64) (*fandom.OrgMember, error)
	FindAll(ctx context.Context) ([]fandom.OrgMember, error)
	FindByUnit(ctx context.Context, unit fandom.Unit) ([]fandom.OrgMember, error)
	FindLiveMembers(ctx context.Context) ([]fandom.OrgMember, error)
	Create(ctx context.Context, m fandom.OrgMember) (fandom.OrgMember, error)
	Update(ctx context.Context, m fandom.OrgMember) (fandom.OrgMember, error)
	Delete(ctx context.Context, id int64) error
}
