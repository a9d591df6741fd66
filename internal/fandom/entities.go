// Package fandom holds the entities of the fan community: members, donations,
// board content, tribute pages and the broadcast calendar.
package fandom

import (
	"strings"
	"time"
)

// Role is a member's capability tier.
type Role string

const (
	RoleMember     Role = "member"
	RoleVIP        Role = "vip"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Level orders roles: member < vip < moderator < admin < superadmin.
// Unknown roles sit below member.
func (r Role) Level() int {
	switch r {
	case RoleMember:
		return 0
	case RoleVIP:
		return 1
	case RoleModerator:
		return 2
	case RoleAdmin:
		return 3
	case RoleSuperadmin:
		return 4
	default:
		return -1
	}
}

// AtLeast reports whether r ranks at or above min.
func (r Role) AtLeast(min Role) bool { return r.Level() >= 0 && r.Level() >= min.Level() }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r.Level() >= 0 }

// Unit identifies one of the two broadcast crews.
type Unit string

const (
	UnitExcel Unit = "excel"
	UnitCrew  Unit = "crew"
)

func (u Unit) Valid() bool { return u == UnitExcel || u == UnitCrew }

// UnitFilter selects a ranking or listing scope.
type UnitFilter string

const (
	UnitFilterAll   UnitFilter = "all"
	UnitFilterExcel UnitFilter = "excel"
	UnitFilterCrew  UnitFilter = "crew"
	// UnitFilterVIP keeps every unit but applies the VIP cohort cutoff.
	UnitFilterVIP UnitFilter = "vip"
)

// ParseUnitFilter maps a query value onto a UnitFilter. Empty means all.
func ParseUnitFilter(s string) (UnitFilter, bool) {
	switch UnitFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitFilterAll:
		return UnitFilterAll, true
	case UnitFilterExcel:
		return UnitFilterExcel, true
	case UnitFilterCrew:
		return UnitFilterCrew, true
	case UnitFilterVIP:
		return UnitFilterVIP, true
	}
	return "", false
}

// BoardType separates the free board from the VIP-only board.
type BoardType string

const (
	BoardFree BoardType = "free"
	BoardVIP  BoardType = "vip"
)

// MediaType distinguishes short clips from full VODs.
type MediaType string

const (
	MediaShorts MediaType = "shorts"
	MediaVOD    MediaType = "vod"
)

// Profile is a registered member. Ids are opaque strings issued by the auth provider.
type Profile struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Nickname      string    `json:"nickname" gorm:"index"`
	Email         *string   `json:"email,omitempty"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	Role          Role      `json:"role"`
	Unit          *Unit     `json:"unit,omitempty"`
	TotalDonation int64     `json:"total_donation"`
	PandaTVID     *string   `json:"pandatv_id,omitempty" gorm:"column:pandatv_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// Season groups episodes and donations.
type Season struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Season) TableName() string { return "seasons" }

// Episode is one broadcast within a season.
type Episode struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SeasonID      int64     `json:"season_id" gorm:"index"`
	EpisodeNumber int       `json:"episode_number"`
	Title         string    `json:"title"`
	BroadcastDate time.Time `json:"broadcast_date"`
	IsRankBattle  bool      `json:"is_rank_battle"`
	Description   *string   `json:"description,omitempty"`
	IsFinalized   bool      `json:"is_finalized"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Episode) TableName() string { return "episodes" }

// Donation is one heart gift. Anonymous donations keep only DonorName.
type Donation struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	DonorID   *string   `json:"donor_id,omitempty" gorm:"index"`
	DonorName string    `json:"donor_name"`
	Amount    int64     `json:"amount"`
	SeasonID  int64     `json:"season_id" gorm:"index"`
	EpisodeID *int64    `json:"episode_id,omitempty" gorm:"index"`
	Unit      *Unit     `json:"unit,omitempty"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Donation) TableName() string { return "donations" }

// OrgMember is a seat in a unit's organization chart.
type OrgMember struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Unit          Unit      `json:"unit" gorm:"index"`
	ProfileID     *string   `json:"profile_id,omitempty"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	PositionOrder int       `json:"position_order"`
	ParentID      *int64    `json:"parent_id,omitempty"`
	ImageURL      *string   `json:"image_url,omitempty"`
	IsLive        bool      `json:"is_live"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

func (OrgMember) TableName() string { return "organization" }

// Notice is an official announcement. Pinned notices list first.
type Notice struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category" gorm:"index"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	IsPinned     bool      `json:"is_pinned"`
	ViewCount    int64     `json:"view_count"`
	AuthorID     *string   `json:"author_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Notice) TableName() string { return "notices" }

// Post is a community board post. Deletion is soft.
type Post struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BoardType    BoardType `json:"board_type" gorm:"index"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"author_id" gorm:"index"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	IsAnonymous  bool      `json:"is_anonymous"`
	IsDeleted    bool      `json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// PostLike records that a user liked a post. One row per (post, user).
type PostLike struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID    int64     `json:"post_id" gorm:"uniqueIndex:idx_post_likes_post_user"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_post_likes_post_user"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }

// Comment belongs to a post; ParentID threads replies. Deletion is soft.
type Comment struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID      int64     `json:"post_id" gorm:"index"`
	AuthorID    string    `json:"author_id"`
	Content     string    `json:"content"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	IsAnonymous bool      `json:"is_anonymous"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// Schedule is a calendar item. A nil Unit applies to both units.
type Schedule struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Unit        *Unit      `json:"unit,omitempty"`
	EventType   string     `json:"event_type"`
	StartAt     time.Time  `json:"start_datetime" gorm:"column:start_datetime;index"`
	EndAt       *time.Time `json:"end_datetime,omitempty" gorm:"column:end_datetime"`
	Location    *string    `json:"location,omitempty"`
	IsAllDay    bool       `json:"is_all_day"`
	Color       *string    `json:"color,omitempty"`
	CreatedBy   *string    `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Schedule) TableName() string { return "schedules" }

// TimelineEvent is a milestone in the community history.
type TimelineEvent struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EventDate   time.Time `json:"event_date"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Category    string    `json:"category"`
	SeasonID    *int64    `json:"season_id,omitempty"`
	Unit        *Unit     `json:"unit,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TimelineEvent) TableName() string { return "timeline_events" }

// Signature is a numbered signature reaction performed by a member.
type Signature struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SigNumber    int       `json:"sig_number"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	MediaURL     *string   `json:"media_url,omitempty"`
	Unit         Unit      `json:"unit"`
	MemberName   string    `json:"member_name"`
	IsGroup      bool      `json:"is_group"`
	IsFeatured   bool      `json:"is_featured"`
	ViewCount    int64     `json:"view_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Signature) TableName() string { return "signatures" }

// VipReward is the tribute granted to a top donor for a season or episode.
type VipReward struct {
	ID                 int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ProfileID          string    `json:"profile_id" gorm:"index"`
	SeasonID           int64     `json:"season_id" gorm:"index"`
	EpisodeID          *int64    `json:"episode_id,omitempty"`
	Rank               int       `json:"rank"`
	PersonalMessage    *string   `json:"personal_message,omitempty"`
	DedicationVideoURL *string   `json:"dedication_video_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func (VipReward) TableName() string { return "vip_rewards" }

// VipImage is one picture in a reward's gallery.
type VipImage struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RewardID   int64     `json:"reward_id" gorm:"index"`
	ImageURL   string    `json:"image_url"`
	Title      *string   `json:"title,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (VipImage) TableName() string { return "vip_images" }

// Media is a published clip or VOD.
type Media struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	ContentType  MediaType `json:"content_type"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	VideoURL     string    `json:"video_url"`
	Unit         *Unit     `json:"unit,omitempty"`
	Duration     *int      `json:"duration,omitempty"`
	ViewCount    int64     `json:"view_count"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Media) TableName() string { return "media_content" }

// LiveStatus tracks one organization member on one streaming platform.
type LiveStatus struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	MemberID     int64     `json:"member_id" gorm:"uniqueIndex:idx_live_status_member_platform"`
	Platform     string    `json:"platform" gorm:"uniqueIndex:idx_live_status_member_platform"`
	StreamURL    string    `json:"stream_url"`
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"`
	IsLive       bool      `json:"is_live"`
	ViewerCount  int       `json:"viewer_count"`
	LastChecked  time.Time `json:"last_checked"`
}

func (LiveStatus) TableName() string { return "live_status" }

// Banner is a home page carousel slide.
type Banner struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        *string   `json:"title,omitempty"`
	ImageURL     string    `json:"image_url"`
	LinkURL      *string   `json:"link_url,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Banner) TableName() string { return "banners" }

// GuestbookEntry is a message left on a VIP's tribute page. Deletion is soft.
type GuestbookEntry struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TributeUserID string    `json:"tribute_user_id" gorm:"index"`
	AuthorID      *string   `json:"author_id,omitempty"`
	AuthorName    string    `json:"author_name"`
	Message       string    `json:"message"`
	IsMember      bool      `json:"is_member"`
	IsApproved    bool      `json:"is_approved"`
	IsDeleted     bool      `json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
}

func (GuestbookEntry) TableName() string { return "tribute_guestbook" }
