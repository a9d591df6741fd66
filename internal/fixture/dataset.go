// Package fixture holds the sample community used by the in-memory provider
// and the dev seed of the relational backend.
package fixture

import "github.com/tinoosan/fanbase/internal/fandom"

// Dataset is one consistent snapshot of every table. Rows carry explicit ids
// so the same dataset loads identically into either backend.
type Dataset struct {
	Profiles   []fandom.Profile
	Seasons    []fandom.Season
	Episodes   []fandom.Episode
	Donations  []fandom.Donation
	Org        []fandom.OrgMember
	Notices    []fandom.Notice
	Posts      []fandom.Post
	PostLikes  []fandom.PostLike
	Comments   []fandom.Comment
	Schedules  []fandom.Schedule
	Timeline   []fandom.TimelineEvent
	Signatures []fandom.Signature
	VipRewards []fandom.VipReward
	VipImages  []fandom.VipImage
	Media      []fandom.Media
	LiveStatus []fandom.LiveStatus
	Banners    []fandom.Banner
	Guestbook  []fandom.GuestbookEntry
}
