package fixture

import (
	"fmt"
	"time"

	"github.com/tinoosan/fanbase/internal/fandom"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(fmt.Sprintf("fixture: bad timestamp %q: %v", s, err))
	}
	return t.UTC()
}

func atp(s string) *time.Time {
	t := at(s)
	return &t
}

func str(s string) *string            { return &s }
func id(n int64) *int64               { return &n }
func intp(n int) *int                 { return &n }
func unit(u fandom.Unit) *fandom.Unit { return &u }

// Well-known profile ids in the default dataset.
const (
	AdminID     = "admin-user"
	ModeratorID = "mod-user"
	MemberID    = "member-user"
)

var donors = []struct {
	name string
	unit fandom.Unit
}{
	{"gul***", fandom.UnitExcel},
	{"Starguard", fandom.UnitCrew},
	{"SweetFan", fandom.UnitExcel},
	{"HappyToday", fandom.UnitCrew},
	{"ForeverSupporter", fandom.UnitExcel},
	{"PinkHeart", fandom.UnitExcel},
	{"NanoLove", fandom.UnitExcel},
	{"CrewKeeper", fandom.UnitCrew},
}

// DonorID returns the profile id of the n-th donor, counting from 1.
func DonorID(n int) string { return fmt.Sprintf("user-%d", n) }

// Default returns a fresh copy of the sample community. Callers may mutate it.
func Default() Dataset {
	ds := Dataset{}

	ds.Profiles = []fandom.Profile{
		{ID: AdminID, Nickname: "Admin", Email: str("admin@example.com"), Role: fandom.RoleSuperadmin, CreatedAt: at("2024-01-01T00:00:00Z"), UpdatedAt: at("2024-12-30T00:00:00Z")},
		{ID: ModeratorID, Nickname: "Moderator", Role: fandom.RoleModerator, CreatedAt: at("2024-01-02T00:00:00Z"), UpdatedAt: at("2024-01-02T00:00:00Z")},
		{ID: MemberID, Nickname: "Newcomer", Role: fandom.RoleMember, CreatedAt: at("2024-11-01T00:00:00Z"), UpdatedAt: at("2024-11-01T00:00:00Z")},
	}
	for i, d := range donors {
		created := at("2024-01-10T00:00:00Z").AddDate(0, 0, i)
		ds.Profiles = append(ds.Profiles, fandom.Profile{
			ID:        DonorID(i + 1),
			Nickname:  d.name,
			Role:      fandom.RoleVIP,
			Unit:      unit(d.unit),
			CreatedAt: created,
			UpdatedAt: created,
		})
	}

	ds.Seasons = []fandom.Season{
		{ID: 1, Name: "Season 1 - First Spark", StartDate: at("2024-01-01T00:00:00Z"), EndDate: atp("2024-03-31T00:00:00Z"), CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 2, Name: "Season 2 - Growing Season", StartDate: at("2024-04-01T00:00:00Z"), EndDate: atp("2024-06-30T00:00:00Z"), CreatedAt: at("2024-04-01T00:00:00Z")},
		{ID: 3, Name: "Season 3 - Bright Summer", StartDate: at("2024-07-01T00:00:00Z"), EndDate: atp("2024-09-30T00:00:00Z"), CreatedAt: at("2024-07-01T00:00:00Z")},
		{ID: 4, Name: "Season 4 - Winter Festival", StartDate: at("2024-10-01T00:00:00Z"), IsActive: true, CreatedAt: at("2024-10-01T00:00:00Z")},
	}

	ds.Episodes = []fandom.Episode{
		{ID: 1, SeasonID: 4, EpisodeNumber: 1, Title: "Season 4 / Episode 01", BroadcastDate: at("2024-12-18T11:00:00Z"), IsRankBattle: true, Description: str("Opening rank battle"), IsFinalized: true, CreatedAt: at("2024-10-01T00:00:00Z")},
		{ID: 2, SeasonID: 4, EpisodeNumber: 2, Title: "Season 4 / Episode 02", BroadcastDate: at("2024-12-21T11:00:00Z"), Description: str("Gold or fine day"), CreatedAt: at("2024-10-01T00:00:00Z")},
		{ID: 3, SeasonID: 4, EpisodeNumber: 3, Title: "Season 4 / Episode 03", BroadcastDate: at("2024-12-25T11:00:00Z"), IsRankBattle: true, Description: str("Christmas rank battle"), CreatedAt: at("2024-10-01T00:00:00Z")},
		{ID: 4, SeasonID: 3, EpisodeNumber: 1, Title: "Season 3 / Episode 01", BroadcastDate: at("2024-07-05T11:00:00Z"), IsRankBattle: true, IsFinalized: true, CreatedAt: at("2024-07-01T00:00:00Z")},
	}

	type gift struct {
		donor   int
		amount  int64
		season  int64
		episode int64
		message string
		when    string
	}
	gifts := []gift{
		{1, 15000, 4, 3, "", "2024-12-29T05:16:29Z"},
		{1, 5000, 4, 3, "", "2024-12-29T05:18:20Z"},
		{1, 4000, 4, 0, "", "2024-12-29T05:21:29Z"},
		{1, 6000, 4, 3, "", "2024-12-25T01:57:52Z"},
		{1, 8002, 4, 1, "", "2024-12-18T12:11:43Z"},
		{6, 20000, 4, 3, "Go Nano!", "2024-12-28T20:00:00Z"},
		{6, 15000, 4, 0, "Great stream today", "2024-12-27T21:00:00Z"},
		{6, 10000, 4, 2, "", "2024-12-21T19:30:00Z"},
		{2, 12000, 4, 3, "Banana is the best", "2024-12-28T22:00:00Z"},
		{2, 8000, 4, 3, "", "2024-12-25T18:00:00Z"},
		{2, 5000, 4, 1, "Merry Christmas", "2024-12-18T13:00:00Z"},
		{5, 30000, 4, 0, "Cheering for the year end event", "2024-12-28T15:00:00Z"},
		{7, 22000, 4, 1, "", "2024-12-18T20:30:00Z"},
		{3, 8000, 4, 2, "", "2024-12-22T19:00:00Z"},
		{3, 4000, 4, 0, "Fighting Luna", "2024-12-18T21:00:00Z"},
		{8, 10000, 4, 3, "Leo sings the best", "2024-12-25T20:00:00Z"},
		{8, 5000, 4, 0, "", "2024-12-21T18:30:00Z"},
		{4, 5000, 4, 2, "", "2024-12-24T17:00:00Z"},
		{4, 3000, 4, 0, "", "2024-12-19T16:00:00Z"},
		{6, 25000, 3, 4, "Season 3 fighting", "2024-08-10T14:00:00Z"},
		{2, 18000, 3, 4, "Summer streams rule", "2024-07-20T11:00:00Z"},
		{1, 15000, 3, 0, "", "2024-09-15T20:00:00Z"},
		{0, 9000, 4, 3, "", "2024-12-25T21:00:00Z"},
		{0, 9000, 4, 0, "", "2024-12-26T21:00:00Z"},
	}
	totals := make(map[string]int64)
	for i, g := range gifts {
		d := fandom.Donation{
			ID:        int64(i + 1),
			Amount:    g.amount,
			SeasonID:  g.season,
			CreatedAt: at(g.when),
		}
		if g.donor == 0 {
			d.DonorName = "Secret Admirer"
		} else {
			d.DonorID = str(DonorID(g.donor))
			d.DonorName = donors[g.donor-1].name
			d.Unit = unit(donors[g.donor-1].unit)
			totals[*d.DonorID] += g.amount
		}
		if g.episode != 0 {
			d.EpisodeID = id(g.episode)
		}
		if g.message != "" {
			d.Message = str(g.message)
		}
		ds.Donations = append(ds.Donations, d)
	}
	for i := range ds.Profiles {
		ds.Profiles[i].TotalDonation = totals[ds.Profiles[i].ID]
	}

	ds.Org = []fandom.OrgMember{
		{ID: 1, Unit: fandom.UnitExcel, Name: "Nano", Role: "Representative", PositionOrder: 1, IsLive: true, IsActive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 2, Unit: fandom.UnitExcel, Name: "Haerin", Role: "Member", PositionOrder: 2, ParentID: id(1), IsActive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 3, Unit: fandom.UnitExcel, Name: "Luna", Role: "Member", PositionOrder: 3, ParentID: id(1), IsLive: true, IsActive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 4, Unit: fandom.UnitCrew, Name: "Banana", Role: "Leader", PositionOrder: 1, IsActive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 5, Unit: fandom.UnitCrew, Name: "Leo", Role: "Member", PositionOrder: 2, ParentID: id(4), IsActive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 6, Unit: fandom.UnitCrew, Name: "Jay", Role: "Member", PositionOrder: 3, ParentID: id(4), IsLive: true, IsActive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 7, Unit: fandom.UnitCrew, Name: "Timo", Role: "Member", PositionOrder: 4, ParentID: id(4), IsLive: true, CreatedAt: at("2024-01-01T00:00:00Z")},
	}

	ds.LiveStatus = []fandom.LiveStatus{
		{ID: 1, MemberID: 1, Platform: "pandatv", StreamURL: "https://www.pandalive.co.kr/nano", IsLive: true, ViewerCount: 4523, LastChecked: at("2024-12-30T12:00:00Z")},
		{ID: 2, MemberID: 3, Platform: "pandatv", StreamURL: "https://www.pandalive.co.kr/luna", IsLive: true, ViewerCount: 2341, LastChecked: at("2024-12-30T12:00:00Z")},
		{ID: 3, MemberID: 6, Platform: "youtube", StreamURL: "https://youtube.com/live/jay", IsLive: true, ViewerCount: 1876, LastChecked: at("2024-12-30T12:00:00Z")},
		{ID: 4, MemberID: 4, Platform: "pandatv", StreamURL: "https://www.pandalive.co.kr/banana", LastChecked: at("2024-12-30T12:00:00Z")},
		{ID: 5, MemberID: 1, Platform: "youtube", StreamURL: "https://youtube.com/live/nano", LastChecked: at("2024-12-30T12:00:00Z")},
	}

	ds.Notices = []fandom.Notice{
		{ID: 1, Title: "Community rules", Content: "Be kind. No spam.", Category: "official", IsPinned: true, ViewCount: 1520, AuthorID: str(AdminID), CreatedAt: at("2024-10-01T09:00:00Z"), UpdatedAt: at("2024-10-01T09:00:00Z")},
		{ID: 2, Title: "Season 4 schedule announced", Content: "Rank battles every other week.", Category: "official", ViewCount: 830, AuthorID: str(AdminID), CreatedAt: at("2024-10-02T09:00:00Z"), UpdatedAt: at("2024-10-02T09:00:00Z")},
		{ID: 3, Title: "Year end festival", Content: "Join the festival stream on the 31st.", Category: "event", ViewCount: 412, AuthorID: str(AdminID), CreatedAt: at("2024-12-20T09:00:00Z"), UpdatedAt: at("2024-12-20T09:00:00Z")},
		{ID: 4, Title: "Server maintenance", Content: "The site will be down for an hour.", Category: "system", ViewCount: 95, AuthorID: str(ModeratorID), CreatedAt: at("2024-12-27T09:00:00Z"), UpdatedAt: at("2024-12-27T09:00:00Z")},
	}

	ds.Posts = []fandom.Post{
		{ID: 1, BoardType: fandom.BoardFree, Title: "First post of the season", Content: "Hello everyone!", AuthorID: DonorID(1), ViewCount: 120, LikeCount: 2, CommentCount: 2, CreatedAt: at("2024-10-02T10:00:00Z"), UpdatedAt: at("2024-10-02T10:00:00Z")},
		{ID: 2, BoardType: fandom.BoardFree, Title: "Christmas stream highlights", Content: "What a night.", AuthorID: DonorID(6), ViewCount: 88, LikeCount: 1, CommentCount: 1, CreatedAt: at("2024-12-26T01:00:00Z"), UpdatedAt: at("2024-12-26T01:00:00Z")},
		{ID: 3, BoardType: fandom.BoardVIP, Title: "VIP lounge open", Content: "Thanks for the support.", AuthorID: AdminID, ViewCount: 40, CreatedAt: at("2024-12-01T10:00:00Z"), UpdatedAt: at("2024-12-01T10:00:00Z")},
		{ID: 4, BoardType: fandom.BoardFree, Title: "A question", Content: "Asked quietly.", AuthorID: MemberID, IsAnonymous: true, ViewCount: 12, CreatedAt: at("2024-12-28T10:00:00Z"), UpdatedAt: at("2024-12-28T10:00:00Z")},
		{ID: 5, BoardType: fandom.BoardFree, Title: "Removed post", Content: "spam", AuthorID: MemberID, IsDeleted: true, CreatedAt: at("2024-12-29T10:00:00Z"), UpdatedAt: at("2024-12-29T11:00:00Z")},
	}
	ds.PostLikes = []fandom.PostLike{
		{ID: 1, PostID: 1, UserID: DonorID(2), CreatedAt: at("2024-10-02T11:00:00Z")},
		{ID: 2, PostID: 1, UserID: DonorID(3), CreatedAt: at("2024-10-02T12:00:00Z")},
		{ID: 3, PostID: 2, UserID: DonorID(1), CreatedAt: at("2024-12-26T02:00:00Z")},
	}
	ds.Comments = []fandom.Comment{
		{ID: 1, PostID: 1, AuthorID: DonorID(2), Content: "Welcome!", CreatedAt: at("2024-10-02T11:00:00Z"), UpdatedAt: at("2024-10-02T11:00:00Z")},
		{ID: 2, PostID: 1, AuthorID: DonorID(1), Content: "Thanks!", ParentID: id(1), CreatedAt: at("2024-10-02T11:30:00Z"), UpdatedAt: at("2024-10-02T11:30:00Z")},
		{ID: 3, PostID: 2, AuthorID: MemberID, Content: "Agreed", IsAnonymous: true, CreatedAt: at("2024-12-26T03:00:00Z"), UpdatedAt: at("2024-12-26T03:00:00Z")},
		{ID: 4, PostID: 2, AuthorID: MemberID, Content: "off topic", IsDeleted: true, CreatedAt: at("2024-12-26T04:00:00Z"), UpdatedAt: at("2024-12-26T04:30:00Z")},
	}

	ds.Schedules = []fandom.Schedule{
		{ID: 1, Title: "Excel broadcast", Unit: unit(fandom.UnitExcel), EventType: "broadcast", StartAt: at("2024-12-18T11:00:00Z"), EndAt: atp("2024-12-18T15:00:00Z"), CreatedAt: at("2024-12-01T00:00:00Z")},
		{ID: 2, Title: "Crew collab", Unit: unit(fandom.UnitCrew), EventType: "collab", StartAt: at("2024-12-21T11:00:00Z"), CreatedAt: at("2024-12-01T00:00:00Z")},
		{ID: 3, Title: "Christmas special", EventType: "event", StartAt: at("2024-12-25T00:00:00Z"), IsAllDay: true, Color: str("#fd68ba"), CreatedAt: at("2024-12-01T00:00:00Z")},
		{ID: 4, Title: "New year stream", EventType: "broadcast", StartAt: at("2025-01-01T00:00:00Z"), Unit: unit(fandom.UnitExcel), CreatedAt: at("2024-12-01T00:00:00Z")},
		{ID: 5, Title: "November recap", EventType: "notice", StartAt: at("2024-11-30T23:59:59Z"), CreatedAt: at("2024-11-01T00:00:00Z")},
	}

	ds.Timeline = []fandom.TimelineEvent{
		{ID: 1, EventDate: at("2024-01-01T00:00:00Z"), Title: "Community founded", Category: "founding", SeasonID: id(1), CreatedAt: at("2024-01-01T00:00:00Z")},
		{ID: 2, EventDate: at("2024-04-01T00:00:00Z"), Title: "Crew unit launched", Category: "milestone", SeasonID: id(2), Unit: unit(fandom.UnitCrew), CreatedAt: at("2024-04-01T00:00:00Z")},
		{ID: 3, EventDate: at("2024-07-15T00:00:00Z"), Title: "Summer festival", Category: "event", SeasonID: id(3), CreatedAt: at("2024-07-15T00:00:00Z")},
		{ID: 4, EventDate: at("2024-10-01T00:00:00Z"), Title: "Season 4 begins", Category: "milestone", SeasonID: id(4), Unit: unit(fandom.UnitExcel), CreatedAt: at("2024-10-01T00:00:00Z")},
	}

	ds.Signatures = []fandom.Signature{
		{ID: 1, SigNumber: 1, Title: "Heart shower", Unit: fandom.UnitExcel, MemberName: "Nano", IsFeatured: true, ViewCount: 300, CreatedAt: at("2024-02-01T00:00:00Z")},
		{ID: 2, SigNumber: 2, Title: "Group dance", Unit: fandom.UnitExcel, MemberName: "Haerin", IsGroup: true, ViewCount: 150, CreatedAt: at("2024-02-02T00:00:00Z")},
		{ID: 3, SigNumber: 3, Title: "Banana split", Unit: fandom.UnitCrew, MemberName: "Banana", ViewCount: 90, CreatedAt: at("2024-05-01T00:00:00Z")},
		{ID: 4, SigNumber: 4, Title: "Midnight song", Unit: fandom.UnitCrew, MemberName: "Leo", IsFeatured: true, ViewCount: 75, CreatedAt: at("2024-05-02T00:00:00Z")},
	}

	ds.VipRewards = []fandom.VipReward{
		{ID: 1, ProfileID: DonorID(6), SeasonID: 4, Rank: 1, PersonalMessage: str("Thank you for always cheering the loudest."), DedicationVideoURL: str("https://example.com/tribute/gold-video.mp4"), CreatedAt: at("2024-12-30T00:00:00Z")},
		{ID: 2, ProfileID: DonorID(1), SeasonID: 4, Rank: 2, PersonalMessage: str("Your chat messages keep the room warm."), CreatedAt: at("2024-12-30T00:00:01Z")},
		{ID: 3, ProfileID: DonorID(5), SeasonID: 4, Rank: 3, CreatedAt: at("2024-12-30T00:00:02Z")},
		{ID: 4, ProfileID: DonorID(6), SeasonID: 3, Rank: 1, CreatedAt: at("2024-09-30T00:00:00Z")},
		{ID: 5, ProfileID: DonorID(2), SeasonID: 3, Rank: 2, CreatedAt: at("2024-09-30T00:00:01Z")},
	}
	ds.VipImages = []fandom.VipImage{
		{ID: 1, RewardID: 1, ImageURL: "https://example.com/vip/gold-1.jpg", Title: str("Backstage"), OrderIndex: 0, CreatedAt: at("2024-12-30T00:00:00Z")},
		{ID: 2, RewardID: 1, ImageURL: "https://example.com/vip/gold-2.jpg", OrderIndex: 1, CreatedAt: at("2024-12-30T00:00:00Z")},
		{ID: 3, RewardID: 2, ImageURL: "https://example.com/vip/silver-1.jpg", OrderIndex: 0, CreatedAt: at("2024-12-30T00:00:00Z")},
	}

	ds.Media = []fandom.Media{
		{ID: 1, ContentType: fandom.MediaShorts, Title: "Best reactions", VideoURL: "https://youtube.com/shorts/abc", Unit: unit(fandom.UnitExcel), Duration: intp(58), ViewCount: 1200, IsFeatured: true, CreatedAt: at("2024-12-01T00:00:00Z")},
		{ID: 2, ContentType: fandom.MediaVOD, Title: "Christmas special full", VideoURL: "https://youtube.com/watch?v=xmas", Duration: intp(10800), ViewCount: 800, CreatedAt: at("2024-12-26T00:00:00Z")},
		{ID: 3, ContentType: fandom.MediaShorts, Title: "Crew bloopers", VideoURL: "https://youtube.com/shorts/def", Unit: unit(fandom.UnitCrew), Duration: intp(45), ViewCount: 640, CreatedAt: at("2024-12-10T00:00:00Z")},
	}

	ds.Banners = []fandom.Banner{
		{ID: 1, Title: str("Season 4"), ImageURL: "https://example.com/banners/season4.jpg", DisplayOrder: 0, IsActive: true, CreatedAt: at("2024-10-01T00:00:00Z")},
		{ID: 2, Title: str("Year end festival"), ImageURL: "https://example.com/banners/festival.jpg", LinkURL: str("/notice/3"), DisplayOrder: 1, IsActive: true, CreatedAt: at("2024-12-20T00:00:00Z")},
		{ID: 3, ImageURL: "https://example.com/banners/old.jpg", DisplayOrder: 2, CreatedAt: at("2024-06-01T00:00:00Z")},
	}

	ds.Guestbook = []fandom.GuestbookEntry{
		{ID: 1, TributeUserID: DonorID(6), AuthorName: "Luna", Message: "Thank you for cheering every day!", IsMember: true, IsApproved: true, CreatedAt: at("2024-12-30T14:30:00Z")},
		{ID: 2, TributeUserID: DonorID(6), AuthorID: str(DonorID(2)), AuthorName: "Starguard", Message: "Congrats on first place!", IsApproved: true, CreatedAt: at("2024-12-30T15:00:00Z")},
		{ID: 3, TributeUserID: DonorID(6), AuthorID: str(MemberID), AuthorName: "Newcomer", Message: "Wow, amazing.", CreatedAt: at("2024-12-30T16:00:00Z")},
		{ID: 4, TributeUserID: DonorID(1), AuthorName: "Nano", Message: "Always grateful.", IsMember: true, IsApproved: true, CreatedAt: at("2024-12-30T17:00:00Z")},
	}

	return ds
}
