package fandom

import (
	"strings"

	"github.com/tinoosan/fanbase/internal/errs"
)

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Nickname) == "" {
		return errs.Validation("nickname is required")
	}
	if p.Role != "" && !p.Role.Valid() {
		return errs.Validation("unknown role %q", p.Role)
	}
	if p.Unit != nil && !p.Unit.Valid() {
		return errs.Validation("unknown unit %q", *p.Unit)
	}
	return nil
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errs.Validation("season name is required")
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return errs.Validation("season ends before it starts")
	}
	return nil
}

func (e Episode) Validate() error {
	if e.SeasonID <= 0 {
		return errs.Validation("episode needs a season")
	}
	if e.EpisodeNumber <= 0 {
		return errs.Validation("episode number must be positive")
	}
	return nil
}

// Validate enforces amount >= 0 and that the donor is identifiable.
func (d Donation) Validate() error {
	if d.Amount < 0 {
		return errs.Validation("amount must be >= 0")
	}
	if (d.DonorID == nil || *d.DonorID == "") && strings.TrimSpace(d.DonorName) == "" {
		return errs.Validation("donation needs a donor id or donor name")
	}
	if d.SeasonID <= 0 {
		return errs.Validation("donation needs a season")
	}
	if d.Unit != nil && !d.Unit.Valid() {
		return errs.Validation("unknown unit %q", *d.Unit)
	}
	return nil
}

func (p Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return errs.Validation("title is required")
	}
	if p.BoardType != BoardFree && p.BoardType != BoardVIP {
		return errs.Validation("unknown board %q", p.BoardType)
	}
	if p.AuthorID == "" {
		return errs.Validation("author is required")
	}
	return nil
}

func (c Comment) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return errs.Validation("comment is empty")
	}
	if c.PostID <= 0 || c.AuthorID == "" {
		return errs.Validation("comment needs a post and an author")
	}
	return nil
}

func (n Notice) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return errs.Validation("title is required")
	}
	return nil
}

func (s Schedule) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errs.Validation("title is required")
	}
	if s.StartAt.IsZero() {
		return errs.Validation("start time is required")
	}
	if s.EndAt != nil && s.EndAt.Before(s.StartAt) {
		return errs.Validation("schedule ends before it starts")
	}
	if s.Unit != nil && !s.Unit.Valid() {
		return errs.Validation("unknown unit %q", *s.Unit)
	}
	return nil
}

func (e TimelineEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Category) == "" {
		return errs.Validation("title and category are required")
	}
	return nil
}

func (s Signature) Validate() error {
	if s.SigNumber <= 0 {
		return errs.Validation("signature number must be positive")
	}
	if !s.Unit.Valid() {
		return errs.Validation("unknown unit %q", s.Unit)
	}
	return nil
}

func (r VipReward) Validate() error {
	if r.ProfileID == "" || r.SeasonID <= 0 {
		return errs.Validation("reward needs a profile and a season")
	}
	if r.Rank <= 0 {
		return errs.Validation("rank must be positive")
	}
	return nil
}

func (i VipImage) Validate() error {
	if i.RewardID <= 0 || strings.TrimSpace(i.ImageURL) == "" {
		return errs.Validation("image needs a reward and a url")
	}
	return nil
}

func (m Media) Validate() error {
	if m.ContentType != MediaShorts && m.ContentType != MediaVOD {
		return errs.Validation("unknown content type %q", m.ContentType)
	}
	if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.VideoURL) == "" {
		return errs.Validation("title and video url are required")
	}
	return nil
}

func (l LiveStatus) Validate() error {
	if l.MemberID <= 0 || strings.TrimSpace(l.Platform) == "" {
		return errs.Validation("live status needs a member and a platform")
	}
	if l.ViewerCount < 0 {
		return errs.Validation("viewer count must be >= 0")
	}
	return nil
}

func (b Banner) Validate() error {
	if strings.TrimSpace(b.ImageURL) == "" {
		return errs.Validation("image url is required")
	}
	return nil
}

func (g GuestbookEntry) Validate() error {
	if g.TributeUserID == "" {
		return errs.Validation("tribute user is required")
	}
	if strings.TrimSpace(g.Message) == "" {
		return errs.Validation("message is empty")
	}
	if strings.TrimSpace(g.AuthorName) == "" {
		return errs.Validation("author name is required")
	}
	return nil
}

func (o OrgMember) Validate() error {
	if !o.Unit.Valid() {
		return errs.Validation("unknown unit %q", o.Unit)
	}
	if strings.TrimSpace(o.Name) == "" {
		return errs.Validation("name is required")
	}
	return nil
}
