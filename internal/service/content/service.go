// Package content serves the read-only pages: calendar, history, signature
// reactions, media, live streams, banners and the organization chart.
package content

import (
	"context"
	"time"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

// LiveMember is an organization member with the streams they are live on.
type LiveMember struct {
	fandom.OrgMember
	Streams []fandom.LiveStatus `json:"streams"`
}

// LiveBoard is the live page: who is on air and how many streams are up.
type LiveBoard struct {
	Members   []LiveMember `json:"members"`
	LiveCount int64        `json:"live_count"`
}

// SignatureQuery narrows the signature list. Unit and Member combine.
type SignatureQuery struct {
	Unit     *fandom.Unit
	Member   string
	Featured bool
}

// MediaQuery narrows the media list. An empty Type lists every type.
type MediaQuery struct {
	Type     fandom.MediaType
	Unit     *fandom.Unit
	Featured bool
}

type Service interface {
	// Schedules lists one calendar month; a unit also admits items with no unit.
	Schedules(ctx context.Context, year int, month time.Month, unit *fandom.Unit) action.Result[[]fandom.Schedule]
	Timeline(ctx context.Context, f repository.TimelineFilter) action.Result[[]fandom.TimelineEvent]
	TimelineCategories(ctx context.Context) action.Result[[]string]
	Signatures(ctx context.Context, q SignatureQuery) action.Result[[]fandom.Signature]
	Media(ctx context.Context, q MediaQuery) action.Result[[]fandom.Media]
	Live(ctx context.Context) action.Result[LiveBoard]
	Banners(ctx context.Context) action.Result[[]fandom.Banner]
	Organization(ctx context.Context, unit *fandom.Unit) action.Result[[]fandom.OrgMember]
}

type service struct {
	b   repository.Backend
	run *action.Runner
}

func New(b repository.Backend, run *action.Runner) Service { return &service{b: b, run: run} }

func (s *service) Schedules(ctx context.Context, year int, month time.Month, unit *fandom.Unit) action.Result[[]fandom.Schedule] {
	return action.Public(ctx, s.run, "schedules.month", func(ctx context.Context) ([]fandom.Schedule, error) {
		if month < time.January || month > time.December {
			return nil, errs.Validation("month must be 1..12")
		}
		if unit == nil {
			return s.b.Schedules().FindByMonth(ctx, year, month)
		}
		if !unit.Valid() {
			return nil, errs.Validation("unknown unit %q", *unit)
		}
		return s.b.Schedules().FindByMonthAndUnit(ctx, year, month, *unit)
	})
}

func (s *service) Timeline(ctx context.Context, f repository.TimelineFilter) action.Result[[]fandom.TimelineEvent] {
	return action.Public(ctx, s.run, "timeline.list", func(ctx context.Context) ([]fandom.TimelineEvent, error) {
		return s.b.Timeline().FindByFilter(ctx, f)
	})
}

func (s *service) TimelineCategories(ctx context.Context) action.Result[[]string] {
	return action.Public(ctx, s.run, "timeline.categories", func(ctx context.Context) ([]string, error) {
		return s.b.Timeline().GetCategories(ctx)
	})
}

func (s *service) Signatures(ctx context.Context, q SignatureQuery) action.Result[[]fandom.Signature] {
	return action.Public(ctx, s.run, "signatures.list", func(ctx context.Context) ([]fandom.Signature, error) {
		var (
			rows []fandom.Signature
			err  error
		)
		switch {
		case q.Featured:
			rows, err = s.b.Signatures().FindFeatured(ctx)
		case q.Member != "":
			rows, err = s.b.Signatures().FindByMemberName(ctx, q.Member)
		case q.Unit != nil:
			rows, err = s.b.Signatures().FindByUnit(ctx, *q.Unit)
		default:
			rows, err = s.b.Signatures().FindAll(ctx)
		}
		if err != nil {
			return nil, err
		}
		if q.Unit == nil {
			return rows, nil
		}
		out := rows[:0]
		for _, sig := range rows {
			if sig.Unit == *q.Unit {
				out = append(out, sig)
			}
		}
		return out, nil
	})
}

func (s *service) Media(ctx context.Context, q MediaQuery) action.Result[[]fandom.Media] {
	return action.Public(ctx, s.run, "media.list", func(ctx context.Context) ([]fandom.Media, error) {
		var (
			rows []fandom.Media
			err  error
		)
		switch {
		case q.Featured:
			rows, err = s.b.Media().FindFeatured(ctx)
		case q.Type != "":
			if q.Type != fandom.MediaShorts && q.Type != fandom.MediaVOD {
				return nil, errs.Validation("unknown content type %q", q.Type)
			}
			rows, err = s.b.Media().FindByType(ctx, q.Type)
		case q.Unit != nil:
			rows, err = s.b.Media().FindByUnit(ctx, q.Unit)
		default:
			rows, err = s.b.Media().FindAll(ctx)
		}
		if err != nil {
			return nil, err
		}
		out := rows[:0]
		for _, m := range rows {
			if q.Type != "" && m.ContentType != q.Type {
				continue
			}
			if q.Unit != nil && (m.Unit == nil || *m.Unit != *q.Unit) {
				continue
			}
			out = append(out, m)
		}
		return out, nil
	})
}

// Live pairs each live member with their live streams. A member flagged live
// with no live stream row still appears, with no streams.
func (s *service) Live(ctx context.Context) action.Result[LiveBoard] {
	return action.Public(ctx, s.run, "live.list", func(ctx context.Context) (LiveBoard, error) {
		members, err := s.b.Organization().FindLiveMembers(ctx)
		if err != nil {
			return LiveBoard{}, err
		}
		streams, err := s.b.LiveStatus().FindLive(ctx)
		if err != nil {
			return LiveBoard{}, err
		}
		byMember := make(map[int64][]fandom.LiveStatus)
		for _, st := range streams {
			byMember[st.MemberID] = append(byMember[st.MemberID], st)
		}
		count, err := s.b.LiveStatus().LiveCount(ctx)
		if err != nil {
			return LiveBoard{}, err
		}
		board := LiveBoard{Members: make([]LiveMember, 0, len(members)), LiveCount: count}
		for _, m := range members {
			st := byMember[m.ID]
			if st == nil {
				st = []fandom.LiveStatus{}
			}
			board.Members = append(board.Members, LiveMember{OrgMember: m, Streams: st})
		}
		return board, nil
	})
}

func (s *service) Banners(ctx context.Context) action.Result[[]fandom.Banner] {
	return action.Public(ctx, s.run, "banners.active", func(ctx context.Context) ([]fandom.Banner, error) {
		return s.b.Banners().FindActive(ctx)
	})
}

func (s *service) Organization(ctx context.Context, unit *fandom.Unit) action.Result[[]fandom.OrgMember] {
	return action.Public(ctx, s.run, "organization.list", func(ctx context.Context) ([]fandom.OrgMember, error) {
		if unit == nil {
			return s.b.Organization().FindAll(ctx)
		}
		if !unit.Valid() {
			return nil, errs.Validation("unknown unit %q", *unit)
		}
		return s.b.Organization().FindByUnit(ctx, *unit)
	})
}
