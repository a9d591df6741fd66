package repository

import (
	"context"
	"strings"
	"time"

	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/filter"
	"github.com/tinoosan/fanbase/internal/ranking"
)

// DefaultTopRankers is used when GetTopRankers is called without a limit.
const DefaultTopRankers = 3

// Timestamp is the creation/update clock used by both backends. Microsecond
// precision keeps relational round trips exact.
func Timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// MonthRange returns [first instant of the month, first instant of the next month) in UTC.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Cohort returns the ranking cutoff implied by a unit filter.
func Cohort(unit fandom.UnitFilter) int {
	if unit == fandom.UnitFilterVIP {
		return ranking.VIPCohortSize
	}
	return 0
}

// UnitScope returns the donation unit a ranking filter narrows to, if any.
func UnitScope(unit fandom.UnitFilter) (fandom.Unit, bool) {
	switch unit {
	case fandom.UnitFilterExcel:
		return fandom.UnitExcel, true
	case fandom.UnitFilterCrew:
		return fandom.UnitCrew, true
	}
	return "", false
}

// PostItems resolves authors for display.
func PostItems(posts []fandom.Post, profiles map[string]fandom.Profile) []fandom.PostItem {
	out := make([]fandom.PostItem, 0, len(posts))
	for _, p := range posts {
		out = append(out, fandom.PostItem{Post: p, AuthorName: fandom.AuthorName(p.IsAnonymous, lookup(profiles, p.AuthorID))})
	}
	return out
}

// CommentItems resolves authors for display.
func CommentItems(comments []fandom.Comment, profiles map[string]fandom.Profile) []fandom.CommentItem {
	out := make([]fandom.CommentItem, 0, len(comments))
	for _, c := range comments {
		out = append(out, fandom.CommentItem{Comment: c, AuthorName: fandom.AuthorName(c.IsAnonymous, lookup(profiles, c.AuthorID))})
	}
	return out
}

func lookup(profiles map[string]fandom.Profile, id string) *fandom.Profile {
	if p, ok := profiles[id]; ok {
		return &p
	}
	return nil
}

func postSearchFields(t SearchType) []string {
	switch t {
	case SearchTitle:
		return []string{"title"}
	case SearchAuthor:
		return []string{"author_name"}
	default:
		return []string{"title", "author_name"}
	}
}

// SearchPosts applies a text search to ordered, board-filtered posts.
func SearchPosts(items []fandom.PostItem, s PostSearch) (Page[fandom.PostItem], error) {
	q := filter.Query{Search: s.Query, SearchFields: postSearchFields(s.Type)}
	return FilterPage(items, q, s.PageOptions)
}

// SearchNotices matches notice titles only.
func SearchNotices(notices []fandom.Notice, s NoticeSearch) (Page[fandom.Notice], error) {
	q := filter.Query{Search: s.Query, SearchFields: []string{"title"}}
	return FilterPage(notices, q, s.PageOptions)
}

// TimelineCategory reports whether a category filter is active.
func TimelineCategory(category string) (string, bool) {
	c := strings.TrimSpace(category)
	if c == "" || strings.EqualFold(c, "all") {
		return "", false
	}
	return c, true
}

// IsVipForEpisode reports whether userID placed in the episode's VIP cohort.
func IsVipForEpisode(ctx context.Context, r Rankings, userID string, episodeID int64) (bool, error) {
	items, err := r.GetEpisodeRankings(ctx, episodeID, ranking.VIPCohortSize)
	if err != nil {
		return false, err
	}
	return ranking.Contains(items, userID), nil
}

// IsVipForRankBattles checks the rank battles of seasonID, or of the active
// season when seasonID is nil.
func IsVipForRankBattles(ctx context.Context, seasons Seasons, episodes Episodes, r Rankings, userID string, seasonID *int64) (bool, error) {
	if userID == "" {
		return false, nil
	}
	if seasonID == nil {
		active, err := seasons.FindActive(ctx)
		if err != nil {
			return false, err
		}
		if active == nil {
			return false, nil
		}
		seasonID = &active.ID
	}
	battles, err := episodes.FindRankBattles(ctx, seasonID)
	if err != nil {
		return false, err
	}
	for _, ep := range battles {
		ok, err := IsVipForEpisode(ctx, r, userID, ep.ID)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
