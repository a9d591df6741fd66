// Package rankings exposes donor standings, seasons and the VIP checks that
// gate rank-battle content.
package rankings

import (
	"context"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type Service interface {
	// Season ranks one season, or every season when seasonID is nil.
	Season(ctx context.Context, seasonID *int64, unit fandom.UnitFilter) action.Result[[]fandom.RankingItem]
	// Current ranks the active season; with no active season it is empty.
	Current(ctx context.Context, unit fandom.UnitFilter) action.Result[[]fandom.RankingItem]
	Top(ctx context.Context, limit int) action.Result[[]fandom.RankingItem]
	Episode(ctx context.Context, episodeID int64, limit int) action.Result[[]fandom.RankingItem]
	Seasons(ctx context.Context) action.Result[[]fandom.Season]
	RankBattles(ctx context.Context, seasonID *int64) action.Result[[]fandom.Episode]
	VipMembers(ctx context.Context) action.Result[[]fandom.Profile]
	// AmIVipForRankBattles checks the calling actor.
	AmIVipForRankBattles(ctx context.Context, seasonID *int64) action.Result[bool]
	AmIVipForEpisode(ctx context.Context, episodeID int64) action.Result[bool]
}

type service struct {
	b   repository.Backend
	run *action.Runner
}

func New(b repository.Backend, run *action.Runner) Service { return &service{b: b, run: run} }

func checkUnit(unit fandom.UnitFilter) (fandom.UnitFilter, error) {
	u, ok := fandom.ParseUnitFilter(string(unit))
	if !ok {
		return "", errs.Validation("unknown unit filter %q", unit)
	}
	return u, nil
}

func (s *service) Season(ctx context.Context, seasonID *int64, unit fandom.UnitFilter) action.Result[[]fandom.RankingItem] {
	return action.Public(ctx, s.run, "rankings.season", func(ctx context.Context) ([]fandom.RankingItem, error) {
		u, err := checkUnit(unit)
		if err != nil {
			return nil, err
		}
		return s.b.Rankings().GetRankings(ctx, repository.RankingQuery{SeasonID: seasonID, Unit: u})
	})
}

func (s *service) Current(ctx context.Context, unit fandom.UnitFilter) action.Result[[]fandom.RankingItem] {
	return action.Public(ctx, s.run, "rankings.current", func(ctx context.Context) ([]fandom.RankingItem, error) {
		u, err := checkUnit(unit)
		if err != nil {
			return nil, err
		}
		active, err := s.b.Seasons().FindActive(ctx)
		if err != nil {
			return nil, err
		}
		if active == nil {
			return []fandom.RankingItem{}, nil
		}
		return s.b.Rankings().GetRankings(ctx, repository.RankingQuery{SeasonID: &active.ID, Unit: u})
	})
}

func (s *service) Top(ctx context.Context, limit int) action.Result[[]fandom.RankingItem] {
	return action.Public(ctx, s.run, "rankings.top", func(ctx context.Context) ([]fandom.RankingItem, error) {
		return s.b.Rankings().GetTopRankers(ctx, limit)
	})
}

func (s *service) Episode(ctx context.Context, episodeID int64, limit int) action.Result[[]fandom.RankingItem] {
	return action.Public(ctx, s.run, "rankings.episode", func(ctx context.Context) ([]fandom.RankingItem, error) {
		return s.b.Rankings().GetEpisodeRankings(ctx, episodeID, limit)
	})
}

func (s *service) Seasons(ctx context.Context) action.Result[[]fandom.Season] {
	return action.Public(ctx, s.run, "seasons.list", func(ctx context.Context) ([]fandom.Season, error) {
		return s.b.Seasons().FindAll(ctx)
	})
}

func (s *service) RankBattles(ctx context.Context, seasonID *int64) action.Result[[]fandom.Episode] {
	return action.Public(ctx, s.run, "episodes.rank_battles", func(ctx context.Context) ([]fandom.Episode, error) {
		return s.b.Episodes().FindRankBattles(ctx, seasonID)
	})
}

func (s *service) VipMembers(ctx context.Context) action.Result[[]fandom.Profile] {
	return action.Public(ctx, s.run, "profiles.vip", func(ctx context.Context) ([]fandom.Profile, error) {
		return s.b.Profiles().FindVipMembers(ctx)
	})
}

func (s *service) AmIVipForRankBattles(ctx context.Context, seasonID *int64) action.Result[bool] {
	return action.Authenticated(ctx, s.run, "vip.rank_battles", func(ctx context.Context, actorID string) (bool, error) {
		return s.b.Episodes().IsVipForRankBattles(ctx, actorID, seasonID)
	})
}

func (s *service) AmIVipForEpisode(ctx context.Context, episodeID int64) action.Result[bool] {
	return action.Authenticated(ctx, s.run, "vip.episode", func(ctx context.Context, actorID string) (bool, error) {
		return s.b.Episodes().IsVipForEpisode(ctx, actorID, episodeID)
	})
}
