package memory

import (
	"cmp"
	"context"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type seasonRepo struct{ s *Store }

func seasonOrder(a, b fandom.Season) int { return desc(a.StartDate, b.StartDate, a.ID, b.ID) }

func (r seasonRepo) FindByID(_ context.Context, id int64) (*fandom.Season, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.seasons.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r seasonRepo) FindActive(_ context.Context) (*fandom.Season, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, _ := r.s.seasons.first(func(s fandom.Season) bool { return s.IsActive }, seasonOrder)
	return row, nil
}

func (r seasonRepo) FindAll(_ context.Context) ([]fandom.Season, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.seasons.list(nil, seasonOrder), nil
}

func (r seasonRepo) Create(_ context.Context, row fandom.Season) (fandom.Season, error) {
	if err := row.Validate(); err != nil {
		return fandom.Season{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.seasons.insert(row), nil
}

func (r seasonRepo) Update(_ context.Context, row fandom.Season) (fandom.Season, error) {
	if err := row.Validate(); err != nil {
		return fandom.Season{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.seasons.get(row.ID)
	if !ok {
		return fandom.Season{}, errs.NotFound("season")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.seasons.replace(row)
	return row, nil
}

func (r seasonRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.seasons.remove(id) {
		return errs.NotFound("season")
	}
	return nil
}

type episodeRepo struct{ s *Store }

func episodeOrder(a, b fandom.Episode) int {
	if c := cmp.Compare(a.SeasonID, b.SeasonID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EpisodeNumber, b.EpisodeNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r episodeRepo) FindByID(_ context.Context, id int64) (*fandom.Episode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.episodes.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func (r episodeRepo) FindBySeason(_ context.Context, seasonID int64) ([]fandom.Episode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.episodes.list(func(e fandom.Episode) bool { return e.SeasonID == seasonID }, episodeOrder), nil
}

func rankBattleIn(seasonID *int64) func(fandom.Episode) bool {
	return func(e fandom.Episode) bool {
		return e.IsRankBattle && (seasonID == nil || e.SeasonID == *seasonID)
	}
}

func (r episodeRepo) FindRankBattles(_ context.Context, seasonID *int64) ([]fandom.Episode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.episodes.list(rankBattleIn(seasonID), episodeOrder), nil
}

func (r episodeRepo) FindLatestRankBattle(_ context.Context, seasonID *int64) (*fandom.Episode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, _ := r.s.episodes.first(rankBattleIn(seasonID), func(a, b fandom.Episode) int {
		return desc(a.BroadcastDate, b.BroadcastDate, a.ID, b.ID)
	})
	return row, nil
}

func (r episodeRepo) IsVipForEpisode(ctx context.Context, userID string, episodeID int64) (bool, error) {
	return repository.IsVipForEpisode(ctx, r.s.Rankings(), userID, episodeID)
}

func (r episodeRepo) IsVipForRankBattles(ctx context.Context, userID string, seasonID *int64) (bool, error) {
	return repository.IsVipForRankBattles(ctx, r.s.Seasons(), r, r.s.Rankings(), userID, seasonID)
}

func (r episodeRepo) Create(_ context.Context, row fandom.Episode) (fandom.Episode, error) {
	if err := row.Validate(); err != nil {
		return fandom.Episode{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.episodes.insert(row), nil
}

func (r episodeRepo) Update(_ context.Context, row fandom.Episode) (fandom.Episode, error) {
	if err := row.Validate(); err != nil {
		return fandom.Episode{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.episodes.get(row.ID)
	if !ok {
		return fandom.Episode{}, errs.NotFound("episode")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.episodes.replace(row)
	return row, nil
}

func (r episodeRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.episodes.remove(id) {
		return errs.NotFound("episode")
	}
	return nil
}
