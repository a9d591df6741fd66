package remote

import (
	"context"

	"gorm.io/gorm"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type seasonRepo struct{ s *Store }

const seasonOrder = "start_date desc, id desc"

func (r seasonRepo) FindByID(ctx context.Context, id int64) (*fandom.Season, error) {
	return one[fandom.Season](r.s.q(ctx).Where("id = ?", id), "find season")
}

func (r seasonRepo) FindActive(ctx context.Context) (*fandom.Season, error) {
	return one[fandom.Season](r.s.q(ctx).Where("is_active = ?", true).Order(seasonOrder), "active season")
}

func (r seasonRepo) FindAll(ctx context.Context) ([]fandom.Season, error) {
	return many[fandom.Season](r.s.q(ctx).Order(seasonOrder), "list seasons")
}

func (r seasonRepo) Create(ctx context.Context, row fandom.Season) (fandom.Season, error) {
	if err := row.Validate(); err != nil {
		return fandom.Season{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.Season{}, errs.Backend("create season", err)
	}
	return row, nil
}

func (r seasonRepo) Update(ctx context.Context, row fandom.Season) (fandom.Season, error) {
	if err := row.Validate(); err != nil {
		return fandom.Season{}, err
	}
	return replace(r.s.q(ctx), "season", row.ID, &row)
}

func (r seasonRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Season](r.s.q(ctx), "season", id)
}

type episodeRepo struct{ s *Store }

const episodeOrder = "season_id asc, episode_number asc, id asc"

func (r episodeRepo) FindByID(ctx context.Context, id int64) (*fandom.Episode, error) {
	return one[fandom.Episode](r.s.q(ctx).Where("id = ?", id), "find episode")
}

func (r episodeRepo) FindBySeason(ctx context.Context, seasonID int64) ([]fandom.Episode, error) {
	return many[fandom.Episode](r.s.q(ctx).Where("season_id = ?", seasonID).Order(episodeOrder), "episodes by season")
}

func (r episodeRepo) rankBattles(ctx context.Context, seasonID *int64) *gorm.DB {
	tx := r.s.q(ctx).Where("is_rank_battle = ?", true)
	if seasonID != nil {
		tx = tx.Where("season_id = ?", *seasonID)
	}
	return tx
}

func (r episodeRepo) FindRankBattles(ctx context.Context, seasonID *int64) ([]fandom.Episode, error) {
	return many[fandom.Episode](r.rankBattles(ctx, seasonID).Order(episodeOrder), "rank battles")
}

func (r episodeRepo) FindLatestRankBattle(ctx context.Context, seasonID *int64) (*fandom.Episode, error) {
	return one[fandom.Episode](r.rankBattles(ctx, seasonID).Order("broadcast_date desc, id desc"), "latest rank battle")
}

func (r episodeRepo) IsVipForEpisode(ctx context.Context, userID string, episodeID int64) (bool, error) {
	return repository.IsVipForEpisode(ctx, r.s.Rankings(), userID, episodeID)
}

func (r episodeRepo) IsVipForRankBattles(ctx context.Context, userID string, seasonID *int64) (bool, error) {
	return repository.IsVipForRankBattles(ctx, r.s.Seasons(), r, r.s.Rankings(), userID, seasonID)
}

func (r episodeRepo) Create(ctx context.Context, row fandom.Episode) (fandom.Episode, error) {
	if err := row.Validate(); err != nil {
		return fandom.Episode{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.Episode{}, errs.Backend("create episode", err)
	}
	return row, nil
}

func (r episodeRepo) Update(ctx context.Context, row fandom.Episode) (fandom.Episode, error) {
	if err := row.Validate(); err != nil {
		return fandom.Episode{}, err
	}
	return replace(r.s.q(ctx), "episode", row.ID, &row)
}

func (r episodeRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Episode](r.s.q(ctx), "episode", id)
}
