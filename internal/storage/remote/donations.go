package remote

import (
	"context"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/ranking"
	"github.com/tinoosan/fanbase/internal/repository"
)

type donationRepo struct{ s *Store }

const donationOrder = "created_at desc, id desc"

func (r donationRepo) FindByID(ctx context.Context, id int64) (*fandom.Donation, error) {
	return one[fandom.Donation](r.s.q(ctx).Where("id = ?", id), "find donation")
}

func (r donationRepo) FindByDonor(ctx context.Context, donorID string) ([]fandom.Donation, error) {
	return many[fandom.Donation](r.s.q(ctx).Where("donor_id = ?", donorID).Order(donationOrder), "donations by donor")
}

func (r donationRepo) FindBySeason(ctx context.Context, seasonID int64) ([]fandom.Donation, error) {
	return many[fandom.Donation](r.s.q(ctx).Where("season_id = ?", seasonID).Order(donationOrder), "donations by season")
}

func (r donationRepo) FindByEpisode(ctx context.Context, episodeID int64) ([]fandom.Donation, error) {
	return many[fandom.Donation](r.s.q(ctx).Where("episode_id = ?", episodeID).Order("amount desc, id asc"), "donations by episode")
}

func (r donationRepo) sum(ctx context.Context, op, column string, value any) (int64, error) {
	var total int64
	err := r.s.q(ctx).Model(&fandom.Donation{}).
		Select("COALESCE(SUM(amount), 0)").
		Where(column+" = ?", value).
		Scan(&total).Error
	if err != nil {
		return 0, errs.Backend(op, err)
	}
	return total, nil
}

func (r donationRepo) GetTotal(ctx context.Context, donorID string) (int64, error) {
	return r.sum(ctx, "donor total", "donor_id", donorID)
}

func (r donationRepo) GetTotalByEpisode(ctx context.Context, episodeID int64) (int64, error) {
	return r.sum(ctx, "episode total", "episode_id", episodeID)
}

func (r donationRepo) FindAll(ctx context.Context) ([]fandom.Donation, error) {
	return many[fandom.Donation](r.s.q(ctx).Order(donationOrder), "list donations")
}

func (r donationRepo) FindPaginated(ctx context.Context, opts repository.PageOptions) (repository.Page[fandom.Donation], error) {
	return page[fandom.Donation](r.s.q(ctx), "page donations", donationOrder, opts)
}

func (r donationRepo) Create(ctx context.Context, row fandom.Donation) (fandom.Donation, error) {
	if err := row.Validate(); err != nil {
		return fandom.Donation{}, err
	}
	row.ID = 0
	if err := r.s.q(ctx).Create(&row).Error; err != nil {
		return fandom.Donation{}, errs.Backend("create donation", err)
	}
	return row, nil
}

func (r donationRepo) Update(ctx context.Context, row fandom.Donation) (fandom.Donation, error) {
	if err := row.Validate(); err != nil {
		return fandom.Donation{}, err
	}
	return replace(r.s.q(ctx), "donation", row.ID, &row)
}

func (r donationRepo) Delete(ctx context.Context, id int64) error {
	return remove[fandom.Donation](r.s.q(ctx), "donation", id)
}

type rankingRepo struct{ s *Store }

// rank aggregates the selected donations in id order, the same encounter
// order the fixture backend uses.
func (r rankingRepo) rank(ctx context.Context, seasonID *int64, unit *fandom.Unit, episodeID *int64, opts ranking.Options) ([]fandom.RankingItem, error) {
	tx := r.s.q(ctx).Order("id asc")
	if seasonID != nil {
		tx = tx.Where("season_id = ?", *seasonID)
	}
	if unit != nil {
		tx = tx.Where("unit = ?", *unit)
	}
	if episodeID != nil {
		tx = tx.Where("episode_id = ?", *episodeID)
	}
	rows, err := many[fandom.Donation](tx, "ranking donations")
	if err != nil {
		return nil, err
	}
	profiles, err := r.s.profileMap(ctx, ranking.DonorIDs(rows))
	if err != nil {
		return nil, err
	}
	return ranking.Aggregate(ranking.FromDonations(rows, profiles), opts), nil
}

func (r rankingRepo) GetRankings(ctx context.Context, q repository.RankingQuery) ([]fandom.RankingItem, error) {
	var unit *fandom.Unit
	if u, ok := repository.UnitScope(q.Unit); ok {
		unit = &u
	}
	return r.rank(ctx, q.SeasonID, unit, nil, ranking.Options{SeasonID: q.SeasonID, Cohort: repository.Cohort(q.Unit)})
}

func (r rankingRepo) GetTopRankers(ctx context.Context, limit int) ([]fandom.RankingItem, error) {
	if limit <= 0 {
		limit = repository.DefaultTopRankers
	}
	return r.rank(ctx, nil, nil, nil, ranking.Options{Cohort: limit})
}

func (r rankingRepo) GetEpisodeRankings(ctx context.Context, episodeID int64, limit int) ([]fandom.RankingItem, error) {
	if limit <= 0 {
		limit = ranking.VIPCohortSize
	}
	return r.rank(ctx, nil, nil, &episodeID, ranking.Options{Cohort: limit})
}
