package memory

import (
	"cmp"
	"context"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/ranking"
	"github.com/tinoosan/fanbase/internal/repository"
)

type donationRepo struct{ s *Store }

func donationNewest(a, b fandom.Donation) int { return desc(a.CreatedAt, b.CreatedAt, a.ID, b.ID) }

// donationInserted is the encounter order the ranking aggregator sees.
func donationInserted(a, b fandom.Donation) int { return cmp.Compare(a.ID, b.ID) }

func (r donationRepo) FindByID(_ context.Context, id int64) (*fandom.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.donations.get(id); ok {
		return &row, nil
	}
	return nil, nil
}

func byDonor(donorID string) func(fandom.Donation) bool {
	return func(d fandom.Donation) bool { return d.DonorID != nil && *d.DonorID == donorID }
}

func byEpisode(episodeID int64) func(fandom.Donation) bool {
	return func(d fandom.Donation) bool { return d.EpisodeID != nil && *d.EpisodeID == episodeID }
}

func (r donationRepo) FindByDonor(_ context.Context, donorID string) ([]fandom.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.donations.list(byDonor(donorID), donationNewest), nil
}

func (r donationRepo) FindBySeason(_ context.Context, seasonID int64) ([]fandom.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.donations.list(func(d fandom.Donation) bool { return d.SeasonID == seasonID }, donationNewest), nil
}

func (r donationRepo) FindByEpisode(_ context.Context, episodeID int64) ([]fandom.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.donations.list(byEpisode(episodeID), func(a, b fandom.Donation) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}), nil
}

func (r donationRepo) sum(keep func(fandom.Donation) bool) int64 {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total int64
	for _, d := range r.s.donations.rows {
		if keep(d) {
			total += d.Amount
		}
	}
	return total
}

func (r donationRepo) GetTotal(_ context.Context, donorID string) (int64, error) {
	return r.sum(byDonor(donorID)), nil
}

func (r donationRepo) GetTotalByEpisode(_ context.Context, episodeID int64) (int64, error) {
	return r.sum(byEpisode(episodeID)), nil
}

func (r donationRepo) FindAll(_ context.Context) ([]fandom.Donation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.donations.list(nil, donationNewest), nil
}

func (r donationRepo) FindPaginated(ctx context.Context, opts repository.PageOptions) (repository.Page[fandom.Donation], error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return repository.Page[fandom.Donation]{}, err
	}
	return repository.Paginate(all, opts), nil
}

func (r donationRepo) Create(_ context.Context, row fandom.Donation) (fandom.Donation, error) {
	if err := row.Validate(); err != nil {
		return fandom.Donation{}, err
	}
	stamp(&row.CreatedAt, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.donations.insert(row), nil
}

func (r donationRepo) Update(_ context.Context, row fandom.Donation) (fandom.Donation, error) {
	if err := row.Validate(); err != nil {
		return fandom.Donation{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.donations.get(row.ID)
	if !ok {
		return fandom.Donation{}, errs.NotFound("donation")
	}
	row.CreatedAt = cur.CreatedAt
	r.s.donations.replace(row)
	return row, nil
}

func (r donationRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.donations.remove(id) {
		return errs.NotFound("donation")
	}
	return nil
}

type rankingRepo struct{ s *Store }

// rank aggregates donations selected by keep, in insertion order.
func (r rankingRepo) rank(keep func(fandom.Donation) bool, opts ranking.Options) []fandom.RankingItem {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.s.donations.list(keep, donationInserted)
	profiles := r.s.profileMap(ranking.DonorIDs(rows))
	return ranking.Aggregate(ranking.FromDonations(rows, profiles), opts)
}

func (r rankingRepo) GetRankings(_ context.Context, q repository.RankingQuery) ([]fandom.RankingItem, error) {
	unit, scoped := repository.UnitScope(q.Unit)
	keep := func(d fandom.Donation) bool {
		if q.SeasonID != nil && d.SeasonID != *q.SeasonID {
			return false
		}
		if scoped && (d.Unit == nil || *d.Unit != unit) {
			return false
		}
		return true
	}
	return r.rank(keep, ranking.Options{SeasonID: q.SeasonID, Cohort: repository.Cohort(q.Unit)}), nil
}

func (r rankingRepo) GetTopRankers(_ context.Context, limit int) ([]fandom.RankingItem, error) {
	if limit <= 0 {
		limit = repository.DefaultTopRankers
	}
	return r.rank(nil, ranking.Options{Cohort: limit}), nil
}

func (r rankingRepo) GetEpisodeRankings(_ context.Context, episodeID int64, limit int) ([]fandom.RankingItem, error) {
	if limit <= 0 {
		limit = ranking.VIPCohortSize
	}
	return r.rank(byEpisode(episodeID), ranking.Options{Cohort: limit}), nil
}
