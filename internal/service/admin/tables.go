package admin

import (
	"context"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

// Search fields per table.
var (
	profileSearch   = []string{"nickname", "email"}
	donationSearch  = []string{"donor_name", "message"}
	postSearch      = []string{"title", "author_name"}
	noticeSearch    = []string{"title", "content"}
	scheduleSearch  = []string{"title", "description", "location"}
	signatureSearch = []string{"title", "member_name"}
	mediaSearch     = []string{"title", "description"}
	bannerSearch    = []string{"title", "image_url", "link_url"}
)

// table loads every row of one entity in its canonical order and applies the
// caller's filter, with the search fields replaced by the table's own.
func table[T any](ctx context.Context, s *service, name string, fields []string, q TableQuery, load func(context.Context) ([]T, error)) action.Result[repository.Page[T]] {
	return action.Admin(ctx, s.run, name, func(ctx context.Context, _ string) (repository.Page[T], error) {
		rows, err := load(ctx)
		if err != nil {
			return repository.Page[T]{}, err
		}
		fq := q.Filter
		fq.SearchFields = fields
		return repository.FilterPage(rows, fq, q.Page)
	})
}

func (s *service) ProfilesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Profile]] {
	return table(ctx, s, "tables.profiles", profileSearch, q, s.b.Profiles().FindAll)
}

func (s *service) DonationsTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Donation]] {
	return table(ctx, s, "tables.donations", donationSearch, q, s.b.Donations().FindAll)
}

func (s *service) PostsTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.PostItem]] {
	return table(ctx, s, "tables.posts", postSearch, q, s.b.Posts().FindAll)
}

func (s *service) NoticesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Notice]] {
	return table(ctx, s, "tables.notices", noticeSearch, q, s.b.Notices().FindAll)
}

func (s *service) SchedulesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Schedule]] {
	return table(ctx, s, "tables.schedules", scheduleSearch, q, s.b.Schedules().FindAll)
}

func (s *service) SignaturesTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Signature]] {
	return table(ctx, s, "tables.signatures", signatureSearch, q, s.b.Signatures().FindAll)
}

func (s *service) MediaTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Media]] {
	return table(ctx, s, "tables.media", mediaSearch, q, s.b.Media().FindAll)
}

func (s *service) BannersTable(ctx context.Context, q TableQuery) action.Result[repository.Page[fandom.Banner]] {
	return table(ctx, s, "tables.banners", bannerSearch, q, s.b.Banners().FindAll)
}
