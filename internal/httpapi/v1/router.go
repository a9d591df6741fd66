// Package v1 wires the HTTP surface of the fanbase service.
// Handlers stay thin: they parse parameters, call an action and write its
// envelope.
package v1

import (
	"context"
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/service/admin"
	"github.com/tinoosan/fanbase/internal/service/board"
	"github.com/tinoosan/fanbase/internal/service/content"
	"github.com/tinoosan/fanbase/internal/service/rankings"
	"github.com/tinoosan/fanbase/internal/service/tribute"
)

// ReadyChecker reports whether the storage backend can serve requests.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Deps are the services the routes call.
type Deps struct {
	Rankings rankings.Service
	Board    board.Service
	Tribute  tribute.Service
	Content  content.Service
	Admin    admin.Service
	Ready    ReadyChecker
}

// NewDeps builds every service over one backend and runner.
func NewDeps(b repository.Backend, run *action.Runner, ready ReadyChecker) Deps {
	return Deps{
		Rankings: rankings.New(b, run),
		Board:    board.New(b, run),
		Tribute:  tribute.New(b, run),
		Content:  content.New(b, run),
		Admin:    admin.New(b, run),
		Ready:    ready,
	}
}

// Server wires handlers and middleware using Chi.
type Server struct {
	deps Deps
	log  *slog.Logger
	rt   *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
func New(deps Deps, auth Auth, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(metricsMiddleware)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(auth.middleware(logger))

	s := &Server{deps: deps, log: logger, rt: r}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

func (s *Server) routes() {
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Handle("/metrics", metricsHandler())

	s.rt.Route("/v1", func(r chi.Router) {
		// Rankings
		r.Get("/rankings", s.seasonRankings)
		r.Get("/rankings/current", s.currentRankings)
		r.Get("/rankings/top", s.topRankers)
		r.Get("/episodes/{id}/rankings", s.episodeRankings)
		r.Get("/seasons", s.seasons)
		r.Get("/rank-battles", s.rankBattles)
		r.Get("/vip-members", s.vipMembers)
		r.Get("/me/vip", s.amIVip)
		r.Get("/me/vip/episodes/{id}", s.amIVipForEpisode)

		// Board
		r.Get("/posts", s.listPosts)
		r.Post("/posts", s.createPost)
		r.Get("/posts/search", s.searchPosts)
		r.Get("/posts/recent", s.recentPosts)
		r.Get("/posts/{id}", s.getPost)
		r.Patch("/posts/{id}", s.updatePost)
		r.Delete("/posts/{id}", s.deletePost)
		r.Get("/posts/{id}/like", s.hasLiked)
		r.Post("/posts/{id}/like", s.toggleLike)
		r.Get("/posts/{id}/comments", s.listComments)
		r.Post("/posts/{id}/comments", s.createComment)
		r.Delete("/comments/{id}", s.deleteComment)
		r.Get("/notices", s.listNotices)
		r.Get("/notices/search", s.searchNotices)
		r.Get("/notices/recent", s.recentNotices)
		r.Get("/notices/{id}", s.getNotice)

		// Content
		r.Get("/schedules", s.schedules)
		r.Get("/timeline", s.timeline)
		r.Get("/timeline/categories", s.timelineCategories)
		r.Get("/signatures", s.signatures)
		r.Get("/media", s.media)
		r.Get("/live", s.live)
		r.Get("/banners", s.banners)
		r.Get("/organization", s.organization)

		// Tribute
		r.Get("/tributes/{profileID}", s.tributePage)
		r.Post("/tributes/{profileID}/guestbook", s.writeGuestbook)
		r.Delete("/guestbook/{id}", s.deleteGuestbook)
		r.Get("/vip-rewards", s.seasonRewards)
		r.Get("/vip-rewards/top", s.topRewards)
		r.Post("/vip-rewards/{id}/images", s.addImage)
		r.Delete("/vip-images/{id}", s.removeImage)

		r.Route("/admin", s.adminRoutes)
	})
}

func (s *Server) adminRoutes(r chi.Router) {
	r.Post("/donations", s.createDonation)
	r.Put("/donations/{id}", s.updateDonation)
	r.Delete("/donations/{id}", s.deleteDonation)
	r.Post("/donations/delete", s.deleteDonations)

	r.Post("/banners", s.createBanner)
	r.Put("/banners/{id}", s.updateBanner)
	r.Delete("/banners/{id}", s.deleteBanner)
	r.Post("/banners/{id}/toggle", s.toggleBanner)
	r.Post("/banners/reorder", s.reorderBanners)

	r.Post("/schedules", s.createSchedule)
	r.Delete("/schedules/{id}", s.deleteSchedule)
	r.Post("/schedules/delete", s.deleteSchedules)

	r.Put("/live", s.upsertLive)

	r.Get("/guestbook/pending", s.pendingGuestbook)
	r.Post("/guestbook/{id}/approve", s.approveGuestbook)

	r.Put("/profiles/{id}/role", s.setRole)

	r.Post("/notices", s.createNotice)
	r.Delete("/notices/{id}", s.deleteNotice)

	r.Post("/tables/{table}", s.queryTable)
}
