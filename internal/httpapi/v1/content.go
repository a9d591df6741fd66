package v1

import (
	"net/http"
	"time"

	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/service/content"
)

// schedules defaults to the current UTC month.
func (s *Server) schedules(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year, ok := queryInt(w, r, "year", now.Year())
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month", int(now.Month()))
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Content.Schedules(r.Context(), year, time.Month(month), queryUnit(r)))
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	season, ok := queryInt64Ptr(w, r, "season_id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Content.Timeline(r.Context(), repository.TimelineFilter{
		SeasonID: season,
		Category: r.URL.Query().Get("category"),
		Unit:     queryUnit(r),
	}))
}

func (s *Server) timelineCategories(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Content.TimelineCategories(r.Context()))
}

func (s *Server) signatures(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Content.Signatures(r.Context(), content.SignatureQuery{
		Unit:     queryUnit(r),
		Member:   r.URL.Query().Get("member"),
		Featured: queryBool(r, "featured"),
	}))
}

func (s *Server) media(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Content.Media(r.Context(), content.MediaQuery{
		Type:     fandom.MediaType(r.URL.Query().Get("type")),
		Unit:     queryUnit(r),
		Featured: queryBool(r, "featured"),
	}))
}

func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Content.Live(r.Context()))
}

func (s *Server) banners(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Content.Banners(r.Context()))
}

func (s *Server) organization(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Content.Organization(r.Context(), queryUnit(r)))
}
