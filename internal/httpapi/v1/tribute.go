package v1

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/tinoosan/fanbase/internal/service/tribute"
)

type guestbookRequest struct {
	Message string `json:"message"`
}

func (s *Server) tributePage(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Tribute.Page(r.Context(), chi.URLParam(r, "profileID")))
}

func (s *Server) writeGuestbook(w http.ResponseWriter, r *http.Request) {
	var req guestbookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Tribute.WriteGuestbook(r.Context(), chi.URLParam(r, "profileID"), req.Message))
}

func (s *Server) deleteGuestbook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Tribute.DeleteGuestbook(r.Context(), id))
}

func (s *Server) seasonRewards(w http.ResponseWriter, r *http.Request) {
	season, ok := queryInt64Ptr(w, r, "season_id")
	if !ok {
		return
	}
	if season == nil {
		badRequest(w, "season_id is required")
		return
	}
	writeResult(w, http.StatusOK, s.deps.Tribute.SeasonRewards(r.Context(), *season))
}

func (s *Server) topRewards(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	season, ok := queryInt64Ptr(w, r, "season_id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Tribute.TopRewards(r.Context(), limit, season))
}

func (s *Server) addImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in tribute.ImageInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Tribute.AddImage(r.Context(), id, in))
}

func (s *Server) removeImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Tribute.RemoveImage(r.Context(), id))
}
