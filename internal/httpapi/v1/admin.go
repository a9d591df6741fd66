package v1

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/service/admin"
)

type roleRequest struct {
	Role fandom.Role `json:"role"`
}

func (s *Server) createDonation(w http.ResponseWriter, r *http.Request) {
	var in admin.DonationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Admin.CreateDonation(r.Context(), in))
}

func (s *Server) updateDonation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in admin.DonationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.UpdateDonation(r.Context(), id, in))
}

func (s *Server) deleteDonation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.DeleteDonation(r.Context(), id))
}

func (s *Server) deleteDonations(w http.ResponseWriter, r *http.Request) {
	var req idList
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.DeleteDonations(r.Context(), req.IDs))
}

func (s *Server) createBanner(w http.ResponseWriter, r *http.Request) {
	var in admin.BannerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Admin.CreateBanner(r.Context(), in))
}

func (s *Server) updateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in admin.BannerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.UpdateBanner(r.Context(), id, in))
}

func (s *Server) deleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.DeleteBanner(r.Context(), id))
}

func (s *Server) toggleBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.ToggleBanner(r.Context(), id))
}

func (s *Server) reorderBanners(w http.ResponseWriter, r *http.Request) {
	var req idList
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.ReorderBanners(r.Context(), req.IDs))
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	var in admin.ScheduleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Admin.CreateSchedule(r.Context(), in))
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.DeleteSchedule(r.Context(), id))
}

func (s *Server) deleteSchedules(w http.ResponseWriter, r *http.Request) {
	var req idList
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.DeleteSchedules(r.Context(), req.IDs))
}

func (s *Server) upsertLive(w http.ResponseWriter, r *http.Request) {
	var st fandom.LiveStatus
	if !decodeJSON(w, r, &st) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.UpsertLive(r.Context(), st))
}

func (s *Server) pendingGuestbook(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Admin.PendingGuestbook(r.Context(), r.URL.Query().Get("tribute_user_id")))
}

func (s *Server) approveGuestbook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.ApproveGuestbook(r.Context(), id))
}

func (s *Server) setRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.SetRole(r.Context(), chi.URLParam(r, "id"), req.Role))
}

func (s *Server) createNotice(w http.ResponseWriter, r *http.Request) {
	var in admin.NoticeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Admin.CreateNotice(r.Context(), in))
}

func (s *Server) deleteNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Admin.DeleteNotice(r.Context(), id))
}

func (s *Server) queryTable(w http.ResponseWriter, r *http.Request) {
	var q admin.TableQuery
	if !decodeJSON(w, r, &q) {
		return
	}
	ctx, a := r.Context(), s.deps.Admin
	switch chi.URLParam(r, "table") {
	case "profiles":
		writeResult(w, http.StatusOK, a.ProfilesTable(ctx, q))
	case "donations":
		writeResult(w, http.StatusOK, a.DonationsTable(ctx, q))
	case "posts":
		writeResult(w, http.StatusOK, a.PostsTable(ctx, q))
	case "notices":
		writeResult(w, http.StatusOK, a.NoticesTable(ctx, q))
	case "schedules":
		writeResult(w, http.StatusOK, a.SchedulesTable(ctx, q))
	case "signatures":
		writeResult(w, http.StatusOK, a.SignaturesTable(ctx, q))
	case "media":
		writeResult(w, http.StatusOK, a.MediaTable(ctx, q))
	case "banners":
		writeResult(w, http.StatusOK, a.BannersTable(ctx, q))
	default:
		writeFailure(w, errs.KindNotFound, "table not found")
	}
}
