package v1

import (
	"net/http"
)

func (s *Server) seasonRankings(w http.ResponseWriter, r *http.Request) {
	season, ok := queryInt64Ptr(w, r, "season_id")
	if !ok {
		return
	}
	unit, ok := queryUnitFilter(w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Rankings.Season(r.Context(), season, unit))
}

func (s *Server) currentRankings(w http.ResponseWriter, r *http.Request) {
	unit, ok := queryUnitFilter(w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Rankings.Current(r.Context(), unit))
}

func (s *Server) topRankers(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Rankings.Top(r.Context(), limit))
}

func (s *Server) episodeRankings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Rankings.Episode(r.Context(), id, limit))
}

func (s *Server) seasons(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Rankings.Seasons(r.Context()))
}

func (s *Server) rankBattles(w http.ResponseWriter, r *http.Request) {
	season, ok := queryInt64Ptr(w, r, "season_id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Rankings.RankBattles(r.Context(), season))
}

func (s *Server) vipMembers(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, s.deps.Rankings.VipMembers(r.Context()))
}

func (s *Server) amIVip(w http.ResponseWriter, r *http.Request) {
	season, ok := queryInt64Ptr(w, r, "season_id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Rankings.AmIVipForRankBattles(r.Context(), season))
}

func (s *Server) amIVipForEpisode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Rankings.AmIVipForEpisode(r.Context(), id))
}
