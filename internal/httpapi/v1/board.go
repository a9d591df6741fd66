package v1

import (
	"net/http"
	"strings"

	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/service/board"
)

const recentLimit = 5

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	page, ok := pageOptions(w, r)
	if !ok {
		return
	}
	opts := repository.PostListOptions{Board: fandom.BoardType(r.URL.Query().Get("board")), PageOptions: page}
	writeResult(w, http.StatusOK, s.deps.Board.ListPosts(r.Context(), opts))
}

func (s *Server) searchPosts(w http.ResponseWriter, r *http.Request) {
	page, ok := pageOptions(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	writeResult(w, http.StatusOK, s.deps.Board.SearchPosts(r.Context(), repository.PostSearch{
		Query:       strings.TrimSpace(q.Get("q")),
		Type:        repository.SearchType(q.Get("type")),
		Board:       fandom.BoardType(q.Get("board")),
		PageOptions: page,
	}))
}

func (s *Server) recentPosts(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", recentLimit)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.RecentPosts(r.Context(), limit))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.GetPost(r.Context(), id))
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in board.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Board.CreatePost(r.Context(), in))
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in board.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.UpdatePost(r.Context(), id, in))
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.DeletePost(r.Context(), id))
}

func (s *Server) hasLiked(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.HasLiked(r.Context(), id))
}

func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.ToggleLike(r.Context(), id))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.Comments(r.Context(), id))
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in board.CommentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	writeResult(w, http.StatusCreated, s.deps.Board.CreateComment(r.Context(), id, in))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.DeleteComment(r.Context(), id))
}

func (s *Server) listNotices(w http.ResponseWriter, r *http.Request) {
	page, ok := pageOptions(w, r)
	if !ok {
		return
	}
	opts := repository.NoticeListOptions{Category: r.URL.Query().Get("category"), PageOptions: page}
	writeResult(w, http.StatusOK, s.deps.Board.Notices(r.Context(), opts))
}

func (s *Server) searchNotices(w http.ResponseWriter, r *http.Request) {
	page, ok := pageOptions(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	writeResult(w, http.StatusOK, s.deps.Board.SearchNotices(r.Context(), repository.NoticeSearch{
		Query:       strings.TrimSpace(q.Get("q")),
		Category:    q.Get("category"),
		PageOptions: page,
	}))
}

func (s *Server) recentNotices(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", recentLimit)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.RecentNotices(r.Context(), limit))
}

func (s *Server) getNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, s.deps.Board.GetNotice(r.Context(), id))
}
