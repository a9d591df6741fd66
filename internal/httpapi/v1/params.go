package v1

import (
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

// pathID parses a positive numeric path parameter. On failure it has already
// answered the request.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt returns def when the parameter is absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(w, "invalid "+name)
		return 0, false
	}
	return n, true
}

// queryInt64Ptr returns nil when the parameter is absent.
func queryInt64Ptr(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(w, "invalid "+name)
		return nil, false
	}
	return &n, true
}

// queryUnit returns nil for an absent unit. Validity is left to the action.
func queryUnit(r *http.Request) *fandom.Unit {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("unit")))
	if raw == "" {
		return nil
	}
	u := fandom.Unit(raw)
	return &u
}

func queryUnitFilter(w http.ResponseWriter, r *http.Request) (fandom.UnitFilter, bool) {
	f, ok := fandom.ParseUnitFilter(r.URL.Query().Get("unit"))
	if !ok {
		badRequest(w, "invalid unit")
	}
	return f, ok
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

func pageOptions(w http.ResponseWriter, r *http.Request) (repository.PageOptions, bool) {
	page, ok := queryInt(w, r, "page", 1)
	if !ok {
		return repository.PageOptions{}, false
	}
	limit, ok := queryInt(w, r, "limit", repository.DefaultPageSize)
	if !ok {
		return repository.PageOptions{}, false
	}
	return repository.PageOptions{Page: page, Limit: limit}, true
}

// idList is the body of batch endpoints.
type idList struct {
	IDs []int64 `json:"ids"`
}
