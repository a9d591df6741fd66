package v1

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/permission"
	"github.com/tinoosan/fanbase/internal/storage/memory"
)

const secret = "test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

type readyFunc func(context.Context) error

func (f readyFunc) Ready(ctx context.Context) error { return f(ctx) }

func setupWith(t *testing.T, auth Auth, ready ReadyChecker) (http.Handler, *invalidation.Recorder) {
	t.Helper()
	store := memory.New()
	store.Load(fixture.Default())
	rec := &invalidation.Recorder{}
	run := action.NewRunner(testLogger(), permission.NewResolver(action.ProfileRoles{Profiles: store.Profiles()}), rec)
	if ready == nil {
		ready = store
	}
	return New(NewDeps(store, run, ready), auth, testLogger()).Handler(), rec
}

func setup(t *testing.T) http.Handler {
	h, _ := setupWith(t, Auth{Secret: secret, Issuer: "fanbase-test"}, nil)
	return h
}

func sign(t *testing.T, claims map[string]any) string {
	t.Helper()
	enc := base64.RawURLEncoding
	hdr, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	body, err := json.Marshal(claims)
	require.NoError(t, err)
	unsigned := enc.EncodeToString(hdr) + "." + enc.EncodeToString(body)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(unsigned))
	return unsigned + "." + enc.EncodeToString(mac.Sum(nil))
}

func tokenFor(t *testing.T, sub string) string {
	return sign(t, map[string]any{"sub": sub, "iss": "fanbase-test", "exp": time.Now().Add(time.Hour).Unix()})
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var env envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func TestHealthAndReady(t *testing.T) {
	h := setup(t)
	rr, _ := do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = do(t, h, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	down, _ := setupWith(t, Auth{}, readyFunc(func(context.Context) error { return errors.New("db down") }))
	rr, _ = do(t, down, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr, _ = do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSeasonRankings(t *testing.T) {
	h := setup(t)
	rr, env := do(t, h, http.MethodGet, "/v1/rankings?season_id=4", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Nil(t, env.Error)
	var items []struct {
		Rank      int    `json:"rank"`
		DonorName string `json:"donor_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.NotEmpty(t, items)
	assert.Equal(t, 1, items[0].Rank)
	assert.Equal(t, "PinkHeart", items[0].DonorName)

	rr, env = do(t, h, http.MethodGet, "/v1/rankings/top", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 3)

	rr, env = do(t, h, http.MethodGet, "/v1/rankings?unit=galaxy", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid unit", env.Error.Message)
}

func TestStatusMapping(t *testing.T) {
	h := setup(t)

	rr, env := do(t, h, http.MethodGet, "/v1/posts/5", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Kind)
	assert.Equal(t, "post not found", env.Error.Message)
	assert.Equal(t, "null", string(env.Data))

	rr, env = do(t, h, http.MethodGet, "/v1/schedules?year=2024&month=13", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_failed", env.Error.Kind)

	rr, _ = do(t, h, http.MethodGet, "/v1/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, env = do(t, h, http.MethodGet, "/v1/me/vip", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "authentication required", env.Error.Message)
}

func TestCreatePostAsBearer(t *testing.T) {
	h, rec := setupWith(t, Auth{Secret: secret, Issuer: "fanbase-test"}, nil)
	in := map[string]any{"board_type": "free", "title": "hello", "content": "first post"}

	rr, env := do(t, h, http.MethodPost, "/v1/posts", "", in)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "not_authenticated", env.Error.Kind)
	assert.Empty(t, rec.Keys())

	actor := fixture.DonorID(3)
	rr, env = do(t, h, http.MethodPost, "/v1/posts", tokenFor(t, actor), in)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var post struct {
		ID       int64  `json:"id"`
		AuthorID string `json:"author_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, actor, post.AuthorID)
	assert.Positive(t, post.ID)
	assert.ElementsMatch(t, []string{"public:posts", "admin:posts"}, rec.Keys())

	rr, env = do(t, h, http.MethodPost, "/v1/posts", tokenFor(t, actor), `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid JSON body", env.Error.Message)
}

func TestBearerRejections(t *testing.T) {
	h := setup(t)
	cases := map[string]string{
		"garbage":    "not.a.token",
		"expired":    sign(t, map[string]any{"sub": fixture.AdminID, "iss": "fanbase-test", "exp": time.Now().Add(-time.Minute).Unix()}),
		"not before": sign(t, map[string]any{"sub": fixture.AdminID, "iss": "fanbase-test", "nbf": time.Now().Add(time.Hour).Unix()}),
		"issuer":     sign(t, map[string]any{"sub": fixture.AdminID, "iss": "someone-else"}),
		"no subject": sign(t, map[string]any{"iss": "fanbase-test"}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			rr, env := do(t, h, http.MethodGet, "/v1/seasons", tok, nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "invalid token", env.Error.Message)
		})
	}

	rr, _ := do(t, h, http.MethodGet, "/v1/seasons", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestActorHeaderNeedsTrust(t *testing.T) {
	call := func(h http.Handler) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/me/vip", nil)
		req.Header.Set(ActorHeader, fixture.DonorID(7))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	untrusted, _ := setupWith(t, Auth{}, nil)
	assert.Equal(t, http.StatusUnauthorized, call(untrusted))

	trusted, _ := setupWith(t, Auth{TrustActorHeader: true}, nil)
	assert.Equal(t, http.StatusOK, call(trusted))
}

func TestAdminTables(t *testing.T) {
	h := setup(t)
	q := map[string]any{"filter": map[string]any{
		"conditions": []map[string]any{{"field": "amount", "operator": "gte", "value": 20000}},
	}}

	rr, env := do(t, h, http.MethodPost, "/v1/admin/tables/donations", tokenFor(t, fixture.AdminID), q)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var page struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
		TotalCount int64 `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	ids := make([]int64, 0, len(page.Data))
	for _, d := range page.Data {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int64{6, 12, 13, 20}, ids)
	assert.Equal(t, int64(4), page.TotalCount)

	rr, env = do(t, h, http.MethodPost, "/v1/admin/tables/donations", tokenFor(t, fixture.ModeratorID), q)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "forbidden", env.Error.Kind)

	rr, _ = do(t, h, http.MethodPost, "/v1/admin/tables/wallets", tokenFor(t, fixture.AdminID), q)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminBatchDelete(t *testing.T) {
	h, rec := setupWith(t, Auth{Secret: secret, Issuer: "fanbase-test"}, nil)
	rr, env := do(t, h, http.MethodPost, "/v1/admin/donations/delete", tokenFor(t, fixture.AdminID), map[string]any{"ids": []int64{3, 99, 4}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var items []struct {
		ID    int64  `json:"id"`
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 3)
	assert.True(t, items[0].OK)
	assert.False(t, items[1].OK)
	assert.Equal(t, "not found", items[1].Error)
	assert.False(t, items[2].OK)
	assert.Contains(t, rec.Keys(), "public:rankings")
}
