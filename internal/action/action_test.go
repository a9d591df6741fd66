package action

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/permission"
	"github.com/tinoosan/fanbase/internal/storage/memory"
)

func newRunner(t *testing.T) (*Runner, *invalidation.Recorder, *bytes.Buffer) {
	t.Helper()
	store := memory.New()
	store.Load(fixture.Default())
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := &invalidation.Recorder{}
	return NewRunner(logger, permission.NewResolver(ProfileRoles{Profiles: store.Profiles()}), rec), rec, &buf
}

func TestResultHasExactlyOneSide(t *testing.T) {
	r, _, _ := newRunner(t)
	ctx := context.Background()

	good := Public(ctx, r, "answer", func(context.Context) (int, error) { return 42, nil })
	require.NotNil(t, good.Data)
	assert.Nil(t, good.Error)
	assert.True(t, good.OK())
	v, err := good.Value()
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	bad := Public(ctx, r, "answer", func(context.Context) (int, error) { return 0, errs.NotFound("answer") })
	assert.Nil(t, bad.Data)
	require.NotNil(t, bad.Error)
	_, err = bad.Value()
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestResultWireShape(t *testing.T) {
	r, _, _ := newRunner(t)
	bad := Public(context.Background(), r, "answer", func(context.Context) (int, error) { return 0, errs.NotFound("answer") })
	raw, err := json.Marshal(bad)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null,"error":{"kind":"not_found","message":"answer not found"}}`, string(raw))
	assert.Equal(t, "answer not found", bad.Error.Message)
}

func TestZeroValueDataIsStillData(t *testing.T) {
	r, _, _ := newRunner(t)
	res := Public(context.Background(), r, "empty", func(context.Context) ([]string, error) { return nil, nil })
	require.NotNil(t, res.Data)
	assert.Nil(t, res.Error)
}

func TestAuthenticatedRequiresActor(t *testing.T) {
	r, rec, _ := newRunner(t)
	called := false
	res := Authenticated(context.Background(), r, "post.create", func(context.Context, string) (int, error) {
		called = true
		return 1, nil
	}, invalidation.Both(invalidation.Posts)...)

	assert.False(t, called)
	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindNotAuthenticated, res.Error.Kind)
	assert.Equal(t, "authentication required", res.Error.Message)
	assert.Empty(t, rec.Events())
}

func TestAuthenticatedPassesActor(t *testing.T) {
	r, _, _ := newRunner(t)
	ctx := WithActor(context.Background(), fixture.MemberID)
	res := Authenticated(ctx, r, "whoami", func(_ context.Context, actorID string) (string, error) {
		return actorID, nil
	})
	v, err := res.Value()
	require.NoError(t, err)
	assert.Equal(t, fixture.MemberID, v)
}

func TestAdminTier(t *testing.T) {
	r, _, _ := newRunner(t)
	body := func(context.Context, string) (bool, error) { return true, nil }

	tests := []struct {
		name  string
		actor string
		kind  errs.Kind
	}{
		{"superadmin", fixture.AdminID, errs.KindNone},
		{"moderator", fixture.ModeratorID, errs.KindForbidden},
		{"vip", fixture.DonorID(1), errs.KindForbidden},
		{"unknown profile", "ghost", errs.KindForbidden},
		{"anonymous", "", errs.KindNotAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.actor != "" {
				ctx = WithActor(ctx, tt.actor)
			}
			res := Admin(ctx, r, "banner.delete", body)
			if tt.kind == errs.KindNone {
				assert.True(t, res.OK())
				return
			}
			require.NotNil(t, res.Error)
			assert.Equal(t, tt.kind, res.Error.Kind)
			if tt.kind == errs.KindForbidden {
				assert.Equal(t, "insufficient permission for banner.delete", res.Error.Message)
			}
		})
	}
}

func TestInvalidationOnlyAfterSuccess(t *testing.T) {
	r, rec, _ := newRunner(t)
	ctx := WithActor(context.Background(), fixture.AdminID)

	Admin(ctx, r, "banner.delete", func(context.Context, string) (int, error) {
		return 0, errs.NotFound("banner")
	}, invalidation.Both(invalidation.Banners)...)
	assert.Empty(t, rec.Events())

	Admin(ctx, r, "banner.delete", func(context.Context, string) (int, error) {
		return 1, nil
	}, invalidation.Both(invalidation.Banners)...)
	assert.Equal(t, []string{"public:banners", "admin:banners"}, rec.Keys())
}

func TestBackendErrorsAreSanitizedAndLogged(t *testing.T) {
	r, _, logs := newRunner(t)
	raw := errs.Backend("select donations", errors.New("pq: password authentication failed for user \"app\""))

	res := Public(context.Background(), r, "rankings.season", func(context.Context) (int, error) { return 0, raw })
	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindBackend, res.Error.Kind)
	assert.Equal(t, "request failed", res.Error.Message)
	assert.NotContains(t, res.Error.Message, "password")
	assert.Contains(t, logs.String(), "password authentication failed")
	assert.Contains(t, logs.String(), "rankings.season")
}

func TestPanicsBecomeBackendFailures(t *testing.T) {
	r, rec, logs := newRunner(t)
	res := Public(context.Background(), r, "explode", func(context.Context) (int, error) {
		panic("nil map write")
	}, invalidation.Both(invalidation.Media)...)

	require.NotNil(t, res.Error)
	assert.Equal(t, errs.KindBackend, res.Error.Kind)
	assert.Equal(t, "request failed", res.Error.Message)
	assert.Empty(t, rec.Events())
	assert.Contains(t, logs.String(), "action panicked")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.Kind
		msg  string
	}{
		{"validation", fmt.Errorf("create: %w", errs.Validation("amount must be >= 0")), errs.KindValidation, "amount must be >= 0"},
		{"bare validation", errs.ErrValidation, errs.KindValidation, "invalid request"},
		{"not found", errs.NotFound("post"), errs.KindNotFound, "post not found"},
		{"denied", permission.Deny("post.delete"), errs.KindForbidden, "insufficient permission for post.delete"},
		{"bare forbidden", errs.ErrForbidden, errs.KindForbidden, "insufficient permission for act"},
		{"conflict", errs.ErrConflict, errs.KindConflict, "already exists"},
		{"unknown", errors.New("boom"), errs.KindBackend, "request failed"},
		{"context", context.DeadlineExceeded, errs.KindBackend, "request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Sanitize("act", tt.err)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.msg, f.Message)
		})
	}
}

func TestActorFrom(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	assert.False(t, ok)
	_, ok = ActorFrom(WithActor(context.Background(), ""))
	assert.False(t, ok)
	id, ok := ActorFrom(WithActor(context.Background(), "u"))
	assert.True(t, ok)
	assert.Equal(t, "u", id)
}
