// Package action wraps every caller-facing operation in a uniform envelope.
// A wrapper resolves the actor, checks the access tier, runs the body,
// sanitizes failures and publishes invalidation events after success.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/invalidation"
	"github.com/tinoosan/fanbase/internal/permission"
	"github.com/tinoosan/fanbase/internal/repository"
)

// Failure is the sanitized error half of a Result.
type Failure struct {
	Kind    errs.Kind `json:"kind"`
	Message string    `json:"message"`
}

// Result carries exactly one of Data or Error. On the wire the error is an
// object {"kind", "message"} rather than a bare string; message alone is the
// plain error string callers show to users.
type Result[T any] struct {
	Data  *T       `json:"data"`
	Error *Failure `json:"error"`
}

// OK reports whether the action succeeded.
func (r Result[T]) OK() bool { return r.Error == nil }

// Value returns the data or the failure as an error.
func (r Result[T]) Value() (T, error) {
	if r.Error != nil {
		var zero T
		return zero, r.Error
	}
	return *r.Data, nil
}

func (f *Failure) Error() string { return f.Message }

// Is lets callers match a Failure against the errs sentinels.
func (f *Failure) Is(target error) bool {
	switch f.Kind {
	case errs.KindNotAuthenticated:
		return target == errs.ErrNotAuthenticated
	case errs.KindForbidden:
		return target == errs.ErrForbidden
	case errs.KindNotFound:
		return target == errs.ErrNotFound
	case errs.KindValidation:
		return target == errs.ErrValidation
	case errs.KindConflict:
		return target == errs.ErrConflict
	case errs.KindBackend:
		return target == errs.ErrBackend
	}
	return false
}

func ok[T any](v T) Result[T] { return Result[T]{Data: &v} }

func fail[T any](f Failure) Result[T] { return Result[T]{Error: &f} }

var outcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "fanbase",
		Name:      "action_outcomes_total",
		Help:      "Completed actions by name and outcome kind",
	},
	[]string{"action", "outcome"},
)

type actorKey struct{}

// WithActor attaches the authenticated user id to ctx.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFrom returns the user id attached by WithActor.
func ActorFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	return id, ok && id != ""
}

// Runner holds what every wrapper needs. It is immutable once built.
type Runner struct {
	log   *slog.Logger
	perms *permission.Resolver
	pub   invalidation.Publisher
}

// NewRunner builds a Runner. A nil logger discards and a nil publisher drops events.
func NewRunner(logger *slog.Logger, perms *permission.Resolver, pub invalidation.Publisher) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if pub == nil {
		pub = &invalidation.Recorder{}
	}
	return &Runner{log: logger, perms: perms, pub: pub}
}

// Permissions exposes the resolver for ownership checks inside action bodies.
func (r *Runner) Permissions() *permission.Resolver { return r.perms }

// Public runs fn without requiring an actor.
func Public[T any](ctx context.Context, r *Runner, name string, fn func(ctx context.Context) (T, error), invalidate ...invalidation.Event) Result[T] {
	return run(ctx, r, name, invalidate, func(ctx context.Context) (T, error) {
		return fn(ctx)
	})
}

// Authenticated runs fn for the actor on ctx; without one it fails with NotAuthenticated.
func Authenticated[T any](ctx context.Context, r *Runner, name string, fn func(ctx context.Context, actorID string) (T, error), invalidate ...invalidation.Event) Result[T] {
	return run(ctx, r, name, invalidate, func(ctx context.Context) (T, error) {
		actorID, ok := ActorFrom(ctx)
		if !ok {
			var zero T
			return zero, errs.ErrNotAuthenticated
		}
		return fn(ctx, actorID)
	})
}

// Admin is Authenticated plus an admin-or-above role check.
func Admin[T any](ctx context.Context, r *Runner, name string, fn func(ctx context.Context, actorID string) (T, error), invalidate ...invalidation.Event) Result[T] {
	return run(ctx, r, name, invalidate, func(ctx context.Context) (T, error) {
		var zero T
		actorID, ok := ActorFrom(ctx)
		if !ok {
			return zero, errs.ErrNotAuthenticated
		}
		if _, err := r.perms.RequireAdmin(ctx, actorID, name); err != nil {
			return zero, err
		}
		return fn(ctx, actorID)
	})
}

func run[T any](ctx context.Context, r *Runner, name string, invalidate []invalidation.Event, fn func(context.Context) (T, error)) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v: %w", p, errs.ErrBackend)
			r.log.ErrorContext(ctx, "action panicked", "action", name, "panic", p, "stack", string(debug.Stack()))
			res = fail[T](Sanitize(name, err))
			outcomes.WithLabelValues(name, string(errs.KindBackend)).Inc()
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		f := Sanitize(name, err)
		r.log.ErrorContext(ctx, "action failed", "action", name, "kind", f.Kind, "err", err)
		outcomes.WithLabelValues(name, string(f.Kind)).Inc()
		return fail[T](f)
	}
	if len(invalidate) > 0 {
		r.pub.Publish(ctx, invalidate...)
	}
	outcomes.WithLabelValues(name, "ok").Inc()
	return ok(v)
}

// Sanitize maps err onto the message a caller may see. Backend details never leave.
func Sanitize(action string, err error) Failure {
	kind := errs.KindOf(err)
	f := Failure{Kind: kind}
	switch kind {
	case errs.KindNotAuthenticated:
		f.Message = "authentication required"
	case errs.KindForbidden:
		f.Message = "insufficient permission for " + action
		var denied *permission.DeniedError
		if errors.As(err, &denied) {
			f.Message = denied.Error()
		}
	case errs.KindNotFound:
		f.Message = "not found"
		if msg, ok := errs.PublicMessage(err); ok {
			f.Message = msg
		}
	case errs.KindValidation:
		f.Message = "invalid request"
		if msg, ok := errs.PublicMessage(err); ok {
			f.Message = msg
		}
	case errs.KindConflict:
		f.Message = "already exists"
	default:
		f.Kind = errs.KindBackend
		f.Message = "request failed"
	}
	return f
}

// ProfileRoles adapts the profile repository to a permission.RoleSource.
type ProfileRoles struct {
	Profiles repository.Profiles
}

func (p ProfileRoles) RoleOf(ctx context.Context, actorID string) (fandom.Role, bool, error) {
	if actorID == "" {
		return "", false, nil
	}
	prof, err := p.Profiles.FindByID(ctx, actorID)
	if err != nil {
		return "", false, err
	}
	if prof == nil {
		return "", false, nil
	}
	return prof.Role, true, nil
}

var _ permission.RoleSource = ProfileRoles{}
