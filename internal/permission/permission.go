// Package permission decides who may act on a resource.
package permission

import (
	"context"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
)

// IsAdmin reports whether role is admin or superadmin.
func IsAdmin(role fandom.Role) bool {
	return role == fandom.RoleAdmin || role == fandom.RoleSuperadmin
}

// IsModerator reports whether role is moderator or above.
func IsModerator(role fandom.Role) bool {
	return role == fandom.RoleModerator || IsAdmin(role)
}

// OwnerOrModerator allows the owner, or any moderator and above.
func OwnerOrModerator(actorID, ownerID string, role fandom.Role) bool {
	if isOwner(actorID, ownerID) {
		return true
	}
	return IsModerator(role)
}

// OwnerOrAdmin allows the owner, or an admin. Moderators are not enough.
func OwnerOrAdmin(actorID, ownerID string, role fandom.Role) bool {
	if isOwner(actorID, ownerID) {
		return true
	}
	return IsAdmin(role)
}

func isOwner(actorID, ownerID string) bool {
	return actorID != "" && actorID == ownerID
}

// DeniedError is the uniform refusal. Its message is safe to show to callers.
type DeniedError struct {
	Action string
}

func (e *DeniedError) Error() string         { return "insufficient permission for " + e.Action }
func (e *DeniedError) PublicMessage() string { return e.Error() }
func (e *DeniedError) Is(target error) bool {
	return target == errs.ErrForbidden
}

// Deny builds the refusal for action.
func Deny(action string) error { return &DeniedError{Action: action} }

// RoleSource looks up an actor's role. ok is false when the actor has no profile.
type RoleSource interface {
	RoleOf(ctx context.Context, actorID string) (role fandom.Role, ok bool, err error)
}

// Decision is the outcome of a check, kept for callers that branch on who passed.
type Decision struct {
	Allowed     bool
	IsOwner     bool
	IsAdmin     bool
	IsModerator bool
	Role        fandom.Role
}

// Resolver runs checks against roles fetched from a RoleSource.
type Resolver struct {
	roles RoleSource
}

func NewResolver(roles RoleSource) *Resolver {
	return &Resolver{roles: roles}
}

// Role returns the actor's role, or ok=false when there is no profile.
func (r *Resolver) Role(ctx context.Context, actorID string) (fandom.Role, bool, error) {
	return r.roles.RoleOf(ctx, actorID)
}

// RequireOwnerOrModerator checks ownership first and only then fetches the role.
func (r *Resolver) RequireOwnerOrModerator(ctx context.Context, actorID, ownerID, action string) (Decision, error) {
	return r.require(ctx, actorID, ownerID, action, OwnerOrModerator)
}

// RequireOwnerOrAdmin is the narrower tier used for VIP private content.
func (r *Resolver) RequireOwnerOrAdmin(ctx context.Context, actorID, ownerID, action string) (Decision, error) {
	return r.require(ctx, actorID, ownerID, action, OwnerOrAdmin)
}

// RequireAdmin refuses anyone below admin.
func (r *Resolver) RequireAdmin(ctx context.Context, actorID, action string) (Decision, error) {
	return r.require(ctx, actorID, "", action, func(_, _ string, role fandom.Role) bool { return IsAdmin(role) })
}

func (r *Resolver) require(ctx context.Context, actorID, ownerID, action string, allow func(string, string, fandom.Role) bool) (Decision, error) {
	d := Decision{IsOwner: isOwner(actorID, ownerID)}
	if d.IsOwner {
		d.Allowed = true
		return d, nil
	}
	role, ok, err := r.roles.RoleOf(ctx, actorID)
	if err != nil {
		return d, err
	}
	if ok {
		d.Role = role
		d.IsAdmin = IsAdmin(role)
		d.IsModerator = IsModerator(role)
	}
	if !ok || !allow(actorID, ownerID, role) {
		return d, Deny(action)
	}
	d.Allowed = true
	return d, nil
}
