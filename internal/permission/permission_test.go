package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
)

type roleMap map[string]fandom.Role

func (m roleMap) RoleOf(_ context.Context, id string) (fandom.Role, bool, error) {
	r, ok := m[id]
	return r, ok, nil
}

type failingRoles struct{}

func (failingRoles) RoleOf(context.Context, string) (fandom.Role, bool, error) {
	return "", false, errors.New("connection reset")
}

func TestPrecedence(t *testing.T) {
	assert.True(t, OwnerOrAdmin("X", "X", fandom.RoleMember), "owner wins regardless of role")
	assert.True(t, OwnerOrModerator("Y", "X", fandom.RoleModerator))
	assert.False(t, OwnerOrModerator("Y", "X", fandom.RoleVIP))
	assert.False(t, OwnerOrAdmin("Y", "X", fandom.RoleModerator), "moderator is not enough for admin tier")
	assert.True(t, OwnerOrAdmin("Y", "X", fandom.RoleSuperadmin))
	assert.False(t, OwnerOrAdmin("", "", fandom.RoleMember), "empty actor is never an owner")
}

func TestRoleHelpers(t *testing.T) {
	for _, r := range []fandom.Role{fandom.RoleModerator, fandom.RoleAdmin, fandom.RoleSuperadmin} {
		assert.True(t, IsModerator(r), r)
	}
	assert.False(t, IsModerator(fandom.RoleVIP))
	assert.False(t, IsAdmin(fandom.RoleModerator))
	assert.True(t, fandom.RoleAdmin.AtLeast(fandom.RoleModerator))
	assert.False(t, fandom.Role("guest").AtLeast(fandom.RoleMember))
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	res := NewResolver(roleMap{"mod": fandom.RoleModerator, "adm": fandom.RoleAdmin, "vip": fandom.RoleVIP})

	d, err := res.RequireOwnerOrModerator(ctx, "mod", "someone", "delete post")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.True(t, d.IsModerator)
	assert.False(t, d.IsOwner)

	_, err = res.RequireOwnerOrModerator(ctx, "vip", "someone", "delete post")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, "insufficient permission for delete post", err.Error())

	_, err = res.RequireOwnerOrAdmin(ctx, "mod", "someone", "remove vip image")
	assert.ErrorIs(t, err, errs.ErrForbidden)

	d, err = res.RequireOwnerOrAdmin(ctx, "nobody", "nobody", "remove vip image")
	require.NoError(t, err)
	assert.True(t, d.IsOwner)

	_, err = res.RequireAdmin(ctx, "ghost", "manage banners")
	assert.ErrorIs(t, err, errs.ErrForbidden)

	d, err = res.RequireAdmin(ctx, "adm", "manage banners")
	require.NoError(t, err)
	assert.True(t, d.IsAdmin)
}

func TestResolver_BackendErrorPropagates(t *testing.T) {
	_, err := NewResolver(failingRoles{}).RequireOwnerOrModerator(context.Background(), "a", "b", "edit")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrForbidden)
}

func TestResolver_OwnerSkipsLookup(t *testing.T) {
	d, err := NewResolver(failingRoles{}).RequireOwnerOrAdmin(context.Background(), "a", "a", "edit")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
