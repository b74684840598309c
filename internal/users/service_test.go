package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"preschool/internal/apperr"
	"preschool/internal/auth"
)

type fakeRevoker struct {
	revoked []int64
	err     error
}

func (f *fakeRevoker) Revoke(_ context.Context, userID int64) error {
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, userID)
	return nil
}

func newTestService() (*Service, *fakeRevoker) {
	rev := &fakeRevoker{}
	svc := NewService(NewMemoryRepository(), rev, nil)
	svc.cost = bcrypt.MinCost
	return svc, rev
}

var adminActor = auth.Actor{UserID: 99, Email: "root@x.com", Role: auth.RoleAdmin}

func TestCreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	u, err := svc.Create(ctx, NewUser{Email: " Teacher@School.com ", Name: "Tina", Role: "teacher", Password: "secret-pass"}, auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "teacher@school.com", u.Email)
	assert.NotEqual(t, "secret-pass", u.PasswordHash)

	actor, err := svc.Authenticate(ctx, Credentials{Email: "TEACHER@school.com", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, actor.UserID)
	assert.Equal(t, auth.RoleTeacher, actor.Role)

	_, err = svc.Authenticate(ctx, Credentials{Email: "teacher@school.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = svc.Authenticate(ctx, Credentials{Email: "nobody@school.com", Password: "secret-pass"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = svc.Authenticate(ctx, Credentials{Email: "nope"})
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Create(ctx, NewUser{Email: "a@x.com", Name: "A", Role: "teacher", Password: "pw"}, auth.RolePrincipal)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Create(ctx, NewUser{Email: "a@x.com", Name: "A", Role: "janitor", Password: "long-enough"}, auth.RoleAdmin)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "role", verr.Fields[0].Field)

	_, err = svc.Create(ctx, NewUser{Email: "a@x.com", Name: "A", Role: "parent", Password: "long-enough"}, auth.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Create(ctx, NewUser{Email: "A@x.com", Name: "B", Role: "parent", Password: "long-enough"}, auth.RoleAdmin)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields[0].Field)
}

func TestDeleteRevokesSessions(t *testing.T) {
	ctx := context.Background()
	svc, rev := newTestService()
	u, err := svc.Create(ctx, NewUser{Email: "p@x.com", Name: "P", Role: "principal", Password: "long-enough"}, auth.RoleAdmin)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID, auth.Actor{UserID: 5, Role: auth.RolePrincipal}), apperr.ErrUnauthorized)
	assert.True(t, apperr.IsValidation(svc.Delete(ctx, adminActor.UserID, adminActor)))

	require.NoError(t, svc.Delete(ctx, u.ID, adminActor))
	assert.Equal(t, []int64{u.ID}, rev.revoked)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID, adminActor), apperr.ErrNotFound)

	list, err := svc.List(ctx, auth.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteKeepsAccountWhenRevokeFails(t *testing.T) {
	ctx := context.Background()
	svc, rev := newTestService()
	u, err := svc.Create(ctx, NewUser{Email: "p@x.com", Name: "P", Role: "principal", Password: "long-enough"}, auth.RoleAdmin)
	require.NoError(t, err)

	rev.err = errors.New("redis down")
	err = svc.Delete(ctx, u.ID, adminActor)
	require.Error(t, err)
	assert.ErrorIs(t, err, rev.err)

	list, err := svc.List(ctx, auth.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, u.ID, list[0].ID)

	rev.err = nil
	require.NoError(t, svc.Delete(ctx, u.ID, adminActor))
	assert.Equal(t, []int64{u.ID}, rev.revoked)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.EnsureAdmin(ctx, "admin@x.com", "Admin", "bootstrap-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin@x.com", "Admin", "other-pass")
	require.NoError(t, err)
	assert.False(t, created)

	actor, err := svc.Authenticate(ctx, Credentials{Email: "admin@x.com", Password: "bootstrap-pass"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, actor.Role)

	_, err = svc.EnsureAdmin(ctx, "other@x.com", "Admin", "")
	assert.True(t, apperr.IsValidation(err))
}
