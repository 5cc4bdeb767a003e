package auth

import (
	"context"
	"testing"

	"github.com/mauv0809/clubhouse/internal/club"
	"github.com/mauv0809/clubhouse/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (*Service, club.ClubStore) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)
	store := club.New(db)
	return New(store, bcrypt.MinCost), store
}

func TestSignupAndLogin(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	sport, err := store.CreateSport(ctx, "Cricket", club.SportTypeTeam)
	require.NoError(t, err)

	u, err := svc.Signup(ctx, club.SignupRequest{Username: "carol", Email: "carol@club.test", Password: "s3cretpass", Role: club.RoleCoach, SportID: sport.ID})
	require.NoError(t, err)
	assert.False(t, u.Verified)
	require.NotNil(t, u.PrimarySport)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)

	resp, err := svc.Login(ctx, club.LoginRequest{Username: "carol", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, club.RoleCoach, resp.Role)
	assert.False(t, resp.Verified)

	who, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, who.ID)

	require.NoError(t, svc.Logout(ctx, resp.Token))
	_, err = svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, club.ErrNotFound)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Signup(ctx, club.SignupRequest{Username: "pete", Email: "pete@club.test", Password: "longenough", Role: club.RolePlayer})
	require.NoError(t, err)

	_, err = svc.Login(ctx, club.LoginRequest{Username: "pete", Password: "wrong-password"})
	assert.ErrorIs(t, err, club.ErrInvalid)

	_, err = svc.Login(ctx, club.LoginRequest{Username: "nobody", Password: "whatever1"})
	assert.ErrorIs(t, err, club.ErrInvalid)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	cases := []club.SignupRequest{
		{Username: "", Email: "a@b.c", Password: "longenough", Role: club.RolePlayer},
		{Username: "x", Email: "not-an-email", Password: "longenough", Role: club.RolePlayer},
		{Username: "x", Email: "a@b.c", Password: "short", Role: club.RolePlayer},
		{Username: "x", Email: "a@b.c", Password: "longenough", Role: club.RoleAdmin},
		{Username: "x", Email: "a@b.c", Password: "longenough", Role: club.RoleCoach},
	}
	for _, req := range cases {
		_, err := svc.Signup(ctx, req)
		assert.ErrorIs(t, err, club.ErrInvalid, "%+v", req)
	}
}
