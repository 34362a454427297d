package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
)

type fakeUsers struct {
	created  *fbauth.UserRecord
	err      error
	claims   map[string]interface{}
	revoked  string
	claimUID string
}

func (f *fakeUsers) CreateUser(context.Context, *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	return f.created, f.err
}

func (f *fakeUsers) SetCustomUserClaims(_ context.Context, uid string, claims map[string]interface{}) error {
	f.claimUID = uid
	f.claims = claims
	return nil
}

func (f *fakeUsers) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = uid
	return nil
}

type fakePasswords struct {
	resp *identitytoolkit.VerifyPasswordResponse
	err  error
}

func (f fakePasswords) VerifyPassword(context.Context, string, string) (*identitytoolkit.VerifyPasswordResponse, error) {
	return f.resp, f.err
}

func TestFirebaseAccounts_SignUpSetsDefaultRole(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	users := &fakeUsers{created: &fbauth.UserRecord{
		UserInfo:     &fbauth.UserInfo{UID: "fb-9", Email: "new@co.io", DisplayName: "New Hire"},
		UserMetadata: &fbauth.UserMetadata{CreationTimestamp: created.UnixMilli()},
	}}
	a := &FirebaseAccounts{users: users, now: time.Now}

	acc, err := a.SignUp(context.Background(), SignUpInput{Email: "new@co.io", Password: "longenough", FullName: "New Hire"})
	require.NoError(t, err)
	assert.Equal(t, "fb-9", acc.ID)
	assert.Equal(t, "New Hire", acc.FullName)
	assert.Equal(t, RoleAuthenticated, acc.Role)
	assert.True(t, acc.IsActive)
	assert.Equal(t, created, acc.CreatedAt)

	assert.Equal(t, "fb-9", users.claimUID)
	assert.Equal(t, map[string]interface{}{"role": "authenticated"}, users.claims)
}

func TestFirebaseAccounts_SignUpFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	a := &FirebaseAccounts{users: &fakeUsers{err: boom}, now: time.Now}

	_, err := a.SignUp(context.Background(), SignUpInput{Email: "x@co.io", Password: "longenough"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAccountExists)
}

func TestFirebaseAccounts_SignIn(t *testing.T) {
	a := &FirebaseAccounts{passwords: fakePasswords{resp: &identitytoolkit.VerifyPasswordResponse{
		IdToken: "id-token", RefreshToken: "refresh", ExpiresIn: 3600,
		LocalId: "fb-1", Email: "ada@co.io", DisplayName: "Ada",
	}}}

	sess, err := a.SignIn(context.Background(), Credentials{Email: "ada@co.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "id-token", sess.AccessToken)
	assert.Equal(t, "bearer", sess.TokenType)
	assert.Equal(t, int64(3600), sess.ExpiresIn)
	assert.Equal(t, "fb-1", sess.User.ID)
	assert.Equal(t, "Ada", sess.User.FullName)
}

func TestFirebaseAccounts_SignInErrors(t *testing.T) {
	bad := &FirebaseAccounts{passwords: fakePasswords{err: &googleapi.Error{Code: http.StatusBadRequest, Message: "INVALID_PASSWORD"}}}
	_, err := bad.SignIn(context.Background(), Credentials{Email: "a@co.io", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	down := &FirebaseAccounts{passwords: fakePasswords{err: &googleapi.Error{Code: http.StatusServiceUnavailable}}}
	_, err = down.SignIn(context.Background(), Credentials{Email: "a@co.io", Password: "pw"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	disabled := &FirebaseAccounts{}
	_, err = disabled.SignIn(context.Background(), Credentials{Email: "a@co.io", Password: "pw"})
	assert.ErrorIs(t, err, ErrPasswordSignInDisabled)
}

func TestFirebaseAccounts_SignOutRevokes(t *testing.T) {
	users := &fakeUsers{}
	a := &FirebaseAccounts{users: users}

	require.NoError(t, a.SignOut(context.Background(), "fb-3"))
	assert.Equal(t, "fb-3", users.revoked)
}
