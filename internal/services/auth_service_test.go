package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/ctxutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	svc := NewAuthService(nil, logger.Nop(), userRepo, tokenRepo,
		"test-secret", 15*time.Minute, 24*time.Hour, "test-audience")
	return svc, userRepo, tokenRepo
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Email:     "Ada@Example.org",
		Password:  "correct horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", user.Email, "email is normalized")
	assert.NotEqual(t, "correct horse", user.Password, "password is stored hashed")
	assert.Equal(t, domain.RoleUnset, user.Role, "role starts unset")

	pair, got, err := svc.Login(ctx, "ada@example.org", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, _, err = svc.Login(ctx, "ada@example.org", "wrong password")
	assertStatusCode(t, err, http.StatusUnauthorized)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "longenough", FirstName: "A", LastName: "B"}},
		{"short password", RegisterRequest{Email: "a@b.org", Password: "short", FirstName: "A", LastName: "B"}},
		{"missing name", RegisterRequest{Email: "a@b.org", Password: "longenough", FirstName: "", LastName: "B"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			assertStatusCode(t, err, http.StatusBadRequest)
		})
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "a@b.org", Password: "longenough", FirstName: "A", LastName: "B"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)
	_, err = svc.Register(ctx, req)
	assertStatusCode(t, err, http.StatusBadRequest)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Email: "a@b.org", Password: "longenough", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "a@b.org", "longenough")
	require.NoError(t, err)

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	resolved, err := svc.ResolveUser(authed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.SetContextFromToken(ctx, "not-a-jwt")
	assertStatusCode(t, err, http.StatusUnauthorized)
}

func TestAuthRefreshRotatesSession(t *testing.T) {
	svc, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email: "a@b.org", Password: "longenough", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	pair, user, err := svc.Login(ctx, "a@b.org", "longenough")
	require.NoError(t, err)

	authed := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
	})
	next, err := svc.Refresh(authed)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The old refresh token was consumed.
	stale, err := tokenRepo.GetByRefreshToken(ctx, nil, pair.RefreshToken)
	require.NoError(t, err)
	assert.Nil(t, stale)

	_, err = svc.Refresh(authed)
	assertStatusCode(t, err, http.StatusUnauthorized)
}

func TestAuthLogoutDropsAllSessions(t *testing.T) {
	svc, _, tokenRepo := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email: "a@b.org", Password: "longenough", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	_, user, err := svc.Login(ctx, "a@b.org", "longenough")
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "a@b.org", "longenough")
	require.NoError(t, err)

	authed := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: user.ID})
	require.NoError(t, svc.Logout(authed))

	remaining, err := tokenRepo.GetByUserID(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestAuthLoginWithGoogle(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	svc.(*authService).verifyGoogle = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		assert.Equal(t, "test-audience", audience)
		return &idtoken.Payload{Claims: map[string]interface{}{
			"email":       "G.User@Example.org",
			"given_name":  "G",
			"family_name": "User",
		}}, nil
	}

	pair, user, err := svc.LoginWithGoogle(ctx, "google-token")
	require.NoError(t, err)
	assert.Equal(t, "g.user@example.org", user.Email)
	assert.NotEmpty(t, pair.AccessToken)

	// Second login reuses the provisioned account.
	_, again, err := svc.LoginWithGoogle(ctx, "google-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	stored, err := userRepo.GetByEmail(ctx, nil, "g.user@example.org")
	require.NoError(t, err)
	assert.Empty(t, stored.Password, "OAuth accounts carry no password")
	_, _, err = svc.Login(ctx, "g.user@example.org", "anything")
	assertStatusCode(t, err, http.StatusUnauthorized)
}

func TestAuthRequireRole(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)
	ctx := context.Background()

	r := seedResearcher("r@lab.org")
	_, err := userRepo.Create(ctx, nil, []*domain.User{r})
	require.NoError(t, err)

	authed := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: r.ID})
	got, err := svc.RequireRole(authed, domain.RoleResearcher)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = svc.RequireRole(authed, domain.RolePatient)
	assertStatusCode(t, err, http.StatusForbidden)

	_, err = svc.RequireRole(ctx, domain.RoleResearcher)
	assertStatusCode(t, err, http.StatusUnauthorized)
}
