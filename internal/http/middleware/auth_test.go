package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/ctxutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
	"github.com/curalink/curalink-backend/internal/services"
)

// stubAuthService accepts exactly one token and rejects everything else.
type stubAuthService struct {
	validToken string
	userID     uuid.UUID
}

func (s *stubAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString != s.validToken {
		return ctx, apierr.Unauthenticated("invalid or expired token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: s.userID, TokenString: tokenString}), nil
}

func (s *stubAuthService) Register(context.Context, services.RegisterRequest) (*domain.User, error) {
	return nil, nil
}
func (s *stubAuthService) Login(context.Context, string, string) (*services.TokenPair, *domain.User, error) {
	return nil, nil, nil
}
func (s *stubAuthService) LoginWithGoogle(context.Context, string) (*services.TokenPair, *domain.User, error) {
	return nil, nil, nil
}
func (s *stubAuthService) Refresh(context.Context) (*services.TokenPair, error) { return nil, nil }
func (s *stubAuthService) Logout(context.Context) error                         { return nil }
func (s *stubAuthService) ResolveUser(context.Context) (*domain.User, error)    { return nil, nil }
func (s *stubAuthService) RequireRole(context.Context, domain.Role) (*domain.User, error) {
	return nil, nil
}

func newAuthTestRouter(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), &stubAuthService{validToken: "good-token", userID: userID})
	r := gin.New()
	r.Use(am.RequireAuth())
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": ctxutil.UserID(c.Request.Context())})
	})
	return r
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	userID := uuid.New()
	r := newAuthTestRouter(userID)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

func TestRequireAuthAcceptsQueryToken(t *testing.T) {
	r := newAuthTestRouter(uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/protected?token=good-token", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejects(t *testing.T) {
	r := newAuthTestRouter(uuid.New())

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
