package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/ctxutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService authenticates callers and resolves them to persisted users.
// Role is loaded from the user store on every resolution, never cached, so a
// role change takes effect on the caller's next request.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	LoginWithGoogle(ctx context.Context, googleIDToken string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context) (*TokenPair, error)
	Logout(ctx context.Context) error

	// SetContextFromToken attaches the authenticated principal to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	// ResolveUser loads the acting user, including current role.
	ResolveUser(ctx context.Context) (*domain.User, error)
	// RequireRole resolves the acting user and fails with Forbidden when the
	// role does not match.
	RequireRole(ctx context.Context, role domain.Role) (*domain.User, error)
}

// GoogleVerifier validates a Google-issued ID token against an audience.
// Swapped for a stub in tests.
type GoogleVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo

	jwtSecretKey   string
	accessTTL      time.Duration
	refreshTTL     time.Duration
	googleAudience string
	verifyGoogle   GoogleVerifier
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	googleAudience string,
) AuthService {
	return &authService{
		db:             db,
		log:            log.With("service", "AuthService"),
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		jwtSecretKey:   jwtSecretKey,
		accessTTL:      accessTTL,
		refreshTTL:     refreshTTL,
		googleAudience: googleAudience,
		verifyGoogle:   idtoken.Validate,
	}
}

func (as *authService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if as.db == nil {
		return fn(nil)
	}
	return as.db.WithContext(ctx).Transaction(fn)
}

func (as *authService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.Invalid("valid email required")
	}
	if len(req.Password) < 8 {
		return nil, apierr.Invalid("password must be at least 8 characters")
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, apierr.Invalid("first and last name required")
	}

	existing, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if existing != nil {
		return nil, apierr.Conflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
	}
	if _, err := as.userRepo.Create(ctx, nil, []*domain.User{user}); err != nil {
		return nil, apierr.Storage(err)
	}
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, apierr.Invalid("email and password required")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, nil, apierr.Storage(err)
	}
	if user == nil || user.Password == "" {
		return nil, nil, apierr.Unauthenticated("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, apierr.Unauthenticated("invalid credentials")
	}

	pair, err := as.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (as *authService) LoginWithGoogle(ctx context.Context, googleIDToken string) (*TokenPair, *domain.User, error) {
	googleIDToken = strings.TrimSpace(googleIDToken)
	if googleIDToken == "" {
		return nil, nil, apierr.Invalid("id_token required")
	}

	payload, err := as.verifyGoogle(ctx, googleIDToken, as.googleAudience)
	if err != nil {
		return nil, nil, apierr.Unauthenticated("invalid Google token")
	}

	email, _ := payload.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil, apierr.Unauthenticated("Google token missing email")
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, nil, apierr.Storage(err)
	}
	if user == nil {
		firstName, _ := payload.Claims["given_name"].(string)
		lastName, _ := payload.Claims["family_name"].(string)
		if firstName == "" {
			firstName = email
		}
		user = &domain.User{
			ID:        uuid.New(),
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
		}
		if _, err := as.userRepo.Create(ctx, nil, []*domain.User{user}); err != nil {
			return nil, nil, apierr.Storage(err)
		}
	}

	pair, err := as.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (as *authService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("generate access token: %w", err))
	}
	refreshToken := uuid.New().String()

	err = as.inTx(ctx, func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteExpired(ctx, tx, time.Now()); err != nil {
			return err
		}
		return as.userTokenRepo.Create(ctx, tx, &domain.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		})
	})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (as *authService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) Refresh(ctx context.Context) (*TokenPair, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return nil, apierr.Unauthenticated("no session")
	}

	existing, err := as.userTokenRepo.GetByRefreshToken(ctx, nil, rd.RefreshToken)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if existing == nil || existing.ExpiresAt.Before(time.Now()) {
		return nil, apierr.Unauthenticated("session expired")
	}

	user, err := as.userRepo.GetByID(ctx, nil, existing.UserID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if user == nil {
		return nil, apierr.Unauthenticated("user no longer exists")
	}

	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return nil, apierr.Storage(fmt.Errorf("generate access token: %w", err))
	}
	newRefreshToken := uuid.New().String()

	err = as.inTx(ctx, func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
			return err
		}
		return as.userTokenRepo.Create(ctx, tx, &domain.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		})
	})
	if err != nil {
		return nil, apierr.Storage(err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthenticated("no session")
	}
	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID); err != nil {
		return apierr.Storage(err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthenticated("missing token")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return ctx, apierr.Unauthenticated("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return ctx, apierr.Unauthenticated("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthenticated("invalid subject in token")
	}

	rd := &ctxutil.RequestData{
		UserID:      userID,
		TokenString: tokenString,
	}
	if stored, err := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString); err == nil && stored != nil {
		rd.RefreshToken = stored.RefreshToken
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) ResolveUser(ctx context.Context) (*domain.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated("no authenticated user")
	}
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if user == nil {
		return nil, apierr.Unauthenticated("user no longer exists")
	}
	return user, nil
}

func (as *authService) RequireRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	user, err := as.ResolveUser(ctx)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, apierr.Forbidden(fmt.Sprintf("requires %s role", role))
	}
	return user, nil
}
