package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

// ProfileUpdate carries the editable profile fields. Nil pointers mean
// "leave unchanged"; nil slices likewise.
type ProfileUpdate struct {
	FirstName   *string  `json:"first_name"`
	LastName    *string  `json:"last_name"`
	Bio         *string  `json:"bio"`
	Institution *string  `json:"institution"`
	Location    *string  `json:"location"`
	Specialties []string `json:"specialties"`
	Interests   []string `json:"interests"`
	Conditions  []string `json:"conditions"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error)
	// SelectRole sets the account role exactly once. A second attempt with a
	// different role is a conflict; repeating the same role is a no-op.
	SelectRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error)
	ListResearchers(ctx context.Context) ([]domain.PublicUser, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) getUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	if user == nil {
		return nil, apierr.NotFound("user not found")
	}
	return user, nil
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*domain.User, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setString("first_name", update.FirstName)
	setString("last_name", update.LastName)
	setString("bio", update.Bio)
	setString("institution", update.Institution)
	setString("location", update.Location)

	setList := func(col string, v []string) error {
		if v == nil {
			return nil
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		updates[col] = datatypes.JSON(raw)
		return nil
	}
	for col, v := range map[string][]string{
		"specialties": update.Specialties,
		"interests":   update.Interests,
		"conditions":  update.Conditions,
	} {
		if err := setList(col, v); err != nil {
			return nil, apierr.Invalid("malformed list field")
		}
	}

	if fn, ok := updates["first_name"]; ok && fn == "" {
		return nil, apierr.Invalid("first name cannot be empty")
	}
	if ln, ok := updates["last_name"]; ok && ln == "" {
		return nil, apierr.Invalid("last name cannot be empty")
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateFields(ctx, nil, userID, updates); err != nil {
			return nil, apierr.Storage(err)
		}
	}
	return s.getUser(ctx, userID)
}

func (s *userService) SelectRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apierr.Invalidf("unknown role %q", role)
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	if user.Role != domain.RoleUnset {
		return nil, apierr.Conflict("role already selected")
	}
	if err := s.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{"role": role}); err != nil {
		return nil, apierr.Storage(err)
	}
	user.Role = role
	return user, nil
}

func (s *userService) ListResearchers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.userRepo.ListByRole(ctx, nil, domain.RoleResearcher)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}
