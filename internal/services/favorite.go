package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/curalink/curalink-backend/internal/data/repos"
	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

// FavoriteBuckets groups a user's saved items by kind. All three keys are
// always present so clients never branch on missing fields.
type FavoriteBuckets map[domain.FavoriteKind][]string

type FavoriteService interface {
	List(ctx context.Context, userID uuid.UUID) (FavoriteBuckets, error)
	Add(ctx context.Context, userID uuid.UUID, kind domain.FavoriteKind, itemID string) error
	Remove(ctx context.Context, userID uuid.UUID, kind domain.FavoriteKind, itemID string) error
}

type favoriteService struct {
	log          *logger.Logger
	favoriteRepo repos.FavoriteRepo
}

func NewFavoriteService(log *logger.Logger, favoriteRepo repos.FavoriteRepo) FavoriteService {
	return &favoriteService{
		log:          log.With("service", "FavoriteService"),
		favoriteRepo: favoriteRepo,
	}
}

func validateFavorite(kind domain.FavoriteKind, itemID string) (string, error) {
	if !kind.Valid() {
		return "", apierr.Invalid(fmt.Sprintf("unknown favorite kind %q", kind))
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return "", apierr.Invalid("itemId required")
	}
	return itemID, nil
}

func (s *favoriteService) List(ctx context.Context, userID uuid.UUID) (FavoriteBuckets, error) {
	rows, err := s.favoriteRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Storage(err)
	}
	buckets := FavoriteBuckets{
		domain.FavoriteExperts:      {},
		domain.FavoriteTrials:       {},
		domain.FavoritePublications: {},
	}
	for _, f := range rows {
		buckets[f.Kind] = append(buckets[f.Kind], f.ItemID)
	}
	return buckets, nil
}

func (s *favoriteService) Add(ctx context.Context, userID uuid.UUID, kind domain.FavoriteKind, itemID string) error {
	itemID, err := validateFavorite(kind, itemID)
	if err != nil {
		return err
	}
	fav := &domain.Favorite{
		ID:     uuid.New(),
		UserID: userID,
		Kind:   kind,
		ItemID: itemID,
	}
	if err := s.favoriteRepo.Insert(ctx, nil, fav); err != nil {
		return apierr.Storage(err)
	}
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID uuid.UUID, kind domain.FavoriteKind, itemID string) error {
	itemID, err := validateFavorite(kind, itemID)
	if err != nil {
		return err
	}
	if err := s.favoriteRepo.Delete(ctx, nil, userID, kind, itemID); err != nil {
		return apierr.Storage(err)
	}
	return nil
}
