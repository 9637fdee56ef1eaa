package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role domain.Role) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    "pw",
		FirstName:   "A",
		LastName:    "B",
		Role:        role,
		Specialties: datatypes.JSON([]byte("[]")),
		Interests:   datatypes.JSON([]byte("[]")),
		Conditions:  datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedConnection(tb testing.TB, ctx context.Context, tx *gorm.DB, requester, receiver uuid.UUID, status domain.ConnectionStatus) *domain.Connection {
	tb.Helper()
	c := &domain.Connection{
		ID:          uuid.New(),
		RequesterID: requester,
		ReceiverID:  receiver,
		Status:      status,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed connection: %v", err)
	}
	return c
}

func SeedMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, sender, receiver uuid.UUID, body string) *domain.Message {
	tb.Helper()
	m := &domain.Message{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       body,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}
